package controller

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"io"
	"net/http"
	"sfu/coordinator"
	"sfu/media"
	"sfu/types/api/request"
	apiresponse "sfu/types/api/response"
)

const maxBodySize = 1 << 20 // 1 MB

// Handler serves the control API.
type Handler struct {
	coordinator Coordinator
	logger      *zap.Logger
	options     Options
}

// NewHandler creates a new instance of Handler.
func NewHandler(coordinator Coordinator, logger *zap.Logger, options Options) *Handler {
	return &Handler{
		coordinator: coordinator,
		logger:      logger.Named("api"),
		options:     options,
	}
}

// Register registers the routes of the control API.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.health)
	r.GET("/rooms", h.rooms)
	r.GET("/rooms/:roomId", h.room)
	r.POST("/rooms/:roomId/peers", h.joinRoom)
	r.POST("/rooms/:roomId/peers/:peerId/leave", h.leaveRoom)
	r.POST("/rooms/:roomId/transports", h.createTransport)
	r.POST("/rooms/:roomId/transports/:id/connect", h.connectTransport)
	r.POST("/rooms/:roomId/producers", h.produce)
	r.POST("/rooms/:roomId/producers/:id/close", h.closeProducer)
	r.POST("/rooms/:roomId/consumers", h.consume)
	r.POST("/rooms/:roomId/consumers/:id/close", h.closeConsumer)
}

func (h *Handler) health(c *gin.Context) {
	select {
	case <-h.coordinator.Fatal():
		c.JSON(http.StatusServiceUnavailable, apiresponse.Health{Status: apiresponse.StatusFatal})
		return
	default:
	}
	if !h.coordinator.Ready() {
		c.JSON(http.StatusServiceUnavailable, apiresponse.Health{Status: apiresponse.StatusUnavailable})
		return
	}
	c.JSON(http.StatusOK, apiresponse.Health{Status: apiresponse.StatusOK, EngineReady: true})
}

func (h *Handler) rooms(c *gin.Context) {
	rooms, err := h.coordinator.Rooms()
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresponse.Rooms{Rooms: rooms})
}

func (h *Handler) room(c *gin.Context) {
	room, err := h.coordinator.Room(c.Param("roomId"))
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *Handler) joinRoom(c *gin.Context) {
	var req request.JoinRoom
	if err := bind(c, &req, true); err != nil {
		h.Error(c, err)
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	joined, _, err := h.coordinator.Join(ctx, coordinator.JoinRequest{
		RoomID:      c.Param("roomId"),
		RoomName:    req.RoomName,
		PeerID:      req.PeerID,
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		CanProduce:  req.CanProduce,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, joined)
}

func (h *Handler) leaveRoom(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.coordinator.Leave(ctx, c.Param("roomId"), c.Param("peerId")); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresponse.Success{Success: true})
}

func (h *Handler) createTransport(c *gin.Context) {
	var req request.CreateTransport
	if err := bind(c, &req, false); err != nil {
		h.Error(c, err)
		return
	}
	direction, err := media.ParseDirection(req.Direction)
	if err != nil {
		h.Error(c, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	created, err := h.coordinator.CreateTransport(ctx, c.Param("roomId"), req.PeerID, direction)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) connectTransport(c *gin.Context) {
	var req request.ConnectTransport
	if err := bind(c, &req, false); err != nil {
		h.Error(c, err)
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	params := media.ConnectParameters{DTLSParameters: req.DTLSParameters, ICEParameters: req.ICEParameters}
	if err := h.coordinator.ConnectTransport(ctx, c.Param("roomId"), req.PeerID, c.Param("id"), params); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresponse.Success{Success: true})
}

func (h *Handler) produce(c *gin.Context) {
	var req request.Produce
	if err := bind(c, &req, false); err != nil {
		h.Error(c, err)
		return
	}
	kind, err := media.ParseKind(req.Kind)
	if err != nil {
		h.Error(c, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	created, err := h.coordinator.Produce(ctx, c.Param("roomId"), req.PeerID, kind, req.RTPParameters)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) consume(c *gin.Context) {
	var req request.Consume
	if err := bind(c, &req, false); err != nil {
		h.Error(c, err)
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	created, err := h.coordinator.Consume(ctx, c.Param("roomId"), req.PeerID, req.ProducerID, req.RTPCapabilities)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) closeProducer(c *gin.Context) {
	var req request.Close
	if err := bind(c, &req, true); err != nil {
		h.Error(c, err)
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.coordinator.CloseProducer(ctx, c.Param("roomId"), req.PeerID, c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresponse.Success{Success: true})
}

func (h *Handler) closeConsumer(c *gin.Context) {
	var req request.Close
	if err := bind(c, &req, true); err != nil {
		h.Error(c, err)
		return
	}
	ctx, cancel := h.context(c)
	defer cancel()

	if err := h.coordinator.CloseConsumer(ctx, c.Param("roomId"), req.PeerID, c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, apiresponse.Success{Success: true})
}

func (h *Handler) context(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.options.requestTimeout())
}

// bind decodes the JSON body of the request. An empty body is accepted when optional is set.
func bind(c *gin.Context, v any, optional bool) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	if err := c.ShouldBindJSON(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// Error writes the error with its status. The message is hidden unless debug is set.
func (h *Handler) Error(c *gin.Context, err error) {
	body, status := toError(err, h.options.Debug)
	if status >= http.StatusInternalServerError {
		h.logger.Warn("request failed", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, apiresponse.Error{Error: *body})
}
