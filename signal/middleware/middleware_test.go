package middleware_test

import (
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"net/http"
	"net/http/httptest"
	"sfu/signal/middleware"
	"testing"
)

func TestMiddleware(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := middleware.Set(next, middleware.NewCORS(), middleware.NewLogger(zap.New(core)))

	t.Run("given preflight request when intercepted then answer with cors headers", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/rooms", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
	})

	t.Run("given failed request when intercepted then log it as warning", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms/r9", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		failed := logs.FilterMessage("request failed").All()
		if assert.Len(t, failed, 1) {
			assert.Equal(t, "/rooms/r9", failed[0].ContextMap()["path"])
			assert.EqualValues(t, http.StatusNotFound, failed[0].ContextMap()["status"])
		}
	})
}
