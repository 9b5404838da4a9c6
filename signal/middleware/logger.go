package middleware

import (
	"bufio"
	"errors"
	"go.uber.org/zap"
	"net"
	"net/http"
	"time"
)

// ErrHijackNotSupported is returned when the writer cannot be hijacked.
var ErrHijackNotSupported = errors.New("hijack not supported")

// Logger logs requests and responses.
type Logger struct {
	logger *zap.Logger
}

type logWriter struct {
	http.ResponseWriter
	statusCode int
}

func (l *logWriter) WriteHeader(code int) {
	l.statusCode = code
	l.ResponseWriter.WriteHeader(code)
}

// Hijack hijacks the connection. This is necessary for using websockets.
func (l *logWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := l.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, ErrHijackNotSupported
	}
	l.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

// NewLogger creates a new Logger middleware.
func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger.Named("http")}
}

// Intercept logs the request and response.
func (l Logger) Intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := logWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(&rw, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.statusCode),
			zap.Duration("latency", time.Since(start)),
		}
		if rw.statusCode >= 400 {
			l.logger.Warn("request failed", fields...)
			return
		}
		l.logger.Debug("request succeeded", fields...)
	})
}
