package media

import "sync"

// handle keeps the closed flag and the close hooks of an engine object.
type handle struct {
	mu       sync.Mutex
	closed   bool
	handlers []func()
}

// OnClose registers fn to run once the handle is closed. It runs immediately
// when the handle is already closed.
func (h *handle) OnClose(fn func()) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		fn()
		return
	}
	h.handlers = append(h.handlers, fn)
	h.mu.Unlock()
}

func (h *handle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// markClosed marks the handle as closed and runs the hooks. It returns false
// when the handle was already closed.
func (h *handle) markClosed() bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.closed = true
	handlers := h.handlers
	h.handlers = nil
	h.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
	return true
}
