package types

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
)

// Context is the handle to an in-flight HTTP exchange that is passed through
// every stage of a handler pipeline. It is owned by the server for the
// lifetime of one request.
type Context struct {
	Request  *http.Request
	Response *Response
	// ID is a unique identifier of the request.
	ID     string
	Logger *slog.Logger

	mx    sync.RWMutex
	items map[any]any
}

// NewContext returns a new Context for the given request and response writer.
func NewContext(w http.ResponseWriter, r *http.Request, id string, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}

	resp, ok := w.(*Response)
	if !ok {
		resp = NewResponse(w)
	}

	return &Context{
		Request:  r,
		Response: resp,
		ID:       id,
		Logger:   logger,
	}
}

// Context returns the context of the underlying HTTP request. It is canceled
// when the client disconnects, or when the server shuts down.
func (c *Context) Context() context.Context {
	return c.Request.Context()
}

// Get returns the item stored under key by a previous pipeline stage.
func (c *Context) Get(key any) (any, bool) {
	c.mx.RLock()
	defer c.mx.RUnlock()
	v, ok := c.items[key]
	return v, ok
}

// Set stores an item that later pipeline stages can retrieve with Get.
func (c *Context) Set(key, val any) {
	c.mx.Lock()
	defer c.mx.Unlock()
	if c.items == nil {
		c.items = make(map[any]any)
	}
	c.items[key] = val
}
