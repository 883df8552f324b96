package types

import (
	"io"
	"net/http"
	"sync/atomic"

	"github.com/felixge/httpsnoop"
)

// Response wraps the http.ResponseWriter of an in-flight request, and tracks
// whether the response has started, i.e. whether the status line or any part
// of the body was sent to the client. Once started, the status code and
// headers can no longer be changed.
type Response struct {
	w       http.ResponseWriter
	started atomic.Bool
	status  atomic.Int64
	written atomic.Int64
}

var _ http.ResponseWriter = (*Response)(nil)

// NewResponse wraps w. The optional interfaces implemented by w (e.g.
// http.Flusher, io.ReaderFrom) are preserved on the writer returned by Writer.
func NewResponse(w http.ResponseWriter) *Response {
	resp := &Response{}
	resp.w = httpsnoop.Wrap(w, httpsnoop.Hooks{
		WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
			return func(code int) {
				// Informational responses may be sent several times before the
				// final one.
				if code >= http.StatusOK {
					resp.start(code)
				}
				next(code)
			}
		},
		Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
			return func(b []byte) (int, error) {
				resp.start(http.StatusOK)
				n, err := next(b)
				resp.written.Add(int64(n))
				return n, err
			}
		},
		ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
			return func(src io.Reader) (int64, error) {
				resp.start(http.StatusOK)
				n, err := next(src)
				resp.written.Add(n)
				return n, err
			}
		},
		Flush: func(next httpsnoop.FlushFunc) httpsnoop.FlushFunc {
			return func() {
				resp.start(http.StatusOK)
				next()
			}
		},
	})

	return resp
}

func (r *Response) start(code int) {
	if r.started.CompareAndSwap(false, true) {
		r.status.Store(int64(code))
	}
}

// HasStarted reports whether the response has begun transmission.
func (r *Response) HasStarted() bool {
	return r.started.Load()
}

// StatusCode returns the status code sent to the client, or 0 if the response
// hasn't started yet.
func (r *Response) StatusCode() int {
	return int(r.status.Load())
}

// Written returns the number of body bytes written so far.
func (r *Response) Written() int64 {
	return r.written.Load()
}

// Header implements http.ResponseWriter.
func (r *Response) Header() http.Header {
	return r.w.Header()
}

// Write implements http.ResponseWriter.
func (r *Response) Write(b []byte) (int, error) {
	return r.w.Write(b) //nolint:wrapcheck // Transparent writer.
}

// WriteHeader implements http.ResponseWriter.
func (r *Response) WriteHeader(code int) {
	r.w.WriteHeader(code)
}

// Writer returns the tracked writer, which implements the same optional
// interfaces as the original http.ResponseWriter.
func (r *Response) Writer() http.ResponseWriter {
	return r.w
}

// Unwrap returns the tracked writer. It's used by http.ResponseController.
func (r *Response) Unwrap() http.ResponseWriter {
	return r.w
}
