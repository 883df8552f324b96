package handler

import (
	"fmt"
	"net/http"

	"go.hackfix.me/strand/async"
	"go.hackfix.me/strand/web/server/types"
)

// Text writes body with the given status code, and ends the pipeline.
func Text(statusCode int, body string) Handler {
	return func(_ Func) Func {
		return func(c *types.Context) *async.Task[*types.Context] {
			err := writeResponse(c, statusCode, "text/plain; charset=utf-8", []byte(body))
			if err != nil {
				return async.FromError[*types.Context](err)
			}
			return EarlyReturn(c)
		}
	}
}

// Respond serializes v using s, writes it with the given status code, and ends
// the pipeline.
func Respond(statusCode int, v any, s Serializer) Handler {
	return func(_ Func) Func {
		return func(c *types.Context) *async.Task[*types.Context] {
			data, err := s.Serialize(v)
			if err != nil {
				return async.FromError[*types.Context](err)
			}
			if err = writeResponse(c, statusCode, s.ContentType(), data); err != nil {
				return async.FromError[*types.Context](err)
			}
			return EarlyReturn(c)
		}
	}
}

// WriteJSON is a shorthand for Respond with the JSON serializer.
func WriteJSON(statusCode int, v any) Handler {
	return Respond(statusCode, v, JSON())
}

// HTTPError writes err as a JSON response with its status code, and ends the
// pipeline.
func HTTPError(err *types.Error) Handler {
	statusCode := err.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	return WriteJSON(statusCode, err)
}

// SetHeader sets a response header and passes the request through.
func SetHeader(key, value string) Handler {
	return func(next Func) Func {
		return func(c *types.Context) *async.Task[*types.Context] {
			c.Response.Header().Set(key, value)
			return next(c)
		}
	}
}

// Method passes the request through only if its method is one of methods.
// Otherwise the request is skipped.
func Method(methods ...string) Handler {
	return func(next Func) Func {
		return func(c *types.Context) *async.Task[*types.Context] {
			for _, m := range methods {
				if c.Request.Method == m {
					return next(c)
				}
			}
			return Skip(c)
		}
	}
}

func writeResponse(c *types.Context, statusCode int, contentType string, data []byte) error {
	if c.Response.Header().Get("Content-Type") == "" {
		c.Response.Header().Set("Content-Type", contentType)
	}

	c.Response.WriteHeader(statusCode)
	if _, err := c.Response.Write(data); err != nil {
		return fmt.Errorf("failed writing response: %w", err)
	}

	return nil
}
