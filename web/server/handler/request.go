package handler

import (
	"net/http"

	"go.hackfix.me/strand/async"
	"go.hackfix.me/strand/web/server/types"
)

// Bind deserializes the request body into a new value of type T using s, and
// continues with the stage returned by fn. If the body can't be deserialized,
// a 400 Bad Request response ends the pipeline. If T implements
// Validate() error, the value is validated as well.
func Bind[T any](s Serializer, fn func(T) Handler) Handler {
	return func(next Func) Func {
		return func(c *types.Context) *async.Task[*types.Context] {
			var v T
			if err := s.Deserialize(c, &v); err != nil {
				return HTTPError(types.NewError(http.StatusBadRequest, err.Error()))(next)(c)
			}

			if vv, ok := any(&v).(interface{ Validate() error }); ok {
				if err := vv.Validate(); err != nil {
					return HTTPError(types.NewError(http.StatusBadRequest, err.Error()))(next)(c)
				}
			}

			return fn(v)(next)(c)
		}
	}
}

// BindJSON is a shorthand for Bind with the JSON serializer.
func BindJSON[T any](fn func(T) Handler) Handler {
	return Bind(JSON(), fn)
}
