package api

import (
	"net/http"

	"go.hackfix.me/strand/async"
	"go.hackfix.me/strand/web/server/handler"
	"go.hackfix.me/strand/web/server/types"
)

// EchoPost responds with the message sent in the request, along with the
// request ID.
func (h *Handler) EchoPost(req types.EchoPostRequest) handler.Handler {
	return func(next handler.Func) handler.Func {
		return func(c *types.Context) *async.Task[*types.Context] {
			resp := types.EchoPostResponse{Message: req.Message, RequestID: c.ID}
			return handler.WriteJSON(http.StatusOK, resp)(next)(c)
		}
	}
}
