package handler

import (
	"go.hackfix.me/strand/async"
	"go.hackfix.me/strand/web/server/types"
)

// Compose chains h1 and h2, so that h1 runs first and h2 becomes the
// continuation of h1. If the response has already started when the composed
// stage is invoked, h1 and h2 are bypassed and the request goes straight to
// the final continuation.
func Compose(h1, h2 Handler) Handler {
	return func(final Func) Func {
		combined := h1(h2(final))
		return func(c *types.Context) *async.Task[*types.Context] {
			if c.Response.HasStarted() {
				return final(c)
			}
			return combined(c)
		}
	}
}

// Chain composes handlers in the exact order specified. An empty chain passes
// every request through to its continuation.
func Chain(handlers ...Handler) Handler {
	if len(handlers) == 0 {
		return func(next Func) Func { return next }
	}

	h := handlers[0]
	for _, next := range handlers[1:] {
		h = Compose(h, next)
	}

	return h
}

// The six variants below compose stages written in any mix of styles. The
// name describes the style of the left and right operands, and the ToBase
// suffix means the result is a Handler rather than a JobHandler.

// ComposeBothAlt composes two JobHandlers into a JobHandler.
func (b *Bridge) ComposeBothAlt(h1, h2 JobHandler) JobHandler {
	return b.LiftHandler(Compose(b.LowerHandler(h1), b.LowerHandler(h2)))
}

// ComposeLeftAltRightBase composes a JobHandler and a Handler into a
// JobHandler.
func (b *Bridge) ComposeLeftAltRightBase(h1 JobHandler, h2 Handler) JobHandler {
	return b.LiftHandler(Compose(b.LowerHandler(h1), h2))
}

// ComposeLeftBaseRightAlt composes a Handler and a JobHandler into a
// JobHandler.
func (b *Bridge) ComposeLeftBaseRightAlt(h1 Handler, h2 JobHandler) JobHandler {
	return b.LiftHandler(Compose(h1, b.LowerHandler(h2)))
}

// ComposeBothAltToBase composes two JobHandlers into a Handler.
func (b *Bridge) ComposeBothAltToBase(h1, h2 JobHandler) Handler {
	return Compose(b.LowerHandler(h1), b.LowerHandler(h2))
}

// ComposeLeftAltRightBaseToBase composes a JobHandler and a Handler into a
// Handler.
func (b *Bridge) ComposeLeftAltRightBaseToBase(h1 JobHandler, h2 Handler) Handler {
	return Compose(b.LowerHandler(h1), h2)
}

// ComposeLeftBaseRightAltToBase composes a Handler and a JobHandler into a
// Handler.
func (b *Bridge) ComposeLeftBaseRightAltToBase(h1 Handler, h2 JobHandler) Handler {
	return Compose(h1, b.LowerHandler(h2))
}

// Choose tries each handler in order, and resolves to the result of the first
// one that handles the request. If none does, it resolves to nil. An error
// from any handler ends the search.
func Choose(handlers ...Handler) Handler {
	return func(next Func) Func {
		funcs := make([]Func, len(handlers))
		for i, h := range handlers {
			funcs[i] = h(next)
		}

		return func(c *types.Context) *async.Task[*types.Context] {
			return async.Go(func() (*types.Context, error) {
				for _, f := range funcs {
					res, err := f(c).Await(c.Context())
					if err != nil || res != nil {
						return res, err
					}
				}
				return nil, nil
			})
		}
	}
}
