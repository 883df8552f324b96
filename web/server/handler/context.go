package handler

import "go.hackfix.me/strand/web/server/types"

type itemKey string

const itemKeyAuthenticated itemKey = "authenticated"

// IsAuthenticated reports whether an authentication stage accepted the
// credentials of the request.
func IsAuthenticated(c *types.Context) bool {
	if v, ok := c.Get(itemKeyAuthenticated); ok {
		return v.(bool) //nolint:errcheck,forcetypeassert // Acceptable risk; only set with constant key.
	}
	return false
}

func setAuthenticated(c *types.Context, ok bool) {
	c.Set(itemKeyAuthenticated, ok)
}
