package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"go.hackfix.me/strand/async"
	"go.hackfix.me/strand/web/server/types"
)

// TokenVerifier checks whether a Bearer token is valid.
type TokenVerifier interface {
	Verify(token string) bool
}

// TokenVerifierFunc is a function that implements TokenVerifier.
type TokenVerifierFunc func(token string) bool

// Verify implements TokenVerifier.
func (f TokenVerifierFunc) Verify(token string) bool {
	return f(token)
}

// StaticToken returns a TokenVerifier that accepts only token. An empty token
// accepts nothing.
func StaticToken(token string) TokenVerifier {
	return TokenVerifierFunc(func(reqToken string) bool {
		return token != "" && subtle.ConstantTimeCompare([]byte(reqToken), []byte(token)) == 1
	})
}

// BearerAuth creates a stage that validates the Bearer token in the
// Authorization header with v. If validation fails, the pipeline ends with a
// 401 Unauthorized response. Otherwise the request is passed through.
func BearerAuth(v TokenVerifier) Handler {
	return func(next Func) Func {
		return func(c *types.Context) *async.Task[*types.Context] {
			reqToken, _, err := parseAuthHeader(c.Request.Header.Get("Authorization"))
			if err != nil {
				setAuthenticated(c, false)
				c.Logger.Debug("rejected request", "reason", err.Error())
				return HTTPError(types.NewError(http.StatusUnauthorized, err.Error()))(next)(c)
			}

			if !v.Verify(reqToken) {
				setAuthenticated(c, false)
				return HTTPError(types.NewError(http.StatusUnauthorized, "invalid token"))(next)(c)
			}

			setAuthenticated(c, true)

			return next(c)
		}
	}
}

// parseAuthHeader parses a Bearer token from an Authorization header, optionally
// with additional data after a semicolon delimiter.
func parseAuthHeader(header string) (token, rest string, err error) {
	if header == "" {
		return "", "", errors.New("empty Authorization header")
	}

	if !strings.HasPrefix(header, "Bearer ") {
		return "", "", errors.New("invalid Authorization header scheme")
	}

	payload := strings.TrimPrefix(header, "Bearer ")
	parts := strings.SplitN(payload, ";", 2)

	token = parts[0]
	if len(parts) == 2 {
		rest = parts[1]
	}

	return token, rest, nil
}
