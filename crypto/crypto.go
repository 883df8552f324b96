// Package crypto contains helpers for generating and verifying API tokens.
package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// TokenSize is the number of random bytes in an API token.
const TokenSize = 32

// ErrInvalidToken is returned when a token is malformed.
var ErrInvalidToken = errors.New("invalid token")

// RandomData returns a slice of the specified size containing random data.
func RandomData(size int) ([]byte, error) {
	if size < 0 {
		return nil, errors.New("size cannot be negative")
	}

	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		return nil, fmt.Errorf("failed generating random data: %w", err)
	}

	return data, nil
}

// NewToken returns a new random API token encoded as base58.
func NewToken() (string, error) {
	data, err := RandomData(TokenSize)
	if err != nil {
		return "", err
	}

	return base58.Encode(data), nil
}

// DecodeToken decodes a base58 API token, and checks that it has the expected
// size.
func DecodeToken(token string) ([]byte, error) {
	if token == "" {
		return nil, errors.New("empty token")
	}

	data, err := base58.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("failed decoding token: %w", err)
	}
	if len(data) != TokenSize {
		return nil, ErrInvalidToken
	}

	return data, nil
}
