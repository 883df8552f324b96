package crypto

import (
	"crypto/hmac"
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// TokenVerifier checks tokens against a single expected API token. The
// expected token isn't kept in memory, only its MAC under a key derived for
// this process, and comparisons take the same time regardless of where the
// tokens differ.
type TokenVerifier struct {
	key []byte
	mac []byte
}

// NewTokenVerifier returns a TokenVerifier for the base58 encoded token.
func NewTokenVerifier(token string) (*TokenVerifier, error) {
	raw, err := DecodeToken(token)
	if err != nil {
		return nil, err
	}

	secret, err := RandomData(32)
	if err != nil {
		return nil, err
	}

	key := make([]byte, 32)
	if _, err = io.ReadFull(hkdf.New(sha512.New512_256, secret, nil, []byte("strand api token")), key); err != nil {
		return nil, fmt.Errorf("failed deriving token key: %w", err)
	}

	v := &TokenVerifier{key: key}
	v.mac = v.sum(raw)

	return v, nil
}

// Verify reports whether token matches the expected token.
func (v *TokenVerifier) Verify(token string) bool {
	raw, err := DecodeToken(token)
	if err != nil {
		return false
	}

	return hmac.Equal(v.sum(raw), v.mac)
}

func (v *TokenVerifier) sum(data []byte) []byte {
	h := hmac.New(sha512.New512_256, v.key)
	h.Write(data)
	return h.Sum(nil)
}
