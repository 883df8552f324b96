package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.hackfix.me/strand/web/server/types"
)

const maxBodyReadSize = 1024 * 1024 // 1MiB

// Serializer is the interface for deserializing the raw request body data into
// a typed value, and for serializing a typed value into raw response data.
type Serializer interface {
	Deserialize(c *types.Context, v any) error
	Serialize(v any) ([]byte, error)
	ContentType() string
}

// JSONSerializer implements JSON request and response serialization.
type JSONSerializer struct{}

var _ Serializer = (*JSONSerializer)(nil)

// JSON returns a new JSON serializer.
func JSON() JSONSerializer {
	return JSONSerializer{}
}

// Deserialize decodes JSON from the request body into v.
// It enforces a maximum body size limit to prevent resource exhaustion.
func (JSONSerializer) Deserialize(c *types.Context, v any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return errors.New("empty request body")
	}

	limitedReader := io.LimitReader(c.Request.Body, maxBodyReadSize)
	decoder := json.NewDecoder(limitedReader)
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("failed decoding request body from JSON: %w", err)
	}

	return nil
}

// Serialize encodes v as JSON.
func (JSONSerializer) Serialize(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed marshalling response into JSON: %w", err)
	}
	return data, nil
}

// ContentType returns the media type of JSON data.
func (JSONSerializer) ContentType() string {
	return "application/json"
}
