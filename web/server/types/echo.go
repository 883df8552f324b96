package types

import "errors"

// EchoPostRequest is the request body of the echo endpoint.
type EchoPostRequest struct {
	Message string `json:"message"`
}

// Validate checks that the request has a message.
func (r *EchoPostRequest) Validate() error {
	if r.Message == "" {
		return errors.New("message must not be empty")
	}
	return nil
}

// EchoPostResponse is the response body of the echo endpoint.
type EchoPostResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}
