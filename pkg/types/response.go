// Package types holds the wire envelopes shared by all API responses.
package types

// SuccessEnvelope wraps every 2xx body under a "data" key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error shape. Details is populated only for
// codes whose metadata allows exposing structured details.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every error body under an "error" key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
