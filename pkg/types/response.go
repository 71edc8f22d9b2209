// Package types holds the JSON envelope shapes shared by the HTTP layer.
package types

// SuccessEnvelope is the wire form of every 2xx response. The payload
// always sits under a data key so clients can decode uniformly.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ErrorEnvelope is the wire form of every non-2xx response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// APIError carries the public error code and message, plus optional
// structured details for codes that permit them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
