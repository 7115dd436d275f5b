package dto

import "time"

// ErrorResponse is the standardized JSON error envelope returned by the API.
//
// Fields match the API contract and stay decoupled from internal error types;
// handlers translate typed domain errors into this shape plus an HTTP status.
type ErrorResponse struct {
	Message      string    `json:"message" example:"no data found"` // Human-readable error summary
	ErrorDetails string    `json:"error,omitempty"`                 // Optional underlying cause
	Timestamp    time.Time `json:"timestamp"`                       // When the error response was produced
}

// Error implements the error interface so responses can flow through
// error-typed plumbing in tests.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails != "" {
		return e.Message + ": " + e.ErrorDetails
	}
	return e.Message
}

// NewErrorResponse builds an ErrorResponse from a message and an optional
// underlying error.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
