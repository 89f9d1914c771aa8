package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelope is the versioned wire wrapper applied to every structured API
// response. Clients dispatch on "success" and unwrap "data" or "error".
type envelope struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
	Error   any  `json:"error,omitempty"`
}

// envelopeError is the detailed error payload inside an error envelope.
type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps response bodies in the versioned envelope.
// Raw byte bodies (file exports) bypass transformers entirely.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		if apiErr.Code == "" && apiErr.Details == nil {
			// Bare message, keep the error a plain string.
			return envelope{V: 1, Success: false, Error: apiErr.Message}, nil
		}
		return envelope{V: 1, Success: false, Error: envelopeError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}}, nil
	}

	// Errors produced by huma itself before our error handler runs.
	if statusErr, ok := v.(huma.StatusError); ok {
		return envelope{V: 1, Success: false, Error: statusErr.Error()}, nil
	}

	if !isSuccessStatus(status) {
		return envelope{V: 1, Success: false, Error: status}, nil
	}

	return envelope{V: 1, Success: true, Data: v}, nil
}

func isSuccessStatus(status string) bool {
	return len(status) == 3 && (status[0] == '2' || status[0] == '3')
}
