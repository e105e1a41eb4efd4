package domain

import "encoding/json"

// Business codes used by the backend envelope.
const (
	CodeSuccess        = 0
	CodeInvalidParams  = 400001
	CodeUnauthorized   = 401001
	CodeForbidden      = 403001
	CodeNotFound       = 404001
	CodeDuplicateEmail = 409001
	CodeInternalError  = 500001
)

// Envelope is the uniform JSON response of the backend.
// Code 0 means success; Data is absent on message-only responses.
type Envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data,omitempty"`
}
