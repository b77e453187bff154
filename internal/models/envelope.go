package models

// Envelope is the uniform JSON response of every resource endpoint.
// swagger:model Envelope
type Envelope struct {
	// Whether the operation succeeded
	Success bool `json:"success"`

	// Payload of a successful operation
	Data any `json:"data,omitempty"`

	// Human readable result of a successful operation
	Message string `json:"message,omitempty"`

	// Error message of a failed operation
	Error string `json:"error,omitempty"`
}
