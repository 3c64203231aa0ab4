package dto

// ErrorResponse is the uniform error envelope returned by all endpoints.
type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
