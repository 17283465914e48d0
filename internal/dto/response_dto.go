package dto

// ErrorResponse is the uniform error body of the API surface.
type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
