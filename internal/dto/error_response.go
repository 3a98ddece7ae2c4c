package dto

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	// Hint tells the client what to do next, e.g. query the transfer status.
	Hint string `json:"hint,omitempty"`
}
