package response

import "time"

// ErrorResponse is the only error body shape the API produces.
type ErrorResponse struct {
	Error string `json:"error"`
}

func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}
