package services

import "fmt"

// Result is the shape every gameplay mutation returns. Expected
// failures come back as Success=false with a human-readable Error,
// never as a panic or HTTP error status.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func ok() Result {
	return Result{Success: true}
}

func fail(format string, args ...interface{}) Result {
	return Result{Error: fmt.Sprintf(format, args...)}
}
