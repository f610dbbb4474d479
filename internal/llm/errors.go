package llm

import "fmt"

// APICallError represents a failed request to a model provider
type APICallError struct {
	Provider   Provider
	StatusCode int
	Message    string
	Cause      error
}

func (e *APICallError) Error() string {
	prefix := fmt.Sprintf("%s api error", e.Provider)
	if e.StatusCode != 0 {
		prefix = fmt.Sprintf("%s (status %d)", prefix, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the request may succeed if sent again.
func (e *APICallError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
