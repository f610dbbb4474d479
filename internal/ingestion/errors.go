package ingestion

import "fmt"

// ExtractError represents a file whose text could not be read
type ExtractError struct {
	FileType FileType
	Message  string
	Cause    error
}

func (e *ExtractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extract %s: %s: %v", e.FileType, e.Message, e.Cause)
	}
	return fmt.Sprintf("extract %s: %s", e.FileType, e.Message)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}
