// Package rendering fills company DOCX templates with a canonical candidate record.
package rendering

import (
	"fmt"

	"github.com/a-tejada/cv-converter/internal/types"
)

// TemplateError represents a template that cannot be read or that still holds
// placeholders after filling.
type TemplateError struct {
	Message    string
	Cause      error
	Violations []types.Violation
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
