package types

// Violation types reported when checking a rendered document.
const (
	ViolationLeftoverToken = "leftover_token"
	ViolationUnknownToken  = "unknown_token"
)

// Violation represents a single integrity failure found in a rendered document
type Violation struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Details  string `json:"details"`
	Part     string `json:"part,omitempty"`
	Token    string `json:"token,omitempty"`

	// ParagraphIndex is the zero-based paragraph position within Part
	ParagraphIndex *int `json:"paragraph_index,omitempty"`
}

// Violations represents a collection of integrity failures
type Violations struct {
	Violations []Violation `json:"violations"`
}

// HasErrors reports whether any violation has error severity.
func (v *Violations) HasErrors() bool {
	if v == nil {
		return false
	}
	for _, violation := range v.Violations {
		if violation.Severity == "error" {
			return true
		}
	}
	return false
}
