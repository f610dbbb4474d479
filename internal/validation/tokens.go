package validation

import (
	"fmt"
	"regexp"

	"github.com/a-tejada/cv-converter/internal/types"
)

// TokenPattern matches a template placeholder such as {{CANDIDATE_NAME}}.
var TokenPattern = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// FindLeftoverTokens reports every placeholder that survived rendering in the
// given paragraphs of one document part. Each hit is an error-severity violation.
func FindLeftoverTokens(part string, paragraphs []string) []types.Violation {
	var violations []types.Violation
	for i, text := range paragraphs {
		for _, token := range TokenPattern.FindAllString(text, -1) {
			violations = append(violations, types.Violation{
				Type:           types.ViolationLeftoverToken,
				Severity:       "error",
				Details:        fmt.Sprintf("Paragraph %d of %s still contains %s", i+1, part, token),
				Part:           part,
				Token:          token,
				ParagraphIndex: intPtr(i),
			})
		}
	}
	return violations
}

// RequireClean returns an error when any violation has error severity.
func RequireClean(violations *types.Violations) error {
	if !violations.HasErrors() {
		return nil
	}
	var first string
	count := 0
	for _, v := range violations.Violations {
		if v.Severity != "error" {
			continue
		}
		if count == 0 {
			first = v.Details
		}
		count++
	}
	return &Error{Message: fmt.Sprintf("%d integrity violation(s), first: %s", count, first)}
}

func intPtr(i int) *int {
	return &i
}
