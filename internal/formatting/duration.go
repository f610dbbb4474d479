package formatting

import (
	"regexp"
	"strings"

	"github.com/a-tejada/cv-converter/internal/types"
)

var (
	// "Jan 2020 - Present", "Jan 2020 to date", "2019 – current"
	presentSuffixPattern = regexp.MustCompile(`(?i)^(.*?)[\s\-–—]*(?:\b(?:to|until)\b)?[\s\-–—]*\b(till date|till now|to date|present|current|ongoing|now)\.?$`)
	rangeSeparator       = regexp.MustCompile(`(?i)\s*-\s*|\s+(?:to|until)\s+`)
	spacedSeparator      = regexp.MustCompile(`(?i)\s+(?:-|to|until)\s+`)
	yearPattern          = regexp.MustCompile(`\d{4}`)
)

// FormatDuration joins two dates as "<start> to <end>" after normalizing both.
// An ongoing end date yields "<start> to Present". A missing side is dropped.
func FormatDuration(start, end string) string {
	s := FormatDate(start)
	e := FormatDate(end)
	switch {
	case s == "" && e == "":
		return ""
	case e == "":
		return s
	case s == "":
		return e
	}
	return s + " to " + e
}

// SplitDuration splits a free-text date range such as "Sep-2015 – Jan 2020" or
// "2019 to present" into its start and end parts. Dashes inside a single date
// ("Sep-2015", "2015-09") are kept with that date. A separator with spaces on
// both sides wins over bare dashes. A string without a range is returned as start.
func SplitDuration(s string) (start, end string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	if IsPresent(s) {
		return "", types.Present
	}
	if m := presentSuffixPattern.FindStringSubmatch(s); m != nil && strings.TrimSpace(m[1]) != "" {
		return strings.TrimSpace(m[1]), types.Present
	}

	normalized := strings.NewReplacer("–", "-", "—", "-").Replace(s)
	if sides := spacedSeparator.Split(normalized, -1); len(sides) == 2 {
		start, end = strings.TrimSpace(sides[0]), strings.TrimSpace(sides[1])
		if start != "" && end != "" {
			return start, end
		}
	}
	parts := rangeSeparator.Split(normalized, -1)

	var groups []string
	current := ""
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if current == "" {
			current = part
		} else {
			current += "-" + part
		}
		if yearPattern.MatchString(current) {
			groups = append(groups, current)
			current = ""
		}
	}
	if current != "" {
		if len(groups) == 0 {
			groups = append(groups, current)
		} else {
			groups[len(groups)-1] += "-" + current
		}
	}

	switch len(groups) {
	case 0:
		return s, ""
	case 1:
		return groups[0], ""
	default:
		return groups[0], groups[len(groups)-1]
	}
}
