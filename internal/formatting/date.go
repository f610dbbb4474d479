package formatting

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/a-tejada/cv-converter/internal/types"
)

var monthAbbr = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// presentWords are the phrases that mark an ongoing role, compared lower-cased.
var presentWords = map[string]bool{
	"present":   true,
	"current":   true,
	"ongoing":   true,
	"now":       true,
	"till date": true,
	"till now":  true,
	"to date":   true,
}

var (
	// Sep-2015, Sep 2015, Sep/2015, September, 2015, Sept. 2015
	monthNamePattern = regexp.MustCompile(`(?i)\b([a-z]{3,})\.?[\s,/\-]*(\d{4})\b`)
	// 09/2015, 9-2015, 09.2015
	monthNumberPattern = regexp.MustCompile(`\b(\d{1,2})[/\-.](\d{4})\b`)
	// 2015-09, 2015/9
	isoMonthPattern = regexp.MustCompile(`\b(\d{4})[/\-](\d{1,2})\b`)
	whitespace      = regexp.MustCompile(`\s+`)
)

// IsPresent reports whether s is one of the phrases used for an ongoing role.
func IsPresent(s string) bool {
	key := strings.ToLower(whitespace.ReplaceAllString(strings.TrimSpace(s), " "))
	return presentWords[key]
}

// FormatDate normalizes a single date to "MON YYYY" with an upper-case month.
// Ongoing markers such as "present" or "till date" become "Present".
// Input that does not look like a month and year is returned trimmed.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if IsPresent(s) {
		return types.Present
	}

	for _, m := range monthNamePattern.FindAllStringSubmatch(s, -1) {
		if month, ok := monthFromName(m[1]); ok {
			return month + " " + m[2]
		}
	}
	if m := monthNumberPattern.FindStringSubmatch(s); m != nil {
		if month, ok := monthFromNumber(m[1]); ok {
			return month + " " + m[2]
		}
	}
	if m := isoMonthPattern.FindStringSubmatch(s); m != nil {
		if month, ok := monthFromNumber(m[2]); ok {
			return month + " " + m[1]
		}
	}
	return s
}

// monthFromName accepts a full month name or any prefix of at least three letters, plus "Sept".
func monthFromName(name string) (string, bool) {
	name = strings.ToLower(name)
	if name == "sept" {
		return "SEP", true
	}
	if len(name) < 3 {
		return "", false
	}
	for i, full := range monthNames {
		if strings.HasPrefix(full, name) {
			return monthAbbr[i], true
		}
	}
	return "", false
}

func monthFromNumber(num string) (string, bool) {
	n, err := strconv.Atoi(num)
	if err != nil || n < 1 || n > 12 {
		return "", false
	}
	return monthAbbr[n-1], true
}
