// Package formatting provides pure string transforms for names, dates, durations and filenames.
// Every function is total: any input string yields an output string.
package formatting

import (
	"strings"
	"unicode"
)

// FormatName converts shouting or all-lowercase names to proper case.
// A string with no lowercase letters, or no uppercase letters, is title-cased word by word.
// Mixed-case input only has its all-caps words (longer than one letter) title-cased,
// so "Ludwig van Beethoven" and "Jane DOE" become "Ludwig van Beethoven" and "Jane Doe".
func FormatName(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	whole := strings.Join(words, " ")
	uniform := !hasLower(whole) || !hasUpper(whole)

	for i, w := range words {
		if uniform || (isAllUpper(w) && letterCount(w) > 1) {
			words[i] = titleWord(w)
		}
	}
	return strings.Join(words, " ")
}

// titleWord upper-cases the first letter of each hyphen or apostrophe separated part
// and lower-cases the rest.
func titleWord(w string) string {
	var sb strings.Builder
	startOfPart := true
	for _, r := range w {
		switch {
		case r == '-' || r == '\'' || r == '’':
			sb.WriteRune(r)
			startOfPart = true
		case unicode.IsLetter(r):
			if startOfPart {
				sb.WriteRune(unicode.ToUpper(r))
			} else {
				sb.WriteRune(unicode.ToLower(r))
			}
			startOfPart = false
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isAllUpper(w string) bool {
	return hasUpper(w) && !hasLower(w)
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func hasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
