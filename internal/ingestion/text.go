// Package ingestion turns uploaded résumé files into plain text.
package ingestion

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	innerSpace  = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blankLines  = regexp.MustCompile(`\n\n\n+`)
	bulletStart = regexp.MustCompile(`^[•·▪■●◦‣∙*\-–]\s*`)
)

// CleanText normalizes extracted text while preserving its line structure:
// line endings become LF, runs of blanks collapse to one space, bullet glyphs
// are unified to "• ", and more than one blank line in a row is dropped.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = toValidUTF8(content)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = blankLines.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	line = strings.TrimSpace(innerSpace.ReplaceAllString(line, " "))
	if line == "" {
		return ""
	}
	if isBulletLine(line) {
		return "• " + strings.TrimSpace(bulletStart.ReplaceAllString(line, ""))
	}
	return line
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	loc := bulletStart.FindStringIndex(line)
	if loc == nil {
		return false
	}
	// "-" and "*" only count when followed by a space, so "-5%" stays text.
	if line[0] == '-' || line[0] == '*' {
		return len(line) > 1 && line[1] == ' '
	}
	return loc[1] < len(line)
}

// toValidUTF8 drops invalid byte sequences and NUL characters.
func toValidUTF8(s string) string {
	if utf8.ValidString(s) && !strings.ContainsRune(s, 0) {
		return s
	}
	s = strings.ToValidUTF8(s, "")
	return strings.ReplaceAll(s, "\x00", "")
}
