package rendering

import "strings"

// zeroWidthSpace fences every brace of a value, so that no brace it brings can
// pair with a neighbouring brace into a placeholder.
const zeroWidthSpace = "\u200b"

var braceFence = strings.NewReplacer(
	"{", zeroWidthSpace+"{"+zeroWidthSpace,
	"}", zeroWidthSpace+"}"+zeroWidthSpace,
)

// sanitizeValue prepares a record value for insertion into WordprocessingML text.
// Characters XML 1.0 forbids are dropped, carriage returns are folded into
// newlines, and braces are fenced so a value can never read as a placeholder,
// alone or next to another value.
func sanitizeValue(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n':
			return r
		case r < 0x20:
			return -1
		case r == 0xFFFE || r == 0xFFFF:
			return -1
		}
		return r
	}, text)

	return braceFence.Replace(text)
}
