package formatting

import (
	"path/filepath"
	"regexp"
	"strings"
)

// OutputSuffix is appended to the candidate name to build the output file name.
const OutputSuffix = "_Formatted.docx"

var (
	unsafeFilenameChars = regexp.MustCompile(`[\\/*?:"<>|]`)
	resumeWords         = regexp.MustCompile(`(?i)\b(curriculumvitae|curriculum|vitae|resume|cv)\b`)
	knownExtensions     = map[string]bool{".pdf": true, ".docx": true, ".doc": true, ".txt": true}
)

// SafeFilename replaces characters that are invalid in file names with "_".
// An empty result falls back to "output".
func SafeFilename(name string) string {
	cleaned := strings.TrimSpace(unsafeFilenameChars.ReplaceAllString(name, "_"))
	if cleaned == "" {
		return "output"
	}
	return cleaned
}

// OutputFilename returns the file name of the formatted document for a
// candidate, with whitespace runs joined by "_".
func OutputFilename(candidateName string) string {
	return SafeFilename(strings.Join(strings.Fields(candidateName), "_")) + OutputSuffix
}

// NameFromFilename derives a candidate name from an uploaded file name, e.g.
// "JANE_DOE-Resume.pdf" becomes "Jane Doe". It returns "" when nothing is left.
func NameFromFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if ext := filepath.Ext(base); knownExtensions[strings.ToLower(ext)] {
		base = strings.TrimSuffix(base, ext)
	}

	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	base = resumeWords.ReplaceAllString(base, " ")
	return FormatName(base)
}
