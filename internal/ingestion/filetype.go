package ingestion

import (
	"bytes"
	"path/filepath"
	"strings"
)

// FileType is the format of an uploaded résumé.
type FileType string

// Supported file types
const (
	FileTypePDF     FileType = "pdf"
	FileTypeDOCX    FileType = "docx"
	FileTypeTXT     FileType = "txt"
	FileTypeUnknown FileType = "unknown"
)

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// DetectFileType infers the file type from the filename extension, falling
// back to the leading bytes when the extension is missing or unknown.
func DetectFileType(filename string, data []byte) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FileTypePDF
	case ".docx":
		return FileTypeDOCX
	case ".txt", ".text", ".md":
		return FileTypeTXT
	}

	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return FileTypePDF
	case bytes.HasPrefix(data, zipMagic):
		return FileTypeDOCX
	}
	return FileTypeUnknown
}

// SupportedExtension reports whether a file with this name can be converted.
func SupportedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".docx", ".txt":
		return true
	}
	return false
}
