package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/a-tejada/cv-converter/internal/logging"
)

// Result is the outcome of an extraction. Text is empty when the file could
// not be read; Warning then says why.
type Result struct {
	Text     string
	Warning  string
	Metadata *Metadata
}

// Extractor reads résumé files. Extract never fails: every problem is
// reported as a warning next to whatever text could be recovered.
type Extractor struct {
	log logrus.FieldLogger
}

// NewExtractor creates an Extractor. A nil logger disables logging.
func NewExtractor(log logrus.FieldLogger) *Extractor {
	if log == nil {
		log = logging.Discard()
	}
	return &Extractor{log: log}
}

// Extract returns the cleaned text of data interpreted as fileType.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte, fileType FileType) Result {
	meta := NewMetadata(filepath.Base(filename), fileType, data)
	log := e.log.WithFields(logrus.Fields{"file": meta.Filename, "file_type": fileType})

	if err := ctx.Err(); err != nil {
		return Result{Warning: fmt.Sprintf("extraction cancelled: %v", err), Metadata: meta}
	}
	if len(data) == 0 {
		log.Warn("extract.empty")
		return Result{Warning: "file is empty", Metadata: meta}
	}

	var (
		text    string
		warning string
		err     error
	)

	switch fileType {
	case FileTypePDF:
		var pages, failed int
		text, pages, failed, err = pdfText(data)
		meta.Pages = pages
		if err == nil && failed > 0 {
			warning = fmt.Sprintf("%d of %d PDF pages could not be read", failed, pages)
		}
	case FileTypeDOCX:
		text, err = docxText(data)
	case FileTypeTXT:
		text = string(data)
	default:
		err = &ExtractError{FileType: fileType, Message: "unsupported file type"}
	}

	if err != nil {
		log.WithError(err).Warn("extract." + string(fileType) + ".failed")
		return Result{Warning: err.Error(), Metadata: meta}
	}

	text = CleanText(text)
	meta.Characters = len([]rune(text))
	if text == "" && warning == "" {
		warning = "no text could be extracted; the file may be scanned or image-only"
	}
	if warning != "" {
		log.Warn(warning)
	}

	log.WithField("characters", meta.Characters).Debug("extract.done")
	return Result{Text: text, Warning: warning, Metadata: meta}
}

// ExtractFile reads path and extracts it with the type its name implies.
// A file that cannot be read yields an empty result with a warning.
func (e *Extractor) ExtractFile(ctx context.Context, path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		msg := fmt.Sprintf("failed to read file: %v", err)
		if os.IsNotExist(err) {
			msg = fmt.Sprintf("file not found: %s", path)
		}
		e.log.WithError(err).WithField("file", path).Warn("extract.read_failed")
		return Result{Warning: msg, Metadata: NewMetadata(filepath.Base(path), FileTypeUnknown, nil)}
	}
	return e.Extract(ctx, path, data, DetectFileType(path, data))
}

// Preview returns the first n characters of text for logs and summaries.
func Preview(text string, n int) string {
	runes := []rune(strings.Join(strings.Fields(text), " "))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}
