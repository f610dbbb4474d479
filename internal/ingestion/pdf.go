package ingestion

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfText extracts the plain text of every page, joined by newlines. Pages
// that fail to decode are skipped and counted.
func pdfText(data []byte) (text string, pages int, failed int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ExtractError{FileType: FileTypePDF, Message: fmt.Sprintf("malformed PDF: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, 0, &ExtractError{FileType: FileTypePDF, Message: "open PDF", Cause: err}
	}

	pages = reader.NumPage()
	parts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		pageText, ok := pageText(reader.Page(i))
		if !ok {
			failed++
			continue
		}
		if strings.TrimSpace(pageText) != "" {
			parts = append(parts, pageText)
		}
	}
	return strings.Join(parts, "\n"), pages, failed, nil
}

func pageText(page pdf.Page) (text string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			text, ok = "", false
		}
	}()

	if page.V.IsNull() {
		return "", true
	}

	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		f := page.Font(name)
		fonts[name] = &f
	}
	text, err := page.GetPlainText(fonts)
	if err != nil {
		return "", false
	}
	return text, true
}
