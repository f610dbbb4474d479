package ingestion

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"

	"github.com/beevik/etree"
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// docxText returns the text of word/document.xml with one line per
// paragraph, including paragraphs inside tables.
func docxText(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractError{FileType: FileTypeDOCX, Message: "open archive", Cause: err}
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", &ExtractError{FileType: FileTypeDOCX, Message: "open document part", Cause: err}
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", &ExtractError{FileType: FileTypeDOCX, Message: "read document part", Cause: err}
		}

		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(content); err != nil {
			return "", &ExtractError{FileType: FileTypeDOCX, Message: "parse document part", Cause: err}
		}
		if doc.Root() == nil {
			return "", nil
		}
		return documentText(doc.Root()), nil
	}
	return "", &ExtractError{FileType: FileTypeDOCX, Message: "archive has no word/document.xml"}
}

// documentText walks the body in order. Each paragraph becomes one line;
// tabs and breaks inside a paragraph are kept.
func documentText(root *etree.Element) string {
	var lines []string
	var line strings.Builder

	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if child.NamespaceURI() != wordNamespace {
				walk(child)
				continue
			}
			switch child.Tag {
			case "t":
				line.WriteString(child.Text())
			case "tab":
				line.WriteString("\t")
			case "br", "cr":
				line.WriteString("\n")
			case "p":
				walk(child)
				lines = append(lines, line.String())
				line.Reset()
			case "instrText", "delText":
				// field codes and tracked deletions are not visible text
			default:
				walk(child)
			}
		}
	}
	walk(root)
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
