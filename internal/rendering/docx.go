package rendering

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
)

// fillablePartPattern selects the package parts that may hold placeholders.
var fillablePartPattern = regexp.MustCompile(`^word/(document|header\d*|footer\d*)\.xml$`)

type packagePart struct {
	header zip.FileHeader
	data   []byte
}

// docxPackage is a DOCX archive held in memory with its entry order preserved.
type docxPackage struct {
	parts []*packagePart
}

func isFillablePart(name string) bool {
	return fillablePartPattern.MatchString(name)
}

func readPackage(data []byte) (*docxPackage, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &TemplateError{Message: "template is not a valid DOCX archive", Cause: err}
	}

	pkg := &docxPackage{}
	hasDocument := false
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, &TemplateError{Message: fmt.Sprintf("failed to open %s", f.Name), Cause: err}
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, &TemplateError{Message: fmt.Sprintf("failed to read %s", f.Name), Cause: err}
		}
		if f.Name == "word/document.xml" {
			hasDocument = true
		}
		pkg.parts = append(pkg.parts, &packagePart{
			header: zip.FileHeader{Name: f.Name, Method: f.Method, Modified: f.Modified},
			data:   content,
		})
	}

	if !hasDocument {
		return nil, &TemplateError{Message: "template has no word/document.xml"}
	}
	return pkg, nil
}

func (p *docxPackage) fillable() []*packagePart {
	var out []*packagePart
	for _, part := range p.parts {
		if isFillablePart(part.header.Name) {
			out = append(out, part)
		}
	}
	return out
}

func (p *docxPackage) bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range p.parts {
		header := part.header
		w, err := zw.CreateHeader(&header)
		if err != nil {
			return nil, &RenderError{Message: fmt.Sprintf("failed to add %s", header.Name), Cause: err}
		}
		if _, err := w.Write(part.data); err != nil {
			return nil, &RenderError{Message: fmt.Sprintf("failed to write %s", header.Name), Cause: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &RenderError{Message: "failed to finish DOCX archive", Cause: err}
	}
	return buf.Bytes(), nil
}
