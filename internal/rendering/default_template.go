package rendering

import (
	"archive/zip"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
)

const (
	wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	relNamespace  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/></Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rIdHeader1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/></Relationships>`

type runStyle struct {
	bold bool
	size int // half-points
}

var (
	plain   = runStyle{}
	bold    = runStyle{bold: true}
	title   = runStyle{bold: true, size: 32}
	heading = runStyle{bold: true, size: 24}
)

// DefaultTemplate builds the reference company template: a header with the
// candidate name, the profile paragraphs, and tables with one row per
// experience, education and certification slot.
func DefaultTemplate() ([]byte, error) {
	document, err := buildDocumentPart()
	if err != nil {
		return nil, err
	}
	header, err := buildHeaderPart()
	if err != nil {
		return nil, err
	}

	modified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	part := func(name string, data []byte) *packagePart {
		return &packagePart{
			header: zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified},
			data:   data,
		}
	}

	pkg := &docxPackage{parts: []*packagePart{
		part("[Content_Types].xml", []byte(contentTypesXML)),
		part("_rels/.rels", []byte(packageRelsXML)),
		part("word/_rels/document.xml.rels", []byte(documentRelsXML)),
		part("word/document.xml", document),
		part("word/header1.xml", header),
	}}
	return pkg.bytes()
}

func newPartDocument(rootTag string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := doc.CreateElement(rootTag)
	root.CreateAttr("xmlns:w", wordNamespace)
	root.CreateAttr("xmlns:r", relNamespace)
	return doc, root
}

func buildHeaderPart() ([]byte, error) {
	doc, root := newPartDocument("w:hdr")
	addParagraph(root, "{{CANDIDATE_NAME}} | {{POSITION}}", plain)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, &RenderError{Message: "failed to build header part", Cause: err}
	}
	return out, nil
}

func buildDocumentPart() ([]byte, error) {
	doc, root := newPartDocument("w:document")
	body := root.CreateElement("w:body")

	addParagraph(body, "{{CANDIDATE_NAME}}", title)
	addParagraph(body, "{{POSITION}}", bold)
	addParagraph(body, "Email: {{EMAIL}} | Phone: {{PHONE}} | Location: {{LOCATION}}", plain)
	addParagraph(body, "Total Experience: {{TOTAL_EXPERIENCE_YEARS}} years", plain)

	addParagraph(body, "PROFESSIONAL SUMMARY", heading)
	addParagraph(body, "{{INTRO_PARAGRAPH}}", plain)

	addParagraph(body, "TECHNICAL SKILLS", heading)
	addParagraph(body, "{{TECHNICAL_SKILLS_LIST}}", plain)

	addParagraph(body, "LANGUAGES", heading)
	addParagraph(body, "{{LANGUAGE_SKILLS_LIST}}", plain)

	addParagraph(body, "PROFESSIONAL EXPERIENCE", heading)
	experience := addTable(body, 3200, 6160)
	for n := 1; n <= ExperienceSlots; n++ {
		prefix := "EXP" + strconv.Itoa(n) + "_"
		left, right := addRow(experience, 3200, 6160)
		addParagraph(left, "{{"+prefix+"COMPANY}}", bold)
		addParagraph(left, "{{"+prefix+"LOCATION}}", plain)
		addParagraph(left, "{{"+prefix+"DURATION}}", plain)
		addParagraph(right, "{{"+prefix+"ROLE}}", bold)
		for m := 1; m <= ResponsibilitySlots; m++ {
			addParagraph(right, fmt.Sprintf("• {{%sRESP%d}}", prefix, m), plain)
		}
	}

	addParagraph(body, "EDUCATION", heading)
	education := addTable(body, 3600, 3600, 2160)
	for n := 1; n <= EducationSlots; n++ {
		prefix := "EDU" + strconv.Itoa(n) + "_"
		cells := addRowCells(education, 3600, 3600, 2160)
		addParagraph(cells[0], "{{"+prefix+"INSTITUTION}}", bold)
		addParagraph(cells[1], "{{"+prefix+"DEGREE}}", plain)
		addParagraph(cells[1], "{{"+prefix+"FIELD}}", plain)
		addParagraph(cells[2], "{{"+prefix+"DURATION}}", plain)
	}

	addParagraph(body, "CERTIFICATIONS", heading)
	certifications := addTable(body, 4680, 3240, 1440)
	for n := 1; n <= CertificationSlots; n++ {
		prefix := "CERT" + strconv.Itoa(n) + "_"
		cells := addRowCells(certifications, 4680, 3240, 1440)
		addParagraph(cells[0], "{{"+prefix+"NAME}}", bold)
		addParagraph(cells[1], "{{"+prefix+"PROVIDER}}", plain)
		addParagraph(cells[2], "{{"+prefix+"YEAR}}", plain)
	}

	sectPr := body.CreateElement("w:sectPr")
	ref := sectPr.CreateElement("w:headerReference")
	ref.CreateAttr("w:type", "default")
	ref.CreateAttr("r:id", "rIdHeader1")
	pgSz := sectPr.CreateElement("w:pgSz")
	pgSz.CreateAttr("w:w", "12240")
	pgSz.CreateAttr("w:h", "15840")
	pgMar := sectPr.CreateElement("w:pgMar")
	for _, side := range []string{"w:top", "w:right", "w:bottom", "w:left"} {
		pgMar.CreateAttr(side, "1440")
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, &RenderError{Message: "failed to build document part", Cause: err}
	}
	return out, nil
}

func addParagraph(parent *etree.Element, text string, style runStyle) *etree.Element {
	p := parent.CreateElement("w:p")
	r := p.CreateElement("w:r")
	if style.bold || style.size > 0 {
		rPr := r.CreateElement("w:rPr")
		if style.bold {
			rPr.CreateElement("w:b")
		}
		if style.size > 0 {
			rPr.CreateElement("w:sz").CreateAttr("w:val", strconv.Itoa(style.size))
		}
	}
	setText(r.CreateElement("w:t"), text)
	return p
}

func addTable(parent *etree.Element, widths ...int) *etree.Element {
	tbl := parent.CreateElement("w:tbl")
	tblPr := tbl.CreateElement("w:tblPr")
	tblW := tblPr.CreateElement("w:tblW")
	tblW.CreateAttr("w:w", "5000")
	tblW.CreateAttr("w:type", "pct")
	grid := tbl.CreateElement("w:tblGrid")
	for _, w := range widths {
		grid.CreateElement("w:gridCol").CreateAttr("w:w", strconv.Itoa(w))
	}
	return tbl
}

func addRowCells(tbl *etree.Element, widths ...int) []*etree.Element {
	tr := tbl.CreateElement("w:tr")
	cells := make([]*etree.Element, 0, len(widths))
	for _, w := range widths {
		tc := tr.CreateElement("w:tc")
		tcW := tc.CreateElement("w:tcPr").CreateElement("w:tcW")
		tcW.CreateAttr("w:w", strconv.Itoa(w))
		tcW.CreateAttr("w:type", "dxa")
		cells = append(cells, tc)
	}
	return cells
}

func addRow(tbl *etree.Element, leftWidth, rightWidth int) (*etree.Element, *etree.Element) {
	cells := addRowCells(tbl, leftWidth, rightWidth)
	return cells[0], cells[1]
}
