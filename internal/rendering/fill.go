package rendering

import (
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/a-tejada/cv-converter/internal/logging"
	"github.com/a-tejada/cv-converter/internal/types"
	"github.com/a-tejada/cv-converter/internal/validation"
)

// bulletGlyphs are the characters a paragraph may keep once its bullet text is gone.
const bulletGlyphs = " \t-•·–*"

// FillResult is a filled document and the non-fatal findings of the fill.
type FillResult struct {
	Data     []byte
	Warnings []types.Violation
	// RowsDeleted and ParagraphsDeleted count the unused blocks removed
	RowsDeleted       int
	ParagraphsDeleted int
}

// Filler fills DOCX templates. It is safe for concurrent use.
type Filler struct {
	log logrus.FieldLogger
}

// NewFiller creates a Filler. A nil logger disables logging.
func NewFiller(log logrus.FieldLogger) *Filler {
	if log == nil {
		log = logging.Discard()
	}
	return &Filler{log: log}
}

// FillFile reads the template at templatePath and fills it with record.
func (f *Filler) FillFile(templatePath string, record *types.CandidateRecord) (*FillResult, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}
	return f.Fill(content, record)
}

// Fill replaces every placeholder of the template with the record's values.
// Blocks of slots the record does not use are removed, and the result is
// guaranteed to hold no placeholder; otherwise a *TemplateError is returned.
func (f *Filler) Fill(template []byte, record *types.CandidateRecord) (*FillResult, error) {
	if record == nil {
		return nil, &RenderError{Message: "record is nil"}
	}

	pkg, err := readPackage(template)
	if err != nil {
		return nil, err
	}

	tokens := newTokenSet(record)
	result := &FillResult{}
	var leftovers []types.Violation

	for _, part := range pkg.fillable() {
		name := part.header.Name
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(part.data); err != nil {
			return nil, &TemplateError{Message: fmt.Sprintf("failed to parse %s", name), Cause: err}
		}
		root := doc.Root()
		if root == nil {
			continue
		}

		stats := f.fillPart(name, root, tokens)
		result.RowsDeleted += stats.rows
		result.ParagraphsDeleted += stats.paragraphs
		result.Warnings = append(result.Warnings, stats.warnings...)

		leftovers = append(leftovers, validation.FindLeftoverTokens(name, paragraphTexts(root))...)

		out, err := doc.WriteToBytes()
		if err != nil {
			return nil, &RenderError{Message: fmt.Sprintf("failed to serialize %s", name), Cause: err}
		}
		part.data = out
	}

	if len(leftovers) > 0 {
		f.log.WithField("count", len(leftovers)).Error("fill.leftover_tokens")
		return nil, &TemplateError{
			Message:    fmt.Sprintf("%d placeholder(s) left after filling, first %s in %s", len(leftovers), leftovers[0].Token, leftovers[0].Part),
			Violations: leftovers,
		}
	}

	data, err := pkg.bytes()
	if err != nil {
		return nil, err
	}
	result.Data = data

	f.log.WithFields(logrus.Fields{
		"rows_deleted":       result.RowsDeleted,
		"paragraphs_deleted": result.ParagraphsDeleted,
		"warnings":           len(result.Warnings),
	}).Debug("fill.done")

	return result, nil
}

type partStats struct {
	rows       int
	paragraphs int
	warnings   []types.Violation
}

func (f *Filler) fillPart(part string, root *etree.Element, tokens *tokenSet) partStats {
	var stats partStats

	// Rows whose block placeholders all belong to unused slots go first.
	for _, tr := range collect(root, "tr") {
		if !attached(tr, root) {
			continue
		}
		if rowBelongsToAbsentSlots(tr, tokens) {
			remove(tr)
			stats.rows++
		}
	}

	for i, p := range collect(root, "p") {
		if !attached(p, root) {
			continue
		}
		text := paragraphText(p)
		matches := validation.TokenPattern.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}

		deleteBlock, dropsBullet := false, false
		for _, m := range matches {
			switch tokens.resolve(tokenKey(m[1])).action {
			case actionDeleteBlock:
				deleteBlock = true
			case actionDropBullet:
				dropsBullet = true
			}
		}
		if deleteBlock {
			remove(p)
			stats.paragraphs++
			continue
		}

		if dropsBullet && onlyBulletLeft(text, tokens) {
			remove(p)
			stats.paragraphs++
			continue
		}

		replaceTokens(p, func(token string) string {
			key := tokenKey(token[2 : len(token)-2])
			res := tokens.resolve(key)
			switch res.action {
			case actionReplace:
				return sanitizeValue(res.value)
			case actionUnknown:
				f.log.WithFields(logrus.Fields{"part": part, "token": token}).Warn("fill.unknown_token")
				stats.warnings = append(stats.warnings, types.Violation{
					Type:           types.ViolationUnknownToken,
					Severity:       "warning",
					Details:        fmt.Sprintf("unknown placeholder %s was left empty", token),
					Part:           part,
					Token:          token,
					ParagraphIndex: intPtr(i),
				})
			}
			return ""
		})
	}

	repairContainers(root)
	return stats
}

// rowBelongsToAbsentSlots reports whether tr holds at least one block
// placeholder and every block placeholder in it names an unused slot.
func rowBelongsToAbsentSlots(tr *etree.Element, tokens *tokenSet) bool {
	found := false
	for _, p := range collect(tr, "p") {
		for _, m := range validation.TokenPattern.FindAllStringSubmatch(paragraphText(p), -1) {
			key := tokenKey(m[1])
			if !isBlockToken(key) {
				continue
			}
			if tokens.resolve(key).action != actionDeleteBlock {
				return false
			}
			found = true
		}
	}
	return found
}

// onlyBulletLeft reports whether text is empty or a bullet glyph once its
// unused bullet placeholders are removed.
func onlyBulletLeft(text string, tokens *tokenSet) bool {
	rest := validation.TokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		if tokens.resolve(tokenKey(token[2:len(token)-2])).action == actionDropBullet {
			return ""
		}
		return token
	})
	return strings.Trim(rest, bulletGlyphs) == ""
}

func paragraphTexts(root *etree.Element) []string {
	paragraphs := collect(root, "p")
	texts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		texts = append(texts, paragraphText(p))
	}
	return texts
}

// Inspect scans a DOCX document for placeholders in all fillable parts.
func Inspect(data []byte) (*types.Violations, error) {
	pkg, err := readPackage(data)
	if err != nil {
		return nil, err
	}

	result := &types.Violations{}
	for _, part := range pkg.fillable() {
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(part.data); err != nil {
			return nil, &TemplateError{Message: fmt.Sprintf("failed to parse %s", part.header.Name), Cause: err}
		}
		if doc.Root() == nil {
			continue
		}
		result.Violations = append(result.Violations, validation.FindLeftoverTokens(part.header.Name, paragraphTexts(doc.Root()))...)
	}
	return result, nil
}

func intPtr(i int) *int {
	return &i
}
