package rendering

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/a-tejada/cv-converter/internal/validation"
)

// isW reports whether e is the WordprocessingML element <tag>, whatever
// prefix the part binds the namespace to.
func isW(e *etree.Element, tag string) bool {
	return e != nil && e.Tag == tag && e.NamespaceURI() == wordNamespace
}

// newW creates a WordprocessingML element using the same prefix as near.
func newW(near *etree.Element, tag string) *etree.Element {
	if near != nil && near.Space != "" {
		return etree.NewElement(near.Space + ":" + tag)
	}
	return etree.NewElement(tag)
}

// collect returns every descendant of root named w:<tag> in document order.
func collect(root *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if isW(child, tag) {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(root)
	return out
}

// textElements returns the w:t elements that belong to paragraph p itself,
// skipping paragraphs nested in text boxes.
func textElements(p *etree.Element) []*etree.Element {
	var out []*etree.Element
	for _, segment := range textSegments(p) {
		out = append(out, segment...)
	}
	return out
}

// textSegments groups the w:t elements of p into stretches of text that no
// tab or line break interrupts. A placeholder never spans two segments.
func textSegments(p *etree.Element) [][]*etree.Element {
	var segments [][]*etree.Element
	var current []*etree.Element
	flush := func() {
		if len(current) > 0 {
			segments = append(segments, current)
			current = nil
		}
	}
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			switch {
			case isW(child, "p"), isW(child, "pPr"), isW(child, "rPr"):
				continue
			case isW(child, "t"):
				current = append(current, child)
			case isW(child, "tab"), isW(child, "br"), isW(child, "cr"):
				flush()
			default:
				walk(child)
			}
		}
	}
	walk(p)
	flush()
	return segments
}

// paragraphText merges the text of all runs of p.
func paragraphText(p *etree.Element) string {
	var sb strings.Builder
	for _, t := range textElements(p) {
		sb.WriteString(t.Text())
	}
	return sb.String()
}

// replaceTokens substitutes the placeholders of p in place. Text around a
// placeholder stays in its own run and keeps that run's formatting; the value
// lands in the run where the placeholder starts. Newlines become line breaks.
func replaceTokens(p *etree.Element, replace func(token string) string) {
	for _, segment := range textSegments(p) {
		texts := make([]string, len(segment))
		offsets := make([]int, len(segment))
		var sb strings.Builder
		for i, t := range segment {
			offsets[i] = sb.Len()
			texts[i] = t.Text()
			sb.WriteString(texts[i])
		}
		merged := sb.String()

		matches := validation.TokenPattern.FindAllStringIndex(merged, -1)
		if len(matches) == 0 {
			continue
		}

		out := make([]strings.Builder, len(segment))
		// keep copies merged[from:to] back into the runs that held it.
		keep := func(from, to int) {
			for i := range segment {
				lo := max(from, offsets[i])
				hi := min(to, offsets[i]+len(texts[i]))
				if lo < hi {
					out[i].WriteString(merged[lo:hi])
				}
			}
		}
		owner := func(pos int) int {
			i := 0
			for j := range segment {
				if offsets[j] <= pos && len(texts[j]) > 0 {
					i = j
				}
			}
			return i
		}

		cursor := 0
		for _, m := range matches {
			keep(cursor, m[0])
			out[owner(m[0])].WriteString(replace(merged[m[0]:m[1]]))
			cursor = m[1]
		}
		keep(cursor, len(merged))

		for i, t := range segment {
			if text := out[i].String(); text != texts[i] {
				writeLines(t, text)
			}
		}
	}
}

// writeLines sets the text of t, turning each newline into a w:br followed by
// a new w:t in the same run.
func writeLines(t *etree.Element, text string) {
	lines := strings.Split(text, "\n")
	setText(t, lines[0])

	run := t.Parent()
	if run == nil {
		return
	}
	at := t.Index() + 1
	for _, line := range lines[1:] {
		run.InsertChildAt(at, newW(t, "br"))
		at++
		next := newW(t, "t")
		setText(next, line)
		run.InsertChildAt(at, next)
		at++
	}
}

func setText(t *etree.Element, text string) {
	t.SetText(text)
	if text != strings.TrimSpace(text) || strings.Contains(text, "\t") {
		t.CreateAttr("xml:space", "preserve")
	}
}

func remove(e *etree.Element) {
	if parent := e.Parent(); parent != nil {
		parent.RemoveChild(e)
	}
}

// attached reports whether e is still reachable from root.
func attached(e, root *etree.Element) bool {
	for cur := e; cur != nil; cur = cur.Parent() {
		if cur == root {
			return true
		}
	}
	return false
}

// repairContainers keeps the package valid after deletions: tables without
// rows are removed, and cells, text boxes, headers and footers left without
// a paragraph get an empty one.
func repairContainers(root *etree.Element) {
	for _, tbl := range collect(root, "tbl") {
		if len(collectDirect(tbl, "tr")) == 0 {
			remove(tbl)
		}
	}

	var containers []*etree.Element
	if isW(root, "hdr") || isW(root, "ftr") {
		containers = append(containers, root)
	}
	containers = append(containers, collect(root, "tc")...)
	containers = append(containers, collect(root, "txbxContent")...)

	for _, c := range containers {
		if !attached(c, root) {
			continue
		}
		if len(collectDirect(c, "p")) == 0 && len(collectDirect(c, "tbl")) == 0 {
			c.AddChild(newW(c, "p"))
		} else if isW(c, "tc") && !endsWithParagraph(c) {
			c.AddChild(newW(c, "p"))
		}
	}
}

func collectDirect(e *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range e.ChildElements() {
		if isW(child, tag) {
			out = append(out, child)
		}
	}
	return out
}

// A table cell must end with a paragraph.
func endsWithParagraph(tc *etree.Element) bool {
	children := tc.ChildElements()
	return len(children) > 0 && isW(children[len(children)-1], "p")
}
