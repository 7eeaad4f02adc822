// Package render turns ticket descriptions into display forms: HTML with
// fenced code blocks, markup-free plain text and short previews.
package render

import (
	"html"
	"strings"
	"unicode/utf8"

	nethtml "golang.org/x/net/html"
)

const (
	// Fence delimits code segments inside a description.
	Fence = "```"
	// PreviewLength is the preview cap used by ticket enrichment.
	PreviewLength = 160
	// Ellipsis is appended to truncated previews.
	Ellipsis = "…"
)

type SegmentKind string

const (
	SegmentProse SegmentKind = "prose"
	SegmentCode  SegmentKind = "code"
)

type Segment struct {
	Kind SegmentKind
	Text string
}

type Document struct {
	Segments []Segment
}

// Render splits text on Fence. Even-indexed pieces are prose and odd-indexed
// pieces are code; an unbalanced fence simply leaves the tail classified by
// position.
func Render(text string) Document {
	parts := strings.Split(text, Fence)
	doc := Document{Segments: make([]Segment, 0, len(parts))}
	for i, p := range parts {
		kind := SegmentProse
		if i%2 == 1 {
			kind = SegmentCode
		}
		doc.Segments = append(doc.Segments, Segment{Kind: kind, Text: p})
	}
	return doc
}

var proseBreaks = strings.NewReplacer("\r\n", "<br />\r\n", "\n", "<br />\n", "\r", "<br />\r")

// HTML emits the document as escaped markup. Segment text never reaches the
// output unescaped.
func (d Document) HTML() string {
	var b strings.Builder
	for _, s := range d.Segments {
		escaped := html.EscapeString(s.Text)
		switch s.Kind {
		case SegmentCode:
			b.WriteString(`<pre class="bg-slate-900 text-slate-100 p-4 rounded-lg overflow-x-auto"><code>`)
			b.WriteString(escaped)
			b.WriteString(`</code></pre>`)
		default:
			b.WriteString(`<p class="leading-relaxed">`)
			b.WriteString(proseBreaks.Replace(escaped))
			b.WriteString(`</p>`)
		}
	}
	return b.String()
}

// PlainText drops HTML tags and fence markers from text. Character references
// are decoded ("&amp;" becomes "&"): the result is display text, not HTML.
func PlainText(text string) string {
	var b strings.Builder
	z := nethtml.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return strings.ReplaceAll(b.String(), Fence, "")
		case nethtml.TextToken:
			b.Write(z.Text())
		}
	}
}

// Preview returns PlainText(text) cut to maxLength characters, with Ellipsis
// appended when something was cut. Cuts fall on rune boundaries.
func Preview(text string, maxLength int) string {
	plain := PlainText(text)
	if maxLength < 0 {
		maxLength = 0
	}
	if utf8.RuneCountInString(plain) <= maxLength {
		return plain
	}
	n := 0
	for i := range plain {
		if n == maxLength {
			return plain[:i] + Ellipsis
		}
		n++
	}
	return plain
}
