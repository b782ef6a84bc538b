package tajweed

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// spanPattern matches [code[content] and [code:id[content]. Content stops at
// the first closing bracket.
var spanPattern = regexp.MustCompile(`\[([a-zA-Z])(?::(\d+))?\[(.*?)\]`)

// Segment is a run of text, annotated when Rule is set.
type Segment struct {
	Text        string `json:"text"`
	Annotated   bool   `json:"annotated"`
	Rule        Rule   `json:"-"`
	Code        string `json:"code,omitempty"`
	Type        string `json:"type,omitempty"`
	Class       string `json:"class,omitempty"`
	Description string `json:"description,omitempty"`
	ID          string `json:"id,omitempty"`
}

// Document is the parsed form of one annotated text.
type Document struct {
	Segments    []Segment `json:"segments"`
	Diagnostics []string  `json:"diagnostics,omitempty"`
}

// HasMarkup reports whether text contains the opening bracket at all.
func HasMarkup(text string) bool {
	return strings.Contains(text, "[")
}

// Parse splits text into plain and annotated segments. Spans with an unknown
// code become plain segments and add a diagnostic. Malformed spans stay as
// literal text.
func Parse(text string) Document {
	var doc Document
	if text == "" {
		return doc
	}
	if !HasMarkup(text) {
		doc.Segments = []Segment{{Text: text}}
		return doc
	}

	pos := 0
	for _, m := range spanPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > pos {
			doc.appendPlain(text[pos:m[0]])
		}
		code := text[m[2]:m[3]]
		content := text[m[6]:m[7]]
		var id string
		if m[4] >= 0 {
			id = text[m[4]:m[5]]
		}

		rule := RuleForCode(code[0])
		info, ok := rule.Info()
		if !ok {
			doc.Diagnostics = append(doc.Diagnostics, fmt.Sprintf("unknown tajweed code %q at offset %d", code, m[0]))
			doc.appendPlain(content)
		} else {
			doc.Segments = append(doc.Segments, Segment{
				Text:        content,
				Annotated:   true,
				Rule:        rule,
				Code:        code,
				Type:        info.Type,
				Class:       info.Class,
				Description: info.Description,
				ID:          id,
			})
		}
		pos = m[1]
	}
	if pos < len(text) {
		doc.appendPlain(text[pos:])
	}
	return doc
}

// appendPlain merges adjacent plain runs.
func (d *Document) appendPlain(s string) {
	if s == "" {
		return
	}
	if n := len(d.Segments); n > 0 && !d.Segments[n-1].Annotated {
		d.Segments[n-1].Text += s
		return
	}
	d.Segments = append(d.Segments, Segment{Text: s})
}

// PlainText returns the text with all markup removed.
func (d Document) PlainText() string {
	var b strings.Builder
	for _, s := range d.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// bracketEscaper runs after html.EscapeString so rendered output never
// contains an opening bracket.
var bracketEscaper = strings.NewReplacer("[", "&#91;")

func escape(s string) string {
	return bracketEscaper.Replace(html.EscapeString(s))
}

// HTML renders the document as <tajweed> elements. Once any span matched,
// every opening bracket in the output is escaped, so rendering the result
// again is the identity.
func (d Document) HTML() string {
	if !d.matched() {
		return d.PlainText()
	}
	var b strings.Builder
	for _, s := range d.Segments {
		if !s.Annotated {
			b.WriteString(bracketEscaper.Replace(s.Text))
			continue
		}
		tag := ""
		if s.ID != "" {
			tag = ":" + s.ID
		}
		fmt.Fprintf(&b, `<tajweed class="%s" data-type="%s" data-description="%s" data-tajweed="%s">%s</tajweed>`,
			escape(s.Class), escape(s.Type), escape(s.Description), tag, escape(s.Text))
	}
	return b.String()
}

// matched reports whether Parse found at least one span, known or not.
func (d Document) matched() bool {
	if len(d.Diagnostics) > 0 {
		return true
	}
	for _, s := range d.Segments {
		if s.Annotated {
			return true
		}
	}
	return false
}

// Render converts annotated text to HTML. Text without markup is returned as is.
func Render(text string) string {
	if !HasMarkup(text) {
		return text
	}
	return Parse(text).HTML()
}
