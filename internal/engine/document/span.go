package document

import "strings"

// Span is a linear run of document content. A nil entry marks a row break.
type Span []Glyph

// SpanFromString converts text to a Span. Newlines become row breaks;
// "\r\n" is treated as a single break.
func SpanFromString(text string) Span {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	span := make(Span, 0, len(text))
	for _, r := range text {
		if r == '\n' {
			span = append(span, nil)
			continue
		}
		span = append(span, NewCharacter(r))
	}
	return span
}

// String returns the span's plain text.
func (s Span) String() string {
	var b strings.Builder
	for _, g := range s {
		if g == nil {
			b.WriteByte('\n')
			continue
		}
		b.WriteRune(g.Rune())
	}
	return b.String()
}

// Len returns the number of units in the span.
func (s Span) Len() int {
	return len(s)
}
