package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/hashstructure/v2"
)

// Errors returned by document operations.
var (
	ErrOutOfRange   = errors.New("position out of range")
	ErrInvalidCount = errors.New("invalid count")
)

// rowBreak is the glyph the document hands to visitors at the end of
// every row during Walk.
var rowBreak = NewCharacter('\n')

// Document is an ordered list of rows. It always has at least one row.
type Document struct {
	rows []*Row
}

// New creates an empty document.
func New() *Document {
	return &Document{rows: []*Row{{}}}
}

// FromString creates a document holding text.
func FromString(text string) *Document {
	d := New()
	d.rebuild(SpanFromString(text))
	return d
}

// Rows returns the document's rows. The slice must not be modified.
func (d *Document) Rows() []*Row {
	return d.rows
}

// RowCount returns the number of rows.
func (d *Document) RowCount() int {
	return len(d.rows)
}

// Row returns row i, or nil if i is out of range.
func (d *Document) Row(i int) *Row {
	if i < 0 || i >= len(d.rows) {
		return nil
	}
	return d.rows[i]
}

// Len returns the number of units in the document: glyphs plus row breaks.
func (d *Document) Len() int {
	n := len(d.rows) - 1
	for _, r := range d.rows {
		n += len(r.Glyphs)
	}
	return n
}

// Text returns the document's plain text, rows joined with "\n".
func (d *Document) Text() string {
	lines := make([]string, len(d.rows))
	for i, r := range d.rows {
		lines[i] = r.Text()
	}
	return strings.Join(lines, "\n")
}

// End returns the position after the last glyph.
func (d *Document) End() Position {
	last := len(d.rows) - 1
	return Position{Row: last, Col: d.rows[last].Len()}
}

// Walk dispatches v over every row in order. Each row is followed by a
// newline Character so visitors observe row ends as boundaries.
func (d *Document) Walk(v Visitor) {
	for _, r := range d.rows {
		r.Accept(v)
		rowBreak.Accept(v)
	}
}

// Insert inserts text at pos and returns the position after it.
func (d *Document) Insert(pos Position, text string) (Position, error) {
	return d.InsertSpan(pos, SpanFromString(text))
}

// InsertImage inserts a single image at pos.
func (d *Document) InsertImage(pos Position, img *Image) (Position, error) {
	return d.InsertSpan(pos, Span{img})
}

// InsertSpan inserts span at pos and returns the position after it.
func (d *Document) InsertSpan(pos Position, span Span) (Position, error) {
	off, err := d.offset(pos)
	if err != nil {
		return pos, err
	}
	if len(span) == 0 {
		return pos, nil
	}

	units := d.flatten()
	out := make(Span, 0, len(units)+len(span))
	out = append(out, units[:off]...)
	out = append(out, span...)
	out = append(out, units[off:]...)
	d.rebuild(out)

	return d.position(off + len(span)), nil
}

// Delete removes count units starting at pos and returns them.
func (d *Document) Delete(pos Position, count int) (Span, error) {
	removed, err := d.TextRange(pos, count)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return removed, nil
	}

	off, _ := d.offset(pos)
	units := d.flatten()
	out := make(Span, 0, len(units)-count)
	out = append(out, units[:off]...)
	out = append(out, units[off+count:]...)
	d.rebuild(out)

	return removed, nil
}

// TextRange returns a copy of count units starting at pos.
func (d *Document) TextRange(pos Position, count int) (Span, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	off, err := d.offset(pos)
	if err != nil {
		return nil, err
	}
	units := d.flatten()
	if off+count > len(units) {
		return nil, fmt.Errorf("%w: %d units from %s exceeds document length %d", ErrOutOfRange, count, pos, len(units))
	}
	out := make(Span, count)
	copy(out, units[off:off+count])
	return out, nil
}

// Advance returns the position n units after pos.
func (d *Document) Advance(pos Position, n int) (Position, error) {
	off, err := d.offset(pos)
	if err != nil {
		return pos, err
	}
	if n < 0 || off+n > d.Len() {
		return pos, fmt.Errorf("%w: cannot advance %s by %d", ErrOutOfRange, pos, n)
	}
	return d.position(off + n), nil
}

// Validate reports whether pos addresses a gap in the document.
func (d *Document) Validate(pos Position) error {
	_, err := d.offset(pos)
	return err
}

// glyphKey is the hashed form of a glyph.
type glyphKey struct {
	Kind   string
	Rune   rune
	Source string
	Width  int
	Height int
}

// Fingerprint returns a hash of the document's content. Equal documents
// produce equal fingerprints.
func (d *Document) Fingerprint() (uint64, error) {
	view := make([][]glyphKey, len(d.rows))
	for i, r := range d.rows {
		keys := make([]glyphKey, len(r.Glyphs))
		for j, g := range r.Glyphs {
			switch g := g.(type) {
			case *Image:
				keys[j] = glyphKey{Kind: "image", Rune: g.Rune(), Source: g.Source, Width: g.Width, Height: g.Height}
			default:
				keys[j] = glyphKey{Kind: "char", Rune: g.Rune()}
			}
		}
		view[i] = keys
	}
	return hashstructure.Hash(view, hashstructure.FormatV2, nil)
}

// offset converts pos to a linear unit offset.
func (d *Document) offset(pos Position) (int, error) {
	if pos.Row < 0 || pos.Row >= len(d.rows) {
		return 0, fmt.Errorf("%w: row %d of %d", ErrOutOfRange, pos.Row, len(d.rows))
	}
	if pos.Col < 0 || pos.Col > d.rows[pos.Row].Len() {
		return 0, fmt.Errorf("%w: column %d of row %d (length %d)", ErrOutOfRange, pos.Col, pos.Row, d.rows[pos.Row].Len())
	}
	off := 0
	for i := 0; i < pos.Row; i++ {
		off += d.rows[i].Len() + 1
	}
	return off + pos.Col, nil
}

// position converts a linear unit offset to a Position.
func (d *Document) position(off int) Position {
	for i, r := range d.rows {
		if off <= r.Len() {
			return Position{Row: i, Col: off}
		}
		off -= r.Len() + 1
	}
	return d.End()
}

// flatten returns the document as a Span.
func (d *Document) flatten() Span {
	units := make(Span, 0, d.Len())
	for i, r := range d.rows {
		if i > 0 {
			units = append(units, nil)
		}
		units = append(units, r.Glyphs...)
	}
	return units
}

// rebuild replaces the document's rows with those described by units.
func (d *Document) rebuild(units Span) {
	rows := []*Row{{}}
	for _, g := range units {
		if g == nil {
			rows = append(rows, &Row{})
			continue
		}
		cur := rows[len(rows)-1]
		cur.Glyphs = append(cur.Glyphs, g)
	}
	d.rows = rows
}
