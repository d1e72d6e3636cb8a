package document

// Visitor is an operation dispatched over every document element kind.
type Visitor interface {
	VisitCharacter(c *Character)
	VisitRow(r *Row)
	VisitImage(img *Image)
}

// Glyph is an element that can be placed in a Row.
type Glyph interface {
	// Accept dispatches to the Visitor method for the glyph's kind.
	Accept(v Visitor)

	// Rune returns the glyph's plain text form.
	Rune() rune
}

// ObjectReplacement is the plain text stand-in for images.
const ObjectReplacement = '\uFFFC'

// Character is a single rune of text.
type Character struct {
	Value rune
}

// NewCharacter creates a character glyph.
func NewCharacter(r rune) *Character {
	return &Character{Value: r}
}

// Accept calls v.VisitCharacter.
func (c *Character) Accept(v Visitor) {
	v.VisitCharacter(c)
}

// Rune returns the character's rune.
func (c *Character) Rune() rune {
	return c.Value
}

// Image is an embedded picture.
type Image struct {
	Source string
	Width  int
	Height int
}

// NewImage creates an image glyph.
func NewImage(source string, width, height int) *Image {
	return &Image{Source: source, Width: width, Height: height}
}

// Accept calls v.VisitImage.
func (img *Image) Accept(v Visitor) {
	v.VisitImage(img)
}

// Rune returns ObjectReplacement.
func (img *Image) Rune() rune {
	return ObjectReplacement
}

// Row is one line of glyphs.
type Row struct {
	Glyphs []Glyph
}

// Accept visits the row itself, then each of its glyphs in order.
func (r *Row) Accept(v Visitor) {
	v.VisitRow(r)
	for _, g := range r.Glyphs {
		g.Accept(v)
	}
}

// Len returns the number of glyphs in the row.
func (r *Row) Len() int {
	return len(r.Glyphs)
}

// Text returns the row's plain text.
func (r *Row) Text() string {
	runes := make([]rune, len(r.Glyphs))
	for i, g := range r.Glyphs {
		runes[i] = g.Rune()
	}
	return string(runes)
}
