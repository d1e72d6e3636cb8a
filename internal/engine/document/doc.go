// Package document provides Lexi's glyph document and the Visitor
// contract used to traverse it.
//
// A Document is an ordered list of Rows; a Row is an ordered list of
// Glyphs. Two glyph kinds exist: Character (a single rune) and Image (an
// embedded picture that occupies one position).
//
// # Visitors
//
// Operations that apply across every element kind (spell-checking,
// word counting, hyphenation) implement Visitor and are dispatched by the
// glyphs themselves:
//
//	doc := document.FromString("hello world")
//	doc.Walk(v) // v.VisitRow, then v.VisitCharacter for every glyph
//
// Walk terminates each row with a newline Character so that visitors see
// row ends as ordinary boundaries.
//
// # Editing
//
// Edits address the document with a Position (row and column, both
// 0-indexed, column counted in glyphs). Internally the document is treated
// as a linear sequence in which each row break occupies one unit, so a
// Delete spanning the end of a row joins two rows. Deleted content is
// returned as a Span, which can be reinserted verbatim (images included).
//
// A Document is not safe for concurrent use.
package document
