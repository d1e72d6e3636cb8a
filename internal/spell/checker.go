// Package spell implements spell checking as a document visitor.
//
// A Checker receives characters one at a time, collects runs of letters
// into words and records every word of two or more letters whose lowercase
// form is missing from its dictionary.
package spell

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dshills/lexi/internal/config/loader"
	"github.com/dshills/lexi/internal/engine/document"
	"github.com/dshills/lexi/internal/logger"
)

// ErrDictionaryUnavailable is returned when the word list cannot be read.
var ErrDictionaryUnavailable = errors.New("dictionary unavailable")

// Checker is a document.Visitor that collects misspelled words.
// It is not safe for concurrent use.
type Checker struct {
	dict         *Dictionary
	current      []rune
	misspellings []string

	lower cases.Caser
	fs    FileReader
	log   logger.Sink
}

var _ document.Visitor = (*Checker)(nil)

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the sink for diagnostics.
func WithLogger(sink logger.Sink) Option {
	return func(c *Checker) {
		c.log = logger.OrNop(sink)
	}
}

// WithFS reads the word list through fsys.
func WithFS(fsys FileReader) Option {
	return func(c *Checker) {
		if fsys != nil {
			c.fs = fsys
		}
	}
}

func newChecker(opts []Option) *Checker {
	c := &Checker{
		lower: cases.Lower(language.Und),
		fs:    loader.DefaultFS(),
		log:   logger.Nop,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewChecker loads the word list at dictPath and returns a checker using
// it. An unreadable word list is an error.
func NewChecker(dictPath string, opts ...Option) (*Checker, error) {
	c := newChecker(opts)
	c.log.Writeln(logger.LevelLog, "Word dict path: %s", dictPath)

	dict, err := LoadDictionary(c.fs, dictPath)
	if err != nil {
		return nil, err
	}
	c.dict = dict
	return c, nil
}

// NewCheckerWithDictionary returns a checker using dict.
func NewCheckerWithDictionary(dict *Dictionary, opts ...Option) *Checker {
	c := newChecker(opts)
	if dict == nil {
		dict = NewDictionary()
	}
	c.dict = dict
	return c
}

// VisitCharacter appends letters to the current word. Any other character
// ends the word and checks it.
func (c *Checker) VisitCharacter(ch *document.Character) {
	if unicode.IsLetter(ch.Value) {
		c.current = append(c.current, ch.Value)
		return
	}
	c.Flush()
}

// VisitRow does nothing.
func (c *Checker) VisitRow(*document.Row) {}

// VisitImage does nothing.
func (c *Checker) VisitImage(*document.Image) {}

// Feed visits a single rune.
func (c *Checker) Feed(r rune) {
	c.VisitCharacter(document.NewCharacter(r))
}

// Flush checks and clears the pending word, as if a boundary character
// had been visited.
func (c *Checker) Flush() {
	if len(c.current) > 1 && allLetters(c.current) {
		word := string(c.current)
		if c.IsMisspelled(c.lower.String(word)) {
			c.misspellings = append(c.misspellings, word)
		}
	}
	c.current = c.current[:0]
}

func allLetters(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// CheckText feeds every rune of text, flushes the last word and returns
// all misspellings found so far.
func (c *Checker) CheckText(text string) []string {
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		c.Feed(r)
		text = text[size:]
	}
	c.Flush()
	return c.Misspellings()
}

// CheckDocument walks doc and returns all misspellings found so far.
func (c *Checker) CheckDocument(doc *document.Document) []string {
	doc.Walk(c)
	c.Flush()
	return c.Misspellings()
}

// IsMisspelled reports whether word is absent from the dictionary. The
// lookup is exact; callers lowercase first.
func (c *Checker) IsMisspelled(word string) bool {
	return !c.dict.Contains(word)
}

// Misspellings returns a copy of the misspelled words in detection order.
func (c *Checker) Misspellings() []string {
	out := make([]string, len(c.misspellings))
	copy(out, c.misspellings)
	return out
}

// Words returns a copy of the dictionary's words in load order.
func (c *Checker) Words() []string {
	return c.dict.Words()
}

// Dictionary returns the checker's dictionary.
func (c *Checker) Dictionary() *Dictionary {
	return c.dict
}

// Reset clears the misspellings and the pending word.
func (c *Checker) Reset() {
	c.misspellings = nil
	c.current = c.current[:0]
}
