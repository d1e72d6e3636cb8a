package spell

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FileReader reads whole files. loader.OSFS satisfies it.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// Dictionary is an ordered set of correctly spelled words.
type Dictionary struct {
	words []string
	set   map[string]struct{}
}

// NewDictionary builds a dictionary from words, keeping their order and
// dropping duplicates.
func NewDictionary(words ...string) *Dictionary {
	d := &Dictionary{set: make(map[string]struct{}, len(words))}
	for _, w := range words {
		d.add(w)
	}
	return d
}

func (d *Dictionary) add(word string) {
	if word == "" {
		return
	}
	if _, ok := d.set[word]; ok {
		return
	}
	d.set[word] = struct{}{}
	d.words = append(d.words, word)
}

// ParseDictionary reads a word list with one word per line. Only the first
// whitespace-separated field of a line is used; blank lines are skipped.
// Words are stored as written.
func ParseDictionary(r io.Reader) (*Dictionary, error) {
	d := NewDictionary()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		d.add(fields[0])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading word list: %w", err)
	}
	return d, nil
}

// LoadDictionary reads the word list at path through fsys.
func LoadDictionary(fsys FileReader, path string) (*Dictionary, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDictionaryUnavailable, path, err)
	}
	return ParseDictionary(strings.NewReader(string(data)))
}

// Contains reports whether word is in the dictionary, exactly as given.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.set[word]
	return ok
}

// Len returns the number of words.
func (d *Dictionary) Len() int {
	return len(d.words)
}

// Words returns a copy of the words in load order.
func (d *Dictionary) Words() []string {
	out := make([]string, len(d.words))
	copy(out, d.words)
	return out
}
