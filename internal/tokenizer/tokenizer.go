// Package tokenizer splits message text into word tokens.
//
// Every tokenization owns its cursor: the position lives inside the
// Tokenizer value handed back to the caller, never in package state, so any
// number of tokenizations may run concurrently on different goroutines
// without interfering.
package tokenizer

import "strings"

// DefaultDelimiters covers whitespace and common punctuation.
const DefaultDelimiters = " \t\n\r.,:;!?"

// Tokenizer walks one string, yielding maximal runs of non-delimiter bytes.
// Empty tokens are never produced; leading and trailing delimiters are
// skipped. The zero value is exhausted; use New.
type Tokenizer struct {
	text   string
	delims string
	pos    int
}

// New returns a tokenizer over text using the given delimiter set. An empty
// delimiter set yields the whole text as a single token.
func New(text, delims string) *Tokenizer {
	return &Tokenizer{text: text, delims: delims}
}

// Next returns the next token, or ok == false when the text is exhausted.
func (t *Tokenizer) Next() (string, bool) {
	for t.pos < len(t.text) && t.isDelim(t.text[t.pos]) {
		t.pos++
	}
	if t.pos >= len(t.text) {
		return "", false
	}

	start := t.pos
	for t.pos < len(t.text) && !t.isDelim(t.text[t.pos]) {
		t.pos++
	}
	return t.text[start:t.pos], true
}

func (t *Tokenizer) isDelim(c byte) bool {
	return strings.IndexByte(t.delims, c) >= 0
}

// Split tokenizes the whole text at once. Returns nil for text that holds
// only delimiters.
func Split(text, delims string) []string {
	var tokens []string
	tok := New(text, delims)
	for {
		word, ok := tok.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, word)
	}
}
