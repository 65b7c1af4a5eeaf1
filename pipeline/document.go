package pipeline

import (
	"os"
	"strings"
)

// Document is the raw input text plus derived counts. Immutable once loaded.
type Document struct {
	Text       string
	WordCount  int
	TokenCount int
}

// LoadDocument reads the input file and derives word and token counts. A
// missing or unreadable file, or a document with no non-whitespace content,
// fails as *InputError before any chunking or capability call.
func LoadDocument(path string, tok Tokenizer) (Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Document{}, &InputError{Path: path, Reason: "cannot read input document", Err: err}
	}
	text := string(b)
	if strings.TrimSpace(text) == "" {
		return Document{}, &InputError{Path: path, Reason: "input document is empty"}
	}
	return Document{
		Text:       text,
		WordCount:  len(strings.Fields(text)),
		TokenCount: tok.Count(text),
	}, nil
}
