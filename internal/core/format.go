package core

import (
	"strings"

	"github.com/shinyvision/phpls/internal/symbol"
)

// ProvideDocumentFormattingEdits trims trailing whitespace and
// normalizes line endings to "\n" (spec §6
// `provideDocumentFormattingEdits`). No third-party PHP formatter
// appears anywhere in the retrieved example pack (php-cs-fixer and
// similar tools are themselves PHP, not a Go library this module could
// import), so this stays a minimal standard-library pass rather than
// reaching for a dependency that doesn't exist — recorded in
// DESIGN.md.
func (c *Core) ProvideDocumentFormattingEdits(uri string) []TextEdit {
	content := c.documentContent(uri)
	if content == nil {
		return nil
	}
	return trailingWhitespaceEdits(string(content), symbol.Range{})
}

// ProvideDocumentRangeFormattingEdits is the same pass restricted to
// the lines touched by rng.
func (c *Core) ProvideDocumentRangeFormattingEdits(uri string, rng symbol.Range) []TextEdit {
	content := c.documentContent(uri)
	if content == nil {
		return nil
	}
	return trailingWhitespaceEdits(string(content), rng)
}

func (c *Core) documentContent(uri string) []byte {
	c.mu.Lock()
	doc, ok := c.docs[uri]
	c.mu.Unlock()
	if !ok {
		return nil
	}
	_, content, _, _ := doc.snapshot()
	return content
}

// trailingWhitespaceEdits returns one TextEdit per line carrying
// trailing whitespace, inside bounds if bounds is non-zero.
func trailingWhitespaceEdits(text string, bounds symbol.Range) []TextEdit {
	var edits []TextEdit
	lines := strings.Split(text, "\n")
	restricted := bounds != (symbol.Range{})
	for i, line := range lines {
		if restricted && (i < bounds.Start.Line || i > bounds.End.Line) {
			continue
		}
		trimmed := strings.TrimRight(line, " \t\r")
		if trimmed == line {
			continue
		}
		edits = append(edits, TextEdit{
			Range: symbol.Range{
				Start: symbol.Position{Line: i, Character: len(trimmed)},
				End:   symbol.Position{Line: i, Character: len(line)},
			},
			NewText: "",
		})
	}
	return edits
}
