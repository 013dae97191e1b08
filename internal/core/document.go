// Package core wires every analysis component together behind the
// plain-Go API spec §6 describes (openDocument/editDocument/...): it is
// the one package that knows about tree-sitter parsing, the symbol and
// reference readers, and the two cross-document stores all at once.
//
// Grounded on the teacher's internal/php/document.go (Document's
// tree-sitter parser ownership, full vs. incremental reparse, dirty-range
// tracking) — generalized from the teacher's StaticAnalyzer/IndexedTree
// pair to SPEC_FULL's SymbolTable/ReferenceTable pair.
package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	phpforest "github.com/alexaandru/go-sitter-forest/php"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/shinyvision/phpls/internal/reference"
	"github.com/shinyvision/phpls/internal/symbol"
)

// document owns one open file's parse tree and derived tables. Core
// looks documents up under its own map lock and releases it before
// calling in; each method here takes the document's own mutex.
type document struct {
	mu      sync.Mutex
	uri     string
	parser  *sitter.Parser
	tree    *sitter.Tree
	content []byte
	version int32

	symbols    *symbol.SymbolTable
	references *reference.ReferenceTable
	dirty      bool
}

func newDocument(uri string) *document {
	parser := sitter.NewParser()
	lang := sitter.NewLanguage(phpforest.GetLanguage())
	_ = parser.SetLanguage(lang)
	return &document{uri: uri, parser: parser, dirty: true}
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// setText fully replaces the document's text and reparses it in one
// shot — edits arrive as an ordered batch of {range, text} pairs (spec
// §6 `editDocument`), so the core always resolves them against a
// string before handing a single new buffer here.
func (d *document) setText(content []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var oldTree *sitter.Tree
	if d.tree != nil {
		oldTree = d.tree
	}
	tree, err := d.parser.ParseString(context.Background(), nil, content)
	if err != nil {
		return err
	}
	if oldTree != nil {
		oldTree.Close()
	}
	d.tree = tree
	d.content = content
	d.dirty = true
	return nil
}

// close releases the tree-sitter tree.
func (d *document) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
}

// analyze rebuilds the SymbolTable and, when refRd is non-nil, the
// ReferenceTable if the text changed since the last analyze (it does
// nothing for a clean document) — the "flush" primitive spec §5
// requires every query to force before reading. It is synchronous: the
// core has no background debounce timer, so a dirty document is always
// caught up by the time any accessor runs (see DESIGN.md's resolution
// of the debounce open question).
func (d *document) analyze(rd *symbol.Reader, refRd func(tree *sitter.Tree, content []byte) *reference.ReferenceTable) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.dirty {
		return
	}
	hash := hashContent(d.content)
	d.symbols = rd.Read(d.tree, d.content, hash)
	if refRd != nil {
		d.references = refRd(d.tree, d.content)
	}
	d.dirty = false
}

// snapshot returns a safe-to-read copy of the tree handle, content, and
// derived tables. The sitter.Tree itself is still shared — callers must
// not mutate it — matching the teacher's Document.Read contract.
func (d *document) snapshot() (*sitter.Tree, []byte, *symbol.SymbolTable, *reference.ReferenceTable) {
	d.mu.Lock()
	defer d.mu.Unlock()
	contentCopy := append([]byte(nil), d.content...)
	return d.tree, contentCopy, d.symbols, d.references
}
