package core_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinyvision/phpls/internal/config"
	"github.com/shinyvision/phpls/internal/core"
	"github.com/shinyvision/phpls/internal/symbol"
	"github.com/shinyvision/phpls/internal/symkind"
)

const greeterSource = `<?php

class Greeter {
    public function greet(string $name): string {
        return "Hello, " . $name;
    }
}

function runGreeting(): void {
    $g = new Greeter();
    echo $g->greet("World");
}
`

// posAt converts a byte offset into greeterSource into a symbol.Position,
// mirroring how an editor would report the same location.
func posAt(src string, offset int) symbol.Position {
	line, col := 0, 0
	for i, r := range src {
		if i == offset {
			return symbol.Position{Line: line, Character: col}
		}
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return symbol.Position{Line: line, Character: col}
}

func newTestCore() *core.Core {
	cfg := config.NewConfig()
	return core.New(cfg, nil)
}

func TestDocumentSymbolsFindsClassMethodAndFunction(t *testing.T) {
	c := newTestCore()
	c.OpenDocument("file:///greeter.php", greeterSource, 1)

	infos := c.DocumentSymbols("file:///greeter.php")
	require.NotEmpty(t, infos)

	names := map[string]symkind.Kind{}
	for _, info := range infos {
		names[info.Name] = info.Kind
	}
	assert.Equal(t, symkind.Class, names["Greeter"])
	assert.Equal(t, symkind.Method, names["greet"])
	assert.Equal(t, symkind.Function, names["runGreeting"])
}

func TestProvideDefinitionFromMethodCallResolvesToDeclaration(t *testing.T) {
	c := newTestCore()
	c.OpenDocument("file:///greeter.php", greeterSource, 1)

	callSite := strings.Index(greeterSource, `$g->greet(`)
	require.GreaterOrEqual(t, callSite, 0)
	pos := posAt(greeterSource, callSite+len(`$g->`))

	locs := c.ProvideDefinition("file:///greeter.php", pos)
	require.NotEmpty(t, locs)
	assert.Equal(t, "file:///greeter.php", locs[0].URI)
}

func TestProvideHoverOnDeclarationDescribesTheMethod(t *testing.T) {
	c := newTestCore()
	c.OpenDocument("file:///greeter.php", greeterSource, 1)

	declSite := strings.Index(greeterSource, "greet(string")
	require.GreaterOrEqual(t, declSite, 0)
	pos := posAt(greeterSource, declSite)

	hover, ok := c.ProvideHover("file:///greeter.php", pos)
	require.True(t, ok)
	assert.Equal(t, "function greet(string name): string", hover.Contents)
}

// S1 (spec §8): two files declaring \A\B\Foo, with a method `bar(): int`,
// and a caller in a separate file that imports and calls it. Both
// provideDefinition and hover at the call site must resolve through the
// import, not just within a single document.
const s1DeclSource = `<?php
namespace A\B;

class Foo {
    public function bar(): int {
        return 1;
    }
}
`

const s1CallerSource = `<?php
use A\B\Foo;

$foo = new Foo();
$foo->bar();
`

func TestS1DefinitionAndHoverAcrossFilesThroughImport(t *testing.T) {
	c := newTestCore()
	c.OpenDocument("file:///A/B/Foo.php", s1DeclSource, 1)
	c.OpenDocument("file:///caller.php", s1CallerSource, 1)

	callSite := strings.Index(s1CallerSource, "$foo->bar(")
	require.GreaterOrEqual(t, callSite, 0)
	pos := posAt(s1CallerSource, callSite+len("$foo->"))

	locs := c.ProvideDefinition("file:///caller.php", pos)
	require.NotEmpty(t, locs)
	assert.Equal(t, "file:///A/B/Foo.php", locs[0].URI)

	declSite := strings.Index(s1DeclSource, "bar(): int")
	require.GreaterOrEqual(t, declSite, 0)
	declPos := posAt(s1DeclSource, declSite)
	assert.Equal(t, declPos.Line, locs[0].Range.Start.Line)

	hover, ok := c.ProvideHover("file:///caller.php", pos)
	require.True(t, ok)
	assert.Equal(t, "function bar(): int", hover.Contents)
}

// S4 (spec §8): an aliased import (`use A\B\Foo as F`) still resolves to
// the aliased class's FQN, and provideReferences from either the
// reference or the declaration enumerates both locations.
const s4CallerSource = `<?php
namespace N;

use A\B\Foo as F;

new F();
`

func TestS4AliasedImportResolvesAndEnumeratesReferences(t *testing.T) {
	c := newTestCore()
	c.OpenDocument("file:///A/B/Foo.php", s1DeclSource, 1)
	c.OpenDocument("file:///caller.php", s1CallerSource, 1)
	c.OpenDocument("file:///n-caller.php", s4CallerSource, 1)

	aliasSite := strings.Index(s4CallerSource, "new F(")
	require.GreaterOrEqual(t, aliasSite, 0)
	aliasPos := posAt(s4CallerSource, aliasSite+len("new "))

	locs := c.ProvideDefinition("file:///n-caller.php", aliasPos)
	require.NotEmpty(t, locs)
	assert.Equal(t, "file:///A/B/Foo.php", locs[0].URI, "the aliased reference must resolve to \\A\\B\\Foo's declaration")

	plainSite := strings.Index(s1CallerSource, "new Foo(")
	require.GreaterOrEqual(t, plainSite, 0)
	plainPos := posAt(s1CallerSource, plainSite+len("new "))

	// From either use site, provideReferences (with includeDeclaration)
	// must enumerate the declaration plus both use sites.
	for _, tc := range []struct {
		uri string
		pos symbol.Position
	}{
		{"file:///n-caller.php", aliasPos},
		{"file:///caller.php", plainPos},
	} {
		out := c.ProvideReferences(tc.uri, tc.pos, true)
		var sawDecl, sawAliasUse, sawPlainUse bool
		for _, l := range out {
			switch l.URI {
			case "file:///A/B/Foo.php":
				sawDecl = true
			case "file:///n-caller.php":
				sawAliasUse = true
			case "file:///caller.php":
				sawPlainUse = true
			}
		}
		assert.True(t, sawDecl, "provideReferences from %s must include the declaration", tc.uri)
		assert.True(t, sawAliasUse, "provideReferences from %s must include the aliased use site", tc.uri)
		assert.True(t, sawPlainUse, "provideReferences from %s must include the unaliased use site", tc.uri)
	}
}

// S5 (spec §8): a `@var` PHPDoc annotation on a bare variable must drive
// hover even with no other type information available.
const s5Source = `<?php
namespace X;

class X {}

function f() {
    /** @var \X\X $x */
    $x;
}
`

func TestS5HoverOnVarDocAnnotatedVariable(t *testing.T) {
	c := newTestCore()
	c.OpenDocument("file:///s5.php", s5Source, 1)

	site := strings.LastIndex(s5Source, "$x;")
	require.GreaterOrEqual(t, site, 0)
	pos := posAt(s5Source, site)

	hover, ok := c.ProvideHover("file:///s5.php", pos)
	require.True(t, ok)
	assert.Equal(t, `\X\X $x`, hover.Contents)
}

// S6 (spec §8): deleting a declaration in one document must invalidate
// definitions that a second, unedited document's reference used to
// resolve to.
func TestS6EditingAwayADeclarationBreaksAnotherDocumentsDefinition(t *testing.T) {
	c := newTestCore()
	c.OpenDocument("file:///A/B/Foo.php", s1DeclSource, 1)
	c.OpenDocument("file:///caller.php", s1CallerSource, 1)

	callSite := strings.Index(s1CallerSource, "$foo->bar(")
	require.GreaterOrEqual(t, callSite, 0)
	pos := posAt(s1CallerSource, callSite+len("$foo->"))

	locs := c.ProvideDefinition("file:///caller.php", pos)
	require.NotEmpty(t, locs, "precondition: the call resolves before the edit")

	fullRange := symbol.Range{
		Start: symbol.Position{Line: 0, Character: 0},
		End:   symbol.Position{Line: 100, Character: 0},
	}
	c.EditDocument("file:///A/B/Foo.php", 2, []core.TextEdit{
		{Range: fullRange, NewText: "<?php\nnamespace A\\B;\n", Whole: true},
	})

	locs = c.ProvideDefinition("file:///caller.php", pos)
	assert.Empty(t, locs, "the caller's reference must no longer resolve once Foo's declaration is gone")
}

// S2 (spec §8): completion on a typed parameter's member access offers
// the declared method matching the typed prefix first, ahead of the
// magic __call method the class also declares.
const s2Source = `<?php
namespace A\B;

class Foo {
    public function bar(): int {
        return 1;
    }
    public function __call($name, $args) {}
}

function f(Foo $x) {
    $x->bar();
}
`

func TestS2CompletionOnTypedParameterOffersItsMethods(t *testing.T) {
	c := newTestCore()
	c.OpenDocument("file:///s2.php", s2Source, 1)

	site := strings.Index(s2Source, "$x->bar(")
	require.GreaterOrEqual(t, site, 0)
	pos := posAt(s2Source, site+len("$x->b"))

	result := c.ProvideCompletions("file:///s2.php", pos)
	var labels []string
	for _, item := range result.Items {
		labels = append(labels, item.Label)
	}
	require.Contains(t, labels, "bar")
	assert.Equal(t, "bar", result.Items[0].Label, "bar must sort before the magic __call method")
	assert.Equal(t, symkind.Method, result.Items[0].Kind)
}

// S3 (spec §8): inside an `instanceof`-narrowed branch, completion on the
// narrowed variable offers the narrowed type's members, not the
// variable's declared type.
const s3Source = `<?php
namespace A\B;

class Foo {
    public function fooOnly(): int {
        return 1;
    }
}

class Bar extends Foo {
    public function barOnly(): int {
        return 2;
    }
}

function f(Foo $x) {
    if ($x instanceof Bar) {
        $x->barOnly();
    }
}
`

func TestS3InstanceofNarrowingAffectsCompletion(t *testing.T) {
	c := newTestCore()
	c.OpenDocument("file:///s3.php", s3Source, 1)

	site := strings.Index(s3Source, "$x->barOnly(")
	require.GreaterOrEqual(t, site, 0)
	pos := posAt(s3Source, site+len("$x->b"))

	result := c.ProvideCompletions("file:///s3.php", pos)
	var labels []string
	for _, item := range result.Items {
		labels = append(labels, item.Label)
	}
	assert.Contains(t, labels, "barOnly", "inside the instanceof-narrowed branch, Bar's own members must be offered")
}

func TestProvideDocumentFormattingEditsTrimsTrailingWhitespace(t *testing.T) {
	c := newTestCore()
	source := "<?php   \necho 1;\n"
	c.OpenDocument("file:///messy.php", source, 1)

	edits := c.ProvideDocumentFormattingEdits("file:///messy.php")
	require.Len(t, edits, 1)
	assert.Equal(t, 0, edits[0].Range.Start.Line)
}

func TestCloseThenForgetRemovesWorkspaceSymbols(t *testing.T) {
	c := newTestCore()
	c.OpenDocument("file:///greeter.php", greeterSource, 1)
	require.NotEmpty(t, c.WorkspaceSymbols("Greeter"))

	c.CloseDocument("file:///greeter.php")
	assert.NotEmpty(t, c.WorkspaceSymbols("Greeter"), "closing keeps symbols indexed for workspace queries")

	c.Forget("file:///greeter.php")
	assert.Empty(t, c.WorkspaceSymbols("Greeter"))
}
