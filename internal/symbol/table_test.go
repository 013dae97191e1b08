package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinyvision/phpls/internal/symbol"
	"github.com/shinyvision/phpls/internal/symkind"
)

func pos(line, ch int) symbol.Position { return symbol.Position{Line: line, Character: ch} }

func rng(startLine, startCh, endLine, endCh int) symbol.Range {
	return symbol.Range{Start: pos(startLine, startCh), End: pos(endLine, endCh)}
}

// At must return the innermost symbol whose range contains pos — the
// boundary case this session's review flagged: a position inside a
// method body must resolve to the most nested declaration covering it,
// not stop at the first (outermost) match.
func TestSymbolTableAtReturnsInnermostMatch(t *testing.T) {
	table := symbol.NewTable("file:///x.php", "hash")
	class := &symbol.Symbol{
		Kind: symkind.Class, Name: "Greeter", HasLocation: true,
		Location: symbol.Location{URI: "file:///x.php", Range: rng(0, 0, 10, 0)},
	}
	method := &symbol.Symbol{
		Kind: symkind.Method, Name: "greet", HasLocation: true,
		Location: symbol.Location{URI: "file:///x.php", Range: rng(1, 0, 3, 0)},
	}
	class.Children = append(class.Children, method)
	table.Root.Children = append(table.Root.Children, class)

	got := table.At(pos(2, 0))
	require.NotNil(t, got)
	assert.Equal(t, "greet", got.Name)

	got = table.At(pos(5, 0))
	require.NotNil(t, got)
	assert.Equal(t, "Greeter", got.Name)

	assert.Nil(t, table.At(pos(20, 0)))
}

func TestSymbolTableAtOnEmptyTableReturnsNil(t *testing.T) {
	var table *symbol.SymbolTable
	assert.Nil(t, table.At(pos(0, 0)))

	empty := symbol.NewTable("file:///x.php", "hash")
	assert.Nil(t, empty.At(pos(0, 0)))
}

func TestSymbolTableAllWalksEveryChildIncludingRoot(t *testing.T) {
	table := symbol.NewTable("file:///x.php", "hash")
	class := &symbol.Symbol{Kind: symkind.Class, Name: "Greeter"}
	method := &symbol.Symbol{Kind: symkind.Method, Name: "greet"}
	class.Children = append(class.Children, method)
	table.Root.Children = append(table.Root.Children, class)

	names := map[string]bool{}
	for _, s := range table.All() {
		names[s.Name] = true
	}
	assert.True(t, names["Greeter"])
	assert.True(t, names["greet"])
	assert.True(t, names[table.Root.Name])
}

// NameResolverAt reconstructs the namespace/use-rule state visible at a
// position: rules declared after pos must not be visible, round-tripping
// through ResolveNotFullyQualified.
func TestNameResolverAtOnlySeesDeclarationsBeforePos(t *testing.T) {
	table := symbol.NewTable("file:///x.php", "hash")
	ns := &symbol.Symbol{
		Kind: symkind.Namespace, Name: "App", HasLocation: true,
		Location: symbol.Location{Range: rng(0, 0, 0, 10)},
	}
	earlyUse := &symbol.Symbol{
		Kind: symkind.Class, Name: "User", Modifiers: symkind.Use, HasLocation: true,
		Location:   symbol.Location{Range: rng(1, 0, 1, 20)},
		Associated: []symbol.Assoc{{Kind: symkind.Class, FQN: `App\Entity\User`}},
	}
	lateUse := &symbol.Symbol{
		Kind: symkind.Class, Name: "Order", Modifiers: symkind.Use, HasLocation: true,
		Location:   symbol.Location{Range: rng(5, 0, 5, 20)},
		Associated: []symbol.Assoc{{Kind: symkind.Class, FQN: `App\Entity\Order`}},
	}
	table.Root.Children = append(table.Root.Children, ns, earlyUse, lateUse)

	resolver := table.NameResolverAt(pos(3, 0))
	assert.Equal(t, `App\Entity\User`, resolver.ResolveNotFullyQualified("User", symkind.Class))
	assert.Equal(t, `App\Order`, resolver.ResolveNotFullyQualified("Order", symkind.Class),
		"a use-rule declared after pos must not be visible yet")
}
