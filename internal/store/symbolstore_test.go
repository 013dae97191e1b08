package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinyvision/phpls/internal/symbol"
	"github.com/shinyvision/phpls/internal/symkind"
)

func classWithMember(fqn, memberName string, memberKind symkind.Kind) *symbol.Symbol {
	member := &symbol.Symbol{Kind: memberKind, Name: memberName, Scope: fqn, HasLocation: true}
	class := &symbol.Symbol{Kind: symkind.Class, Name: fqn, HasLocation: true, Children: []*symbol.Symbol{member}}
	return class
}

func tableWith(uri string, top ...*symbol.Symbol) *symbol.SymbolTable {
	table := symbol.NewTable(uri, "h1")
	table.Root.Children = top
	return table
}

func TestSymbolStorePutAndClassSymbol(t *testing.T) {
	s := NewSymbolStore(16, nil)
	class := classWithMember(`App\Foo`, "bar", symkind.Method)
	s.Put("file:///Foo.php", tableWith("file:///Foo.php", class))

	got, ok := s.ClassSymbol(`App\Foo`)
	require.True(t, ok)
	assert.Equal(t, `App\Foo`, got.Name)
}

func TestSymbolStoreMembersNamedScansAllClasses(t *testing.T) {
	s := NewSymbolStore(16, nil)
	fooClass := classWithMember(`App\Foo`, "bar", symkind.Method)
	bazClass := classWithMember(`App\Baz`, "bar", symkind.Method)
	s.Put("file:///Foo.php", tableWith("file:///Foo.php", fooClass))
	s.Put("file:///Baz.php", tableWith("file:///Baz.php", bazClass))

	members := s.MembersNamed(symkind.Method, "bar")
	require.Len(t, members, 2)

	var scopes []string
	for _, m := range members {
		scopes = append(scopes, m.Scope)
	}
	assert.ElementsMatch(t, []string{`App\Foo`, `App\Baz`}, scopes)
}

func TestSymbolStoreMembersNamedWrongKindExcluded(t *testing.T) {
	s := NewSymbolStore(16, nil)
	class := classWithMember(`App\Foo`, "bar", symkind.Method)
	s.Put("file:///Foo.php", tableWith("file:///Foo.php", class))

	assert.Empty(t, s.MembersNamed(symkind.Property, "bar"))
}

func TestSymbolStoreForgetRemovesContributions(t *testing.T) {
	s := NewSymbolStore(16, nil)
	class := classWithMember(`App\Foo`, "bar", symkind.Method)
	s.Put("file:///Foo.php", tableWith("file:///Foo.php", class))

	s.Forget("file:///Foo.php")

	_, ok := s.ClassSymbol(`App\Foo`)
	assert.False(t, ok)
	assert.Empty(t, s.MembersNamed(symkind.Method, "bar"))
}

func TestSymbolStoreFindByPrefixIsCaseInsensitive(t *testing.T) {
	s := NewSymbolStore(16, nil)
	class := &symbol.Symbol{Kind: symkind.Class, Name: `App\Widget`, HasLocation: true}
	s.Put("file:///Widget.php", tableWith("file:///Widget.php", class))

	found := s.FindByPrefix("app\\wid")
	require.Len(t, found, 1)
	assert.Equal(t, `App\Widget`, found[0].Name)
}

// FindByPrefix must rank an exact-key match ahead of a merely-prefixed
// one, then break remaining ties by key length (spec §4.7's
// `match(text, filter)` secondary ranking).
func TestSymbolStoreFindByPrefixRanksExactMatchBeforeLongerPrefixMatches(t *testing.T) {
	s := NewSymbolStore(16, nil)
	exact := &symbol.Symbol{Kind: symkind.Function, Name: "run", HasLocation: true}
	longer := &symbol.Symbol{Kind: symkind.Function, Name: "runGreeting", HasLocation: true}
	s.Put("file:///a.php", tableWith("file:///a.php", exact))
	s.Put("file:///b.php", tableWith("file:///b.php", longer))

	found := s.FindByPrefix("run")
	require.Len(t, found, 2)
	assert.Equal(t, "run", found[0].Name, "the exact-prefix-on-key match must be ranked first")
	assert.Equal(t, "runGreeting", found[1].Name)
}

func TestSymbolStoreFindByPrefixBreaksTiesByLengthWhenNeitherIsExact(t *testing.T) {
	s := NewSymbolStore(16, nil)
	shorter := &symbol.Symbol{Kind: symkind.Function, Name: "runAll", HasLocation: true}
	longer := &symbol.Symbol{Kind: symkind.Function, Name: "runAllGreetings", HasLocation: true}
	s.Put("file:///a.php", tableWith("file:///a.php", longer))
	s.Put("file:///b.php", tableWith("file:///b.php", shorter))

	found := s.FindByPrefix("run")
	require.Len(t, found, 2)
	assert.Equal(t, "runAll", found[0].Name)
	assert.Equal(t, "runAllGreetings", found[1].Name)
}
