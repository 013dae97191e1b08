package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinyvision/phpls/internal/symbol"
	"github.com/shinyvision/phpls/internal/symkind"
)

// fakeLookup implements symbol.ClassLookup over an in-memory FQN map, so
// aggregate.go's Closure/Members/FilterVisibility can be exercised
// without going through SymbolStore or a real parse.
type fakeLookup map[string]*symbol.Symbol

func (f fakeLookup) ClassSymbol(fqn string) (*symbol.Symbol, bool) {
	s, ok := f[fqn]
	return s, ok
}

func classSym(fqn string, associated ...symbol.Assoc) *symbol.Symbol {
	return &symbol.Symbol{Kind: symkind.Class, Name: fqn, Associated: associated}
}

func methodSym(name string, mods symkind.Modifier) *symbol.Symbol {
	return &symbol.Symbol{Kind: symkind.Method, Name: name, Modifiers: mods}
}

func TestClosureOrdersSelfThenBasesThenInterfacesThenTraits(t *testing.T) {
	base := classSym(`App\Base`, symbol.Assoc{Kind: symkind.Interface, FQN: `App\Ifc`})
	iface := classSym(`App\Ifc`)
	trait := classSym(`App\Trt`)
	self := classSym(`App\User`,
		symbol.Assoc{Kind: symkind.Class, FQN: `App\Base`},
		symbol.Assoc{Kind: symkind.Trait, FQN: `App\Trt`},
	)
	lookup := fakeLookup{`App\User`: self, `App\Base`: base, `App\Ifc`: iface, `App\Trt`: trait}

	closure := symbol.Closure(lookup, `App\User`)
	require.Len(t, closure, 4)
	assert.Equal(t, `App\User`, closure[0].Name)
	assert.Equal(t, `App\Base`, closure[1].Name)
	assert.Equal(t, `App\Ifc`, closure[2].Name)
	assert.Equal(t, `App\Trt`, closure[3].Name)
}

func TestClosureUnknownFQNReturnsNil(t *testing.T) {
	assert.Nil(t, symbol.Closure(fakeLookup{}, `App\Missing`))
}

// A cyclic extends graph (A extends B, B extends A, however malformed
// that would be) must not infinite-loop: the visited set in Closure
// guards against it.
func TestClosureGuardsAgainstCycles(t *testing.T) {
	a := classSym(`App\A`, symbol.Assoc{Kind: symkind.Class, FQN: `App\B`})
	b := classSym(`App\B`, symbol.Assoc{Kind: symkind.Class, FQN: `App\A`})
	lookup := fakeLookup{`App\A`: a, `App\B`: b}

	closure := symbol.Closure(lookup, `App\A`)
	assert.Len(t, closure, 2)
}

func TestMembersOverridePolicyKeepsFirstOccurrenceOnly(t *testing.T) {
	base := classSym(`App\Base`)
	base.Children = []*symbol.Symbol{methodSym("greet", 0)}
	self := classSym(`App\User`, symbol.Assoc{Kind: symkind.Class, FQN: `App\Base`})
	self.Children = []*symbol.Symbol{methodSym("greet", 0)}

	members := symbol.Members([]*symbol.Symbol{self, base}, symbol.Override)
	require.Len(t, members, 1)
	assert.Equal(t, `App\User`, members[0].Owner)
}

func TestMembersNonePolicyKeepsEveryOccurrence(t *testing.T) {
	base := classSym(`App\Base`)
	base.Children = []*symbol.Symbol{methodSym("greet", 0)}
	self := classSym(`App\User`)
	self.Children = []*symbol.Symbol{methodSym("greet", 0)}

	members := symbol.Members([]*symbol.Symbol{self, base}, symbol.None)
	assert.Len(t, members, 2)
}

func TestMembersDocumentedPolicyBorrowsDocFromLaterTierWhenFirstHasNone(t *testing.T) {
	base := classSym(`App\Base`)
	documented := methodSym("greet", 0)
	documented.Doc.Summary = "Greets somebody."
	base.Children = []*symbol.Symbol{documented}

	self := classSym(`App\User`)
	self.Children = []*symbol.Symbol{methodSym("greet", 0)}

	members := symbol.Members([]*symbol.Symbol{self, base}, symbol.Documented)
	require.Len(t, members, 1)
	assert.Equal(t, "Greets somebody.", members[0].Symbol.Doc.Summary)
}

func TestFilterVisibilityHidesPrivateFromOtherClassesAndProtectedFromNonSubclasses(t *testing.T) {
	members := []symbol.Member{
		{Symbol: methodSym("ownPriv", symkind.Private), Owner: `App\Base`},
		{Symbol: methodSym("prot", symkind.Protected), Owner: `App\Base`},
		{Symbol: methodSym("pub", symkind.Public), Owner: `App\Base`},
	}

	isSubclass := func(owner, caller string) bool { return caller == `App\Child` }

	fromOwner := symbol.FilterVisibility(members, `App\Base`, isSubclass)
	assert.Len(t, fromOwner, 3, "the declaring class sees all of its own members")

	fromSubclass := symbol.FilterVisibility(members, `App\Child`, isSubclass)
	names := map[string]bool{}
	for _, m := range fromSubclass {
		names[m.Symbol.Name] = true
	}
	assert.False(t, names["ownPriv"], "private is never visible outside the owning class")
	assert.True(t, names["prot"], "protected is visible from a subclass")
	assert.True(t, names["pub"])

	fromOutside := symbol.FilterVisibility(members, `App\Other`, isSubclass)
	outsideNames := map[string]bool{}
	for _, m := range fromOutside {
		outsideNames[m.Symbol.Name] = true
	}
	assert.False(t, outsideNames["ownPriv"])
	assert.False(t, outsideNames["prot"])
	assert.True(t, outsideNames["pub"])
}
