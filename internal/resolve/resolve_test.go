package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinyvision/phpls/internal/resolve"
	"github.com/shinyvision/phpls/internal/symkind"
)

// ResolveRelative("") returning the namespace itself is spec §8 invariant 3.
func TestResolveRelativeEmptyNameReturnsNamespace(t *testing.T) {
	r := resolve.New(`App\Model`)
	assert.Equal(t, `App\Model`, r.ResolveRelative(""))

	global := resolve.New("")
	assert.Equal(t, "", global.ResolveRelative(""))
}

func TestResolveRelativeJoinsCurrentNamespace(t *testing.T) {
	r := resolve.New(`App\Model`)
	assert.Equal(t, `App\Model\User`, r.ResolveRelative("User"))

	global := resolve.New("")
	assert.Equal(t, "User", global.ResolveRelative("User"))
}

func TestResolveNotFullyQualifiedSelfStaticParentNeedEnclosingClass(t *testing.T) {
	r := resolve.New(`App`)
	// no enclosing class pushed yet: passes through unchanged
	assert.Equal(t, "self", r.ResolveNotFullyQualified("self", symkind.Class))
	assert.Equal(t, "parent", r.ResolveNotFullyQualified("parent", symkind.Class))

	r.PushClass(`App\User`, `App\Model`)
	assert.Equal(t, `App\User`, r.ResolveNotFullyQualified("self", symkind.Class))
	assert.Equal(t, `App\User`, r.ResolveNotFullyQualified("static", symkind.Class))
	assert.Equal(t, `App\User`, r.ResolveNotFullyQualified("$this", symkind.Class))
	assert.Equal(t, `App\Model`, r.ResolveNotFullyQualified("parent", symkind.Class))

	r.PopClass()
	assert.Equal(t, "self", r.ResolveNotFullyQualified("self", symkind.Class))
}

func TestResolveNotFullyQualifiedParentWithNoBasePassesThrough(t *testing.T) {
	r := resolve.New("")
	r.PushClass(`User`, "")
	assert.Equal(t, "parent", r.ResolveNotFullyQualified("parent", symkind.Class))
}

func TestResolveNotFullyQualifiedNamespaceRelativePrefix(t *testing.T) {
	r := resolve.New(`App`)
	assert.Equal(t, `App\Helper`, r.ResolveNotFullyQualified(`namespace\Helper`, symkind.Class))
}

func TestResolveNotFullyQualifiedUsesImportRule(t *testing.T) {
	r := resolve.New(`App`)
	r.AddRule(symkind.Class, "User", `App\Entity\User`)
	assert.Equal(t, `App\Entity\User`, r.ResolveNotFullyQualified("User", symkind.Class))

	// a qualified name uses the rule on its head segment only
	r.AddRule(symkind.Class, "Entity", `App\Entity`)
	assert.Equal(t, `App\Entity\Sub`, r.ResolveNotFullyQualified(`Entity\Sub`, symkind.Class))
}

func TestResolveNotFullyQualifiedFallsBackToRelative(t *testing.T) {
	r := resolve.New(`App`)
	assert.Equal(t, `App\Unknown`, r.ResolveNotFullyQualified("Unknown", symkind.Class))
}

func TestSetNamespaceResetsImportTable(t *testing.T) {
	r := resolve.New(`App`)
	r.AddRule(symkind.Class, "User", `App\Entity\User`)
	r.SetNamespace(`App\Sub`)
	assert.Equal(t, `App\Sub\User`, r.ResolveNotFullyQualified("User", symkind.Class))
}

// Clone must be an independent copy: mutating the clone's rules/class
// stack must not affect the original (SymbolTable.NameResolverAt relies
// on this to hand out a resolver snapshot per query).
func TestCloneIsIndependentOfOriginal(t *testing.T) {
	r := resolve.New(`App`)
	r.AddRule(symkind.Class, "User", `App\Entity\User`)
	r.PushClass(`App\Base`, "")

	clone := r.Clone()
	clone.AddRule(symkind.Class, "Extra", `Vendor\Extra`)
	clone.PushClass(`App\Child`, `App\Base`)

	require.Equal(t, `App\Base`, r.ResolveNotFullyQualified("self", symkind.Class))
	assert.Equal(t, `App\Child`, clone.ResolveNotFullyQualified("self", symkind.Class))

	assert.Equal(t, `App\Entity\User`, r.ResolveNotFullyQualified("User", symkind.Class))
	assert.Equal(t, `App\Extra`, r.ResolveNotFullyQualified("Extra", symkind.Class),
		"original resolver must not see the rule added only to the clone")
}

func TestRulesReturnsACopy(t *testing.T) {
	r := resolve.New("")
	r.AddRule(symkind.Class, "User", `App\User`)
	rules := r.Rules()
	rules[0].Name = "Mutated"
	assert.Equal(t, "User", r.Rules()[0].Name, "Rules() must not expose the internal slice")
}
