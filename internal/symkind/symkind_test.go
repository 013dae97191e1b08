package symkind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shinyvision/phpls/internal/symkind"
)

func TestKindStringNamesEveryDeclaredKind(t *testing.T) {
	cases := map[symkind.Kind]string{
		symkind.Namespace:     "Namespace",
		symkind.Class:         "Class",
		symkind.Interface:     "Interface",
		symkind.Trait:         "Trait",
		symkind.Method:        "Method",
		symkind.Function:      "Function",
		symkind.Property:      "Property",
		symkind.Constant:      "Constant",
		symkind.ClassConstant: "ClassConstant",
		symkind.Parameter:     "Parameter",
		symkind.Variable:      "Variable",
		symkind.Constructor:   "Constructor",
		symkind.File:          "File",
		symkind.Unknown:       "Unknown",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}

func TestIsClassLikeOnlyClassInterfaceTrait(t *testing.T) {
	assert.True(t, symkind.Class.IsClassLike())
	assert.True(t, symkind.Interface.IsClassLike())
	assert.True(t, symkind.Trait.IsClassLike())
	assert.False(t, symkind.Method.IsClassLike())
	assert.False(t, symkind.Function.IsClassLike())
}

func TestCaseSensitiveKeyMatchesSpecSection4_7(t *testing.T) {
	assert.True(t, symkind.Constant.CaseSensitiveKey())
	assert.True(t, symkind.ClassConstant.CaseSensitiveKey())
	assert.True(t, symkind.Variable.CaseSensitiveKey())
	assert.False(t, symkind.Class.CaseSensitiveKey())
	assert.False(t, symkind.Method.CaseSensitiveKey())
	assert.False(t, symkind.Function.CaseSensitiveKey())
}

func TestModifierHasIsBitwise(t *testing.T) {
	m := symkind.Public | symkind.Static
	assert.True(t, m.Has(symkind.Public))
	assert.True(t, m.Has(symkind.Static))
	assert.False(t, m.Has(symkind.Private))
	assert.False(t, m.Has(symkind.Abstract))
}
