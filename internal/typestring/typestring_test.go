package typestring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinyvision/phpls/internal/resolve"
	"github.com/shinyvision/phpls/internal/typestring"
)

func TestParseSplitsPipeJoinedAtomsAndStripsNullable(t *testing.T) {
	ts := typestring.Parse(`?A|B[]|int`)
	assert.ElementsMatch(t, []string{"A", "B[]", "int"}, ts.Atoms())
}

func TestParseEmptyTextIsEmpty(t *testing.T) {
	assert.True(t, typestring.Parse("").IsEmpty())
	assert.True(t, typestring.Parse("   ").IsEmpty())
}

// Merge must be commutative, associative, and idempotent (spec §8
// invariant 4).
func TestMergeIsCommutativeAssociativeIdempotent(t *testing.T) {
	a := typestring.New("A", "B")
	b := typestring.New("B", "C")
	c := typestring.New("D")

	require.True(t, a.Merge(b).Equal(b.Merge(a)), "commutative")
	require.True(t, a.Merge(b).Merge(c).Equal(a.Merge(b.Merge(c))), "associative")
	require.True(t, a.Merge(a).Equal(a), "idempotent")
}

func TestMergeDeduplicatesAtoms(t *testing.T) {
	merged := typestring.New("A", "B").Merge(typestring.New("B", "C"))
	assert.ElementsMatch(t, []string{"A", "B", "C"}, merged.Atoms())
}

// ArrayDereference twice should yield one fewer array level each time
// (spec §8 invariant 5), and an atom with no `[]` suffix (but array-like)
// becomes `mixed` since no element type is known.
func TestArrayDereferenceStripsOneLevelPerCall(t *testing.T) {
	ts := typestring.New("A[][]", "int[]")
	once := ts.ArrayDereference()
	assert.ElementsMatch(t, []string{"A[]", "int"}, once.Atoms())

	twice := once.ArrayDereference()
	assert.ElementsMatch(t, []string{"A"}, twice.Atoms())
}

func TestArrayDereferenceOfArrayOrIterableYieldsMixed(t *testing.T) {
	ts := typestring.New("array", "iterable")
	assert.ElementsMatch(t, []string{"mixed"}, ts.ArrayDereference().Atoms())
}

func TestArrayDereferenceDropsAtomsWithNoElementType(t *testing.T) {
	ts := typestring.New("int", "string")
	assert.True(t, ts.ArrayDereference().IsEmpty())
}

func TestAtomicClassArrayExcludesPrimitivesAndStripsArraySuffix(t *testing.T) {
	ts := typestring.New(`App\User`, "int", `App\User[]`, "null")
	assert.ElementsMatch(t, []string{`App\User`}, ts.AtomicClassArray())
}

func TestStringRendersSortedPipeJoinedForm(t *testing.T) {
	ts := typestring.New("int", "Alpha", "Beta")
	assert.Equal(t, "Alpha|Beta|int", ts.String())
}

func TestEqualIgnoresInsertionOrder(t *testing.T) {
	a := typestring.New("A", "B")
	b := typestring.New("B", "A")
	assert.True(t, a.Equal(b))
}

func TestNameResolveLeavesPrimitivesAndFQNsAlone(t *testing.T) {
	r := resolve.New(`App`)
	ts := typestring.New("int", `\Countable`)
	resolved := ts.NameResolve(r)
	assert.ElementsMatch(t, []string{"int", `\Countable`}, resolved.Atoms())
}

func TestNameResolveQualifiesBareClassNamesAndPreservesArrayDepth(t *testing.T) {
	r := resolve.New(`App`)
	ts := typestring.New("User[]")
	resolved := ts.NameResolve(r)
	assert.ElementsMatch(t, []string{`App\User[]`}, resolved.Atoms())
}

func TestNameResolveSubstitutesSelfViaEnclosingClass(t *testing.T) {
	r := resolve.New(`App`)
	r.PushClass(`App\User`, "")
	ts := typestring.New("self")
	assert.ElementsMatch(t, []string{`App\User`}, ts.NameResolve(r).Atoms())
}

func TestGobRoundTrip(t *testing.T) {
	ts := typestring.New("A", "B[]")
	blob, err := ts.GobEncode()
	require.NoError(t, err)

	var out typestring.TypeString
	require.NoError(t, out.GobDecode(blob))
	assert.True(t, ts.Equal(out))
}

func TestIsPrimitiveRecognizesPseudoTypes(t *testing.T) {
	assert.True(t, typestring.IsPrimitive("int"))
	assert.True(t, typestring.IsPrimitive("self"))
	assert.False(t, typestring.IsPrimitive(`App\User`))
}

