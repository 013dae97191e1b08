package phpdoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinyvision/phpls/internal/phpdoc"
)

const docComment = `/**
 * Greets somebody by name.
 *
 * @param string $name the person to greet
 * @return string
 */`

func TestParseExtractsSummaryParamAndReturn(t *testing.T) {
	doc := phpdoc.Parse(docComment)
	assert.Equal(t, "Greets somebody by name.", doc.Summary)
	assert.Equal(t, "string", doc.ParamType("name"))
	assert.Equal(t, "string", doc.ReturnType())
}

func TestParseVarTag(t *testing.T) {
	doc := phpdoc.Parse(`/** @var \App\User $user */`)
	assert.Equal(t, `\App\User`, doc.VarType("user"))
}

func TestParseVarTagWithoutNameMatchesAnyVariable(t *testing.T) {
	doc := phpdoc.Parse(`/** @var \App\User */`)
	assert.Equal(t, `\App\User`, doc.VarType("anything"))
}

func TestVarTypeReturnsEmptyWhenNameDoesNotMatch(t *testing.T) {
	doc := phpdoc.Parse(`/** @var \App\User $user */`)
	assert.Equal(t, "", doc.VarType("other"))
}

func TestParsePropertyTag(t *testing.T) {
	doc := phpdoc.Parse(`/**
 * @property int $id
 * @property-read string $name
 */`)
	require.Len(t, doc.Tags, 2)
	assert.Equal(t, phpdoc.Property, doc.Tags[0].Kind)
	assert.Equal(t, "int", doc.Tags[0].Type)
	assert.Equal(t, "id", doc.Tags[0].Name)
	assert.Equal(t, "string", doc.Tags[1].Type)
	assert.Equal(t, "name", doc.Tags[1].Name)
}

func TestParseMethodTagKeepsSignatureVerbatim(t *testing.T) {
	doc := phpdoc.Parse(`/**
 * @method int bar(string $x)
 */`)
	require.Len(t, doc.Tags, 1)
	assert.Equal(t, phpdoc.Method, doc.Tags[0].Kind)
	assert.Equal(t, "int bar(string $x)", doc.Tags[0].Signature)
}

func TestParseMultipleParamTags(t *testing.T) {
	doc := phpdoc.Parse(`/**
 * @param int $a
 * @param string $b
 */`)
	assert.Equal(t, "int", doc.ParamType("a"))
	assert.Equal(t, "string", doc.ParamType("b"))
	assert.Equal(t, "", doc.ParamType("c"))
}

func TestParseIgnoresBlankLinesWhenFindingSummary(t *testing.T) {
	doc := phpdoc.Parse(`/**
 *
 * Actual summary line.
 * @return void
 */`)
	assert.Equal(t, "Actual summary line.", doc.Summary)
}

func TestParseWithNoTagsHasOnlySummary(t *testing.T) {
	doc := phpdoc.Parse(`/**
 * Just a plain comment.
 */`)
	assert.Equal(t, "Just a plain comment.", doc.Summary)
	assert.Empty(t, doc.Tags)
}
