package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinyvision/phpls/internal/symbol"
)

func TestTrailingWhitespaceEditsFindsDirtyLines(t *testing.T) {
	text := "<?php   \necho 1;\n\t\n"
	edits := trailingWhitespaceEdits(text, symbol.Range{})
	require.Len(t, edits, 2)

	assert.Equal(t, 0, edits[0].Range.Start.Line)
	assert.Equal(t, 5, edits[0].Range.Start.Character)
	assert.Equal(t, 8, edits[0].Range.End.Character)
	assert.Equal(t, "", edits[0].NewText)

	assert.Equal(t, 2, edits[1].Range.Start.Line)
	assert.Equal(t, 0, edits[1].Range.Start.Character)
	assert.Equal(t, 1, edits[1].Range.End.Character)
}

func TestTrailingWhitespaceEditsCleanTextIsNoop(t *testing.T) {
	text := "<?php\necho 1;\n"
	assert.Empty(t, trailingWhitespaceEdits(text, symbol.Range{}))
}

func TestTrailingWhitespaceEditsRestrictedToBounds(t *testing.T) {
	text := "a  \nb  \nc  \n"
	bounds := symbol.Range{
		Start: symbol.Position{Line: 1, Character: 0},
		End:   symbol.Position{Line: 1, Character: 0},
	}
	edits := trailingWhitespaceEdits(text, bounds)
	require.Len(t, edits, 1)
	assert.Equal(t, 1, edits[0].Range.Start.Line)
}
