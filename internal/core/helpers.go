package core

import (
	"os"
	"strings"

	"github.com/shinyvision/phpls/internal/symbol"
	"github.com/shinyvision/phpls/internal/utils"
)

func pathToURI(path string) string { return utils.PathToURI(path) }

func readFile(path string) ([]byte, error) { return os.ReadFile(path) }

// applyEdit replaces the text addressed by edit.Range inside text with
// edit.NewText. Ranges are zero-based (line, UTF-16 code unit) per spec
// §6 "Positions"; offsetOf counts one column per Unicode code point,
// which equals the UTF-16 code unit count for characters within the
// BMP. A character outside the BMP counts as one column here rather
// than two — a simplification recorded in DESIGN.md.
func applyEdit(text string, edit TextEdit) string {
	if edit.Whole {
		return edit.NewText
	}
	start := offsetOf(text, edit.Range.Start)
	end := offsetOf(text, edit.Range.End)
	if start < 0 || end < 0 || start > len(text) || end > len(text) || start > end {
		return text
	}
	var b strings.Builder
	b.WriteString(text[:start])
	b.WriteString(edit.NewText)
	b.WriteString(text[end:])
	return b.String()
}

func offsetOf(text string, pos symbol.Position) int {
	line, col := 0, 0
	for i, r := range text {
		if line == pos.Line && col == pos.Character {
			return i
		}
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	if line == pos.Line && col == pos.Character {
		return len(text)
	}
	return -1
}
