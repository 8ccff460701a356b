package render

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns a line diff from old to current, with "-", "+" and " "
// prefixes, and whether anything changed.
func Diff(old, current string) (string, bool) {
	dmp := diffmatchpatch.New()

	oldChars, newChars, lines := dmp.DiffLinesToChars(old, current)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lines)

	var (
		out     strings.Builder
		changed bool
	)

	for _, d := range diffs {
		prefix := " "

		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
			changed = true
		case diffmatchpatch.DiffDelete:
			prefix = "-"
			changed = true
		case diffmatchpatch.DiffEqual:
		}

		for line := range strings.Lines(d.Text) {
			out.WriteString(prefix)
			out.WriteString(line)

			if !strings.HasSuffix(line, "\n") {
				out.WriteByte('\n')
			}
		}
	}

	return out.String(), changed
}
