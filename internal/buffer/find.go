package buffer

import (
	"regexp"
	"unicode/utf8"
)

// FindOptions control a search
type FindOptions struct {
	Backward      bool
	CaseSensitive bool
}

func matcher(target string, opts FindOptions) *regexp.Regexp {
	expr := regexp.QuoteMeta(target)
	if !opts.CaseSensitive {
		expr = "(?i)" + expr
	}
	return regexp.MustCompile(expr)
}

// Find searches for target starting at the selection, forward from its end
// or backward from its start, and selects the match. It returns false and
// leaves the selection alone when nothing matches.
func (b *Buffer) Find(target string, opts FindOptions) bool {
	if target == "" {
		return false
	}
	re := matcher(target, opts)
	start, end := b.Selection()

	if opts.Backward {
		// The nearest match ending at or before start, overlapping ones included
		anchored := regexp.MustCompile("^(?:" + re.String() + ")")
		for i := start - 1; i >= 0; i-- {
			if !utf8.RuneStart(b.text[i]) {
				continue
			}
			if loc := anchored.FindStringIndex(b.text[i:start]); loc != nil {
				b.selStart, b.selEnd = i, i+loc[1]
				return true
			}
		}
		return false
	}

	loc := re.FindStringIndex(b.text[end:])
	if loc == nil {
		return false
	}
	b.selStart, b.selEnd = end+loc[0], end+loc[1]
	return true
}

// Replace swaps the current selection for text. Nothing happens without a
// selection.
func (b *Buffer) Replace(text string) bool {
	start, end := b.Selection()
	if start == end {
		return false
	}
	b.Insert(text)
	return true
}

// ReplaceAll replaces every match of target from the top of the document
// and returns the number of replacements. The caret ends at the top.
func (b *Buffer) ReplaceAll(target, replacement string, opts FindOptions) int {
	opts.Backward = false
	b.SetCursor(0)
	count := 0
	for b.Find(target, opts) {
		b.Replace(replacement)
		count++
	}
	b.SetCursor(0)
	return count
}
