// Package report renders what a repair changed. Diffs are line-level,
// computed with sergi/go-diff via its line-to-char reduction to avoid
// newline boundary artifacts.
package report

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Change is one contiguous run of added or removed lines.
type Change struct {
	Added bool
	Lines []string
}

// Diff summarizes the difference between a document before and after repair.
type Diff struct {
	Path    string
	Changes []Change
}

// Changed reports whether the repair altered the document.
func (d *Diff) Changed() bool {
	return len(d.Changes) > 0
}

// Stats returns the number of added and removed lines.
func (d *Diff) Stats() (added, removed int) {
	for _, c := range d.Changes {
		if c.Added {
			added += len(c.Lines)
		} else {
			removed += len(c.Lines)
		}
	}
	return added, removed
}

// Compute builds the line diff between before and after.
func Compute(path, before, after string) *Diff {
	d := &Diff{Path: path}
	if before == after {
		return d
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	for _, diff := range diffs {
		if diff.Type == diffmatchpatch.DiffEqual {
			continue
		}
		lines := splitDiffText(diff.Text)
		if len(lines) == 0 {
			continue
		}
		d.Changes = append(d.Changes, Change{
			Added: diff.Type == diffmatchpatch.DiffInsert,
			Lines: lines,
		})
	}
	return d
}

// splitDiffText splits a diff segment into lines, dropping the empty tail
// produced by a trailing newline.
func splitDiffText(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Render formats the diff for terminal output, one +/- prefixed line per
// changed line.
func (d *Diff) Render() string {
	if !d.Changed() {
		return fmt.Sprintf("%s: no changes\n", d.Path)
	}

	var sb strings.Builder
	added, removed := d.Stats()
	fmt.Fprintf(&sb, "%s: +%d -%d\n", d.Path, added, removed)
	for _, c := range d.Changes {
		prefix := "-"
		if c.Added {
			prefix = "+"
		}
		for _, line := range c.Lines {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
