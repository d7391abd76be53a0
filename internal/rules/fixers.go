package rules

import (
	"fmt"
	"regexp"
	"strings"

	"bracefix/internal/repair"
	"bracefix/internal/rewrite"
	"bracefix/internal/scan"
)

// pipelineFixer adapts a rewrite pipeline to the repair.Fixer contract.
type pipelineFixer struct {
	name     string
	pipeline *rewrite.Pipeline
}

// NewPipelineFixer wraps an ordered rule table as a fixer.
func NewPipelineFixer(name string, rules ...rewrite.Rule) repair.Fixer {
	return &pipelineFixer{name: name, pipeline: rewrite.NewPipeline(rules...)}
}

func (f *pipelineFixer) Name() string { return f.name }

func (f *pipelineFixer) Fix(doc string) (string, error) {
	return f.pipeline.Apply(doc)
}

// arrowOpener matches the first line of an arrow function that returns an
// object literal, e.g. `'property.create': (args) => ({`.
var arrowOpener = regexp.MustCompile(`^\s*'[^']+'\s*:\s*\([^)]*\)\s*=>\s*\(\{`)

// arrowReturnCloser repairs multi-line arrow functions returning object
// literals whose closing line reads "}," instead of "}),". The closing line
// alone gives no hint which opener it belongs to, so the defect cannot be
// matched line-locally; the brace balance scan ties closer to opener.
type arrowReturnCloser struct{}

// NewArrowReturnCloser returns the multi-line arrow-return fixer.
func NewArrowReturnCloser() repair.Fixer {
	return arrowReturnCloser{}
}

func (arrowReturnCloser) Name() string { return "arrow-return-closer" }

func (arrowReturnCloser) Fix(doc string) (string, error) {
	lines := scan.SplitLines(doc)
	changed := false

	for i := 0; i < len(lines); i++ {
		if !arrowOpener.MatchString(lines[i]) {
			continue
		}
		end, err := scan.LocateBalancedSpan(lines, i, scan.Braces, 1)
		if err != nil {
			return "", fmt.Errorf("arrow return opened at line %d: %w", i, err)
		}
		if strings.TrimSpace(lines[end]) == "}," {
			lines[end] = strings.Replace(lines[end], "},", "}),", 1)
			changed = true
		}
		i = end
	}

	if !changed {
		return doc, nil
	}
	return scan.JoinLines(lines), nil
}

// blockReplacer splices an opaque replacement payload over the balanced
// brace block opened on the first line containing its marker. The payload
// includes its own opening and closing lines; the replaced span covers the
// marker line through the block's structural end.
type blockReplacer struct {
	name    string
	marker  string
	payload []string
}

// NewBlockReplacer builds a fixer that replaces the braced block opened at
// marker with payload. A document without the marker is a no-op
// (scan.ErrNoMatch), not a failure.
func NewBlockReplacer(name, marker string, payload []string) repair.Fixer {
	return &blockReplacer{name: name, marker: marker, payload: payload}
}

func (f *blockReplacer) Name() string { return f.name }

func (f *blockReplacer) Fix(doc string) (string, error) {
	lines := scan.SplitLines(doc)

	start, err := scan.FindLine(lines, 0, f.marker)
	if err != nil {
		return "", err
	}
	end, err := scan.LocateBalancedSpan(lines, start, scan.Braces, 1)
	if err != nil {
		return "", fmt.Errorf("block at marker %q: %w", f.marker, err)
	}

	out := scan.ReplaceSpan(lines, scan.Span{Start: start, End: end}, f.payload)
	return scan.JoinLines(out), nil
}

// Catalog returns the built-in fixers in their default application order.
// Block replacers are configuration-driven and not part of the catalog.
func Catalog() []repair.Fixer {
	return []repair.Fixer{
		NewPipelineFixer("syntax", SyntaxRules()...),
		NewArrowReturnCloser(),
	}
}

// Lookup resolves a built-in fixer by name.
func Lookup(name string) (repair.Fixer, bool) {
	for _, f := range Catalog() {
		if f.Name() == name {
			return f, true
		}
	}
	return nil, false
}
