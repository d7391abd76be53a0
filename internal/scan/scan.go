// Package scan locates balanced delimiter regions in line-oriented text.
// It counts delimiter characters per line rather than lexing, so delimiters
// inside string literals or comments are indistinguishable from structural
// ones; callers must not point it at regions where that would desynchronize
// the count.
package scan

import (
	"errors"
	"fmt"
	"strings"
)

// NotFound is returned as the index when a scan or search fails.
const NotFound = -1

// ErrUnterminated reports that the line stream ended before the delimiter
// balance returned to zero.
var ErrUnterminated = errors.New("unterminated construct")

// ErrNoMatch reports that a marker search found nothing. This is an expected
// outcome, not a failure; callers usually treat it as a no-op.
var ErrNoMatch = errors.New("no match found")

// Pair is an open/close delimiter character pair.
type Pair struct {
	Open  byte
	Close byte
}

var (
	Braces   = Pair{'{', '}'}
	Parens   = Pair{'(', ')'}
	Brackets = Pair{'[', ']'}
)

// Span identifies a balanced region of a line stream. Both bounds are
// inclusive line indices.
type Span struct {
	Start int
	End   int
}

// Len returns the number of lines the span covers.
func (s Span) Len() int {
	return s.End - s.Start + 1
}

// SplitLines splits a document into its line stream. JoinLines on the
// unmodified result reproduces the document exactly.
func SplitLines(doc string) []string {
	return strings.Split(doc, "\n")
}

// JoinLines reassembles a line stream into a document.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// Balance returns the net open-minus-close delimiter count of a single line.
func Balance(line string, pair Pair) int {
	return strings.Count(line, string(pair.Open)) - strings.Count(line, string(pair.Close))
}

// LocateBalancedSpan scans forward from start until the running delimiter
// depth reaches zero and returns the index of the line where it does.
//
// initialDepth is the depth already open at start; the common case is 1,
// meaning the opening delimiter on the start line has been consumed and
// scanning begins on the following line. With initialDepth 0 the start line
// itself is counted, so the opener and closer may even share a line.
func LocateBalancedSpan(lines []string, start int, pair Pair, initialDepth int) (int, error) {
	if start < 0 || start >= len(lines) {
		return NotFound, fmt.Errorf("start index %d out of range [0,%d)", start, len(lines))
	}

	depth := initialDepth
	first := start
	if initialDepth > 0 {
		first = start + 1
	}

	for i := first; i < len(lines); i++ {
		depth += Balance(lines[i], pair)
		if depth == 0 {
			return i, nil
		}
	}
	return NotFound, fmt.Errorf("scan from line %d: %w", start, ErrUnterminated)
}

// FindLine returns the index of the first line at or after start that
// contains marker, or ErrNoMatch if no line does.
func FindLine(lines []string, start int, marker string) (int, error) {
	if start < 0 {
		start = 0
	}
	for i := start; i < len(lines); i++ {
		if strings.Contains(lines[i], marker) {
			return i, nil
		}
	}
	return NotFound, fmt.Errorf("marker %q: %w", marker, ErrNoMatch)
}

// ReplaceSpan returns a new line stream with the spanned lines removed and
// replacement inserted in their place. Lines outside the span are untouched,
// so the splice cannot corrupt partial lines.
func ReplaceSpan(lines []string, span Span, replacement []string) []string {
	out := make([]string, 0, len(lines)-span.Len()+len(replacement))
	out = append(out, lines[:span.Start]...)
	out = append(out, replacement...)
	out = append(out, lines[span.End+1:]...)
	return out
}
