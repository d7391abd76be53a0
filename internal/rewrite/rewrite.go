// Package rewrite applies an ordered sequence of pattern-and-replacement
// rules to a document. Rules run exactly once each, in declaration order;
// a later rule sees the text already transformed by earlier ones. The
// pipeline never iterates to a fixed point, so a rule whose replacement
// re-triggers its own matcher only fires once per invocation.
package rewrite

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"
)

// ReplacerFunc computes replacement text from a match. groups[0] is the full
// match, groups[1:] the capture groups (empty string for non-participating
// groups).
type ReplacerFunc func(groups []string) (string, error)

// Rule pairs a matcher with a replacement strategy. Construct with NewRule
// or NewRuleFunc; the zero value matches nothing.
type Rule struct {
	name     string
	pattern  *regexp.Regexp
	template string
	fn       ReplacerFunc
}

// NewRule compiles a rule whose matches are replaced by expanding template.
// Capture references use ${1} syntax. Multi-line matching is opted into in
// the pattern itself with (?m) or (?s).
func NewRule(name, pattern, template string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %s: %w", name, err)
	}
	return Rule{name: name, pattern: re, template: template}, nil
}

// MustRule is NewRule for static rule tables; it panics on a bad pattern.
func MustRule(name, pattern, template string) Rule {
	r, err := NewRule(name, pattern, template)
	if err != nil {
		panic(err)
	}
	return r
}

// NewRuleFunc compiles a rule whose replacement is computed by fn.
func NewRuleFunc(name, pattern string, fn ReplacerFunc) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %s: %w", name, err)
	}
	return Rule{name: name, pattern: re, fn: fn}, nil
}

// MustRuleFunc is NewRuleFunc for static rule tables; it panics on a bad
// pattern.
func MustRuleFunc(name, pattern string, fn ReplacerFunc) Rule {
	r, err := NewRuleFunc(name, pattern, fn)
	if err != nil {
		panic(err)
	}
	return r
}

// Name returns the rule's identifier, used in logs and errors.
func (r Rule) Name() string { return r.name }

// apply replaces every non-overlapping match of the rule in text.
func (r Rule) apply(text string) (string, error) {
	if r.pattern == nil {
		return text, nil
	}
	if r.fn == nil {
		return r.pattern.ReplaceAllString(text, r.template), nil
	}

	var ruleErr error
	out := r.pattern.ReplaceAllStringFunc(text, func(match string) string {
		if ruleErr != nil {
			return match
		}
		groups := r.pattern.FindStringSubmatch(match)
		repl, err := r.fn(groups)
		if err != nil {
			ruleErr = &RuleError{Rule: r.name, Match: match, Err: err}
			return match
		}
		return repl
	})
	if ruleErr != nil {
		return text, ruleErr
	}
	return out, nil
}

// RuleError reports a replacer that could not compute valid replacement
// text. It identifies the offending rule and the text it matched.
type RuleError struct {
	Rule  string
	Match string
	Err   error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s failed on %q: %v", e.Rule, e.Match, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

// Pipeline is an ordered rule sequence.
type Pipeline struct {
	rules  []Rule
	logger *zap.Logger
}

// NewPipeline builds a pipeline that applies rules in the given order.
func NewPipeline(rules ...Rule) *Pipeline {
	return &Pipeline{rules: rules, logger: zap.NewNop()}
}

// WithLogger sets the pipeline's logger and returns the pipeline.
func (p *Pipeline) WithLogger(logger *zap.Logger) *Pipeline {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Rules returns the rule names in application order.
func (p *Pipeline) Rules() []string {
	names := make([]string, len(p.rules))
	for i, r := range p.rules {
		names[i] = r.name
	}
	return names
}

// Apply runs every rule once, in order, threading the text through.
// On a rule failure the error is a *RuleError and the returned text is the
// output of the rules that already ran; the caller decides whether to keep
// or discard it.
func (p *Pipeline) Apply(text string) (string, error) {
	for _, rule := range p.rules {
		next, err := rule.apply(text)
		if err != nil {
			return text, err
		}
		if next != text {
			p.logger.Debug("rule rewrote text",
				zap.String("rule", rule.name),
				zap.Int("delta", len(next)-len(text)))
		}
		text = next
	}
	return text, nil
}
