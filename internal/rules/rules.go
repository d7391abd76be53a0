// Package rules carries the built-in correction rules for structurally
// broken TypeScript sources and the fixers that apply them. Single-line
// defects are handled by regex rewrite rules; defects that span lines are
// handled by scanner-backed structural fixers.
package rules

import (
	"bracefix/internal/rewrite"
)

// SyntaxRules returns the ordered single-line correction table. Later rules
// see text already rewritten by earlier ones, so the order is part of the
// contract.
func SyntaxRules() []rewrite.Rule {
	return []rewrite.Rule{
		// JSON.stringify calls cut off before their closing parenthesis.
		rewrite.MustRule("stringify-trailing-comma",
			`(?m)JSON\.stringify\(([^)]+),\s*$`,
			"JSON.stringify(${1}),"),

		// Arrow functions returning an object literal on one line, closed
		// with "}," where "})," is needed.
		rewrite.MustRule("arrow-object-missing-paren",
			`(?m)(\s+[a-zA-Z_][a-zA-Z0-9_]*:\s*\([^)]*\)\s*=>\s*\{[^}]*\}),\s*$`,
			"${1}),"),
		rewrite.MustRule("arrow-wrapped-missing-paren",
			`(?m)(\s+[a-zA-Z_][a-zA-Z0-9_]*:\s*\([^)]*\)\s*=>\s*\([^)]*\{[^}]*\}),\s*$`,
			"${1})),"),
		rewrite.MustRule("malformed-arrow-return",
			`(?m)(\w+:\s*\([^)]*\)\s*=>\s*\([^}]*)\},\s*$`,
			"${1}}),"),

		// logger._error('...', { _error.message }) is not a call at all.
		// The replacement contains a template literal, so it is emitted by
		// callback to keep "$" out of the expansion template.
		rewrite.MustRuleFunc("logger-error-call",
			`logger\._error\(["'][^"']*["']\s*,\s*\{\s*_error\.message\s*\}\s*\)?`,
			func([]string) (string, error) {
				return "logger.error(`Error: ${_error.message}`)", nil
			}),

		// Object literal properties missing their trailing comma.
		rewrite.MustRule("object-literal-missing-comma",
			`(\w+:\s*[^,{}\n]+[^,{}\s])\n(\s*)([a-zA-Z_]\w*:)`,
			"${1},\n${2}${3}"),

		// Unused catch bindings flagged by the linter.
		rewrite.MustRule("catch-unused-binding",
			`catch\s*\(\s*error\s*\)`,
			"catch (_error)"),

		// Stray commas left behind by earlier mangling.
		rewrite.MustRule("object-open-comma",
			`\(\{\s*,[ \t]*`,
			"({"),
		rewrite.MustRule("close-paren-comma",
			`,(\s*)\}\)\s*,`,
			"${1}}),"),
		rewrite.MustRule("double-close-paren",
			`\}\)\s*\)\s*,`,
			"}),"),
	}
}
