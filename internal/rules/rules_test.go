package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bracefix/internal/rewrite"
)

func applySyntax(t *testing.T, in string) string {
	t.Helper()
	out, err := rewrite.NewPipeline(SyntaxRules()...).Apply(in)
	require.NoError(t, err)
	return out
}

func TestStringifyTrailingComma(t *testing.T) {
	in := "  const body = JSON.stringify(request.payload,\n  send(body);"
	out := applySyntax(t, in)
	assert.Contains(t, out, "JSON.stringify(request.payload),")
}

func TestArrowObjectMissingParen(t *testing.T) {
	in := "  handler: (args) => { return args.id },\n"
	out := applySyntax(t, in)
	assert.Contains(t, out, "handler: (args) => { return args.id }),")
}

func TestLoggerErrorCall(t *testing.T) {
	in := `logger._error('failed', { _error.message })`
	out := applySyntax(t, in)
	assert.Equal(t, "logger.error(`Error: ${_error.message}`)", out)
}

func TestObjectLiteralMissingComma(t *testing.T) {
	in := "    status: 401\n    detail: 'Authentication failed',"
	out := applySyntax(t, in)
	assert.Contains(t, out, "status: 401,")
}

func TestCatchUnusedBindingAllOccurrences(t *testing.T) {
	in := strings.Repeat("try { x(); } catch (error) { /* noop */ }\n", 3)
	out := applySyntax(t, in)
	assert.Equal(t, 3, strings.Count(out, "catch (_error)"))
	assert.NotContains(t, out, "catch (error)")
}

func TestStrayCommaCleanup(t *testing.T) {
	assert.Contains(t, applySyntax(t, "validationError: () => ({, response: null })"),
		"({response: null })")
	// The comma before the object close is dropped.
	assert.Equal(t, "  detail: x\n  }),", applySyntax(t, "  detail: x,\n  }),"))
}

func TestWellFormedTextUntouched(t *testing.T) {
	in := strings.Join([]string{
		"export function createServer() {",
		"  return {",
		"    getServer: () => server,",
		"    callTool: (name, args) => invoke(name, args),",
		"  };",
		"}",
	}, "\n")
	assert.Equal(t, in, applySyntax(t, in))
}
