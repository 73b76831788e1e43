package registry

import (
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapPattern(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		wantExpr string
		wantOpts regexp2.RegexOptions
	}{
		{"slash delimited", `/\.js$/`, `\.js$`, regexp2.None},
		{"with flags", `/\.CSS$/i`, `\.CSS$`, regexp2.IgnoreCase},
		{"hash delimited", `#^vendor/.*\.js$#`, `^vendor/.*\.js$`, regexp2.None},
		{"bracket pair", `{\.svg$}x`, `\.svg$`, regexp2.IgnorePatternWhitespace},
		{"pipe delimited", `|\.js$|`, `\.js$`, regexp2.None},
		{"plus delimited", `+\.css$+i`, `\.css$`, regexp2.IgnoreCase},
		{"semicolon delimited", `;^img/;`, `^img/`, regexp2.None},
		{"undelimited", `\.js$`, `\.js$`, regexp2.None},
		{"leading anchor is not a delimiter", `^app\.js$`, `^app\.js$`, regexp2.None},
		{"alphanumeric start", `app\.js$`, `app\.js$`, regexp2.None},
		{"unknown modifier leaves pattern alone", `/a/q`, `/a/q`, regexp2.None},
		{"single char", `/`, `/`, regexp2.None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, opts := unwrapPattern(tt.pattern)
			assert.Equal(t, tt.wantExpr, expr)
			assert.Equal(t, tt.wantOpts, opts)
		})
	}
}

func TestCompileMatcher(t *testing.T) {
	match, err := compileMatcher(`/\.(js|mjs)$/i`)
	require.NoError(t, err)
	assert.True(t, match("app.js"))
	assert.True(t, match("APP.MJS"))
	assert.False(t, match("app.json"))

	lookahead, err := compileMatcher(`/^(?!vendor\/).*\.js$/`)
	require.NoError(t, err)
	assert.True(t, lookahead("app.js"))
	assert.False(t, lookahead("vendor/jquery.js"))

	none, err := compileMatcher("")
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = compileMatcher(`/[unterminated/`)
	assert.Error(t, err)
}
