package registry

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// matchTimeout bounds a single file pattern evaluation.
const matchTimeout = 100 * time.Millisecond

// bracketPairs close with their counterpart; any other delimiter closes with itself.
var bracketPairs = map[byte]byte{'{': '}', '(': ')', '[': ']', '<': '>'}

// closingDelimiter reports the byte that ends a pattern opened with c.
// Alphanumerics, backslash and whitespace never open a delimited pattern.
func closingDelimiter(c byte) (byte, bool) {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return 0, false
	case c == '\\', c == ' ', c == '\t', c == '\n', c == '\r', c == '\v', c == '\f':
		return 0, false
	case c >= 0x80:
		return 0, false
	}
	if closing, ok := bracketPairs[c]; ok {
		return closing, true
	}
	return c, true
}

// compileMatcher turns a file_regex value into a predicate. Perl-style
// patterns are accepted with or without delimiters, e.g. `/\.js$/i` or `\.js$`.
// An empty pattern yields a nil predicate.
func compileMatcher(pattern string) (func(string) bool, error) {
	if pattern == "" {
		return nil, nil
	}
	expr, opts := unwrapPattern(pattern)
	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = matchTimeout
	return func(s string) bool {
		ok, err := re.MatchString(s)
		return err == nil && ok
	}, nil
}

// unwrapPattern strips delimiters and maps trailing modifiers. Anything that
// does not look delimited is returned unchanged.
func unwrapPattern(pattern string) (string, regexp2.RegexOptions) {
	if len(pattern) < 2 {
		return pattern, regexp2.None
	}
	closing, ok := closingDelimiter(pattern[0])
	if !ok {
		return pattern, regexp2.None
	}
	end := strings.LastIndexByte(pattern, closing)
	if end <= 0 {
		return pattern, regexp2.None
	}

	opts := regexp2.None
	for _, m := range pattern[end+1:] {
		switch m {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'x':
			opts |= regexp2.IgnorePatternWhitespace
		case 'u', 'D', 'U':
			// no regexp2 equivalent
		default:
			return pattern, regexp2.None
		}
	}
	return pattern[1:end], opts
}
