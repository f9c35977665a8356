package tagql

import (
	"errors"
	"regexp/syntax"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		query   string
		kind    error
		pattern string
		op      CompareOp
	}{
		{"[a", ErrRegexCompile, "[a", 0},
		{"a == [b", ErrRegexCompile, "[b", 0},
		{"a** && b", ErrRegexCompile, "a**", 0},
		{"a < abc", ErrInvalidOperator, "abc", OpLt},
		{"a >= 1.5", ErrInvalidOperator, "1.5", OpGtEq},
		{"a > 9223372036854775808", ErrInvalidOperator, "9223372036854775808", OpGt},
		{"n < +5", ErrInvalidOperator, "+5", OpLt},
		{"n <= [x", ErrInvalidOperator, "[x", OpLtEq},
		{"n == +5", ErrRegexCompile, "+5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := ParseAndCompile(tt.query, Extended)
			require.Nil(t, q)
			require.ErrorIs(t, err, tt.kind)

			var cerr *Error
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tt.pattern, cerr.Pattern)
			assert.Equal(t, NoPos, cerr.Pos)
			if tt.kind == ErrInvalidOperator {
				assert.Equal(t, tt.op, cerr.Op)
				var nerr *strconv.NumError
				assert.True(t, errors.As(err, &nerr), "cause is kept")
			}
		})
	}
}

func TestCompileRegexCause(t *testing.T) {
	_, err := ParseAndCompile("[a", Extended)
	var serr *syntax.Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, syntax.ErrMissingBracket, serr.Code)
}

func TestCompileEqualityAcceptsNonIntegers(t *testing.T) {
	for _, q := range []string{"a == abc", "a != 1.5", "a == (ab|cd)+e"} {
		_, err := ParseAndCompile(q, Extended)
		assert.NoError(t, err, q)
	}
}

func TestCompilePatterns(t *testing.T) {
	q := MustCompile("a == b || a == c || b && !a", Extended)
	assert.Equal(t, []string{"a", "b", "c"}, q.Patterns())
	assert.Equal(t, Extended, q.Variant())
	assert.Equal(t, or(or(compare("a", OpEq, "b"), compare("a", OpEq, "c")), and(tag("b"), not(tag("a")))), q.Root())
}

func TestCompileFromAST(t *testing.T) {
	q, err := Compile(and(tag("a"), compare("n", OpGt, "3")), Basic)
	require.NoError(t, err)
	assert.True(t, q.Matches(mustTags(t, "a,n=4"), nil))
	assert.False(t, q.Matches(mustTags(t, "a,n=3"), nil))
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("a &&", Extended) })
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"", "offset 0: empty query"},
		{"a b", `offset 2: trailing input: unexpected "b" after expression`},
		{"a < abc", `invalid operator <: "abc" is not an integer`},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			_, err := ParseAndCompile(tt.query, Extended)
			require.EqualError(t, err, tt.want)
		})
	}
}
