package tagql

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Query is the compiled form of a tag query. It is immutable and may be
// evaluated concurrently from any number of goroutines.
type Query struct {
	root    Node
	variant Variant

	// regexps holds one full-match expression per distinct pattern text.
	regexps map[string]*regexp.Regexp
	// ints holds the parsed value of every value pattern used with an
	// ordering operator.
	ints map[string]int64
}

// ParseAndCompile parses and compiles a query in one step.
func ParseAndCompile(input string, v Variant) (*Query, error) {
	root, err := Parse(input, v)
	if err != nil {
		return nil, err
	}
	return Compile(root, v)
}

// MustCompile is like ParseAndCompile but panics if the query is invalid.
func MustCompile(input string, v Variant) *Query {
	q, err := ParseAndCompile(input, v)
	if err != nil {
		panic("tagql: MustCompile(" + strconv.Quote(input) + "): " + err.Error())
	}
	return q
}

// Compile compiles the given query AST so it can be used to match tag sets.
// All patterns are compiled here; evaluation never compiles anything.
func Compile(root Node, v Variant) (*Query, error) {
	q := &Query{
		root:    root,
		variant: v,
		regexps: make(map[string]*regexp.Regexp),
		ints:    make(map[string]int64),
	}
	var err error
	Walk(root, func(n Node) {
		if err != nil {
			return
		}
		switch n := n.(type) {
		case TagExpr:
			err = q.addPattern(n.Pattern)
		case CompareExpr:
			err = q.compileComparison(n)
		}
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Query) compileComparison(c CompareExpr) error {
	if err := q.addPattern(c.Pattern); err != nil {
		return err
	}
	if c.Op.Ordering() {
		n, err := parseInteger(c.Value)
		if err != nil {
			return &Error{Kind: ErrInvalidOperator, Pos: NoPos, Pattern: c.Value, Op: c.Op, Err: err}
		}
		q.ints[c.Value] = n
	}
	return q.addPattern(c.Value)
}

// parseInteger parses a base-10 integer with an optional leading '-'. A
// leading '+' is a regex quantifier, not a sign.
func parseInteger(s string) (int64, error) {
	if strings.HasPrefix(s, "+") {
		return 0, &strconv.NumError{Func: "ParseInt", Num: s, Err: strconv.ErrSyntax}
	}
	return strconv.ParseInt(s, 10, 64)
}

func (q *Query) addPattern(p string) error {
	if _, ok := q.regexps[p]; ok {
		return nil
	}
	re, err := compilePattern(p)
	if err != nil {
		return err
	}
	q.regexps[p] = re
	return nil
}

// compilePattern compiles p so that it must match a whole string.
func compilePattern(p string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`^(?:` + p + `)$`)
	if err != nil {
		return nil, &Error{Kind: ErrRegexCompile, Pos: NoPos, Pattern: p, Err: err}
	}
	return re, nil
}

// Root returns the AST of the query.
func (q *Query) Root() Node {
	return q.root
}

// Variant returns the grammar variant the query was compiled with.
func (q *Query) Variant() Variant {
	return q.variant
}

// Patterns returns the distinct patterns of the query, sorted.
func (q *Query) Patterns() []string {
	out := make([]string, 0, len(q.regexps))
	for p := range q.regexps {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
