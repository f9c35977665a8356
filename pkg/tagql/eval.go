package tagql

import (
	"strconv"
)

// BookmarkResolver reports whether the bookmark at path matches. It is only
// consulted for {path} leaves and must not have side effects visible to the
// evaluation.
type BookmarkResolver func(path string) bool

// Matches evaluates the query against one item's tags. Evaluation is total
// and short-circuiting: the right operand of && and || is skipped once the
// result is known. tags is never modified. A nil resolver makes every
// bookmark leaf false.
func (q *Query) Matches(tags TagSet, resolve BookmarkResolver) bool {
	e := evaluator{q: q, tags: tags, resolve: resolve}
	return e.eval(q.root)
}

type evaluator struct {
	q       *Query
	tags    TagSet
	resolve BookmarkResolver
}

func (e *evaluator) eval(node Node) bool {
	switch n := node.(type) {
	case BinaryExpr:
		l := e.eval(n.Left)
		if n.Op == OpAnd {
			return l && e.eval(n.Right)
		}
		return l || e.eval(n.Right)
	case NotExpr:
		return !e.eval(n.Expr)
	case TagExpr:
		return e.evalTag(n)
	case CompareExpr:
		return e.evalCompare(n)
	case BookmarkExpr:
		if e.resolve == nil {
			return false
		}
		return e.resolve(n.Path)
	default:
		return false
	}
}

func (e *evaluator) evalTag(expr TagExpr) bool {
	re := e.q.regexps[expr.Pattern]
	for _, t := range e.tags {
		if re.MatchString(t.Name) {
			return true
		}
	}
	return false
}

// evalCompare reports whether any tag with a matching name has a value that
// satisfies the comparison. Tags without a value never do.
func (e *evaluator) evalCompare(expr CompareExpr) bool {
	nameRe := e.q.regexps[expr.Pattern]
	test := e.valueTest(expr)
	for _, t := range e.tags {
		if !t.HasValue || !nameRe.MatchString(t.Name) {
			continue
		}
		if test(t.Value) {
			return true
		}
	}
	return false
}

func (e *evaluator) valueTest(expr CompareExpr) func(string) bool {
	switch expr.Op {
	case OpEq:
		return e.q.regexps[expr.Value].MatchString
	case OpNotEq:
		re := e.q.regexps[expr.Value]
		return func(s string) bool { return !re.MatchString(s) }
	}

	rhs := e.q.ints[expr.Value]
	var cmp func(lhs int64) bool
	switch expr.Op {
	case OpLt:
		cmp = func(lhs int64) bool { return lhs < rhs }
	case OpLtEq:
		cmp = func(lhs int64) bool { return lhs <= rhs }
	case OpGt:
		cmp = func(lhs int64) bool { return lhs > rhs }
	case OpGtEq:
		cmp = func(lhs int64) bool { return lhs >= rhs }
	default:
		return func(string) bool { return false }
	}
	return func(s string) bool {
		lhs, err := strconv.ParseInt(s, 10, 64)
		return err == nil && cmp(lhs)
	}
}
