package tagql

// Node is the interface implemented by all AST nodes.
type Node interface {
	node() // marker method
}

// BinaryOp is a logical connective.
type BinaryOp int

const (
	OpOr BinaryOp = iota
	OpAnd
)

func (op BinaryOp) String() string {
	if op == OpAnd {
		return "&&"
	}
	return "||"
}

// precedence is the binding strength of the operator; higher binds tighter.
func (op BinaryOp) precedence() int {
	if op == OpAnd {
		return precAnd
	}
	return precOr
}

const (
	precOr = iota + 1
	precAnd
	precNot
	precLeaf
)

// CompareOp is a comparison between a tag value and a value pattern.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNotEq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
)

var compareOpNames = [...]string{
	OpEq:    "==",
	OpNotEq: "!=",
	OpLt:    "<",
	OpLtEq:  "<=",
	OpGt:    ">",
	OpGtEq:  ">=",
}

func (op CompareOp) String() string {
	if op < 0 || int(op) >= len(compareOpNames) {
		return "?"
	}
	return compareOpNames[op]
}

// Ordering reports whether op compares integers.
func (op CompareOp) Ordering() bool {
	return op >= OpLt
}

// BinaryExpr represents a binary logical expression (AND, OR).
type BinaryExpr struct {
	Op    BinaryOp
	Left  Node
	Right Node
}

func (BinaryExpr) node() {}

// NotExpr represents a NOT expression that negates its inner expression.
type NotExpr struct {
	Expr Node
}

func (NotExpr) node() {}

// TagExpr matches when any tag name full-matches Pattern.
type TagExpr struct {
	Pattern string
}

func (TagExpr) node() {}

// CompareExpr matches when any tag whose name full-matches Pattern has a
// value satisfying Op against Value.
type CompareExpr struct {
	Pattern string
	Op      CompareOp
	Value   string
}

func (CompareExpr) node() {}

// BookmarkExpr delegates to the caller's BookmarkResolver.
type BookmarkExpr struct {
	Path string
}

func (BookmarkExpr) node() {}

// Walk calls fn for every node of the tree in depth-first, left-to-right
// order.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	switch n := n.(type) {
	case BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case NotExpr:
		Walk(n.Expr, fn)
	}
}
