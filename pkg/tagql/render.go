package tagql

import (
	"strings"
)

// Render returns the canonical form of the query: operators are spelled
// &&, || and !, separated by single spaces, and parentheses appear only
// where the tree shape would otherwise change when parsed again.
func (q *Query) Render() string {
	return Render(q.root)
}

func (q *Query) String() string {
	return q.Render()
}

// Render returns the canonical form of an AST.
func Render(n Node) string {
	var sb strings.Builder
	render(&sb, n)
	return sb.String()
}

func render(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case BinaryExpr:
		prec := n.Op.precedence()
		// Chains fold to the left, so a right operand of equal precedence
		// needs parentheses to keep its shape.
		renderOperand(sb, n.Left, precedenceOf(n.Left) < prec)
		sb.WriteByte(' ')
		sb.WriteString(n.Op.String())
		sb.WriteByte(' ')
		renderOperand(sb, n.Right, precedenceOf(n.Right) <= prec)
	case NotExpr:
		sb.WriteByte('!')
		renderOperand(sb, n.Expr, precedenceOf(n.Expr) < precNot)
	case TagExpr:
		sb.WriteString(n.Pattern)
	case CompareExpr:
		sb.WriteString(n.Pattern)
		sb.WriteByte(' ')
		sb.WriteString(n.Op.String())
		sb.WriteByte(' ')
		sb.WriteString(n.Value)
	case BookmarkExpr:
		sb.WriteByte('{')
		sb.WriteString(n.Path)
		sb.WriteByte('}')
	}
}

func renderOperand(sb *strings.Builder, n Node, paren bool) {
	if paren {
		sb.WriteByte('(')
	}
	render(sb, n)
	if paren {
		sb.WriteByte(')')
	}
}

func precedenceOf(n Node) int {
	switch n := n.(type) {
	case BinaryExpr:
		return n.Op.precedence()
	case NotExpr:
		return precNot
	}
	return precLeaf
}
