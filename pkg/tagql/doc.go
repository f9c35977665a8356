// Package tagql implements a boolean query language over item tags.
//
// A query combines tag predicates with and/&&, or/|| and not/!:
//
//	f(ab|cd).*e == b[ac]d && g[^h] < 20 AND !i
//
// Tag names and values on either side of a comparison are regular
// expressions that must match the whole name or value. A bare pattern is
// true when any tag name matches it. The ordering operators compare
// integers. In the Extended variant {path} refers to a bookmark whose truth
// value is supplied by the caller.
//
// Queries are parsed and compiled once with ParseAndCompile and evaluated
// with Query.Matches. A compiled Query is immutable and safe for concurrent
// use.
//
// Item tags are written as a comma separated list, for example
// "a=1,b,c=3", and parsed with ParseTagList.
package tagql
