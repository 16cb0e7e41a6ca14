// Package exprgraph builds arithmetic expressions as immutable graphs and
// interprets them with visitors.
//
// An Expr is a handle to a node: a constant, an indexed parameter, or the sum
// or product of two other expressions. Handles are values. Copying one shares
// the node beneath it, so one sub-expression can feed any number of parents,
// as in "x*x + x" where both products and the sum all read the same x. Since
// a node can only refer to expressions that already exist, every graph is a
// DAG.
//
// Consumers interpret a graph by implementing Visitor and calling Walk, which
// visits children before parents and left operands before right ones. Walk
// does not remember results: a shared sub-expression is walked again for every
// path that reaches it. WalkShared is the memoizing alternative.
//
// Evaluator computes float64 results from a set of parameter bindings, and
// BigEvaluator does the same with math/big at any precision. Parse turns text
// like "2 x + y" into a graph.
package exprgraph
