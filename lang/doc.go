// Package lang implements complexpr, a small embeddable expression language
// over a numeric tower of integers, floats, complex numbers and exact
// ratios, with booleans, strings, lists and first-class closures.
//
// # Pipeline
//
// Source text passes through three stages before evaluation:
//
//   - [Tokenize] splits text into tokens.
//   - A grouping pass folds parenthesized spans into groups, inserting a
//     call marker before a group that follows a value and turning a '-'
//     in prefix position into negation.
//   - [BuildTree] repeatedly splits each group at its loosest-binding
//     operator to produce a [Node] tree.
//
// [Compile] runs all three and returns a [Program]; [Program.Eval] walks the
// tree against an [Env].
//
// # Syntax
//
//	x = 3
//	x += 1; x * 2
//	sq = x:(x^2)
//	add = (a, b):(a + b)
//	(x > 2)("big", "small")
//	1//3 + 1//6
//	sqrt(-1+0i)
//
// Assignment yields Void and a block yields its last statement. Closures
// capture the environment by value. A Bool called with two arguments selects
// one of them, and '//' builds an exact ratio.
//
// Operators, loosest first: ';' then ',' then '=' and compound assignment,
// comparisons, '+ -', '* / // %', '^', prefix '-', ':', and finally
// call. A lambda body other than a call or a single name therefore needs
// parentheses.
//
// # Special forms
//
// Names beginning with '$' are handled by the evaluator: $ctx reifies the
// environment as a list of (name, value) pairs, and $include, $catch, $set,
// $unset, $is_set and $get are available in call position.
//
// # Errors
//
// All failures are [*Error] values carrying a [Kind] and, once they cross an
// operator or function boundary, a [Trace] naming it. Compare with
// [errors.Is] against the Err* sentinels.
package lang
