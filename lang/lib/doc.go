// Package lib provides the standard library of native functions for the
// expression language, grouped into modules that install into a [lang.Env].
//
// Three prebuilt environments are offered. [Empty] has no bindings.
// [Default] holds the side-effect-free modules: operator functions,
// trigonometry, numerics, complex helpers, type predicates, list utilities
// and randomness. [Full] adds standard I/O, host-system access and
// expr-lang evaluation. Each call returns a clone of a table built once per
// process, so callers may modify the result.
//
// Every function validates its own argument count and types. Errors raised
// inside a function carry a trace naming it:
//
//	sqrt(1, 2)
//	Function 'sqrt': Too many arguments (expected 1, found 2)
package lib
