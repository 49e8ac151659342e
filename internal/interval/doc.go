// Package interval bounds the values a signal can take. It implements the
// interval algebra over float64 and infers the range of every node of an
// exported program from the ranges of its operands.
package interval
