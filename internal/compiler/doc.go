// Package compiler flattens a box diagram into output signals.
//
// Compilation is memoized in the box context keyed by (box, input signals), so a
// shared subexpression is compiled once and recompiling a root yields the same
// signal handles. Recursive compositions are tied through taps resolved with a
// one-sample delay once the feedback branch has been compiled.
package compiler
