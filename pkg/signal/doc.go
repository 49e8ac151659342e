/*
Package signal implements the flat computation graph produced by compiling a box.

A Graph is an arena of nodes addressed by comparable Signal handles. Every node
except recursive taps is hash-consed: building a node whose kind, scalar fields and
operands match an existing one returns the existing handle, so structural equality
of two signals is handle equality.

Recursive taps stand for "the value of a signal some samples ago". They are
allocated fresh by NewTap and bound exactly once by ResolveTap after the signal
they refer to has been built, which is how feedback is expressed without a literal
cycle in the operand edges.
*/
package signal
