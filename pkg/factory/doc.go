/*
Package factory holds the compiled artifact handed to code generation.

A Factory carries the exported signal Program of a root box together with the
options it was compiled with, keyed by a SHA-1 of the box structure and those
options. Factories serialize to JSON (text) or MessagePack (binary) through
Factory.Write and Read, and are cached by the adapters of pkg/ports.

The argument vector accepted by ParseArgs mirrors the command-line conventions of
block-diagram compilers: -single, -double, -I dir and -cn name are recognized and
every other argument is passed through untouched.
*/
package factory
