// Package registry declares foreign symbols supplied by the host program, so
// diagrams can reference them without a header file on the include path.
package registry
