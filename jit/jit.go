// Package jit implements a mutable graph IR in the style of torch::jit: a
// Graph owns a tree of Blocks, each holding an ordered list of Nodes that
// produce and consume Values.
//
// Among its features:
//
// - Full def-use bookkeeping: every edge mutation keeps Value uses consistent.
// - Nested control-flow blocks (If, Loop) with block parameters and outputs.
// - Rendered (human-readable) text dumps of graphs, for debugging and tests.
//
// Nodes carry the operator vocabulary defined in jit/kinds, mostly operators
// with ONNX exchange semantics. The passes under jit/passes rewrite these
// graphs in place.
package jit

import "github.com/emasap/pytorch/internal/utils"

// NormalizeIdentifier converts the name of an identifier (a graph input or a
// value debug name) to a valid one: only letters, digits, and underscores are
// allowed.
//
// Invalid characters are replaced with underscores.
// If the name starts with a digit, it is prefixed with an underscore.
func NormalizeIdentifier(name string) string {
	return utils.NormalizeIdentifier(name)
}
