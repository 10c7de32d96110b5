// Package kinds defines NodeKind, the operator vocabulary of jit graphs.
//
// Operator kinds live in one of two namespaces: prim:: for the structural
// operators owned by the IR itself (block parameters, returns, printing), and
// onnx:: for operators with ONNX exchange semantics.
package kinds

import (
	"github.com/emasap/pytorch/internal/utils"
)

// NodeKind identifies the operator a Node computes.
type NodeKind int

//go:generate go tool enumer -type=NodeKind -output=gen_nodekind_enumer.go kinds.go

const (
	Invalid NodeKind = iota

	Param
	Return
	Print

	Constant
	Cast
	Identity

	Add
	Sub
	Mul
	Div
	Gemm
	Pow
	Mod

	Greater
	Less
	Equal
	GreaterOrEqual
	LessOrEqual

	Shape
	Gather
	Unsqueeze
	Squeeze
	Concat
	Reshape
	MatMul
	Relu

	If
	Loop

	// Last should always be kept the last, it is used as a counter/marker.
	Last
)

var (
	// primKinds are the structural operators owned by the IR itself, as opposed
	// to operators with ONNX exchange semantics.
	primKinds = utils.SetWith(Param, Return, Print)
)

// QualString returns the namespace-qualified name of the kind as it appears in
// graph dumps: "onnx::Add", "prim::Param".
func (k NodeKind) QualString() string {
	if primKinds.Has(k) {
		return "prim::" + k.String()
	}
	return "onnx::" + k.String()
}

// HasSideEffects reports whether nodes of this kind must be preserved even when
// their outputs are unused. Dead code elimination only removes them when
// explicitly allowed to.
func (k NodeKind) HasSideEffects() bool {
	return k == Print
}
