// Package onnx implements the graph passes that ready traced jit graphs for
// export to ONNX.
//
// The central one is ScalarTypeAnalysis: ONNX arithmetic and comparison
// operators require their operands to share one element type, while traced
// graphs mix annotated tensors, bare Python scalars and shape arithmetic
// freely. The pass infers the element type each such node should compute in
// and makes the conversions explicit, rebuilding constant operands and
// routing tensor operands through onnx::Cast.
package onnx

import (
	"slices"

	"github.com/emasap/pytorch/internal/utils"
	"github.com/emasap/pytorch/jit"
	"github.com/emasap/pytorch/jit/kinds"
	"github.com/emasap/pytorch/jit/passes"
	"github.com/emasap/pytorch/types/tensor"
	"github.com/gomlx/gopjrt/dtypes"
	"k8s.io/klog/v2"
)

// onnxElementTypes maps dtypes to their ONNX TensorProto element-type codes,
// the wire values carried by the "to" attribute of onnx::Cast.
var onnxElementTypes = map[dtypes.DType]int64{
	dtypes.Float32: 1,
	dtypes.Uint8:   2,
	dtypes.Int8:    3,
	dtypes.Int16:   5,
	dtypes.Int32:   6,
	dtypes.Int64:   7,
	dtypes.Bool:    9,
	dtypes.Float16: 10,
	dtypes.Float64: 11,
}

// ElementType returns the ONNX TensorProto element-type code for a dtype,
// or -1 for dtypes the exported opset cannot represent.
func ElementType(dtype dtypes.DType) int64 {
	if code, ok := onnxElementTypes[dtype]; ok {
		return code
	}
	return -1
}

var (
	// standardOps are the arithmetic operators whose operands ONNX requires
	// to share one element type, which their output then takes as well.
	standardOps = utils.SetWith(
		kinds.Add, kinds.Sub, kinds.Mul, kinds.Div,
		kinds.Gemm, kinds.Pow, kinds.Mod)

	// comparisonOps also require a shared operand type, but always yield
	// Bool outputs.
	comparisonOps = utils.SetWith(
		kinds.Greater, kinds.Less, kinds.Equal,
		kinds.GreaterOrEqual, kinds.LessOrEqual)
)

func isImplicitCastSupported(kind kinds.NodeKind) bool {
	return standardOps.Has(kind) || comparisonOps.Has(kind)
}

// promoteScalarTypes folds the type promotion lattice over types, returning
// InvalidDType for an empty list or when some pair has no defined promotion.
func promoteScalarTypes(types []dtypes.DType) dtypes.DType {
	if len(types) == 0 {
		return dtypes.InvalidDType
	}
	st := types[0]
	for _, t := range types[1:] {
		st = tensor.PromoteTypes(st, t)
	}
	return st
}

// inferExpectedScalarType returns the element type every operand of the node
// should share, or ok=false when nothing can be inferred.
//
// Operand dtypes come from two sources. Scalars: constant literals, plus
// values gathered out of an onnx::Shape vector, the tracer's spelling of a
// Python int taken from x.shape, which is always Long. Tensors: dtypes
// recorded on type annotations.
//
// Comparisons promote across all of them. The arithmetic operators promote
// only when every operand is a scalar; otherwise an annotated output dtype
// wins, and failing that the first tensor dtype does.
func inferExpectedScalarType(n *jit.Node) (dtypes.DType, bool) {
	var typesFromTensors []dtypes.DType
	var typesFromScalars []dtypes.DType

	for _, input := range n.Inputs() {
		producer := input.Node()
		switch {
		case producer.Kind() == kinds.Gather && producer.NumInputs() > 0 &&
			producer.Input(0).Node().Kind() == kinds.Shape:
			typesFromScalars = append(typesFromScalars, dtypes.Int64)
		case producer.Kind() == kinds.Constant:
			value := producer.Tensor(jit.AttrValue)
			if value == nil {
				// Nothing to read a dtype from.
				continue
			}
			typesFromScalars = append(typesFromScalars, value.DType())
		case input.Type().DType() != dtypes.InvalidDType:
			typesFromTensors = append(typesFromTensors, input.Type().DType())
		}
	}

	st := dtypes.InvalidDType
	if comparisonOps.Has(n.Kind()) {
		st = promoteScalarTypes(append(typesFromScalars, typesFromTensors...))
	} else {
		outputDType := n.Output().Type().DType()
		switch {
		case len(typesFromScalars) == n.NumInputs():
			st = promoteScalarTypes(typesFromScalars)
		case outputDType != dtypes.InvalidDType:
			st = outputDType
		case len(typesFromTensors) > 0:
			st = typesFromTensors[0]
			for _, t := range typesFromTensors[1:] {
				if t != st {
					klog.Warningf("inputs of %s node mix element types %s and %s, assuming %s",
						n.Kind().QualString(), utils.DTypeToTorch(st), utils.DTypeToTorch(t),
						utils.DTypeToTorch(st))
					break
				}
			}
		default:
			st = promoteScalarTypes(typesFromScalars)
		}
	}
	if st == dtypes.InvalidDType {
		return st, false
	}
	return st, true
}

// updateScalarTypeForInputs makes every operand of the node carry the
// element type st: constant operands are rebuilt as converted constants
// inserted right before the node, and tensor operands annotated with a
// different dtype are routed through a fresh onnx::Cast. Operands without
// dtype information are left alone.
func updateScalarTypeForInputs(n *jit.Node, st dtypes.DType) {
	code := ElementType(st)
	if code < 0 {
		klog.Warningf("cannot cast the inputs of a %s node: %s has no ONNX element type",
			n.Kind().QualString(), utils.DTypeToTorch(st))
		return
	}
	g := n.Graph()
	for _, input := range slices.Clone(n.Inputs()) {
		producer := input.Node()
		switch {
		case producer.Kind() == kinds.Constant:
			value := producer.Tensor(jit.AttrValue)
			if value == nil {
				continue
			}
			converted, err := value.ConvertDType(st)
			if err != nil {
				klog.Warningf("cannot convert a constant operand of a %s node to %s: %v",
					n.Kind().QualString(), utils.DTypeToTorch(st), err)
				continue
			}
			constNode := g.NewNode(kinds.Constant)
			constNode.SetTensor(jit.AttrValue, converted)
			constNode.Output().SetType(jit.TensorTypeOf(converted))
			constNode.InsertBefore(n)
			n.ReplaceInputWith(input, constNode.Output())
		case input.Type().DType() != dtypes.InvalidDType && input.Type().DType() != st:
			castNode := g.NewNode(kinds.Cast)
			castNode.AddInput(input)
			castNode.SetInt(jit.AttrTo, code)
			castNode.Output().SetType(input.Type().WithDType(st))
			castNode.InsertBefore(n)
			n.ReplaceInputWith(input, castNode.Output())
		}
	}
}

// updateScalarTypeForOutput stamps the element type on the node's output
// annotation, keeping its dimensions (or their absence).
func updateScalarTypeForOutput(n *jit.Node, st dtypes.DType) {
	n.Output().SetType(n.Output().Type().WithDType(st))
}

// implicitCastForBlock processes nested blocks first, then the block's own
// nodes in order, and finishes with a dead code sweep to drop the constants
// orphaned by operand rewrites.
func implicitCastForBlock(b *jit.Block) {
	for _, n := range slices.Clone(b.Nodes()) {
		for _, sub := range n.Blocks() {
			implicitCastForBlock(sub)
		}
		if !isImplicitCastSupported(n.Kind()) {
			continue
		}
		st, ok := inferExpectedScalarType(n)
		if !ok {
			continue
		}
		updateScalarTypeForInputs(n, st)
		if !comparisonOps.Has(n.Kind()) {
			updateScalarTypeForOutput(n, st)
		}
	}
	passes.EliminateDeadCodeInBlock(b, passes.DeleteNodesWithSideEffects)
}

// ScalarTypeAnalysis makes the implicit dtype conversions of a traced graph
// explicit, so that every arithmetic and comparison operator receives
// operands of one shared element type, as ONNX requires.
//
// For each such node it infers the expected element type (see
// inferExpectedScalarType), rewrites the operands to match (see
// updateScalarTypeForInputs) and, for the arithmetic operators, annotates
// the output with it. Comparison outputs are Bool and keep their annotation.
// Nested blocks are processed before the nodes that own them, and orphaned
// constants are dead-code-eliminated.
func ScalarTypeAnalysis(g *jit.Graph) {
	implicitCastForBlock(g.Block())
}
