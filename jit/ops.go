package jit

import (
	"github.com/emasap/pytorch/jit/kinds"
	"github.com/emasap/pytorch/types/tensor"
	"github.com/gomlx/gopjrt/dtypes"
)

// This file provides convenience constructors for the operators used in
// traced graphs. Each appends a node to the block and returns its output
// value (or the node itself for multi-output and no-output operators).
//
// Arithmetic outputs are left without a type annotation on purpose: filling
// those in is the job of the scalar type analysis in jit/passes/onnx.

// Constant appends an onnx::Constant node carrying the given literal. The
// output is annotated with the literal's dtype and dimensions.
func (b *Block) Constant(t *tensor.Tensor) *Value {
	n := b.AddNode(kinds.Constant)
	n.SetTensor(AttrValue, t)
	return n.Output().SetType(TensorTypeOf(t))
}

// ConstantScalar appends an onnx::Constant node carrying a scalar literal of
// the dtype matching T.
func ConstantScalar[T dtypes.Supported](b *Block, value T) *Value {
	return b.Constant(tensor.FromScalar(value))
}

// Add appends an onnx::Add node.
func (b *Block) Add(lhs, rhs *Value) *Value {
	return b.AddNode(kinds.Add, lhs, rhs).Output()
}

// Sub appends an onnx::Sub node.
func (b *Block) Sub(lhs, rhs *Value) *Value {
	return b.AddNode(kinds.Sub, lhs, rhs).Output()
}

// Mul appends an onnx::Mul node.
func (b *Block) Mul(lhs, rhs *Value) *Value {
	return b.AddNode(kinds.Mul, lhs, rhs).Output()
}

// Div appends an onnx::Div node.
func (b *Block) Div(lhs, rhs *Value) *Value {
	return b.AddNode(kinds.Div, lhs, rhs).Output()
}

// Pow appends an onnx::Pow node.
func (b *Block) Pow(base, exponent *Value) *Value {
	return b.AddNode(kinds.Pow, base, exponent).Output()
}

// Mod appends an onnx::Mod node.
func (b *Block) Mod(lhs, rhs *Value) *Value {
	return b.AddNode(kinds.Mod, lhs, rhs).Output()
}

// Gemm appends an onnx::Gemm node computing alpha*x*y + beta*bias.
func (b *Block) Gemm(x, y, bias *Value, alpha, beta float64) *Value {
	n := b.AddNode(kinds.Gemm, x, y, bias)
	n.SetFloat(AttrAlpha, alpha)
	n.SetFloat(AttrBeta, beta)
	return n.Output()
}

// Greater appends an onnx::Greater node. Comparisons yield Bool tensors, and
// the output is annotated accordingly (keeping the lhs dimensions).
func (b *Block) Greater(lhs, rhs *Value) *Value {
	return b.compare(kinds.Greater, lhs, rhs)
}

// Less appends an onnx::Less node, annotated like Greater.
func (b *Block) Less(lhs, rhs *Value) *Value {
	return b.compare(kinds.Less, lhs, rhs)
}

// Equal appends an onnx::Equal node, annotated like Greater.
func (b *Block) Equal(lhs, rhs *Value) *Value {
	return b.compare(kinds.Equal, lhs, rhs)
}

// GreaterOrEqual appends an onnx::GreaterOrEqual node, annotated like
// Greater.
func (b *Block) GreaterOrEqual(lhs, rhs *Value) *Value {
	return b.compare(kinds.GreaterOrEqual, lhs, rhs)
}

// LessOrEqual appends an onnx::LessOrEqual node, annotated like Greater.
func (b *Block) LessOrEqual(lhs, rhs *Value) *Value {
	return b.compare(kinds.LessOrEqual, lhs, rhs)
}

func (b *Block) compare(kind kinds.NodeKind, lhs, rhs *Value) *Value {
	n := b.AddNode(kind, lhs, rhs)
	return n.Output().SetType(lhs.Type().WithDType(dtypes.Bool))
}

// Cast appends an onnx::Cast node with the given ONNX TensorProto
// element-type code. The output annotation is left unknown: the code is an
// ONNX wire value, not a dtype.
func (b *Block) Cast(x *Value, toCode int64) *Value {
	n := b.AddNode(kinds.Cast, x)
	n.SetInt(AttrTo, toCode)
	return n.Output()
}

// Identity appends an onnx::Identity node, keeping its input's annotation.
func (b *Block) Identity(x *Value) *Value {
	n := b.AddNode(kinds.Identity, x)
	return n.Output().SetType(x.Type())
}

// Relu appends an onnx::Relu node, keeping its input's annotation.
func (b *Block) Relu(x *Value) *Value {
	n := b.AddNode(kinds.Relu, x)
	return n.Output().SetType(x.Type())
}

// Shape appends an onnx::Shape node, which yields the dimensions of its
// input as a Long vector.
func (b *Block) Shape(x *Value) *Value {
	n := b.AddNode(kinds.Shape, x)
	typ := UnrankedTensorType(dtypes.Int64)
	if x.Type().Ranked() && len(x.Type().Dimensions()) > 0 {
		typ = RankedTensorType(dtypes.Int64, len(x.Type().Dimensions()))
	}
	return n.Output().SetType(typ)
}

// Gather appends an onnx::Gather node selecting indices along axis. Its
// output annotation is left unknown, as the tracer leaves it for the shape
// computation idiom.
func (b *Block) Gather(data, indices *Value, axis int64) *Value {
	n := b.AddNode(kinds.Gather, data, indices)
	n.SetInt(AttrAxis, axis)
	return n.Output()
}

// Unsqueeze appends an onnx::Unsqueeze node inserting size-1 axes.
func (b *Block) Unsqueeze(x *Value, axes ...int64) *Value {
	n := b.AddNode(kinds.Unsqueeze, x)
	n.SetInts(AttrAxes, axes...)
	return n.Output()
}

// Squeeze appends an onnx::Squeeze node dropping the given size-1 axes.
func (b *Block) Squeeze(x *Value, axes ...int64) *Value {
	n := b.AddNode(kinds.Squeeze, x)
	n.SetInts(AttrAxes, axes...)
	return n.Output()
}

// Concat appends an onnx::Concat node joining xs along axis.
func (b *Block) Concat(axis int64, xs ...*Value) *Value {
	n := b.AddNode(kinds.Concat, xs...)
	n.SetInt(AttrAxis, axis)
	return n.Output()
}

// Reshape appends an onnx::Reshape node. The target shape is itself a Long
// tensor value, per the ONNX operator.
func (b *Block) Reshape(x, shape *Value) *Value {
	return b.AddNode(kinds.Reshape, x, shape).Output()
}

// MatMul appends an onnx::MatMul node.
func (b *Block) MatMul(x, y *Value) *Value {
	return b.AddNode(kinds.MatMul, x, y).Output()
}

// Print appends a prim::Print node, which has a side effect and no outputs,
// and returns the node.
func (b *Block) Print(xs ...*Value) *Node {
	n := b.graph.NewNode(kinds.Print, 0)
	for _, x := range xs {
		n.AddInput(x)
	}
	return b.AppendNode(n)
}

// If appends an onnx::If node with the given Bool condition and two empty
// blocks, then and else. Callers fill both blocks, register the same number
// of block outputs on each, and add one node output per yielded value with
// Node.AddOutput. The node starts with no outputs.
func (b *Block) If(cond *Value) *Node {
	n := b.graph.NewNode(kinds.If, 0)
	n.AddInput(cond)
	n.AddBlock()
	n.AddBlock()
	return b.AppendNode(n)
}

// Loop appends an onnx::Loop node with the given trip count and initial
// condition, and one empty body block. As with If, callers fill the body and
// add node outputs explicitly. The node starts with no outputs.
func (b *Block) Loop(tripCount, cond *Value) *Node {
	n := b.graph.NewNode(kinds.Loop, 0)
	n.AddInput(tripCount)
	n.AddInput(cond)
	n.AddBlock()
	return b.AppendNode(n)
}
