package jit

import (
	"testing"

	"github.com/emasap/pytorch/jit/kinds"
	"github.com/emasap/pytorch/types/tensor"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphBuild(t *testing.T) {
	g := NewGraph()
	x := g.AddInput("x", RankedTensorType(dtypes.Float32, 2, 3))
	y := g.AddInput("y", RankedTensorType(dtypes.Float32, 2, 3))
	require.Len(t, g.Inputs(), 2)
	assert.Equal(t, "%x", x.String())
	assert.Equal(t, "Float(2, 3)", x.Type().String())
	assert.Equal(t, kinds.Param, x.Node().Kind())

	sum := g.Block().Add(x, y)
	g.RegisterOutput(sum)

	require.Len(t, g.Block().Nodes(), 1)
	node := g.Block().Nodes()[0]
	assert.Equal(t, kinds.Add, node.Kind())
	assert.Equal(t, "onnx::Add", node.Kind().QualString())
	require.Equal(t, 2, node.NumInputs())
	assert.Same(t, x, node.Input(0))
	assert.Same(t, y, node.Input(1))
	assert.Same(t, node, sum.Node())
	assert.Equal(t, 0, sum.Offset())

	// x is consumed once by the Add node, sum once by the graph return.
	require.Len(t, x.Uses(), 1)
	assert.Same(t, node, x.Uses()[0].User)
	assert.Equal(t, 0, x.Uses()[0].Index)
	assert.True(t, sum.HasUses())
	require.Len(t, g.Outputs(), 1)
	assert.Same(t, sum, g.Outputs()[0])
}

func TestValueNames(t *testing.T) {
	g := NewGraph()
	x := g.AddInput("input.1", nil)
	assert.Equal(t, "%input_1", x.String())
	assert.Equal(t, "Tensor", x.Type().String())

	v := g.Block().Relu(x)
	assert.Equal(t, "%1", v.String())
	v.SetName("3rd value")
	assert.Equal(t, "%_3rd_value", v.String())
	v.SetName("")
	assert.Equal(t, "%1", v.String())
}

func TestReplaceAllUsesWith(t *testing.T) {
	g := NewGraph()
	b := g.Block()
	x := g.AddInput("x", UnrankedTensorType(dtypes.Float32))
	one := ConstantScalar(b, float32(1))
	sum := b.Add(x, one)
	prod := b.Mul(one, one)
	g.RegisterOutput(sum)
	g.RegisterOutput(prod)
	require.Len(t, one.Uses(), 3)

	two := ConstantScalar(b, float32(2))
	one.ReplaceAllUsesWith(two)
	assert.False(t, one.HasUses())
	assert.Len(t, two.Uses(), 3)
	assert.Same(t, two, sum.Node().Input(1))
	assert.Same(t, two, prod.Node().Input(0))
	assert.Same(t, two, prod.Node().Input(1))
}

func TestInsertBeforeAndDestroy(t *testing.T) {
	g := NewGraph()
	b := g.Block()
	x := g.AddInput("x", UnrankedTensorType(dtypes.Int64))
	sum := b.Add(x, x)
	g.RegisterOutput(sum)

	// Insert a constant before the Add and reroute its second operand.
	n := g.NewNode(kinds.Constant)
	n.SetTensor(AttrValue, tensor.FromScalar(int64(7)))
	n.InsertBefore(sum.Node())
	sum.Node().ReplaceInput(1, n.Output())

	require.Len(t, b.Nodes(), 2)
	assert.Same(t, n, b.Nodes()[0])
	assert.Same(t, sum.Node(), b.Nodes()[1])
	require.Len(t, x.Uses(), 1)

	// A node whose output is still consumed cannot be destroyed.
	require.Panics(t, func() { n.Destroy() })

	sum.Node().ReplaceInput(1, x)
	assert.False(t, n.Output().HasUses())
	n.Destroy()
	require.Len(t, b.Nodes(), 1)
	assert.Nil(t, n.Block())
	assert.Nil(t, n.Graph())
}

func TestNestedBlocks(t *testing.T) {
	g := NewGraph()
	b := g.Block()
	x := g.AddInput("x", RankedTensorType(dtypes.Float32, 4))
	zero := ConstantScalar(b, float32(0))
	cond := b.Greater(x, zero)
	assert.Equal(t, "Bool(4)", cond.Type().String())

	ifNode := b.If(cond)
	require.Len(t, ifNode.Blocks(), 2)
	thenBlock, elseBlock := ifNode.Blocks()[0], ifNode.Blocks()[1]
	thenBlock.RegisterOutput(thenBlock.Relu(x))
	elseBlock.RegisterOutput(elseBlock.Identity(x))
	out := ifNode.AddOutput(x.Type())
	g.RegisterOutput(out)

	assert.Same(t, ifNode, thenBlock.Owner())
	assert.Same(t, g, thenBlock.Graph())
	assert.Nil(t, b.Owner())
	require.Len(t, thenBlock.Outputs(), 1)
	require.Len(t, thenBlock.Nodes(), 1)

	// x is consumed by the comparison and from inside both branches.
	assert.Len(t, x.Uses(), 3)
}

func TestLoopBlocks(t *testing.T) {
	g := NewGraph()
	b := g.Block()
	x := g.AddInput("x", UnrankedTensorType(dtypes.Float32))
	tripCount := ConstantScalar(b, int64(10))
	keepGoing := ConstantScalar(b, true)

	loop := b.Loop(tripCount, keepGoing)
	require.Len(t, loop.Blocks(), 1)
	body := loop.Blocks()[0]
	i := body.AddInput("i", UnrankedTensorType(dtypes.Int64))
	assert.Equal(t, kinds.Param, i.Node().Kind())
	body.RegisterOutput(body.Relu(x))
	out := loop.AddOutput(nil)
	g.RegisterOutput(out)

	assert.Equal(t, kinds.Loop, loop.Kind())
	assert.Len(t, body.Inputs(), 1)
	assert.Len(t, body.Outputs(), 1)
}

func TestAttributes(t *testing.T) {
	g := NewGraph()
	n := g.NewNode(kinds.Gemm)
	n.SetFloat(AttrAlpha, 1.0).SetFloat(AttrBeta, 0.5)
	n.SetInt(AttrAxis, -1)
	n.SetInts(AttrAxes, 0, 2)
	lit := tensor.FromScalar(int64(3))
	n.SetTensor(AttrValue, lit)

	alpha, ok := n.Float(AttrAlpha)
	require.True(t, ok)
	assert.Equal(t, 1.0, alpha)
	axis, ok := n.Int(AttrAxis)
	require.True(t, ok)
	assert.Equal(t, int64(-1), axis)
	assert.Equal(t, []int64{0, 2}, n.Ints(AttrAxes))
	assert.Same(t, lit, n.Tensor(AttrValue))

	assert.True(t, n.HasAttr(AttrBeta))
	assert.False(t, n.HasAttr("missing"))
	_, ok = n.Int("missing")
	assert.False(t, ok)
	assert.Nil(t, n.Tensor("missing"))
	assert.Equal(t, []string{"alpha", "axes", "axis", "beta", "value"}, n.AttrNames())
}

func TestDestroyRecursesIntoBlocks(t *testing.T) {
	g := NewGraph()
	b := g.Block()
	x := g.AddInput("x", UnrankedTensorType(dtypes.Float32))
	cond := b.Greater(x, ConstantScalar(b, float32(0)))
	ifNode := b.If(cond)
	thenBlock, elseBlock := ifNode.Blocks()[0], ifNode.Blocks()[1]
	thenBlock.RegisterOutput(thenBlock.Relu(x))
	elseBlock.RegisterOutput(elseBlock.Identity(x))
	out := ifNode.AddOutput(nil)
	g.RegisterOutput(out)
	require.Len(t, x.Uses(), 3)

	// Unhook the If from the graph return, then destroy it: the uses from
	// inside its branches must be released too.
	out.ReplaceAllUsesWith(x)
	ifNode.Destroy()
	require.Len(t, b.Nodes(), 2) // the Constant and the Greater survive
	assert.Len(t, x.Uses(), 2)   // the Greater use and the graph return
	assert.False(t, cond.HasUses())
}
