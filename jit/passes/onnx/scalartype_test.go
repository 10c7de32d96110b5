package onnx

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/emasap/pytorch/jit"
	"github.com/emasap/pytorch/jit/kinds"
	"github.com/emasap/pytorch/types/tensor"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func TestElementType(t *testing.T) {
	assert.Equal(t, int64(1), ElementType(dtypes.Float32))
	assert.Equal(t, int64(7), ElementType(dtypes.Int64))
	assert.Equal(t, int64(9), ElementType(dtypes.Bool))
	assert.Equal(t, int64(11), ElementType(dtypes.Float64))
	assert.Equal(t, int64(-1), ElementType(dtypes.BFloat16))
	assert.Equal(t, int64(-1), ElementType(dtypes.Complex64))
}

// A Float tensor plus a Long Python scalar: the scalar constant is rebuilt
// in the tensor's dtype, no cast needed.
func TestScalarTypeAnalysisTensorScalarMix(t *testing.T) {
	g := jit.NewGraph()
	b := g.Block()
	x := g.AddInput("x", jit.RankedTensorType(dtypes.Float32, 2, 3))
	one := jit.ConstantScalar(b, int64(1))
	sum := b.Add(x, one)
	g.RegisterOutput(sum)

	ScalarTypeAnalysis(g)
	got := g.String()
	fmt.Printf("Graph:\n%s\n", got)

	require.Len(t, b.Nodes(), 2)
	constNode := b.Nodes()[0]
	require.Equal(t, kinds.Constant, constNode.Kind())
	assert.Equal(t, dtypes.Float32, constNode.Tensor(jit.AttrValue).DType())
	assert.Same(t, constNode.Output(), sum.Node().Input(1))
	assert.Same(t, x, sum.Node().Input(0))
	assert.Equal(t, dtypes.Float32, sum.Type().DType())
	assert.NotContains(t, got, "onnx::Cast")
	assert.Contains(t, got, "Float() = onnx::Constant[value={1}]()")
}

// Comparing a Float tensor against a Long tensor: Long promotes to Float, so
// the Long operand is cast and the Bool output is untouched.
func TestScalarTypeAnalysisComparison(t *testing.T) {
	g := jit.NewGraph()
	b := g.Block()
	x := g.AddInput("x", jit.RankedTensorType(dtypes.Float32, 4))
	y := g.AddInput("y", jit.RankedTensorType(dtypes.Int64, 4))
	cmp := b.Greater(x, y)
	g.RegisterOutput(cmp)

	ScalarTypeAnalysis(g)
	got := g.String()

	require.Len(t, b.Nodes(), 2)
	castNode := b.Nodes()[0]
	require.Equal(t, kinds.Cast, castNode.Kind())
	code, ok := castNode.Int(jit.AttrTo)
	require.True(t, ok)
	assert.Equal(t, int64(1), code)
	assert.Same(t, y, castNode.Input(0))
	assert.Equal(t, "Float(4)", castNode.Output().Type().String())
	assert.Equal(t, dtypes.Bool, cmp.Type().DType())
	assert.Contains(t, got, "onnx::Cast[to=1](%y)")
}

// Comparing a Float tensor against a Double Python scalar: comparisons
// promote over scalars and tensors alike, so the tensor operand is cast up
// to Double, the constant is rebuilt and the Bool output is untouched.
func TestScalarTypeAnalysisComparisonScalarConstant(t *testing.T) {
	g := jit.NewGraph()
	b := g.Block()
	x := g.AddInput("x", jit.RankedTensorType(dtypes.Float32, 4))
	threshold := jit.ConstantScalar(b, 1.5)
	cmp := b.Greater(x, threshold)
	g.RegisterOutput(cmp)

	ScalarTypeAnalysis(g)
	got := g.String()
	fmt.Printf("Graph:\n%s\n", got)

	require.Len(t, b.Nodes(), 3)
	castNode := cmp.Node().Input(0).Node()
	require.Equal(t, kinds.Cast, castNode.Kind())
	assert.Equal(t, "Double(4)", castNode.Output().Type().String())
	assert.Contains(t, got, "onnx::Cast[to=11](%x)")
	assert.Contains(t, got, "Double() = onnx::Constant[value={1.5}]()")
	assert.Equal(t, "Bool(4)", cmp.Type().String())
}

// When every operand is a scalar the promoted dtype wins: Long + Double
// promotes to Double.
func TestScalarTypeAnalysisAllScalars(t *testing.T) {
	g := jit.NewGraph()
	b := g.Block()
	two := jit.ConstantScalar(b, int64(2))
	half := jit.ConstantScalar(b, 0.5)
	sum := b.Add(two, half)
	g.RegisterOutput(sum)

	ScalarTypeAnalysis(g)
	got := g.String()
	fmt.Printf("Graph:\n%s\n", got)

	require.Len(t, b.Nodes(), 3)
	for _, n := range b.Nodes()[:2] {
		require.Equal(t, kinds.Constant, n.Kind())
		assert.Equal(t, dtypes.Float64, n.Tensor(jit.AttrValue).DType())
	}
	assert.Equal(t, dtypes.Float64, sum.Type().DType())
	assert.Contains(t, got, "Double() = onnx::Constant[value={2}]()")
	assert.Contains(t, got, "Double() = onnx::Constant[value={0.5}]()")
	assert.NotContains(t, got, "onnx::Cast")
}

// Constant literals count as scalar sources regardless of rank, so a pair of
// literals promotes together even when one of them is a vector.
func TestScalarTypeAnalysisVectorConstant(t *testing.T) {
	g := jit.NewGraph()
	b := g.Block()
	six := jit.ConstantScalar(b, float32(6))
	divisors := b.Constant(must.M1(tensor.FromFlatAndDimensions([]int64{2, 3}, 2)))
	quot := b.Div(six, divisors)
	g.RegisterOutput(quot)

	ScalarTypeAnalysis(g)
	got := g.String()
	fmt.Printf("Graph:\n%s\n", got)

	require.Len(t, b.Nodes(), 3)
	assert.Contains(t, got, "%3 : Float() = onnx::Constant[value={6}]()")
	assert.Contains(t, got, "%4 : Float(2) = onnx::Constant[value=(Float32)[2]{2, 3}]()")
	assert.Contains(t, got, "%2 : Float(*) = onnx::Div(%3, %4)")
	assert.Equal(t, dtypes.Float32, quot.Type().DType())
	assert.NotContains(t, got, "onnx::Cast")
}

// A dimension size selected with Gather out of onnx::Shape counts as a Long
// scalar even though the Gather output carries no annotation.
func TestScalarTypeAnalysisShapeGather(t *testing.T) {
	g := jit.NewGraph()
	b := g.Block()
	x := g.AddInput("x", jit.RankedTensorType(dtypes.Float32, 2, 3))
	size := b.Gather(b.Shape(x), jit.ConstantScalar(b, int64(0)), 0)
	half := jit.ConstantScalar(b, 0.5)
	sum := b.Add(size, half)
	g.RegisterOutput(sum)

	ScalarTypeAnalysis(g)
	got := g.String()
	fmt.Printf("Graph:\n%s\n", got)

	// Long + Double promotes to Double; the Gather operand has no
	// annotation and is left alone, only the 0.5 constant is rebuilt.
	require.Len(t, b.Nodes(), 5)
	assert.Same(t, size, sum.Node().Input(0))
	assert.Equal(t, dtypes.Float64, sum.Type().DType())
	assert.NotContains(t, got, "onnx::Cast")
	assert.Contains(t, got, "Double() = onnx::Constant[value={0.5}]()")
}

// An annotated output dtype overrides the operand dtypes when the operands
// are not all scalars.
func TestScalarTypeAnalysisOutputWins(t *testing.T) {
	g := jit.NewGraph()
	b := g.Block()
	x := g.AddInput("x", jit.RankedTensorType(dtypes.Float32, 4))
	one := jit.ConstantScalar(b, int64(1))
	sum := b.Add(x, one)
	sum.SetType(jit.UnrankedTensorType(dtypes.Float64))
	g.RegisterOutput(sum)

	ScalarTypeAnalysis(g)
	got := g.String()

	require.Len(t, b.Nodes(), 3)
	assert.Contains(t, got, "onnx::Cast[to=11](%x)")
	assert.Contains(t, got, "Double() = onnx::Constant[value={1}]()")
	assert.Equal(t, "Double(*)", sum.Type().String())
}

// captureWarnings redirects klog output into a buffer for the duration of
// the test, so the pass's diagnostics can be asserted on.
func captureWarnings(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	klog.LogToStderr(false)
	klog.SetOutput(&buf)
	t.Cleanup(func() { klog.LogToStderr(true) })
	return &buf
}

// Dtypes without an ONNX element type cannot be cast to: operands are left
// alone with a warning, only the output annotation is stamped.
func TestScalarTypeAnalysisUnsupportedDType(t *testing.T) {
	logs := captureWarnings(t)
	g := jit.NewGraph()
	b := g.Block()
	x := g.AddInput("x", jit.RankedTensorType(dtypes.BFloat16, 4))
	one := jit.ConstantScalar(b, int64(1))
	sum := b.Add(x, one)
	g.RegisterOutput(sum)

	ScalarTypeAnalysis(g)
	klog.Flush()
	got := g.String()

	require.Len(t, b.Nodes(), 2)
	constNode := b.Nodes()[0]
	require.Equal(t, kinds.Constant, constNode.Kind())
	assert.Equal(t, dtypes.Int64, constNode.Tensor(jit.AttrValue).DType())
	assert.Equal(t, dtypes.BFloat16, sum.Type().DType())
	assert.NotContains(t, got, "onnx::Cast")
	assert.Contains(t, logs.String(),
		"cannot cast the inputs of a onnx::Add node: BFloat16 has no ONNX element type")
}

// Operators outside the arithmetic and comparison sets are never rewritten,
// whatever their operand dtypes.
func TestScalarTypeAnalysisLeavesOtherOpsAlone(t *testing.T) {
	g := jit.NewGraph()
	b := g.Block()
	x := g.AddInput("x", jit.RankedTensorType(dtypes.Float32, 4))
	y := g.AddInput("y", jit.RankedTensorType(dtypes.Int64, 4))
	joined := b.Concat(0, x, y)
	g.RegisterOutput(joined)
	g.RegisterOutput(b.Relu(x))

	ScalarTypeAnalysis(g)

	require.Len(t, b.Nodes(), 2)
	assert.Equal(t, "Tensor", joined.Type().String())
	assert.NotContains(t, g.String(), "onnx::Cast")
}

// Nodes inside If branches are rewritten too, before the owning node is
// considered.
func TestScalarTypeAnalysisNestedBlocks(t *testing.T) {
	g := jit.NewGraph()
	b := g.Block()
	cond := g.AddInput("cond", jit.RankedTensorType(dtypes.Bool))
	x := g.AddInput("x", jit.RankedTensorType(dtypes.Float32, 2, 3))
	ifNode := b.If(cond)
	thenBlock, elseBlock := ifNode.Blocks()[0], ifNode.Blocks()[1]
	sum := thenBlock.Add(x, jit.ConstantScalar(thenBlock, int64(1)))
	thenBlock.RegisterOutput(sum)
	elseBlock.RegisterOutput(elseBlock.Identity(x))
	g.RegisterOutput(ifNode.AddOutput(nil))

	ScalarTypeAnalysis(g)
	got := g.String()
	fmt.Printf("Graph:\n%s\n", got)

	require.Len(t, thenBlock.Nodes(), 2)
	constNode := thenBlock.Nodes()[0]
	require.Equal(t, kinds.Constant, constNode.Kind())
	assert.Equal(t, dtypes.Float32, constNode.Tensor(jit.AttrValue).DType())
	assert.Equal(t, dtypes.Float32, sum.Type().DType())
	assert.Contains(t, got, "block0():")
}

// Running the pass twice must not stack casts on casts: the first run's
// annotations satisfy the second run.
func TestScalarTypeAnalysisIdempotent(t *testing.T) {
	g := jit.NewGraph()
	b := g.Block()
	x := g.AddInput("x", jit.RankedTensorType(dtypes.Float32, 4))
	y := g.AddInput("y", jit.RankedTensorType(dtypes.Int64, 4))
	g.RegisterOutput(b.Greater(x, y))

	ScalarTypeAnalysis(g)
	require.Len(t, b.Nodes(), 2)
	ScalarTypeAnalysis(g)
	require.Len(t, b.Nodes(), 2)
	assert.Equal(t, 1, strings.Count(g.String(), "onnx::Cast"))
}

// A Constant without a value payload contributes no dtype and is never
// rebuilt.
func TestScalarTypeAnalysisConstantWithoutValue(t *testing.T) {
	g := jit.NewGraph()
	b := g.Block()
	x := g.AddInput("x", jit.RankedTensorType(dtypes.Float32, 4))
	badConst := b.AddNode(kinds.Constant)
	sum := b.Add(x, badConst.Output())
	g.RegisterOutput(sum)

	ScalarTypeAnalysis(g)

	require.Len(t, b.Nodes(), 2)
	assert.Same(t, badConst.Output(), sum.Node().Input(1))
	assert.Equal(t, dtypes.Float32, sum.Type().DType())
}

// Byte + Char scalars promote to Short, reaching past both operand dtypes.
func TestScalarTypeAnalysisBytePlusChar(t *testing.T) {
	g := jit.NewGraph()
	b := g.Block()
	sum := b.Add(jit.ConstantScalar(b, uint8(200)), jit.ConstantScalar(b, int8(-5)))
	g.RegisterOutput(sum)

	ScalarTypeAnalysis(g)
	got := g.String()

	require.Len(t, b.Nodes(), 3)
	for _, n := range b.Nodes()[:2] {
		require.Equal(t, kinds.Constant, n.Kind())
		assert.Equal(t, dtypes.Int16, n.Tensor(jit.AttrValue).DType())
	}
	assert.Equal(t, dtypes.Int16, sum.Type().DType())
	assert.Contains(t, got, "Short() = onnx::Constant[value={200}]()")
	assert.Contains(t, got, "Short() = onnx::Constant[value={-5}]()")
}

// Mixed annotated tensor dtypes fall back to the first one with a warning,
// casting the others.
func TestScalarTypeAnalysisMixedTensors(t *testing.T) {
	logs := captureWarnings(t)
	g := jit.NewGraph()
	b := g.Block()
	x := g.AddInput("x", jit.RankedTensorType(dtypes.Float32, 4, 8))
	w := g.AddInput("w", jit.RankedTensorType(dtypes.Float32, 8, 16))
	bias := g.AddInput("bias", jit.RankedTensorType(dtypes.Int64, 16))
	g.RegisterOutput(b.Gemm(x, w, bias, 1.0, 1.0))

	ScalarTypeAnalysis(g)
	klog.Flush()
	got := g.String()

	require.Len(t, b.Nodes(), 2)
	castNode := b.Nodes()[0]
	require.Equal(t, kinds.Cast, castNode.Kind())
	assert.Same(t, bias, castNode.Input(0))
	assert.Contains(t, got, "onnx::Cast[to=1](%bias)")
	assert.Contains(t, got, "onnx::Gemm[alpha=1, beta=1](%x, %w, %")
	assert.Contains(t, logs.String(),
		"inputs of onnx::Gemm node mix element types Float and Long, assuming Float")
}

// An input with no dtype information at all is left untouched, while the
// annotated tensor still decides the output dtype.
func TestScalarTypeAnalysisUnknownInput(t *testing.T) {
	g := jit.NewGraph()
	b := g.Block()
	x := g.AddInput("x", jit.UnknownTensorType())
	y := g.AddInput("y", jit.RankedTensorType(dtypes.Float32, 3))
	diff := b.Sub(x, y)
	g.RegisterOutput(diff)

	ScalarTypeAnalysis(g)
	got := g.String()
	fmt.Printf("Graph:\n%s\n", got)

	require.Len(t, b.Nodes(), 1)
	assert.NotContains(t, got, "onnx::Cast")
	assert.Equal(t, dtypes.InvalidDType, x.Type().DType())
	assert.Equal(t, dtypes.Float32, diff.Type().DType())
	assert.Contains(t, got, "%2 : Float(*) = onnx::Sub(%x, %y)")
}

// The full shape-arithmetic pattern: x.size(0) + 1 stays Long, and feeding
// the Long result into Float tensor arithmetic casts it.
func TestScalarTypeAnalysisSizeArithmetic(t *testing.T) {
	g := jit.NewGraph()
	b := g.Block()
	x := g.AddInput("x", jit.RankedTensorType(dtypes.Float32, 2, 3))
	size := b.Gather(b.Shape(x), jit.ConstantScalar(b, int64(0)), 0)
	sum := b.Add(size, jit.ConstantScalar(b, int64(1)))
	prod := b.Mul(x, sum)
	g.RegisterOutput(prod)

	ScalarTypeAnalysis(g)
	got := g.String()
	fmt.Printf("Graph:\n%s\n", got)

	require.Len(t, b.Nodes(), 7)
	assert.Equal(t, dtypes.Int64, sum.Type().DType())
	assert.Equal(t, dtypes.Float32, prod.Type().DType())
	assert.Contains(t, got, "Long() = onnx::Constant[value={1}]()")
	assert.Contains(t, got, "onnx::Cast[to=1](%")
	castNode := prod.Node().Input(1).Node()
	require.Equal(t, kinds.Cast, castNode.Kind())
	assert.Same(t, sum, castNode.Input(0))
}
