package jit

import (
	"bytes"
	"slices"
	"strings"

	"github.com/emasap/pytorch/jit/kinds"
	"github.com/emasap/pytorch/types/tensor"
	"github.com/gomlx/exceptions"
)

// Names of the attributes used by the operators in this package.
const (
	AttrValue = "value" // Constant payload, a *tensor.Tensor.
	AttrTo    = "to"    // Cast target, an ONNX TensorProto element-type code.
	AttrAxis  = "axis"  // Gather and Concat axis.
	AttrAxes  = "axes"  // Unsqueeze and Squeeze axes.
	AttrAlpha = "alpha" // Gemm multiplier for the x*y product.
	AttrBeta  = "beta"  // Gemm multiplier for the bias.
)

// Node is a single operation in a Block: an operator kind, input Values,
// output Values, named attributes, and optionally nested Blocks for control
// flow.
//
// Nodes created with Graph.NewNode are free-standing until placed with
// Block.AppendNode or Node.InsertBefore; Block.AddNode combines creation and
// placement.
type Node struct {
	graph *Graph
	block *Block
	kind  kinds.NodeKind

	inputs  []*Value
	outputs []*Value
	blocks  []*Block

	attributes map[string]any
}

// Kind returns the operator kind of the node.
func (n *Node) Kind() kinds.NodeKind {
	return n.kind
}

// Graph returns the graph that owns the node, nil after Destroy.
func (n *Node) Graph() *Graph {
	return n.graph
}

// Block returns the block the node is placed in, nil while free-standing or
// after Destroy.
func (n *Node) Block() *Block {
	return n.block
}

// Inputs returns the input values, in order. The slice is owned by the node
// and must not be modified directly; use AddInput and ReplaceInput.
func (n *Node) Inputs() []*Value {
	return n.inputs
}

// NumInputs returns the number of inputs.
func (n *Node) NumInputs() int {
	return len(n.inputs)
}

// Input returns the i-th input value.
func (n *Node) Input(i int) *Value {
	return n.inputs[i]
}

// Outputs returns the output values, in order. The slice is owned by the
// node and must not be modified directly; use AddOutput.
func (n *Node) Outputs() []*Value {
	return n.outputs
}

// NumOutputs returns the number of outputs.
func (n *Node) NumOutputs() int {
	return len(n.outputs)
}

// Output returns the single output of the node. It panics if the node does
// not have exactly one output.
func (n *Node) Output() *Value {
	if len(n.outputs) != 1 {
		exceptions.Panicf("%s node has %d outputs, Node.Output requires exactly one",
			n.kind.QualString(), len(n.outputs))
	}
	return n.outputs[0]
}

// AddOutput appends a new output value with the given type annotation (nil
// for unknown) and returns it.
func (n *Node) AddOutput(typ *TensorType) *Value {
	v := n.graph.newValue(n, len(n.outputs))
	v.SetType(typ)
	n.outputs = append(n.outputs, v)
	return v
}

// AddInput appends v to the node's inputs, recording the use. It returns the
// node to allow chaining.
func (n *Node) AddInput(v *Value) *Node {
	n.assertSameGraph(v)
	v.addUse(n, len(n.inputs))
	n.inputs = append(n.inputs, v)
	return n
}

// ReplaceInput replaces the i-th input with newV, updating the use lists of
// both the old and the new value.
func (n *Node) ReplaceInput(i int, newV *Value) {
	n.assertSameGraph(newV)
	n.inputs[i].removeUse(n, i)
	newV.addUse(n, i)
	n.inputs[i] = newV
}

// ReplaceInputWith replaces every occurrence of old among the node's inputs
// with newV.
func (n *Node) ReplaceInputWith(old, newV *Value) {
	for i, input := range n.inputs {
		if input == old {
			n.ReplaceInput(i, newV)
		}
	}
}

// Blocks returns the nested blocks of the node, nil for plain operators.
func (n *Node) Blocks() []*Block {
	return n.blocks
}

// AddBlock creates a new nested block owned by the node and returns it.
func (n *Node) AddBlock() *Block {
	b := n.graph.newBlock(n)
	n.blocks = append(n.blocks, b)
	return b
}

// InsertBefore places the node immediately before other, in other's block.
// The node must be free-standing (created with Graph.NewNode and not yet
// placed). It returns the node to allow chaining.
func (n *Node) InsertBefore(other *Node) *Node {
	if n.block != nil {
		exceptions.Panicf("%s node is already placed in a block", n.kind.QualString())
	}
	if other.block == nil {
		exceptions.Panicf("cannot insert before a free-standing %s node", other.kind.QualString())
	}
	other.block.insertBefore(n, other)
	return n
}

// Destroy removes the node from its block and severs all its edges: input
// uses are dropped and nested blocks are destroyed with it. It panics if any
// output still has uses; callers replace or drop those first.
func (n *Node) Destroy() {
	for _, output := range n.outputs {
		if output.HasUses() {
			exceptions.Panicf("cannot destroy %s node: output %s still has %d uses",
				n.kind.QualString(), output, len(output.uses))
		}
	}
	for _, b := range n.blocks {
		b.destroy()
	}
	n.blocks = nil
	n.removeAllInputs()
	if n.block != nil {
		n.block.remove(n)
		n.block = nil
	}
	n.graph = nil
}

// SetInt sets an integer attribute. It returns the node to allow chaining.
func (n *Node) SetInt(name string, value int64) *Node {
	n.setAttr(name, value)
	return n
}

// Int returns an integer attribute and whether it was set.
func (n *Node) Int(name string) (int64, bool) {
	value, ok := n.attributes[name].(int64)
	return value, ok
}

// SetInts sets an integer-list attribute. It returns the node to allow
// chaining.
func (n *Node) SetInts(name string, values ...int64) *Node {
	n.setAttr(name, slices.Clone(values))
	return n
}

// Ints returns an integer-list attribute, nil if it was not set.
func (n *Node) Ints(name string) []int64 {
	values, _ := n.attributes[name].([]int64)
	return values
}

// SetFloat sets a float attribute. It returns the node to allow chaining.
func (n *Node) SetFloat(name string, value float64) *Node {
	n.setAttr(name, value)
	return n
}

// Float returns a float attribute and whether it was set.
func (n *Node) Float(name string) (float64, bool) {
	value, ok := n.attributes[name].(float64)
	return value, ok
}

// SetTensor sets a tensor literal attribute. It returns the node to allow
// chaining.
func (n *Node) SetTensor(name string, t *tensor.Tensor) *Node {
	n.setAttr(name, t)
	return n
}

// Tensor returns a tensor literal attribute, nil if it was not set.
func (n *Node) Tensor(name string) *tensor.Tensor {
	t, _ := n.attributes[name].(*tensor.Tensor)
	return t
}

// HasAttr returns whether the named attribute is set.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.attributes[name]
	return ok
}

// AttrNames returns the names of the set attributes, sorted.
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.attributes))
	for name := range n.attributes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// String renders the node (and its nested blocks) the way it appears in a
// graph dump.
func (n *Node) String() string {
	var buf bytes.Buffer
	_ = writeNode(&buf, n, "")
	return strings.TrimSuffix(buf.String(), "\n")
}

func (n *Node) setAttr(name string, value any) {
	if n.attributes == nil {
		n.attributes = make(map[string]any, 1)
	}
	n.attributes[name] = value
}

func (n *Node) removeAllInputs() {
	for i, input := range n.inputs {
		input.removeUse(n, i)
	}
	n.inputs = nil
}

func (n *Node) assertSameGraph(v *Value) {
	if v.node == nil || v.node.graph != n.graph {
		exceptions.Panicf("value %s does not belong to the same graph as the %s node",
			v, n.kind.QualString())
	}
}
