package jit

import (
	"github.com/emasap/pytorch/jit/kinds"
)

// Graph holds a program: a top-level block of nodes plus the numbering for
// the values created in its scope.
//
// Graphs are built incrementally and mutated in place by the passes; they are
// not safe for concurrent use.
type Graph struct {
	block  *Block
	nextID int
}

// NewGraph creates an empty graph: no inputs, no outputs, no nodes.
func NewGraph() *Graph {
	g := &Graph{}
	g.block = g.newBlock(nil)
	return g
}

// Block returns the top-level block of the graph.
func (g *Graph) Block() *Block {
	return g.block
}

// AddInput adds a graph input with the given debug name (may be empty) and
// type annotation (nil for unknown), returning its value.
func (g *Graph) AddInput(name string, typ *TensorType) *Value {
	return g.block.AddInput(name, typ)
}

// Inputs returns the graph inputs.
func (g *Graph) Inputs() []*Value {
	return g.block.Inputs()
}

// RegisterOutput appends v to the graph outputs.
func (g *Graph) RegisterOutput(v *Value) {
	g.block.RegisterOutput(v)
}

// Outputs returns the graph outputs.
func (g *Graph) Outputs() []*Value {
	return g.block.Outputs()
}

// NewNode creates a free-standing node of the given kind, not yet placed in
// any block: place it with Block.AppendNode or Node.InsertBefore, or use
// Block.AddNode to create and place in one go.
//
// By default the node gets one untyped output; numOutputs overrides that,
// zero included.
func (g *Graph) NewNode(kind kinds.NodeKind, numOutputs ...int) *Node {
	n := &Node{graph: g, kind: kind}
	count := 1
	if len(numOutputs) > 0 {
		count = numOutputs[0]
	}
	for i := 0; i < count; i++ {
		n.AddOutput(nil)
	}
	return n
}

func (g *Graph) newBlock(owner *Node) *Block {
	b := &Block{graph: g, owner: owner}
	b.paramNode = g.NewNode(kinds.Param, 0)
	b.returnNode = g.NewNode(kinds.Return, 0)
	return b
}

func (g *Graph) newValue(node *Node, offset int) *Value {
	v := &Value{node: node, offset: offset, id: g.nextID, typ: UnknownTensorType()}
	g.nextID++
	return v
}
