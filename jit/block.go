package jit

import (
	"slices"

	"github.com/emasap/pytorch/jit/kinds"
	"github.com/gomlx/exceptions"
)

// Block is an ordered sequence of nodes. The top-level block of a Graph holds
// the whole program; nodes like If and Loop own nested blocks for their
// branches and bodies.
//
// A block's inputs are produced by a hidden prim::Param node and its outputs
// are the inputs of a hidden prim::Return node, so both participate in the
// def-use bookkeeping like any other edge.
type Block struct {
	graph      *Graph
	owner      *Node
	paramNode  *Node
	returnNode *Node
	nodes      []*Node
}

// Graph returns the graph that owns the block.
func (b *Block) Graph() *Graph {
	return b.graph
}

// Owner returns the node this block is nested under, nil for the top-level
// block of a graph.
func (b *Block) Owner() *Node {
	return b.owner
}

// Nodes returns the nodes in execution order, not including the hidden
// prim::Param and prim::Return nodes. The slice is owned by the block:
// callers mutating the block while iterating should iterate over a copy.
func (b *Block) Nodes() []*Node {
	return b.nodes
}

// AddInput adds a block parameter with the given debug name (may be empty)
// and type annotation (nil for unknown), returning its value.
func (b *Block) AddInput(name string, typ *TensorType) *Value {
	v := b.paramNode.AddOutput(typ)
	v.SetName(name)
	return v
}

// Inputs returns the block parameters.
func (b *Block) Inputs() []*Value {
	return b.paramNode.outputs
}

// RegisterOutput appends v to the values the block yields.
func (b *Block) RegisterOutput(v *Value) {
	b.returnNode.AddInput(v)
}

// Outputs returns the values the block yields.
func (b *Block) Outputs() []*Value {
	return b.returnNode.inputs
}

// AddNode creates a node of the given kind, with one untyped output and the
// given inputs, appends it to the end of the block and returns it.
func (b *Block) AddNode(kind kinds.NodeKind, inputs ...*Value) *Node {
	n := b.graph.NewNode(kind)
	for _, input := range inputs {
		n.AddInput(input)
	}
	b.append(n)
	return n
}

// AppendNode places a free-standing node (created with Graph.NewNode) at the
// end of the block. It returns the node to allow chaining.
func (b *Block) AppendNode(n *Node) *Node {
	if n.block != nil {
		exceptions.Panicf("%s node is already placed in a block", n.kind.QualString())
	}
	b.append(n)
	return n
}

func (b *Block) append(n *Node) {
	n.block = b
	b.nodes = append(b.nodes, n)
}

func (b *Block) insertBefore(n, before *Node) {
	for i, node := range b.nodes {
		if node == before {
			n.block = b
			b.nodes = slices.Insert(b.nodes, i, n)
			return
		}
	}
	exceptions.Panicf("%s node is not in the block, cannot insert before it",
		before.kind.QualString())
}

func (b *Block) remove(n *Node) {
	for i, node := range b.nodes {
		if node == n {
			b.nodes = slices.Delete(b.nodes, i, i+1)
			return
		}
	}
	exceptions.Panicf("%s node is not in the block it claims to be in", n.kind.QualString())
}

// destroy tears down the block: the return uses are severed first so the
// node outputs become free, then the nodes are destroyed in reverse order.
func (b *Block) destroy() {
	b.returnNode.removeAllInputs()
	for len(b.nodes) > 0 {
		b.nodes[len(b.nodes)-1].Destroy()
	}
	b.paramNode.Destroy()
	b.returnNode.Destroy()
}
