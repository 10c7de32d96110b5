// Package passes holds graph-to-graph transformations over jit graphs.
//
// Passes mutate the graph in place and are meant to be chained; the ONNX
// export pipeline under passes/onnx composes them after tracing.
package passes

import (
	"slices"

	"github.com/emasap/pytorch/internal/utils"
	"github.com/emasap/pytorch/jit"
)

// SideEffectPolicy tells dead code elimination what to do with nodes that
// have side effects (prim::Print) but contribute to no graph output.
type SideEffectPolicy int

const (
	// KeepNodesWithSideEffects preserves side-effecting nodes, and
	// everything they consume, even when no value they produce is live.
	KeepNodesWithSideEffects SideEffectPolicy = iota

	// DeleteNodesWithSideEffects removes side-effecting nodes like any
	// other dead node. Used on traced graphs bound for export, which have
	// no representation for side effects.
	DeleteNodesWithSideEffects
)

// EliminateDeadCode removes every node of the graph, and recursively of its
// nested blocks, whose outputs are not needed to compute the graph outputs.
// The policy decides whether side-effecting nodes count as needed.
func EliminateDeadCode(g *jit.Graph, policy SideEffectPolicy) {
	EliminateDeadCodeInBlock(g.Block(), policy)
}

// EliminateDeadCodeInBlock is EliminateDeadCode scoped to one block (and its
// nested blocks).
func EliminateDeadCodeInBlock(b *jit.Block, policy SideEffectPolicy) {
	live := utils.MakeSet[*jit.Node]()
	for _, output := range b.Outputs() {
		markLive(output.Node(), live)
	}
	if policy == KeepNodesWithSideEffects {
		for _, n := range b.Nodes() {
			if hasSideEffects(n) {
				markLive(n, live)
			}
		}
	}

	// Sweep in reverse execution order so consumers are destroyed before
	// their producers; nested blocks of the survivors are swept in turn.
	nodes := slices.Clone(b.Nodes())
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if live.Has(n) {
			for _, sub := range n.Blocks() {
				EliminateDeadCodeInBlock(sub, policy)
			}
			continue
		}
		n.Destroy()
	}
}

// markLive marks n and, transitively, the producers of everything it
// consumes: its inputs, and the values its nested blocks yield. The set
// spans block boundaries, values captured from outer blocks mark their outer
// producers.
func markLive(n *jit.Node, live utils.Set[*jit.Node]) {
	if n == nil || live.Has(n) {
		return
	}
	live.Insert(n)
	for _, input := range n.Inputs() {
		markLive(input.Node(), live)
	}
	for _, sub := range n.Blocks() {
		for _, output := range sub.Outputs() {
			markLive(output.Node(), live)
		}
	}
}

// hasSideEffects reports whether the node, or any node nested under it, has
// a side effect.
func hasSideEffects(n *jit.Node) bool {
	if n.Kind().HasSideEffects() {
		return true
	}
	for _, sub := range n.Blocks() {
		for _, inner := range sub.Nodes() {
			if hasSideEffects(inner) {
				return true
			}
		}
	}
	return false
}
