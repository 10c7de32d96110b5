package jit

import (
	"slices"
	"strconv"

	"github.com/emasap/pytorch/internal/utils"
	"github.com/gomlx/exceptions"
)

// Value represents a value flowing through a graph, like `%0` or `%x`: one
// output of a node (block parameters are outputs of the block's hidden
// prim::Param node) with an optional debug name and a type annotation.
type Value struct {
	node   *Node
	offset int
	id     int
	name   string
	typ    *TensorType
	uses   []Use
}

// Use records one consumer of a value: the user node and which of its input
// slots holds the value. A node consuming the same value twice contributes
// two uses.
type Use struct {
	User  *Node
	Index int
}

// Node returns the node that produces this value.
func (v *Value) Node() *Node {
	return v.node
}

// Offset returns which of the producer's outputs this value is.
func (v *Value) Offset() int {
	return v.offset
}

// Type returns the tensor annotation of the value. It is never nil: values
// start out with the unknown annotation.
func (v *Value) Type() *TensorType {
	return v.typ
}

// SetType replaces the tensor annotation. A nil typ resets it to unknown.
// It returns the value to allow chaining.
func (v *Value) SetType(typ *TensorType) *Value {
	if typ == nil {
		typ = UnknownTensorType()
	}
	v.typ = typ
	return v
}

// SetName gives the value a debug name, normalized with
// NormalizeIdentifier. An empty name reverts to the numeric form. It returns
// the value to allow chaining.
func (v *Value) SetName(name string) *Value {
	if name != "" {
		name = utils.NormalizeIdentifier(name)
	}
	v.name = name
	return v
}

// Name returns the debug name if one was set, and the value's unique number
// otherwise.
func (v *Value) Name() string {
	if v.name != "" {
		return v.name
	}
	return strconv.Itoa(v.id)
}

// Uses returns the current consumers of the value. The slice is owned by the
// value and must not be modified; it changes as the graph is mutated.
func (v *Value) Uses() []Use {
	return v.uses
}

// HasUses returns whether any node consumes the value.
func (v *Value) HasUses() bool {
	return len(v.uses) > 0
}

// ReplaceAllUsesWith rewires every consumer of v to consume newV instead.
// The producer of v keeps v as its output.
func (v *Value) ReplaceAllUsesWith(newV *Value) {
	if newV == v {
		return
	}
	for len(v.uses) > 0 {
		use := v.uses[len(v.uses)-1]
		use.User.ReplaceInput(use.Index, newV)
	}
}

// String implements fmt.Stringer the way values appear in graph dumps:
// "%x" for named values, "%3" otherwise.
func (v *Value) String() string {
	return "%" + v.Name()
}

func (v *Value) addUse(user *Node, index int) {
	v.uses = append(v.uses, Use{User: user, Index: index})
}

func (v *Value) removeUse(user *Node, index int) {
	for i, use := range v.uses {
		if use.User == user && use.Index == index {
			v.uses = slices.Delete(v.uses, i, i+1)
			return
		}
	}
	exceptions.Panicf("value %s has no use by input #%d of a %s node to remove",
		v, index, user.Kind().QualString())
}
