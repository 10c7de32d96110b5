package jit

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/emasap/pytorch/types/tensor"
)

// indentationStep is the indentation added at each block nesting level of a
// graph dump.
const indentationStep = "  "

// Write renders the graph in torch-style text form to the given writer:
//
//	graph(%x : Float(2, 3),
//	      %y : Long(2, 3)):
//	  %2 : Float(2, 3) = onnx::Cast[to=1](%y)
//	  %3 : Float(2, 3) = onnx::Add(%x, %2)
//	  return (%3)
//
// It writes incomplete graphs (no outputs registered yet, say) without
// complaining, to help debugging.
func (g *Graph) Write(writer io.Writer) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			// No op if an error was encountered earlier.
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}

	w("graph(")
	for i, input := range g.Inputs() {
		if i > 0 {
			w(",\n      ")
		}
		w("%s : %s", input, input.Type())
	}
	w("):\n")
	if err != nil {
		return err
	}
	for _, n := range g.block.nodes {
		if err = writeNode(writer, n, indentationStep); err != nil {
			return err
		}
	}
	w("%sreturn (%s)\n", indentationStep, valueList(g.Outputs()))
	return err
}

// String renders the graph as Write does. Rendering never fails on an
// in-memory buffer.
func (g *Graph) String() string {
	var buf bytes.Buffer
	_ = g.Write(&buf)
	return buf.String()
}

// writeNode renders one node line, followed by its nested blocks (if any),
// one extra indentation level each.
func writeNode(writer io.Writer, n *Node, indentation string) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			// No op if an error was encountered earlier.
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}

	w("%s", indentation)
	if len(n.outputs) > 0 {
		for i, output := range n.outputs {
			if i > 0 {
				w(", ")
			}
			w("%s : %s", output, output.Type())
		}
		w(" = ")
	}
	w("%s", n.kind.QualString())
	if names := n.AttrNames(); len(names) > 0 {
		w("[")
		for i, name := range names {
			if i > 0 {
				w(", ")
			}
			w("%s=%s", name, attrToString(n.attributes[name]))
		}
		w("]")
	}
	w("(%s)\n", valueList(n.inputs))
	if err != nil {
		return err
	}

	for blockIdx, sub := range n.blocks {
		blockIndentation := indentation + indentationStep
		w("%sblock%d(", blockIndentation, blockIdx)
		for i, input := range sub.Inputs() {
			if i > 0 {
				w(", ")
			}
			w("%s : %s", input, input.Type())
		}
		w("):\n")
		if err != nil {
			return err
		}
		for _, inner := range sub.nodes {
			if err = writeNode(writer, inner, blockIndentation+indentationStep); err != nil {
				return err
			}
		}
		w("%s%s-> (%s)\n", blockIndentation, indentationStep, valueList(sub.Outputs()))
	}
	return err
}

// valueList renders values separated by commas, as in "%x, %2, %y".
func valueList(values []*Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// attrToString renders one attribute value: scalar literals print in braces
// ("value={0}"), shaped literals with their full form, integer lists in
// brackets ("axes=[0, 1]").
func attrToString(attr any) string {
	switch v := attr.(type) {
	case *tensor.Tensor:
		if v.IsScalar() {
			return fmt.Sprintf("{%s}", v)
		}
		return v.String()
	case []int64:
		parts := make([]string, len(v))
		for i, value := range v {
			parts[i] = strconv.FormatInt(value, 10)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
