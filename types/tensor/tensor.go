// Package tensor implements in-memory literal tensors: the constant payloads
// carried by Constant nodes in jit graphs.
//
// A Tensor is immutable once created. It pairs a shapes.Shape with a flat
// slice of the corresponding Go type. The package also provides the
// element-type services graph rewrites need: dtype conversion of the stored
// values and the arithmetic type-promotion rule.
package tensor

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/emasap/pytorch/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// Tensor holds a constant literal: its shape and a flat slice with its values.
//
// The flat slice is always a slice of the shape's Go element type, of length
// Size(), including for scalars (length 1).
type Tensor struct {
	shape shapes.Shape
	flat  any
}

// FromScalar creates a scalar (rank-0) literal holding the given value.
func FromScalar[T dtypes.Supported](value T) *Tensor {
	return &Tensor{shape: shapes.Scalar[T](), flat: []T{value}}
}

// FromFlatAndDimensions creates a literal from a flat slice with the raw
// values and the dimensions of the shape. A scalar can be given as a plain
// (non-slice) value with no dimensions.
func FromFlatAndDimensions(flat any, dimensions ...int) (*Tensor, error) {
	flatV := reflect.ValueOf(flat)
	if flatV.Kind() != reflect.Slice {
		// Scalar value.
		if len(dimensions) > 0 {
			return nil, errors.Errorf("scalar value %T given with dimensions %v", flat, dimensions)
		}
		dtype := dtypes.FromGoType(flatV.Type())
		if dtype == dtypes.InvalidDType {
			return nil, errors.Errorf("unsupported constant value type %T", flat)
		}
		slice := reflect.MakeSlice(reflect.SliceOf(flatV.Type()), 1, 1)
		slice.Index(0).Set(flatV)
		return &Tensor{shape: shapes.Make(dtype), flat: slice.Interface()}, nil
	}

	dtype := dtypes.FromGoType(flatV.Type().Elem())
	if dtype == dtypes.InvalidDType {
		return nil, errors.Errorf("unsupported constant flat values type %T -- expected a slice of a basic data type", flat)
	}
	for _, dim := range dimensions {
		if dim <= 0 {
			return nil, errors.Errorf("invalid dimension %d in %v, dimensions must be >= 1", dim, dimensions)
		}
	}
	shape := shapes.Make(dtype, dimensions...)
	if shape.Size() != flatV.Len() {
		return nil, errors.Errorf("flat values size %d doesn't match shape size %d (%s)", flatV.Len(), shape.Size(), shape)
	}
	clone := reflect.MakeSlice(flatV.Type(), flatV.Len(), flatV.Len())
	reflect.Copy(clone, flatV)
	return &Tensor{shape: shape, flat: clone.Interface()}, nil
}

// FromAnyValue creates a literal from a Go value: a scalar of a supported
// plain-old-data type or arbitrarily nested regular slices of one.
func FromAnyValue(v any) (*Tensor, error) {
	shape, err := shapes.FromAnyValue(v)
	if err != nil {
		return nil, err
	}
	flatV := reflect.MakeSlice(reflect.SliceOf(shape.DType.GoType()), 0, shape.Size())
	flatV = appendFlat(flatV, reflect.ValueOf(v))
	return &Tensor{shape: shape, flat: flatV.Interface()}, nil
}

func appendFlat(dst, v reflect.Value) reflect.Value {
	if v.Kind() != reflect.Slice {
		return reflect.Append(dst, v)
	}
	for ii := 0; ii < v.Len(); ii++ {
		dst = appendFlat(dst, v.Index(ii))
	}
	return dst
}

// Shape returns the shape of the literal.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// DType returns the element type of the literal.
func (t *Tensor) DType() dtypes.DType { return t.shape.DType }

// Rank returns the number of axes.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// IsScalar returns whether the literal is a scalar (rank-0).
func (t *Tensor) IsScalar() bool { return t.shape.IsScalar() }

// Size returns the number of elements stored.
func (t *Tensor) Size() int { return t.shape.Size() }

// Flat returns the underlying flat slice of values. It must not be modified.
func (t *Tensor) Flat() any { return t.flat }

// Value returns the literal as a Go value: the scalar itself for rank-0
// literals, nested slices otherwise.
func (t *Tensor) Value() any {
	flatV := reflect.ValueOf(t.flat)
	if t.shape.Rank() == 0 {
		return flatV.Index(0).Interface()
	}
	value, _ := nestedFromFlat(flatV, 0, t.shape.Dimensions)
	return value.Interface()
}

// nestedFromFlat rebuilds nested slices of the given dimensions from flat,
// starting at offset. It returns the nested value and the offset after the
// elements consumed.
func nestedFromFlat(flat reflect.Value, offset int, dims []int) (reflect.Value, int) {
	if len(dims) == 0 {
		return flat.Index(offset), offset + 1
	}
	elemType := nestedSliceType(flat.Type().Elem(), len(dims)-1)
	out := reflect.MakeSlice(reflect.SliceOf(elemType), dims[0], dims[0])
	for ii := 0; ii < dims[0]; ii++ {
		var sub reflect.Value
		sub, offset = nestedFromFlat(flat, offset, dims[1:])
		out.Index(ii).Set(sub)
	}
	return out, offset
}

func nestedSliceType(base reflect.Type, levels int) reflect.Type {
	for ; levels > 0; levels-- {
		base = reflect.SliceOf(base)
	}
	return base
}

// Equal returns whether two literals have the same shape and the same values.
func (t *Tensor) Equal(t2 *Tensor) bool {
	if t == nil || t2 == nil {
		return t == t2
	}
	if !t.shape.Equal(t2.shape) {
		return false
	}
	return reflect.DeepEqual(t.flat, t2.flat)
}

// String implements fmt.Stringer. Scalars print as their bare value, small
// literals include their elements, larger ones only their shape.
func (t *Tensor) String() string {
	flatV := reflect.ValueOf(t.flat)
	if t.IsScalar() {
		return fmt.Sprintf("%v", flatV.Index(0).Interface())
	}
	if t.Size() > 16 {
		return t.shape.String()
	}
	parts := make([]string, 0, flatV.Len())
	for ii := 0; ii < flatV.Len(); ii++ {
		parts = append(parts, fmt.Sprintf("%v", flatV.Index(ii).Interface()))
	}
	return fmt.Sprintf("%s{%s}", t.shape, strings.Join(parts, ", "))
}
