package shapes

import (
	"reflect"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// FromAnyValue returns the shape of a Go value: a scalar of one of the
// supported plain-old-data types (ints, floats, complex, bool), or arbitrarily
// nested regular slices of them.
//
// Example:
//
//	shape, err := shapes.FromAnyValue([][]float64{{0, 0}}) // Returns shape (Float64)[1 2]
func FromAnyValue(v any) (Shape, error) {
	return shapeOfReflect(reflect.ValueOf(v))
}

func shapeOfReflect(v reflect.Value) (Shape, error) {
	if v.Kind() != reflect.Slice {
		// Leaf: must be one of the supported scalar types.
		dtype := dtypes.FromGoType(v.Type())
		if dtype == dtypes.InvalidDType {
			return Invalid(), errors.Errorf("cannot convert type %q to a valid shape (maybe type not supported yet?)", v.Type())
		}
		return Shape{DType: dtype}, nil
	}

	if v.Len() == 0 {
		return Invalid(), errors.Errorf("cannot infer a shape from an empty slice (%s): the inner dimensions would be unknown", v.Type())
	}

	// The first element is the reference, the siblings must match it.
	first, err := shapeOfReflect(v.Index(0))
	if err != nil {
		return Invalid(), err
	}
	for ii := 1; ii < v.Len(); ii++ {
		other, err := shapeOfReflect(v.Index(ii))
		if err != nil {
			return Invalid(), err
		}
		if !first.Equal(other) {
			return Invalid(), errors.Errorf("sub-slices have irregular shapes, found shapes %q and %q", first, other)
		}
	}

	shape := Shape{DType: first.DType, Dimensions: make([]int, 0, first.Rank()+1)}
	shape.Dimensions = append(shape.Dimensions, v.Len())
	shape.Dimensions = append(shape.Dimensions, first.Dimensions...)
	return shape, nil
}
