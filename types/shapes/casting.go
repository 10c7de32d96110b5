package shapes

import (
	"reflect"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/x448/float16"
)

var float64Type = reflect.TypeOf(float64(0))

// CastAsDType casts a numeric value to the Go type corresponding to the given
// dtype. If the value is a slice (or nested slices) it converts to a newly
// allocated slice of the given DType.
//
// Bool elements cast to 0 or 1, and any non-zero element casts to true.
// Conversions to or from float16, bfloat16 and the complex types go through
// float32/float64, since Go has no direct conversion for those.
func CastAsDType(value any, dtype dtypes.DType) any {
	typeOf := reflect.TypeOf(value)
	valueOf := reflect.ValueOf(value)
	if typeOf.Kind() != reflect.Slice && typeOf.Kind() != reflect.Array {
		return castScalar(valueOf, dtype)
	}

	newTypeOf := typeForSliceDType(typeOf, dtype)
	newValueOf := reflect.MakeSlice(newTypeOf, valueOf.Len(), valueOf.Len())
	for ii := 0; ii < valueOf.Len(); ii++ {
		elem := CastAsDType(valueOf.Index(ii).Interface(), dtype)
		newValueOf.Index(ii).Set(reflect.ValueOf(elem))
	}
	return newValueOf.Interface()
}

func typeForSliceDType(valueType reflect.Type, dtype dtypes.DType) reflect.Type {
	if valueType.Kind() != reflect.Slice && valueType.Kind() != reflect.Array {
		return dtype.GoType()
	}
	subType := typeForSliceDType(valueType.Elem(), dtype)
	return reflect.SliceOf(subType)
}

func castScalar(valueOf reflect.Value, dtype dtypes.DType) any {
	// First normalize sources Go cannot convert directly.
	switch v := valueOf.Interface().(type) {
	case bool:
		var x int
		if v {
			x = 1
		}
		valueOf = reflect.ValueOf(x)
	case float16.Float16:
		valueOf = reflect.ValueOf(v.Float32())
	case bfloat16.BFloat16:
		valueOf = reflect.ValueOf(v.Float32())
	case complex64:
		if !dtype.IsComplex() {
			valueOf = reflect.ValueOf(real(v))
		}
	case complex128:
		if !dtype.IsComplex() {
			valueOf = reflect.ValueOf(real(v))
		}
	}

	switch dtype {
	case dtypes.Bool:
		return !valueOf.IsZero()
	case dtypes.Float16:
		return float16.Fromfloat32(float32(valueOf.Convert(float64Type).Float()))
	case dtypes.BFloat16:
		return bfloat16.FromFloat32(float32(valueOf.Convert(float64Type).Float()))
	case dtypes.Complex64:
		switch c := valueOf.Interface().(type) {
		case complex64:
			return c
		case complex128:
			return complex64(c)
		}
		return complex64(complex(valueOf.Convert(float64Type).Float(), 0))
	case dtypes.Complex128:
		switch c := valueOf.Interface().(type) {
		case complex64:
			return complex128(c)
		case complex128:
			return c
		}
		return complex(valueOf.Convert(float64Type).Float(), 0)
	default:
		return valueOf.Convert(dtype.GoType()).Interface()
	}
}
