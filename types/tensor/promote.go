package tensor

import (
	"github.com/gomlx/gopjrt/dtypes"
)

// Short aliases to keep the promotion table readable.
const (
	u1 = dtypes.Uint8
	i1 = dtypes.Int8
	i2 = dtypes.Int16
	i4 = dtypes.Int32
	i8 = dtypes.Int64
	f2 = dtypes.Float16
	f4 = dtypes.Float32
	f8 = dtypes.Float64
	b1 = dtypes.Bool
)

// promoteIndex maps a dtype to its row/column in promoteTable.
var promoteIndex = map[dtypes.DType]int{
	u1: 0, i1: 1, i2: 2, i4: 3, i8: 4, f2: 5, f4: 6, f8: 7, b1: 8,
}

// promoteTable is PyTorch's eager-mode type promotion lattice, restricted to
// the types with an ONNX representation. Notably Uint8 and Int8 promote to
// Int16, and Bool promotes to the other operand's type.
var promoteTable = [9][9]dtypes.DType{
	{u1, i2, i2, i4, i8, f2, f4, f8, u1}, // u1
	{i2, i1, i2, i4, i8, f2, f4, f8, i1}, // i1
	{i2, i2, i2, i4, i8, f2, f4, f8, i2}, // i2
	{i4, i4, i4, i4, i8, f2, f4, f8, i4}, // i4
	{i8, i8, i8, i8, i8, f2, f4, f8, i8}, // i8
	{f2, f2, f2, f2, f2, f2, f4, f8, f2}, // f2
	{f4, f4, f4, f4, f4, f4, f4, f8, f4}, // f4
	{f8, f8, f8, f8, f8, f8, f8, f8, f8}, // f8
	{u1, i1, i2, i4, i8, f2, f4, f8, b1}, // b1
}

// PromoteTypes returns the dtype an arithmetic operation mixing the two dtypes
// promotes to, following PyTorch's eager-mode promotion semantics. It returns
// InvalidDType when either dtype is outside the set with an ONNX
// representation.
func PromoteTypes(a, b dtypes.DType) dtypes.DType {
	ia, ok := promoteIndex[a]
	if !ok {
		return dtypes.InvalidDType
	}
	ib, ok := promoteIndex[b]
	if !ok {
		return dtypes.InvalidDType
	}
	return promoteTable[ia][ib]
}
