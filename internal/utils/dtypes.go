package utils

import (
	"github.com/gomlx/gopjrt/dtypes"
)

// DTypeToTorch returns the PyTorch scalar type name for a dtype, the spelling
// used in graph dumps ("Float(2, 3)") and in pass diagnostics.
func DTypeToTorch(dtype dtypes.DType) string {
	switch dtype {
	case dtypes.Float64:
		return "Double"
	case dtypes.Float32:
		return "Float"
	case dtypes.Float16:
		return "Half"
	case dtypes.BFloat16:
		return "BFloat16"
	case dtypes.Int64:
		return "Long"
	case dtypes.Int32:
		return "Int"
	case dtypes.Int16:
		return "Short"
	case dtypes.Int8:
		return "Char"
	case dtypes.Uint64:
		return "UInt64"
	case dtypes.Uint32:
		return "UInt32"
	case dtypes.Uint16:
		return "UInt16"
	case dtypes.Uint8:
		return "Byte"
	case dtypes.Bool:
		return "Bool"
	case dtypes.Complex64:
		return "ComplexFloat"
	case dtypes.Complex128:
		return "ComplexDouble"
	default:
		return dtype.String()
	}
}
