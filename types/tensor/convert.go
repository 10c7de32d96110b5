package tensor

import (
	"github.com/emasap/pytorch/internal/utils"
	"github.com/emasap/pytorch/types/shapes"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/pkg/errors"
)

// convertibleDTypes are the element types ConvertDType can produce.
var convertibleDTypes = utils.SetWith(
	dtypes.Bool,
	dtypes.Int8, dtypes.Int16, dtypes.Int32, dtypes.Int64,
	dtypes.Uint8, dtypes.Uint16, dtypes.Uint32, dtypes.Uint64,
	dtypes.Float16, dtypes.BFloat16, dtypes.Float32, dtypes.Float64,
	dtypes.Complex64, dtypes.Complex128,
)

// ConvertDType returns a literal with the same shape and the values converted
// element-wise to dtype. If the dtype already matches it returns t itself.
//
// Conversions follow Go semantics, except: booleans convert to 0 or 1,
// non-zero values convert to true, complex values convert to their real part,
// and the 16-bit float types go through float32.
func (t *Tensor) ConvertDType(dtype dtypes.DType) (*Tensor, error) {
	if dtype == t.DType() {
		return t, nil
	}
	if !convertibleDTypes.Has(dtype) {
		return nil, errors.Errorf("cannot convert literal %s to dtype %s", t.shape, dtype)
	}
	newShape := t.shape.Clone()
	newShape.DType = dtype
	return &Tensor{shape: newShape, flat: shapes.CastAsDType(t.flat, dtype)}, nil
}
