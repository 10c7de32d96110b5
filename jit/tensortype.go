package jit

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/emasap/pytorch/internal/utils"
	"github.com/emasap/pytorch/types/tensor"
	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
)

// TensorType annotates a Value with what is known about the tensor it will
// hold at runtime: an optional element type (dtype) and optional dimensions.
//
// Both halves are independent: a traced graph may know only the element type,
// only the dimensions, or neither. The zero of knowledge is
// UnknownTensorType, which prints as "Tensor".
//
// TensorType values are immutable: WithDType and the constructors return new
// ones, so they can be freely shared across values.
type TensorType struct {
	dtype      dtypes.DType
	dimensions []int
	ranked     bool
}

// UnknownTensorType returns the annotation of a tensor nothing is known
// about.
func UnknownTensorType() *TensorType {
	return &TensorType{dtype: dtypes.InvalidDType}
}

// UnrankedTensorType returns an annotation with a known element type but
// unknown dimensions. It prints as "Float(*)".
func UnrankedTensorType(dtype dtypes.DType) *TensorType {
	return &TensorType{dtype: dtype}
}

// RankedTensorType returns an annotation with known dimensions, scalar if
// none are given. dtype may be InvalidDType when only the dimensions are
// known. It panics if any dimension is smaller than 1.
func RankedTensorType(dtype dtypes.DType, dimensions ...int) *TensorType {
	for _, dim := range dimensions {
		if dim <= 0 {
			exceptions.Panicf("jit.RankedTensorType(%s, %v): dimensions must be >= 1", dtype, dimensions)
		}
	}
	return &TensorType{dtype: dtype, dimensions: slices.Clone(dimensions), ranked: true}
}

// TensorTypeOf returns the annotation matching a concrete literal: its dtype
// and exact dimensions.
func TensorTypeOf(t *tensor.Tensor) *TensorType {
	return &TensorType{dtype: t.DType(), dimensions: slices.Clone(t.Shape().Dimensions), ranked: true}
}

// DType returns the annotated element type, or InvalidDType when it is not
// known.
func (t *TensorType) DType() dtypes.DType {
	return t.dtype
}

// Ranked returns whether the dimensions are known.
func (t *TensorType) Ranked() bool {
	return t.ranked
}

// Dimensions returns the annotated dimensions, nil for unranked annotations.
// The returned slice must not be modified.
func (t *TensorType) Dimensions() []int {
	return t.dimensions
}

// WithDType returns a new annotation with the element type replaced and the
// dimensions (or their absence) kept.
func (t *TensorType) WithDType(dtype dtypes.DType) *TensorType {
	return &TensorType{dtype: dtype, dimensions: t.dimensions, ranked: t.ranked}
}

// Equal compares element type, rankedness and dimensions.
func (t *TensorType) Equal(other *TensorType) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.dtype == other.dtype && t.ranked == other.ranked &&
		slices.Equal(t.dimensions, other.dimensions)
}

// String implements fmt.Stringer using PyTorch's spelling of the dtype:
// "Float(2, 3)" for a ranked annotation, "Float()" for a scalar, "Float(*)"
// when only the dtype is known, "Tensor(2, 3)" when only the dimensions are,
// and plain "Tensor" when nothing is.
func (t *TensorType) String() string {
	name := "Tensor"
	if t.dtype != dtypes.InvalidDType {
		name = utils.DTypeToTorch(t.dtype)
	}
	if !t.ranked {
		if t.dtype == dtypes.InvalidDType {
			return name
		}
		return name + "(*)"
	}
	dims := make([]string, len(t.dimensions))
	for i, dim := range t.dimensions {
		dims[i] = strconv.Itoa(dim)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(dims, ", "))
}
