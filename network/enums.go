// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package network

// TensorFormat specifies the memory layout of a weight tensor.
type TensorFormat int

const (
	TensorFormatUnknown TensorFormat = iota

	// TensorFormatNchw keeps the channel axis second: [batch, channels, height, width].
	TensorFormatNchw

	// TensorFormatNhwc keeps the channel axis last: [batch, height, width, channels].
	TensorFormatNhwc
)

// String returns the name of the format.
func (f TensorFormat) String() string {
	switch f {
	case TensorFormatNchw:
		return "Nchw"
	case TensorFormatNhwc:
		return "Nhwc"
	default:
		return "unknown"
	}
}

// TensorType is the element type of a tensor referenced by a weight descriptor.
type TensorType int

const (
	TensorTypeUnknown TensorType = iota
	TensorType32f
	TensorType32i
	TensorType8i
	TensorType8u
	TensorType16f
)

// Size returns the element size in bytes, or 0 for TensorTypeUnknown.
func (t TensorType) Size() int64 {
	switch t {
	case TensorType32f, TensorType32i:
		return 4
	case TensorType8i, TensorType8u:
		return 1
	case TensorType16f:
		return 2
	default:
		return 0
	}
}

// String returns the name of the element type.
func (t TensorType) String() string {
	switch t {
	case TensorType32f:
		return "32f"
	case TensorType32i:
		return "32i"
	case TensorType8i:
		return "8i"
	case TensorType8u:
		return "8u"
	case TensorType16f:
		return "16f"
	default:
		return "unknown"
	}
}

// QuantizationMethod selects how calibration ranges are mapped to 8-bit codes.
type QuantizationMethod int

const (
	// QuantizationMethodUnknown disables the int8 path altogether.
	QuantizationMethodUnknown QuantizationMethod = iota

	// QuantizationMethodIECompatible uses the full asymmetric uint8 range [0, 255]
	// with weights in [-127, 127]. Signed inputs require the 16-bit accumulator
	// overflow workaround during weight quantization.
	QuantizationMethodIECompatible

	// QuantizationMethodSymmetricNarrowed narrows sources to [0, 180] and weights
	// to [-90, 90] so that products always fit a 16-bit accumulator.
	QuantizationMethodSymmetricNarrowed
)

// String returns the name of the method.
func (m QuantizationMethod) String() string {
	switch m {
	case QuantizationMethodIECompatible:
		return "IECompatible"
	case QuantizationMethodSymmetricNarrowed:
		return "SymmetricNarrowed"
	default:
		return "unknown"
	}
}

// ActivationFunction is the activation fused into a Convolution, Deconvolution
// or MergedConvolution layer.
type ActivationFunction int

const (
	ActivationFunctionIdentity ActivationFunction = iota
	ActivationFunctionRelu
	ActivationFunctionLeakyRelu
	ActivationFunctionRestrictRange
	ActivationFunctionPrelu
	ActivationFunctionElu
	ActivationFunctionHswish
	ActivationFunctionMish
)

// String returns the name of the activation.
func (a ActivationFunction) String() string {
	switch a {
	case ActivationFunctionIdentity:
		return "Identity"
	case ActivationFunctionRelu:
		return "Relu"
	case ActivationFunctionLeakyRelu:
		return "LeakyRelu"
	case ActivationFunctionRestrictRange:
		return "RestrictRange"
	case ActivationFunctionPrelu:
		return "Prelu"
	case ActivationFunctionElu:
		return "Elu"
	case ActivationFunctionHswish:
		return "Hswish"
	case ActivationFunctionMish:
		return "Mish"
	default:
		return "unknown"
	}
}

// EltwiseOperation is the elementwise combinator of an Eltwise layer.
type EltwiseOperation int

const (
	EltwiseOperationProduct EltwiseOperation = iota
	EltwiseOperationSum
	EltwiseOperationMax
	EltwiseOperationMin
)

// String returns the name of the operation.
func (e EltwiseOperation) String() string {
	switch e {
	case EltwiseOperationProduct:
		return "Product"
	case EltwiseOperationSum:
		return "Sum"
	case EltwiseOperationMax:
		return "Max"
	case EltwiseOperationMin:
		return "Min"
	default:
		return "unknown"
	}
}

// UnaryOperation is the pointwise function of a UnaryOperation layer.
type UnaryOperation int

const (
	UnaryOperationAbs UnaryOperation = iota
	UnaryOperationExp
	UnaryOperationLog
	UnaryOperationNeg
	UnaryOperationTanh
	UnaryOperationSqrt
)

// String returns the name of the operation.
func (u UnaryOperation) String() string {
	switch u {
	case UnaryOperationAbs:
		return "Abs"
	case UnaryOperationExp:
		return "Exp"
	case UnaryOperationLog:
		return "Log"
	case UnaryOperationNeg:
		return "Neg"
	case UnaryOperationTanh:
		return "Tanh"
	case UnaryOperationSqrt:
		return "Sqrt"
	default:
		return "unknown"
	}
}

// BinaryOperation is the pairwise function of a BinaryOperation layer.
type BinaryOperation int

const (
	BinaryOperationSub BinaryOperation = iota
	BinaryOperationDiv
	BinaryOperationAdd
	BinaryOperationMul
)

// String returns the name of the operation.
func (b BinaryOperation) String() string {
	switch b {
	case BinaryOperationSub:
		return "Sub"
	case BinaryOperationDiv:
		return "Div"
	case BinaryOperationAdd:
		return "Add"
	case BinaryOperationMul:
		return "Mul"
	default:
		return "unknown"
	}
}

// ReductionType is the reduction of a Reduction layer.
type ReductionType int

const (
	ReductionTypeMax ReductionType = iota
	ReductionTypeSum
	ReductionTypeMin
	ReductionTypeMean
)

// String returns the name of the reduction.
func (r ReductionType) String() string {
	switch r {
	case ReductionTypeMax:
		return "Max"
	case ReductionTypeSum:
		return "Sum"
	case ReductionTypeMin:
		return "Min"
	case ReductionTypeMean:
		return "Mean"
	default:
		return "unknown"
	}
}

// PoolingMethod is the pooling operator of a Pooling layer.
type PoolingMethod int

const (
	PoolingMethodMax PoolingMethod = iota
	PoolingMethodAverage
)

// String returns the name of the method.
func (p PoolingMethod) String() string {
	switch p {
	case PoolingMethodMax:
		return "Max"
	case PoolingMethodAverage:
		return "Average"
	default:
		return "unknown"
	}
}
