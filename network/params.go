// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package network

import "encoding/json"

// ConvolutionParam configures Convolution and Deconvolution layers, and each
// branch of a MergedConvolution.
type ConvolutionParam struct {
	OutputNum         int                `json:"outputNum,omitzero"`
	Kernel            Shape              `json:"kernel,omitzero"`
	Stride            Shape              `json:"stride,omitzero"`
	Dilation          Shape              `json:"dilation,omitzero"`
	Pad               Shape              `json:"pad,omitzero"`
	Group             int                `json:"group,omitzero"`
	BiasTerm          bool               `json:"biasTerm,omitzero"`
	ActivationType    ActivationFunction `json:"activationType,omitzero"`
	ActivationParam0  float32            `json:"activationParam0,omitzero"`
	ActivationParam1  float32            `json:"activationParam1,omitzero"`
	QuantizationLevel TensorType         `json:"quantizationLevel,omitzero"`
}

// InnerProductParam configures an InnerProduct (fully connected) layer.
type InnerProductParam struct {
	OutputNum  int  `json:"outputNum,omitzero"`
	Axis       int  `json:"axis,omitzero"`
	BiasTerm   bool `json:"biasTerm,omitzero"`
	TransposeB bool `json:"transposeB,omitzero"`
}

// ScaleParam configures a per-channel Scale layer.
type ScaleParam struct {
	Axis     int  `json:"axis,omitzero"`
	BiasTerm bool `json:"biasTerm,omitzero"`
}

// PowerParam configures a Power layer: y = (scale*x + shift)^power.
// Power and Scale default to 1 when absent from the serialized form.
type PowerParam struct {
	Power float32 `json:"power"`
	Scale float32 `json:"scale"`
	Shift float32 `json:"shift,omitzero"`
}

// UnmarshalJSON fills the neutral defaults before decoding.
func (p *PowerParam) UnmarshalJSON(data []byte) error {
	p.Power, p.Scale = 1, 1
	type plain PowerParam
	return json.Unmarshal(data, (*plain)(p))
}

// ReluParam configures a Relu layer; a non-zero NegativeSlope makes it leaky.
type ReluParam struct {
	NegativeSlope float32 `json:"negativeSlope,omitzero"`
}

// EluParam configures an Elu layer.
type EluParam struct {
	Alpha float32 `json:"alpha,omitzero"`
}

// HswishParam configures a fused Hswish layer: y = x * clamp(x+shift, 0, 2*shift) * scale.
type HswishParam struct {
	Shift float32 `json:"shift,omitzero"`
	Scale float32 `json:"scale,omitzero"`
}

// SoftplusParam configures a Softplus layer; Threshold also parameterizes the
// Mish activation when fused into a convolution.
type SoftplusParam struct {
	Beta      float32 `json:"beta,omitzero"`
	Threshold float32 `json:"threshold,omitzero"`
}

// PreluParam configures a Prelu layer; slopes live in the layer weights.
type PreluParam struct {
	Axis int `json:"axis,omitzero"`
}

// RestrictRangeParam clamps the input to [Lower, Upper].
type RestrictRangeParam struct {
	Lower float32 `json:"lower,omitzero"`
	Upper float32 `json:"upper,omitzero"`
}

// EltwiseParam configures an Eltwise layer.
type EltwiseParam struct {
	Operation    EltwiseOperation `json:"operation,omitzero"`
	Coefficients []float32        `json:"coefficients,omitzero"`
}

// ReductionParam configures a Reduction layer.
type ReductionParam struct {
	Type ReductionType `json:"type,omitzero"`
	Axis []int         `json:"axis,omitzero"`
}

// BinaryOperationParam configures a BinaryOperation layer.
type BinaryOperationParam struct {
	Type BinaryOperation `json:"type,omitzero"`
}

// UnaryOperationParam configures a UnaryOperation layer.
type UnaryOperationParam struct {
	Type UnaryOperation `json:"type,omitzero"`
}

// ConcatParam configures a Concat layer.
type ConcatParam struct {
	Axis int `json:"axis,omitzero"`
}

// ReshapeParam configures a Reshape layer.
type ReshapeParam struct {
	Shape Shape `json:"shape,omitzero"`
	Axis  int   `json:"axis,omitzero"`
}

// PermuteParam configures a Permute layer.
type PermuteParam struct {
	Order Shape `json:"order,omitzero"`
}

// PoolingParam configures a Pooling layer.
type PoolingParam struct {
	Method     PoolingMethod `json:"method,omitzero"`
	Kernel     Shape         `json:"kernel,omitzero"`
	Stride     Shape         `json:"stride,omitzero"`
	Pad        Shape         `json:"pad,omitzero"`
	ExcludePad bool          `json:"excludePad,omitzero"`
}

// SoftmaxParam configures a Softmax layer.
type SoftmaxParam struct {
	Axis int `json:"axis,omitzero"`
}

// ShuffleParam configures a channel-shuffle layer. Type discriminates the two
// canonical reshape/permute decompositions the optimizer recognizes.
type ShuffleParam struct {
	Type int `json:"type,omitzero"`
}

// FusedParam configures a Fused layer. Type selects one of the twelve fused
// activation templates; Floats carries the template's scalar parameters.
type FusedParam struct {
	Type   int       `json:"type,omitzero"`
	Floats []float32 `json:"floats,omitzero"`
}

// BatchNormParam configures a BatchNorm layer.
type BatchNormParam struct {
	Eps            float32 `json:"eps,omitzero"`
	UseGlobalStats bool    `json:"useGlobalStats,omitzero"`
	YoloCompatible bool    `json:"yoloCompatible,omitzero"`
}

// MergedConvolutionParam holds the per-branch convolution parameters of a
// fused two- or three-convolution block. Add requests the residual sum of the
// block input into the output.
type MergedConvolutionParam struct {
	Conv []ConvolutionParam `json:"conv,omitzero"`
	Add  bool               `json:"add,omitzero"`
}

// Connection is one port binding of a TensorIterator: it routes the
// iterator's outer tensor Src to the body tensor Dst (or back again).
// Axis -1 marks a loop-invariant connection; any other value is the axis the
// iterator slices along.
type Connection struct {
	Src  string `json:"src,omitzero"`
	Dst  string `json:"dst,omitzero"`
	Port int    `json:"port,omitzero"`
	Axis int    `json:"axis"`
}

// UnmarshalJSON defaults Axis to -1 (loop-invariant) before decoding.
func (c *Connection) UnmarshalJSON(data []byte) error {
	c.Axis = -1
	type plain Connection
	return json.Unmarshal(data, (*plain)(c))
}

// TensorIteratorParam configures a TensorIterator layer. The body layers are
// the subsequent layers whose Parent names this iterator.
type TensorIteratorParam struct {
	Input  []Connection `json:"input,omitzero"`
	Output []Connection `json:"output,omitzero"`
	Back   []Connection `json:"back,omitzero"`
}
