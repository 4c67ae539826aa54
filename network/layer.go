// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

// Package network defines the layer-graph description of a model: typed
// layers, their parameter records, weight descriptors into the packed weight
// blob, and the network container the optimizer rewrites.
package network

import (
	"encoding/json"
	"slices"
)

// Shape is a list of tensor dimensions.
type Shape []int

// Shp builds a Shape from the given dimensions.
func Shp(dims ...int) Shape {
	return Shape(dims)
}

// Equal reports whether two shapes have the same rank and dimensions.
func (s Shape) Equal(other Shape) bool {
	return slices.Equal(s, other)
}

// Volume returns the product of all dimensions (1 for an empty shape).
func (s Shape) Volume() int64 {
	v := int64(1)
	for _, d := range s {
		v *= int64(d)
	}
	return v
}

// Weight describes one weight tensor of a layer as a slice of the shared
// weight blob: [Offset, Offset+Size) bytes, interpreted as Dim elements of
// Type in the given Format. Descriptors may alias only when they describe the
// same tensor.
type Weight struct {
	Dim    Shape        `json:"dim,omitzero"`
	Format TensorFormat `json:"format,omitzero"`
	Type   TensorType   `json:"type,omitzero"`
	Offset int64        `json:"offset,omitzero"`
	Size   int64        `json:"size,omitzero"`
}

// Layer is one node of the graph. Src names the outputs of earlier layers in
// the same Parent scope; Dst names this layer's outputs (usually just Name).
// The parameter records are value-typed; only the record matching Type is
// meaningful.
type Layer struct {
	Name   string    `json:"name"`
	Type   LayerType `json:"type"`
	Src    []string  `json:"src,omitzero"`
	Dst    []string  `json:"dst,omitzero"`
	Parent string    `json:"parent,omitzero"`

	// Origin keeps the names of pre-fusion ancestors whose per-tensor
	// calibration statistics are still needed after the rewrite.
	Origin []string `json:"origin,omitzero"`

	Weight []Weight `json:"weight,omitzero"`

	Convolution       ConvolutionParam       `json:"convolution,omitzero"`
	InnerProduct      InnerProductParam      `json:"innerProduct,omitzero"`
	Scale             ScaleParam             `json:"scale,omitzero"`
	Power             PowerParam             `json:"power,omitzero"`
	Relu              ReluParam              `json:"relu,omitzero"`
	Elu               EluParam               `json:"elu,omitzero"`
	Hswish            HswishParam            `json:"hswish,omitzero"`
	Softplus          SoftplusParam          `json:"softplus,omitzero"`
	Prelu             PreluParam             `json:"prelu,omitzero"`
	RestrictRange     RestrictRangeParam     `json:"restrictRange,omitzero"`
	Eltwise           EltwiseParam           `json:"eltwise,omitzero"`
	Reduction         ReductionParam         `json:"reduction,omitzero"`
	BinaryOperation   BinaryOperationParam   `json:"binaryOperation,omitzero"`
	UnaryOperation    UnaryOperationParam    `json:"unaryOperation,omitzero"`
	Concat            ConcatParam            `json:"concat,omitzero"`
	Reshape           ReshapeParam           `json:"reshape,omitzero"`
	Permute           PermuteParam           `json:"permute,omitzero"`
	Pooling           PoolingParam           `json:"pooling,omitzero"`
	Softmax           SoftmaxParam           `json:"softmax,omitzero"`
	Shuffle           ShuffleParam           `json:"shuffle,omitzero"`
	Fused             FusedParam             `json:"fused,omitzero"`
	BatchNorm         BatchNormParam         `json:"batchNorm,omitzero"`
	MergedConvolution MergedConvolutionParam `json:"mergedConvolution,omitzero"`
	TensorIterator    TensorIteratorParam    `json:"tensorIterator,omitzero"`
}

// UnmarshalJSON fills the non-zero parameter defaults (Power and Scale of a
// Power layer, Elu alpha, Softplus beta/threshold, BatchNorm eps) before
// decoding, so that omitted records behave like their neutral form.
func (l *Layer) UnmarshalJSON(data []byte) error {
	l.Power = PowerParam{Power: 1, Scale: 1}
	l.Elu = EluParam{Alpha: 1}
	l.Softplus = SoftplusParam{Beta: 1, Threshold: 20}
	l.BatchNorm = BatchNormParam{Eps: 1e-5}
	type plain Layer
	return json.Unmarshal(data, (*plain)(l))
}

// Clone returns a deep copy of the layer. Parameter records are value-typed,
// so only the slices need explicit copying.
func (l *Layer) Clone() Layer {
	c := *l
	c.Src = slices.Clone(l.Src)
	c.Dst = slices.Clone(l.Dst)
	c.Origin = slices.Clone(l.Origin)
	c.Weight = slices.Clone(l.Weight)
	for i := range c.Weight {
		c.Weight[i].Dim = slices.Clone(l.Weight[i].Dim)
	}
	c.Eltwise.Coefficients = slices.Clone(l.Eltwise.Coefficients)
	c.Reduction.Axis = slices.Clone(l.Reduction.Axis)
	c.Fused.Floats = slices.Clone(l.Fused.Floats)
	c.Reshape.Shape = slices.Clone(l.Reshape.Shape)
	c.MergedConvolution.Conv = slices.Clone(l.MergedConvolution.Conv)
	c.TensorIterator.Input = slices.Clone(l.TensorIterator.Input)
	c.TensorIterator.Output = slices.Clone(l.TensorIterator.Output)
	c.TensorIterator.Back = slices.Clone(l.TensorIterator.Back)
	return c
}
