// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package network

// LayerType is the closed tag set of operations a Layer may carry.
//
// The converters produce layers of these types from foreign model formats;
// the optimizer recognizes fixed sequences of them and rewrites the sequence
// into the fused types (Fused, MergedConvolution, Shuffle, SqueezeExcitation,
// RnnGruBd, ...).
type LayerType int

//go:generate go tool enumer -type=LayerType -trimprefix=LayerType -json -text -output=gen_layertype_enumer.go layertype.go

const (
	LayerTypeUnknown LayerType = iota
	LayerTypeBatchNorm
	LayerTypeBias
	LayerTypeBinaryOperation
	LayerTypeConcat
	LayerTypeConst
	LayerTypeConvolution
	LayerTypeDeconvolution
	LayerTypeDetectionOutput
	LayerTypeEltwise
	LayerTypeElu
	LayerTypeExpandDims
	LayerTypeFused
	LayerTypeHswish
	LayerTypeInnerProduct
	LayerTypeInput
	LayerTypeMergedConvolution
	LayerTypeMeta
	LayerTypeMish
	LayerTypePermute
	LayerTypePooling
	LayerTypePower
	LayerTypePrelu
	LayerTypePriorBox
	LayerTypePriorBoxClustered
	LayerTypeReduction
	LayerTypeRelu
	LayerTypeReshape
	LayerTypeRestrictRange
	LayerTypeRnnGruBd
	LayerTypeScale
	LayerTypeShuffle
	LayerTypeSigmoid
	LayerTypeSoftmax
	LayerTypeSoftplus
	LayerTypeSqueeze
	LayerTypeSqueezeExcitation
	LayerTypeStub
	LayerTypeTensorIterator
	LayerTypeTile
	LayerTypeUnaryOperation
	LayerTypeUnpack
)
