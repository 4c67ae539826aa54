// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package optimizer

import (
	"slices"

	"github.com/uboborov/Synet/network"
)

// mergeSoftmax folds the numerically-stable softmax decomposition
// max -> sub -> exp -> sum -> div into a single Softmax layer.
func (p *pass) mergeSoftmax(src []network.Layer, index *int) bool {
	i := *index
	if i == 0 || len(src) < i+5 {
		return false
	}
	if src[i+0].Type != network.LayerTypeReduction || src[i+0].Reduction.Type != network.ReductionTypeMax ||
		len(src[i+0].Reduction.Axis) != 1 {
		return false
	}
	if src[i+1].Type != network.LayerTypeBinaryOperation || src[i+1].BinaryOperation.Type != network.BinaryOperationSub ||
		src[i+1].Src[0] != src[i+0].Src[0] || src[i+1].Src[1] != src[i+0].Name {
		return false
	}
	if src[i+2].Type != network.LayerTypeUnaryOperation || src[i+2].UnaryOperation.Type != network.UnaryOperationExp ||
		src[i+2].Src[0] != src[i+1].Name {
		return false
	}
	if src[i+3].Type != network.LayerTypeReduction || src[i+3].Reduction.Type != network.ReductionTypeSum ||
		!slices.Equal(src[i+3].Reduction.Axis, src[i+0].Reduction.Axis) || src[i+3].Src[0] != src[i+2].Name {
		return false
	}
	if src[i+4].Type != network.LayerTypeBinaryOperation || src[i+4].BinaryOperation.Type != network.BinaryOperationDiv ||
		src[i+4].Src[0] != src[i+2].Name || src[i+4].Src[1] != src[i+3].Name {
		return false
	}
	if !noOutsideUsers(src, i+5, i, 0, 4) {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypeSoftmax,
		Name: src[i+4].Name,
		Src:  []string{src[i+0].Src[0]},
	}
	layer.Dst = []string{layer.Name}
	layer.Softmax.Axis = src[i+0].Reduction.Axis[0]
	p.merged = append(p.merged, layer)
	*index += 4
	return true
}

// mergeShuffle0 recognizes the six-layer channel shuffle
// Concat -> Reshape -> Permute -> Unpack -> Reshape x2 and emits a
// two-output Shuffle layer of type 0.
func (p *pass) mergeShuffle0(src []network.Layer, index *int) bool {
	i := *index
	if len(src) < i+6 {
		return false
	}
	if src[i+0].Type != network.LayerTypeConcat || len(src[i+0].Src) != 2 {
		return false
	}
	if src[i+1].Type != network.LayerTypeReshape || len(src[i+1].Reshape.Shape) != 3 {
		return false
	}
	if src[i+2].Type != network.LayerTypePermute {
		return false
	}
	if src[i+3].Type != network.LayerTypeUnpack || len(src[i+3].Dst) != 2 {
		return false
	}
	if src[i+4].Type != network.LayerTypeReshape ||
		len(src[i+4].Reshape.Shape)+src[i+4].Reshape.Axis != 4 {
		return false
	}
	if src[i+5].Type != network.LayerTypeReshape ||
		len(src[i+5].Reshape.Shape)+src[i+5].Reshape.Axis != 4 {
		return false
	}
	if insideLink(src, i, 4, 1) {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypeShuffle,
		Name: src[i+0].Name,
		Src:  slices.Clone(src[i+0].Src),
	}
	layer.Shuffle.Type = 0
	layer.Dst = []string{src[i+4].Dst[0], src[i+5].Dst[0]}
	p.merged = append(p.merged, layer)
	*index += 5
	return true
}

// mergeShuffle1 recognizes the five-layer variant ending in the Unpack and
// emits a Shuffle layer of type 1.
func (p *pass) mergeShuffle1(src []network.Layer, index *int) bool {
	i := *index
	if len(src) < i+5 {
		return false
	}
	if src[i+0].Type != network.LayerTypeConcat || len(src[i+0].Src) != 2 {
		return false
	}
	if src[i+1].Type != network.LayerTypeReshape || len(src[i+1].Reshape.Shape) != 4 {
		return false
	}
	if src[i+2].Type != network.LayerTypePermute {
		return false
	}
	if src[i+3].Type != network.LayerTypeReshape || len(src[i+3].Reshape.Shape) != 3 {
		return false
	}
	if src[i+4].Type != network.LayerTypeUnpack || len(src[i+4].Dst) != 2 {
		return false
	}
	if insideLink(src, i, 4, 0) {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypeShuffle,
		Name: src[i+0].Name,
		Src:  slices.Clone(src[i+0].Src),
	}
	layer.Shuffle.Type = 1
	layer.Dst = []string{src[i+4].Dst[0], src[i+4].Dst[1]}
	p.merged = append(p.merged, layer)
	*index += 4
	return true
}

// mergePooling collapses Reshape -> Pool(kx,1) -> Reshape -> Reshape ->
// Pool(ky,1) into a single two-dimensional pooling of kernel (kx, ky).
func (p *pass) mergePooling(src []network.Layer, index *int) bool {
	i := *index
	if len(src) < i+5 {
		return false
	}
	if src[i+0].Type != network.LayerTypeReshape {
		return false
	}
	if src[i+1].Type != network.LayerTypePooling || src[i+1].Src[0] != src[i+0].Name ||
		src[i+1].Pooling.Kernel[1] != 1 {
		return false
	}
	if src[i+2].Type != network.LayerTypeReshape || src[i+2].Src[0] != src[i+1].Name {
		return false
	}
	if src[i+3].Type != network.LayerTypeReshape || src[i+3].Src[0] != src[i+2].Name {
		return false
	}
	if src[i+4].Type != network.LayerTypePooling || src[i+4].Src[0] != src[i+3].Name ||
		src[i+4].Pooling.Kernel[1] != 1 {
		return false
	}
	if insideLink(src, i+1, 4, 0) {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypePooling,
		Name: src[i+4].Name,
		Src:  []string{src[i+0].Src[0]},
	}
	layer.Dst = []string{layer.Name}
	layer.Pooling.Method = src[i+4].Pooling.Method
	layer.Pooling.Kernel = network.Shp(src[i+1].Pooling.Kernel[0], src[i+4].Pooling.Kernel[0])
	layer.Pooling.Pad = slices.Clone(src[i+4].Pooling.Pad)
	layer.Pooling.Stride = slices.Clone(src[i+4].Pooling.Stride)
	layer.Pooling.ExcludePad = src[i+4].Pooling.ExcludePad
	p.merged = append(p.merged, layer)
	*index += 4
	return true
}

// rnnGruBdBodySize is the exact layer count of the bidirectional-GRU step
// the converters emit inside a TensorIterator body.
const rnnGruBdBodySize = 19

// mergeRnnGruBd replaces the 19-layer bidirectional-GRU body of a
// TensorIterator with the two body Inputs and a single RnnGruBd layer
// carrying the two InnerProduct weight pairs.
func (p *pass) mergeRnnGruBd(src []network.Layer, index *int) bool {
	i := *index
	if i == 0 || i+rnnGruBdBodySize >= len(src) {
		return false
	}
	parent := &src[i-1]
	if parent.Type != network.LayerTypeTensorIterator || len(parent.Src) != 2 ||
		len(parent.Dst) != 1 || len(parent.TensorIterator.Back) != 1 {
		return false
	}
	for k := 0; k < rnnGruBdBodySize; k++ {
		if src[i+k].Parent != parent.Name {
			return false
		}
	}
	if src[i+0].Type != network.LayerTypeInput || src[i+1].Type != network.LayerTypeMeta {
		return false
	}
	if src[i+2].Type != network.LayerTypeSqueeze || src[i+3].Type != network.LayerTypeInput {
		return false
	}
	if src[i+4].Type != network.LayerTypeConcat || src[i+5].Type != network.LayerTypeInnerProduct ||
		len(src[i+5].Weight) != 2 {
		return false
	}
	if src[i+6].Type != network.LayerTypeSigmoid || src[i+7].Type != network.LayerTypeUnpack {
		return false
	}
	if src[i+8].Type != network.LayerTypeEltwise || src[i+9].Type != network.LayerTypePower {
		return false
	}
	if src[i+10].Type != network.LayerTypeEltwise || src[i+11].Type != network.LayerTypeConcat {
		return false
	}
	if src[i+12].Type != network.LayerTypeInnerProduct || len(src[i+12].Weight) != 2 ||
		src[i+13].Type != network.LayerTypeUnaryOperation {
		return false
	}
	if src[i+14].Type != network.LayerTypeEltwise || src[i+15].Type != network.LayerTypeEltwise {
		return false
	}
	if src[i+16].Type != network.LayerTypeStub || src[i+17].Type != network.LayerTypeExpandDims ||
		src[i+18].Type != network.LayerTypeStub {
		return false
	}
	if src[i+rnnGruBdBodySize].Parent != "" {
		return false
	}

	p.emit(&src[i+0])
	p.emit(&src[i+3])

	layer := network.Layer{
		Type:   network.LayerTypeRnnGruBd,
		Parent: parent.Name,
		Name:   parent.Name + "_RnnGruBd",
		Src:    []string{src[i+0].Dst[0], src[i+3].Dst[0]},
	}
	layer.Dst = []string{src[i+18].Dst[0], src[i+16].Dst[0]}
	layer.Weight = append(layer.Weight,
		src[i+5].Weight[0], src[i+5].Weight[1],
		src[i+12].Weight[0], src[i+12].Weight[1])
	p.merged = append(p.merged, layer)

	*index += rnnGruBdBodySize - 1
	return true
}
