// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package optimizer

import (
	"slices"

	"github.com/uboborov/Synet/network"
)

// absorbMergedActivation writes the activation layer act into the last
// branch of an already-emitted MergedConvolution. Returns false when act is
// not a recognized activation.
func absorbMergedActivation(out *network.Layer, act *network.Layer) bool {
	conv := &out.MergedConvolution.Conv[len(out.MergedConvolution.Conv)-1]
	switch act.Type {
	case network.LayerTypeRestrictRange:
		conv.ActivationType = network.ActivationFunctionRestrictRange
		conv.ActivationParam0 = act.RestrictRange.Lower
		conv.ActivationParam1 = act.RestrictRange.Upper
	case network.LayerTypeRelu:
		if act.Relu.NegativeSlope == 0 {
			conv.ActivationType = network.ActivationFunctionRelu
		} else {
			conv.ActivationType = network.ActivationFunctionLeakyRelu
		}
		conv.ActivationParam0 = act.Relu.NegativeSlope
	case network.LayerTypePrelu:
		conv.ActivationType = network.ActivationFunctionPrelu
		out.Weight = append(out.Weight, act.Weight[0])
	case network.LayerTypeElu:
		conv.ActivationType = network.ActivationFunctionElu
		conv.ActivationParam0 = act.Elu.Alpha
	case network.LayerTypeHswish:
		conv.ActivationType = network.ActivationFunctionHswish
		conv.ActivationParam0 = act.Hswish.Shift
		conv.ActivationParam1 = act.Hswish.Scale
	case network.LayerTypeMish:
		conv.ActivationType = network.ActivationFunctionMish
		conv.ActivationParam0 = act.Softplus.Threshold
	default:
		return false
	}
	return true
}

// mergeThreeConvolutions fuses the pointwise -> depthwise -> pointwise
// bottleneck into one MergedConvolution. A trailing identity Eltwise sum
// with the block input is absorbed as a residual (Add), after which a
// further activation can be absorbed too. The fusion steps aside when a
// neighboring depthwise would make a better two-convolution pair.
func (p *pass) mergeThreeConvolutions(src []network.Layer, index *int) bool {
	i := *index
	if len(src) < i+3 || (p.method != network.QuantizationMethodUnknown && !p.opt.options.MergeInt8Convolutions) {
		return false
	}
	l0 := &src[i+0]
	k0 := l0.Convolution.Kernel
	l1 := &src[i+1]
	k1 := l1.Convolution.Kernel
	l2 := &src[i+2]
	k2 := l2.Convolution.Kernel
	if l0.Type != network.LayerTypeConvolution || l1.Type != network.LayerTypeConvolution ||
		l2.Type != network.LayerTypeConvolution || l1.Src[0] != l0.Dst[0] || l2.Src[0] != l1.Dst[0] {
		return false
	}
	if l0.Weight[0].Format != network.TensorFormatNhwc {
		return false
	}
	if len(k0) < 2 || k0[0] != k0[1] || (k0[0] != 1 && k0[0] != 3) {
		return false
	}
	if l1.Convolution.OutputNum != l1.Convolution.Group {
		return false
	}
	if len(k1) < 2 || k1[0] != k1[1] || (k1[0] != 3 && k1[0] != 5 && k1[0] != 7) {
		return false
	}
	if len(k2) < 2 || k2[0] != 1 || k2[1] != 1 {
		return false
	}
	if insideLink(src, i, 3, 0) {
		return false
	}
	if float64(l1.Convolution.OutputNum) < float64(l2.Convolution.OutputNum)*0.75 && l2.Convolution.OutputNum > 256 {
		return false
	}
	if i > 0 && p.opt.options.MergeTwoConvolutions {
		ln := &src[i-1]
		if ln.Type == network.LayerTypeConvolution && l0.Src[0] == ln.Dst[0] &&
			ln.Convolution.OutputNum == ln.Convolution.Group && !insideLink(src, i-1, 4, 0) &&
			l2.Convolution.OutputNum >= l1.Convolution.OutputNum {
			return false
		}
	}
	if len(src) > i+3 && p.opt.options.MergeTwoConvolutions {
		l3 := &src[i+3]
		if l3.Type == network.LayerTypeConvolution && l3.Src[0] == l2.Dst[0] &&
			l3.Convolution.OutputNum == l3.Convolution.Group && !insideLink(src, i, 4, 0) &&
			l2.Convolution.OutputNum >= l1.Convolution.OutputNum {
			return false
		}
	}
	layer := network.Layer{
		Type: network.LayerTypeMergedConvolution,
		Name: l2.Name,
		Src:  slices.Clone(l0.Src),
	}
	layer.Dst = []string{layer.Name}
	for l := 0; l < 3; l++ {
		layer.Weight = append(layer.Weight, src[i+l].Weight...)
	}
	layer.MergedConvolution.Conv = []network.ConvolutionParam{
		l0.Convolution, l1.Convolution, l2.Convolution,
	}
	if layer.MergedConvolution.Conv[0].QuantizationLevel == network.TensorType8i ||
		layer.MergedConvolution.Conv[2].QuantizationLevel == network.TensorType8i {
		layer.Origin = append(layer.Origin, l0.Name, l1.Name)
	}
	*index += 2
	p.merged = append(p.merged, layer)
	if len(src) > *index+1 && p.method == network.QuantizationMethodUnknown {
		l3 := &src[*index+1]
		if l2.Convolution.ActivationType == network.ActivationFunctionIdentity &&
			l3.Type == network.LayerTypeEltwise && l3.Eltwise.Operation == network.EltwiseOperationSum &&
			len(l3.Eltwise.Coefficients) == 0 && len(l3.Src) == 2 &&
			l3.Src[0] == l0.Src[0] && l3.Src[1] == l2.Dst[0] && !insideLink(src, *index-2, 4, 0) {
			out := p.last()
			out.MergedConvolution.Add = true
			out.Name = l3.Name
			out.Dst[0] = out.Name
			*index++
			if len(src) > *index+1 {
				l4 := &src[*index+1]
				if len(l4.Src) == 1 && l4.Src[0] == l3.Name && !insideLink(src, *index-3, 5, 0) {
					if absorbMergedActivation(out, l4) {
						out.Name = l4.Name
						out.Dst[0] = out.Name
						*index++
					}
				}
			}
		}
	}
	return true
}

// mergeTwoConvolutions fuses {1x1 dense -> kxk depthwise} or
// {kxk depthwise -> 1x1 dense} into a MergedConvolution, bounded by the
// configured output channel count.
func (p *pass) mergeTwoConvolutions(src []network.Layer, index *int) bool {
	i := *index
	if len(src) < i+2 || !p.opt.options.MergeTwoConvolutions ||
		(p.method != network.QuantizationMethodUnknown && !p.opt.options.MergeInt8Convolutions) {
		return false
	}
	l0 := &src[i+0]
	k0 := l0.Convolution.Kernel
	l1 := &src[i+1]
	k1 := l1.Convolution.Kernel
	if l0.Type != network.LayerTypeConvolution || l1.Type != network.LayerTypeConvolution ||
		l1.Src[0] != l0.Dst[0] {
		return false
	}
	if l0.Weight[0].Format != network.TensorFormatNhwc {
		return false
	}
	if insideLink(src, i, 2, 0) {
		return false
	}
	outputNumMax := p.opt.options.MergeTwoConvolutionsOutputNumMax
	if l0.Convolution.OutputNum > outputNumMax && l1.Convolution.OutputNum > outputNumMax {
		return false
	}
	if l0.Convolution.Group != 1 {
		if l0.Convolution.OutputNum != l0.Convolution.Group {
			return false
		}
		if len(k0) < 2 || k0[0] != k0[1] || (k0[0] != 3 && k0[0] != 5 && k0[0] != 7) {
			return false
		}
		if len(k1) < 2 || k1[0] != k1[1] || k1[0] != 1 {
			return false
		}
	} else {
		if len(k0) < 2 || k0[0] != k0[1] || (k0[0] != 1 && k0[0] != 3) {
			return false
		}
		if l1.Convolution.OutputNum != l1.Convolution.Group {
			return false
		}
		if len(k1) < 2 || k1[0] != k1[1] || (k1[0] != 3 && k1[0] != 5 && k1[0] != 7) {
			return false
		}
	}
	layer := network.Layer{
		Type: network.LayerTypeMergedConvolution,
		Name: l1.Name,
		Src:  slices.Clone(l0.Src),
	}
	layer.Dst = []string{layer.Name}
	for l := 0; l < 2; l++ {
		layer.Weight = append(layer.Weight, src[i+l].Weight...)
	}
	layer.MergedConvolution.Conv = []network.ConvolutionParam{l0.Convolution, l1.Convolution}
	if layer.MergedConvolution.Conv[0].QuantizationLevel == network.TensorType8i ||
		layer.MergedConvolution.Conv[1].QuantizationLevel == network.TensorType8i {
		layer.Origin = append(layer.Origin, l0.Name)
	}
	*index += 1
	p.merged = append(p.merged, layer)
	return true
}

// mergeSqueezeExcitation folds global average pooling -> 1x1 Conv(Relu) ->
// 1x1 Conv -> Sigmoid -> Product-with-input into a SqueezeExcitation layer
// carrying the two convolution weights.
func (p *pass) mergeSqueezeExcitation(src []network.Layer, index *int) bool {
	i := *index
	if len(src) <= i+4 {
		return false
	}
	if src[i+0].Type != network.LayerTypePooling || src[i+0].Pooling.Method != network.PoolingMethodAverage {
		return false
	}
	if src[i+1].Type != network.LayerTypeConvolution || !src[i+1].Convolution.Kernel.Equal(network.Shp(1, 1)) ||
		src[i+1].Convolution.BiasTerm || src[i+1].Src[0] != src[i+0].Name ||
		src[i+1].Convolution.ActivationType != network.ActivationFunctionRelu {
		return false
	}
	if src[i+2].Type != network.LayerTypeConvolution || !src[i+2].Convolution.Kernel.Equal(network.Shp(1, 1)) ||
		src[i+2].Convolution.BiasTerm || src[i+2].Src[0] != src[i+1].Name {
		return false
	}
	if src[i+3].Type != network.LayerTypeSigmoid || src[i+3].Src[0] != src[i+2].Name {
		return false
	}
	if src[i+4].Type != network.LayerTypeEltwise || src[i+4].Eltwise.Operation != network.EltwiseOperationProduct ||
		src[i+4].Src[0] != src[i+0].Src[0] || src[i+4].Src[1] != src[i+3].Dst[0] {
		return false
	}
	if insideLink(src, i+1, 4, 0) {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypeSqueezeExcitation,
		Name: src[i+4].Name,
		Src:  []string{src[i+0].Src[0]},
	}
	layer.Weight = append(layer.Weight, src[i+1].Weight[0], src[i+2].Weight[0])
	layer.Dst = []string{src[i+4].Dst[0]}
	p.merged = append(p.merged, layer)
	*index += 4
	return true
}
