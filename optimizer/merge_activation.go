// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package optimizer

import (
	"github.com/uboborov/Synet/network"
)

// mergeHswish recognizes the four-layer identity
// y = x * clamp(x+s, 0, 2s) * k and folds it into a single Hswish layer
// carrying (s, k). The clamp upper bound must equal 2s.
func (p *pass) mergeHswish(src []network.Layer, index *int) bool {
	i := *index
	if len(src) < i+4 {
		return false
	}
	if src[i+0].Type != network.LayerTypePower || src[i+0].Power.Power != 1 ||
		src[i+0].Power.Scale != 1 {
		return false
	}
	if src[i+1].Type != network.LayerTypeRestrictRange || src[i+1].Src[0] != src[i+0].Name ||
		src[i+1].RestrictRange.Lower != 0 {
		return false
	}
	if src[i+2].Type != network.LayerTypePower || src[i+2].Power.Power != 1 ||
		src[i+2].Power.Shift != 0 || src[i+2].Src[0] != src[i+1].Name {
		return false
	}
	if src[i+3].Type != network.LayerTypeEltwise || len(src[i+3].Src) != 2 ||
		src[i+3].Src[0] != src[i+0].Src[0] || src[i+3].Src[1] != src[i+2].Name ||
		src[i+3].Eltwise.Operation != network.EltwiseOperationProduct {
		return false
	}
	if !equal(src[i+0].Power.Shift*2, src[i+1].RestrictRange.Upper) {
		return false
	}
	if insideLink(src, i+1, 3, 0) {
		return false
	}

	layer := network.Layer{
		Type: network.LayerTypeHswish,
		Name: src[i+3].Name,
		Src:  []string{src[i+0].Src[0]},
	}
	layer.Dst = []string{layer.Name}
	layer.Hswish.Shift = src[i+0].Power.Shift
	layer.Hswish.Scale = src[i+2].Power.Scale
	p.merged = append(p.merged, layer)
	*index += 3
	return true
}

// mergeMish recognizes the five-layer decomposition
// y = x * tanh(log(1 + exp(x))) and folds it into a single Mish layer.
func (p *pass) mergeMish(src []network.Layer, index *int) bool {
	i := *index
	if len(src) < i+5 {
		return false
	}
	if src[i+0].Type != network.LayerTypeUnaryOperation ||
		src[i+0].UnaryOperation.Type != network.UnaryOperationExp {
		return false
	}
	if src[i+1].Type != network.LayerTypePower || src[i+1].Power.Power != 1 ||
		src[i+1].Power.Scale != 1 || src[i+1].Power.Shift != 1 ||
		src[i+1].Src[0] != src[i+0].Name {
		return false
	}
	if src[i+2].Type != network.LayerTypeUnaryOperation ||
		src[i+2].UnaryOperation.Type != network.UnaryOperationLog ||
		src[i+2].Src[0] != src[i+1].Name {
		return false
	}
	if src[i+3].Type != network.LayerTypeUnaryOperation ||
		src[i+3].UnaryOperation.Type != network.UnaryOperationTanh ||
		src[i+3].Src[0] != src[i+2].Name {
		return false
	}
	if src[i+4].Type != network.LayerTypeEltwise || len(src[i+4].Src) != 2 ||
		src[i+4].Src[0] != src[i+0].Src[0] || src[i+4].Src[1] != src[i+3].Name ||
		src[i+4].Eltwise.Operation != network.EltwiseOperationProduct {
		return false
	}
	if insideLink(src, i+1, 4, 0) {
		return false
	}

	layer := network.Layer{
		Type: network.LayerTypeMish,
		Name: src[i+4].Name,
		Src:  []string{src[i+0].Src[0]},
	}
	layer.Dst = []string{layer.Name}
	p.merged = append(p.merged, layer)
	*index += 4
	return true
}

// mergePrelu recognizes max(x, a*x) spelled as Scale followed by an Eltwise
// max. The per-channel slopes must all lie in [-1, 1] and a Scale shift, if
// present, must be uniformly zero.
func (p *pass) mergePrelu(src []network.Layer, index *int) bool {
	i := *index
	if len(src) < i+2 {
		return false
	}
	if src[i+0].Type != network.LayerTypeScale {
		return false
	}
	if src[i+1].Type != network.LayerTypeEltwise || len(src[i+1].Src) != 2 ||
		src[i+1].Src[1] != src[i+0].Src[0] || src[i+1].Src[0] != src[i+0].Name ||
		src[i+1].Eltwise.Operation != network.EltwiseOperationMax {
		return false
	}
	if insideLink(src, i+1, 1, 0) {
		return false
	}
	weights := *p.weights
	scale := weights[src[i].Weight[0].Offset/4:]
	for k := int64(0); k < src[i].Weight[0].Size/4; k++ {
		if scale[k] < -1 || scale[k] > 1 {
			return false
		}
	}
	if len(src[i+0].Weight) > 1 {
		shift := weights[src[i].Weight[1].Offset/4:]
		for k := int64(0); k < src[i].Weight[1].Size/4; k++ {
			if shift[k] != 0 {
				return false
			}
		}
	}
	layer := network.Layer{
		Type: network.LayerTypePrelu,
		Name: src[i+1].Name,
		Src:  []string{src[i+0].Src[0]},
	}
	layer.Dst = []string{layer.Name}
	layer.Prelu.Axis = src[i+0].Scale.Axis
	layer.Weight = append(layer.Weight, src[i+0].Weight[0])
	p.merged = append(p.merged, layer)
	*index += 1
	return true
}

// mergeConvolutionOrDeconvolutionAndActivation writes a following
// activation into the already-emitted Convolution or Deconvolution. For an
// int8 convolution the fused layer keeps the activation's name and records
// the convolution's old name in Origin, because the calibration statistics
// of the pre-activation tensor are still needed.
func (p *pass) mergeConvolutionOrDeconvolutionAndActivation(src []network.Layer, index int) bool {
	if index == 0 {
		return false
	}
	conv := &src[index-1]
	act := &src[index]
	if conv.Type != network.LayerTypeConvolution && conv.Type != network.LayerTypeDeconvolution {
		return false
	}
	if len(act.Src) != 1 || act.Src[0] != conv.Name {
		return false
	}
	if insideLink(src, index-1, 2, 0) {
		return false
	}
	out := p.last()
	result := false
	switch act.Type {
	case network.LayerTypeRestrictRange:
		out.Convolution.ActivationType = network.ActivationFunctionRestrictRange
		out.Convolution.ActivationParam0 = act.RestrictRange.Lower
		out.Convolution.ActivationParam1 = act.RestrictRange.Upper
		result = true
	case network.LayerTypeRelu:
		if act.Relu.NegativeSlope == 0 {
			out.Convolution.ActivationType = network.ActivationFunctionRelu
		} else {
			out.Convolution.ActivationType = network.ActivationFunctionLeakyRelu
		}
		out.Convolution.ActivationParam0 = act.Relu.NegativeSlope
		result = true
	case network.LayerTypePrelu:
		if p.method != network.QuantizationMethodIECompatible {
			out.Convolution.ActivationType = network.ActivationFunctionPrelu
			out.Weight = append(out.Weight, act.Weight[0])
			result = true
		}
	case network.LayerTypeElu:
		out.Convolution.ActivationType = network.ActivationFunctionElu
		out.Convolution.ActivationParam0 = act.Elu.Alpha
		result = true
	case network.LayerTypeHswish:
		out.Convolution.ActivationType = network.ActivationFunctionHswish
		out.Convolution.ActivationParam0 = act.Hswish.Shift
		out.Convolution.ActivationParam1 = act.Hswish.Scale
		result = true
	case network.LayerTypeMish:
		out.Convolution.ActivationType = network.ActivationFunctionMish
		out.Convolution.ActivationParam0 = act.Softplus.Threshold
		result = true
	}
	if result {
		if out.Convolution.QuantizationLevel == network.TensorType8i {
			out.Origin = append(out.Origin, conv.Name)
			out.Name = act.Name
			out.Dst[0] = act.Name
		} else {
			p.rename(act.Name, conv.Name)
		}
	}
	return result
}
