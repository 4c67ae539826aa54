// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package optimizer

import (
	"github.com/uboborov/Synet/network"
)

// The Fused templates recognize activation-shaped suffixes hanging off a
// Convolution or InnerProduct (CReLU splits, shifted bi-halves, batch-norm
// tails, power/clamp/product chains) and collapse each into a Fused layer
// whose Type discriminates the template and whose weights/floats carry the
// per-channel vectors and scalars the executor needs.

// noOutsideUsers reports whether no layer from position next onwards
// consumes one of the window layers src[index+lo .. index+hi-1].
func noOutsideUsers(src []network.Layer, next, index, lo, hi int) bool {
	for i := next; i < len(src); i++ {
		for _, name := range src[i].Src {
			for k := lo; k < hi; k++ {
				if name == src[index+k].Name {
					return false
				}
			}
		}
	}
	return true
}

// mergeFused0: Conv(bias) -> {Relu, Abs} -> Sub -> Scale -> Scale -> Sum.
func (p *pass) mergeFused0(src []network.Layer, index *int) bool {
	i := *index
	if i == 0 || len(src) < i+6 {
		return false
	}
	if src[i-1].Type != network.LayerTypeConvolution || !src[i-1].Convolution.BiasTerm ||
		src[i-1].Convolution.ActivationType != network.ActivationFunctionIdentity {
		return false
	}
	if src[i+0].Type != network.LayerTypeRelu || src[i+0].Src[0] != src[i-1].Name {
		return false
	}
	if src[i+1].Type != network.LayerTypeUnaryOperation || src[i+1].UnaryOperation.Type != network.UnaryOperationAbs ||
		src[i+1].Src[0] != src[i-1].Name {
		return false
	}
	if !isSub(&src[i+2]) || len(src[i+2].Src) != 2 ||
		src[i+2].Src[0] != src[i-1].Name || src[i+2].Src[1] != src[i+1].Name {
		return false
	}
	if src[i+3].Type != network.LayerTypeScale || src[i+3].Scale.BiasTerm || src[i+3].Src[0] != src[i+2].Name {
		return false
	}
	if src[i+4].Type != network.LayerTypeScale || src[i+4].Scale.BiasTerm || src[i+4].Src[0] != src[i+3].Name {
		return false
	}
	if src[i+5].Type != network.LayerTypeEltwise || src[i+5].Eltwise.Operation != network.EltwiseOperationSum ||
		len(src[i+5].Eltwise.Coefficients) != 0 || len(src[i+5].Src) != 2 ||
		src[i+5].Src[0] != src[i+0].Name || src[i+5].Src[1] != src[i+4].Name {
		return false
	}
	if !noOutsideUsers(src, i+6, i, -1, 5) {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypeFused,
		Name: src[i+5].Name,
		Src:  []string{src[i-1].Name},
	}
	layer.Dst = []string{layer.Name}
	layer.Fused.Type = 0
	layer.Weight = append(layer.Weight, src[i-1].Weight[1], src[i+3].Weight[0], src[i+4].Weight[0])
	out := p.last()
	out.Weight = out.Weight[:1]
	out.Convolution.BiasTerm = false
	p.merged = append(p.merged, layer)
	*index += 5
	return true
}

// mergeFused1: Conv(bias) -> {Relu, Scale(bias,axis 0) -> Relu -> Scale(bias)} -> Sum.
func (p *pass) mergeFused1(src []network.Layer, index *int) bool {
	i := *index
	if i == 0 || len(src) < i+5 {
		return false
	}
	if src[i-1].Type != network.LayerTypeConvolution || !src[i-1].Convolution.BiasTerm ||
		src[i-1].Convolution.ActivationType != network.ActivationFunctionIdentity {
		return false
	}
	if src[i+0].Type != network.LayerTypeRelu || src[i+0].Src[0] != src[i-1].Name {
		return false
	}
	if src[i+1].Type != network.LayerTypeScale || src[i+1].Scale.Axis != 0 || !src[i+1].Scale.BiasTerm ||
		src[i+1].Src[0] != src[i-1].Name {
		return false
	}
	if src[i+2].Type != network.LayerTypeRelu || src[i+2].Src[0] != src[i+1].Name {
		return false
	}
	if src[i+3].Type != network.LayerTypeScale || !src[i+3].Scale.BiasTerm || src[i+3].Src[0] != src[i+2].Name {
		return false
	}
	if src[i+4].Type != network.LayerTypeEltwise || src[i+4].Eltwise.Operation != network.EltwiseOperationSum ||
		len(src[i+4].Eltwise.Coefficients) != 0 || len(src[i+4].Src) != 2 ||
		src[i+4].Src[0] != src[i+0].Name || src[i+4].Src[1] != src[i+3].Name {
		return false
	}
	if !noOutsideUsers(src, i+5, i, -1, 4) {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypeFused,
		Name: src[i+4].Name,
		Src:  []string{src[i-1].Name},
	}
	layer.Dst = []string{layer.Name}
	layer.Fused.Type = 1
	layer.Weight = append(layer.Weight,
		src[i-1].Weight[1],
		src[i+1].Weight[0], src[i+1].Weight[1],
		src[i+3].Weight[0], src[i+3].Weight[1])
	p.rename(layer.Dst[0], layer.Src[0])
	layer.Dst[0] = layer.Src[0]
	out := p.last()
	out.Weight = out.Weight[:1]
	out.Convolution.BiasTerm = false
	p.merged = append(p.merged, layer)
	*index += 4
	return true
}

// mergeFused2: Conv -> in-place BatchNorm(global, yolo) -> in-place Scale -> in-place Relu.
func (p *pass) mergeFused2(src []network.Layer, index *int) bool {
	i := *index
	if i == 0 || len(src) < i+3 {
		return false
	}
	if src[i-1].Type != network.LayerTypeConvolution || src[i-1].Convolution.BiasTerm ||
		src[i-1].Convolution.ActivationType != network.ActivationFunctionIdentity {
		return false
	}
	if src[i+0].Type != network.LayerTypeBatchNorm || !src[i+0].BatchNorm.UseGlobalStats ||
		!src[i+0].BatchNorm.YoloCompatible ||
		src[i+0].Src[0] != src[i-1].Name || src[i+0].Dst[0] != src[i-1].Name {
		return false
	}
	if src[i+1].Type != network.LayerTypeScale || !src[i+1].Scale.BiasTerm || src[i+1].Scale.Axis != 1 ||
		src[i+1].Src[0] != src[i-1].Name || src[i+1].Dst[0] != src[i-1].Name {
		return false
	}
	if src[i+2].Type != network.LayerTypeRelu ||
		src[i+2].Src[0] != src[i-1].Name || src[i+2].Dst[0] != src[i-1].Name {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypeFused,
		Name: src[i+2].Name,
		Src:  []string{src[i-1].Name},
	}
	layer.Dst = append([]string(nil), src[i+2].Dst...)
	layer.Fused.Type = 2
	layer.Fused.Floats = []float32{src[i+0].BatchNorm.Eps, src[i+2].Relu.NegativeSlope}
	layer.Weight = append(layer.Weight,
		src[i+0].Weight[0], src[i+0].Weight[1],
		src[i+1].Weight[0], src[i+1].Weight[1])
	p.merged = append(p.merged, layer)
	*index += 2
	return true
}

// mergeFused3: Conv(bias) or InnerProduct(bias) -> {Relu, Neg -> Relu -> Neg -> Scale} -> Sum.
// For a Convolution the suffix collapses into a Prelu activation on the
// convolution itself; an InnerProduct keeps a separate Fused layer.
func (p *pass) mergeFused3(src []network.Layer, index *int) bool {
	i := *index
	if i == 0 || len(src) < i+6 {
		return false
	}
	convLike := src[i-1].Type == network.LayerTypeConvolution && src[i-1].Convolution.BiasTerm &&
		src[i-1].Convolution.ActivationType == network.ActivationFunctionIdentity
	ipLike := src[i-1].Type == network.LayerTypeInnerProduct && src[i-1].InnerProduct.BiasTerm
	if !convLike && !ipLike {
		return false
	}
	if src[i+0].Type != network.LayerTypeRelu || src[i+0].Src[0] != src[i-1].Name {
		return false
	}
	if src[i+1].Type != network.LayerTypeUnaryOperation || src[i+1].UnaryOperation.Type != network.UnaryOperationNeg ||
		src[i+1].Src[0] != src[i-1].Name {
		return false
	}
	if src[i+2].Type != network.LayerTypeRelu || src[i+2].Src[0] != src[i+1].Name {
		return false
	}
	if src[i+3].Type != network.LayerTypeUnaryOperation || src[i+3].UnaryOperation.Type != network.UnaryOperationNeg ||
		src[i+3].Src[0] != src[i+2].Name {
		return false
	}
	if src[i+4].Type != network.LayerTypeScale || src[i+4].Scale.BiasTerm || src[i+4].Src[0] != src[i+3].Name {
		return false
	}
	if src[i+5].Type != network.LayerTypeEltwise || src[i+5].Eltwise.Operation != network.EltwiseOperationSum ||
		len(src[i+5].Eltwise.Coefficients) != 0 || len(src[i+5].Src) != 2 ||
		src[i+5].Src[0] != src[i+0].Name || src[i+5].Src[1] != src[i+4].Name {
		return false
	}
	if !noOutsideUsers(src, i+6, i, -1, 5) {
		return false
	}
	out := p.last()
	if out.Type == network.LayerTypeConvolution {
		out.Name = src[i+5].Name
		out.Dst[len(out.Dst)-1] = out.Name
		out.Convolution.ActivationType = network.ActivationFunctionPrelu
		out.Weight = append(out.Weight, src[i+4].Weight[0])
	} else {
		layer := network.Layer{
			Type: network.LayerTypeFused,
			Name: src[i+5].Name,
			Src:  []string{src[i-1].Name},
		}
		layer.Dst = []string{layer.Name}
		layer.Fused.Type = 3
		layer.Weight = append(layer.Weight, src[i-1].Weight[1], src[i+4].Weight[0])
		out.Weight = out.Weight[:1]
		out.InnerProduct.BiasTerm = false
		p.merged = append(p.merged, layer)
	}
	*index += 5
	return true
}

// mergeFused4: Conv(bias) -> Power(power=1) -> Concat{conv, power} -> Relu (a CReLU split).
func (p *pass) mergeFused4(src []network.Layer, index *int) bool {
	i := *index
	if i == 0 || len(src) < i+3 {
		return false
	}
	if src[i-1].Type != network.LayerTypeConvolution || !src[i-1].Convolution.BiasTerm ||
		src[i-1].Convolution.ActivationType != network.ActivationFunctionIdentity {
		return false
	}
	if src[i+0].Type != network.LayerTypePower || src[i+0].Power.Power != 1 || src[i+0].Src[0] != src[i-1].Name {
		return false
	}
	if src[i+1].Type != network.LayerTypeConcat || len(src[i+1].Src) != 2 ||
		src[i+1].Src[0] != src[i-1].Name || src[i+1].Src[1] != src[i+0].Name {
		return false
	}
	if src[i+2].Type != network.LayerTypeRelu || src[i+2].Src[0] != src[i+1].Name {
		return false
	}
	if !noOutsideUsers(src, i+3, i, -1, 2) {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypeFused,
		Name: src[i+2].Name,
		Src:  []string{src[i-1].Name},
	}
	layer.Dst = []string{layer.Name}
	layer.Fused.Type = 4
	layer.Weight = append(layer.Weight, src[i-1].Weight[1])
	layer.Fused.Floats = []float32{src[i+0].Power.Scale, src[i+0].Power.Shift}
	out := p.last()
	out.Weight = out.Weight[:1]
	out.Convolution.BiasTerm = false
	p.merged = append(p.merged, layer)
	*index += 2
	return true
}

// mergeFused5: Conv -> Scale(bias,axis 1) -> Scale(bias,axis 1) -> Relu.
func (p *pass) mergeFused5(src []network.Layer, index *int) bool {
	i := *index
	if i == 0 || len(src) < i+3 {
		return false
	}
	if src[i-1].Type != network.LayerTypeConvolution || src[i-1].Convolution.BiasTerm ||
		src[i-1].Convolution.ActivationType != network.ActivationFunctionIdentity {
		return false
	}
	if src[i+0].Type != network.LayerTypeScale || !src[i+0].Scale.BiasTerm || src[i+0].Scale.Axis != 1 ||
		src[i+0].Src[0] != src[i-1].Name {
		return false
	}
	if src[i+1].Type != network.LayerTypeScale || !src[i+1].Scale.BiasTerm || src[i+1].Scale.Axis != 1 ||
		src[i+1].Src[0] != src[i+0].Name {
		return false
	}
	if src[i+2].Type != network.LayerTypeRelu || src[i+2].Src[0] != src[i+1].Name {
		return false
	}
	if !noOutsideUsers(src, i+3, i, -1, 2) {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypeFused,
		Name: src[i+2].Name,
		Src:  []string{src[i-1].Name},
	}
	layer.Dst = append([]string(nil), src[i+2].Dst...)
	layer.Fused.Type = 5
	layer.Weight = append(layer.Weight,
		src[i+0].Weight[0], src[i+0].Weight[1],
		src[i+1].Weight[0], src[i+1].Weight[1])
	p.rename(layer.Dst[0], layer.Src[0])
	layer.Dst[0] = layer.Src[0]
	p.merged = append(p.merged, layer)
	*index += 2
	return true
}

// mergeFused6: Conv -> Scale(bias,axis 1) -> Relu.
func (p *pass) mergeFused6(src []network.Layer, index *int) bool {
	i := *index
	if i == 0 || len(src) < i+2 {
		return false
	}
	if src[i-1].Type != network.LayerTypeConvolution || src[i-1].Convolution.BiasTerm ||
		src[i-1].Convolution.ActivationType != network.ActivationFunctionIdentity {
		return false
	}
	if src[i+0].Type != network.LayerTypeScale || !src[i+0].Scale.BiasTerm || src[i+0].Scale.Axis != 1 ||
		src[i+0].Src[0] != src[i-1].Name {
		return false
	}
	if src[i+1].Type != network.LayerTypeRelu || src[i+1].Src[0] != src[i+0].Name {
		return false
	}
	if !noOutsideUsers(src, i+2, i, -1, 1) {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypeFused,
		Name: src[i+1].Name,
		Src:  []string{src[i-1].Name},
	}
	layer.Dst = append([]string(nil), src[i+1].Dst...)
	layer.Fused.Type = 6
	layer.Weight = append(layer.Weight, src[i+0].Weight[0], src[i+0].Weight[1])
	p.rename(layer.Dst[0], layer.Src[0])
	layer.Dst[0] = layer.Src[0]
	p.merged = append(p.merged, layer)
	*index += 1
	return true
}

// mergeFused7: Conv(bias) -> {Relu, Power(scale=-1) -> Relu -> Scale(bias)} -> Sum
// (the shifted bi-halves template).
func (p *pass) mergeFused7(src []network.Layer, index *int) bool {
	i := *index
	if i == 0 || len(src) < i+5 {
		return false
	}
	if src[i-1].Type != network.LayerTypeConvolution || !src[i-1].Convolution.BiasTerm ||
		src[i-1].Convolution.ActivationType != network.ActivationFunctionIdentity {
		return false
	}
	if src[i+0].Type != network.LayerTypeRelu || src[i+0].Src[0] != src[i-1].Name {
		return false
	}
	if src[i+1].Type != network.LayerTypePower || src[i+1].Power.Power != 1 || src[i+1].Power.Scale != -1 ||
		src[i+1].Power.Shift != 0 || src[i+1].Src[0] != src[i-1].Name {
		return false
	}
	if src[i+2].Type != network.LayerTypeRelu || src[i+2].Src[0] != src[i+1].Name {
		return false
	}
	if src[i+3].Type != network.LayerTypeScale || !src[i+3].Scale.BiasTerm || src[i+3].Src[0] != src[i+2].Name {
		return false
	}
	if src[i+4].Type != network.LayerTypeEltwise || src[i+4].Eltwise.Operation != network.EltwiseOperationSum ||
		len(src[i+4].Eltwise.Coefficients) != 0 || len(src[i+4].Src) != 2 ||
		src[i+4].Src[0] != src[i+0].Name || src[i+4].Src[1] != src[i+3].Name {
		return false
	}
	if !noOutsideUsers(src, i+5, i, -1, 4) {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypeFused,
		Name: src[i+4].Name,
		Src:  []string{src[i-1].Name},
	}
	layer.Dst = []string{layer.Name}
	layer.Fused.Type = 7
	layer.Weight = append(layer.Weight, src[i-1].Weight[1], src[i+3].Weight[0], src[i+3].Weight[1])
	p.rename(layer.Dst[0], layer.Src[0])
	layer.Dst[0] = layer.Src[0]
	out := p.last()
	out.Weight = out.Weight[:1]
	out.Convolution.BiasTerm = false
	p.merged = append(p.merged, layer)
	*index += 4
	return true
}

// mergeFused8: Tile -> Tile -> Product, summed with a parallel Pooling or
// Convolution branch.
func (p *pass) mergeFused8(src []network.Layer, index *int) bool {
	i := *index
	if len(src) < i+5 {
		return false
	}
	if src[i+0].Type != network.LayerTypeTile {
		return false
	}
	if src[i+1].Type != network.LayerTypeTile || src[i+1].Src[0] != src[i+0].Name {
		return false
	}
	if src[i+2].Type != network.LayerTypeEltwise || src[i+2].Eltwise.Operation != network.EltwiseOperationProduct ||
		len(src[i+2].Src) != 2 || src[i+2].Src[1] != src[i+1].Name {
		return false
	}
	if insideLink(src, i, 3, 0) {
		return false
	}
	if src[i+3].Type != network.LayerTypePooling && src[i+3].Type != network.LayerTypeConvolution {
		return false
	}
	if src[i+4].Type != network.LayerTypeEltwise || src[i+4].Eltwise.Operation != network.EltwiseOperationSum ||
		len(src[i+4].Src) != 2 || src[i+4].Src[0] != src[i+2].Name || src[i+4].Src[1] != src[i+3].Name {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypeFused,
		Name: src[i+4].Name,
		Src:  []string{src[i+4].Src[1], src[i+2].Src[0], src[i+0].Src[0]},
	}
	layer.Dst = []string{layer.Name}
	layer.Fused.Type = 8
	p.emit(&src[i+3])
	p.merged = append(p.merged, layer)
	*index += 4
	return true
}

// mergeFused9: Concat{a, b} -> Scale -> Relu. The concat output is kept as a
// second dst when something else still reads it.
func (p *pass) mergeFused9(src []network.Layer, index *int) bool {
	i := *index
	if len(src) < i+3 {
		return false
	}
	if src[i+0].Type != network.LayerTypeConcat || len(src[i+0].Src) != 2 {
		return false
	}
	if src[i+1].Type != network.LayerTypeScale || src[i+1].Src[0] != src[i+0].Name {
		return false
	}
	if src[i+2].Type != network.LayerTypeRelu || src[i+2].Src[0] != src[i+1].Name {
		return false
	}
	if insideLink(src, i+1, 2, 0) {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypeFused,
		Name: src[i+0].Name,
		Src:  []string{src[i+0].Src[0], src[i+0].Src[1]},
	}
	layer.Dst = []string{src[i+2].Name}
	if insideLink(src, i+0, 2, 2) {
		layer.Dst = append(layer.Dst, src[i+0].Name)
	}
	layer.Weight = append(layer.Weight, src[i+1].Weight[0], src[i+1].Weight[1])
	layer.Fused.Type = 9
	p.merged = append(p.merged, layer)
	*index += 2
	return true
}

// mergeFused10: Scale(bias) optionally wrapped in pre and post Power layers
// with power=1. PriorBox and Meta consumers do not block the fusion.
func (p *pass) mergeFused10(src []network.Layer, index *int) bool {
	i := *index
	pre, scale, post := false, false, false
	if len(src) > i+0 && src[i+0].Type == network.LayerTypePower && src[i+0].Power.Power == 1 {
		pre = true
	}
	if len(src) > i+1 && src[i+1].Type == network.LayerTypeScale &&
		(!pre || src[i+1].Src[0] == src[i+0].Name) && src[i+1].Scale.BiasTerm {
		scale = true
	}
	if len(src) > i+2 && src[i+2].Type == network.LayerTypePower && src[i+2].Power.Power == 1 &&
		src[i+2].Src[0] == src[i+1].Name {
		post = true
	}
	if !(scale && (pre || post)) {
		return false
	}
	start, count := i+1, 1
	if pre {
		start, count = i, count+1
	}
	if post {
		count++
	}
	if insideLink(src, start, count, 0,
		network.LayerTypePriorBox, network.LayerTypePriorBoxClustered, network.LayerTypeMeta) {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypeFused,
		Name: src[i+1].Name,
	}
	if pre {
		layer.Src = []string{src[i+0].Src[0]}
	} else {
		layer.Src = []string{src[i+1].Src[0]}
	}
	if post {
		layer.Dst = []string{src[i+2].Dst[0]}
	} else {
		layer.Dst = []string{src[i+1].Dst[0]}
	}
	layer.Weight = append(layer.Weight, src[i+1].Weight[0], src[i+1].Weight[1])
	preScale, preShift := float32(1), float32(0)
	if pre {
		preScale, preShift = src[i+0].Power.Scale, src[i+0].Power.Shift
	}
	postScale, postShift := float32(1), float32(0)
	if post {
		postScale, postShift = src[i+2].Power.Scale, src[i+2].Power.Shift
	}
	layer.Fused.Floats = []float32{preScale, preShift, postScale, postShift}
	layer.Fused.Type = 10
	if pre {
		p.rename(src[i+0].Dst[0], layer.Dst[0])
	}
	if pre {
		*index++
	}
	if post {
		*index++
	}
	p.merged = append(p.merged, layer)
	return true
}

// mergeFused11: the Hswish shape with a free clamp range, kept as a Fused
// layer carrying (shift, lower, upper, scale).
func (p *pass) mergeFused11(src []network.Layer, index *int) bool {
	i := *index
	if len(src) < i+4 {
		return false
	}
	if src[i+0].Type != network.LayerTypePower || src[i+0].Power.Power != 1 ||
		src[i+0].Power.Scale != 1 {
		return false
	}
	if src[i+1].Type != network.LayerTypeRestrictRange || src[i+1].Src[0] != src[i+0].Name {
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
	if insideLink(src, i+1, 3, 0) {
		return false
	}
	layer := network.Layer{
		Type: network.LayerTypeFused,
		Name: src[i+3].Name,
		Src:  []string{src[i+0].Src[0]},
	}
	layer.Dst = []string{layer.Name}
	layer.Fused.Type = 11
	layer.Fused.Floats = []float32{
		src[i+0].Power.Shift,
		src[i+1].RestrictRange.Lower,
		src[i+1].RestrictRange.Upper,
		src[i+2].Power.Scale,
	}
	p.merged = append(p.merged, layer)
	*index += 3
	return true
}
