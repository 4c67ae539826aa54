// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package optimizer

import (
	"github.com/uboborov/Synet/network"
)

// mergeCurrentAndBias folds a trailing Bias into the layer just emitted:
// a Convolution or InnerProduct without bias, a Scale without bias, or a
// Power with power=1 and shift=0 (which upgrades to a Scale whose constant
// multiplier vector is materialized at the blob tail).
func (p *pass) mergeCurrentAndBias(src []network.Layer, index *int) bool {
	if *index == 0 {
		return false
	}
	current := &src[*index-1]
	bias := &src[*index]
	if bias.Type != network.LayerTypeBias || bias.Src[0] != current.Name {
		return false
	}
	if insideLink(src, *index-1, 2, 0) {
		return false
	}
	out := p.last()
	switch current.Type {
	case network.LayerTypeConvolution:
		if current.Convolution.BiasTerm {
			return false
		}
		out.Convolution.BiasTerm = true
	case network.LayerTypeInnerProduct:
		if current.InnerProduct.BiasTerm {
			return false
		}
		out.InnerProduct.BiasTerm = true
	case network.LayerTypePower:
		if current.Power.Power != 1 || current.Power.Shift != 0 {
			return false
		}
		out.Type = network.LayerTypeScale
		out.Scale.BiasTerm = true
		out.Weight = append(out.Weight, bias.Weight[0])
		out.Weight[0].Offset = p.weights.Bytes()
		for i := 0; i < out.Weight[0].Dim[0]; i++ {
			*p.weights = append(*p.weights, current.Power.Scale)
		}
		out.Power.Scale = 1
	case network.LayerTypeScale:
		if current.Scale.BiasTerm {
			return false
		}
		out.Scale.BiasTerm = true
	default:
		return false
	}
	out.Name = bias.Name
	out.Dst = append([]string(nil), bias.Dst...)
	out.Weight = append(out.Weight, bias.Weight[0])
	return true
}

// mergeConvolutionAndScale absorbs a per-output-channel Scale into the
// preceding Convolution's weights (and bias, when the Scale carries one).
// Only legal for an Nhwc-layout Convolution with no bias and identity
// activation; the multiplication goes into the copy-on-write buffer.
func (p *pass) mergeConvolutionAndScale(src []network.Layer, index *int) bool {
	if *index == 0 {
		return false
	}
	conv := &src[*index-1]
	scale := &src[*index]
	if conv.Type != network.LayerTypeConvolution || conv.Convolution.BiasTerm ||
		conv.Convolution.ActivationType != network.ActivationFunctionIdentity {
		return false
	}
	if scale.Type != network.LayerTypeScale || scale.Src[0] != conv.Name {
		return false
	}
	if insideLink(src, *index-1, 2, 0) {
		return false
	}
	if conv.Weight[0].Format != network.TensorFormatNhwc {
		return false
	}
	buf := p.mutableWeights()
	out := p.last()
	out.Name = scale.Name
	out.Dst = append([]string(nil), scale.Dst...)
	if scale.Scale.BiasTerm {
		out.Convolution.BiasTerm = true
		out.Weight = append(out.Weight, scale.Weight[1])
	}
	pSrc := (*p.weights)[conv.Weight[0].Offset/4:]
	pScale := (*p.weights)[scale.Weight[0].Offset/4:]
	pDst := buf[conv.Weight[0].Offset/4:]
	dim := conv.Weight[0].Dim
	n, m := dim[0]*dim[1]*dim[2], dim[3]
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			pDst[i*m+j] = pSrc[i*m+j] * pScale[j]
		}
	}
	return true
}

// mergeInnerProductAndScale absorbs a per-output Scale into the preceding
// InnerProduct by scaling the rows of its weight matrix.
func (p *pass) mergeInnerProductAndScale(src []network.Layer, index *int) bool {
	if *index == 0 {
		return false
	}
	ip := &src[*index-1]
	scale := &src[*index]
	if ip.Type != network.LayerTypeInnerProduct || ip.InnerProduct.BiasTerm || ip.InnerProduct.TransposeB {
		return false
	}
	if scale.Type != network.LayerTypeScale || scale.Src[0] != ip.Name {
		return false
	}
	if insideLink(src, *index-1, 2, 0) {
		return false
	}
	buf := p.mutableWeights()
	out := p.last()
	out.Name = scale.Name
	out.Dst = append([]string(nil), scale.Dst...)
	if scale.Scale.BiasTerm {
		out.InnerProduct.BiasTerm = true
		out.Weight = append(out.Weight, scale.Weight[1])
	}
	pSrc := (*p.weights)[ip.Weight[0].Offset/4:]
	pScale := (*p.weights)[scale.Weight[0].Offset/4:]
	pDst := buf[ip.Weight[0].Offset/4:]
	dim := ip.Weight[0].Dim
	for i := 0; i < dim[0]; i++ {
		for j := 0; j < dim[1]; j++ {
			pDst[i*dim[1]+j] = pSrc[i*dim[1]+j] * pScale[i]
		}
	}
	return true
}
