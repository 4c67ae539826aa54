// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package optimizer

import (
	"github.com/uboborov/Synet/network"
)

// reduceTensorIteratorIO collapses duplicate input ports of a TensorIterator.
// Converters sometimes route the same outer tensor into the body through
// several Input layers; all but the loop-carried and iterated ports are
// removed and their body consumers rewired to the surviving Input.
func (p *pass) reduceTensorIteratorIO(src []network.Layer, index *int) bool {
	stt := &src[*index]
	if stt.Type != network.LayerTypeTensorIterator || len(stt.Src) < 3 || len(stt.TensorIterator.Back) < 1 {
		return false
	}
	srcDupls := 0
	for i := 2; i < len(stt.Src); i++ {
		if stt.Src[1] == stt.Src[i] {
			srcDupls++
		}
	}
	backDupls := 0
	for i := 1; i < len(stt.TensorIterator.Back); i++ {
		if stt.TensorIterator.Back[0].Src == stt.TensorIterator.Back[i].Src {
			backDupls++
		}
	}
	if srcDupls == 0 || srcDupls != backDupls || srcDupls < len(stt.Src)-2 {
		return false
	}
	dtt := p.emit(stt)
	dtt.Src = dtt.Src[:2]
	var rem, iter string
	for i := 0; i < len(dtt.TensorIterator.Input) && iter == ""; i++ {
		if dtt.TensorIterator.Input[i].Axis != -1 {
			iter = dtt.TensorIterator.Input[i].Dst
		}
	}
	for i := *index + 1; i < len(src) && rem == ""; i++ {
		if src[i].Parent != stt.Name {
			break
		}
		if src[i].Type == network.LayerTypeInput && src[i].Name != iter {
			rem = src[i].Name
		}
	}
	del := make(map[string]bool)
	var input, back []network.Connection
	for i := range dtt.TensorIterator.Input {
		c := &dtt.TensorIterator.Input[i]
		if c.Dst == rem || c.Dst == iter {
			c.Port = min(1, c.Port)
			input = append(input, *c)
		} else {
			del[c.Dst] = true
		}
	}
	dtt.TensorIterator.Input = input
	for i := range dtt.TensorIterator.Back {
		if !del[dtt.TensorIterator.Back[i].Dst] {
			back = append(back, dtt.TensorIterator.Back[i])
		}
	}
	dtt.TensorIterator.Back = back
	for i := *index + 1; i < len(src); i++ {
		if src[i].Parent != stt.Name {
			break
		}
		if src[i].Type != network.LayerTypeInput || !del[src[i].Name] {
			p.emit(&src[i])
		}
		last := p.last()
		for j := range last.Src {
			if del[last.Src[j]] {
				last.Src[j] = rem
			}
		}
		*index++
	}
	return true
}

// transposeInnerProduct rewrites an InnerProduct carrying transposeB by
// materially transposing its weight matrix in the blob, so downstream
// kernels only ever see the standard layout.
func (p *pass) transposeInnerProduct(src []network.Layer, index *int) bool {
	ip := &src[*index]
	if ip.Type != network.LayerTypeInnerProduct || !ip.InnerProduct.TransposeB {
		return false
	}
	dim := ip.Weight[0].Dim
	offset := ip.Weight[0].Offset / 4
	buf := p.mutableWeights()
	out := p.emit(ip)
	out.InnerProduct.TransposeB = false
	out.Weight[0].Dim = network.Shp(dim[1], dim[0])
	pSrc := (*p.weights)[offset:]
	pDst := buf[offset:]
	for i := 0; i < dim[0]; i++ {
		for j := 0; j < dim[1]; j++ {
			pDst[j*dim[0]+i] = pSrc[i*dim[1]+j]
		}
	}
	return true
}
