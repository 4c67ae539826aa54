// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package quant

import (
	"math"

	"github.com/pkg/errors"

	"github.com/uboborov/Synet/bin"
	"github.com/uboborov/Synet/network"
)

// Conv8i is the quantized form of one 8-bit convolution: int8 weights in
// the same logical order as the float source, the per-channel int32
// (multiplier, bias) pairs applied to the accumulators, and the float
// conversion of the result to the destination domain.
type Conv8i struct {
	// Weight holds the quantized weights, Nhwc or Nchw like the source.
	Weight []int8

	// Norm is a length 2*dstC array: multipliers first, then the quantized
	// biases (which include the zero-point compensation).
	Norm []int32

	// Scale and Shift convert the normalized int32 accumulator to the
	// output domain, one pair per output channel.
	Scale []float32
	Shift []float32
}

// ConvOptions tune one quantization run.
type ConvOptions struct {
	// Dst8u requests conversion parameters targeting a uint8 destination
	// tensor; otherwise the output stays float and only the multiplier path
	// is filled.
	Dst8u bool

	// LegacyNorm reproduces the historical normalization that divided by
	// the forward scale instead of multiplying by its stored inverse. The
	// two differ by one rounding of the reciprocal.
	LegacyNorm bool
}

// biasRange bounds the quantized bias contribution relative to the weights:
// |bias| / (128*256*256) competes with the largest normalized weight when
// choosing the channel scale, keeping the bias representable in int32.
const biasRange = 128 * 256 * 256

// quantizeTo8i rounds half away from zero and clamps to [lo, up].
func quantizeTo8i(value, scale float32, lo, up int) int {
	w := int(math.Round(float64(value * scale)))
	return min(max(w, lo), up)
}

// round32i rounds half away from zero into an int32.
func round32i(value float32) int32 {
	return int32(math.Round(float64(value)))
}

// QuantizeConvolution quantizes the weights of an 8-bit convolution layer.
// statSrc describes the per-input-channel source ranges, statDst the
// per-output-channel destination ranges; both must already be initialized
// for uint8 (Init8u). Grouped and depthwise convolutions walk their weight
// block per group, exactly as the float kernels do.
func QuantizeConvolution(layer *network.Layer, weights bin.Floats, statSrc, statDst *Statistics,
	method network.QuantizationMethod, opts ConvOptions) (*Conv8i, error) {
	if layer.Type != network.LayerTypeConvolution {
		return nil, errors.Errorf("cannot quantize %s layer %q", layer.Type, layer.Name)
	}
	conv := &layer.Convolution
	if conv.QuantizationLevel != network.TensorType8i {
		return nil, errors.Errorf("layer %q is not an 8-bit convolution", layer.Name)
	}
	if len(layer.Weight) == 0 {
		return nil, errors.Errorf("layer %q has no weights", layer.Name)
	}
	var wLo, wUp int
	switch method {
	case network.QuantizationMethodIECompatible:
		wLo, wUp = -ieCompatibleWeight, ieCompatibleWeight
	case network.QuantizationMethodSymmetricNarrowed:
		wLo, wUp = -symmNarrowedWeight, symmNarrowedWeight
	default:
		return nil, errors.Errorf("quantization method %s does not define a weight range", method)
	}

	desc := layer.Weight[0]
	trans := desc.Format == network.TensorFormatNhwc
	group := max(conv.Group, 1)
	dstC := conv.OutputNum
	var kernel, srcC int
	if trans {
		// Nhwc weights: [kY, kX, srcC/group, dstC].
		kernel = desc.Dim[0] * desc.Dim[1]
		srcC = desc.Dim[2] * group
	} else {
		// Nchw weights: [dstC, srcC/group, kY, kX].
		kernel = desc.Dim[2] * desc.Dim[3]
		srcC = desc.Dim[1] * group
	}
	if dstC%group != 0 || srcC%group != 0 {
		return nil, errors.Errorf("layer %q: %d outputs and %d inputs do not divide into %d groups",
			layer.Name, dstC, srcC, group)
	}
	if len(statSrc.Scale32fTo8u) < srcC {
		return nil, errors.Errorf("layer %q: source statistics cover %d of %d channels",
			layer.Name, len(statSrc.Scale32fTo8u), srcC)
	}
	if len(statDst.Scale32fTo8u) < dstC {
		return nil, errors.Errorf("layer %q: destination statistics cover %d of %d channels",
			layer.Name, len(statDst.Scale32fTo8u), dstC)
	}

	srcW := weights[desc.Offset/4 : desc.Offset/4+desc.Dim.Volume()]
	var srcB []float32
	if conv.BiasTerm {
		b := layer.Weight[1]
		srcB = weights[b.Offset/4 : b.Offset/4+b.Dim.Volume()]
	}

	D := dstC / group
	C := srcC / group
	K := kernel
	CK := C * K
	GD := group * D
	avoidOverflow := statSrc.Negative && method == network.QuantizationMethodIECompatible

	out := &Conv8i{
		Weight: make([]int8, len(srcW)),
		Norm:   make([]int32, 2*dstC),
		Scale:  make([]float32, dstC),
		Shift:  make([]float32, dstC),
	}
	mult := out.Norm[:dstC]
	biasQ := out.Norm[dstC:]
	normW := make([]float32, CK)

	// Per-group offsets into the weight block and the channel-indexed stats.
	var wOff, bOff, cOff, dOff int
	for g := 0; g < group; g++ {
		for d := 0; d < D; d++ {
			normB := float32(0)
			minW := float32(math.MaxFloat32)
			maxW := float32(-math.MaxFloat32)
			at := func(kc int) int {
				if trans {
					return wOff + kc*GD + d
				}
				return wOff + d*CK + kc
			}
			for k, kc := 0, 0; k < K; k++ {
				for c := 0; c < C; c++ {
					var idx int
					if trans {
						idx = kc
					} else {
						idx = c*K + k
					}
					w := srcW[at(idx)]
					if opts.LegacyNorm {
						normW[idx] = w / statSrc.Scale32fTo8u[cOff+c]
					} else {
						normW[idx] = w * statSrc.Scale8uTo32f[cOff+c]
					}
					minW = min(minW, normW[idx])
					maxW = max(maxW, normW[idx])
					kc++
				}
			}
			abs := max(float32(math.Abs(float64(maxW))), float32(math.Abs(float64(minW))))
			if srcB != nil {
				abs = max(abs, float32(math.Abs(float64(srcB[bOff+d])))/float32(biasRange))
			}
			if abs == 0 {
				abs = 1
			}
			scale := float32(wUp) / abs
			for k := 0; k < K; k++ {
				for c := 0; c < C; c++ {
					var idx int
					if trans {
						idx = k*C + c
					} else {
						idx = c*K + k
					}
					pos := at(idx)
					shiftSrc := statSrc.Shift32fTo8u[cOff+c]
					if avoidOverflow {
						// Even weights halve exactly; odd ones round to the
						// nearest multiple of four first. The halved weights
						// get their factor of two back through the channel
						// multiplier.
						w := quantizeTo8i(normW[idx], scale, wLo, wUp)
						if w&1 != 0 {
							w = int(math.Round(float64(w)*0.25)) * 4
						}
						out.Weight[pos] = int8(w / 2)
						normB -= float32(w) * shiftSrc
					} else {
						w := quantizeTo8i(normW[idx], scale, wLo, wUp)
						out.Weight[pos] = int8(w)
						normB -= float32(w) * shiftSrc
					}
				}
			}
			if avoidOverflow {
				mult[dOff+d] = 2
			} else {
				mult[dOff+d] = 1
			}
			if srcB != nil {
				normB += srcB[bOff+d] * scale
			}
			biasQ[dOff+d] = round32i(normB)
			if opts.Dst8u {
				out.Scale[dOff+d] = (1 / scale) * statDst.Scale32fTo8u[dOff+d]
				out.Shift[dOff+d] = -statDst.Shift8uTo32f[dOff+d] / statDst.Scale8uTo32f[dOff+d]
			} else {
				out.Scale[dOff+d] = 1 / scale
				out.Shift[dOff+d] = 0
			}
		}
		if trans {
			wOff += D
		} else {
			wOff += CK * D
		}
		bOff += D
		dOff += D
		cOff += C
	}
	return out, nil
}
