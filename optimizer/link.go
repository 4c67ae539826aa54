// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package optimizer

import (
	"math"
	"slices"

	"github.com/uboborov/Synet/network"
)

// insideLink reports whether any layer after the window [start, start+count)
// (plus skip extra positions) consumes an interior node of the window. The
// last layer of the window is excluded: the fused output adopts its name.
// Layers of an ignored type do not count as consumers.
func insideLink(src []network.Layer, start, count, skip int, ignored ...network.LayerType) bool {
	for i := start + count + skip; i < len(src); i++ {
		if slices.Contains(ignored, src[i].Type) {
			continue
		}
		for _, name := range src[i].Src {
			for k := 0; k < count-1; k++ {
				if name == src[start+k].Name {
					return true
				}
			}
		}
	}
	return false
}

// isSub recognizes a subtraction spelled either as an Eltwise sum with
// coefficients {1, -1} or as a BinaryOperation sub.
func isSub(layer *network.Layer) bool {
	if layer.Type == network.LayerTypeEltwise && layer.Eltwise.Operation == network.EltwiseOperationSum &&
		slices.Equal(layer.Eltwise.Coefficients, []float32{1, -1}) {
		return true
	}
	if layer.Type == network.LayerTypeBinaryOperation && layer.BinaryOperation.Type == network.BinaryOperationSub {
		return true
	}
	return false
}

// equal compares floats with the matcher tolerance.
func equal(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-6
}
