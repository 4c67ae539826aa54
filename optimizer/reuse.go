// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package optimizer

import (
	"github.com/uboborov/Synet/network"
)

// canReuse lists the ops that may legally overwrite their input buffer.
func canReuse(layer *network.Layer) bool {
	switch layer.Type {
	case network.LayerTypeSigmoid, network.LayerTypeScale, network.LayerTypeEltwise,
		network.LayerTypeRelu, network.LayerTypeSqueezeExcitation:
		return true
	case network.LayerTypePooling:
		return layer.Pooling.Method == network.PoolingMethodMax &&
			layer.Pooling.Kernel.Equal(network.Shp(1, 1)) &&
			layer.Pooling.Stride.Equal(network.Shp(1, 1))
	}
	return false
}

// reuseLayers renames the output of every reuse-safe layer to its input,
// creating an explicit in-place annotation for the executor. Skipped
// entirely when quantization is enabled, because per-tensor statistics are
// keyed by output name.
func reuseLayers(net *network.Network) error {
	if net.Quantization.Method != network.QuantizationMethodUnknown {
		return nil
	}
	layers := net.Layers
	for i := range layers {
		layer := &layers[i]
		if len(layer.Src) == 0 {
			continue
		}
		if network.Users(layers, layer.Src[0], i+1, "") > 0 {
			continue
		}
		if i > 0 && layer.Src[0] == layers[i-1].Name && layers[i-1].Type == network.LayerTypeConst {
			continue
		}
		if network.Users(layers, layer.Dst[0], i+1, "") == 0 {
			continue
		}
		if net.HasOutput(layer) {
			continue
		}
		if !canReuse(layer) {
			continue
		}
		renameOne(change{from: layer.Dst[0], to: layer.Src[0]}, layers)
		layer.Dst[0] = layer.Src[0]
	}
	return nil
}

// isStub reports whether the layer is an identity in the rewritten graph:
// a Stub whose output is still consumed in the same parent scope or whose
// producer is a DetectionOutput, or a 1x1 max-pool with stride 1.
func isStub(layer *network.Layer, net *network.Network) bool {
	if layer.Type == network.LayerTypeStub {
		if network.Users(net.Layers, layer.Dst[0], 0, layer.Parent) > 0 {
			return true
		}
		if producer := network.Find(net.Layers, layer.Src[0]); producer != nil &&
			producer.Type == network.LayerTypeDetectionOutput {
			return true
		}
	}
	if layer.Type == network.LayerTypePooling && layer.Pooling.Method == network.PoolingMethodMax &&
		layer.Pooling.Kernel.Equal(network.Shp(1, 1)) && layer.Pooling.Stride.Equal(network.Shp(1, 1)) {
		return true
	}
	return false
}

// removeStub erases identity layers, rewiring their consumers directly to
// the producer.
func removeStub(net *network.Network) error {
	layers := net.Layers
	for i := 1; i < len(layers); i++ {
		layer := &layers[i]
		if !isStub(layer, net) {
			continue
		}
		if len(layer.Src) != 1 || len(layer.Dst) != 1 {
			continue
		}
		c := change{from: layer.Dst[0], to: layer.Src[0]}
		renameOne(c, layers)
		renameOutputs([]change{c}, net.Dst)
		layers = append(layers[:i], layers[i+1:]...)
		net.Layers = layers
		// The next layer has moved into slot i; examine it too.
		i--
	}
	net.Layers = layers
	return nil
}
