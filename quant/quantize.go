// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package quant

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"k8s.io/klog/v2"

	"github.com/uboborov/Synet/bin"
	"github.com/uboborov/Synet/network"
)

// Names returns the tensor names with calibration records, sorted.
func (r Registry) Names() []string {
	names := maps.Keys(r)
	slices.Sort(names)
	return names
}

// QuantizeNetwork quantizes every 8-bit convolution of the network, keyed
// by layer name. Statistics are resolved through each layer's Src, Dst and
// Origin names and initialized for uint8 on first use.
func QuantizeNetwork(net *network.Network, weights bin.Floats, stats Registry, opts ConvOptions) (map[string]*Conv8i, error) {
	method := net.Quantization.Method
	if method == network.QuantizationMethodUnknown {
		return nil, errors.Errorf("network carries no quantization method")
	}
	out := make(map[string]*Conv8i)
	for i := range net.Layers {
		layer := &net.Layers[i]
		if layer.Type != network.LayerTypeConvolution ||
			layer.Convolution.QuantizationLevel != network.TensorType8i {
			continue
		}
		statSrc, statDst := stats.ForLayer(layer)
		if statSrc == nil || statDst == nil {
			return nil, errors.Errorf("no calibration statistics for layer %q (have: %s)",
				layer.Name, strings.Join(stats.Names(), ", "))
		}
		if err := statSrc.Init8u(method); err != nil {
			return nil, errors.WithMessagef(err, "source statistics of %q", layer.Name)
		}
		if err := statDst.Init8u(method); err != nil {
			return nil, errors.WithMessagef(err, "destination statistics of %q", layer.Name)
		}
		conv, err := QuantizeConvolution(layer, weights, statSrc, statDst, method, opts)
		if err != nil {
			return nil, err
		}
		klog.V(2).Infof("quantized %q: %d weights, %d output channels", layer.Name, len(conv.Weight), len(conv.Scale))
		out[layer.Name] = conv
	}
	return out, nil
}
