// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uboborov/Synet/bin"
	"github.com/uboborov/Synet/network"
	"github.com/uboborov/Synet/optimizer"
)

func testNetwork() (*network.Network, bin.Floats) {
	conv := network.Layer{Name: "conv", Type: network.LayerTypeConvolution, Src: []string{"input"}, Dst: []string{"conv"}}
	conv.Convolution.OutputNum = 2
	conv.Convolution.Group = 1
	conv.Convolution.Kernel = network.Shp(1, 1)
	conv.Weight = []network.Weight{{
		Dim: network.Shp(1, 1, 2, 2), Format: network.TensorFormatNhwc,
		Type: network.TensorType32f, Offset: 0, Size: 16,
	}}
	scale := network.Layer{Name: "scale", Type: network.LayerTypeScale, Src: []string{"conv"}, Dst: []string{"scale"}}
	scale.Scale.BiasTerm = true
	scale.Weight = []network.Weight{
		{Dim: network.Shp(2), Format: network.TensorFormatNhwc, Type: network.TensorType32f, Offset: 16, Size: 8},
		{Dim: network.Shp(2), Format: network.TensorFormatNhwc, Type: network.TensorType32f, Offset: 24, Size: 8},
	}
	relu := network.Layer{Name: "relu", Type: network.LayerTypeRelu, Src: []string{"scale"}, Dst: []string{"relu"}}
	net := &network.Network{
		Layers: []network.Layer{
			{Name: "input", Type: network.LayerTypeInput, Dst: []string{"input"}},
			conv, scale, relu,
		},
		Dst: []string{"relu"},
	}
	return net, bin.Floats{0.5, -1, 2, 0.25, 3, -2, 0.1, 0.2}
}

func TestNetworkSaveLoadRoundTrip(t *testing.T) {
	net, _ := testNetwork()
	path := filepath.Join(t.TempDir(), "net.json")
	require.NoError(t, SaveNetwork(net, path))
	back, err := LoadNetwork(path)
	require.NoError(t, err)
	require.Len(t, back.Layers, len(net.Layers))
	for i := range net.Layers {
		assert.Equal(t, net.Layers[i].Name, back.Layers[i].Name)
		assert.Equal(t, net.Layers[i].Type, back.Layers[i].Type)
		assert.Equal(t, net.Layers[i].Src, back.Layers[i].Src)
		assert.Equal(t, net.Layers[i].Weight, back.Layers[i].Weight)
	}
	assert.Equal(t, net.Dst, back.Dst)
}

func TestOptimizeFiles(t *testing.T) {
	dir := t.TempDir()
	srcModel := filepath.Join(dir, "src.json")
	srcBin := filepath.Join(dir, "src.bin")
	dstModel := filepath.Join(dir, "dst.json")
	dstBin := filepath.Join(dir, "dst.bin")

	net, weights := testNetwork()
	require.NoError(t, SaveNetwork(net, srcModel))
	require.NoError(t, weights.Save(srcBin))

	require.NoError(t, Optimize(srcModel, srcBin, dstModel, dstBin, optimizer.DefaultOptions()))

	out, err := LoadNetwork(dstModel)
	require.NoError(t, err)
	require.Len(t, out.Layers, 2)
	fused := &out.Layers[1]
	assert.Equal(t, network.LayerTypeConvolution, fused.Type)
	assert.True(t, fused.Convolution.BiasTerm)
	assert.Equal(t, network.ActivationFunctionRelu, fused.Convolution.ActivationType)

	outBin, err := bin.Load(dstBin)
	require.NoError(t, err)
	assert.Equal(t, bin.Floats{1.5, 2, 6, -0.5, 3, -2, 0.1, 0.2}, outBin)
}

func TestLoadNetworkMissingFile(t *testing.T) {
	_, err := LoadNetwork(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
