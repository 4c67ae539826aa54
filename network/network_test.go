// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package network

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerTypeStrings(t *testing.T) {
	assert.Equal(t, "Convolution", LayerTypeConvolution.String())
	assert.Equal(t, "SqueezeExcitation", LayerTypeSqueezeExcitation.String())
	assert.Equal(t, "RnnGruBd", LayerTypeRnnGruBd.String())

	for _, typ := range LayerTypeValues() {
		back, err := LayerTypeString(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, back)
	}

	_, err := LayerTypeString("NoSuchLayer")
	assert.Error(t, err)
}

func TestLayerJSONRoundTrip(t *testing.T) {
	layer := Layer{Name: "conv", Type: LayerTypeConvolution, Src: []string{"x"}, Dst: []string{"conv"}}
	layer.Convolution.OutputNum = 16
	layer.Convolution.Kernel = Shp(3, 3)
	layer.Convolution.BiasTerm = true
	layer.Weight = []Weight{{Dim: Shp(3, 3, 4, 16), Format: TensorFormatNhwc, Type: TensorType32f, Size: 2304}}

	raw, err := json.Marshal(&layer)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"Convolution"`)

	var back Layer
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, layer.Name, back.Name)
	assert.Equal(t, layer.Type, back.Type)
	assert.Equal(t, layer.Convolution, back.Convolution)
	assert.Equal(t, layer.Weight, back.Weight)
}

func TestLayerJSONDefaults(t *testing.T) {
	var layer Layer
	require.NoError(t, json.Unmarshal([]byte(`{"name":"p","type":"Power"}`), &layer))
	assert.Equal(t, float32(1), layer.Power.Power)
	assert.Equal(t, float32(1), layer.Power.Scale)
	assert.Equal(t, float32(0), layer.Power.Shift)
	assert.Equal(t, float32(1), layer.Elu.Alpha)

	require.NoError(t, json.Unmarshal([]byte(`{"name":"p","type":"Power","power":{"shift":3}}`), &layer))
	assert.Equal(t, float32(1), layer.Power.Power)
	assert.Equal(t, float32(3), layer.Power.Shift)
}

func TestConnectionAxisDefault(t *testing.T) {
	var c Connection
	require.NoError(t, json.Unmarshal([]byte(`{"src":"a","dst":"b"}`), &c))
	assert.Equal(t, -1, c.Axis)

	require.NoError(t, json.Unmarshal([]byte(`{"src":"a","dst":"b","axis":0}`), &c))
	assert.Equal(t, 0, c.Axis)
}

func TestUsersAndFind(t *testing.T) {
	layers := []Layer{
		{Name: "a", Type: LayerTypeInput, Dst: []string{"a"}},
		{Name: "b", Type: LayerTypeRelu, Src: []string{"a"}, Dst: []string{"b"}},
		{Name: "c", Type: LayerTypeRelu, Src: []string{"a"}, Dst: []string{"c"}, Parent: "ti"},
	}
	assert.Equal(t, 1, Users(layers, "a", 0, ""))
	assert.Equal(t, 1, Users(layers, "a", 0, "ti"))
	assert.Equal(t, 0, Users(layers, "a", 2, ""))

	require.NotNil(t, Find(layers, "b"))
	assert.Nil(t, Find(layers, "nope"))
}

func TestShape(t *testing.T) {
	assert.True(t, Shp(1, 1).Equal(Shape{1, 1}))
	assert.False(t, Shp(1, 1).Equal(Shp(1, 2)))
	assert.Equal(t, int64(24), Shp(2, 3, 4).Volume())
	assert.Equal(t, int64(1), Shape(nil).Volume())
}

func TestHasOutput(t *testing.T) {
	net := &Network{
		Layers: []Layer{{Name: "a", Dst: []string{"a"}}},
		Dst:    []string{"a"},
	}
	assert.True(t, net.HasOutput(&net.Layers[0]))
	other := Layer{Name: "b", Dst: []string{"b"}}
	assert.False(t, net.HasOutput(&other))
}
