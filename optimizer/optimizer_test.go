// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uboborov/Synet/bin"
	"github.com/uboborov/Synet/network"
)

func inputLayer(name string) network.Layer {
	return network.Layer{Name: name, Type: network.LayerTypeInput, Dst: []string{name}}
}

func reluLayer(name, src string) network.Layer {
	return network.Layer{Name: name, Type: network.LayerTypeRelu, Src: []string{src}, Dst: []string{name}}
}

func eltwiseLayer(name string, op network.EltwiseOperation, srcs ...string) network.Layer {
	layer := network.Layer{Name: name, Type: network.LayerTypeEltwise, Src: srcs, Dst: []string{name}}
	layer.Eltwise.Operation = op
	return layer
}

func powerLayer(name, src string, power, scale, shift float32) network.Layer {
	layer := network.Layer{Name: name, Type: network.LayerTypePower, Src: []string{src}, Dst: []string{name}}
	layer.Power = network.PowerParam{Power: power, Scale: scale, Shift: shift}
	return layer
}

func weightAt(offset int64, dims ...int) network.Weight {
	dim := network.Shp(dims...)
	return network.Weight{
		Dim:    dim,
		Format: network.TensorFormatNhwc,
		Type:   network.TensorType32f,
		Offset: offset,
		Size:   dim.Volume() * 4,
	}
}

func convLayer(name, src string, outputNum, group, kernel int, w network.Weight) network.Layer {
	layer := network.Layer{Name: name, Type: network.LayerTypeConvolution, Src: []string{src}, Dst: []string{name}}
	layer.Convolution.OutputNum = outputNum
	layer.Convolution.Group = group
	layer.Convolution.Kernel = network.Shp(kernel, kernel)
	layer.Weight = []network.Weight{w}
	return layer
}

func runDefault(t *testing.T, net *network.Network, weights bin.Floats) bin.Floats {
	t.Helper()
	require.NoError(t, New(DefaultOptions()).Run(net, &weights))
	requireTopological(t, net)
	return weights
}

// requireTopological asserts that every Src reference resolves to the Dst of
// an earlier layer.
func requireTopological(t *testing.T, net *network.Network) {
	t.Helper()
	seen := map[string]bool{}
	for i := range net.Layers {
		for _, src := range net.Layers[i].Src {
			assert.Truef(t, seen[src], "layer %q reads %q before it is produced", net.Layers[i].Name, src)
		}
		for _, dst := range net.Layers[i].Dst {
			seen[dst] = true
		}
	}
}

// conv1x1Nhwc applies a pointwise convolution with Nhwc weights [1,1,c,d] to
// a single pixel of c channels.
func conv1x1Nhwc(x, w []float32, c, d int) []float32 {
	y := make([]float32, d)
	for j := 0; j < d; j++ {
		for i := 0; i < c; i++ {
			y[j] += x[i] * w[i*d+j]
		}
	}
	return y
}

func TestMergeConvolutionScaleRelu(t *testing.T) {
	build := func() (*network.Network, bin.Floats) {
		conv := convLayer("conv", "input", 2, 1, 1, weightAt(0, 1, 1, 2, 2))
		scale := network.Layer{Name: "scale", Type: network.LayerTypeScale, Src: []string{"conv"}, Dst: []string{"scale"}}
		scale.Scale.BiasTerm = true
		scale.Weight = []network.Weight{weightAt(16, 2), weightAt(24, 2)}
		net := &network.Network{
			Layers: []network.Layer{inputLayer("input"), conv, scale, reluLayer("relu", "scale")},
			Dst:    []string{"relu"},
		}
		weights := bin.Floats{
			0.5, -1.0, 2.0, 0.25, // conv weights [1,1,2,2]
			3.0, -2.0, // scale
			0.1, 0.2, // bias
		}
		return net, weights
	}

	net, weights := build()
	weights = runDefault(t, net, weights)

	require.Len(t, net.Layers, 2)
	fused := &net.Layers[1]
	assert.Equal(t, network.LayerTypeConvolution, fused.Type)
	assert.True(t, fused.Convolution.BiasTerm)
	assert.Equal(t, network.ActivationFunctionRelu, fused.Convolution.ActivationType)
	require.Len(t, fused.Weight, 2)
	assert.Equal(t, int64(24), fused.Weight[1].Offset)

	// The output name survives through the final rename map.
	require.Len(t, net.Dst, 1)
	assert.Equal(t, fused.Name, net.Dst[0])

	// Scale(Conv(x)) before fusion must match Conv_fused(x) after.
	x := []float32{0.7, -1.3}
	_, original := build()
	pre := conv1x1Nhwc(x, original[0:4], 2, 2)
	for d := 0; d < 2; d++ {
		pre[d] = pre[d]*original[4+d] + original[6+d]
	}
	post := conv1x1Nhwc(x, weights[0:4], 2, 2)
	for d := 0; d < 2; d++ {
		post[d] += weights[6+d]
	}
	for d := 0; d < 2; d++ {
		assert.InEpsilon(t, pre[d], post[d], 1e-5)
	}
}

func TestMergeHswish(t *testing.T) {
	net := &network.Network{
		Layers: []network.Layer{
			inputLayer("x"),
			powerLayer("add3", "x", 1, 1, 3),
			func() network.Layer {
				layer := network.Layer{Name: "clamp", Type: network.LayerTypeRestrictRange, Src: []string{"add3"}, Dst: []string{"clamp"}}
				layer.RestrictRange.Upper = 6
				return layer
			}(),
			powerLayer("div6", "clamp", 1, 1.0/6.0, 0),
			eltwiseLayer("mul", network.EltwiseOperationProduct, "x", "div6"),
		},
		Dst: []string{"mul"},
	}
	runDefault(t, net, nil)

	require.Len(t, net.Layers, 2)
	hswish := &net.Layers[1]
	assert.Equal(t, network.LayerTypeHswish, hswish.Type)
	assert.Equal(t, "mul", hswish.Name)
	assert.Equal(t, []string{"x"}, hswish.Src)
	assert.Equal(t, float32(3), hswish.Hswish.Shift)
	assert.Equal(t, float32(1.0/6.0), hswish.Hswish.Scale)
}

func TestMergeHswishRejectsMismatchedClamp(t *testing.T) {
	net := &network.Network{
		Layers: []network.Layer{
			inputLayer("x"),
			powerLayer("add3", "x", 1, 1, 3),
			func() network.Layer {
				layer := network.Layer{Name: "clamp", Type: network.LayerTypeRestrictRange, Src: []string{"add3"}, Dst: []string{"clamp"}}
				layer.RestrictRange.Upper = 7 // not 2*shift
				return layer
			}(),
			powerLayer("div6", "clamp", 1, 1.0/6.0, 0),
			eltwiseLayer("mul", network.EltwiseOperationProduct, "x", "div6"),
		},
		Dst: []string{"mul"},
	}
	runDefault(t, net, nil)

	// Not an Hswish; the free-range clamp template picks it up instead.
	require.Len(t, net.Layers, 2)
	fused := &net.Layers[1]
	assert.Equal(t, network.LayerTypeFused, fused.Type)
	assert.Equal(t, 11, fused.Fused.Type)
	assert.Equal(t, []float32{3, 0, 7, 1.0 / 6.0}, fused.Fused.Floats)
}

func TestMergeMish(t *testing.T) {
	exp := network.Layer{Name: "exp", Type: network.LayerTypeUnaryOperation, Src: []string{"x"}, Dst: []string{"exp"}}
	exp.UnaryOperation.Type = network.UnaryOperationExp
	log := network.Layer{Name: "log", Type: network.LayerTypeUnaryOperation, Src: []string{"add1"}, Dst: []string{"log"}}
	log.UnaryOperation.Type = network.UnaryOperationLog
	tanh := network.Layer{Name: "tanh", Type: network.LayerTypeUnaryOperation, Src: []string{"log"}, Dst: []string{"tanh"}}
	tanh.UnaryOperation.Type = network.UnaryOperationTanh
	net := &network.Network{
		Layers: []network.Layer{
			inputLayer("x"),
			exp,
			powerLayer("add1", "exp", 1, 1, 1),
			log,
			tanh,
			eltwiseLayer("mul", network.EltwiseOperationProduct, "x", "tanh"),
		},
		Dst: []string{"mul"},
	}
	runDefault(t, net, nil)

	require.Len(t, net.Layers, 2)
	assert.Equal(t, network.LayerTypeMish, net.Layers[1].Type)
	assert.Equal(t, "mul", net.Layers[1].Name)
	assert.Equal(t, []string{"x"}, net.Layers[1].Src)
}

func TestMergePrelu(t *testing.T) {
	build := func(slopes []float32) (*network.Network, bin.Floats) {
		scale := network.Layer{Name: "neg", Type: network.LayerTypeScale, Src: []string{"x"}, Dst: []string{"neg"}}
		scale.Scale.Axis = 1
		scale.Weight = []network.Weight{weightAt(0, len(slopes))}
		net := &network.Network{
			Layers: []network.Layer{
				inputLayer("x"),
				scale,
				eltwiseLayer("prelu", network.EltwiseOperationMax, "neg", "x"),
			},
			Dst: []string{"prelu"},
		}
		return net, bin.Floats(slopes)
	}

	t.Run("slopes_in_range", func(t *testing.T) {
		net, weights := build([]float32{0.25, -0.5, 1})
		runDefault(t, net, weights)
		require.Len(t, net.Layers, 2)
		prelu := &net.Layers[1]
		assert.Equal(t, network.LayerTypePrelu, prelu.Type)
		assert.Equal(t, "prelu", prelu.Name)
		assert.Equal(t, 1, prelu.Prelu.Axis)
		require.Len(t, prelu.Weight, 1)
	})

	t.Run("slope_out_of_range", func(t *testing.T) {
		net, weights := build([]float32{0.25, 1.5, 1})
		runDefault(t, net, weights)
		assert.Len(t, net.Layers, 3)
	})
}

func TestMergeSoftmax(t *testing.T) {
	rmax := network.Layer{Name: "max", Type: network.LayerTypeReduction, Src: []string{"x"}, Dst: []string{"max"}}
	rmax.Reduction.Type = network.ReductionTypeMax
	rmax.Reduction.Axis = []int{1}
	sub := network.Layer{Name: "sub", Type: network.LayerTypeBinaryOperation, Src: []string{"x", "max"}, Dst: []string{"sub"}}
	sub.BinaryOperation.Type = network.BinaryOperationSub
	exp := network.Layer{Name: "exp", Type: network.LayerTypeUnaryOperation, Src: []string{"sub"}, Dst: []string{"exp"}}
	exp.UnaryOperation.Type = network.UnaryOperationExp
	rsum := network.Layer{Name: "sum", Type: network.LayerTypeReduction, Src: []string{"exp"}, Dst: []string{"sum"}}
	rsum.Reduction.Type = network.ReductionTypeSum
	rsum.Reduction.Axis = []int{1}
	div := network.Layer{Name: "div", Type: network.LayerTypeBinaryOperation, Src: []string{"exp", "sum"}, Dst: []string{"div"}}
	div.BinaryOperation.Type = network.BinaryOperationDiv

	net := &network.Network{
		Layers: []network.Layer{inputLayer("x"), rmax, sub, exp, rsum, div},
		Dst:    []string{"div"},
	}
	runDefault(t, net, nil)

	require.Len(t, net.Layers, 2)
	softmax := &net.Layers[1]
	assert.Equal(t, network.LayerTypeSoftmax, softmax.Type)
	assert.Equal(t, "div", softmax.Name)
	assert.Equal(t, 1, softmax.Softmax.Axis)
	assert.Equal(t, []string{"x"}, softmax.Src)
}

func TestRemoveStub(t *testing.T) {
	conv := convLayer("conv", "input", 2, 1, 1, weightAt(0, 1, 1, 2, 2))
	stub := network.Layer{Name: "stub", Type: network.LayerTypeStub, Src: []string{"conv"}, Dst: []string{"stub"}}
	det := network.Layer{Name: "det", Type: network.LayerTypeDetectionOutput, Src: []string{"stub"}, Dst: []string{"det"}}
	net := &network.Network{
		Layers: []network.Layer{inputLayer("input"), conv, stub, det},
		Dst:    []string{"det"},
	}
	runDefault(t, net, bin.Floats{1, 2, 3, 4})

	require.Len(t, net.Layers, 3)
	assert.Equal(t, network.LayerTypeDetectionOutput, net.Layers[2].Type)
	assert.Equal(t, []string{"conv"}, net.Layers[2].Src)
}

func TestMergeThreeConvolutionsInt8Residual(t *testing.T) {
	w0 := weightAt(0, 1, 1, 4, 8)
	w1 := weightAt(w0.Offset+w0.Size, 3, 3, 1, 8)
	w2 := weightAt(w1.Offset+w1.Size, 1, 1, 8, 4)
	l0 := convLayer("pw0", "x", 8, 1, 1, w0)
	l0.Convolution.QuantizationLevel = network.TensorType8i
	l1 := convLayer("dw", "pw0", 8, 8, 3, w1)
	l2 := convLayer("pw1", "dw", 4, 1, 1, w2)
	l2.Convolution.QuantizationLevel = network.TensorType8i
	sum := eltwiseLayer("sum", network.EltwiseOperationSum, "x", "pw1")
	net := &network.Network{
		Layers: []network.Layer{inputLayer("x"), l0, l1, l2, sum, reluLayer("relu", "sum")},
		Dst:    []string{"relu"},
	}
	weights := make(bin.Floats, (w2.Offset+w2.Size)/4)
	runDefault(t, net, weights)

	require.Len(t, net.Layers, 2)
	merged := &net.Layers[1]
	assert.Equal(t, network.LayerTypeMergedConvolution, merged.Type)
	assert.Equal(t, "relu", merged.Name)
	require.Len(t, merged.MergedConvolution.Conv, 3)
	assert.True(t, merged.MergedConvolution.Add)
	assert.Equal(t, network.ActivationFunctionRelu, merged.MergedConvolution.Conv[2].ActivationType)
	assert.Equal(t, []string{"pw0", "dw"}, merged.Origin)
	assert.Len(t, merged.Weight, 3)
	assert.Equal(t, []string{"x"}, merged.Src)
}

func TestMergeTwoConvolutions(t *testing.T) {
	w0 := weightAt(0, 3, 3, 1, 8)
	w1 := weightAt(w0.Offset+w0.Size, 1, 1, 8, 16)
	dw := convLayer("dw", "x", 8, 8, 3, w0)
	pw := convLayer("pw", "dw", 16, 1, 1, w1)
	net := &network.Network{
		Layers: []network.Layer{inputLayer("x"), dw, pw},
		Dst:    []string{"pw"},
	}
	weights := make(bin.Floats, (w1.Offset+w1.Size)/4)
	runDefault(t, net, weights)

	require.Len(t, net.Layers, 2)
	merged := &net.Layers[1]
	assert.Equal(t, network.LayerTypeMergedConvolution, merged.Type)
	assert.Equal(t, "pw", merged.Name)
	require.Len(t, merged.MergedConvolution.Conv, 2)
	assert.False(t, merged.MergedConvolution.Add)
	assert.Empty(t, merged.Origin)

	t.Run("disabled_by_option", func(t *testing.T) {
		net := &network.Network{
			Layers: []network.Layer{inputLayer("x"), dw.Clone(), pw.Clone()},
			Dst:    []string{"pw"},
		}
		options := DefaultOptions()
		options.MergeTwoConvolutions = false
		local := make(bin.Floats, (w1.Offset+w1.Size)/4)
		require.NoError(t, New(options).Run(net, &local))
		assert.Len(t, net.Layers, 3)
	})
}

func TestMergeSqueezeExcitation(t *testing.T) {
	pool := network.Layer{Name: "pool", Type: network.LayerTypePooling, Src: []string{"x"}, Dst: []string{"pool"}}
	pool.Pooling.Method = network.PoolingMethodAverage
	pool.Pooling.Kernel = network.Shp(7, 7)
	w1 := weightAt(0, 1, 1, 8, 2)
	w2 := weightAt(w1.Size, 1, 1, 2, 8)
	c1 := convLayer("fc1", "pool", 2, 1, 1, w1)
	c1.Convolution.ActivationType = network.ActivationFunctionRelu
	c2 := convLayer("fc2", "fc1", 8, 1, 1, w2)
	sig := network.Layer{Name: "sig", Type: network.LayerTypeSigmoid, Src: []string{"fc2"}, Dst: []string{"sig"}}
	mul := eltwiseLayer("mul", network.EltwiseOperationProduct, "x", "sig")
	net := &network.Network{
		Layers: []network.Layer{inputLayer("x"), pool, c1, c2, sig, mul},
		Dst:    []string{"mul"},
	}
	weights := make(bin.Floats, (w2.Offset+w2.Size)/4)
	runDefault(t, net, weights)

	require.Len(t, net.Layers, 2)
	se := &net.Layers[1]
	assert.Equal(t, network.LayerTypeSqueezeExcitation, se.Type)
	assert.Equal(t, "mul", se.Name)
	assert.Equal(t, []string{"x"}, se.Src)
	require.Len(t, se.Weight, 2)
	assert.Equal(t, w1, se.Weight[0])
	assert.Equal(t, w2, se.Weight[1])
}

func TestMergeRnnGruBd(t *testing.T) {
	body := func(name string, typ network.LayerType, src ...string) network.Layer {
		layer := network.Layer{Name: name, Type: typ, Parent: "ti", Dst: []string{name}}
		layer.Src = src
		return layer
	}
	ti := network.Layer{Name: "ti", Type: network.LayerTypeTensorIterator, Src: []string{"x", "h"}, Dst: []string{"ti"}}
	ti.TensorIterator.Back = []network.Connection{{Src: "b16", Dst: "b0", Axis: -1}}
	ipW := func(offset int64) []network.Weight {
		return []network.Weight{weightAt(offset, 4, 2), weightAt(offset+32, 4)}
	}
	b5 := body("b5", network.LayerTypeInnerProduct, "b4")
	b5.Weight = ipW(0)
	b12 := body("b12", network.LayerTypeInnerProduct, "b11")
	b12.Weight = ipW(48)
	b9 := body("b9", network.LayerTypePower, "b7")
	b9.Power = network.PowerParam{Power: 1, Scale: -1, Shift: 1}

	layers := []network.Layer{
		inputLayer("x"), inputLayer("h"), ti,
		body("b0", network.LayerTypeInput),
		body("b1", network.LayerTypeMeta, "b0"),
		body("b2", network.LayerTypeSqueeze, "b0"),
		body("b3", network.LayerTypeInput),
		body("b4", network.LayerTypeConcat, "b2"),
		b5,
		body("b6", network.LayerTypeSigmoid, "b5"),
		body("b7", network.LayerTypeUnpack, "b6"),
		body("b8", network.LayerTypeEltwise, "b7", "b3"),
		b9,
		body("b10", network.LayerTypeEltwise, "b9", "b3"),
		body("b11", network.LayerTypeConcat, "b10"),
		b12,
		body("b13", network.LayerTypeUnaryOperation, "b12"),
		body("b14", network.LayerTypeEltwise, "b13", "b8"),
		body("b15", network.LayerTypeEltwise, "b14", "b10"),
		body("b16", network.LayerTypeStub, "b15"),
		body("b17", network.LayerTypeExpandDims, "b16"),
		body("b18", network.LayerTypeStub, "b17"),
		func() network.Layer {
			layer := network.Layer{Name: "out", Type: network.LayerTypeSoftmax, Src: []string{"ti"}, Dst: []string{"out"}}
			return layer
		}(),
	}
	net := &network.Network{Layers: layers, Dst: []string{"out"}}
	weights := make(bin.Floats, 32)
	require.NoError(t, New(DefaultOptions()).Run(net, &weights))

	require.Len(t, net.Layers, 7)
	assert.Equal(t, network.LayerTypeInput, net.Layers[3].Type)
	assert.Equal(t, "b0", net.Layers[3].Name)
	assert.Equal(t, network.LayerTypeInput, net.Layers[4].Type)
	assert.Equal(t, "b3", net.Layers[4].Name)
	gru := &net.Layers[5]
	assert.Equal(t, network.LayerTypeRnnGruBd, gru.Type)
	assert.Equal(t, "ti_RnnGruBd", gru.Name)
	assert.Equal(t, "ti", gru.Parent)
	assert.Equal(t, []string{"b0", "b3"}, gru.Src)
	assert.Equal(t, []string{"b18", "b16"}, gru.Dst)
	require.Len(t, gru.Weight, 4)
}

func TestTransposeInnerProduct(t *testing.T) {
	ip := network.Layer{Name: "ip", Type: network.LayerTypeInnerProduct, Src: []string{"x"}, Dst: []string{"ip"}}
	ip.InnerProduct.TransposeB = true
	ip.Weight = []network.Weight{weightAt(0, 2, 3)}
	net := &network.Network{
		Layers: []network.Layer{inputLayer("x"), ip},
		Dst:    []string{"ip"},
	}
	weights := bin.Floats{1, 2, 3, 4, 5, 6}
	out := runDefault(t, net, weights)

	result := &net.Layers[1]
	assert.False(t, result.InnerProduct.TransposeB)
	assert.Equal(t, network.Shp(3, 2), result.Weight[0].Dim)
	assert.Equal(t, bin.Floats{1, 4, 2, 5, 3, 6}, out)

	// y = x*W^T before must equal y = x*W' after.
	x := []float32{0.5, -2, 3}
	for i := 0; i < 2; i++ {
		var pre, post float32
		for j := 0; j < 3; j++ {
			pre += x[j] * weights[i*3+j]
			post += x[j] * out[j*2+i]
		}
		assert.Equal(t, pre, post)
	}
}

func TestMergeCurrentAndBiasUpgradesPower(t *testing.T) {
	power := powerLayer("pw", "x", 1, 2.5, 0)
	biasL := network.Layer{Name: "b", Type: network.LayerTypeBias, Src: []string{"pw"}, Dst: []string{"b"}}
	biasL.Weight = []network.Weight{weightAt(0, 4)}
	net := &network.Network{
		Layers: []network.Layer{inputLayer("x"), power, biasL},
		Dst:    []string{"b"},
	}
	weights := bin.Floats{0.1, 0.2, 0.3, 0.4}
	out := runDefault(t, net, weights)

	require.Len(t, net.Layers, 2)
	merged := &net.Layers[1]
	assert.Equal(t, network.LayerTypeScale, merged.Type)
	assert.Equal(t, "b", merged.Name)
	assert.True(t, merged.Scale.BiasTerm)
	require.Len(t, merged.Weight, 2)
	// The multiplier vector was materialized at the old blob tail.
	assert.Equal(t, int64(16), merged.Weight[0].Offset)
	assert.Equal(t, int64(0), merged.Weight[1].Offset)
	require.Len(t, out, 8)
	assert.Equal(t, bin.Floats{2.5, 2.5, 2.5, 2.5}, out[4:8])
}

func TestMergeFused11(t *testing.T) {
	clamp := network.Layer{Name: "clamp", Type: network.LayerTypeRestrictRange, Src: []string{"add"}, Dst: []string{"clamp"}}
	clamp.RestrictRange.Lower = -1
	clamp.RestrictRange.Upper = 4
	net := &network.Network{
		Layers: []network.Layer{
			inputLayer("x"),
			powerLayer("add", "x", 1, 1, 0.5),
			clamp,
			powerLayer("mul2", "clamp", 1, 2, 0),
			eltwiseLayer("mul", network.EltwiseOperationProduct, "x", "mul2"),
		},
		Dst: []string{"mul"},
	}
	runDefault(t, net, nil)

	require.Len(t, net.Layers, 2)
	fused := &net.Layers[1]
	assert.Equal(t, network.LayerTypeFused, fused.Type)
	assert.Equal(t, 11, fused.Fused.Type)
	assert.Equal(t, []float32{0.5, -1, 4, 2}, fused.Fused.Floats)
}

func TestMergeFused2(t *testing.T) {
	conv := convLayer("conv", "x", 4, 1, 3, weightAt(0, 3, 3, 2, 4))
	bn := network.Layer{Name: "bn", Type: network.LayerTypeBatchNorm, Src: []string{"conv"}, Dst: []string{"conv"}}
	bn.BatchNorm = network.BatchNormParam{Eps: 1e-5, UseGlobalStats: true, YoloCompatible: true}
	bn.Weight = []network.Weight{weightAt(288, 4), weightAt(304, 4)}
	sc := network.Layer{Name: "sc", Type: network.LayerTypeScale, Src: []string{"conv"}, Dst: []string{"conv"}}
	sc.Scale.Axis = 1
	sc.Scale.BiasTerm = true
	sc.Weight = []network.Weight{weightAt(320, 4), weightAt(336, 4)}
	relu := network.Layer{Name: "relu", Type: network.LayerTypeRelu, Src: []string{"conv"}, Dst: []string{"conv"}}
	net := &network.Network{
		Layers: []network.Layer{inputLayer("x"), conv, bn, sc, relu},
		Dst:    []string{"conv"},
	}
	weights := make(bin.Floats, 88)
	runDefault(t, net, weights)

	require.Len(t, net.Layers, 3)
	fused := &net.Layers[2]
	assert.Equal(t, network.LayerTypeFused, fused.Type)
	assert.Equal(t, 2, fused.Fused.Type)
	assert.Equal(t, "relu", fused.Name)
	assert.Equal(t, []string{"conv"}, fused.Src)
	require.Len(t, fused.Weight, 4)
	assert.Equal(t, []float32{1e-5, 0}, fused.Fused.Floats)
}

func TestInsideLinkBlocksFusion(t *testing.T) {
	// A second consumer of the clamp output must block the Hswish fusion.
	clamp := network.Layer{Name: "clamp", Type: network.LayerTypeRestrictRange, Src: []string{"add3"}, Dst: []string{"clamp"}}
	clamp.RestrictRange.Upper = 6
	net := &network.Network{
		Layers: []network.Layer{
			inputLayer("x"),
			powerLayer("add3", "x", 1, 1, 3),
			clamp,
			powerLayer("div6", "clamp", 1, 1.0/6.0, 0),
			eltwiseLayer("mul", network.EltwiseOperationProduct, "x", "div6"),
			reluLayer("extra", "clamp"),
		},
		Dst: []string{"mul", "extra"},
	}
	runDefault(t, net, nil)
	for i := range net.Layers {
		assert.NotEqual(t, network.LayerTypeHswish, net.Layers[i].Type)
	}
}

func TestInsideLink(t *testing.T) {
	layers := []network.Layer{
		inputLayer("a"),
		reluLayer("b", "a"),
		reluLayer("c", "b"),
		reluLayer("d", "b"),
	}
	// Window [b, c]: "d" reads the interior layer "b".
	assert.True(t, insideLink(layers, 1, 2, 0))
	// Window [c, d]: nothing after the window.
	assert.False(t, insideLink(layers, 2, 2, 0))
	// Ignored types do not count as consumers.
	layers[3].Type = network.LayerTypeMeta
	assert.False(t, insideLink(layers, 1, 2, 0, network.LayerTypeMeta))
}

func TestRenamePropagatesThroughInPlaceChain(t *testing.T) {
	layers := []network.Layer{
		inputLayer("a"),
		reluLayer("b", "a"),
		{Name: "c", Type: network.LayerTypeSigmoid, Src: []string{"b"}, Dst: []string{"b"}},
		{Name: "d", Type: network.LayerTypeSoftmax, Src: []string{"b"}, Dst: []string{"d"}},
	}
	renameOne(change{from: "b", to: "a"}, layers)
	assert.Equal(t, []string{"a"}, layers[2].Src)
	assert.Equal(t, []string{"a"}, layers[2].Dst)
	assert.Equal(t, []string{"a"}, layers[3].Src)
	assert.Equal(t, []string{"d"}, layers[3].Dst)
}

func TestReuseLayers(t *testing.T) {
	build := func(method network.QuantizationMethod) *network.Network {
		sig := network.Layer{Name: "sig", Type: network.LayerTypeSigmoid, Src: []string{"x"}, Dst: []string{"sig"}}
		soft := network.Layer{Name: "out", Type: network.LayerTypeSoftmax, Src: []string{"sig"}, Dst: []string{"out"}}
		net := &network.Network{
			Layers: []network.Layer{inputLayer("x"), sig, soft},
			Dst:    []string{"out"},
		}
		net.Quantization.Method = method
		return net
	}

	t.Run("aliases_in_place", func(t *testing.T) {
		net := build(network.QuantizationMethodUnknown)
		runDefault(t, net, nil)
		require.Len(t, net.Layers, 3)
		assert.Equal(t, []string{"x"}, net.Layers[1].Dst)
		assert.Equal(t, []string{"x"}, net.Layers[2].Src)
	})

	t.Run("skipped_when_quantized", func(t *testing.T) {
		net := build(network.QuantizationMethodIECompatible)
		runDefault(t, net, nil)
		assert.Equal(t, []string{"sig"}, net.Layers[1].Dst)
	})
}

func TestIdempotence(t *testing.T) {
	conv := convLayer("conv", "input", 2, 1, 1, weightAt(0, 1, 1, 2, 2))
	scale := network.Layer{Name: "scale", Type: network.LayerTypeScale, Src: []string{"conv"}, Dst: []string{"scale"}}
	scale.Scale.BiasTerm = true
	scale.Weight = []network.Weight{weightAt(16, 2), weightAt(24, 2)}
	net := &network.Network{
		Layers: []network.Layer{inputLayer("input"), conv, scale, reluLayer("relu", "scale")},
		Dst:    []string{"relu"},
	}
	weights := bin.Floats{0.5, -1, 2, 0.25, 3, -2, 0.1, 0.2}
	require.NoError(t, New(DefaultOptions()).Run(net, &weights))

	once := make([]network.Layer, len(net.Layers))
	for i := range net.Layers {
		once[i] = net.Layers[i].Clone()
	}
	onceWeights := append(bin.Floats(nil), weights...)

	require.NoError(t, New(DefaultOptions()).Run(net, &weights))
	assert.Equal(t, once, net.Layers)
	assert.Equal(t, onceWeights, weights)
}

func TestDeterminism(t *testing.T) {
	build := func() (*network.Network, bin.Floats) {
		conv := convLayer("conv", "input", 2, 1, 1, weightAt(0, 1, 1, 2, 2))
		scale := network.Layer{Name: "scale", Type: network.LayerTypeScale, Src: []string{"conv"}, Dst: []string{"scale"}}
		scale.Scale.BiasTerm = true
		scale.Weight = []network.Weight{weightAt(16, 2), weightAt(24, 2)}
		net := &network.Network{
			Layers: []network.Layer{inputLayer("input"), conv, scale, reluLayer("relu", "scale")},
			Dst:    []string{"relu"},
		}
		return net, bin.Floats{0.5, -1, 2, 0.25, 3, -2, 0.1, 0.2}
	}
	netA, weightsA := build()
	netB, weightsB := build()
	require.NoError(t, New(DefaultOptions()).Run(netA, &weightsA))
	require.NoError(t, New(DefaultOptions()).Run(netB, &weightsB))
	assert.Equal(t, netA, netB)
	assert.Equal(t, weightsA, weightsB)
}

func TestUnknownStagePanics(t *testing.T) {
	o := New(DefaultOptions())
	net := &network.Network{Layers: []network.Layer{inputLayer("x")}}
	var weights bin.Floats
	assert.Panics(t, func() {
		_ = o.optimizeLayers(net, &weights, stageCount)
	})
}
