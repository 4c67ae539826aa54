// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

// Package quant implements the int8 weight quantization performed during
// model preparation: per-output-channel symmetric weight scaling, bias
// compensation for the asymmetric input zero point, and the output
// conversion parameters the executor applies to the int32 accumulators.
package quant

import (
	"math"

	"github.com/pkg/errors"

	"github.com/uboborov/Synet/network"
)

// Statistics holds the calibration record of one named tensor: observed
// per-channel ranges and the derived affine maps between float32 and uint8.
// The maps satisfy 8u = 32f*Scale32fTo8u + Shift32fTo8u and its inverse
// 32f = 8u*Scale8uTo32f + Shift8uTo32f.
type Statistics struct {
	Min []float32 `json:"min"`
	Max []float32 `json:"max"`

	Scale32fTo8u []float32 `json:"scale32fTo8u,omitzero"`
	Scale8uTo32f []float32 `json:"scale8uTo32f,omitzero"`
	Shift32fTo8u []float32 `json:"shift32fTo8u,omitzero"`
	Shift8uTo32f []float32 `json:"shift8uTo32f,omitzero"`
	Zero8u       []uint8   `json:"zero8u,omitzero"`

	// Negative is set when the observed range spans both signs.
	Negative bool `json:"negative,omitzero"`

	init8u bool
}

// quantization code ranges per method.
const (
	ieCompatibleSrcMax  = 255
	ieCompatibleWeight  = 127
	symmNarrowedSrcMax  = 180
	symmNarrowedSrcZero = 90
	symmNarrowedWeight  = 90
)

// Init8u derives the uint8 affine maps from the observed ranges. It is
// idempotent; the first call wins.
func (s *Statistics) Init8u(method network.QuantizationMethod) error {
	if s.init8u {
		return nil
	}
	if len(s.Min) != len(s.Max) {
		return errors.Errorf("statistics have %d min but %d max channels", len(s.Min), len(s.Max))
	}
	n := len(s.Min)
	s.Scale32fTo8u = make([]float32, n)
	s.Scale8uTo32f = make([]float32, n)
	s.Shift32fTo8u = make([]float32, n)
	s.Shift8uTo32f = make([]float32, n)
	s.Zero8u = make([]uint8, n)
	s.Negative = false
	for i := 0; i < n; i++ {
		if s.Min[i] < 0 {
			s.Negative = true
		}
	}
	switch method {
	case network.QuantizationMethodIECompatible:
		for i := 0; i < n; i++ {
			// The code range always includes zero so that padding quantizes
			// exactly.
			lo := min(s.Min[i], 0)
			hi := max(s.Max[i], 0)
			span := hi - lo
			if span == 0 {
				span = 1
			}
			scale := float32(ieCompatibleSrcMax) / span
			zero := float32(math.Round(float64(-lo * scale)))
			zero = min(max(zero, 0), ieCompatibleSrcMax)
			s.Scale32fTo8u[i] = scale
			s.Scale8uTo32f[i] = span / ieCompatibleSrcMax
			s.Shift32fTo8u[i] = zero
			s.Shift8uTo32f[i] = -zero * s.Scale8uTo32f[i]
			s.Zero8u[i] = uint8(zero)
		}
	case network.QuantizationMethodSymmetricNarrowed:
		for i := 0; i < n; i++ {
			abs := max(float32(math.Abs(float64(s.Min[i]))), float32(math.Abs(float64(s.Max[i]))))
			if abs == 0 {
				abs = 1
			}
			scale := float32(symmNarrowedSrcZero) / abs
			s.Scale32fTo8u[i] = scale
			s.Scale8uTo32f[i] = abs / symmNarrowedSrcZero
			s.Shift32fTo8u[i] = symmNarrowedSrcZero
			s.Shift8uTo32f[i] = -symmNarrowedSrcZero * s.Scale8uTo32f[i]
			s.Zero8u[i] = symmNarrowedSrcZero
		}
	default:
		return errors.Errorf("cannot derive uint8 maps for quantization method %s", method)
	}
	s.init8u = true
	return nil
}

// Registry keys calibration statistics by tensor name. Fused layers keep
// their pre-fusion ancestor names in Origin, so lookups fall back through
// the origin list.
type Registry map[string]*Statistics

// Find returns the statistics of the first name that has a record, or nil.
func (r Registry) Find(names ...string) *Statistics {
	for _, name := range names {
		if stat, ok := r[name]; ok {
			return stat
		}
	}
	return nil
}

// ForLayer returns the source and destination statistics of a layer,
// resolving fused names through Origin.
func (r Registry) ForLayer(layer *network.Layer) (src, dst *Statistics) {
	src = r.Find(layer.Src...)
	names := append([]string(nil), layer.Dst...)
	names = append(names, layer.Origin...)
	dst = r.Find(names...)
	return src, dst
}
