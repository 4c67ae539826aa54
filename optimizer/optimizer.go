// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

// Package optimizer rewrites a parsed network description and its packed
// weight blob into a semantically equivalent but fused and canonicalized
// form.
//
// The rewrite runs in eight ordered stages. Each stage makes one linear walk
// over the layer sequence, trying the stage's pattern matchers at every
// position: a successful match emits one or more rewritten layers, advances
// the cursor past the consumed window, and records a deferred rename that is
// applied to all downstream consumers at the end of the stage. Simpler
// fusions run first so that later stages can recognize the patterns they
// expose. After the stages, the reuse pass marks safe in-place buffer
// aliases and the stub pass erases identity layers.
package optimizer

import (
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/uboborov/Synet/bin"
	"github.com/uboborov/Synet/network"
)

const stageCount = 8

// Optimizer fuses and canonicalizes networks. It is single-threaded: Run
// takes exclusive mutable access to the network and the blob for its whole
// duration.
type Optimizer struct {
	options Options
}

// New returns an Optimizer with the given options.
func New(options Options) *Optimizer {
	return &Optimizer{options: options}
}

// Run performs stages 0..7, then the reuse pass, then the stub pass. On
// error the network may have committed the stages that already completed;
// callers that need all-or-nothing semantics should stage their writes.
func (o *Optimizer) Run(net *network.Network, weights *bin.Floats) error {
	for stage := 0; stage < stageCount; stage++ {
		if err := o.optimizeLayers(net, weights, stage); err != nil {
			return errors.WithMessagef(err, "optimizer stage %d", stage)
		}
	}
	if err := reuseLayers(net); err != nil {
		return err
	}
	if err := removeStub(net); err != nil {
		return err
	}
	return validateWeights(net, *weights)
}

// pass accumulates the state of one stage: the fresh output sequence, the
// deferred renames, and the copy-on-write float buffer that replaces the
// blob at stage end if any matcher touched weights.
type pass struct {
	opt     *Optimizer
	weights *bin.Floats
	buf     bin.Floats
	merged  []network.Layer
	changes []change
	method  network.QuantizationMethod
}

// mutableWeights returns the copy-on-write buffer, cloning the blob on first
// use.
func (p *pass) mutableWeights() bin.Floats {
	if len(p.buf) == 0 {
		p.buf = slices.Clone(*p.weights)
	}
	return p.buf
}

// emit appends a copy of the layer to the output sequence and returns a
// pointer to it for in-place edits.
func (p *pass) emit(layer *network.Layer) *network.Layer {
	p.merged = append(p.merged, layer.Clone())
	return p.last()
}

// last returns the most recently emitted layer.
func (p *pass) last() *network.Layer {
	return &p.merged[len(p.merged)-1]
}

// rename defers a (from, to) rewrite of downstream consumers to stage end.
func (p *pass) rename(from, to string) {
	p.changes = append(p.changes, change{from: from, to: to})
}

func (o *Optimizer) optimizeLayers(net *network.Network, weights *bin.Floats, stage int) error {
	p := &pass{
		opt:     o,
		weights: weights,
		method:  net.Quantization.Method,
	}
	src := net.Layers
	for i := 0; i < len(src); i++ {
		matched := false
		switch stage {
		case 0:
			matched = p.reduceTensorIteratorIO(src, &i)
		case 1:
			matched = p.transposeInnerProduct(src, &i)
		case 2:
			matched = p.mergeCurrentAndBias(src, &i)
		case 3:
			matched = p.mergeConvolutionAndScale(src, &i) ||
				p.mergeInnerProductAndScale(src, &i)
		case 4:
			matched = p.mergeHswish(src, &i) ||
				p.mergeMish(src, &i) ||
				p.mergePrelu(src, &i) ||
				p.mergeShuffle0(src, &i) ||
				p.mergeShuffle1(src, &i) ||
				p.mergeSoftmax(src, &i) ||
				p.mergeFused0(src, &i) ||
				p.mergeFused1(src, &i) ||
				p.mergeFused2(src, &i) ||
				p.mergeFused3(src, &i) ||
				p.mergeFused4(src, &i) ||
				p.mergeFused5(src, &i) ||
				p.mergeFused6(src, &i) ||
				p.mergeFused7(src, &i) ||
				p.mergeFused8(src, &i) ||
				p.mergeFused9(src, &i) ||
				p.mergeFused10(src, &i) ||
				p.mergeFused11(src, &i) ||
				p.mergePooling(src, &i)
		case 5:
			matched = p.mergeConvolutionOrDeconvolutionAndActivation(src, i) ||
				p.mergeRnnGruBd(src, &i)
		case 6:
			matched = p.mergeThreeConvolutions(src, &i) ||
				p.mergeSqueezeExcitation(src, &i)
		case 7:
			matched = p.mergeTwoConvolutions(src, &i)
		default:
			exceptions.Panicf("optimizer: unknown stage %d", stage)
		}
		if matched {
			continue
		}
		// Copy, not alias: matchers at later positions edit the emitted
		// layer in place and must not see through to the input sequence.
		p.merged = append(p.merged, src[i].Clone())
	}
	renameAll(p.changes, p.merged)
	renameOutputs(p.changes, net.Dst)
	if err := checkUniqueNames(p.merged); err != nil {
		return err
	}
	if klog.V(1).Enabled() && len(p.merged) != len(src) {
		klog.Infof("optimizer stage %d: %d -> %d layers, %d renames", stage, len(src), len(p.merged), len(p.changes))
	}
	net.Layers = p.merged
	if len(p.buf) > 0 {
		*weights = p.buf
	}
	return nil
}

// checkUniqueNames guards against a rewrite emitting the same layer name
// twice: that would make downstream Src references ambiguous.
func checkUniqueNames(layers []network.Layer) error {
	seen := make(map[string]struct{}, len(layers))
	for i := range layers {
		if _, ok := seen[layers[i].Name]; ok {
			return errors.Errorf("layer name %q survives twice after rewrite", layers[i].Name)
		}
		seen[layers[i].Name] = struct{}{}
	}
	return nil
}

// validateWeights checks that every surviving weight descriptor lies within
// the (possibly rewritten) blob.
func validateWeights(net *network.Network, weights bin.Floats) error {
	for i := range net.Layers {
		for j, w := range net.Layers[i].Weight {
			if err := bin.Validate(w, weights.Bytes()); err != nil {
				return errors.WithMessagef(err, "layer %q weight %d", net.Layers[i].Name, j)
			}
		}
	}
	return nil
}
