// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package optimizer

import "github.com/uboborov/Synet/network"

// change is a deferred (from, to) rename recorded by a matcher and applied
// to downstream consumers once the stage completes.
type change struct {
	from, to string
}

// renameOne rewrites every Src reference from -> to. When a single-input
// layer writes in place (Src[0] == Dst[0]) its output is renamed too, which
// propagates the rename through a chain of in-place operations. Idempotent
// on already-rewritten layers.
func renameOne(c change, layers []network.Layer) {
	for i := range layers {
		layer := &layers[i]
		for j := range layer.Src {
			if layer.Src[j] != c.from {
				continue
			}
			if len(layer.Src) == 1 && len(layer.Dst) > 0 && layer.Src[0] == layer.Dst[0] {
				layer.Dst[0] = c.to
			}
			layer.Src[j] = c.to
		}
	}
}

// renameAll applies the accumulated renames in recording order.
func renameAll(changes []change, layers []network.Layer) {
	for _, c := range changes {
		renameOne(c, layers)
	}
}

// renameOutputs keeps the network-level output names resolvable when a
// rewrite renames the layer that produced them.
func renameOutputs(changes []change, outputs []string) {
	for _, c := range changes {
		for j := range outputs {
			if outputs[j] == c.from {
				outputs[j] = c.to
			}
		}
	}
}
