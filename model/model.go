// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

// Package model loads and saves the network description and its weight
// blob, and wraps the optimizer into a single file-to-file call.
package model

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/uboborov/Synet/bin"
	"github.com/uboborov/Synet/network"
	"github.com/uboborov/Synet/optimizer"
)

// LoadNetwork reads a network description from a JSON file.
func LoadNetwork(path string) (*network.Network, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q to load network", path)
	}
	net := &network.Network{}
	if err := json.Unmarshal(raw, net); err != nil {
		return nil, errors.Wrapf(err, "decoding network description %q", path)
	}
	return net, nil
}

// SaveNetwork writes a network description to a JSON file.
func SaveNetwork(net *network.Network, path string) error {
	raw, err := json.MarshalIndent(net, "", "\t")
	if err != nil {
		return errors.Wrapf(err, "encoding network description")
	}
	raw = append(raw, '\n')
	return errors.Wrapf(os.WriteFile(path, raw, 0644), "saving network description to %q", path)
}

// Optimize loads the model and weights, runs the optimizer with the given
// options, and writes the rewritten pair. Empty weight paths skip the blob
// on either side.
func Optimize(srcModel, srcBin, dstModel, dstBin string, options optimizer.Options) error {
	net, err := LoadNetwork(srcModel)
	if err != nil {
		return err
	}
	var weights bin.Floats
	if srcBin != "" {
		if weights, err = bin.Load(srcBin); err != nil {
			return err
		}
	}
	before := len(net.Layers)
	if err = optimizer.New(options).Run(net, &weights); err != nil {
		return errors.WithMessagef(err, "optimizing %q", srcModel)
	}
	klog.V(1).Infof("optimized %q: %d -> %d layers", srcModel, before, len(net.Layers))
	if err = SaveNetwork(net, dstModel); err != nil {
		return err
	}
	if dstBin != "" {
		if err = weights.Save(dstBin); err != nil {
			return err
		}
	}
	return nil
}
