// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

package optimizer

// Options control the optional fusions. The value is immutable for the
// lifetime of an Optimizer.
type Options struct {
	// MergeTwoConvolutions enables the stage-7 two-convolution fusion and its
	// guard inside the three-convolution matcher.
	MergeTwoConvolutions bool

	// MergeTwoConvolutionsOutputNumMax bounds the output channel count for
	// two-convolution eligibility.
	MergeTwoConvolutionsOutputNumMax int

	// MergeInt8Convolutions allows two- and three-convolution fusion when the
	// network carries a quantization method.
	MergeInt8Convolutions bool
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		MergeTwoConvolutions:             true,
		MergeTwoConvolutionsOutputNumMax: 256,
		MergeInt8Convolutions:            true,
	}
}
