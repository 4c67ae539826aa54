// Copyright 2026 The Synet-Go Authors. SPDX-License-Identifier: Apache-2.0

// Package bin handles the packed weight blob: a contiguous buffer of
// little-endian IEEE 754 values that layers reference through byte-offset
// weight descriptors.
package bin

import (
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/x448/float16"

	"github.com/uboborov/Synet/network"
)

// Floats is the weight blob viewed as float32 elements. Weight descriptors
// address it with byte offsets; divide by 4 to index.
type Floats []float32

// Bytes returns the blob length in bytes.
func (f Floats) Bytes() int64 {
	return int64(len(f)) * 4
}

// Validate checks that the descriptor lies entirely within the blob, that its
// size matches its shape, and that its offset is element-aligned.
func Validate(w network.Weight, blobBytes int64) error {
	elem := w.Type.Size()
	if elem == 0 {
		elem = 4
	}
	if w.Offset%elem != 0 {
		return errors.Errorf("weight offset %d is not aligned to element size %d", w.Offset, elem)
	}
	if want := w.Dim.Volume() * elem; w.Size != want {
		return errors.Errorf("weight size %d does not match shape %v of %d-byte elements", w.Size, w.Dim, elem)
	}
	if w.Offset < 0 || w.Offset+w.Size > blobBytes {
		return errors.Errorf("weight [%d, %d) escapes blob of %d bytes", w.Offset, w.Offset+w.Size, blobBytes)
	}
	return nil
}

// Read decodes a little-endian float32 stream until EOF.
func Read(r io.Reader) (Floats, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "reading weight blob")
	}
	if len(raw)%4 != 0 {
		return nil, errors.Errorf("weight blob of %d bytes is not a whole number of float32", len(raw))
	}
	data := make(Floats, len(raw)/4)
	for i := range data {
		data[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return data, nil
}

// Write encodes the blob as a little-endian float32 stream.
func (f Floats) Write(w io.Writer) error {
	raw := make([]byte, len(f)*4)
	for i, v := range f {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	_, err := w.Write(raw)
	return errors.Wrapf(err, "writing weight blob")
}

// Load reads a weight blob file.
func Load(path string) (Floats, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q to load weights", path)
	}
	defer file.Close()
	data, err := Read(file)
	return data, errors.WithMessagef(err, "loading weights from %q", path)
}

// Save writes the blob to a file.
func (f Floats) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %q to save weights", path)
	}
	if err = f.Write(file); err != nil {
		file.Close()
		return errors.WithMessagef(err, "saving weights to %q", path)
	}
	return errors.Wrapf(file.Close(), "close file %q, where weights were saved", path)
}

// ToFloat16 narrows the blob to IEEE 754 half-precision bit patterns, used to
// store models at half size. Values outside the float16 range become
// infinities of the same sign.
func (f Floats) ToFloat16() []uint16 {
	half := make([]uint16, len(f))
	for i, v := range f {
		half[i] = uint16(float16.Fromfloat32(v))
	}
	return half
}

// FromFloat16 widens half-precision bit patterns back to a float32 blob.
func FromFloat16(half []uint16) Floats {
	data := make(Floats, len(half))
	for i, h := range half {
		data[i] = float16.Float16(h).Float32()
	}
	return data
}

// Load16 reads a half-precision weight blob file and widens it.
func Load16(path string) (Floats, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading half-precision weights from %q", path)
	}
	if len(raw)%2 != 0 {
		return nil, errors.Errorf("weight blob of %d bytes is not a whole number of float16", len(raw))
	}
	half := make([]uint16, len(raw)/2)
	for i := range half {
		half[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	return FromFloat16(half), nil
}

// Save16 writes the blob to a file narrowed to half precision.
func (f Floats) Save16(path string) error {
	half := f.ToFloat16()
	raw := make([]byte, len(half)*2)
	for i, h := range half {
		binary.LittleEndian.PutUint16(raw[i*2:], h)
	}
	return errors.Wrapf(os.WriteFile(path, raw, 0644), "saving half-precision weights to %q", path)
}
