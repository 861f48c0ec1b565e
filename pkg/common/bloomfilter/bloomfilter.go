// Copyright 2023 The StarRocks Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bloomfilter implements the per-column membership index written
// into segment files: a bit array sized from the expected key count and
// target false positive probability, plus one trailing has-null byte on
// the wire. Two probe layouts share the format: the cache-friendly block
// layout used by current segments and the classic double-hashing layout
// kept for reading old files.
package bloomfilter

import (
	"math"
	"math/bits"

	"github.com/spaolacci/murmur3"

	"github.com/gavinljj/starrocks/pkg/common/moerr"
)

// HashStrategy selects the key hash function. Only Murmur3 x64_64 has
// ever shipped; the indirection exists so old files with a bad strategy
// byte fail loudly instead of probing garbage.
type HashStrategy uint8

const (
	HashMurmur3X64_64 HashStrategy = 0
)

// Algorithm selects the probe layout over the bit array.
type Algorithm uint8

const (
	BlockBloomFilter Algorithm = iota
	ClassicBloomFilter
)

const (
	// DefaultSeed seeds every key hash; it must never change or existing
	// segment indexes become unreadable.
	DefaultSeed uint32 = 1575457558

	// MinimumBytes and MaximumBytes clamp the bit array size. Both are
	// powers of two, so clamping preserves the power-of-two invariant.
	MinimumBytes = 32
	MaximumBytes = 128 * 1024 * 1024
)

// BloomFilter is one column's membership index. Implementations are not
// safe for concurrent mutation.
type BloomFilter interface {
	// Add inserts a key. A nil key records the presence of null instead
	// of setting any bits.
	Add(key []byte)

	// Test reports whether a key may be present. A nil key asks about
	// null and returns the exact answer, not a probabilistic one.
	Test(key []byte) bool

	// AddHash and TestHash operate on an already-hashed key, for callers
	// that hash once and probe many filters.
	AddHash(hash uint64)
	TestHash(hash uint64) bool

	HasNull() bool
	SetHasNull(hasNull bool)

	// NumBytes returns the bit array size; Size adds the has-null byte.
	NumBytes() int
	Size() int

	// Data serializes the filter: NumBytes of bit array then one
	// has-null byte.
	Data() []byte

	// Reset clears all bits and the has-null flag.
	Reset()
}

// filter carries the state shared by both probe layouts.
type filter struct {
	bits    []byte
	hasNull bool
}

func (f *filter) HasNull() bool {
	return f.hasNull
}

func (f *filter) SetHasNull(hasNull bool) {
	f.hasNull = hasNull
}

func (f *filter) NumBytes() int {
	return len(f.bits)
}

func (f *filter) Size() int {
	return len(f.bits) + 1
}

func (f *filter) Data() []byte {
	out := make([]byte, len(f.bits)+1)
	copy(out, f.bits)
	if f.hasNull {
		out[len(f.bits)] = 1
	}
	return out
}

func (f *filter) Reset() {
	for i := range f.bits {
		f.bits[i] = 0
	}
	f.hasNull = false
}

// Hash computes the 64-bit Murmur3 key hash with the fixed seed.
func Hash(key []byte) uint64 {
	h1, _ := murmur3.Sum128WithSeed(key, DefaultSeed)
	return h1
}

// optimalNumBytes sizes the bit array for n distinct keys at false
// positive probability fpp: the textbook optimal bit count, rounded up to
// a whole power-of-two byte count and clamped.
func optimalNumBytes(n uint64, fpp float64) int {
	bits := -float64(n) * math.Log(fpp) / (math.Ln2 * math.Ln2)
	numBytes := nextPowerOfTwo(uint64(math.Ceil(bits / 8)))
	if numBytes < MinimumBytes {
		return MinimumBytes
	}
	if numBytes > MaximumBytes {
		return MaximumBytes
	}
	return int(numBytes)
}

func nextPowerOfTwo(v uint64) uint64 {
	if v <= 1 {
		return 1
	}
	return 1 << (64 - bits.LeadingZeros64(v-1))
}

func isPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}

func checkStrategy(strategy HashStrategy) error {
	if strategy != HashMurmur3X64_64 {
		return moerr.NewInvalidArgNoCtx("bloom filter hash strategy", strategy)
	}
	return nil
}

// New creates an empty filter sized for n keys at false positive
// probability fpp, which must lie strictly between 0 and 1.
func New(algorithm Algorithm, n uint64, fpp float64, strategy HashStrategy) (BloomFilter, error) {
	if err := checkStrategy(strategy); err != nil {
		return nil, err
	}
	if fpp <= 0 || fpp >= 1 {
		return nil, moerr.NewInvalidArgNoCtx("bloom filter fpp", fpp)
	}
	return newWithBits(algorithm, make([]byte, optimalNumBytes(n, fpp)))
}

// NewFromData reconstructs a filter from its serialized form, deep
// copying so the filter does not alias the caller's page buffer.
func NewFromData(algorithm Algorithm, data []byte, strategy HashStrategy) (BloomFilter, error) {
	if err := checkStrategy(strategy); err != nil {
		return nil, err
	}
	numBytes := len(data) - 1
	if numBytes < MinimumBytes || !isPowerOfTwo(numBytes) {
		return nil, moerr.NewInvalidInputNoCtx(
			"bloom filter buffer of %d bytes is corrupt", len(data))
	}
	bits := make([]byte, numBytes)
	copy(bits, data[:numBytes])
	bf, err := newWithBits(algorithm, bits)
	if err != nil {
		return nil, err
	}
	bf.SetHasNull(data[numBytes] != 0)
	return bf, nil
}

func newWithBits(algorithm Algorithm, bits []byte) (BloomFilter, error) {
	base := filter{bits: bits}
	switch algorithm {
	case BlockBloomFilter:
		return newBlock(base), nil
	case ClassicBloomFilter:
		return &classicFilter{filter: base}, nil
	default:
		return nil, moerr.NewInvalidArgNoCtx("bloom filter algorithm", algorithm)
	}
}
