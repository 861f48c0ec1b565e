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

package bloomfilter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gavinljj/starrocks/pkg/common/moerr"
)

var bothAlgorithms = []Algorithm{BlockBloomFilter, ClassicBloomFilter}

func TestOptimalSizing(t *testing.T) {
	cases := []struct {
		n   uint64
		fpp float64
	}{
		{0, 0.05}, {1, 0.05}, {10, 0.05}, {100, 0.05},
		{1024, 0.05}, {1024, 0.01}, {1024, 0.001},
		{1 << 20, 0.05}, {1 << 20, 0.01},
		{1 << 30, 0.0001}, {1 << 40, 0.0001},
	}
	for _, c := range cases {
		bf, err := New(BlockBloomFilter, c.n, c.fpp, HashMurmur3X64_64)
		require.NoError(t, err)
		nb := bf.NumBytes()
		require.True(t, nb&(nb-1) == 0, "n=%d fpp=%f num_bytes=%d", c.n, c.fpp, nb)
		require.GreaterOrEqual(t, nb, MinimumBytes)
		require.LessOrEqual(t, nb, MaximumBytes)
		require.Equal(t, nb+1, bf.Size())
	}
	// larger n or tighter fpp never shrinks the array
	small, _ := New(BlockBloomFilter, 1024, 0.05, HashMurmur3X64_64)
	large, _ := New(BlockBloomFilter, 1<<20, 0.05, HashMurmur3X64_64)
	require.GreaterOrEqual(t, large.NumBytes(), small.NumBytes())
}

func TestBadArguments(t *testing.T) {
	for _, fpp := range []float64{0, 1, -0.5, 1.5} {
		_, err := New(BlockBloomFilter, 1024, fpp, HashMurmur3X64_64)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg), "fpp=%f", fpp)
	}
	_, err := New(BlockBloomFilter, 1024, 0.05, HashStrategy(7))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
	_, err = New(Algorithm(9), 1024, 0.05, HashMurmur3X64_64)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
}

func TestNoFalseNegatives(t *testing.T) {
	for _, alg := range bothAlgorithms {
		bf, err := New(alg, 2000, 0.01, HashMurmur3X64_64)
		require.NoError(t, err)
		for i := 0; i < 2000; i++ {
			bf.Add([]byte(fmt.Sprintf("key-%d", i)))
		}
		for i := 0; i < 2000; i++ {
			require.True(t, bf.Test([]byte(fmt.Sprintf("key-%d", i))), "alg=%d i=%d", alg, i)
		}
	}
}

func TestFalsePositiveRate(t *testing.T) {
	for _, alg := range bothAlgorithms {
		bf, err := New(alg, 2000, 0.01, HashMurmur3X64_64)
		require.NoError(t, err)
		for i := 0; i < 2000; i++ {
			bf.Add([]byte(fmt.Sprintf("present-%d", i)))
		}
		hits := 0
		for i := 0; i < 10000; i++ {
			if bf.Test([]byte(fmt.Sprintf("absent-%d", i))) {
				hits++
			}
		}
		// generous bound; the configured target is 1%
		require.Less(t, hits, 1000, "alg=%d false positives=%d", alg, hits)
	}
}

func TestNullHandling(t *testing.T) {
	for _, alg := range bothAlgorithms {
		bf, err := New(alg, 100, 0.05, HashMurmur3X64_64)
		require.NoError(t, err)
		require.False(t, bf.HasNull())
		require.False(t, bf.Test(nil))

		bf.Add(nil)
		require.True(t, bf.HasNull())
		require.True(t, bf.Test(nil))
		// recording null sets no bits
		require.False(t, bf.Test([]byte("anything")))
	}
}

func TestSerializationRoundTrip(t *testing.T) {
	for _, alg := range bothAlgorithms {
		bf, err := New(alg, 500, 0.05, HashMurmur3X64_64)
		require.NoError(t, err)
		for i := 0; i < 500; i++ {
			bf.Add([]byte(fmt.Sprintf("rt-%d", i)))
		}
		bf.Add(nil)

		data := bf.Data()
		require.Len(t, data, bf.Size())
		require.Equal(t, byte(1), data[len(data)-1])

		got, err := NewFromData(alg, data, HashMurmur3X64_64)
		require.NoError(t, err)
		require.Equal(t, bf.NumBytes(), got.NumBytes())
		require.True(t, got.HasNull())
		for i := 0; i < 500; i++ {
			require.True(t, got.Test([]byte(fmt.Sprintf("rt-%d", i))))
		}

		// the filter owns a copy of the buffer
		for i := range data {
			data[i] = 0xff
		}
		require.False(t, got.Test([]byte("never-added-sentinel-1")) &&
			got.Test([]byte("never-added-sentinel-2")) &&
			got.Test([]byte("never-added-sentinel-3")))
	}
}

func TestNewFromDataRejectsCorruptBuffers(t *testing.T) {
	for _, data := range [][]byte{nil, {}, {1}, make([]byte, 34), make([]byte, 100)} {
		_, err := NewFromData(BlockBloomFilter, data, HashMurmur3X64_64)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput), "len=%d", len(data))
	}
	_, err := NewFromData(BlockBloomFilter, make([]byte, 33), HashStrategy(3))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
	// 32+1 is the smallest valid buffer
	bf, err := NewFromData(BlockBloomFilter, make([]byte, 33), HashMurmur3X64_64)
	require.NoError(t, err)
	require.Equal(t, MinimumBytes, bf.NumBytes())
	require.False(t, bf.HasNull())
}

func TestReset(t *testing.T) {
	for _, alg := range bothAlgorithms {
		bf, err := New(alg, 100, 0.05, HashMurmur3X64_64)
		require.NoError(t, err)
		bf.Add([]byte("k"))
		bf.Add(nil)
		bf.Reset()
		require.False(t, bf.Test([]byte("k")))
		require.False(t, bf.HasNull())
	}
}

func TestAddTestHashAgreeWithKeys(t *testing.T) {
	for _, alg := range bothAlgorithms {
		bf, err := New(alg, 100, 0.05, HashMurmur3X64_64)
		require.NoError(t, err)
		key := []byte("hash-path")
		bf.AddHash(Hash(key))
		require.True(t, bf.Test(key))
		require.True(t, bf.TestHash(Hash(key)))
	}
}
