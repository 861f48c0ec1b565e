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
	"github.com/gavinljj/starrocks/pkg/container/types"
)

const (
	// bytesPerBlock is one cache line's worth of filter: 8 words of 32
	// bits each, so every probe touches a single block.
	bytesPerBlock = 32
	wordsPerBlock = 8
)

// blockSalts spread the low hash word over the 8 block words; the
// multiply-shift picks one bit per word.
var blockSalts = [wordsPerBlock]uint32{
	0x47b6137b, 0x44974d91, 0x8824ad5b, 0xa2b7289d,
	0x705495c7, 0x2df1424b, 0x9efc4947, 0x5c6bfb31,
}

// blockFilter splits the bit array into 32-byte blocks. The high hash
// word picks the block, the low word sets one bit in each of its 8
// words. All probes for a key hit one cache line.
type blockFilter struct {
	filter
	directory []uint32
	numBlocks uint32
}

func newBlock(base filter) *blockFilter {
	return &blockFilter{
		filter:    base,
		directory: types.DecodeSlice[uint32](base.bits),
		numBlocks: uint32(len(base.bits) / bytesPerBlock),
	}
}

func (f *blockFilter) Add(key []byte) {
	if key == nil {
		f.hasNull = true
		return
	}
	f.AddHash(Hash(key))
}

func (f *blockFilter) Test(key []byte) bool {
	if key == nil {
		return f.hasNull
	}
	return f.TestHash(Hash(key))
}

func (f *blockFilter) AddHash(hash uint64) {
	block := f.directory[f.blockIndex(hash)*wordsPerBlock:][:wordsPerBlock]
	key := uint32(hash)
	for i, salt := range blockSalts {
		block[i] |= uint32(1) << ((key * salt) >> 27)
	}
}

func (f *blockFilter) TestHash(hash uint64) bool {
	block := f.directory[f.blockIndex(hash)*wordsPerBlock:][:wordsPerBlock]
	key := uint32(hash)
	for i, salt := range blockSalts {
		if block[i]&(uint32(1)<<((key*salt)>>27)) == 0 {
			return false
		}
	}
	return true
}

func (f *blockFilter) blockIndex(hash uint64) uint32 {
	return uint32(hash>>32) & (f.numBlocks - 1)
}
