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

const classicNumProbes = 8

// classicFilter is the original flat layout: 8 double-hashed probes
// scattered across the whole bit array. Kept for reading segments written
// before the block layout existed.
type classicFilter struct {
	filter
}

func (f *classicFilter) Add(key []byte) {
	if key == nil {
		f.hasNull = true
		return
	}
	f.AddHash(Hash(key))
}

func (f *classicFilter) Test(key []byte) bool {
	if key == nil {
		return f.hasNull
	}
	return f.TestHash(Hash(key))
}

func (f *classicFilter) AddHash(hash uint64) {
	h1 := uint32(hash)
	h2 := uint32(hash >> 32)
	numBits := uint32(len(f.bits)) * 8
	for i := uint32(0); i < classicNumProbes; i++ {
		pos := (h1 + i*h2) & (numBits - 1)
		f.bits[pos>>3] |= 1 << (pos & 7)
	}
}

func (f *classicFilter) TestHash(hash uint64) bool {
	h1 := uint32(hash)
	h2 := uint32(hash >> 32)
	numBits := uint32(len(f.bits)) * 8
	for i := uint32(0); i < classicNumProbes; i++ {
		pos := (h1 + i*h2) & (numBits - 1)
		if f.bits[pos>>3]&(1<<(pos&7)) == 0 {
			return false
		}
	}
	return true
}
