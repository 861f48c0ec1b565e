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

package vector

import (
	"fmt"

	"github.com/gavinljj/starrocks/pkg/common/mpool"
	"github.com/gavinljj/starrocks/pkg/container/buffer"
	"github.com/gavinljj/starrocks/pkg/container/dict"
	"github.com/gavinljj/starrocks/pkg/container/types"
)

// StringVector stores rows as (start, length) pairs into a shared blob
// buffer. The pairs are valid only until the blob is reallocated. Filter
// compacts the pairs but never the blob: stale bytes stay allocated,
// trading fragmentation for skipping an O(total bytes) copy.
type StringVector struct {
	column
	starts  *buffer.Buffer[int64]
	lengths *buffer.Buffer[int64]
	blob    *buffer.Buffer[byte]
	blobLen int64
}

func NewString(typ types.Type, capacity int, mp *mpool.MPool) (*StringVector, error) {
	base, err := newColumn(typ, capacity, mp)
	if err != nil {
		return nil, err
	}
	v := &StringVector{column: base}
	if v.starts, err = buffer.New[int64](mp, capacity); err != nil {
		base.freeBase()
		return nil, err
	}
	if v.lengths, err = buffer.New[int64](mp, capacity); err != nil {
		v.starts.Free()
		base.freeBase()
		return nil, err
	}
	if v.blob, err = buffer.New[byte](mp, 0); err != nil {
		v.lengths.Free()
		v.starts.Free()
		base.freeBase()
		return nil, err
	}
	return v, nil
}

// Starts returns the per-row blob offsets.
func (v *StringVector) Starts() []int64 {
	return v.starts.Slice()
}

// Lengths returns the per-row value lengths.
func (v *StringVector) Lengths() []int64 {
	return v.lengths.Slice()
}

// Blob returns the backing byte blob.
func (v *StringVector) Blob() []byte {
	return v.blob.Slice()
}

// BlobLength returns the number of blob bytes in use.
func (v *StringVector) BlobLength() int64 {
	return v.blobLen
}

// Bytes returns row i's value as a view into the blob.
func (v *StringVector) Bytes(i int) []byte {
	start := v.starts.Slice()[i]
	return v.blob.Slice()[start : start+v.lengths.Slice()[i]]
}

// SetBytesAt appends val to the blob and points row i at it. This is the
// reader-side fill path; row slots are not reclaimed on overwrite.
func (v *StringVector) SetBytesAt(i int, val []byte) error {
	need := v.blobLen + int64(len(val))
	if int64(v.blob.Capacity()) < need {
		if err := v.blob.Resize(v.blob.Capacity()*2 + len(val)); err != nil {
			return err
		}
	}
	copy(v.blob.Slice()[v.blobLen:], val)
	v.starts.Slice()[i] = v.blobLen
	v.lengths.Slice()[i] = int64(len(val))
	v.blobLen = need
	return nil
}

func (v *StringVector) Resize(capacity int) error {
	if err := v.starts.Resize(capacity); err != nil {
		return err
	}
	if err := v.lengths.Resize(capacity); err != nil {
		return err
	}
	return v.resizeBase(capacity)
}

func (v *StringVector) Clear() {
	v.clearBase()
	v.blobLen = 0
}

func (v *StringVector) MemoryUsage() int64 {
	return v.baseMemoryUsage() + v.starts.MemoryUsage() +
		v.lengths.MemoryUsage() + v.blob.MemoryUsage()
}

func (v *StringVector) HasVariableLength() bool {
	return true
}

func (v *StringVector) Filter(sel []bool, trueCount int) error {
	compact(v.starts.Slice()[:v.length], sel)
	compact(v.lengths.Slice()[:v.length], sel)
	v.filterValidity(sel, trueCount)
	return nil
}

func (v *StringVector) Free() {
	v.blob.Free()
	v.lengths.Free()
	v.starts.Free()
	v.freeBase()
}

func (v *StringVector) String() string {
	return fmt.Sprintf("Byte vector <%d of %d>", v.length, v.capacity)
}

// EncodedStringVector represents a dictionary-encoded string column. The
// authoritative value path is code -> dictionary lookup; the inherited
// pointer/length buffers are stale while IsEncoded is true.
type EncodedStringVector struct {
	StringVector
	dictionary *dict.StringDictionary
	codes      *buffer.Buffer[int64]
}

// NewEncodedString acquires its own reference on d; the caller keeps (and
// must eventually release) its own.
func NewEncodedString(typ types.Type, capacity int, mp *mpool.MPool, d *dict.StringDictionary) (*EncodedStringVector, error) {
	sv, err := NewString(typ, capacity, mp)
	if err != nil {
		return nil, err
	}
	codes, err := buffer.New[int64](mp, capacity)
	if err != nil {
		sv.Free()
		return nil, err
	}
	v := &EncodedStringVector{
		StringVector: *sv,
		dictionary:   d.Share(),
		codes:        codes,
	}
	v.isEncoded = true
	return v, nil
}

// Codes returns the per-row dictionary codes.
func (v *EncodedStringVector) Codes() []int64 {
	return v.codes.Slice()
}

func (v *EncodedStringVector) Dictionary() *dict.StringDictionary {
	return v.dictionary
}

// Bytes resolves row i through the dictionary.
func (v *EncodedStringVector) Bytes(i int) ([]byte, error) {
	return v.dictionary.GetValueByIndex(v.codes.Slice()[i])
}

func (v *EncodedStringVector) Resize(capacity int) error {
	if err := v.codes.Resize(capacity); err != nil {
		return err
	}
	return v.StringVector.Resize(capacity)
}

// MemoryUsage covers owned buffers only; the dictionary is shared, not
// owned.
func (v *EncodedStringVector) MemoryUsage() int64 {
	return v.StringVector.MemoryUsage() + v.codes.MemoryUsage()
}

// Filter compacts only the codes; the shared dictionary is untouched and
// the stale pointer/length buffers are left as-is.
func (v *EncodedStringVector) Filter(sel []bool, trueCount int) error {
	compact(v.codes.Slice()[:v.length], sel)
	v.filterValidity(sel, trueCount)
	return nil
}

func (v *EncodedStringVector) Free() {
	v.codes.Free()
	v.dictionary.Release()
	v.dictionary = nil
	v.StringVector.Free()
}

func (v *EncodedStringVector) String() string {
	return fmt.Sprintf("Encoded byte vector <%d of %d>", v.length, v.capacity)
}
