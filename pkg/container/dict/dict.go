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

// Package dict implements the shared dictionary used by encoded string
// columns. A dictionary is built once, published read-only, and shared by
// any number of column batches; sharing is tracked with a reference count
// so the pool-charged buffers are released exactly once.
package dict

import (
	"sync/atomic"

	"github.com/gavinljj/starrocks/pkg/common/moerr"
	"github.com/gavinljj/starrocks/pkg/common/mpool"
	"github.com/gavinljj/starrocks/pkg/container/buffer"
)

type StringDictionary struct {
	mp      *mpool.MPool
	blob    *buffer.Buffer[byte]
	offsets *buffer.Buffer[int64]
	// logical lengths; buffer capacities may be larger
	blobLen  int64
	keyCount int64
	refcnt   atomic.Int32
}

// NewStringDictionary creates an empty dictionary with one reference held
// by the caller.
func NewStringDictionary(mp *mpool.MPool) (*StringDictionary, error) {
	blob, err := buffer.New[byte](mp, 0)
	if err != nil {
		return nil, err
	}
	offsets, err := buffer.New[int64](mp, 1)
	if err != nil {
		blob.Free()
		return nil, err
	}
	d := &StringDictionary{mp: mp, blob: blob, offsets: offsets}
	d.refcnt.Store(1)
	return d, nil
}

// Append adds a value and returns its code. Only valid before the
// dictionary is published to readers.
func (d *StringDictionary) Append(val []byte) (int64, error) {
	need := d.blobLen + int64(len(val))
	if int64(d.blob.Capacity()) < need {
		newCap := d.blob.Capacity()*2 + len(val)
		if err := d.blob.Resize(newCap); err != nil {
			return 0, err
		}
	}
	if err := d.offsets.Resize(int(d.keyCount) + 2); err != nil {
		return 0, err
	}
	copy(d.blob.Slice()[d.blobLen:], val)
	d.blobLen = need
	code := d.keyCount
	d.keyCount++
	d.offsets.Slice()[d.keyCount] = d.blobLen
	return code, nil
}

func (d *StringDictionary) KeyCount() int64 {
	return d.keyCount
}

// GetValueByIndex returns a view into the dictionary blob for the given
// code. The view is valid only for the dictionary's lifetime.
func (d *StringDictionary) GetValueByIndex(code int64) ([]byte, error) {
	if code < 0 || code >= d.keyCount {
		return nil, moerr.NewIndexOutOfRangeNoCtx()
	}
	offsets := d.offsets.Slice()
	return d.blob.Slice()[offsets[code]:offsets[code+1]], nil
}

// MemoryUsage reports the footprint of the blob and offsets buffers.
func (d *StringDictionary) MemoryUsage() int64 {
	return d.blob.MemoryUsage() + d.offsets.MemoryUsage()
}

// Share acquires an additional reference for another batch.
func (d *StringDictionary) Share() *StringDictionary {
	d.refcnt.Add(1)
	return d
}

// Release drops one reference, freeing the buffers when the last holder
// lets go.
func (d *StringDictionary) Release() {
	if d == nil {
		return
	}
	if d.refcnt.Add(-1) == 0 {
		d.blob.Free()
		d.offsets.Free()
	}
}
