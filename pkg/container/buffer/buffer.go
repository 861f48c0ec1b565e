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

// Package buffer implements the typed owned buffer backing every column
// field. A buffer is exclusively owned by one field; its capacity grows
// monotonically and every byte is charged to the injected mpool.
package buffer

import (
	"unsafe"

	"github.com/gavinljj/starrocks/pkg/common/mpool"
	"github.com/gavinljj/starrocks/pkg/container/types"
)

type Buffer[T types.FixedSizeT] struct {
	mp       *mpool.MPool
	data     []byte
	vals     []T
	capacity int
}

// New allocates a zeroed buffer of the given element capacity.
func New[T types.FixedSizeT](mp *mpool.MPool, capacity int) (*Buffer[T], error) {
	b := &Buffer[T]{mp: mp}
	if err := b.Resize(capacity); err != nil {
		return nil, err
	}
	return b, nil
}

// Resize guarantees capacity of at least the given element count,
// preserving existing content. It never shrinks the allocation.
func (b *Buffer[T]) Resize(capacity int) error {
	if capacity <= b.capacity {
		return nil
	}
	var t T
	sz := int(unsafe.Sizeof(t))
	data, err := b.mp.Realloc(b.data, capacity*sz)
	if err != nil {
		return err
	}
	b.data = data
	b.vals = types.DecodeSlice[T](data)
	b.capacity = capacity
	return nil
}

func (b *Buffer[T]) Capacity() int {
	return b.capacity
}

// Slice returns the full-capacity element view. It aliases the underlying
// allocation and is invalidated by Resize.
func (b *Buffer[T]) Slice() []T {
	return b.vals
}

// MemoryUsage reports the allocation footprint in bytes.
func (b *Buffer[T]) MemoryUsage() int64 {
	return int64(len(b.data))
}

// Free releases the allocation back to the pool. The buffer must not be
// used afterwards.
func (b *Buffer[T]) Free() {
	b.mp.Free(b.data)
	b.data = nil
	b.vals = nil
	b.capacity = 0
}
