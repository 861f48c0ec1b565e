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

// Package vector implements the column vector batch family: one
// cache-friendly slab of rows per column, with a concrete variant per
// logical type and in-place row selection over the whole nested tree.
//
// A batch and its children are exclusively owned and mutated by one
// goroutine at a time. Resize is never recursive; Clear and MemoryUsage
// always are. After Filter, hasNulls is recomputed exactly from the
// surviving validity bytes (never carried forward conservatively).
package vector

import (
	"github.com/gavinljj/starrocks/pkg/common/moerr"
	"github.com/gavinljj/starrocks/pkg/common/mpool"
	"github.com/gavinljj/starrocks/pkg/container/buffer"
	"github.com/gavinljj/starrocks/pkg/container/types"
)

// Vector is the capability interface shared by every batch variant. The
// set of implementations is closed: long, double, string, encoded string,
// struct, list, map, union, decimal64, decimal128 and timestamp.
type Vector interface {
	Type() types.Type
	Capacity() int
	Length() int
	SetLength(n int)
	HasNulls() bool
	SetHasNulls(hasNulls bool)
	IsEncoded() bool

	// NotNull returns the byte-per-row validity buffer (nonzero = valid).
	NotNull() []byte

	// Resize grows this batch's own flat buffers to hold at least
	// capacity rows. It is not recursive: nested children must be resized
	// by their owner.
	Resize(capacity int) error

	// Clear recursively empties logical content, retaining capacity.
	Clear()

	// MemoryUsage reports this batch's buffer footprint plus,
	// recursively, that of all owned children.
	MemoryUsage() int64

	// HasVariableLength reports whether the per-row footprint varies.
	HasVariableLength() bool

	// Filter compacts the batch in place to the rows marked true in sel,
	// preserving relative order, and sets the length to trueCount.
	// len(sel) must equal the current length.
	Filter(sel []bool, trueCount int) error

	// Free recursively releases all owned buffers back to the pool.
	Free()

	String() string
}

// column holds the bookkeeping shared by all variants.
type column struct {
	typ       types.Type
	mp        *mpool.MPool
	capacity  int
	length    int
	notNull   *buffer.Buffer[byte]
	hasNulls  bool
	isEncoded bool
}

func newColumn(typ types.Type, capacity int, mp *mpool.MPool) (column, error) {
	notNull, err := buffer.New[byte](mp, capacity)
	if err != nil {
		return column{}, err
	}
	return column{typ: typ, mp: mp, capacity: capacity, notNull: notNull}, nil
}

func (c *column) Type() types.Type {
	return c.typ
}

func (c *column) Capacity() int {
	return c.capacity
}

func (c *column) Length() int {
	return c.length
}

func (c *column) SetLength(n int) {
	c.length = n
}

func (c *column) HasNulls() bool {
	return c.hasNulls
}

func (c *column) SetHasNulls(hasNulls bool) {
	c.hasNulls = hasNulls
}

func (c *column) IsEncoded() bool {
	return c.isEncoded
}

func (c *column) NotNull() []byte {
	return c.notNull.Slice()
}

func (c *column) resizeBase(capacity int) error {
	if err := c.notNull.Resize(capacity); err != nil {
		return err
	}
	if capacity > c.capacity {
		c.capacity = capacity
	}
	return nil
}

func (c *column) clearBase() {
	c.length = 0
	c.hasNulls = false
}

func (c *column) baseMemoryUsage() int64 {
	return c.notNull.MemoryUsage()
}

// filterValidity compacts the validity bytes per sel, recomputes hasNulls
// exactly over the surviving range and sets length to trueCount. A
// selection whose length or true count disagrees with the batch is a
// programmer error.
func (c *column) filterValidity(sel []bool, trueCount int) {
	if len(sel) != c.length {
		panic(moerr.NewInternalErrorNoCtx(
			"selection length %d does not match batch length %d", len(sel), c.length))
	}
	nn := c.notNull.Slice()
	kept := compact(nn[:c.length], sel)
	if kept != trueCount {
		panic(moerr.NewInternalErrorNoCtx(
			"selection true count %d, declared %d", kept, trueCount))
	}
	c.hasNulls = false
	for i := 0; i < trueCount; i++ {
		if nn[i] == 0 {
			c.hasNulls = true
			break
		}
	}
	c.length = trueCount
}

func (c *column) freeBase() {
	c.notNull.Free()
	c.capacity = 0
	c.length = 0
}

// compact gathers the selected entries of vals to the front, preserving
// order, and returns the number kept.
func compact[T types.FixedSizeT](vals []T, sel []bool) int {
	j := 0
	for i, keep := range sel {
		if keep {
			vals[j] = vals[i]
			j++
		}
	}
	return j
}

// New builds the batch variant matching the type shape, recursively
// allocating children at the same capacity. Encoded string batches are
// created explicitly via NewEncodedString since they need a dictionary.
func New(typ types.Type, capacity int, mp *mpool.MPool) (Vector, error) {
	switch typ.Oid {
	case types.T_long:
		return NewLong(typ, capacity, mp)
	case types.T_double:
		return NewDouble(typ, capacity, mp)
	case types.T_string:
		return NewString(typ, capacity, mp)
	case types.T_timestamp:
		return NewTimestamp(typ, capacity, mp)
	case types.T_decimal64:
		return NewDecimal64(typ, capacity, mp)
	case types.T_decimal128:
		return NewDecimal128(typ, capacity, mp)
	case types.T_struct:
		return NewStruct(typ, capacity, mp)
	case types.T_list:
		return NewList(typ, capacity, mp)
	case types.T_map:
		return NewMap(typ, capacity, mp)
	case types.T_union:
		return NewUnion(typ, capacity, mp)
	default:
		return nil, moerr.NewInvalidArgNoCtx("vector type", typ.Oid)
	}
}
