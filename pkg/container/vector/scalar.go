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
	"github.com/gavinljj/starrocks/pkg/container/types"
)

// fixedColumn is the shared implementation for variants holding a single
// flat buffer of fixed-width values.
type fixedColumn[T types.FixedSizeT] struct {
	column
	values *buffer.Buffer[T]
}

func newFixedColumn[T types.FixedSizeT](typ types.Type, capacity int, mp *mpool.MPool) (fixedColumn[T], error) {
	base, err := newColumn(typ, capacity, mp)
	if err != nil {
		return fixedColumn[T]{}, err
	}
	values, err := buffer.New[T](mp, capacity)
	if err != nil {
		base.freeBase()
		return fixedColumn[T]{}, err
	}
	return fixedColumn[T]{column: base, values: values}, nil
}

// Values returns the full-capacity value view; entries at or past Length
// are unspecified.
func (v *fixedColumn[T]) Values() []T {
	return v.values.Slice()
}

func (v *fixedColumn[T]) Resize(capacity int) error {
	if err := v.values.Resize(capacity); err != nil {
		return err
	}
	return v.resizeBase(capacity)
}

func (v *fixedColumn[T]) Clear() {
	v.clearBase()
}

func (v *fixedColumn[T]) MemoryUsage() int64 {
	return v.baseMemoryUsage() + v.values.MemoryUsage()
}

func (v *fixedColumn[T]) HasVariableLength() bool {
	return false
}

func (v *fixedColumn[T]) Filter(sel []bool, trueCount int) error {
	compact(v.values.Slice()[:v.length], sel)
	v.filterValidity(sel, trueCount)
	return nil
}

func (v *fixedColumn[T]) Free() {
	v.values.Free()
	v.freeBase()
}

// LongVector holds 64-bit integer rows.
type LongVector struct {
	fixedColumn[int64]
}

func NewLong(typ types.Type, capacity int, mp *mpool.MPool) (*LongVector, error) {
	col, err := newFixedColumn[int64](typ, capacity, mp)
	if err != nil {
		return nil, err
	}
	return &LongVector{fixedColumn: col}, nil
}

func (v *LongVector) String() string {
	return fmt.Sprintf("Long vector <%d of %d>", v.length, v.capacity)
}

// DoubleVector holds 64-bit floating point rows.
type DoubleVector struct {
	fixedColumn[float64]
}

func NewDouble(typ types.Type, capacity int, mp *mpool.MPool) (*DoubleVector, error) {
	col, err := newFixedColumn[float64](typ, capacity, mp)
	if err != nil {
		return nil, err
	}
	return &DoubleVector{fixedColumn: col}, nil
}

func (v *DoubleVector) String() string {
	return fmt.Sprintf("Double vector <%d of %d>", v.length, v.capacity)
}

// TimestampVector stores rows split into UTC seconds since epoch and
// nanoseconds within the second. Local-time conversion is always the
// caller's job.
type TimestampVector struct {
	column
	seconds *buffer.Buffer[int64]
	nanos   *buffer.Buffer[int64]
}

func NewTimestamp(typ types.Type, capacity int, mp *mpool.MPool) (*TimestampVector, error) {
	base, err := newColumn(typ, capacity, mp)
	if err != nil {
		return nil, err
	}
	seconds, err := buffer.New[int64](mp, capacity)
	if err != nil {
		base.freeBase()
		return nil, err
	}
	nanos, err := buffer.New[int64](mp, capacity)
	if err != nil {
		seconds.Free()
		base.freeBase()
		return nil, err
	}
	return &TimestampVector{column: base, seconds: seconds, nanos: nanos}, nil
}

func (v *TimestampVector) Seconds() []int64 {
	return v.seconds.Slice()
}

func (v *TimestampVector) Nanoseconds() []int64 {
	return v.nanos.Slice()
}

func (v *TimestampVector) Resize(capacity int) error {
	if err := v.seconds.Resize(capacity); err != nil {
		return err
	}
	if err := v.nanos.Resize(capacity); err != nil {
		return err
	}
	return v.resizeBase(capacity)
}

func (v *TimestampVector) Clear() {
	v.clearBase()
}

func (v *TimestampVector) MemoryUsage() int64 {
	return v.baseMemoryUsage() + v.seconds.MemoryUsage() + v.nanos.MemoryUsage()
}

func (v *TimestampVector) HasVariableLength() bool {
	return false
}

func (v *TimestampVector) Filter(sel []bool, trueCount int) error {
	compact(v.seconds.Slice()[:v.length], sel)
	compact(v.nanos.Slice()[:v.length], sel)
	v.filterValidity(sel, trueCount)
	return nil
}

func (v *TimestampVector) Free() {
	v.seconds.Free()
	v.nanos.Free()
	v.freeBase()
}

func (v *TimestampVector) String() string {
	return fmt.Sprintf("Timestamp vector <%d of %d>", v.length, v.capacity)
}

// Decimal64Vector holds fixed-point values at the batch-level
// precision/scale.
type Decimal64Vector struct {
	fixedColumn[types.Decimal64]
	precision int32
	scale     int32

	// scales observed by legacy decode paths; reader/writer internal.
	readScales *buffer.Buffer[int64]
}

func NewDecimal64(typ types.Type, capacity int, mp *mpool.MPool) (*Decimal64Vector, error) {
	col, err := newFixedColumn[types.Decimal64](typ, capacity, mp)
	if err != nil {
		return nil, err
	}
	readScales, err := buffer.New[int64](mp, capacity)
	if err != nil {
		col.Free()
		return nil, err
	}
	return &Decimal64Vector{
		fixedColumn: col,
		precision:   typ.Precision,
		scale:       typ.Scale,
		readScales:  readScales,
	}, nil
}

func (v *Decimal64Vector) Precision() int32 {
	return v.precision
}

func (v *Decimal64Vector) Scale() int32 {
	return v.scale
}

func (v *Decimal64Vector) Resize(capacity int) error {
	if err := v.readScales.Resize(capacity); err != nil {
		return err
	}
	return v.fixedColumn.Resize(capacity)
}

func (v *Decimal64Vector) MemoryUsage() int64 {
	return v.fixedColumn.MemoryUsage() + v.readScales.MemoryUsage()
}

func (v *Decimal64Vector) Filter(sel []bool, trueCount int) error {
	compact(v.readScales.Slice()[:v.length], sel)
	return v.fixedColumn.Filter(sel, trueCount)
}

func (v *Decimal64Vector) Free() {
	v.readScales.Free()
	v.fixedColumn.Free()
}

func (v *Decimal64Vector) String() string {
	return fmt.Sprintf("Decimal64 vector <%d of %d>", v.length, v.capacity)
}

// Decimal128Vector holds 128-bit fixed-point values.
type Decimal128Vector struct {
	fixedColumn[types.Decimal128]
	precision int32
	scale     int32

	readScales *buffer.Buffer[int64]
}

func NewDecimal128(typ types.Type, capacity int, mp *mpool.MPool) (*Decimal128Vector, error) {
	col, err := newFixedColumn[types.Decimal128](typ, capacity, mp)
	if err != nil {
		return nil, err
	}
	readScales, err := buffer.New[int64](mp, capacity)
	if err != nil {
		col.Free()
		return nil, err
	}
	return &Decimal128Vector{
		fixedColumn: col,
		precision:   typ.Precision,
		scale:       typ.Scale,
		readScales:  readScales,
	}, nil
}

func (v *Decimal128Vector) Precision() int32 {
	return v.precision
}

func (v *Decimal128Vector) Scale() int32 {
	return v.scale
}

func (v *Decimal128Vector) Resize(capacity int) error {
	if err := v.readScales.Resize(capacity); err != nil {
		return err
	}
	return v.fixedColumn.Resize(capacity)
}

func (v *Decimal128Vector) MemoryUsage() int64 {
	return v.fixedColumn.MemoryUsage() + v.readScales.MemoryUsage()
}

func (v *Decimal128Vector) Filter(sel []bool, trueCount int) error {
	compact(v.readScales.Slice()[:v.length], sel)
	return v.fixedColumn.Filter(sel, trueCount)
}

func (v *Decimal128Vector) Free() {
	v.readScales.Free()
	v.fixedColumn.Free()
}

func (v *Decimal128Vector) String() string {
	return fmt.Sprintf("Decimal128 vector <%d of %d>", v.length, v.capacity)
}

// Decimal64ReadScales exposes the legacy decode-path scale buffer to the
// decimal column reader. Not part of the batch contract; general
// consumers must not touch it.
func Decimal64ReadScales(v *Decimal64Vector) []int64 {
	return v.readScales.Slice()
}

// Decimal128ReadScales is the Decimal128 counterpart of
// Decimal64ReadScales.
func Decimal128ReadScales(v *Decimal128Vector) []int64 {
	return v.readScales.Slice()
}
