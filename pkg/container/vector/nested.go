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

	"github.com/gavinljj/starrocks/pkg/common/moerr"
	"github.com/gavinljj/starrocks/pkg/common/mpool"
	"github.com/gavinljj/starrocks/pkg/container/buffer"
	"github.com/gavinljj/starrocks/pkg/container/types"
)

// StructVector holds one child batch per field; row i of the struct is
// row i of every field.
type StructVector struct {
	column
	fields []Vector
}

func NewStruct(typ types.Type, capacity int, mp *mpool.MPool) (*StructVector, error) {
	base, err := newColumn(typ, capacity, mp)
	if err != nil {
		return nil, err
	}
	fields := make([]Vector, 0, len(typ.Children))
	for _, ft := range typ.Children {
		f, err := New(ft, capacity, mp)
		if err != nil {
			for _, built := range fields {
				built.Free()
			}
			base.freeBase()
			return nil, err
		}
		fields = append(fields, f)
	}
	return &StructVector{column: base, fields: fields}, nil
}

func (v *StructVector) Fields() []Vector {
	return v.fields
}

func (v *StructVector) Resize(capacity int) error {
	return v.resizeBase(capacity)
}

func (v *StructVector) Clear() {
	v.clearBase()
	for _, f := range v.fields {
		f.Clear()
	}
}

func (v *StructVector) MemoryUsage() int64 {
	total := v.baseMemoryUsage()
	for _, f := range v.fields {
		total += f.MemoryUsage()
	}
	return total
}

func (v *StructVector) HasVariableLength() bool {
	return true
}

// Filter forwards the row selection unchanged to every field: struct
// children are row-aligned with the parent.
func (v *StructVector) Filter(sel []bool, trueCount int) error {
	for _, f := range v.fields {
		if err := f.Filter(sel, trueCount); err != nil {
			return err
		}
	}
	v.filterValidity(sel, trueCount)
	return nil
}

func (v *StructVector) Free() {
	for _, f := range v.fields {
		f.Free()
	}
	v.fields = nil
	v.freeBase()
}

func (v *StructVector) String() string {
	return fmt.Sprintf("Struct vector <%d of %d, %d fields>",
		v.length, v.capacity, len(v.fields))
}

// ListVector maps row i to the element range [offsets[i], offsets[i+1])
// of a single child batch. The offsets buffer always holds capacity+1
// entries.
type ListVector struct {
	column
	offsets  *buffer.Buffer[int64]
	elements Vector
}

func NewList(typ types.Type, capacity int, mp *mpool.MPool) (*ListVector, error) {
	base, err := newColumn(typ, capacity, mp)
	if err != nil {
		return nil, err
	}
	offsets, err := buffer.New[int64](mp, capacity+1)
	if err != nil {
		base.freeBase()
		return nil, err
	}
	elements, err := New(typ.Children[0], capacity, mp)
	if err != nil {
		offsets.Free()
		base.freeBase()
		return nil, err
	}
	return &ListVector{column: base, offsets: offsets, elements: elements}, nil
}

// Offsets returns the element boundary positions. Entry length holds the
// total element count.
func (v *ListVector) Offsets() []int64 {
	return v.offsets.Slice()
}

func (v *ListVector) Elements() Vector {
	return v.elements
}

func (v *ListVector) Resize(capacity int) error {
	if err := v.offsets.Resize(capacity + 1); err != nil {
		return err
	}
	return v.resizeBase(capacity)
}

func (v *ListVector) Clear() {
	v.clearBase()
	v.elements.Clear()
}

func (v *ListVector) MemoryUsage() int64 {
	return v.baseMemoryUsage() + v.offsets.MemoryUsage() + v.elements.MemoryUsage()
}

func (v *ListVector) HasVariableLength() bool {
	return true
}

// Filter keeps the element ranges of the selected rows. The child gets a
// derived element-level selection and the surviving offsets are rebuilt
// as the prefix sum of the surviving range lengths, so offsets stay dense
// and start at the old base.
func (v *ListVector) Filter(sel []bool, trueCount int) error {
	if len(sel) != v.length {
		panic(moerr.NewInternalErrorNoCtx(
			"selection length %d does not match batch length %d", len(sel), v.length))
	}
	off := v.offsets.Slice()
	childSel := make([]bool, v.elements.Length())
	childKept := 0
	for i := 0; i < v.length; i++ {
		if !sel[i] {
			continue
		}
		for e := off[i]; e < off[i+1]; e++ {
			childSel[e] = true
			childKept++
		}
	}
	// Rewrite offsets in place: row j's width is read before any write
	// lands at or past index j+1.
	base := off[0]
	j := 0
	for i := 0; i < v.length; i++ {
		if !sel[i] {
			continue
		}
		width := off[i+1] - off[i]
		off[j+1] = base + width
		base += width
		j++
	}
	if err := v.elements.Filter(childSel, childKept); err != nil {
		return err
	}
	v.filterValidity(sel, trueCount)
	return nil
}

func (v *ListVector) Free() {
	v.elements.Free()
	v.offsets.Free()
	v.freeBase()
}

func (v *ListVector) String() string {
	return fmt.Sprintf("List vector <%d of %d>", v.length, v.capacity)
}

// MapVector maps row i to the entry range [offsets[i], offsets[i+1]) of
// two row-aligned child batches, keys and elements.
type MapVector struct {
	column
	offsets  *buffer.Buffer[int64]
	keys     Vector
	elements Vector
}

func NewMap(typ types.Type, capacity int, mp *mpool.MPool) (*MapVector, error) {
	base, err := newColumn(typ, capacity, mp)
	if err != nil {
		return nil, err
	}
	offsets, err := buffer.New[int64](mp, capacity+1)
	if err != nil {
		base.freeBase()
		return nil, err
	}
	keys, err := New(typ.Children[0], capacity, mp)
	if err != nil {
		offsets.Free()
		base.freeBase()
		return nil, err
	}
	elements, err := New(typ.Children[1], capacity, mp)
	if err != nil {
		keys.Free()
		offsets.Free()
		base.freeBase()
		return nil, err
	}
	return &MapVector{column: base, offsets: offsets, keys: keys, elements: elements}, nil
}

func (v *MapVector) Offsets() []int64 {
	return v.offsets.Slice()
}

func (v *MapVector) Keys() Vector {
	return v.keys
}

func (v *MapVector) Elements() Vector {
	return v.elements
}

func (v *MapVector) Resize(capacity int) error {
	if err := v.offsets.Resize(capacity + 1); err != nil {
		return err
	}
	return v.resizeBase(capacity)
}

func (v *MapVector) Clear() {
	v.clearBase()
	v.keys.Clear()
	v.elements.Clear()
}

func (v *MapVector) MemoryUsage() int64 {
	return v.baseMemoryUsage() + v.offsets.MemoryUsage() +
		v.keys.MemoryUsage() + v.elements.MemoryUsage()
}

func (v *MapVector) HasVariableLength() bool {
	return true
}

// Filter works like the list case with one derived entry selection
// applied to both children; keys and elements stay entry-aligned.
func (v *MapVector) Filter(sel []bool, trueCount int) error {
	if len(sel) != v.length {
		panic(moerr.NewInternalErrorNoCtx(
			"selection length %d does not match batch length %d", len(sel), v.length))
	}
	off := v.offsets.Slice()
	childSel := make([]bool, v.keys.Length())
	childKept := 0
	for i := 0; i < v.length; i++ {
		if !sel[i] {
			continue
		}
		for e := off[i]; e < off[i+1]; e++ {
			childSel[e] = true
			childKept++
		}
	}
	base := off[0]
	j := 0
	for i := 0; i < v.length; i++ {
		if !sel[i] {
			continue
		}
		width := off[i+1] - off[i]
		off[j+1] = base + width
		base += width
		j++
	}
	if err := v.keys.Filter(childSel, childKept); err != nil {
		return err
	}
	if err := v.elements.Filter(childSel, childKept); err != nil {
		return err
	}
	v.filterValidity(sel, trueCount)
	return nil
}

func (v *MapVector) Free() {
	v.elements.Free()
	v.keys.Free()
	v.offsets.Free()
	v.freeBase()
}

func (v *MapVector) String() string {
	return fmt.Sprintf("Map vector <%d of %d>", v.length, v.capacity)
}

// UnionVector stores per row a branch tag and an offset into that
// branch's child batch. Children pack their rows densely, so distinct
// parent rows with the same tag hold distinct offsets.
type UnionVector struct {
	column
	tags     *buffer.Buffer[byte]
	offsets  *buffer.Buffer[uint64]
	children []Vector
}

func NewUnion(typ types.Type, capacity int, mp *mpool.MPool) (*UnionVector, error) {
	base, err := newColumn(typ, capacity, mp)
	if err != nil {
		return nil, err
	}
	tags, err := buffer.New[byte](mp, capacity)
	if err != nil {
		base.freeBase()
		return nil, err
	}
	offsets, err := buffer.New[uint64](mp, capacity)
	if err != nil {
		tags.Free()
		base.freeBase()
		return nil, err
	}
	children := make([]Vector, 0, len(typ.Children))
	for _, ct := range typ.Children {
		c, err := New(ct, capacity, mp)
		if err != nil {
			for _, built := range children {
				built.Free()
			}
			offsets.Free()
			tags.Free()
			base.freeBase()
			return nil, err
		}
		children = append(children, c)
	}
	return &UnionVector{column: base, tags: tags, offsets: offsets, children: children}, nil
}

func (v *UnionVector) Tags() []byte {
	return v.tags.Slice()
}

func (v *UnionVector) Offsets() []uint64 {
	return v.offsets.Slice()
}

func (v *UnionVector) Children() []Vector {
	return v.children
}

func (v *UnionVector) Resize(capacity int) error {
	if err := v.tags.Resize(capacity); err != nil {
		return err
	}
	if err := v.offsets.Resize(capacity); err != nil {
		return err
	}
	return v.resizeBase(capacity)
}

func (v *UnionVector) Clear() {
	v.clearBase()
	for _, c := range v.children {
		c.Clear()
	}
}

func (v *UnionVector) MemoryUsage() int64 {
	total := v.baseMemoryUsage() + v.tags.MemoryUsage() + v.offsets.MemoryUsage()
	for _, c := range v.children {
		total += c.MemoryUsage()
	}
	return total
}

func (v *UnionVector) HasVariableLength() bool {
	return true
}

// Filter derives one selection per branch from the surviving (tag,
// offset) pairs, compacts each child, and remaps every surviving offset
// to the rank of its element among that child's survivors.
func (v *UnionVector) Filter(sel []bool, trueCount int) error {
	if len(sel) != v.length {
		panic(moerr.NewInternalErrorNoCtx(
			"selection length %d does not match batch length %d", len(sel), v.length))
	}
	tags := v.tags.Slice()
	offs := v.offsets.Slice()

	childSels := make([][]bool, len(v.children))
	childKept := make([]int, len(v.children))
	for t, c := range v.children {
		childSels[t] = make([]bool, c.Length())
	}
	for i := 0; i < v.length; i++ {
		if !sel[i] {
			continue
		}
		t := tags[i]
		if !childSels[t][offs[i]] {
			childSels[t][offs[i]] = true
			childKept[t]++
		}
	}

	// Exclusive prefix counts of survivors per child: the rank each
	// surviving element lands at after its child compacts.
	ranks := make([][]uint64, len(v.children))
	for t := range childSels {
		ranks[t] = make([]uint64, len(childSels[t]))
		var r uint64
		for e, keep := range childSels[t] {
			ranks[t][e] = r
			if keep {
				r++
			}
		}
	}

	j := 0
	for i := 0; i < v.length; i++ {
		if !sel[i] {
			continue
		}
		tags[j] = tags[i]
		offs[j] = ranks[tags[i]][offs[i]]
		j++
	}

	for t, c := range v.children {
		if err := c.Filter(childSels[t], childKept[t]); err != nil {
			return err
		}
	}
	v.filterValidity(sel, trueCount)
	return nil
}

func (v *UnionVector) Free() {
	for _, c := range v.children {
		c.Free()
	}
	v.children = nil
	v.offsets.Free()
	v.tags.Free()
	v.freeBase()
}

func (v *UnionVector) String() string {
	return fmt.Sprintf("Union vector <%d of %d, %d branches>",
		v.length, v.capacity, len(v.children))
}
