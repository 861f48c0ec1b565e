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

// Package batch groups the column vectors of one row batch: every column
// holds the same number of rows and row selection is applied to all
// columns together.
package batch

import (
	"strings"

	"github.com/gavinljj/starrocks/pkg/common/moerr"
	"github.com/gavinljj/starrocks/pkg/common/mpool"
	"github.com/gavinljj/starrocks/pkg/container/types"
	"github.com/gavinljj/starrocks/pkg/container/vector"
	"github.com/gavinljj/starrocks/pkg/logutil"
)

type Batch struct {
	Attrs []string
	Vecs  []vector.Vector

	rowCount int
}

// New allocates one column per type, all at the given row capacity.
func New(attrs []string, typs []types.Type, capacity int, mp *mpool.MPool) (*Batch, error) {
	if len(attrs) != len(typs) {
		return nil, moerr.NewInvalidArgNoCtx("batch attribute count", len(attrs))
	}
	b := &Batch{Attrs: attrs, Vecs: make([]vector.Vector, 0, len(typs))}
	for _, typ := range typs {
		v, err := vector.New(typ, capacity, mp)
		if err != nil {
			b.Clean()
			return nil, err
		}
		b.Vecs = append(b.Vecs, v)
	}
	return b, nil
}

func (b *Batch) RowCount() int {
	return b.rowCount
}

// SetRowCount sets the logical row count on the batch and every column.
func (b *Batch) SetRowCount(n int) {
	b.rowCount = n
	for _, v := range b.Vecs {
		v.SetLength(n)
	}
}

// Filter applies one row selection to every column.
func (b *Batch) Filter(sel []bool, trueCount int) error {
	for _, v := range b.Vecs {
		if err := v.Filter(sel, trueCount); err != nil {
			return err
		}
	}
	b.rowCount = trueCount
	return nil
}

// Clear empties every column, retaining capacity.
func (b *Batch) Clear() {
	b.rowCount = 0
	for _, v := range b.Vecs {
		v.Clear()
	}
}

func (b *Batch) MemoryUsage() int64 {
	var total int64
	for _, v := range b.Vecs {
		total += v.MemoryUsage()
	}
	return total
}

// Clean releases every column. The batch must not be used afterwards.
func (b *Batch) Clean() {
	for _, v := range b.Vecs {
		v.Free()
	}
	b.Vecs = nil
	b.rowCount = 0
}

func (b *Batch) String() string {
	var sb strings.Builder
	for i, v := range b.Vecs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if i < len(b.Attrs) {
			sb.WriteString(b.Attrs[i])
			sb.WriteString(": ")
		}
		sb.WriteString(v.String())
	}
	return sb.String()
}

// Log dumps the batch layout at debug level.
func (b *Batch) Log(tag string) {
	logutil.Debugf("%s\n%s", tag, b.String())
}
