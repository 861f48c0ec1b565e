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

package batch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gavinljj/starrocks/pkg/common/mpool"
	"github.com/gavinljj/starrocks/pkg/container/types"
	"github.com/gavinljj/starrocks/pkg/container/vector"
)

func TestBatchLifecycle(t *testing.T) {
	mp, err := mpool.NewMPool("batch_test", 0)
	require.NoError(t, err)
	defer mpool.DeleteMPool(mp)
	before := mp.CurrNB()

	b, err := New(
		[]string{"id", "score"},
		[]types.Type{types.New(types.T_long), types.New(types.T_double)},
		8, mp)
	require.NoError(t, err)

	ids := b.Vecs[0].(*vector.LongVector)
	scores := b.Vecs[1].(*vector.DoubleVector)
	copy(ids.Values(), []int64{1, 2, 3})
	copy(scores.Values(), []float64{0.1, 0.2, 0.3})
	for i := 0; i < 3; i++ {
		ids.NotNull()[i] = 1
		scores.NotNull()[i] = 1
	}
	b.SetRowCount(3)
	require.Equal(t, 3, ids.Length())

	require.NoError(t, b.Filter([]bool{true, false, true}, 2))
	require.Equal(t, 2, b.RowCount())
	require.Equal(t, []int64{1, 3}, ids.Values()[:2])
	require.Equal(t, []float64{0.1, 0.3}, scores.Values()[:2])

	require.Greater(t, b.MemoryUsage(), int64(0))
	require.Contains(t, b.String(), "id: Long vector <2 of 8>")

	b.Clear()
	require.Zero(t, b.RowCount())
	require.Zero(t, ids.Length())

	b.Clean()
	require.Equal(t, before, mp.CurrNB())
}

func TestBatchBadAttrs(t *testing.T) {
	mp := mpool.MustNewZero()
	_, err := New([]string{"only"}, nil, 4, mp)
	require.Error(t, err)
}
