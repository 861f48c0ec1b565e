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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gavinljj/starrocks/pkg/common/moerr"
	"github.com/gavinljj/starrocks/pkg/common/mpool"
	"github.com/gavinljj/starrocks/pkg/container/dict"
	"github.com/gavinljj/starrocks/pkg/container/types"
	"github.com/gavinljj/starrocks/pkg/container/vector"
)

func TestAddTestLongVector(t *testing.T) {
	mp := mpool.MustNewZero()
	v, err := vector.NewLong(types.New(types.T_long), 8, mp)
	require.NoError(t, err)
	defer v.Free()

	copy(v.Values(), []int64{10, 20, 30, 40})
	for i := 0; i < 4; i++ {
		v.NotNull()[i] = 1
	}
	v.NotNull()[2] = 0
	v.SetHasNulls(true)
	v.SetLength(4)

	bf, err := New(BlockBloomFilter, 100, 0.05, HashMurmur3X64_64)
	require.NoError(t, err)
	require.NoError(t, AddVector(bf, v))
	require.True(t, bf.HasNull())

	var exists, isNull []bool
	err = TestVector(bf, v, func(e, n bool, row int) {
		exists = append(exists, e)
		isNull = append(isNull, n)
	})
	require.NoError(t, err)
	require.Equal(t, []bool{true, true, true, true}, exists)
	require.Equal(t, []bool{false, false, true, false}, isNull)

	// probing 30 directly must miss: only its nullness was recorded
	require.False(t, bf.Test(types.EncodeFixed(int64(30))))
	require.True(t, bf.Test(types.EncodeFixed(int64(20))))
}

func TestAddTestStringVector(t *testing.T) {
	mp := mpool.MustNewZero()
	v, err := vector.NewString(types.New(types.T_string), 4, mp)
	require.NoError(t, err)
	defer v.Free()

	for i, s := range []string{"foo", "bar", ""} {
		require.NoError(t, v.SetBytesAt(i, []byte(s)))
		v.NotNull()[i] = 1
	}
	v.SetLength(3)

	bf, err := New(ClassicBloomFilter, 100, 0.05, HashMurmur3X64_64)
	require.NoError(t, err)
	require.NoError(t, AddVector(bf, v))
	// the empty string is a value, not a null
	require.False(t, bf.HasNull())
	require.True(t, bf.Test([]byte("")))
	require.True(t, bf.Test([]byte("foo")))
	require.False(t, bf.Test(nil))
}

func TestAddTestEncodedStringVector(t *testing.T) {
	mp := mpool.MustNewZero()
	d, err := dict.NewStringDictionary(mp)
	require.NoError(t, err)
	defer d.Release()
	for _, k := range []string{"red", "green", "blue"} {
		_, err := d.Append([]byte(k))
		require.NoError(t, err)
	}

	v, err := vector.NewEncodedString(types.New(types.T_string), 4, mp, d)
	require.NoError(t, err)
	defer v.Free()
	copy(v.Codes(), []int64{0, 2})
	v.NotNull()[0] = 1
	v.NotNull()[1] = 1
	v.SetLength(2)

	bf, err := New(BlockBloomFilter, 100, 0.05, HashMurmur3X64_64)
	require.NoError(t, err)
	require.NoError(t, AddVector(bf, v))
	require.True(t, bf.Test([]byte("red")))
	require.True(t, bf.Test([]byte("blue")))
	require.False(t, bf.Test([]byte("green")))
}

func TestAddTestTimestampVector(t *testing.T) {
	mp := mpool.MustNewZero()
	v, err := vector.NewTimestamp(types.New(types.T_timestamp), 4, mp)
	require.NoError(t, err)
	defer v.Free()

	copy(v.Seconds(), []int64{1692000000, 1692000001})
	copy(v.Nanoseconds(), []int64{0, 500})
	v.NotNull()[0] = 1
	v.NotNull()[1] = 1
	v.SetLength(2)

	bf, err := New(BlockBloomFilter, 100, 0.05, HashMurmur3X64_64)
	require.NoError(t, err)
	require.NoError(t, AddVector(bf, v))

	misses := 0
	err = TestVector(bf, v, func(e, n bool, row int) {
		if !e {
			misses++
		}
	})
	require.NoError(t, err)
	require.Zero(t, misses)
}

func TestNestedVectorRejected(t *testing.T) {
	mp := mpool.MustNewZero()
	typ := types.NewStruct(types.New(types.T_long))
	v, err := vector.New(typ, 4, mp)
	require.NoError(t, err)
	defer v.Free()

	bf, err := New(BlockBloomFilter, 100, 0.05, HashMurmur3X64_64)
	require.NoError(t, err)
	err = AddVector(bf, v)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	err = TestVector(bf, v, func(bool, bool, int) {})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}
