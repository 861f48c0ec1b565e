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
	"encoding/binary"

	"github.com/gavinljj/starrocks/pkg/common/moerr"
	"github.com/gavinljj/starrocks/pkg/container/types"
	"github.com/gavinljj/starrocks/pkg/container/vector"
)

// rowKeyFunc returns row i as hashable bytes. The slice may alias the
// batch and is only valid until the next call. isNull is reported
// separately so an empty value is never mistaken for null.
type rowKeyFunc func(i int) (key []byte, isNull bool, err error)

func rowKeys(v vector.Vector) (rowKeyFunc, error) {
	nn := v.NotNull()
	hasNulls := v.HasNulls()
	null := func(i int) bool { return hasNulls && nn[i] == 0 }

	switch col := v.(type) {
	case *vector.LongVector:
		vals := col.Values()
		return func(i int) ([]byte, bool, error) {
			return types.EncodeFixed(vals[i]), null(i), nil
		}, nil
	case *vector.DoubleVector:
		vals := col.Values()
		return func(i int) ([]byte, bool, error) {
			return types.EncodeFixed(vals[i]), null(i), nil
		}, nil
	case *vector.TimestampVector:
		secs, nanos := col.Seconds(), col.Nanoseconds()
		var buf [types.TimestampSize]byte
		return func(i int) ([]byte, bool, error) {
			binary.LittleEndian.PutUint64(buf[:8], uint64(secs[i]))
			binary.LittleEndian.PutUint64(buf[8:], uint64(nanos[i]))
			return buf[:], null(i), nil
		}, nil
	case *vector.Decimal64Vector:
		vals := col.Values()
		return func(i int) ([]byte, bool, error) {
			return types.EncodeFixed(vals[i]), null(i), nil
		}, nil
	case *vector.Decimal128Vector:
		vals := col.Values()
		return func(i int) ([]byte, bool, error) {
			return types.EncodeFixed(vals[i]), null(i), nil
		}, nil
	case *vector.EncodedStringVector:
		return func(i int) ([]byte, bool, error) {
			if null(i) {
				return nil, true, nil
			}
			key, err := col.Bytes(i)
			return key, false, err
		}, nil
	case *vector.StringVector:
		return func(i int) ([]byte, bool, error) {
			if null(i) {
				return nil, true, nil
			}
			return col.Bytes(i), false, nil
		}, nil
	default:
		return nil, moerr.NewInvalidInputNoCtx(
			"bloom filter does not support %s columns", v.Type().String())
	}
}

// AddVector inserts every row of the batch; null rows set the has-null
// flag instead of any bits. Nested batches are rejected.
func AddVector(bf BloomFilter, v vector.Vector) error {
	key, err := rowKeys(v)
	if err != nil {
		return err
	}
	for i := 0; i < v.Length(); i++ {
		k, isNull, err := key(i)
		if err != nil {
			return err
		}
		if isNull {
			bf.Add(nil)
			continue
		}
		bf.AddHash(Hash(k))
	}
	return nil
}

// TestVector probes every row of the batch and reports each result
// through callBack. For a null row, exists is the has-null flag.
func TestVector(bf BloomFilter, v vector.Vector, callBack func(exists bool, isNull bool, row int)) error {
	key, err := rowKeys(v)
	if err != nil {
		return err
	}
	for i := 0; i < v.Length(); i++ {
		k, isNull, err := key(i)
		if err != nil {
			return err
		}
		if isNull {
			callBack(bf.HasNull(), true, i)
			continue
		}
		callBack(bf.TestHash(Hash(k)), false, i)
	}
	return nil
}
