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

// Package types carries the type descriptors the batch factory consumes
// and the fixed-size element types stored in column buffers. The
// descriptor only describes shape; parsing or serializing schemas belongs
// to the external type-descriptor system.
package types

import "fmt"

type T uint8

const (
	T_any T = iota
	T_long
	T_double
	T_string
	T_timestamp
	T_decimal64
	T_decimal128
	T_struct
	T_list
	T_map
	T_union
)

const (
	LongSize       = 8
	DoubleSize     = 8
	TimestampSize  = 16
	Decimal64Size  = 8
	Decimal128Size = 16
)

// FixedSizeT constrains buffer element types to fixed-width values.
type FixedSizeT interface {
	~bool | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | Decimal128
}

// Type describes the shape of one column. Nested kinds carry child
// descriptors: one for list, two (key, element) for map, one per field for
// struct and one per branch for union.
type Type struct {
	Oid       T
	Precision int32
	Scale     int32
	Children  []Type
}

func New(oid T) Type {
	return Type{Oid: oid}
}

func NewDecimal(oid T, precision, scale int32) Type {
	return Type{Oid: oid, Precision: precision, Scale: scale}
}

func NewStruct(fields ...Type) Type {
	return Type{Oid: T_struct, Children: fields}
}

func NewList(elem Type) Type {
	return Type{Oid: T_list, Children: []Type{elem}}
}

func NewMap(key, elem Type) Type {
	return Type{Oid: T_map, Children: []Type{key, elem}}
}

func NewUnion(branches ...Type) Type {
	return Type{Oid: T_union, Children: branches}
}

// TypeSize returns the per-row width in bytes of a fixed-width kind, 0 for
// variable-length and nested kinds.
func (t Type) TypeSize() int {
	switch t.Oid {
	case T_long:
		return LongSize
	case T_double:
		return DoubleSize
	case T_timestamp:
		return TimestampSize
	case T_decimal64:
		return Decimal64Size
	case T_decimal128:
		return Decimal128Size
	default:
		return 0
	}
}

func (t Type) IsFixedLen() bool {
	return t.TypeSize() != 0
}

func (t Type) IsNested() bool {
	switch t.Oid {
	case T_struct, T_list, T_map, T_union:
		return true
	}
	return false
}

func (t T) String() string {
	switch t {
	case T_long:
		return "BIGINT"
	case T_double:
		return "DOUBLE"
	case T_string:
		return "VARCHAR"
	case T_timestamp:
		return "TIMESTAMP"
	case T_decimal64:
		return "DECIMAL64"
	case T_decimal128:
		return "DECIMAL128"
	case T_struct:
		return "STRUCT"
	case T_list:
		return "LIST"
	case T_map:
		return "MAP"
	case T_union:
		return "UNION"
	}
	return fmt.Sprintf("unknown type: %d", uint8(t))
}

func (t Type) String() string {
	if t.Oid == T_decimal64 || t.Oid == T_decimal128 {
		return fmt.Sprintf("%s(%d,%d)", t.Oid, t.Precision, t.Scale)
	}
	return t.Oid.String()
}
