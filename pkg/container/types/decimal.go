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

package types

import (
	"math/big"
	"strings"

	"github.com/gavinljj/starrocks/pkg/common/moerr"
)

var maxUint64 = new(big.Int).SetUint64(^uint64(0))

// Decimal64 is a fixed-point value scaled by the owning column's scale.
type Decimal64 int64

// Decimal128 is a 128-bit two's complement fixed-point value, stored as
// two little-endian 64-bit halves.
type Decimal128 struct {
	B0_63   uint64
	B64_127 uint64
}

func Decimal128FromInt64(v int64) Decimal128 {
	d := Decimal128{B0_63: uint64(v)}
	if v < 0 {
		d.B64_127 = ^uint64(0)
	}
	return d
}

func (d Decimal128) Sign() int {
	if d.B64_127>>63 != 0 {
		return -1
	}
	if d.B64_127 == 0 && d.B0_63 == 0 {
		return 0
	}
	return 1
}

// ToBigInt returns the signed value of d.
func (d Decimal128) ToBigInt() *big.Int {
	if d.Sign() >= 0 {
		v := new(big.Int).SetUint64(d.B64_127)
		v.Lsh(v, 64)
		return v.Add(v, new(big.Int).SetUint64(d.B0_63))
	}
	// negate the two's complement representation
	lo, borrow := 0-d.B0_63, uint64(0)
	if d.B0_63 != 0 {
		borrow = 1
	}
	hi := 0 - d.B64_127 - borrow
	v := new(big.Int).SetUint64(hi)
	v.Lsh(v, 64)
	v.Add(v, new(big.Int).SetUint64(lo))
	return v.Neg(v)
}

// Decimal128FromBigInt converts v, failing when v does not fit a signed
// 128-bit integer.
func Decimal128FromBigInt(v *big.Int) (Decimal128, error) {
	if v.BitLen() > 127 {
		return Decimal128{}, moerr.NewInvalidInputNoCtx("decimal value %s overflows 128 bits", v.String())
	}
	abs := new(big.Int).Abs(v)
	var d Decimal128
	d.B0_63 = new(big.Int).And(abs, maxUint64).Uint64()
	d.B64_127 = new(big.Int).Rsh(abs, 64).Uint64()
	if v.Sign() < 0 {
		lo := ^d.B0_63 + 1
		hi := ^d.B64_127
		if lo == 0 {
			hi++
		}
		d.B0_63, d.B64_127 = lo, hi
	}
	return d, nil
}

// Decimal is an immutable arbitrary-precision fixed-point value: an
// integer magnitude plus an explicit scale.
type Decimal struct {
	value *big.Int
	scale int32
}

func NewDecimalFromBigInt(value *big.Int, scale int32) Decimal {
	return Decimal{value: new(big.Int).Set(value), scale: scale}
}

// ParseDecimal reads an optionally signed decimal literal; the scale is
// the number of digits after the point.
func ParseDecimal(s string) (Decimal, error) {
	text := s
	if dot := strings.IndexByte(text, '.'); dot >= 0 {
		frac := text[dot+1:]
		if strings.IndexByte(frac, '.') >= 0 {
			return Decimal{}, moerr.NewInvalidInputNoCtx("invalid decimal literal %q", s)
		}
		text = text[:dot] + frac
		v, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return Decimal{}, moerr.NewInvalidInputNoCtx("invalid decimal literal %q", s)
		}
		return Decimal{value: v, scale: int32(len(frac))}, nil
	}
	v, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return Decimal{}, moerr.NewInvalidInputNoCtx("invalid decimal literal %q", s)
	}
	return Decimal{value: v, scale: 0}, nil
}

func (d Decimal) Value() *big.Int {
	if d.value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(d.value)
}

func (d Decimal) Scale() int32 {
	return d.scale
}

func (d Decimal) String() string {
	return d.Format(false)
}

// Format renders the value at its scale. With trimTrailingZeros, trailing
// fractional zeros (and a then-empty point) are removed.
func (d Decimal) Format(trimTrailingZeros bool) string {
	value := d.value
	if value == nil {
		value = new(big.Int)
	}
	digits := new(big.Int).Abs(value).String()
	neg := value.Sign() < 0

	var b strings.Builder
	if d.scale <= 0 {
		if neg {
			b.WriteByte('-')
		}
		b.WriteString(digits)
		return b.String()
	}

	scale := int(d.scale)
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	intPart := digits[:len(digits)-scale]
	fracPart := digits[len(digits)-scale:]
	if trimTrailingZeros {
		fracPart = strings.TrimRight(fracPart, "0")
	}
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(intPart)
	if len(fracPart) > 0 {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
