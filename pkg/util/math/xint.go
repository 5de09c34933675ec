// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package math

import (
	"fmt"
	"math/big"
)

var zero big.Int

// Infinity represents the unbounded value.  This is used, for example, as the
// length of the blank runs at either end of the tape.
var Infinity = XInt{nil, true}

// XInt represents an extended natural number, that is a value drawn from
// {0,1,2,...} extended with a single unbounded value (infinity).  Values are
// immutable: every arithmetic operation returns a fresh value and never
// updates its operands.  The zero value of XInt is the number 0.
type XInt struct {
	// value of this integer, or nil to signal zero.  This is always nil when
	// inf holds.
	val *big.Int
	// inf indicates whether this represents infinity.
	inf bool
}

// NewXInt constructs an extended integer from a (non-negative) machine word.
func NewXInt(val uint64) XInt {
	if val == 0 {
		return XInt{}
	}
	//
	return XInt{new(big.Int).SetUint64(val), false}
}

// One returns the (finite) value one.
func One() XInt {
	return NewXInt(1)
}

// FromBig constructs an extended integer from a (non-negative) big integer.
// Observe that the given integer is cloned.
func FromBig(val *big.Int) XInt {
	if val.Sign() < 0 {
		panic(fmt.Sprintf("extended integer cannot be negative (%s)", val.String()))
	} else if val.Sign() == 0 {
		return XInt{}
	}
	//
	return XInt{new(big.Int).Set(val), false}
}

// IsInf returns true if this represents the unbounded value.
func (p XInt) IsInf() bool {
	return p.inf
}

// IsZero returns true if this is (finite) zero.
func (p XInt) IsZero() bool {
	return !p.inf && (p.val == nil || p.val.Sign() == 0)
}

// IsOne returns true if this is (finite) one.
func (p XInt) IsOne() bool {
	return !p.inf && p.val != nil && p.val.IsInt64() && p.val.Int64() == 1
}

// One returns the value one.  This allows generic code to construct a unit
// count without knowing the concrete count type.
func (p XInt) One() XInt {
	return NewXInt(1)
}

// Infinite returns the unbounded value.
func (p XInt) Infinite() XInt {
	return Infinity
}

// BigInt returns a copy of the underlying value.  This will panic if this
// value is infinite.
func (p XInt) BigInt() *big.Int {
	if p.inf {
		panic("cannot cast infinity into a big integer")
	} else if p.val == nil {
		return new(big.Int)
	}
	//
	return new(big.Int).Set(p.val)
}

// Uint64 returns this value as a machine word, along with an indication of
// whether or not it fits.
func (p XInt) Uint64() (uint64, bool) {
	switch {
	case p.inf:
		return 0, false
	case p.val == nil:
		return 0, true
	case p.val.IsUint64():
		return p.val.Uint64(), true
	default:
		return 0, false
	}
}

// Add two (potentially infinite) values together.
func (p XInt) Add(o XInt) XInt {
	switch {
	case p.inf || o.inf:
		return Infinity
	case p.IsZero():
		return o
	case o.IsZero():
		return p
	default:
		return XInt{new(big.Int).Add(p.val, o.val), false}
	}
}

// AddUint adds a machine word onto this value.
func (p XInt) AddUint(o uint64) XInt {
	return p.Add(NewXInt(o))
}

// Sub subtracts a finite value from this (potentially infinite) value.
// Subtracting infinity, or subtracting a larger value from a finite value,
// indicates a logic fault and will panic.
func (p XInt) Sub(o XInt) XInt {
	switch {
	case o.inf:
		panic(fmt.Sprintf("cannot subtract infinity (%s - %s)", p.String(), o.String()))
	case p.inf:
		return Infinity
	case o.IsZero():
		return p
	case p.Cmp(o) < 0:
		panic(fmt.Sprintf("subtraction underflow (%s - %s)", p.String(), o.String()))
	}
	//
	return FromBig(new(big.Int).Sub(p.val, o.val))
}

// Decrement subtracts one from this value.  Observe that infinity minus one
// is infinity.
func (p XInt) Decrement() XInt {
	return p.Sub(NewXInt(1))
}

// Mul multiplies two (potentially infinite) values.  Zero absorbs infinity,
// otherwise infinity absorbs everything.
func (p XInt) Mul(o XInt) XInt {
	switch {
	case p.IsZero() || o.IsZero():
		return XInt{}
	case p.inf || o.inf:
		return Infinity
	default:
		return XInt{new(big.Int).Mul(p.val, o.val), false}
	}
}

// MulUint multiplies this value by a machine word.
func (p XInt) MulUint(o uint64) XInt {
	return p.Mul(NewXInt(o))
}

// Div performs floor division of this (potentially infinite) value by a
// finite non-zero value.  Dividing by zero or infinity will panic.
func (p XInt) Div(o XInt) XInt {
	switch {
	case o.inf || o.IsZero():
		panic(fmt.Sprintf("invalid divisor (%s / %s)", p.String(), o.String()))
	case p.inf:
		return Infinity
	case p.IsZero():
		return p
	default:
		return FromBig(new(big.Int).Quo(p.val, o.val))
	}
}

// Cmp compares two (potentially infinite) values, returning -1, 0 or 1.
// Infinity is equal to itself and greater than every finite value.
func (p XInt) Cmp(o XInt) int {
	switch {
	case p.inf && o.inf:
		return 0
	case p.inf:
		return 1
	case o.inf:
		return -1
	default:
		return p.big().Cmp(o.big())
	}
}

// Equal determines whether two values are identical.
func (p XInt) Equal(o XInt) bool {
	return p.Cmp(o) == 0
}

// Min determines the least of two values.
func (p XInt) Min(o XInt) XInt {
	if p.Cmp(o) <= 0 {
		return p
	}
	//
	return o
}

// big returns the underlying value of a finite integer, without cloning it.
func (p XInt) big() *big.Int {
	if p.val == nil {
		return &zero
	}
	//
	return p.val
}

func (p XInt) String() string {
	switch {
	case p.inf:
		return "inf"
	case p.val == nil:
		return "0"
	default:
		return p.val.String()
	}
}

// Abbrev returns a string representation of this value suitable for
// displaying to a human.  Values with more than 50 digits are summarised by
// their size along with their leading and trailing digits.
func (p XInt) Abbrev() string {
	str := p.String()
	if len(str) <= 50 {
		return str
	}
	//
	return fmt.Sprintf("(sz=%d:%s...%s)", len(str), str[:25], str[len(str)-25:])
}
