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
package poly

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"github.com/consensys/go-beaver/pkg/util/math"
)

// Var identifies a symbolic variable.  Variables are small integers allocated
// sequentially, such that they can be used to index side tables (e.g. of the
// minimum value observed for each variable).
type Var uint

// LinearExpr represents an affine combination of variables over the extended
// naturals, such as "2*v0 + v3 + 5".  Expressions are immutable: every
// operation returns a fresh expression.  Variables with a zero coefficient are
// never stored.  The zero value is the constant 0.
type LinearExpr struct {
	// coefficient for each variable present.
	coeffs map[Var]math.XInt
	// constant term.
	constant math.XInt
}

// Constant constructs an expression consisting only of a constant.
func Constant(c math.XInt) LinearExpr {
	return LinearExpr{nil, c}
}

// Variable constructs an expression consisting of a single variable with
// coefficient one.
func Variable(v Var) LinearExpr {
	return LinearExpr{map[Var]math.XInt{v: math.NewXInt(1)}, math.XInt{}}
}

// NumVars returns the number of variables in this expression.
func (p LinearExpr) NumVars() uint {
	return uint(len(p.coeffs))
}

// Vars returns the variables used in this expression, in increasing order.
func (p LinearExpr) Vars() []Var {
	return slices.Sorted(maps.Keys(p.coeffs))
}

// Coefficient returns the coefficient of a given variable (which is zero if
// the variable does not occur).
func (p LinearExpr) Coefficient(v Var) math.XInt {
	return p.coeffs[v]
}

// ConstantTerm returns the constant term of this expression.
func (p LinearExpr) ConstantTerm() math.XInt {
	return p.constant
}

// IsConstant returns true if this expression contains no variables.
func (p LinearExpr) IsConstant() bool {
	return len(p.coeffs) == 0
}

// IsZero returns true if this expression is the constant 0.
func (p LinearExpr) IsZero() bool {
	return p.IsConstant() && p.constant.IsZero()
}

// IsOne returns true if this expression is the constant 1.
func (p LinearExpr) IsOne() bool {
	return p.IsConstant() && p.constant.IsOne()
}

// IsInf returns true if this expression is the constant infinity.
func (p LinearExpr) IsInf() bool {
	return p.IsConstant() && p.constant.IsInf()
}

// One returns the constant expression 1.
func (p LinearExpr) One() LinearExpr {
	return Constant(math.NewXInt(1))
}

// Infinite returns the constant expression infinity.
func (p LinearExpr) Infinite() LinearExpr {
	return Constant(math.Infinity)
}

// Add another expression onto this expression.  Observe that infinity absorbs
// all variables.
func (p LinearExpr) Add(o LinearExpr) LinearExpr {
	var coeffs map[Var]math.XInt
	//
	if p.constant.IsInf() || o.constant.IsInf() {
		return Constant(math.Infinity)
	} else if len(p.coeffs)+len(o.coeffs) > 0 {
		coeffs = maps.Clone(p.coeffs)
		if coeffs == nil {
			coeffs = make(map[Var]math.XInt, len(o.coeffs))
		}
		//
		for v, c := range o.coeffs {
			coeffs[v] = coeffs[v].Add(c)
		}
	}
	//
	return LinearExpr{coeffs, p.constant.Add(o.constant)}
}

// AddConstant adds a constant onto this expression.
func (p LinearExpr) AddConstant(c math.XInt) LinearExpr {
	if c.IsInf() {
		return Constant(math.Infinity)
	}
	//
	return LinearExpr{p.coeffs, p.constant.Add(c)}
}

// SubConstant subtracts a constant from the constant term of this expression.
// This panics if the constant term would become negative.
func (p LinearExpr) SubConstant(c math.XInt) LinearExpr {
	return LinearExpr{p.coeffs, p.constant.Sub(c)}
}

// Decrement subtracts one from the constant term of this expression.
func (p LinearExpr) Decrement() LinearExpr {
	return p.SubConstant(math.NewXInt(1))
}

// Mul multiplies this expression by a constant.
func (p LinearExpr) Mul(c math.XInt) LinearExpr {
	if c.IsZero() {
		return LinearExpr{}
	}
	//
	var coeffs map[Var]math.XInt
	//
	if len(p.coeffs) > 0 {
		coeffs = make(map[Var]math.XInt, len(p.coeffs))
		for v, k := range p.coeffs {
			coeffs[v] = k.Mul(c)
		}
	}
	//
	return LinearExpr{coeffs, p.constant.Mul(c)}
}

// MulUint multiplies this expression by a machine word.
func (p LinearExpr) MulUint(c uint64) LinearExpr {
	return p.Mul(math.NewXInt(c))
}

// Substitute evaluates this expression under a given assignment of values to
// variables.  Every variable in the expression must be assigned.
func (p LinearExpr) Substitute(env map[Var]math.XInt) math.XInt {
	val := p.constant
	//
	for _, v := range p.Vars() {
		x, ok := env[v]
		if !ok {
			panic(fmt.Sprintf("unassigned variable v%d in %s", v, p.String()))
		}
		//
		val = val.Add(p.coeffs[v].Mul(x))
	}
	//
	return val
}

// Shift replaces every variable v in this expression with v - offset[v],
// returning the resulting expression.  Variables without an offset are left
// as is.  This panics if the constant term would become negative.
func (p LinearExpr) Shift(offsets map[Var]math.XInt) LinearExpr {
	var delta math.XInt
	//
	for v, c := range p.coeffs {
		if off, ok := offsets[v]; ok {
			delta = delta.Add(c.Mul(off))
		}
	}
	//
	return p.SubConstant(delta)
}

// Equal determines whether two expressions are syntactically identical.
func (p LinearExpr) Equal(o LinearExpr) bool {
	if len(p.coeffs) != len(o.coeffs) || !p.constant.Equal(o.constant) {
		return false
	}
	//
	for v, c := range p.coeffs {
		if d, ok := o.coeffs[v]; !ok || !c.Equal(d) {
			return false
		}
	}
	//
	return true
}

func (p LinearExpr) String() string {
	var buf bytes.Buffer
	//
	if p.IsConstant() {
		return p.constant.Abbrev()
	}
	//
	buf.WriteString("(")
	//
	for _, v := range p.Vars() {
		if c := p.coeffs[v]; !c.IsOne() {
			buf.WriteString(c.Abbrev())
			buf.WriteString("*")
		}
		//
		buf.WriteString(fmt.Sprintf("v%d+", v))
	}
	//
	buf.WriteString(p.constant.Abbrev())
	buf.WriteString(")")
	//
	return buf.String()
}

// Abbrev returns a string representation of this expression, where large
// values are summarised.
func (p LinearExpr) Abbrev() string {
	return p.String()
}
