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
	"testing"

	"github.com/consensys/go-beaver/pkg/util/math"
	"github.com/stretchr/testify/assert"
)

func num(n uint64) math.XInt {
	return math.NewXInt(n)
}

func Test_Linear_01(t *testing.T) {
	e := Variable(0).AddConstant(num(5))
	assert.Equal(t, "(v0+5)", e.String())
	assert.Equal(t, uint(1), e.NumVars())
	assert.False(t, e.IsConstant())
	assert.False(t, e.IsZero())
}

func Test_Linear_02(t *testing.T) {
	e := Variable(0).Add(Variable(2)).Add(Variable(0)).AddConstant(num(3))
	assert.Equal(t, "(2*v0+v2+3)", e.String())
	assert.Equal(t, []Var{0, 2}, e.Vars())
	assert.True(t, e.Coefficient(0).Equal(num(2)))
	assert.True(t, e.Coefficient(1).IsZero())
}

func Test_Linear_03(t *testing.T) {
	e := Variable(1).AddConstant(num(4)).MulUint(3)
	assert.Equal(t, "(3*v1+12)", e.String())
	// multiplying by zero eliminates all variables
	assert.True(t, e.Mul(math.XInt{}).IsZero())
}

func Test_Linear_04(t *testing.T) {
	checkSubstitute(t, Variable(0).AddConstant(num(5)), map[Var]math.XInt{0: num(7)}, 12)
	checkSubstitute(t, Variable(0).MulUint(2).Add(Variable(1)), map[Var]math.XInt{0: num(3), 1: num(4)}, 10)
	checkSubstitute(t, Constant(num(9)), nil, 9)
}

func Test_Linear_05(t *testing.T) {
	e := Variable(0).AddConstant(num(1))
	assert.Panics(t, func() { e.Substitute(map[Var]math.XInt{}) })
	assert.Panics(t, func() { e.Decrement().Decrement() })
}

func Test_Linear_06(t *testing.T) {
	e := Variable(0).MulUint(2).AddConstant(num(19))
	// replace v0 with v0-6
	s := e.Shift(map[Var]math.XInt{0: num(6)})
	assert.Equal(t, "(2*v0+7)", s.String())
	// variables without offset unchanged
	assert.True(t, e.Shift(map[Var]math.XInt{1: num(6)}).Equal(e))
}

func Test_Linear_07(t *testing.T) {
	assert.True(t, LinearExpr{}.One().IsOne())
	assert.True(t, LinearExpr{}.Infinite().IsInf())
	assert.True(t, Constant(math.Infinity).Add(Constant(num(3))).IsInf())
	assert.True(t, Variable(0).Add(Constant(math.Infinity)).IsInf())
	assert.True(t, Variable(0).AddConstant(math.Infinity).IsInf())
	assert.Equal(t, "inf", Constant(math.Infinity).String())
}

func Test_Linear_08(t *testing.T) {
	a := Variable(0).AddConstant(num(3))
	b := Variable(0).AddConstant(num(3))
	c := Variable(1).AddConstant(num(3))
	//
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(a.AddConstant(num(1))))
	// operands never updated in place
	_ = a.Add(c)
	assert.Equal(t, "(v0+3)", a.String())
}

func checkSubstitute(t *testing.T, e LinearExpr, env map[Var]math.XInt, expected uint64) {
	actual := e.Substitute(env)
	assert.True(t, actual.Equal(num(expected)), "%s evaluated to %s (not %d)", e, actual, expected)
}
