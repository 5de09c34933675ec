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
package proof

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/go-beaver/pkg/machine"
	"github.com/consensys/go-beaver/pkg/tape"
	"github.com/consensys/go-beaver/pkg/util/math"
	"github.com/consensys/go-beaver/pkg/util/poly"
)

// DiffRule describes the effect of running a machine for a fixed number of
// loops from any configuration of a given shape.  The variable blocks of the
// initial tape have the form "x+m", where m is the least length for which the
// rule holds and x is any natural.  After the given number of loops, the
// machine reaches the final tape with each variable block having changed by a
// constant amount.  The number of base steps taken is given as an expression
// over the same variables.
type DiffRule struct {
	// ID of this rule, allocated in the order rules are proven.
	ID uint
	// Shape of configurations to which this rule applies.
	Config StrippedConfig
	// Tape before and after applying the rule.
	Initial, Final tape.GeneralChainTape
	// State before (and after) applying this rule.
	State machine.State
	// Number of base steps taken per application.
	Steps poly.LinearExpr
	// Number of loops taken per application.
	Loops uint64
	// Number of times this rule has been applied.
	Uses uint64
}

// Generalize a concrete tape into a symbolic tape by replacing the length of
// each block (other than those of length one or infinity) with "x+n", where x
// is a fresh variable and n the block's length.  Block identifiers are
// assigned by their offset from the head, with negative offsets for the left
// half.  The concrete length of each block is returned, indexed by variable.
func Generalize(t *tape.ChainTape) (tape.GeneralChainTape, []math.XInt) {
	var (
		gen  tape.GeneralChainTape
		mins []math.XInt
	)
	//
	gen.Dir = t.Dir
	//
	for dir, half := range t.Halves {
		blocks := make([]tape.Block[poly.LinearExpr], len(half))
		//
		for i, b := range half {
			id := len(half) - i
			if machine.Dir(dir) == machine.Left {
				id = -id
			}
			//
			count := poly.Constant(b.Count)
			//
			if !b.Count.IsOne() && !b.Count.IsInf() {
				v := poly.Var(len(mins))
				mins = append(mins, b.Count)
				count = poly.Variable(v).AddConstant(b.Count)
			}
			//
			blocks[i] = tape.Block[poly.LinearExpr]{ID: id, Symbol: b.Symbol, Count: count}
		}
		//
		gen.Halves[dir] = blocks
	}
	//
	return gen, mins
}

// Tighten an expression by replacing every variable x with x-m+1, where m is
// the least value observed for the block controlled by x.  Thus, x=0
// corresponds to the smallest instance for which the rule holds.
func tighten(e poly.LinearExpr, mins []math.XInt) poly.LinearExpr {
	var (
		offsets = make(map[poly.Var]math.XInt)
		ones    math.XInt
	)
	//
	for _, v := range e.Vars() {
		offsets[v] = mins[v]
		ones = ones.Add(e.Coefficient(v))
	}
	//
	return e.AddConstant(ones).Shift(offsets)
}

func tightenTape(t *tape.GeneralChainTape, mins []math.XInt) {
	for _, half := range t.Halves {
		for i := range half {
			half[i].Count = tighten(half[i].Count, mins)
		}
	}
}

// Check that each block of the final tape is controlled by the same variable
// as the corresponding block of the initial tape (or is unchanged when
// there is no such variable).  Both tapes must have the same shape.
func checkDifferences(initial, final *tape.GeneralChainTape) error {
	for dir := range initial.Halves {
		for i, b := range initial.Halves[dir] {
			c := final.Halves[dir][i].Count
			//
			switch {
			case b.Count.IsConstant() && !b.Count.Equal(c):
				return ErrNotDiff
			case b.Count.IsConstant():
				continue
			case c.NumVars() != 1 || b.Count.Vars()[0] != c.Vars()[0]:
				return ErrNotDiff
			}
		}
	}
	//
	return nil
}

// Repetitions determines how many times this rule can be applied in succession
// to a given tape, which must have the shape of this rule.  This returns false
// if the rule cannot be applied even once, and infinity if it can be applied
// indefinitely (i.e. because no block ever shrinks).
func (p *DiffRule) Repetitions(t *tape.ChainTape) (math.XInt, bool) {
	var reps = math.Infinity
	//
	p.checkShape(t)
	//
	for dir := range p.Initial.Halves {
		for i, init := range p.Initial.Halves[dir] {
			if init.Count.IsConstant() {
				continue
			}
			//
			var (
				least  = init.Count.ConstantTerm()
				final  = p.Final.Halves[dir][i].Count.ConstantTerm()
				actual = t.Halves[dir][i].Count
			)
			//
			if actual.Cmp(least) < 0 {
				return math.XInt{}, false
			} else if final.Cmp(least) < 0 {
				shrink := least.Sub(final)
				// Number of times block can shrink before dropping below least
				n := actual.Sub(least).Div(shrink).AddUint(1)
				reps = reps.Min(n)
			}
		}
	}
	//
	return reps, true
}

// Apply this rule a given (finite) number of times to a given tape, returning
// the resulting tape and the number of base steps taken.  The number of
// repetitions must not exceed that permitted by Repetitions().
func (p *DiffRule) Apply(t *tape.ChainTape, reps math.XInt) (tape.ChainTape, math.XInt) {
	var (
		result = t.Copy()
		r      = reps.BigInt()
		// r * (r-1) / 2
		tri = new(big.Int).Rsh(new(big.Int).Mul(r, new(big.Int).Sub(r, big.NewInt(1))), 1)
		// Steps taken by constant term alone
		steps = new(big.Int).Mul(r, p.Steps.ConstantTerm().BigInt())
	)
	//
	p.checkShape(t)
	//
	for dir := range p.Initial.Halves {
		for i, init := range p.Initial.Halves[dir] {
			if init.Count.IsConstant() {
				continue
			}
			//
			var (
				v      = init.Count.Vars()[0]
				least  = init.Count.ConstantTerm().BigInt()
				final  = p.Final.Halves[dir][i].Count.ConstantTerm().BigInt()
				actual = t.Halves[dir][i].Count
			)
			//
			if actual.IsInf() {
				panic(fmt.Sprintf("infinite block at variable position %d of rule %d", i, p.ID))
			}
			// Value of variable for first application
			x := new(big.Int).Sub(actual.BigInt(), least)
			// Change in value per application
			delta := new(big.Int).Sub(final, least)
			// Update block
			length := new(big.Int).Add(actual.BigInt(), new(big.Int).Mul(r, delta))
			result.Halves[dir][i].Count = math.FromBig(length)
			// Steps contributed across all applications: coeff * (r*x + delta*r*(r-1)/2)
			if coeff := p.Steps.Coefficient(v); !coeff.IsZero() {
				sum := new(big.Int).Mul(r, x)
				sum.Add(sum, new(big.Int).Mul(delta, tri))
				steps.Add(steps, sum.Mul(sum, coeff.BigInt()))
			}
		}
	}
	//
	return result, math.FromBig(steps)
}

// Sanity check a tape has the same structure as this rule.
func (p *DiffRule) checkShape(t *tape.ChainTape) {
	for dir := range p.Initial.Halves {
		if len(p.Initial.Halves[dir]) != len(t.Halves[dir]) || len(p.Final.Halves[dir]) != len(t.Halves[dir]) {
			panic(fmt.Sprintf("rule %d does not match shape of tape", p.ID))
		}
	}
}

func (p *DiffRule) String() string {
	var builder strings.Builder
	//
	symbol := func(s machine.Symbol) string { return fmt.Sprintf("%d", s) }
	//
	fmt.Fprintf(&builder, "rule %d (%d loops, %s steps, state %d)\n", p.ID, p.Loops, p.Steps.String(), p.State)
	p.Initial.Render(&builder, "|", symbol, true)
	p.Final.Render(&builder, "|", symbol, true)
	//
	return builder.String()
}
