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
	"github.com/consensys/go-beaver/pkg/machine"
	"github.com/consensys/go-beaver/pkg/tape"
	"github.com/consensys/go-beaver/pkg/util/math"
	"github.com/consensys/go-beaver/pkg/util/poly"
)

// GeneralSimulator simulates a machine over a symbolic tape, whilst recording
// the least value taken by the constant term of each block controlled by a
// variable.  This is used to check that a candidate rule holds for all
// instantiations of its variables.
type GeneralSimulator struct {
	machine machine.Machine
	// Current state
	State machine.State
	// Current (symbolic) tape
	Tape tape.GeneralChainTape
	// Number of base steps taken so far
	Steps poly.LinearExpr
	// Number of loops executed so far
	Loops uint64
	// Operating condition
	Condition machine.Condition
	// minimum constant term observed for each variable
	mins []math.XInt
}

// NewGeneralSimulator constructs a simulator for a given machine starting from
// a given state and symbolic tape.  The minimum value recorded for each
// variable is initialised from mins, which is updated in place.
func NewGeneralSimulator(m machine.Machine, state machine.State, t tape.GeneralChainTape,
	mins []math.XInt) *GeneralSimulator {
	return &GeneralSimulator{m, state, t, poly.LinearExpr{}, 0, machine.Running, mins}
}

// Minimums returns the least constant term observed for each variable.
func (p *GeneralSimulator) Minimums() []math.XInt {
	return p.mins
}

// Run the simulator for a given number of loops, failing if any step fails.
func (p *GeneralSimulator) Run(loops uint64) error {
	for p.Loops < loops {
		if err := p.Step(); err != nil {
			return err
		}
	}
	//
	return nil
}

// Step performs a single chain or macro move.
func (p *GeneralSimulator) Step() error {
	if p.Condition != machine.Running {
		return ErrNotRunning
	}
	//
	facing := p.Tape.Facing()
	// A block of length "x+0" is ambiguous, as x may be zero.
	if !facing.Count.IsConstant() && facing.Count.ConstantTerm().IsZero() {
		return ErrZeroBlock
	}
	//
	trans := p.machine.Transition(facing.Symbol, p.State, p.Tape.Dir)
	//
	if trans.Condition != machine.Running {
		p.Condition = trans.Condition
		return ErrNotRunning
	} else if trans.State == p.State && trans.Dir == p.Tape.Dir {
		// Chain move
		count, ok := p.Tape.ApplyChainMove(trans.Symbol)
		if !ok {
			p.Condition = machine.ProvenInfinite
			return ErrNotRunning
		}
		//
		p.Steps = p.Steps.Add(count.MulUint(trans.Steps))
	} else {
		// Macro move
		p.Tape.ApplySingleMove(trans.Symbol, trans.Dir)
		p.State = trans.State
		p.Steps = p.Steps.AddConstant(math.NewXInt(trans.Steps))
	}
	//
	p.Loops++
	//
	return p.updateMinimums()
}

func (p *GeneralSimulator) updateMinimums() error {
	for _, half := range p.Tape.Halves {
		for _, b := range half {
			switch b.Count.NumVars() {
			case 0:
				continue
			case 1:
				v := b.Count.Vars()[0]
				//
				if !b.Count.Coefficient(v).IsOne() {
					return ErrMultipleVars
				}
				//
				p.mins[v] = p.mins[v].Min(b.Count.ConstantTerm())
			default:
				return ErrMultipleVars
			}
		}
	}
	//
	return nil
}
