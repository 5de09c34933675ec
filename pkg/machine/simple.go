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
package machine

import (
	"fmt"
	"strconv"
)

// Quintuple defines a single entry of a transition table.  A negative output
// state indicates the machine halts after taking this transition.
type Quintuple struct {
	StateIn   State
	SymbolIn  Symbol
	SymbolOut Symbol
	DirOut    Dir
	StateOut  State
}

// SimpleMachine is a machine defined by an explicit transition table.  Every
// transition takes exactly one step.
type SimpleMachine struct {
	numStates  uint
	numSymbols uint
	// Transition table indexed by state, then symbol.
	table [][]Transition
}

// NewSimpleMachine constructs a machine from a given set of quintuples.  Any
// entry of the transition table which is not defined by a quintuple is
// undefined.
func NewSimpleMachine(quints []Quintuple, numStates uint, numSymbols uint) (*SimpleMachine, error) {
	table := make([][]Transition, numStates)
	// Default all entries to undefined
	for i := range table {
		table[i] = make([]Transition, numSymbols)
		//
		for j := range table[i] {
			table[i][j] = Transition{Undefined, []int{j, i}, Symbol(j), Halt, Right, 0}
		}
	}
	// Set all defined entries
	for _, q := range quints {
		switch {
		case q.StateIn < 0 || uint(q.StateIn) >= numStates:
			return nil, fmt.Errorf("invalid input state %d", q.StateIn)
		case uint(q.SymbolIn) >= numSymbols:
			return nil, fmt.Errorf("invalid input symbol %d", q.SymbolIn)
		case uint(q.SymbolOut) >= numSymbols:
			return nil, fmt.Errorf("invalid output symbol %d", q.SymbolOut)
		case q.StateOut >= 0 && uint(q.StateOut) >= numStates:
			return nil, fmt.Errorf("invalid output state %d", q.StateOut)
		case q.StateOut < 0:
			details := []int{int(q.SymbolIn), int(q.StateIn)}
			table[q.StateIn][q.SymbolIn] = Transition{Halted, details, q.SymbolOut, Halt, q.DirOut, 1}
		default:
			table[q.StateIn][q.SymbolIn] = Transition{Running, nil, q.SymbolOut, q.StateOut, q.DirOut, 1}
		}
	}
	//
	return &SimpleMachine{numStates, numSymbols, table}, nil
}

// NumStates implementation for Machine interface.
func (p *SimpleMachine) NumStates() uint {
	return p.numStates
}

// NumSymbols implementation for Machine interface.
func (p *SimpleMachine) NumSymbols() uint {
	return p.numSymbols
}

// InitState implementation for Machine interface.
func (p *SimpleMachine) InitState() State {
	return 0
}

// InitSymbol implementation for Machine interface.
func (p *SimpleMachine) InitSymbol() Symbol {
	return 0
}

// InitDir implementation for Machine interface.
func (p *SimpleMachine) InitDir() Dir {
	return Right
}

// Transition implementation for Machine interface.  Observe the direction of
// travel does not affect the transitions of a simple machine.
func (p *SimpleMachine) Transition(symbol Symbol, state State, _ Dir) Transition {
	if state < 0 || uint(state) >= p.numStates || uint(symbol) >= p.numSymbols {
		panic(fmt.Sprintf("invalid transition lookup (state %d, symbol %d)", state, symbol))
	}
	//
	return p.table[state][symbol]
}

// SymbolString implementation for Machine interface.
func (p *SimpleMachine) SymbolString(symbol Symbol) string {
	return strconv.FormatUint(uint64(symbol), 10)
}

// HeadString implementation for Machine interface.
func (p *SimpleMachine) HeadString(state State, dir Dir) string {
	name := stateName(state)
	//
	if dir == Left {
		return "<" + name
	}
	//
	return name + ">"
}

func stateName(state State) string {
	if state < 0 {
		return "Z"
	}
	//
	return string(rune('A' + state))
}
