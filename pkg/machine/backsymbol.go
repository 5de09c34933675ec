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

import "fmt"

// BacksymbolMachine is a macro machine which folds the cell immediately behind
// the head of an underlying machine into its state.  A state of this machine
// encodes a pair (state, backsymbol) of the underlying machine.  Transitions
// are computed on demand by simulating the underlying machine over the two
// cells formed from the facing symbol and the backsymbol.
type BacksymbolMachine struct {
	base     Machine
	maxSteps uint64
	// lazily computed transitions, indexed by cacheKey().
	cache map[uint32]Transition
}

// NewBacksymbolMachine constructs a backsymbol macro machine over a given
// machine.  This fails if the resulting space of transitions is too large.
func NewBacksymbolMachine(base Machine, maxSteps uint64) (*BacksymbolMachine, error) {
	numStates := uint64(base.NumStates()) * uint64(base.NumSymbols())
	//
	if numStates > MAX_SYMBOLS*MAX_SYMBOLS {
		return nil, fmt.Errorf("too many backsymbol states (%d)", numStates)
	} else if err := checkKeySpace(uint(numStates), base.NumSymbols()); err != nil {
		return nil, err
	}
	//
	return &BacksymbolMachine{base, maxSteps, make(map[uint32]Transition)}, nil
}

// NumStates implementation for Machine interface.
func (p *BacksymbolMachine) NumStates() uint {
	return p.base.NumStates() * p.base.NumSymbols()
}

// NumSymbols implementation for Machine interface.
func (p *BacksymbolMachine) NumSymbols() uint {
	return p.base.NumSymbols()
}

// InitState implementation for Machine interface.  Initially, the backsymbol
// is blank.
func (p *BacksymbolMachine) InitState() State {
	return p.join(p.base.InitState(), p.base.InitSymbol())
}

// InitSymbol implementation for Machine interface.
func (p *BacksymbolMachine) InitSymbol() Symbol {
	return p.base.InitSymbol()
}

// InitDir implementation for Machine interface.
func (p *BacksymbolMachine) InitDir() Dir {
	return p.base.InitDir()
}

// Transition implementation for Machine interface.
func (p *BacksymbolMachine) Transition(symbol Symbol, state State, dir Dir) Transition {
	key := cacheKey(symbol, state, dir, p.base.NumSymbols())
	//
	if trans, ok := p.cache[key]; ok {
		return trans
	}
	//
	var (
		base, back = p.split(state)
		cells      []Symbol
		pos        int
	)
	// Backsymbol is behind the head
	if dir == Right {
		cells, pos = []Symbol{back, symbol}, 1
	} else {
		cells, pos = []Symbol{symbol, back}, 0
	}
	//
	res := simulateLimited(p.base, base, cells, dir, pos, p.maxSteps)
	// The cell adjacent to the head becomes the new backsymbol, whilst the
	// other is written to the tape.
	var out Symbol
	//
	if res.dir == Right {
		back, out = cells[1], cells[0]
	} else {
		back, out = cells[0], cells[1]
	}
	//
	trans := Transition{res.condition, res.details, out, p.join(res.state, back), res.dir, res.steps}
	p.cache[key] = trans
	//
	return trans
}

// SymbolString implementation for Machine interface.
func (p *BacksymbolMachine) SymbolString(symbol Symbol) string {
	return p.base.SymbolString(symbol)
}

// HeadString implementation for Machine interface.  The backsymbol is shown
// behind the head.
func (p *BacksymbolMachine) HeadString(state State, dir Dir) string {
	if state < 0 {
		return p.base.HeadString(state, dir)
	}
	//
	base, back := p.split(state)
	head := p.base.HeadString(base, dir)
	//
	if dir == Right {
		return p.base.SymbolString(back) + " " + head
	}
	//
	return head + " " + p.base.SymbolString(back)
}

func (p *BacksymbolMachine) join(state State, back Symbol) State {
	if state < 0 {
		return Halt
	}
	//
	return state*State(p.base.NumSymbols()) + State(back)
}

func (p *BacksymbolMachine) split(state State) (State, Symbol) {
	n := State(p.base.NumSymbols())
	return state / n, Symbol(state % n)
}
