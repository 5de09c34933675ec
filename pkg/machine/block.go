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
	"math"
	"strings"
)

// MAX_SYMBOLS bounds the alphabet size of any macro machine.
const MAX_SYMBOLS = 1 << 20

// BlockMachine is a macro machine which groups a fixed number of adjacent
// cells of an underlying machine into a single symbol.  Transitions are
// computed on demand by simulating the underlying machine within a block, and
// are cached thereafter.
type BlockMachine struct {
	base       Machine
	blockSize  uint
	numSymbols uint
	// maximum number of underlying transitions per block (or 0 for no limit)
	maxSteps uint64
	// lazily computed transitions, indexed by cacheKey().
	cache map[uint32]Transition
}

// NewBlockMachine constructs a block macro machine over a given machine.  This
// fails if the resulting alphabet, or the space of transitions, is too large.
func NewBlockMachine(base Machine, blockSize uint, maxSteps uint64) (*BlockMachine, error) {
	var numSymbols uint = 1
	//
	if blockSize == 0 {
		return nil, fmt.Errorf("invalid block size %d", blockSize)
	}
	//
	for range blockSize {
		numSymbols *= base.NumSymbols()
		//
		if numSymbols > MAX_SYMBOLS {
			return nil, fmt.Errorf("block size %d too large (more than %d symbols)", blockSize, MAX_SYMBOLS)
		}
	}
	//
	if err := checkKeySpace(base.NumStates(), numSymbols); err != nil {
		return nil, err
	}
	//
	return &BlockMachine{base, blockSize, numSymbols, maxSteps, make(map[uint32]Transition)}, nil
}

// BlockSize returns the number of underlying cells per symbol.
func (p *BlockMachine) BlockSize() uint {
	return p.blockSize
}

// NumStates implementation for Machine interface.
func (p *BlockMachine) NumStates() uint {
	return p.base.NumStates()
}

// NumSymbols implementation for Machine interface.
func (p *BlockMachine) NumSymbols() uint {
	return p.numSymbols
}

// InitState implementation for Machine interface.
func (p *BlockMachine) InitState() State {
	return p.base.InitState()
}

// InitSymbol implementation for Machine interface.
func (p *BlockMachine) InitSymbol() Symbol {
	cells := make([]Symbol, p.blockSize)
	for i := range cells {
		cells[i] = p.base.InitSymbol()
	}
	//
	return p.encode(cells)
}

// InitDir implementation for Machine interface.
func (p *BlockMachine) InitDir() Dir {
	return p.base.InitDir()
}

// Transition implementation for Machine interface.  The underlying machine
// enters the block at the end from which it is travelling.
func (p *BlockMachine) Transition(symbol Symbol, state State, dir Dir) Transition {
	key := cacheKey(symbol, state, dir, p.numSymbols)
	//
	if trans, ok := p.cache[key]; ok {
		return trans
	}
	//
	var (
		cells = p.decode(symbol)
		pos   = 0
	)
	//
	if dir == Left {
		pos = len(cells) - 1
	}
	//
	res := simulateLimited(p.base, state, cells, dir, pos, p.maxSteps)
	trans := Transition{res.condition, res.details, p.encode(cells), res.state, res.dir, res.steps}
	p.cache[key] = trans
	//
	return trans
}

// SymbolString implementation for Machine interface.
func (p *BlockMachine) SymbolString(symbol Symbol) string {
	var builder strings.Builder
	//
	for _, c := range p.decode(symbol) {
		builder.WriteString(p.base.SymbolString(c))
	}
	//
	return builder.String()
}

// HeadString implementation for Machine interface.
func (p *BlockMachine) HeadString(state State, dir Dir) string {
	return p.base.HeadString(state, dir)
}

// Decode a block symbol into its underlying cells, with the leftmost cell
// being the least significant digit.
func (p *BlockMachine) decode(symbol Symbol) []Symbol {
	var (
		cells = make([]Symbol, p.blockSize)
		n     = Symbol(p.base.NumSymbols())
	)
	//
	for i := range cells {
		cells[i] = symbol % n
		symbol /= n
	}
	//
	return cells
}

func (p *BlockMachine) encode(cells []Symbol) Symbol {
	var (
		symbol Symbol
		n      = Symbol(p.base.NumSymbols())
	)
	//
	for i := len(cells); i > 0; i-- {
		symbol = symbol*n + cells[i-1]
	}
	//
	return symbol
}

// Check that every (state, symbol, direction) triple can be encoded as a
// cache key.
func checkKeySpace(numStates uint, numSymbols uint) error {
	if numStates == 0 || numSymbols == 0 {
		return fmt.Errorf("invalid machine (%d states, %d symbols)", numStates, numSymbols)
	} else if uint64(numStates)*uint64(numSymbols)*2 > math.MaxUint32+1 {
		return fmt.Errorf("too many transitions (%d states, %d symbols)", numStates, numSymbols)
	}
	//
	return nil
}

func cacheKey(symbol Symbol, state State, dir Dir, numSymbols uint) uint32 {
	if state < 0 {
		panic(fmt.Sprintf("transition lookup for halting state %d", state))
	}
	//
	return (uint32(state)*uint32(numSymbols)+uint32(symbol))*2 + uint32(dir)
}
