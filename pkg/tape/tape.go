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
package tape

import (
	"github.com/consensys/go-beaver/pkg/machine"
	"github.com/consensys/go-beaver/pkg/util/math"
	"github.com/consensys/go-beaver/pkg/util/poly"
)

// Count captures the arithmetic needed of a run length.  This is implemented
// by concrete counts (math.XInt) and by symbolic counts (poly.LinearExpr),
// allowing the same tape operations to drive both concrete and symbolic
// simulation.
type Count[N any] interface {
	Add(N) N
	Decrement() N
	Equal(N) bool
	IsZero() bool
	IsOne() bool
	IsInf() bool
	One() N
	Infinite() N
	String() string
	Abbrev() string
}

// Block represents a run of a single symbol repeated some number of times.
type Block[N Count[N]] struct {
	// ID identifies the position of this block at the start of a symbolic
	// simulation (as an offset from the head), or is zero for blocks created
	// during simulation and for all concrete blocks.
	ID int
	// Symbol being repeated
	Symbol machine.Symbol
	// Number of repetitions
	Count N
}

// Tape represents a run-length encoded tape split at the head into two
// halves.  Each half is ordered from the outermost block (index 0) to the
// innermost block.  The innermost block of the half in the direction of
// travel is the block facing the head.  Both halves are never empty, and
// adjacent blocks never repeat the same symbol.
type Tape[N Count[N]] struct {
	// Direction the head is moving in.
	Dir machine.Dir
	// Half tapes, indexed by direction.
	Halves [2][]Block[N]
}

// ChainTape is a tape whose run lengths are concrete.
type ChainTape = Tape[math.XInt]

// GeneralChainTape is a tape whose run lengths are symbolic.
type GeneralChainTape = Tape[poly.LinearExpr]

// New constructs a blank tape, where both halves consist of an infinite run
// of a given symbol.
func New[N Count[N]](symbol machine.Symbol, dir machine.Dir) Tape[N] {
	var n N
	//
	left := []Block[N]{{0, symbol, n.Infinite()}}
	right := []Block[N]{{0, symbol, n.Infinite()}}
	//
	return Tape[N]{dir, [2][]Block[N]{left, right}}
}

// NewChainTape constructs a blank concrete tape.
func NewChainTape(symbol machine.Symbol, dir machine.Dir) ChainTape {
	return New[math.XInt](symbol, dir)
}

// Facing returns the block currently facing the head.
func (p *Tape[N]) Facing() Block[N] {
	half := p.Halves[p.Dir]
	return half[len(half)-1]
}

// FacingSymbol returns the symbol currently under the head.
func (p *Tape[N]) FacingSymbol() machine.Symbol {
	half := p.Halves[p.Dir]
	return half[len(half)-1].Symbol
}

// Half returns the blocks of a given half, ordered from the outermost block to
// the innermost.
func (p *Tape[N]) Half(dir machine.Dir) []Block[N] {
	return p.Halves[dir]
}

// ApplyChainMove replaces the entire block facing the head with a new symbol,
// moving it behind the head.  This returns the number of symbols replaced.
// If the facing block is infinite, the tape is left unchanged and false is
// returned: the head would travel forever.
func (p *Tape[N]) ApplyChainMove(symbol machine.Symbol) (N, bool) {
	front := p.Halves[p.Dir]
	block := front[len(front)-1]
	//
	if block.Count.IsInf() {
		return block.Count, false
	}
	// Pop off the facing block
	p.Halves[p.Dir] = front[:len(front)-1]
	// Push behind
	back := p.Halves[p.Dir.Flip()]
	if top := &back[len(back)-1]; top.Symbol == symbol {
		top.Count = top.Count.Add(block.Count)
	} else {
		block.Symbol = symbol
		p.Halves[p.Dir.Flip()] = append(back, block)
	}
	//
	return block.Count, true
}

// ApplySingleMove removes one symbol from the block facing the head, and
// pushes one instance of a new symbol behind the head after it has turned to
// face a given direction.
func (p *Tape[N]) ApplySingleMove(symbol machine.Symbol, dir machine.Dir) {
	// Remove one symbol
	front := p.Halves[p.Dir]
	top := &front[len(front)-1]
	top.Count = top.Count.Decrement()
	//
	if top.Count.IsZero() {
		p.Halves[p.Dir] = front[:len(front)-1]
	}
	// Push new symbol
	back := p.Halves[dir.Flip()]
	if top := &back[len(back)-1]; top.Symbol == symbol {
		top.Count = top.Count.Add(top.Count.One())
	} else {
		var n N
		p.Halves[dir.Flip()] = append(back, Block[N]{0, symbol, n.One()})
	}
	//
	p.Dir = dir
}

// Copy returns a deep copy of this tape.
func (p *Tape[N]) Copy() Tape[N] {
	var halves [2][]Block[N]
	//
	for i, half := range p.Halves {
		halves[i] = make([]Block[N], len(half))
		copy(halves[i], half)
	}
	//
	return Tape[N]{p.Dir, halves}
}

// Equal determines whether two tapes have the same direction and identical
// blocks (ignoring block identifiers).
func (p *Tape[N]) Equal(o *Tape[N]) bool {
	if p.Dir != o.Dir {
		return false
	}
	//
	for i := range p.Halves {
		if len(p.Halves[i]) != len(o.Halves[i]) {
			return false
		}
		//
		for j, b := range p.Halves[i] {
			c := o.Halves[i][j]
			if b.Symbol != c.Symbol || !b.Count.Equal(c.Count) {
				return false
			}
		}
	}
	//
	return true
}
