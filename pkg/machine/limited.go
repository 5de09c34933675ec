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
	"slices"
)

// FIRST_SNAPSHOT determines the number of steps taken by a limited simulation
// before the first snapshot is taken for cycle detection.  Subsequent
// snapshots are taken whenever the number of steps doubles.
const FIRST_SNAPSHOT = 128

// limitedResult captures the outcome of simulating a machine over a bounded
// section of tape.
type limitedResult struct {
	condition Condition
	details   []int
	state     State
	dir       Dir
	// Final head position, which is outside the tape section if (and only if)
	// the machine is still running.
	pos   int
	steps uint64
}

// snapshot records a configuration of a limited simulation.
type snapshot struct {
	state State
	tape  []Symbol
	dir   Dir
	pos   int
}

func (p *snapshot) matches(state State, tape []Symbol, dir Dir, pos int) bool {
	return p.state == state && p.dir == dir && p.pos == pos && slices.Equal(p.tape, tape)
}

// Simulate a machine over a given section of tape (updated in place), starting
// at a given position, until the head leaves the section.  Halting and
// undefined transitions are detected, as are machines which never leave the
// section (by finding a repeated configuration).  If maxSteps is non-zero, the
// simulation gives up after that many steps.
func simulateLimited(m Machine, state State, tape []Symbol, dir Dir, pos int, maxSteps uint64) limitedResult {
	var (
		steps    uint64
		saved    *snapshot
		nextSave uint64 = FIRST_SNAPSHOT
	)
	//
	for loops := uint64(1); ; loops++ {
		trans := m.Transition(tape[pos], state, dir)
		steps += trans.Steps
		//
		if trans.Condition == Undefined {
			details := append(slices.Clone(trans.Details), pos)
			return limitedResult{Undefined, details, state, dir, pos, steps}
		}
		//
		tape[pos] = trans.Symbol
		state = trans.State
		dir = trans.Dir
		pos += dir.Delta()
		//
		switch {
		case trans.Condition != Running:
			// Base machine stopped running (e.g. halted)
			details := append(slices.Clone(trans.Details), pos)
			return limitedResult{trans.Condition, details, state, dir, pos, steps}
		case pos < 0 || pos >= len(tape):
			// Ran off one end of the section
			return limitedResult{Running, nil, state, dir, pos, steps}
		case saved != nil && saved.matches(state, tape, dir, pos):
			return limitedResult{ProvenInfinite, []int{pos}, state, dir, pos, steps}
		case maxSteps != 0 && loops >= maxSteps:
			return limitedResult{OverranMacroBoundary, []int{pos}, state, dir, pos, steps}
		case loops >= nextSave:
			saved = &snapshot{state, slices.Clone(tape), dir, pos}
			nextSave *= 2
		}
	}
}
