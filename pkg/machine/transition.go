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

// Symbol identifies a tape symbol of some machine.  Symbols of macro machines
// encode several symbols of the underlying machine.
type Symbol uint

// State identifies a machine state.  Negative states are halting.
type State int

// Halt is the state entered by a machine upon halting.
const Halt State = -1

// Dir is a direction of head movement.  Directions double as indices into the
// two halves of a tape.
type Dir uint8

const (
	// Left indicates movement towards the left end of the tape.
	Left Dir = 0
	// Right indicates movement towards the right end of the tape.
	Right Dir = 1
)

// Flip returns the opposite direction.
func (d Dir) Flip() Dir {
	return 1 - d
}

// Delta returns the change in head position when moving in this direction.
func (d Dir) Delta() int {
	if d == Left {
		return -1
	}
	//
	return 1
}

func (d Dir) String() string {
	if d == Left {
		return "L"
	}
	//
	return "R"
}

// Condition describes the outcome of a transition, and likewise the operating
// condition of a simulator.
type Condition uint8

const (
	// Running indicates the machine continues running normally.
	Running Condition = iota
	// Halted indicates the machine halts in, or directly after, a transition.
	Halted
	// ProvenInfinite indicates the machine was proven never to halt.
	ProvenInfinite
	// Undefined indicates the machine encountered an undefined transition.
	Undefined
	// OverranMacroBoundary indicates that computing a macro transition
	// exceeded the permitted number of steps.
	OverranMacroBoundary
)

func (c Condition) String() string {
	switch c {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case ProvenInfinite:
		return "infinite"
	case Undefined:
		return "undefined"
	case OverranMacroBoundary:
		return "overran"
	default:
		return fmt.Sprintf("condition(%d)", c)
	}
}

// Transition describes the result of a machine reading a given symbol in a
// given state.  Transitions computed by macro machines are cached, hence must
// not be modified.
type Transition struct {
	// Outcome of this transition.
	Condition Condition
	// Additional information about the outcome (e.g. the symbol and state
	// of an undefined transition, followed by positions within any enclosing
	// macro symbols).
	Details []int
	// Symbol written.
	Symbol Symbol
	// State entered.
	State State
	// Direction moved.
	Dir Dir
	// Number of steps of the base machine taken.
	Steps uint64
}
