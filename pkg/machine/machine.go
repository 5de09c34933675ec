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

// Machine represents one level of the machine compilation pipeline.  The
// simulators depend only on this interface, such that any level can be
// simulated directly.
type Machine interface {
	// NumStates returns the number of (non-halting) states.
	NumStates() uint
	// NumSymbols returns the size of the alphabet.
	NumSymbols() uint
	// InitState returns the state in which execution begins.
	InitState() State
	// InitSymbol returns the blank symbol filling the initial tape.
	InitSymbol() Symbol
	// InitDir returns the direction the head initially faces.
	InitDir() Dir
	// Transition returns the transition taken when reading a given symbol in
	// a given state, whilst moving in a given direction.
	Transition(symbol Symbol, state State, dir Dir) Transition
	// SymbolString returns a human-readable representation of a symbol.
	SymbolString(symbol Symbol) string
	// HeadString returns a human-readable representation of the head, when
	// in a given state and facing a given direction.
	HeadString(state State, dir Dir) string
}
