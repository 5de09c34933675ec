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
	"strings"
)

// Parse a machine given in the standard text format, such as
// "1RB1LB_1LA1RZ".  Rows (one per state) are separated by underscores, and
// each row consists of one three character code per symbol.  A code gives
// the symbol written, the direction moved (L or R) and the next state (as a
// letter), or is "---" for an undefined transition.  States beyond the number
// of rows are halting.
func Parse(text string) (*SimpleMachine, error) {
	var (
		quints     []Quintuple
		rows       = strings.Split(strings.TrimSpace(text), "_")
		numSymbols uint
	)
	//
	for i, row := range rows {
		if len(row) == 0 || len(row)%3 != 0 {
			return nil, fmt.Errorf("malformed row %d (%q)", i+1, row)
		}
		//
		numSymbols = max(numSymbols, uint(len(row)/3))
		//
		for j := 0; j < len(row); j += 3 {
			code := row[j : j+3]
			//
			if code == "---" {
				continue
			}
			//
			q, err := parseQuintuple(code, State(i), Symbol(j/3), uint(len(rows)))
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			//
			quints = append(quints, q)
		}
	}
	//
	return NewSimpleMachine(quints, uint(len(rows)), numSymbols)
}

func parseQuintuple(code string, state State, symbol Symbol, numStates uint) (Quintuple, error) {
	var q = Quintuple{StateIn: state, SymbolIn: symbol}
	//
	if code[0] < '0' || code[0] > '9' {
		return q, fmt.Errorf("invalid symbol in %q", code)
	}
	//
	q.SymbolOut = Symbol(code[0] - '0')
	//
	switch code[1] {
	case 'L':
		q.DirOut = Left
	case 'R':
		q.DirOut = Right
	default:
		return q, fmt.Errorf("invalid direction in %q", code)
	}
	//
	if code[2] < 'A' || code[2] > 'Z' {
		return q, fmt.Errorf("invalid state in %q", code)
	}
	//
	q.StateOut = State(code[2] - 'A')
	if uint(q.StateOut) >= numStates {
		q.StateOut = Halt
	}
	//
	return q, nil
}
