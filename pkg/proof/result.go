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
	"errors"

	"github.com/consensys/go-beaver/pkg/tape"
	"github.com/consensys/go-beaver/pkg/util/math"
)

// The following errors are the expected ways in which an attempt to prove a
// rule fails.  None of these indicate a fault: the simulator simply continues
// without the rule.
var (
	// ErrZeroBlock indicates a symbolic block facing the head could have
	// length zero, so its behaviour cannot be generalised.
	ErrZeroBlock = errors.New("block facing head could be empty")
	// ErrNotRunning indicates the symbolic simulation stopped running (e.g.
	// halted) before completing.
	ErrNotRunning = errors.New("symbolic simulation stopped running")
	// ErrMultipleVars indicates a block whose length depends on more than one
	// variable.
	ErrMultipleVars = errors.New("block depends on multiple variables")
	// ErrShapeChanged indicates the final shape differs from the initial shape.
	ErrShapeChanged = errors.New("shape not preserved")
	// ErrNotDiff indicates some block does not change by a constant amount.
	ErrNotDiff = errors.New("block not changed by constant difference")
)

// Result is the outcome of consulting the proof system at some configuration.
// This is one of NothingToDo, RuleApplied or RepeatsForever.
type Result interface {
	isResult()
}

// NothingToDo indicates that no rule applies, and the simulator should
// continue as normal.
type NothingToDo struct{}

// RuleApplied indicates a rule was applied a finite number of times, giving a
// new tape.
type RuleApplied struct {
	// Rule which was applied.
	Rule *DiffRule
	// Tape resulting from applying the rule.
	Tape tape.ChainTape
	// Number of times the rule was applied.
	Reps math.XInt
	// Number of base steps skipped over.
	Steps math.XInt
}

// RepeatsForever indicates a rule was found which applies indefinitely, hence
// the machine never halts.
type RepeatsForever struct {
	Rule *DiffRule
}

func (NothingToDo) isResult()    {}
func (RuleApplied) isResult()    {}
func (RepeatsForever) isResult() {}
