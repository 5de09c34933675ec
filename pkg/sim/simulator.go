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
package sim

import (
	"fmt"
	"io"

	"github.com/consensys/go-beaver/pkg/machine"
	"github.com/consensys/go-beaver/pkg/proof"
	"github.com/consensys/go-beaver/pkg/tape"
	"github.com/consensys/go-beaver/pkg/util/math"
	log "github.com/sirupsen/logrus"
)

// REASON_PROOF_SYSTEM indicates a machine was shown to run forever because a
// proven rule applies indefinitely.
const REASON_PROOF_SYSTEM = "proof system"

// REASON_CHAIN_STEP indicates a machine was shown to run forever because it
// attempted to chain move over an infinite block.
const REASON_CHAIN_STEP = "unbounded chain step"

// REASON_MACRO_CYCLE indicates a machine was shown to run forever because it
// cycles within a single macro transition.
const REASON_MACRO_CYCLE = "macro cycle"

// Options configures a simulator.
type Options struct {
	// Prover determines whether or not the proof system is used to accelerate
	// simulation.
	Prover bool
}

// DefaultOptions returns the default simulator options.
func DefaultOptions() Options {
	return Options{Prover: true}
}

// Simulator drives a (compiled) machine over a chain tape.  Each loop
// performs either a single move, a chain move over an entire block or the
// application of a proven rule.
type Simulator struct {
	// Machine being simulated.
	Machine machine.Machine
	// Current state of the machine.
	State machine.State
	// Current tape.
	Tape tape.ChainTape
	// Number of base steps taken.
	Steps math.XInt
	// Number of loops executed.
	Loops uint64
	// Number of loops which were chain moves.
	ChainMoves uint64
	// Number of loops which were single moves.
	MacroMoves uint64
	// Number of loops which applied a rule.
	RuleMoves uint64
	// Operating condition.
	Condition machine.Condition
	// Details of where the machine stopped (if it did).
	Details []int
	// Reason for concluding the machine is infinite (if it is).
	Reason string
	// Proof system (or nil, if disabled).
	prover *proof.ProofSystem
}

// New constructs a simulator for a given machine, starting from the
// machine's initial configuration on a blank tape.
func New(m machine.Machine, opts Options) *Simulator {
	var prover *proof.ProofSystem
	//
	if opts.Prover {
		prover = proof.NewProofSystem(m)
	}
	//
	return &Simulator{
		Machine:   m,
		State:     m.InitState(),
		Tape:      tape.NewChainTape(m.InitSymbol(), m.InitDir()),
		Condition: machine.Running,
		prover:    prover,
	}
}

// Prover returns the proof system used by this simulator, or nil if it is
// disabled.
func (p *Simulator) Prover() *proof.ProofSystem {
	return p.prover
}

// Run this simulator until it stops running, or the given number of loops
// have been executed.
func (p *Simulator) Run(loops uint64) {
	for p.Condition == machine.Running && p.Loops < loops {
		p.Step()
	}
}

// Step executes a single loop of the simulator.  This does nothing if the
// simulator is no longer running.
func (p *Simulator) Step() {
	if p.Condition != machine.Running {
		return
	}
	//
	p.Loops++
	//
	if p.prover != nil {
		switch res := p.prover.LogAndApply(&p.Tape, p.State, p.Loops-1).(type) {
		case proof.RuleApplied:
			p.Tape = res.Tape
			p.Steps = p.Steps.Add(res.Steps)
			p.RuleMoves++
			//
			return
		case proof.RepeatsForever:
			p.Condition = machine.ProvenInfinite
			p.Reason = REASON_PROOF_SYSTEM
			log.Debugf("rule %d repeats forever at loop %d", res.Rule.ID, p.Loops)
			//
			return
		}
	}
	//
	facing := p.Tape.FacingSymbol()
	trans := p.Machine.Transition(facing, p.State, p.Tape.Dir)
	//
	switch {
	case trans.Condition == machine.Halted:
		p.Tape.ApplySingleMove(trans.Symbol, trans.Dir)
		p.State = trans.State
		p.Steps = p.Steps.AddUint(trans.Steps)
		p.stop(trans.Condition, trans.Details)
	case trans.Condition != machine.Running:
		p.stop(trans.Condition, trans.Details)
		//
		if trans.Condition == machine.ProvenInfinite {
			p.Reason = REASON_MACRO_CYCLE
		}
	case trans.State == p.State && trans.Dir == p.Tape.Dir:
		count, ok := p.Tape.ApplyChainMove(trans.Symbol)
		if !ok {
			p.stop(machine.ProvenInfinite, nil)
			p.Reason = REASON_CHAIN_STEP
			//
			return
		}
		//
		p.Steps = p.Steps.Add(count.MulUint(trans.Steps))
		p.ChainMoves++
	default:
		p.Tape.ApplySingleMove(trans.Symbol, trans.Dir)
		p.State = trans.State
		p.Steps = p.Steps.AddUint(trans.Steps)
		p.MacroMoves++
	}
}

func (p *Simulator) stop(cond machine.Condition, details []int) {
	p.Condition = cond
	p.Details = details
	log.Debugf("simulation %s after %d loops", cond.String(), p.Loops)
}

// Stats summarises the progress of a simulator at some point.
type Stats struct {
	Loops      uint64
	ChainMoves uint64
	MacroMoves uint64
	RuleMoves  uint64
	// Number of rules proven so far.
	Rules uint
	// Number of proofs attempted, and of those which failed.
	Proofs, FailedProofs uint64
	// Total number of base steps, in decimal.
	TotalSteps string
	Condition  machine.Condition
	Reason     string
}

// Stats returns a snapshot of the counters of this simulator.
func (p *Simulator) Stats() Stats {
	stats := Stats{
		Loops:      p.Loops,
		ChainMoves: p.ChainMoves,
		MacroMoves: p.MacroMoves,
		RuleMoves:  p.RuleMoves,
		TotalSteps: p.Steps.String(),
		Condition:  p.Condition,
		Reason:     p.Reason,
	}
	//
	if p.prover != nil {
		ps := p.prover.Stats()
		stats.Rules = ps.Rules
		stats.Proofs = ps.Proofs
		stats.FailedProofs = ps.FailedProofs
	}
	//
	return stats
}

// Print a summary of this simulator, followed by its tape.  In full mode,
// every block of the tape is shown.
func (p *Simulator) Print(w io.Writer, full bool) {
	fmt.Fprintf(w, "Loops: %d (chain %d, macro %d, rule %d)\n", p.Loops, p.ChainMoves, p.MacroMoves, p.RuleMoves)
	//
	if p.prover != nil {
		fmt.Fprintf(w, "Rules proven: %d\n", p.prover.Stats().Rules)
	}
	//
	fmt.Fprintf(w, "Steps: %s\n", p.Steps.Abbrev())
	//
	switch {
	case p.Condition == machine.Running:
		fmt.Fprintf(w, "Condition: %s\n", p.Condition)
	case p.Reason != "":
		fmt.Fprintf(w, "Condition: %s (%s)\n", p.Condition, p.Reason)
	default:
		fmt.Fprintf(w, "Condition: %s %v\n", p.Condition, p.Details)
	}
	//
	head := p.Machine.HeadString(p.State, p.Tape.Dir)
	p.Tape.Render(w, head, p.Machine.SymbolString, full)
}
