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
package proof_test

import (
	"testing"

	"github.com/consensys/go-beaver/pkg/machine"
	"github.com/consensys/go-beaver/pkg/proof"
	"github.com/consensys/go-beaver/pkg/sim"
	"github.com/consensys/go-beaver/pkg/tape"
	"github.com/consensys/go-beaver/pkg/util/math"
	"github.com/consensys/go-beaver/pkg/util/poly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Applying rules
// ============================================================================

func Test_ApplyRule_01(t *testing.T) {
	// Block shrinks by two each application, costing 2x+5 steps.
	rule := shrinkingRule()
	tp := rightTape(10)
	reps, ok := rule.Repetitions(&tp)
	//
	require.True(t, ok)
	assert.Equal(t, "4", reps.String())
	//
	result, steps := rule.Apply(&tp, reps)
	assert.Equal(t, "2", result.Facing().Count.String())
	// 19 + 15 + 11 + 7
	assert.Equal(t, "52", steps.String())
	// Input tape unchanged
	assert.Equal(t, "10", tp.Facing().Count.String())
	// Cannot apply again
	_, ok = rule.Repetitions(&result)
	assert.False(t, ok)
}

func Test_ApplyRule_02(t *testing.T) {
	rule := shrinkingRule()
	// Applies exactly once
	checkApplyRule(t, rule, 3, 1, 1, "5")
	checkApplyRule(t, rule, 4, 1, 2, "7")
	checkApplyRule(t, rule, 5, 2, 1, "14")
	// Too small
	tp := rightTape(2)
	_, ok := rule.Repetitions(&tp)
	assert.False(t, ok)
}

func Test_ApplyRule_03(t *testing.T) {
	// Very large blocks
	rule := shrinkingRule()
	tp := rightTape(1)
	tp.Halves[machine.Right][1].Count = math.NewXInt(1 << 63).MulUint(2).AddUint(1)
	reps, ok := rule.Repetitions(&tp)
	//
	require.True(t, ok)
	assert.Equal(t, "9223372036854775808", reps.String())
	//
	result, _ := rule.Apply(&tp, reps)
	assert.Equal(t, "1", result.Facing().Count.String())
}

func Test_ApplyRule_04(t *testing.T) {
	var (
		ps   = proof.NewProofSystem(nil)
		rule = growingRule()
		tp   = rightTape(5)
	)
	//
	reps, ok := rule.Repetitions(&tp)
	require.True(t, ok)
	assert.True(t, reps.IsInf())
	//
	res := ps.ApplyRule(rule, &tp)
	assert.Equal(t, proof.RepeatsForever{Rule: rule}, res)
	assert.Equal(t, uint64(1), ps.Stats().InfiniteProofs)
	// Growing rules can still be applied finitely
	result, steps := rule.Apply(&tp, math.NewXInt(3))
	assert.Equal(t, "11", result.Facing().Count.String())
	assert.Equal(t, "3", steps.String())
}

func Test_ApplyRule_05(t *testing.T) {
	var (
		ps   = proof.NewProofSystem(nil)
		rule = shrinkingRule()
		tp   = rightTape(10)
	)
	//
	res, ok := ps.ApplyRule(rule, &tp).(proof.RuleApplied)
	require.True(t, ok)
	assert.Equal(t, "4", res.Reps.String())
	assert.Equal(t, "52", res.Steps.String())
	assert.Equal(t, uint64(1), rule.Uses)
	assert.Equal(t, uint64(1), ps.Stats().RuleUses)
	//
	tp = rightTape(2)
	assert.Equal(t, proof.NothingToDo{}, ps.ApplyRule(rule, &tp))
	assert.Equal(t, uint64(1), rule.Uses)
}

// ============================================================================
// Proving rules
// ============================================================================

func Test_ProveRule_01(t *testing.T) {
	// Every proven rule agrees with concrete simulation.
	found := checkRoundTrip(t, "1RB1LA_1LA1RB", 1, 4)
	assert.Positive(t, found)
}

func Test_ProveRule_02(t *testing.T) {
	for delta := range uint64(8) {
		checkRoundTrip(t, "1RB1LA_1LA1RB", 2, delta+1)
	}
}

func Test_ProveRule_03(t *testing.T) {
	for delta := range uint64(8) {
		checkRoundTrip(t, "1RB1LA_1LA1RB", 1, delta+1)
	}
}

func Test_ProveRule_04(t *testing.T) {
	// A block is consumed one cell at a time: A1 -> 0LB, B1 -> 0LA
	m := parse(t, "---0LB_---0LA")
	tp := leftTape(5)
	//
	checkProofError(t, m, &tp, 0, 10, proof.ErrZeroBlock)
	// Shape changes as state changes
	checkProofError(t, m, &tp, 0, 1, proof.ErrShapeChanged)
}

func Test_ProveRule_05(t *testing.T) {
	// Halts upon reading a 1
	m := parse(t, "---1RZ")
	tp := leftTape(5)
	//
	checkProofError(t, m, &tp, 0, 1, proof.ErrNotRunning)
}

func Test_ProveRule_06(t *testing.T) {
	// Chain move merges two blocks: A0 -> 1LA
	m := parse(t, "1LA---")
	tp := tape.NewChainTape(0, machine.Left)
	tp.Halves[machine.Left] = []tape.Block[math.XInt]{{Symbol: 1, Count: math.Infinity}, block(0, 2)}
	tp.Halves[machine.Right] = append(tp.Halves[machine.Right], block(1, 3))
	//
	checkProofError(t, m, &tp, 0, 1, proof.ErrMultipleVars)
}

// ============================================================================
// Logging configurations
// ============================================================================

func Test_LogAndApply_01(t *testing.T) {
	m := compile(t, "1RB1LA_1LA1RB", 1)
	s := sim.New(m, sim.Options{Prover: false})
	ps := proof.NewProofSystem(m)
	//
	var forever bool
	//
	for s.Loops < 200 && !forever {
		_, forever = ps.LogAndApply(&s.Tape, s.State, s.Loops).(proof.RepeatsForever)
		//
		s.Step()
	}
	//
	assert.True(t, forever)
	assert.GreaterOrEqual(t, ps.Stats().Rules, uint(1))
	assert.Equal(t, ps.Stats().Rules, uint(len(ps.Rules())))
	assert.GreaterOrEqual(t, ps.Stats().Proofs, uint64(1))
}

func Test_LogAndApply_02(t *testing.T) {
	// Halting machines never give rules which repeat forever.
	for _, text := range []string{"1RB1LB_1LA1RZ", "1RB1RZ_1LB0RC_1LC1LA", "1RB1LB_1LA0LC_1RZ1LD_1RD0RA"} {
		m := compile(t, text, 1)
		s := sim.New(m, sim.Options{Prover: false})
		ps := proof.NewProofSystem(m)
		//
		for s.Condition == machine.Running {
			_, forever := ps.LogAndApply(&s.Tape, s.State, s.Loops).(proof.RepeatsForever)
			assert.False(t, forever, text)
			s.Step()
		}
		//
		assert.Equal(t, machine.Halted, s.Condition)
	}
}

// ============================================================================
// Helpers
// ============================================================================

// Run a machine to successive loops, proving a rule over a given number of
// loops from each and then checking it agrees with the concrete machine.
func checkRoundTrip(t *testing.T, text string, blockSize uint, delta uint64) int {
	var (
		m     = compile(t, text, blockSize)
		ps    = proof.NewProofSystem(m)
		found = 0
	)
	//
	for start := range uint64(100) {
		s := sim.New(m, sim.Options{Prover: false})
		s.Run(start)
		require.Equal(t, machine.Running, s.Condition)
		//
		var (
			config = proof.Strip(s.State, &s.Tape)
			before = s.Tape.Copy()
			steps  = s.Steps
		)
		//
		rule, err := ps.ProveRule(config, &before, s.State, delta)
		//
		s.Run(start + delta)
		//
		if err != nil {
			continue
		}
		//
		require.Equal(t, machine.Running, s.Condition)
		require.Equal(t, rule.State, s.State)
		_, ok := rule.Repetitions(&before)
		require.True(t, ok, "loop %d", start)
		//
		after, cost := rule.Apply(&before, math.One())
		assert.True(t, after.Equal(&s.Tape), "loop %d", start)
		assert.Equal(t, s.Steps.Sub(steps).String(), cost.String(), "loop %d", start)
		//
		found++
	}
	//
	return found
}

func checkProofError(t *testing.T, m machine.Machine, tp *tape.ChainTape, state machine.State, loops uint64,
	expected error) {
	ps := proof.NewProofSystem(m)
	config := proof.Strip(state, tp)
	_, err := ps.ProveRule(config, tp, state, loops)
	//
	assert.ErrorIs(t, err, expected)
}

func checkApplyRule(t *testing.T, rule *proof.DiffRule, length uint64, reps uint64, final uint64, steps string) {
	tp := rightTape(length)
	n, ok := rule.Repetitions(&tp)
	//
	require.True(t, ok)
	assert.Equal(t, math.NewXInt(reps).String(), n.String())
	//
	result, cost := rule.Apply(&tp, n)
	assert.Equal(t, math.NewXInt(final).String(), result.Facing().Count.String())
	assert.Equal(t, steps, cost.String())
}

// Rule over tapes "0^inf A> 1^n 0^inf" where n decreases by two.
func shrinkingRule() *proof.DiffRule {
	x := poly.Variable(0)
	steps := x.MulUint(2).AddConstant(math.NewXInt(5))
	//
	return rightRule(x.AddConstant(math.NewXInt(3)), x.AddConstant(math.One()), steps)
}

// Rule over tapes "0^inf A> 1^n 0^inf" where n increases by two.
func growingRule() *proof.DiffRule {
	x := poly.Variable(0)
	//
	return rightRule(x.AddConstant(math.One()), x.AddConstant(math.NewXInt(3)), poly.Constant(math.One()))
}

func rightRule(initial poly.LinearExpr, final poly.LinearExpr, steps poly.LinearExpr) *proof.DiffRule {
	var (
		init = tape.New[poly.LinearExpr](0, machine.Right)
		fin  = tape.New[poly.LinearExpr](0, machine.Right)
	)
	//
	init.Halves[machine.Right] = append(init.Halves[machine.Right], tape.Block[poly.LinearExpr]{ID: 1, Symbol: 1, Count: initial})
	fin.Halves[machine.Right] = append(fin.Halves[machine.Right], tape.Block[poly.LinearExpr]{ID: 1, Symbol: 1, Count: final})
	//
	return &proof.DiffRule{
		Config:  proof.Strip(0, &init),
		Initial: init,
		Final:   fin,
		State:   0,
		Steps:   steps,
		Loops:   1,
	}
}

// Tape of the form "0^inf A> 1^n 0^inf".
func rightTape(n uint64) tape.ChainTape {
	tp := tape.NewChainTape(0, machine.Right)
	tp.Halves[machine.Right] = append(tp.Halves[machine.Right], block(1, n))
	//
	return tp
}

// Tape of the form "0^inf 1^n <A 0^inf".
func leftTape(n uint64) tape.ChainTape {
	tp := tape.NewChainTape(0, machine.Left)
	tp.Halves[machine.Left] = append(tp.Halves[machine.Left], block(1, n))
	//
	return tp
}

func block(symbol machine.Symbol, n uint64) tape.Block[math.XInt] {
	return tape.Block[math.XInt]{Symbol: symbol, Count: math.NewXInt(n)}
}

func parse(t *testing.T, text string) machine.Machine {
	m, err := machine.Parse(text)
	require.NoError(t, err)
	//
	return m
}

func compile(t *testing.T, text string, blockSize uint) machine.Machine {
	m, err := machine.Compile(parse(t, text), machine.DefaultConfig(blockSize))
	require.NoError(t, err)
	//
	return m
}
