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
	"bytes"
	"strings"
	"testing"

	"github.com/consensys/go-beaver/pkg/machine"
	"github.com/consensys/go-beaver/pkg/util/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	BB2 = "1RB1LB_1LA1RZ"
	BB3 = "1RB1RZ_1LB0RC_1LC1LA"
	BB4 = "1RB1LB_1LA0LC_1RZ1LD_1RD0RA"
)

func Test_Sim_01(t *testing.T) {
	checkHalts(t, BB2, 6)
}

func Test_Sim_02(t *testing.T) {
	checkHalts(t, BB3, 21)
}

func Test_Sim_03(t *testing.T) {
	checkHalts(t, BB4, 107)
}

func Test_Sim_04(t *testing.T) {
	// Runs off to the right forever
	for _, prover := range []bool{false, true} {
		s := simulator(t, "1RA1RA", machine.DefaultConfig(1), prover)
		s.Run(3)
		//
		assert.Equal(t, machine.ProvenInfinite, s.Condition)
		assert.Equal(t, REASON_CHAIN_STEP, s.Reason)
	}
}

func Test_Sim_05(t *testing.T) {
	// Bounces between ever widening ends
	s := simulator(t, "1RB1LA_1LA1RB", machine.DefaultConfig(1), true)
	s.Run(10000)
	//
	assert.Equal(t, machine.ProvenInfinite, s.Condition)
	assert.Equal(t, REASON_PROOF_SYSTEM, s.Reason)
	assert.Less(t, s.Loops, uint64(10000))
	assert.GreaterOrEqual(t, s.Stats().Rules, uint(1))
	// Stepping has no further effect
	loops := s.Loops
	s.Step()
	assert.Equal(t, loops, s.Loops)
}

func Test_Sim_06(t *testing.T) {
	// Without the prover, simulation just continues.
	s := simulator(t, "1RB1LA_1LA1RB", machine.DefaultConfig(1), false)
	s.Run(1000)
	//
	assert.Equal(t, machine.Running, s.Condition)
	assert.Equal(t, uint64(1000), s.Loops)
	assert.Positive(t, s.ChainMoves)
	assert.Positive(t, s.MacroMoves)
	assert.Zero(t, s.RuleMoves)
	// Chain moves cover many steps at once
	assert.Greater(t, s.Steps.Cmp(math.NewXInt(s.Loops)), 0)
}

func Test_Sim_07(t *testing.T) {
	// Undefined transition for A1
	for _, size := range []uint{1, 2, 3} {
		s := simulator(t, "1RB---_1LA1RA", machine.DefaultConfig(size), true)
		s.Run(1000)
		//
		assert.Equal(t, machine.Undefined, s.Condition)
		assert.NotEmpty(t, s.Details)
	}
}

func Test_Sim_11(t *testing.T) {
	// Only the two executed steps are counted before reaching A1
	for _, prover := range []bool{false, true} {
		s := simulator(t, "1RB---_1LA1RA", machine.Config{BlockSize: 1}, prover)
		s.Run(100)
		//
		require.Equal(t, machine.Undefined, s.Condition)
		assert.Equal(t, "2", s.Steps.String())
	}
}

func Test_Sim_08(t *testing.T) {
	// Counters increase monotonically
	for _, size := range []uint{1, 2, 3} {
		for _, prover := range []bool{false, true} {
			s := simulator(t, "1RB0LE_1RC1RB_1RD0RA_0RE---_1LF1LA_1LA1LF", machine.DefaultConfig(size), prover)
			checkMonotonic(t, s, 5000)
		}
	}
}

func Test_Sim_09(t *testing.T) {
	s := simulator(t, BB2, machine.DefaultConfig(1), false)
	s.Run(100)
	stats := s.Stats()
	//
	assert.Equal(t, machine.Halted, stats.Condition)
	assert.Equal(t, "6", stats.TotalSteps)
	assert.Equal(t, s.Loops, stats.Loops)
	assert.Equal(t, stats.Loops, stats.ChainMoves+stats.MacroMoves+stats.RuleMoves+1)
	assert.Zero(t, stats.Rules)
}

func Test_Sim_10(t *testing.T) {
	var buf bytes.Buffer
	//
	s := simulator(t, BB2, machine.Config{BlockSize: 1}, false)
	s.Run(100)
	s.Print(&buf, true)
	//
	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "Steps: 6", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Condition: halted"))
	assert.Contains(t, lines[3], "Z")
	assert.Equal(t, "Total blocks: 4", lines[4])
}

func Test_Sim_12(t *testing.T) {
	// Chain moves consume whole blocks in a single loop
	var largest = math.NewXInt(0)
	//
	s := simulator(t, "1RB1LA_1LA1RB", machine.Config{BlockSize: 1}, false)
	//
	for s.Loops < 200 {
		var (
			count  = s.Tape.Facing().Count
			steps  = s.Steps
			chains = s.ChainMoves
		)
		//
		s.Step()
		require.Equal(t, machine.Running, s.Condition)
		//
		if s.ChainMoves > chains {
			assert.Equal(t, count.String(), s.Steps.Sub(steps).String())
			//
			if count.Cmp(largest) > 0 {
				largest = count
			}
		}
	}
	//
	assert.Greater(t, largest.Cmp(math.NewXInt(1)), 0)
	assert.Greater(t, s.ChainMoves, uint64(0))
}

func checkHalts(t *testing.T, text string, steps uint64) {
	for _, size := range []uint{1, 2, 3} {
		for _, backsymbol := range []bool{false, true} {
			for _, prover := range []bool{false, true} {
				cfg := machine.Config{BlockSize: size, Backsymbol: backsymbol}
				s := simulator(t, text, cfg, prover)
				s.Run(100000)
				//
				require.Equal(t, machine.Halted, s.Condition, "block size %d, backsymbol %t, prover %t", size,
					backsymbol, prover)
				assert.Equal(t, math.NewXInt(steps).String(), s.Steps.String(), "block size %d, backsymbol %t, prover %t",
					size, backsymbol, prover)
			}
		}
	}
}

func checkMonotonic(t *testing.T, s *Simulator, loops uint64) {
	for s.Condition == machine.Running && s.Loops < loops {
		before := s.Stats()
		steps := s.Steps
		s.Step()
		//
		require.Equal(t, before.Loops+1, s.Loops)
		//
		if s.Condition == machine.Running {
			require.Greater(t, s.Steps.Cmp(steps), 0)
		} else {
			require.GreaterOrEqual(t, s.Steps.Cmp(steps), 0)
		}
		//
		require.GreaterOrEqual(t, s.ChainMoves, before.ChainMoves)
		require.GreaterOrEqual(t, s.MacroMoves, before.MacroMoves)
		require.GreaterOrEqual(t, s.RuleMoves, before.RuleMoves)
	}
	//
	assert.Contains(t, []machine.Condition{machine.Running, machine.Halted, machine.ProvenInfinite, machine.Undefined},
		s.Condition)
}

func simulator(t *testing.T, text string, cfg machine.Config, prover bool) *Simulator {
	base, err := machine.Parse(text)
	require.NoError(t, err)
	//
	m, err := machine.Compile(base, cfg)
	require.NoError(t, err)
	//
	return New(m, Options{Prover: prover})
}
