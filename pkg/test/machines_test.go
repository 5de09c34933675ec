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
package test

import (
	"testing"

	"github.com/consensys/go-beaver/pkg/machine"
	"github.com/consensys/go-beaver/pkg/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Machines_01(t *testing.T) {
	Check(t, "machines.txt")
}

func Test_Machines_02(t *testing.T) {
	Check(t, "small.txt")
}

func Test_Machines_03(t *testing.T) {
	checkBounded(t, "1RB0LE_1RC1RB_1RD0RA_0RE---_1LF1LA_1LA1LF", 20000)
}

func Test_Machines_04(t *testing.T) {
	checkBounded(t, "1RB1LC_1RC1RB_1RD0LE_1LA1LD_1RZ0LA", 20000)
}

func Test_Expectation_01(t *testing.T) {
	e, err := parseExpectation(3, "1RB1LB_1LA1RZ 2 halted 6")
	//
	require.NoError(t, err)
	assert.Equal(t, Expectation{3, "1RB1LB_1LA1RZ", 2, machine.Halted, "6", false}, e)
	//
	_, err = parseExpectation(1, "1RB1LB_1LA1RZ 2 halted")
	assert.Error(t, err)
	_, err = parseExpectation(1, "1RB1LB_1LA1RZ x halted 6")
	assert.Error(t, err)
	_, err = parseExpectation(1, "1RB1LB_1LA1RZ 2 stopped 6")
	assert.Error(t, err)
}

func Test_Expectation_02(t *testing.T) {
	e, err := parseExpectation(7, "1RB1LC_1RC1RB_1RD0LE_1LA1LD_1RZ0LA 3 halted 47176870 prover")
	//
	require.NoError(t, err)
	assert.Equal(t, Expectation{7, "1RB1LC_1RC1RB_1RD0LE_1LA1LD_1RZ0LA", 3, machine.Halted, "47176870", true}, e)
	//
	_, err = parseExpectation(1, "1RB1LB_1LA1RZ 2 halted 6 fast")
	assert.Error(t, err)
	_, err = parseExpectation(1, "1RB1LB_1LA1RZ 2 halted 6 prover prover")
	assert.Error(t, err)
}

func Test_Expectation_03(t *testing.T) {
	// BB(5) champion is pinned in the main test file
	expectations, err := ReadExpectations(TestDir + "/machines.txt")
	require.NoError(t, err)
	//
	var found bool
	//
	for _, e := range expectations {
		if e.Machine == "1RB1LC_1RC1RB_1RD0LE_1LA1LD_1RZ0LA" {
			found = true
			assert.Equal(t, "47176870", e.Steps)
			assert.True(t, e.ProverOnly)
		}
	}
	//
	assert.True(t, found)
}

// Simulate a machine for a bounded number of loops with various block sizes,
// checking counters increase on every loop and it never fails.
func checkBounded(t *testing.T, text string, loops uint64) {
	t.Parallel()
	//
	base, err := machine.Parse(text)
	require.NoError(t, err)
	//
	for size := uint(1); size <= 4; size++ {
		m, err := machine.Compile(base, machine.DefaultConfig(size))
		require.NoError(t, err)
		//
		s := sim.New(m, sim.DefaultOptions())
		//
		for s.Condition == machine.Running && s.Loops < loops {
			before, steps := s.Loops, s.Steps
			//
			s.Step()
			require.Equal(t, before+1, s.Loops)
			//
			if s.Condition == machine.Running {
				require.Positive(t, s.Steps.Cmp(steps), "block size %d, loop %d", size, before)
			}
		}
		//
		assert.Contains(t, []machine.Condition{machine.Running, machine.Halted, machine.ProvenInfinite,
			machine.Undefined}, s.Condition)
	}
}
