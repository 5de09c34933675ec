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
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/consensys/go-beaver/pkg/machine"
	"github.com/consensys/go-beaver/pkg/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDir determines the (relative) location of the test directory.  That is
// where the files of machines and their expected outcomes are found.
const TestDir = "../../testdata"

// MAX_LOOPS determines the maximum number of loops any machine is simulated
// for when testing.
const MAX_LOOPS uint64 = 1_000_000

// Expectation describes the expected outcome of simulating a given machine
// with a given block size.  Lines in a test file have the form "machine
// block_size condition steps [prover]", where steps is "-" for machines which
// do not halt.  The optional trailing "prover" marks machines which are only
// checked with the proof system enabled, since they take too many loops
// otherwise.  Blank lines and lines starting with ";" are ignored.
type Expectation struct {
	Line      int
	Machine   string
	BlockSize uint
	Condition machine.Condition
	// Number of steps for a halting machine.
	Steps string
	// Only check with the proof system enabled.
	ProverOnly bool
}

// Check that every machine listed in a given test file reaches its expected
// outcome, both with and without the proof system.
func Check(t *testing.T, test string) {
	var filename = fmt.Sprintf("%s/%s", TestDir, test)
	// Enable testing each file in parallel
	t.Parallel()
	//
	expectations, err := ReadExpectations(filename)
	require.NoError(t, err)
	require.NotEmpty(t, expectations)
	//
	for _, e := range expectations {
		checkExpectation(t, filename, e, true)
		// Only halting (and undefined) outcomes are reached without the prover.
		if !e.ProverOnly && (e.Condition == machine.Halted || e.Condition == machine.Undefined) {
			checkExpectation(t, filename, e, false)
		}
	}
}

func checkExpectation(t *testing.T, filename string, e Expectation, prover bool) {
	var msg = fmt.Sprintf("%s:%d (%s, prover %t)", filename, e.Line, e.Machine, prover)
	//
	base, err := machine.Parse(e.Machine)
	require.NoError(t, err, msg)
	//
	m, err := machine.Compile(base, machine.DefaultConfig(e.BlockSize))
	require.NoError(t, err, msg)
	//
	s := sim.New(m, sim.Options{Prover: prover})
	s.Run(MAX_LOOPS)
	//
	assert.Equal(t, e.Condition, s.Condition, msg)
	//
	if e.Steps != "-" {
		assert.Equal(t, e.Steps, s.Steps.String(), msg)
	}
}

// ReadExpectations reads the expected outcomes of a set of machines from a
// given file.
func ReadExpectations(filename string) ([]Expectation, error) {
	var expectations []Expectation
	//
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	//
	defer file.Close()
	//
	scanner := bufio.NewScanner(file)
	//
	for num := 1; scanner.Scan(); num++ {
		line := strings.TrimSpace(scanner.Text())
		//
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		//
		e, err := parseExpectation(num, line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filename, num, err)
		}
		//
		expectations = append(expectations, e)
	}
	//
	return expectations, scanner.Err()
}

func parseExpectation(num int, line string) (Expectation, error) {
	fields := strings.Fields(line)
	//
	if len(fields) != 4 && len(fields) != 5 {
		return Expectation{}, fmt.Errorf("expected 4 or 5 fields, found %d", len(fields))
	} else if len(fields) == 5 && fields[4] != "prover" {
		return Expectation{}, fmt.Errorf("unknown option \"%s\"", fields[4])
	}
	//
	size, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return Expectation{}, err
	}
	//
	cond, err := parseCondition(fields[2])
	if err != nil {
		return Expectation{}, err
	}
	//
	return Expectation{num, fields[0], uint(size), cond, fields[3], len(fields) == 5}, nil
}

func parseCondition(text string) (machine.Condition, error) {
	for _, c := range []machine.Condition{machine.Running, machine.Halted, machine.ProvenInfinite,
		machine.Undefined, machine.OverranMacroBoundary} {
		if c.String() == text {
			return c, nil
		}
	}
	//
	return machine.Running, fmt.Errorf("unknown condition \"%s\"", text)
}
