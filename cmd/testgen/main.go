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
package main

import (
	"fmt"
	"os"
	"strings"

	util "github.com/consensys/go-beaver/pkg/cmd"
	"github.com/consensys/go-beaver/pkg/machine"
	"github.com/consensys/go-beaver/pkg/sim"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Uint64("states", 2, "Number of states")
	rootCmd.Flags().Uint64("block-size", 1, "Block size used for simulation")
	rootCmd.Flags().Uint64("max-loops", 10000, "Maximum number of loops per machine")
	rootCmd.Flags().String("output", "testdata", "Directory to write test file into")
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "testgen",
	Short: "Test generation utility for go-beaver.",
	Long: `Enumerate every two-symbol machine with a given number of states, recording
	the outcome of simulating each as a test file.`,
	Run: func(cmd *cobra.Command, args []string) {
		var cfg TestGenConfig
		//
		cfg.states = uint(util.GetUint(cmd, "states"))
		cfg.blockSize = uint(util.GetUint(cmd, "block-size"))
		cfg.maxLoops = util.GetUint(cmd, "max-loops")
		cfg.output = util.GetString(cmd, "output")
		//
		if cfg.states == 0 || cfg.states > 3 {
			fmt.Println("number of states must be between 1 and 3")
			os.Exit(1)
		}
		// Generate & write out
		writeTestFile(cfg, generateTests(cfg))
	},
}

// TestGenConfig encapsulates configuration related to test generation.
type TestGenConfig struct {
	states    uint
	blockSize uint
	maxLoops  uint64
	output    string
}

// Enumerate all machines, returning a line for each whose outcome was
// determined within the loop budget.
func generateTests(cfg TestGenConfig) []string {
	var (
		lines   []string
		entries = generateEntries(cfg.states)
		n       = cfg.states * 2
		// index of entry chosen for each transition
		choice = make([]int, n)
	)
	//
	for {
		text := machineText(cfg.states, entries, choice)
		//
		if line, ok := simulate(cfg, text); ok {
			lines = append(lines, line)
		}
		// Advance to next machine
		i := 0
		for ; i < len(choice) && choice[i] == len(entries)-1; i++ {
			choice[i] = 0
		}
		//
		if i == len(choice) {
			return lines
		}
		//
		choice[i]++
	}
}

// Generate every possible transition entry, including undefined.
func generateEntries(states uint) []string {
	var entries = []string{"---"}
	//
	for _, symbol := range []string{"0", "1"} {
		for _, dir := range []string{"L", "R"} {
			for s := uint(0); s <= states; s++ {
				state := "Z"
				if s < states {
					state = string(rune('A' + s))
				}
				//
				entries = append(entries, symbol+dir+state)
			}
		}
	}
	//
	return entries
}

func machineText(states uint, entries []string, choice []int) string {
	var rows = make([]string, states)
	//
	for i := range rows {
		rows[i] = entries[choice[2*i]] + entries[choice[2*i+1]]
	}
	//
	return strings.Join(rows, "_")
}

func simulate(cfg TestGenConfig, text string) (string, bool) {
	base, err := machine.Parse(text)
	if err != nil {
		panic(err)
	}
	//
	m, err := machine.Compile(base, machine.DefaultConfig(cfg.blockSize))
	if err != nil {
		panic(err)
	}
	//
	s := sim.New(m, sim.DefaultOptions())
	s.Run(cfg.maxLoops)
	//
	switch s.Condition {
	case machine.Running, machine.OverranMacroBoundary:
		return "", false
	case machine.Halted:
		return fmt.Sprintf("%s %d %s %s", text, cfg.blockSize, s.Condition, s.Steps), true
	default:
		return fmt.Sprintf("%s %d %s -", text, cfg.blockSize, s.Condition), true
	}
}

func writeTestFile(cfg TestGenConfig, lines []string) {
	var sb strings.Builder
	// Construct filename
	filename := fmt.Sprintf("%s/enum_%d_%d.auto.txt", cfg.output, cfg.states, cfg.blockSize)
	//
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	// Write the file
	if err := os.WriteFile(filename, []byte(sb.String()), 0644); err != nil {
		panic(err)
	}
	// Log what happened
	log.Infof("Wrote %s (%d machines)\n", filename, len(lines))
}
