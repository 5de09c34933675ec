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
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-beaver/pkg/machine"
	"github.com/consensys/go-beaver/pkg/metrics"
	"github.com/consensys/go-beaver/pkg/sim"
	"github.com/consensys/go-beaver/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// FIRST_PROGRESS determines the loop at which progress is first reported.
// Subsequent reports are made at geometrically increasing intervals.
const FIRST_PROGRESS = 1_000_000

var runCmd = &cobra.Command{
	Use:   "run [flags] machine block_size",
	Short: "simulate a given Turing machine.",
	Long: `Simulate a Turing machine, given in the standard text format (e.g.
	"1RB1LB_1LA1RZ"), using macro machines with a given block size.  Simulation
	continues until the machine halts, is proven never to halt, or the loop
	budget is exhausted.`,
	Run: func(cmd *cobra.Command, args []string) {
		var cfg runConfig
		//
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		cfg.machine = machine.Config{
			BlockSize:     parseSize(args[1], "block size"),
			Backsymbol:    !GetFlag(cmd, "no-backsymbol"),
			MaxMacroSteps: GetUint(cmd, "max-macro-steps"),
		}
		cfg.sim = sim.Options{Prover: !GetFlag(cmd, "no-prover")}
		cfg.maxLoops = GetUint(cmd, "max-loops")
		cfg.full = GetFlag(cmd, "full")
		cfg.metrics = GetString(cmd, "metrics")
		// Progress defaults to whether output is interactive
		if cmd.Flags().Changed("progress") {
			cfg.progress = GetFlag(cmd, "progress")
		} else {
			cfg.progress = term.IsTerminal(int(os.Stdout.Fd()))
		}
		//
		if err := runMachine(args[0], cfg); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	},
}

// run config encapsulates the parameters of a single simulation.
type runConfig struct {
	// Compilation of the base machine into a macro machine.
	machine machine.Config
	// Simulator options.
	sim sim.Options
	// Maximum number of loops to execute.
	maxLoops uint64
	// Print every block of the final tape.
	full bool
	// Print progress reports.
	progress bool
	// File to which metrics are written (if any).
	metrics string
}

func runMachine(text string, cfg runConfig) error {
	base, err := machine.Parse(text)
	if err != nil {
		return fmt.Errorf("invalid machine \"%s\": %w", text, err)
	}
	//
	m, err := machine.Compile(base, cfg.machine)
	if err != nil {
		return err
	}
	//
	var (
		s     = sim.New(m, cfg.sim)
		stats = util.NewPerfStats()
	)
	//
	simulate(s, cfg)
	stats.Log("Simulation", s.Loops)
	//
	if s.Condition == machine.Running {
		fmt.Printf("Exhausted loop budget (%d loops)\n", cfg.maxLoops)
	}
	//
	s.Print(os.Stdout, cfg.full)
	//
	if s.Prover() != nil {
		for _, rule := range s.Prover().Rules() {
			log.Debugf("%s (used %d times)", rule.String(), rule.Uses)
		}
	}
	//
	if cfg.metrics != "" {
		return metrics.WriteTextfile(cfg.metrics, s)
	}
	//
	return nil
}

// Run the simulator until it stops or the loop budget is exhausted, reporting
// progress at increasing intervals.
func simulate(s *sim.Simulator, cfg runConfig) {
	var next uint64 = FIRST_PROGRESS
	//
	for s.Condition == machine.Running && s.Loops < cfg.maxLoops {
		s.Step()
		//
		if cfg.progress && s.Loops >= next {
			stats := s.Stats()
			fmt.Printf("Loop %d: %d rules proven, %d rule moves, %d chain moves\n", stats.Loops, stats.Rules,
				stats.RuleMoves, stats.ChainMoves)
			//
			next = next * 6 / 5
		}
	}
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Uint64("max-loops", 1_000_000_000, "maximum number of loops to simulate")
	runCmd.Flags().Uint64("max-macro-steps", 0, "maximum steps for computing a macro transition (0 for unlimited)")
	runCmd.Flags().Bool("no-prover", false, "disable the proof system")
	runCmd.Flags().Bool("no-backsymbol", false, "disable the backsymbol macro machine")
	runCmd.Flags().Bool("full", false, "print every block of the final tape")
	runCmd.Flags().Bool("progress", false, "print progress reports (default when output is a terminal)")
	runCmd.Flags().String("metrics", "", "write prometheus metrics to a given file")
}
