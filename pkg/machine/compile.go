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

// Config determines how a base machine is compiled into the machine which is
// actually simulated.
type Config struct {
	// Number of base cells grouped into each block symbol.
	BlockSize uint
	// Whether or not to fold the backsymbol into the state.
	Backsymbol bool
	// Maximum number of steps when computing any macro transition (or 0 for
	// no limit).
	MaxMacroSteps uint64
}

// DefaultConfig returns the default compilation configuration for a given
// block size.
func DefaultConfig(blockSize uint) Config {
	return Config{blockSize, true, 0}
}

// Compile a base machine into a layered macro machine, according to a given
// configuration.  Specifically, the base machine is grouped into blocks and
// then (optionally) extended with a backsymbol.
func Compile(base Machine, cfg Config) (Machine, error) {
	block, err := NewBlockMachine(base, cfg.BlockSize, cfg.MaxMacroSteps)
	if err != nil {
		return nil, err
	} else if !cfg.Backsymbol {
		return block, nil
	}
	//
	back, err := NewBacksymbolMachine(block, cfg.MaxMacroSteps)
	if err != nil {
		return nil, err
	}
	//
	return back, nil
}
