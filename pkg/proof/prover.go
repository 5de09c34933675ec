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
	"maps"
	"slices"

	"github.com/consensys/go-beaver/pkg/machine"
	"github.com/consensys/go-beaver/pkg/tape"
	log "github.com/sirupsen/logrus"
)

// Stats summarises the activity of a proof system.
type Stats struct {
	// Number of rules proven.
	Rules uint
	// Number of proofs attempted.
	Proofs uint64
	// Number of attempted proofs which failed.
	FailedProofs uint64
	// Number of times any rule was applied.
	RuleUses uint64
	// Number of rules found to repeat forever.
	InfiniteProofs uint64
}

// ProofSystem observes the configurations reached by a simulator, attempting
// to prove rules which describe the machine's behaviour across many loops.
// Proven rules are then used to accelerate simulation.
type ProofSystem struct {
	machine machine.Machine
	// Past sightings of each shape, indexed by key.
	pastConfigs map[string]*PastConfig
	// Rules proven so far, indexed by key.
	rules map[string]*DiffRule
	// Counters
	stats Stats
}

// NewProofSystem constructs an empty proof system for a given machine.
func NewProofSystem(m machine.Machine) *ProofSystem {
	return &ProofSystem{m, make(map[string]*PastConfig), make(map[string]*DiffRule), Stats{}}
}

// Stats returns a snapshot of the counters for this proof system.
func (p *ProofSystem) Stats() Stats {
	return p.stats
}

// Rules returns the rules proven so far, ordered by identifier.
func (p *ProofSystem) Rules() []*DiffRule {
	rules := slices.Collect(maps.Values(p.rules))
	//
	slices.SortFunc(rules, func(l, r *DiffRule) int { return int(l.ID) - int(r.ID) })
	//
	return rules
}

// LogAndApply records the configuration reached at a given loop.  If a rule
// applies to this configuration, it is applied.  Otherwise, the sighting is
// recorded and, if the configuration's shape has recurred at regular
// intervals, an attempt is made to prove a new rule for it.  No attempt is
// made for a shape which already has a rule, since this would only prove the
// same rule again.
func (p *ProofSystem) LogAndApply(t *tape.ChainTape, state machine.State, loop uint64) Result {
	var (
		config   = Strip(state, t)
		key      = config.Key()
		rule, ok = p.rules[key]
	)
	//
	if ok {
		res := p.ApplyRule(rule, t)
		//
		if _, none := res.(NothingToDo); !none {
			return res
		}
	}
	//
	past, seen := p.pastConfigs[key]
	if !seen {
		past = &PastConfig{}
		p.pastConfigs[key] = past
	}
	//
	delta, attempt := past.Log(loop)
	if !attempt || ok {
		return NothingToDo{}
	}
	//
	p.stats.Proofs++
	//
	rule, err := p.ProveRule(config, t, state, delta)
	if err != nil {
		p.stats.FailedProofs++
		log.Debugf("proof failed at loop %d over %d loops (%s)", loop, delta, err)
		//
		return NothingToDo{}
	}
	//
	p.AddRule(key, rule)
	log.Debugf("proved rule %d at loop %d over %d loops", rule.ID, loop, delta)
	//
	return p.ApplyRule(rule, t)
}

// ProveRule attempts to prove that running the machine for a given number of
// loops from any configuration of the given shape (in the given state)
// results in each generalised block changing by a constant amount.  The
// concrete tape provides the starting lengths of each block.
func (p *ProofSystem) ProveRule(config StrippedConfig, t *tape.ChainTape, state machine.State,
	loops uint64) (*DiffRule, error) {
	initial, mins := Generalize(t)
	sim := NewGeneralSimulator(p.machine, state, initial.Copy(), mins)
	//
	if err := sim.Run(loops); err != nil {
		return nil, err
	}
	// Check shape unchanged
	if final := Strip(sim.State, &sim.Tape); !final.Equal(&config) {
		return nil, ErrShapeChanged
	}
	//
	if err := checkDifferences(&initial, &sim.Tape); err != nil {
		return nil, err
	}
	// Tighten lower bounds
	mins = sim.Minimums()
	tightenTape(&initial, mins)
	tightenTape(&sim.Tape, mins)
	//
	return &DiffRule{
		Config:  config,
		Initial: initial,
		Final:   sim.Tape,
		State:   state,
		Steps:   tighten(sim.Steps, mins),
		Loops:   loops,
	}, nil
}

// AddRule registers a newly proven rule for a given shape, allocating it an
// identifier.  Past sightings are discarded at this point, since they were
// only needed to find this rule.
func (p *ProofSystem) AddRule(key string, rule *DiffRule) {
	rule.ID = p.stats.Rules
	p.rules[key] = rule
	p.stats.Rules++
	p.pastConfigs = make(map[string]*PastConfig)
}

// ApplyRule applies a given rule as many times as possible to a given tape.
func (p *ProofSystem) ApplyRule(rule *DiffRule, t *tape.ChainTape) Result {
	reps, ok := rule.Repetitions(t)
	//
	switch {
	case !ok:
		return NothingToDo{}
	case reps.IsInf():
		p.stats.InfiniteProofs++
		log.Debugf("rule %d repeats forever", rule.ID)
		//
		return RepeatsForever{rule}
	}
	//
	result, steps := rule.Apply(t, reps)
	//
	rule.Uses++
	p.stats.RuleUses++
	//
	return RuleApplied{rule, result, reps, steps}
}

