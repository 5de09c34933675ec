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
	"slices"
	"strconv"
	"strings"

	"github.com/consensys/go-beaver/pkg/machine"
	"github.com/consensys/go-beaver/pkg/tape"
)

// StrippedBlock is a tape block with its run length removed, except for
// recording whether or not the run length is exactly one.  Blocks of length one
// are never generalised.
type StrippedBlock struct {
	Symbol machine.Symbol
	Unit   bool
}

// StrippedConfig is the shape of a machine configuration, obtained by
// removing all run lengths other than one.  Configurations with the same shape
// are candidates for being described by a single rule.
type StrippedConfig struct {
	State machine.State
	Dir   machine.Dir
	Left  []StrippedBlock
	Right []StrippedBlock
}

// Strip a (concrete or symbolic) configuration down to its shape.
func Strip[N tape.Count[N]](state machine.State, t *tape.Tape[N]) StrippedConfig {
	return StrippedConfig{
		state,
		t.Dir,
		stripHalf(t.Half(machine.Left)),
		stripHalf(t.Half(machine.Right)),
	}
}

func stripHalf[N tape.Count[N]](half []tape.Block[N]) []StrippedBlock {
	blocks := make([]StrippedBlock, len(half))
	//
	for i, b := range half {
		blocks[i] = StrippedBlock{b.Symbol, b.Count.IsOne()}
	}
	//
	return blocks
}

// Equal determines whether two configurations have the same shape.
func (p *StrippedConfig) Equal(o *StrippedConfig) bool {
	return p.State == o.State && p.Dir == o.Dir && slices.Equal(p.Left, o.Left) && slices.Equal(p.Right, o.Right)
}

// Key returns a string which uniquely identifies this shape.  This is used to
// index the tables of a proof system.
func (p *StrippedConfig) Key() string {
	var builder strings.Builder
	//
	builder.WriteString(strconv.Itoa(int(p.State)))
	builder.WriteString(p.Dir.String())
	writeStrippedHalf(&builder, p.Left)
	writeStrippedHalf(&builder, p.Right)
	//
	return builder.String()
}

func writeStrippedHalf(builder *strings.Builder, half []StrippedBlock) {
	builder.WriteByte('|')
	//
	for _, b := range half {
		builder.WriteString(strconv.FormatUint(uint64(b.Symbol), 10))
		//
		if b.Unit {
			builder.WriteByte('.')
		} else {
			builder.WriteByte('*')
		}
	}
}

// PastConfig records the history of sightings of a given shape.
type PastConfig struct {
	timesSeen uint64
	lastLoop  uint64
	delta     uint64
	seen      bool
	hasDelta  bool
}

// Log a sighting of this shape at a given loop, and decide whether or not a
// proof should be attempted.  A proof is attempted when the number of loops
// since the previous sighting matches that between the previous two
// sightings, in which case the number of loops is returned.
func (p *PastConfig) Log(loop uint64) (uint64, bool) {
	p.timesSeen++
	//
	if !p.seen {
		p.seen = true
		p.lastLoop = loop
		//
		return 0, false
	}
	//
	delta := loop - p.lastLoop
	p.lastLoop = loop
	//
	if p.hasDelta && p.delta == delta {
		return delta, true
	}
	//
	p.delta = delta
	p.hasDelta = true
	//
	return 0, false
}

// TimesSeen returns the number of sightings of this shape.
func (p *PastConfig) TimesSeen() uint64 {
	return p.timesSeen
}
