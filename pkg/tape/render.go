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
package tape

import (
	"fmt"
	"io"
	"strings"

	"github.com/consensys/go-beaver/pkg/machine"
)

// CUTOFF determines how many blocks are shown at each edge of the tape when
// rendering in truncated mode.
const CUTOFF = 3

// Render writes a human-readable representation of this tape, with the head
// (as given) placed between the two halves.  In truncated mode, only CUTOFF
// blocks are shown from either edge of the tape.  The total (finite) length
// of the tape is reported on a second line.
func (p *Tape[N]) Render(w io.Writer, head string, symbol func(machine.Symbol) string, full bool) {
	var (
		total N
		left  = p.Halves[machine.Left]
		right = p.Halves[machine.Right]
		items []string
	)
	// Left half is printed outermost first.
	for i, b := range left {
		total = accumulate(total, b.Count)
		//
		if full || i < CUTOFF || len(left) <= i+CUTOFF {
			items = append(items, renderBlock(b, symbol))
		}
		//
		if !full && i == CUTOFF-1 && len(left) > 2*CUTOFF {
			items = append(items, "...")
		}
	}
	//
	items = append(items, head)
	// Right half is printed innermost first.
	for i := range right {
		b := right[len(right)-1-i]
		total = accumulate(total, b.Count)
		//
		if full || i < CUTOFF || len(right) <= i+CUTOFF {
			items = append(items, renderBlock(b, symbol))
		}
		//
		if !full && i == CUTOFF-1 && len(right) > 2*CUTOFF {
			items = append(items, "...")
		}
	}
	//
	fmt.Fprintln(w, strings.Join(items, " "))
	fmt.Fprintf(w, "Total blocks: %s\n", total.Abbrev())
}

func accumulate[N Count[N]](total N, count N) N {
	if count.IsInf() {
		return total
	}
	//
	return total.Add(count)
}

func renderBlock[N Count[N]](b Block[N], symbol func(machine.Symbol) string) string {
	return fmt.Sprintf("%s^%s", symbol(b.Symbol), b.Count.Abbrev())
}
