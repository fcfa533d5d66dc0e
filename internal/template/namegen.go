// Copyright 2019 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package template

import "strconv"

// NameGen produces fresh identifiers per prefix: FreshName("v") yields
// "v0", "v1", .... Reset clears every counter; internal/synth calls it
// at the start of every rule's emission so that editing one rule does
// not shift the generated names of unrelated rules (spec §4.3's
// diff-stability requirement). A NameGen is confined to a single
// synthesizer run; there is no package-level counter (spec §5, §9).
type NameGen struct {
	counters map[string]int
}

// NewNameGen returns a ready-to-use generator with all counters at zero.
func NewNameGen() *NameGen {
	return &NameGen{counters: make(map[string]int)}
}

// FreshName returns the next unused name for prefix.
func (g *NameGen) FreshName(prefix string) string {
	n := g.counters[prefix]
	g.counters[prefix] = n + 1
	return prefix + strconv.Itoa(n)
}

// Reset clears every prefix's counter back to zero.
func (g *NameGen) Reset() {
	g.counters = make(map[string]int)
}
