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

// Package pegcrt is the small runtime support library shared by every
// parser that pegc emits: the failure-position bookkeeping, the error
// message/position rendering of spec §4.4, and the packrat memoization
// cache. Emitted parsers import it by its module path; the meta-grammar
// parser (internal/metaparser) that reads the .peg grammar itself is
// bootstrapped on the exact same primitives, so there is exactly one
// implementation of "where did parsing fail and why" in the whole module.
//
// Factoring this out of the emitted source (rather than inlining a copy
// of the algorithm into every generated file, the way a fully
// self-contained single-file generator would) is a deliberate departure
// from the teacher's style; see DESIGN.md for the tradeoff.
package pegcrt

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Fail is the sentinel returned by a matcher to denote failure to
// match. It is distinct from any real semantic value a grammar action
// can produce, including the empty string and an empty slice.
var Fail = &struct{ name string }{"pegcrt.Fail"}

// IsFail reports whether v is the Fail sentinel.
func IsFail(v interface{}) bool {
	return v == Fail
}

// CacheKey identifies one memoized (rule, position) outcome.
type CacheKey struct {
	Rule string
	Pos  int
}

// CacheEntry is one memoized outcome: the position the match advanced
// to, and the result (which may be Fail).
type CacheEntry struct {
	NextPos int
	Result  interface{}
}

// packratCache abstracts the memoization table so that State can be
// backed either by the default unbounded map or by a bounded LRU
// cache (NewLRUState), without emitted rule functions knowing which.
type packratCache interface {
	Get(CacheKey) (CacheEntry, bool)
	Add(CacheKey, CacheEntry)
}

type mapCache map[CacheKey]CacheEntry

func (c mapCache) Get(k CacheKey) (CacheEntry, bool) { e, ok := c[k]; return e, ok }
func (c mapCache) Add(k CacheKey, e CacheEntry)      { c[k] = e }

// State is the per-parse mutable state threaded through every emitted
// rule function. A fresh State is constructed at the start of every
// Parse call, so concurrent calls against the same emitted parser never
// share state.
type State struct {
	Input []rune
	Pos   int

	cache packratCache

	rightmostFailPos      int
	rightmostFailExpected map[string]bool

	// ReportMatchFailures is carried as call context: it is false inside
	// lookaheads and while inside a rule that has a display name (while
	// evaluating that rule's own body, per the per-rule compiled form in
	// spec §4.4).
	ReportMatchFailures bool
}

// NewState constructs fresh per-parse state for input, backed by an
// unbounded map packrat cache (spec §4.4's default).
func NewState(input string) *State {
	return newState(input, make(mapCache))
}

func newState(input string, cache packratCache) *State {
	return &State{
		Input:                 []rune(input),
		cache:                 cache,
		rightmostFailExpected: make(map[string]bool),
		ReportMatchFailures:   true,
	}
}

// Cached returns the memoized outcome for (rule, s.Pos), if any.
func (s *State) Cached(rule string) (CacheEntry, bool) {
	return s.cache.Get(CacheKey{rule, s.Pos})
}

// Memoize records the outcome of matching rule at pos.
func (s *State) Memoize(rule string, pos int, nextPos int, result interface{}) {
	s.cache.Add(CacheKey{rule, pos}, CacheEntry{NextPos: nextPos, Result: result})
}

// RecordFailure records that expected was not satisfied at the current
// position, per spec §4.4's recordFailure algorithm: failures strictly
// left of the current rightmost failure are ignored; a failure strictly
// to the right resets the expected set; a failure at the same position
// is added to the set.
func (s *State) RecordFailure(expected string) {
	if !s.ReportMatchFailures {
		return
	}
	if s.Pos < s.rightmostFailPos {
		return
	}
	if s.Pos > s.rightmostFailPos {
		s.rightmostFailPos = s.Pos
		s.rightmostFailExpected = make(map[string]bool)
	}
	s.rightmostFailExpected[expected] = true
}

// AtEnd reports whether s.Pos is at or beyond the end of input.
func (s *State) AtEnd() bool {
	return s.Pos >= len(s.Input)
}

// Range is an inclusive code-point range used by MatchClass. Emitted
// parsers construct these from an ast.Class's Ranges field; pegcrt
// cannot depend on internal/ast (it is imported standalone by
// yaegi-evaluated generated code), hence the duplicate, minimal type.
type Range struct {
	Low, High rune
}

// MatchLiteral advances s.Pos past lit if the input at the current
// position equals lit rune-for-rune, and reports whether it matched.
// On failure s.Pos is left unchanged.
func (s *State) MatchLiteral(lit string) bool {
	runes := []rune(lit)
	if s.Pos+len(runes) > len(s.Input) {
		return false
	}
	for i, r := range runes {
		if s.Input[s.Pos+i] != r {
			return false
		}
	}
	s.Pos += len(runes)
	return true
}

// MatchAny consumes one input unit, if any remains.
func (s *State) MatchAny() bool {
	if s.AtEnd() {
		return false
	}
	s.Pos++
	return true
}

// MatchClass consumes one input unit if it belongs to the character
// class described by chars/ranges (membership), honoring negated.
func (s *State) MatchClass(negated bool, chars []rune, ranges []Range) bool {
	if s.AtEnd() {
		return false
	}
	r := s.Input[s.Pos]
	member := false
	for _, c := range chars {
		if r == c {
			member = true
			break
		}
	}
	if !member {
		for _, rg := range ranges {
			if r >= rg.Low && r <= rg.High {
				member = true
				break
			}
		}
	}
	if member == negated {
		return false
	}
	s.Pos++
	return true
}

// Truthy reports whether v should be treated as a satisfied semantic
// predicate outcome. Actions embedded in generated Go source are free
// to return any type: nil, false, "" and the int 0 are falsy, and every
// other value (including zero values of other numeric types, and empty
// slices or maps) is truthy.
func Truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	}
	return true
}

// Error is the shape shared by the meta-grammar parser's syntax errors
// and the emitted parser's runtime syntax errors (spec §4.4, §7).
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// BuildError constructs the final syntax error once the start rule has
// failed or left unconsumed input, following spec §4.4's "error message
// construction" and "error line/column" algorithms verbatim.
func (s *State) BuildError() *Error {
	expected := make([]string, 0, len(s.rightmostFailExpected))
	for e := range s.rightmostFailExpected {
		expected = append(expected, e)
	}
	sort.Strings(expected)

	var expectedMsg string
	switch len(expected) {
	case 0:
		expectedMsg = "end of input"
	case 1:
		expectedMsg = expected[0]
	default:
		expectedMsg = strings.Join(expected[:len(expected)-1], ", ") + " or " + expected[len(expected)-1]
	}

	actualPos := s.Pos
	if s.rightmostFailPos > actualPos {
		actualPos = s.rightmostFailPos
	}
	var actual string
	if actualPos >= len(s.Input) {
		actual = "end of input"
	} else {
		actual = strconv.QuoteRune(s.Input[actualPos])
	}

	line, col := LineColumn(s.Input, s.rightmostFailPos)
	return &Error{
		Message: fmt.Sprintf("Expected %s but %s found.", expectedMsg, actual),
		Line:    line,
		Column:  col,
	}
}

// LineColumn walks input from offset 0 up to (but not including) pos
// and returns the 1-based line and column of pos, per spec §4.4's
// "error line/column" algorithm: \r\n counts as a single line break.
func LineColumn(input []rune, pos int) (line, column int) {
	line, column = 1, 1
	seenCR := false
	if pos > len(input) {
		pos = len(input)
	}
	for i := 0; i < pos; i++ {
		switch input[i] {
		case '\n':
			if !seenCR {
				line++
			}
			column = 1
			seenCR = false
		case '\r', '\u2028', '\u2029':
			line++
			column = 1
			seenCR = true
		default:
			column++
			seenCR = false
		}
	}
	return line, column
}
