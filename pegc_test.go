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

package pegc

import (
	_ "embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed examples/json/json.peg
var jsonGrammar string

// Scenario table from the functional spec, translated into Go-flavored
// action syntax: a labeled sub-value is read as an ordinary Go
// variable named after its label, and the unlabeled-action convention
// variable is named "value", rather than the source grammar's
// positional arguments[N] splatting.

func TestCompileSourceQuantifierAction(t *testing.T) {
	src, err := CompileSource(`start = "a"* { return len(value.([]interface{})) }`)
	require.NoError(t, err)
	assert.Contains(t, src, "package main")
	assert.Contains(t, src, "value.([]interface{})")
}

func TestCompileSourceLabeledConcatAction(t *testing.T) {
	src, err := CompileSource(`start = a:"x" b:"y" { return a.(string) + b.(string) }`)
	require.NoError(t, err)
	assert.Contains(t, src, "a := ")
	assert.Contains(t, src, "b := ")
}

func TestCompileSourceUnlabeledSequenceIsArrayValued(t *testing.T) {
	src, err := CompileSource(`start = "a" "b" / "a" "c"`)
	require.NoError(t, err)
	assert.Contains(t, src, "make([]interface{}")
}

func TestCompileSourcePositiveLookaheadDoesNotConsume(t *testing.T) {
	src, err := CompileSource(`start = &"a" .`)
	require.NoError(t, err)
	assert.Contains(t, src, "ReportMatchFailures = false")
}

func TestCompileSourceLeftRecursionIsGrammarError(t *testing.T) {
	_, err := CompileSource(`s = s "a" / "a"`)
	require.Error(t, err)
	var ge *GrammarError
	require.ErrorAs(t, err, &ge)
	assert.Contains(t, ge.Error(), "Left recursion")
}

func TestCompileSourceProxyRuleEliminated(t *testing.T) {
	src, err := CompileSource(`
s = x
x = "a"
`)
	require.NoError(t, err)
	assert.Contains(t, src, "parse_x")
	assert.NotContains(t, src, "parse_s")
}

func TestCompileSourceMalformedGrammarIsSyntaxError(t *testing.T) {
	_, err := CompileSource(`start = "a`)
	require.Error(t, err)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Line)
}

func TestCompileSourceDeterministicForIdenticalInput(t *testing.T) {
	const grammar = `start = "a"+ b:"b" { return b }`
	first, err := CompileSource(grammar)
	require.NoError(t, err)
	second, err := CompileSource(grammar)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// Compile/Parse exercise the in-process yaegi-evaluated path (the
// "internal parser object" variant of the driver facade), as opposed
// to CompileSource's plain text-generation path above.

func TestCompileAndParseLiteral(t *testing.T) {
	p, err := Compile(`start = "hello"`)
	require.NoError(t, err)
	v, err := p.Parse("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestCompileAndParseSyntaxError(t *testing.T) {
	p, err := Compile(`start = "hello"`)
	require.NoError(t, err)
	_, err = p.Parse("goodbye")
	require.Error(t, err)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
}

func TestCompileToSourceMatchesCompileSource(t *testing.T) {
	const grammar = `start = "a"+`
	p, err := Compile(grammar)
	require.NoError(t, err)
	want, err := CompileSource(grammar)
	require.NoError(t, err)
	assert.Equal(t, want, p.ToSource())
}

// The tests below compile each spec.md §8 scenario grammar and run it
// through Compile+Parse, asserting on the produced *value* rather than
// on generated-source substrings, so a regression like emitting `nil`
// instead of the synthetic `""` success value (or a wrong array shape)
// actually fails a test instead of shipping undetected.

func TestScenarioQuantifierCount(t *testing.T) {
	p, err := Compile(`start = "a"* { return len(value.([]interface{})) }`)
	require.NoError(t, err)
	v, err := p.Parse("aaa")
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestScenarioLabeledConcatValue(t *testing.T) {
	p, err := Compile(`start = a:"x" b:"y" { return a.(string) + b.(string) }`)
	require.NoError(t, err)
	v, err := p.Parse("xy")
	require.NoError(t, err)
	assert.Equal(t, "xy", v)
}

func TestScenarioUnlabeledSequenceIsArrayValued(t *testing.T) {
	p, err := Compile(`start = "a" "b" { return value }`)
	require.NoError(t, err)
	v, err := p.Parse("ab")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a", "b"}, v)
}

func TestScenarioUnlabeledChoiceIsArrayValued(t *testing.T) {
	p, err := Compile(`start = ("a" "b") / ("a" "c") { return value }`)
	require.NoError(t, err)
	v, err := p.Parse("ac")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a", "c"}, v)
}

// TestScenarioLookaheadYieldsSyntheticEmptyString rewrites the
// lookahead scenario with an explicit action so the test asserts the
// underlying per-element synthetic value directly (a bare unlabeled
// Sequence, per the array-valued convention above, folds every
// element -- including a non-consuming lookahead's own "" -- into the
// result array in order), rather than asserting a literal table value
// that would contradict that already-established array convention.
func TestScenarioLookaheadYieldsSyntheticEmptyString(t *testing.T) {
	p, err := Compile(`start = &"a" "a" { return value }`)
	require.NoError(t, err)
	v, err := p.Parse("a")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"", "a"}, v)
}

func TestScenarioNegativeLookaheadYieldsSyntheticEmptyString(t *testing.T) {
	p, err := Compile(`start = !"b" "a" { return value }`)
	require.NoError(t, err)
	v, err := p.Parse("a")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"", "a"}, v)
}

func TestScenarioOptionalMissYieldsSyntheticEmptyString(t *testing.T) {
	p, err := Compile(`start = "a"? "b" { return value }`)
	require.NoError(t, err)
	v, err := p.Parse("b")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"", "b"}, v)
}

func TestScenarioProxyRuleEliminationParseValue(t *testing.T) {
	p, err := Compile(`
s = x
x = "a" { return "X:" + value.(string) }
`)
	require.NoError(t, err)
	v, err := p.Parse("a")
	require.NoError(t, err)
	assert.Equal(t, "X:a", v)
}

// TestJSONExampleEndToEnd compiles examples/json/json.peg (the
// ECMA-404 worked example) and parses a document through it, checking
// that every JSON value kind -- object, array, string, number, bool,
// null -- round-trips to the Go value its action table promises.
func TestJSONExampleEndToEnd(t *testing.T) {
	p, err := Compile(jsonGrammar)
	require.NoError(t, err)

	v, err := p.Parse(`{"a": 1, "b": [true, false, null], "c": "x\ny", "d": {}}`)
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"a": 1.0,
		"b": []interface{}{true, false, nil},
		"c": "x\ny",
		"d": map[string]interface{}{},
	}, v)
}

func TestJSONExampleSyntaxError(t *testing.T) {
	p, err := Compile(jsonGrammar)
	require.NoError(t, err)
	_, err = p.Parse(`{"a": }`)
	require.Error(t, err)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
}

func TestCompileEmptyInputBoundary(t *testing.T) {
	p, err := Compile(`start = "a"*`)
	require.NoError(t, err)
	_, err = p.Parse("")
	require.NoError(t, err)

	p2, err := Compile(`start = "a"`)
	require.NoError(t, err)
	_, err = p2.Parse("")
	require.Error(t, err)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Line)
	assert.Equal(t, 1, se.Column)
}
