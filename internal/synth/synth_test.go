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

package synth

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salikh/pegc/internal/analysis"
	"github.com/salikh/pegc/internal/metaparser"
)

// mustEmit parses, analyzes and synthesizes source into Go source,
// requiring every step to succeed.
func mustEmit(t *testing.T, source string, opts *Options) string {
	t.Helper()
	g, err := metaparser.Parse(source)
	require.NoError(t, err)
	require.NoError(t, analysis.CheckReferences(g))
	require.NoError(t, analysis.CheckLeftRecursion(g))
	analysis.EliminateProxyRules(g)
	out, err := Emit(g, opts)
	require.NoError(t, err)
	return out
}

// requireValidGo parses src as a Go source file, failing the test with
// the parse error (and the offending source) if it does not parse.
func requireValidGo(t *testing.T, src string) {
	t.Helper()
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "generated.go", src, parser.AllErrors)
	if err != nil {
		t.Fatalf("generated source does not parse: %v\n%s", err, src)
	}
}

func TestEmitLiteralSequenceChoice(t *testing.T) {
	src := `
start = "foo" / "bar"
`
	out := mustEmit(t, src, &Options{Package: "gen"})
	requireValidGo(t, out)
	assert.Contains(t, out, "package gen")
	assert.Contains(t, out, "func NewParser(source string) *Parser")
	assert.Contains(t, out, "MatchLiteral(\"foo\")")
	assert.Contains(t, out, "MatchLiteral(\"bar\")")
}

func TestEmitLabeledAction(t *testing.T) {
	src := `
start = a:"x" b:"y" { return a + b }
`
	out := mustEmit(t, src, nil)
	requireValidGo(t, out)
	assert.Contains(t, out, "a := ")
	assert.Contains(t, out, "b := ")
	assert.Contains(t, out, "return a + b")
}

func TestEmitUnlabeledActionUsesValueConvention(t *testing.T) {
	src := `
start = "x"+ { return value }
`
	out := mustEmit(t, src, nil)
	requireValidGo(t, out)
	assert.Contains(t, out, "value := ")
	assert.Contains(t, out, "return value")
}

func TestEmitQuantifiersAndLookaheads(t *testing.T) {
	src := `
start = "a"* "b"+ "c"? &"d" !"e"
`
	out := mustEmit(t, src, nil)
	requireValidGo(t, out)
	assert.Contains(t, out, "append(")
	assert.Contains(t, out, "ReportMatchFailures = false")
}

func TestEmitSemanticPredicates(t *testing.T) {
	src := `
start = &{ return true } !{ return false } "x"
`
	out := mustEmit(t, src, nil)
	requireValidGo(t, out)
	assert.Contains(t, out, "pegcrt.Truthy")
}

func TestEmitClassAndAny(t *testing.T) {
	src := `
start = [a-z_]+ .
`
	out := mustEmit(t, src, nil)
	requireValidGo(t, out)
	assert.Contains(t, out, "MatchClass(")
	assert.Contains(t, out, "MatchAny()")
}

func TestEmitDisplayNameSuppression(t *testing.T) {
	src := `
start "identifier" = [a-z]+
`
	out := mustEmit(t, src, nil)
	requireValidGo(t, out)
	assert.Contains(t, out, `s.RecordFailure("identifier")`)
	assert.Contains(t, out, "savedReport")
}

func TestEmitProxyRuleEliminated(t *testing.T) {
	src := `
start = mid
mid = "x"
`
	out := mustEmit(t, src, nil)
	requireValidGo(t, out)
	assert.NotContains(t, out, "parse_start")
}

func TestEmitInitializerEmittedAtFileScope(t *testing.T) {
	src := `
{
var counter int
}
start = "x" { counter++; return counter }
`
	out := mustEmit(t, src, nil)
	requireValidGo(t, out)
	assert.Contains(t, out, "var counter int")
}

func TestEmitLRUCacheOption(t *testing.T) {
	src := `start = "x"`
	out := mustEmit(t, src, &Options{LRUCache: true, LRUCacheSize: 16})
	requireValidGo(t, out)
	assert.Contains(t, out, "pegcrt.NewLRUState(input, 16)")
}

func TestEmitDefaultsToMapCache(t *testing.T) {
	src := `start = "x"`
	out := mustEmit(t, src, nil)
	requireValidGo(t, out)
	assert.Contains(t, out, "pegcrt.NewState(input)")
	assert.NotContains(t, out, "NewLRUState")
}
