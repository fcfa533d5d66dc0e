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

package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salikh/pegc/internal/ast"
	"github.com/salikh/pegc/internal/metaparser"
)

func mustParse(t *testing.T, src string) *ast.Grammar {
	t.Helper()
	g, err := metaparser.Parse(src)
	require.NoError(t, err)
	return g
}

func TestCheckReferencesOK(t *testing.T) {
	g := mustParse(t, `start = a; a = "x"`)
	assert.NoError(t, CheckReferences(g))
}

func TestCheckReferencesUndefined(t *testing.T) {
	g := mustParse(t, `start = missing`)
	err := CheckReferences(g)
	require.Error(t, err)
	assert.Equal(t, `Referenced rule "missing" does not exist.`, err.Error())
}

func TestCheckReferencesSuggestion(t *testing.T) {
	g := mustParse(t, `start = valeu; value = "x"`)
	err := CheckReferences(g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Did you mean "value"?`)
}

func TestCheckLeftRecursionDirect(t *testing.T) {
	g := mustParse(t, `s = s "a" / "a"`)
	err := CheckLeftRecursion(g)
	require.Error(t, err)
	assert.Equal(t, `Left recursion detected for rule "s".`, err.Error())
}

func TestCheckLeftRecursionIndirect(t *testing.T) {
	g := mustParse(t, `a = b; b = a`)
	err := CheckLeftRecursion(g)
	require.Error(t, err)
}

func TestCheckLeftRecursionNotThroughLaterSequenceElement(t *testing.T) {
	// "a" only left-recurses through b's *second* element, which the
	// conservative first-element-only check does not follow.
	g := mustParse(t, `a = "x" b; b = "y" a`)
	assert.NoError(t, CheckLeftRecursion(g))
}

func TestCheckLeftRecursionOK(t *testing.T) {
	g := mustParse(t, `s = "a" s / "a"`)
	assert.NoError(t, CheckLeftRecursion(g))
}

func TestEliminateProxyRules(t *testing.T) {
	g := mustParse(t, `s = x; x = "a"`)
	EliminateProxyRules(g)
	assert.Equal(t, "x", g.Start)
	assert.Nil(t, g.Rules["s"])
	require.NotNil(t, g.Rules["x"])
	assert.Equal(t, &ast.Literal{Value: "a"}, g.Rules["x"].Expr)
}

func TestEliminateProxyRulesRewritesReferences(t *testing.T) {
	g := mustParse(t, `top = s "end"; s = x; x = "a"`)
	EliminateProxyRules(g)
	require.NotNil(t, g.Rules["top"])
	seq, ok := g.Rules["top"].Expr.(*ast.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Elements, 2)
	ref, ok := seq.Elements[0].(*ast.RuleRef)
	require.True(t, ok)
	assert.Equal(t, "x", ref.Name)
}

func TestEliminateProxyRulesIdempotent(t *testing.T) {
	g := mustParse(t, `top = s; s = x; x = "a"`)
	EliminateProxyRules(g)
	first := g.Dump()
	EliminateProxyRules(g)
	assert.Empty(t, cmp.Diff(first, g.Dump()))
}
