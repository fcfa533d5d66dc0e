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

package metaparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salikh/pegc/internal/ast"
	"github.com/salikh/pegc/pegcrt"
)

func TestParseDump(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "single literal rule",
			source: `start = "abc"`,
			want:   `(Grammar :start "start" (Rule "start" (Literal "abc")))`,
		},
		{
			name:   "sequence and choice",
			source: `start = "a" "b" / "c"`,
			want:   `(Grammar :start "start" (Rule "start" (Choice (Sequence (Literal "a") (Literal "b")) (Literal "c"))))`,
		},
		{
			name:   "labeled action",
			source: `start = a:"x" b:"y" { return a + b }`,
			want:   `(Grammar :start "start" (Rule "start" (Action :code " return a + b " (Sequence (Labeled :label "a" (Literal "x")) (Labeled :label "b" (Literal "y"))))))`,
		},
		{
			name:   "lookaheads and quantifiers",
			source: `start = &"a" !"b" "c"* "d"+ "e"?`,
			want: `(Grammar :start "start" (Rule "start" (Sequence (SimpleAnd (Literal "a")) (SimpleNot (Literal "b")) (ZeroOrMore (Literal "c")) (OneOrMore (Literal "d")) (Optional (Literal "e")))))`,
		},
		{
			name:   "rule reference and parens",
			source: `start = ("a" b) b = "b"`,
			want:   `(Grammar :start "start" (Rule "start" (Sequence (Literal "a") (RuleRef "b"))) (Rule "b" (Literal "b")))`,
		},
		{
			name:   "any and class",
			source: `start = . [a-z]`,
			want:   `(Grammar :start "start" (Rule "start" (Sequence (Any) (Class :negated false "[a-z]"))))`,
		},
		{
			name:   "display name and initializer",
			source: `{ var x = 1 } start "the start rule" = "a"`,
			want:   `(Grammar (Initializer " var x = 1 ") :start "start" (Rule "start" :display "the start rule" (Literal "a")))`,
		},
		{
			name:   "semantic predicates",
			source: `start = &{ x > 0 } !{ y < 0 } "a"`,
			want:   `(Grammar :start "start" (Rule "start" (Sequence (SemanticAnd " x > 0 ") (SemanticNot " y < 0 ") (Literal "a"))))`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.Dump())
		})
	}
}

func TestParseComments(t *testing.T) {
	g, err := Parse(`
		// a leading comment
		start = "a" /* trailing */ "b"
	`)
	require.NoError(t, err)
	assert.Equal(t, `(Grammar :start "start" (Rule "start" (Sequence (Literal "a") (Literal "b"))))`, g.Dump())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"empty input", ""},
		{"missing equals", `start "a"`},
		{"unterminated string", `start = "a`},
		{"duplicate rule", `start = "a"
start = "b"`},
		{"unclosed class", `start = [a-z`},
		{"dangling escape in class", `start = "a" end = [\`},
		{"invalid range low>high in class", `start = [z-a]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source)
			assert.Error(t, err)
		})
	}
}

// TestParseInvalidRangeIsLocated checks that an invalid class range
// surfaces as a *pegcrt.Error with a real line/column, not merely a
// generic error, since this is grammar-text the parser itself rejects
// rather than an internal fault.
func TestParseInvalidRangeIsLocated(t *testing.T) {
	_, err := Parse("start = \"x\"\nbad = [z-a]")
	require.Error(t, err)
	var pe *pegcrt.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Greater(t, pe.Column, 0)
}

func TestParseTrailingGarbage(t *testing.T) {
	_, err := Parse(`start = "a" )`)
	require.Error(t, err)
}

func TestParseEscapes(t *testing.T) {
	g, err := Parse(`start = "a\nb\tc\x42"`)
	require.NoError(t, err)
	assert.Equal(t, `(Literal "a\nb\tcB")`, ast.Dump(g.Rule("start").Expr))
}
