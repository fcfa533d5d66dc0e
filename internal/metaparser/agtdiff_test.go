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

	"github.com/stretchr/testify/require"

	"github.com/salikh/pegc/internal/ast"
	"github.com/salikh/pegc/internaltest/agtdiff"
)

// TestParseStructural complements TestParseDump's string-golden checks
// with a structural comparison against a hand-built expected tree, so
// a failure reports exactly which node disagrees instead of an opaque
// string diff.
func TestParseStructural(t *testing.T) {
	g, err := Parse(`start = a:"x" b:"y"+ { return a }`)
	require.NoError(t, err)

	want := &ast.Grammar{
		Start: "start",
		RuleNames: []string{"start"},
		Rules: map[string]*ast.Rule{
			"start": {
				Name: "start",
				Expr: &ast.Action{
					Code: " return a ",
					Expr: &ast.Sequence{
						Elements: []ast.Node{
							&ast.Labeled{Label: "a", Expr: &ast.Literal{Value: "x"}},
							&ast.Labeled{Label: "b", Expr: &ast.OneOrMore{Expr: &ast.Literal{Value: "y"}}},
						},
					},
				},
			},
		},
	}

	if diff := agtdiff.Diff(g, want); len(diff) > 0 {
		t.Errorf("unexpected AGT structure:\n%s", joinDiff(diff))
	}
}

func joinDiff(diff []string) string {
	out := ""
	for _, d := range diff {
		out += "- " + d + "\n"
	}
	return out
}
