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

// Package agtdiff provides a structural diff over abstract grammar
// trees, for golden-testing the meta-grammar parser and the semantic
// analyzer without relying on exact string equality of a dumped tree.
package agtdiff

import (
	"fmt"

	"github.com/salikh/pegc/internal/ast"
)

// Diff returns a list of human-readable mismatches between got and
// want, or nil if the trees are structurally identical. It recurses
// into every node kind's children so a single mismatched leaf (e.g. a
// literal's text, or a rule's name) is reported alongside its
// position in the tree rather than failing the whole comparison
// opaquely.
func Diff(got, want ast.Node) (diff []string) {
	if got == nil && want == nil {
		return nil
	}
	if got == nil {
		return []string{fmt.Sprintf("expected %s, got nil", describe(want))}
	}
	if want == nil {
		return []string{fmt.Sprintf("expected nil, got %s", describe(got))}
	}
	if fmt.Sprintf("%T", got) != fmt.Sprintf("%T", want) {
		return []string{fmt.Sprintf("expected %s, got %s", describe(want), describe(got))}
	}
	switch w := want.(type) {
	case *ast.Grammar:
		g := got.(*ast.Grammar)
		if g.Start != w.Start {
			diff = append(diff, fmt.Sprintf("expected start rule %q, got %q", w.Start, g.Start))
		}
		if len(g.RuleNames) != len(w.RuleNames) {
			diff = append(diff, fmt.Sprintf("expected %d rules, got %d", len(w.RuleNames), len(g.RuleNames)))
		}
		for _, name := range w.RuleNames {
			gr, ok := g.Rules[name]
			if !ok {
				diff = append(diff, fmt.Sprintf("expected rule %q, not found", name))
				continue
			}
			diff = append(diff, Diff(gr, w.Rules[name])...)
		}
		for _, name := range g.RuleNames {
			if _, ok := w.Rules[name]; !ok {
				diff = append(diff, fmt.Sprintf("unexpected extra rule %q", name))
			}
		}
	case *ast.Rule:
		r := got.(*ast.Rule)
		if r.Name != w.Name {
			diff = append(diff, fmt.Sprintf("expected rule name %q, got %q", w.Name, r.Name))
		}
		if r.DisplayName != w.DisplayName {
			diff = append(diff, fmt.Sprintf("rule %q: expected display name %q, got %q", w.Name, w.DisplayName, r.DisplayName))
		}
		diff = append(diff, Diff(r.Expr, w.Expr)...)
	case *ast.Initializer:
		i := got.(*ast.Initializer)
		if i.Code != w.Code {
			diff = append(diff, fmt.Sprintf("expected initializer %q, got %q", w.Code, i.Code))
		}
	case *ast.Choice:
		c := got.(*ast.Choice)
		diff = append(diff, diffNodeSlices("choice alternative", c.Alternatives, w.Alternatives)...)
	case *ast.Sequence:
		s := got.(*ast.Sequence)
		diff = append(diff, diffNodeSlices("sequence element", s.Elements, w.Elements)...)
	case *ast.Labeled:
		l := got.(*ast.Labeled)
		if l.Label != w.Label {
			diff = append(diff, fmt.Sprintf("expected label %q, got %q", w.Label, l.Label))
		}
		diff = append(diff, Diff(l.Expr, w.Expr)...)
	case *ast.SimpleAnd:
		diff = append(diff, Diff(got.(*ast.SimpleAnd).Expr, w.Expr)...)
	case *ast.SimpleNot:
		diff = append(diff, Diff(got.(*ast.SimpleNot).Expr, w.Expr)...)
	case *ast.SemanticAnd:
		s := got.(*ast.SemanticAnd)
		if s.Code != w.Code {
			diff = append(diff, fmt.Sprintf("expected semantic-and code %q, got %q", w.Code, s.Code))
		}
	case *ast.SemanticNot:
		s := got.(*ast.SemanticNot)
		if s.Code != w.Code {
			diff = append(diff, fmt.Sprintf("expected semantic-not code %q, got %q", w.Code, s.Code))
		}
	case *ast.Optional:
		diff = append(diff, Diff(got.(*ast.Optional).Expr, w.Expr)...)
	case *ast.ZeroOrMore:
		diff = append(diff, Diff(got.(*ast.ZeroOrMore).Expr, w.Expr)...)
	case *ast.OneOrMore:
		diff = append(diff, Diff(got.(*ast.OneOrMore).Expr, w.Expr)...)
	case *ast.Action:
		a := got.(*ast.Action)
		if a.Code != w.Code {
			diff = append(diff, fmt.Sprintf("expected action code %q, got %q", w.Code, a.Code))
		}
		diff = append(diff, Diff(a.Expr, w.Expr)...)
	case *ast.RuleRef:
		r := got.(*ast.RuleRef)
		if r.Name != w.Name {
			diff = append(diff, fmt.Sprintf("expected rule ref %q, got %q", w.Name, r.Name))
		}
	case *ast.Literal:
		l := got.(*ast.Literal)
		if l.Value != w.Value {
			diff = append(diff, fmt.Sprintf("expected literal %q, got %q", w.Value, l.Value))
		}
	case *ast.Any:
		// no fields to compare
	case *ast.Class:
		c := got.(*ast.Class)
		if c.Negated != w.Negated {
			diff = append(diff, fmt.Sprintf("expected class negated=%v, got %v", w.Negated, c.Negated))
		}
		if c.RawText != w.RawText {
			diff = append(diff, fmt.Sprintf("expected class %q, got %q", w.RawText, c.RawText))
		}
	default:
		diff = append(diff, fmt.Sprintf("agtdiff: unhandled node type %T", want))
	}
	return diff
}

func diffNodeSlices(what string, got, want []ast.Node) (diff []string) {
	if len(got) != len(want) {
		diff = append(diff, fmt.Sprintf("expected %d %ss, got %d", len(want), what, len(got)))
	}
	n := len(got)
	if len(want) < n {
		n = len(want)
	}
	for i := 0; i < n; i++ {
		diff = append(diff, Diff(got[i], want[i])...)
	}
	return diff
}

func describe(n ast.Node) string {
	if n == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", n)
}
