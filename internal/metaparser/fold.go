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
	"fmt"

	"github.com/salikh/pegc/internal/ast"
	"github.com/salikh/pegc/internal/cst"
	"github.com/salikh/pegc/pegcrt"
)

// exprBox wraps an ast.Node so that sibling CST children sharing a
// label (e.g. repeated "Sequence" children of a "Choice") always carry
// the same concrete Go type for cst.Construct's slice-promotion logic,
// even though the AGT node kind they wrap varies (sequence collapse
// can turn a "Sequence" child into a bare *ast.Literal, say). Grounded
// on generator/peg.go's callback, which sidesteps the same issue by
// working with *RHS/*Term wrapper structs instead of an AGT interface.
type exprBox struct{ n ast.Node }

// fold turns the concrete syntax tree produced by parseGrammar into an
// *ast.Grammar, mirroring the shape of generator/peg.go's callback.
func fold(root *cst.Node) (*ast.Grammar, error) {
	val, err := cst.Construct(root, foldCallback, &cst.Options{ErrorOnUnusedChild: true})
	if err != nil {
		return nil, fmt.Errorf("internal error folding parse tree: %w", err)
	}
	g, ok := val.(*ast.Grammar)
	if !ok {
		return nil, fmt.Errorf("internal error: fold produced %T, want *ast.Grammar", val)
	}
	return g, nil
}

func foldCallback(label string, ca cst.Accessor) (interface{}, error) {
	switch label {
	case "Grammar":
		rules, _ := ca.Get("Rule", []*ast.Rule{}).([]*ast.Rule)
		g := &ast.Grammar{Rules: make(map[string]*ast.Rule)}
		for _, r := range rules {
			if _, dup := g.Rules[r.Name]; dup {
				return nil, fmt.Errorf("rule %q is declared more than once", r.Name)
			}
			g.Rules[r.Name] = r
			g.RuleNames = append(g.RuleNames, r.Name)
		}
		if len(g.RuleNames) == 0 {
			return nil, fmt.Errorf("grammar declares no rules")
		}
		g.Start = g.RuleNames[0]
		if raw := ca.Raw("Initializer"); raw != nil {
			g.Initializer = raw.(*ast.Initializer)
		}
		return g, nil

	case "Initializer":
		return &ast.Initializer{Code: ca.Node().Text}, nil

	case "Rule":
		name := ca.String("Ident")
		display, _ := ca.Get("Display", "").(string)
		expr := ca.Raw("Choice").(exprBox).n
		return &ast.Rule{Name: name, DisplayName: display, Expr: expr}, nil

	case "Ident", "Display", "SeqAction", "Label":
		return ca.Node().Text, nil

	case "Choice", "Parens":
		// parsePrimary's wrap relabels a parenthesized Choice node as Parens.
		alts, _ := ca.Get("Sequence", []exprBox{}).([]exprBox)
		if len(alts) == 1 {
			return alts[0], nil
		}
		nodes := make([]ast.Node, len(alts))
		for i, a := range alts {
			nodes[i] = a.n
		}
		return exprBox{&ast.Choice{Alternatives: nodes}}, nil

	case "Sequence":
		labeled, _ := ca.Get("Labeled", []exprBox{}).([]exprBox)
		var node ast.Node
		switch len(labeled) {
		case 1:
			node = labeled[0].n
		default:
			elems := make([]ast.Node, len(labeled))
			for i, l := range labeled {
				elems[i] = l.n
			}
			node = &ast.Sequence{Elements: elems}
		}
		if ca.Has("SeqAction") {
			node = &ast.Action{Expr: node, Code: ca.String("SeqAction")}
		}
		return exprBox{node}, nil

	case "Labeled":
		inner := ca.Raw("Prefixed").(exprBox).n
		if ca.Has("Label") {
			return exprBox{&ast.Labeled{Label: ca.String("Label"), Expr: inner}}, nil
		}
		return exprBox{inner}, nil

	case "Prefixed":
		switch ca.Child(0) {
		case "AndAction":
			return exprBox{&ast.SemanticAnd{Code: ca.String("AndAction")}}, nil
		case "NotAction":
			return exprBox{&ast.SemanticNot{Code: ca.String("NotAction")}}, nil
		case "AndExpr":
			return exprBox{&ast.SimpleAnd{Expr: ca.Raw("AndExpr").(exprBox).n}}, nil
		case "NotExpr":
			return exprBox{&ast.SimpleNot{Expr: ca.Raw("NotExpr").(exprBox).n}}, nil
		case "Bare":
			return ca.Raw("Bare"), nil
		}
		return nil, fmt.Errorf("unrecognized Prefixed shape")

	case "AndAction", "NotAction":
		return ca.Node().Text, nil

	case "Suffixed", "AndExpr", "NotExpr", "Bare":
		// parsePrefixed's wrap relabels the Suffixed node itself as
		// AndExpr/NotExpr/Bare, so all four labels carry the Suffixed shape.
		inner := ca.Raw("Primary").(exprBox).n
		switch ca.Node().Text {
		case "?":
			return exprBox{&ast.Optional{Expr: inner}}, nil
		case "*":
			return exprBox{&ast.ZeroOrMore{Expr: inner}}, nil
		case "+":
			return exprBox{&ast.OneOrMore{Expr: inner}}, nil
		default:
			return exprBox{inner}, nil
		}

	case "Primary":
		switch ca.Child(0) {
		case "RuleRef":
			return exprBox{&ast.RuleRef{Name: ca.String("RuleRef")}}, nil
		case "Literal":
			return exprBox{&ast.Literal{Value: ca.String("Literal")}}, nil
		case "Any":
			ca.String("Any")
			return exprBox{&ast.Any{}}, nil
		case "Class":
			cls := ca.Raw("Class").(*ast.Class)
			return exprBox{cls}, nil
		case "Parens":
			return ca.Raw("Parens"), nil
		}
		return nil, fmt.Errorf("unrecognized Primary shape")

	case "RuleRef", "Literal", "Any":
		return ca.Node().Text, nil

	case "Class":
		// ca.Node() here is the Class leaf itself, so its Line/Col
		// locate the malformed class text precisely; parseClassBody
		// errors (dangling escape, truncated hex, low>high range) are
		// grammar-text syntax errors, not internal faults, so they
		// must surface as *pegcrt.Error to become a SyntaxError.
		cls, err := parseClassBody(ca.Node().Text)
		if err != nil {
			return nil, &pegcrt.Error{Message: err.Error(), Line: ca.Node().Line, Column: ca.Node().Col}
		}
		return cls, nil
	}
	return nil, fmt.Errorf("unexpected label in parse tree: %q", label)
}
