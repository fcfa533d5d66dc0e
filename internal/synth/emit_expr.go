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
	"fmt"
	"strings"

	"github.com/salikh/pegc/internal/ast"
	"github.com/salikh/pegc/internal/template"
)

// emitExpr appends the Go statements that evaluate n against s, and
// returns the name of the interface{} variable left holding the
// result (pegcrt.Fail on failure, any other value -- including nil --
// on success). Every statement sequence emitExpr appends leaves s.Pos
// advanced past the match on success and rewound to where it started
// on failure; compound node kinds (Sequence, Choice and the
// quantifiers) are each wrapped in their own immediately-invoked
// function literal so that nested backtracking never needs named
// control flow (goto/labeled break) to reach past a failed element.
//
// This flattens each node kind into its own small statement group the
// way generator/template/template.go's one-handler-per-node-kind
// split does, adapted from that package's JS-statement assembly to Go
// statements with real types instead of assembled strings.
func (e *emitter) emitExpr(b *strings.Builder, n ast.Node) string {
	switch node := n.(type) {
	case *ast.Literal:
		return e.emitLiteral(b, node)
	case *ast.Any:
		return e.emitAny(b)
	case *ast.Class:
		return e.emitClass(b, node)
	case *ast.RuleRef:
		return e.emitRuleRef(b, node)
	case *ast.Sequence:
		return e.emitSequence(b, node)
	case *ast.Labeled:
		// A bare Labeled outside of an enclosing Action (no action code
		// to read the label) still has to match; the label itself has
		// no observer, so just evaluate the wrapped expression.
		return e.emitExpr(b, node.Expr)
	case *ast.Choice:
		return e.emitChoice(b, node)
	case *ast.Optional:
		return e.emitOptional(b, node)
	case *ast.ZeroOrMore:
		return e.emitZeroOrMore(b, node)
	case *ast.OneOrMore:
		return e.emitOneOrMore(b, node)
	case *ast.SimpleAnd:
		return e.emitSimpleAnd(b, node)
	case *ast.SimpleNot:
		return e.emitSimpleNot(b, node)
	case *ast.SemanticAnd:
		return e.emitSemanticAnd(b, node)
	case *ast.SemanticNot:
		return e.emitSemanticNot(b, node)
	case *ast.Action:
		return e.emitAction(b, node)
	}
	panic(&template.Error{Message: fmt.Sprintf("synth: unhandled AGT node type %T", n)})
}

func (e *emitter) emitLiteral(b *strings.Builder, n *ast.Literal) string {
	v := e.ng.FreshName("v")
	fmt.Fprintf(b, "var %s interface{} = pegcrt.Fail\n", v)
	lit := template.QuoteString(n.Value)
	// The failure message shows the literal the way a human reading the
	// grammar wrote it, quote marks and all, e.g. `Expected "ab" ...`.
	expectedText := template.QuoteString(lit)
	fmt.Fprintf(b, "if s.MatchLiteral(%s) {\n\t%s = %s\n} else {\n\ts.RecordFailure(%s)\n}\n",
		lit, v, lit, expectedText)
	return v
}

func (e *emitter) emitAny(b *strings.Builder) string {
	v := e.ng.FreshName("v")
	fmt.Fprintf(b, "var %s interface{} = pegcrt.Fail\n", v)
	fmt.Fprintf(b, "if s.MatchAny() {\n\t%s = string(s.Input[s.Pos-1])\n} else {\n\ts.RecordFailure(\"any character\")\n}\n", v)
	return v
}

func (e *emitter) emitClass(b *strings.Builder, n *ast.Class) string {
	v := e.ng.FreshName("v")
	var chars strings.Builder
	for i, c := range n.Chars {
		if i > 0 {
			chars.WriteString(", ")
		}
		chars.WriteString(template.QuoteRune(c))
	}
	var ranges strings.Builder
	for i, r := range n.Ranges {
		if i > 0 {
			ranges.WriteString(", ")
		}
		fmt.Fprintf(&ranges, "{Low: %s, High: %s}", template.QuoteRune(r.Low), template.QuoteRune(r.High))
	}
	fmt.Fprintf(b, "var %s interface{} = pegcrt.Fail\n", v)
	fmt.Fprintf(b, "if s.MatchClass(%t, []rune{%s}, []pegcrt.Range{%s}) {\n\t%s = string(s.Input[s.Pos-1])\n} else {\n\ts.RecordFailure(%s)\n}\n",
		n.Negated, chars.String(), ranges.String(), v, template.QuoteString(n.RawText))
	return v
}

func (e *emitter) emitRuleRef(b *strings.Builder, n *ast.RuleRef) string {
	v := e.ng.FreshName("v")
	fmt.Fprintf(b, "%s := %s.parse%s(s)\n", v, e.opts.recv(), ruleFuncName(n.Name))
	return v
}

// emitSequence wraps emitSequenceInline in its own closure, so a
// Sequence can be used anywhere an expression is expected (e.g. as a
// Choice alternative) without leaking its element variables into the
// surrounding scope.
func (e *emitter) emitSequence(b *strings.Builder, n *ast.Sequence) string {
	v := e.ng.FreshName("v")
	fmt.Fprintf(b, "%s := func() interface{} {\n", v)
	inner := e.emitSequenceInline(b, n.Elements)
	fmt.Fprintf(b, "return %s\n}()\n", inner)
	return v
}

// emitSequenceInline emits each element of elems in the *current*
// block (not a fresh closure), so that a Labeled element's underlying
// value is bound, under its label name, in the same scope the
// enclosing Action's code runs in. Grammar actions read their labeled
// sub-results as ordinary Go variables named after the label, rather
// than via a positional argument list; see DESIGN.md for why this
// departs from the spec's JS-flavored `arguments[0]` splatting
// convention.
//
// The returned variable holds a []interface{} of every element's
// value in order (labeled or not): a bare sequence with no enclosing
// action evaluates to that whole array, matching the array-valued
// sequence result of an unlabeled `"a" "b"` match.
func (e *emitter) emitSequenceInline(b *strings.Builder, elems []ast.Node) string {
	seqStart := e.ng.FreshName("pos")
	results := e.ng.FreshName("seq")
	fmt.Fprintf(b, "%s := s.Pos\n", seqStart)
	fmt.Fprintf(b, "%s := make([]interface{}, 0, %d)\n", results, len(elems))
	for _, elem := range elems {
		labeled, isLabeled := elem.(*ast.Labeled)
		target := elem
		if isLabeled {
			target = labeled.Expr
		}
		v := e.emitExpr(b, target)
		fmt.Fprintf(b, "if pegcrt.IsFail(%s) {\n\ts.Pos = %s\n\treturn pegcrt.Fail\n}\n", v, seqStart)
		if isLabeled {
			fmt.Fprintf(b, "%s := %s\n_ = %s\n", labeled.Label, v, labeled.Label)
		}
		fmt.Fprintf(b, "%s = append(%s, %s)\n", results, results, v)
	}
	return results
}

func (e *emitter) emitChoice(b *strings.Builder, n *ast.Choice) string {
	v := e.ng.FreshName("v")
	fmt.Fprintf(b, "%s := func() interface{} {\n", v)
	choiceStart := e.ng.FreshName("pos")
	fmt.Fprintf(b, "%s := s.Pos\n", choiceStart)
	for i, alt := range n.Alternatives {
		altVar := e.emitExpr(b, alt)
		if i < len(n.Alternatives)-1 {
			fmt.Fprintf(b, "if !pegcrt.IsFail(%s) {\n\treturn %s\n}\ns.Pos = %s\n", altVar, altVar, choiceStart)
		} else {
			fmt.Fprintf(b, "return %s\n", altVar)
		}
	}
	b.WriteString("}()\n")
	return v
}

func (e *emitter) emitOptional(b *strings.Builder, n *ast.Optional) string {
	v := e.ng.FreshName("v")
	fmt.Fprintf(b, "%s := func() interface{} {\n", v)
	start := e.ng.FreshName("pos")
	fmt.Fprintf(b, "%s := s.Pos\n", start)
	inner := e.emitExpr(b, n.Expr)
	fmt.Fprintf(b, "if pegcrt.IsFail(%s) {\n\ts.Pos = %s\n\treturn \"\"\n}\nreturn %s\n}()\n", inner, start, inner)
	return v
}

func (e *emitter) emitZeroOrMore(b *strings.Builder, n *ast.ZeroOrMore) string {
	v := e.ng.FreshName("v")
	results := e.ng.FreshName("results")
	fmt.Fprintf(b, "%s := func() interface{} {\n", v)
	fmt.Fprintf(b, "%s := []interface{}{}\nfor {\n", results)
	start := e.ng.FreshName("pos")
	fmt.Fprintf(b, "%s := s.Pos\n", start)
	inner := e.emitExpr(b, n.Expr)
	fmt.Fprintf(b, "if pegcrt.IsFail(%s) {\n\ts.Pos = %s\n\tbreak\n}\n%s = append(%s, %s)\n}\nreturn %s\n}()\n",
		inner, start, results, results, inner, results)
	return v
}

func (e *emitter) emitOneOrMore(b *strings.Builder, n *ast.OneOrMore) string {
	v := e.ng.FreshName("v")
	results := e.ng.FreshName("results")
	fmt.Fprintf(b, "%s := func() interface{} {\n", v)
	fmt.Fprintf(b, "%s := []interface{}{}\nfor {\n", results)
	start := e.ng.FreshName("pos")
	fmt.Fprintf(b, "%s := s.Pos\n", start)
	inner := e.emitExpr(b, n.Expr)
	fmt.Fprintf(b, "if pegcrt.IsFail(%s) {\n\ts.Pos = %s\n\tbreak\n}\n%s = append(%s, %s)\n}\n",
		inner, start, results, results, inner)
	fmt.Fprintf(b, "if len(%s) == 0 {\n\treturn pegcrt.Fail\n}\nreturn %s\n}()\n", results, results)
	return v
}

func (e *emitter) emitSimpleAnd(b *strings.Builder, n *ast.SimpleAnd) string {
	v := e.ng.FreshName("v")
	fmt.Fprintf(b, "%s := func() interface{} {\n", v)
	start := e.ng.FreshName("pos")
	saved := e.ng.FreshName("saved")
	fmt.Fprintf(b, "%s := s.Pos\n%s := s.ReportMatchFailures\ns.ReportMatchFailures = false\n", start, saved)
	inner := e.emitExpr(b, n.Expr)
	fmt.Fprintf(b, "s.ReportMatchFailures = %s\ns.Pos = %s\n", saved, start)
	fmt.Fprintf(b, "if pegcrt.IsFail(%s) {\n\treturn pegcrt.Fail\n}\nreturn \"\"\n}()\n", inner)
	return v
}

func (e *emitter) emitSimpleNot(b *strings.Builder, n *ast.SimpleNot) string {
	v := e.ng.FreshName("v")
	fmt.Fprintf(b, "%s := func() interface{} {\n", v)
	start := e.ng.FreshName("pos")
	saved := e.ng.FreshName("saved")
	fmt.Fprintf(b, "%s := s.Pos\n%s := s.ReportMatchFailures\ns.ReportMatchFailures = false\n", start, saved)
	inner := e.emitExpr(b, n.Expr)
	fmt.Fprintf(b, "s.ReportMatchFailures = %s\ns.Pos = %s\n", saved, start)
	fmt.Fprintf(b, "if !pegcrt.IsFail(%s) {\n\treturn pegcrt.Fail\n}\nreturn \"\"\n}()\n", inner)
	return v
}

func (e *emitter) emitSemanticAnd(b *strings.Builder, n *ast.SemanticAnd) string {
	v := e.ng.FreshName("v")
	fmt.Fprintf(b, "%s := func() interface{} {\n", v)
	fmt.Fprintf(b, "if pegcrt.Truthy(func() interface{} {\n%s\n}()) {\n\treturn \"\"\n}\nreturn pegcrt.Fail\n}()\n", n.Code)
	return v
}

func (e *emitter) emitSemanticNot(b *strings.Builder, n *ast.SemanticNot) string {
	v := e.ng.FreshName("v")
	fmt.Fprintf(b, "%s := func() interface{} {\n", v)
	fmt.Fprintf(b, "if !pegcrt.Truthy(func() interface{} {\n%s\n}()) {\n\treturn \"\"\n}\nreturn pegcrt.Fail\n}()\n", n.Code)
	return v
}

// emitAction binds the labeled sub-values of n.Expr as Go variables
// named after their labels (by inlining a Sequence/Labeled expression
// directly into the action's own closure instead of a nested one), and
// also binds the unlabeled convention variable "value" to the overall
// match result, before running the action code as that closure's
// return value.
func (e *emitter) emitAction(b *strings.Builder, n *ast.Action) string {
	v := e.ng.FreshName("v")
	fmt.Fprintf(b, "%s := func() interface{} {\n", v)

	var value string
	switch expr := n.Expr.(type) {
	case *ast.Sequence:
		value = e.emitSequenceInline(b, expr.Elements)
	case *ast.Labeled:
		inner := e.emitExpr(b, expr.Expr)
		fmt.Fprintf(b, "if pegcrt.IsFail(%s) {\n\treturn pegcrt.Fail\n}\n", inner)
		fmt.Fprintf(b, "%s := %s\n_ = %s\n", expr.Label, inner, expr.Label)
		value = inner
	default:
		inner := e.emitExpr(b, expr)
		fmt.Fprintf(b, "if pegcrt.IsFail(%s) {\n\treturn pegcrt.Fail\n}\n", inner)
		value = inner
	}
	fmt.Fprintf(b, "value := %s\n_ = value\n", value)
	fmt.Fprintf(b, "return func() interface{} {\n%s\n}()\n", n.Code)
	b.WriteString("}()\n")
	return v
}
