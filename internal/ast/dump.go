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

package ast

import (
	"strconv"
	"strings"
)

// Dump renders the grammar as a parenthesized s-expression, in
// declaration order. It is used for golden tests and the `--dump-agt`
// driver flag; it is not meant to be parsed back.
func (g *Grammar) Dump() string {
	if g == nil {
		return "(nil)"
	}
	var b strings.Builder
	b.WriteString("(Grammar")
	if g.Initializer != nil {
		b.WriteString(" (Initializer ")
		b.WriteString(strconv.Quote(g.Initializer.Code))
		b.WriteString(")")
	}
	b.WriteString(" :start ")
	b.WriteString(strconv.Quote(g.Start))
	for _, name := range g.RuleNames {
		b.WriteString(" ")
		b.WriteString(dumpRule(g.Rules[name]))
	}
	b.WriteString(")")
	return b.String()
}

func dumpRule(r *Rule) string {
	if r == nil {
		return "(nil)"
	}
	var b strings.Builder
	b.WriteString("(Rule ")
	b.WriteString(strconv.Quote(r.Name))
	if r.DisplayName != "" {
		b.WriteString(" :display ")
		b.WriteString(strconv.Quote(r.DisplayName))
	}
	b.WriteString(" ")
	b.WriteString(Dump(r.Expr))
	b.WriteString(")")
	return b.String()
}

// Dump renders a single expression node; Grammar.Dump is the usual
// entry point but sub-expressions can be dumped independently, which
// is useful when an analyzer error needs to show the offending node.
func Dump(n Node) string {
	switch v := n.(type) {
	case nil:
		return "(nil)"
	case *Choice:
		var b strings.Builder
		b.WriteString("(Choice")
		for _, alt := range v.Alternatives {
			b.WriteString(" ")
			b.WriteString(Dump(alt))
		}
		b.WriteString(")")
		return b.String()
	case *Sequence:
		var b strings.Builder
		b.WriteString("(Sequence")
		for _, e := range v.Elements {
			b.WriteString(" ")
			b.WriteString(Dump(e))
		}
		b.WriteString(")")
		return b.String()
	case *Labeled:
		return "(Labeled :label " + strconv.Quote(v.Label) + " " + Dump(v.Expr) + ")"
	case *SimpleAnd:
		return "(SimpleAnd " + Dump(v.Expr) + ")"
	case *SimpleNot:
		return "(SimpleNot " + Dump(v.Expr) + ")"
	case *SemanticAnd:
		return "(SemanticAnd " + strconv.Quote(v.Code) + ")"
	case *SemanticNot:
		return "(SemanticNot " + strconv.Quote(v.Code) + ")"
	case *Optional:
		return "(Optional " + Dump(v.Expr) + ")"
	case *ZeroOrMore:
		return "(ZeroOrMore " + Dump(v.Expr) + ")"
	case *OneOrMore:
		return "(OneOrMore " + Dump(v.Expr) + ")"
	case *Action:
		return "(Action :code " + strconv.Quote(v.Code) + " " + Dump(v.Expr) + ")"
	case *RuleRef:
		return "(RuleRef " + strconv.Quote(v.Name) + ")"
	case *Literal:
		return "(Literal " + strconv.Quote(v.Value) + ")"
	case *Any:
		return "(Any)"
	case *Class:
		return "(Class :negated " + strconv.FormatBool(v.Negated) + " " + strconv.Quote(v.RawText) + ")"
	default:
		return "(Unknown)"
	}
}
