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

// Package ast defines the abstract grammar tree (AGT): the tagged tree
// that results from parsing a PEG grammar, and that the semantic
// analyzer and the parser synthesizer both operate on.
package ast

// Node is implemented by every AGT node kind. It exists purely to
// restrict the set of types that can appear in an expression position;
// callers type-switch on the concrete type to visit it.
type Node interface {
	agtNode()
}

// Range is a single character or an inclusive [Low, High] code-point range
// inside a Class. Exactly one of the two forms applies: a Range with
// Low == High represents a single character.
type Range struct {
	Low, High rune
}

// Grammar is the root of the AGT: an ordered mapping of rule name to rule,
// the name of the start rule, and an optional initializer fragment.
type Grammar struct {
	// Rules maps rule name to rule. Mutated in place by proxy elimination.
	Rules map[string]*Rule
	// RuleNames preserves declaration order; kept in sync with Rules by
	// every mutator in this package.
	RuleNames []string
	// Start is the name of the start rule (the first rule declared).
	Start string
	// Initializer holds the optional leading `{ ... }` block, or nil.
	Initializer *Initializer
	// Source is the original grammar text, kept for error reporting.
	Source string
}

func (*Grammar) agtNode() {}

// Rule returns the grammar's rule named name, or nil.
func (g *Grammar) Rule(name string) *Rule {
	return g.Rules[name]
}

// Initializer is an opaque host-language source fragment evaluated once,
// before any rule, in the emitted parser.
type Initializer struct {
	Code string
}

func (*Initializer) agtNode() {}

// Rule binds a name (and optional human-readable display name) to an
// expression.
type Rule struct {
	Name        string
	DisplayName string // empty if none was given
	Expr        Node
}

func (*Rule) agtNode() {}

// Choice is prioritized choice: the first alternative that matches wins.
type Choice struct {
	Alternatives []Node // non-empty
}

func (*Choice) agtNode() {}

// Sequence matches its elements in order; it fails (and rewinds) if any
// element fails.
type Sequence struct {
	Elements []Node // non-empty
}

func (*Sequence) agtNode() {}

// Labeled binds the result of Expr to Label for use by an enclosing Action.
type Labeled struct {
	Label string
	Expr  Node
}

func (*Labeled) agtNode() {}

// SimpleAnd is positive syntactic lookahead: "&e".
type SimpleAnd struct {
	Expr Node
}

func (*SimpleAnd) agtNode() {}

// SimpleNot is negative syntactic lookahead: "!e".
type SimpleNot struct {
	Expr Node
}

func (*SimpleNot) agtNode() {}

// SemanticAnd is a host-language predicate: succeeds (without consuming
// input) iff Code evaluates truthy.
type SemanticAnd struct {
	Code string
}

func (*SemanticAnd) agtNode() {}

// SemanticNot is the negated form of SemanticAnd.
type SemanticNot struct {
	Code string
}

func (*SemanticNot) agtNode() {}

// Optional matches Expr zero or one times; never fails.
type Optional struct {
	Expr Node
}

func (*Optional) agtNode() {}

// ZeroOrMore matches Expr zero or more times; never fails.
type ZeroOrMore struct {
	Expr Node
}

func (*ZeroOrMore) agtNode() {}

// OneOrMore matches Expr one or more times; fails if the first
// iteration fails.
type OneOrMore struct {
	Expr Node
}

func (*OneOrMore) agtNode() {}

// Action wraps Expr with a host-language action evaluated on success.
// See the splatting rule in the synthesizer for how the argument list of
// Code is determined from the shape of Expr.
type Action struct {
	Expr Node
	Code string
}

func (*Action) agtNode() {}

// RuleRef refers to another rule by name. Resolved against
// Grammar.Rules by the semantic analyzer.
type RuleRef struct {
	Name string
}

func (*RuleRef) agtNode() {}

// Literal matches an exact string.
type Literal struct {
	Value string
}

func (*Literal) agtNode() {}

// Any matches a single input unit (a rune).
type Any struct{}

func (*Any) agtNode() {}

// Class matches a single input unit against a character class.
type Class struct {
	Negated bool
	// Chars and Ranges together make up the class's parts, kept
	// separate for cheap membership tests; RawText preserves the
	// original `[...]` text for error messages.
	Chars   []rune
	Ranges  []Range
	RawText string
}

func (*Class) agtNode() {}
