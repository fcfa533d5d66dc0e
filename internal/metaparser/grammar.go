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

import "github.com/salikh/pegc/internal/cst"

// This file implements the grammar-level productions of spec §4.1's
// informal meta-grammar. Each method attempts to match its production
// starting at the parser's current position; on failure it restores the
// position and returns (nil, false) having recorded an expectation via
// pegcrt.State.RecordFailure, so that a top-level failure can still
// report the furthest-right expectation set.

func (p *parser) withSuppressedFailures(f func() bool) bool {
	saved := p.s.ReportMatchFailures
	p.s.ReportMatchFailures = false
	r := f()
	p.s.ReportMatchFailures = saved
	return r
}

// parseGrammar matches `Grammar := __ Initializer? Rule+`.
func (p *parser) parseGrammar() (*cst.Node, bool) {
	p.skipSpace()
	var children []*cst.Node
	if n, ok := p.parseInitializer(); ok {
		children = append(children, n)
	}
	first, ok := p.parseRule()
	if !ok {
		return nil, false
	}
	children = append(children, first)
	for {
		save := p.pos()
		n, ok := p.parseRule()
		if !ok {
			p.restore(save)
			break
		}
		children = append(children, n)
	}
	p.skipSpace()
	return &cst.Node{Label: "Grammar", Children: children}, true
}

// parseInitializer matches `Initializer := Action ';'?`.
func (p *parser) parseInitializer() (*cst.Node, bool) {
	save := p.pos()
	p.skipSpace()
	r, ok := p.peek()
	if !ok || r != '{' {
		return nil, false
	}
	code, ok := p.balancedAction()
	if !ok {
		p.restore(save)
		return nil, false
	}
	p.literal(";")
	return &cst.Node{Label: "Initializer", Text: code}, true
}

// parseRule matches `Rule := Identifier Literal? '=' Choice ';'?`.
func (p *parser) parseRule() (*cst.Node, bool) {
	save := p.pos()
	name, ok := p.identifier()
	if !ok {
		p.restore(save)
		return nil, false
	}
	var display *cst.Node
	saveLit := p.pos()
	if lit, ok := p.stringLiteral(); ok {
		display = &cst.Node{Label: "Display", Text: lit}
	} else {
		p.restore(saveLit)
	}
	if !p.literal("=") {
		p.restore(save)
		return nil, false
	}
	choice, ok := p.parseChoice()
	if !ok {
		p.restore(save)
		return nil, false
	}
	p.literal(";")
	children := []*cst.Node{{Label: "Ident", Text: name}}
	if display != nil {
		children = append(children, display)
	}
	children = append(children, choice)
	return &cst.Node{Label: "Rule", Children: children}, true
}

// parseChoice matches `Choice := Sequence ('/' Sequence)*`.
func (p *parser) parseChoice() (*cst.Node, bool) {
	first, ok := p.parseSequence()
	if !ok {
		return nil, false
	}
	children := []*cst.Node{first}
	for {
		save := p.pos()
		if !p.literal("/") {
			p.restore(save)
			break
		}
		seq, ok := p.parseSequence()
		if !ok {
			p.restore(save)
			break
		}
		children = append(children, seq)
	}
	return &cst.Node{Label: "Choice", Children: children}, true
}

// parseSequence matches `Sequence := Labeled+ Action? | Labeled*`: zero
// or more labeled elements, plus an optional trailing action. It never
// fails (an empty sequence is legal).
func (p *parser) parseSequence() (*cst.Node, bool) {
	var children []*cst.Node
	for {
		save := p.pos()
		lab, ok := p.parseLabeled()
		if !ok {
			p.restore(save)
			break
		}
		children = append(children, lab)
	}
	saveAct := p.pos()
	if code, ok := p.balancedAction(); ok {
		children = append(children, &cst.Node{Label: "SeqAction", Text: code})
	} else {
		p.restore(saveAct)
	}
	return &cst.Node{Label: "Sequence", Children: children}, true
}

// parseLabeled matches `Labeled := (Identifier ':')? Prefixed`.
func (p *parser) parseLabeled() (*cst.Node, bool) {
	save := p.pos()
	var labelNode *cst.Node
	saveID := p.pos()
	if name, ok := p.identifier(); ok {
		if p.literal(":") {
			labelNode = &cst.Node{Label: "Label", Text: name}
		} else {
			p.restore(saveID)
		}
	} else {
		p.restore(saveID)
	}
	prefixed, ok := p.parsePrefixed()
	if !ok {
		p.restore(save)
		return nil, false
	}
	var children []*cst.Node
	if labelNode != nil {
		children = append(children, labelNode)
	}
	children = append(children, prefixed)
	return &cst.Node{Label: "Labeled", Children: children}, true
}

// parsePrefixed matches:
//
//	Prefixed := '&' Action | '&' Suffixed | '!' Action | '!' Suffixed | Suffixed
func (p *parser) parsePrefixed() (*cst.Node, bool) {
	if save := p.pos(); p.literal("&") {
		if code, ok := p.balancedAction(); ok {
			return wrap("Prefixed", "AndAction", &cst.Node{Text: code}), true
		}
		if suf, ok := p.parseSuffixed(); ok {
			return wrap("Prefixed", "AndExpr", suf), true
		}
		p.restore(save)
		p.s.RecordFailure("expression after '&'")
		return nil, false
	}
	if save := p.pos(); p.literal("!") {
		if code, ok := p.balancedAction(); ok {
			return wrap("Prefixed", "NotAction", &cst.Node{Text: code}), true
		}
		if suf, ok := p.parseSuffixed(); ok {
			return wrap("Prefixed", "NotExpr", suf), true
		}
		p.restore(save)
		p.s.RecordFailure("expression after '!'")
		return nil, false
	}
	suf, ok := p.parseSuffixed()
	if !ok {
		return nil, false
	}
	return wrap("Prefixed", "Bare", suf), true
}

func wrap(outer, inner string, child *cst.Node) *cst.Node {
	child.Label = inner
	return &cst.Node{Label: outer, Children: []*cst.Node{child}}
}

// parseSuffixed matches `Suffixed := Primary ('?' | '*' | '+')?`.
func (p *parser) parseSuffixed() (*cst.Node, bool) {
	prim, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	p.skipSpace()
	if r, ok := p.peek(); ok && (r == '?' || r == '*' || r == '+') {
		p.advance()
		return &cst.Node{Label: "Suffixed", Text: string(r), Children: []*cst.Node{prim}}, true
	}
	return &cst.Node{Label: "Suffixed", Children: []*cst.Node{prim}}, true
}

// parsePrimary matches:
//
//	Primary := Identifier !(Literal? '=') | Literal | '.' | Class | '(' Choice ')'
func (p *parser) parsePrimary() (*cst.Node, bool) {
	save := p.pos()
	if name, ok := p.identifier(); ok {
		isRuleDecl := p.withSuppressedFailures(func() bool {
			probe := p.pos()
			p.stringLiteral()
			matched := p.literal("=")
			p.restore(probe)
			return matched
		})
		if !isRuleDecl {
			return wrap("Primary", "RuleRef", &cst.Node{Text: name}), true
		}
		p.restore(save)
	}
	if lit, ok := p.stringLiteral(); ok {
		return wrap("Primary", "Literal", &cst.Node{Text: lit}), true
	}
	if saveDot := p.pos(); p.literal(".") {
		return wrap("Primary", "Any", &cst.Node{}), true
	} else {
		p.restore(saveDot)
	}
	classStart := p.pos()
	if raw, ok := p.classToken(); ok {
		line, col := p.lineCol(classStart)
		return wrap("Primary", "Class", &cst.Node{Text: raw, Line: line, Col: col}), true
	}
	if saveParen := p.pos(); p.literal("(") {
		if choice, ok := p.parseChoice(); ok && p.literal(")") {
			return wrap("Primary", "Parens", choice), true
		}
		p.restore(saveParen)
	}
	p.restore(save)
	p.s.RecordFailure("primary expression")
	return nil, false
}
