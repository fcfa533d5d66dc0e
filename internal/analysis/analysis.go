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

// Package analysis is the semantic analyzer (component B): reference
// resolution, left-recursion detection, and proxy-rule elimination
// over an *ast.Grammar, run in that order by the driver facade.
//
// Grounded on the teacher's generator/peg.go, which performs the
// analogous checks (there folded into generator.Grammar's own
// traversal methods) before handing the tree to gogen.
package analysis

import (
	"fmt"

	"github.com/agnivade/levenshtein"

	"github.com/salikh/pegc/internal/ast"
)

// GrammarError is raised by the semantic analyzer; it carries no
// position, unlike metaparser's syntax errors, since it describes a
// property of the whole grammar rather than a parse failure.
type GrammarError struct {
	Message string
}

func (e *GrammarError) Error() string { return e.Message }

// CheckReferences verifies that every rule_ref in g names a declared
// rule (spec's Check 1). When a reference is undefined, the error
// message is enriched with the closest declared rule name by edit
// distance, if one is within a plausible typo distance.
func CheckReferences(g *ast.Grammar) error {
	var err error
	walk(g, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		ref, ok := n.(*ast.RuleRef)
		if !ok {
			return true
		}
		if _, ok := g.Rules[ref.Name]; ok {
			return true
		}
		msg := fmt.Sprintf("Referenced rule %q does not exist.", ref.Name)
		if suggestion := closestRuleName(g, ref.Name); suggestion != "" {
			msg = fmt.Sprintf("%s Did you mean %q?", msg, suggestion)
		}
		err = &GrammarError{Message: msg}
		return false
	})
	return err
}

// closestRuleName returns the declared rule name nearest to name by
// Levenshtein distance, or "" if none is close enough to be a
// plausible typo (distance > half the length of the shorter string,
// rounded up).
func closestRuleName(g *ast.Grammar, name string) string {
	best, bestDist := "", -1
	for _, candidate := range g.RuleNames {
		d := levenshtein.ComputeDistance(name, candidate)
		if bestDist == -1 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	if best == "" {
		return ""
	}
	limit := len(name)
	if len(best) < limit {
		limit = len(best)
	}
	limit = (limit + 1) / 2
	if bestDist > limit {
		return ""
	}
	return best
}

// CheckLeftRecursion detects left recursion via the "leftmost-first"
// relation of spec §4.2: from each rule's expression, follow only the
// sub-expression(s) reachable without consuming input, and fail if a
// rule_ref leads back to a rule already on the active stack.
//
// Deliberately conservative like the source it mirrors: sequence only
// traverses its first element, so indirect left recursion through a
// nullable first element (e.g. `a = b? a`) is not detected. This is a
// recorded design decision, not an oversight (see DESIGN.md).
func CheckLeftRecursion(g *ast.Grammar) error {
	for _, name := range g.RuleNames {
		if err := checkRuleLeftRecursion(g, name, nil); err != nil {
			return err
		}
	}
	return nil
}

func checkRuleLeftRecursion(g *ast.Grammar, name string, stack []string) error {
	for _, s := range stack {
		if s == name {
			return &GrammarError{Message: fmt.Sprintf("Left recursion detected for rule %q.", name)}
		}
	}
	rule := g.Rules[name]
	if rule == nil {
		return nil
	}
	return checkExprLeftRecursion(g, rule.Expr, append(stack, name))
}

func checkExprLeftRecursion(g *ast.Grammar, n ast.Node, stack []string) error {
	switch v := n.(type) {
	case *ast.Choice:
		for _, alt := range v.Alternatives {
			if err := checkExprLeftRecursion(g, alt, stack); err != nil {
				return err
			}
		}
	case *ast.Sequence:
		if len(v.Elements) > 0 {
			return checkExprLeftRecursion(g, v.Elements[0], stack)
		}
	case *ast.Labeled:
		return checkExprLeftRecursion(g, v.Expr, stack)
	case *ast.SimpleAnd:
		return checkExprLeftRecursion(g, v.Expr, stack)
	case *ast.SimpleNot:
		return checkExprLeftRecursion(g, v.Expr, stack)
	case *ast.Optional:
		return checkExprLeftRecursion(g, v.Expr, stack)
	case *ast.ZeroOrMore:
		return checkExprLeftRecursion(g, v.Expr, stack)
	case *ast.OneOrMore:
		return checkExprLeftRecursion(g, v.Expr, stack)
	case *ast.Action:
		return checkExprLeftRecursion(g, v.Expr, stack)
	case *ast.RuleRef:
		return checkRuleLeftRecursion(g, v.Name, stack)
	}
	return nil
}

// EliminateProxyRules rewrites g in place: a proxy rule P whose body
// is a single rule_ref(Q) is removed, every rule_ref(P) elsewhere in
// the grammar becomes rule_ref(Q), and the start rule is updated if it
// named P. Running this twice is a no-op, since after the first run no
// rule's body is a bare rule_ref to another proxy.
func EliminateProxyRules(g *ast.Grammar) {
	for {
		proxy, target := findProxy(g)
		if proxy == "" {
			return
		}
		delete(g.Rules, proxy)
		for i, n := range g.RuleNames {
			if n == proxy {
				g.RuleNames = append(g.RuleNames[:i], g.RuleNames[i+1:]...)
				break
			}
		}
		if g.Start == proxy {
			g.Start = target
		}
		walk(g, func(n ast.Node) bool {
			ref, ok := n.(*ast.RuleRef)
			if ok && ref.Name == proxy {
				ref.Name = target
			}
			return true
		})
	}
}

// findProxy returns the (name, target) of some proxy rule still
// present in g, chosen in declaration order for determinism, or ("",
// "") if none remain.
func findProxy(g *ast.Grammar) (string, string) {
	for _, name := range g.RuleNames {
		rule := g.Rules[name]
		if ref, ok := rule.Expr.(*ast.RuleRef); ok {
			return name, ref.Name
		}
	}
	return "", ""
}

// walk performs a pre-order traversal of every expression node
// reachable from g (rule bodies only; initializer code is opaque
// text), calling visit on each. Traversal of a node's children stops
// early if visit returns false for that node.
func walk(g *ast.Grammar, visit func(ast.Node) bool) {
	for _, name := range g.RuleNames {
		walkNode(g.Rules[name].Expr, visit)
	}
}

func walkNode(n ast.Node, visit func(ast.Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	switch v := n.(type) {
	case *ast.Choice:
		for _, alt := range v.Alternatives {
			if !walkNode(alt, visit) {
				return false
			}
		}
	case *ast.Sequence:
		for _, e := range v.Elements {
			if !walkNode(e, visit) {
				return false
			}
		}
	case *ast.Labeled:
		return walkNode(v.Expr, visit)
	case *ast.SimpleAnd:
		return walkNode(v.Expr, visit)
	case *ast.SimpleNot:
		return walkNode(v.Expr, visit)
	case *ast.Optional:
		return walkNode(v.Expr, visit)
	case *ast.ZeroOrMore:
		return walkNode(v.Expr, visit)
	case *ast.OneOrMore:
		return walkNode(v.Expr, visit)
	case *ast.Action:
		return walkNode(v.Expr, visit)
	}
	return true
}
