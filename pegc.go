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

// Package pegc is the driver facade (component E): it wires the
// meta-grammar parser, the semantic analyzer and the parser
// synthesizer into the two entry points a caller actually wants,
// CompileSource (grammar text -> generated Go source) and Compile
// (grammar text -> a live, callable parser object).
package pegc

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/salikh/pegc/internal/analysis"
	"github.com/salikh/pegc/internal/ast"
	"github.com/salikh/pegc/internal/metaparser"
	"github.com/salikh/pegc/internal/synth"
	"github.com/salikh/pegc/internal/yaegisymbols"
	"github.com/salikh/pegc/pegcrt"
)

// SyntaxError is returned when grammar text itself fails to parse
// against the meta-grammar, or when a compiled parser's input fails to
// match its start rule. Line and Column are 1-based.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// GrammarError is returned when grammar text parses but fails semantic
// analysis: an undefined rule reference, a left-recursive rule, or an
// internal fault in code generation.
type GrammarError struct {
	Message string
}

func (e *GrammarError) Error() string { return e.Message }

// CompileSource runs text through the meta-grammar parser, the
// semantic analyzer and the parser synthesizer, and returns the
// gofmt'd Go source of a standalone packrat recursive-descent parser.
// The returned source has no dependency on this package; it depends
// only on github.com/salikh/pegc/pegcrt.
func CompileSource(text string) (string, error) {
	g, analysisErr := analyzeGrammar(text)
	if analysisErr != nil {
		return "", analysisErr
	}
	src, err := synth.Emit(g, nil)
	if err != nil {
		return "", &GrammarError{Message: err.Error()}
	}
	return src, nil
}

func analyzeGrammar(text string) (*ast.Grammar, error) {
	g, err := metaparser.Parse(text)
	if err != nil {
		var se *pegcrt.Error
		if errors.As(err, &se) {
			return nil, &SyntaxError{Message: se.Message, Line: se.Line, Column: se.Column}
		}
		return nil, &GrammarError{Message: err.Error()}
	}
	if err := analysis.CheckReferences(g); err != nil {
		return nil, &GrammarError{Message: err.Error()}
	}
	if err := analysis.CheckLeftRecursion(g); err != nil {
		return nil, &GrammarError{Message: err.Error()}
	}
	analysis.EliminateProxyRules(g)
	return g, nil
}

// Parser is an in-process, immediately callable parser produced by
// Compile: the source CompileSource would have returned, evaluated
// live by an embedded interpreter rather than written to disk and
// built, per spec's "compile text to an in-memory parser object"
// variant of the driver facade.
type Parser struct {
	source   string
	instance reflect.Value
}

// Compile synthesizes a parser for text and evaluates the generated
// source in-process via github.com/traefik/yaegi, returning a *Parser
// that is immediately callable.
func Compile(text string) (*Parser, error) {
	src, err := CompileSource(text)
	if err != nil {
		return nil, err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("pegc: loading interpreter stdlib symbols: %w", err)
	}
	if err := i.Use(yaegisymbols.Symbols); err != nil {
		return nil, fmt.Errorf("pegc: loading pegcrt symbols: %w", err)
	}
	if _, err := i.Eval(src); err != nil {
		return nil, fmt.Errorf("pegc: evaluating generated parser source: %w", err)
	}

	newParser, err := i.Eval("main.NewParser")
	if err != nil {
		return nil, fmt.Errorf("pegc: generated source has no NewParser: %w", err)
	}
	results := newParser.Call([]reflect.Value{reflect.ValueOf(src)})
	if len(results) != 1 {
		return nil, fmt.Errorf("pegc: NewParser returned %d values, want 1", len(results))
	}
	return &Parser{source: src, instance: results[0]}, nil
}

// Parse runs the compiled parser against input, returning the value
// produced by the grammar's start rule and its actions, or the
// furthest-right syntax error (a *SyntaxError) the matcher recorded.
func (p *Parser) Parse(input string) (interface{}, error) {
	method := p.instance.MethodByName("Parse")
	if !method.IsValid() {
		return nil, fmt.Errorf("pegc: generated Parser has no Parse method")
	}
	results := method.Call([]reflect.Value{reflect.ValueOf(input)})
	errVal := results[1].Interface()
	if errVal == nil {
		return results[0].Interface(), nil
	}
	if ge, ok := errVal.(*pegcrt.Error); ok {
		return nil, &SyntaxError{Message: ge.Message, Line: ge.Line, Column: ge.Column}
	}
	err, _ := errVal.(error)
	return nil, err
}

// ToSource returns the grammar-derived, gofmt'd Go source backing the
// compiled parser; identical to what CompileSource(text) returns.
func (p *Parser) ToSource() string {
	method := p.instance.MethodByName("ToSource")
	if !method.IsValid() {
		return p.source
	}
	return method.Call(nil)[0].Interface().(string)
}
