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

// Package synth is the parser synthesizer (component D): it walks a
// normalized *ast.Grammar and emits the Go source of a standalone
// packrat recursive-descent parser, one matcher per AGT node, sharing
// its failure-tracking and memoization primitives with pegcrt.
//
// Grounded on generator/gogen/gogen.go for running the final text
// through go/format, and on generator/template/template.go's handler
// shape (one function per node kind, flattened sequential `w, err =
// ...; if err != nil { ... }` bodies as in its GroupHandler) for the
// emitted parser's own control-flow style.
package synth

import (
	"fmt"
	"go/format"
	"strings"

	"github.com/salikh/pegc/internal/ast"
	"github.com/salikh/pegc/internal/template"
)

// Options configures emission.
type Options struct {
	// Package is the emitted file's package name. Defaults to "main".
	Package string
	// ReceiverName is the method receiver identifier used throughout
	// the emitted Parser's methods. Defaults to "p".
	ReceiverName string
	// LRUCache switches the packrat cache to a bounded
	// hashicorp/golang-lru/v2 backend instead of the default unbounded
	// map, for grammars whose inputs are large enough that unbounded
	// memoization is a concern.
	LRUCache bool
	// LRUCacheSize is the bound used when LRUCache is set. Defaults to 4096.
	LRUCacheSize int
}

func (o *Options) pkg() string {
	if o == nil || o.Package == "" {
		return "main"
	}
	return o.Package
}

func (o *Options) recv() string {
	if o == nil || o.ReceiverName == "" {
		return "p"
	}
	return o.ReceiverName
}

func (o *Options) lruCache() bool {
	return o != nil && o.LRUCache
}

func (o *Options) lruCacheSize() int {
	if o == nil || o.LRUCacheSize <= 0 {
		return 4096
	}
	return o.LRUCacheSize
}

// Error wraps a failure raised while emitting: either a
// template.Error surfaced from internal/template (spec §7: a bug in
// the emitter) or a go/format syntax error in the generated text.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// Emit synthesizes a complete, gofmt'd Go source file implementing a
// Parser for g, per spec §4.4. g must already have passed
// internal/analysis's checks and proxy elimination.
func Emit(g *ast.Grammar, opts *Options) (src string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*template.Error); ok {
				err = &Error{Message: e.Message}
				return
			}
			panic(r)
		}
	}()

	e := &emitter{g: g, opts: opts, ng: template.NewNameGen()}
	raw := e.emitFile()

	formatted, ferr := format.Source([]byte(raw))
	if ferr != nil {
		return "", &Error{Message: fmt.Sprintf("generated source does not parse: %v\n%s", ferr, raw)}
	}
	return string(formatted), nil
}

type emitter struct {
	g    *ast.Grammar
	opts *Options
	ng   *template.NameGen
	rule *ast.Rule // rule currently being emitted, for cache-key/display-name
}

func (e *emitter) emitFile() string {
	var b strings.Builder
	b.WriteString(template.Format(map[string]interface{}{
		"package": e.opts.pkg(),
	}, "// Code generated by pegc. DO NOT EDIT.", "", "package ${package}", "", `import "github.com/salikh/pegc/pegcrt"`, ""))
	b.WriteString("\n")

	if e.g.Initializer != nil {
		b.WriteString(e.g.Initializer.Code)
		b.WriteString("\n\n")
	}

	recv := e.opts.recv()
	b.WriteString(template.Format(nil,
		"type Parser struct {", "\tsource string", "}", "",
		"func NewParser(source string) *Parser { return &Parser{source: source} }", ""))
	b.WriteString("\n")

	newState := "pegcrt.NewState(input)"
	if e.opts.lruCache() {
		newState = fmt.Sprintf("pegcrt.NewLRUState(input, %d)", e.opts.lruCacheSize())
	}
	b.WriteString(template.Format(map[string]interface{}{
		"recv":     recv,
		"start":    e.g.Start,
		"newState": newState,
	}, "func (${recv} *Parser) ToSource() string { return ${recv}.source }", "",
		"func (${recv} *Parser) Parse(input string) (interface{}, error) {",
		"\ts := ${newState}",
		"\tv := ${recv}.parse"+ruleFuncName(e.g.Start)+"(s)",
		"\tif pegcrt.IsFail(v) || !s.AtEnd() {",
		"\t\treturn nil, s.BuildError()",
		"\t}",
		"\treturn v, nil",
		"}", ""))

	for _, name := range e.g.RuleNames {
		e.rule = e.g.Rules[name]
		e.ng.Reset()
		b.WriteString(e.emitRule(e.rule))
		b.WriteString("\n")
	}
	return b.String()
}

// ruleFuncName turns a grammar rule name into a Go-safe method name
// suffix; grammar identifiers are already restricted to
// [A-Za-z_][A-Za-z0-9_]* by the meta-grammar's Identifier production,
// which is already a valid (if not exported) Go identifier fragment.
func ruleFuncName(name string) string {
	return "_" + name
}

func (e *emitter) emitRule(r *ast.Rule) string {
	recv := e.opts.recv()
	fn := ruleFuncName(r.Name)
	var b strings.Builder
	b.WriteString(template.Format(map[string]interface{}{
		"recv": recv, "fn": fn, "name": r.Name,
	}, "func (${recv} *Parser) parse${fn}(s *pegcrt.State) interface{} {",
		"\tif e, ok := s.Cached(${name|string}); ok {",
		"\t\ts.Pos = e.NextPos",
		"\t\treturn e.Result",
		"\t}",
		"\tstartPos := s.Pos"))
	b.WriteString("\n")

	suppressed := r.DisplayName != ""
	if suppressed {
		b.WriteString("\tsavedReport := s.ReportMatchFailures\n\ts.ReportMatchFailures = false\n")
	}

	resultVar := e.emitExpr(&b, r.Expr)

	if suppressed {
		b.WriteString(template.Format(map[string]interface{}{
			"display": r.DisplayName,
			"result":  resultVar,
		}, "\ts.ReportMatchFailures = savedReport",
			"\tif s.ReportMatchFailures && pegcrt.IsFail(${result}) {",
			"\t\ts.RecordFailure(${display|string})",
			"\t}"))
		b.WriteString("\n")
	}

	b.WriteString(template.Format(map[string]interface{}{
		"name": r.Name, "result": resultVar,
	}, "\ts.Memoize(${name|string}, startPos, s.Pos, ${result})",
		"\treturn ${result}",
		"}"))
	b.WriteString("\n")
	return b.String()
}
