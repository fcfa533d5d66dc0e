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

// Package template is the code template engine (component C): variable
// interpolation with `${name}`/`${name|filter}`, indent-preserving
// joining, and a reset-per-rule unique-name generator, used by
// internal/synth to build emitted Go source text.
//
// The teacher's generator/template package builds fixed Go handler
// functions invoked by node kind; it does not need text interpolation
// because its "templates" are themselves handwritten Go functions
// exercised by table-driven tests (see its doc comment). The
// `${name|filter}` substitution language required here has no
// counterpart there, so this package is new code, grounded on the
// *shape* of that package (one concern per node kind) rather than on
// any routine copied from it.
package template

import (
	"regexp"
	"strconv"
	"strings"
)

// Error is raised for an unknown interpolation name or filter. Per
// spec §4.3/§7 these are bugs in the emitter, not user-facing
// failures; internal/synth recovers them at its call boundary and
// turns them into a returned error.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

var interpolation = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:\|([A-Za-z_][A-Za-z0-9_]*))?\}`)

// Format substitutes every `${name}` or `${name|filter}` interpolation
// in each part against vars, applies indent preservation, and joins
// the results with a newline. It panics with *Error on an unknown
// name or filter, per spec §4.3 ("unknown names or filters cause an
// error"); callers that need this as a returned error (internal/synth)
// recover it at their boundary.
func Format(vars map[string]interface{}, parts ...string) string {
	rendered := make([]string, len(parts))
	for i, part := range parts {
		rendered[i] = formatPart(part, vars)
	}
	return strings.Join(rendered, "\n")
}

func formatPart(part string, vars map[string]interface{}) string {
	substituted := interpolation.ReplaceAllStringFunc(part, func(m string) string {
		groups := interpolation.FindStringSubmatch(m)
		name, filter := groups[1], groups[2]
		val, ok := vars[name]
		if !ok {
			panic(&Error{Message: "unknown template variable " + strconv.Quote(name)})
		}
		return applyFilter(name, filter, val)
	})
	return preserveIndent(substituted)
}

func applyFilter(name, filter string, val interface{}) string {
	s, isString := val.(string)
	switch filter {
	case "":
		if !isString {
			s = toText(val)
		}
		return s
	case "string":
		if !isString {
			s = toText(val)
		}
		return QuoteString(s)
	default:
		panic(&Error{Message: "unknown template filter " + strconv.Quote(filter) + " applied to " + strconv.Quote(name)})
	}
}

func toText(val interface{}) string {
	switch v := val.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case rune:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		panic(&Error{Message: "template value has no default text form"})
	}
}

// preserveIndent re-indents every line of s after the first to match
// the leading whitespace of the first line, per spec §4.3: "for every
// multi-line part whose first line begins with whitespace W, all
// subsequent lines of that part are prefixed with W". Lines that are
// already indented keep their own indentation appended after W.
func preserveIndent(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	indent := leadingWhitespace(lines[0])
	if indent == "" {
		return s
	}
	for i := 1; i < len(lines); i++ {
		if lines[i] == "" {
			continue
		}
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}

func leadingWhitespace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}

// Recover turns a panic raised by Format (an *Error) into a returned
// error, leaving any other panic to propagate. Call via:
//
//	defer func() { err = Recover(recover()) }()
func Recover(r interface{}) error {
	if r == nil {
		return nil
	}
	if e, ok := r.(*Error); ok {
		return e
	}
	panic(r)
}
