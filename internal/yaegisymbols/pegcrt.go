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

// Package yaegisymbols hand-binds pegcrt's exported surface for use
// with yaegi's interp.Interpreter.Use, in the same map[string]map[string]reflect.Value
// shape the yaegi-extract code generator produces for third-party
// packages (see https://github.com/traefik/yaegi, cmd/extract). Every
// generated parser's source imports pegcrt; evaluating that source
// in-process (pegc.Compile) requires yaegi to resolve that import
// against the *real*, statically-compiled pegcrt package rather than
// re-interpreting its source, so that pegcrt.State's packrat cache and
// failure-tracking behave identically whether the caller links pegcrt
// directly (a parser built with `go build`) or reaches it through
// Compile's embedded interpreter.
//
// pegcrt's surface is small and stable enough to bind by hand; a
// larger or faster-moving dependency would warrant running yaegi's own
// extract tool instead.
package yaegisymbols

import (
	"reflect"

	"github.com/salikh/pegc/pegcrt"
)

// Symbols is passed to interp.Interpreter.Use alongside stdlib.Symbols.
var Symbols = map[string]map[string]reflect.Value{}

func init() {
	Symbols["github.com/salikh/pegc/pegcrt"] = map[string]reflect.Value{
		"Fail":        reflect.ValueOf(pegcrt.Fail),
		"IsFail":      reflect.ValueOf(pegcrt.IsFail),
		"NewState":    reflect.ValueOf(pegcrt.NewState),
		"NewLRUState": reflect.ValueOf(pegcrt.NewLRUState),
		"Truthy":      reflect.ValueOf(pegcrt.Truthy),
		"LineColumn":  reflect.ValueOf(pegcrt.LineColumn),

		"CacheKey":   reflect.ValueOf((*pegcrt.CacheKey)(nil)),
		"CacheEntry": reflect.ValueOf((*pegcrt.CacheEntry)(nil)),
		"Range":      reflect.ValueOf((*pegcrt.Range)(nil)),
		"State":      reflect.ValueOf((*pegcrt.State)(nil)),
		"Error":      reflect.ValueOf((*pegcrt.Error)(nil)),
	}
}
