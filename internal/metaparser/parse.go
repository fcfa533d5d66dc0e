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
	"github.com/salikh/pegc/internal/ast"
)

// Parse turns PEG grammar source text into an abstract grammar tree,
// or a *pegcrt.Error describing the furthest-right parse failure.
//
// It runs the recursive-descent grammar parser to a concrete syntax
// tree, requires the parse to consume the entire input, then folds the
// tree into the typed *ast.Grammar via internal/cst.Construct (see
// fold.go), mirroring the two steps generator/peg.go performs in one.
func Parse(source string) (*ast.Grammar, error) {
	p := newParser(source)
	root, ok := p.parseGrammar()
	if !ok || !p.atEnd() {
		return nil, p.s.BuildError()
	}
	g, err := fold(root)
	if err != nil {
		return nil, err
	}
	g.Source = source
	return g, nil
}
