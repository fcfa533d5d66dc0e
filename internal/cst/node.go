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

// Package cst holds the concrete syntax tree produced by the
// meta-grammar parser, and the generic Construct/Accessor machinery
// used to fold a concrete syntax tree into a typed semantic tree.
package cst

import (
	"fmt"
	"strings"
)

// Node is one node of the concrete syntax tree produced while parsing
// the PEG meta-grammar. Label identifies which production matched;
// Text holds the raw matched text for leaf-ish productions (literals,
// identifiers, action bodies); Children holds sub-productions in match
// order. Line/Col locate the start of the match for Class nodes only;
// the meta-grammar parser leaves Pos, and Line/Col of every other node,
// at zero.
type Node struct {
	Label    string
	Text     string
	Children []*Node
	Pos      int
	Line     int
	Col      int
}

func (n *Node) String() string {
	if n == nil {
		return "(nil)"
	}
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(n.Label)
	if n.Text != "" {
		fmt.Fprintf(&b, " %q", n.Text)
	}
	for _, ch := range n.Children {
		b.WriteString(" ")
		b.WriteString(ch.String())
	}
	b.WriteString(")")
	return b.String()
}
