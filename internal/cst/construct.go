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

package cst

import (
	"fmt"
	"reflect"
	"strings"
)

// Accessor is handed to a Construct callback so it can pull the already
// converted values of a node's children by their label.
type Accessor interface {
	// Node returns the concrete syntax tree node currently being converted.
	Node() *Node
	// String returns the text of a leaf child, recording an error and
	// returning "" if it is missing or not a string.
	String(label string) string
	// Get returns the converted value of a child. If the child is missing
	// it returns the zero value ty without recording an error; if it is of
	// the wrong shape it records an error and returns ty.
	// When ty is a slice type, zero, one or many same-labeled children are
	// all accepted and coerced to that slice.
	Get(label string, ty interface{}) interface{}
	// Child returns the label of the ith immediate child in the concrete
	// syntax tree (not the already-converted semantic children).
	Child(i int) string
	// Has reports whether a converted child with this label exists,
	// without recording an error and without marking it consulted.
	Has(label string) bool
	// Raw returns the converted value of a child verbatim (nil if
	// absent), with no type coercion. Useful for interface-typed
	// values, where Get's reflect-based defaulting does not apply.
	Raw(label string) interface{}
}

// Options configures Construct's error checking.
type Options struct {
	// ErrorOnUnusedChild makes Construct fail a node's conversion if it
	// has a converted child whose label was never consulted through the
	// Accessor, which catches grammar/callback drift early.
	ErrorOnUnusedChild bool
}

type accessor struct {
	node     *Node
	children map[string]interface{}
	accessed map[string]bool
	errs     []error
	options  *Options
}

func (a *accessor) Node() *Node { return a.node }

func (a *accessor) String(label string) string {
	a.accessed[label] = true
	val, ok := a.children[label]
	if !ok {
		a.errs = append(a.errs, fmt.Errorf("in %s: expected %s as string, got none", a.node.Label, label))
		return ""
	}
	s, ok := val.(string)
	if !ok {
		a.errs = append(a.errs, fmt.Errorf("in %s: expected %s as string, got %s", a.node.Label, label, reflect.TypeOf(val)))
		return ""
	}
	return s
}

func (a *accessor) Get(label string, ty interface{}) interface{} {
	a.accessed[label] = true
	val, ok := a.children[label]
	if !ok {
		if ty != nil && reflect.TypeOf(ty).Kind() == reflect.Slice {
			return ty
		}
		return ty
	}
	if ty == nil || reflect.TypeOf(val) == reflect.TypeOf(ty) {
		return val
	}
	wantSlice := reflect.TypeOf(ty).Kind() == reflect.Slice
	if wantSlice && reflect.TypeOf(val).Kind() == reflect.Slice {
		s := reflect.MakeSlice(reflect.TypeOf(ty), 0, reflect.ValueOf(val).Len())
		for i := 0; i < reflect.ValueOf(val).Len(); i++ {
			s = reflect.Append(s, reflect.ValueOf(val).Index(i))
		}
		return s.Interface()
	}
	if wantSlice {
		s := reflect.MakeSlice(reflect.TypeOf(ty), 0, 1)
		s = reflect.Append(s, reflect.ValueOf(val))
		return s.Interface()
	}
	a.errs = append(a.errs, fmt.Errorf("in %s: expected %s as %s, got %s", a.node.Label, label, reflect.TypeOf(ty), reflect.TypeOf(val)))
	return ty
}

func (a *accessor) Has(label string) bool {
	_, ok := a.children[label]
	return ok
}

func (a *accessor) Raw(label string) interface{} {
	a.accessed[label] = true
	return a.children[label]
}

func (a *accessor) Child(i int) string {
	if i < 0 || i >= len(a.node.Children) {
		a.errs = append(a.errs, fmt.Errorf("in %s: child index %d out of bounds (%d children)", a.node.Label, i, len(a.node.Children)))
		return ""
	}
	return a.node.Children[i].Label
}

func (a *accessor) check() error {
	if a.options != nil && a.options.ErrorOnUnusedChild {
		for k := range a.children {
			if !a.accessed[k] {
				a.errs = append(a.errs, fmt.Errorf("in %s: child %s was never consulted", a.node.Label, k))
			}
		}
	}
	if len(a.errs) == 0 {
		return nil
	}
	var msgs []string
	for _, e := range a.errs {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// Construct performs a bottom-up fold of a concrete syntax tree into a
// semantic value: it recursively converts every child, groups converted
// children by their node label (promoting repeated labels to a slice),
// and calls callback(n.Label, accessor-over-those-children) to produce
// this node's value. A callback returning (nil, nil) drops the node
// from its parent's view entirely (used for punctuation/whitespace
// productions).
func Construct(n *Node, callback func(label string, a Accessor) (interface{}, error), options *Options) (interface{}, error) {
	a := &accessor{
		node:     n,
		children: make(map[string]interface{}),
		accessed: make(map[string]bool),
		options:  options,
	}
	for _, ch := range n.Children {
		val, err := Construct(ch, callback, options)
		if err != nil {
			return nil, err
		}
		if val == nil {
			continue
		}
		have, ok := a.children[ch.Label]
		if !ok {
			a.children[ch.Label] = val
			continue
		}
		haveTy, valTy := reflect.TypeOf(have), reflect.TypeOf(val)
		switch {
		case haveTy == valTy:
			s := reflect.MakeSlice(reflect.SliceOf(valTy), 0, 2)
			s = reflect.Append(s, reflect.ValueOf(have), reflect.ValueOf(val))
			a.children[ch.Label] = s.Interface()
		case haveTy == reflect.SliceOf(valTy):
			s := reflect.Append(reflect.ValueOf(have), reflect.ValueOf(val))
			a.children[ch.Label] = s.Interface()
		default:
			return nil, fmt.Errorf("in %s: incompatible repeated child %s: have %s, got %s", n.Label, ch.Label, haveTy, valTy)
		}
	}
	val, err := callback(n.Label, a)
	if err != nil {
		return nil, fmt.Errorf("constructing %s: %w", n.Label, err)
	}
	if err := a.check(); err != nil {
		return nil, fmt.Errorf("constructing %s: %w", n.Label, err)
	}
	return val, nil
}
