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

package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInterpolation(t *testing.T) {
	got := Format(map[string]interface{}{"name": "pos", "n": 3}, "${name} += ${n}")
	assert.Equal(t, "pos += 3", got)
}

func TestFormatStringFilter(t *testing.T) {
	got := Format(map[string]interface{}{"lit": "a\nb"}, `if next != ${lit|string} {`)
	assert.Equal(t, `if next != "a\nb" {`, got)
}

func TestFormatJoinsPartsWithNewline(t *testing.T) {
	got := Format(nil, "a", "b", "c")
	assert.Equal(t, "a\nb\nc", got)
}

func TestFormatPreservesIndent(t *testing.T) {
	got := Format(map[string]interface{}{"body": "line1\nline2"}, "    ${body}")
	assert.Equal(t, "    line1\n    line2", got)
}

func TestFormatNoIndentWhenFirstLineFlush(t *testing.T) {
	got := Format(map[string]interface{}{"body": "line1\nline2"}, "${body}")
	assert.Equal(t, "line1\nline2", got)
}

func TestFormatUnknownNamePanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*Error)
		require.True(t, ok)
		assert.Contains(t, err.Error(), "missing")
	}()
	Format(nil, "${missing}")
}

func TestFormatUnknownFilterPanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*Error)
		require.True(t, ok)
		assert.Contains(t, err.Error(), "upper")
	}()
	Format(map[string]interface{}{"x": "y"}, "${x|upper}")
}

func TestRecoverPassesThroughOtherPanics(t *testing.T) {
	defer func() {
		r := recover()
		assert.Equal(t, "boom", r)
	}()
	func() {
		defer func() { _ = Recover(recover()) }()
		panic("boom")
	}()
}

func TestNameGenFreshNamePerPrefix(t *testing.T) {
	g := NewNameGen()
	assert.Equal(t, "v0", g.FreshName("v"))
	assert.Equal(t, "v1", g.FreshName("v"))
	assert.Equal(t, "r0", g.FreshName("r"))
	assert.Equal(t, "v2", g.FreshName("v"))
}

func TestNameGenReset(t *testing.T) {
	g := NewNameGen()
	g.FreshName("v")
	g.FreshName("v")
	g.Reset()
	assert.Equal(t, "v0", g.FreshName("v"))
}

func TestQuoteClassChar(t *testing.T) {
	tests := []struct {
		r    rune
		want string
	}{
		{'/', `\/`},
		{']', `\]`},
		{'-', `\-`},
		{'a', "a"},
		{'\n', `\n`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuoteClassChar(tt.r))
	}
}
