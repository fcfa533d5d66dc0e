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
	"fmt"

	"github.com/salikh/pegc/internal/ast"
)

// classToken scans a `[^? (range|char)* ]` token and returns its raw
// text, including the brackets. Parsing its contents into ranges is
// deferred to parseClassBody (called from fold.go), mirroring the
// teacher's parser/charclass package, which likewise parses the class
// body text independently of the surrounding grammar parse.
func (p *parser) classToken() (string, bool) {
	p.skipSpace()
	start := p.pos()
	r, ok := p.peek()
	if !ok || r != '[' {
		p.s.RecordFailure("character class")
		return "", false
	}
	p.advance()
	for {
		r, ok := p.peek()
		if !ok {
			p.restore(start)
			p.s.RecordFailure("closing ']'")
			return "", false
		}
		if r == '\\' {
			p.advance()
			if _, ok := p.peek(); ok {
				p.advance()
			}
			continue
		}
		if r == ']' {
			p.advance()
			break
		}
		p.advance()
	}
	return string(p.s.Input[start:p.pos()]), true
}

// parseClassBody parses the raw `[...]` text (brackets included) into
// an *ast.Class, applying the character-class escape rules of spec §6
// (which additionally escape '/', ']', '-' and NUL over the plain
// string-literal rules).
func parseClassBody(raw string) (*ast.Class, error) {
	runes := []rune(raw)
	if len(runes) < 2 || runes[0] != '[' || runes[len(runes)-1] != ']' {
		return nil, fmt.Errorf("malformed character class %q", raw)
	}
	body := runes[1 : len(runes)-1]
	i := 0
	negated := false
	if i < len(body) && body[i] == '^' {
		negated = true
		i++
	}
	cls := &ast.Class{Negated: negated, RawText: raw}
	readOne := func() (rune, error) {
		r := body[i]
		if r != '\\' {
			i++
			return r, nil
		}
		i++
		if i >= len(body) {
			return 0, fmt.Errorf("dangling escape in character class %q", raw)
		}
		e := body[i]
		i++
		switch e {
		case '\\':
			return '\\', nil
		case '/':
			return '/', nil
		case ']':
			return ']', nil
		case '-':
			return '-', nil
		case '"':
			return '"', nil
		case '\'':
			return '\'', nil
		case '0':
			return 0, nil
		case 'r':
			return '\r', nil
		case 'n':
			return '\n', nil
		case 't':
			return '\t', nil
		case 'b':
			return '\b', nil
		case 'f':
			return '\f', nil
		case 'v':
			return '\v', nil
		case 'x':
			return readHex(body, &i, 2)
		case 'u':
			return readHex(body, &i, 4)
		default:
			return e, nil
		}
	}
	for i < len(body) {
		lo, err := readOne()
		if err != nil {
			return nil, err
		}
		if i+1 < len(body) && body[i] == '-' && body[i+1] != ']' {
			i++
			hi, err := readOne()
			if err != nil {
				return nil, err
			}
			if lo > hi {
				return nil, fmt.Errorf("invalid character range [%q-%q] in class %q (low > high)", lo, hi, raw)
			}
			cls.Ranges = append(cls.Ranges, ast.Range{Low: lo, High: hi})
		} else {
			cls.Chars = append(cls.Chars, lo)
		}
	}
	return cls, nil
}

func readHex(body []rune, i *int, digits int) (rune, error) {
	if *i+digits > len(body) {
		return 0, fmt.Errorf("truncated hex escape")
	}
	var v rune
	for k := 0; k < digits; k++ {
		c := body[*i+k]
		var d rune
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, fmt.Errorf("invalid hex digit %q", c)
		}
		v = v*16 + d
	}
	*i += digits
	return v, nil
}
