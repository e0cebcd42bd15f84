// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package keyspec

import (
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokOp
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// isKeyword returns true if t is the identifier kw, in any case.
func (t token) isKeyword(kw string) bool {
	return t.kind == tokIdent && strings.EqualFold(t.text, kw)
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return "\"" + t.text + "\""
}

// tokenize splits s into tokens. Newlines and semicolons are returned as the
// identifier AND, so that predicates may be given one per line.
func tokenize(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		c := rune(s[i])
		switch {
		case c == '\n' || c == ';':
			toks = append(toks, token{kind: tokIdent, text: "AND", pos: i})
			i++

		case unicode.IsSpace(c):
			i++

		case c == '_' || unicode.IsLetter(c):
			start := i
			for i < len(s) && (s[i] == '_' || unicode.IsLetter(rune(s[i])) || unicode.IsDigit(rune(s[i]))) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: s[start:i], pos: start})

		case unicode.IsDigit(c) || (c == '-' && i+1 < len(s) && unicode.IsDigit(rune(s[i+1]))):
			start := i
			i++
			for i < len(s) && (unicode.IsDigit(rune(s[i])) || strings.ContainsRune(".eE", rune(s[i])) ||
				((s[i] == '-' || s[i] == '+') && (s[i-1] == 'e' || s[i-1] == 'E'))) {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: s[start:i], pos: start})

		case c == '\'':
			start := i
			i++
			for {
				if i >= len(s) {
					return nil, errors.Newf("unterminated string at position %d", start)
				}
				if s[i] == '\'' {
					if i+1 < len(s) && s[i+1] == '\'' {
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}
			toks = append(toks, token{kind: tokString, text: s[start:i], pos: start})

		case c == '<' || c == '>' || c == '=' || c == '!':
			start := i
			i++
			if i < len(s) && (s[i] == '=' || (c == '<' && s[i] == '>')) {
				i++
			}
			toks = append(toks, token{kind: tokOp, text: s[start:i], pos: start})

		case c == ':' && i+1 < len(s) && s[i+1] == ':':
			toks = append(toks, token{kind: tokPunct, text: "::", pos: i})
			i += 2

		case c == '(' || c == ')' || c == ',':
			toks = append(toks, token{kind: tokPunct, text: string(c), pos: i})
			i++

		default:
			return nil, errors.Newf("unexpected character %q at position %d", c, i)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(s)}), nil
}
