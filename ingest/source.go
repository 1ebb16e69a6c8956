// Copyright 2024 The Tulip Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingest

import (
	"io"
	"sort"

	"github.com/cayleygraph/quad"
)

// TokenKind discriminates the tokens produced by a Source.
type TokenKind int

const (
	// TokenQuad carries a parsed statement.
	TokenQuad TokenKind = iota
	// TokenPrefix carries a prefix declaration.
	TokenPrefix
	// TokenPrefixEnd marks that no more prefix declarations follow.
	TokenPrefixEnd
)

func (k TokenKind) String() string {
	switch k {
	case TokenQuad:
		return "quad"
	case TokenPrefix:
		return "prefix"
	case TokenPrefixEnd:
		return "prefix-end"
	default:
		return "invalid"
	}
}

// Token is a single item of a parsed RDF document.
type Token struct {
	Kind      TokenKind
	Quad      quad.Quad
	Prefix    string
	Namespace string
}

// Source is a stream of tokens of an RDF document. Next returns io.EOF
// after the last token.
type Source interface {
	Next() (Token, error)
	Close() error
}

// QuadSource adapts a quad.Reader, such as the N-Quads or JSON-LD codecs,
// into a Source. Known prefixes are emitted before any statement.
type QuadSource struct {
	r       quad.Reader
	pending []Token
}

// NewQuadSource creates a source reading statements from r. The prefixes map
// is reported as the document's prefix declarations.
func NewQuadSource(r quad.Reader, prefixes map[string]string) *QuadSource {
	return &QuadSource{r: r, pending: prefixTokens(prefixes)}
}

func prefixTokens(prefixes map[string]string) []Token {
	names := make([]string, 0, len(prefixes))
	for pref := range prefixes {
		names = append(names, pref)
	}
	sort.Strings(names)
	toks := make([]Token, 0, len(names)+1)
	for _, pref := range names {
		toks = append(toks, Token{Kind: TokenPrefix, Prefix: pref, Namespace: prefixes[pref]})
	}
	return append(toks, Token{Kind: TokenPrefixEnd})
}

// Next implements Source.
func (s *QuadSource) Next() (Token, error) {
	if len(s.pending) > 0 {
		t := s.pending[0]
		s.pending = s.pending[1:]
		return t, nil
	}
	q, err := s.r.ReadQuad()
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: TokenQuad, Quad: q}, nil
}

// Close closes the underlying reader if it is closable.
func (s *QuadSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
