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
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/knakk/rdf"

	rdfvoc "github.com/psychoinformatics-de/shacl-tulip/voc/rdf"
	"github.com/psychoinformatics-de/shacl-tulip/voc/xsd"
)

// the decoder resolves prefixed names on its own but does not expose the
// declarations, so they are read from the document separately
var prefixDecl = regexp.MustCompile(`(?mi)^\s*@?prefix\s+([A-Za-z][\w.-]*)?:\s*<([^>]*)>`)

// TurtleSource reads a Turtle document.
//
// The decoder rejects a predicate list ending in ';' inside a blank node, as
// in "[ sh:path ex:a ; ]", and the load fails. Write "[ sh:path ex:a ]"
// instead.
type TurtleSource struct {
	dec     rdf.TripleDecoder
	pending []Token
}

// NewTurtleSource reads the whole document from r and prepares decoding.
// Prefix declarations are emitted before the first statement.
func NewTurtleSource(r io.Reader) (*TurtleSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	prefixes := make(map[string]string)
	for _, m := range prefixDecl.FindAllSubmatch(data, -1) {
		prefixes[string(m[1])] = string(m[2])
	}
	return &TurtleSource{
		dec:     rdf.NewTripleDecoder(bytes.NewReader(data), rdf.Turtle),
		pending: prefixTokens(prefixes),
	}, nil
}

// Next implements Source.
func (s *TurtleSource) Next() (Token, error) {
	if len(s.pending) > 0 {
		t := s.pending[0]
		s.pending = s.pending[1:]
		return t, nil
	}
	tr, err := s.dec.Decode()
	if err == io.EOF {
		return Token{}, io.EOF
	} else if err != nil {
		return Token{}, fmt.Errorf("turtle: %w", err)
	}
	q := quad.Quad{
		Subject:   fromTerm(tr.Subj),
		Predicate: fromTerm(tr.Pred),
		Object:    fromTerm(tr.Obj),
	}
	return Token{Kind: TokenQuad, Quad: q}, nil
}

// Close implements Source.
func (s *TurtleSource) Close() error { return nil }

func fromTerm(t rdf.Term) quad.Value {
	switch t := t.(type) {
	case rdf.IRI:
		return quad.IRI(t.String())
	case rdf.Blank:
		return quad.BNode(strings.TrimPrefix(t.String(), "_:"))
	case rdf.Literal:
		if lang := t.Lang(); lang != "" {
			return quad.LangString{Value: quad.String(t.String()), Lang: lang}
		}
		switch dt := t.DataType.String(); dt {
		case "", xsd.String, rdfvoc.LangString:
			return quad.String(t.String())
		default:
			return quad.TypedString{Value: quad.String(t.String()), Type: quad.IRI(dt)}
		}
	}
	return nil
}
