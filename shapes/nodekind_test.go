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

package shapes

import (
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/require"

	"github.com/psychoinformatics-de/shacl-tulip/voc/xsd"
)

func TestPropertyNodeKind(t *testing.T) {
	idx, _ := personIndex(t)

	cases := []struct {
		name     string
		shape    string
		property string
		expect   NodeKind
	}{
		{"literal", personIRI, social + "honorific_name_prefix", NodeKind{Kind: Literal}},
		{"literal with datatype", personIRI, social + "given_name", NodeKind{Kind: Literal, Datatype: xsd.String}},
		{"iri", personIRI, idIRI, NodeKind{Kind: IRI}},
		{"class without id", personIRI, things + "attributes", NodeKind{Kind: BlankNode}},
		{"class curie with id", personIRI, social + "identifiers", NodeKind{Kind: IRI}},
		{"enumeration", personIRI, social + "status", NodeKind{Kind: Literal}},
		{"or of classes", personIRI, social + "affiliation", NodeKind{Kind: IRI}},
		{"named constraint", personIRI, social + "email", NodeKind{Kind: Literal}},
		{"no node kind", personIRI, social + "nickname", NodeKind{Kind: Literal, Fallback: true}},
		{"no constraint", personIRI, social + "unknown", NodeKind{Kind: Literal, Fallback: true}},
		{"no shape", things + "Missing", idIRI, NodeKind{Kind: Literal, Fallback: true}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := idx.PropertyNodeKind(c.shape, c.property, idIRI)
			require.Equal(t, c.expect, got)
			// the decision depends on the index only
			require.Equal(t, got, idx.PropertyNodeKind(c.shape, c.property, idIRI))
		})
	}
}

func TestNodeKindMake(t *testing.T) {
	require.Equal(t, quad.String("x"), NodeKind{Kind: Literal}.Make("x"))
	require.Equal(t, quad.String("x"), NodeKind{Kind: Literal, Datatype: xsd.String}.Make("x"))
	require.Equal(t, quad.TypedString{Value: "2024-01-01", Type: xsd.Date}, NodeKind{Kind: Literal, Datatype: xsd.Date}.Make("2024-01-01"))
	require.Equal(t, quad.IRI("http://ex/a"), NodeKind{Kind: IRI}.Make("http://ex/a"))
	require.Equal(t, quad.BNode("k1"), NodeKind{Kind: BlankNode}.Make("k1"))
	require.Equal(t, "blank", BlankNode.String())
}

func TestPropertyNodeKindEmptyOr(t *testing.T) {
	const doc = `<https://example.org/Thing> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/ns/shacl#NodeShape> .
<https://example.org/Thing> <http://www.w3.org/ns/shacl#property> _:p1 .
_:p1 <http://www.w3.org/ns/shacl#path> <https://example.org/part> .
_:p1 <http://www.w3.org/ns/shacl#or> <http://www.w3.org/1999/02/22-rdf-syntax-ns#nil> .
`
	idx, _, err := loadIndex(t, doc)
	require.NoError(t, err)
	// rdf:nil is a plain value, not a list of class branches
	require.Equal(t, NodeKind{Kind: Literal, Fallback: true},
		idx.PropertyNodeKind("https://example.org/Thing", "https://example.org/part", idIRI))
}
