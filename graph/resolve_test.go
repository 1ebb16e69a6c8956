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

package graph

import (
	"errors"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/require"

	"github.com/psychoinformatics-de/shacl-tulip/voc/rdf"
)

var (
	first = quad.IRI(rdf.First)
	rest  = quad.IRI(rdf.Rest)
	nilT  = quad.IRI(rdf.Nil)
)

func cell(id string, value quad.Value, next quad.Value) []quad.Quad {
	return []quad.Quad{
		{Subject: quad.BNode(id), Predicate: first, Object: value},
		{Subject: quad.BNode(id), Predicate: rest, Object: next},
	}
}

func TestListToSlice(t *testing.T) {
	g := New()
	var quads []quad.Quad
	quads = append(quads, cell("l1", quad.String("Item 1"), quad.BNode("l2"))...)
	quads = append(quads, cell("l2", quad.String("Item 2"), quad.BNode("l3"))...)
	quads = append(quads, cell("l3", iri("Item3"), nilT)...)
	_, err := g.WriteQuads(quads)
	require.NoError(t, err)

	require.True(t, g.IsList(quad.BNode("l1")))
	require.False(t, g.IsList(iri("alice")))

	items, err := g.ListToSlice(quad.BNode("l1"))
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "Item 1", items[0].Raw())
	require.Equal(t, "Item 2", items[1].Raw())
	require.Equal(t, iri("Item3"), items[2].Term)

	items, err = g.ListToSlice(nilT)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestResolveNode(t *testing.T) {
	g := New()
	quads := []quad.Quad{
		{Subject: iri("shape"), Predicate: iri("property"), Object: quad.BNode("p")},
		{Subject: quad.BNode("p"), Predicate: iri("path"), Object: iri("name")},
		{Subject: quad.BNode("p"), Predicate: iri("or"), Object: quad.BNode("o1")},
		{Subject: quad.BNode("p"), Predicate: iri("nested"), Object: quad.BNode("n")},
		{Subject: quad.BNode("n"), Predicate: iri("label"), Object: quad.String("inner")},
	}
	quads = append(quads, cell("o1", quad.BNode("b1"), quad.BNode("o2"))...)
	quads = append(quads, cell("o2", quad.BNode("b2"), nilT)...)
	quads = append(quads,
		quad.Quad{Subject: quad.BNode("b1"), Predicate: iri("class"), Object: iri("A")},
		quad.Quad{Subject: quad.BNode("b2"), Predicate: iri("class"), Object: iri("B")},
	)
	_, err := g.WriteQuads(quads)
	require.NoError(t, err)

	attrs, err := g.ResolveNode(quad.BNode("p"))
	require.NoError(t, err)
	require.Equal(t, ex+"name", attrs.Raw(ex+"path"))
	require.Equal(t, iri("name"), attrs.Term(ex+"path"))

	or, ok := attrs.Get(ex + "or")
	require.True(t, ok)
	require.True(t, or.IsList())
	require.Len(t, or.List, 2)
	require.Equal(t, ex+"A", or.List[0].Attrs.Raw(ex+"class"))
	require.Equal(t, ex+"B", or.List[1].Attrs.Raw(ex+"class"))

	nested := attrs[ex+"nested"]
	require.False(t, nested.IsScalar())
	require.Equal(t, "inner", nested.Attrs.Raw(ex+"label"))
	require.Nil(t, attrs.Term(ex+"nested"))
}

func TestResolveSharedNodeIsNotACycle(t *testing.T) {
	g := New()
	_, err := g.WriteQuads([]quad.Quad{
		{Subject: quad.BNode("a"), Predicate: iri("x"), Object: quad.BNode("shared")},
		{Subject: quad.BNode("a"), Predicate: iri("y"), Object: quad.BNode("shared")},
		{Subject: quad.BNode("shared"), Predicate: iri("v"), Object: quad.String("1")},
	})
	require.NoError(t, err)
	attrs, err := g.ResolveNode(quad.BNode("a"))
	require.NoError(t, err)
	require.Equal(t, "1", attrs[ex+"x"].Attrs.Raw(ex+"v"))
	require.Equal(t, "1", attrs[ex+"y"].Attrs.Raw(ex+"v"))
}

func TestResolveCycle(t *testing.T) {
	g := New()
	_, err := g.WriteQuads([]quad.Quad{
		{Subject: quad.BNode("a"), Predicate: iri("next"), Object: quad.BNode("b")},
		{Subject: quad.BNode("b"), Predicate: iri("next"), Object: quad.BNode("a")},
	})
	require.NoError(t, err)

	_, err = g.ResolveNode(quad.BNode("a"))
	require.True(t, errors.Is(err, ErrCyclicNode))
	var ce *CycleError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, quad.BNode("a"), ce.Node)
}

func TestResolveListCycle(t *testing.T) {
	g := New()
	var quads []quad.Quad
	quads = append(quads, cell("l1", quad.String("x"), quad.BNode("l2"))...)
	quads = append(quads, cell("l2", quad.String("y"), quad.BNode("l1"))...)
	_, err := g.WriteQuads(quads)
	require.NoError(t, err)

	_, err = g.ListToSlice(quad.BNode("l1"))
	require.ErrorIs(t, err, ErrCyclicNode)
}

func TestResolveDepthLimit(t *testing.T) {
	g := New()
	for i := 0; i < 5; i++ {
		require.NoError(t, g.AddQuad(quad.Quad{
			Subject:   quad.BNode(string(rune('a' + i))),
			Predicate: iri("child"),
			Object:    quad.BNode(string(rune('a' + i + 1))),
		}))
	}
	_, err := g.NewResolver(3).ResolveNode(quad.BNode("a"))
	require.ErrorIs(t, err, ErrCyclicNode)

	attrs, err := g.NewResolver(10).ResolveNode(quad.BNode("a"))
	require.NoError(t, err)
	require.NotNil(t, attrs[ex+"child"].Attrs)
}
