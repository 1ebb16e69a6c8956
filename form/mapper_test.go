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

package form

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/psychoinformatics-de/shacl-tulip/graph"
	"github.com/psychoinformatics-de/shacl-tulip/ingest"
	"github.com/psychoinformatics-de/shacl-tulip/shapes"
	"github.com/psychoinformatics-de/shacl-tulip/voc/rdf"
)

const (
	things      = "https://concepts.datalad.org/s/things/v1/"
	social      = "https://concepts.datalad.org/s/social/unreleased/"
	identifiers = "https://concepts.datalad.org/s/identifiers/unreleased/"

	person       = social + "Person"
	idProp       = things + "id"
	givenName    = social + "given_name"
	attributes   = things + "attributes"
	identifier   = social + "identifiers"
	status       = social + "status"
	knows        = "https://example.org/knows"
	alice        = "https://example.org/alice"
	aliceRenamed = "https://example.org/alice-smith"
)

func personShapes(t testing.TB) *shapes.Index {
	data, err := os.ReadFile("../shapes/testdata/person.nq")
	require.NoError(t, err)
	idx := shapes.New()
	l := ingest.NewLoader(nil, idx)
	src := ingest.NewQuadSource(nquads.NewReader(strings.NewReader(string(data)), true), map[string]string{
		"dlthings":      things,
		"dlsocial":      social,
		"dlidentifiers": identifiers,
	})
	require.NoError(t, l.Load(context.Background(), src))
	return idx
}

type kindMap map[string]shapes.NodeKind

func (m kindMap) PropertyNodeKind(_, prop, _ string) shapes.NodeKind {
	if k, ok := m[prop]; ok {
		return k
	}
	return shapes.NodeKind{Kind: shapes.Literal, Fallback: true}
}

func newMapper(t testing.TB, opts ...Option) *Mapper {
	m, err := New(idProp, opts...)
	require.NoError(t, err)
	return m
}

func values(t testing.TB, m *Mapper, class, key, pred string) []string {
	s, ok := m.Record().Subject(class, key)
	require.True(t, ok, "subject %s", key)
	vs, ok := s.Values(pred)
	require.True(t, ok, "predicate %s", pred)
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.String())
	}
	return out
}

func TestNewRequiresIDProperty(t *testing.T) {
	_, err := New("")
	require.ErrorIs(t, err, ErrNoIDProperty)
}

func TestSubjectLifecycle(t *testing.T) {
	m := newMapper(t)

	m.AddSubject(person, "k1")
	m.AddSubject(person, "k1")
	c, ok := m.Record().Class(person)
	require.True(t, ok)
	require.Equal(t, []string{"k1"}, c.Keys())

	require.NoError(t, m.AddPredicate(person, "k1", givenName))
	require.Equal(t, []string{"<unset>"}, values(t, m, person, "k1", givenName))
	require.NoError(t, m.AddPredicate(person, "k1", givenName))
	require.NoError(t, m.AddObject(person, "k1", givenName))
	require.Equal(t, []string{"<unset>", "<unset>", "<unset>"}, values(t, m, person, "k1", givenName))

	require.NoError(t, m.SetObject(person, "k1", givenName, 0, "Ada"))
	require.NoError(t, m.SetObject(person, "k1", givenName, 2, "Grace"))
	require.NoError(t, m.RemoveObject(person, "k1", givenName, 1))
	require.Equal(t, []string{"Ada", "Grace"}, values(t, m, person, "k1", givenName))

	require.NoError(t, m.AddPredicate(person, "k1", status))
	require.NoError(t, m.SetObject(person, "k1", status, 0, "active"))
	require.NoError(t, m.ClearSubject(person, "k1"))
	require.Equal(t, []string{"<unset>"}, values(t, m, person, "k1", givenName))
	require.Equal(t, []string{"<unset>"}, values(t, m, person, "k1", status))

	m.AddSubject(person, "k2")
	require.NoError(t, m.RemoveSubject(person, "k1"))
	require.Equal(t, []string{person}, m.Record().Classes())
	require.NoError(t, m.RemoveSubject(person, "k2"))
	require.Equal(t, 0, m.Record().Len())
}

func TestPreconditions(t *testing.T) {
	m := newMapper(t)
	m.AddSubject(person, "k1")

	var perr *PreconditionError
	err := m.RemoveSubject(social+"Group", "k1")
	require.ErrorIs(t, err, ErrClassNotFound)
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "remove subject", perr.Op)

	require.ErrorIs(t, m.ClearSubject(person, "nope"), ErrSubjectNotFound)
	require.ErrorIs(t, m.AddPredicate(person, "nope", givenName), ErrSubjectNotFound)
	require.ErrorIs(t, m.AddObject(person, "k1", givenName), ErrPredicateNotFound)
	require.ErrorIs(t, m.RemoveObject(person, "k1", givenName, 0), ErrPredicateNotFound)

	require.NoError(t, m.AddPredicate(person, "k1", givenName))
	require.ErrorIs(t, m.RemoveObject(person, "k1", givenName, 1), ErrObjectIndex)
	require.ErrorIs(t, m.SetObject(person, "k1", givenName, -1, "x"), ErrObjectIndex)

	_, err = m.SaveNode(social+"Group", "k1", kindMap{}, graph.New(), false)
	require.ErrorIs(t, err, ErrClassNotFound)
}

func TestRecordToQuadsPerson(t *testing.T) {
	idx := personShapes(t)
	m := newMapper(t)
	m.AddSubject(person, "k1")
	require.NoError(t, m.AddPredicate(person, "k1", givenName))
	require.NoError(t, m.SetObject(person, "k1", givenName, 0, "Alice"))
	require.NoError(t, m.AddPredicate(person, "k1", attributes))
	require.NoError(t, m.SetObject(person, "k1", attributes, 0, "attr1"))
	require.NoError(t, m.AddPredicate(person, "k1", status))

	quads, err := m.RecordToQuads(person, "k1", idx)
	require.NoError(t, err)
	subject := quad.BNode("k1")
	require.Equal(t, []quad.Quad{
		{Subject: subject, Predicate: quad.IRI(rdf.Type), Object: quad.IRI(person)},
		{Subject: subject, Predicate: quad.IRI(givenName), Object: quad.String("Alice")},
		{Subject: subject, Predicate: quad.IRI(attributes), Object: quad.BNode("attr1")},
	}, quads)
}

func TestRecordToQuadsIdentifier(t *testing.T) {
	idx := personShapes(t)
	m := newMapper(t)
	m.AddSubject(person, "k1")
	require.NoError(t, m.AddPredicate(person, "k1", idProp))
	require.NoError(t, m.SetObject(person, "k1", idProp, 0, alice))
	require.NoError(t, m.AddPredicate(person, "k1", identifier))
	require.NoError(t, m.SetObject(person, "k1", identifier, 0, "https://doi.org/10.1000/1"))
	require.NoError(t, m.AddObject(person, "k1", identifier))
	require.NoError(t, m.AddPredicate(person, "k1", rdf.Type))
	require.NoError(t, m.SetObject(person, "k1", rdf.Type, 0, social+"Other"))

	quads, err := m.RecordToQuads(person, "k1", idx)
	require.NoError(t, err)
	require.Equal(t, []quad.Quad{
		{Subject: quad.IRI(alice), Predicate: quad.IRI(rdf.Type), Object: quad.IRI(person)},
		{Subject: quad.IRI(alice), Predicate: quad.IRI(identifier), Object: quad.IRI("https://doi.org/10.1000/1")},
	}, quads)
}

func TestRecordToQuadsIgnoredPredicates(t *testing.T) {
	m := newMapper(t, WithIgnoredPredicates(status))
	m.AddSubject(person, "k1")
	require.NoError(t, m.AddPredicate(person, "k1", status))
	require.NoError(t, m.SetObject(person, "k1", status, 0, "active"))
	require.NoError(t, m.AddPredicate(person, "k1", givenName))

	quads, err := m.RecordToQuads(person, "k1", kindMap{})
	require.NoError(t, err)
	require.Len(t, quads, 1)
	require.Equal(t, quad.IRI(rdf.Type), quads[0].Predicate)
}

func TestSaveAndReadBack(t *testing.T) {
	idx := personShapes(t)
	m := newMapper(t)
	m.AddSubject(person, "k1")
	require.NoError(t, m.AddPredicate(person, "k1", idProp))
	require.NoError(t, m.SetObject(person, "k1", idProp, 0, alice))
	require.NoError(t, m.AddPredicate(person, "k1", givenName))
	require.NoError(t, m.AddObject(person, "k1", givenName))
	require.NoError(t, m.SetObject(person, "k1", givenName, 0, "Alice"))
	require.NoError(t, m.SetObject(person, "k1", givenName, 1, "Ali"))

	g := graph.New()
	res, err := m.SaveNode(person, "k1", idx, g, false)
	require.NoError(t, err)
	require.Equal(t, SaveResult{Class: person, Subject: alice}, res)
	require.Equal(t, 3, g.Size())
	require.Equal(t, []string{alice}, keys(t, m, person))

	// Saving the same record again does not duplicate statements.
	_, err = m.SaveNode(person, alice, idx, g, false)
	require.NoError(t, err)
	require.Equal(t, 3, g.Size())

	back := newMapper(t)
	back.QuadsToRecord(person, quad.IRI(alice), g)
	require.Equal(t, []string{"Alice", "Ali"}, values(t, back, person, alice, givenName))
	require.Equal(t, []string{alice}, values(t, back, person, alice, idProp))
	require.Equal(t, []string{person}, values(t, back, person, alice, rdf.Type))

	s, _ := back.Record().Subject(person, alice)
	require.Equal(t, []string{rdf.Type, givenName, idProp}, s.Predicates())
}

func TestQuadsToRecordBlankSubject(t *testing.T) {
	g, err := graph.FromQuads(
		quad.Quad{Subject: quad.BNode("b1"), Predicate: quad.IRI(givenName), Object: quad.String("Bob")},
	)
	require.NoError(t, err)
	m := newMapper(t)
	m.QuadsToRecord(person, quad.BNode("b1"), g)
	s, ok := m.Record().Subject(person, "b1")
	require.True(t, ok)
	require.Equal(t, []string{givenName}, s.Predicates())
}

func TestSaveNodeBlankSubject(t *testing.T) {
	m := newMapper(t)
	key := NewAnonymousKey()
	require.NotEqual(t, key, NewAnonymousKey())
	m.AddSubject(person, key)
	require.NoError(t, m.AddPredicate(person, key, givenName))
	require.NoError(t, m.SetObject(person, key, givenName, 0, "Bob"))

	g := graph.New()
	res, err := m.SaveNode(person, key, kindMap{}, g, false)
	require.NoError(t, err)
	require.Equal(t, key, res.Subject)
	require.True(t, g.HasQuad(quad.Quad{Subject: quad.BNode(key), Predicate: quad.IRI(givenName), Object: quad.String("Bob")}))

	require.NoError(t, m.SetObject(person, key, givenName, 0, "Robert"))
	_, err = m.SaveNode(person, key, kindMap{}, g, true)
	require.NoError(t, err)
	require.Equal(t, 2, g.Size())
	require.Equal(t, []quad.Value{quad.String("Robert")}, g.Objects(quad.BNode(key), quad.IRI(givenName)))
}

func TestSaveNodeRenamesReferences(t *testing.T) {
	idx := personShapes(t)
	ref := quad.Quad{Subject: quad.IRI("https://example.org/bob"), Predicate: quad.IRI(knows), Object: quad.IRI(alice)}
	g, err := graph.FromQuads(
		quad.Quad{Subject: quad.IRI(alice), Predicate: quad.IRI(rdf.Type), Object: quad.IRI(person)},
		quad.Quad{Subject: quad.IRI(alice), Predicate: quad.IRI(givenName), Object: quad.String("Alice")},
		ref,
	)
	require.NoError(t, err)

	m := newMapper(t)
	m.QuadsToRecord(person, quad.IRI(alice), g)
	require.NoError(t, m.SetObject(person, alice, idProp, 0, aliceRenamed))

	res, err := m.SaveNode(person, alice, idx, g, true)
	require.NoError(t, err)
	require.Equal(t, SaveResult{Class: person, Subject: aliceRenamed, Rewritten: 1}, res)

	require.Empty(t, g.SubjectQuads(quad.IRI(alice)))
	require.Empty(t, g.ObjectQuads(quad.IRI(alice)))
	require.True(t, g.HasQuad(quad.Quad{Subject: ref.Subject, Predicate: ref.Predicate, Object: quad.IRI(aliceRenamed)}))
	require.True(t, g.HasQuad(quad.Quad{Subject: quad.IRI(aliceRenamed), Predicate: quad.IRI(givenName), Object: quad.String("Alice")}))
	require.Equal(t, 3, g.Size())

	require.Equal(t, []string{aliceRenamed}, keys(t, m, person))
	require.Equal(t, []string{aliceRenamed}, values(t, m, person, aliceRenamed, idProp))
}

func TestSaveNodeNamesBlankSubject(t *testing.T) {
	const named = "https://example.org/attr1"
	parent := quad.Quad{Subject: quad.IRI(alice), Predicate: quad.IRI(attributes), Object: quad.BNode("k1")}
	g, err := graph.FromQuads(
		parent,
		quad.Quad{Subject: quad.BNode("k1"), Predicate: quad.IRI(givenName), Object: quad.String("x")},
	)
	require.NoError(t, err)

	m := newMapper(t)
	m.QuadsToRecord(person, quad.BNode("k1"), g)
	require.NoError(t, m.AddPredicate(person, "k1", idProp))
	require.NoError(t, m.SetObject(person, "k1", idProp, 0, named))

	res, err := m.SaveNode(person, "k1", kindMap{}, g, true)
	require.NoError(t, err)
	require.Equal(t, SaveResult{Class: person, Subject: named, Rewritten: 1}, res)

	require.Empty(t, g.SubjectQuads(quad.BNode("k1")))
	require.Empty(t, g.ObjectQuads(quad.BNode("k1")))
	require.Equal(t, []quad.Value{quad.IRI(named)}, g.Objects(quad.IRI(alice), quad.IRI(attributes)))
	require.Equal(t, []quad.Value{quad.String("x")}, g.Objects(quad.IRI(named), quad.IRI(givenName)))
	require.Equal(t, []string{named}, keys(t, m, person))
}

func TestSaveNodeFailureLeavesGraph(t *testing.T) {
	g, err := graph.FromQuads(
		quad.Quad{Subject: quad.IRI(alice), Predicate: quad.IRI(givenName), Object: quad.String("Alice")},
		quad.Quad{Subject: quad.IRI("https://example.org/bob"), Predicate: quad.IRI(knows), Object: quad.IRI(alice)},
	)
	require.NoError(t, err)
	m := newMapper(t)
	m.QuadsToRecord(person, quad.IRI(alice), g)
	require.NoError(t, m.SetObject(person, alice, idProp, 0, ""))

	_, err = m.SaveNode(person, alice, kindMap{}, g, true)
	require.Error(t, err)
	require.True(t, graph.IsInvalidQuad(err))
	require.Equal(t, 2, g.Size())
	require.Len(t, g.SubjectQuads(quad.IRI(alice)), 1)
	require.Equal(t, []string{alice}, keys(t, m, person))
}

func TestRecordYAML(t *testing.T) {
	m := newMapper(t)
	m.AddSubject(person, "k2")
	m.AddSubject(person, "k1")
	require.NoError(t, m.AddPredicate(person, "k2", givenName))
	require.NoError(t, m.AddObject(person, "k2", givenName))
	require.NoError(t, m.SetObject(person, "k2", givenName, 0, "true"))

	data, err := yaml.Marshal(m.Record())
	require.NoError(t, err)
	out := string(data)
	require.Less(t, strings.Index(out, "k2"), strings.Index(out, "k1"))

	var back map[string]map[string]map[string][]interface{}
	require.NoError(t, yaml.Unmarshal(data, &back))
	require.Equal(t, []interface{}{"true", nil}, back[person]["k2"][givenName])
	require.Empty(t, back[person]["k1"])
}

func keys(t testing.TB, m *Mapper, class string) []string {
	c, ok := m.Record().Class(class)
	require.True(t, ok)
	return c.Keys()
}
