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

// Package graph implements an in-memory, indexed RDF statement set.
package graph

import (
	"github.com/cayleygraph/quad"

	"github.com/psychoinformatics-de/shacl-tulip/voc"
	"github.com/psychoinformatics-de/shacl-tulip/voc/xsd"
)

type quadIDs map[int64]struct{}

type directionIndex struct {
	index [4]map[int64]quadIDs
}

func newDirectionIndex() directionIndex {
	return directionIndex{[...]map[int64]quadIDs{
		quad.Subject - 1:   make(map[int64]quadIDs),
		quad.Predicate - 1: make(map[int64]quadIDs),
		quad.Object - 1:    make(map[int64]quadIDs),
		quad.Label - 1:     make(map[int64]quadIDs),
	}}
}

func (di directionIndex) get(d quad.Direction, id int64) quadIDs {
	return di.index[d-1][id]
}

func (di directionIndex) add(d quad.Direction, id, qid int64) {
	set, ok := di.index[d-1][id]
	if !ok {
		set = make(quadIDs)
		di.index[d-1][id] = set
	}
	set[qid] = struct{}{}
}

func (di directionIndex) remove(d quad.Direction, id, qid int64) {
	set, ok := di.index[d-1][id]
	if !ok {
		return
	}
	delete(set, qid)
	if len(set) == 0 {
		delete(di.index[d-1], id)
	}
}

type logEntry struct {
	Quad    quad.Quad
	Deleted bool
}

// Graph is a duplicate-free set of statements with per-position indexes.
//
// Statements are kept in an append-only log; removal leaves a tombstone,
// so iteration follows insertion order. Graph is not safe for concurrent
// mutation.
type Graph struct {
	nextID   int64
	idMap    map[string]int64
	quads    map[quad.Quad]int64
	log      []logEntry
	size     int
	index    directionIndex
	prefixes voc.Prefixes
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		idMap: make(map[string]int64),
		quads: make(map[quad.Quad]int64),
		// Sentinel null entry so indices start at 1
		log:    make([]logEntry, 1, 64),
		index:  newDirectionIndex(),
		nextID: 1,
	}
}

// FromQuads creates a graph holding the given statements.
func FromQuads(quads ...quad.Quad) (*Graph, error) {
	g := New()
	if _, err := g.WriteQuads(quads); err != nil {
		return nil, err
	}
	return g, nil
}

// Prefixes returns the prefix map recorded for the graph's source document.
func (g *Graph) Prefixes() *voc.Prefixes {
	return &g.prefixes
}

// Size returns the number of statements in the graph.
func (g *Graph) Size() int {
	return g.size
}

// HasQuad reports whether the graph contains q.
func (g *Graph) HasQuad(q quad.Quad) bool {
	_, ok := g.quads[q]
	return ok
}

// AddQuad adds a statement to the graph. Adding a statement that is already
// present is a no-op.
func (g *Graph) AddQuad(q quad.Quad) error {
	_, err := g.addQuad(q)
	return err
}

func (g *Graph) addQuad(q quad.Quad) (bool, error) {
	if err := ValidateQuad(q); err != nil {
		return false, &DeltaError{Delta: Delta{Quad: q, Action: Add}, Err: err}
	}
	if g.HasQuad(q) {
		return false, nil
	}
	qid := int64(len(g.log))
	g.log = append(g.log, logEntry{Quad: q})
	g.quads[q] = qid
	for dir := quad.Subject; dir <= quad.Label; dir++ {
		v := q.Get(dir)
		if v == nil {
			continue
		}
		g.index.add(dir, g.valueID(v), qid)
	}
	g.size++
	return true, nil
}

// Insert adds a statement and reports whether it was not present before.
func (g *Graph) Insert(q quad.Quad) (bool, error) {
	return g.addQuad(q)
}

func (g *Graph) valueID(v quad.Value) int64 {
	key := quad.StringOf(v)
	if id, ok := g.idMap[key]; ok {
		return id
	}
	id := g.nextID
	g.nextID++
	g.idMap[key] = id
	return id
}

// WriteQuad implements quad.Writer.
func (g *Graph) WriteQuad(q quad.Quad) error {
	return g.AddQuad(q)
}

// WriteQuads implements quad.Writer.
func (g *Graph) WriteQuads(buf []quad.Quad) (int, error) {
	for i, q := range buf {
		if err := g.AddQuad(q); err != nil {
			return i, err
		}
	}
	return len(buf), nil
}

// RemoveQuad removes a statement from the graph.
func (g *Graph) RemoveQuad(q quad.Quad) error {
	qid, ok := g.quads[q]
	if !ok {
		return &DeltaError{Delta: Delta{Quad: q, Action: Delete}, Err: ErrQuadNotExist}
	}
	g.log[qid].Deleted = true
	delete(g.quads, q)
	for dir := quad.Subject; dir <= quad.Label; dir++ {
		v := q.Get(dir)
		if v == nil {
			continue
		}
		if id, ok := g.idMap[quad.StringOf(v)]; ok {
			g.index.remove(dir, id, qid)
		}
	}
	g.size--
	return nil
}

// DeleteMatches removes every statement matching the pattern and returns
// how many were removed. See Match for the pattern semantics.
func (g *Graph) DeleteMatches(pattern quad.Quad) int {
	quads := g.Quads(pattern)
	for _, q := range quads {
		_ = g.RemoveQuad(q)
	}
	return len(quads)
}

// ApplyDeltas applies a batch of changes. Unless the ignore options tolerate
// them, duplicate additions and missing deletions are detected for the whole
// batch before anything is changed. Invalid statements are always rejected
// up front.
func (g *Graph) ApplyDeltas(deltas []Delta, ignoreOpts IgnoreOpts) error {
	for _, d := range deltas {
		switch d.Action {
		case Add:
			if err := ValidateQuad(d.Quad); err != nil {
				return &DeltaError{Delta: d, Err: err}
			}
			if !ignoreOpts.IgnoreDup && g.HasQuad(d.Quad) {
				return &DeltaError{Delta: d, Err: ErrQuadExists}
			}
		case Delete:
			if !ignoreOpts.IgnoreMissing && !g.HasQuad(d.Quad) {
				return &DeltaError{Delta: d, Err: ErrQuadNotExist}
			}
		default:
			return &DeltaError{Delta: d, Err: ErrInvalidAction}
		}
	}

	for _, d := range deltas {
		var err error
		switch d.Action {
		case Add:
			_, err = g.addQuad(d.Quad)
		case Delete:
			err = g.RemoveQuad(d.Quad)
			if err != nil && ignoreOpts.IgnoreMissing {
				err = nil
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ApplyTransaction applies all deltas of the transaction as one batch.
func (g *Graph) ApplyTransaction(tx *Transaction, ignoreOpts IgnoreOpts) error {
	return g.ApplyDeltas(tx.Deltas, ignoreOpts)
}

// ForEach calls fn for every statement in insertion order until fn returns false.
func (g *Graph) ForEach(fn func(quad.Quad) bool) {
	for i := 1; i < len(g.log); i++ {
		e := g.log[i]
		if e.Deleted {
			continue
		}
		if !fn(e.Quad) {
			return
		}
	}
}

// Quads returns all statements matching the pattern.
func (g *Graph) Quads(pattern quad.Quad) []quad.Quad {
	var out []quad.Quad
	it := g.Match(pattern)
	for it.Next() {
		out = append(out, it.Quad())
	}
	return out
}

// SubjectQuads returns all statements with v as subject.
func (g *Graph) SubjectQuads(v quad.Value) []quad.Quad {
	return g.Quads(quad.Quad{Subject: v})
}

// ObjectQuads returns all statements with v as object.
func (g *Graph) ObjectQuads(v quad.Value) []quad.Quad {
	return g.Quads(quad.Quad{Object: v})
}

// LiteralAndIRIQuads returns statements with the given predicate that point
// to class either as an IRI object or as its CURIE in an xsd:anyURI literal.
func (g *Graph) LiteralAndIRIQuads(predicate quad.IRI, class quad.IRI) []quad.Quad {
	curie := g.prefixes.ShortIRI(string(class))
	lit := quad.TypedString{Value: quad.String(curie), Type: quad.IRI(xsd.AnyURI)}
	out := g.Quads(quad.Quad{Predicate: predicate, Object: lit})
	return append(out, g.Quads(quad.Quad{Predicate: predicate, Object: class})...)
}

// Objects returns the objects of all statements with the given subject and predicate.
func (g *Graph) Objects(subject quad.Value, predicate quad.IRI) []quad.Value {
	var out []quad.Value
	it := g.Match(quad.Quad{Subject: subject, Predicate: predicate})
	for it.Next() {
		out = append(out, it.Quad().Object)
	}
	return out
}
