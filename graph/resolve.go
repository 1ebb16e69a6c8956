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
	"fmt"

	"github.com/cayleygraph/quad"

	"github.com/psychoinformatics-de/shacl-tulip/voc/rdf"
)

// DefaultMaxDepth is the nesting limit used by ResolveNode and ListToSlice.
const DefaultMaxDepth = 64

// ErrCyclicNode is returned when anonymous nodes or list cells refer back to
// a node that is still being resolved, or nest deeper than the resolver allows.
var ErrCyclicNode = errors.New("cyclic node structure")

// CycleError describes where recursive resolution stopped.
type CycleError struct {
	Node  quad.Value
	Depth int
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("resolve %v at depth %d: %v", e.Node, e.Depth, ErrCyclicNode)
}

func (e *CycleError) Unwrap() error { return ErrCyclicNode }

// Node is a resolved term. Exactly one of Term, Attrs and List is meaningful:
// scalars keep the term, anonymous nodes are expanded into attributes and RDF
// lists become an ordered slice.
type Node struct {
	Term  quad.Value
	Attrs Attributes
	List  []Node
}

// Attributes maps predicate IRIs to resolved values.
type Attributes map[string]Node

// Scalar wraps a term into a Node.
func Scalar(v quad.Value) Node { return Node{Term: v} }

// IsScalar reports whether n holds a plain term.
func (n Node) IsScalar() bool { return n.Attrs == nil && n.List == nil }

// IsList reports whether n was resolved from an RDF list.
func (n Node) IsList() bool { return n.List != nil }

// Raw returns the lexical form of a scalar node, or "" for nested values.
func (n Node) Raw() string {
	if !n.IsScalar() {
		return ""
	}
	return Raw(n.Term)
}

// Plain converts the node into raw strings, maps and slices, suitable for
// encoders.
func (n Node) Plain() interface{} {
	switch {
	case n.Attrs != nil:
		return n.Attrs.Plain()
	case n.List != nil:
		out := make([]interface{}, 0, len(n.List))
		for _, item := range n.List {
			out = append(out, item.Plain())
		}
		return out
	default:
		return Raw(n.Term)
	}
}

// Plain converts the attributes into a map of plain values.
func (a Attributes) Plain() map[string]interface{} {
	out := make(map[string]interface{}, len(a))
	for pred, n := range a {
		out[pred] = n.Plain()
	}
	return out
}

// Get returns the attribute stored under predicate.
func (a Attributes) Get(predicate string) (Node, bool) {
	n, ok := a[predicate]
	return n, ok
}

// Raw returns the lexical value of a scalar attribute.
func (a Attributes) Raw(predicate string) string {
	return a[predicate].Raw()
}

// Term returns the term of a scalar attribute, or nil.
func (a Attributes) Term(predicate string) quad.Value {
	n, ok := a[predicate]
	if !ok || !n.IsScalar() {
		return nil
	}
	return n.Term
}

// IsList reports whether node is the head cell of an RDF list, that is,
// the subject of both an rdf:first and an rdf:rest statement.
func (g *Graph) IsList(node quad.Value) bool {
	if node == nil {
		return false
	}
	var hasFirst, hasRest bool
	it := g.Match(quad.Quad{Subject: node})
	for it.Next() && !(hasFirst && hasRest) {
		switch it.Quad().Predicate {
		case quad.IRI(rdf.First):
			hasFirst = true
		case quad.IRI(rdf.Rest):
			hasRest = true
		}
	}
	return hasFirst && hasRest
}

// ListToSlice walks an RDF list from its head cell until rdf:nil.
func (g *Graph) ListToSlice(head quad.Value) ([]Node, error) {
	return g.NewResolver(DefaultMaxDepth).ListToSlice(head)
}

// ResolveNode expands an anonymous node into its attributes. Nested blank
// nodes are expanded recursively and lists are flattened.
func (g *Graph) ResolveNode(node quad.Value) (Attributes, error) {
	return g.NewResolver(DefaultMaxDepth).ResolveNode(node)
}

// Resolver expands anonymous structures of a graph.
// Each top level call starts with a fresh path.
type Resolver struct {
	g        *Graph
	maxDepth int
	path     map[quad.Value]struct{}
}

// NewResolver creates a resolver with the given nesting limit.
// A limit below one selects DefaultMaxDepth.
func (g *Graph) NewResolver(maxDepth int) *Resolver {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	return &Resolver{g: g, maxDepth: maxDepth}
}

// ResolveNode expands node into its attributes.
// When a predicate occurs several times, the last statement wins.
func (r *Resolver) ResolveNode(node quad.Value) (Attributes, error) {
	r.path = make(map[quad.Value]struct{})
	return r.resolve(node, 0)
}

// Resolve turns an object term into a node: blank nodes become lists or
// attributes, other terms stay scalar.
func (r *Resolver) Resolve(v quad.Value) (Node, error) {
	r.path = make(map[quad.Value]struct{})
	return r.value(v, 0)
}

// ListToSlice walks the list starting at head.
func (r *Resolver) ListToSlice(head quad.Value) ([]Node, error) {
	r.path = make(map[quad.Value]struct{})
	return r.list(head, 0)
}

func (r *Resolver) enter(node quad.Value, depth int) error {
	if depth >= r.maxDepth {
		return &CycleError{Node: node, Depth: depth}
	}
	if _, ok := r.path[node]; ok {
		return &CycleError{Node: node, Depth: depth}
	}
	r.path[node] = struct{}{}
	return nil
}

func (r *Resolver) leave(node quad.Value) {
	delete(r.path, node)
}

func (r *Resolver) resolve(node quad.Value, depth int) (Attributes, error) {
	if err := r.enter(node, depth); err != nil {
		return nil, err
	}
	defer r.leave(node)

	attrs := make(Attributes)
	for _, q := range r.g.SubjectQuads(node) {
		n, err := r.value(q.Object, depth)
		if err != nil {
			return nil, err
		}
		attrs[string(q.Predicate.(quad.IRI))] = n
	}
	return attrs, nil
}

func (r *Resolver) value(v quad.Value, depth int) (Node, error) {
	if !IsBlank(v) {
		return Scalar(v), nil
	}
	if r.g.IsList(v) {
		items, err := r.list(v, depth+1)
		if err != nil {
			return Node{}, err
		}
		return Node{List: items}, nil
	}
	attrs, err := r.resolve(v, depth+1)
	if err != nil {
		return Node{}, err
	}
	return Node{Attrs: attrs}, nil
}

func (r *Resolver) list(head quad.Value, depth int) ([]Node, error) {
	items := []Node{}
	var visited []quad.Value
	defer func() {
		for _, v := range visited {
			r.leave(v)
		}
	}()
	cur := head
	for cur != nil && cur != quad.IRI(rdf.Nil) {
		if err := r.enter(cur, depth); err != nil {
			return nil, err
		}
		visited = append(visited, cur)
		var next quad.Value
		for _, q := range r.g.SubjectQuads(cur) {
			switch q.Predicate {
			case quad.IRI(rdf.First):
				n, err := r.value(q.Object, depth)
				if err != nil {
					return nil, err
				}
				items = append(items, n)
			case quad.IRI(rdf.Rest):
				next = q.Object
			}
		}
		cur = next
	}
	return items, nil
}
