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

// Package shapes indexes SHACL node shapes and property groups.
//
// An Index is a load strategy: it stores every statement of a shapes
// document and, once the document is complete, resolves each node shape
// into its attributes and property constraints.
package shapes

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/psychoinformatics-de/shacl-tulip/clog"
	"github.com/psychoinformatics-de/shacl-tulip/graph"
	"github.com/psychoinformatics-de/shacl-tulip/voc"
	"github.com/psychoinformatics-de/shacl-tulip/voc/rdf"
	"github.com/psychoinformatics-de/shacl-tulip/voc/sh"
)

// ErrIndexFrozen is returned for statements arriving after the index completed.
var ErrIndexFrozen = errors.New("shape index is frozen")

// CyclicShapeError is returned when a shape or property constraint cannot be
// resolved because its anonymous nodes form a cycle.
type CyclicShapeError struct {
	Shape string
	Err   error
}

func (e *CyclicShapeError) Error() string {
	return fmt.Sprintf("cyclic shape %s: %v", e.Shape, e.Err)
}

func (e *CyclicShapeError) Unwrap() error { return e.Err }

// Shape is a resolved node shape.
type Shape struct {
	IRI  string
	Name string
	// Attributes holds every statement of the shape except sh:property.
	Attributes graph.Attributes
	// Properties holds the property constraints in declaration order.
	Properties []graph.Attributes

	term quad.Value
}

// Property returns the first property constraint whose sh:path is path.
func (s *Shape) Property(path string) (graph.Attributes, bool) {
	for _, p := range s.Properties {
		if p.Raw(sh.Path) == path {
			return p, true
		}
	}
	return nil, false
}

// Paths returns the sh:path of every property constraint with a simple path.
func (s *Shape) Paths() []string {
	out := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		if path := p.Raw(sh.Path); path != "" {
			out = append(out, path)
		}
	}
	return out
}

// Option configures an Index.
type Option func(*Index)

// WithMaxDepth limits the nesting of resolved anonymous nodes.
func WithMaxDepth(n int) Option {
	return func(idx *Index) { idx.maxDepth = n }
}

// Index holds the node shapes and property groups of a shapes document.
// It is filled by a load and immutable afterwards.
type Index struct {
	maxDepth int

	shapes  map[string]*Shape
	order   []string
	pending map[quad.Value][]quad.Value

	groups     map[string]graph.Attributes
	groupOrder []string
	groupTerms map[string]quad.Value

	names    map[string]string
	nameList []string
	iris     []string
	warnings []string
	prefixes *voc.Prefixes
	frozen   bool
}

// New creates an empty index.
func New(opts ...Option) *Index {
	idx := &Index{
		maxDepth:   graph.DefaultMaxDepth,
		shapes:     make(map[string]*Shape),
		pending:    make(map[quad.Value][]quad.Value),
		groups:     make(map[string]graph.Attributes),
		groupTerms: make(map[string]quad.Value),
		names:      make(map[string]string),
		prefixes:   &voc.Prefixes{},
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// HandleQuad stores q and registers node shapes, property constraints and
// property groups.
func (idx *Index) HandleQuad(g *graph.Graph, q quad.Quad) (bool, error) {
	if idx.frozen {
		return false, ErrIndexFrozen
	}
	stored, err := g.Insert(q)
	if err != nil || !stored {
		return stored, err
	}
	switch q.Predicate {
	case quad.IRI(rdf.Type):
		switch q.Object {
		case quad.IRI(sh.NodeShape):
			iri := graph.Raw(q.Subject)
			if _, ok := idx.shapes[iri]; !ok {
				idx.shapes[iri] = &Shape{IRI: iri, term: q.Subject}
				idx.order = append(idx.order, iri)
			}
		case quad.IRI(sh.PropertyGroup):
			iri := graph.Raw(q.Subject)
			if _, ok := idx.groupTerms[iri]; !ok {
				idx.groupTerms[iri] = q.Subject
				idx.groupOrder = append(idx.groupOrder, iri)
			}
		}
	case quad.IRI(sh.Property):
		idx.pending[q.Subject] = append(idx.pending[q.Subject], q.Object)
	}
	return true, nil
}

// Complete resolves all registered shapes and groups and freezes the index.
func (idx *Index) Complete(g *graph.Graph) error {
	if idx.frozen {
		return ErrIndexFrozen
	}
	idx.prefixes = g.Prefixes()
	for _, iri := range idx.order {
		if err := idx.resolveShape(g, idx.shapes[iri]); err != nil {
			return err
		}
	}
	idx.buildNames()
	for _, iri := range idx.groupOrder {
		attrs := make(graph.Attributes)
		for _, q := range g.SubjectQuads(idx.groupTerms[iri]) {
			if q.Predicate == quad.IRI(rdf.Type) {
				continue
			}
			attrs[graph.Raw(q.Predicate)] = graph.Scalar(q.Object)
		}
		idx.groups[iri] = attrs
	}
	idx.pending = nil
	idx.frozen = true
	if clog.V(1) {
		clog.Infof("Indexed %d node shapes and %d property groups.", len(idx.order), len(idx.groupOrder))
	}
	return nil
}

func (idx *Index) resolveShape(g *graph.Graph, s *Shape) error {
	res := g.NewResolver(idx.maxDepth)
	s.Attributes = make(graph.Attributes)
	for _, q := range g.SubjectQuads(s.term) {
		if q.Predicate == quad.IRI(sh.Property) {
			continue
		}
		n, err := res.Resolve(q.Object)
		if err != nil {
			return &CyclicShapeError{Shape: s.IRI, Err: err}
		}
		s.Attributes[graph.Raw(q.Predicate)] = n
	}

	s.Properties = make([]graph.Attributes, 0, len(idx.pending[s.term]))
	seen := make(map[string]struct{})
	for _, p := range idx.pending[s.term] {
		var attrs graph.Attributes
		if graph.IsBlank(p) {
			var err error
			attrs, err = res.ResolveNode(p)
			if err != nil {
				return &CyclicShapeError{Shape: s.IRI, Err: err}
			}
		} else {
			// named constraints are kept as references, without nesting
			attrs = make(graph.Attributes)
			for _, q := range g.SubjectQuads(p) {
				attrs[graph.Raw(q.Predicate)] = graph.Scalar(q.Object)
			}
		}
		if path := attrs.Raw(sh.Path); path != "" {
			if _, dup := seen[path]; dup {
				idx.warnf("shape %s declares path %s more than once; using the first constraint", s.IRI, path)
			}
			seen[path] = struct{}{}
		}
		s.Properties = append(s.Properties, attrs)
	}
	return nil
}

func (idx *Index) buildNames() {
	for _, iri := range idx.order {
		name := iri
		if i := strings.LastIndexByte(iri, '/'); i >= 0 {
			name = iri[i+1:]
		}
		idx.shapes[iri].Name = name
		if prev, ok := idx.names[name]; ok {
			idx.warnf("short name %q of shape %s collides with shape %s; keeping %s", name, iri, prev, prev)
			continue
		}
		idx.names[name] = iri
	}
	idx.nameList = make([]string, 0, len(idx.names))
	for name := range idx.names {
		idx.nameList = append(idx.nameList, name)
	}
	sort.Strings(idx.nameList)
	idx.iris = append([]string(nil), idx.order...)
	sort.Strings(idx.iris)
}

func (idx *Index) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	idx.warnings = append(idx.warnings, msg)
	clog.Warningf("%s", msg)
}

// Loaded reports whether the index completed.
func (idx *Index) Loaded() bool { return idx.frozen }

// Shape returns the shape with the given IRI.
func (idx *Index) Shape(iri string) (*Shape, bool) {
	s, ok := idx.shapes[iri]
	return s, ok
}

// ShapeByName returns the shape registered under a short name.
func (idx *Index) ShapeByName(name string) (*Shape, bool) {
	iri, ok := idx.names[name]
	if !ok {
		return nil, false
	}
	return idx.Shape(iri)
}

// Shapes returns all shapes in declaration order.
func (idx *Index) Shapes() []*Shape {
	out := make([]*Shape, 0, len(idx.order))
	for _, iri := range idx.order {
		out = append(out, idx.shapes[iri])
	}
	return out
}

// Names returns the sorted short names of all shapes.
func (idx *Index) Names() []string { return idx.nameList }

// IRIs returns the sorted IRIs of all shapes.
func (idx *Index) IRIs() []string { return idx.iris }

// Group returns the attributes of a property group.
func (idx *Index) Group(iri string) (graph.Attributes, bool) {
	g, ok := idx.groups[iri]
	return g, ok
}

// Groups returns the IRIs of all property groups in declaration order.
func (idx *Index) Groups() []string { return idx.groupOrder }

// Warnings returns the diagnostics collected while resolving the index.
func (idx *Index) Warnings() []string { return idx.warnings }

// Prefixes returns the prefix map of the shapes document.
func (idx *Index) Prefixes() *voc.Prefixes { return idx.prefixes }
