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
	"github.com/cayleygraph/quad"

	"github.com/psychoinformatics-de/shacl-tulip/clog"
	"github.com/psychoinformatics-de/shacl-tulip/graph"
	"github.com/psychoinformatics-de/shacl-tulip/voc/sh"
	"github.com/psychoinformatics-de/shacl-tulip/voc/xsd"
)

// TermKind is the kind of term built for a property value.
type TermKind int

const (
	Literal TermKind = iota
	IRI
	BlankNode
)

func (k TermKind) String() string {
	switch k {
	case Literal:
		return "literal"
	case IRI:
		return "iri"
	case BlankNode:
		return "blank"
	default:
		return "invalid"
	}
}

// NodeKind is the outcome of a node kind decision.
type NodeKind struct {
	Kind TermKind
	// Datatype is set for literals with a declared sh:datatype.
	Datatype quad.IRI
	// Fallback marks decisions that defaulted to a literal because the
	// shapes did not describe the property.
	Fallback bool
}

// Make constructs a term of this kind from a raw value.
func (k NodeKind) Make(raw string) quad.Value {
	switch k.Kind {
	case IRI:
		return quad.IRI(raw)
	case BlankNode:
		return quad.BNode(raw)
	}
	if k.Datatype == "" || k.Datatype == xsd.String {
		return quad.String(raw)
	}
	return quad.TypedString{Value: quad.String(raw), Type: k.Datatype}
}

func fallback() NodeKind {
	return NodeKind{Kind: Literal, Fallback: true}
}

// PropertyNodeKind decides which kind of term represents values of property
// propertyIRI in records of shape shapeIRI. The decision only depends on
// the index, so repeated calls yield the same result.
//
// An explicit sh:nodeKind wins. sh:BlankNodeOrIRI becomes an IRI when the
// sh:class of the constraint has a shape with a constraint on idPropertyIRI
// (its records are addressable), a blank node otherwise, and an IRI when no
// class is declared. Without a node kind, sh:in means a literal and an sh:or
// list whose every branch declares sh:class means an IRI. Everything else is
// a literal.
func (idx *Index) PropertyNodeKind(shapeIRI, propertyIRI, idPropertyIRI string) NodeKind {
	shape, ok := idx.shapes[shapeIRI]
	if !ok {
		clog.Warningf("no node shape %s; using a literal for %s", shapeIRI, propertyIRI)
		return fallback()
	}
	prop, ok := shape.Property(propertyIRI)
	if !ok {
		clog.Warningf("shape %s has no constraint for %s; using a literal", shapeIRI, propertyIRI)
		return fallback()
	}

	if kind, ok := prop.Get(sh.NodeKind); ok {
		switch kind.Raw() {
		case sh.Literal:
			return NodeKind{Kind: Literal, Datatype: quad.IRI(prop.Raw(sh.Datatype))}
		case sh.IRI:
			return NodeKind{Kind: IRI}
		case sh.BlankNode:
			return NodeKind{Kind: BlankNode}
		case sh.BlankNodeOrIRI:
			return idx.blankOrIRI(prop, propertyIRI, idPropertyIRI)
		default:
			clog.Errorf("node kind %s of %s is not supported; using a literal", kind.Raw(), propertyIRI)
			return fallback()
		}
	}
	if _, ok := prop.Get(sh.In); ok {
		if clog.V(2) {
			clog.Infof("no node kind for %s; found sh:in, using a literal", propertyIRI)
		}
		return NodeKind{Kind: Literal}
	}
	if or, ok := prop.Get(sh.Or); ok && or.IsList() && allHaveClass(or.List) {
		if clog.V(2) {
			clog.Infof("no node kind for %s; every sh:or branch has sh:class, using an IRI", propertyIRI)
		}
		return NodeKind{Kind: IRI}
	}
	clog.Warningf("no node kind for %s; using a literal", propertyIRI)
	return fallback()
}

func (idx *Index) blankOrIRI(prop graph.Attributes, propertyIRI, idPropertyIRI string) NodeKind {
	class := prop.Raw(sh.Class)
	if class == "" {
		return NodeKind{Kind: IRI}
	}
	target, ok := idx.shapes[idx.prefixes.FullIRI(class)]
	if !ok {
		clog.Warningf("class %s of %s has no node shape; using an IRI", class, propertyIRI)
		return NodeKind{Kind: IRI}
	}
	if _, ok := target.Property(idPropertyIRI); ok {
		return NodeKind{Kind: IRI}
	}
	return NodeKind{Kind: BlankNode}
}

func allHaveClass(branches []graph.Node) bool {
	for _, b := range branches {
		if b.Attrs == nil {
			return false
		}
		if _, ok := b.Attrs[sh.Class]; !ok {
			return false
		}
	}
	return true
}
