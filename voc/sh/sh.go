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

// Package sh contains constants of the Shapes Constraint Language (SHACL).
//
// Unlike the quad vocabularies, all constants are full IRIs, so they can be
// compared directly against ingested terms.
package sh

import "github.com/cayleygraph/quad/voc"

func init() {
	voc.Register(voc.Namespace{Full: NS, Prefix: Prefix})
}

const (
	NS     = `http://www.w3.org/ns/shacl#`
	Prefix = `sh:`
)

const (
	// Classes

	// A node shape is a shape that specifies constraints on a focus node.
	NodeShape = NS + "NodeShape"
	// A property shape is a shape that specifies constraints on the values of a path.
	PropertyShape = NS + "PropertyShape"
	// Instances of this class represent groups of property shapes.
	PropertyGroup = NS + "PropertyGroup"

	// Node kinds

	Literal            = NS + "Literal"
	IRI                = NS + "IRI"
	BlankNode          = NS + "BlankNode"
	BlankNodeOrIRI     = NS + "BlankNodeOrIRI"
	BlankNodeOrLiteral = NS + "BlankNodeOrLiteral"
	IRIOrLiteral       = NS + "IRIOrLiteral"

	// Properties

	Property = NS + "property"
	Path     = NS + "path"
	NodeKind = NS + "nodeKind"
	Datatype = NS + "datatype"
	Class    = NS + "class"
	In       = NS + "in"
	Or       = NS + "or"
	Order    = NS + "order"
	Group    = NS + "group"
	Name     = NS + "name"
	MinCount = NS + "minCount"
	MaxCount = NS + "maxCount"
)
