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

// Package rdf contains full IRIs of the RDF vocabulary terms used by tulip.
package rdf

import "github.com/cayleygraph/quad/voc/rdf"

const (
	NS     = rdf.NS
	Prefix = rdf.Prefix
)

const (
	// The subject is an instance of a class.
	Type = NS + "type"
	// The first item in the subject RDF list.
	First = NS + "first"
	// The rest of the subject RDF list after the first item.
	Rest = NS + "rest"
	// The empty list.
	Nil = NS + "nil"
	// The datatype of language-tagged string values.
	LangString = NS + "langString"
)
