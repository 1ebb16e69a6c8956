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

// Package rdfs contains full IRIs of the RDF Schema terms used by tulip.
package rdfs

import "github.com/cayleygraph/quad/voc/rdfs"

const (
	NS     = rdfs.NS
	Prefix = rdfs.Prefix
)

const (
	// The subject is a subclass of a class.
	SubClassOf = NS + "subClassOf"
	// A human-readable name for the subject.
	Label = NS + "label"
	// A description of the subject resource.
	Comment = NS + "comment"
)
