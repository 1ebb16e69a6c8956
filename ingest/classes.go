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

package ingest

import (
	"sort"

	"github.com/cayleygraph/quad"

	"github.com/psychoinformatics-de/shacl-tulip/graph"
	"github.com/psychoinformatics-de/shacl-tulip/voc/rdfs"
)

// Class is a node of the class hierarchy collected by ClassFilter.
type Class struct {
	name  quad.Value
	super map[*Class]struct{}
	sub   map[*Class]struct{}
}

func newClass(name quad.Value) *Class {
	return &Class{
		name:  name,
		super: map[*Class]struct{}{},
		sub:   map[*Class]struct{}{},
	}
}

// Name returns the class's name
func (class *Class) Name() quad.Value {
	return class.name
}

// IsSubClassOf checks whether superClass is reachable through rdfs:subClassOf.
// A class is a subclass of itself.
func (class *Class) IsSubClassOf(superClass *Class) bool {
	return class.reaches(superClass, map[*Class]struct{}{})
}

func (class *Class) reaches(target *Class, seen map[*Class]struct{}) bool {
	if class == target {
		return true
	}
	if _, ok := seen[class]; ok {
		return false
	}
	seen[class] = struct{}{}
	for s := range class.super {
		if s.reaches(target, seen) {
			return true
		}
	}
	return false
}

// ClassFilter is a load strategy keeping only the class hierarchy of a
// document: rdfs:subClassOf statements between non-blank terms. All other
// statements are dropped.
type ClassFilter struct {
	classes map[quad.Value]*Class
}

// NewClassFilter creates an empty class hierarchy.
func NewClassFilter() *ClassFilter {
	return &ClassFilter{classes: make(map[quad.Value]*Class)}
}

func (f *ClassFilter) class(name quad.Value) *Class {
	if c, ok := f.classes[name]; ok {
		return c
	}
	c := newClass(name)
	f.classes[name] = c
	return c
}

// HandleQuad implements Strategy.
func (f *ClassFilter) HandleQuad(g *graph.Graph, q quad.Quad) (bool, error) {
	if q.Predicate != quad.IRI(rdfs.SubClassOf) || graph.IsBlank(q.Subject) || graph.IsBlank(q.Object) {
		return false, nil
	}
	stored, err := g.Insert(q)
	if err != nil || !stored {
		return stored, err
	}
	child, parent := f.class(q.Subject), f.class(q.Object)
	child.super[parent] = struct{}{}
	parent.sub[child] = struct{}{}
	return true, nil
}

// Complete implements Strategy.
func (f *ClassFilter) Complete(*graph.Graph) error { return nil }

// GetClass returns the class with the given name, or nil.
func (f *ClassFilter) GetClass(name quad.Value) *Class {
	return f.classes[name]
}

// IsSubClassOf reports whether child is a direct or indirect subclass of parent.
func (f *ClassFilter) IsSubClassOf(child, parent quad.Value) bool {
	c, p := f.classes[child], f.classes[parent]
	if c == nil || p == nil {
		return child == parent
	}
	return c.IsSubClassOf(p)
}

// SubClasses returns all direct and indirect subclasses of parent, sorted.
func (f *ClassFilter) SubClasses(parent quad.Value) []quad.Value {
	p := f.classes[parent]
	if p == nil {
		return nil
	}
	seen := map[*Class]struct{}{p: {}}
	var out []quad.Value
	stack := []*Class{p}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for s := range c.sub {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s.name)
			stack = append(stack, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return quad.StringOf(out[i]) < quad.StringOf(out[j]) })
	return out
}
