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
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Value is one value slot of a predicate. The zero Value is unset: the
// property is present in the record but carries no value yet.
type Value struct {
	raw string
	set bool
}

// Unset returns an empty value slot.
func Unset() Value { return Value{} }

// Set returns a value slot holding raw.
func Set(raw string) Value { return Value{raw: raw, set: true} }

// IsSet reports whether the slot holds a value.
func (v Value) IsSet() bool { return v.set }

// Raw returns the lexical form of the value, or "" for an unset slot.
func (v Value) Raw() string { return v.raw }

func (v Value) String() string {
	if !v.set {
		return "<unset>"
	}
	return v.raw
}

func (v Value) node() *yaml.Node {
	if !v.set {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	n := &yaml.Node{}
	n.SetString(v.raw)
	return n
}

// Values is the ordered list of value slots of a predicate.
type Values []Value

// IsUnset reports whether the list is the single unset slot.
func (vs Values) IsUnset() bool {
	return len(vs) == 1 && !vs[0].set
}

// Raw returns the lexical forms of all set values.
func (vs Values) Raw() []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if v.set {
			out = append(out, v.raw)
		}
	}
	return out
}

func (vs Values) node() *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode}
	for _, v := range vs {
		n.Content = append(n.Content, v.node())
	}
	return n
}

func unsetValues() Values { return Values{Unset()} }

func keyNode(key string) *yaml.Node {
	n := &yaml.Node{}
	n.SetString(key)
	return n
}

// Subject holds the predicates of one record subject in insertion order.
type Subject struct {
	preds *orderedmap.OrderedMap[string, Values]
}

func newSubject() *Subject {
	return &Subject{preds: orderedmap.New[string, Values]()}
}

// Values returns the value slots of predicate.
func (s *Subject) Values(predicate string) (Values, bool) {
	return s.preds.Get(predicate)
}

// Predicates returns the predicate IRIs in insertion order.
func (s *Subject) Predicates() []string {
	out := make([]string, 0, s.preds.Len())
	for p := s.preds.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// Len returns the number of predicates.
func (s *Subject) Len() int { return s.preds.Len() }

func (s *Subject) clone() *Subject {
	c := newSubject()
	for p := s.preds.Oldest(); p != nil; p = p.Next() {
		c.preds.Set(p.Key, append(Values(nil), p.Value...))
	}
	return c
}

func (s *Subject) node() *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for p := s.preds.Oldest(); p != nil; p = p.Next() {
		n.Content = append(n.Content, keyNode(p.Key), p.Value.node())
	}
	return n
}

// MarshalYAML implements yaml.Marshaler.
func (s *Subject) MarshalYAML() (interface{}, error) { return s.node(), nil }

// Class holds the subjects recorded for one class IRI.
type Class struct {
	subjects *orderedmap.OrderedMap[string, *Subject]
}

func newClass() *Class {
	return &Class{subjects: orderedmap.New[string, *Subject]()}
}

// Subject returns the subject stored under key.
func (c *Class) Subject(key string) (*Subject, bool) {
	return c.subjects.Get(key)
}

// Keys returns the subject keys in insertion order.
func (c *Class) Keys() []string {
	out := make([]string, 0, c.subjects.Len())
	for p := c.subjects.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// Len returns the number of subjects.
func (c *Class) Len() int { return c.subjects.Len() }

func (c *Class) node() *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for p := c.subjects.Oldest(); p != nil; p = p.Next() {
		n.Content = append(n.Content, keyNode(p.Key), p.Value.node())
	}
	return n
}

// MarshalYAML implements yaml.Marshaler.
func (c *Class) MarshalYAML() (interface{}, error) { return c.node(), nil }

// Record is the editable form data: class IRI to subject key to predicate
// IRI to value slots. Every class in a Record has at least one subject.
type Record struct {
	classes *orderedmap.OrderedMap[string, *Class]
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{classes: orderedmap.New[string, *Class]()}
}

// Class returns the subjects of class.
func (r *Record) Class(class string) (*Class, bool) {
	return r.classes.Get(class)
}

// Classes returns the class IRIs in insertion order.
func (r *Record) Classes() []string {
	out := make([]string, 0, r.classes.Len())
	for p := r.classes.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// Subject returns the subject stored under class and key.
func (r *Record) Subject(class, key string) (*Subject, bool) {
	c, ok := r.classes.Get(class)
	if !ok {
		return nil, false
	}
	return c.Subject(key)
}

// Len returns the number of classes.
func (r *Record) Len() int { return r.classes.Len() }

func (r *Record) clone() *Record {
	out := NewRecord()
	for p := r.classes.Oldest(); p != nil; p = p.Next() {
		c := newClass()
		for s := p.Value.subjects.Oldest(); s != nil; s = s.Next() {
			c.subjects.Set(s.Key, s.Value.clone())
		}
		out.classes.Set(p.Key, c)
	}
	return out
}

// MarshalYAML implements yaml.Marshaler. Unset slots are written as null.
func (r *Record) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for p := r.classes.Oldest(); p != nil; p = p.Next() {
		n.Content = append(n.Content, keyNode(p.Key), p.Value.node())
	}
	return n, nil
}
