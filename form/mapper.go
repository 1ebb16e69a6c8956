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

// Package form maps editable records to RDF statements and back.
//
// A Record is keyed by class IRI, then by subject key, then by predicate IRI.
// A subject key is either the record's identifier IRI or a local anonymous
// key. The Mapper converts one subject at a time, asking a KindResolver which
// kind of term each property value becomes.
package form

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cayleygraph/quad"
	"github.com/google/uuid"

	"github.com/psychoinformatics-de/shacl-tulip/clog"
	"github.com/psychoinformatics-de/shacl-tulip/graph"
	"github.com/psychoinformatics-de/shacl-tulip/shapes"
	"github.com/psychoinformatics-de/shacl-tulip/voc/rdf"
)

var (
	ErrNoIDProperty      = errors.New("id property is required")
	ErrClassNotFound     = errors.New("class not found in record")
	ErrSubjectNotFound   = errors.New("subject not found in record")
	ErrPredicateNotFound = errors.New("predicate not found in record")
	ErrObjectIndex       = errors.New("value index out of range")
)

// PreconditionError is returned when a record operation refers to parts of
// the record that do not exist.
type PreconditionError struct {
	Op        string
	Class     string
	Subject   string
	Predicate string
	Err       error
}

func (e *PreconditionError) Error() string {
	msg := fmt.Sprintf("form: %s: %v: class %q", e.Op, e.Err, e.Class)
	if e.Subject != "" {
		msg += fmt.Sprintf(" subject %q", e.Subject)
	}
	if e.Predicate != "" {
		msg += fmt.Sprintf(" predicate %q", e.Predicate)
	}
	return msg
}

func (e *PreconditionError) Unwrap() error { return e.Err }

// KindResolver decides the term kind of property values. It is implemented
// by *shapes.Index.
type KindResolver interface {
	PropertyNodeKind(shapeIRI, propertyIRI, idPropertyIRI string) shapes.NodeKind
}

// SaveResult names the class and subject key a record was saved under.
type SaveResult struct {
	Class   string
	Subject string
	// Rewritten is the number of statements re-pointed from the old key to
	// the new identifier.
	Rewritten int
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithIgnoredPredicates adds predicates that are never written to the graph.
// rdf:type is always ignored, the type statement is generated from the class.
func WithIgnoredPredicates(preds ...string) Option {
	return func(m *Mapper) {
		for _, p := range preds {
			m.ignored[p] = struct{}{}
		}
	}
}

// WithRecord makes the mapper edit an existing record.
func WithRecord(r *Record) Option {
	return func(m *Mapper) {
		m.record = r
	}
}

// Mapper edits a Record and converts its subjects to statements and back.
// Operations are serialised by a mutex; a graph shared between mappers
// still has to be guarded by the caller.
type Mapper struct {
	mu         sync.Mutex
	idProperty string
	ignored    map[string]struct{}
	record     *Record
}

// New creates a mapper for records identified by idProperty.
func New(idProperty string, opts ...Option) (*Mapper, error) {
	if idProperty == "" {
		clog.Errorf("form: %v", ErrNoIDProperty)
		return nil, ErrNoIDProperty
	}
	m := &Mapper{
		idProperty: idProperty,
		ignored:    map[string]struct{}{rdf.Type: {}},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.record == nil {
		m.record = NewRecord()
	}
	return m, nil
}

// IDProperty returns the predicate holding record identifiers.
func (m *Mapper) IDProperty() string { return m.idProperty }

// Record returns a copy of the current record.
func (m *Mapper) Record() *Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record.clone()
}

// NewAnonymousKey returns a fresh subject key for a record without an
// identifier.
func NewAnonymousKey() string {
	return uuid.NewString()
}

func fail(err *PreconditionError) error {
	mPreconditionFailures.WithLabelValues(err.Op).Inc()
	clog.Errorf("%v", err)
	return err
}

func (m *Mapper) subject(op, class, key string) (*Class, *Subject, error) {
	c, ok := m.record.classes.Get(class)
	if !ok {
		return nil, nil, fail(&PreconditionError{Op: op, Class: class, Subject: key, Err: ErrClassNotFound})
	}
	s, ok := c.subjects.Get(key)
	if !ok {
		return nil, nil, fail(&PreconditionError{Op: op, Class: class, Subject: key, Err: ErrSubjectNotFound})
	}
	return c, s, nil
}

func (m *Mapper) values(op, class, key, pred string) (*Subject, Values, error) {
	_, s, err := m.subject(op, class, key)
	if err != nil {
		return nil, nil, err
	}
	vs, ok := s.preds.Get(pred)
	if !ok {
		return nil, nil, fail(&PreconditionError{Op: op, Class: class, Subject: key, Predicate: pred, Err: ErrPredicateNotFound})
	}
	return s, vs, nil
}

// AddSubject adds an empty subject under class. It is a no-op if the subject
// already exists.
func (m *Mapper) AddSubject(class, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addSubject(class, key)
}

func (m *Mapper) addSubject(class, key string) *Subject {
	c, ok := m.record.classes.Get(class)
	if !ok {
		c = newClass()
		m.record.classes.Set(class, c)
	}
	s, ok := c.subjects.Get(key)
	if !ok {
		s = newSubject()
		c.subjects.Set(key, s)
	}
	return s
}

// RemoveSubject removes a subject. A class left without subjects is removed
// as well.
func (m *Mapper) RemoveSubject(class, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, _, err := m.subject("remove subject", class, key)
	if err != nil {
		return err
	}
	m.removeKey(class, c, key)
	return nil
}

func (m *Mapper) removeKey(class string, c *Class, key string) {
	c.subjects.Delete(key)
	if c.subjects.Len() == 0 {
		m.record.classes.Delete(class)
	}
}

// ClearSubject resets every predicate of a subject to a single unset slot.
func (m *Mapper) ClearSubject(class, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, s, err := m.subject("clear subject", class, key)
	if err != nil {
		return err
	}
	for _, pred := range s.Predicates() {
		s.preds.Set(pred, unsetValues())
	}
	return nil
}

// AddPredicate adds predicate to a subject with one unset slot. If the
// predicate exists, another unset slot is appended instead.
func (m *Mapper) AddPredicate(class, key, pred string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, s, err := m.subject("add predicate", class, key)
	if err != nil {
		return err
	}
	addPredicate(s, pred)
	return nil
}

func addPredicate(s *Subject, pred string) Values {
	vs, ok := s.preds.Get(pred)
	if ok {
		vs = append(vs, Unset())
	} else {
		vs = unsetValues()
	}
	s.preds.Set(pred, vs)
	return vs
}

// AddObject appends an unset slot to an existing predicate.
func (m *Mapper) AddObject(class, key, pred string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, vs, err := m.values("add object", class, key, pred)
	if err != nil {
		return err
	}
	s.preds.Set(pred, append(vs, Unset()))
	return nil
}

// SetObject stores raw in slot index of a predicate.
func (m *Mapper) SetObject(class, key, pred string, index int, raw string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, vs, err := m.values("set object", class, key, pred)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(vs) {
		return fail(&PreconditionError{Op: "set object", Class: class, Subject: key, Predicate: pred,
			Err: fmt.Errorf("%w: %d of %d", ErrObjectIndex, index, len(vs))})
	}
	vs[index] = Set(raw)
	return nil
}

// RemoveObject removes slot index of a predicate. The predicate stays in the
// record even when its last slot is removed.
func (m *Mapper) RemoveObject(class, key, pred string, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, vs, err := m.values("remove object", class, key, pred)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(vs) {
		return fail(&PreconditionError{Op: "remove object", Class: class, Subject: key, Predicate: pred,
			Err: fmt.Errorf("%w: %d of %d", ErrObjectIndex, index, len(vs))})
	}
	s.preds.Set(pred, append(vs[:index:index], vs[index+1:]...))
	return nil
}

// RecordToQuads converts one subject of the record to statements.
//
// The subject term is the IRI held by the id property, or a blank node
// labelled with the subject key when the record has no identifier. The
// rdf:type statement comes first. The id property, ignored predicates and
// predicates with only an unset slot produce no statements; every other set
// value produces one statement with a term of the kind chosen by kinds.
func (m *Mapper) RecordToQuads(class, key string, kinds KindResolver) ([]quad.Quad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, s, err := m.subject("record to quads", class, key)
	if err != nil {
		return nil, err
	}
	return m.recordToQuads(class, key, s, kinds), nil
}

func (m *Mapper) subjectTerm(key string, s *Subject) quad.Value {
	if vs, ok := s.preds.Get(m.idProperty); ok && len(vs) > 0 && vs[0].IsSet() {
		return quad.IRI(vs[0].Raw())
	}
	return quad.BNode(key)
}

func (m *Mapper) recordToQuads(class, key string, s *Subject, kinds KindResolver) []quad.Quad {
	subject := m.subjectTerm(key, s)
	out := []quad.Quad{{Subject: subject, Predicate: quad.IRI(rdf.Type), Object: quad.IRI(class)}}
	for p := s.preds.Oldest(); p != nil; p = p.Next() {
		pred := p.Key
		if pred == m.idProperty || p.Value.IsUnset() {
			continue
		}
		if _, ok := m.ignored[pred]; ok {
			if clog.V(2) {
				clog.Infof("not saving ignored predicate %s", pred)
			}
			continue
		}
		kind := kinds.PropertyNodeKind(class, pred, m.idProperty)
		for _, v := range p.Value {
			if !v.IsSet() {
				continue
			}
			out = append(out, quad.Quad{
				Subject:   subject,
				Predicate: quad.IRI(pred),
				Object:    kind.Make(v.Raw()),
			})
		}
	}
	return out
}

// QuadsToRecord adds the statements about subject in g to the record under
// class. The subject key is the raw value of the term. Predicates are
// expanded with the prefixes of g. An IRI subject without an explicit
// id property statement gets the id property set to its IRI.
func (m *Mapper) QuadsToRecord(class string, subject quad.Value, g *graph.Graph) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := graph.Raw(subject)
	s := m.addSubject(class, key)
	hasID := false
	for _, q := range g.SubjectQuads(subject) {
		pred := g.Prefixes().FullIRI(graph.Raw(q.Predicate))
		if pred == m.idProperty {
			hasID = true
		}
		setLast(s, pred, graph.Raw(q.Object))
	}
	if graph.IsIRI(subject) && !hasID {
		setLast(s, m.idProperty, key)
	}
}

func setLast(s *Subject, pred, raw string) {
	vs := addPredicate(s, pred)
	vs[len(vs)-1] = Set(raw)
}

// SaveNode writes one subject of the record to g.
//
// In edit mode the statements previously stored for the subject key, as an
// IRI or as a blank node, are removed first. When the record's identifier
// differs from the key, statements in g that point to the old IRI or blank
// node are re-pointed to the new IRI. All changes are applied to g as a single
// validated batch, so a failure leaves g unchanged. Finally the record is
// moved to the new key.
func (m *Mapper) SaveNode(class, key string, kinds KindResolver, g *graph.Graph, editMode bool) (SaveResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, s, err := m.subject("save node", class, key)
	if err != nil {
		mSaves.WithLabelValues("rejected").Inc()
		return SaveResult{}, err
	}

	quads := m.recordToQuads(class, key, s, kinds)
	subject := quads[0].Subject
	newKey := graph.Raw(subject)
	renamed := graph.IsIRI(subject) && newKey != key

	tx := graph.NewTransaction()
	if editMode {
		for _, old := range []quad.Value{quad.IRI(key), quad.BNode(key)} {
			for _, q := range g.SubjectQuads(old) {
				tx.RemoveQuad(q)
			}
		}
	}
	for _, q := range quads {
		tx.AddQuad(q)
	}
	rewritten := 0
	if editMode && renamed {
		for _, old := range []quad.Value{quad.IRI(key), quad.BNode(key)} {
			for _, q := range g.ObjectQuads(old) {
				if tx.Removes(q) {
					continue
				}
				tx.RemoveQuad(q)
				q.Object = subject
				tx.AddQuad(q)
				rewritten++
			}
		}
	}
	if err := g.ApplyTransaction(tx, graph.IgnoreOpts{IgnoreDup: true}); err != nil {
		mSaves.WithLabelValues("failed").Inc()
		clog.Errorf("form: cannot save %s %s: %v", class, key, err)
		return SaveResult{}, fmt.Errorf("form: save %s: %w", key, err)
	}
	mSaves.WithLabelValues("saved").Inc()
	mQuadsWritten.Add(float64(len(quads)))
	mRewrites.Add(float64(rewritten))
	if clog.V(2) {
		clog.Infof("saved %s %s as %s: %d statements, %d references", class, key, newKey, len(quads), rewritten)
	}

	if !renamed {
		return SaveResult{Class: class, Subject: key, Rewritten: rewritten}, nil
	}
	c.subjects.Delete(key)
	c.subjects.Set(newKey, s)
	return SaveResult{Class: class, Subject: newKey, Rewritten: rewritten}, nil
}
