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

	"github.com/cayleygraph/quad"
)

type Procedure int8

func (p Procedure) String() string {
	switch p {
	case +1:
		return "add"
	case -1:
		return "delete"
	default:
		return "invalid"
	}
}

// The different types of actions a transaction can do.
const (
	Add    Procedure = +1
	Delete Procedure = -1
)

// Delta is a single staged change of a graph.
type Delta struct {
	Quad   quad.Quad
	Action Procedure
}

// IgnoreOpts controls which failures ApplyDeltas tolerates.
type IgnoreOpts struct {
	IgnoreDup, IgnoreMissing bool
}

var (
	ErrQuadExists    = errors.New("quad exists")
	ErrQuadNotExist  = errors.New("quad does not exist")
	ErrInvalidAction = errors.New("invalid action")
	ErrInvalidQuad   = errors.New("invalid quad")
)

// DeltaError records an error and the delta that caused it.
type DeltaError struct {
	Delta Delta
	Err   error
}

func (e *DeltaError) Error() string {
	if !e.Delta.Quad.IsValid() {
		return e.Err.Error()
	}
	return e.Delta.Action.String() + " " + e.Delta.Quad.String() + ": " + e.Err.Error()
}

func (e *DeltaError) Unwrap() error { return e.Err }

// IsQuadExist returns whether an error is a DeltaError
// with the Err field equal to ErrQuadExists.
func IsQuadExist(err error) bool {
	return errors.Is(err, ErrQuadExists)
}

// IsQuadNotExist returns whether an error is a DeltaError
// with the Err field equal to ErrQuadNotExist.
func IsQuadNotExist(err error) bool {
	return errors.Is(err, ErrQuadNotExist)
}

// IsInvalidAction returns whether an error is a DeltaError
// with the Err field equal to ErrInvalidAction.
func IsInvalidAction(err error) bool {
	return errors.Is(err, ErrInvalidAction)
}

// IsInvalidQuad reports whether a statement was rejected for its shape.
func IsInvalidQuad(err error) bool {
	return errors.Is(err, ErrInvalidQuad)
}

// ValidateQuad checks the positional constraints of a statement:
// the subject is an IRI or a blank node, the predicate is an IRI,
// the object is set and the label, if any, is an IRI or a blank node.
func ValidateQuad(q quad.Quad) error {
	switch s := q.Subject.(type) {
	case quad.IRI:
		if s == "" {
			return ErrInvalidQuad
		}
	case quad.BNode:
		if s == "" {
			return ErrInvalidQuad
		}
	default:
		return ErrInvalidQuad
	}
	if p, ok := q.Predicate.(quad.IRI); !ok || p == "" {
		return ErrInvalidQuad
	}
	if q.Object == nil {
		return ErrInvalidQuad
	}
	switch q.Label.(type) {
	case nil, quad.IRI, quad.BNode:
	default:
		return ErrInvalidQuad
	}
	return nil
}
