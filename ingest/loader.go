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

// Package ingest loads RDF documents into graphs.
//
// A Loader drives a Source token by token, records prefix declarations on
// the target graph and hands every statement to a Strategy, which decides
// whether and how it is stored. Listeners observe the progress as events.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cayleygraph/quad"

	"github.com/psychoinformatics-de/shacl-tulip/clog"
	"github.com/psychoinformatics-de/shacl-tulip/graph"
)

// State is the lifecycle state of a Loader.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "invalid"
	}
}

// EventKind identifies a loader notification.
type EventKind int

const (
	// EventPrefix is raised for every prefix declaration.
	EventPrefix EventKind = iota + 1
	// EventPrefixesLoaded is raised once all prefix declarations are known.
	EventPrefixesLoaded
	// EventQuad is raised for every statement stored by the strategy.
	EventQuad
	// EventGraphLoaded is raised when the source is exhausted and the
	// strategy completed successfully.
	EventGraphLoaded
	// EventFailed is raised when the load fails.
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventPrefix:
		return "prefix"
	case EventPrefixesLoaded:
		return "prefixesLoaded"
	case EventQuad:
		return "quad"
	case EventGraphLoaded:
		return "graphLoaded"
	case EventFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// Event is delivered to listeners during a load.
type Event struct {
	Kind      EventKind
	Prefix    string
	Namespace string
	Quad      quad.Quad
	Graph     *graph.Graph
	Err       error
}

// Listener receives loader events. Listeners are called synchronously in
// arrival order and must not start another load on the same Loader.
type Listener func(Event)

// ErrLoadInProgress is returned when Load is called while another load
// of the same Loader is running.
var ErrLoadInProgress = errors.New("load already in progress")

// LoadError is returned when a load fails.
type LoadError struct {
	// Stage is one of "read", "store", "complete" or "canceled".
	Stage string
	// Quad is the statement being handled when the failure happened, if any.
	Quad quad.Quad
	Err  error
}

func (e *LoadError) Error() string {
	if e.Quad.IsValid() {
		return fmt.Sprintf("load failed during %s of %v: %v", e.Stage, e.Quad, e.Err)
	}
	return fmt.Sprintf("load failed during %s: %v", e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Strategy decides how statements are stored during a load.
type Strategy interface {
	// HandleQuad is called for every statement of the source. It reports
	// whether the statement was newly stored in g.
	HandleQuad(g *graph.Graph, q quad.Quad) (bool, error)
	// Complete is called once the source is exhausted.
	Complete(g *graph.Graph) error
}

// StoreAll is the default strategy: every statement is stored.
type StoreAll struct{}

func (StoreAll) HandleQuad(g *graph.Graph, q quad.Quad) (bool, error) {
	return g.Insert(q)
}

func (StoreAll) Complete(*graph.Graph) error { return nil }

// Loader fills a graph from sources and tracks the load state.
type Loader struct {
	mu             sync.Mutex
	state          State
	prefixesLoaded bool
	g              *graph.Graph
	strategy       Strategy
	listeners      map[int]Listener
	order          []int
	nextListener   int
}

// NewLoader creates a loader writing to g using the given strategy.
// A nil graph creates a new one; a nil strategy stores every statement.
func NewLoader(g *graph.Graph, s Strategy) *Loader {
	if g == nil {
		g = graph.New()
	}
	if s == nil {
		s = StoreAll{}
	}
	return &Loader{g: g, strategy: s, listeners: make(map[int]Listener)}
}

// Graph returns the target graph.
func (l *Loader) Graph() *graph.Graph { return l.g }

// State returns the current state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Loaded reports whether the last load completed successfully.
func (l *Loader) Loaded() bool { return l.State() == Loaded }

// PrefixesLoaded reports whether all prefixes of the current or last load
// are known.
func (l *Loader) PrefixesLoaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.prefixesLoaded
}

// Subscribe registers a listener and returns a function removing it.
func (l *Loader) Subscribe(fn Listener) (cancel func()) {
	l.mu.Lock()
	id := l.nextListener
	l.nextListener++
	l.listeners[id] = fn
	l.order = append(l.order, id)
	l.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.listeners, id)
			for i, v := range l.order {
				if v == id {
					l.order = append(l.order[:i], l.order[i+1:]...)
					break
				}
			}
			l.mu.Unlock()
		})
	}
}

func (l *Loader) emit(ev Event) {
	l.mu.Lock()
	fns := make([]Listener, 0, len(l.order))
	for _, id := range l.order {
		fns = append(fns, l.listeners[id])
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (l *Loader) beginLoad() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == Loading {
		return ErrLoadInProgress
	}
	l.state = Loading
	l.prefixesLoaded = false
	return nil
}

func (l *Loader) finish(st State) {
	l.mu.Lock()
	l.state = st
	l.mu.Unlock()
	mLoads.WithLabelValues(st.String()).Inc()
}

func (l *Loader) markPrefixesLoaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.prefixesLoaded {
		return false
	}
	l.prefixesLoaded = true
	return true
}

// Load consumes src until io.EOF. It returns ErrLoadInProgress if another
// load is running, or a *LoadError if reading, storing or completing fails
// or ctx is canceled. The source is closed in all cases.
func (l *Loader) Load(ctx context.Context, src Source) error {
	if err := l.beginLoad(); err != nil {
		src.Close()
		return err
	}
	start := time.Now()
	defer func() {
		mLoadSeconds.Observe(time.Since(start).Seconds())
	}()

	err := l.run(ctx, src)
	if cerr := src.Close(); err == nil && cerr != nil {
		err = &LoadError{Stage: "read", Err: cerr}
	}
	if err != nil {
		l.finish(Failed)
		clog.Errorf("%v", err)
		l.emit(Event{Kind: EventFailed, Graph: l.g, Err: err})
		return err
	}
	l.finish(Loaded)
	l.emit(Event{Kind: EventGraphLoaded, Graph: l.g})
	return nil
}

func (l *Loader) prefixesDone() {
	if l.markPrefixesLoaded() {
		l.emit(Event{Kind: EventPrefixesLoaded, Graph: l.g})
	}
}

func (l *Loader) run(ctx context.Context, src Source) error {
	var n, stored int
	for {
		if err := ctx.Err(); err != nil {
			return &LoadError{Stage: "canceled", Err: err}
		}
		tok, err := src.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return &LoadError{Stage: "read", Err: err}
		}
		switch tok.Kind {
		case TokenPrefix:
			mPrefixes.Inc()
			l.g.Prefixes().Register(tok.Prefix, tok.Namespace)
			l.emit(Event{Kind: EventPrefix, Prefix: tok.Prefix, Namespace: tok.Namespace, Graph: l.g})
		case TokenPrefixEnd:
			l.prefixesDone()
		case TokenQuad:
			l.prefixesDone()
			n++
			mQuadsRead.Inc()
			ok, err := l.strategy.HandleQuad(l.g, tok.Quad)
			if err != nil {
				return &LoadError{Stage: "store", Quad: tok.Quad, Err: err}
			}
			if ok {
				stored++
				mQuadsStored.Inc()
				l.emit(Event{Kind: EventQuad, Quad: tok.Quad, Graph: l.g})
			}
			if clog.V(2) && n%10000 == 0 {
				clog.Infof("Read %d quads, stored %d.", n, stored)
			}
		}
	}
	l.prefixesDone()
	if err := l.strategy.Complete(l.g); err != nil {
		return &LoadError{Stage: "complete", Err: err}
	}
	if clog.V(1) {
		clog.Infof("Loaded %d quads, stored %d.", n, stored)
	}
	return nil
}
