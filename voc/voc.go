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

// Package voc implements per-document prefix maps and CURIE conversion.
package voc

import (
	"sort"
	"strings"
	"sync"

	"github.com/cayleygraph/quad/voc"
)

// Prefixes is a mapping of document prefixes (without the trailing colon)
// to namespace IRIs. The zero value is ready to use.
type Prefixes struct {
	mu       sync.RWMutex
	prefixes map[string]string
}

// NewPrefixes creates a prefix map from prefix-namespace pairs.
func NewPrefixes(m map[string]string) *Prefixes {
	p := &Prefixes{}
	for pref, ns := range m {
		p.Register(pref, ns)
	}
	return p
}

// Register associates a given prefix with a namespace IRI.
// A trailing colon in the prefix is ignored. Registering a prefix again
// replaces the namespace.
func (p *Prefixes) Register(pref string, ns string) {
	pref = strings.TrimSuffix(pref, ":")
	p.mu.Lock()
	if p.prefixes == nil {
		p.prefixes = make(map[string]string)
	}
	p.prefixes[pref] = ns
	p.mu.Unlock()
}

// Lookup returns the namespace registered for a prefix.
func (p *Prefixes) Lookup(pref string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ns, ok := p.prefixes[strings.TrimSuffix(pref, ":")]
	return ns, ok
}

// Len returns the number of registered prefixes.
func (p *Prefixes) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.prefixes)
}

// Reset removes all prefixes.
func (p *Prefixes) Reset() {
	p.mu.Lock()
	p.prefixes = nil
	p.mu.Unlock()
}

// Map returns a copy of the prefix map.
func (p *Prefixes) Map() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]string, len(p.prefixes))
	for pref, ns := range p.prefixes {
		out[pref] = ns
	}
	return out
}

// List enumerates all registered namespaces, sorted by prefix.
// Prefixes in the result carry the trailing colon, as in the quad registry.
func (p *Prefixes) List() []voc.Namespace {
	p.mu.RLock()
	out := make([]voc.Namespace, 0, len(p.prefixes))
	for pref, ns := range p.prefixes {
		out = append(out, voc.Namespace{Prefix: pref + ":", Full: ns})
	}
	p.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

// ShortIRI replaces the longest matching namespace in iri with its prefix.
// The IRI is returned unchanged if no namespace matches.
//
//	ShortIRI("http://www.w3.org/ns/shacl#path") // returns "sh:path"
func (p *Prefixes) ShortIRI(iri string) string {
	if iri == "" {
		return iri
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	var (
		best   string
		bestNS string
	)
	for pref, ns := range p.prefixes {
		if ns == "" || !strings.HasPrefix(iri, ns) {
			continue
		}
		if len(ns) > len(bestNS) || (len(ns) == len(bestNS) && pref < best) {
			best, bestNS = pref, ns
		}
	}
	if bestNS == "" {
		return iri
	}
	return best + ":" + iri[len(bestNS):]
}

// FullIRI expands a CURIE with a known prefix into a full IRI.
// Values without a colon or with an unknown prefix are returned unchanged.
//
//	FullIRI("sh:path") // returns "http://www.w3.org/ns/shacl#path"
func (p *Prefixes) FullIRI(curie string) string {
	i := strings.IndexByte(curie, ':')
	if i < 0 {
		return curie
	}
	ns, ok := p.Lookup(curie[:i])
	if !ok {
		return curie
	}
	return ns + curie[i+1:]
}
