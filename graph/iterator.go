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
	"io"
	"sort"

	"github.com/cayleygraph/quad"
)

// Match returns an iterator over statements matching the pattern. A nil
// position in the pattern matches any term. The iterator snapshots the
// candidate set: statements removed during iteration are skipped, statements
// added during iteration are not visited.
func (g *Graph) Match(pattern quad.Quad) *Iterator {
	it := &Iterator{g: g, pattern: pattern}
	var (
		best  quadIDs
		bound bool
	)
	for dir := quad.Subject; dir <= quad.Label; dir++ {
		v := pattern.Get(dir)
		if v == nil {
			continue
		}
		bound = true
		id, ok := g.idMap[quad.StringOf(v)]
		if !ok {
			// never seen this term, nothing can match
			return it
		}
		set := g.index.get(dir, id)
		if len(set) == 0 {
			return it
		}
		if best == nil || len(set) < len(best) {
			best = set
		}
	}
	if !bound {
		it.ids = make([]int64, 0, g.size)
		for i := 1; i < len(g.log); i++ {
			if !g.log[i].Deleted {
				it.ids = append(it.ids, int64(i))
			}
		}
		return it
	}
	it.ids = make([]int64, 0, len(best))
	for id := range best {
		it.ids = append(it.ids, id)
	}
	sort.Slice(it.ids, func(i, j int) bool { return it.ids[i] < it.ids[j] })
	return it
}

// Iterator walks statements of a graph lazily.
type Iterator struct {
	g       *Graph
	pattern quad.Quad
	ids     []int64
	off     int
	cur     quad.Quad
}

// Next advances the iterator. It returns false when no statements are left.
func (it *Iterator) Next() bool {
	for it.off < len(it.ids) {
		e := it.g.log[it.ids[it.off]]
		it.off++
		if e.Deleted || !matches(it.pattern, e.Quad) {
			continue
		}
		it.cur = e.Quad
		return true
	}
	it.cur = quad.Quad{}
	return false
}

// Quad returns the current statement.
func (it *Iterator) Quad() quad.Quad {
	return it.cur
}

// Close releases the candidate set.
func (it *Iterator) Close() error {
	it.ids = nil
	return nil
}

func matches(pattern, q quad.Quad) bool {
	for dir := quad.Subject; dir <= quad.Label; dir++ {
		if v := pattern.Get(dir); v != nil && v != q.Get(dir) {
			return false
		}
	}
	return true
}

// NewReader returns a reader over the statements currently in the graph.
func (g *Graph) NewReader() quad.ReadCloser {
	return &quadReader{it: g.Match(quad.Quad{})}
}

type quadReader struct {
	it *Iterator
}

func (r *quadReader) ReadQuad() (quad.Quad, error) {
	if r.it.Next() {
		return r.it.Quad(), nil
	}
	return quad.Quad{}, io.EOF
}

func (r *quadReader) Close() error { return r.it.Close() }
