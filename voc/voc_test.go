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

package voc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var casesShortIRI = []struct {
	full  string
	short string
}{
	{full: "http://example.com/name", short: "ex:name"},
	{full: "http://example.com/sub/name", short: "exs:name"},
	{full: "https://other.org/x", short: "https://other.org/x"},
}

func TestShortIRI(t *testing.T) {
	var p Prefixes
	p.Register("ex:", "http://example.com/")
	p.Register("exs", "http://example.com/sub/")
	for _, c := range casesShortIRI {
		s := p.ShortIRI(c.full)
		if s != c.short {
			t.Fatal("unexpected short iri:", s)
		}
		if f := p.FullIRI(s); f != c.full {
			t.Fatal("unexpected full iri:", f)
		}
	}
}

func TestFullIRI(t *testing.T) {
	p := NewPrefixes(map[string]string{"dlthings": "https://concepts.datalad.org/s/things/v1/"})
	require.Equal(t, "https://concepts.datalad.org/s/things/v1/id", p.FullIRI("dlthings:id"))
	require.Equal(t, "unknown:id", p.FullIRI("unknown:id"))
	require.Equal(t, "plain", p.FullIRI("plain"))
}

func TestList(t *testing.T) {
	p := NewPrefixes(map[string]string{"b": "http://b/", "a": "http://a/"})
	list := p.List()
	require.Len(t, list, 2)
	require.Equal(t, "a:", list[0].Prefix)
	require.Equal(t, "http://b/", list[1].Full)
	require.Equal(t, 2, p.Len())
	p.Reset()
	require.Equal(t, 0, p.Len())
}
