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
	"bytes"
	"strings"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
	"github.com/stretchr/testify/require"
)

func TestSerializeNQuads(t *testing.T) {
	g := makeGraph(t)
	text, err := g.SerializeString(SerializeOptions{})
	require.NoError(t, err)
	require.Equal(t, len(simpleGraph), len(strings.Split(text, "\n")))
	require.Contains(t, text, `<http://example.com/alice> <http://example.com/name> "Alice" .`)

	// the output parses back into the same graph
	back := New()
	_, err = quad.Copy(back, nquads.NewReader(strings.NewReader(text), true))
	require.NoError(t, err)
	require.Equal(t, g.Size(), back.Size())
	for _, sq := range simpleGraph {
		require.True(t, back.HasQuad(sq), "missing %v", sq)
	}
}

func TestSerializeUnknownFormat(t *testing.T) {
	g := makeGraph(t)
	var buf bytes.Buffer
	err := g.Serialize(&buf, SerializeOptions{Format: "no-such-format"})
	require.Error(t, err)
}

func TestSerializeCompactJSONLD(t *testing.T) {
	g := New()
	g.Prefixes().Register("ex", ex)
	require.NoError(t, g.AddQuad(q("alice", "name", quad.String("Alice"))))
	text, err := g.SerializeString(SerializeOptions{Format: "jsonld", Compact: true})
	require.NoError(t, err)
	require.Contains(t, text, `"@context"`)
	require.Contains(t, text, `"ex:alice"`)
	require.Contains(t, text, `"Alice"`)
}
