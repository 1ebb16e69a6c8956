// Copyright 2014 The Cayley Authors. All rights reserved.
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

package repl

import (
	"bytes"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/require"

	"github.com/psychoinformatics-de/shacl-tulip/form"
	"github.com/psychoinformatics-de/shacl-tulip/graph"
	"github.com/psychoinformatics-de/shacl-tulip/shapes"
	"github.com/psychoinformatics-de/shacl-tulip/voc"
)

var testSplitLines = []struct {
	line              string
	expectedCommand   string
	expectedArguments string
	err               error
}{
	{
		line:              ":a arg1 arg2 arg3 .",
		expectedCommand:   ":a",
		expectedArguments: " arg1 arg2 arg3 .",
	},
	{
		line:              ":debug t",
		expectedCommand:   ":debug",
		expectedArguments: " t",
	},
	{
		line: "",
		// expectedCommand is nil
		// expectedArguments is nil
	},
	{
		line:              `:d <http://one.example/subject1> <http://one.example/predicate1> <http://one.example/object1> . # comments here`,
		expectedCommand:   ":d",
		expectedArguments: ` <http://one.example/subject1> <http://one.example/predicate1> <http://one.example/object1> . # comments here`,
	},
	{
		line:              `  :a  subject  "predicate with spaces" object  . `,
		expectedCommand:   ":a",
		expectedArguments: `  subject  "predicate with spaces" object  .`,
	},
}

func TestSplitLines(t *testing.T) {
	for _, testcase := range testSplitLines {
		command, arguments := splitLine(testcase.line)

		if testcase.expectedCommand != command {
			t.Errorf("Error splitting lines: got: %v expected: %v", command, testcase.expectedCommand)
		}

		if testcase.expectedArguments != arguments {
			t.Errorf("Error splitting lines: got: %v expected: %v", arguments, testcase.expectedArguments)
		}
	}
}

type literals struct{}

func (literals) PropertyNodeKind(_, prop, _ string) shapes.NodeKind {
	if prop == "https://example.org/knows" {
		return shapes.NodeKind{Kind: shapes.IRI}
	}
	return shapes.NodeKind{Kind: shapes.Literal}
}

func newSession(t *testing.T) (*Session, *bytes.Buffer) {
	m, err := form.New("https://example.org/id")
	require.NoError(t, err)
	var out bytes.Buffer
	return &Session{
		Mapper:   m,
		Kinds:    literals{},
		Graph:    graph.New(),
		Prefixes: voc.NewPrefixes(map[string]string{"ex": "https://example.org/"}),
		Out:      &out,
	}, &out
}

func TestSessionEditAndSave(t *testing.T) {
	ses, out := newSession(t)
	for _, line := range []string{
		":a <https://example.org/bob> <https://example.org/knows> <https://example.org/alice> .",
		":subject ex:Person k1",
		":pred ex:Person k1 ex:id",
		":set ex:Person k1 ex:id 0 https://example.org/alice",
		":pred ex:Person k1 ex:name",
		":set ex:Person k1 ex:name 0 Alice Liddell",
		":save ex:Person k1",
		":set ex:Person https://example.org/alice ex:id 0 https://example.org/ali",
		":save ex:Person https://example.org/alice edit",
	} {
		require.NoError(t, ses.Exec(line), line)
	}
	require.Contains(t, out.String(), "saved https://example.org/Person as https://example.org/ali\n1 references updated\n")

	g := ses.Graph
	require.Equal(t, 3, g.Size())
	require.True(t, g.HasQuad(quad.MakeIRI("https://example.org/bob", "https://example.org/knows", "https://example.org/ali", "")))
	require.Equal(t, []quad.Value{quad.String("Alice Liddell")},
		g.Objects(quad.IRI("https://example.org/ali"), quad.IRI("https://example.org/name")))

	out.Reset()
	require.NoError(t, ses.Exec(":show"))
	require.Contains(t, out.String(), "Alice Liddell")
}

func TestSessionLoadBlankSubject(t *testing.T) {
	ses, _ := newSession(t)
	require.NoError(t, ses.Exec(`:a _:b1 <https://example.org/name> "Bob" .`))
	require.NoError(t, ses.Exec(":load ex:Person _:b1"))

	sub, ok := ses.Mapper.Record().Subject("https://example.org/Person", "b1")
	require.True(t, ok)
	vs, ok := sub.Values("https://example.org/name")
	require.True(t, ok)
	require.Equal(t, []string{"Bob"}, vs.Raw())
	_, ok = sub.Values("https://example.org/id")
	require.False(t, ok)
}

func TestSessionErrors(t *testing.T) {
	ses, _ := newSession(t)
	require.Error(t, ses.Exec(":bogus"))
	require.Error(t, ses.Exec(":pred ex:Person"))
	require.ErrorIs(t, ses.Exec(":pred ex:Person k1 ex:name"), form.ErrClassNotFound)
	require.Error(t, ses.Exec(":a not a quad"))
	require.Equal(t, errExit, ses.Exec("exit"))
	require.NoError(t, ses.Exec(""))
}
