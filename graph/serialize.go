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
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cayleygraph/quad"
	_ "github.com/cayleygraph/quad/jsonld"
	"github.com/cayleygraph/quad/nquads"
	"github.com/piprate/json-gold/ld"
)

// DefaultFormat is the serialization format used when none is given.
const DefaultFormat = "nquads"

// SerializeOptions selects the output of Serialize.
type SerializeOptions struct {
	// Format is a name registered in the quad format registry.
	Format string
	// Compact makes JSON-LD output use the graph prefixes as @context.
	Compact bool
}

// Serialize writes all statements of the graph to w.
func (g *Graph) Serialize(w io.Writer, opts SerializeOptions) error {
	name := opts.Format
	if name == "" {
		name = DefaultFormat
	}
	if name == "jsonld" && opts.Compact {
		return g.writeCompactJSONLD(w)
	}
	f := quad.FormatByName(name)
	if f == nil || f.Writer == nil {
		return fmt.Errorf("unknown format %q", name)
	}
	qw := f.Writer(w)
	if _, err := quad.Copy(qw, g.NewReader()); err != nil {
		qw.Close()
		return fmt.Errorf("serialize %s: %w", name, err)
	}
	return qw.Close()
}

// SerializeString returns the serialized graph as text.
func (g *Graph) SerializeString(opts SerializeOptions) (string, error) {
	var buf bytes.Buffer
	if err := g.Serialize(&buf, opts); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func (g *Graph) writeCompactJSONLD(w io.Writer) error {
	var buf bytes.Buffer
	nw := nquads.NewWriter(&buf)
	if _, err := quad.Copy(nw, g.NewReader()); err != nil {
		return fmt.Errorf("serialize jsonld: %w", err)
	}
	if err := nw.Close(); err != nil {
		return err
	}

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"
	doc, err := proc.FromRDF(buf.String(), opts)
	if err != nil {
		return fmt.Errorf("serialize jsonld: %w", err)
	}

	ctx := make(map[string]interface{})
	for pref, ns := range g.prefixes.Map() {
		ctx[pref] = ns
	}
	out, err := proc.Compact(doc, map[string]interface{}{"@context": ctx}, ld.NewJsonLdOptions(""))
	if err != nil {
		return fmt.Errorf("compact jsonld: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
