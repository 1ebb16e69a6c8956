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

package command

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psychoinformatics-de/shacl-tulip/clog"
	"github.com/psychoinformatics-de/shacl-tulip/form"
	"github.com/psychoinformatics-de/shacl-tulip/graph"
	"github.com/psychoinformatics-de/shacl-tulip/ingest"
	"github.com/psychoinformatics-de/shacl-tulip/internal/config"
	"github.com/psychoinformatics-de/shacl-tulip/shapes"
)

const (
	flagConfig     = "config"
	flagIDProperty = "id_property"
	flagMaxDepth   = "max_depth"
	flagLoadFormat = "load_format"
	flagDumpFormat = "dump_format"
	flagCompact    = "compact"
)

// env carries the settings shared by all commands.
type env struct {
	v   *viper.Viper
	cfg *config.Config
}

func formatNames(reader bool) string {
	var names []string
	if reader {
		names = append(names, ingest.FormatTurtle)
	}
	for _, f := range quad.Formats() {
		if (reader && f.Reader != nil) || (!reader && f.Writer != nil) {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return `"` + strings.Join(names, `", "`) + `"`
}

// NewRootCmd creates the tulip command tree.
func NewRootCmd() *cobra.Command {
	e := &env{v: config.New()}
	root := &cobra.Command{
		Use:          "tulip",
		Short:        "Inspect SHACL shapes and edit records of RDF graphs.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog complains if flags were never parsed
			flag.CommandLine.Parse([]string{})
			path, _ := cmd.Flags().GetString(flagConfig)
			if err := config.ReadFile(e.v, path); err != nil {
				return err
			}
			if f := e.v.ConfigFileUsed(); f != "" && clog.V(1) {
				clog.Infof("using config file %q", f)
			}
			cfg, err := config.Load(e.v)
			if err != nil {
				return err
			}
			e.cfg = cfg
			return nil
		},
	}
	pf := root.PersistentFlags()
	pf.StringP(flagConfig, "c", "", "path to an explicit configuration file")
	pf.String(flagIDProperty, config.DefaultIDProperty, "predicate holding record identifiers")
	pf.Int(flagMaxDepth, graph.DefaultMaxDepth, "maximal nesting of resolved anonymous nodes")
	pf.String(flagLoadFormat, "", "input format instead of auto-detection ("+formatNames(true)+")")
	pf.String(flagDumpFormat, graph.DefaultFormat, "output format ("+formatNames(false)+")")
	pf.Bool(flagCompact, false, "compact JSON-LD output with the document prefixes")
	e.v.BindPFlag(config.KeyIDProperty, pf.Lookup(flagIDProperty))
	e.v.BindPFlag(config.KeyMaxDepth, pf.Lookup(flagMaxDepth))
	e.v.BindPFlag(config.KeyLoadFormat, pf.Lookup(flagLoadFormat))
	e.v.BindPFlag(config.KeyDumpFormat, pf.Lookup(flagDumpFormat))
	e.v.BindPFlag(config.KeyDumpCompact, pf.Lookup(flagCompact))

	root.AddCommand(
		newShapesCmd(e),
		newNodeKindCmd(e),
		newClassesCmd(e),
		newRecordCmd(e),
		newConvertCmd(e),
		newReplCmd(e),
	)
	return root
}

func (e *env) load(ctx context.Context, path string, s ingest.Strategy) (*graph.Graph, error) {
	src, err := ingest.OpenFile(path, e.cfg.LoadFormat)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	l := ingest.NewLoader(nil, s)
	if err := l.Load(ctx, src); err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	if clog.V(1) {
		clog.Infof("loaded %q in %v", path, time.Since(start))
	}
	return l.Graph(), nil
}

func (e *env) loadShapes(ctx context.Context, path string) (*shapes.Index, error) {
	idx := shapes.New(shapes.WithMaxDepth(e.cfg.MaxDepth))
	if _, err := e.load(ctx, path, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

func (e *env) mapper() (*form.Mapper, error) {
	return form.New(e.cfg.IDProperty, form.WithIgnoredPredicates(e.cfg.IgnoredPredicates...))
}

// shapeIRI finds a shape by short name, CURIE or IRI.
func shapeIRI(idx *shapes.Index, arg string) (string, error) {
	if s, ok := idx.ShapeByName(arg); ok {
		return s.IRI, nil
	}
	iri := idx.Prefixes().FullIRI(arg)
	if _, ok := idx.Shape(iri); !ok {
		return "", fmt.Errorf("no node shape %q", arg)
	}
	return iri, nil
}

// term parses a subject argument: _:label is a blank node, anything else
// an IRI or CURIE.
func term(g *graph.Graph, arg string) quad.Value {
	if strings.HasPrefix(arg, "_:") {
		return quad.BNode(arg[2:])
	}
	return quad.IRI(g.Prefixes().FullIRI(arg))
}
