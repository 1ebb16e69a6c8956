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
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/spf13/cobra"

	"github.com/psychoinformatics-de/shacl-tulip/clog"
	"github.com/psychoinformatics-de/shacl-tulip/graph"
	"github.com/psychoinformatics-de/shacl-tulip/ingest"
	"github.com/psychoinformatics-de/shacl-tulip/internal/config"
)

// dumpFormat picks the output format: an explicit setting wins, then the
// file extension, then the configured default.
func (e *env) dumpFormat(cmd *cobra.Command, path string) string {
	if cmd.Flags().Changed(flagDumpFormat) || e.v.InConfig(config.KeyDumpFormat) {
		return e.cfg.DumpFormat
	}
	ext := filepath.Ext(strings.TrimSuffix(path, ".gz"))
	if f := quad.FormatByExt(ext); f != nil && f.Writer != nil {
		return f.Name
	}
	return e.cfg.DumpFormat
}

func writeGraph(g *graph.Graph, path string, opts graph.SerializeOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file %q: %v", path, err)
	}
	defer f.Close()
	var w io.Writer = f
	if filepath.Ext(path) == ".gz" {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}
	if clog.V(1) {
		clog.Infof("writing %s to %q", opts.Format, path)
	}
	return g.Serialize(w, opts)
}

func newConvertCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "convert <input> <output>",
		Aliases: []string{"conv"},
		Short:   "Convert an RDF document between supported formats.",
		Long: `Convert an RDF document between supported formats.

Turtle, N-Quads and JSON-LD are read, optionally gzip or bzip2 compressed.
The output format follows --dump_format or the output file extension; "-"
writes to stdout.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := e.load(context.Background(), args[0], ingest.StoreAll{})
			if err != nil {
				return err
			}
			opts := graph.SerializeOptions{
				Format:  e.dumpFormat(cmd, args[1]),
				Compact: e.cfg.DumpCompact,
			}
			if args[1] == "-" {
				return g.Serialize(cmd.OutOrStdout(), opts)
			}
			if err := writeGraph(g, args[1], opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d statements were written to %q\n", g.Size(), args[1])
			return nil
		},
	}
}
