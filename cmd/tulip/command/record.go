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
	"errors"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/psychoinformatics-de/shacl-tulip/graph"
	"github.com/psychoinformatics-de/shacl-tulip/ingest"
)

func newRecordCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record <shapes file> <data file> <shape> <subject>",
		Short: "Print the record of one subject, as the form editor sees it.",
		Long: `Print the record of one subject, as the form editor sees it.

The subject is an IRI, a CURIE using the data file prefixes, or _:label for
a blank node. With --quads the statements regenerated from the record are
printed instead.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			idx, err := e.loadShapes(ctx, args[0])
			if err != nil {
				return err
			}
			g, err := e.load(ctx, args[1], ingest.StoreAll{})
			if err != nil {
				return err
			}
			class, err := shapeIRI(idx, args[2])
			if err != nil {
				return err
			}
			subject := term(g, args[3])
			if len(g.SubjectQuads(subject)) == 0 {
				return errors.New("no statements about " + args[3])
			}
			m, err := e.mapper()
			if err != nil {
				return err
			}
			m.QuadsToRecord(class, subject, g)

			out := cmd.OutOrStdout()
			if q, _ := cmd.Flags().GetBool("quads"); q {
				quads, err := m.RecordToQuads(class, graph.Raw(subject), idx)
				if err != nil {
					return err
				}
				w := nquads.NewWriter(out)
				if _, err := quad.Copy(w, quad.NewReader(quads)); err != nil {
					return err
				}
				return w.Close()
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(m.Record()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().Bool("quads", false, "print the statements generated from the record")
	return cmd
}
