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
	"fmt"

	"github.com/cayleygraph/quad"
	"github.com/spf13/cobra"

	"github.com/psychoinformatics-de/shacl-tulip/graph"
	"github.com/psychoinformatics-de/shacl-tulip/ingest"
)

func newClassesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "classes <file> [class]",
		Short: "Print the class hierarchy of a document, or the subclasses of one class.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := ingest.NewClassFilter()
			g, err := e.load(context.Background(), args[0], f)
			if err != nil {
				return err
			}
			pref := g.Prefixes()
			out := cmd.OutOrStdout()
			if len(args) == 2 {
				parent := quad.IRI(pref.FullIRI(args[1]))
				for _, c := range f.SubClasses(parent) {
					fmt.Fprintln(out, pref.ShortIRI(graph.Raw(c)))
				}
				return nil
			}
			g.ForEach(func(q quad.Quad) bool {
				fmt.Fprintf(out, "%s\t%s\n",
					pref.ShortIRI(graph.Raw(q.Subject)), pref.ShortIRI(graph.Raw(q.Object)))
				return true
			})
			return nil
		},
	}
}
