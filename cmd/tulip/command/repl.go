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
	"os"

	"github.com/spf13/cobra"

	"github.com/psychoinformatics-de/shacl-tulip/graph"
	"github.com/psychoinformatics-de/shacl-tulip/ingest"
	"github.com/psychoinformatics-de/shacl-tulip/internal/repl"
)

func newReplCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "repl <shapes file> [data file]",
		Short: "Edit records interactively.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			idx, err := e.loadShapes(ctx, args[0])
			if err != nil {
				return err
			}
			g := graph.New()
			if len(args) == 2 {
				if g, err = e.load(ctx, args[1], ingest.StoreAll{}); err != nil {
					return err
				}
			}
			m, err := e.mapper()
			if err != nil {
				return err
			}
			pref := g.Prefixes()
			for _, ns := range idx.Prefixes().List() {
				if _, ok := pref.Lookup(ns.Prefix); !ok {
					pref.Register(ns.Prefix, ns.Full)
				}
			}
			return repl.Repl(ctx, &repl.Session{
				Mapper:   m,
				Kinds:    idx,
				Graph:    g,
				Prefixes: pref,
				Out:      os.Stdout,
			})
		},
	}
}
