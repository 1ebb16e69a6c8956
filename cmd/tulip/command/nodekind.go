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

	"github.com/spf13/cobra"
)

func newNodeKindCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "nodekind <shapes file> <shape> <property>...",
		Short: "Print the term kind used for values of shape properties.",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := e.loadShapes(context.Background(), args[0])
			if err != nil {
				return err
			}
			shape, err := shapeIRI(idx, args[1])
			if err != nil {
				return err
			}
			pref := idx.Prefixes()
			out := cmd.OutOrStdout()
			for _, prop := range args[2:] {
				k := idx.PropertyNodeKind(shape, pref.FullIRI(prop), e.cfg.IDProperty)
				fmt.Fprintf(out, "%s\t%s", prop, k.Kind)
				if k.Datatype != "" {
					fmt.Fprintf(out, "\t%s", pref.ShortIRI(string(k.Datatype)))
				}
				if k.Fallback {
					fmt.Fprint(out, "\t(fallback)")
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
