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
	"gopkg.in/yaml.v3"

	"github.com/psychoinformatics-de/shacl-tulip/shapes"
)

type shapeDoc struct {
	IRI        string                   `yaml:"iri"`
	Name       string                   `yaml:"name"`
	Attributes map[string]interface{}   `yaml:"attributes,omitempty"`
	Properties []map[string]interface{} `yaml:"properties,omitempty"`
}

type indexDoc struct {
	Prefixes map[string]string                 `yaml:"prefixes,omitempty"`
	Shapes   []shapeDoc                        `yaml:"shapes"`
	Groups   map[string]map[string]interface{} `yaml:"groups,omitempty"`
	Warnings []string                          `yaml:"warnings,omitempty"`
}

func newShapeDoc(s *shapes.Shape) shapeDoc {
	doc := shapeDoc{IRI: s.IRI, Name: s.Name, Attributes: s.Attributes.Plain()}
	for _, p := range s.Properties {
		doc.Properties = append(doc.Properties, p.Plain())
	}
	return doc
}

func newIndexDoc(idx *shapes.Index) indexDoc {
	doc := indexDoc{Prefixes: idx.Prefixes().Map(), Warnings: idx.Warnings()}
	for _, s := range idx.Shapes() {
		doc.Shapes = append(doc.Shapes, newShapeDoc(s))
	}
	for _, iri := range idx.Groups() {
		if doc.Groups == nil {
			doc.Groups = make(map[string]map[string]interface{})
		}
		g, _ := idx.Group(iri)
		doc.Groups[iri] = g.Plain()
	}
	return doc
}

func newShapesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shapes <file>",
		Short: "Print the node shapes and property groups of a shapes document.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := e.loadShapes(context.Background(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if names, _ := cmd.Flags().GetBool("names"); names {
				for _, name := range idx.Names() {
					s, _ := idx.ShapeByName(name)
					fmt.Fprintf(out, "%s\t%s\n", name, s.IRI)
				}
				return nil
			}
			var v interface{} = newIndexDoc(idx)
			if name, _ := cmd.Flags().GetString("shape"); name != "" {
				iri, err := shapeIRI(idx, name)
				if err != nil {
					return err
				}
				s, _ := idx.Shape(iri)
				v = newShapeDoc(s)
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().Bool("names", false, "only list short names and IRIs")
	cmd.Flags().String("shape", "", "only print the shape with this name, CURIE or IRI")
	return cmd
}
