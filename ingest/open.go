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

package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cayleygraph/quad"
	_ "github.com/cayleygraph/quad/jsonld"
	"github.com/cayleygraph/quad/nquads"

	"github.com/psychoinformatics-de/shacl-tulip/internal/decompressor"
)

// FormatTurtle is the format name of Turtle documents.
const FormatTurtle = "turtle"

// FormatOf guesses a format name from a file name. Compression suffixes
// are ignored.
func FormatOf(path string) string {
	name := strings.TrimSuffix(strings.TrimSuffix(path, ".gz"), ".bz2")
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".ttl", ".turtle":
		return FormatTurtle
	case "":
		return ""
	}
	if f := quad.FormatByExt(ext); f != nil {
		return f.Name
	}
	return ""
}

// NewSource creates a source decoding r in the named format. The stream may
// be gzip or bzip2 compressed.
func NewSource(r io.Reader, format string) (Source, error) {
	r, err := decompressor.New(r)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatTurtle, "ttl":
		return NewTurtleSource(r)
	case "nquads", "":
		return NewQuadSource(nquads.NewReader(r, true), nil), nil
	}
	f := quad.FormatByName(format)
	if f == nil {
		return nil, fmt.Errorf("unknown quad format %q", format)
	} else if f.Reader == nil {
		return nil, fmt.Errorf("decoding of %q is not supported", format)
	}
	return NewQuadSource(f.Reader(r), nil), nil
}

// OpenFile opens a local RDF document. An empty format is guessed from the
// file extension.
func OpenFile(path, format string) (Source, error) {
	if format == "" {
		format = FormatOf(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file %q: %v", path, err)
	}
	src, err := NewSource(f, format)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileSource{Source: src, f: f}, nil
}

type fileSource struct {
	Source
	f *os.File
}

func (s *fileSource) Close() error {
	err := s.Source.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}
