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

// Package decompressor sniffs compressed RDF documents.
package decompressor

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"io"
)

// Kind is the detected compression of a stream.
type Kind int

const (
	Raw Kind = iota
	Gzip
	Bzip2
)

func (k Kind) String() string {
	switch k {
	case Gzip:
		return "gzip"
	case Bzip2:
		return "bzip2"
	default:
		return "raw"
	}
}

const (
	gzipMagic  = "\x1f\x8b"
	b2zipMagic = "BZh"
)

// New detects the file type of an io.Reader between
// bzip, gzip, or raw RDF document.
func New(r io.Reader) (io.Reader, error) {
	dr, _, err := Detect(r)
	return dr, err
}

// Detect is like New, but also reports the detected compression.
// Inputs shorter than a magic number are passed through as raw.
func Detect(r io.Reader) (io.Reader, Kind, error) {
	br := bufio.NewReader(r)
	buf, err := br.Peek(3)
	if err != nil && err != io.EOF {
		return nil, Raw, err
	}
	switch {
	case len(buf) >= 2 && bytes.Equal(buf[:2], []byte(gzipMagic)):
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, Gzip, err
		}
		return gr, Gzip, nil
	case len(buf) >= 3 && bytes.Equal(buf[:3], []byte(b2zipMagic)):
		return bzip2.NewReader(br), Bzip2, nil
	default:
		return br, Raw, nil
	}
}
