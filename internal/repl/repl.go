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

// Package repl is an interactive shell for editing records against a
// shapes index and a data graph.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
	"github.com/peterh/liner"
	"gopkg.in/yaml.v3"

	"github.com/psychoinformatics-de/shacl-tulip/clog"
	"github.com/psychoinformatics-de/shacl-tulip/form"
	"github.com/psychoinformatics-de/shacl-tulip/graph"
	"github.com/psychoinformatics-de/shacl-tulip/voc"
)

const (
	ps1 = "tulip> "

	history = ".tulip_history"
)

const help = `Commands:
	:subject <class> [key]                 add a subject, a new anonymous key if none is given
	:load <class> <iri|_:label>            read a subject from the graph
	:pred <class> <key> <pred>             add a predicate or another empty value
	:add <class> <key> <pred>              add an empty value to a predicate
	:set <class> <key> <pred> <i> <value>  set value i of a predicate
	:rm <class> <key> <pred> <i>           remove value i of a predicate
	:clear <class> <key>                   reset all values of a subject
	:drop <class> <key>                    remove a subject
	:save <class> <key> [edit]             write a subject to the graph
	:show                                  print the record
	:quads                                 print the graph
	:a <quad>                              add a quad to the graph
	:d <quad>                              delete a quad from the graph
	:debug [t|f]                           toggle verbose logging
	help                                   this help
	exit                                   leave the shell
`

var errExit = errors.New("exit")

// Session holds the state edited by shell commands.
type Session struct {
	Mapper *form.Mapper
	Kinds  form.KindResolver
	Graph  *graph.Graph
	// Prefixes expand CURIEs given as class and predicate arguments.
	Prefixes *voc.Prefixes
	Out      io.Writer
}

func (s *Session) iri(arg string) string {
	if s.Prefixes == nil {
		return arg
	}
	return s.Prefixes.FullIRI(arg)
}

// term parses a subject argument: _:label is a blank node, anything else
// an IRI or CURIE.
func (s *Session) term(arg string) quad.Value {
	if strings.HasPrefix(arg, "_:") {
		return quad.BNode(arg[2:])
	}
	return quad.IRI(s.iri(arg))
}

func (s *Session) args(args string, min int, usage string) ([]string, error) {
	f := strings.Fields(args)
	if len(f) < min {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	return f, nil
}

// Exec runs one command line.
func (s *Session) Exec(line string) error {
	cmd, args := splitLine(line)
	switch cmd {
	case "":
		return nil
	case "help":
		fmt.Fprint(s.Out, help)
		return nil
	case "exit":
		return errExit
	case ":debug":
		args = strings.TrimSpace(args)
		var debug bool
		switch args {
		case "t":
			debug = true
		case "f":
			// Do nothing.
		default:
			var err error
			debug, err = strconv.ParseBool(args)
			if err != nil {
				return fmt.Errorf("cannot parse %q as a valid boolean - acceptable values: 't'|'true' or 'f'|'false'", args)
			}
		}
		if debug {
			clog.SetV(2)
		} else {
			clog.SetV(0)
		}
		fmt.Fprintf(s.Out, "Debug set to %t\n", debug)
		return nil
	case ":subject":
		f, err := s.args(args, 1, ":subject <class> [key]")
		if err != nil {
			return err
		}
		key := form.NewAnonymousKey()
		if len(f) > 1 {
			key = f[1]
		}
		s.Mapper.AddSubject(s.iri(f[0]), key)
		fmt.Fprintln(s.Out, key)
		return nil
	case ":load":
		f, err := s.args(args, 2, ":load <class> <iri|_:label>")
		if err != nil {
			return err
		}
		s.Mapper.QuadsToRecord(s.iri(f[0]), s.term(f[1]), s.Graph)
		return nil
	case ":pred":
		f, err := s.args(args, 3, ":pred <class> <key> <pred>")
		if err != nil {
			return err
		}
		return s.Mapper.AddPredicate(s.iri(f[0]), f[1], s.iri(f[2]))
	case ":add":
		f, err := s.args(args, 3, ":add <class> <key> <pred>")
		if err != nil {
			return err
		}
		return s.Mapper.AddObject(s.iri(f[0]), f[1], s.iri(f[2]))
	case ":set":
		f, err := s.args(args, 5, ":set <class> <key> <pred> <i> <value>")
		if err != nil {
			return err
		}
		i, err := strconv.Atoi(f[3])
		if err != nil {
			return fmt.Errorf("not an index: %q", f[3])
		}
		return s.Mapper.SetObject(s.iri(f[0]), f[1], s.iri(f[2]), i, strings.Join(f[4:], " "))
	case ":rm":
		f, err := s.args(args, 4, ":rm <class> <key> <pred> <i>")
		if err != nil {
			return err
		}
		i, err := strconv.Atoi(f[3])
		if err != nil {
			return fmt.Errorf("not an index: %q", f[3])
		}
		return s.Mapper.RemoveObject(s.iri(f[0]), f[1], s.iri(f[2]), i)
	case ":clear":
		f, err := s.args(args, 2, ":clear <class> <key>")
		if err != nil {
			return err
		}
		return s.Mapper.ClearSubject(s.iri(f[0]), f[1])
	case ":drop":
		f, err := s.args(args, 2, ":drop <class> <key>")
		if err != nil {
			return err
		}
		return s.Mapper.RemoveSubject(s.iri(f[0]), f[1])
	case ":save":
		f, err := s.args(args, 2, ":save <class> <key> [edit]")
		if err != nil {
			return err
		}
		edit := len(f) > 2 && f[2] == "edit"
		res, err := s.Mapper.SaveNode(s.iri(f[0]), f[1], s.Kinds, s.Graph, edit)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.Out, "saved %s as %s\n", res.Class, res.Subject)
		if res.Rewritten > 0 {
			fmt.Fprintf(s.Out, "%d references updated\n", res.Rewritten)
		}
		return nil
	case ":show":
		enc := yaml.NewEncoder(s.Out)
		enc.SetIndent(2)
		if err := enc.Encode(s.Mapper.Record()); err != nil {
			return err
		}
		return enc.Close()
	case ":quads":
		return s.Graph.Serialize(s.Out, graph.SerializeOptions{Format: "nquads"})
	case ":a":
		q, err := nquads.Parse(strings.TrimSpace(args))
		if err == nil {
			err = s.Graph.AddQuad(q)
		}
		if err != nil {
			return fmt.Errorf("not a valid quad: %v", err)
		}
		return nil
	case ":d":
		q, err := nquads.Parse(strings.TrimSpace(args))
		if err != nil {
			return fmt.Errorf("not a valid quad: %v", err)
		}
		if err = s.Graph.RemoveQuad(q); err != nil {
			return fmt.Errorf("error deleting: %v", err)
		}
		return nil
	}
	return fmt.Errorf("unknown command: %q", cmd)
}

// Repl reads commands from the terminal until exit or end of input.
func Repl(ctx context.Context, ses *Session) error {
	term, err := terminal(history)
	if os.IsNotExist(err) {
		fmt.Printf("creating new history file: %q\n", history)
	}
	defer persist(term, history)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line, err := term.Prompt(ps1)
		if err != nil {
			if err == io.EOF {
				fmt.Println()
				return nil
			}
			return err
		}

		term.AppendHistory(line)

		line = strings.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		err = ses.Exec(line)
		if err == errExit {
			return nil
		} else if err != nil {
			fmt.Fprintln(ses.Out, "Error:", err)
		}
	}
}

// Splits a line into a command and its arguments
// e.g. ":a b c d ." will be split into ":a" and " b c d ."
func splitLine(line string) (string, string) {
	var command, arguments string

	line = strings.TrimSpace(line)

	// An empty line/a line consisting of whitespace contains neither command nor arguments
	if len(line) > 0 {
		command = strings.Fields(line)[0]

		// A line containing only a command has no arguments
		if len(line) > len(command) {
			arguments = line[len(command):]
		}
	}

	return command, arguments
}

func terminal(path string) (*liner.State, error) {
	term := liner.NewLiner()

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c

		err := persist(term, history)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to properly clean up terminal: %v\n", err)
			os.Exit(1)
		}

		os.Exit(0)
	}()

	f, err := os.Open(path)
	if err != nil {
		return term, err
	}
	defer f.Close()
	_, err = term.ReadHistory(f)
	return term, err
}

func persist(term *liner.State, path string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0666)
	if err != nil {
		return fmt.Errorf("could not open %q to append history: %v", path, err)
	}
	defer f.Close()
	_, err = term.WriteHistory(f)
	if err != nil {
		return fmt.Errorf("could not write history to %q: %v", path, err)
	}
	return term.Close()
}
