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

package main

import (
	"flag"
	"fmt"
	"os"

	// Use glog as the logging backend.
	_ "github.com/psychoinformatics-de/shacl-tulip/clog/glog"

	"github.com/psychoinformatics-de/shacl-tulip/cmd/tulip/command"
)

// Filled in by `go build ldflags="-X main.Version=ver"`.
var (
	Version   string
	GitHash   string
	BuildDate string
)

func init() {
	flag.Set("logtostderr", "true")
}

func main() {
	root := command.NewRootCmd()
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	if Version != "" {
		root.Version = fmt.Sprintf("%s (%s) built %s", Version, GitHash, BuildDate)
	} else {
		root.Version = "snapshot"
	}
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
