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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mQuadsRead = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tulip_ingest_quads_read_count",
		Help: "Number of statements read from sources.",
	})
	mQuadsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tulip_ingest_quads_stored_count",
		Help: "Number of statements newly stored by a load strategy.",
	})
	mPrefixes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tulip_ingest_prefixes_count",
		Help: "Number of prefix declarations read from sources.",
	})
	mLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tulip_ingest_loads_count",
		Help: "Number of finished loads by final state.",
	}, []string{"state"})
	mLoadSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "tulip_ingest_load_seconds",
		Help: "Time to ingest a complete source.",
	})
)
