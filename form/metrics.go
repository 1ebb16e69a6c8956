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

package form

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tulip_form_saves_count",
		Help: "Number of record saves by outcome.",
	}, []string{"result"})
	mQuadsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tulip_form_quads_written_count",
		Help: "Number of statements generated from records on save.",
	})
	mRewrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tulip_form_reference_rewrites_count",
		Help: "Number of statements re-pointed to a changed record identifier.",
	})
	mPreconditionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tulip_form_precondition_failures_count",
		Help: "Number of record operations rejected by a precondition.",
	}, []string{"op"})
)
