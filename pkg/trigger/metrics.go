/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package trigger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// triggerFiringsCount is used to indicate the number of trigger firings
var triggerFiringsCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "trigger",
	Name:      "fired_total",
	Help:      "Total number of trigger firings",
}, []string{"strategy"})

// triggerMergesCount is used to indicate the number of window merges reconciled
var triggerMergesCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "trigger",
	Name:      "merged_total",
	Help:      "Total number of window merges reconciled",
}, []string{"strategy"})

// triggerFinishedCount is used to indicate the number of windows whose trigger finished
var triggerFinishedCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "trigger",
	Name:      "finished_total",
	Help:      "Total number of windows whose trigger finished",
}, []string{"strategy"})
