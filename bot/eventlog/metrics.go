// Copyright 2026 The anonbot Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package eventlog

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	eventsWrittenCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "anonbot",
			Subsystem: "eventlog",
			Name:      "events_written_total",
			Help:      "The total number of events written to the log.",
		})
	writeFailuresCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "anonbot",
			Subsystem: "eventlog",
			Name:      "write_failures_total",
			Help:      "The total number of failed batch writes.",
		})
	batchSizeHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "anonbot",
			Subsystem: "eventlog",
			Name:      "batch_size",
			Help:      "Number of events coalesced into one physical write.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
		})
)

// InitMetrics registers all metrics in this file.
func InitMetrics(registry *prometheus.Registry) {
	registry.MustRegister(eventsWrittenCounter)
	registry.MustRegister(writeFailuresCounter)
	registry.MustRegister(batchSizeHistogram)
}
