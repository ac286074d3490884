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

package bot

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	commandsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "anonbot",
			Subsystem: "bot",
			Name:      "commands_processed_total",
			Help:      "The total number of commands processed by user actors.",
		}, []string{"command", "result"})
	actionsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "anonbot",
			Subsystem: "bot",
			Name:      "actions_processed_total",
			Help:      "The total number of peer actions processed by user actors.",
		}, []string{"action", "result"})
	activeActors = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "anonbot",
			Subsystem: "bot",
			Name:      "active_actors",
			Help:      "The number of running user actors.",
		})
)

// InitMetrics registers all metrics in this file.
func InitMetrics(registry *prometheus.Registry) {
	registry.MustRegister(commandsProcessed)
	registry.MustRegister(actionsProcessed)
	registry.MustRegister(activeActors)
}
