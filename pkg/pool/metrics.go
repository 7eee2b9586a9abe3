// Copyright (c) 2025, the cellgate authors.
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

package pool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pool occupancy metrics
	poolIdleSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cellgate_kernel_pool_idle",
			Help: "Number of kernel sessions currently idle in the pool",
		},
	)

	poolBusySessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cellgate_kernel_pool_busy",
			Help: "Number of kernel sessions currently leased to requests",
		},
	)

	poolWaiters = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cellgate_kernel_pool_waiters",
			Help: "Number of requests waiting for a kernel session",
		},
	)

	// Checkout metrics
	poolCheckoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cellgate_kernel_checkouts_total",
			Help: "Total number of successful kernel checkouts",
		},
	)

	poolCheckoutTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cellgate_kernel_checkout_timeouts_total",
			Help: "Total number of kernel checkouts abandoned before a session freed up",
		},
	)

	poolCheckoutWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cellgate_kernel_checkout_wait_seconds",
			Help:    "Time requests spent waiting for a kernel session",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 20},
		},
	)

	kernelReplacements = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cellgate_kernel_replacements_total",
			Help: "Total number of damaged kernel sessions replaced",
		},
	)
)
