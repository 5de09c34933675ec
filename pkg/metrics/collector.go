// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package metrics

import (
	"strconv"

	"github.com/consensys/go-beaver/pkg/sim"
	"github.com/prometheus/client_golang/prometheus"
)

// NAMESPACE prefixes the name of every exported metric.
const NAMESPACE = "beaver"

// Source provides snapshots of simulator statistics.  This is implemented by
// sim.Simulator.
type Source interface {
	Stats() sim.Stats
}

// Collector exposes the statistics of a simulator as prometheus metrics.
// Statistics are read whenever the collector is scraped, hence the collector
// should not be scraped concurrently with the simulator being stepped.
type Collector struct {
	source    Source
	loops     *prometheus.Desc
	steps     *prometheus.Desc
	rules     *prometheus.Desc
	proofs    *prometheus.Desc
	condition *prometheus.Desc
}

// NewCollector constructs a collector for a given source of statistics.
func NewCollector(source Source) *Collector {
	return &Collector{
		source: source,
		loops: prometheus.NewDesc(prometheus.BuildFQName(NAMESPACE, "", "loops_total"),
			"Number of simulator loops executed, by kind of move.", []string{"kind"}, nil),
		steps: prometheus.NewDesc(prometheus.BuildFQName(NAMESPACE, "", "steps_total"),
			"Number of base machine steps simulated.", nil, nil),
		rules: prometheus.NewDesc(prometheus.BuildFQName(NAMESPACE, "", "rules_proven"),
			"Number of rules proven.", nil, nil),
		proofs: prometheus.NewDesc(prometheus.BuildFQName(NAMESPACE, "", "proofs_total"),
			"Number of proofs attempted, by outcome.", []string{"outcome"}, nil),
		condition: prometheus.NewDesc(prometheus.BuildFQName(NAMESPACE, "", "condition"),
			"Operating condition of the simulator.", []string{"condition", "reason"}, nil),
	}
}

// Describe implementation for prometheus.Collector interface.
func (p *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- p.loops
	ch <- p.steps
	ch <- p.rules
	ch <- p.proofs
	ch <- p.condition
}

// Collect implementation for prometheus.Collector interface.
func (p *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := p.source.Stats()
	//
	ch <- prometheus.MustNewConstMetric(p.loops, prometheus.CounterValue, float64(stats.ChainMoves), "chain")
	ch <- prometheus.MustNewConstMetric(p.loops, prometheus.CounterValue, float64(stats.MacroMoves), "macro")
	ch <- prometheus.MustNewConstMetric(p.loops, prometheus.CounterValue, float64(stats.RuleMoves), "rule")
	ch <- prometheus.MustNewConstMetric(p.steps, prometheus.CounterValue, parseSteps(stats.TotalSteps))
	ch <- prometheus.MustNewConstMetric(p.rules, prometheus.GaugeValue, float64(stats.Rules))
	ch <- prometheus.MustNewConstMetric(p.proofs, prometheus.CounterValue,
		float64(stats.Proofs-stats.FailedProofs), "proven")
	ch <- prometheus.MustNewConstMetric(p.proofs, prometheus.CounterValue, float64(stats.FailedProofs), "failed")
	ch <- prometheus.MustNewConstMetric(p.condition, prometheus.GaugeValue, 1, stats.Condition.String(), stats.Reason)
}

// WriteTextfile writes the current statistics of a given source to a file in
// the prometheus text format, as used by the node exporter's textfile
// collector.
func WriteTextfile(filename string, source Source) error {
	registry := prometheus.NewRegistry()
	//
	if err := registry.Register(NewCollector(source)); err != nil {
		return err
	}
	//
	return prometheus.WriteToTextfile(filename, registry)
}

// Total steps are reported as a decimal string of arbitrary size.  Values
// beyond the range of a float are reported as +Inf.
func parseSteps(total string) float64 {
	val, err := strconv.ParseFloat(total, 64)
	//
	if err != nil && val == 0 {
		return 0
	}
	//
	return val
}

var _ Source = (*sim.Simulator)(nil)

var _ prometheus.Collector = (*Collector)(nil)
