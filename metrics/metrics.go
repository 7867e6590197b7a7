// Package metrics exposes memory store state as Prometheus metrics via a
// custom collector, so scrapes always see a fresh Stats snapshot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stratamem/strata-go-sdk/memory"
)

var (
	poolBlocksDesc = prometheus.NewDesc(
		"strata_memory_pool_blocks",
		"Number of blocks in a memory pool.",
		[]string{"pool"}, nil,
	)
	poolTokensDesc = prometheus.NewDesc(
		"strata_memory_pool_tokens",
		"Token total of a memory pool.",
		[]string{"pool"}, nil,
	)
	poolUtilizationDesc = prometheus.NewDesc(
		"strata_memory_pool_utilization",
		"Token total of a memory pool divided by its budget.",
		[]string{"pool"}, nil,
	)
	operationsDesc = prometheus.NewDesc(
		"strata_memory_operations_total",
		"Cumulative count of memory operations by type.",
		[]string{"op"}, nil,
	)
	nexusDesc = prometheus.NewDesc(
		"strata_memory_nexus_points",
		"Number of eviction-exempt blocks by significance.",
		[]string{"significance"}, nil,
	)
	lastRetrievalDesc = prometheus.NewDesc(
		"strata_memory_last_retrieval_seconds",
		"Duration of the most recent retrieval.",
		nil, nil,
	)
)

// Collector implements prometheus.Collector over a memory store.
type Collector struct {
	store *memory.Store
}

// NewCollector wraps store for registration with a Prometheus registry.
func NewCollector(store *memory.Store) *Collector {
	return &Collector{store: store}
}

// Describe sends the static metric descriptors.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- poolBlocksDesc
	ch <- poolTokensDesc
	ch <- poolUtilizationDesc
	ch <- operationsDesc
	ch <- nexusDesc
	ch <- lastRetrievalDesc
}

// Collect snapshots the store and emits one metric per pool gauge, counter
// and nexus significance.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.store.Stats()

	pools := []struct {
		name  string
		stats memory.PoolStats
	}{
		{"working", st.Working},
		{"short_term", st.ShortTerm},
		{"long_term", st.LongTerm},
	}
	for _, p := range pools {
		ch <- prometheus.MustNewConstMetric(poolBlocksDesc, prometheus.GaugeValue,
			float64(p.stats.Blocks), p.name)
		ch <- prometheus.MustNewConstMetric(poolTokensDesc, prometheus.GaugeValue,
			float64(p.stats.Tokens), p.name)
		ch <- prometheus.MustNewConstMetric(poolUtilizationDesc, prometheus.GaugeValue,
			p.stats.Utilization, p.name)
	}

	ops := map[string]uint64{
		"promotion":  st.Promotions,
		"demotion":   st.Demotions,
		"merge":      st.Merges,
		"retrieval":  st.Retrievals,
		"generation": st.Generations,
	}
	for op, n := range ops {
		ch <- prometheus.MustNewConstMetric(operationsDesc, prometheus.CounterValue,
			float64(n), op)
	}

	for sig, n := range st.NexusPoints {
		ch <- prometheus.MustNewConstMetric(nexusDesc, prometheus.GaugeValue,
			float64(n), string(sig))
	}

	ch <- prometheus.MustNewConstMetric(lastRetrievalDesc, prometheus.GaugeValue,
		st.LastRetrieval.Seconds())
}
