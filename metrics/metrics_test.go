package metrics_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/stratamem/strata-go-sdk/memory"
	"github.com/stratamem/strata-go-sdk/metrics"
)

func TestCollectorRegistersAndGathers(t *testing.T) {
	ctx := context.Background()
	store := memory.New(nil)
	if _, err := store.Add(ctx, "metric fodder block", memory.SignificanceUser); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := store.RetrieveRelevant(ctx, "metric fodder", 1); err != nil {
		t.Fatalf("RetrieveRelevant: %v", err)
	}

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(metrics.NewCollector(store)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	byName := make(map[string]bool)
	for _, mf := range families {
		byName[mf.GetName()] = true
	}
	for _, want := range []string{
		"strata_memory_pool_blocks",
		"strata_memory_pool_tokens",
		"strata_memory_pool_utilization",
		"strata_memory_operations_total",
		"strata_memory_nexus_points",
		"strata_memory_last_retrieval_seconds",
	} {
		if !byName[want] {
			t.Errorf("metric family %q missing from gather", want)
		}
	}
}

func TestCollectorReportsPoolState(t *testing.T) {
	ctx := context.Background()
	store := memory.New(nil)
	for _, content := range []string{"one two three", "four five six"} {
		if _, err := store.Add(ctx, content, memory.SignificanceUser); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(metrics.NewCollector(store)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	for _, mf := range families {
		if mf.GetName() != "strata_memory_pool_blocks" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "pool" && lp.GetValue() == "working" {
					if got := m.GetGauge().GetValue(); got != 2 {
						t.Errorf("working pool blocks gauge = %v, want 2", got)
					}
					return
				}
			}
		}
	}
	t.Fatal("working pool gauge not found")
}
