package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/inspi-writer001/feesplit/internal/domain"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.FeeSplits == nil || m.HTTPRequests == nil || m.OutboxPublished == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.ObserveHTTP("GET", "/health", 200, time.Millisecond)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestNewTwiceOnSeparateRegistries(t *testing.T) {
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}

func TestObserveFeeSplit(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveFeeSplit(domain.KindOK, domain.Split{Amount: 1000, Fee: 20, Net: 980}, 5*time.Millisecond)
	m.ObserveFeeSplit("insufficient_balance", domain.Split{Amount: 1000, Fee: 20, Net: 980}, time.Millisecond)

	if got := testutil.ToFloat64(m.FeeSplits.WithLabelValues(domain.KindOK)); got != 1 {
		t.Fatalf("expected 1 successful split, got %v", got)
	}

	if got := testutil.ToFloat64(m.FeeSplits.WithLabelValues("insufficient_balance")); got != 1 {
		t.Fatalf("expected 1 failed split, got %v", got)
	}

	if got := testutil.ToFloat64(m.FeesCollected); got != 20 {
		t.Fatalf("expected only the successful fee to be counted, got %v", got)
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{200: "2xx", 201: "2xx", 302: "3xx", 404: "4xx", 409: "4xx", 500: "5xx"}

	for status, want := range tests {
		if got := statusClass(status); got != want {
			t.Fatalf("statusClass(%d) = %s, want %s", status, got, want)
		}
	}
}
