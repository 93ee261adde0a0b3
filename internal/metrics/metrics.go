// Package metrics exposes collection and collision figures to Prometheus.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Flarenzy/netcollide/internal/domain"
)

const namespace = "netcollide"

type Recorder struct {
	registry *prometheus.Registry

	collections      prometheus.Counter
	workloadFailures prometheus.Counter
	workloads        prometheus.Gauge
	prefixes         prometheus.Gauge
	lastCollection   prometheus.Gauge
	colliding        prometheus.Gauge
	overlaps         prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		collections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collections_total",
			Help:      "Number of inventory collections run.",
		}),
		workloadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workload_query_failures_total",
			Help:      "Number of workloads skipped because their interfaces could not be fetched.",
		}),
		workloads: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workloads",
			Help:      "Workloads enumerated by the last collection.",
		}),
		prefixes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_prefixes",
			Help:      "Entries in the last collected inventory.",
		}),
		lastCollection: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_collection_timestamp_seconds",
			Help:      "Unix time of the last collection.",
		}),
		colliding: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "colliding_prefixes",
			Help:      "Distinct prefixes seen more than once in the last analyzed snapshot.",
		}),
		overlaps: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "overlapping_prefix_pairs",
			Help:      "Containment pairs found by the last overlap analysis.",
		}),
	}

	r.registry.MustRegister(
		r.collections,
		r.workloadFailures,
		r.workloads,
		r.prefixes,
		r.lastCollection,
		r.colliding,
		r.overlaps,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ObserveCollection(result domain.CollectionResult, at time.Time) {
	r.collections.Inc()
	r.workloadFailures.Add(float64(len(result.Failures)))
	r.workloads.Set(float64(result.Workloads))
	r.prefixes.Set(float64(len(result.Inventory)))
	r.lastCollection.Set(float64(at.Unix()))
}

func (r *Recorder) ObserveAnalysis(analysis domain.Analysis, withOverlaps bool) {
	r.colliding.Set(float64(len(analysis.Report.Collisions)))
	if withOverlaps {
		r.overlaps.Set(float64(len(analysis.Overlaps)))
	}
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

type instrumentedService struct {
	recorder *Recorder
	next     domain.InventoryService
	now      func() time.Time
}

// NewInventoryService records every successful collection and analysis made
// through next.
func NewInventoryService(recorder *Recorder, next domain.InventoryService) domain.InventoryService {
	if recorder == nil || next == nil {
		return next
	}
	return &instrumentedService{recorder: recorder, next: next, now: time.Now}
}

func (s *instrumentedService) Collect(ctx context.Context) (domain.CollectionResult, error) {
	result, err := s.next.Collect(ctx)
	s.recorder.ObserveCollection(result, s.now())
	return result, err
}

func (s *instrumentedService) Inventory(ctx context.Context) (domain.Inventory, error) {
	return s.next.Inventory(ctx)
}

func (s *instrumentedService) Analyze(ctx context.Context, withOverlaps bool) (domain.Analysis, error) {
	analysis, err := s.next.Analyze(ctx, withOverlaps)
	if err == nil {
		s.recorder.ObserveAnalysis(analysis, withOverlaps)
	}
	return analysis, err
}
