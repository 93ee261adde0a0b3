package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Flarenzy/netcollide/internal/domain"
)

type stubService struct {
	result   domain.CollectionResult
	analysis domain.Analysis
	err      error
}

func (s stubService) Collect(context.Context) (domain.CollectionResult, error) {
	return s.result, s.err
}

func (s stubService) Inventory(context.Context) (domain.Inventory, error) {
	return s.result.Inventory, s.err
}

func (s stubService) Analyze(context.Context, bool) (domain.Analysis, error) {
	return s.analysis, s.err
}

func TestInstrumentedServiceRecordsCollection(t *testing.T) {
	rec := NewRecorder()
	svc := NewInventoryService(rec, stubService{result: domain.CollectionResult{
		Workloads: 3,
		Inventory: domain.Inventory{"10.0.5.0/24", "10.0.5.0/24"},
		Failures:  []domain.WorkloadFailure{{Workload: domain.Workload{ID: "c"}}},
	}})

	_, err := svc.Collect(context.Background())
	require.NoError(t, err)
	_, err = svc.Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.collections))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.workloadFailures))
	assert.Equal(t, 3.0, testutil.ToFloat64(rec.workloads))
	assert.Equal(t, 2.0, testutil.ToFloat64(rec.prefixes))
	assert.InDelta(t, float64(time.Now().Unix()), testutil.ToFloat64(rec.lastCollection), 5)
}

func TestInstrumentedServiceSkipsFailedAnalysis(t *testing.T) {
	rec := NewRecorder()
	rec.colliding.Set(4)
	svc := NewInventoryService(rec, stubService{err: domain.ErrSnapshotUnavailable})

	_, err := svc.Analyze(context.Background(), true)
	assert.True(t, errors.Is(err, domain.ErrSnapshotUnavailable))
	assert.Equal(t, 4.0, testutil.ToFloat64(rec.colliding))
}

func TestInstrumentedServiceRecordsAnalysis(t *testing.T) {
	rec := NewRecorder()
	svc := NewInventoryService(rec, stubService{analysis: domain.Analysis{
		Report:   domain.CollisionReport{Collisions: []domain.Collision{{Prefix: "10.0.5.0/24", Count: 2}}},
		Overlaps: []domain.Overlap{{Outer: "10.0.0.0/8", Inner: "10.0.5.0/24"}},
	}})

	_, err := svc.Analyze(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.colliding))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.overlaps))
}

func TestHandlerExposesMetrics(t *testing.T) {
	rec := NewRecorder()
	rec.ObserveCollection(domain.CollectionResult{Workloads: 1}, time.Unix(1700000000, 0))

	srv := httptest.NewServer(rec.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "netcollide_collections_total 1")
	assert.Contains(t, string(body), "netcollide_last_collection_timestamp_seconds 1.7e+09")
}

func TestNewInventoryServiceWithoutRecorderReturnsNext(t *testing.T) {
	next := stubService{}
	assert.Equal(t, domain.InventoryService(next), NewInventoryService(nil, next))
}
