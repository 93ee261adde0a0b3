package http

import (
	"time"

	"github.com/Flarenzy/netcollide/internal/domain"
)

// ErrorResponse is a simple envelope for error messages.
type ErrorResponse struct {
	Error string `json:"error" example:"snapshot unavailable"`
}

// CollisionResponse is one prefix seen more than once.
type CollisionResponse struct {
	Prefix string `json:"prefix" example:"10.0.5.0/24"`
	Count  int    `json:"count" example:"2"`
}

// OverlapResponse is a pair of distinct prefixes where outer contains inner.
type OverlapResponse struct {
	Outer string `json:"outer" example:"10.0.0.0/8"`
	Inner string `json:"inner" example:"10.0.5.0/24"`
}

// CollisionsResponse is the verdict for the persisted snapshot. Overlaps is
// only present when requested.
type CollisionsResponse struct {
	CollidingNetworks []string            `json:"colliding_networks" example:"10.0.5.0/24"`
	Collisions        []CollisionResponse `json:"collisions"`
	Overlaps          []OverlapResponse   `json:"overlaps,omitempty"`
}

// WorkloadFailureResponse names a workload skipped during a collection.
type WorkloadFailureResponse struct {
	ID    string `json:"id" example:"3f2a9c1b7d0e"`
	Name  string `json:"name" example:"web-1"`
	Error string `json:"error" example:"workload query failed: web-1: container is not running"`
}

// CollectionResponse summarizes one collection run.
type CollectionResponse struct {
	RunID       string                    `json:"run_id" example:"5f0c6f8e-1c7a-4d55-9a43-2f9b2d1c1e0a"`
	CollectedAt time.Time                 `json:"collected_at" example:"2024-05-10T15:04:05Z"`
	Workloads   int                       `json:"workloads" example:"3"`
	Prefixes    int                       `json:"prefixes" example:"2"`
	Failures    []WorkloadFailureResponse `json:"failures"`
}

func inventoryToResponse(inv domain.Inventory) []string {
	out := make([]string, 0, len(inv))
	for _, p := range inv {
		out = append(out, p.String())
	}
	return out
}

func analysisToResponse(analysis domain.Analysis, withOverlaps bool) CollisionsResponse {
	resp := CollisionsResponse{
		CollidingNetworks: inventoryToResponse(analysis.Report.Prefixes()),
		Collisions:        make([]CollisionResponse, 0, len(analysis.Report.Collisions)),
	}
	for _, c := range analysis.Report.Collisions {
		resp.Collisions = append(resp.Collisions, CollisionResponse{Prefix: c.Prefix.String(), Count: c.Count})
	}
	if withOverlaps {
		resp.Overlaps = make([]OverlapResponse, 0, len(analysis.Overlaps))
		for _, o := range analysis.Overlaps {
			resp.Overlaps = append(resp.Overlaps, OverlapResponse{Outer: o.Outer.String(), Inner: o.Inner.String()})
		}
	}
	return resp
}

func collectionToResponse(result domain.CollectionResult, at time.Time) CollectionResponse {
	resp := CollectionResponse{
		RunID:       result.RunID,
		CollectedAt: at.UTC(),
		Workloads:   result.Workloads,
		Prefixes:    len(result.Inventory),
		Failures:    make([]WorkloadFailureResponse, 0, len(result.Failures)),
	}
	for _, f := range result.Failures {
		item := WorkloadFailureResponse{ID: f.Workload.ID, Name: f.Workload.Name}
		if f.Err != nil {
			item.Error = f.Err.Error()
		}
		resp.Failures = append(resp.Failures, item)
	}
	return resp
}
