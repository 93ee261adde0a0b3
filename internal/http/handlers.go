package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Flarenzy/netcollide/internal/domain"
)

func encode[T any](w http.ResponseWriter, _ *http.Request, status int, v T) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if err := encode(w, r, status, ErrorResponse{Error: msg}); err != nil {
		a.Logger.ErrorContext(r.Context(), "responding to client", "err", err.Error())
	}
}

// serviceError maps a service failure onto a status and client message.
func (a *API) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrSnapshotUnavailable) {
		a.writeError(w, r, http.StatusServiceUnavailable, "snapshot unavailable")
		return
	}
	a.writeError(w, r, http.StatusInternalServerError, "internal server error")
}

// @Summary Health check
// @Tags health
// @Success 200 {string} string "ok"
// @Router /healthz [get]
func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// @Summary Readiness check
// @Tags health
// @Success 200 {string} string "ready"
// @Failure 503 {string} string "snapshot store unavailable"
// @Router /readyz [get]
func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if a.Health != nil {
		if err := a.Health.Ping(ctx); err != nil {
			a.Logger.ErrorContext(ctx, "snapshot store ping failed", "err", err.Error())
			http.Error(w, "snapshot store unavailable", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// @Summary Persisted inventory
// @Description Prefixes from the last collection in encounter order, duplicates kept.
// @Tags inventory
// @Produce json
// @Success 200 {array} string
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /inventory [get]
func (a *API) handleGetInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inv, err := a.Service.Inventory(ctx)
	if err != nil {
		a.Logger.ErrorContext(ctx, "reading inventory", "err", err.Error())
		a.serviceError(w, r, err)
		return
	}
	if err := encode(w, r, http.StatusOK, inventoryToResponse(inv)); err != nil {
		a.Logger.ErrorContext(ctx, "responding to client with inventory", "err", err.Error())
	}
}

// @Summary Run a collection
// @Description Enumerates workloads, gathers their prefixes and overwrites the snapshot.
// @Tags inventory
// @Produce json
// @Success 201 {object} CollectionResponse
// @Failure 500 {object} ErrorResponse
// @Router /collections [post]
func (a *API) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := a.Service.Collect(ctx)
	if err != nil {
		a.Logger.ErrorContext(ctx, "running collection", "err", err.Error())
		a.writeError(w, r, http.StatusInternalServerError, "internal server error while saving snapshot")
		return
	}
	if err := encode(w, r, http.StatusCreated, collectionToResponse(result, time.Now())); err != nil {
		a.Logger.ErrorContext(ctx, "responding to client", "err", err.Error())
	}
}

// @Summary Collision report
// @Tags collisions
// @Produce json
// @Param overlaps query bool false "Also report containment pairs"
// @Success 200 {object} CollisionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /collisions [get]
func (a *API) handleGetCollisions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	withOverlaps, err := overlapsRequested(r)
	if err != nil {
		a.Logger.InfoContext(ctx, "bad collisions query", "err", err.Error())
		a.writeError(w, r, http.StatusBadRequest, "bad request")
		return
	}

	analysis, err := a.Service.Analyze(ctx, withOverlaps)
	if err != nil {
		a.Logger.ErrorContext(ctx, "checking collisions", "err", err.Error())
		a.serviceError(w, r, err)
		return
	}
	if err := encode(w, r, http.StatusOK, analysisToResponse(analysis, withOverlaps)); err != nil {
		a.Logger.ErrorContext(ctx, "responding to client", "err", err.Error())
	}
}
