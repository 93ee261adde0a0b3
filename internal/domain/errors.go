package domain

import "errors"

var (
	ErrWorkloadListUnavailable = errors.New("workload list unavailable")
	ErrWorkloadQueryFailed     = errors.New("workload query failed")
	ErrSnapshotUnavailable     = errors.New("snapshot unavailable")
	ErrInvalidPrefix           = errors.New("invalid prefix")
)
