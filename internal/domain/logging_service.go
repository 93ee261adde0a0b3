package domain

import (
	"context"
	"log/slog"
)

type loggingInventoryService struct {
	logger *slog.Logger
	next   InventoryService
}

func NewLoggingInventoryService(logger *slog.Logger, next InventoryService) InventoryService {
	if logger == nil || next == nil {
		return next
	}

	return &loggingInventoryService{
		logger: logger,
		next:   next,
	}
}

func (s *loggingInventoryService) Collect(ctx context.Context) (CollectionResult, error) {
	result, err := s.next.Collect(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "collection failed", "run_id", result.RunID, "err", err.Error())
		return result, err
	}

	s.logger.InfoContext(ctx, "snapshot written", "run_id", result.RunID, "prefixes", len(result.Inventory))
	return result, nil
}

func (s *loggingInventoryService) Inventory(ctx context.Context) (Inventory, error) {
	inv, err := s.next.Inventory(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "load inventory failed", "err", err.Error())
	}
	return inv, err
}

func (s *loggingInventoryService) Analyze(ctx context.Context, withOverlaps bool) (Analysis, error) {
	analysis, err := s.next.Analyze(ctx, withOverlaps)
	if err != nil {
		s.logger.ErrorContext(ctx, "collision check failed", "err", err.Error())
		return Analysis{}, err
	}

	s.logger.DebugContext(ctx, "collision check finished",
		"colliding", len(analysis.Report.Collisions),
		"overlaps", len(analysis.Overlaps),
	)
	return analysis, nil
}

type loggingWorkloadSource struct {
	logger *slog.Logger
	next   WorkloadSource
}

func NewLoggingWorkloadSource(logger *slog.Logger, next WorkloadSource) WorkloadSource {
	if logger == nil || next == nil {
		return next
	}

	return &loggingWorkloadSource{
		logger: logger,
		next:   next,
	}
}

func (s *loggingWorkloadSource) ListWorkloads(ctx context.Context) ([]Workload, error) {
	workloads, err := s.next.ListWorkloads(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list workloads failed", "err", err.Error())
		return workloads, err
	}

	s.logger.DebugContext(ctx, "workloads listed", "count", len(workloads))
	return workloads, nil
}

func (s *loggingWorkloadSource) FetchInterfaces(ctx context.Context, workload Workload) ([]InterfaceRecord, error) {
	records, err := s.next.FetchInterfaces(ctx, workload)
	if err != nil {
		s.logger.ErrorContext(ctx, "fetch interfaces failed", "workload", workload.ID, "name", workload.Name, "err", err.Error())
		return records, err
	}

	s.logger.DebugContext(ctx, "interfaces fetched", "workload", workload.ID, "interfaces", len(records))
	return records, nil
}
