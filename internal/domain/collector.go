package domain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type Collector struct {
	lister      WorkloadLister
	fetcher     InterfaceFetcher
	logger      *slog.Logger
	concurrency int
	newRunID    func() string
}

type CollectorOption func(*Collector)

// WithConcurrency bounds the number of interface fetches in flight. Values
// below 2 keep collection strictly sequential.
func WithConcurrency(n int) CollectorOption {
	return func(c *Collector) {
		if n < 1 {
			n = 1
		}
		c.concurrency = n
	}
}

func WithCollectorLogger(logger *slog.Logger) CollectorOption {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithRunIDGenerator(fn func() string) CollectorOption {
	return func(c *Collector) {
		if fn != nil {
			c.newRunID = fn
		}
	}
}

func NewCollector(lister WorkloadLister, fetcher InterfaceFetcher, opts ...CollectorOption) *Collector {
	c := &Collector{
		lister:      lister,
		fetcher:     fetcher,
		logger:      slog.Default(),
		concurrency: 1,
		newRunID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type fetchOutcome struct {
	records []InterfaceRecord
	err     error
}

// Collect builds a fresh inventory from every running workload. Failures are
// contained: a failed listing yields an empty inventory and a failed fetch
// skips that workload only.
func (c *Collector) Collect(ctx context.Context) CollectionResult {
	result := CollectionResult{
		RunID:     c.newRunID(),
		Inventory: Inventory{},
	}
	logger := c.logger.With("run_id", result.RunID)

	workloads, err := c.lister.ListWorkloads(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrWorkloadListUnavailable, err)
		logger.WarnContext(ctx, "continuing with zero workloads", "err", err.Error())
		return result
	}
	result.Workloads = len(workloads)

	outcomes := c.fetchAll(ctx, workloads)
	for i, workload := range workloads {
		outcome := outcomes[i]
		if outcome.err != nil {
			failure := WorkloadFailure{
				Workload: workload,
				Err:      fmt.Errorf("%w: %s: %v", ErrWorkloadQueryFailed, workload.Label(), outcome.err),
			}
			result.Failures = append(result.Failures, failure)
			logger.ErrorContext(ctx, "skipping workload", "workload", workload.ID, "err", failure.Err.Error())
			continue
		}
		result.Inventory = appendPrefixes(ctx, logger, result.Inventory, workload, outcome.records)
	}

	logger.InfoContext(ctx, "collection finished",
		"workloads", result.Workloads,
		"prefixes", len(result.Inventory),
		"failures", len(result.Failures),
	)
	return result
}

// fetchAll returns one outcome per workload, indexed by enumeration position,
// so the caller can assemble the inventory in order no matter how the fetches
// were scheduled.
func (c *Collector) fetchAll(ctx context.Context, workloads []Workload) []fetchOutcome {
	outcomes := make([]fetchOutcome, len(workloads))
	fetch := func(i int) {
		if err := ctx.Err(); err != nil {
			outcomes[i] = fetchOutcome{err: err}
			return
		}
		records, err := c.fetcher.FetchInterfaces(ctx, workloads[i])
		outcomes[i] = fetchOutcome{records: records, err: err}
	}

	if c.concurrency <= 1 {
		for i := range workloads {
			fetch(i)
		}
		return outcomes
	}

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i := range workloads {
		g.Go(func() error {
			fetch(i)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func appendPrefixes(ctx context.Context, logger *slog.Logger, inv Inventory, workload Workload, records []InterfaceRecord) Inventory {
	for _, iface := range records {
		if iface.Name == LoopbackInterface {
			continue
		}
		for _, assignment := range iface.Addresses {
			if !assignment.Complete() {
				continue
			}
			prefix, err := Canonicalize(assignment.Address, assignment.Bits)
			if err != nil {
				logger.DebugContext(ctx, "skipping assignment",
					"workload", workload.ID,
					"interface", iface.Name,
					"err", err.Error(),
				)
				continue
			}
			inv = append(inv, prefix)
		}
	}
	return inv
}
