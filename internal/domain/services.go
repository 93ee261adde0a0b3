package domain

import "context"

type WorkloadLister interface {
	ListWorkloads(ctx context.Context) ([]Workload, error)
}

type InterfaceFetcher interface {
	FetchInterfaces(ctx context.Context, workload Workload) ([]InterfaceRecord, error)
}

// WorkloadSource is a runtime that can both enumerate workloads and
// introspect their interfaces.
type WorkloadSource interface {
	WorkloadLister
	InterfaceFetcher
}

type InventoryService interface {
	// Collect gathers a fresh inventory and overwrites the stored snapshot.
	Collect(ctx context.Context) (CollectionResult, error)
	Inventory(ctx context.Context) (Inventory, error)
	Analyze(ctx context.Context, withOverlaps bool) (Analysis, error)
}
