package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"slices"
	"testing"
)

type stubSource struct {
	workloads []Workload
	listErr   error
	records   map[string][]InterfaceRecord
	failures  map[string]error
}

func (s stubSource) ListWorkloads(context.Context) ([]Workload, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.workloads, nil
}

func (s stubSource) FetchInterfaces(_ context.Context, workload Workload) ([]InterfaceRecord, error) {
	if err := s.failures[workload.ID]; err != nil {
		return nil, err
	}
	return s.records[workload.ID], nil
}

func assign(address string, bits int) AddressAssignment {
	return AddressAssignment{Address: netip.MustParseAddr(address), Bits: bits}
}

func iface(name string, addrs ...AddressAssignment) InterfaceRecord {
	return InterfaceRecord{Name: name, Addresses: addrs}
}

func quietCollector(source WorkloadSource, opts ...CollectorOption) (*Collector, *captureHandler) {
	handler := &captureHandler{}
	opts = append([]CollectorOption{
		WithCollectorLogger(slog.New(handler)),
		WithRunIDGenerator(func() string { return "run-test" }),
	}, opts...)
	return NewCollector(source, source, opts...), handler
}

func scenarioSource() stubSource {
	return stubSource{
		workloads: []Workload{{ID: "a"}, {ID: "b"}},
		records: map[string][]InterfaceRecord{
			"a": {iface("eth0", assign("10.0.5.7", 24))},
			"b": {
				iface("eth0", assign("10.0.5.200", 24)),
				iface("lo", assign("127.0.0.1", 8)),
			},
		},
	}
}

func TestCollectEndToEndScenario(t *testing.T) {
	collector, _ := quietCollector(scenarioSource())

	result := collector.Collect(context.Background())

	want := Inventory{"10.0.5.0/24", "10.0.5.0/24"}
	if !slices.Equal(result.Inventory, want) {
		t.Fatalf("expected inventory %v, got %v", want, result.Inventory)
	}
	if result.RunID != "run-test" {
		t.Fatalf("unexpected run id: %q", result.RunID)
	}

	report := Detect(result.Inventory)
	if len(report.Collisions) != 1 {
		t.Fatalf("expected 1 collision, got %v", report.Collisions)
	}
	if report.Collisions[0] != (Collision{Prefix: "10.0.5.0/24", Count: 2}) {
		t.Fatalf("unexpected collision: %+v", report.Collisions[0])
	}
}

func TestCollectSkipsFailedWorkloadAndLogs(t *testing.T) {
	source := scenarioSource()
	source.workloads = []Workload{{ID: "a"}, {ID: "c", Name: "broken"}, {ID: "b"}}
	source.failures = map[string]error{"c": errors.New("exit status 127")}
	collector, handler := quietCollector(source)

	result := collector.Collect(context.Background())

	if !slices.Equal(result.Inventory, Inventory{"10.0.5.0/24", "10.0.5.0/24"}) {
		t.Fatalf("unexpected inventory: %v", result.Inventory)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(result.Failures))
	}
	failure := result.Failures[0]
	if failure.Workload.ID != "c" || !errors.Is(failure.Err, ErrWorkloadQueryFailed) {
		t.Fatalf("unexpected failure: %+v", failure)
	}
	if !slices.Contains(handler.messages(), "skipping workload") {
		t.Fatalf("expected failure to be logged, got %q", handler.messages())
	}
}

func TestCollectListFailureYieldsEmptyInventory(t *testing.T) {
	collector, handler := quietCollector(stubSource{listErr: errors.New("docker daemon not running")})

	result := collector.Collect(context.Background())

	if result.Inventory == nil || len(result.Inventory) != 0 {
		t.Fatalf("expected empty non-nil inventory, got %#v", result.Inventory)
	}
	if len(handler.records) != 1 || handler.records[0].Level != slog.LevelWarn {
		t.Fatalf("expected a single warning, got %q", handler.messages())
	}
}

func TestCollectExcludesLoopback(t *testing.T) {
	collector, _ := quietCollector(stubSource{
		workloads: []Workload{{ID: "a"}},
		records: map[string][]InterfaceRecord{
			"a": {iface("lo", assign("127.0.0.1", 8), assign("::1", 128), assign("10.9.9.9", 24))},
		},
	})

	result := collector.Collect(context.Background())

	if len(result.Inventory) != 0 {
		t.Fatalf("expected loopback to contribute nothing, got %v", result.Inventory)
	}
}

func TestCollectSkipsIncompleteAssignments(t *testing.T) {
	collector, _ := quietCollector(stubSource{
		workloads: []Workload{{ID: "a"}},
		records: map[string][]InterfaceRecord{
			"a": {iface("eth0",
				AddressAssignment{Bits: 24},
				AddressAssignment{Address: netip.MustParseAddr("10.0.0.1"), Bits: NoPrefixLen},
				assign("10.1.0.1", 16),
			)},
		},
	})

	result := collector.Collect(context.Background())

	if !slices.Equal(result.Inventory, Inventory{"10.1.0.0/16"}) {
		t.Fatalf("unexpected inventory: %v", result.Inventory)
	}
}

func TestCollectSkipsOutOfRangePrefixLength(t *testing.T) {
	collector, handler := quietCollector(stubSource{
		workloads: []Workload{{ID: "a"}},
		records: map[string][]InterfaceRecord{
			"a": {iface("eth0", assign("10.0.0.1", 33), assign("fd00::1", 64))},
		},
	})

	result := collector.Collect(context.Background())

	if !slices.Equal(result.Inventory, Inventory{"fd00::/64"}) {
		t.Fatalf("unexpected inventory: %v", result.Inventory)
	}
	if !slices.Contains(handler.messages(), "skipping assignment") {
		t.Fatalf("expected debug log for skipped assignment, got %q", handler.messages())
	}
}

func TestCollectPreservesEncounterOrder(t *testing.T) {
	collector, _ := quietCollector(stubSource{
		workloads: []Workload{{ID: "b"}, {ID: "a"}},
		records: map[string][]InterfaceRecord{
			"a": {iface("eth0", assign("10.0.1.1", 24))},
			"b": {
				iface("eth1", assign("10.0.3.1", 24), assign("10.0.2.1", 24)),
				iface("eth0", assign("10.0.4.1", 24)),
			},
		},
	})

	result := collector.Collect(context.Background())

	want := Inventory{"10.0.3.0/24", "10.0.2.0/24", "10.0.4.0/24", "10.0.1.0/24"}
	if !slices.Equal(result.Inventory, want) {
		t.Fatalf("expected %v, got %v", want, result.Inventory)
	}
}

func TestCollectConcurrentMatchesSequential(t *testing.T) {
	source := stubSource{
		records:  map[string][]InterfaceRecord{},
		failures: map[string]error{},
	}
	for i := range 40 {
		id := fmt.Sprintf("w%02d", i)
		source.workloads = append(source.workloads, Workload{ID: id})
		if i%7 == 3 {
			source.failures[id] = errors.New("boom")
			continue
		}
		source.records[id] = []InterfaceRecord{
			iface("eth0", assign(fmt.Sprintf("10.%d.0.9", i%5), 24)),
		}
	}

	sequential, _ := quietCollector(source)
	concurrent, _ := quietCollector(source, WithConcurrency(8))

	seq := sequential.Collect(context.Background())
	con := concurrent.Collect(context.Background())

	if !slices.Equal(seq.Inventory, con.Inventory) {
		t.Fatalf("concurrent inventory differs:\nseq=%v\ncon=%v", seq.Inventory, con.Inventory)
	}
	if len(seq.Failures) != len(con.Failures) {
		t.Fatalf("expected %d failures, got %d", len(seq.Failures), len(con.Failures))
	}
	for i := range seq.Failures {
		if seq.Failures[i].Workload != con.Failures[i].Workload {
			t.Fatalf("failure %d out of order: %v vs %v", i, seq.Failures[i].Workload, con.Failures[i].Workload)
		}
	}
}

func TestCollectCancelledContextFailsRemainingWorkloads(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	collector, _ := quietCollector(scenarioSource())

	result := collector.Collect(ctx)

	if len(result.Inventory) != 0 {
		t.Fatalf("expected empty inventory, got %v", result.Inventory)
	}
	if len(result.Failures) != 2 {
		t.Fatalf("expected every workload to fail, got %d", len(result.Failures))
	}
	if !errors.Is(result.Failures[0].Err, ErrWorkloadQueryFailed) {
		t.Fatalf("unexpected error: %v", result.Failures[0].Err)
	}
}
