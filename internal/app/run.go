package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Flarenzy/netcollide/internal/auth"
	"github.com/Flarenzy/netcollide/internal/capture"
	appdb "github.com/Flarenzy/netcollide/internal/db"
	"github.com/Flarenzy/netcollide/internal/docker"
	"github.com/Flarenzy/netcollide/internal/domain"
	apihttp "github.com/Flarenzy/netcollide/internal/http"
	"github.com/Flarenzy/netcollide/internal/metrics"
	"github.com/Flarenzy/netcollide/internal/snapshot"
)

const shutdownTimeout = 5 * time.Second

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// NewLogger returns a text logger writing to w at the given level.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// Components is the wired service graph for one process.
type Components struct {
	Logger   *slog.Logger
	Service  domain.InventoryService
	Store    domain.SnapshotStore
	Recorder *metrics.Recorder

	closers []func() error
}

func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Health returns the store as a readiness probe when it supports pinging.
func (c *Components) Health() apihttp.HealthChecker {
	if hc, ok := c.Store.(apihttp.HealthChecker); ok {
		return hc
	}
	return nil
}

// Build wires source, store and service from cfg. The caller must Close the
// result.
func Build(ctx context.Context, cfg Config, logger *slog.Logger) (*Components, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Components{Logger: logger, Recorder: metrics.NewRecorder()}

	source, err := newSource(cfg, c)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	store, err := newStore(ctx, cfg, c)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Store = store

	source = domain.NewLoggingWorkloadSource(logger, source)
	collector := domain.NewCollector(source, source,
		domain.WithConcurrency(cfg.Concurrency),
		domain.WithCollectorLogger(logger),
	)

	var svc domain.InventoryService = domain.NewInventoryService(collector, store)
	svc = metrics.NewInventoryService(c.Recorder, svc)
	c.Service = domain.NewLoggingInventoryService(logger, svc)

	return c, nil
}

func newSource(cfg Config, c *Components) (domain.WorkloadSource, error) {
	switch cfg.Source {
	case SourceCapture:
		return capture.NewSource(cfg.CaptureDir), nil
	default:
		rt, err := docker.NewRuntime(docker.WithExecTimeout(cfg.ExecTimeout))
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, rt.Close)
		return rt, nil
	}
}

func newStore(ctx context.Context, cfg Config, c *Components) (domain.SnapshotStore, error) {
	switch cfg.Store {
	case StorePostgres:
		pool, err := appdb.NewPool(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() error {
			pool.Close()
			return nil
		})
		repo := appdb.NewSnapshotRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return snapshot.NewFileStore(cfg.SnapshotPath), nil
	}
}

func storeLabel(cfg Config) string {
	if cfg.Store == StorePostgres {
		return "postgres"
	}
	return cfg.SnapshotPath
}

// Collect runs one collection, persists it and, when checkFile is set,
// reports collisions found in that file. Only a failed collection is an
// error; an unreadable check file is reported on out.
func Collect(ctx context.Context, cfg Config, logger *slog.Logger, out io.Writer, checkFile string) error {
	c, err := Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	if _, err := c.Service.Collect(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "Collected IP networks saved to %s\n", storeLabel(cfg))

	if checkFile == "" {
		return nil
	}
	if err := Check(ctx, out, checkFile, false); err != nil {
		fmt.Fprintf(out, "Error reading %s: %v\n", checkFile, err)
	}
	return nil
}

type collidingNetworks struct {
	CollidingNetworks []string `json:"colliding_networks"`
}

type overlap struct {
	Outer string `json:"outer"`
	Inner string `json:"inner"`
}

type overlappingNetworks struct {
	OverlappingNetworks []overlap `json:"overlapping_networks"`
}

// Check reads the snapshot file at path and prints the collision verdict.
func Check(ctx context.Context, out io.Writer, path string, withOverlaps bool) error {
	inv, err := snapshot.NewFileStore(path).Load(ctx)
	if err != nil {
		return err
	}
	return printAnalysis(out, domain.Detect(inv), inv, withOverlaps)
}

func printAnalysis(out io.Writer, report domain.CollisionReport, inv domain.Inventory, withOverlaps bool) error {
	if report.Empty() {
		fmt.Fprintln(out, "No collisions found.")
	} else {
		colliding := collidingNetworks{CollidingNetworks: make([]string, 0, len(report.Collisions))}
		for _, p := range report.Prefixes() {
			colliding.CollidingNetworks = append(colliding.CollidingNetworks, p.String())
		}
		fmt.Fprintln(out, "Colliding IP networks detected:")
		if err := writeIndented(out, colliding); err != nil {
			return err
		}
	}

	if !withOverlaps {
		return nil
	}
	overlaps := domain.FindOverlaps(inv)
	if len(overlaps) == 0 {
		fmt.Fprintln(out, "No overlapping networks found.")
		return nil
	}
	result := overlappingNetworks{OverlappingNetworks: make([]overlap, 0, len(overlaps))}
	for _, o := range overlaps {
		result.OverlappingNetworks = append(result.OverlappingNetworks, overlap{Outer: o.Outer.String(), Inner: o.Inner.String()})
	}
	fmt.Fprintln(out, "Overlapping IP networks detected:")
	return writeIndented(out, result)
}

func writeIndented(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func newAuthenticator(ctx context.Context, cfg Config) (auth.Authenticator, error) {
	return auth.NewKeycloakAuthenticator(ctx, auth.Config{
		Enabled:  cfg.AuthEnabled,
		Issuer:   strings.TrimSuffix(cfg.Issuer, "/"),
		Audience: cfg.Audience,
		JWKSURL:  cfg.JWKSURL,
	})
}

// Serve runs the HTTP API on listener until ctx is cancelled. Logs go to
// stderr at the configured level.
func Serve(ctx context.Context, cfg Config, listener net.Listener) error {
	logger, err := NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	authenticator, err := newAuthenticator(ctx, cfg)
	if err != nil {
		return err
	}

	c, err := Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	api := apihttp.NewAPI(logger, c.Health(), c.Service, authenticator,
		apihttp.WithMetricsHandler(c.Recorder.Handler()),
	)

	server := &http.Server{
		Handler:      api.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving api", "addr", listener.Addr().String(), "auth", authenticator != nil)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
