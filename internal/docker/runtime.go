// Package docker lists running containers and inspects their interfaces
// through the Docker Engine API.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/Flarenzy/netcollide/internal/domain"
	"github.com/Flarenzy/netcollide/internal/iproute"
)

// apiClient is the subset of the engine API used here; *client.Client
// satisfies it.
type apiClient interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerExecCreate(ctx context.Context, containerID string, options container.ExecOptions) (container.ExecCreateResponse, error)
	ContainerExecAttach(ctx context.Context, execID string, options container.ExecAttachOptions) (types.HijackedResponse, error)
	ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error)
	Close() error
}

type Runtime struct {
	client      apiClient
	command     []string
	execTimeout time.Duration
}

type Option func(*Runtime)

// WithExecTimeout bounds each per-container exec. Zero disables the bound.
func WithExecTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		r.execTimeout = d
	}
}

func WithCommand(cmd ...string) Option {
	return func(r *Runtime) {
		if len(cmd) > 0 {
			r.command = cmd
		}
	}
}

// NewRuntime connects using the standard DOCKER_HOST/DOCKER_* environment.
func NewRuntime(opts ...Option) (*Runtime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return newRuntime(cli, opts...), nil
}

func newRuntime(cli apiClient, opts ...Option) *Runtime {
	r := &Runtime{
		client:  cli,
		command: iproute.AddrShowCommand,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runtime) Close() error {
	return r.client.Close()
}

// ListWorkloads returns the running containers in the order the engine
// reports them.
func (r *Runtime) ListWorkloads(ctx context.Context) ([]domain.Workload, error) {
	containers, err := r.client.ContainerList(ctx, container.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	out := make([]domain.Workload, 0, len(containers))
	for _, c := range containers {
		out = append(out, domain.Workload{
			ID:   c.ID,
			Name: containerName(c.Names),
		})
	}
	return out, nil
}

// FetchInterfaces runs `ip -j addr show` inside the container and parses its
// output. A non-zero exit status or undecodable output is an error.
func (r *Runtime) FetchInterfaces(ctx context.Context, workload domain.Workload) ([]domain.InterfaceRecord, error) {
	if r.execTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.execTimeout)
		defer cancel()
	}

	exec, err := r.client.ContainerExecCreate(ctx, workload.ID, container.ExecOptions{
		Cmd:          r.command,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create exec: %w", err)
	}

	stdout, stderr, err := r.attach(ctx, exec.ID)
	if err != nil {
		return nil, err
	}

	inspect, err := r.client.ContainerExecInspect(ctx, exec.ID)
	if err != nil {
		return nil, fmt.Errorf("inspect exec: %w", err)
	}
	if inspect.ExitCode != 0 {
		return nil, fmt.Errorf("%q exited with status %d: %s",
			strings.Join(r.command, " "), inspect.ExitCode, strings.TrimSpace(stderr))
	}

	return iproute.ParseAddrShow(stdout)
}

func (r *Runtime) attach(ctx context.Context, execID string) ([]byte, string, error) {
	resp, err := r.client.ContainerExecAttach(ctx, execID, container.ExecAttachOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("attach exec: %w", err)
	}
	defer resp.Close()
	// The hijacked connection ignores ctx once established.
	stop := context.AfterFunc(ctx, resp.Close)
	defer stop()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, resp.Reader); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", fmt.Errorf("read exec output: %w", ctxErr)
		}
		return nil, "", fmt.Errorf("read exec output: %w", err)
	}
	return stdout.Bytes(), stderr.String(), nil
}

func containerName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.TrimPrefix(names[0], "/")
}
