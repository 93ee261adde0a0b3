// Package capture serves workloads from saved `ip -j addr show` output, one
// file per workload.
package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Flarenzy/netcollide/internal/domain"
	"github.com/Flarenzy/netcollide/internal/iproute"
)

const fileExt = ".json"

type Source struct {
	dir string
}

func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// ListWorkloads returns one workload per *.json file, sorted by file name.
func (s *Source) ListWorkloads(_ context.Context) ([]domain.Workload, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read capture dir: %w", err)
	}

	var out []domain.Workload
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
			continue
		}
		id := strings.TrimSuffix(e.Name(), fileExt)
		out = append(out, domain.Workload{ID: id, Name: id})
	}
	slices.SortFunc(out, func(a, b domain.Workload) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *Source) FetchInterfaces(_ context.Context, workload domain.Workload) ([]domain.InterfaceRecord, error) {
	f, err := os.Open(filepath.Join(s.dir, workload.ID+fileExt))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return iproute.DecodeAddrShow(f)
}
