// Package iproute decodes the JSON emitted by iproute2's `ip -j addr show`.
package iproute

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Flarenzy/netcollide/internal/domain"
)

// AddrShowCommand is run inside a workload to list its interfaces.
var AddrShowCommand = []string{"ip", "-j", "addr", "show"}

type link struct {
	IfName   string     `json:"ifname"`
	AddrInfo []addrInfo `json:"addr_info"`
}

type addrInfo struct {
	Family    string `json:"family"`
	Local     string `json:"local"`
	PrefixLen *int   `json:"prefixlen"`
}

// ParseAddrShow converts `ip -j addr show` output into interface records.
// Missing local addresses or prefix lengths produce incomplete assignments;
// a document that is not a JSON array of links, or a local address that does
// not parse, is an error.
func ParseAddrShow(data []byte) ([]domain.InterfaceRecord, error) {
	var links []link
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("decode ip addr output: %w", err)
	}
	return toRecords(links)
}

func DecodeAddrShow(r io.Reader) ([]domain.InterfaceRecord, error) {
	var links []link
	if err := json.NewDecoder(r).Decode(&links); err != nil {
		return nil, fmt.Errorf("decode ip addr output: %w", err)
	}
	return toRecords(links)
}

func toRecords(links []link) ([]domain.InterfaceRecord, error) {
	records := make([]domain.InterfaceRecord, 0, len(links))
	for _, l := range links {
		record := domain.InterfaceRecord{
			Name:      l.IfName,
			Addresses: make([]domain.AddressAssignment, 0, len(l.AddrInfo)),
		}
		for _, info := range l.AddrInfo {
			bits := domain.NoPrefixLen
			if info.PrefixLen != nil {
				bits = *info.PrefixLen
			}
			assignment, err := domain.ParseAssignment(info.Local, bits)
			if err != nil {
				return nil, fmt.Errorf("interface %s: %w", l.IfName, err)
			}
			record.Addresses = append(record.Addresses, assignment)
		}
		records = append(records, record)
	}
	return records, nil
}
