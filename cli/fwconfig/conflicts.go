package fwconfig

import (
	"fmt"
	"sort"
	"strings"
)

// ConflictReport maps a normalized flash address to the names of all
// entries claiming it. Only addresses claimed more than once are present.
type ConflictReport map[uint32][]string

func (r ConflictReport) Empty() bool {
	return len(r) == 0
}

// Describe renders one line per conflict, addresses in ascending order.
func (r ConflictReport) Describe() []string {
	var addrs []uint32
	for a := range r {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	var out []string
	for _, a := range addrs {
		out = append(out, fmt.Sprintf("address %s claimed by %s", FormatAddr(a), strings.Join(r[a], ", ")))
	}
	return out
}

// FindConflicts groups entries by normalized address and reports every
// group of two or more. Offender names are sorted for stable output.
func (c *Config) FindConflicts() ConflictReport {
	byAddr := map[uint32][]string{}
	for _, e := range c.Entries {
		byAddr[e.Addr] = append(byAddr[e.Addr], e.Name)
	}
	rep := ConflictReport{}
	for addr, names := range byAddr {
		if len(names) < 2 {
			continue
		}
		sort.Strings(names)
		rep[addr] = names
	}
	return rep
}
