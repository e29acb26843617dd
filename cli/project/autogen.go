package project

import (
	"sort"
	"strings"

	"github.com/juju/errors"

	"github.com/esp32um/esp32um/cli/fwconfig"
)

// AddressResolver obtains a flash address for a binary whose name gives
// no hint. Returning an error aborts generation.
type AddressResolver func(binName string) (uint32, error)

// Conventional layout of an ESP-IDF / Arduino build output. Prefixes are
// matched against the lowercased binary name.
var conventionAddrs = []struct {
	prefix string
	addr   uint32
}{
	{"bootloader", 0x1000},
	{"partition", 0x8000}, // partitions.bin, partition-table.bin
	{"boot_app0", 0xe000},
	{"ota_data", 0xe000},
}

var appBinNames = map[string]uint32{
	"firmware.bin": 0x10000,
	"app.bin":      0x10000,
}

func conventionAddrFor(name string) (uint32, bool) {
	ln := strings.ToLower(name)
	for _, c := range conventionAddrs {
		if strings.HasPrefix(ln, c.prefix) {
			return c.addr, true
		}
	}
	if addr, ok := appBinNames[ln]; ok {
		return addr, true
	}
	return 0, false
}

// GenerateConfig derives a best-effort config for the project. Existing
// entries for binaries still present in the folder are kept untouched;
// only gaps are filled, from naming conventions where possible and from
// the resolver otherwise. Orphan entries are dropped. The caller is
// responsible for persisting the result and for re-evaluating the
// project afterwards - a generated config may still have conflicts.
func GenerateConfig(p *Project, resolver AddressResolver) (*fwconfig.Config, error) {
	if len(p.Bins) == 0 {
		return nil, errors.Errorf("%s: no %s files to generate a config from", p.Name, BinSuffix)
	}

	gen := &fwconfig.Config{BaudRate: fwconfig.DefaultBaudRate}
	covered := map[string]bool{}
	if p.Config != nil {
		if p.Config.BaudRate > 0 {
			gen.BaudRate = p.Config.BaudRate
		}
		present := map[string]bool{}
		for _, b := range p.Bins {
			present[b] = true
		}
		for _, e := range p.Config.Entries {
			if !present[e.Name] {
				continue
			}
			gen.Entries = append(gen.Entries, &fwconfig.Entry{Name: e.Name, Addr: e.Addr, AddrText: e.AddrText})
			covered[e.Name] = true
		}
	}

	missing := []string{}
	for _, b := range p.Bins {
		if !covered[b] {
			missing = append(missing, b)
		}
	}
	sort.Strings(missing)

	for _, b := range missing {
		addr, ok := conventionAddrFor(b)
		if !ok {
			var err error
			addr, err = resolver(b)
			if err != nil {
				return nil, errors.Annotatef(err, "no address for %q", b)
			}
		}
		gen.Entries = append(gen.Entries, &fwconfig.Entry{
			Name:     b,
			Addr:     addr,
			AddrText: fwconfig.FormatAddr(addr),
		})
	}

	return gen, nil
}
