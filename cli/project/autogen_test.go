package project

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esp32um/esp32um/cli/fwconfig"
)

func noResolver(t *testing.T) AddressResolver {
	return func(binName string) (uint32, error) {
		t.Fatalf("resolver called for %q", binName)
		return 0, nil
	}
}

func TestGenerateFromScratch(t *testing.T) {
	p := &Project{
		Name: "p",
		Bins: []string{"boot_app0.bin", "bootloader.bin", "firmware.bin", "partitions.bin"},
	}
	cfg, err := GenerateConfig(p, noResolver(t))
	require.NoError(t, err)
	assert.Equal(t, fwconfig.DefaultBaudRate, cfg.BaudRate)
	assert.Equal(t, []*fwconfig.Entry{
		{Name: "boot_app0.bin", Addr: 0xe000, AddrText: "0xe000"},
		{Name: "bootloader.bin", Addr: 0x1000, AddrText: "0x1000"},
		{Name: "firmware.bin", Addr: 0x10000, AddrText: "0x10000"},
		{Name: "partitions.bin", Addr: 0x8000, AddrText: "0x8000"},
	}, cfg.Entries)
}

func TestGenerateKeepsExistingEntries(t *testing.T) {
	p := &Project{
		Name: "p",
		Bins: []string{"bootloader.bin", "custom.bin"},
		Config: &fwconfig.Config{
			BaudRate: 921600,
			Entries: []*fwconfig.Entry{
				// Deliberately off-convention: must survive untouched.
				{Name: "bootloader.bin", Addr: 0x2000, AddrText: "0x02000"},
				// Orphan: its binary is gone, so it must be dropped.
				{Name: "old.bin", Addr: 0x30000, AddrText: "0x30000"},
			},
		},
	}
	called := 0
	cfg, err := GenerateConfig(p, func(binName string) (uint32, error) {
		called++
		assert.Equal(t, "custom.bin", binName)
		return 0x20000, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, called)
	assert.Equal(t, 921600, cfg.BaudRate)
	assert.Equal(t, []*fwconfig.Entry{
		{Name: "bootloader.bin", Addr: 0x2000, AddrText: "0x02000"},
		{Name: "custom.bin", Addr: 0x20000, AddrText: "0x20000"},
	}, cfg.Entries)
}

func TestGenerateResolverAborts(t *testing.T) {
	p := &Project{Name: "p", Bins: []string{"custom.bin"}}
	wantErr := errors.New("operator bailed")
	_, err := GenerateConfig(p, func(string) (uint32, error) { return 0, wantErr })
	require.Error(t, err)
	assert.Equal(t, wantErr, errors.Cause(err))
}

func TestGenerateNoBins(t *testing.T) {
	if _, err := GenerateConfig(&Project{Name: "p"}, noResolver(t)); err == nil {
		t.Fatalf("expected to fail")
	}
}

func TestGenerateDoesNotDeduplicateConventionAddrs(t *testing.T) {
	// boot_app0 and ota_data share a conventional address; generation
	// leaves the collision for the conflict checker to flag.
	p := &Project{Name: "p", Bins: []string{"boot_app0.bin", "ota_data_initial.bin"}}
	cfg, err := GenerateConfig(p, noResolver(t))
	require.NoError(t, err)
	rep := cfg.FindConflicts()
	assert.Equal(t, fwconfig.ConflictReport{0xe000: {"boot_app0.bin", "ota_data_initial.bin"}}, rep)
}

func TestConventionAddrFor(t *testing.T) {
	cases := []struct {
		name string
		addr uint32
		ok   bool
	}{
		{name: "bootloader.bin", addr: 0x1000, ok: true},
		{name: "Bootloader_v2.bin", addr: 0x1000, ok: true},
		{name: "partitions.bin", addr: 0x8000, ok: true},
		{name: "partition-table.bin", addr: 0x8000, ok: true},
		{name: "boot_app0.bin", addr: 0xe000, ok: true},
		{name: "firmware.bin", addr: 0x10000, ok: true},
		{name: "app.bin", addr: 0x10000, ok: true},
		{name: "my_app.bin", ok: false},
		{name: "spiffs.bin", ok: false},
	}
	for _, c := range cases {
		addr, ok := conventionAddrFor(c.name)
		assert.Equalf(t, c.ok, ok, "case %q", c.name)
		if c.ok {
			assert.Equalf(t, c.addr, addr, "case %q", c.name)
		}
	}
}
