package fwconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConflicts(t *testing.T) {
	cases := []struct {
		name string
		text string
		rep  ConflictReport
	}{
		{
			name: "no entries",
			text: "[Settings]\nBaud_Rate = 115200\n",
			rep:  ConflictReport{},
		},
		{
			name: "all distinct",
			text: "[Settings]\nBaud_Rate = 115200\na.bin = 0x1000\nb.bin = 0x8000\nc.bin = 0x10000\n",
			rep:  ConflictReport{},
		},
		{
			name: "plain duplicate",
			text: "[Settings]\nBaud_Rate = 115200\nb.bin = 0x1000\na.bin = 0x1000\n",
			rep:  ConflictReport{0x1000: {"a.bin", "b.bin"}},
		},
		{
			name: "leading zeros and case do not hide a conflict",
			text: "[Settings]\nBaud_Rate = 115200\na.bin = 0x1000\nb.bin = 0x01000\nc.bin = 0X1000\n",
			rep:  ConflictReport{0x1000: {"a.bin", "b.bin", "c.bin"}},
		},
		{
			name: "two independent groups",
			text: "[Settings]\nBaud_Rate = 115200\na.bin = 0x1000\nb.bin = 0x1000\nc.bin = 0x2000\nd.bin = 0x2000\ne.bin = 0x3000\n",
			rep: ConflictReport{
				0x1000: {"a.bin", "b.bin"},
				0x2000: {"c.bin", "d.bin"},
			},
		},
	}
	for _, c := range cases {
		cfg, err := Parse([]byte(c.text))
		require.NoErrorf(t, err, "case %q", c.name)
		rep := cfg.FindConflicts()
		assert.Equalf(t, c.rep, rep, "case %q", c.name)
		assert.Equalf(t, len(c.rep) == 0, rep.Empty(), "case %q", c.name)
	}
}

func TestConflictReportDescribe(t *testing.T) {
	rep := ConflictReport{
		0x2000: {"c.bin", "d.bin"},
		0x1000: {"a.bin", "b.bin"},
	}
	got := rep.Describe()
	if len(got) != 2 {
		t.Fatalf("want 2 lines, got %v", got)
	}
	assert.Equal(t, "address 0x1000 claimed by a.bin, b.bin", got[0])
	assert.Equal(t, "address 0x2000 claimed by c.bin, d.bin", got[1])
}
