package fwconfig

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
	"github.com/juju/errors"
)

const (
	// ConfigFileName is the per-project memory layout file.
	ConfigFileName = "config.ini"

	settingsSection = "Settings"
	baudRateKey     = "Baud_Rate"

	// DefaultBaudRate is used when a config is generated from scratch.
	DefaultBaudRate = 115200

	// MaxSaneBaudRate is where we stop trusting USB-UART bridges.
	MaxSaneBaudRate = 2000000
)

// ErrMalformed is the cause of every parse-time failure: missing [Settings],
// missing or non-numeric baud rate, bad address value.
var ErrMalformed = errors.New("malformed config")

// Entry maps one binary artifact to its flash address. AddrText keeps
// the exact value as written by the user so Serialize is faithful.
type Entry struct {
	Name     string
	Addr     uint32
	AddrText string
}

// Config is the in-memory form of a project's config.ini.
// Entries preserve the file's textual order.
type Config struct {
	BaudRate int
	Entries  []*Entry
}

func (c *Config) Lookup(name string) *Entry {
	for _, e := range c.Entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// NormalizeAddr parses a flash address literal. Addresses are
// case-insensitive hex with a 0x prefix; leading zeros are insignificant.
func NormalizeAddr(s string) (uint32, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(t, "0x") || len(t) == 2 {
		return 0, errors.Errorf("%q: address must be a hex literal like 0x10000", s)
	}
	v, err := strconv.ParseUint(t[2:], 16, 32)
	if err != nil {
		return 0, errors.Annotatef(err, "%q: invalid hex address", s)
	}
	return uint32(v), nil
}

func FormatAddr(addr uint32) string {
	return fmt.Sprintf("0x%x", addr)
}

func Parse(data []byte) (*Config, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, errors.Annotatef(ErrMalformed, "%s", err)
	}
	sec, err := f.GetSection(settingsSection)
	if err != nil {
		return nil, errors.Annotatef(ErrMalformed, "missing [%s] section", settingsSection)
	}
	c := &Config{}
	for _, k := range sec.Keys() {
		if k.Name() == baudRateKey {
			br, err := strconv.Atoi(strings.TrimSpace(k.Value()))
			if err != nil || br <= 0 {
				return nil, errors.Annotatef(ErrMalformed, "invalid %s %q", baudRateKey, k.Value())
			}
			c.BaudRate = br
			continue
		}
		addr, err := NormalizeAddr(k.Value())
		if err != nil {
			return nil, errors.Annotatef(ErrMalformed, "%s: %s", k.Name(), err)
		}
		c.Entries = append(c.Entries, &Entry{Name: k.Name(), Addr: addr, AddrText: k.Value()})
	}
	if c.BaudRate == 0 {
		return nil, errors.Annotatef(ErrMalformed, "missing %s", baudRateKey)
	}
	return c, nil
}

func (c *Config) Serialize() ([]byte, error) {
	f := ini.Empty()
	sec, err := f.NewSection(settingsSection)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if _, err := sec.NewKey(baudRateKey, strconv.Itoa(c.BaudRate)); err != nil {
		return nil, errors.Trace(err)
	}
	for _, e := range c.Entries {
		at := e.AddrText
		if at == "" {
			at = FormatAddr(e.Addr)
		}
		if _, err := sec.NewKey(e.Name, at); err != nil {
			return nil, errors.Annotatef(err, "%s", e.Name)
		}
	}
	buf := &bytes.Buffer{}
	if _, err := f.WriteTo(buf); err != nil {
		return nil, errors.Trace(err)
	}
	return buf.Bytes(), nil
}

// KnownBaudRates are rates commonly supported by ESP32 boards and their
// USB-UART bridges. Anything else works often enough, but is worth a warning.
var KnownBaudRates = []int{
	300, 600, 1200, 1800, 2400, 4800, 9600, 14400, 19200, 28800, 38400,
	57600, 74880, 115200, 128000, 230400, 256000, 460800, 512000, 921600,
	1000000, 1152000, 1500000, 2000000,
}

// Warnings returns non-fatal oddities of the config, currently only
// unusual baud rates.
func (c *Config) Warnings() []string {
	var ww []string
	known := false
	for _, br := range KnownBaudRates {
		if c.BaudRate == br {
			known = true
			break
		}
	}
	if !known {
		ww = append(ww, fmt.Sprintf("baud rate %d is unusual, flashing may be unreliable", c.BaudRate))
	}
	if c.BaudRate > MaxSaneBaudRate {
		ww = append(ww, fmt.Sprintf("baud rate %d is above %d, most USB-UART bridges cannot do that", c.BaudRate, MaxSaneBaudRate))
	}
	return ww
}
