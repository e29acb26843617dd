package project

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/esp32um/esp32um/cli/fwconfig"
)

// BinSuffix is the recognized firmware image extension. Matching is
// case-sensitive on all platforms, for determinism.
const BinSuffix = ".bin"

type Health int

const (
	HealthUnknown Health = iota
	HealthMissingConfig
	HealthMalformedConfig
	HealthAddressConflict
	HealthOrphanEntry
	HealthMissingBinaryCoverage
	HealthHealthy
)

func (h Health) String() string {
	switch h {
	case HealthMissingConfig:
		return "missing config"
	case HealthMalformedConfig:
		return "malformed config"
	case HealthAddressConflict:
		return "address conflict"
	case HealthOrphanEntry:
		return "orphan config entry"
	case HealthMissingBinaryCoverage:
		return "binary not covered by config"
	case HealthHealthy:
		return "healthy"
	}
	return "unknown"
}

// Project is one scanned firmware folder. It is rebuilt from scratch on
// every scan pass; nothing here persists across runs.
type Project struct {
	Name string
	Dir  string
	Bins []string // sorted

	Config    *fwconfig.Config // nil if config.ini is absent
	ConfigErr error            // parse error, if any

	Health   Health
	Issues   []string
	Warnings []string
}

func (p *Project) ConfigPath() string {
	return filepath.Join(p.Dir, fwconfig.ConfigFileName)
}

func (p *Project) BinPath(name string) string {
	return filepath.Join(p.Dir, name)
}

// Scan enumerates the immediate subfolders of root, each one a candidate
// project. Returns projects sorted by name.
func Scan(root string) ([]*Project, error) {
	entries, err := ioutil.ReadDir(root)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to list projects dir %q", root)
	}
	var pp []*Project
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p, err := ScanOne(filepath.Join(root, e.Name()))
		if err != nil {
			return nil, errors.Trace(err)
		}
		pp = append(pp, p)
	}
	sort.Slice(pp, func(i, j int) bool { return pp[i].Name < pp[j].Name })
	return pp, nil
}

// ScanOne builds a fresh Project from a single folder and evaluates its
// health. Use it for the initial scan and for every recheck.
func ScanOne(dir string) (*Project, error) {
	p := &Project{Name: filepath.Base(dir), Dir: dir}
	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to list project folder %q", dir)
	}
	for _, e := range entries {
		if e.IsDir() {
			glog.V(1).Infof("%s: ignoring subfolder %q", p.Name, e.Name())
			continue
		}
		if strings.HasSuffix(e.Name(), BinSuffix) {
			p.Bins = append(p.Bins, e.Name())
		}
	}
	sort.Strings(p.Bins)

	data, err := ioutil.ReadFile(p.ConfigPath())
	switch {
	case err == nil:
		p.Config, p.ConfigErr = fwconfig.Parse(data)
	case os.IsNotExist(err):
		// No config - the validator will say so.
	default:
		return nil, errors.Annotatef(err, "%s: failed to read %s", p.Name, fwconfig.ConfigFileName)
	}

	p.Evaluate()
	return p, nil
}

// Evaluate recomputes the health verdict. Checks are applied in strict
// priority order: structural config problems and address conflicts come
// before coverage gaps, as they are the ones that silently corrupt
// devices. Idempotent; call again after any repair.
func (p *Project) Evaluate() {
	p.Issues = nil
	p.Warnings = nil

	if p.Config == nil && p.ConfigErr == nil {
		p.Health = HealthMissingConfig
		p.Issues = append(p.Issues, fmt.Sprintf("missing %s", fwconfig.ConfigFileName))
		return
	}
	if p.ConfigErr != nil {
		p.Health = HealthMalformedConfig
		p.Issues = append(p.Issues, fmt.Sprintf("%s: %s", fwconfig.ConfigFileName, p.ConfigErr))
		return
	}

	p.Warnings = p.Config.Warnings()

	if rep := p.Config.FindConflicts(); !rep.Empty() {
		p.Health = HealthAddressConflict
		p.Issues = append(p.Issues, rep.Describe()...)
		return
	}

	present := map[string]bool{}
	for _, b := range p.Bins {
		present[b] = true
	}
	for _, e := range p.Config.Entries {
		if !present[e.Name] {
			p.Issues = append(p.Issues, fmt.Sprintf("%q is referenced in %s but not found in the folder", e.Name, fwconfig.ConfigFileName))
		}
	}
	if len(p.Issues) > 0 {
		p.Health = HealthOrphanEntry
		return
	}

	for _, b := range p.Bins {
		if p.Config.Lookup(b) == nil {
			p.Issues = append(p.Issues, fmt.Sprintf("%q is not referenced in %s", b, fwconfig.ConfigFileName))
		}
	}
	if len(p.Issues) > 0 {
		p.Health = HealthMissingBinaryCoverage
		return
	}

	p.Health = HealthHealthy
}
