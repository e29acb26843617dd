package main

import (
	"context"
	"io/ioutil"

	"github.com/juju/errors"
	flag "github.com/spf13/pflag"

	"github.com/esp32um/esp32um/cli/flags"
	"github.com/esp32um/esp32um/cli/fwconfig"
	"github.com/esp32um/esp32um/cli/ourutil"
	"github.com/esp32um/esp32um/cli/project"
)

func genConfigCmd(ctx context.Context) error {
	pp, err := project.Scan(*flags.ProjectsDir)
	if err != nil {
		return err
	}
	if len(pp) == 0 {
		ourutil.Reportf("No projects found in %q.", *flags.ProjectsDir)
		return nil
	}
	var p *project.Project
	if name := flag.Arg(1); name != "" {
		for _, cand := range pp {
			if cand.Name == name {
				p = cand
			}
		}
		if p == nil {
			return errors.Errorf("no project named %q in %q", name, *flags.ProjectsDir)
		}
	} else {
		p = pickProject(pp)
		if p == nil {
			return nil
		}
	}
	return genConfigFor(p)
}

// genConfigFor generates the config in memory and persists it. Existing
// entries survive generation; only the file write happens here.
func genConfigFor(p *project.Project) error {
	ourutil.Reportf("Found %d image(s) in %s.", len(p.Bins), p.Name)
	cfg, err := project.GenerateConfig(p, promptAddressResolver(p))
	if err != nil {
		return errors.Trace(err)
	}
	data, err := cfg.Serialize()
	if err != nil {
		return errors.Trace(err)
	}
	if err := ioutil.WriteFile(p.ConfigPath(), data, 0644); err != nil {
		return errors.Annotatef(err, "failed to write %s", p.ConfigPath())
	}
	ourutil.Reportf("Wrote %s.", p.ConfigPath())
	return nil
}

// promptAddressResolver asks the operator for addresses the naming
// conventions cannot infer. It nudges away from addresses already
// handed out, but does not enforce uniqueness - the conflict checker
// has the final say on the next validation pass.
func promptAddressResolver(p *project.Project) project.AddressResolver {
	used := map[uint32]string{}
	if p.Config != nil {
		for _, e := range p.Config.Entries {
			used[e.Addr] = e.Name
		}
	}
	return func(binName string) (uint32, error) {
		for {
			ans := ourutil.Prompt("Flash address for '" + binName + "' (e.g. 0x10000), or 'exit':")
			if ans == "exit" {
				return 0, errors.Errorf("aborted by operator")
			}
			addr, err := fwconfig.NormalizeAddr(ans)
			if err != nil {
				ourutil.Reportf("%s", err)
				continue
			}
			if other, ok := used[addr]; ok {
				ourutil.Reportf("Address %s is already used by %q, pick another.", fwconfig.FormatAddr(addr), other)
				continue
			}
			used[addr] = binName
			return addr, nil
		}
	}
}
