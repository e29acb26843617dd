package main

import (
	"context"

	"github.com/golang/glog"
	flag "github.com/spf13/pflag"
	"github.com/skratchdot/open-golang/open"

	"github.com/esp32um/esp32um/cli/flags"
	"github.com/esp32um/esp32um/cli/flash"
	"github.com/esp32um/esp32um/cli/fwconfig"
	"github.com/esp32um/esp32um/cli/ourutil"
	"github.com/esp32um/esp32um/cli/project"
)

// flashCmd is the interactive flashing workflow: pick a project, repair
// it until it is healthy, pick a port, confirm erase, run the session.
// Every failure returns to the project menu; nothing here is fatal.
func flashCmd(ctx context.Context) error {
	for {
		pp, err := project.Scan(*flags.ProjectsDir)
		if err != nil {
			return err
		}
		if len(pp) == 0 {
			ourutil.Reportf("No projects found in %q. Add project folders and try again.", *flags.ProjectsDir)
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
				ourutil.Reportf("No project named %q in %q.", name, *flags.ProjectsDir)
				return nil
			}
		} else {
			p = pickProject(pp)
			if p == nil {
				return nil
			}
		}

		p = repairLoop(p)
		if p == nil {
			if flag.Arg(1) != "" {
				return nil
			}
			continue
		}

		if err := flashProject(ctx, p); err != nil {
			ourutil.Reportf("Flashing failed: %s", err)
		}
		if flag.Arg(1) != "" {
			return nil
		}
	}
}

// repairLoop surfaces issues and offers repair actions until the project
// is healthy or the operator backs out. The project is rescanned after
// every action; a stale verdict is never flashed.
func repairLoop(p *project.Project) *project.Project {
	for {
		if p.Health == project.HealthHealthy {
			return p
		}
		ourutil.Reportf("Project %s is not flashable: %s", p.Name, p.Health)
		printIssues(p)
		ourutil.Reportf("  [1] Open folder to fix manually")
		ourutil.Reportf("  [2] Autogenerate %s", fwconfig.ConfigFileName)
		ourutil.Reportf("  [3] Recheck")
		ourutil.Reportf("  [4] Back")
		switch ourutil.Prompt(">") {
		case "1":
			if err := open.Start(p.Dir); err != nil {
				ourutil.Reportf("Failed to open %q: %s", p.Dir, err)
			}
			ourutil.Prompt("Press enter to recheck:")
		case "2":
			if err := genConfigFor(p); err != nil {
				ourutil.Reportf("Config generation failed: %s", err)
			}
		case "3":
			// Fall through to the rescan below.
		case "4", "exit", "":
			return nil
		default:
			ourutil.Reportf("Invalid choice.")
			continue
		}
		np, err := project.ScanOne(p.Dir)
		if err != nil {
			ourutil.Reportf("Recheck failed: %s", err)
			return nil
		}
		p = np
	}
}

func flashProject(ctx context.Context, p *project.Project) error {
	if err := flash.CheckEsptool(*flags.Esptool); err != nil {
		return err
	}

	port := *flags.Port
	if port == "auto" {
		port = pickPort()
		if port == "" {
			return nil
		}
	}

	erase := *flags.EraseChip
	if !erase {
		erase = confirmErase()
	}

	sess, err := flash.NewSession(p, port, erase)
	if err != nil {
		return err
	}
	if *flags.BaudRate > 0 {
		sess.Project.BaudRate = *flags.BaudRate
	}
	sess.OnRelease(func() {
		glog.V(1).Infof("%s: released %s", p.Name, port)
	})

	fl := &flash.EsptoolFlasher{Opts: flash.EsptoolOpts{
		Esptool:   *flags.Esptool,
		Chip:      *flags.Chip,
		FlashMode: *flags.FlashMode,
		FlashFreq: *flags.FlashFreq,
		FlashSize: *flags.FlashSize,
	}}

	ourutil.Reportf("Flashing %s to %s at %d baud (%d images)...",
		p.Name, port, sess.Project.BaudRate, len(sess.Project.Writes))
	if err := sess.Run(ctx, fl); err != nil {
		return err
	}
	ourutil.Reportf("All done!")
	return nil
}
