package main

import (
	"context"

	"github.com/esp32um/esp32um/cli/flags"
	"github.com/esp32um/esp32um/cli/ourutil"
	"github.com/esp32um/esp32um/cli/project"
)

func listCmd(ctx context.Context) error {
	pp, err := project.Scan(*flags.ProjectsDir)
	if err != nil {
		return err
	}
	if len(pp) == 0 {
		ourutil.Reportf("No projects found in %q.", *flags.ProjectsDir)
		return nil
	}
	for i, p := range pp {
		printProjectLine(i, p)
		printIssues(p)
	}
	return nil
}
