package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"

	"github.com/esp32um/esp32um/cli/devutil"
	"github.com/esp32um/esp32um/cli/flags"
	"github.com/esp32um/esp32um/cli/ourutil"
	"github.com/esp32um/esp32um/cli/project"
)

func healthColor(p *project.Project) *color.Color {
	switch {
	case p.Health == project.HealthHealthy && len(p.Warnings) == 0:
		return color.New(color.FgGreen)
	case p.Health == project.HealthHealthy:
		return color.New(color.FgYellow)
	}
	return color.New(color.FgRed)
}

func printProjectLine(idx int, p *project.Project) {
	healthColor(p).Fprintf(os.Stderr, "  [%d] %s - %s\n", idx+1, p.Name, p.Health)
}

func printIssues(p *project.Project) {
	for _, w := range p.Warnings {
		color.New(color.FgYellow).Fprintf(os.Stderr, "  warning: %s\n", w)
	}
	for _, iss := range p.Issues {
		color.New(color.FgRed).Fprintf(os.Stderr, "  %s\n", iss)
	}
}

// pickProject runs the selection prompt. Returns nil when the operator
// backs out.
func pickProject(pp []*project.Project) *project.Project {
	for {
		ourutil.Reportf("Projects in %q:", *flags.ProjectsDir)
		for i, p := range pp {
			printProjectLine(i, p)
		}
		sel := ourutil.Prompt("Enter a number to select, or 'exit' to quit:")
		if sel == "exit" || sel == "" {
			return nil
		}
		n, err := strconv.Atoi(sel)
		if err != nil || n < 1 || n > len(pp) {
			ourutil.Reportf("Invalid selection, try again.")
			continue
		}
		return pp[n-1]
	}
}

// pickPort enumerates serial ports and asks the operator to choose one.
// An empty enumeration is recoverable: reconnect and retry, or back out.
func pickPort() string {
	for {
		ports := devutil.EnumerateSerialPorts()
		if len(ports) == 0 {
			ourutil.Reportf("No serial ports found. Connect the device and press enter to retry, or type 'exit'.")
			if ourutil.Prompt(">") == "exit" {
				return ""
			}
			continue
		}
		likely := devutil.LikelyPort(ports)
		ourutil.Reportf("Available serial ports:")
		for i, port := range ports {
			marker := ""
			if port == likely {
				marker = " <-- likely ESP32"
			}
			fmt.Fprintf(os.Stderr, "  [%d] %s%s\n", i+1, port, marker)
		}
		sel := ourutil.Prompt("Select a port (enter for suggested):")
		if sel == "exit" {
			return ""
		}
		if sel == "" {
			if likely != "" {
				return likely
			}
			ourutil.Reportf("No suggested port, select one by number.")
			continue
		}
		n, err := strconv.Atoi(sel)
		if err != nil || n < 1 || n > len(ports) {
			ourutil.Reportf("Invalid selection, try again.")
			continue
		}
		return ports[n-1]
	}
}

func confirmErase() bool {
	for {
		switch ourutil.Prompt("Erase the flash before writing? [y/N]") {
		case "y", "Y":
			return true
		case "", "n", "N":
			return false
		}
		ourutil.Reportf("Please answer 'y' or 'n'.")
	}
}
