package main

import (
	"context"
	"fmt"
	"os"

	"github.com/golang/glog"
	flag "github.com/spf13/pflag"

	"github.com/esp32um/esp32um/common/pflagenv"
)

const (
	envPrefix = "ESP32UM_"
)

var (
	verbose  = flag.Bool("verbose", false, "Verbose output")
	helpFull = flag.Bool("helpfull", false, "Show full help, including advanced flags")
)

var commands = []command{
	{"flash", flashCmd, `Validate a project and flash it to a device`, []string{"port", "erase-chip", "baud-rate"}},
	{"list", listCmd, `List projects and their health`, []string{"projects-dir"}},
	{"gen-config", genConfigCmd, `Generate or repair a project's config.ini`, []string{"projects-dir"}},
	{"console", consoleCmd, `Simple serial port console`, []string{"port", "baud-rate"}},
}

type command struct {
	name     string
	handler  handler
	short    string
	optional []string
}

type handler func(ctx context.Context) error

func run(ctx context.Context) error {
	for _, c := range commands {
		if c.name == flag.Arg(0) {
			return c.handler(ctx)
		}
	}
	usage()
	return nil
}

func main() {
	initFlags()
	flag.Parse()
	pflagenv.Parse(envPrefix)

	if *helpFull {
		unhideFlags()
		usage()
		return
	}
	if *verbose {
		flag.Set("v", "1")
		flag.Set("logtostderr", "true")
	}

	ctx := context.Background()
	if err := run(ctx); err != nil {
		glog.Infof("Error: %+v", err)
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
