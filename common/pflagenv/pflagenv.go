//
// Copyright (c) 2014-2019 Cesanta Software Limited
// All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Package pflagenv fills in flags that were not given on the command
// line from the environment: --projects-dir becomes PREFIX_PROJECTS_DIR.
package pflagenv

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// ParseFlagSet sets every flag of fs that was not set on the command
// line from the corresponding environment variable, if present.
// Call it after fs.Parse.
func ParseFlagSet(fs *pflag.FlagSet, envPrefix string) {
	// pflag does not distinguish "set to default" from "not set at all"
	// directly, so collect all flags and subtract the set ones.
	nonset := make(map[string]*pflag.Flag)
	fs.VisitAll(func(f *pflag.Flag) {
		nonset[f.Name] = f
	})
	fs.Visit(func(f *pflag.Flag) {
		delete(nonset, f.Name)
	})

	for name, f := range nonset {
		if v := os.Getenv(EnvName(name, envPrefix)); v != "" {
			f.Value.Set(v)
			f.Changed = true
		}
	}
}

// Parse is ParseFlagSet on pflag.CommandLine.
func Parse(envPrefix string) {
	ParseFlagSet(pflag.CommandLine, envPrefix)
}

// EnvName maps a flag name to its environment variable name.
func EnvName(flagName, envPrefix string) string {
	return envPrefix + strings.Replace(strings.ToUpper(flagName), "-", "_", -1)
}
