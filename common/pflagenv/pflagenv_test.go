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
package pflagenv

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
)

func TestParseFlagSet(t *testing.T) {
	fs := pflag.NewFlagSet("pflagenv-test", pflag.ContinueOnError)

	var fromCL, setEmpty, fromEnv, untouched string
	fs.StringVar(&fromCL, "projects-dir", "esp32", "")
	fs.StringVar(&setEmpty, "port", "auto", "")
	fs.StringVar(&fromEnv, "esptool", "esptool.py", "")
	fs.StringVar(&untouched, "chip", "esp32", "")
	fs.Parse([]string{"--projects-dir=cl-dir", "--port="})

	os.Setenv("TEST_PROJECTS_DIR", "env-dir")
	os.Setenv("TEST_PORT", "env-port")
	os.Setenv("TEST_ESPTOOL", "env-esptool")
	defer func() {
		for _, v := range []string{"TEST_PROJECTS_DIR", "TEST_PORT", "TEST_ESPTOOL"} {
			os.Unsetenv(v)
		}
	}()
	ParseFlagSet(fs, "TEST_")

	// Command line wins, even when set to empty.
	if got, want := fromCL, "cl-dir"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
	if got, want := setEmpty, ""; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
	if got, want := fromEnv, "env-esptool"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
	if got, want := untouched, "esp32"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
}

func TestEnvName(t *testing.T) {
	if got, want := EnvName("baud-rate", "ESP32UM_"), "ESP32UM_BAUD_RATE"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
}
