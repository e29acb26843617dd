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
package devutil

import (
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/esp32um/esp32um/cli/flags"
	"github.com/esp32um/esp32um/cli/ourutil"
)

var defaultPort string

// GetPort returns the --port value, with "auto" resolved to the first
// enumerated port. An empty enumeration is an error here, but callers
// treat it as an operator problem (plug the device in), not a fatal one.
func GetPort() (string, error) {
	if *flags.Port != "auto" {
		return *flags.Port, nil
	}
	if defaultPort == "" {
		defaultPort = getDefaultPort()
		if defaultPort == "" {
			return "", errors.Errorf("--port not specified and none were found")
		}
		ourutil.Reportf("Using port %s", defaultPort)
	}
	return defaultPort, nil
}

// LikelyPort picks the port most likely to be an ESP32 devboard: the
// first one whose name suggests a USB-UART bridge. Empty if none do.
func LikelyPort(ports []string) string {
	for _, p := range ports {
		lp := strings.ToLower(p)
		for _, hint := range []string{"usb", "slab", "wch", "acm"} {
			if strings.Contains(lp, hint) {
				return p
			}
		}
	}
	return ""
}

func getCOMNumber(port string) int {
	if !strings.HasPrefix(port, "COM") {
		return -1
	}
	cn, err := strconv.Atoi(port[3:])
	if err != nil {
		return -1
	}
	return cn
}

type byCOMNumber []string

func (a byCOMNumber) Len() int      { return len(a) }
func (a byCOMNumber) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a byCOMNumber) Less(i, j int) bool {
	cni := getCOMNumber(a[i])
	cnj := getCOMNumber(a[j])
	if cni < 0 || cnj < 0 {
		return a[i] < a[j]
	}
	return cni < cnj
}
