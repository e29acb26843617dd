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
package flags

import (
	flag "github.com/spf13/pflag"
)

var (
	Port = flag.String("port", "auto", "Serial port where the device is connected. "+
		"If set to 'auto', ports on the system will be enumerated and the operator asked to pick one.")
	BaudRate = flag.Int("baud-rate", 0, "Serial port speed during flashing. 0 - use the project's configured Baud_Rate")

	ProjectsDir = flag.String("projects-dir", "esp32", "Directory containing the firmware project folders")

	Esptool   = flag.String("esptool", "esptool.py", "Path to the esptool utility used to program the device")
	Chip      = flag.String("chip", "esp32", "Chip type passed to esptool")
	FlashMode = flag.String("flash-mode", "dio", "Flash chip mode. One of: qio, qout, dio, dout")
	FlashFreq = flag.String("flash-freq", "40m", "SPI flash frequency. One of: 20m, 26m, 40m, 80m")
	FlashSize = flag.String("flash-size", "detect", "Flash chip size, or 'detect'")
	EraseChip = flag.Bool("erase-chip", false, "Erase the entire chip before flashing, without prompting")
)
