// +build !windows

package devutil

import (
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// EnumerateSerialPorts lists attached serial devices. An empty list just
// means nothing is plugged in.
func EnumerateSerialPorts() []string {
	var list []string
	if runtime.GOOS == "darwin" {
		all, _ := filepath.Glob("/dev/cu.*")
		for _, s := range all {
			if !strings.Contains(s, "Bluetooth-") {
				list = append(list, s)
			}
		}
	} else {
		usb, _ := filepath.Glob("/dev/ttyUSB*")
		acm, _ := filepath.Glob("/dev/ttyACM*")
		list = append(usb, acm...)
	}
	sort.Strings(list)
	return list
}

func getDefaultPort() string {
	ports := EnumerateSerialPorts()
	if len(ports) == 0 {
		return ""
	}
	return ports[0]
}
