package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/cesanta/go-serial/serial"
	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/esp32um/esp32um/cli/devutil"
	"github.com/esp32um/esp32um/cli/flags"
	"github.com/esp32um/esp32um/cli/ourutil"
)

// consoleCmd is a read-only serial monitor: it streams whatever the
// device prints until interrupted. No protocol, no input.
func consoleCmd(ctx context.Context) error {
	port, err := devutil.GetPort()
	if err != nil {
		port = pickPort()
		if port == "" {
			return nil
		}
	}
	baudRate := *flags.BaudRate
	if baudRate <= 0 {
		baudRate = 115200
	}

	glog.Infof("Opening %s at %d...", port, baudRate)
	s, err := serial.Open(serial.OpenOptions{
		PortName:              port,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		ParityMode:            serial.PARITY_NONE,
		StopBits:              1,
		InterCharacterTimeout: 200,
		MinimumReadSize:       0,
	})
	if err != nil {
		return errors.Annotatef(err, "failed to open %s", port)
	}
	defer s.Close()
	s.Flush()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)
	go func() {
		<-sigs
		ourutil.Reportf("Closing %s.", port)
		s.Close()
	}()

	ourutil.Reportf("Connected to %s at %d baud. Ctrl+C to exit.", port, baudRate)
	buf := make([]byte, 4096)
	for {
		n, err := s.Read(buf)
		if n > 0 {
			os.Stdout.Write(buf[:n])
		}
		if err == io.EOF {
			// Inter-character timeout with a silent device.
			continue
		}
		if err != nil {
			// Port closed by the signal handler, or the device went away.
			glog.V(1).Infof("read: %s", err)
			return nil
		}
	}
}
