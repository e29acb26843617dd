package flash

import (
	"context"
	"strconv"

	"github.com/juju/errors"

	"github.com/esp32um/esp32um/cli/fwconfig"
	"github.com/esp32um/esp32um/cli/ourutil"
)

// EsptoolOpts mirror the write_flash knobs we pass through to esptool.
type EsptoolOpts struct {
	Esptool   string // path to the esptool binary
	Chip      string
	FlashMode string
	FlashFreq string
	FlashSize string
}

// EsptoolFlasher programs the device by running esptool as a subprocess,
// one invocation per write. The serial bootloader protocol lives
// entirely on the other side of that process boundary.
type EsptoolFlasher struct {
	Opts EsptoolOpts
}

func (f *EsptoolFlasher) Flash(ctx context.Context, port string, baudRate int, op WriteOp) error {
	args := []string{
		f.Opts.Esptool,
		"--chip", f.Opts.Chip,
		"--port", port,
		"--baud", strconv.Itoa(baudRate),
		"--before", "default_reset",
		"--after", "hard_reset",
		"write_flash",
		"-z",
		"--flash_mode", f.Opts.FlashMode,
		"--flash_freq", f.Opts.FlashFreq,
		"--flash_size", f.Opts.FlashSize,
	}
	if op.Erase {
		args = append(args, "--erase-all")
	}
	args = append(args, fwconfig.FormatAddr(op.Addr), op.BinPath)
	if err := ourutil.RunCmd(ctx, ourutil.CmdOutAlways, args...); err != nil {
		return errors.Annotatef(err, "%s failed", f.Opts.Esptool)
	}
	return nil
}

// CheckEsptool verifies the utility is runnable before a session starts,
// so a missing esptool surfaces as a config problem, not mid-flash.
func CheckEsptool(esptool string) error {
	out, err := ourutil.GetCommandOutput(esptool, "version")
	if err != nil {
		return errors.Annotatef(err, "%s is not runnable, install it or pass --esptool", esptool)
	}
	ourutil.Reportf("Using %s", ourutil.FirstLine(out))
	return nil
}
