package flash

import (
	"context"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esp32um/esp32um/cli/fwconfig"
	"github.com/esp32um/esp32um/cli/project"
)

type fakeCall struct {
	port string
	baud int
	op   WriteOp
}

type fakeFlasher struct {
	calls   []fakeCall
	failAt  int // 1-based index of the call to fail, 0 - never
	failErr error
}

func (f *fakeFlasher) Flash(ctx context.Context, port string, baudRate int, op WriteOp) error {
	f.calls = append(f.calls, fakeCall{port: port, baud: baudRate, op: op})
	if f.failAt == len(f.calls) {
		return f.failErr
	}
	return nil
}

func healthyProject(t *testing.T) *project.Project {
	t.Helper()
	p := &project.Project{
		Name: "blinky",
		Dir:  "/work/esp32/blinky",
		Bins: []string{"app.bin", "bootloader.bin", "partitions.bin"},
		Config: &fwconfig.Config{
			BaudRate: 460800,
			Entries: []*fwconfig.Entry{
				{Name: "bootloader.bin", Addr: 0x1000, AddrText: "0x1000"},
				{Name: "partitions.bin", Addr: 0x8000, AddrText: "0x8000"},
				{Name: "app.bin", Addr: 0x10000, AddrText: "0x10000"},
			},
		},
	}
	p.Evaluate()
	require.Equal(t, project.HealthHealthy, p.Health)
	return p
}

func TestSessionHappyPath(t *testing.T) {
	p := healthyProject(t)
	sess, err := NewSession(p, "/dev/ttyUSB0", true)
	require.NoError(t, err)
	require.Equal(t, StatusPending, sess.Status())

	released := 0
	sess.OnRelease(func() { released++ })

	fl := &fakeFlasher{}
	require.NoError(t, sess.Run(context.Background(), fl))
	assert.Equal(t, StatusSucceeded, sess.Status())
	assert.Equal(t, 1, released)

	// One call per entry, in config order, erase only on the first.
	require.Len(t, fl.calls, 3)
	assert.Equal(t, "/work/esp32/blinky/bootloader.bin", fl.calls[0].op.BinPath)
	assert.Equal(t, uint32(0x1000), fl.calls[0].op.Addr)
	assert.True(t, fl.calls[0].op.Erase)
	assert.Equal(t, "/work/esp32/blinky/partitions.bin", fl.calls[1].op.BinPath)
	assert.False(t, fl.calls[1].op.Erase)
	assert.Equal(t, "/work/esp32/blinky/app.bin", fl.calls[2].op.BinPath)
	assert.False(t, fl.calls[2].op.Erase)
	for _, c := range fl.calls {
		assert.Equal(t, "/dev/ttyUSB0", c.port)
		assert.Equal(t, 460800, c.baud)
	}
}

func TestSessionNoEraseRequested(t *testing.T) {
	sess, err := NewSession(healthyProject(t), "/dev/ttyUSB0", false)
	require.NoError(t, err)
	fl := &fakeFlasher{}
	require.NoError(t, sess.Run(context.Background(), fl))
	for i, c := range fl.calls {
		assert.Falsef(t, c.op.Erase, "call %d", i)
	}
}

func TestSessionHaltsOnFailure(t *testing.T) {
	sess, err := NewSession(healthyProject(t), "/dev/ttyUSB0", false)
	require.NoError(t, err)

	released := 0
	sess.OnRelease(func() { released++ })

	fl := &fakeFlasher{failAt: 2, failErr: errors.New("device went away")}
	err = sess.Run(context.Background(), fl)
	require.Error(t, err)
	assert.Equal(t, StatusFailed, sess.Status())
	// Entry 3 is never attempted after entry 2 fails.
	assert.Len(t, fl.calls, 2)
	// The port is released on the failure path too.
	assert.Equal(t, 1, released)

	// Terminal: the session cannot be rerun.
	err = sess.Run(context.Background(), fl)
	require.Error(t, err)
	assert.Len(t, fl.calls, 2)
}

func TestNotFlashable(t *testing.T) {
	p := &project.Project{Name: "broken", Dir: "/work/esp32/broken", Bins: []string{"a.bin"}}
	p.Evaluate()
	require.NotEqual(t, project.HealthHealthy, p.Health)

	sess, err := NewSession(p, "/dev/ttyUSB0", false)
	require.Error(t, err)
	assert.Nil(t, sess)
	assert.Equal(t, ErrNotFlashable, errors.Cause(err))
}

func TestSucceededIsTerminal(t *testing.T) {
	sess, err := NewSession(healthyProject(t), "/dev/ttyUSB0", false)
	require.NoError(t, err)
	fl := &fakeFlasher{}
	require.NoError(t, sess.Run(context.Background(), fl))
	calls := len(fl.calls)
	require.Error(t, sess.Run(context.Background(), fl))
	assert.Len(t, fl.calls, calls)
	assert.Equal(t, StatusSucceeded, sess.Status())
}
