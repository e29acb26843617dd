package flash

import (
	"context"

	"github.com/golang/glog"
	"github.com/juju/errors"

	"github.com/esp32um/esp32um/cli/fwconfig"
	"github.com/esp32um/esp32um/cli/project"
)

// ErrNotFlashable is returned when a session is requested for a project
// that is not healthy. It is a precondition failure, not something a
// retry can fix - repair the project and build a new session.
var ErrNotFlashable = errors.New("project is not flashable")

type Status int

const (
	StatusPending Status = iota
	StatusFlashing
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFlashing:
		return "flashing"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// WriteOp is a single write the external flashing utility performs:
// one binary at one address. Erase is set on the first op of a session
// when the operator asked for a full erase.
type WriteOp struct {
	BinPath string
	Addr    uint32
	Erase   bool
}

// Flasher is the external flashing utility. One blocking, fallible call
// per config entry; no retries, no protocol detail visible here.
type Flasher interface {
	Flash(ctx context.Context, port string, baudRate int, op WriteOp) error
}

// Session is one attempt to program a device from a validated project.
// It owns the port for its duration and is single-use: Succeeded and
// Failed are terminal.
type Session struct {
	Project          *Target
	Port             string
	EraseBeforeWrite bool

	status Status

	// onRelease runs exactly once when the session ends, on every exit
	// path, so a failed session never leaves the port claimed.
	onRelease func()
}

// Target is the slice of a project a session needs. Kept separate from
// project.Project so tests can construct one without a filesystem.
type Target struct {
	Name     string
	BaudRate int
	Writes   []WriteOp
}

// TargetFromProject flattens a healthy project's config into the ordered
// write list. Entry order is the config's textual order.
func TargetFromProject(p *project.Project) (*Target, error) {
	if p.Health != project.HealthHealthy {
		return nil, errors.Annotatef(ErrNotFlashable, "%s: %s", p.Name, p.Health)
	}
	t := &Target{Name: p.Name, BaudRate: p.Config.BaudRate}
	for _, e := range p.Config.Entries {
		t.Writes = append(t.Writes, WriteOp{BinPath: p.BinPath(e.Name), Addr: e.Addr})
	}
	return t, nil
}

// NewSession creates a pending session for a validated project.
func NewSession(p *project.Project, port string, erase bool) (*Session, error) {
	t, err := TargetFromProject(p)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Session{Project: t, Port: port, EraseBeforeWrite: erase}, nil
}

func (s *Session) Status() Status {
	return s.status
}

// OnRelease registers a hook to run when the session gives up the port.
func (s *Session) OnRelease(f func()) {
	s.onRelease = f
}

func (s *Session) release() {
	if s.onRelease != nil {
		s.onRelease()
		s.onRelease = nil
	}
}

// Run drives the session to a terminal state: one flasher call per
// entry, in config order. The first failure halts the remaining writes -
// carrying on after a failed write risks an inconsistent flash image.
func (s *Session) Run(ctx context.Context, fl Flasher) error {
	if s.status != StatusPending {
		return errors.Errorf("%s: session already ran (%s)", s.Project.Name, s.status)
	}
	s.status = StatusFlashing
	defer s.release()

	baudRate := s.Project.BaudRate
	for i, op := range s.Project.Writes {
		op.Erase = s.EraseBeforeWrite && i == 0
		glog.V(1).Infof("%s: write %d/%d: %s @ %s", s.Project.Name, i+1, len(s.Project.Writes), op.BinPath, fwconfig.FormatAddr(op.Addr))
		if err := fl.Flash(ctx, s.Port, baudRate, op); err != nil {
			s.status = StatusFailed
			return errors.Annotatef(err, "failed to write %s @ %s", op.BinPath, fwconfig.FormatAddr(op.Addr))
		}
	}
	s.status = StatusSucceeded
	return nil
}
