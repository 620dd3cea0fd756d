// internal/device/session.go
package device

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/scb-bridge/internal/action"
	"github.com/tamzrod/scb-bridge/internal/metrics"
	"github.com/tamzrod/scb-bridge/internal/poller"
	"github.com/tamzrod/scb-bridge/internal/status"
)

const readBufferSize = 4096

// ErrTransport matches every TransportError via errors.Is.
var ErrTransport = errors.New("device: transport error")

// TransportError is a connection failure at one stage (dial, read, write, poll).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("device: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Code maps the failing stage to a health-block error code.
func (e *TransportError) Code() uint16 {
	switch e.Op {
	case "dial":
		return status.ErrCodeDial
	case "read":
		return status.ErrCodeRead
	case "write", "poll":
		return status.ErrCodeWrite
	default:
		return status.ErrCodeGeneric
	}
}

// SessionConfig is the transport config of one device connection.
type SessionConfig struct {
	Address      string        // host:port
	Timeout      time.Duration // dial and write timeout
	PollInterval time.Duration // zero disables polling
}

// Session is one established TCP connection to a device. It owns the
// poll timer; the adapter it feeds outlives it.
type Session struct {
	cfg     SessionConfig
	adapter *Adapter
	conn    net.Conn
	log     logrus.FieldLogger
	m       *metrics.Metrics

	wmu sync.Mutex

	emu     sync.Mutex
	failErr error
}

// Dial connects to the device. One attempt; retry policy belongs to the caller.
func Dial(ctx context.Context, cfg SessionConfig, a *Adapter, log logrus.FieldLogger, m *metrics.Metrics) (*Session, error) {
	d := net.Dialer{Timeout: cfg.Timeout}
	conn, err := d.DialContext(ctx, "tcp", cfg.Address)
	if err != nil {
		return nil, &TransportError{Op: "dial", Err: err}
	}
	return newSession(cfg, a, conn, log, m), nil
}

func newSession(cfg SessionConfig, a *Adapter, conn net.Conn, log logrus.FieldLogger, m *metrics.Metrics) *Session {
	a.ResetFramer()
	return &Session{
		cfg:     cfg,
		adapter: a,
		conn:    conn,
		log:     log.WithFields(logrus.Fields{"device": a.ID(), "addr": cfg.Address}),
		m:       m,
	}
}

// Send writes b as one write. Safe for concurrent use with Run and the
// poll timer. A failed write tears the connection down.
func (s *Session) Send(b []byte) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if s.cfg.Timeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.Timeout))
	}
	if _, err := s.conn.Write(b); err != nil {
		terr := &TransportError{Op: "write", Err: err}
		s.fail(terr)
		return terr
	}
	return nil
}

// Dispatch sends a button action over this connection. See Adapter.Dispatch.
func (s *Session) Dispatch(req action.Request) (bool, error) { return s.adapter.Dispatch(s, req) }

// Run reads until ctx is done or the connection fails, feeding every chunk
// through the adapter and emitting the resulting Update on out (if non-nil).
// It returns nil on cancellation and a *TransportError otherwise. The poll
// timer is stopped before Run returns.
func (s *Session) Run(ctx context.Context, out chan<- Update) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	if s.cfg.PollInterval > 0 {
		p, err := poller.New(poller.Config{
			DeviceID: s.adapter.ID(),
			Interval: s.cfg.PollInterval,
		}, s.adapter.Registry(), s)
		if err != nil {
			s.conn.Close()
			return err
		}

		results := make(chan poller.PollResult)
		wg.Add(2)
		go func() {
			defer wg.Done()
			p.Run(ctx, results)
		}()
		go func() {
			defer wg.Done()
			s.watchPolls(ctx, results)
		}()
	}

	// unblock Read on cancellation
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		s.conn.Close()
	}()

	buf := make([]byte, readBufferSize)
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			u := s.adapter.HandleChunk(buf[:n])
			if out != nil {
				select {
				case out <- u:
				case <-ctx.Done():
				}
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.fail(&TransportError{Op: "read", Err: err})
			return s.err()
		}
	}
}

func (s *Session) watchPolls(ctx context.Context, results <-chan poller.PollResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case res := <-results:
			s.m.Polled(s.adapter.ID(), res.Err)
			if res.Err != nil {
				s.log.WithError(res.Err).Error("poll failed")
				s.fail(&TransportError{Op: "poll", Err: res.Err})
				return
			}
			s.m.Sent(s.adapter.ID(), "poll")
		}
	}
}

// fail records the first transport error and closes the socket so the
// read loop unwinds.
func (s *Session) fail(err error) {
	s.emu.Lock()
	defer s.emu.Unlock()
	if s.failErr != nil {
		return
	}
	s.failErr = err
	s.conn.Close()
}

func (s *Session) err() error {
	s.emu.Lock()
	defer s.emu.Unlock()
	return s.failErr
}

// Close tears the connection down.
func (s *Session) Close() error {
	return s.conn.Close()
}
