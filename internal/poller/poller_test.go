// internal/poller/poller_test.go
package poller

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/scb-bridge/internal/command"
)

type fakeSender struct {
	mu     sync.Mutex
	writes [][]byte
	fail   bool
}

func (f *fakeSender) Send(b []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("connection reset")
	}
	f.writes = append(f.writes, append([]byte(nil), b...))
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func TestNew_Validation(t *testing.T) {
	reg := command.NewRegistry()

	_, err := New(Config{Interval: time.Second}, reg, &fakeSender{})
	assert.Error(t, err)

	_, err = New(Config{DeviceID: "d1"}, reg, &fakeSender{})
	assert.Error(t, err)

	_, err = New(Config{DeviceID: "d1", Interval: time.Second}, reg, nil)
	assert.Error(t, err)
}

func TestPollOnce_SingleWriteInCatalogOrder(t *testing.T) {
	reg := command.NewRegistry()
	s := &fakeSender{}

	p, err := New(Config{DeviceID: "d1", Interval: time.Second}, reg, s)
	require.NoError(t, err)

	res := p.PollOnce()
	require.NoError(t, res.Err)
	require.Equal(t, 1, s.count())

	lines := strings.Split(strings.TrimSuffix(string(s.writes[0]), "\r"), "\r")
	assert.Equal(t, len(reg.Readable())-1+command.SlotCount, len(lines))
	assert.Equal(t, len(lines), res.Requests)
	assert.Equal(t, len(s.writes[0]), res.Bytes)

	assert.Equal(t, "$ 0 GE EN", lines[0])
	assert.Equal(t, "$ 0 GE DH", lines[len(lines)-command.SlotCount-1])
	for slot := 0; slot < command.SlotCount; slot++ {
		assert.Equal(t, "$ 0 GE A"+string(rune('0'+slot)), lines[len(lines)-command.SlotCount+slot])
	}
	for _, l := range lines {
		assert.NotEqual(t, "$ 0 GE A", l)
	}
}

func TestPollOnce_Failure(t *testing.T) {
	p, err := New(Config{DeviceID: "d1", Interval: time.Second}, command.NewRegistry(), &fakeSender{fail: true})
	require.NoError(t, err)

	res := p.PollOnce()
	assert.Error(t, res.Err)
	assert.Zero(t, res.Bytes)
}

func TestRun_StopsOnSendError(t *testing.T) {
	s := &fakeSender{fail: true}
	p, err := New(Config{DeviceID: "d1", Interval: 5 * time.Millisecond}, command.NewRegistry(), s)
	require.NoError(t, err)

	out := make(chan PollResult, 4)
	done := make(chan struct{})
	go func() {
		p.Run(context.Background(), out)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after a failed send")
	}
	require.Len(t, out, 1)
	assert.Error(t, (<-out).Err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := &fakeSender{}
	p, err := New(Config{DeviceID: "d1", Interval: 5 * time.Millisecond}, command.NewRegistry(), s)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan PollResult)
	done := make(chan struct{})
	go func() {
		p.Run(ctx, out)
		close(done)
	}()

	res := <-out
	assert.NoError(t, res.Err)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
	assert.GreaterOrEqual(t, s.count(), 1)
}
