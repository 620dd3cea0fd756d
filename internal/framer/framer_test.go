// internal/framer/framer_test.go
package framer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stream = "0 0 GE RE ST\r0 0 GE MM 2032\r\r0 0 GE A0 1200\r0 0 GE LO Main Hall\r0 0 GE TA"

func TestPush_WholeStream(t *testing.T) {
	f := New('\r', 0)

	lines := f.Push([]byte(stream))
	assert.Equal(t, []string{
		"0 0 GE RE ST",
		"0 0 GE MM 2032",
		"",
		"0 0 GE A0 1200",
		"0 0 GE LO Main Hall",
	}, lines)
	assert.Equal(t, len("0 0 GE TA"), f.Pending())

	lines = f.Push([]byte(" 1205\r"))
	assert.Equal(t, []string{"0 0 GE TA 1205"}, lines)
	assert.Zero(t, f.Pending())
}

func TestPush_DelimiterSplitAcrossChunks(t *testing.T) {
	f := New('\r', 0)

	assert.Empty(t, f.Push([]byte("0 0 GE RE")))
	assert.Empty(t, f.Push([]byte(" UP")))
	assert.Equal(t, []string{"0 0 GE RE UP"}, f.Push([]byte("\r")))
}

func TestPush_SplitInvariant(t *testing.T) {
	want := New('\r', 0).Push([]byte(stream))

	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 200; round++ {
		f := New('\r', 0)
		var got []string

		data := []byte(stream)
		for len(data) > 0 {
			n := 1 + rng.Intn(len(data))
			got = append(got, f.Push(data[:n])...)
			data = data[n:]
		}
		require.Equal(t, want, got, "round %d", round)
	}
}

func TestReset(t *testing.T) {
	f := New('\r', 0)
	f.Push([]byte("partial"))
	f.Reset()
	assert.Equal(t, []string{"next"}, f.Push([]byte("next\r")))
}

func TestPush_OverlongTailDropped(t *testing.T) {
	f := New('\r', 8)

	assert.Empty(t, f.Push([]byte("0 0 GE")))
	assert.Zero(t, f.TakeDropped())

	// no delimiter and over the limit: the tail is gone
	assert.Empty(t, f.Push([]byte(" MM 1200 garbage")))
	assert.Zero(t, f.Pending())
	assert.Equal(t, 1, f.TakeDropped())
	assert.Zero(t, f.TakeDropped())

	// complete lines longer than the limit still pass
	assert.Equal(t, []string{"0 0 GE MM 1200"}, f.Push([]byte("0 0 GE MM 1200\r")))
	assert.Zero(t, f.TakeDropped())
}
