package mjpeg

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine records every lifecycle call and can be told to fail at a
// specific acquisition step, so tests can assert the unwind order.
type fakeEngine struct {
	failContext   bool
	failFrame     bool
	failPacket    bool
	failConfigure bool
	failProcess   bool

	events []string
}

var errFake = errors.New("injected failure")

func (e *fakeEngine) AcquireContext(mode CodingMode, cfg ContextConfig) (Context, error) {
	if e.failContext {
		return nil, errFake
	}
	e.events = append(e.events, "context.acquire")
	return &fakeContext{engine: e, cfg: cfg, mode: mode}, nil
}

type fakeContext struct {
	engine *fakeEngine
	mode   CodingMode
	cfg    ContextConfig
}

func (c *fakeContext) AllocGroup(kind GroupKind) (BufferGroup, error) {
	if kind == GroupFrame && c.engine.failFrame {
		return nil, errFake
	}
	if kind == GroupPacket && c.engine.failPacket {
		return nil, errFake
	}
	c.engine.events = append(c.engine.events, kind.String()+".alloc")
	return &fakeGroup{engine: c.engine, kind: kind}, nil
}

func (c *fakeContext) Configure() error {
	if c.engine.failConfigure {
		return errFake
	}
	c.engine.events = append(c.engine.events, "configure")
	return nil
}

func (c *fakeContext) Process(src, dst []byte) (int, FrameInfo, error) {
	if c.engine.failProcess {
		return 0, FrameInfo{}, errFake
	}
	c.engine.events = append(c.engine.events, "process")
	n := copy(dst, src)
	var info FrameInfo
	if c.mode == ModeDecode {
		info = FrameInfo{Width: c.cfg.Width, Height: c.cfg.Height, Format: c.cfg.Format}
	}
	return n, info, nil
}

func (c *fakeContext) Release() error {
	c.engine.events = append(c.engine.events, "context.release")
	return nil
}

type fakeGroup struct {
	engine *fakeEngine
	kind   GroupKind
}

func (g *fakeGroup) Kind() GroupKind { return g.kind }

func (g *fakeGroup) Release() error {
	g.engine.events = append(g.engine.events, g.kind.String()+".release")
	return nil
}

func TestSession_AcquisitionOrder(t *testing.T) {
	engine := &fakeEngine{}

	sess, err := newSession(engine, ModeEncode, ContextConfig{Width: 640, Height: 480})
	require.NoError(t, err)
	defer sess.close()

	assert.Equal(t, []string{
		"context.acquire",
		"frame.alloc",
		"packet.alloc",
		"configure",
	}, engine.events)
}

func TestSession_ReleaseOrder(t *testing.T) {
	engine := &fakeEngine{}

	sess, err := newSession(engine, ModeEncode, ContextConfig{Width: 640, Height: 480})
	require.NoError(t, err)
	require.NoError(t, sess.close())

	// Packet group first because it was acquired last, then frame group,
	// then the context.
	assert.Equal(t, []string{
		"packet.release",
		"frame.release",
		"context.release",
	}, engine.events[4:])
}

func TestSession_CreateUnwind(t *testing.T) {
	tests := []struct {
		name       string
		engine     *fakeEngine
		wantEvents []string
	}{
		{
			name:       "context acquisition fails",
			engine:     &fakeEngine{failContext: true},
			wantEvents: nil,
		},
		{
			name:   "frame group fails",
			engine: &fakeEngine{failFrame: true},
			wantEvents: []string{
				"context.acquire",
				"context.release",
			},
		},
		{
			name:   "packet group fails",
			engine: &fakeEngine{failPacket: true},
			wantEvents: []string{
				"context.acquire",
				"frame.alloc",
				"frame.release",
				"context.release",
			},
		},
		{
			name:   "configure fails",
			engine: &fakeEngine{failConfigure: true},
			wantEvents: []string{
				"context.acquire",
				"frame.alloc",
				"packet.alloc",
				"packet.release",
				"frame.release",
				"context.release",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := newSession(tt.engine, ModeEncode, ContextConfig{Width: 640, Height: 480})
			require.Error(t, err)
			assert.Nil(t, sess)
			assert.Equal(t, tt.wantEvents, tt.engine.events)
		})
	}
}

func TestSession_ProcessFailureLeavesCounters(t *testing.T) {
	engine := &fakeEngine{}

	sess, err := newSession(engine, ModeEncode, ContextConfig{Width: 640, Height: 480})
	require.NoError(t, err)
	defer sess.close()

	engine.failProcess = true
	_, _, err = sess.process(make([]byte, 16), make([]byte, 16))
	require.Error(t, err)

	frames, bytes, err := sess.stats()
	require.NoError(t, err)
	assert.Zero(t, frames)
	assert.Zero(t, bytes)
}

func TestSession_DoubleClose(t *testing.T) {
	engine := &fakeEngine{}

	sess, err := newSession(engine, ModeEncode, ContextConfig{Width: 640, Height: 480})
	require.NoError(t, err)

	require.NoError(t, sess.close())

	// Tombstoned: a second close is a defined error and must not touch the
	// already-released handles.
	err = sess.close()
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 1, countEvent(engine.events, "context.release"))
}

func TestSession_UseAfterClose(t *testing.T) {
	engine := &fakeEngine{}

	sess, err := newSession(engine, ModeEncode, ContextConfig{Width: 640, Height: 480})
	require.NoError(t, err)
	require.NoError(t, sess.close())

	_, _, err = sess.process(make([]byte, 16), make([]byte, 16))
	assert.ErrorIs(t, err, ErrClosed)

	_, _, err = sess.stats()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSession_HandlesNilAfterClose(t *testing.T) {
	engine := &fakeEngine{}

	sess, err := newSession(engine, ModeEncode, ContextConfig{Width: 640, Height: 480})
	require.NoError(t, err)
	require.NoError(t, sess.close())

	assert.Nil(t, sess.ctx)
	assert.Nil(t, sess.frameGroup)
	assert.Nil(t, sess.packetGroup)
	assert.False(t, sess.initialized)
}

func TestSession_ConcurrentProcessAndStats(t *testing.T) {
	sess, err := newSession(newSoftwareEngine(), ModeEncode, ContextConfig{Width: 64, Height: 64})
	require.NoError(t, err)
	defer sess.close()

	const workers = 8
	const perWorker = 25

	src := make([]byte, NV12Size(64, 64))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dst := make([]byte, len(src))
			for j := 0; j < perWorker; j++ {
				if _, _, err := sess.process(src, dst); err != nil {
					t.Error(err)
					return
				}
				if _, _, err := sess.stats(); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	frames, bytes, err := sess.stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(workers*perWorker), frames)
	assert.Equal(t, uint64(workers*perWorker*len(src)), bytes)
}

func countEvent(events []string, name string) int {
	n := 0
	for _, e := range events {
		if e == name {
			n++
		}
	}
	return n
}
