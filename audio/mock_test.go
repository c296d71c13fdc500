package audio

import (
	"io"
	"log/slog"
)

// fakeHandle 记录释放次数的测试句柄
type fakeHandle struct {
	kind       Kind
	releases   int
	releaseErr error
}

func (h *fakeHandle) Release() error {
	h.releases++
	return h.releaseErr
}

// fakeEngine 记录启动调用的测试引擎
type fakeEngine struct {
	startCalls map[Kind]int
	startErr   error
	releaseErr error
	handles    []*fakeHandle
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{startCalls: make(map[Kind]int)}
}

func (e *fakeEngine) start(kind Kind) (Handle, error) {
	e.startCalls[kind]++
	if e.startErr != nil {
		return nil, e.startErr
	}
	h := &fakeHandle{kind: kind, releaseErr: e.releaseErr}
	e.handles = append(e.handles, h)
	return h, nil
}

func (e *fakeEngine) StartPlayback() (Handle, error)  { return e.start(KindPlayback) }
func (e *fakeEngine) StartRecording() (Handle, error) { return e.start(KindRecording) }
func (e *fakeEngine) StartBeep() (Handle, error)      { return e.start(KindBeep) }

// lastHandle 返回最近一次启动产生的句柄
func (e *fakeEngine) lastHandle() *fakeHandle {
	if len(e.handles) == 0 {
		return nil
	}
	return e.handles[len(e.handles)-1]
}

func (e *fakeEngine) totalStarts() int {
	total := 0
	for _, n := range e.startCalls {
		total += n
	}
	return total
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
