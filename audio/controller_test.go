package audio

import (
	"errors"
	"testing"
)

func TestControllerStartFromIdle(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	ctrl := NewController(engine, discardLogger())

	if err := ctrl.Start(KindPlayback); err != nil {
		t.Fatalf("Start(KindPlayback) = %v, want nil", err)
	}

	kind, active := ctrl.Active()
	if !active || kind != KindPlayback {
		t.Errorf("Active() = (%v, %v), want (KindPlayback, true)", kind, active)
	}
	if engine.startCalls[KindPlayback] != 1 {
		t.Errorf("StartPlayback called %d times, want 1", engine.startCalls[KindPlayback])
	}
}

func TestControllerRejectsStartWhileActive(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	ctrl := NewController(engine, discardLogger())

	if err := ctrl.Start(KindPlayback); err != nil {
		t.Fatalf("first Start = %v, want nil", err)
	}

	err := ctrl.Start(KindRecording)
	if !errors.Is(err, ErrOperationActive) {
		t.Fatalf("second Start = %v, want ErrOperationActive", err)
	}

	// 被拒绝的请求不会打断当前操作，也不会触碰引擎
	kind, active := ctrl.Active()
	if !active || kind != KindPlayback {
		t.Errorf("Active() = (%v, %v), want (KindPlayback, true)", kind, active)
	}
	if engine.startCalls[KindRecording] != 0 {
		t.Errorf("StartRecording called %d times, want 0", engine.startCalls[KindRecording])
	}
}

func TestControllerMutualExclusion(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	ctrl := NewController(engine, discardLogger())

	accepted := 0
	for _, kind := range []Kind{KindBeep, KindPlayback, KindRecording, KindBeep} {
		if err := ctrl.Start(kind); err == nil {
			accepted++
		}
	}

	if accepted != 1 {
		t.Errorf("accepted %d starts without an intervening Stop, want 1", accepted)
	}
	if engine.totalStarts() != 1 {
		t.Errorf("engine started %d times, want 1", engine.totalStarts())
	}
}

func TestControllerStopReleasesExactlyOnce(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	ctrl := NewController(engine, discardLogger())

	if err := ctrl.Start(KindBeep); err != nil {
		t.Fatalf("Start = %v, want nil", err)
	}
	handle := engine.lastHandle()

	if err := ctrl.Stop(); err != nil {
		t.Fatalf("Stop = %v, want nil", err)
	}
	if handle.releases != 1 {
		t.Errorf("handle released %d times, want 1", handle.releases)
	}
	if _, active := ctrl.Active(); active {
		t.Error("controller still active after Stop")
	}

	// 再次Stop不得再触碰已释放的句柄
	if err := ctrl.Stop(); err != nil {
		t.Fatalf("second Stop = %v, want nil", err)
	}
	if handle.releases != 1 {
		t.Errorf("handle released %d times after second Stop, want 1", handle.releases)
	}
}

func TestControllerStopWhileIdle(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	ctrl := NewController(engine, discardLogger())

	if err := ctrl.Stop(); err != nil {
		t.Fatalf("Stop while idle = %v, want nil", err)
	}
	if _, active := ctrl.Active(); active {
		t.Error("controller active after Stop while idle")
	}
}

func TestControllerRestartability(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	ctrl := NewController(engine, discardLogger())

	if err := ctrl.Start(KindRecording); err != nil {
		t.Fatalf("Start(KindRecording) = %v, want nil", err)
	}
	first := engine.lastHandle()

	if err := ctrl.Stop(); err != nil {
		t.Fatalf("Stop = %v, want nil", err)
	}

	if err := ctrl.Start(KindBeep); err != nil {
		t.Fatalf("Start(KindBeep) after Stop = %v, want nil", err)
	}

	kind, active := ctrl.Active()
	if !active || kind != KindBeep {
		t.Errorf("Active() = (%v, %v), want (KindBeep, true)", kind, active)
	}
	if first.releases != 1 {
		t.Errorf("first handle released %d times, want 1", first.releases)
	}

	// 同类型操作也可以重启
	if err := ctrl.Stop(); err != nil {
		t.Fatalf("Stop = %v, want nil", err)
	}
	if err := ctrl.Start(KindBeep); err != nil {
		t.Fatalf("restart of same kind = %v, want nil", err)
	}
}

func TestControllerStartFailureStaysIdle(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	engine.startErr = errors.New("no output device")
	ctrl := NewController(engine, discardLogger())

	err := ctrl.Start(KindPlayback)
	if err == nil {
		t.Fatal("Start = nil, want error")
	}
	if _, active := ctrl.Active(); active {
		t.Error("controller active after failed Start")
	}

	// 失败后控制器仍可用
	engine.startErr = nil
	if err := ctrl.Start(KindPlayback); err != nil {
		t.Fatalf("Start after recovery = %v, want nil", err)
	}
}

func TestControllerReleaseFailureStillIdle(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	engine.releaseErr = errors.New("device busy")
	ctrl := NewController(engine, discardLogger())

	if err := ctrl.Start(KindBeep); err != nil {
		t.Fatalf("Start = %v, want nil", err)
	}
	handle := engine.lastHandle()

	// 释放失败也要回到空闲状态，避免状态机卡死
	if err := ctrl.Stop(); err == nil {
		t.Fatal("Stop = nil, want release error")
	}
	if _, active := ctrl.Active(); active {
		t.Error("controller still active after failed release")
	}

	if err := ctrl.Stop(); err != nil {
		t.Fatalf("second Stop = %v, want nil", err)
	}
	if handle.releases != 1 {
		t.Errorf("handle released %d times, want 1", handle.releases)
	}

	engine.releaseErr = nil
	if err := ctrl.Start(KindRecording); err != nil {
		t.Fatalf("Start after failed release = %v, want nil", err)
	}
}

func TestControllerUnknownKind(t *testing.T) {
	t.Parallel()

	engine := newFakeEngine()
	ctrl := NewController(engine, discardLogger())

	err := ctrl.Start(Kind(42))
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("Start(Kind(42)) = %v, want ErrUnknownKind", err)
	}
	if engine.totalStarts() != 0 {
		t.Errorf("engine started %d times, want 0", engine.totalStarts())
	}
	if _, active := ctrl.Active(); active {
		t.Error("controller active after unknown kind")
	}
}
