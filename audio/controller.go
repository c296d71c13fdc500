// audio/controller.go
package audio

import (
	"fmt"
	"log/slog"
	"sync"
)

// controller 实现音频操作控制逻辑
// 单个槽位持有当前操作的句柄：槽位为空即空闲
type controller struct {
	mu     sync.Mutex
	engine Engine
	handle Handle
	kind   Kind
	logger *slog.Logger
}

// NewController 创建新的音频操作控制器实例
func NewController(engine Engine, logger *slog.Logger) Controller {
	return &controller{
		engine: engine,
		logger: logger,
	}
}

func (c *controller) Start(kind Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle != nil {
		c.logger.Warn("Start rejected, operation already active",
			"requested", kind,
			"active", c.kind)
		return ErrOperationActive
	}

	var (
		handle Handle
		err    error
	)
	switch kind {
	case KindPlayback:
		handle, err = c.engine.StartPlayback()
	case KindRecording:
		handle, err = c.engine.StartRecording()
	case KindBeep:
		handle, err = c.engine.StartBeep()
	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
	if err != nil {
		// 启动失败时槽位保持为空，控制器仍处于空闲状态
		c.logger.Error("Failed to start operation", "kind", kind, "error", err)
		return fmt.Errorf("start %s: %w", kind, err)
	}

	c.handle = handle
	c.kind = kind
	c.logger.Info("Operation started", "kind", kind)
	return nil
}

func (c *controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == nil {
		return nil
	}

	// 先清空槽位再释放，保证句柄只被释放一次，
	// 释放失败时控制器也已回到空闲状态
	handle := c.handle
	kind := c.kind
	c.handle = nil

	if err := handle.Release(); err != nil {
		c.logger.Error("Failed to release operation", "kind", kind, "error", err)
		return fmt.Errorf("release %s: %w", kind, err)
	}

	c.logger.Info("Operation stopped", "kind", kind)
	return nil
}

func (c *controller) Active() (Kind, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == nil {
		return 0, false
	}
	return c.kind, true
}
