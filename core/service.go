package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lisuiheng/audioctl-go/audio"
	"github.com/lisuiheng/audioctl-go/pkg/interfaces"
)

// Command 是控制通道上的客户端命令
type Command struct {
	Type string `json:"type"`           // start/stop/status
	Kind string `json:"kind,omitempty"` // playback/recording/beep
}

// Event 是发送给客户端的状态或错误消息
type Event struct {
	Type    string `json:"type"` // state/error
	State   string `json:"state,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

// Status 包含当前操作状态
type Status struct {
	State string // idle/active
	Kind  string
}

// Service 将控制命令串行分发给音频操作控制器，
// 并把录音期间的opus帧转发给已连接的客户端
type Service struct {
	config    Config
	ctrl      audio.Controller
	transport interfaces.ControlTransport
	frames    <-chan []byte
	closeChan chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

// NewService 创建新的控制服务
// transport 与 frames 均可为nil（仅本地stdin控制时）
func NewService(cfg Config, ctrl audio.Controller, transport interfaces.ControlTransport, frames <-chan []byte, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if ctrl == nil {
		return nil, errors.New("controller cannot be nil")
	}

	return &Service{
		config:    cfg,
		ctrl:      ctrl,
		transport: transport,
		frames:    frames,
		closeChan: make(chan struct{}),
		logger:    logger,
	}, nil
}

// Run 启动服务主循环
// 命令按到达顺序逐个处理
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("Starting service main loop")
	defer s.logger.Info("Service main loop stopped")

	var recvChan <-chan interfaces.Message
	if s.transport != nil {
		if err := s.transport.Start(ctx); err != nil {
			return fmt.Errorf("failed to start control transport: %w", err)
		}
		recvChan = s.transport.Receive()
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Context cancelled, stopping service")
			return nil
		case <-s.closeChan:
			s.logger.Info("Close signal received, stopping service")
			return nil
		case msg := <-recvChan:
			if msg.Type != interfaces.MsgText {
				continue
			}
			s.handleCommand(msg.Payload)
		case frame := <-s.frames:
			// 录音期间把编码后的音频帧广播给客户端
			if s.transport != nil {
				if err := s.transport.Send(frame, interfaces.MsgBinary); err != nil {
					s.logger.Debug("Failed to forward audio frame", "error", err)
				}
			}
		}
	}
}

// Start 启动指定类型的音频操作
func (s *Service) Start(kind audio.Kind) error {
	return s.ctrl.Start(kind)
}

// Stop 停止当前音频操作
func (s *Service) Stop() error {
	return s.ctrl.Stop()
}

// GetStatus 获取当前操作状态
func (s *Service) GetStatus() Status {
	kind, active := s.ctrl.Active()
	if !active {
		return Status{State: "idle"}
	}
	return Status{State: "active", Kind: kind.String()}
}

func (s *Service) handleCommand(payload []byte) {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		s.logger.Error("Failed to parse command", "error", err)
		s.sendError(fmt.Errorf("invalid command: %w", err))
		return
	}

	s.logger.Debug("Received command", "type", cmd.Type, "kind", cmd.Kind)

	switch cmd.Type {
	case "start":
		kind, err := audio.ParseKind(cmd.Kind)
		if err != nil {
			s.sendError(err)
			return
		}
		if err := s.Start(kind); err != nil {
			s.sendError(err)
			return
		}
		s.sendState()
	case "stop":
		if err := s.Stop(); err != nil {
			s.sendError(err)
			return
		}
		s.sendState()
	case "status":
		s.sendState()
	default:
		s.logger.Warn("Unknown command", "type", cmd.Type)
		s.sendError(fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Type))
	}
}

func (s *Service) sendState() {
	status := s.GetStatus()
	s.sendJSON(Event{
		Type:  "state",
		State: status.State,
		Kind:  status.Kind,
	})
}

func (s *Service) sendError(err error) {
	s.sendJSON(Event{
		Type:    "error",
		Message: err.Error(),
	})
}

// 发送JSON消息到控制通道
func (s *Service) sendJSON(data interface{}) {
	if s.transport == nil {
		return
	}

	msg, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("Failed to marshal message", "error", err)
		return
	}

	if err := s.transport.Send(msg, interfaces.MsgText); err != nil {
		s.logger.Error("Failed to send message", "error", err)
	}
}

// Close 关闭服务并停止当前操作
func (s *Service) Close() error {
	s.logger.Info("Closing service")
	s.closeOnce.Do(func() {
		close(s.closeChan)
	})

	// 停止仍在运行的操作，保证句柄被释放
	if err := s.ctrl.Stop(); err != nil {
		s.logger.Error("Failed to stop active operation", "error", err)
	}

	if s.transport != nil {
		if err := s.transport.Close(); err != nil {
			s.logger.Error("Failed to close control transport", "error", err)
			return err
		}
	}

	s.logger.Info("Service closed successfully")
	return nil
}
