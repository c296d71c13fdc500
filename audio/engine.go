// audio/engine.go
package audio

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// Config 音频引擎配置
type Config struct {
	SampleRate    int
	Channels      int
	FrameDuration int // 毫秒
	BeepFrequency float64
	BeepAmplitude float64
}

// DeviceEngine 基于系统默认设备的音频引擎
// 回放与提示音使用PortAudio输出流，录音使用malgo采集设备
type DeviceEngine struct {
	config Config
	buffer *Buffer
	frames chan<- []byte // opus帧输出，可为nil
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewDeviceEngine 创建新的设备音频引擎
// frames 不为nil时，录音期间编码后的opus帧会被写入该通道
func NewDeviceEngine(cfg Config, buffer *Buffer, frames chan<- []byte, logger *slog.Logger) (*DeviceEngine, error) {
	// 初始化PortAudio
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	return &DeviceEngine{
		config: cfg,
		buffer: buffer,
		frames: frames,
		logger: logger,
	}, nil
}

// frameSize 每个回调周期的样本数（单通道）
func (e *DeviceEngine) frameSize() int {
	return e.config.SampleRate * e.config.FrameDuration / 1000
}

func (e *DeviceEngine) checkOpen() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}
	return nil
}

// Close 终止音频引擎
// 调用方必须先停止所有活动操作
func (e *DeviceEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	// 终止PortAudio
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}
