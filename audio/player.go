// audio/player.go
package audio

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/gordonklaus/portaudio"
)

// streamHandle 包装一条PortAudio输出流
type streamHandle struct {
	stream *portaudio.Stream
	kind   Kind
	logger *slog.Logger
}

func (h *streamHandle) Release() error {
	// 先停止再关闭，两步都尝试执行
	stopErr := h.stream.Stop()
	if stopErr != nil {
		h.logger.Error("failed to stop audio stream", "kind", h.kind, "error", stopErr)
	}
	closeErr := h.stream.Close()
	if closeErr != nil {
		h.logger.Error("failed to close audio stream", "kind", h.kind, "error", closeErr)
	}

	if stopErr != nil {
		return fmt.Errorf("stop stream: %w", stopErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close stream: %w", closeErr)
	}
	return nil
}

// StartPlayback 回放采集缓冲区的内容
// 消费启动时刻的缓冲区快照，播放完毕后输出静音
func (e *DeviceEngine) StartPlayback() (Handle, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	snapshot := e.buffer.Snapshot()
	pos := 0

	// 回调只由PortAudio的单个线程调用，pos无需加锁
	callback := func(out [][]float32) {
		for i := range out[0] {
			var sample float32
			if pos < len(snapshot) {
				sample = float32(snapshot[pos]) / 32768.0
				pos++
			}
			for ch := range out {
				out[ch][i] = sample
			}
		}
	}

	stream, err := portaudio.OpenDefaultStream(
		0,                            // 输入通道数(0表示不录音)
		e.config.Channels,            // 输出通道数
		float64(e.config.SampleRate), // 采样率
		e.frameSize(),                // 缓冲区大小
		callback,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open playback stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to start playback stream: %w", err)
	}

	e.logger.Info("Playback started",
		"buffered_samples", len(snapshot),
		"sample_rate", e.config.SampleRate)

	return &streamHandle{stream: stream, kind: KindPlayback, logger: e.logger}, nil
}

// StartBeep 在默认输出设备上生成正弦提示音
func (e *DeviceEngine) StartBeep() (Handle, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	sampleRate := float64(e.config.SampleRate)
	amplitude := e.config.BeepAmplitude
	step := 2 * math.Pi * e.config.BeepFrequency / sampleRate
	var phase float64

	callback := func(out [][]float32) {
		for i := range out[0] {
			sample := float32(math.Sin(phase) * amplitude)
			phase += step
			if phase >= 2*math.Pi {
				phase -= 2 * math.Pi
			}
			for ch := range out {
				out[ch][i] = sample
			}
		}
	}

	stream, err := portaudio.OpenDefaultStream(
		0,
		e.config.Channels,
		sampleRate,
		e.frameSize(),
		callback,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open beep stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to start beep stream: %w", err)
	}

	e.logger.Info("Beep started",
		"frequency", e.config.BeepFrequency,
		"sample_rate", e.config.SampleRate)

	return &streamHandle{stream: stream, kind: KindBeep, logger: e.logger}, nil
}
