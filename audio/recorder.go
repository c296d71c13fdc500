// audio/recorder.go
package audio

import (
	"fmt"
	"log/slog"

	"github.com/gen2brain/malgo"
)

// captureHandle 包装一个malgo采集设备
type captureHandle struct {
	device  *malgo.Device
	context *malgo.AllocatedContext
	encoder *OpusEncoder
	logger  *slog.Logger
}

func (h *captureHandle) Release() error {
	stopErr := h.device.Stop()
	if stopErr != nil {
		h.logger.Error("failed to stop capture device", "error", stopErr)
	}
	h.device.Uninit()

	_ = h.context.Uninit()
	h.context.Free()

	if h.encoder != nil {
		h.encoder.Close()
	}

	if stopErr != nil {
		return fmt.Errorf("stop capture device: %w", stopErr)
	}
	return nil
}

// StartRecording 从默认输入设备采集PCM到共享缓冲区
// 配置了opus帧输出时，每个采集帧会被编码后推送到frames通道
func (e *DeviceEngine) StartRecording() (Handle, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	frameSize := e.frameSize() * e.config.Channels
	if frameSize <= 0 {
		return nil, fmt.Errorf("invalid frame size: %d", frameSize)
	}

	var encoder *OpusEncoder
	if e.frames != nil {
		var err error
		encoder, err = NewOpusEncoder(
			e.config.SampleRate,
			e.config.Channels,
			32000, // 32kbps比特率
			e.logger,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create opus encoder: %w", err)
		}
	}

	// 初始化malgo上下文
	ctxMalgo, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		e.logger.Debug("malgo", "message", message)
	})
	if err != nil {
		if encoder != nil {
			encoder.Close()
		}
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(e.config.Channels)
	deviceConfig.SampleRate = uint32(e.config.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(e.frameSize())

	captureCallback := func(_, pcmData []byte, _ uint32) {
		pcm := bytesToInt16(pcmData)
		e.buffer.Write(pcm)

		if encoder == nil {
			return
		}
		opusData, err := encoder.Encode(pcm)
		if err != nil {
			e.logger.Error("OPUS encode failed", "error", err)
			return
		}
		select {
		case e.frames <- opusData:
		default:
			e.logger.Warn("Audio frame channel blocked, dropping frame")
		}
	}

	device, err := malgo.InitDevice(ctxMalgo.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: captureCallback,
	})
	if err != nil {
		_ = ctxMalgo.Uninit()
		ctxMalgo.Free()
		if encoder != nil {
			encoder.Close()
		}
		return nil, fmt.Errorf("failed to initialize audio device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = ctxMalgo.Uninit()
		ctxMalgo.Free()
		if encoder != nil {
			encoder.Close()
		}
		return nil, fmt.Errorf("failed to start audio device: %w", err)
	}

	e.logger.Info("Audio recording started",
		"sample_rate", e.config.SampleRate,
		"channels", e.config.Channels,
		"frame_size", e.frameSize())

	return &captureHandle{
		device:  device,
		context: ctxMalgo,
		encoder: encoder,
		logger:  e.logger,
	}, nil
}

// bytesToInt16 将byte切片转换为int16切片
func bytesToInt16(b []byte) []int16 {
	if len(b)%2 != 0 {
		b = b[:len(b)-1] // 确保长度是偶数
	}

	pcm := make([]int16, len(b)/2)
	for i := 0; i < len(pcm); i++ {
		pcm[i] = int16(b[i*2]) | int16(b[i*2+1])<<8
	}
	return pcm
}
