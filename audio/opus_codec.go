// audio/opus_codec.go
package audio

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hraban/opus"
)

// OpusEncoder OPUS音频编码器
type OpusEncoder struct {
	encoder    *opus.Encoder
	sampleRate int
	channels   int
	logger     *slog.Logger
}

// NewOpusEncoder 创建新的OPUS编码器
func NewOpusEncoder(sampleRate, channels, bitrate int, logger *slog.Logger) (*OpusEncoder, error) {
	enc, err := opus.NewEncoder(sampleRate, channels, opus.AppVoIP)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus encoder: %w", err)
	}

	if err := enc.SetBitrate(bitrate); err != nil {
		return nil, fmt.Errorf("failed to set bitrate: %w", err)
	}

	return &OpusEncoder{
		encoder:    enc,
		sampleRate: sampleRate,
		channels:   channels,
		logger:     logger,
	}, nil
}

// Encode 编码PCM音频数据
func (e *OpusEncoder) Encode(pcm []int16) ([]byte, error) {
	if e.encoder == nil {
		return nil, errors.New("encoder not initialized")
	}

	data := make([]byte, 4000) // OPUS最大包大小
	n, err := e.encoder.Encode(pcm, data)
	if err != nil {
		return nil, fmt.Errorf("opus encode failed: %w", err)
	}

	return data[:n], nil
}

// Close 释放编码器资源
func (e *OpusEncoder) Close() {
	if e.encoder != nil {
		e.encoder = nil
	}
}
