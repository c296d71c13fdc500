// audio/buffer.go
package audio

import "sync"

// Buffer 是录音与回放共享的采集缓冲区
// 录音向尾部追加样本，回放读取快照
type Buffer struct {
	mu      sync.Mutex
	samples []int16
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Write 追加PCM样本
func (b *Buffer) Write(pcm []int16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples = append(b.samples, pcm...)
}

// Snapshot 返回当前内容的副本
// 回放消费副本，不影响后续录音继续追加
func (b *Buffer) Snapshot() []int16 {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]int16, len(b.samples))
	copy(out, b.samples)
	return out
}

// Len 返回缓冲区内的样本数
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}

// Reset 清空缓冲区
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples = nil
}
