// audio/interface.go
package audio

// Kind 表示音频操作类型
type Kind int

const (
	KindPlayback  Kind = iota // 回放采集缓冲区
	KindRecording             // 麦克风采集
	KindBeep                  // 正弦提示音
)

func (k Kind) String() string {
	switch k {
	case KindPlayback:
		return "playback"
	case KindRecording:
		return "recording"
	case KindBeep:
		return "beep"
	default:
		return "unknown"
	}
}

// ParseKind 解析操作类型名称
func ParseKind(s string) (Kind, error) {
	switch s {
	case "playback":
		return KindPlayback, nil
	case "recording":
		return KindRecording, nil
	case "beep":
		return KindBeep, nil
	default:
		return 0, ErrUnknownKind
	}
}

// Handle 表示一个正在运行的音频操作
// 句柄是不透明的，只暴露释放操作；释放后不得再次使用
// （由 Controller 的状态机保证，见 controller.go）
type Handle interface {
	Release() error
}

// Engine 定义音频引擎接口
// 每个 Start 方法启动对应的操作并返回其句柄
type Engine interface {
	StartPlayback() (Handle, error)
	StartRecording() (Handle, error)
	StartBeep() (Handle, error)
}

// Controller 定义音频操作控制接口
// 任意时刻最多只有一个操作处于活动状态
type Controller interface {
	// Start 启动指定类型的操作；已有活动操作时返回 ErrOperationActive
	Start(kind Kind) error
	// Stop 停止当前操作并释放句柄；空闲时为空操作
	Stop() error
	// Active 返回当前活动操作的类型
	Active() (Kind, bool)
}
