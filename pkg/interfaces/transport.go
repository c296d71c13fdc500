// pkg/interfaces/transport.go
package interfaces

import (
	"context"
	"errors"
)

var (
	ErrTransportClosed     = errors.New("transport closed")
	ErrUnsupportedProtocol = errors.New("unsupported protocol")
)

// ControlTransport 定义控制通道接口
// 服务从Receive读取客户端命令，通过Send向所有已连接客户端广播
type ControlTransport interface {
	Start(ctx context.Context) error
	Send(data []byte, msgType MessageType) error
	Receive() <-chan Message
	Close() error
	ProtocolType() string
}

type Message struct {
	Payload []byte
	Type    MessageType
}

type MessageType int

const (
	MsgText   MessageType = iota // JSON文本
	MsgBinary                    // 二进制数据（如音频帧）
)
