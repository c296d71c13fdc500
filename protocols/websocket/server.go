// protocols/websocket/server.go
package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/lisuiheng/audioctl-go/pkg/interfaces"
)

var _ interfaces.ControlTransport = (*Server)(nil)

// Config 定义websocket控制通道的配置
type Config struct {
	ListenAddr string
	Path       string
}

// Server 通过websocket接收控制命令并向客户端广播状态与音频帧
type Server struct {
	config     Config
	upgrader   websocket.Upgrader
	httpServer *http.Server
	listener   net.Listener
	msgChan    chan interfaces.Message
	closeChan  chan struct{}
	closeOnce  sync.Once
	mu         sync.Mutex
	conns      map[*websocket.Conn]struct{}
	logger     *slog.Logger
}

func NewServer(config Config, logger *slog.Logger) *Server {
	if config.Path == "" {
		config.Path = "/control"
	}
	return &Server{
		config:    config,
		msgChan:   make(chan interfaces.Message, 100),
		closeChan: make(chan struct{}),
		conns:     make(map[*websocket.Conn]struct{}),
		logger:    logger,
	}
}

func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc(s.config.Path, s.handleWS)

	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddr, err)
	}

	s.listener = listener
	s.httpServer = &http.Server{Handler: mux}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Control server stopped", "error", err)
		}
	}()

	s.logger.Info("Control server listening",
		"addr", listener.Addr().String(),
		"path", s.config.Path)
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	s.logger.Info("Client connected", "remote", conn.RemoteAddr().String())

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
		s.logger.Info("Client disconnected", "remote", conn.RemoteAddr().String())
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		select {
		case s.msgChan <- interfaces.Message{
			Payload: data,
			Type:    convertMsgType(msgType),
		}:
		case <-s.closeChan:
			return
		}
	}
}

func (s *Server) Send(data []byte, msgType interfaces.MessageType) error {
	select {
	case <-s.closeChan:
		return interfaces.ErrTransportClosed
	default:
	}

	wsType := websocket.TextMessage
	if msgType == interfaces.MsgBinary {
		wsType = websocket.BinaryMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.WriteMessage(wsType, data); err != nil {
			s.logger.Warn("Failed to write to client, dropping connection",
				"remote", conn.RemoteAddr().String(),
				"error", err)
			conn.Close()
			delete(s.conns, conn)
		}
	}
	return nil
}

func (s *Server) Receive() <-chan interfaces.Message {
	return s.msgChan
}

func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closeChan)

		s.mu.Lock()
		for conn := range s.conns {
			conn.Close()
			delete(s.conns, conn)
		}
		s.mu.Unlock()

		if s.httpServer != nil {
			err = s.httpServer.Shutdown(context.Background())
		}
	})
	return err
}

// Addr 返回实际监听地址（监听端口为0时有用）
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.config.ListenAddr
	}
	return s.listener.Addr().String()
}

func (s *Server) ProtocolType() string {
	return "websocket"
}

func convertMsgType(wsType int) interfaces.MessageType {
	if wsType == websocket.BinaryMessage {
		return interfaces.MsgBinary
	}
	return interfaces.MsgText
}
