package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/lisuiheng/audioctl-go/audio"
	"github.com/lisuiheng/audioctl-go/core"
	"github.com/lisuiheng/audioctl-go/logger"
	"github.com/lisuiheng/audioctl-go/pkg/interfaces"
	"github.com/lisuiheng/audioctl-go/protocols/websocket"
	"github.com/spf13/viper"
)

func main() {
	// 定义命令行参数
	configPath := flag.String("c", "", "Path to config file (default searches ./config.yaml, ./config, /etc/audioctl)")
	flag.Parse()

	// 加载配置
	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := initLogger(cfg); err != nil {
		logger.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer logger.Logger().Info("Shutting down audioctl service")

	// 录音与回放共享的采集缓冲区
	buffer := audio.NewBuffer()

	// 创建控制通道
	var (
		transport interfaces.ControlTransport
		frames    chan []byte
	)
	switch cfg.System.Network.Transport {
	case "websocket":
		if cfg.System.Network.Websocket == nil {
			logger.Error("Websocket transport selected but not configured")
			os.Exit(1)
		}
		transport = websocket.NewServer(websocket.Config{
			ListenAddr: cfg.System.Network.Websocket.ListenAddr,
			Path:       cfg.System.Network.Websocket.Path,
		}, logger.Logger())
		frames = make(chan []byte, 100)
	case "", "none":
		// 仅本地stdin控制
	default:
		logger.Error("Failed to create transport",
			"transport", cfg.System.Network.Transport,
			"error", interfaces.ErrUnsupportedProtocol)
		os.Exit(1)
	}

	// 创建音频引擎
	engine, err := audio.NewDeviceEngine(audio.Config{
		SampleRate:    cfg.Audio.SampleRate,
		Channels:      cfg.Audio.Channels,
		FrameDuration: cfg.Audio.FrameDuration,
		BeepFrequency: cfg.Audio.Beep.Frequency,
		BeepAmplitude: cfg.Audio.Beep.Amplitude,
	}, buffer, frames, logger.Logger())
	if err != nil {
		logger.Error("Failed to create audio engine", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Error("Failed to close audio engine", "error", err)
		}
	}()

	// 创建控制服务
	ctrl := audio.NewController(engine, logger.Logger())
	service, err := core.NewService(cfg, ctrl, transport, frames, logger.Logger())
	if err != nil {
		logger.Error("Failed to create service", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := service.Close(); err != nil {
			logger.Error("Failed to close service", "error", err)
		}
	}()

	// 设置信号处理
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 启动主服务
	go func() {
		logger.Info("Starting audioctl service")
		if err := service.Run(ctx); err != nil {
			logger.Error("Service runtime error", "error", err)
			cancel()
		}
	}()

	// 启动本地交互模式
	go startInteractive(service, cancel)

	// 等待终止信号
	select {
	case sig := <-sigChan:
		logger.Info("Received signal, shutting down", "signal", sig)
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down")
	}

	logger.Info("Service shutdown completed")
}

// startInteractive 在stdin上提供本地控制命令
func startInteractive(service *core.Service, cancel context.CancelFunc) {
	fmt.Println("commands: play | record | beep | stop | status | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("audioctl> ")
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "play":
			runCommand(service, audio.KindPlayback)
		case "record":
			runCommand(service, audio.KindRecording)
		case "beep":
			runCommand(service, audio.KindBeep)
		case "stop":
			if err := service.Stop(); err != nil {
				fmt.Printf("stop failed: %v\n", err)
			}
		case "status":
			status := service.GetStatus()
			if status.Kind != "" {
				fmt.Printf("%s (%s)\n", status.State, status.Kind)
			} else {
				fmt.Println(status.State)
			}
		case "quit", "exit":
			cancel()
			return
		default:
			fmt.Printf("unknown command: %s\n", input)
		}
	}
}

func runCommand(service *core.Service, kind audio.Kind) {
	if err := service.Start(kind); err != nil {
		if errors.Is(err, audio.ErrOperationActive) {
			fmt.Println("another operation is active, stop it first")
			return
		}
		fmt.Printf("start %s failed: %v\n", kind, err)
	}
}

// loadConfig 加载配置文件
func loadConfig(configPath string) (core.Config, error) {
	viper.SetConfigType("yaml")

	if configPath != "" {
		// 使用命令行指定的路径
		viper.SetConfigFile(configPath)
	} else {
		// 默认多路径搜索
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/audioctl")
	}

	// 默认值
	viper.SetDefault("system.network.transport", "websocket")
	viper.SetDefault("system.network.websocket.listen_addr", "127.0.0.1:8090")
	viper.SetDefault("system.network.websocket.path", "/control")
	viper.SetDefault("audio.sample_rate", 48000)
	viper.SetDefault("audio.channels", 1)
	viper.SetDefault("audio.frame_duration", 20)
	viper.SetDefault("audio.beep.frequency", 440.0)
	viper.SetDefault("audio.beep.amplitude", 1.0)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.outputs", []string{"stdout"})

	if err := viper.ReadInConfig(); err != nil {
		// 未指定配置文件且默认路径下找不到时使用默认值
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return core.Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg core.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return core.Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// initLogger 初始化日志系统
func initLogger(cfg core.Config) error {
	logCfg := logger.Config{
		Level:   cfg.Logging.Level,
		Outputs: cfg.Logging.Outputs,
	}

	// 调试模式覆盖配置
	if viper.GetBool("debug") {
		logCfg.Level = "debug"
		logCfg.Outputs = []string{"stdout"}
	}

	return logger.Init(logCfg)
}
