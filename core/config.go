// core/config.go
package core

// Config 是服务配置结构（与YAML文件的结构一致）
type Config struct {
	System struct {
		Network struct {
			Transport string           `mapstructure:"transport"` // websocket/none
			Websocket *WebsocketConfig `mapstructure:"websocket"`
		} `mapstructure:"network"`
	} `mapstructure:"system"`

	Audio struct {
		SampleRate    int `mapstructure:"sample_rate"`
		Channels      int `mapstructure:"channels"`
		FrameDuration int `mapstructure:"frame_duration"`

		Beep struct {
			Frequency float64 `mapstructure:"frequency"`
			Amplitude float64 `mapstructure:"amplitude"`
		} `mapstructure:"beep"`
	} `mapstructure:"audio"`

	Logging struct {
		Level   string   `mapstructure:"level"`
		Outputs []string `mapstructure:"outputs"`
	} `mapstructure:"logging"`
}

type WebsocketConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	Path       string `mapstructure:"path"`
}
