// internal/service/config.go
package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 是整个看板进程的配置
type Config struct {
	Server    ServerConfig    `mapstructure:"Server"`
	Log       LogConfig       `mapstructure:"Log"`
	Market    MarketConfig    `mapstructure:"Market"`
	Refresh   RefreshConfig   `mapstructure:"Refresh"`
	Chart     ChartConfig     `mapstructure:"Chart"`
	Dashboard DashboardConfig `mapstructure:"Dashboard"`
}

// ServerConfig 定义了 HTTP/WebSocket 服务
type ServerConfig struct {
	Addr           string
	StaticDir      string   // 页面静态文件目录，为空时不提供
	AllowedOrigins []string // 允许建立 WebSocket 的跨域来源，同源请求始终允许
}

type LogConfig struct {
	Level string
}

// MarketConfig 定义了上游行情 API
type MarketConfig struct {
	BaseURL string
	Timeout time.Duration // 0 表示使用网络层默认行为
}

type RefreshConfig struct {
	Interval time.Duration
}

// PaletteConfig 定义了图表涨跌配色
type PaletteConfig struct {
	Positive     string
	Negative     string
	PositiveFill string
	NegativeFill string
	FillEnd      string
}

// ChartConfig 定义了图表时间范围和展示参数
type ChartConfig struct {
	Ranges              []int
	DefaultRange        int
	Timezone            string
	MovingAveragePeriod int // 0 表示不叠加均线
	Palette             PaletteConfig
}

// DashboardConfig 定义了侧边栏的选项
type DashboardConfig struct {
	DefaultCoin    string
	AmountPresets  []float64
	PaymentMethods []string
	Tabs           []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Addr", ":8080")
	v.SetDefault("Server.StaticDir", "")
	v.SetDefault("Server.AllowedOrigins", []string{})
	v.SetDefault("Log.Level", "info")
	v.SetDefault("Market.BaseURL", "https://api.coingecko.com/api/v3")
	v.SetDefault("Market.Timeout", 0)
	v.SetDefault("Refresh.Interval", time.Minute)
	v.SetDefault("Chart.Ranges", []int{1, 7, 14, 30, 90, 365})
	v.SetDefault("Chart.DefaultRange", 7)
	v.SetDefault("Chart.Timezone", "Local")
	v.SetDefault("Chart.MovingAveragePeriod", 0)
	v.SetDefault("Chart.Palette.Positive", "#00c853")
	v.SetDefault("Chart.Palette.Negative", "#f23545")
	v.SetDefault("Chart.Palette.PositiveFill", "rgba(0, 200, 83, 0.2)")
	v.SetDefault("Chart.Palette.NegativeFill", "rgba(242, 53, 69, 0.2)")
	v.SetDefault("Chart.Palette.FillEnd", "rgba(0, 0, 0, 0)")
	v.SetDefault("Dashboard.DefaultCoin", "bitcoin")
	v.SetDefault("Dashboard.AmountPresets", []float64{100, 500, 1000})
	v.SetDefault("Dashboard.PaymentMethods", []string{"card", "bank", "paypal"})
	v.SetDefault("Dashboard.Tabs", []string{"buy", "sell"})
}

// LoadConfig 读取并解析配置文件
// 配置文件可选：找不到时使用默认值，环境变量 (DASHBOARD_ 前缀) 覆盖文件中的值
func LoadConfig(configPath string) (*Config, error) {
	// 如果存在 .env 文件则先加载到环境变量
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config") // 文件名是 config
	v.SetConfigType("yaml")   // 文件类型是 yaml
	v.AddConfigPath(configPath)
	v.SetEnvPrefix("DASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// 查找并读取配置文件
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// 将配置绑定到结构体
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 检查配置之间的一致性
func (c *Config) Validate() error {
	if len(c.Chart.Ranges) == 0 {
		return errors.New("config: Chart.Ranges must not be empty")
	}
	for _, days := range c.Chart.Ranges {
		if days <= 0 {
			return fmt.Errorf("config: chart range %d must be positive", days)
		}
	}
	if !slices.Contains(c.Chart.Ranges, c.Chart.DefaultRange) {
		return fmt.Errorf("config: Chart.DefaultRange %d is not one of %v", c.Chart.DefaultRange, c.Chart.Ranges)
	}
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("config: Refresh.Interval must be positive, got %s", c.Refresh.Interval)
	}
	if c.Chart.MovingAveragePeriod < 0 {
		return fmt.Errorf("config: Chart.MovingAveragePeriod must not be negative")
	}
	if c.Dashboard.DefaultCoin == "" {
		return errors.New("config: Dashboard.DefaultCoin must be set")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: Chart.Timezone: %w", err)
	}
	return nil
}

// Location 返回图表标签使用的时区
func (c *Config) Location() (*time.Location, error) {
	if c.Chart.Timezone == "" || c.Chart.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Chart.Timezone)
}
