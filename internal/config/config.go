package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

const (
	appDirName     = "ana"
	configFileName = "config.toml"
	envPrefix      = "ANA"
)

// AppConfig 应用配置
type AppConfig struct {
	Server  ServerConfig  `toml:"server" json:"server"`
	Paths   PathsConfig   `toml:"paths" json:"paths"`
	Company CompanyConfig `toml:"company" json:"company"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int  `toml:"port" json:"port" validate:"min=1,max=65535"`
	DevMode     bool `toml:"dev_mode" json:"devMode"`
	OpenBrowser bool `toml:"open_browser" json:"openBrowser"`
}

// PathsConfig 目录配置
type PathsConfig struct {
	RawDataPath string `toml:"raw_data_path" json:"rawDataPath"` // 原始数据路径
	OutputPath  string `toml:"output_path" json:"outputPath"`    // 对账单输出路径
	DataDir     string `toml:"data_dir" json:"dataDir"`          // 历史记录数据库目录
}

// CompanyConfig 对账单抬头
type CompanyConfig struct {
	Name    string `toml:"name" json:"name"`       // 公司名称
	Address string `toml:"address" json:"address"` // 地址
	Phone   string `toml:"phone" json:"phone"`     // 电话
	Fax     string `toml:"fax" json:"fax"`         // 传真
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `toml:"level" json:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `toml:"development" json:"development"`
}

// envOverrides 可由环境变量覆盖的字段（ANA_PORT、ANA_OUTPUT_PATH ...）
type envOverrides struct {
	Port           int    `envconfig:"PORT"`
	DevMode        *bool  `envconfig:"DEV_MODE"`
	RawDataPath    string `envconfig:"RAW_DATA_PATH"`
	OutputPath     string `envconfig:"OUTPUT_PATH"`
	DataDir        string `envconfig:"DATA_DIR"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
	LogDevelopment *bool  `envconfig:"LOG_DEVELOPMENT"`
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			OpenBrowser: true,
		},
		Paths: PathsConfig{
			RawDataPath: "raw-data",
			OutputPath:  "output",
			DataDir:     "data",
		},
		Company: CompanyConfig{
			Name:    "百惠行对账单",
			Address: "东莞市黄江镇华南塑胶城区132号",
			Phone:   "(0769) 83631717",
			Fax:     "83637787",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate 校验配置
func (c *AppConfig) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

// HasOutputPath 是否已设置输出目录
func (c *AppConfig) HasOutputPath() bool {
	return strings.TrimSpace(c.Paths.OutputPath) != ""
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 配置文件路径：<用户配置目录>/ana/config.toml，取不到时放在可执行文件同目录
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, appDirName, configFileName)
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, configFileName)
}

// Load 从 path 加载配置；文件不存在时返回默认配置
func Load(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv 环境变量覆盖
func ApplyEnv(cfg *AppConfig) error {
	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("read env overrides: %w", err)
	}
	if env.Port > 0 {
		cfg.Server.Port = env.Port
	}
	if env.DevMode != nil {
		cfg.Server.DevMode = *env.DevMode
	}
	if env.RawDataPath != "" {
		cfg.Paths.RawDataPath = env.RawDataPath
	}
	if env.OutputPath != "" {
		cfg.Paths.OutputPath = env.OutputPath
	}
	if env.DataDir != "" {
		cfg.Paths.DataDir = env.DataDir
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogDevelopment != nil {
		cfg.Log.Development = *env.LogDevelopment
	}
	return nil
}

// Save 保存配置（先写临时文件再重命名）
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("保存配置失败: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("保存配置失败: %w", err)
	}
	return nil
}

// EnsureDataDir 确保历史数据库目录存在，相对路径基于配置文件所在目录
func EnsureDataDir(cfg *AppConfig, configPath string) (string, error) {
	dataDir := cfg.Paths.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(filepath.Dir(configPath), dataDir)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
