// Package config 负责加载 ledcad 的 YAML 配置文件。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 是配置文件的根结构。
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Export  ExportConfig  `yaml:"export"`
	Review  ReviewConfig  `yaml:"review"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	BodyLimit    string        `yaml:"body_limit"`
	AllowOrigins []string      `yaml:"allow_origins"`
	// PublicURL 用于拼接原生路径返回的文档地址，为空时按 addr 推导。
	PublicURL string `yaml:"public_url"`
}

type StorageConfig struct {
	DocumentsDir string `yaml:"documents_dir"`
	PrefsFile    string `yaml:"prefs_file"`
}

type ExportConfig struct {
	// ShareCommand 为空时只记录分享请求。
	ShareCommand  string `yaml:"share_command"`
	RuntimeHeader string `yaml:"runtime_header"`
}

type ReviewConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Model          string        `yaml:"model"`
	APIKeyEnv      string        `yaml:"api_key_env"`
	Timeout        time.Duration `yaml:"timeout"`
	PreviewMaxEdge int           `yaml:"preview_max_edge"`
	PreviewDPMM    float64       `yaml:"preview_dpmm"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			BodyLimit:    "8M",
			AllowOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			DocumentsDir: "./documents",
			PrefsFile:    "./ledcad-prefs.yaml",
		},
		Export: ExportConfig{
			RuntimeHeader: "X-LED-Runtime",
		},
		Review: ReviewConfig{
			BaseURL:        "https://generativelanguage.googleapis.com",
			Model:          "gemini-3-pro-preview",
			APIKeyEnv:      "API_KEY",
			Timeout:        60 * time.Second,
			PreviewMaxEdge: 1600,
			PreviewDPMM:    4,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load 读取配置文件；文件不存在时返回默认配置。
// 文件中未出现的字段保留默认值，相对路径按配置文件所在目录解析。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		cfg.applyEnvironmentOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg.applyEnvironmentOverrides()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.resolvePaths(filepath.Dir(path))
	cfg.fillZero()
	return cfg, nil
}

// applyEnvironmentOverrides 允许环境变量覆盖部分配置。
func (c *Config) applyEnvironmentOverrides() {
	if addr := os.Getenv("LEDCAD_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if dir := os.Getenv("LEDCAD_DOCUMENTS_DIR"); dir != "" {
		c.Storage.DocumentsDir = dir
	}
	if lvl := os.Getenv("LEDCAD_LOG_LEVEL"); lvl != "" {
		c.Log.Level = lvl
	}
}

func (c *Config) resolvePaths(dir string) {
	if c.Storage.DocumentsDir != "" && !filepath.IsAbs(c.Storage.DocumentsDir) {
		c.Storage.DocumentsDir = filepath.Join(dir, c.Storage.DocumentsDir)
	}
	if c.Storage.PrefsFile != "" && !filepath.IsAbs(c.Storage.PrefsFile) {
		c.Storage.PrefsFile = filepath.Join(dir, c.Storage.PrefsFile)
	}
}

// fillZero 为显式写成空值的字段补回默认值。
func (c *Config) fillZero() {
	d := Default()
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.BodyLimit == "" {
		c.Server.BodyLimit = d.Server.BodyLimit
	}
	if c.Export.RuntimeHeader == "" {
		c.Export.RuntimeHeader = d.Export.RuntimeHeader
	}
	if c.Review.BaseURL == "" {
		c.Review.BaseURL = d.Review.BaseURL
	}
	if c.Review.Model == "" {
		c.Review.Model = d.Review.Model
	}
	if c.Review.APIKeyEnv == "" {
		c.Review.APIKeyEnv = d.Review.APIKeyEnv
	}
	if c.Review.Timeout <= 0 {
		c.Review.Timeout = d.Review.Timeout
	}
	if c.Review.PreviewDPMM <= 0 {
		c.Review.PreviewDPMM = d.Review.PreviewDPMM
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
