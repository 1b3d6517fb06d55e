// Package config 读取 YAML 配置文件并应用环境变量覆盖
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sjzsdu/projview/share"
	"gopkg.in/yaml.v3"
)

// ScanConfig 扫描相关配置
type ScanConfig struct {
	// Concurrency 同时展开的目录数，0 表示按 CPU 数自动选择
	Concurrency      int      `yaml:"concurrency"`
	IncludeHidden    bool     `yaml:"include_hidden"`
	FollowSymlinks   bool     `yaml:"follow_symlinks"`
	KeepEmptyDirs    bool     `yaml:"keep_empty_dirs"`
	RespectGitignore bool     `yaml:"respect_gitignore"`
	ExcludeDirs      []string `yaml:"exclude_dirs,omitempty"`
	// Compress 解析后压缩单链目录
	Compress bool `yaml:"compress"`
	// DisabledVcs 禁用的版本控制提供者名称
	DisabledVcs []string `yaml:"disabled_vcs,omitempty"`
}

// FilterConfig 展示树过滤配置
type FilterConfig struct {
	HideGenerated    bool `yaml:"hide_generated"`
	HideDisabled     bool `yaml:"hide_disabled"`
	Simplify         bool `yaml:"simplify"`
	TrimEmpty        bool `yaml:"trim_empty"`
	HideSourceGroups bool `yaml:"hide_source_groups"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output,omitempty"`
}

// WatchConfig watch 命令配置
type WatchConfig struct {
	// Debounce 文件变化后等待多久再重新扫描
	Debounce time.Duration `yaml:"debounce"`
}

// Config 完整配置
type Config struct {
	Scan        ScanConfig   `yaml:"scan"`
	Filters     FilterConfig `yaml:"filters"`
	Log         LogConfig    `yaml:"log"`
	Watch       WatchConfig  `yaml:"watch"`
	MetricsAddr string       `yaml:"metrics_addr"`
	Lang        string       `yaml:"lang,omitempty"`
	// StateDir 设置存储目录，为空时使用 ~/.projview
	StateDir string `yaml:"state_dir,omitempty"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			IncludeHidden:    true,
			FollowSymlinks:   true,
			RespectGitignore: true,
			ExcludeDirs:      []string{".git", ".svn", ".hg", ".idea", ".vscode", "node_modules", "__pycache__"},
		},
		Filters: FilterConfig{
			TrimEmpty: true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		MetricsAddr: ":9464",
	}
}

// DefaultPath 返回 ~/.projview/config.yaml
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(share.PATH, share.CONFIG_FILE)
	}
	return filepath.Join(home, share.PATH, share.CONFIG_FILE)
}

// Load 读取配置文件并应用环境变量
// 文件不存在时使用默认值，文件格式错误时返回错误
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile 只读取配置文件，不应用环境变量，用于修改后写回
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// 解码到默认值上，文件中没有出现的字段保持默认
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Save 把配置写回文件
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetEnvKey 把配置键转换为环境变量名
func GetEnvKey(key string) string {
	return share.PREFIX + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// ApplyEnv 用 PROJVIEW_ 开头的环境变量覆盖配置
func (c *Config) ApplyEnv() error {
	for _, key := range AllKeys() {
		value, ok := os.LookupEnv(GetEnvKey(key))
		if !ok || value == "" {
			continue
		}
		if err := c.Set(key, value); err != nil {
			return fmt.Errorf("%s: %w", GetEnvKey(key), err)
		}
	}
	return nil
}

// AllKeys 返回所有配置键，已排序
func AllKeys() []string {
	keys := make([]string, 0, len(ConfigKeys))
	for key := range ConfigKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
