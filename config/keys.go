package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownKey 配置键不存在
var ErrUnknownKey = errors.New("unknown config key")

// ConfigKeyInfo 存储配置键的相关信息
type ConfigKeyInfo struct {
	Description string   // 配置项描述
	Options     []string // 可选值，如果为空则表示没有限制
	Type        string   // string, bool, int, csv, duration
	get         func(c *Config) string
	set         func(c *Config, value string) error
}

func boolKey(desc string, field func(c *Config) *bool) ConfigKeyInfo {
	return ConfigKeyInfo{
		Description: desc,
		Type:        "bool",
		get:         func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, value string) error {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			*field(c) = b
			return nil
		},
	}
}

func stringKey(desc string, options []string, field func(c *Config) *string) ConfigKeyInfo {
	return ConfigKeyInfo{
		Description: desc,
		Options:     options,
		Type:        "string",
		get:         func(c *Config) string { return *field(c) },
		set: func(c *Config, value string) error {
			*field(c) = value
			return nil
		},
	}
}

func csvKey(desc string, field func(c *Config) *[]string) ConfigKeyInfo {
	return ConfigKeyInfo{
		Description: desc,
		Type:        "csv",
		get:         func(c *Config) string { return strings.Join(*field(c), ",") },
		set: func(c *Config, value string) error {
			var items []string
			for _, item := range strings.Split(value, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
			*field(c) = items
			return nil
		},
	}
}

// ConfigKeys 所有可以通过环境变量或命令行设置的配置键
var ConfigKeys = map[string]ConfigKeyInfo{
	"lang": stringKey("Interface language", nil, func(c *Config) *string { return &c.Lang }),
	"log.level": stringKey("Log level", []string{"debug", "info", "warn", "error"},
		func(c *Config) *string { return &c.Log.Level }),
	"log.format": stringKey("Log format", []string{"console", "json"},
		func(c *Config) *string { return &c.Log.Format }),
	"log.output":   stringKey("Log output path", nil, func(c *Config) *string { return &c.Log.Output }),
	"metrics_addr": stringKey("Metrics listen address", nil, func(c *Config) *string { return &c.MetricsAddr }),
	"state_dir":    stringKey("Settings store directory", nil, func(c *Config) *string { return &c.StateDir }),
	"scan.concurrency": {
		Description: "Directories expanded concurrently, 0 for automatic",
		Type:        "int",
		get:         func(c *Config) string { return strconv.Itoa(c.Scan.Concurrency) },
		set: func(c *Config, value string) error {
			n, err := strconv.Atoi(value)
			if err != nil {
				return err
			}
			if n < 0 {
				return fmt.Errorf("concurrency must not be negative: %d", n)
			}
			c.Scan.Concurrency = n
			return nil
		},
	},
	"scan.include_hidden":    boolKey("Include hidden entries", func(c *Config) *bool { return &c.Scan.IncludeHidden }),
	"scan.follow_symlinks":   boolKey("Follow symbolic links", func(c *Config) *bool { return &c.Scan.FollowSymlinks }),
	"scan.keep_empty_dirs":   boolKey("Keep empty directories", func(c *Config) *bool { return &c.Scan.KeepEmptyDirs }),
	"scan.respect_gitignore": boolKey("Skip files ignored by git", func(c *Config) *bool { return &c.Scan.RespectGitignore }),
	"scan.compress":          boolKey("Compress single-child folder chains", func(c *Config) *bool { return &c.Scan.Compress }),
	"scan.exclude_dirs":      csvKey("Directory names to skip", func(c *Config) *[]string { return &c.Scan.ExcludeDirs }),
	"scan.disabled_vcs":      csvKey("Disabled version control providers", func(c *Config) *[]string { return &c.Scan.DisabledVcs }),
	"filters.hide_generated": boolKey("Hide generated files", func(c *Config) *bool { return &c.Filters.HideGenerated }),
	"filters.hide_disabled":  boolKey("Hide disabled files", func(c *Config) *bool { return &c.Filters.HideDisabled }),
	"filters.simplify":       boolKey("Simplify tree", func(c *Config) *bool { return &c.Filters.Simplify }),
	"filters.trim_empty":     boolKey("Hide empty directories", func(c *Config) *bool { return &c.Filters.TrimEmpty }),
	"filters.hide_source_groups": boolKey("Hide source and header groups",
		func(c *Config) *bool { return &c.Filters.HideSourceGroups }),
	"watch.debounce": {
		Description: "Delay before rescanning after a change",
		Type:        "duration",
		get:         func(c *Config) string { return c.Watch.Debounce.String() },
		set: func(c *Config, value string) error {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			c.Watch.Debounce = d
			return nil
		},
	},
}

// Get 按键读取配置值的字符串形式
func (c *Config) Get(key string) (string, error) {
	info, ok := ConfigKeys[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return info.get(c), nil
}

// Set 按键设置配置值，有可选值的键会校验取值
func (c *Config) Set(key, value string) error {
	info, ok := ConfigKeys[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if !IsValidConfigOption(key, value) {
		return fmt.Errorf("invalid value %q for %s, options: %s", value, key, strings.Join(info.Options, ", "))
	}
	return info.set(c, value)
}

// GetConfigDescription 获取配置键的描述
func GetConfigDescription(key string) string {
	if info, exists := ConfigKeys[key]; exists {
		return info.Description
	}
	return ""
}

// IsValidConfigOption 检查给定的值是否是配置键的有效选项
func IsValidConfigOption(key, value string) bool {
	info, exists := ConfigKeys[key]
	if !exists {
		return false
	}
	if len(info.Options) == 0 {
		return true
	}
	for _, option := range info.Options {
		if option == value {
			return true
		}
	}
	return false
}
