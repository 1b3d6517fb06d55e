// Package lang 提供界面字符串的翻译
package lang

import (
	"os"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

var (
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	mu        sync.RWMutex
)

// 中文消息表，键即英文原文
var zhMessages = map[string]string{
	"Project is being parsed":        "项目正在解析",
	"Project could not be parsed":    "项目无法解析",
	"Issues":                         "问题",
	"Startup project":                "启动项目",
	"Disabled":                       "已禁用",
	"Generated file":                 "生成的文件",
	"Scanning":                       "扫描中",
	"Project view command line tool": "项目视图命令行工具",
	"Scan a directory tree":          "扫描目录树",
	"Show the project tree":          "显示项目树",
	"Watch a directory and rescan":   "监视目录并重新扫描",
	"Print version information":      "打印版本信息",
	"Configuration file path":        "配置文件路径",
	"Debug mode":                     "调试模式",
	"Interface language":             "界面语言",
	"Invalid arguments":              "无效参数",
	"Scan cancelled":                 "扫描已取消",
	"files":                          "个文件",
	"directories":                    "个目录",
	"Scan directories concurrently and show them as a project tree": "并发扫描目录并以项目树显示",
	"Print detailed version information of projview":                "打印 projview 的详细版本信息",
	"projview version":             "projview 版本",
	"Show or change configuration": "显示或修改配置",
	"Print a configuration value":  "打印一个配置值",
	"Change a configuration value": "修改一个配置值",
	"Show descriptions":            "显示说明",
	"Header Files":                 "头文件",
	"Source Files":                 "源文件",
}

func init() {
	bundle = i18n.NewBundle(language.English)
	zh := make([]*i18n.Message, 0, len(zhMessages))
	for id, other := range zhMessages {
		zh = append(zh, &i18n.Message{ID: id, Other: other})
	}
	if err := bundle.AddMessages(language.Chinese, zh...); err != nil {
		panic(err)
	}
	SetLanguage(detectLanguage())
}

// detectLanguage 从环境变量推断界面语言
func detectLanguage() string {
	for _, key := range []string{"PROJVIEW_LANG", "LC_ALL", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return normalize(v)
		}
	}
	return "en"
}

// normalize 将 zh_CN.UTF-8 这样的值转换为 BCP 47 标签
func normalize(v string) string {
	if i := strings.IndexByte(v, '.'); i >= 0 {
		v = v[:i]
	}
	return strings.ReplaceAll(v, "_", "-")
}

// SetLanguage 切换当前语言，无法识别的标签回退到英文
func SetLanguage(tag string) {
	mu.Lock()
	defer mu.Unlock()
	localizer = i18n.NewLocalizer(bundle, normalize(tag), "en")
}

// T 翻译消息，没有对应翻译时返回原文
func T(msg string) string {
	mu.RLock()
	l := localizer
	mu.RUnlock()

	out, err := l.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: msg, Other: msg},
	})
	if err != nil {
		return msg
	}
	return out
}
