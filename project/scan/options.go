package scan

import (
	"time"

	"go.uber.org/zap"
)

// VcsProvider 只需回答一个路径是否属于版本控制元数据
type VcsProvider interface {
	IsVcsFileOrDirectory(path string) bool
}

// ProvidersFunc 返回当前启用的版本控制提供者，每次扫描只调用一次
type ProvidersFunc func() []VcsProvider

// IgnoreMatcher 额外的忽略规则，例如 .gitignore
type IgnoreMatcher interface {
	Match(path string, isDir bool) bool
}

// ProgressFunc 接收 [0, share.SCAN_PROGRESS_MAX] 之间单调递增的进度
type ProgressFunc func(value int)

// Stats 一次扫描的统计
type Stats struct {
	Root        string
	Files       int
	Directories int
	Skipped     int
	Duration    time.Duration
	Canceled    bool
}

// Recorder 接收扫描的开始和结束，用于指标采集
type Recorder interface {
	ScanStarted(root string)
	ScanFinished(stats Stats)
}

// 默认排除的目录名
var defaultExcludeDirs = []string{
	".git",
	".svn",
	".hg",
	".idea",
	".vscode",
	"node_modules",
	"__pycache__",
	".DS_Store",
}

// WalkOptions 控制枚举哪些目录条目
type WalkOptions struct {
	// IncludeHidden 是否包含以点开头的条目
	IncludeHidden bool
	// FollowSymlinks 是否进入符号链接指向的目录，目录环会被检测并跳过
	FollowSymlinks bool
	// KeepEmptyDirs 是否保留没有任何文件的目录
	KeepEmptyDirs bool
	// ExcludeDirs 按目录名排除
	ExcludeDirs []string
	// Ignore 额外的忽略规则，可以为空
	Ignore IgnoreMatcher
}

// DefaultWalkOptions 返回默认的目录遍历选项
func DefaultWalkOptions() WalkOptions {
	excludes := make([]string, len(defaultExcludeDirs))
	copy(excludes, defaultExcludeDirs)
	return WalkOptions{
		IncludeHidden:  true,
		FollowSymlinks: true,
		ExcludeDirs:    excludes,
	}
}

func (o WalkOptions) excludeSet() map[string]bool {
	set := make(map[string]bool, len(o.ExcludeDirs))
	for _, name := range o.ExcludeDirs {
		set[name] = true
	}
	return set
}

// Option 扫描器构造选项
type Option func(*Scanner)

func WithFilter(f EntryFilter) Option {
	return func(s *Scanner) { s.filter = f }
}

func WithClassifier(c TypeClassifier) Option {
	return func(s *Scanner) { s.classifier = c }
}

func WithWalkOptions(o WalkOptions) Option {
	return func(s *Scanner) { s.walk = o }
}

func WithVcsProviders(fn ProvidersFunc) Option {
	return func(s *Scanner) { s.providers = fn }
}

// WithMaxWorkers 设置并发目录数，0 表示按 CPU 数自动选择
func WithMaxWorkers(n int) Option {
	return func(s *Scanner) { s.maxWorkers = n }
}

func WithProgress(fn ProgressFunc) Option {
	return func(s *Scanner) { s.progress = fn }
}

func WithRecorder(r Recorder) Option {
	return func(s *Scanner) { s.recorder = r }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Scanner) { s.logger = logger }
}
