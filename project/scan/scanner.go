package scan

import (
	"context"
	"sync"
	"time"

	"github.com/sjzsdu/projview/helper"
	"go.uber.org/zap"
)

// Scanner 异步、可取消地扫描一个目录树
// 同一实例同时只运行一次扫描，需要并发扫描时使用多个实例。
type Scanner struct {
	mu sync.Mutex

	filter     EntryFilter
	classifier TypeClassifier
	walk       WalkOptions
	providers  ProvidersFunc
	maxWorkers int
	progress   ProgressFunc
	recorder   Recorder
	logger     *zap.Logger
	onFinished []func()

	running bool
	closed  bool
	cancel  context.CancelFunc
	done    chan struct{}
	result  *Result
}

// New 创建扫描器，默认跳过二进制产物并跟随符号链接
func New(opts ...Option) *Scanner {
	s := &Scanner{
		filter:     DefaultFilter,
		classifier: DefaultClassifier,
		walk:       DefaultWalkOptions(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.classifier == nil {
		s.classifier = DefaultClassifier
	}
	return s
}

// setIdle 在空闲时执行 fn，扫描进行中返回 false
func (s *Scanner) setIdle(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	fn()
	return true
}

// SetFilter 设置文件过滤器，nil 表示不过滤
func (s *Scanner) SetFilter(f EntryFilter) bool {
	return s.setIdle(func() { s.filter = f })
}

// SetWalkOptions 设置目录遍历选项
func (s *Scanner) SetWalkOptions(o WalkOptions) bool {
	return s.setIdle(func() { s.walk = o })
}

// SetTypeClassifier 设置文件类型分类器，nil 时恢复默认分类器
func (s *Scanner) SetTypeClassifier(c TypeClassifier) bool {
	if c == nil {
		c = DefaultClassifier
	}
	return s.setIdle(func() { s.classifier = c })
}

// SetVcsProviders 设置版本控制提供者来源
func (s *Scanner) SetVcsProviders(fn ProvidersFunc) bool {
	return s.setIdle(func() { s.providers = fn })
}

// SetMaxWorkers 设置并发目录数
func (s *Scanner) SetMaxWorkers(n int) bool {
	return s.setIdle(func() { s.maxWorkers = n })
}

// SetProgressHandler 设置进度回调，回调在工作协程中执行
func (s *Scanner) SetProgressHandler(fn ProgressFunc) bool {
	return s.setIdle(func() { s.progress = fn })
}

// OnFinished 注册扫描结束回调，每次扫描结束都会调用一次
// 回调中不能调用 Wait 或 Close
func (s *Scanner) OnFinished(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFinished = append(s.onFinished, fn)
}

// StartScan 开始异步扫描 root
// 上一次扫描尚未结束或扫描器已关闭时返回 false 且不产生任何影响
func (s *Scanner) StartScan(ctx context.Context, root string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.closed {
		return false
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	w := &walker{
		filter:     s.filter,
		classifier: s.classifier,
		walk:       s.walk,
		excludes:   s.walk.excludeSet(),
		maxWorkers: s.maxWorkers,
		logger:     s.logger,
		progress:   &progressTracker{fn: s.progress},
		visited:    make(map[string]bool),
	}
	// 每次扫描只查询一次提供者列表
	if s.providers != nil {
		w.providers = s.providers()
	}

	s.running = true
	s.result = nil
	s.cancel = cancel
	s.done = done
	go s.run(ctx, cancel, helper.CleanPath(root), w, s.recorder, done)
	return true
}

func (s *Scanner) run(ctx context.Context, cancel context.CancelFunc, root string, w *walker, rec Recorder, done chan struct{}) {
	defer close(done)
	defer cancel()

	start := time.Now()
	if rec != nil {
		rec.ScanStarted(root)
	}
	w.logger.Debug("scan started", zap.String("root", root))

	res := w.scan(ctx, root)
	res.stats.Duration = time.Since(start)
	res.stats.Canceled = ctx.Err() != nil
	w.progress.finish()

	w.logger.Debug("scan finished",
		zap.String("root", root),
		zap.Int("files", res.stats.Files),
		zap.Int("directories", res.stats.Directories),
		zap.Bool("canceled", res.stats.Canceled),
		zap.Duration("duration", res.stats.Duration))

	s.mu.Lock()
	s.result = res
	s.running = false
	s.cancel = nil
	callbacks := make([]func(), len(s.onFinished))
	copy(callbacks, s.onFinished)
	s.mu.Unlock()

	if rec != nil {
		rec.ScanFinished(res.stats)
	}
	for _, cb := range callbacks {
		cb()
	}
}

// IsFinished 没有扫描在运行时为 true，包括从未开始过的扫描器
func (s *Scanner) IsFinished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.running
}

// Result 查看结果但不取走，可重复调用；扫描进行中返回空结果
func (s *Scanner) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.result == nil {
		return emptyResult()
	}
	return s.result
}

// Release 取走结果，再次调用返回空结果
func (s *Scanner) Release() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.result == nil {
		return emptyResult()
	}
	r := s.result
	s.result = nil
	return r
}

// Reset 丢弃已完成的结果
func (s *Scanner) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		s.result = nil
	}
}

// Cancel 请求取消当前扫描，已积累的部分结果仍会交付
func (s *Scanner) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait 阻塞到当前扫描及其回调全部结束
func (s *Scanner) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Close 取消正在进行的扫描并等待其完全退出，之后不能再开始新的扫描
func (s *Scanner) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.Cancel()
	s.Wait()
}
