// Package watch 递归监视目录，把一串文件变化合并成一次重新扫描通知
package watch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce 最后一次变化之后等待多久再发出通知
const DefaultDebounce = 300 * time.Millisecond

// SkipFunc 返回 true 的路径不会被监视，也不会触发通知
type SkipFunc func(path string, isDir bool) bool

// Watcher 监视一个目录树
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	debounce time.Duration
	skip     SkipFunc
	onEvent  func(op string)
	logger   *zap.Logger

	changes chan struct{}
	done    chan struct{}
	wg      sync.WaitGroup

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// Option 监视器选项
type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithSkip(fn SkipFunc) Option {
	return func(w *Watcher) { w.skip = fn }
}

// WithEventHook 每个未被跳过的原始事件都会调用 fn
func WithEventHook(fn func(op string)) Option {
	return func(w *Watcher) { w.onEvent = fn }
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// New 开始监视 root 及其所有子目录
func New(root string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:       fsw,
		root:     filepath.Clean(root),
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
		changes:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.addRecursive(w.root); err != nil {
		fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Changes 目录树稳定下来后收到一个信号，未读取的信号会合并
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Close 停止监视，可重复调用
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) || os.IsPermission(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.skip != nil && w.skip(path, true) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			if os.IsPermission(err) {
				return nil
			}
			return err
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.String("root", w.root), zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return
	}
	isDir := false
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			isDir = true
		}
	}
	if w.skip != nil && w.skip(ev.Name, isDir) {
		return
	}
	if isDir {
		if err := w.addRecursive(ev.Name); err != nil {
			w.logger.Warn("failed to watch new directory", zap.String("dir", ev.Name), zap.Error(err))
		}
	}

	op := OpName(ev.Op)
	w.logger.Debug("watch event", zap.String("path", ev.Name), zap.String("op", op))
	if w.onEvent != nil {
		w.onEvent(op)
	}
	w.schedule()
}

// schedule 重新开始计时，计时结束时发出一个通知
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.changes <- struct{}{}:
		default:
		}
	})
}

// OpName 事件的主要操作名，用作指标标签
func OpName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Chmod):
		return "chmod"
	}
	return "unknown"
}
