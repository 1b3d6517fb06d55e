package project

import (
	"fmt"

	"go.uber.org/zap"
)

// SessionObserver 接收会话中项目结构的变化
type SessionObserver interface {
	ProjectAdded(p *Project)
	ProjectRemoved(p *Project)
	ParsingStarted(p *Project)
	ParsingFinished(p *Project, success bool)
	// SubtreeChanged 携带发生变化的子树根，不携带差异
	SubtreeChanged(p *Project, changed *FolderNode)
	StartupProjectChanged(p *Project)
	BatchStarted()
	BatchFinished()
}

// BaseSessionObserver 提供空实现，便于只关心部分事件的观察者嵌入
type BaseSessionObserver struct{}

func (BaseSessionObserver) ProjectAdded(*Project)                {}
func (BaseSessionObserver) ProjectRemoved(*Project)              {}
func (BaseSessionObserver) ParsingStarted(*Project)              {}
func (BaseSessionObserver) ParsingFinished(*Project, bool)       {}
func (BaseSessionObserver) SubtreeChanged(*Project, *FolderNode) {}
func (BaseSessionObserver) StartupProjectChanged(*Project)       {}
func (BaseSessionObserver) BatchStarted()                        {}
func (BaseSessionObserver) BatchFinished()                       {}

type observerEntry struct {
	id       int
	observer SessionObserver
}

// Session 管理一组项目以及启动项目
// 会话及其中的节点树只能在同一个 goroutine 中访问
type Session struct {
	projects   []*Project
	startup    *Project
	observers  []observerEntry
	nextID     int
	batchDepth int
	logger     *zap.Logger
}

// SessionOption 会话选项
type SessionOption func(*Session)

// WithSessionLogger 设置日志
func WithSessionLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession 创建空会话
func NewSession(opts ...SessionOption) *Session {
	s := &Session{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe 注册观察者，返回取消注册的函数
func (s *Session) Subscribe(o SessionObserver) func() {
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, observerEntry{id: id, observer: o})
	return func() {
		for i, e := range s.observers {
			if e.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) notify(fn func(SessionObserver)) {
	entries := make([]observerEntry, len(s.observers))
	copy(entries, s.observers)
	for _, e := range entries {
		fn(e.observer)
	}
}

// Projects 返回项目列表副本，按加入顺序排列
func (s *Session) Projects() []*Project {
	out := make([]*Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// ProjectForFile 按项目文件查找项目
func (s *Session) ProjectForFile(projectFile string) *Project {
	for _, p := range s.projects {
		if p.projectFile == projectFile {
			return p
		}
	}
	return nil
}

// AddProject 把项目加入会话，第一个项目自动成为启动项目
func (s *Session) AddProject(p *Project) error {
	if p.session != nil || s.ProjectForFile(p.projectFile) != nil {
		return fmt.Errorf("%w: %s", ErrProjectExists, p.projectFile)
	}
	p.session = s
	s.projects = append(s.projects, p)
	s.logger.Debug("project added", zap.String("project", p.projectFile))
	s.notify(func(o SessionObserver) { o.ProjectAdded(p) })

	if s.startup == nil {
		s.SetStartupProject(p)
	}
	return nil
}

// RemoveProject 从会话中移除项目
func (s *Session) RemoveProject(p *Project) error {
	idx := -1
	for i, q := range s.projects {
		if q == p {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, p.projectFile)
	}

	s.projects = append(s.projects[:idx], s.projects[idx+1:]...)
	s.logger.Debug("project removed", zap.String("project", p.projectFile))
	s.notify(func(o SessionObserver) { o.ProjectRemoved(p) })
	p.session = nil

	if s.startup == p {
		var next *Project
		if len(s.projects) > 0 {
			next = s.projects[0]
		}
		s.SetStartupProject(next)
	}
	return nil
}

// StartupProject 返回当前启动项目
func (s *Session) StartupProject() *Project { return s.startup }

// SetStartupProject 设置启动项目，p 必须属于该会话或为空
func (s *Session) SetStartupProject(p *Project) {
	if p != nil && p.session != s {
		return
	}
	if s.startup == p {
		return
	}
	s.startup = p
	s.notify(func(o SessionObserver) { o.StartupProjectChanged(p) })
}

// Batch 在 fn 执行期间合并通知，观察者在结束时统一处理
// 可以嵌套，只有最外层会发出开始和结束事件
func (s *Session) Batch(fn func()) {
	s.batchDepth++
	if s.batchDepth == 1 {
		s.notify(func(o SessionObserver) { o.BatchStarted() })
	}
	defer func() {
		s.batchDepth--
		if s.batchDepth == 0 {
			s.notify(func(o SessionObserver) { o.BatchFinished() })
		}
	}()
	fn()
}

// InBatch 是否处于批量更新中
func (s *Session) InBatch() bool { return s.batchDepth > 0 }

func (s *Session) parsingStarted(p *Project) {
	s.notify(func(o SessionObserver) { o.ParsingStarted(p) })
}

func (s *Session) parsingFinished(p *Project, success bool) {
	s.notify(func(o SessionObserver) { o.ParsingFinished(p, success) })
}

func (s *Session) subtreeChanged(p *Project, changed *FolderNode) {
	s.logger.Debug("subtree changed",
		zap.String("project", p.projectFile),
		zap.String("root", changed.Path()))
	s.notify(func(o SessionObserver) { o.SubtreeChanged(p, changed) })
}
