// Package model 把会话中各项目的节点树组合成一棵去重、可过滤的展示树
package model

import (
	"sort"
	"strings"
	"time"

	"github.com/sjzsdu/projview/project"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

// ProjectState 项目展示子树的状态
type ProjectState int

const (
	StateAbsent ProjectState = iota
	StateBuilding
	StateReady
)

func (s ProjectState) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Observer 接收展示树的变化
type Observer interface {
	// Rebuilt 项目的展示子树被整体替换
	Rebuilt(p *project.Project, w *WrapperNode)
	// ExpansionRequested 重建后按保存的状态需要展开的节点
	ExpansionRequested(w *WrapperNode)
	// Changed 行数据或项目顺序发生变化
	Changed()
}

// Recorder 接收重建统计，用于指标采集
type Recorder interface {
	ModelRebuilt(projectName string, nodes int, duration time.Duration)
}

type projectEntry struct {
	project *project.Project
	wrapper *WrapperNode
	state   ProjectState
	dirty   bool
	// placeholder 项目没有根节点时由模型持有的项目文件节点
	placeholder *project.FileNode
}

// Model 会话的展示树
// 与 Session 一样只能在拥有节点树的 goroutine 中使用
type Model struct {
	session   *project.Session
	root      *WrapperNode
	entries   map[*project.Project]*projectEntry
	filters   Filters
	expanded  map[ExpandKey]struct{}
	observers []Observer
	recorder  Recorder
	logger    *zap.Logger
	cancel    func()
}

// Option 模型选项
type Option func(*Model)

func WithFilters(f Filters) Option {
	return func(m *Model) { m.filters = f }
}

func WithRecorder(r Recorder) Option {
	return func(m *Model) { m.recorder = r }
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// New 创建模型并订阅会话，会话中已有的项目立即构建
func New(session *project.Session, opts ...Option) *Model {
	m := &Model{
		session:  session,
		root:     &WrapperNode{},
		entries:  make(map[*project.Project]*projectEntry),
		filters:  DefaultFilters(),
		expanded: make(map[ExpandKey]struct{}),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cancel = session.Subscribe(&sessionListener{m: m})
	for _, p := range session.Projects() {
		m.projectAdded(p)
	}
	return m
}

// Close 取消对会话的订阅
func (m *Model) Close() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Subscribe 注册观察者
func (m *Model) Subscribe(o Observer) {
	m.observers = append(m.observers, o)
}

func (m *Model) notify(fn func(Observer)) {
	for _, o := range m.observers {
		fn(o)
	}
}

// Root 返回不可见的根节点，它的子节点是各项目的容器节点
func (m *Model) Root() *WrapperNode { return m.root }

func (m *Model) Filters() Filters { return m.filters }

// SetFilters 切换过滤条件并重建所有项目
func (m *Model) SetFilters(f Filters) {
	if f == m.filters {
		return
	}
	m.filters = f
	for _, e := range m.entries {
		e.dirty = true
	}
	m.flush()
}

// ProjectState 返回项目展示子树的状态
func (m *Model) ProjectState(p *project.Project) ProjectState {
	if e, ok := m.entries[p]; ok {
		return e.state
	}
	return StateAbsent
}

// ProjectWrapper 返回项目的容器包装节点
func (m *Model) ProjectWrapper(p *project.Project) *WrapperNode {
	if e, ok := m.entries[p]; ok {
		return e.wrapper
	}
	return nil
}

// WrapperForNode 查找包装给定节点的展示节点，合并产生的克隆节点也会被找到
func (m *Model) WrapperForNode(n project.Node) *WrapperNode {
	if n == nil {
		return nil
	}
	var found *WrapperNode
	m.root.Walk(func(w *WrapperNode) bool {
		if found != nil {
			return false
		}
		if w.node == n {
			found = w
			return false
		}
		return true
	})
	return found
}

// WrappersForPath 返回路径对应的所有展示节点
func (m *Model) WrappersForPath(path string) []*WrapperNode {
	var out []*WrapperNode
	m.root.Walk(func(w *WrapperNode) bool {
		if w.node != nil && w.node.Path() == path {
			out = append(out, w)
		}
		return true
	})
	return out
}

func (m *Model) projectAdded(p *project.Project) {
	if _, ok := m.entries[p]; ok {
		return
	}
	m.entries[p] = &projectEntry{project: p, state: StateBuilding}
	m.requestRebuild(p)
}

func (m *Model) projectRemoved(p *project.Project) {
	e, ok := m.entries[p]
	if !ok {
		return
	}
	delete(m.entries, p)
	if e.wrapper != nil {
		m.removeFromRoot(e.wrapper)
	}
	m.logger.Debug("project removed from model", zap.String("project", p.ProjectFile()))
	m.notify(func(o Observer) { o.Changed() })
}

// requestRebuild 批量更新期间只做标记，批量结束时统一重建
func (m *Model) requestRebuild(p *project.Project) {
	e, ok := m.entries[p]
	if !ok {
		return
	}
	e.state = StateBuilding
	e.dirty = true
	if !m.session.InBatch() {
		m.flush()
	}
}

// flush 按会话顺序重建所有标记过的项目
// 先构建全部新子树再统一替换，观察者收到事件时所有项目都已是最终状态
func (m *Model) flush() {
	type pending struct {
		entry    *projectEntry
		wrapper  *WrapperNode
		nodes    int
		duration time.Duration
	}

	var built []pending
	for _, p := range m.session.Projects() {
		e, ok := m.entries[p]
		if !ok || !e.dirty {
			continue
		}
		start := time.Now()
		e.dirty = false
		w := m.buildProject(e)
		nodes := 0
		w.Walk(func(*WrapperNode) bool { nodes++; return true })
		built = append(built, pending{entry: e, wrapper: w, nodes: nodes, duration: time.Since(start)})
	}
	if len(built) == 0 {
		return
	}

	for _, b := range built {
		if b.entry.wrapper != nil {
			m.removeFromRoot(b.entry.wrapper)
		}
		b.entry.wrapper = b.wrapper
		b.wrapper.parent = m.root
		m.root.children = append(m.root.children, b.wrapper)
		if b.entry.project.IsParsing() {
			b.entry.state = StateBuilding
		} else {
			b.entry.state = StateReady
		}
	}
	m.sortProjects()

	for _, b := range built {
		p := b.entry.project
		m.logger.Debug("project wrapper rebuilt",
			zap.String("project", p.ProjectFile()),
			zap.Int("nodes", b.nodes),
			zap.Duration("duration", b.duration))
		if m.recorder != nil {
			m.recorder.ModelRebuilt(p.DisplayName(), b.nodes, b.duration)
		}
		w := b.wrapper
		m.notify(func(o Observer) { o.Rebuilt(p, w) })
		m.applyExpandState(w)
	}
	m.notify(func(o Observer) { o.Changed() })
}

// buildProject 构造容器包装节点，项目没有根节点时以项目文件作为唯一子节点
func (m *Model) buildProject(e *projectEntry) *WrapperNode {
	p := e.project
	container := newWrapper(p.ContainerNode(), p)

	root := p.RootProjectNode()
	if root == nil {
		if e.placeholder == nil {
			e.placeholder = project.NewFileNode(p.ProjectFile(), project.FileTypeProject)
		}
		container.setChildren([]*WrapperNode{newWrapper(e.placeholder, p)})
		return container
	}
	e.placeholder = nil

	container.setChildren(m.buildChildren(root.AsFolderNode(), p))
	if m.filters.TrimEmpty {
		trimEmpty(container)
	}
	return container
}

func (m *Model) removeFromRoot(w *WrapperNode) {
	for i, c := range m.root.children {
		if c == w {
			m.root.children = append(m.root.children[:i], m.root.children[i+1:]...)
			break
		}
	}
	w.parent = nil
}

// sortProjects 项目按显示名排序，不区分大小写
func (m *Model) sortProjects() {
	folder := cases.Fold()
	sort.SliceStable(m.root.children, func(i, j int) bool {
		a := folder.String(m.root.children[i].node.DisplayName())
		b := folder.String(m.root.children[j].node.DisplayName())
		if a != b {
			return a < b
		}
		return strings.Compare(m.root.children[i].node.Path(), m.root.children[j].node.Path()) < 0
	})
}

func sortWrappers(ws []*WrapperNode) {
	sort.SliceStable(ws, func(i, j int) bool {
		return compareWrappers(ws[i], ws[j]) < 0
	})
}

// sessionListener 把会话事件转换为模型操作
type sessionListener struct {
	project.BaseSessionObserver
	m *Model
}

func (l *sessionListener) ProjectAdded(p *project.Project) { l.m.projectAdded(p) }

func (l *sessionListener) ProjectRemoved(p *project.Project) { l.m.projectRemoved(p) }

func (l *sessionListener) ParsingStarted(p *project.Project) {
	if e, ok := l.m.entries[p]; ok {
		e.state = StateBuilding
		l.m.notify(func(o Observer) { o.Changed() })
	}
}

func (l *sessionListener) ParsingFinished(p *project.Project, _ bool) { l.m.requestRebuild(p) }

func (l *sessionListener) SubtreeChanged(p *project.Project, _ *project.FolderNode) {
	l.m.requestRebuild(p)
}

func (l *sessionListener) StartupProjectChanged(*project.Project) {
	l.m.notify(func(o Observer) { o.Changed() })
}

func (l *sessionListener) BatchFinished() { l.m.flush() }
