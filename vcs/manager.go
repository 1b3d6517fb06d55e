package vcs

import (
	"sync"

	"go.uber.org/zap"
)

// Manager 管理已注册的版本控制提供者
type Manager struct {
	mu        sync.RWMutex
	providers []Provider
	disabled  map[string]bool
	logger    *zap.Logger
}

// NewManager 创建管理器，未指定提供者时注册 git、subversion 和 mercurial
func NewManager(logger *zap.Logger, providers ...Provider) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(providers) == 0 {
		providers = []Provider{NewGit(), NewSubversion(), NewMercurial()}
	}
	return &Manager{
		providers: providers,
		disabled:  make(map[string]bool),
		logger:    logger,
	}
}

// SetEnabled 启用或禁用某个提供者
func (m *Manager) SetEnabled(name string, enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if enabled {
		delete(m.disabled, name)
	} else {
		m.disabled[name] = true
	}
}

// Providers 返回启用的提供者
func (m *Manager) Providers() []Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Provider, 0, len(m.providers))
	for _, p := range m.providers {
		if !m.disabled[p.Name()] {
			out = append(out, p)
		}
	}
	return out
}

// IsVcsFileOrDirectory 任一启用的提供者认为是元数据即返回 true
func (m *Manager) IsVcsFileOrDirectory(path string) bool {
	for _, p := range m.Providers() {
		if p.IsVcsFileOrDirectory(path) {
			return true
		}
	}
	return false
}

// FindTopLevel 返回管理 dir 的提供者和仓库根目录，嵌套仓库取最深的一个
func (m *Manager) FindTopLevel(dir string) (Provider, string) {
	var best Provider
	bestTop := ""
	for _, p := range m.Providers() {
		if top, ok := p.TopLevel(dir); ok && len(top) > len(bestTop) {
			best, bestTop = p, top
		}
	}
	return best, bestTop
}

// Topic 返回目录所在仓库的主题，没有仓库或不支持时返回空串
func (m *Manager) Topic(dir string) string {
	p, top := m.FindTopLevel(dir)
	if p == nil {
		return ""
	}
	tp, ok := p.(TopicProvider)
	if !ok {
		return ""
	}
	topic, err := tp.Topic(top)
	if err != nil {
		m.logger.Debug("vcs topic unavailable", zap.String("dir", dir), zap.String("vcs", p.Name()), zap.Error(err))
		return ""
	}
	return topic
}
