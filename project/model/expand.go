package model

import (
	"sort"
)

// ExpandKey 展开状态的持久化键，重新扫描后节点对象会变化，但路径和优先级不变
type ExpandKey struct {
	Path     string `json:"path"`
	Priority int    `json:"priority"`
}

func compareKeys(a, b ExpandKey) int {
	switch {
	case a.Path < b.Path:
		return -1
	case a.Path > b.Path:
		return 1
	case a.Priority < b.Priority:
		return -1
	case a.Priority > b.Priority:
		return 1
	}
	return 0
}

// SetExpanded 记录用户展开或折叠了某个节点
func (m *Model) SetExpanded(w *WrapperNode, expanded bool) {
	if w == nil || w == m.root {
		return
	}
	w.expanded = expanded
	if expanded {
		m.expanded[w.Key()] = struct{}{}
	} else {
		delete(m.expanded, w.Key())
	}
}

// IsExpanded 按键查询展开状态
func (m *Model) IsExpanded(key ExpandKey) bool {
	_, ok := m.expanded[key]
	return ok
}

// ExpandState 返回有序的展开状态，用于会话结束时保存
func (m *Model) ExpandState() []ExpandKey {
	out := make([]ExpandKey, 0, len(m.expanded))
	for k := range m.expanded {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return compareKeys(out[i], out[j]) < 0 })
	return out
}

// RestoreExpandState 在会话开始时载入展开状态，已经构建的节点会立即请求展开
func (m *Model) RestoreExpandState(keys []ExpandKey) {
	m.expanded = make(map[ExpandKey]struct{}, len(keys))
	for _, k := range keys {
		m.expanded[k] = struct{}{}
	}
	for _, c := range m.root.children {
		m.applyExpandState(c)
	}
}

// applyExpandState 展开键在集合中的新节点，并逐个发出展开请求
func (m *Model) applyExpandState(w *WrapperNode) {
	var requested []*WrapperNode
	w.Walk(func(n *WrapperNode) bool {
		_, ok := m.expanded[n.Key()]
		n.expanded = ok
		if ok {
			requested = append(requested, n)
		}
		return true
	})
	for _, n := range requested {
		m.notify(func(o Observer) { o.ExpansionRequested(n) })
	}
}
