package model

import (
	"github.com/sjzsdu/projview/project"
)

// WrapperNode 是展示树中的节点，只引用底层节点，不拥有它
// 合并两个来源的同名目录时会产生克隆的 WrapperNode，它引用第一个来源的节点
type WrapperNode struct {
	node     project.Node
	project  *project.Project
	parent   *WrapperNode
	children []*WrapperNode
	expanded bool
	clone    bool
}

func newWrapper(n project.Node, p *project.Project) *WrapperNode {
	return &WrapperNode{node: n, project: p}
}

// Node 返回被包装的节点，占位节点返回模型自己创建的文件节点
func (w *WrapperNode) Node() project.Node { return w.node }

// Project 返回所属项目，根节点为空
func (w *WrapperNode) Project() *project.Project { return w.project }

func (w *WrapperNode) Parent() *WrapperNode { return w.parent }

// Children 返回子节点副本
func (w *WrapperNode) Children() []*WrapperNode {
	out := make([]*WrapperNode, len(w.children))
	copy(out, w.children)
	return out
}

func (w *WrapperNode) ChildCount() int { return len(w.children) }

func (w *WrapperNode) IsExpanded() bool { return w.expanded }

// IsClone 是否为合并产生的节点
func (w *WrapperNode) IsClone() bool { return w.clone }

// Key 返回展开状态的持久化键
func (w *WrapperNode) Key() ExpandKey {
	if w.node == nil {
		return ExpandKey{}
	}
	return ExpandKey{Path: w.node.Path(), Priority: w.node.Priority()}
}

// Row 返回子节点中的下标，没有父节点时为 -1
func (w *WrapperNode) Row() int {
	if w.parent == nil {
		return -1
	}
	for i, c := range w.parent.children {
		if c == w {
			return i
		}
	}
	return -1
}

func (w *WrapperNode) setChildren(children []*WrapperNode) {
	w.children = children
	for _, c := range children {
		c.parent = w
	}
}

// Walk 先序遍历，fn 返回 false 时不再进入该节点的子树
func (w *WrapperNode) Walk(fn func(*WrapperNode) bool) {
	if !fn(w) {
		return
	}
	for _, c := range w.children {
		c.Walk(fn)
	}
}

func compareWrappers(a, b *WrapperNode) int {
	return project.CompareNodes(a.node, b.node)
}
