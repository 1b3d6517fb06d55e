package model

import (
	"github.com/sjzsdu/projview/project"
)

// Filters 展示树的过滤开关
type Filters struct {
	// HideGenerated 隐藏生成的文件
	HideGenerated bool
	// HideDisabled 隐藏禁用的文件和目录
	HideDisabled bool
	// Simplify 不显示未标记 ShowInSimpleTree 的目录，其内容上提到父级
	Simplify bool
	// TrimEmpty 删除过滤后为空的目录，ShowWhenEmpty 的目录除外
	TrimEmpty bool
	// HideSourceGroups 隐藏源文件/头文件分组虚拟目录，其内容与父级合并
	HideSourceGroups bool
}

// DefaultFilters 默认只裁剪空目录
func DefaultFilters() Filters {
	return Filters{TrimEmpty: true}
}

// skipNode 节点及其子树完全不参与展示
func (f Filters) skipNode(n project.Node) bool {
	if f.HideGenerated && n.AsFileNode() != nil && n.IsGenerated() {
		return true
	}
	if f.HideDisabled && !n.IsEnabled() {
		return true
	}
	return false
}

// liftChildren 目录本身不显示，但子节点仍然显示在父级
func (f Filters) liftChildren(folder *project.FolderNode) bool {
	if v := folder.AsVirtualFolderNode(); v != nil && f.HideSourceGroups && v.IsSourcesOrHeaders() {
		return true
	}
	if f.Simplify && folder.AsProjectNode() == nil && !folder.ShowInSimpleTree() {
		return true
	}
	return false
}

// buildChildren 自顶向下构造 folder 的展示子节点，结果已排序
func (m *Model) buildChildren(folder *project.FolderNode, p *project.Project) []*WrapperNode {
	var kept []*WrapperNode
	var lifted [][]*WrapperNode

	for _, child := range folder.Children() {
		if m.filters.skipNode(child) {
			continue
		}
		sub := child.AsFolderNode()
		if sub == nil {
			kept = append(kept, newWrapper(child, p))
			continue
		}
		children := m.buildChildren(sub, p)
		if m.filters.liftChildren(sub) {
			lifted = append(lifted, children)
			continue
		}
		w := newWrapper(child, p)
		w.setChildren(children)
		kept = append(kept, w)
	}

	sortWrappers(kept)
	for _, group := range lifted {
		kept = mergeSiblings(kept, group)
	}
	return kept
}

// trimEmpty 自底向上删除空目录
func trimEmpty(w *WrapperNode) {
	out := w.children[:0]
	for _, c := range w.children {
		trimEmpty(c)
		if isTrimmable(c) {
			continue
		}
		out = append(out, c)
	}
	for i := len(out); i < len(w.children); i++ {
		w.children[i] = nil
	}
	w.children = out
}

func isTrimmable(w *WrapperNode) bool {
	if len(w.children) > 0 {
		return false
	}
	folder := w.node.AsFolderNode()
	if folder == nil {
		return false
	}
	switch folder.Kind() {
	case project.KindFolder, project.KindVirtualFolder:
		return !folder.ShowWhenEmpty()
	}
	return false
}
