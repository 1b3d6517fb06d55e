package model

import (
	"github.com/sjzsdu/projview/helper"
)

// mergeSiblings 合并两组已排序的兄弟节点，相等的节点只保留一个
// 两侧都有子节点时生成克隆节点，子节点递归合并；只有一侧有子节点时直接使用那一侧
func mergeSiblings(a, b []*WrapperNode) []*WrapperNode {
	return helper.SetUnionMerge(a, b, compareWrappers, mergePair)
}

func mergePair(x, y *WrapperNode) *WrapperNode {
	switch {
	case len(x.children) > 0 && len(y.children) > 0:
		clone := &WrapperNode{node: x.node, project: x.project, clone: true}
		clone.setChildren(mergeSiblings(x.children, y.children))
		return clone
	case len(y.children) > 0:
		return y
	default:
		return x
	}
}
