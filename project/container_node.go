package project

import "fmt"

// ContainerNode 是会话中每个项目的最外层节点
// 显示名和操作支持委托给当前的根 ProjectNode，后者可能暂时不存在
type ContainerNode struct {
	FolderNode
	project *Project
}

func newContainerNode(p *Project) *ContainerNode {
	c := &ContainerNode{project: p}
	c.init(p.ProjectDirectory(), KindContainer, DefaultContainerPriority)
	c.outer = c
	return c
}

// Project 返回所属项目
func (c *ContainerNode) Project() *Project { return c.project }

// RootProjectNode 返回根项目节点，项目解析失败时为空
func (c *ContainerNode) RootProjectNode() *ProjectNode {
	for _, n := range c.children {
		if p := n.AsProjectNode(); p != nil {
			return p
		}
	}
	return nil
}

// DisplayName 优先使用根项目节点的名称，并附加版本控制分支信息
func (c *ContainerNode) DisplayName() string {
	name := c.project.DisplayName()
	if root := c.RootProjectNode(); root != nil {
		name = root.DisplayName()
	}
	if topic := c.project.VcsTopic(); topic != "" {
		name = fmt.Sprintf("%s [%s]", name, topic)
	}
	return name
}

// SupportsAction 没有根项目节点时不支持任何操作
func (c *ContainerNode) SupportsAction(action ProjectAction, node Node) bool {
	root := c.RootProjectNode()
	if root == nil {
		return false
	}
	return root.SupportsAction(action, node)
}

func (c *ContainerNode) subtreeChanged(changed *FolderNode) {
	c.project.handleSubtreeChanged(changed)
}
