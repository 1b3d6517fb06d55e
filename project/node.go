package project

import (
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// NodeKind 节点类别
type NodeKind int

const (
	KindFile NodeKind = iota
	KindFolder
	KindVirtualFolder
	KindProject
	KindContainer
)

func (k NodeKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	case KindVirtualFolder:
		return "virtual-folder"
	case KindProject:
		return "project"
	case KindContainer:
		return "container"
	}
	return "unknown"
}

// 默认排序优先级，数值小的排在前面
const (
	DefaultFilePriority          = 100000
	DefaultFolderPriority        = 200000
	DefaultVirtualFolderPriority = 300000
	DefaultProjectPriority       = 400000
	DefaultContainerPriority     = 500000
)

// Node 是项目树中所有元素的公共接口
type Node interface {
	Kind() NodeKind
	Path() string
	DisplayName() string
	SetDisplayName(name string)
	Priority() int
	SetPriority(p int)
	Tooltip() string
	SetTooltip(tip string)

	// IsEnabled 返回有效的启用状态：自身和所有祖先都启用时才为 true
	IsEnabled() bool
	SetEnabled(enabled bool)
	IsGenerated() bool
	SetGenerated(generated bool)
	ListInProject() bool
	SetListInProject(list bool)

	ParentFolderNode() *FolderNode

	AsFileNode() *FileNode
	AsFolderNode() *FolderNode
	AsVirtualFolderNode() *VirtualFolderNode
	AsProjectNode() *ProjectNode
	AsContainerNode() *ContainerNode

	IsFolderNodeType() bool
	IsVirtualFolderType() bool
	IsProjectNodeType() bool

	base() *nodeBase
}

// nodeBase 保存所有节点共有的状态
type nodeBase struct {
	path          string
	displayName   string
	priority      int
	tooltip       string
	enabled       bool
	generated     bool
	listInProject bool
	parent        *FolderNode
}

func newNodeBase(path string, priority int) nodeBase {
	return nodeBase{
		path:          filepath.Clean(path),
		priority:      priority,
		enabled:       true,
		listInProject: true,
	}
}

func (b *nodeBase) base() *nodeBase { return b }

func (b *nodeBase) Path() string { return b.path }

// DisplayName 未设置时取路径的最后一段
func (b *nodeBase) DisplayName() string {
	if b.displayName != "" {
		return b.displayName
	}
	return defaultDisplayName(b.path)
}

func (b *nodeBase) SetDisplayName(name string) { b.displayName = name }

func (b *nodeBase) Priority() int { return b.priority }

func (b *nodeBase) SetPriority(p int) { b.priority = p }

// Tooltip 未设置时返回路径
func (b *nodeBase) Tooltip() string {
	if b.tooltip != "" {
		return b.tooltip
	}
	return b.path
}

func (b *nodeBase) SetTooltip(tip string) { b.tooltip = tip }

func (b *nodeBase) IsEnabled() bool {
	if !b.enabled {
		return false
	}
	if b.parent != nil {
		return b.parent.IsEnabled()
	}
	return true
}

func (b *nodeBase) SetEnabled(enabled bool) { b.enabled = enabled }

func (b *nodeBase) IsGenerated() bool { return b.generated }

func (b *nodeBase) SetGenerated(generated bool) { b.generated = generated }

func (b *nodeBase) ListInProject() bool { return b.listInProject }

func (b *nodeBase) SetListInProject(list bool) { b.listInProject = list }

func (b *nodeBase) ParentFolderNode() *FolderNode { return b.parent }

func defaultDisplayName(path string) string {
	if path == "" {
		return ""
	}
	name := filepath.Base(path)
	if name == string(filepath.Separator) || name == "." {
		return path
	}
	return name
}

// ManagingProject 返回离节点最近的 ProjectNode 祖先，节点本身不计入
func ManagingProject(n Node) *ProjectNode {
	for f := n.ParentFolderNode(); f != nil; f = f.ParentFolderNode() {
		if p := f.AsProjectNode(); p != nil {
			return p
		}
	}
	return nil
}

// ParentProjectNode 与 ManagingProject 相同，但节点自身是 ProjectNode 时返回它自己
func ParentProjectNode(n Node) *ProjectNode {
	if p := n.AsProjectNode(); p != nil {
		return p
	}
	return ManagingProject(n)
}

// Depth 返回节点到根的层数
func Depth(n Node) int {
	d := 0
	for f := n.ParentFolderNode(); f != nil; f = f.ParentFolderNode() {
		d++
	}
	return d
}

// CompareNodes 按 (优先级, 显示名, 路径) 比较两个节点
// 显示名先做大小写折叠比较，折叠后相同再比较原文，保证全序
func CompareNodes(a, b Node) int {
	if a.Priority() != b.Priority() {
		if a.Priority() < b.Priority() {
			return -1
		}
		return 1
	}
	an, bn := a.DisplayName(), b.DisplayName()
	if c := compareFolded(an, bn); c != 0 {
		return c
	}
	if c := strings.Compare(an, bn); c != 0 {
		return c
	}
	return strings.Compare(a.Path(), b.Path())
}

func compareFolded(a, b string) int {
	// Caser 有内部状态，不能跨协程共享
	folder := cases.Fold()
	return strings.Compare(folder.String(a), folder.String(b))
}

// SortNodes 原地稳定排序
func SortNodes(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return CompareNodes(nodes[i], nodes[j]) < 0
	})
}

// IsSorted 判断节点序列是否已按 CompareNodes 排序
func IsSorted(nodes []Node) bool {
	return sort.SliceIsSorted(nodes, func(i, j int) bool {
		return CompareNodes(nodes[i], nodes[j]) < 0
	})
}
