package project

import (
	"fmt"
	"path/filepath"
)

// FolderNode 是拥有有序子节点的内部节点
// 同一目录下不会出现两个路径相同的子节点
type FolderNode struct {
	nodeBase
	kind     NodeKind
	outer    Node
	children []Node
	byPath   map[string]Node

	showWhenEmpty    bool
	showInSimpleTree bool
}

// FolderNodeFactory 为嵌套插入创建中间目录节点
type FolderNodeFactory func(path string) *FolderNode

// NewFolderNode 创建一个普通目录节点
func NewFolderNode(path string) *FolderNode {
	f := &FolderNode{}
	f.init(path, KindFolder, DefaultFolderPriority)
	f.outer = f
	return f
}

// DefaultFolderFactory 创建普通目录节点
func DefaultFolderFactory(path string) *FolderNode {
	return NewFolderNode(path)
}

func (f *FolderNode) init(path string, kind NodeKind, priority int) {
	f.nodeBase = newNodeBase(path, priority)
	f.kind = kind
	f.byPath = make(map[string]Node)
}

func (f *FolderNode) Kind() NodeKind { return f.kind }

// Self 返回节点的完整身份，ProjectNode 等内嵌 FolderNode 的类型返回外层对象
func (f *FolderNode) Self() Node { return f.outer }

func (f *FolderNode) AsFileNode() *FileNode     { return nil }
func (f *FolderNode) AsFolderNode() *FolderNode { return f }

func (f *FolderNode) AsVirtualFolderNode() *VirtualFolderNode {
	v, _ := f.outer.(*VirtualFolderNode)
	return v
}

func (f *FolderNode) AsProjectNode() *ProjectNode {
	p, _ := f.outer.(*ProjectNode)
	return p
}

func (f *FolderNode) AsContainerNode() *ContainerNode {
	c, _ := f.outer.(*ContainerNode)
	return c
}

func (f *FolderNode) IsFolderNodeType() bool    { return f.kind == KindFolder }
func (f *FolderNode) IsVirtualFolderType() bool { return f.kind == KindVirtualFolder }
func (f *FolderNode) IsProjectNodeType() bool   { return f.kind == KindProject }

// ShowWhenEmpty 为 true 时过滤掉空目录也保留该节点
func (f *FolderNode) ShowWhenEmpty() bool { return f.showWhenEmpty }

func (f *FolderNode) SetShowWhenEmpty(show bool) { f.showWhenEmpty = show }

// ShowInSimpleTree 简化视图下是否显示
func (f *FolderNode) ShowInSimpleTree() bool { return f.showInSimpleTree }

func (f *FolderNode) SetShowInSimpleTree(show bool) { f.showInSimpleTree = show }

// Children 返回按显示顺序排列的子节点副本
func (f *FolderNode) Children() []Node {
	out := make([]Node, len(f.children))
	copy(out, f.children)
	return out
}

func (f *FolderNode) ChildCount() int { return len(f.children) }

func (f *FolderNode) IsEmpty() bool { return len(f.children) == 0 }

// FileNodes 返回直接子文件
func (f *FolderNode) FileNodes() []*FileNode {
	var out []*FileNode
	for _, n := range f.children {
		if fn := n.AsFileNode(); fn != nil {
			out = append(out, fn)
		}
	}
	return out
}

// FolderNodes 返回直接子目录（包括虚拟目录和项目节点）
func (f *FolderNode) FolderNodes() []*FolderNode {
	var out []*FolderNode
	for _, n := range f.children {
		if fn := n.AsFolderNode(); fn != nil {
			out = append(out, fn)
		}
	}
	return out
}

// Child 按路径查找直接子节点
func (f *FolderNode) Child(path string) Node {
	return f.byPath[filepath.Clean(path)]
}

// ChildFileNode 按路径查找直接子文件
func (f *FolderNode) ChildFileNode(path string) *FileNode {
	if n := f.Child(path); n != nil {
		return n.AsFileNode()
	}
	return nil
}

// ChildFolderNode 按路径查找直接子目录
func (f *FolderNode) ChildFolderNode(path string) *FolderNode {
	if n := f.Child(path); n != nil {
		return n.AsFolderNode()
	}
	return nil
}

// IsAncestorOf 判断 n 是否位于该目录之下
func (f *FolderNode) IsAncestorOf(n Node) bool {
	for p := n.ParentFolderNode(); p != nil; p = p.ParentFolderNode() {
		if p == f {
			return true
		}
	}
	return false
}

// FindNode 深度优先先序查找第一个满足条件的节点，包含自身
func (f *FolderNode) FindNode(pred func(Node) bool) Node {
	if pred(f.outer) {
		return f.outer
	}
	for _, n := range f.children {
		if fn := n.AsFolderNode(); fn != nil {
			if found := fn.FindNode(pred); found != nil {
				return found
			}
		} else if pred(n) {
			return n
		}
	}
	return nil
}

// FindNodes 深度优先先序收集所有满足条件的节点，包含自身
func (f *FolderNode) FindNodes(pred func(Node) bool) []Node {
	var out []Node
	f.ForEachGenericNode(func(n Node) {
		if pred(n) {
			out = append(out, n)
		}
	})
	return out
}

// ForEachGenericNode 先序访问包括自身在内的所有节点
func (f *FolderNode) ForEachGenericNode(fn func(Node)) {
	fn(f.outer)
	for _, n := range f.children {
		if sub := n.AsFolderNode(); sub != nil {
			sub.ForEachGenericNode(fn)
		} else {
			fn(n)
		}
	}
}

// ForEachFileNode 访问子树中的所有文件
func (f *FolderNode) ForEachFileNode(fn func(*FileNode)) {
	f.ForEachNode(fn, nil, nil)
}

// ForEachFolderNode 访问包括自身在内的所有目录
func (f *FolderNode) ForEachFolderNode(fn func(*FolderNode)) {
	fn(f)
	for _, sub := range f.FolderNodes() {
		sub.ForEachFolderNode(fn)
	}
}

// ForEachNode 访问子树
// enter 返回 false 的目录连同其文件和子目录一起被跳过，对自身同样生效
func (f *FolderNode) ForEachNode(fileVisitor func(*FileNode), folderVisitor func(*FolderNode), enter func(*FolderNode) bool) {
	if enter != nil && !enter(f) {
		return
	}
	f.forEachEntered(fileVisitor, folderVisitor, enter)
}

func (f *FolderNode) forEachEntered(fileVisitor func(*FileNode), folderVisitor func(*FolderNode), enter func(*FolderNode) bool) {
	if fileVisitor != nil {
		for _, n := range f.children {
			if fn := n.AsFileNode(); fn != nil {
				fileVisitor(fn)
			}
		}
	}
	for _, n := range f.children {
		sub := n.AsFolderNode()
		if sub == nil || (enter != nil && !enter(sub)) {
			continue
		}
		if folderVisitor != nil {
			folderVisitor(sub)
		}
		sub.forEachEntered(fileVisitor, folderVisitor, enter)
	}
}

// AddNode 挂载一个没有父节点的节点并重新排序
func (f *FolderNode) AddNode(n Node) error {
	if err := f.attach(n); err != nil {
		return err
	}
	f.sortChildren()
	return nil
}

// AddNodes 批量挂载，只排序一次
// 任何一个节点不合法时不做任何修改
func (f *FolderNode) AddNodes(nodes []Node) error {
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if err := f.checkAttachable(n); err != nil {
			return err
		}
		if seen[n.Path()] {
			return fmt.Errorf("%w: %s", ErrDuplicateChild, n.Path())
		}
		seen[n.Path()] = true
	}
	for _, n := range nodes {
		f.link(n)
	}
	f.sortChildren()
	return nil
}

// RemoveNode 从子节点中移除 n 并清除其父指针
func (f *FolderNode) RemoveNode(n Node) error {
	if n == nil {
		return ErrNilNode
	}
	idx := f.indexOf(n)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotChild, n.Path())
	}
	f.children = append(f.children[:idx], f.children[idx+1:]...)
	delete(f.byPath, n.Path())
	n.base().parent = nil
	return nil
}

// RemoveAllChildren 移除所有子节点
func (f *FolderNode) RemoveAllChildren() {
	for _, n := range f.children {
		n.base().parent = nil
	}
	f.children = nil
	f.byPath = make(map[string]Node)
}

func (f *FolderNode) checkAttachable(n Node) error {
	if n == nil {
		return ErrNilNode
	}
	if n.ParentFolderNode() != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyAttached, n.Path())
	}
	if f.wouldContain(n) {
		return fmt.Errorf("%w: %s would contain itself", ErrAlreadyAttached, n.Path())
	}
	if _, exists := f.byPath[n.Path()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateChild, n.Path())
	}
	return nil
}

// wouldContain n 是 f 本身或 f 的祖先时挂到 f 下会形成环
func (f *FolderNode) wouldContain(n Node) bool {
	fn := n.AsFolderNode()
	return fn != nil && (fn == f || fn.IsAncestorOf(f.outer))
}

func (f *FolderNode) attach(n Node) error {
	if err := f.checkAttachable(n); err != nil {
		return err
	}
	f.link(n)
	return nil
}

func (f *FolderNode) link(n Node) {
	n.base().parent = f
	f.children = append(f.children, n)
	f.byPath[n.Path()] = n
}

func (f *FolderNode) indexOf(n Node) int {
	for i, c := range f.children {
		if c == n {
			return i
		}
	}
	return -1
}

func (f *FolderNode) sortChildren() {
	SortNodes(f.children)
}

// setPath 修改路径并维护父节点的路径索引
func (f *FolderNode) setPath(path string) bool {
	path = filepath.Clean(path)
	if path == f.path {
		return true
	}
	if p := f.parent; p != nil {
		if _, exists := p.byPath[path]; exists {
			return false
		}
		delete(p.byPath, f.path)
		p.byPath[path] = f.outer
	}
	f.path = path
	return true
}
