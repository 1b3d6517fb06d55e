package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/sjzsdu/projview/helper"
)

// compressSeparator 压缩后显示名之间的分隔符
const compressSeparator = "/"

// AddNestedNode 把文件插入到相对本目录（或 overrideBaseDir）的嵌套目录中
// 缺失的中间目录由 factory 创建，factory 为空时创建普通目录
func (f *FolderNode) AddNestedNode(file *FileNode, overrideBaseDir string, factory FolderNodeFactory) error {
	return f.AddNestedNodes([]*FileNode{file}, overrideBaseDir, factory)
}

// AddNestedNodes 批量嵌套插入
// 先按所在目录分组，每个目录链只创建一次；失败的文件不影响其余文件
func (f *FolderNode) AddNestedNodes(files []*FileNode, overrideBaseDir string, factory FolderNodeFactory) error {
	if factory == nil {
		factory = DefaultFolderFactory
	}

	byDir := make(map[string][]*FileNode)
	for _, file := range files {
		if file == nil {
			continue
		}
		dir := filepath.Dir(file.Path())
		byDir[dir] = append(byDir[dir], file)
	}
	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var errs []error
	added := 0
	for _, dir := range dirs {
		folder, err := f.findOrCreateFolder(dir, overrideBaseDir, factory)
		if err != nil {
			errs = append(errs, fmt.Errorf("create folder %s: %w", dir, err))
			continue
		}
		for _, file := range byDir[dir] {
			if err := folder.attach(file); err != nil {
				errs = append(errs, err)
				continue
			}
			added++
		}
		folder.sortChildren()
	}

	if added > 0 {
		f.handleSubtreeChanged(f)
	}
	return errors.Join(errs...)
}

// findOrCreateFolder 沿目录段逐级复用或创建目录节点
// dir 不在基准目录下时按绝对路径分段
func (f *FolderNode) findOrCreateFolder(dir, overrideBaseDir string, factory FolderNodeFactory) (*FolderNode, error) {
	base := overrideBaseDir
	if base == "" {
		base = f.path
	}

	prefix := base
	var segments []string
	if rel, ok := helper.RelativeSegments(dir, base); ok && base != "" && !isRootPath(base) {
		segments = rel
	} else {
		prefix = rootOf(dir)
		segments = helper.PathSegments(dir[len(filepath.VolumeName(dir)):])
	}

	parent := f
	path := prefix
	for _, seg := range segments {
		path = filepath.Join(path, seg)
		next := parent.ChildFolderNode(path)
		if next == nil {
			next = factory(path)
			next.SetDisplayName(seg)
			if err := parent.AddNode(next.outer); err != nil {
				return nil, err
			}
		}
		parent = next
	}
	return parent, nil
}

func isRootPath(path string) bool {
	return filepath.Dir(path) == path
}

func rootOf(path string) string {
	return filepath.VolumeName(path) + string(filepath.Separator)
}

// Compress 把只有一个同类别子目录的目录与该子目录合并，递归进行
// 合并后的显示名用分隔符连接，路径取最深的那一级；文件集合不变
func (f *FolderNode) Compress() {
	if len(f.children) == 1 {
		if sub := f.children[0].AsFolderNode(); sub != nil && sameCategory(f, sub) && f.canTakePath(sub.path) {
			name := f.DisplayName() + compressSeparator + sub.DisplayName()
			moved := sub.children
			sub.RemoveAllChildren()
			_ = f.RemoveNode(sub.outer)
			f.setPath(sub.path)
			f.displayName = name
			for _, n := range moved {
				f.link(n)
			}
			f.sortChildren()
			f.Compress()
			return
		}
	}

	for _, sub := range f.FolderNodes() {
		sub.Compress()
	}
	f.sortChildren()
}

func sameCategory(a, b *FolderNode) bool {
	return (a.IsFolderNodeType() && b.IsFolderNodeType()) ||
		(a.IsProjectNodeType() && b.IsProjectNodeType()) ||
		(a.IsVirtualFolderType() && b.IsVirtualFolderType())
}

func (f *FolderNode) canTakePath(path string) bool {
	if f.parent == nil || path == f.path {
		return true
	}
	_, exists := f.parent.byPath[filepath.Clean(path)]
	return !exists
}

// ReplaceSubtree 用 newNode 替换子节点 oldNode
// oldNode 为空时插入 newNode，newNode 为空时移除 oldNode，
// 否则原位替换。三种情况都会向上通知子树变化。
func (f *FolderNode) ReplaceSubtree(oldNode, newNode Node) error {
	switch {
	case oldNode == nil && newNode == nil:
		return ErrNilNode
	case oldNode == nil:
		if err := f.AddNode(newNode); err != nil {
			return err
		}
	case newNode == nil:
		if err := f.RemoveNode(oldNode); err != nil {
			return err
		}
	default:
		idx := f.indexOf(oldNode)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrNotChild, oldNode.Path())
		}
		if newNode.ParentFolderNode() != nil {
			return fmt.Errorf("%w: %s", ErrAlreadyAttached, newNode.Path())
		}
		if f.wouldContain(newNode) {
			return fmt.Errorf("%w: %s would contain itself", ErrAlreadyAttached, newNode.Path())
		}
		if newNode.Path() != oldNode.Path() {
			if _, exists := f.byPath[newNode.Path()]; exists {
				return fmt.Errorf("%w: %s", ErrDuplicateChild, newNode.Path())
			}
		}
		delete(f.byPath, oldNode.Path())
		oldNode.base().parent = nil
		newNode.base().parent = f
		f.children[idx] = newNode
		f.byPath[newNode.Path()] = newNode
		f.sortChildren()
	}

	f.handleSubtreeChanged(f)
	return nil
}

// NotifySubtreeChanged 通知所属容器本目录的子树已变化
func (f *FolderNode) NotifySubtreeChanged() {
	f.handleSubtreeChanged(f)
}

func (f *FolderNode) handleSubtreeChanged(changed *FolderNode) {
	if c := f.AsContainerNode(); c != nil {
		c.subtreeChanged(changed)
		return
	}
	if f.parent != nil {
		f.parent.handleSubtreeChanged(changed)
	}
}

// VirtualFolderNode 是不对应磁盘目录的分组节点，例如“头文件”分组
type VirtualFolderNode struct {
	FolderNode
	isSourcesOrHeaders bool
}

// NewVirtualFolderNode 创建虚拟目录
func NewVirtualFolderNode(path string) *VirtualFolderNode {
	v := &VirtualFolderNode{}
	v.init(path, KindVirtualFolder, DefaultVirtualFolderPriority)
	v.outer = v
	return v
}

// VirtualFolderFactory 创建虚拟目录，可用于嵌套插入
func VirtualFolderFactory(path string) *FolderNode {
	return &NewVirtualFolderNode(path).FolderNode
}

// IsSourcesOrHeaders 是否为源文件/头文件分组，可被过滤器隐藏
func (v *VirtualFolderNode) IsSourcesOrHeaders() bool { return v.isSourcesOrHeaders }

func (v *VirtualFolderNode) SetIsSourcesOrHeaders(b bool) { v.isSourcesOrHeaders = b }
