package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// RelocateFiles 把文件从 src 项目移动到 dst 项目
// 磁盘重命名、源树移除、目标树插入在同一批次中完成，观察者只会看到最终状态，
// 文件不会同时出现在两个项目中，也不会从两个项目中同时消失。
// 目标树插入失败时撤销该条目的磁盘重命名，节点回到源目录。
// 随后把移除和添加请求转发给两个项目的构建系统。返回成功移动的条目。
func (s *Session) RelocateFiles(src, dst *Project, pairs []RenamePair) ([]RenamePair, error) {
	if src.session != s {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, src.projectFile)
	}
	if dst.session != s {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, dst.projectFile)
	}
	dstRoot := dst.RootProjectNode()
	if dstRoot == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRootProject, dst.projectFile)
	}
	srcRoot := src.RootProjectNode()

	var moved []RenamePair
	var errs []error
	s.Batch(func() {
		for _, pair := range pairs {
			pair = RenamePair{From: filepath.Clean(pair.From), To: filepath.Clean(pair.To)}
			if err := renameOnDisk(pair); err != nil {
				errs = append(errs, err)
				continue
			}

			file, from := detachFileNode(srcRoot, pair.From)
			if file == nil {
				file = NewFileNode(pair.To, FileTypeUnknown)
			} else {
				file.path = pair.To
				file.displayName = ""
			}
			if err := dstRoot.AddNestedNode(file, "", nil); err != nil {
				errs = append(errs, fmt.Errorf("insert %s: %w", pair.To, err))
				s.restoreFile(file, from, pair)
				continue
			}
			moved = append(moved, pair)
		}

		if len(moved) == 0 {
			return
		}
		froms := make([]string, len(moved))
		tos := make([]string, len(moved))
		for i, pair := range moved {
			froms[i] = pair.From
			tos[i] = pair.To
		}
		if srcRoot != nil {
			if status, notRemoved := srcRoot.RemoveFiles(froms); status != RemovedFilesOk {
				s.logger.Warn("build system did not remove relocated files",
					zap.String("project", src.projectFile),
					zap.Stringer("status", status),
					zap.Strings("files", notRemoved))
			}
		}
		if notAdded, ok := dstRoot.AddFiles(tos); !ok {
			s.logger.Warn("build system did not add relocated files",
				zap.String("project", dst.projectFile),
				zap.Strings("files", notAdded))
		}
	})

	return moved, errors.Join(errs...)
}

func renameOnDisk(pair RenamePair) error {
	if err := os.MkdirAll(filepath.Dir(pair.To), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", pair.To, err)
	}
	if err := os.Rename(pair.From, pair.To); err != nil {
		return fmt.Errorf("rename %s: %w", pair.From, err)
	}
	return nil
}

// detachFileNode 从 root 子树中摘下路径为 path 的文件节点，同时返回它原来的父目录
func detachFileNode(root *ProjectNode, path string) (*FileNode, *FolderNode) {
	if root == nil {
		return nil, nil
	}
	found := root.FindNode(func(n Node) bool {
		return n.Kind() == KindFile && n.Path() == path
	})
	if found == nil {
		return nil, nil
	}
	parent := found.ParentFolderNode()
	if err := parent.RemoveNode(found); err != nil {
		return nil, nil
	}
	parent.NotifySubtreeChanged()
	return found.AsFileNode(), parent
}

// restoreFile 目标树插入失败后撤销磁盘重命名，并把节点放回源目录
func (s *Session) restoreFile(file *FileNode, parent *FolderNode, pair RenamePair) {
	if err := os.Rename(pair.To, pair.From); err != nil {
		s.logger.Warn("relocated file could not be moved back",
			zap.String("from", pair.To),
			zap.String("to", pair.From),
			zap.Error(err))
	}
	if parent == nil {
		return
	}
	file.path = pair.From
	file.displayName = ""
	if err := parent.AddNode(file); err != nil {
		s.logger.Warn("relocated file could not be restored",
			zap.String("path", pair.From),
			zap.Error(err))
		return
	}
	parent.NotifySubtreeChanged()
}
