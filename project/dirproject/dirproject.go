// Package dirproject 把一个普通目录当作项目：目录中的文件就是项目文件
package dirproject

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sjzsdu/projview/helper"
	"github.com/sjzsdu/projview/project"
	"github.com/sjzsdu/projview/project/scan"
	"go.uber.org/zap"
)

// 默认视为生成文件的文件名模式
var defaultGeneratedPatterns = []string{
	"moc_*.cpp",
	"ui_*.h",
	"qrc_*.cpp",
	"*.pb.go",
	"*_generated.go",
}

// BuildSystem 以目录为基础的构建系统
// 文件操作直接作用于磁盘，节点树在下一次 Reparse 时更新
type BuildSystem struct {
	dir       string
	project   *project.Project
	scanner   *scan.Scanner
	generated []string
	compress  bool
	logger    *zap.Logger
	onChange  func()

	mu       sync.Mutex
	excluded map[string]bool
	patterns []string
}

// Option 构建系统选项
type Option func(*BuildSystem)

// WithScanOptions 传给内部扫描器的选项
func WithScanOptions(opts ...scan.Option) Option {
	return func(b *BuildSystem) {
		b.scanner = scan.New(opts...)
	}
}

// WithGeneratedPatterns 替换生成文件的文件名模式
func WithGeneratedPatterns(patterns []string) Option {
	return func(b *BuildSystem) {
		b.generated = patterns
	}
}

// WithCompress 解析后压缩单链目录
func WithCompress(compress bool) Option {
	return func(b *BuildSystem) {
		b.compress = compress
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(b *BuildSystem) {
		b.logger = logger
	}
}

// WithChangeHandler 文件操作被接受后调用，通常用来安排一次 Reparse
func WithChangeHandler(fn func()) Option {
	return func(b *BuildSystem) {
		b.onChange = fn
	}
}

// New 为项目创建目录构建系统，项目目录必须存在
func New(p *project.Project, opts ...Option) (*BuildSystem, error) {
	dir := p.ProjectDirectory()
	if !helper.IsDir(dir) {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	b := &BuildSystem{
		dir:       dir,
		project:   p,
		generated: defaultGeneratedPatterns,
		logger:    zap.NewNop(),
		excluded:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.scanner == nil {
		b.scanner = scan.New(scan.WithLogger(b.logger))
	}
	return b, nil
}

// Directory 返回项目目录
func (b *BuildSystem) Directory() string { return b.dir }

// Scanner 返回内部扫描器，可用于设置进度回调
func (b *BuildSystem) Scanner() *scan.Scanner { return b.scanner }

// Close 取消并等待进行中的扫描
func (b *BuildSystem) Close() {
	b.scanner.Close()
}

// Reparse 在工作池中扫描目录，然后在调用方 goroutine 中替换项目的根节点
// 取消时保留旧的节点树并返回 ctx 的错误
func (b *BuildSystem) Reparse(ctx context.Context) (scan.Stats, error) {
	if !b.scanner.StartScan(ctx, b.dir) {
		return scan.Stats{}, ErrScanBusy
	}
	b.project.StartParsing()
	b.scanner.Wait()
	res := b.scanner.Release()
	stats := res.Stats()

	if err := ctx.Err(); err != nil {
		b.project.FinishParsing(false)
		return stats, err
	}

	root := project.NewProjectNode(b.dir, b)
	root.SetDisplayName(b.project.DisplayName())
	if err := root.AddNodes(res.TakeFirstLevelNodes()); err != nil {
		b.logger.Warn("scanned tree could not be attached", zap.String("project", b.dir), zap.Error(err))
	}
	b.applyExclusions(root)
	if b.compress {
		root.Compress()
	}

	var err error
	splice := func() {
		b.project.ClearIssues()
		if stats.Files == 0 {
			b.project.AddIssue(project.IssueWarning, fmt.Sprintf("no files found in %s", b.dir))
		}
		err = b.project.SetRootProjectNode(root)
		b.project.FinishParsing(err == nil)
	}
	if s := b.project.Session(); s != nil {
		s.Batch(splice)
	} else {
		splice()
	}
	return stats, err
}

// applyExclusions 一次遍历标记生成文件并摘除被排除的文件
// 因排除而变空的目录一并移除，扫描时就为空的目录保持不变
func (b *BuildSystem) applyExclusions(root *project.ProjectNode) {
	b.mu.Lock()
	var excluded []*project.FileNode
	root.ForEachFileNode(func(f *project.FileNode) {
		if b.isExcludedLocked(f.Path()) {
			excluded = append(excluded, f)
			return
		}
		if b.isGenerated(f.Path()) {
			f.SetGenerated(true)
		}
	})
	b.mu.Unlock()

	for _, f := range excluded {
		parent := f.ParentFolderNode()
		if err := parent.RemoveNode(f); err != nil {
			continue
		}
		for parent != &root.FolderNode && parent.IsEmpty() {
			up := parent.ParentFolderNode()
			if up == nil || up.RemoveNode(parent.Self()) != nil {
				break
			}
			parent = up
		}
	}
}

func (b *BuildSystem) isExcludedLocked(path string) bool {
	if b.excluded[path] {
		return true
	}
	for _, pattern := range b.patterns {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func (b *BuildSystem) isGenerated(path string) bool {
	name := filepath.Base(path)
	for _, pattern := range b.generated {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (b *BuildSystem) owns(path string) bool {
	return helper.IsChildOf(filepath.Clean(path), b.dir)
}

func (b *BuildSystem) changed() {
	if b.onChange != nil {
		b.onChange()
	}
}

// AddFiles 把文件纳入项目，不存在的文件会被创建为空文件
func (b *BuildSystem) AddFiles(_ *project.ProjectNode, paths []string) ([]string, bool) {
	var notAdded []string
	for _, path := range paths {
		path = filepath.Clean(path)
		if !b.owns(path) {
			notAdded = append(notAdded, path)
			continue
		}
		if err := createIfMissing(path); err != nil {
			b.logger.Debug("add file failed", zap.String("path", path), zap.Error(err))
			notAdded = append(notAdded, path)
			continue
		}
		b.mu.Lock()
		delete(b.excluded, path)
		b.mu.Unlock()
	}
	if len(notAdded) < len(paths) {
		b.changed()
	}
	return notAdded, len(notAdded) == 0
}

func createIfMissing(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// RemoveFiles 把文件从项目中排除，磁盘文件保留
// 含通配符的路径按模式排除；模式所在目录中还有未匹配的文件时返回 RemovedFilesPartialWildcardMatch
func (b *BuildSystem) RemoveFiles(owner *project.ProjectNode, paths []string) (project.RemovedFilesStatus, []string) {
	if owner == nil {
		owner = b.project.RootProjectNode()
	}
	status := project.RemovedFilesOk
	var notRemoved []string

	b.mu.Lock()
	for _, path := range paths {
		path = filepath.Clean(path)
		if !b.owns(path) {
			notRemoved = append(notRemoved, path)
			continue
		}
		if strings.ContainsAny(path, "*?[") {
			b.patterns = append(b.patterns, path)
			if leavesUnmatched(owner, path) {
				status = project.RemovedFilesPartialWildcardMatch
			}
			continue
		}
		b.excluded[path] = true
	}
	b.mu.Unlock()

	if len(notRemoved) > 0 {
		status = project.RemovedFilesError
	}
	if len(notRemoved) < len(paths) {
		b.changed()
	}
	return status, notRemoved
}

// leavesUnmatched 模式所在目录中是否有文件不被模式匹配
func leavesUnmatched(root *project.ProjectNode, pattern string) bool {
	if root == nil {
		return false
	}
	dir := filepath.Dir(pattern)
	unmatched := false
	root.ForEachFileNode(func(f *project.FileNode) {
		if unmatched || filepath.Dir(f.Path()) != dir {
			return
		}
		if ok, _ := filepath.Match(pattern, f.Path()); !ok {
			unmatched = true
		}
	})
	return unmatched
}

// DeleteFiles 从磁盘删除文件，已经不存在的文件视为成功
func (b *BuildSystem) DeleteFiles(_ *project.ProjectNode, paths []string) bool {
	ok := true
	for _, path := range paths {
		if !b.owns(path) {
			ok = false
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			b.logger.Debug("delete file failed", zap.String("path", path), zap.Error(err))
			ok = false
		}
	}
	b.changed()
	return ok
}

// CanRenameFile 新旧路径都在项目目录内且新路径不存在
func (b *BuildSystem) CanRenameFile(_ *project.ProjectNode, oldPath, newPath string) bool {
	if !b.owns(oldPath) || !b.owns(newPath) {
		return false
	}
	_, err := os.Lstat(newPath)
	return errors.Is(err, os.ErrNotExist)
}

// RenameFiles 在磁盘上重命名文件，返回未能重命名的旧路径
func (b *BuildSystem) RenameFiles(owner *project.ProjectNode, pairs []project.RenamePair) ([]string, bool) {
	var notRenamed []string
	for _, pair := range pairs {
		if !b.CanRenameFile(owner, pair.From, pair.To) {
			notRenamed = append(notRenamed, pair.From)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(pair.To), 0755); err != nil {
			notRenamed = append(notRenamed, pair.From)
			continue
		}
		if err := os.Rename(pair.From, pair.To); err != nil {
			b.logger.Debug("rename failed", zap.String("from", pair.From), zap.String("to", pair.To), zap.Error(err))
			notRenamed = append(notRenamed, pair.From)
		}
	}
	if len(notRenamed) < len(pairs) {
		b.changed()
	}
	return notRenamed, len(notRenamed) == 0
}

// AddDependencies 目录项目没有依赖的概念
func (b *BuildSystem) AddDependencies(*project.ProjectNode, []string) bool {
	return false
}

func (b *BuildSystem) SupportsAction(_ *project.ProjectNode, action project.ProjectAction, node project.Node) bool {
	if node != nil && node.Path() != b.dir && !b.owns(node.Path()) {
		return false
	}
	switch action {
	case project.AddNewFile, project.AddExistingFile, project.RemoveFile, project.EraseFile, project.Rename:
		return true
	}
	return false
}
