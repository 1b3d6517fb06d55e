package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/sjzsdu/projview/helper"
	"github.com/sjzsdu/projview/helper/coroutine"
	"github.com/sjzsdu/projview/project"
	"github.com/sjzsdu/projview/share"
	"go.uber.org/zap"
)

type entryKind int

const (
	entrySkip entryKind = iota
	entryFile
	entryDir
)

// dirUnit 是一个待展开的目录及其进度份额
type dirUnit struct {
	folder *project.FolderNode
	budget int64
}

// walker 保存一次扫描的配置快照和共享状态
type walker struct {
	filter     EntryFilter
	classifier TypeClassifier
	walk       WalkOptions
	excludes   map[string]bool
	providers  []VcsProvider
	maxWorkers int
	logger     *zap.Logger
	progress   *progressTracker

	mu      sync.Mutex
	visited map[string]bool
	files   []*project.FileNode
	skipped int
}

func (w *walker) scan(ctx context.Context, root string) *Result {
	res := emptyResult()
	res.stats.Root = root

	if !helper.IsDir(root) {
		w.logger.Debug("scan root is not a directory", zap.String("root", root))
		return res
	}
	w.markVisited(root)

	top := project.NewFolderNode(root)
	units := []dirUnit{{folder: top, budget: share.SCAN_PROGRESS_MAX}}
	if err := coroutine.ProcessLayers(ctx, w.maxWorkers, units, w.expand); err != nil {
		w.logger.Debug("scan stopped early", zap.String("root", root), zap.Error(err))
	}

	if !w.walk.KeepEmptyDirs {
		pruneEmptyFolders(top)
	}
	top.ForEachFolderNode(func(*project.FolderNode) {
		res.stats.Directories++
	})
	res.stats.Directories--

	sort.Slice(w.files, func(i, j int) bool {
		return w.files[i].Path() < w.files[j].Path()
	})
	res.allFiles = w.files
	res.firstLevelNodes = top.Children()
	top.RemoveAllChildren()

	res.stats.Files = len(res.allFiles)
	res.stats.Skipped = w.skipped
	return res
}

// expand 枚举一个目录，返回需要继续展开的子目录
// 读取失败的目录不产生任何条目
func (w *walker) expand(ctx context.Context, u dirUnit) ([]dirUnit, error) {
	if ctx.Err() != nil {
		return nil, nil
	}

	dir := u.folder.Path()
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Debug("read directory failed", zap.String("dir", dir), zap.Error(err))
		w.progress.add(u.budget)
		return nil, nil
	}
	if len(entries) == 0 {
		w.progress.add(u.budget)
		return nil, nil
	}

	var (
		nodes    []project.Node
		files    []*project.FileNode
		next     []dirUnit
		consumed int64
		skipped  int
	)
	n := int64(len(entries))
	for i, entry := range entries {
		// 按条目数量均分本目录的进度份额
		portion := u.budget*int64(i+1)/n - u.budget*int64(i)/n
		path := filepath.Join(dir, entry.Name())

		switch w.classifyEntry(path, entry) {
		case entryDir:
			sub := project.NewFolderNode(path)
			nodes = append(nodes, sub)
			next = append(next, dirUnit{folder: sub, budget: portion})
			continue
		case entryFile:
			mt := helper.MimeTypeForFile(path)
			if w.filter != nil && w.filter(mt, path) {
				skipped++
				break
			}
			fn := project.NewFileNode(path, w.classifier(mt, path))
			nodes = append(nodes, fn)
			files = append(files, fn)
		default:
			skipped++
		}
		consumed += portion
	}

	if err := u.folder.AddNodes(nodes); err != nil {
		w.logger.Debug("attach entries failed", zap.String("dir", dir), zap.Error(err))
	}
	w.progress.add(consumed)

	w.mu.Lock()
	w.files = append(w.files, files...)
	w.skipped += skipped
	w.mu.Unlock()
	return next, nil
}

func (w *walker) classifyEntry(path string, entry fs.DirEntry) entryKind {
	for _, p := range w.providers {
		if p.IsVcsFileOrDirectory(path) {
			return entrySkip
		}
	}
	name := entry.Name()
	if !w.walk.IncludeHidden && helper.IsHidden(name) {
		return entrySkip
	}

	mode := entry.Type()
	isDir := entry.IsDir()
	if mode&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			// 悬空链接
			return entrySkip
		}
		isDir = info.IsDir()
		if isDir && !w.walk.FollowSymlinks {
			return entrySkip
		}
		mode = info.Mode().Type()
	}

	if isDir {
		if w.excludes[name] {
			return entrySkip
		}
		if w.walk.Ignore != nil && w.walk.Ignore.Match(path, true) {
			return entrySkip
		}
		if !w.markVisited(path) {
			w.logger.Debug("directory already visited", zap.String("dir", path))
			return entrySkip
		}
		return entryDir
	}

	if !mode.IsRegular() {
		return entrySkip
	}
	if w.walk.Ignore != nil && w.walk.Ignore.Match(path, false) {
		return entrySkip
	}
	return entryFile
}

// markVisited 记录目录的真实路径，已经访问过时返回 false
func (w *walker) markVisited(path string) bool {
	canonical := helper.CanonicalPath(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.visited[canonical] {
		return false
	}
	w.visited[canonical] = true
	return true
}

// pruneEmptyFolders 自底向上移除没有文件的目录
func pruneEmptyFolders(f *project.FolderNode) {
	for _, sub := range f.FolderNodes() {
		pruneEmptyFolders(sub)
		if sub.IsEmpty() {
			_ = f.RemoveNode(sub)
		}
	}
}

// progressTracker 汇总各工作协程的进度，保证上报值单调且 100% 只上报一次
type progressTracker struct {
	mu       sync.Mutex
	done     int64
	reported int
	fn       ProgressFunc
}

func (p *progressTracker) add(units int64) {
	if units <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done += units
	p.report(int(p.done))
}

func (p *progressTracker) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.report(share.SCAN_PROGRESS_MAX)
}

func (p *progressTracker) report(v int) {
	if v > share.SCAN_PROGRESS_MAX {
		v = share.SCAN_PROGRESS_MAX
	}
	if v <= p.reported {
		return
	}
	p.reported = v
	if p.fn != nil {
		p.fn(v)
	}
}
