package scan

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sjzsdu/projview/project"
	"github.com/sjzsdu/projview/share"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gitProvider 把 .git 目录视为版本控制元数据
type gitProvider struct{}

func (gitProvider) IsVcsFileOrDirectory(path string) bool {
	return filepath.Base(path) == ".git"
}

// blockingProvider 在第一次被询问时阻塞，直到 release 被关闭
type blockingProvider struct {
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func newBlockingProvider() *blockingProvider {
	return &blockingProvider{started: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingProvider) IsVcsFileOrDirectory(path string) bool {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return false
}

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
}

func scanSync(t *testing.T, s *Scanner, root string) *Result {
	t.Helper()
	require.True(t, s.StartScan(context.Background(), root))
	s.Wait()
	require.True(t, s.IsFinished())
	return s.Release()
}

func relPaths(root string, files []*project.FileNode) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, _ := filepath.Rel(root, f.Path())
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestScanConcreteTree(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.cpp", "b.h", "sub/c.cpp", ".git/config", ".git/objects/ab", "lib.o")

	var calls int32
	opts := DefaultWalkOptions()
	opts.ExcludeDirs = nil
	s := New(
		WithWalkOptions(opts),
		WithVcsProviders(func() []VcsProvider {
			atomic.AddInt32(&calls, 1)
			return []VcsProvider{gitProvider{}}
		}),
	)

	res := scanSync(t, s, root)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, []string{"a.cpp", "b.h", "sub/c.cpp"}, relPaths(root, res.AllFiles()))

	nodes := res.FirstLevelNodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "a.cpp", nodes[0].DisplayName())
	assert.Equal(t, project.FileTypeSource, nodes[0].AsFileNode().FileType())
	assert.Equal(t, "b.h", nodes[1].DisplayName())
	assert.Equal(t, project.FileTypeHeader, nodes[1].AsFileNode().FileType())

	sub := nodes[2].AsFolderNode()
	require.NotNil(t, sub)
	assert.Equal(t, "sub", sub.DisplayName())
	assert.Nil(t, sub.ParentFolderNode())
	require.Len(t, sub.FileNodes(), 1)
	assert.Equal(t, "c.cpp", sub.FileNodes()[0].DisplayName())

	stats := res.Stats()
	assert.Equal(t, 3, stats.Files)
	assert.Equal(t, 1, stats.Directories)
	assert.False(t, stats.Canceled)
}

func TestScanSymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "f.txt", "sub/g.txt")
	if err := os.Symlink(root, filepath.Join(root, "sub", "loop")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	res := scanSync(t, New(), root)
	assert.Equal(t, []string{"f.txt", "sub/g.txt"}, relPaths(root, res.AllFiles()))
}

func TestScanSymlinkedDirectoryVisitedOnce(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "real/x.txt")
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	res := scanSync(t, New(), root)
	// alias 排在 real 之前，两者指向同一目录，只展开一次
	assert.Len(t, res.AllFiles(), 1)
}

func TestReleaseAndResetRoundTrip(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.cpp")
	s := New()

	fresh := New()
	assert.True(t, fresh.IsFinished())
	assert.True(t, fresh.Result().IsEmpty())

	require.True(t, s.StartScan(context.Background(), root))
	s.Wait()
	assert.Equal(t, 1, s.Result().FileCount())
	assert.Equal(t, 1, s.Result().FileCount())

	first := s.Release()
	second := s.Release()
	assert.False(t, first.IsEmpty())
	assert.True(t, second.IsEmpty())

	s.Reset()
	assert.Equal(t, fresh.IsFinished(), s.IsFinished())
	assert.True(t, s.Result().IsEmpty())
}

func TestSingleFlight(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.cpp", "b.cpp")
	block := newBlockingProvider()
	s := New(WithVcsProviders(func() []VcsProvider { return []VcsProvider{block} }))

	require.True(t, s.StartScan(context.Background(), root))
	<-block.started

	assert.False(t, s.IsFinished())
	assert.False(t, s.StartScan(context.Background(), t.TempDir()))
	assert.False(t, s.SetFilter(nil))
	assert.False(t, s.SetWalkOptions(DefaultWalkOptions()))
	assert.False(t, s.SetTypeClassifier(nil))
	assert.True(t, s.Result().IsEmpty())

	close(block.release)
	s.Wait()
	assert.True(t, s.IsFinished())
	assert.Equal(t, []string{"a.cpp", "b.cpp"}, relPaths(root, s.Release().AllFiles()))
	assert.True(t, s.SetFilter(nil))
}

func TestProgressIsMonotonic(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "d1/b.txt", "d1/d2/c.txt", "d3/e.txt", "d3/f.txt", "empty/.keep")

	var mu sync.Mutex
	var values []int
	s := New(WithMaxWorkers(2), WithProgress(func(v int) {
		mu.Lock()
		values = append(values, v)
		mu.Unlock()
	}))
	scanSync(t, s, root)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, values)
	maxCount := 0
	for i, v := range values {
		if i > 0 {
			assert.Greater(t, v, values[i-1])
		}
		if v == share.SCAN_PROGRESS_MAX {
			maxCount++
		}
	}
	assert.Equal(t, 1, maxCount)
	assert.Equal(t, share.SCAN_PROGRESS_MAX, values[len(values)-1])
}

func TestCancelAndClose(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a/b/c/d.txt", "x.txt")
	block := newBlockingProvider()

	var finished int32
	s := New(WithVcsProviders(func() []VcsProvider { return []VcsProvider{block} }))
	s.OnFinished(func() { atomic.AddInt32(&finished, 1) })

	require.True(t, s.StartScan(context.Background(), root))
	<-block.started
	s.Cancel()
	close(block.release)
	s.Wait()

	assert.True(t, s.IsFinished())
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))
	res := s.Release()
	assert.True(t, res.Stats().Canceled)
	assert.LessOrEqual(t, res.FileCount(), 1)

	s.Close()
	assert.False(t, s.StartScan(context.Background(), root))
}

func TestCloseWhileRunningWaits(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt")
	block := newBlockingProvider()

	var finished int32
	s := New(WithVcsProviders(func() []VcsProvider { return []VcsProvider{block} }))
	s.OnFinished(func() { atomic.AddInt32(&finished, 1) })
	require.True(t, s.StartScan(context.Background(), root))
	<-block.started

	go close(block.release)
	s.Close()
	// Close 返回时回调已经执行完毕
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))
	assert.True(t, s.IsFinished())
}

func TestWalkOptions(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", ".hidden/h.txt", ".env", "node_modules/m.js", "ignored/i.txt")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty", "deeper"), 0755))

	testCases := []struct {
		name  string
		opts  func(o *WalkOptions)
		files []string
		dirs  int
	}{
		{
			name:  "defaults",
			opts:  func(o *WalkOptions) {},
			files: []string{".env", ".hidden/h.txt", "a.txt", "ignored/i.txt"},
			dirs:  2,
		},
		{
			name:  "no hidden",
			opts:  func(o *WalkOptions) { o.IncludeHidden = false },
			files: []string{"a.txt", "ignored/i.txt"},
			dirs:  1,
		},
		{
			name:  "keep empty",
			opts:  func(o *WalkOptions) { o.KeepEmptyDirs = true; o.IncludeHidden = false },
			files: []string{"a.txt", "ignored/i.txt"},
			dirs:  3,
		},
		{
			name:  "ignore matcher",
			opts:  func(o *WalkOptions) { o.Ignore = nameMatcher("ignored"); o.IncludeHidden = false },
			files: []string{"a.txt"},
			dirs:  0,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultWalkOptions()
			tc.opts(&opts)
			res := scanSync(t, New(WithWalkOptions(opts)), root)
			assert.Equal(t, tc.files, relPaths(root, res.AllFiles()))
			assert.Equal(t, tc.dirs, res.Stats().Directories)
		})
	}
}

type nameMatcher string

func (m nameMatcher) Match(path string, isDir bool) bool {
	return filepath.Base(path) == string(m)
}

func TestResultTakeAllFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "sub/b.txt")
	res := scanSync(t, New(), root)

	files := res.TakeAllFiles()
	require.Len(t, files, 2)
	for _, f := range files {
		assert.Nil(t, f.ParentFolderNode())
	}
	assert.True(t, res.IsEmpty())
	assert.Empty(t, res.TakeFirstLevelNodes())
}

func TestResultTakeFirstLevelNodes(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.txt", "sub/b.txt")
	res := scanSync(t, New(), root)

	nodes := res.TakeFirstLevelNodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, 0, res.FileCount())
	assert.Empty(t, res.TakeAllFiles())

	// 取走的节点可以挂到项目节点下
	p := project.NewProjectNode(root, nil)
	require.NoError(t, p.AddNodes(nodes))
	assert.Len(t, p.FolderNodes(), 1)
}

func TestScanMissingRoot(t *testing.T) {
	res := scanSync(t, New(), filepath.Join(t.TempDir(), "missing"))
	assert.True(t, res.IsEmpty())
}
