package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sjzsdu/projview/lang"
	"github.com/sjzsdu/projview/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	rebuilt    []*project.Project
	expansions []ExpandKey
	changed    int
	onRebuilt  func(p *project.Project, w *WrapperNode)
}

func (r *recordingObserver) Rebuilt(p *project.Project, w *WrapperNode) {
	r.rebuilt = append(r.rebuilt, p)
	if r.onRebuilt != nil {
		r.onRebuilt(p, w)
	}
}

func (r *recordingObserver) ExpansionRequested(w *WrapperNode) {
	r.expansions = append(r.expansions, w.Key())
}

func (r *recordingObserver) Changed() { r.changed++ }

type recordingRecorder struct {
	projects []string
}

func (r *recordingRecorder) ModelRebuilt(name string, nodes int, _ time.Duration) {
	r.projects = append(r.projects, name)
}

func newModel(t *testing.T, opts ...Option) (*project.Session, *Model, *recordingObserver) {
	t.Helper()
	lang.SetLanguage("en")
	s := project.NewSession()
	m := New(s, opts...)
	obs := &recordingObserver{}
	m.Subscribe(obs)
	t.Cleanup(m.Close)
	return s, m, obs
}

func newRoot(t *testing.T, dir string, files ...string) *project.ProjectNode {
	t.Helper()
	root := project.NewProjectNode(dir, nil)
	nodes := make([]*project.FileNode, 0, len(files))
	for _, f := range files {
		nodes = append(nodes, project.NewFileNode(filepath.Join(dir, f), project.FileTypeSource))
	}
	require.NoError(t, root.AddNestedNodes(nodes, "", nil))
	return root
}

func childNames(w *WrapperNode) []string {
	names := make([]string, 0, w.ChildCount())
	for _, c := range w.Children() {
		names = append(names, c.Node().DisplayName())
	}
	return names
}

func TestExpandStateSurvivesRebuild(t *testing.T) {
	s, m, obs := newModel(t)
	p := project.NewProject("/proj/proj.pro")
	require.NoError(t, s.AddProject(p))
	require.NoError(t, p.SetRootProjectNode(newRoot(t, "/proj", "src/a.cpp", "main.cpp")))

	key := ExpandKey{Path: "/proj/src", Priority: project.DefaultFolderPriority}
	ws := m.WrappersForPath("/proj/src")
	require.Len(t, ws, 1)
	old := ws[0]
	assert.Equal(t, key, old.Key())
	m.SetExpanded(old, true)
	assert.True(t, m.IsExpanded(key))

	obs.expansions = nil
	require.NoError(t, p.SetRootProjectNode(newRoot(t, "/proj", "src/a.cpp", "src/b.cpp")))

	assert.Equal(t, []ExpandKey{key}, obs.expansions)
	ws = m.WrappersForPath("/proj/src")
	require.Len(t, ws, 1)
	assert.NotSame(t, old.Node(), ws[0].Node())
	assert.True(t, ws[0].IsExpanded())
	assert.True(t, m.Row(ws[0]).Expanded)

	m.SetExpanded(ws[0], false)
	assert.Empty(t, m.ExpandState())
}

func TestRestoreExpandState(t *testing.T) {
	s, m, obs := newModel(t)
	p := project.NewProject("/proj/proj.pro")
	require.NoError(t, s.AddProject(p))
	require.NoError(t, p.SetRootProjectNode(newRoot(t, "/proj", "src/a.cpp", "doc/x.md")))

	keys := []ExpandKey{
		{Path: "/proj/src", Priority: project.DefaultFolderPriority},
		{Path: "/proj", Priority: project.DefaultContainerPriority},
		{Path: "/gone", Priority: project.DefaultFolderPriority},
	}
	m.RestoreExpandState(keys)

	assert.ElementsMatch(t, keys[:2], obs.expansions)
	assert.Equal(t, []ExpandKey{keys[2], keys[1], keys[0]}, m.ExpandState())
	assert.True(t, m.ProjectWrapper(p).IsExpanded())
}

func TestHiddenSourceGroupsAreMerged(t *testing.T) {
	s, m, _ := newModel(t)
	p := project.NewProject("/proj/proj.pro")
	require.NoError(t, s.AddProject(p))

	root := project.NewProjectNode("/proj", nil)
	sources := project.NewVirtualFolderNode("/proj/Sources")
	sources.SetIsSourcesOrHeaders(true)
	headers := project.NewVirtualFolderNode("/proj/Headers")
	headers.SetIsSourcesOrHeaders(true)
	require.NoError(t, sources.AddNestedNodes([]*project.FileNode{
		project.NewFileNode("/proj/common.cpp", project.FileTypeSource),
		project.NewFileNode("/proj/src/a.cpp", project.FileTypeSource),
		project.NewFileNode("/proj/src/shared.h", project.FileTypeHeader),
	}, "/proj", nil))
	require.NoError(t, headers.AddNestedNodes([]*project.FileNode{
		project.NewFileNode("/proj/src/a.h", project.FileTypeHeader),
		project.NewFileNode("/proj/src/shared.h", project.FileTypeHeader),
	}, "/proj", nil))
	require.NoError(t, root.AddNodes([]project.Node{sources, headers}))
	require.NoError(t, p.SetRootProjectNode(root))

	container := m.ProjectWrapper(p)
	assert.Equal(t, []string{"Headers", "Sources"}, childNames(container))

	m.SetFilters(Filters{HideSourceGroups: true, TrimEmpty: true})
	container = m.ProjectWrapper(p)
	assert.Equal(t, []string{"common.cpp", "src"}, childNames(container))

	src := container.Children()[1]
	assert.True(t, src.IsClone())
	assert.Equal(t, []string{"a.cpp", "a.h", "shared.h"}, childNames(src))
	for _, c := range src.Children() {
		assert.Same(t, src, c.Parent())
	}
}

func TestMergeSiblingsDedup(t *testing.T) {
	a1 := newWrapper(project.NewFileNode("/p/a1", project.FileTypeSource), nil)
	a2 := newWrapper(project.NewFileNode("/p/a2", project.FileTypeSource), nil)
	a1Again := newWrapper(project.NewFileNode("/p/a1", project.FileTypeSource), nil)
	b1 := newWrapper(project.NewFileNode("/p/b1", project.FileTypeSource), nil)

	merged := mergeSiblings([]*WrapperNode{a1, a2}, []*WrapperNode{a1Again, b1})
	require.Len(t, merged, 3)
	assert.Same(t, a1, merged[0])
	assert.Same(t, a2, merged[1])
	assert.Same(t, b1, merged[2])

	assert.Panics(t, func() {
		mergeSiblings([]*WrapperNode{a2, a1}, nil)
	})
}

func TestMergeUsesSideWithChildren(t *testing.T) {
	left := newWrapper(project.NewFolderNode("/p/src"), nil)
	right := newWrapper(project.NewFolderNode("/p/src"), nil)
	right.setChildren([]*WrapperNode{newWrapper(project.NewFileNode("/p/src/x.cpp", project.FileTypeSource), nil)})

	merged := mergeSiblings([]*WrapperNode{left}, []*WrapperNode{right})
	require.Len(t, merged, 1)
	assert.Same(t, right, merged[0])
	assert.False(t, merged[0].IsClone())
}

func TestFilters(t *testing.T) {
	build := func() *project.ProjectNode {
		root := newRoot(t, "/proj", "a.cpp", "gen/moc_a.cpp", "lib/b.cpp", "empty/keep.txt")
		root.FindNode(func(n project.Node) bool { return n.Path() == "/proj/gen/moc_a.cpp" }).SetGenerated(true)
		root.ChildFolderNode("/proj/lib").SetEnabled(false)
		keep := root.ChildFolderNode("/proj/empty")
		require.NoError(t, keep.RemoveNode(keep.Children()[0]))
		return root
	}

	testCases := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"none", Filters{}, []string{"a.cpp", "empty", "gen", "lib"}},
		{"trim empty", Filters{TrimEmpty: true}, []string{"a.cpp", "gen", "lib"}},
		{"hide generated", Filters{HideGenerated: true, TrimEmpty: true}, []string{"a.cpp", "lib"}},
		{"hide disabled", Filters{HideDisabled: true, TrimEmpty: true}, []string{"a.cpp", "gen"}},
		{"simplify", Filters{Simplify: true}, []string{"a.cpp", "b.cpp", "moc_a.cpp"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, m, _ := newModel(t, WithFilters(tc.filters))
			p := project.NewProject("/proj/proj.pro")
			require.NoError(t, s.AddProject(p))
			require.NoError(t, p.SetRootProjectNode(build()))
			assert.Equal(t, tc.want, childNames(m.ProjectWrapper(p)))
		})
	}
}

func TestShowWhenEmptyIsNotTrimmed(t *testing.T) {
	s, m, _ := newModel(t)
	p := project.NewProject("/proj/proj.pro")
	require.NoError(t, s.AddProject(p))
	root := newRoot(t, "/proj", "a.cpp")
	empty := project.NewFolderNode("/proj/resources")
	empty.SetShowWhenEmpty(true)
	require.NoError(t, root.AddNode(empty))
	require.NoError(t, p.SetRootProjectNode(root))

	assert.Equal(t, []string{"a.cpp", "resources"}, childNames(m.ProjectWrapper(p)))
}

func TestPlaceholderForUnparsedProject(t *testing.T) {
	s, m, _ := newModel(t)
	p := project.NewProject("/proj/proj.pro")
	p.AddIssue(project.IssueError, "syntax error")
	require.NoError(t, s.AddProject(p))

	assert.Equal(t, StateReady, m.ProjectState(p))
	container := m.ProjectWrapper(p)
	require.NotNil(t, container)
	require.Equal(t, 1, container.ChildCount())
	placeholder := container.Children()[0].Node()
	assert.Equal(t, "/proj/proj.pro", placeholder.Path())
	assert.Equal(t, project.FileTypeProject, placeholder.AsFileNode().FileType())

	row := m.Row(container)
	assert.Equal(t, DecorationWarning, row.Decoration)
	assert.Contains(t, row.Tooltip, "Project could not be parsed")
	assert.Contains(t, row.Tooltip, "syntax error")
	assert.True(t, row.Emphasized)

	require.NoError(t, p.SetRootProjectNode(newRoot(t, "/proj", "a.cpp")))
	assert.Equal(t, []string{"a.cpp"}, childNames(m.ProjectWrapper(p)))
}

func TestStateMachineWithBatch(t *testing.T) {
	s, m, obs := newModel(t)
	p := project.NewProject("/proj/proj.pro")
	require.NoError(t, s.AddProject(p))
	obs.rebuilt = nil

	s.Batch(func() {
		p.StartParsing()
		assert.Equal(t, StateBuilding, m.ProjectState(p))
		require.NoError(t, p.SetRootProjectNode(newRoot(t, "/proj", "a.cpp")))
		p.FinishParsing(true)
		assert.Equal(t, StateBuilding, m.ProjectState(p))
		assert.Empty(t, obs.rebuilt)
	})

	assert.Equal(t, StateReady, m.ProjectState(p))
	assert.Equal(t, []*project.Project{p}, obs.rebuilt)
}

func TestProjectRemovedMidBuild(t *testing.T) {
	s, m, obs := newModel(t)
	p := project.NewProject("/proj/proj.pro")
	require.NoError(t, s.AddProject(p))
	obs.rebuilt = nil

	s.Batch(func() {
		p.StartParsing()
		require.NoError(t, p.SetRootProjectNode(newRoot(t, "/proj", "a.cpp")))
		require.NoError(t, s.RemoveProject(p))
		p.FinishParsing(true)
	})

	assert.Equal(t, StateAbsent, m.ProjectState(p))
	assert.Empty(t, obs.rebuilt)
	assert.Equal(t, 0, m.Root().ChildCount())
}

func TestProjectsSortedByName(t *testing.T) {
	s, m, _ := newModel(t)
	for _, name := range []string{"/w/zeta/z.pro", "/w/Alpha/a.pro", "/w/beta/b.pro"} {
		require.NoError(t, s.AddProject(project.NewProject(name)))
	}
	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, childNames(m.Root()))
}

func TestSortingDoesNotQueryVcsTopic(t *testing.T) {
	s, m, _ := newModel(t)
	calls := 0
	for _, name := range []string{"/w/zeta/z.pro", "/w/Alpha/a.pro", "/w/beta/b.pro", "/w/gamma/g.pro"} {
		p := project.NewProject(name)
		p.SetTopicFunc(func(string) string {
			calls++
			return "main"
		})
		require.NoError(t, s.AddProject(p))
	}
	assert.Equal(t, 4, calls)
	assert.Equal(t, []string{"Alpha [main]", "beta [main]", "gamma [main]", "zeta [main]"}, childNames(m.Root()))
	assert.Equal(t, 4, calls)
}

func TestRowData(t *testing.T) {
	s, m, _ := newModel(t)
	p := project.NewProject("/proj/proj.pro")
	other := project.NewProject("/other/other.pro")
	require.NoError(t, s.AddProject(p))
	require.NoError(t, s.AddProject(other))

	root := newRoot(t, "/proj", "gen/moc.cpp", "lib/x.cpp")
	gen := root.FindNode(func(n project.Node) bool { return n.Path() == "/proj/gen/moc.cpp" })
	gen.SetGenerated(true)
	root.ChildFolderNode("/proj/lib").SetEnabled(false)
	require.NoError(t, p.SetRootProjectNode(root))

	genRow := m.Row(m.WrapperForNode(gen))
	assert.Equal(t, DecorationFile, genRow.Decoration)
	assert.Contains(t, genRow.Tooltip, "Generated file")
	assert.True(t, genRow.Enabled)

	libRow := m.Row(m.WrappersForPath("/proj/lib")[0])
	assert.Equal(t, DecorationFolder, libRow.Decoration)
	assert.False(t, libRow.Enabled)

	p.StartParsing()
	row := m.Row(m.ProjectWrapper(p))
	assert.Equal(t, DecorationParsing, row.Decoration)
	assert.Contains(t, row.Tooltip, "Project is being parsed")
	assert.True(t, row.Emphasized)
	assert.False(t, m.Row(m.ProjectWrapper(other)).Emphasized)
	p.FinishParsing(true)
	assert.Equal(t, DecorationProject, m.Row(m.ProjectWrapper(p)).Decoration)
}

func TestRecorderReceivesRebuilds(t *testing.T) {
	rec := &recordingRecorder{}
	s, _, _ := newModel(t, WithRecorder(rec))
	p := project.NewProject("/proj/proj.pro")
	require.NoError(t, s.AddProject(p))
	require.NoError(t, p.SetRootProjectNode(newRoot(t, "/proj", "a.cpp")))
	assert.Equal(t, []string{"proj", "proj"}, rec.projects)
}

func TestRelocatedFileIsInExactlyOneProject(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "src")
	dstDir := filepath.Join(dir, "dst")
	require.NoError(t, os.MkdirAll(srcDir, 0755))
	require.NoError(t, os.MkdirAll(dstDir, 0755))
	from := filepath.Join(srcDir, "a.cpp")
	to := filepath.Join(dstDir, "a.cpp")
	require.NoError(t, os.WriteFile(from, []byte("int a;"), 0644))

	s, m, obs := newModel(t)
	src := project.NewProject(srcDir)
	dst := project.NewProject(dstDir)
	require.NoError(t, s.AddProject(src))
	require.NoError(t, s.AddProject(dst))
	require.NoError(t, src.SetRootProjectNode(newRoot(t, srcDir, "a.cpp", "b.cpp")))
	require.NoError(t, dst.SetRootProjectNode(newRoot(t, dstDir, "c.cpp")))

	occurrences := func() int {
		return len(m.WrappersForPath(from)) + len(m.WrappersForPath(to))
	}
	require.Equal(t, 1, occurrences())

	obs.rebuilt = nil
	obs.onRebuilt = func(*project.Project, *WrapperNode) {
		assert.Equal(t, 1, occurrences())
	}
	moved, err := s.RelocateFiles(src, dst, []project.RenamePair{{From: from, To: to}})
	require.NoError(t, err)
	require.Len(t, moved, 1)

	assert.ElementsMatch(t, []*project.Project{src, dst}, obs.rebuilt)
	assert.Empty(t, m.WrappersForPath(from))
	require.Len(t, m.WrappersForPath(to), 1)
	assert.Same(t, dst, m.WrappersForPath(to)[0].Project())
	assert.True(t, strings.HasSuffix(m.Row(m.WrappersForPath(to)[0]).DisplayName, "a.cpp"))
}
