package cmd

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/sjzsdu/projview/config"
	"github.com/sjzsdu/projview/helper"
	jsonstore "github.com/sjzsdu/projview/helper/json"
	"github.com/sjzsdu/projview/helper/logging"
	"github.com/sjzsdu/projview/metrics"
	"github.com/sjzsdu/projview/project"
	"github.com/sjzsdu/projview/project/dirproject"
	"github.com/sjzsdu/projview/project/model"
	"github.com/sjzsdu/projview/project/scan"
	"github.com/sjzsdu/projview/share"
	"github.com/sjzsdu/projview/vcs"
	"go.uber.org/zap"
)

// workspace 一个目录项目、它所在的会话以及展示模型
type workspace struct {
	dir     string
	session *project.Session
	project *project.Project
	build   *dirproject.BuildSystem
	model   *model.Model
	vcs     *vcs.Manager
}

// resolveDir 取第一个参数作为目录，默认当前目录
func resolveDir(args []string) (string, error) {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("无法获取绝对路径: %w", err)
	}
	if !helper.IsDir(abs) {
		return "", fmt.Errorf("%w: %s", dirproject.ErrNotDirectory, abs)
	}
	return helper.CleanPath(abs), nil
}

func newVcsManager(c *config.Config) *vcs.Manager {
	m := vcs.NewManager(logging.Named("vcs"))
	for _, name := range c.Scan.DisabledVcs {
		m.SetEnabled(name, false)
	}
	return m
}

// vcsProviders 把启用的提供者转换为扫描器需要的形式
func vcsProviders(m *vcs.Manager) scan.ProvidersFunc {
	return func() []scan.VcsProvider {
		providers := m.Providers()
		out := make([]scan.VcsProvider, len(providers))
		for i, p := range providers {
			out[i] = p
		}
		return out
	}
}

func walkOptions(c *config.Config, dir string) scan.WalkOptions {
	opts := scan.DefaultWalkOptions()
	opts.IncludeHidden = c.Scan.IncludeHidden
	opts.FollowSymlinks = c.Scan.FollowSymlinks
	opts.KeepEmptyDirs = c.Scan.KeepEmptyDirs
	if len(c.Scan.ExcludeDirs) > 0 {
		opts.ExcludeDirs = c.Scan.ExcludeDirs
	}
	if c.Scan.RespectGitignore {
		ignore, err := vcs.LoadGitignore(dir)
		if err != nil {
			logging.L().Debug("gitignore not loaded", zap.String("dir", dir), zap.Error(err))
		} else {
			opts.Ignore = ignore
		}
	}
	return opts
}

func scanOptions(c *config.Config, dir string, manager *vcs.Manager, extra ...scan.Option) []scan.Option {
	opts := []scan.Option{
		scan.WithWalkOptions(walkOptions(c, dir)),
		scan.WithMaxWorkers(c.Scan.Concurrency),
		scan.WithVcsProviders(vcsProviders(manager)),
		scan.WithRecorder(metrics.NewRecorder()),
		scan.WithLogger(logging.Named("scan")),
	}
	return append(opts, extra...)
}

func filtersFromConfig(c *config.Config) model.Filters {
	return model.Filters{
		HideGenerated:    c.Filters.HideGenerated,
		HideDisabled:     c.Filters.HideDisabled,
		Simplify:         c.Filters.Simplify,
		TrimEmpty:        c.Filters.TrimEmpty,
		HideSourceGroups: c.Filters.HideSourceGroups,
	}
}

// openWorkspace 创建会话和模型，然后把目录作为项目加入会话
// 项目尚未解析，调用方负责 Reparse
func openWorkspace(c *config.Config, dir string, filters model.Filters, extra ...scan.Option) (*workspace, error) {
	manager := newVcsManager(c)
	session := project.NewSession(project.WithSessionLogger(logging.Named("session")))
	m := model.New(session,
		model.WithFilters(filters),
		model.WithRecorder(metrics.NewRecorder()),
		model.WithLogger(logging.Named("model")))

	p := project.NewProject(dir)
	p.SetTopicFunc(manager.Topic)
	build, err := dirproject.New(p,
		dirproject.WithScanOptions(scanOptions(c, dir, manager, extra...)...),
		dirproject.WithCompress(c.Scan.Compress),
		dirproject.WithLogger(logging.Named("dirproject")))
	if err != nil {
		m.Close()
		return nil, err
	}
	if err := session.AddProject(p); err != nil {
		build.Close()
		m.Close()
		return nil, err
	}
	return &workspace{
		dir:     dir,
		session: session,
		project: p,
		build:   build,
		model:   m,
		vcs:     manager,
	}, nil
}

func (w *workspace) Close() {
	w.build.Close()
	w.model.Close()
}

// stateStore 展开状态所在的设置存储，每个目录一个文件
func stateStore(c *config.Config) (*jsonstore.JSONStore, error) {
	return jsonstore.NewJSONStore(c.StateDir, "sessions")
}

func stateName(dir string) string {
	sum := sha256.Sum256([]byte(dir))
	return "tree-" + hex.EncodeToString(sum[:6])
}

func (w *workspace) loadExpandState(store *jsonstore.JSONStore) error {
	var keys []model.ExpandKey
	found, err := store.GetValue(stateName(w.dir), share.EXPAND_STATE_KEY, &keys)
	if err != nil || !found {
		return err
	}
	w.model.RestoreExpandState(keys)
	return nil
}

func (w *workspace) saveExpandState(store *jsonstore.JSONStore) error {
	return store.SetValue(stateName(w.dir), share.EXPAND_STATE_KEY, w.model.ExpandState())
}
