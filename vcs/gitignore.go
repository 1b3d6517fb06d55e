package vcs

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/sjzsdu/projview/helper"
)

// Gitignore 按仓库中的 .gitignore 规则匹配路径
type Gitignore struct {
	root    string
	matcher gitignore.Matcher
}

// LoadGitignore 读取 root 及其子目录中的 .gitignore 和 .git/info/exclude
func LoadGitignore(root string) (*Gitignore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	patterns, err := gitignore.ReadPatterns(osfs.New(abs), nil)
	if err != nil {
		return nil, fmt.Errorf("读取 gitignore 失败 %s: %w", abs, err)
	}
	return &Gitignore{root: abs, matcher: gitignore.NewMatcher(patterns)}, nil
}

// Match 判断路径是否被忽略，root 之外的路径永远不匹配
func (g *Gitignore) Match(path string, isDir bool) bool {
	segments, ok := helper.RelativeSegments(helper.CleanPath(path), g.root)
	if !ok || len(segments) == 0 {
		return false
	}
	return g.matcher.Match(segments, isDir)
}
