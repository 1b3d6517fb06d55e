// Package vcs 识别版本控制元数据并查询仓库信息
package vcs

import (
	"os"
	"path/filepath"
)

// Provider 一种版本控制系统
type Provider interface {
	// Name 提供者名称，例如 git
	Name() string
	// IsVcsFileOrDirectory 路径是否为版本控制的元数据，扫描时应跳过
	IsVcsFileOrDirectory(path string) bool
	// TopLevel 返回管理 dir 的仓库根目录
	TopLevel(dir string) (string, bool)
}

// TopicProvider 能够给出仓库当前主题（分支名等）的提供者
type TopicProvider interface {
	Topic(topLevel string) (string, error)
}

// metadataProvider 通过元数据目录名识别版本控制系统
type metadataProvider struct {
	name    string
	dirName string
}

func (p *metadataProvider) Name() string { return p.name }

func (p *metadataProvider) IsVcsFileOrDirectory(path string) bool {
	return filepath.Base(path) == p.dirName
}

// TopLevel 自下而上查找包含元数据目录的祖先目录
func (p *metadataProvider) TopLevel(dir string) (string, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	current := abs
	for {
		if exists(filepath.Join(current, p.dirName)) {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// NewSubversion 创建 Subversion 提供者
func NewSubversion() Provider {
	return &metadataProvider{name: "subversion", dirName: ".svn"}
}

// NewMercurial 创建 Mercurial 提供者
func NewMercurial() Provider {
	return &metadataProvider{name: "mercurial", dirName: ".hg"}
}
