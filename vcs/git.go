package vcs

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Git 基于 go-git 的提供者
type Git struct {
	metadataProvider
}

// NewGit 创建 git 提供者
func NewGit() *Git {
	return &Git{metadataProvider{name: "git", dirName: ".git"}}
}

// Topic 返回当前分支名，分离头指针时返回提交哈希前 7 位
// 尚无提交的新仓库也能返回 HEAD 指向的分支名
func (g *Git) Topic(topLevel string) (string, error) {
	repo, err := git.PlainOpenWithOptions(topLevel, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("打开仓库失败 %s: %w", topLevel, err)
	}

	ref, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("读取 HEAD 失败: %w", err)
	}
	if ref.Type() == plumbing.SymbolicReference {
		return ref.Target().Short(), nil
	}

	hash := ref.Hash().String()
	if len(hash) > 7 {
		hash = hash[:7]
	}
	return hash, nil
}
