package project

import "errors"

var (
	// ErrAlreadyAttached 节点已经有父节点
	ErrAlreadyAttached = errors.New("node already has a parent")
	// ErrDuplicateChild 父节点中已存在相同路径的子节点
	ErrDuplicateChild = errors.New("folder already contains a child with this path")
	// ErrNotChild 节点不是该目录的直接子节点
	ErrNotChild = errors.New("node is not a child of this folder")
	// ErrNilNode 传入了空节点
	ErrNilNode = errors.New("nil node")
	// ErrProjectExists 会话中已存在同一项目文件
	ErrProjectExists = errors.New("project already in session")
	// ErrProjectNotFound 会话中找不到该项目
	ErrProjectNotFound = errors.New("project not in session")
	// ErrNoRootProject 项目当前没有根 ProjectNode
	ErrNoRootProject = errors.New("project has no root project node")
)
