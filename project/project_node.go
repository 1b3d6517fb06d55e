package project

// ProjectAction 项目节点可能支持的修改操作
type ProjectAction int

const (
	AddNewFile ProjectAction = iota
	AddExistingFile
	RemoveFile
	EraseFile
	Rename
	AddDependencies
)

func (a ProjectAction) String() string {
	switch a {
	case AddNewFile:
		return "add-new-file"
	case AddExistingFile:
		return "add-existing-file"
	case RemoveFile:
		return "remove-file"
	case EraseFile:
		return "erase-file"
	case Rename:
		return "rename"
	case AddDependencies:
		return "add-dependencies"
	}
	return "unknown"
}

// RemovedFilesStatus RemoveFiles 的结果
type RemovedFilesStatus int

const (
	RemovedFilesOk RemovedFilesStatus = iota
	RemovedFilesPartialWildcardMatch
	RemovedFilesError
)

func (s RemovedFilesStatus) String() string {
	switch s {
	case RemovedFilesOk:
		return "ok"
	case RemovedFilesPartialWildcardMatch:
		return "partial-wildcard-match"
	}
	return "error"
}

// RenamePair 一次重命名的源路径和目标路径
type RenamePair struct {
	From string
	To   string
}

// BuildSystem 是项目节点背后的构建系统
// 所有调用只报告请求是否被接受，节点树的更新稍后通过重新解析到达
type BuildSystem interface {
	AddFiles(owner *ProjectNode, paths []string) (notAdded []string, ok bool)
	RemoveFiles(owner *ProjectNode, paths []string) (status RemovedFilesStatus, notRemoved []string)
	DeleteFiles(owner *ProjectNode, paths []string) bool
	CanRenameFile(owner *ProjectNode, oldPath, newPath string) bool
	RenameFiles(owner *ProjectNode, pairs []RenamePair) (notRenamed []string, ok bool)
	AddDependencies(owner *ProjectNode, dependencies []string) bool
	SupportsAction(owner *ProjectNode, action ProjectAction, node Node) bool
}

// ProjectNode 表示一个逻辑项目，修改请求转发给构建系统
type ProjectNode struct {
	FolderNode
	buildSystem BuildSystem
}

// NewProjectNode 创建项目节点，buildSystem 可以为空
func NewProjectNode(path string, buildSystem BuildSystem) *ProjectNode {
	p := &ProjectNode{buildSystem: buildSystem}
	p.init(path, KindProject, DefaultProjectPriority)
	p.showInSimpleTree = true
	p.outer = p
	return p
}

func (p *ProjectNode) BuildSystem() BuildSystem { return p.buildSystem }

func (p *ProjectNode) SetBuildSystem(bs BuildSystem) { p.buildSystem = bs }

// AddFiles 请求构建系统添加文件
func (p *ProjectNode) AddFiles(paths []string) ([]string, bool) {
	if p.buildSystem == nil {
		return paths, false
	}
	return p.buildSystem.AddFiles(p, paths)
}

// RemoveFiles 请求构建系统移除文件，不删除磁盘文件
func (p *ProjectNode) RemoveFiles(paths []string) (RemovedFilesStatus, []string) {
	if p.buildSystem == nil {
		return RemovedFilesError, paths
	}
	return p.buildSystem.RemoveFiles(p, paths)
}

// DeleteFiles 请求构建系统从磁盘删除文件
func (p *ProjectNode) DeleteFiles(paths []string) bool {
	if p.buildSystem == nil {
		return false
	}
	return p.buildSystem.DeleteFiles(p, paths)
}

func (p *ProjectNode) CanRenameFile(oldPath, newPath string) bool {
	if p.buildSystem == nil {
		return false
	}
	return p.buildSystem.CanRenameFile(p, oldPath, newPath)
}

func (p *ProjectNode) RenameFiles(pairs []RenamePair) ([]string, bool) {
	if p.buildSystem == nil {
		notRenamed := make([]string, len(pairs))
		for i, pair := range pairs {
			notRenamed[i] = pair.From
		}
		return notRenamed, false
	}
	return p.buildSystem.RenameFiles(p, pairs)
}

func (p *ProjectNode) AddDependencies(dependencies []string) bool {
	if p.buildSystem == nil {
		return false
	}
	return p.buildSystem.AddDependencies(p, dependencies)
}

// SupportsAction 判断构建系统是否支持对 node 执行 action
func (p *ProjectNode) SupportsAction(action ProjectAction, node Node) bool {
	if p.buildSystem == nil {
		return false
	}
	return p.buildSystem.SupportsAction(p, action, node)
}
