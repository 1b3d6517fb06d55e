package scan

import "github.com/sjzsdu/projview/project"

// Result 是一次扫描的产物
// 扁平文件列表和首层节点树共享同一批 FileNode，
// 只能通过 TakeAllFiles 或 TakeFirstLevelNodes 之一取走，取走后另一种表示随之失效。
type Result struct {
	allFiles        []*project.FileNode
	firstLevelNodes []project.Node
	stats           Stats
}

func emptyResult() *Result {
	return &Result{}
}

// IsEmpty 结果中没有任何节点
func (r *Result) IsEmpty() bool {
	return len(r.allFiles) == 0 && len(r.firstLevelNodes) == 0
}

// FileCount 文件数量
func (r *Result) FileCount() int { return len(r.allFiles) }

// AllFiles 按路径排序的文件列表，只读查看
func (r *Result) AllFiles() []*project.FileNode {
	out := make([]*project.FileNode, len(r.allFiles))
	copy(out, r.allFiles)
	return out
}

// FirstLevelNodes 首层节点，只读查看
func (r *Result) FirstLevelNodes() []project.Node {
	out := make([]project.Node, len(r.firstLevelNodes))
	copy(out, r.firstLevelNodes)
	return out
}

// Stats 扫描统计
func (r *Result) Stats() Stats { return r.stats }

// TakeAllFiles 取走扁平文件列表，文件与目录脱离，目录树被丢弃
func (r *Result) TakeAllFiles() []*project.FileNode {
	for _, n := range r.firstLevelNodes {
		if f := n.AsFolderNode(); f != nil {
			var folders []*project.FolderNode
			f.ForEachFolderNode(func(sub *project.FolderNode) {
				folders = append(folders, sub)
			})
			for _, sub := range folders {
				sub.RemoveAllChildren()
			}
		}
	}
	files := r.allFiles
	r.allFiles = nil
	r.firstLevelNodes = nil
	return files
}

// TakeFirstLevelNodes 取走首层节点树，扁平列表被丢弃
func (r *Result) TakeFirstLevelNodes() []project.Node {
	nodes := r.firstLevelNodes
	r.allFiles = nil
	r.firstLevelNodes = nil
	return nodes
}
