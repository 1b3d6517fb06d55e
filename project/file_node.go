package project

// FileType 文件的语义类型
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeHeader
	FileTypeSource
	FileTypeForm
	FileTypeStateChart
	FileTypeResource
	FileTypeQML
	FileTypeProject
)

func (t FileType) String() string {
	switch t {
	case FileTypeHeader:
		return "header"
	case FileTypeSource:
		return "source"
	case FileTypeForm:
		return "form"
	case FileTypeStateChart:
		return "statechart"
	case FileTypeResource:
		return "resource"
	case FileTypeQML:
		return "qml"
	case FileTypeProject:
		return "project"
	}
	return "unknown"
}

// FileNode 表示一个文件
type FileNode struct {
	nodeBase
	fileType FileType
}

// NewFileNode 创建一个未挂载的文件节点
func NewFileNode(path string, fileType FileType) *FileNode {
	return &FileNode{
		nodeBase: newNodeBase(path, DefaultFilePriority),
		fileType: fileType,
	}
}

func (f *FileNode) Kind() NodeKind { return KindFile }

func (f *FileNode) FileType() FileType { return f.fileType }

func (f *FileNode) SetFileType(t FileType) { f.fileType = t }

// Clone 返回一个没有父节点的副本
func (f *FileNode) Clone() *FileNode {
	c := *f
	c.parent = nil
	return &c
}

func (f *FileNode) AsFileNode() *FileNode                   { return f }
func (f *FileNode) AsFolderNode() *FolderNode               { return nil }
func (f *FileNode) AsVirtualFolderNode() *VirtualFolderNode { return nil }
func (f *FileNode) AsProjectNode() *ProjectNode             { return nil }
func (f *FileNode) AsContainerNode() *ContainerNode         { return nil }
func (f *FileNode) IsFolderNodeType() bool                  { return false }
func (f *FileNode) IsVirtualFolderType() bool               { return false }
func (f *FileNode) IsProjectNodeType() bool                 { return false }
