package project

import (
	"path/filepath"

	"github.com/sjzsdu/projview/helper"
)

// IssueSeverity 问题级别
type IssueSeverity int

const (
	IssueWarning IssueSeverity = iota
	IssueError
)

// Issue 项目解析过程中产生的问题
type Issue struct {
	Severity IssueSeverity
	Message  string
}

// TopicFunc 返回目录当前的版本控制主题（例如分支名），没有时返回空串
type TopicFunc func(directory string) string

// Project 是会话中的一个逻辑项目
type Project struct {
	projectFile      string
	projectDirectory string
	displayName      string
	container        *ContainerNode
	parsing          bool
	issues           []Issue
	topicFunc        TopicFunc
	topic            string
	session          *Session
}

// NewProject 创建项目，projectFile 可以是项目定义文件，也可以是目录本身
func NewProject(projectFile string) *Project {
	projectFile = helper.CleanPath(projectFile)
	dir := projectFile
	if !helper.IsDir(projectFile) {
		dir = filepath.Dir(projectFile)
	}
	p := &Project{
		projectFile:      projectFile,
		projectDirectory: dir,
	}
	p.container = newContainerNode(p)
	return p
}

func (p *Project) ProjectFile() string { return p.projectFile }

func (p *Project) ProjectDirectory() string { return p.projectDirectory }

// DisplayName 未设置时取项目目录名
func (p *Project) DisplayName() string {
	if p.displayName != "" {
		return p.displayName
	}
	return defaultDisplayName(p.projectDirectory)
}

func (p *Project) SetDisplayName(name string) { p.displayName = name }

func (p *Project) ContainerNode() *ContainerNode { return p.container }

func (p *Project) RootProjectNode() *ProjectNode { return p.container.RootProjectNode() }

// Session 返回项目所在的会话，未加入会话时为空
func (p *Project) Session() *Session { return p.session }

// SetRootProjectNode 用新解析的根节点替换旧的根节点，root 为空表示解析失败
// 空的根节点会补上项目文件本身，保证树中始终可见
func (p *Project) SetRootProjectNode(root *ProjectNode) error {
	old := p.RootProjectNode()
	if old == nil && root == nil {
		return nil
	}
	if root != nil && root.IsEmpty() && p.projectFile != p.projectDirectory {
		if err := root.AddNode(NewFileNode(p.projectFile, FileTypeProject)); err != nil {
			return err
		}
	}

	var oldNode, newNode Node
	if old != nil {
		oldNode = old
	}
	if root != nil {
		newNode = root
	}
	return p.container.ReplaceSubtree(oldNode, newNode)
}

func (p *Project) IsParsing() bool { return p.parsing }

// StartParsing 标记项目开始解析
func (p *Project) StartParsing() {
	if p.parsing {
		return
	}
	p.parsing = true
	if p.session != nil {
		p.session.parsingStarted(p)
	}
}

// FinishParsing 标记项目解析结束
func (p *Project) FinishParsing(success bool) {
	if !p.parsing {
		return
	}
	p.parsing = false
	p.RefreshVcsTopic()
	if p.session != nil {
		p.session.parsingFinished(p, success)
	}
}

// Issues 返回问题列表副本
func (p *Project) Issues() []Issue {
	out := make([]Issue, len(p.issues))
	copy(out, p.issues)
	return out
}

func (p *Project) AddIssue(severity IssueSeverity, message string) {
	p.issues = append(p.issues, Issue{Severity: severity, Message: message})
}

func (p *Project) ClearIssues() { p.issues = nil }

// HasErrors 是否存在错误级别的问题
func (p *Project) HasErrors() bool {
	for _, i := range p.issues {
		if i.Severity == IssueError {
			return true
		}
	}
	return false
}

// SetTopicFunc 设置主题查询函数并立即刷新主题
func (p *Project) SetTopicFunc(fn TopicFunc) {
	p.topicFunc = fn
	p.RefreshVcsTopic()
}

// VcsTopic 返回最近一次查询到的版本控制主题
// 主题在解析结束和 RefreshVcsTopic 时更新
func (p *Project) VcsTopic() string { return p.topic }

// RefreshVcsTopic 重新查询项目目录的版本控制主题
func (p *Project) RefreshVcsTopic() {
	if p.topicFunc == nil {
		p.topic = ""
		return
	}
	p.topic = p.topicFunc(p.projectDirectory)
}

func (p *Project) handleSubtreeChanged(changed *FolderNode) {
	if p.session != nil {
		p.session.subtreeChanged(p, changed)
	}
}

// ProjectOf 返回节点所属的项目，节点不在任何容器下时为空
func ProjectOf(n Node) *Project {
	if c := n.AsContainerNode(); c != nil {
		return c.project
	}
	for f := n.ParentFolderNode(); f != nil; f = f.ParentFolderNode() {
		if c := f.AsContainerNode(); c != nil {
			return c.project
		}
	}
	return nil
}
