package model

import (
	"strings"

	"github.com/sjzsdu/projview/lang"
	"github.com/sjzsdu/projview/project"
)

// Decoration 行图标
type Decoration int

const (
	DecorationFile Decoration = iota
	DecorationFolder
	DecorationVirtualFolder
	DecorationProject
	// DecorationParsing 项目正在解析
	DecorationParsing
	// DecorationWarning 项目有问题或无法解析
	DecorationWarning
)

func (d Decoration) String() string {
	switch d {
	case DecorationFile:
		return "file"
	case DecorationFolder:
		return "folder"
	case DecorationVirtualFolder:
		return "virtual-folder"
	case DecorationProject:
		return "project"
	case DecorationParsing:
		return "parsing"
	case DecorationWarning:
		return "warning"
	}
	return "unknown"
}

// RowData 视图展示一行所需的只读数据
type RowData struct {
	DisplayName string
	Tooltip     string
	Decoration  Decoration
	Enabled     bool
	// Emphasized 行所在项目是启动项目
	Emphasized bool
	Expanded   bool
}

// Row 计算展示节点的行数据
func (m *Model) Row(w *WrapperNode) RowData {
	if w == nil || w.node == nil {
		return RowData{}
	}
	n := w.node
	row := RowData{
		DisplayName: n.DisplayName(),
		Tooltip:     n.Tooltip(),
		Decoration:  decorationOf(n),
		Enabled:     n.IsEnabled(),
		Expanded:    w.expanded,
	}

	if c := n.AsContainerNode(); c != nil {
		p := c.Project()
		row.Decoration = projectDecoration(p)
		row.Tooltip = projectTooltip(p)
		row.Emphasized = m.session.StartupProject() == p
		return row
	}

	var notes []string
	if n.IsGenerated() {
		notes = append(notes, lang.T("Generated file"))
	}
	if !n.IsEnabled() {
		notes = append(notes, lang.T("Disabled"))
	}
	if len(notes) > 0 {
		row.Tooltip += "\n" + strings.Join(notes, "\n")
	}
	return row
}

func decorationOf(n project.Node) Decoration {
	switch n.Kind() {
	case project.KindFolder:
		return DecorationFolder
	case project.KindVirtualFolder:
		return DecorationVirtualFolder
	case project.KindProject, project.KindContainer:
		return DecorationProject
	}
	return DecorationFile
}

func projectDecoration(p *project.Project) Decoration {
	switch {
	case p.IsParsing():
		return DecorationParsing
	case p.RootProjectNode() == nil || len(p.Issues()) > 0:
		return DecorationWarning
	}
	return DecorationProject
}

// projectTooltip 项目目录加上解析状态和汇总的问题
func projectTooltip(p *project.Project) string {
	lines := []string{p.ProjectFile()}
	switch {
	case p.IsParsing():
		lines = append(lines, lang.T("Project is being parsed"))
	case p.RootProjectNode() == nil:
		lines = append(lines, lang.T("Project could not be parsed"))
	}
	if issues := p.Issues(); len(issues) > 0 {
		lines = append(lines, lang.T("Issues")+":")
		for _, issue := range issues {
			lines = append(lines, "- "+issue.Message)
		}
	}
	if p.Session() != nil && p.Session().StartupProject() == p {
		lines = append(lines, lang.T("Startup project"))
	}
	return strings.Join(lines, "\n")
}
