// Package tree 把展示树渲染成类似 Unix tree 命令的文本
package tree

import (
	"io"
	"os"
	"strings"

	"github.com/disiqueira/gotree/v3"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sjzsdu/projview/lang"
	"github.com/sjzsdu/projview/project/model"
)

// Options 渲染选项
type Options struct {
	// ShowFiles 为 false 时只显示目录
	ShowFiles bool
	// MaxDepth 大于 0 时限制显示的层数，项目行为第 1 层
	MaxDepth int
	// OnlyExpanded 只展开用户展开过的节点
	OnlyExpanded bool
	// Color 使用终端颜色
	Color bool
}

// DefaultOptions 显示全部文件，颜色取决于输出是否为终端
func DefaultOptions(out io.Writer) Options {
	return Options{ShowFiles: true, Color: ColorEnabled(out)}
}

// ColorEnabled 输出为终端时启用颜色
func ColorEnabled(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render 渲染模型中的所有项目，项目之间空一行
func Render(m *model.Model, opts Options) string {
	var parts []string
	for _, w := range m.Root().Children() {
		parts = append(parts, RenderProject(m, w, opts))
	}
	return strings.Join(parts, "\n")
}

// RenderProject 渲染一个项目的展示子树
func RenderProject(m *model.Model, w *model.WrapperNode, opts Options) string {
	p := newPainter(opts.Color)
	t := gotree.New(p.label(m.Row(w), true))
	addChildren(m, t, w, opts, p, 1)
	return t.Print()
}

func addChildren(m *model.Model, t gotree.Tree, w *model.WrapperNode, opts Options, p *painter, depth int) {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return
	}
	if opts.OnlyExpanded && !w.IsExpanded() {
		return
	}
	for _, c := range w.Children() {
		isFolder := c.Node().AsFolderNode() != nil
		if !opts.ShowFiles && !isFolder {
			continue
		}
		sub := t.Add(p.label(m.Row(c), isFolder))
		addChildren(m, sub, c, opts, p, depth+1)
	}
}

// painter 按行数据给标签上色
type painter struct {
	folder    *color.Color
	project   *color.Color
	warning   *color.Color
	parsing   *color.Color
	generated *color.Color
	disabled  *color.Color
	startup   *color.Color
}

func newPainter(enabled bool) *painter {
	p := &painter{
		folder:    color.New(color.FgBlue, color.Bold),
		project:   color.New(color.FgGreen, color.Bold),
		warning:   color.New(color.FgRed, color.Bold),
		parsing:   color.New(color.FgYellow),
		generated: color.New(color.Faint),
		disabled:  color.New(color.CrossedOut, color.Faint),
		startup:   color.New(color.Underline),
	}
	for _, c := range []*color.Color{p.folder, p.project, p.warning, p.parsing, p.generated, p.disabled, p.startup} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *painter) label(row model.RowData, isFolder bool) string {
	text := row.DisplayName
	switch row.Decoration {
	case model.DecorationProject:
		text = p.project.Sprint(text)
	case model.DecorationWarning:
		text = p.warning.Sprint(text) + " (!)"
	case model.DecorationParsing:
		text = p.parsing.Sprint(text) + " (" + lang.T("Project is being parsed") + ")"
	case model.DecorationFolder, model.DecorationVirtualFolder:
		text = p.folder.Sprint(text + "/")
	default:
		if isFolder {
			text += "/"
		}
	}
	if !row.Enabled {
		text = p.disabled.Sprint(text)
	}
	if row.Emphasized {
		text = p.startup.Sprint(text) + " *"
	}
	return text
}
