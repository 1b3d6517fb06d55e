package renders

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer 把 Markdown 文本渲染为终端输出
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	out      io.Writer
}

// NewMarkdownRenderer 创建一个新的 Markdown 渲染器
// style 为空时自动选择终端配色，"notty" 输出纯文本
func NewMarkdownRenderer(out io.Writer, style string, width int) (*MarkdownRenderer, error) {
	if width <= 0 {
		width = 120
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("初始化 Markdown 渲染器失败: %w", err)
	}
	return &MarkdownRenderer{renderer: renderer, out: out}, nil
}

// Render 渲染 content 并写出，渲染失败时输出原文
func (m *MarkdownRenderer) Render(content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	rendered, err := m.renderer.Render(content)
	if err != nil {
		_, werr := io.WriteString(m.out, content)
		return werr
	}

	// 把连续多个空行压缩为一个
	for strings.Contains(rendered, "\n\n\n") {
		rendered = strings.ReplaceAll(rendered, "\n\n\n", "\n\n")
	}
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	_, err = io.WriteString(m.out, rendered)
	return err
}
