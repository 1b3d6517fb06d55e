package helper

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Progress 在终端上渲染扫描进度
type Progress struct {
	out         io.Writer
	max         int
	current     int
	width       int
	title       string
	startTime   time.Time
	mu          sync.Mutex
	finished    bool
	showETA     bool
	showPercent bool
}

// ProgressOption 进度条选项
type ProgressOption func(*Progress)

// WithETA 设置是否显示预计完成时间
func WithETA(show bool) ProgressOption {
	return func(p *Progress) {
		p.showETA = show
	}
}

// WithPercent 设置是否显示百分比
func WithPercent(show bool) ProgressOption {
	return func(p *Progress) {
		p.showPercent = show
	}
}

// WithWidth 设置进度条宽度
func WithWidth(width int) ProgressOption {
	return func(p *Progress) {
		p.width = width
	}
}

// NewProgress 创建一个最大值为 max 的进度条
func NewProgress(out io.Writer, title string, max int, opts ...ProgressOption) *Progress {
	p := &Progress{
		out:         out,
		max:         max,
		width:       40,
		title:       title,
		startTime:   time.Now(),
		showETA:     true,
		showPercent: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Update 更新进度，回退的值会被忽略
func (p *Progress) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished || current < p.current {
		return
	}
	if current > p.max {
		current = p.max
	}
	p.current = current
	p.render()
}

// Current 返回当前进度值
func (p *Progress) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Finish 完成进度条
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return
	}
	p.current = p.max
	p.finished = true
	p.render()
	fmt.Fprintln(p.out)
}

func (p *Progress) render() {
	if p.max <= 0 || p.out == nil {
		return
	}

	percent := float64(p.current) / float64(p.max) * 100
	filled := int(percent * float64(p.width) / 100)
	if filled > p.width {
		filled = p.width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)

	var display strings.Builder
	display.WriteString(fmt.Sprintf("\r%s [%s]", p.title, bar))
	if p.showPercent {
		display.WriteString(fmt.Sprintf(" %.1f%%", percent))
	}

	if p.showETA && p.current > 0 {
		elapsed := time.Since(p.startTime)
		if p.current < p.max {
			rate := float64(p.current) / elapsed.Seconds()
			if rate > 0 {
				remaining := float64(p.max-p.current) / rate
				display.WriteString(fmt.Sprintf(" ETA: %s", FormatDuration(time.Duration(remaining*float64(time.Second)))))
			}
		} else {
			display.WriteString(fmt.Sprintf(" %s", FormatDuration(elapsed)))
		}
	}

	fmt.Fprint(p.out, display.String())
}

// FormatDuration 格式化时间显示
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) - minutes*60
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	default:
		hours := int(d.Hours())
		minutes := int(d.Minutes()) - hours*60
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
}
