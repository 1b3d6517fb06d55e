package tree

import (
	"fmt"
	"os"
	"strings"

	"github.com/sjzsdu/projview/helper"
	"github.com/sjzsdu/projview/lang"
	"github.com/sjzsdu/projview/project"
	"github.com/sjzsdu/projview/project/model"
	"github.com/sjzsdu/projview/project/scan"
)

// Statistics 展示树的统计信息
type Statistics struct {
	Projects       int
	DirectoryCount int
	VirtualFolders int
	FileCount      int
	Generated      int
	Disabled       int
	TotalSize      int64
	MaxDepth       int
	// ByType 按文件类型统计的文件数
	ByType map[project.FileType]int
}

// Collect 统计模型中所有项目，文件大小从磁盘读取，读取失败的文件不计大小
func Collect(m *model.Model) Statistics {
	stats := Statistics{ByType: make(map[project.FileType]int)}
	for _, w := range m.Root().Children() {
		stats.Projects++
		collect(w, 1, &stats)
	}
	return stats
}

func collect(w *model.WrapperNode, depth int, stats *Statistics) {
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	for _, c := range w.Children() {
		n := c.Node()
		if !n.IsEnabled() {
			stats.Disabled++
		}
		switch n.Kind() {
		case project.KindFile:
			stats.addFile(n.AsFileNode())
		case project.KindVirtualFolder:
			stats.VirtualFolders++
		default:
			stats.DirectoryCount++
		}
		collect(c, depth+1, stats)
	}
}

// CollectFiles 统计扫描结果中的文件，目录数取自 dirs
func CollectFiles(files []*project.FileNode, dirs int) Statistics {
	stats := Statistics{DirectoryCount: dirs, ByType: make(map[project.FileType]int)}
	for _, f := range files {
		if !f.IsEnabled() {
			stats.Disabled++
		}
		stats.addFile(f)
	}
	return stats
}

func (s *Statistics) addFile(f *project.FileNode) {
	s.FileCount++
	s.ByType[f.FileType()]++
	if f.IsGenerated() {
		s.Generated++
	}
	if info, err := os.Stat(f.Path()); err == nil && !info.IsDir() {
		s.TotalSize += info.Size()
	}
}

// String 返回统计信息的字符串表示
func (s Statistics) String() string {
	return fmt.Sprintf("%d %s, %d %s, %s",
		s.DirectoryCount, lang.T("directories"), s.FileCount, lang.T("files"), formatSize(s.TotalSize))
}

func formatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d bytes", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	case size < 1024*1024*1024:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
	return fmt.Sprintf("%.1f GB", float64(size)/(1024*1024*1024))
}

// Markdown 把扫描统计和树统计写成 markdown 表格
func Markdown(scanStats scan.Stats, s Statistics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", scanStats.Root)
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| %s | %d |\n", lang.T("files"), scanStats.Files)
	fmt.Fprintf(&b, "| %s | %d |\n", lang.T("directories"), scanStats.Directories)
	fmt.Fprintf(&b, "| skipped | %d |\n", scanStats.Skipped)
	fmt.Fprintf(&b, "| generated | %d |\n", s.Generated)
	fmt.Fprintf(&b, "| size | %s |\n", formatSize(s.TotalSize))
	fmt.Fprintf(&b, "| depth | %d |\n", s.MaxDepth)
	fmt.Fprintf(&b, "| duration | %s |\n", helper.FormatDuration(scanStats.Duration))
	if scanStats.Canceled {
		fmt.Fprintf(&b, "\n> %s\n", lang.T("Scan cancelled"))
	}

	if len(s.ByType) > 0 {
		b.WriteString("\n| type | files |\n|---|---|\n")
		for t := project.FileTypeUnknown; t <= project.FileTypeProject; t++ {
			if n := s.ByType[t]; n > 0 {
				fmt.Fprintf(&b, "| %s | %d |\n", t, n)
			}
		}
	}
	return b.String()
}
