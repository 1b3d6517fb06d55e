package helper

import (
	"os"
	"path/filepath"
	"strings"
)

// CleanPath 返回绝对、清理过的路径，无法取得绝对路径时只做清理
func CleanPath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// CanonicalPath 解析符号链接后的真实路径，用于检测目录环
func CanonicalPath(path string) string {
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return CleanPath(path)
	}
	return CleanPath(real)
}

// IsChildOf 判断 path 是否位于 base 之下（不含相等）
func IsChildOf(path, base string) bool {
	if base == "" || path == base {
		return false
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// RelativeSegments 把 path 相对 base 的部分拆成路径段
func RelativeSegments(path, base string) ([]string, bool) {
	if path == base {
		return nil, true
	}
	if !IsChildOf(path, base) {
		return nil, false
	}
	rel, _ := filepath.Rel(base, path)
	return PathSegments(rel), true
}

// PathSegments 按分隔符拆分路径，忽略空段
func PathSegments(path string) []string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" && p != "." {
			segments = append(segments, p)
		}
	}
	return segments
}

// IsHidden 判断文件名是否为隐藏条目
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// IsDir 判断路径是否为目录（跟随符号链接）
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
