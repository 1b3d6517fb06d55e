package scan

import (
	"strings"

	"github.com/sjzsdu/projview/helper"
	"github.com/sjzsdu/projview/project"
)

// EntryFilter 返回 true 表示该文件不进入扫描结果
type EntryFilter func(mt helper.MimeType, path string) bool

// TypeClassifier 把文件映射为语义类型
type TypeClassifier func(mt helper.MimeType, path string) project.FileType

// 常见的二进制产物后缀
var wellKnownBinarySuffixes = []string{
	".a", ".o", ".d", ".exe", ".dll", ".obj", ".elf", ".so", ".dylib", ".class",
}

// IsWellKnownBinary 判断文件名是否带有常见二进制后缀
func IsWellKnownBinary(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range wellKnownBinarySuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// IsMimeBinary 有效且不继承自 text/plain 的类型视为二进制
func IsMimeBinary(mt helper.MimeType) bool {
	return mt.IsValid() && !mt.Inherits(helper.MimeTextPlain)
}

// DefaultFilter 跳过后缀和 MIME 类型都表明是二进制的文件
func DefaultFilter(mt helper.MimeType, path string) bool {
	return IsWellKnownBinary(path) && IsMimeBinary(mt)
}

// DefaultClassifier 识别头文件、界面描述、资源、状态图和 QML，其余有效类型视为源文件
func DefaultClassifier(mt helper.MimeType, path string) project.FileType {
	if !mt.IsValid() {
		return project.FileTypeUnknown
	}
	switch mt.Name {
	case helper.MimeCHeader, helper.MimeCppHeader:
		return project.FileTypeHeader
	case helper.MimeForm:
		return project.FileTypeForm
	case helper.MimeResource:
		return project.FileTypeResource
	case helper.MimeStateChart:
		return project.FileTypeStateChart
	case helper.MimeQML, helper.MimeQMLUI:
		return project.FileTypeQML
	}
	return project.FileTypeSource
}
