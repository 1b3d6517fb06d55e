package helper

import (
	"mime"
	"path/filepath"
	"strings"
)

// 常用的 MIME 名称
const (
	MimeTextPlain  = "text/plain"
	MimeXML        = "application/xml"
	MimeCSource    = "text/x-csrc"
	MimeCHeader    = "text/x-chdr"
	MimeCppSource  = "text/x-c++src"
	MimeCppHeader  = "text/x-c++hdr"
	MimeForm       = "application/x-designer"
	MimeResource   = "application/vnd.qt.xml.resource"
	MimeStateChart = "application/scxml+xml"
	MimeQML        = "text/x-qml"
	MimeQMLUI      = "application/x-qt.ui+qml"
	MimeOctet      = "application/octet-stream"
)

// MimeType 是一个文件的 MIME 分类以及它继承的父类型
type MimeType struct {
	Name    string
	Parents []string
}

// IsValid 判断分类是否有效
func (m MimeType) IsValid() bool {
	return m.Name != ""
}

// Inherits 判断该类型是否等于或继承自 name
func (m MimeType) Inherits(name string) bool {
	if m.Name == name {
		return true
	}
	for _, p := range m.Parents {
		if p == name {
			return true
		}
	}
	return false
}

var textParents = []string{MimeTextPlain}
var xmlParents = []string{MimeXML, MimeTextPlain}

// 按扩展名（不含点，小写）映射 MIME 类型
var extensionMimeTypes = map[string]MimeType{
	"c":     {MimeCSource, textParents},
	"h":     {MimeCHeader, textParents},
	"cpp":   {MimeCppSource, textParents},
	"cc":    {MimeCppSource, textParents},
	"cxx":   {MimeCppSource, textParents},
	"c++":   {MimeCppSource, textParents},
	"hpp":   {MimeCppHeader, textParents},
	"hh":    {MimeCppHeader, textParents},
	"hxx":   {MimeCppHeader, textParents},
	"h++":   {MimeCppHeader, textParents},
	"ui":    {MimeForm, xmlParents},
	"qrc":   {MimeResource, xmlParents},
	"scxml": {MimeStateChart, xmlParents},
	"qml":   {MimeQML, textParents},
	"go":    {"text/x-go", textParents},
	"py":    {"text/x-python", textParents},
	"js":    {"text/javascript", textParents},
	"ts":    {"text/x-typescript", textParents},
	"java":  {"text/x-java", textParents},
	"rs":    {"text/x-rust", textParents},
	"rb":    {"application/x-ruby", textParents},
	"php":   {"application/x-php", textParents},
	"swift": {"text/x-swift", textParents},
	"kt":    {"text/x-kotlin", textParents},
	"cs":    {"text/x-csharp", textParents},
	"sh":    {"application/x-shellscript", textParents},
	"md":    {"text/markdown", textParents},
	"txt":   {MimeTextPlain, nil},
	"json":  {"application/json", textParents},
	"yaml":  {"application/x-yaml", textParents},
	"yml":   {"application/x-yaml", textParents},
	"toml":  {"application/toml", textParents},
	"xml":   {MimeXML, textParents},
	"cmake": {"text/x-cmake", textParents},
	"pro":   {"application/vnd.qt.qmakeprofile", textParents},
	"pri":   {"application/vnd.qt.qmakeprofile", textParents},

	"o":     {"application/x-object", []string{MimeOctet}},
	"obj":   {"application/x-object", []string{MimeOctet}},
	"a":     {"application/x-archive", []string{MimeOctet}},
	"d":     {"text/x-makefile-deps", textParents},
	"so":    {"application/x-sharedlib", []string{MimeOctet}},
	"dylib": {"application/x-mach-binary", []string{MimeOctet}},
	"dll":   {"application/x-sharedlib", []string{MimeOctet}},
	"exe":   {"application/x-ms-dos-executable", []string{MimeOctet}},
	"elf":   {"application/x-executable", []string{MimeOctet}},
	"class": {"application/x-java", []string{MimeOctet}},
}

// 按完整文件名匹配的特殊类型
var fileNameMimeTypes = map[string]MimeType{
	"CMakeLists.txt": {"text/x-cmake-project", textParents},
	"Makefile":       {"text/x-makefile", textParents},
	"Dockerfile":     {"text/x-dockerfile", textParents},
}

// MimeTypeForFile 只根据文件名推断 MIME 类型，不读取文件内容
func MimeTypeForFile(path string) MimeType {
	name := filepath.Base(path)
	if mt, ok := fileNameMimeTypes[name]; ok {
		return mt
	}
	if strings.HasSuffix(strings.ToLower(name), ".ui.qml") {
		return MimeType{MimeQMLUI, []string{MimeQML, MimeTextPlain}}
	}

	ext := GetFileExt(name)
	if ext == "" {
		return MimeType{}
	}
	if mt, ok := extensionMimeTypes[ext]; ok {
		return mt
	}

	// 回退到系统 MIME 表
	full := mime.TypeByExtension("." + ext)
	if full == "" {
		return MimeType{}
	}
	mediaType, _, err := mime.ParseMediaType(full)
	if err != nil {
		return MimeType{}
	}
	switch {
	case mediaType == MimeTextPlain:
		return MimeType{Name: mediaType}
	case strings.HasPrefix(mediaType, "text/"):
		return MimeType{mediaType, textParents}
	case strings.HasSuffix(mediaType, "+xml") || strings.HasSuffix(mediaType, "/xml"):
		return MimeType{mediaType, xmlParents}
	default:
		return MimeType{mediaType, []string{MimeOctet}}
	}
}

// GetFileExt 返回小写、不含点的扩展名
func GetFileExt(file string) string {
	ext := filepath.Ext(file)
	if len(ext) > 0 {
		ext = ext[1:]
	}
	return strings.ToLower(ext)
}
