package scan

import (
	"testing"

	"github.com/sjzsdu/projview/helper"
	"github.com/sjzsdu/projview/project"
	"github.com/stretchr/testify/assert"
)

func TestDefaultFilter(t *testing.T) {
	testCases := []struct {
		path string
		skip bool
	}{
		{"/p/main.o", true},
		{"/p/libfoo.a", true},
		{"/p/app.exe", true},
		{"/p/Main.class", true},
		{"/p/deps.d", false},
		{"/p/main.cpp", false},
		{"/p/README", false},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.skip, DefaultFilter(helper.MimeTypeForFile(tc.path), tc.path))
		})
	}
}

func TestDefaultClassifier(t *testing.T) {
	testCases := []struct {
		path string
		want project.FileType
	}{
		{"/p/a.h", project.FileTypeHeader},
		{"/p/a.hpp", project.FileTypeHeader},
		{"/p/a.cpp", project.FileTypeSource},
		{"/p/form.ui", project.FileTypeForm},
		{"/p/res.qrc", project.FileTypeResource},
		{"/p/machine.scxml", project.FileTypeStateChart},
		{"/p/Main.qml", project.FileTypeQML},
		{"/p/Main.ui.qml", project.FileTypeQML},
		{"/p/notes.md", project.FileTypeSource},
		{"/p/LICENSE", project.FileTypeUnknown},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, DefaultClassifier(helper.MimeTypeForFile(tc.path), tc.path))
		})
	}
}
