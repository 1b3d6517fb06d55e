package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	defer SetLanguage("en")

	SetLanguage("en")
	assert.Equal(t, "Project is being parsed", T("Project is being parsed"))

	SetLanguage("zh_CN.UTF-8")
	assert.Equal(t, "项目正在解析", T("Project is being parsed"))
	assert.Equal(t, "no translation here", T("no translation here"))
}
