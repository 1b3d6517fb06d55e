package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sjzsdu/projview/config"
	"github.com/sjzsdu/projview/share"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags 恢复所有标志的默认值，命令在测试之间复用
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func executeCommand(t *testing.T, args ...string) string {
	t.Helper()
	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func setupProject(t *testing.T) (dir, configFile string) {
	t.Helper()
	base := t.TempDir()
	t.Setenv("PROJVIEW_STATE_DIR", filepath.Join(base, "state"))
	t.Setenv("PROJVIEW_METRICS_ADDR", "")

	dir = filepath.Join(base, "proj")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cpp"), []byte("int main() {}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "b.h"), []byte("#pragma once"), 0644))
	return dir, filepath.Join(base, "config.yaml")
}

func TestScanCommand(t *testing.T) {
	dir, configFile := setupProject(t)

	out := executeCommand(t, "scan", "--config", configFile, "--lang", "en", "--no-progress", dir)
	assert.Contains(t, out, "a.cpp\n")
	assert.Contains(t, out, filepath.Join("src", "b.h")+"\n")

	out = executeCommand(t, "scan", "--config", configFile, "--lang", "en", "--no-progress", "--types", dir)
	assert.Contains(t, out, "source")
	assert.Contains(t, out, "header")
}

func TestScanCommandRejectsFile(t *testing.T) {
	dir, configFile := setupProject(t)
	resetFlags(rootCmd)
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"scan", "--config", configFile, filepath.Join(dir, "a.cpp")})
	assert.Error(t, rootCmd.Execute())
}

func TestTreeCommand(t *testing.T) {
	dir, configFile := setupProject(t)

	out := executeCommand(t, "tree", "--config", configFile, "--lang", "en", dir)
	assert.Contains(t, out, "proj")
	assert.Contains(t, out, "a.cpp")
	assert.Contains(t, out, "src/")
	assert.Contains(t, out, "b.h")

	out = executeCommand(t, "tree", "--config", configFile, "--no-files", dir)
	assert.Contains(t, out, "src/")
	assert.NotContains(t, out, "a.cpp")
}

func TestTreeCommandRemembersExpandState(t *testing.T) {
	dir, configFile := setupProject(t)

	out := executeCommand(t, "tree", "--config", configFile, "--expand", "src", "--collapsed", dir)
	assert.Contains(t, out, "b.h")

	// 展开状态从设置存储中恢复
	out = executeCommand(t, "tree", "--config", configFile, "--collapsed", dir)
	assert.Contains(t, out, "b.h")

	out = executeCommand(t, "tree", "--config", configFile, "--collapse", "src", "--collapsed", dir)
	assert.Contains(t, out, "src/")
	assert.NotContains(t, out, "b.h")
}

func TestConfigCommand(t *testing.T) {
	_, configFile := setupProject(t)

	executeCommand(t, "config", "--config", configFile, "set", "filters.simplify", "true")
	saved, err := config.LoadFile(configFile)
	require.NoError(t, err)
	assert.True(t, saved.Filters.Simplify)

	out := executeCommand(t, "config", "--config", configFile, "get", "filters.simplify")
	assert.Equal(t, "true\n", out)

	out = executeCommand(t, "config", "--config", configFile)
	assert.Contains(t, out, "scan.concurrency=0\n")
}

func TestVersionCommand(t *testing.T) {
	_, configFile := setupProject(t)
	out := executeCommand(t, "version", "--config", configFile)
	assert.Contains(t, out, share.VERSION)
}
