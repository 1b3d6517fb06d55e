package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/sjzsdu/projview/helper"
	"github.com/sjzsdu/projview/helper/renders"
	"github.com/sjzsdu/projview/lang"
	"github.com/sjzsdu/projview/project/scan"
	"github.com/sjzsdu/projview/project/tree"
	"github.com/sjzsdu/projview/share"
	"github.com/spf13/cobra"
)

var (
	scanStats      bool
	scanNoProgress bool
	scanShowTypes  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: lang.T("Scan a directory tree"),
	Long: `scan 命令并发扫描目录并列出找到的文件。

示例：
  projview scan                  # 扫描当前目录
  projview scan /path/to/dir     # 扫描指定目录
  projview scan --types          # 同时显示文件类型
  projview scan --stats          # 显示扫描统计`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVarP(&scanStats, "stats", "s", false, "显示统计信息")
	scanCmd.Flags().BoolVar(&scanNoProgress, "no-progress", false, "不显示进度条")
	scanCmd.Flags().BoolVarP(&scanShowTypes, "types", "t", false, "显示文件类型")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	dir, err := resolveDir(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var progress *helper.Progress
	var extra []scan.Option
	if !scanNoProgress && isatty.IsTerminal(os.Stderr.Fd()) {
		progress = helper.NewProgress(os.Stderr, lang.T("Scanning"), share.SCAN_PROGRESS_MAX)
		extra = append(extra, scan.WithProgress(progress.Update))
	}

	scanner := scan.New(scanOptions(cfg, dir, newVcsManager(cfg), extra...)...)
	defer scanner.Close()
	if !scanner.StartScan(ctx, dir) {
		return fmt.Errorf("scan of %s could not be started", dir)
	}
	scanner.Wait()
	if progress != nil {
		progress.Finish()
	}

	res := scanner.Release()
	out := cmd.OutOrStdout()
	for _, f := range res.AllFiles() {
		rel, err := filepath.Rel(dir, f.Path())
		if err != nil {
			rel = f.Path()
		}
		if scanShowTypes {
			fmt.Fprintf(out, "%-10s %s\n", f.FileType(), rel)
		} else {
			fmt.Fprintln(out, rel)
		}
	}

	stats := res.Stats()
	if stats.Canceled {
		fmt.Fprintln(os.Stderr, lang.T("Scan cancelled"))
	}
	if scanStats {
		renderer, err := renders.NewMarkdownRenderer(out, "", 0)
		if err != nil {
			return err
		}
		return renderer.Render(tree.Markdown(stats, tree.CollectFiles(res.AllFiles(), stats.Directories)))
	}
	return nil
}
