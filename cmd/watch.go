package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sjzsdu/projview/helper/logging"
	"github.com/sjzsdu/projview/lang"
	"github.com/sjzsdu/projview/metrics"
	"github.com/sjzsdu/projview/project/tree"
	"github.com/sjzsdu/projview/project/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchNoMetrics bool
	watchQuiet     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: lang.T("Watch a directory and rescan"),
	Long: `watch 命令监视目录，文件变化稳定后重新扫描并输出新的项目树。
同时在配置的地址上提供 Prometheus 指标。

示例：
  projview watch                 # 监视当前目录
  projview watch --quiet         # 只记录日志，不输出树
  projview watch --no-metrics    # 不启动指标服务`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoMetrics, "no-metrics", false, "不启动指标服务")
	watchCmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "不输出项目树")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir, err := resolveDir(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws, err := openWorkspace(cfg, dir, filtersFromConfig(cfg))
	if err != nil {
		return err
	}
	defer ws.Close()

	if !watchNoMetrics && cfg.MetricsAddr != "" {
		shutdown := serveMetrics(cfg.MetricsAddr)
		defer shutdown()
	}

	walk := walkOptions(cfg, dir)
	excludes := make(map[string]bool, len(walk.ExcludeDirs))
	for _, name := range walk.ExcludeDirs {
		excludes[name] = true
	}
	skip := func(path string, isDir bool) bool {
		if ws.vcs.IsVcsFileOrDirectory(path) {
			return true
		}
		if isDir && excludes[filepath.Base(path)] {
			return true
		}
		return walk.Ignore != nil && walk.Ignore.Match(path, isDir)
	}

	debounce := cfg.Watch.Debounce
	if debounce <= 0 {
		debounce = watch.DefaultDebounce
	}
	watcher, err := watch.New(dir,
		watch.WithDebounce(debounce),
		watch.WithSkip(skip),
		watch.WithEventHook(metrics.RecordWatchEvent),
		watch.WithLogger(logging.Named("watch")))
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	defer watcher.Close()

	out := cmd.OutOrStdout()
	rescan(ctx, ws, out)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-watcher.Changes():
			rescan(ctx, ws, out)
		}
	}
}

// rescan 重新解析项目并输出新的树
func rescan(ctx context.Context, ws *workspace, out io.Writer) {
	stats, err := ws.build.Reparse(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logging.L().Warn("rescan failed", zap.String("dir", ws.dir), zap.Error(err))
		}
		return
	}
	logging.L().Info("rescanned",
		zap.String("dir", ws.dir),
		zap.Int("files", stats.Files),
		zap.Duration("duration", stats.Duration))
	if watchQuiet {
		return
	}
	fmt.Fprintf(out, "[%s]\n", time.Now().Format("15:04:05"))
	fmt.Fprint(out, tree.Render(ws.model, tree.DefaultOptions(out)))
}

// serveMetrics 在后台提供 /metrics，返回的函数关闭服务
func serveMetrics(addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logging.L().Info("metrics server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L().Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}
