package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sjzsdu/projview/helper"
	"github.com/sjzsdu/projview/helper/logging"
	"github.com/sjzsdu/projview/helper/renders"
	"github.com/sjzsdu/projview/lang"
	"github.com/sjzsdu/projview/project/model"
	"github.com/sjzsdu/projview/project/tree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	treeDepth        int
	treeNoFiles      bool
	treeCollapsed    bool
	treeStats        bool
	treeExpand       []string
	treeCollapse     []string
	treeHideGen      bool
	treeHideDisabled bool
	treeSimplify     bool
	treeNoTrim       bool
	treeHideGroups   bool
)

var treeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: lang.T("Show the project tree"),
	Long: `tree 命令把目录作为项目扫描，并以树状结构显示展示模型。

支持的功能：
- 控制显示深度
- 只显示目录
- 按过滤器隐藏生成文件、禁用节点或空目录
- 记住展开状态，配合 --collapsed 只显示展开过的目录

示例：
  projview tree                         # 显示当前目录
  projview tree /path/to/dir            # 显示指定目录
  projview tree --depth 2               # 限制显示深度为2层
  projview tree --no-files              # 只显示目录
  projview tree --expand src --collapsed # 展开 src 并只显示展开过的目录
  projview tree --stats                 # 显示统计信息`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().IntVar(&treeDepth, "depth", -1, "限制显示深度 (-1 表示无限制)")
	treeCmd.Flags().BoolVar(&treeNoFiles, "no-files", false, "不显示文件，只显示目录")
	treeCmd.Flags().BoolVar(&treeCollapsed, "collapsed", false, "只展开记录为展开状态的目录")
	treeCmd.Flags().BoolVarP(&treeStats, "stats", "s", false, "显示统计信息")
	treeCmd.Flags().StringSliceVar(&treeExpand, "expand", nil, "把这些路径记录为展开状态")
	treeCmd.Flags().StringSliceVar(&treeCollapse, "collapse", nil, "把这些路径记录为折叠状态")
	treeCmd.Flags().BoolVar(&treeHideGen, "hide-generated", false, "隐藏生成的文件")
	treeCmd.Flags().BoolVar(&treeHideDisabled, "hide-disabled", false, "隐藏禁用的节点")
	treeCmd.Flags().BoolVar(&treeSimplify, "simplify", false, "简化树，隐藏普通目录层级")
	treeCmd.Flags().BoolVar(&treeNoTrim, "no-trim", false, "保留没有文件的目录")
	treeCmd.Flags().BoolVar(&treeHideGroups, "hide-source-groups", false, "隐藏头文件和源文件分组")
	rootCmd.AddCommand(treeCmd)
}

// treeFilters 配置中的过滤器加上命令行开关
func treeFilters(cmd *cobra.Command) model.Filters {
	f := filtersFromConfig(cfg)
	if cmd.Flags().Changed("hide-generated") {
		f.HideGenerated = treeHideGen
	}
	if cmd.Flags().Changed("hide-disabled") {
		f.HideDisabled = treeHideDisabled
	}
	if cmd.Flags().Changed("simplify") {
		f.Simplify = treeSimplify
	}
	if cmd.Flags().Changed("hide-source-groups") {
		f.HideSourceGroups = treeHideGroups
	}
	if treeNoTrim {
		f.TrimEmpty = false
	}
	return f
}

func runTree(cmd *cobra.Command, args []string) error {
	dir, err := resolveDir(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ws, err := openWorkspace(cfg, dir, treeFilters(cmd))
	if err != nil {
		return err
	}
	defer ws.Close()

	store, err := stateStore(cfg)
	if err != nil {
		logging.L().Warn("state store unavailable", zap.Error(err))
	} else if err := ws.loadExpandState(store); err != nil {
		logging.L().Warn("expand state not restored", zap.Error(err))
	}

	reparseStats, err := ws.build.Reparse(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", lang.T("Scan cancelled"), err)
	}

	if treeCollapsed {
		if pw := ws.model.ProjectWrapper(ws.project); pw != nil {
			ws.model.SetExpanded(pw, true)
		}
	}
	applyExpandFlags(ws, treeExpand, true)
	applyExpandFlags(ws, treeCollapse, false)
	if store != nil && (len(treeExpand) > 0 || len(treeCollapse) > 0) {
		if err := ws.saveExpandState(store); err != nil {
			logging.L().Warn("expand state not saved", zap.Error(err))
		}
	}

	opts := tree.DefaultOptions(cmd.OutOrStdout())
	opts.ShowFiles = !treeNoFiles
	opts.OnlyExpanded = treeCollapsed
	if treeDepth > 0 {
		opts.MaxDepth = treeDepth
	}
	fmt.Fprint(cmd.OutOrStdout(), tree.Render(ws.model, opts))

	if treeStats {
		stats := tree.Collect(ws.model)
		renderer, err := renders.NewMarkdownRenderer(cmd.OutOrStdout(), "", 0)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", stats.String())
			return nil
		}
		return renderer.Render(tree.Markdown(reparseStats, stats))
	}
	return nil
}

// applyExpandFlags 路径可以相对于项目目录
func applyExpandFlags(ws *workspace, paths []string, expanded bool) {
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.dir, p)
		}
		wrappers := ws.model.WrappersForPath(helper.CleanPath(p))
		if len(wrappers) == 0 {
			logging.L().Info("no node for path", zap.String("path", p))
		}
		for _, w := range wrappers {
			ws.model.SetExpanded(w, expanded)
		}
	}
}
