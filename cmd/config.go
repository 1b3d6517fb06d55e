package cmd

import (
	"fmt"

	"github.com/sjzsdu/projview/config"
	"github.com/sjzsdu/projview/lang"
	"github.com/spf13/cobra"
)

var showDescriptions bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: lang.T("Show or change configuration"),
	Long: `config 命令显示或修改配置文件。

示例：
  projview config                          # 列出所有配置
  projview config -l                       # 同时显示说明
  projview config get scan.concurrency     # 读取一个配置
  projview config set filters.simplify true # 修改并写回配置文件`,
	Args: cobra.NoArgs,
	RunE: listConfig,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: lang.T("Print a configuration value"),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: lang.T("Change a configuration value"),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 写回时不带环境变量覆盖
		fileCfg, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}
		if err := fileCfg.Set(args[0], args[1]); err != nil {
			return err
		}
		return fileCfg.Save(configPath)
	},
}

func init() {
	configCmd.Flags().BoolVarP(&showDescriptions, "list", "l", false, lang.T("Show descriptions"))
	configCmd.AddCommand(configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func listConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, key := range config.AllKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			return err
		}
		if showDescriptions {
			fmt.Fprintf(out, "%s=%s\t# %s (%s)\n", key, value, config.GetConfigDescription(key), config.GetEnvKey(key))
		} else {
			fmt.Fprintf(out, "%s=%s\n", key, value)
		}
	}
	return nil
}
