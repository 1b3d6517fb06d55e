package cmd

import (
	"fmt"
	"os"

	"github.com/sjzsdu/projview/config"
	"github.com/sjzsdu/projview/helper/logging"
	"github.com/sjzsdu/projview/lang"
	"github.com/sjzsdu/projview/share"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debugMode  bool
	langFlag   string

	// 当前命令使用的配置，在 PersistentPreRunE 中加载
	cfg = config.Default()
)

var RootCmd = rootCmd

var rootCmd = &cobra.Command{
	Use:   share.BUILDNAME,
	Short: lang.T("Project view command line tool"),
	Long:  lang.T("Scan directories concurrently and show them as a project tree"),
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			return
		}
		fmt.Fprintln(os.Stderr, lang.T("Invalid arguments")+": ", args)
		os.Exit(1)
	},
}

func Execute() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", lang.T("Configuration file path"))
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "v", false, lang.T("Debug mode"))
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", lang.T("Interface language"))
}

// setup 加载配置，然后按配置设置语言和日志
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if langFlag != "" {
		loaded.Lang = langFlag
	}
	if loaded.Lang != "" {
		lang.SetLanguage(loaded.Lang)
	}
	if debugMode {
		loaded.Log.Level = "debug"
	}

	if err := logging.Init(logging.Config{
		Level:      loaded.Log.Level,
		Format:     loaded.Log.Format,
		OutputPath: loaded.Log.Output,
	}); err != nil {
		return fmt.Errorf("failed to init logging: %w", err)
	}
	cfg = loaded
	return nil
}
