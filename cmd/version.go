package cmd

import (
	"fmt"
	"runtime"

	"github.com/sjzsdu/projview/lang"
	"github.com/sjzsdu/projview/share"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: lang.T("Print version information"),
	Long:  lang.T("Print detailed version information of projview"),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s %s/%s)\n",
			lang.T("projview version"), share.VERSION, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
