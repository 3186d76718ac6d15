package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "duplicate-finder",
	Short: "按内容查找并交互式清理重复文件",
	Long: `Duplicate Finder 是一个命令行工具，用于按内容查找目录中的重复文件。

主要功能:
- 遍历目录（可选递归），按文件大小预先分组
- 仅对大小相同的文件分块计算哈希（xxhash / md5 / sha256）
- 按哈希分组输出重复集合和浪费的空间
- 交互式选择每组保留的文件，确认后删除其余副本`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径 (默认查找 $HOME/.duplicate-finder/config.yaml)")
}
