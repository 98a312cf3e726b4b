package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "smart-organizer",
	Short: "一个按类型整理文件并清理重复文件的工具",
	Long: `Smart Organizer 是一个命令行工具，用于整理杂乱的目录。

主要功能:
- 按扩展名和文件内容对文件进行分类
- 可选按修改时间的年份/月份建立子目录
- 基于内容哈希检测并删除重复文件
- 移动文件时自动处理目标路径冲突
- 将超大文件压缩归档以节省存储空间`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
