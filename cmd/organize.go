package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moyu-x/smart-organizer/app"
	"github.com/moyu-x/smart-organizer/config"
	"github.com/moyu-x/smart-organizer/internal"
	"github.com/moyu-x/smart-organizer/pkg/logger"
)

var organizeCmd = &cobra.Command{
	Use:   "organize <directory>",
	Short: "按文件类型整理目录",
	Long: `遍历指定目录中的所有文件，按扩展名和内容分类并移动到对应的类别目录。
重复文件（内容完全相同）按首次发现顺序保留一份，其余删除。
可选择按年份/月份建立子目录，以及将超过阈值的大文件压缩归档以节省空间。
文件名冲突时自动重命名（插入时间戳），绝不覆盖已有文件。`,
	Args: cobra.ExactArgs(1),
	RunE: runOrganize,
}

func runOrganize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 命令行参数覆盖配置文件中的默认值
	byDate := cfg.Organize.ByDate
	if cmd.Flags().Changed("by-date") {
		byDate, _ = cmd.Flags().GetBool("by-date")
	}

	removeDuplicates := cfg.Organize.RemoveDuplicates
	if cmd.Flags().Changed("remove-duplicates") {
		removeDuplicates, _ = cmd.Flags().GetBool("remove-duplicates")
	}

	optimizeSpace := cfg.Organize.OptimizeSpace
	if cmd.Flags().Changed("optimize") {
		optimizeSpace, _ = cmd.Flags().GetBool("optimize")
	}

	verbose, _ := cmd.Flags().GetBool("verbose")

	opts := &app.OrganizeOptions{
		Root:             args[0],
		ByDate:           byDate,
		RemoveDuplicates: removeDuplicates,
		OptimizeSpace:    optimizeSpace,
		Threshold:        cfg.Optimizer.ThresholdBytes,
		Workers:          cfg.Performance.Workers,
		Verbose:          verbose,
		LogLevel:         cfg.Logging.Level,
		LogFile:          cfg.Logging.File,
	}

	stats, optStats, err := app.RunOrganize(opts)
	if err != nil {
		return err
	}

	printFinalStats(stats, optStats)

	return nil
}

func init() {
	organizeCmd.Flags().BoolP("by-date", "d", false, "按年份/月份建立子目录")
	organizeCmd.Flags().BoolP("remove-duplicates", "r", true, "删除内容相同的重复文件")
	organizeCmd.Flags().BoolP("optimize", "o", false, "压缩归档大文件以节省空间")
	organizeCmd.Flags().BoolP("verbose", "v", false, "显示详细日志")

	rootCmd.AddCommand(organizeCmd)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func printFinalStats(stats *internal.OrganizeStats, optStats *internal.OptimizeStats) {
	logger.Get().Info().Msg("========== 整理完成 ==========")
	logger.Get().Info().Msgf("已移动文件: %d 个", stats.Moved)
	logger.Get().Info().Msgf("已删除重复: %d 个", stats.Duplicates)
	logger.Get().Info().Msgf("释放空间: %s", formatBytes(stats.SpaceSaved))
	if optStats != nil {
		logger.Get().Info().Msgf("已压缩大文件: %d 个", optStats.Compressed)
	}
	if years := stats.Years(); len(years) > 0 {
		logger.Get().Info().Msgf("涉及年份: %s", strings.Join(years, ", "))
	}
	logger.Get().Info().Msgf("处理失败: %d 个", stats.Errors)
	logger.Get().Info().Msg("============================")
}
