package app

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/smart-organizer/internal"
	"github.com/moyu-x/smart-organizer/pkg/logger"
	"github.com/moyu-x/smart-organizer/pkg/optimizer"
	"github.com/moyu-x/smart-organizer/pkg/organizer"
)

type OrganizeOptions struct {
	Root             string
	ByDate           bool
	RemoveDuplicates bool
	OptimizeSpace    bool
	Threshold        int64
	Workers          int
	Verbose          bool
	LogLevel         string
	LogFile          string
}

// RunOrganize 整理流程的编排入口:
// 预检根目录 -> 构建重复文件索引 -> 分类移动 -> 可选的空间优化。
// 只有预检失败是致命错误，批次内的单文件失败全部计入统计
func RunOrganize(opts *OrganizeOptions) (*internal.OrganizeStats, *internal.OptimizeStats, error) {
	logLevel := opts.LogLevel
	if opts.Verbose {
		logLevel = "debug"
	}

	if err := logger.Init(logLevel, opts.LogFile); err != nil {
		return nil, nil, err
	}

	fs := afero.NewOsFs()

	// 预检：根目录必须存在，否则不做任何遍历
	exists, err := afero.DirExists(fs, opts.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("检查根目录失败: %w", err)
	}
	if !exists {
		return nil, nil, fmt.Errorf("根目录不存在: %s", opts.Root)
	}

	logger.Get().Info().Msgf("开始整理目录: %s", opts.Root)
	startTime := time.Now()

	logger.Get().Info().Msg("第一遍扫描：构建重复文件索引...")
	index, err := organizer.BuildIndex(fs, opts.Root, opts.Workers)
	if err != nil {
		return nil, nil, fmt.Errorf("构建重复文件索引失败: %w", err)
	}
	logger.Get().Info().Msgf("索引构建完成，共 %d 个文件，%d 组重复", index.Len(), index.DuplicateGroups())

	logger.Get().Info().Msg("第二遍扫描：分类并移动文件...")
	org := organizer.New(fs, opts.Root, index, internal.OrganizeOptions{
		ByDate:           opts.ByDate,
		RemoveDuplicates: opts.RemoveDuplicates,
		OptimizeSpace:    opts.OptimizeSpace,
	})
	stats, err := org.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("整理文件失败: %w", err)
	}

	var optStats *internal.OptimizeStats
	if opts.OptimizeSpace {
		logger.Get().Info().Msg("优化存储空间...")
		opt := optimizer.New(fs, opts.Root, opts.Threshold)
		optStats, err = opt.Run()
		if err != nil {
			// 优化阶段失败不影响已完成的整理结果
			logger.Get().Error().Err(err).Msg("空间优化失败")
			optStats = nil
		} else {
			stats.MergeOptimize(optStats)
		}
	}

	duration := time.Since(startTime).Round(time.Millisecond)
	logger.Get().Info().
		Dur("duration", duration).
		Int("moved", stats.Moved).
		Int("duplicates", stats.Duplicates).
		Int("errors", stats.Errors).
		Msg("整理完成")

	return stats, optStats, nil
}
