package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/moyu-x/smart-organizer/internal"
	"github.com/moyu-x/smart-organizer/pkg/classifier"
	"github.com/moyu-x/smart-organizer/pkg/logger"
	"github.com/moyu-x/smart-organizer/pkg/scanner"
)

// Organizer 第二次遍历的执行者：逐个文件分类、去重并移动
type Organizer struct {
	fs       afero.Fs
	root     string
	resolver *classifier.Resolver
	index    *DuplicateIndex
	opts     internal.OrganizeOptions
	stats    *internal.OrganizeStats
}

func New(fs afero.Fs, root string, index *DuplicateIndex, opts internal.OrganizeOptions) *Organizer {
	return &Organizer{
		fs:       fs,
		root:     root,
		resolver: classifier.NewResolver(fs),
		index:    index,
		opts:     opts,
		stats:    internal.NewOrganizeStats(),
	}
}

// Run 按与索引构建相同的字典序逐个处理文件
// 单个文件的失败只计入错误统计，不会中断整个批次
func (o *Organizer) Run() (*internal.OrganizeStats, error) {
	walker := scanner.NewFileWalker(o.fs)
	entries, err := walker.List(o.root)
	if err != nil {
		return nil, fmt.Errorf("遍历目录失败: %w", err)
	}

	for _, entry := range entries {
		if err := o.processFile(entry.Path, entry.Info); err != nil {
			o.stats.AddError()
			logger.Get().Error().Err(err).Str("file", entry.Path).Msg("处理文件失败")
		}
	}

	return o.stats, nil
}

// processFile 处理单个文件：解析类别、建目录、去重、移动
func (o *Organizer) processFile(path string, info os.FileInfo) error {
	category := o.resolver.Resolve(path)

	if o.opts.ByDate {
		dateCategory, year := dateCategory(info.ModTime())
		category = filepath.Join(category, dateCategory)
		o.stats.AddYear(year)
	}

	destDir := filepath.Join(o.root, category)
	if err := o.fs.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("创建类别目录失败: %w", err)
	}

	// 非 keeper 的重复文件直接删除，不在目标目录留下任何条目
	if o.opts.RemoveDuplicates && o.index.IsRedundant(path) {
		if err := o.fs.Remove(path); err != nil {
			return fmt.Errorf("删除重复文件失败: %w", err)
		}
		o.stats.AddDuplicate(info.Size())
		logger.Get().Debug().
			Str("file", path).
			Int64("size", info.Size()).
			Msg("已删除重复文件")
		return nil
	}

	destPath, err := o.resolveCollision(filepath.Join(destDir, filepath.Base(path)))
	if err != nil {
		return fmt.Errorf("解析目标路径失败: %w", err)
	}

	if err := o.fs.Rename(path, destPath); err != nil {
		return fmt.Errorf("移动文件失败: %w", err)
	}

	o.stats.AddMoved()
	logger.Get().Debug().
		Str("file", filepath.Base(path)).
		Str("category", category).
		Msg("已整理")

	return nil
}

// dateCategory 根据修改时间生成 "年/月份全名" 子目录，如 2023/March
func dateCategory(t time.Time) (string, string) {
	year := strconv.Itoa(t.Year())
	return filepath.Join(year, t.Month().String()), year
}

// resolveCollision 目标路径被占用时在文件名主体和扩展名之间
// 插入时间戳，时间戳也冲突时改用 uuid，绝不覆盖已有文件
func (o *Organizer) resolveCollision(destPath string) (string, error) {
	exists, err := afero.Exists(o.fs, destPath)
	if err != nil {
		return "", err
	}
	if !exists {
		return destPath, nil
	}

	dir := filepath.Dir(destPath)
	ext := filepath.Ext(destPath)
	stem := strings.TrimSuffix(filepath.Base(destPath), ext)

	candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, time.Now().Unix(), ext))
	for {
		exists, err := afero.Exists(o.fs, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, uuid.New().String(), ext))
	}
}
