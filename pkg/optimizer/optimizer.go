package optimizer

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/spf13/afero"

	"github.com/moyu-x/smart-organizer/internal"
	"github.com/moyu-x/smart-organizer/pkg/logger"
	"github.com/moyu-x/smart-organizer/pkg/scanner"
)

// Optimizer 空间优化器：在整理完成后的目录树上运行，
// 将超过阈值的大文件压缩为单文件 zip 归档
type Optimizer struct {
	fs        afero.Fs
	root      string
	threshold int64
}

func New(fs afero.Fs, root string, threshold int64) *Optimizer {
	if threshold <= 0 {
		threshold = internal.DefaultSizeThreshold
	}
	return &Optimizer{
		fs:        fs,
		root:      root,
		threshold: threshold,
	}
}

// Run 扫描目录树中超过阈值的大文件并逐个压缩归档
// 只有归档严格小于原文件时才删除原文件，否则删除归档保留原文件，
// 优化永远不会增加总占用。单个文件的失败只记录日志并计数
func (o *Optimizer) Run() (*internal.OptimizeStats, error) {
	stats := &internal.OptimizeStats{}
	compressedDir := filepath.Join(o.root, internal.CompressedDirName)

	walker := scanner.NewFileWalker(o.fs)
	entries, err := walker.List(o.root)
	if err != nil {
		return nil, fmt.Errorf("遍历目录失败: %w", err)
	}

	for _, entry := range entries {
		if entry.Info.Size() <= o.threshold {
			continue
		}

		// 归档目录自身不再参与压缩
		if strings.HasPrefix(entry.Path, compressedDir+string(filepath.Separator)) {
			continue
		}

		if o.alreadyCompressed(entry.Path) {
			logger.Get().Debug().Str("file", entry.Path).Msg("已是压缩格式，跳过")
			continue
		}

		if err := o.compressFile(entry.Path, entry.Info, compressedDir, stats); err != nil {
			stats.Errors++
			logger.Get().Error().Err(err).Str("file", entry.Path).Msg("压缩文件失败")
		}
	}

	return stats, nil
}

// alreadyCompressed 通过文件头判断是否已是压缩容器格式
// 再压缩这类文件不可能变小，提前跳过
func (o *Optimizer) alreadyCompressed(path string) bool {
	file, err := o.fs.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	head := make([]byte, 261)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return false
	}

	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		return false
	}

	switch kind.Extension {
	case "zip", "gz", "bz2", "7z", "xz", "rar", "lz", "Z", "zst":
		return true
	}
	return false
}

// compressFile 将单个大文件归档，归档变小则删除原文件并计入统计
func (o *Optimizer) compressFile(path string, info os.FileInfo, compressedDir string, stats *internal.OptimizeStats) error {
	if err := o.fs.MkdirAll(compressedDir, 0755); err != nil {
		return fmt.Errorf("创建归档目录失败: %w", err)
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	archivePath := filepath.Join(compressedDir, stem+".zip")

	// 不同来源的同名文件会映射到同一个归档名，跳过以免覆盖
	exists, err := afero.Exists(o.fs, archivePath)
	if err != nil {
		return err
	}
	if exists {
		logger.Get().Warn().Str("archive", archivePath).Msg("归档已存在，跳过压缩")
		return nil
	}

	if err := o.writeArchive(path, archivePath); err != nil {
		// 清理残留的不完整归档
		o.fs.Remove(archivePath)
		return fmt.Errorf("写入归档失败: %w", err)
	}

	archiveInfo, err := o.fs.Stat(archivePath)
	if err != nil {
		return err
	}

	if archiveInfo.Size() >= info.Size() {
		// 压缩无收益，保留原文件并删除归档
		if err := o.fs.Remove(archivePath); err != nil {
			return fmt.Errorf("删除无收益归档失败: %w", err)
		}
		logger.Get().Debug().
			Str("file", path).
			Int64("original", info.Size()).
			Int64("archived", archiveInfo.Size()).
			Msg("压缩无收益，保留原文件")
		return nil
	}

	if err := o.fs.Remove(path); err != nil {
		return fmt.Errorf("删除原文件失败: %w", err)
	}

	stats.Compressed++
	stats.SpaceSaved += info.Size() - archiveInfo.Size()
	logger.Get().Debug().
		Str("file", filepath.Base(path)).
		Int64("saved", info.Size()-archiveInfo.Size()).
		Msg("已压缩")

	return nil
}

// writeArchive 将单个文件写入 zip 容器
func (o *Optimizer) writeArchive(srcPath, archivePath string) error {
	src, err := o.fs.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := o.fs.Create(archivePath)
	if err != nil {
		return err
	}

	w := zip.NewWriter(dst)

	entry, err := w.Create(filepath.Base(srcPath))
	if err != nil {
		w.Close()
		dst.Close()
		return err
	}

	if _, err := io.Copy(entry, src); err != nil {
		w.Close()
		dst.Close()
		return err
	}

	if err := w.Close(); err != nil {
		dst.Close()
		return err
	}

	return dst.Close()
}
