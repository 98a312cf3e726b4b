package scanner

import (
	"os"

	"github.com/spf13/afero"

	"github.com/moyu-x/smart-organizer/pkg/logger"
)

// FileEntry 遍历发现的文件及其属性
type FileEntry struct {
	Path string
	Info os.FileInfo
}

type FileWalker struct {
	fs afero.Fs
}

func NewFileWalker(fs afero.Fs) *FileWalker {
	return &FileWalker{fs: fs}
}

// Walk 遍历 root 下的所有普通文件
// afero.Walk 对目录项按名称排序，保证遍历顺序稳定可复现；
// 符号链接指向的目录不会被深入，避免循环
func (w *FileWalker) Walk(root string, callback func(path string, info os.FileInfo) error) error {
	return afero.Walk(w.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.Get().Debug().Err(err).Str("path", path).Msg("访问路径出错")
			return nil
		}

		if info.IsDir() {
			return nil
		}

		if !info.Mode().IsRegular() {
			logger.Get().Debug().Str("path", path).Msg("跳过非普通文件")
			return nil
		}

		return callback(path, info)
	})
}

// List 返回 root 下所有普通文件的有序列表（字典序）
// 两次遍历使用同一份排序规则，重复文件的 keeper 选择因此可复现
func (w *FileWalker) List(root string) ([]FileEntry, error) {
	var entries []FileEntry

	err := w.Walk(root, func(path string, info os.FileInfo) error {
		entries = append(entries, FileEntry{Path: path, Info: info})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}
