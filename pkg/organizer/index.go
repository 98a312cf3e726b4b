package organizer

import (
	"github.com/spf13/afero"

	"github.com/moyu-x/smart-organizer/pkg/hasher"
	"github.com/moyu-x/smart-organizer/pkg/logger"
	"github.com/moyu-x/smart-organizer/pkg/scanner"
)

// DuplicateIndex 重复文件索引，摘要 -> 按首次发现顺序排列的路径列表
// 索引在第一次遍历时一次性构建，第二次遍历只读，不存在跨次运行的持久化
type DuplicateIndex struct {
	groups  map[string][]string
	digests map[string]string
}

// BuildIndex 第一次全量遍历，构建重复文件索引
// 先按字典序列出所有文件，再由工作线程池并行计算哈希；
// 分组按扫描顺序组装，与线程调度无关，keeper 的选择因此可复现。
// 哈希计算失败的文件不进入索引，视为唯一文件
func BuildIndex(fs afero.Fs, root string, workers int) (*DuplicateIndex, error) {
	walker := scanner.NewFileWalker(fs)
	entries, err := walker.List(root)
	if err != nil {
		return nil, err
	}

	pool := hasher.NewHashPool(fs, workers)
	if err := pool.Start(); err != nil {
		return nil, err
	}

	go func() {
		for _, entry := range entries {
			pool.AddTask(hasher.HashTask{Path: entry.Path, Size: entry.Info.Size()})
		}
		pool.Close()
	}()

	digests := make(map[string]string, len(entries))
	for result := range pool.Results() {
		if result.Error != nil {
			logger.Get().Warn().Err(result.Error).Msgf("哈希计算失败，文件不参与重复检测: %s", result.Path)
			continue
		}
		digests[result.Path] = result.Digest
	}

	index := &DuplicateIndex{
		groups:  make(map[string][]string),
		digests: digests,
	}

	// 按扫描顺序组装分组，每组第一个路径即 keeper
	for _, entry := range entries {
		digest, ok := digests[entry.Path]
		if !ok {
			continue
		}
		index.groups[digest] = append(index.groups[digest], entry.Path)
	}

	return index, nil
}

// Digest 返回已索引文件的摘要
func (i *DuplicateIndex) Digest(path string) (string, bool) {
	digest, ok := i.digests[path]
	return digest, ok
}

// Group 返回摘要对应的重复文件分组（首次发现顺序）
func (i *DuplicateIndex) Group(digest string) []string {
	return i.groups[digest]
}

// IsRedundant 判断路径是否为分组中的非 keeper 成员
// keeper（扫描顺序中最先出现的文件）永远返回 false
func (i *DuplicateIndex) IsRedundant(path string) bool {
	digest, ok := i.digests[path]
	if !ok {
		return false
	}

	group := i.groups[digest]
	return len(group) > 1 && group[0] != path
}

// Len 返回已索引的文件总数
func (i *DuplicateIndex) Len() int {
	return len(i.digests)
}

// DuplicateGroups 返回包含多个文件的分组数量
func (i *DuplicateIndex) DuplicateGroups() int {
	count := 0
	for _, group := range i.groups {
		if len(group) > 1 {
			count++
		}
	}
	return count
}
