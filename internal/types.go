package internal

import "sort"

// 整理选项
type OrganizeOptions struct {
	ByDate           bool // 按年份/月份建立子目录
	RemoveDuplicates bool // 删除内容相同的重复文件
	OptimizeSpace    bool // 压缩归档大文件
}

// 整理统计
type OrganizeStats struct {
	Moved          int                 // 已移动的文件数
	Duplicates     int                 // 已删除的重复文件数
	SpaceSaved     int64               // 释放的空间（字节）
	Errors         int                 // 处理失败的文件数
	YearsProcessed map[string]struct{} // 按日期整理时涉及的年份
}

func NewOrganizeStats() *OrganizeStats {
	return &OrganizeStats{
		YearsProcessed: make(map[string]struct{}),
	}
}

func (s *OrganizeStats) AddMoved() {
	s.Moved++
}

func (s *OrganizeStats) AddDuplicate(size int64) {
	s.Duplicates++
	s.SpaceSaved += size
}

func (s *OrganizeStats) AddError() {
	s.Errors++
}

func (s *OrganizeStats) AddYear(year string) {
	s.YearsProcessed[year] = struct{}{}
}

// Years 返回排序后的年份列表
func (s *OrganizeStats) Years() []string {
	years := make([]string, 0, len(s.YearsProcessed))
	for year := range s.YearsProcessed {
		years = append(years, year)
	}
	sort.Strings(years)
	return years
}

// MergeOptimize 将空间优化的统计合并到总统计中
func (s *OrganizeStats) MergeOptimize(o *OptimizeStats) {
	s.SpaceSaved += o.SpaceSaved
	s.Errors += o.Errors
}

// 空间优化统计
type OptimizeStats struct {
	Compressed int   // 已压缩归档的文件数
	SpaceSaved int64 // 释放的空间（字节）
	Errors     int   // 处理失败的文件数
}
