package hasher

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"

	"github.com/moyu-x/smart-organizer/internal"
	"github.com/moyu-x/smart-organizer/pkg/logger"
)

// Unavailable 文件无法读取时的摘要占位值
// 摘要不可用的文件不参与重复检测，视为唯一文件
const Unavailable = ""

// Calculate 以 64KB 分块流式计算文件的 xxHash 摘要
// 返回定长十六进制字符串；文件无法打开或读取时返回 Unavailable 和错误
func Calculate(fs afero.Fs, filePath string) (string, error) {
	logger.Get().Debug().Msgf("计算文件哈希: %s", filePath)

	file, err := fs.Open(filePath)
	if err != nil {
		logger.Get().Error().Err(err).Msgf("无法打开文件: %s", filePath)
		return Unavailable, err
	}
	defer file.Close()

	hash := xxhash.New()
	buf := make([]byte, internal.HashBufferSize)
	if _, err := io.CopyBuffer(hash, file, buf); err != nil {
		logger.Get().Error().Err(err).Msgf("计算哈希失败: %s", filePath)
		return Unavailable, err
	}

	result := fmt.Sprintf("%016x", hash.Sum64())
	logger.Get().Trace().Msgf("文件哈希计算完成: %s -> %s", filePath, result)
	return result, nil
}
