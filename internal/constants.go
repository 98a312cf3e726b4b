package internal

const (
	// 哈希计算的读取分块大小（64KB，限制内存占用）
	HashBufferSize = 64 * 1024

	// 哈希任务队列的缓冲区大小
	DefaultBufferSize = 1000

	// 默认哈希计算工作线程数
	DefaultWorkers = 4

	// 大文件压缩阈值（10MB）
	DefaultSizeThreshold = 10_000_000

	// 内容嗅探读取的文件头部大小（字节）
	SniffHeaderSize = 512

	// 压缩归档存放目录名
	CompressedDirName = "Compressed"
)
