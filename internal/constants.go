package internal

const (
	// 默认哈希算法
	DefaultAlgorithm = "sha256"

	// 哈希读取块大小，内存占用与文件大小无关
	DefaultChunkSize = 64 * 1024

	// 最小块大小，需容纳文件类型识别所需的文件头
	MinChunkSize = 4 * 1024

	// 每处理多少个文件输出一次进度日志
	ProgressLogInterval = 50

	// 报告中摘要显示的长度
	ShortDigestLength = 16

	// 缓冲区大小
	DefaultBufferSize = 1000
)
