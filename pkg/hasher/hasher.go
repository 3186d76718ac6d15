package hasher

import (
	"crypto/md5"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/h2non/filetype"
	"github.com/spf13/afero"

	"github.com/moyu-x/duplicate-finder/internal"
	"github.com/moyu-x/duplicate-finder/pkg/logger"
)

var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// Algorithm 内容摘要算法
//
// xxhash: 64 位非加密哈希，最快，但在大量文件中碰撞概率不可忽略
// md5:    128 位，速度中等，可被人为构造碰撞
// sha256: 256 位，最慢，碰撞在实践中不可能
type Algorithm string

const (
	XXHash Algorithm = "xxhash"
	MD5    Algorithm = "md5"
	SHA256 Algorithm = "sha256"
)

// 文件类型识别需要的文件头长度
const headerSize = 262

func Algorithms() []Algorithm {
	return []Algorithm{XXHash, MD5, SHA256}
}

// ParseAlgorithm 解析算法名称，不提供默认值
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case XXHash, "xxh64":
		return XXHash, nil
	case MD5:
		return MD5, nil
	case SHA256, "sha-256":
		return SHA256, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

func (a Algorithm) New() hash.Hash {
	switch a {
	case XXHash:
		return xxhash.New()
	case MD5:
		return md5.New()
	default:
		return sha256.New()
	}
}

// Size 摘要字节数
func (a Algorithm) Size() int {
	return a.New().Size()
}

// Cryptographic 是否为抗碰撞的加密哈希
func (a Algorithm) Cryptographic() bool {
	return a == SHA256
}

func (a Algorithm) String() string {
	return string(a)
}

// Hasher 以固定大小的块读取文件并计算摘要
type Hasher struct {
	fs        afero.Fs
	algorithm Algorithm
	chunkSize int
}

func New(fs afero.Fs, algorithm Algorithm, chunkSize int) *Hasher {
	if chunkSize < internal.MinChunkSize {
		chunkSize = internal.MinChunkSize
	}
	return &Hasher{
		fs:        fs,
		algorithm: algorithm,
		chunkSize: chunkSize,
	}
}

func (h *Hasher) Algorithm() Algorithm {
	return h.algorithm
}

// Hash 计算单个文件的摘要，同时从第一块数据识别文件类型
func (h *Hasher) Hash(path string) (internal.Digest, string, error) {
	logger.Get().Trace().Msgf("计算文件哈希: %s", path)

	file, err := h.fs.Open(path)
	if err != nil {
		return internal.Digest{}, "", fmt.Errorf("打开文件失败: %w", err)
	}
	defer file.Close()

	sum := h.algorithm.New()
	buffer := make([]byte, h.chunkSize)
	header := make([]byte, 0, headerSize)

	for {
		n, err := file.Read(buffer)
		if n > 0 {
			sum.Write(buffer[:n])
			if len(header) < headerSize {
				header = append(header, buffer[:min(n, headerSize-len(header))]...)
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return internal.Digest{}, "", fmt.Errorf("读取文件失败: %w", err)
		}
	}

	digest := internal.Digest{
		Algorithm: string(h.algorithm),
		Sum:       sum.Sum(nil),
	}

	logger.Get().Trace().Msgf("文件哈希计算完成: %s -> %s", path, digest.Hex())
	return digest, detectKind(header), nil
}

func detectKind(header []byte) string {
	if len(header) == 0 {
		return ""
	}
	kind, err := filetype.Match(header)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}
