package scanner

import (
	"github.com/moyu-x/duplicate-finder/internal"
	"github.com/moyu-x/duplicate-finder/pkg/logger"
)

// Buckets 按字节大小分组的文件，只保留成员数不少于 2 的组
// 组的顺序和组内顺序都与输入顺序一致
type Buckets struct {
	sizes      []int64
	members    map[int64][]internal.FileRecord
	singletons int
	files      int
}

// BucketBySize 完整消费 src，按大小分组
// 扫描阶段的跳过记录原样返回，供最终报告使用
func BucketBySize(src Source) (*Buckets, []internal.Failure) {
	var order []int64
	all := make(map[int64][]internal.FileRecord)
	var skipped []internal.Failure

	for {
		entry, ok := src.Next()
		if !ok {
			break
		}
		if entry.Skip != nil {
			skipped = append(skipped, *entry.Skip)
			continue
		}

		size := entry.Record.Size
		if _, seen := all[size]; !seen {
			order = append(order, size)
		}
		all[size] = append(all[size], entry.Record)
	}

	b := &Buckets{members: make(map[int64][]internal.FileRecord)}
	for _, size := range order {
		records := all[size]
		b.files += len(records)
		if len(records) < 2 {
			b.singletons++
			continue
		}
		b.sizes = append(b.sizes, size)
		b.members[size] = records
	}

	logger.Get().Debug().Msgf("按大小分组完成: %d 个文件, %d 个候选组, %d 个唯一大小",
		b.files, len(b.sizes), b.singletons)

	return b, skipped
}

// Sizes 返回候选组的大小，按首次出现顺序
func (b *Buckets) Sizes() []int64 {
	return b.sizes
}

func (b *Buckets) Members(size int64) []internal.FileRecord {
	return b.members[size]
}

// Len 候选组数量
func (b *Buckets) Len() int {
	return len(b.sizes)
}

// Candidates 需要计算哈希的文件总数
func (b *Buckets) Candidates() int {
	n := 0
	for _, size := range b.sizes {
		n += len(b.members[size])
	}
	return n
}

// Singletons 大小唯一、不可能重复的文件数量
func (b *Buckets) Singletons() int {
	return b.singletons
}

// Files 参与分组的文件总数
func (b *Buckets) Files() int {
	return b.files
}

// Records 按组顺序展开所有候选文件
func (b *Buckets) Records() []internal.FileRecord {
	records := make([]internal.FileRecord, 0, b.Candidates())
	for _, size := range b.sizes {
		records = append(records, b.members[size]...)
	}
	return records
}
