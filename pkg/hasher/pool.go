package hasher

import (
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/moyu-x/duplicate-finder/internal"
	"github.com/moyu-x/duplicate-finder/pkg/logger"
)

type HashResult struct {
	Record internal.HashedRecord
	Error  error
}

// HashPool 有界的哈希计算池
// 每个任务只写自己的结果槽位，结果顺序与输入顺序一致，与调度无关
type HashPool struct {
	workers int
	hasher  *Hasher
	pool    *ants.Pool
}

func NewHashPool(hasher *Hasher, workers int) (*HashPool, error) {
	if workers <= 0 {
		workers = 1
	}

	logger.Get().Info().Msgf("创建哈希计算池，工作线程数: %d", workers)

	pool, err := ants.NewPool(workers)
	if err != nil {
		logger.Get().Error().Err(err).Msg("创建 goroutine 池失败")
		return nil, err
	}

	return &HashPool{
		workers: workers,
		hasher:  hasher,
		pool:    pool,
	}, nil
}

func (p *HashPool) Workers() int {
	return p.workers
}

// HashAll 并发计算所有文件的摘要
// onProgress 在单个收集协程中依次调用，Processed 单调递增
func (p *HashPool) HashAll(records []internal.FileRecord, onProgress func(internal.ProgressUpdate)) []HashResult {
	results := make([]HashResult, len(records))
	total := len(records)

	done := make(chan int, internal.DefaultBufferSize)
	collected := make(chan struct{})

	go func() {
		defer close(collected)
		processed := 0
		for i := range done {
			processed++
			if onProgress != nil {
				onProgress(internal.ProgressUpdate{
					Processed:   processed,
					Total:       total,
					CurrentFile: records[i].Path,
					Failed:      results[i].Error != nil,
				})
			}
		}
	}()

	var wg sync.WaitGroup
	for i := range records {
		task := func() {
			defer wg.Done()
			results[i] = p.hashOne(records[i])
			done <- i
		}

		wg.Add(1)
		if err := p.pool.Submit(task); err != nil {
			logger.Get().Warn().Err(err).Msg("提交哈希任务失败，改为同步计算")
			task()
		}
	}

	wg.Wait()
	close(done)
	<-collected

	return results
}

func (p *HashPool) hashOne(record internal.FileRecord) HashResult {
	digest, kind, err := p.hasher.Hash(record.Path)
	if err != nil {
		return HashResult{
			Record: internal.HashedRecord{FileRecord: record},
			Error:  err,
		}
	}
	return HashResult{
		Record: internal.HashedRecord{
			FileRecord: record,
			Digest:     digest,
			Kind:       kind,
		},
	}
}

func (p *HashPool) Close() {
	logger.Get().Info().Msg("关闭哈希计算池")

	if p.pool != nil {
		p.pool.Release()
	}
}
