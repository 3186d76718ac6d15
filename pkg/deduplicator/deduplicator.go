package deduplicator

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/moyu-x/duplicate-finder/internal"
	"github.com/moyu-x/duplicate-finder/pkg/hasher"
	"github.com/moyu-x/duplicate-finder/pkg/logger"
	"github.com/moyu-x/duplicate-finder/pkg/scanner"
)

type Options struct {
	Scanner    scanner.Options
	Algorithm  hasher.Algorithm
	ChunkSize  int
	Workers    int
	OnProgress func(internal.ProgressUpdate)
}

// Deduplicator 检测流程: 遍历 -> 按大小分组 -> 计算哈希 -> 按摘要分组
type Deduplicator struct {
	fs   afero.Fs
	opts Options
}

func NewDeduplicator(fs afero.Fs, opts Options) *Deduplicator {
	logger.Get().Info().Msgf("创建重复文件检测器，算法: %s", opts.Algorithm)
	return &Deduplicator{
		fs:   fs,
		opts: opts,
	}
}

// Find 扫描 root 并返回重复文件报告
// 单个文件的错误只记录在报告中，只有根目录无效或配置错误时返回 error
func (d *Deduplicator) Find(root string) (*internal.Report, error) {
	algorithm, err := hasher.ParseAlgorithm(string(d.opts.Algorithm))
	if err != nil {
		return nil, err
	}

	lister, err := scanner.NewLister(d.fs, root, d.opts.Scanner)
	if err != nil {
		return nil, err
	}

	report := &internal.Report{
		Root:      lister.Root(),
		Algorithm: string(algorithm),
	}
	report.Stats.StartTime = time.Now()

	logger.Get().Info().Msgf("扫描目录: %s", lister.Root())
	logger.Get().Info().Msgf("递归: %v, 最小大小: %d, 哈希: %s",
		d.opts.Scanner.Recursive, d.opts.Scanner.MinSize, algorithm)

	buckets, skipped := scanner.BucketBySize(lister)
	report.Failures = append(report.Failures, skipped...)

	listerStats := lister.Stats()
	report.Stats.Listed = listerStats.Listed
	report.Stats.Skipped = listerStats.Skipped
	report.Stats.BelowMin = listerStats.BelowMin
	report.Stats.Hidden = listerStats.Hidden
	report.Stats.Singletons = buckets.Singletons()
	report.Stats.Candidates = buckets.Candidates()

	logger.Get().Info().Msgf("找到 %d 个待分析文件", listerStats.Listed)

	if buckets.Len() == 0 {
		logger.Get().Info().Msg("没有可能重复的文件（所有文件大小都不同）")
		report.Stats.EndTime = time.Now()
		return report, nil
	}

	logger.Get().Info().Msgf("计算 %d 个可能重复文件的哈希...", buckets.Candidates())

	hashed, failures, err := d.hashCandidates(algorithm, buckets.Records())
	if err != nil {
		return nil, err
	}
	report.Failures = append(report.Failures, failures...)
	report.Stats.Hashed = len(hashed)
	report.Stats.HashFailed = len(failures)

	report.Sets = BuildSets(hashed)
	report.Summary = Summarize(report.Sets)
	report.Stats.EndTime = time.Now()

	logger.Get().Info().Msgf("检测完成，共 %d 组重复文件（%d 个文件），浪费空间 %d 字节，耗时 %v",
		report.Summary.Sets, report.Summary.DuplicateFiles, report.Summary.WastedBytes,
		report.Stats.EndTime.Sub(report.Stats.StartTime))

	return report, nil
}

func (d *Deduplicator) hashCandidates(algorithm hasher.Algorithm, records []internal.FileRecord) ([]internal.HashedRecord, []internal.Failure, error) {
	pool, err := hasher.NewHashPool(hasher.New(d.fs, algorithm, d.opts.ChunkSize), d.opts.Workers)
	if err != nil {
		return nil, nil, fmt.Errorf("创建哈希计算池失败: %w", err)
	}
	defer pool.Close()

	results := pool.HashAll(records, d.progress)

	hashed := make([]internal.HashedRecord, 0, len(results))
	var failures []internal.Failure
	for _, result := range results {
		if result.Error != nil {
			logger.Get().Warn().Err(result.Error).Msgf("计算哈希失败，已排除: %s", result.Record.Path)
			failures = append(failures, internal.Failure{
				Path:   result.Record.Path,
				Stage:  internal.StageHash,
				Reason: result.Error.Error(),
			})
			continue
		}
		hashed = append(hashed, result.Record)
	}

	return hashed, failures, nil
}

// progress 有进度回调时进度日志降为 debug
func (d *Deduplicator) progress(update internal.ProgressUpdate) {
	if update.Processed%internal.ProgressLogInterval == 0 || update.Processed == update.Total {
		level := zerolog.InfoLevel
		if d.opts.OnProgress != nil {
			level = zerolog.DebugLevel
		}
		logger.Get().WithLevel(level).Msgf("哈希进度: %d/%d", update.Processed, update.Total)
	}
	if d.opts.OnProgress != nil {
		d.opts.OnProgress(update)
	}
}
