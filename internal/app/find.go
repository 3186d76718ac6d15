package app

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/moyu-x/duplicate-finder/internal"
	"github.com/moyu-x/duplicate-finder/pkg/deduplicator"
	"github.com/moyu-x/duplicate-finder/pkg/deletion"
	"github.com/moyu-x/duplicate-finder/pkg/hasher"
	"github.com/moyu-x/duplicate-finder/pkg/logger"
	"github.com/moyu-x/duplicate-finder/pkg/scanner"
)

type FindOptions struct {
	Root           string
	Recursive      bool
	MinSize        int64
	Algorithm      string
	IncludeHidden  bool
	FollowSymlinks bool
	Workers        int
	ChunkSize      int
	Delete         bool
	Verbose        bool
	LogLevel       string
	LogFile        string
}

// SetupLogger 初始化日志并为本次运行生成标识
func SetupLogger(opts *FindOptions) (string, error) {
	logLevel := opts.LogLevel
	if opts.Verbose {
		logLevel = "debug"
	}

	if err := logger.Init(logLevel, opts.LogFile); err != nil {
		return "", err
	}

	runID := uuid.NewString()
	logger.WithRun(runID)
	return runID, nil
}

// RunFind 执行检测流程并返回报告
func RunFind(fs afero.Fs, opts *FindOptions, onProgress func(internal.ProgressUpdate)) (*internal.Report, error) {
	if opts.MinSize < 0 {
		return nil, fmt.Errorf("最小文件大小不能为负数: %d", opts.MinSize)
	}

	algorithm, err := hasher.ParseAlgorithm(opts.Algorithm)
	if err != nil {
		return nil, err
	}
	if !algorithm.Cryptographic() {
		logger.Get().Warn().Msgf("%s 不是加密哈希，极小概率把不同内容误判为重复", algorithm)
	}

	dedup := deduplicator.NewDeduplicator(fs, deduplicator.Options{
		Scanner: scanner.Options{
			Recursive:      opts.Recursive,
			IncludeHidden:  opts.IncludeHidden,
			FollowSymlinks: opts.FollowSymlinks,
			MinSize:        opts.MinSize,
		},
		Algorithm:  algorithm,
		ChunkSize:  opts.ChunkSize,
		Workers:    opts.Workers,
		OnProgress: onProgress,
	})

	report, err := dedup.Find(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("检测重复文件失败: %w", err)
	}

	return report, nil
}

// RunDelete 对报告中的重复集合执行交互式删除
func RunDelete(fs afero.Fs, report *internal.Report, prompter deletion.Prompter) (*deletion.Workflow, error) {
	logger.Get().Info().Msgf("进入交互式删除模式，共 %d 组", len(report.Sets))

	w := deletion.NewWorkflow(fs, report.Sets)
	if err := deletion.Run(w, prompter); err != nil {
		return w, err
	}

	stats := w.Stats()
	logger.Get().Info().
		Int("deleted", stats.Deleted).
		Int("failed", stats.Failed).
		Int("skipped", stats.Skipped).
		Int64("freed", stats.FreedSpace).
		Bool("aborted", stats.Aborted).
		Msg("删除流程结束")

	return w, nil
}
