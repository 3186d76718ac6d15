package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/moyu-x/duplicate-finder/internal"
	"github.com/moyu-x/duplicate-finder/internal/app"
	"github.com/moyu-x/duplicate-finder/pkg/config"
	"github.com/moyu-x/duplicate-finder/pkg/logger"
	"github.com/moyu-x/duplicate-finder/pkg/progress"
)

var findCmd = &cobra.Command{
	Use:   "find [directory]",
	Short: "查找重复文件，可选交互式删除",
	Long: `遍历目录，先按大小分组，再对大小相同的文件计算哈希，输出内容相同的文件集合。

哈希算法:
  sha256  默认，加密哈希，碰撞可以忽略
  md5     128 位，比 sha256 快，但面对刻意构造的文件不安全
  xxhash  64 位非加密哈希，最快，极小概率误判

使用 --delete 进入交互模式: 每组选择保留的文件，确认后删除其余副本。`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFind,
}

func runFind(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return err
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	opts := &app.FindOptions{
		Root:           root,
		Recursive:      cfg.Scanner.Recursive,
		MinSize:        cfg.Scanner.MinSize,
		Algorithm:      cfg.Hasher.Algorithm,
		IncludeHidden:  cfg.Scanner.IncludeHidden,
		FollowSymlinks: cfg.Scanner.FollowSymlinks,
		Workers:        cfg.Performance.Workers,
		ChunkSize:      cfg.Hasher.ChunkSize,
		LogLevel:       cfg.Logging.Level,
		LogFile:        cfg.Logging.File,
	}
	applyFlags(cmd, opts)

	if _, err := app.SetupLogger(opts); err != nil {
		return err
	}
	defer logger.Close()

	fs := afero.NewOsFs()
	out := cmd.OutOrStdout()

	var tracker *progress.Tracker
	if noProgress, _ := cmd.Flags().GetBool("no-progress"); !noProgress {
		tracker = progress.NewTracker(cmd.ErrOrStderr(), "计算哈希")
	}

	report, err := app.RunFind(fs, opts, progressCallback(tracker))
	if tracker != nil {
		tracker.Finish()
	}
	if err != nil {
		logger.Get().Error().Err(err).Msg("检测失败")
		return err
	}

	app.RenderReport(out, report)

	if !opts.Delete || len(report.Sets) == 0 {
		return nil
	}

	prompter := app.NewLinePrompter(cmd.InOrStdin(), out)
	w, err := app.RunDelete(fs, report, prompter)
	if w != nil {
		app.RenderDeletion(out, w.Stats(), w.Outcomes())
	}
	return err
}

func progressCallback(tracker *progress.Tracker) func(internal.ProgressUpdate) {
	if tracker == nil {
		return nil
	}
	return tracker.Update
}

// applyFlags 用显式给出的命令行参数覆盖配置
func applyFlags(cmd *cobra.Command, opts *app.FindOptions) {
	flags := cmd.Flags()

	if flags.Changed("no-recursive") {
		noRecursive, _ := flags.GetBool("no-recursive")
		opts.Recursive = !noRecursive
	}
	if flags.Changed("min-size") {
		opts.MinSize, _ = flags.GetInt64("min-size")
	}
	if flags.Changed("hash") {
		opts.Algorithm, _ = flags.GetString("hash")
	}
	if flags.Changed("workers") {
		opts.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("hidden") {
		opts.IncludeHidden, _ = flags.GetBool("hidden")
	}
	if flags.Changed("no-hidden") {
		noHidden, _ := flags.GetBool("no-hidden")
		opts.IncludeHidden = !noHidden
	}
	if flags.Changed("follow-symlinks") {
		opts.FollowSymlinks, _ = flags.GetBool("follow-symlinks")
	}
	if flags.Changed("log-file") {
		opts.LogFile, _ = flags.GetString("log-file")
	}

	opts.Delete, _ = flags.GetBool("delete")
	opts.Verbose, _ = flags.GetBool("verbose")

	if opts.Workers <= 0 {
		opts.Workers = config.Get().Performance.Workers
	}
}

func init() {
	findCmd.Flags().Bool("no-recursive", false, "只扫描顶层目录，不进入子目录")
	findCmd.Flags().Int64("min-size", 0, "忽略小于该字节数的文件")
	findCmd.Flags().String("hash", "sha256", "哈希算法: xxhash, md5, sha256")
	findCmd.Flags().BoolP("delete", "d", false, "交互式删除重复文件")
	findCmd.Flags().IntP("workers", "w", 0, "并发计算哈希的协程数 (默认 CPU 核数)")
	findCmd.Flags().Bool("hidden", true, "包含隐藏文件和目录")
	findCmd.Flags().Bool("no-hidden", false, "跳过隐藏文件和目录")
	findCmd.Flags().Bool("follow-symlinks", false, "跟随指向普通文件的符号链接")
	findCmd.Flags().BoolP("verbose", "v", false, "输出调试日志")
	findCmd.Flags().String("log-file", "", "同时写入的日志文件")
	findCmd.Flags().Bool("no-progress", false, "不显示哈希进度条")

	findCmd.Flags().SetNormalizeFunc(normalizeFlags)

	rootCmd.AddCommand(findCmd)
}

// normalizeFlags 把 --skip-hidden 视为 --no-hidden
func normalizeFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "skip-hidden" {
		name = "no-hidden"
	}
	return pflag.NormalizedName(name)
}
