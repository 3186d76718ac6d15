package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/moyu-x/duplicate-finder/internal"
	"github.com/moyu-x/duplicate-finder/pkg/logger"
)

var ErrNotDirectory = errors.New("not a directory")

type Options struct {
	Recursive      bool
	IncludeHidden  bool
	FollowSymlinks bool
	MinSize        int64
}

func DefaultOptions() Options {
	return Options{
		Recursive:     true,
		IncludeHidden: true,
	}
}

// Entry 每次拉取的结果：要么是一个文件记录，要么是带原因的跳过
type Entry struct {
	Record internal.FileRecord
	Skip   *internal.Failure
}

// Source 产生 Entry 的有限序列，不可重放
type Source interface {
	Next() (Entry, bool)
}

type ListerStats struct {
	Listed   int
	Skipped  int
	BelowMin int
	Hidden   int
}

// Lister 按需遍历目录树，每次 Next 最多读一个目录
type Lister struct {
	fs    afero.Fs
	root  string
	opts  Options
	dirs  []string
	queue []os.FileInfo
	dir   string
	stats ListerStats
}

// NewLister 校验根目录并创建遍历器，根目录不存在或不是目录时返回错误
func NewLister(fs afero.Fs, root string, opts Options) (*Lister, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("解析根目录失败: %w", err)
	}

	info, err := fs.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("无法访问根目录 %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", absRoot, ErrNotDirectory)
	}

	if opts.MinSize < 0 {
		opts.MinSize = 0
	}

	logger.Get().Debug().Msgf("创建文件遍历器: %s (recursive=%v, hidden=%v, symlinks=%v, min=%d)",
		absRoot, opts.Recursive, opts.IncludeHidden, opts.FollowSymlinks, opts.MinSize)

	return &Lister{
		fs:   fs,
		root: absRoot,
		opts: opts,
		dirs: []string{absRoot},
	}, nil
}

func (l *Lister) Root() string {
	return l.root
}

func (l *Lister) Stats() ListerStats {
	return l.stats
}

// Next 返回下一个文件记录或跳过记录，序列结束时返回 false
func (l *Lister) Next() (Entry, bool) {
	for {
		for len(l.queue) > 0 {
			info := l.queue[0]
			l.queue = l.queue[1:]

			if entry, ok := l.visit(info); ok {
				return entry, true
			}
		}

		if len(l.dirs) == 0 {
			return Entry{}, false
		}

		l.dir = l.dirs[0]
		l.dirs = l.dirs[1:]

		infos, err := afero.ReadDir(l.fs, l.dir)
		if err != nil {
			l.stats.Skipped++
			logger.Get().Warn().Err(err).Msgf("无法读取目录: %s", l.dir)
			return l.skip(l.dir, fmt.Sprintf("无法读取目录: %v", err)), true
		}
		l.queue = infos
	}
}

func (l *Lister) visit(info os.FileInfo) (Entry, bool) {
	path := filepath.Join(l.dir, info.Name())

	if !l.opts.IncludeHidden && strings.HasPrefix(info.Name(), ".") {
		l.stats.Hidden++
		logger.Get().Trace().Msgf("跳过隐藏项: %s", path)
		return Entry{}, false
	}

	mode := info.Mode()

	switch {
	case mode&os.ModeSymlink != 0:
		if !l.opts.FollowSymlinks {
			l.stats.Skipped++
			return l.skip(path, "符号链接"), true
		}
		target, err := l.fs.Stat(path)
		if err != nil {
			l.stats.Skipped++
			return l.skip(path, fmt.Sprintf("无法解析符号链接: %v", err)), true
		}
		if !target.Mode().IsRegular() {
			// 指向目录的链接不展开
			l.stats.Skipped++
			return l.skip(path, "符号链接未指向普通文件"), true
		}
		info = target

	case info.IsDir():
		if l.opts.Recursive {
			l.dirs = append(l.dirs, path)
		}
		return Entry{}, false

	case !mode.IsRegular():
		l.stats.Skipped++
		return l.skip(path, "不是普通文件"), true
	}

	if info.Size() < l.opts.MinSize {
		l.stats.BelowMin++
		return Entry{}, false
	}

	l.stats.Listed++
	return Entry{Record: internal.FileRecord{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}}, true
}

func (l *Lister) skip(path, reason string) Entry {
	return Entry{Skip: &internal.Failure{
		Path:   path,
		Stage:  internal.StageScan,
		Reason: reason,
	}}
}
