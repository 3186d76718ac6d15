package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/moyu-x/duplicate-finder/internal"
)

const (
	barWidth        = 30
	DefaultInterval = 100 * time.Millisecond
)

var (
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Tracker 在终端单行刷新哈希进度
type Tracker struct {
	out      io.Writer
	label    string
	interval time.Duration

	mu       sync.Mutex
	last     time.Time
	latest   internal.ProgressUpdate
	failed   int
	rendered bool
	finished bool
}

func NewTracker(out io.Writer, label string) *Tracker {
	return &Tracker{
		out:      out,
		label:    label,
		interval: DefaultInterval,
	}
}

// SetInterval 设置两次刷新之间的最小间隔，0 表示每次更新都刷新
func (t *Tracker) SetInterval(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interval = d
}

// Update 记录最新进度，按间隔节流输出，最后一个文件总会输出
func (t *Tracker) Update(update internal.ProgressUpdate) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished {
		return
	}
	t.latest = update
	if update.Failed {
		t.failed++
	}

	now := time.Now()
	if update.Processed < update.Total && t.rendered && now.Sub(t.last) < t.interval {
		return
	}
	t.last = now
	t.render()
}

// Finish 输出最终进度并换行
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished {
		return
	}
	t.finished = true
	if t.rendered {
		fmt.Fprintln(t.out)
	}
}

// Latest 返回最近一次收到的进度
func (t *Tracker) Latest() internal.ProgressUpdate {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest
}

func (t *Tracker) Failed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed
}

func (t *Tracker) render() {
	u := t.latest

	filled := 0
	percent := 100.0
	if u.Total > 0 {
		filled = barWidth * u.Processed / u.Total
		percent = float64(u.Processed) * 100 / float64(u.Total)
	}
	if filled > barWidth {
		filled = barWidth
	}

	bar := barStyle.Render(strings.Repeat("█", filled)) + emptyStyle.Render(strings.Repeat("░", barWidth-filled))
	line := fmt.Sprintf("\r%s %s %d/%d (%.1f%%)", t.label, bar, u.Processed, u.Total, percent)
	if t.failed > 0 {
		line += failStyle.Render(fmt.Sprintf(" 失败 %d", t.failed))
	}

	fmt.Fprint(t.out, line)
	t.rendered = true
}
