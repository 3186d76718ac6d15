package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/moyu-x/duplicate-finder/internal"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	successTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("86")).
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	filePathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("147"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Faint(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

func separator() string {
	return separatorStyle.Render(strings.Repeat("=", 80))
}

func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "未知"
	}
	return t.Local().Format(timeLayout)
}

// RenderReport 输出重复集合和汇总统计
func RenderReport(w io.Writer, report *internal.Report) {
	var b strings.Builder

	if len(report.Sets) == 0 {
		b.WriteString(successTitleStyle.Render("✓ 没有发现重复文件") + "\n")
	} else {
		b.WriteString("\n" + separator() + "\n")
		b.WriteString(titleStyle.Render(fmt.Sprintf("发现 %d 组重复文件（共 %d 个文件）",
			report.Summary.Sets, report.Summary.DuplicateFiles)) + "\n")
		b.WriteString(separator() + "\n\n")

		for i, set := range report.Sets {
			b.WriteString(labelStyle.Render(fmt.Sprintf("第 %d 组:", i+1)) + "\n")
			b.WriteString(fmt.Sprintf("  哈希: %s... (%s)\n", set.Digest.Short(), set.Digest.Algorithm))
			b.WriteString(fmt.Sprintf("  大小: 每个 %s\n", FormatBytes(set.Size)))
			b.WriteString(fmt.Sprintf("  浪费空间: %s\n", FormatBytes(set.Wasted())))
			b.WriteString(fmt.Sprintf("  副本数: %d\n", set.Copies()))
			if set.Kind != "" {
				b.WriteString(fmt.Sprintf("  类型: %s\n", set.Kind))
			}
			b.WriteString("  文件:\n")
			for _, m := range set.Members {
				b.WriteString("    • " + filePathStyle.Render(m.Path) + "\n")
				b.WriteString(fmt.Sprintf("      修改时间: %s\n", formatTime(m.ModTime)))
			}
			b.WriteString("\n")
		}

		b.WriteString(separator() + "\n")
		b.WriteString(titleStyle.Render(fmt.Sprintf("总浪费空间: %s", FormatBytes(report.Summary.WastedBytes))) + "\n")
		b.WriteString(separator() + "\n")
	}

	if len(report.Failures) > 0 {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("跳过或失败的文件: %d 个", len(report.Failures))) + "\n")
		for _, f := range report.Failures {
			b.WriteString(fmt.Sprintf("  ✗ [%s] %s: %s\n", f.Stage, f.Path, f.Reason))
		}
	}

	stats := report.Stats
	b.WriteString("\n" + hintStyle.Render(fmt.Sprintf(
		"扫描 %d 个文件，%d 个候选，%d 个大小唯一，%d 个小于最小值，%d 个隐藏，%d 个跳过，哈希失败 %d，耗时 %v",
		stats.Listed, stats.Candidates, stats.Singletons, stats.BelowMin, stats.Hidden, stats.Skipped,
		stats.HashFailed, stats.EndTime.Sub(stats.StartTime).Round(time.Millisecond))) + "\n")

	fmt.Fprint(w, b.String())
}

// RenderDeletion 输出删除结果汇总
func RenderDeletion(w io.Writer, stats internal.DeletionStats, outcomes []internal.Outcome) {
	var b strings.Builder

	b.WriteString("\n" + separator() + "\n")
	if stats.Aborted {
		b.WriteString(titleStyle.Render("删除流程已终止") + "\n")
	} else {
		b.WriteString(successTitleStyle.Render("删除流程完成") + "\n")
	}
	b.WriteString(fmt.Sprintf("  已删除: %d 个\n", stats.Deleted))
	b.WriteString(fmt.Sprintf("  删除失败: %d 个\n", stats.Failed))
	b.WriteString(fmt.Sprintf("  跳过: %d 个\n", stats.Skipped))
	b.WriteString(fmt.Sprintf("  释放空间: %s\n", FormatBytes(stats.FreedSpace)))

	for _, o := range outcomes {
		if o.Status == internal.OutcomeFailed {
			b.WriteString(errorStyle.Render(fmt.Sprintf("  ✗ %s: %s", o.Path, o.Reason)) + "\n")
		}
	}
	b.WriteString(separator() + "\n")

	fmt.Fprint(w, b.String())
}
