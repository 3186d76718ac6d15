package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/moyu-x/duplicate-finder/internal"
	"github.com/moyu-x/duplicate-finder/pkg/deletion"
)

// LinePrompter 逐行读取终端输入的交互提示
type LinePrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

func (p *LinePrompter) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.in.Text(), nil
}

func (p *LinePrompter) Present(pres deletion.Presentation) error {
	var b strings.Builder

	b.WriteString("\n" + labelStyle.Render(fmt.Sprintf("第 %d/%d 组:", pres.Index+1, pres.Total)) + "\n")
	b.WriteString(fmt.Sprintf("  大小: %s\n", FormatBytes(pres.Set.Size)))
	for i, m := range pres.Set.Members {
		b.WriteString(fmt.Sprintf("  [%d] %s\n", i+1, filePathStyle.Render(m.Path)))
		b.WriteString(fmt.Sprintf("      修改时间: %s\n", formatTime(m.ModTime)))
	}

	_, err := fmt.Fprint(p.out, b.String())
	return err
}

func (p *LinePrompter) ReadDecision(pres deletion.Presentation) (string, error) {
	fmt.Fprintf(p.out, "\nKeep file [1-%d] or [s]kip this set or [q]uit: ", len(pres.Set.Members))
	return p.readLine()
}

func (p *LinePrompter) Invalid(pres deletion.Presentation, err error) {
	fmt.Fprintln(p.out, errorStyle.Render(fmt.Sprintf("无效输入: %v", err)))
}

func (p *LinePrompter) Confirm(plan deletion.Plan) (bool, error) {
	fmt.Fprintf(p.out, "\n将删除 %d 个文件:\n", len(plan.Delete))
	for _, m := range plan.Delete {
		fmt.Fprintf(p.out, "  • %s\n", m.Path)
	}
	fmt.Fprintf(p.out, "保留: %s\n", plan.Keep.Path)
	fmt.Fprint(p.out, "Confirm deletion? [y/N]: ")

	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	if deletion.IsQuit(line) {
		return false, deletion.ErrQuit
	}
	return deletion.ParseConfirmation(line), nil
}

func (p *LinePrompter) Done(outcomes []internal.Outcome) {
	for _, o := range outcomes {
		switch o.Status {
		case internal.OutcomeDeleted:
			fmt.Fprintf(p.out, "  ✓ 已删除: %s\n", o.Path)
		case internal.OutcomeFailed:
			fmt.Fprintln(p.out, errorStyle.Render(fmt.Sprintf("  ✗ 删除失败 %s: %s", o.Path, o.Reason)))
		}
	}
	if len(outcomes) > 0 && outcomes[0].Status == internal.OutcomeSkipped {
		fmt.Fprintf(p.out, "  跳过: %s\n", outcomes[0].Reason)
	}
}
