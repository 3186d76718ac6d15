package deletion

import (
	"errors"
	"fmt"
	"io"

	"github.com/moyu-x/duplicate-finder/internal"
	"github.com/moyu-x/duplicate-finder/pkg/logger"
)

// Prompter 为状态机提供展示和输入，等待输入时可以无限期阻塞
type Prompter interface {
	// Present 展示一个集合的所有成员
	Present(p Presentation) error
	// ReadDecision 读取对当前集合的原始输入
	ReadDecision(p Presentation) (string, error)
	// Invalid 提示输入无效，随后会重新读取
	Invalid(p Presentation, err error)
	// Confirm 展示将被删除的文件并读取是否确认，选择退出时返回 ErrQuit
	Confirm(plan Plan) (bool, error)
	// Done 展示一组处理结果
	Done(outcomes []internal.Outcome)
}

// Run 驱动状态机直到完成或终止
// 输入结束（io.EOF）按 quit 处理，从不当作确认
func Run(w *Workflow, prompter Prompter) error {
	for {
		switch w.State() {
		case StateCompleted, StateAborted:
			return nil

		case StatePresenting:
			p, err := w.Present()
			if err != nil {
				return err
			}
			if err := prompter.Present(p); err != nil {
				return fmt.Errorf("展示重复集合失败: %w", err)
			}

		case StateAwaitingDecision:
			p := w.Current()
			input, err := prompter.ReadDecision(p)
			if err != nil {
				return stopOnInputError(w, err)
			}
			start := len(w.Outcomes())
			if _, err := w.Submit(input); err != nil {
				if errors.Is(err, ErrInvalidDecision) {
					prompter.Invalid(p, err)
					continue
				}
				return err
			}
			if w.State() != StateDeleting {
				prompter.Done(w.Outcomes()[start:])
			}

		case StateDeleting:
			plan := w.Pending()
			yes, err := prompter.Confirm(*plan)
			if err != nil {
				return stopOnInputError(w, err)
			}
			outcomes, err := w.Confirm(yes)
			if err != nil {
				return err
			}
			prompter.Done(outcomes)
		}
	}
}

func stopOnInputError(w *Workflow, err error) error {
	if abortErr := w.Abort(); abortErr != nil {
		return abortErr
	}
	if errors.Is(err, ErrQuit) {
		logger.Get().Info().Msg("确认阶段选择退出，终止删除流程")
		return nil
	}
	if errors.Is(err, io.EOF) {
		logger.Get().Warn().Msg("输入已结束，终止删除流程")
		return nil
	}
	return fmt.Errorf("读取输入失败: %w", err)
}
