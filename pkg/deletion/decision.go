package deletion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidDecision = errors.New("invalid decision")

	// ErrQuit 由 Prompter 返回，表示在确认阶段选择退出
	ErrQuit = errors.New("quit requested")
)

type DecisionKind int

const (
	DecisionKeep DecisionKind = iota
	DecisionSkip
	DecisionQuit
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionKeep:
		return "keep"
	case DecisionSkip:
		return "skip"
	case DecisionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Decision 对一个重复集合的决定
// Keep 为从 0 开始的保留下标，只在 DecisionKeep 时有效
type Decision struct {
	Kind DecisionKind
	Keep int
}

func Keep(index int) Decision {
	return Decision{Kind: DecisionKeep, Keep: index}
}

func Skip() Decision {
	return Decision{Kind: DecisionSkip}
}

func Quit() Decision {
	return Decision{Kind: DecisionQuit}
}

// ParseDecision 解析用户输入: 1..members 为保留的文件序号，s/skip 跳过，q/quit 退出
// 无法解析或越界时返回 ErrInvalidDecision，不会回退到任何默认选择
func ParseDecision(input string, members int) (Decision, error) {
	choice := strings.ToLower(strings.TrimSpace(input))

	if IsQuit(choice) {
		return Quit(), nil
	}

	switch choice {
	case "s", "skip":
		return Skip(), nil
	case "":
		return Decision{}, fmt.Errorf("%w: 输入为空", ErrInvalidDecision)
	}

	n, err := strconv.Atoi(choice)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: 请输入 1-%d、s 或 q", ErrInvalidDecision, members)
	}
	if n < 1 || n > members {
		return Decision{}, fmt.Errorf("%w: 序号 %d 超出范围 1-%d", ErrInvalidDecision, n, members)
	}

	return Keep(n - 1), nil
}

// ParseConfirmation 只有 y/yes 算确认，其余输入（包括空）都视为否定
func ParseConfirmation(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// IsQuit 判断输入是否为 q/quit，任何提示下都可以用它终止流程
func IsQuit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "q", "quit":
		return true
	default:
		return false
	}
}
