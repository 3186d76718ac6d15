package deletion

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/moyu-x/duplicate-finder/internal"
	"github.com/moyu-x/duplicate-finder/pkg/logger"
)

var (
	ErrInvalidState = errors.New("invalid workflow state")
	ErrKeepMissing  = errors.New("file to keep no longer exists")
	ErrSameFile     = errors.New("same file as the one to keep")
)

type State int

const (
	StatePresenting State = iota
	StateAwaitingDecision
	StateDeleting
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StatePresenting:
		return "presenting"
	case StateAwaitingDecision:
		return "awaiting-decision"
	case StateDeleting:
		return "deleting"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateAborted
}

// Presentation 当前集合的展示内容
type Presentation struct {
	Index int
	Total int
	Set   internal.DuplicateSet
}

// Plan 等待确认的删除计划，Delete 恰好是集合中除 Keep 外的所有成员
type Plan struct {
	SetIndex int
	Keep     internal.HashedRecord
	Delete   []internal.HashedRecord
}

// Workflow 逐个处理重复集合的删除状态机
// 集合只读，删除只作用于文件系统
type Workflow struct {
	fs       afero.Fs
	sets     []internal.DuplicateSet
	index    int
	state    State
	plan     *Plan
	outcomes []internal.Outcome
	stats    internal.DeletionStats
}

func NewWorkflow(fs afero.Fs, sets []internal.DuplicateSet) *Workflow {
	w := &Workflow{
		fs:    fs,
		sets:  sets,
		state: StatePresenting,
	}
	if len(sets) == 0 {
		w.state = StateCompleted
	}
	return w
}

func (w *Workflow) State() State {
	return w.state
}

// Index 当前集合下标（从 0 开始）
func (w *Workflow) Index() int {
	return w.index
}

func (w *Workflow) Outcomes() []internal.Outcome {
	return w.outcomes
}

func (w *Workflow) Stats() internal.DeletionStats {
	return w.stats
}

// Current 返回当前集合的展示内容
func (w *Workflow) Current() Presentation {
	if w.index >= len(w.sets) {
		return Presentation{Index: w.index, Total: len(w.sets)}
	}
	return Presentation{
		Index: w.index,
		Total: len(w.sets),
		Set:   w.sets[w.index],
	}
}

// Pending 返回等待确认的删除计划
func (w *Workflow) Pending() *Plan {
	return w.plan
}

// Present Presenting(i) -> AwaitingDecision
func (w *Workflow) Present() (Presentation, error) {
	if w.state != StatePresenting {
		return Presentation{}, fmt.Errorf("%w: present in %s", ErrInvalidState, w.state)
	}
	w.state = StateAwaitingDecision
	return w.Current(), nil
}

// Submit 解析原始输入并做出决定，输入无效时保持 AwaitingDecision
func (w *Workflow) Submit(input string) (*Plan, error) {
	if w.state != StateAwaitingDecision {
		return nil, fmt.Errorf("%w: decide in %s", ErrInvalidState, w.state)
	}
	decision, err := ParseDecision(input, len(w.sets[w.index].Members))
	if err != nil {
		return nil, err
	}
	return w.Decide(decision)
}

// Decide 处理一个决定
// keep 进入 Deleting 并返回待确认计划；skip 进入下一个集合；quit 进入 Aborted
func (w *Workflow) Decide(d Decision) (*Plan, error) {
	if w.state != StateAwaitingDecision {
		return nil, fmt.Errorf("%w: decide in %s", ErrInvalidState, w.state)
	}

	set := w.sets[w.index]

	switch d.Kind {
	case DecisionQuit:
		w.abort()
		return nil, nil

	case DecisionSkip:
		logger.Get().Info().Msgf("跳过第 %d/%d 组", w.index+1, len(w.sets))
		w.skipSet(w.index, "用户跳过")
		w.advance()
		return nil, nil

	case DecisionKeep:
		if d.Keep < 0 || d.Keep >= len(set.Members) {
			return nil, fmt.Errorf("%w: 序号 %d 超出范围 1-%d", ErrInvalidDecision, d.Keep+1, len(set.Members))
		}

		plan := &Plan{
			SetIndex: w.index,
			Keep:     set.Members[d.Keep],
		}
		for i, m := range set.Members {
			if i != d.Keep {
				plan.Delete = append(plan.Delete, m)
			}
		}

		w.plan = plan
		w.state = StateDeleting
		return plan, nil

	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidDecision, d.Kind)
	}
}

// Confirm 对待确认计划做出是否删除的回答
// 只有 yes 才会发出删除调用；否定等同于跳过本组
func (w *Workflow) Confirm(yes bool) ([]internal.Outcome, error) {
	if w.state != StateDeleting || w.plan == nil {
		return nil, fmt.Errorf("%w: confirm in %s", ErrInvalidState, w.state)
	}

	plan := w.plan
	start := len(w.outcomes)

	if !yes {
		logger.Get().Info().Msgf("第 %d/%d 组取消删除", w.index+1, len(w.sets))
		w.skipSet(w.index, "未确认删除")
		w.advance()
		return w.outcomes[start:], nil
	}

	w.execute(plan)
	w.advance()
	return w.outcomes[start:], nil
}

// Abort 在删除确认前随时终止，已执行的删除不回滚
func (w *Workflow) Abort() error {
	if w.state.Terminal() {
		return fmt.Errorf("%w: abort in %s", ErrInvalidState, w.state)
	}
	w.abort()
	return nil
}

func (w *Workflow) execute(plan *Plan) {
	keepInfo, err := w.fs.Stat(plan.Keep.Path)
	if err != nil {
		// 保留的文件已不存在时不能删除其它副本
		logger.Get().Error().Err(err).Msgf("保留文件不存在，跳过本组删除: %s", plan.Keep.Path)
		for _, m := range plan.Delete {
			w.record(plan.SetIndex, internal.Outcome{
				Path:   m.Path,
				Status: internal.OutcomeFailed,
				Reason: ErrKeepMissing.Error(),
				Err:    fmt.Errorf("%w: %s", ErrKeepMissing, plan.Keep.Path),
			})
		}
		return
	}

	w.record(plan.SetIndex, internal.Outcome{
		Path:   plan.Keep.Path,
		Status: internal.OutcomeKept,
	})

	for _, m := range plan.Delete {
		// 符号链接或硬链接与保留文件指向同一数据时不能删除
		if info, err := w.fs.Stat(m.Path); err == nil && os.SameFile(keepInfo, info) {
			logger.Get().Error().Msgf("与保留文件是同一个文件，拒绝删除: %s", m.Path)
			w.record(plan.SetIndex, internal.Outcome{
				Path:   m.Path,
				Status: internal.OutcomeFailed,
				Reason: ErrSameFile.Error(),
				Err:    fmt.Errorf("%w: %s", ErrSameFile, plan.Keep.Path),
			})
			continue
		}

		freed := w.reclaimable(m)
		if err := w.fs.Remove(m.Path); err != nil {
			logger.Get().Error().Err(err).Msgf("删除文件失败: %s", m.Path)
			w.record(plan.SetIndex, internal.Outcome{
				Path:   m.Path,
				Status: internal.OutcomeFailed,
				Reason: err.Error(),
				Err:    err,
			})
			continue
		}

		logger.Get().Info().Msgf("已删除: %s", m.Path)
		w.stats.FreedSpace += freed
		w.record(plan.SetIndex, internal.Outcome{
			Path:   m.Path,
			Status: internal.OutcomeDeleted,
		})
	}
}

// reclaimable 删除 m 能释放的字节数，删除符号链接本身不释放目标的空间
func (w *Workflow) reclaimable(m internal.HashedRecord) int64 {
	lstater, ok := w.fs.(afero.Lstater)
	if !ok {
		return m.Size
	}
	info, _, err := lstater.LstatIfPossible(m.Path)
	if err == nil && info.Mode()&os.ModeSymlink != 0 {
		return 0
	}
	return m.Size
}

func (w *Workflow) abort() {
	logger.Get().Warn().Msgf("删除流程已终止，剩余 %d 组未处理", len(w.sets)-w.index)
	for i := w.index; i < len(w.sets); i++ {
		w.skipSet(i, "流程已终止")
	}
	w.plan = nil
	w.stats.Aborted = true
	w.state = StateAborted
}

func (w *Workflow) skipSet(index int, reason string) {
	for _, m := range w.sets[index].Members {
		w.record(index, internal.Outcome{
			Path:   m.Path,
			Status: internal.OutcomeSkipped,
			Reason: reason,
		})
	}
}

func (w *Workflow) record(index int, o internal.Outcome) {
	o.SetIndex = index
	switch o.Status {
	case internal.OutcomeDeleted:
		w.stats.Deleted++
	case internal.OutcomeFailed:
		w.stats.Failed++
	case internal.OutcomeSkipped:
		w.stats.Skipped++
	case internal.OutcomeKept:
		w.stats.Kept++
	}
	w.outcomes = append(w.outcomes, o)
}

func (w *Workflow) advance() {
	w.plan = nil
	w.index++
	if w.index >= len(w.sets) {
		w.state = StateCompleted
		logger.Get().Info().Msg("所有重复集合处理完成")
		return
	}
	w.state = StatePresenting
}
