package executor

import (
	"context"
	"fmt"

	"github.com/jaeyunha/mcp-manus/internal/application/port/input"
	"github.com/jaeyunha/mcp-manus/internal/application/port/output"
	"github.com/jaeyunha/mcp-manus/internal/domain/entity"
)

var _ input.PlanExecutor = (*UseCase)(nil)

// UseCase executes one plan at a time against the session. Plans are
// computed against a snapshot of page elements; if an element-addressing
// action mutates the interactive surface mid-sequence, the indices baked
// into the remaining actions may point at the wrong elements, so the
// sequence is aborted and the caller is told to re-plan from fresh state.
type UseCase struct {
	registry output.ActionRegistry
	session  output.SessionPort
	logger   output.LoggerPort
}

func New(registry output.ActionRegistry, session output.SessionPort, logger output.LoggerPort) *UseCase {
	return &UseCase{
		registry: registry,
		session:  session,
		logger:   logger,
	}
}

func (uc *UseCase) ExecutePlan(ctx context.Context, plan entity.ExecutionPlan) ([]entity.ActionResult, error) {
	n := len(plan.Actions)
	if n == 0 {
		return nil, fmt.Errorf("plan contains no actions")
	}

	state, err := uc.session.GetState(ctx)
	if err != nil {
		return nil, fmt.Errorf("read initial browser state: %w", err)
	}
	initialHashes := state.HashSet()

	results := make([]entity.ActionResult, 0, n)
	for i, action := range plan.Actions {
		result := uc.registry.Dispatch(ctx, action, uc.session)
		results = append(results, result)

		// Fail fast within a batch; retry policy belongs to the caller.
		if result.Error != "" {
			uc.logger.Warn("Plan halted on action error",
				"action", action.Name, "step", i+1, "total", n, "error", result.Error)
			break
		}

		if i < n-1 && action.ReferencesElement() {
			newState, err := uc.session.GetState(ctx)
			if err != nil {
				results = append(results, entity.ActionResult{
					Error: fmt.Sprintf("reading browser state after action %d/%d: %v", i+1, n, err),
				})
				break
			}
			// Baseline elements must all survive into the new state.
			// Elements appearing is fine; one disappearing or changing
			// shape means planned indices may now be stale.
			if !subsetOf(initialHashes, newState.HashSet()) {
				uc.logger.Info("Interactive elements changed mid-plan, aborting remaining actions",
					"step", i+1, "total", n)
				results = append(results, entity.ActionResult{
					ExtractedContent: fmt.Sprintf(
						"Page changed after action %d/%d: interactive elements no longer match the planned state. Fetch the browser state again and compute a new plan.",
						i+1, n),
				})
				break
			}
		}
	}

	return results, nil
}

// subsetOf reports whether every hash in sub exists in super.
func subsetOf(sub, super map[string]struct{}) bool {
	for h := range sub {
		if _, ok := super[h]; !ok {
			return false
		}
	}
	return true
}
