package input

import (
	"context"

	"github.com/jaeyunha/mcp-manus/internal/domain/entity"
)

// PlanExecutor runs an ordered batch of actions against the session,
// stopping early on errors or on interactive-element drift.
type PlanExecutor interface {
	ExecutePlan(ctx context.Context, plan entity.ExecutionPlan) ([]entity.ActionResult, error)
}
