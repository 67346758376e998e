package output

import (
	"context"

	"github.com/jaeyunha/mcp-manus/internal/domain/entity"
)

// ActionPort is one registered browser action. Parameters returns the
// JSON schema of the parameter mapping, same shape the LLM tool
// definitions use.
type ActionPort interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, params map[string]any, session SessionPort) (entity.ActionResult, error)
}

// ActionRegistry resolves action names to handlers. The registry is
// built once at startup; Dispatch converts handler failures into
// ActionResult errors rather than propagating them.
type ActionRegistry interface {
	Register(action ActionPort)
	Get(name string) (ActionPort, bool)
	CreateActionModel(name string, params map[string]any) (entity.Action, error)
	Dispatch(ctx context.Context, action entity.Action, session SessionPort) entity.ActionResult
	PromptDescription() string
}
