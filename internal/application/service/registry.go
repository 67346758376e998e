package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jaeyunha/mcp-manus/internal/application/port/output"
	"github.com/jaeyunha/mcp-manus/internal/domain/entity"
)

var _ output.ActionRegistry = (*ActionRegistryImpl)(nil)

// ActionRegistryImpl is a closed name-to-action lookup table populated
// once at startup.
type ActionRegistryImpl struct {
	actions map[string]output.ActionPort
	logger  output.LoggerPort
}

func NewActionRegistry(logger output.LoggerPort) *ActionRegistryImpl {
	return &ActionRegistryImpl{
		actions: make(map[string]output.ActionPort),
		logger:  logger,
	}
}

func (r *ActionRegistryImpl) Register(action output.ActionPort) {
	r.actions[action.Name()] = action
}

func (r *ActionRegistryImpl) Get(name string) (output.ActionPort, bool) {
	action, ok := r.actions[name]
	return action, ok
}

// CreateActionModel validates the name and required parameters before
// anything touches the browser.
func (r *ActionRegistryImpl) CreateActionModel(name string, params map[string]any) (entity.Action, error) {
	action, ok := r.actions[name]
	if !ok {
		return entity.Action{}, fmt.Errorf("unknown action %q, call get_available_actions for the full list", name)
	}
	if params == nil {
		params = map[string]any{}
	}
	for _, key := range requiredParams(action.Parameters()) {
		if _, ok := params[key]; !ok {
			return entity.Action{}, fmt.Errorf("action %q requires parameter %q", name, key)
		}
	}
	return entity.Action{Name: name, Params: params}, nil
}

// Dispatch resolves and executes one action. Handler failures come back
// as ActionResult errors, never as raised faults: the caller reasons
// about them as text.
func (r *ActionRegistryImpl) Dispatch(ctx context.Context, action entity.Action, session output.SessionPort) entity.ActionResult {
	if action.Err != "" {
		return entity.ActionResult{Action: action.Name, Error: action.Err}
	}

	model, err := r.CreateActionModel(action.Name, action.Params)
	if err != nil {
		return entity.ActionResult{Action: action.Name, Error: err.Error()}
	}

	handler, _ := r.actions[model.Name]
	r.logger.Info("Dispatching action", "name", model.Name, "params", model.Params)

	result, err := handler.Execute(ctx, model.Params, session)
	if err != nil {
		r.logger.Error("Action failed", "name", model.Name, "error", err)
		return entity.ActionResult{Action: model.Name, Error: err.Error()}
	}
	result.Action = model.Name
	return result
}

// PromptDescription renders the action catalog for the caller, one
// action per block with its parameter schema.
func (r *ActionRegistryImpl) PromptDescription() string {
	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		action := r.actions[name]
		schema, err := json.Marshal(action.Parameters())
		if err != nil {
			schema = []byte("{}")
		}
		fmt.Fprintf(&b, "%s:\n{%q: %s}\n", action.Description(), name, schema)
	}
	return b.String()
}

func requiredParams(schema map[string]interface{}) []string {
	switch required := schema["required"].(type) {
	case []string:
		return required
	case []interface{}:
		keys := make([]string, 0, len(required))
		for _, k := range required {
			if s, ok := k.(string); ok {
				keys = append(keys, s)
			}
		}
		return keys
	default:
		return nil
	}
}
