package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jaeyunha/mcp-manus/internal/application/port/input"
	"github.com/jaeyunha/mcp-manus/internal/application/port/output"
	"github.com/jaeyunha/mcp-manus/internal/domain/entity"
)

// Handlers serve the tool calls. A single mutex serializes them: the
// session has one current page, and two interleaved batches would
// invalidate each other's selector maps.
type Handlers struct {
	mu       sync.Mutex
	session  output.SessionPort
	registry output.ActionRegistry
	executor input.PlanExecutor
	logger   output.LoggerPort
}

func NewHandlers(session output.SessionPort, registry output.ActionRegistry, executor input.PlanExecutor, logger output.LoggerPort) *Handlers {
	return &Handlers{
		session:  session,
		registry: registry,
		executor: executor,
		logger:   logger,
	}
}

func errorResult(format string, args ...any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("Error: " + fmt.Sprintf(format, args...)), nil
}

func (h *Handlers) GetAvailableActions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(h.registry.PromptDescription()), nil
}

func (h *Handlers) GetBrowserState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, err := h.session.GetState(ctx)
	if err != nil {
		return errorResult("failed to read browser state: %v", err)
	}
	return mcp.NewToolResultText(formatState(state)), nil
}

func (h *Handlers) ExecuteAction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	name, ok := args["action_name"].(string)
	if !ok || name == "" {
		return errorResult("action_name is required")
	}
	params, _ := args["params"].(map[string]any)
	if params == nil {
		params = map[string]any{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	action, err := h.registry.CreateActionModel(name, params)
	if err != nil {
		return errorResult("%v", err)
	}

	h.logger.Info("executing action", "action", name)
	result := h.registry.Dispatch(ctx, action, h.session)
	return mcp.NewToolResultText(result.Text()), nil
}

func (h *Handlers) ExecuteMultipleActions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	plan, err := parsePlan(args)
	if err != nil {
		return errorResult("%v", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.logger.Info("executing action sequence",
		"actions", len(plan.Actions),
		"next_goal", plan.CurrentState.NextGoal,
	)

	results, err := h.executor.ExecutePlan(ctx, plan)
	if err != nil {
		return errorResult("%v", err)
	}

	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Text())
	}
	return mcp.NewToolResultText(strings.Join(texts, "\n")), nil
}

func (h *Handlers) NavigateToURL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.runNamed(ctx, "go_to_url", req.GetArguments())
}

func (h *Handlers) ClickElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.runNamed(ctx, "click_element", req.GetArguments())
}

func (h *Handlers) InputText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.runNamed(ctx, "input_text", req.GetArguments())
}

func (h *Handlers) ScrollDown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.runNamed(ctx, "scroll_down", req.GetArguments())
}

func (h *Handlers) ExtractContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.runNamed(ctx, "extract_content", req.GetArguments())
}

// runNamed routes a convenience tool through the registry, so the
// dedicated tools and execute_action share validation and dispatch.
func (h *Handlers) runNamed(ctx context.Context, name string, params map[string]any) (*mcp.CallToolResult, error) {
	if params == nil {
		params = map[string]any{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	action, err := h.registry.CreateActionModel(name, params)
	if err != nil {
		return errorResult("%v", err)
	}

	result := h.registry.Dispatch(ctx, action, h.session)
	return mcp.NewToolResultText(result.Text()), nil
}

func parsePlan(args map[string]any) (entity.ExecutionPlan, error) {
	var plan entity.ExecutionPlan

	stateRaw, ok := args["current_state"].(map[string]any)
	if !ok {
		return plan, fmt.Errorf("current_state is required and must be an object")
	}
	plan.CurrentState = entity.PlannerState{
		EvaluationPreviousGoal: stringField(stateRaw, "evaluation_previous_goal"),
		Memory:                 stringField(stateRaw, "memory"),
		NextGoal:               stringField(stateRaw, "next_goal"),
	}

	actionsRaw, ok := args["action"].([]any)
	if !ok {
		return plan, fmt.Errorf("action is required and must be an array")
	}
	for i, raw := range actionsRaw {
		entry, ok := raw.(map[string]any)
		if !ok {
			return plan, fmt.Errorf("action[%d] must be an object", i)
		}
		plan.Actions = append(plan.Actions, entity.ParseAction(entry))
	}

	return plan, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func formatState(state *entity.BrowserState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current URL: %s\n", state.URL)
	fmt.Fprintf(&b, "Title: %s\n", state.Title)

	b.WriteString("Open tabs:\n")
	for _, tab := range state.Tabs {
		fmt.Fprintf(&b, "  [%d] %s (%s)\n", tab.PageID, tab.Title, tab.URL)
	}

	b.WriteString("Interactive elements:\n")
	tree := state.ElementTree()
	if tree == "" {
		b.WriteString("  (none)")
	} else {
		b.WriteString(tree)
	}
	return b.String()
}
