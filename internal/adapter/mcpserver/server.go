// Package mcpserver exposes the browser session as MCP tools over
// stdio. Handlers never return protocol errors for browser failures;
// everything comes back as result text so the caller can read it and
// re-plan.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jaeyunha/mcp-manus/internal/application/port/input"
	"github.com/jaeyunha/mcp-manus/internal/application/port/output"
)

const (
	serverName    = "mcp-manus"
	serverVersion = "1.0.0"
)

type Server struct {
	mcp      *server.MCPServer
	handlers *Handlers
}

func NewServer(session output.SessionPort, registry output.ActionRegistry, executor input.PlanExecutor, logger output.LoggerPort) *Server {
	h := NewHandlers(session, registry, executor, logger)

	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("get_available_actions",
		mcp.WithDescription("List every browser action the server can execute, with its parameter schema."),
	), h.GetAvailableActions)

	s.AddTool(mcp.NewTool("get_browser_state",
		mcp.WithDescription("Return the current page URL, title, open tabs and the indexed interactive elements. Element indices from this state are what click_element and input_text take."),
	), h.GetBrowserState)

	s.AddTool(mcp.NewTool("execute_action",
		mcp.WithDescription("Execute a single browser action by name."),
		mcp.WithString("action_name",
			mcp.Required(),
			mcp.Description("Name of the action, as listed by get_available_actions."),
		),
		mcp.WithObject("params",
			mcp.Description("Parameter mapping for the action. Omit for actions that take none."),
		),
	), h.ExecuteAction)

	s.AddTool(mcp.NewToolWithRawSchema("execute_multiple_actions",
		"Execute an ordered sequence of browser actions. Execution stops early if an action fails or if the page's interactive elements change out from under the remaining actions; partial results are returned either way.",
		[]byte(executeMultipleSchema),
	), h.ExecuteMultipleActions)

	s.AddTool(mcp.NewTool("navigate_to_url",
		mcp.WithDescription("Navigate the current tab to a URL."),
		mcp.WithString("url", mcp.Required(), mcp.Description("Destination URL.")),
	), h.NavigateToURL)

	s.AddTool(mcp.NewTool("click_element",
		mcp.WithDescription("Click the interactive element with the given index from the last get_browser_state."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Element index.")),
	), h.ClickElement)

	s.AddTool(mcp.NewTool("input_text",
		mcp.WithDescription("Type text into the element with the given index, replacing its current value."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("Element index.")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to input.")),
	), h.InputText)

	s.AddTool(mcp.NewTool("scroll_down",
		mcp.WithDescription("Scroll the page down."),
		mcp.WithNumber("amount", mcp.Description("Pixels to scroll; one page height when omitted.")),
	), h.ScrollDown)

	s.AddTool(mcp.NewTool("extract_content",
		mcp.WithDescription("Extract information from the current page, guided by a goal."),
		mcp.WithString("goal", mcp.Required(), mcp.Description("What to look for on the page.")),
	), h.ExtractContent)

	return &Server{mcp: s, handlers: h}
}

// Serve blocks on the stdio transport until the client disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

const executeMultipleSchema = `{
  "type": "object",
  "properties": {
    "current_state": {
      "type": "object",
      "description": "Planner bookkeeping carried along with the batch.",
      "properties": {
        "evaluation_previous_goal": {"type": "string"},
        "memory": {"type": "string"},
        "next_goal": {"type": "string"}
      },
      "required": ["evaluation_previous_goal", "memory", "next_goal"]
    },
    "action": {
      "type": "array",
      "description": "Ordered action list. Each entry is an object with exactly one key, the action name, mapping to its parameter object.",
      "items": {
        "type": "object",
        "minProperties": 1,
        "maxProperties": 1
      },
      "minItems": 1
    }
  },
  "required": ["current_state", "action"]
}`
