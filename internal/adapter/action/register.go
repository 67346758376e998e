package action

import (
	"github.com/jaeyunha/mcp-manus/internal/application/port/output"
)

// RegisterDefaults populates the registry with the standard browser
// actions. llm may be nil; extract_content then falls back to raw text.
func RegisterDefaults(registry output.ActionRegistry, llm output.LLMPort, recordingsDir string, logger output.LoggerPort) {
	registry.Register(NewGoToURL(logger))
	registry.Register(NewGoBack(logger))
	registry.Register(NewSearchGoogle(logger))
	registry.Register(NewOpenTab(logger))
	registry.Register(NewSwitchTab(logger))
	registry.Register(NewClickElement(logger))
	registry.Register(NewInputText(logger))
	registry.Register(NewSendKeys(logger))
	registry.Register(NewScrollDown(logger))
	registry.Register(NewScrollUp(logger))
	registry.Register(NewExtractContent(llm, logger))
	registry.Register(NewScreenshot(recordingsDir, logger))
}
