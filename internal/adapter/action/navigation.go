package action

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jaeyunha/mcp-manus/internal/application/port/output"
	"github.com/jaeyunha/mcp-manus/internal/domain/entity"
)

var _ output.ActionPort = (*GoToURL)(nil)

type GoToURL struct {
	logger output.LoggerPort
}

func NewGoToURL(logger output.LoggerPort) *GoToURL {
	return &GoToURL{logger: logger}
}

func (a *GoToURL) Name() string        { return "go_to_url" }
func (a *GoToURL) Description() string { return "Navigate the current tab to a URL" }
func (a *GoToURL) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"url": stringProp("URL to navigate to"),
	}, "url")
}

func (a *GoToURL) Execute(ctx context.Context, params map[string]any, session output.SessionPort) (entity.ActionResult, error) {
	target, err := stringParam(params, "url")
	if err != nil {
		return entity.ActionResult{}, err
	}
	if err := session.Navigate(ctx, target); err != nil {
		return entity.ActionResult{}, err
	}
	return entity.ActionResult{ExtractedContent: fmt.Sprintf("Navigated to %s", session.CurrentURL())}, nil
}

type GoBack struct {
	logger output.LoggerPort
}

func NewGoBack(logger output.LoggerPort) *GoBack {
	return &GoBack{logger: logger}
}

func (a *GoBack) Name() string        { return "go_back" }
func (a *GoBack) Description() string { return "Go back in the current tab's history" }
func (a *GoBack) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{})
}

func (a *GoBack) Execute(ctx context.Context, params map[string]any, session output.SessionPort) (entity.ActionResult, error) {
	if err := session.GoBack(ctx); err != nil {
		return entity.ActionResult{}, err
	}
	return entity.ActionResult{ExtractedContent: fmt.Sprintf("Went back to %s", session.CurrentURL())}, nil
}

type SearchGoogle struct {
	logger output.LoggerPort
}

func NewSearchGoogle(logger output.LoggerPort) *SearchGoogle {
	return &SearchGoogle{logger: logger}
}

func (a *SearchGoogle) Name() string        { return "search_google" }
func (a *SearchGoogle) Description() string { return "Search Google for a query in the current tab" }
func (a *SearchGoogle) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"query": stringProp("search query"),
	}, "query")
}

func (a *SearchGoogle) Execute(ctx context.Context, params map[string]any, session output.SessionPort) (entity.ActionResult, error) {
	query, err := stringParam(params, "query")
	if err != nil {
		return entity.ActionResult{}, err
	}
	target := "https://www.google.com/search?q=" + url.QueryEscape(query)
	if err := session.Navigate(ctx, target); err != nil {
		return entity.ActionResult{}, err
	}
	return entity.ActionResult{ExtractedContent: fmt.Sprintf("Searched Google for %q", query)}, nil
}

type OpenTab struct {
	logger output.LoggerPort
}

func NewOpenTab(logger output.LoggerPort) *OpenTab {
	return &OpenTab{logger: logger}
}

func (a *OpenTab) Name() string        { return "open_tab" }
func (a *OpenTab) Description() string { return "Open a URL in a new tab and switch to it" }
func (a *OpenTab) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"url": stringProp("URL to open in the new tab"),
	}, "url")
}

func (a *OpenTab) Execute(ctx context.Context, params map[string]any, session output.SessionPort) (entity.ActionResult, error) {
	target, err := stringParam(params, "url")
	if err != nil {
		return entity.ActionResult{}, err
	}
	if err := session.OpenTab(ctx, target); err != nil {
		return entity.ActionResult{}, err
	}
	return entity.ActionResult{ExtractedContent: fmt.Sprintf("Opened new tab with %s", target)}, nil
}

type SwitchTab struct {
	logger output.LoggerPort
}

func NewSwitchTab(logger output.LoggerPort) *SwitchTab {
	return &SwitchTab{logger: logger}
}

func (a *SwitchTab) Name() string        { return "switch_tab" }
func (a *SwitchTab) Description() string { return "Switch to an open tab by its page_id" }
func (a *SwitchTab) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"page_id": integerProp("page_id of the tab, as listed in the browser state"),
	}, "page_id")
}

func (a *SwitchTab) Execute(ctx context.Context, params map[string]any, session output.SessionPort) (entity.ActionResult, error) {
	pageID, err := intParam(params, "page_id")
	if err != nil {
		return entity.ActionResult{}, err
	}
	if err := session.SwitchTab(ctx, pageID); err != nil {
		return entity.ActionResult{}, err
	}
	return entity.ActionResult{ExtractedContent: fmt.Sprintf("Switched to tab %d (%s)", pageID, session.CurrentURL())}, nil
}
