package action

import (
	"context"
	"fmt"

	"github.com/jaeyunha/mcp-manus/internal/application/port/output"
	"github.com/jaeyunha/mcp-manus/internal/domain/entity"
)

type ClickElement struct {
	logger output.LoggerPort
}

func NewClickElement(logger output.LoggerPort) *ClickElement {
	return &ClickElement{logger: logger}
}

func (a *ClickElement) Name() string { return "click_element" }
func (a *ClickElement) Description() string {
	return "Click an interactive element by its index from the browser state"
}
func (a *ClickElement) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"index": integerProp("element index, as listed in the browser state"),
	}, "index")
}

func (a *ClickElement) Execute(ctx context.Context, params map[string]any, session output.SessionPort) (entity.ActionResult, error) {
	index, err := intParam(params, "index")
	if err != nil {
		return entity.ActionResult{}, err
	}
	if err := session.ClickElement(ctx, index); err != nil {
		return entity.ActionResult{}, err
	}
	return entity.ActionResult{ExtractedContent: fmt.Sprintf("Clicked element with index %d", index)}, nil
}

type InputText struct {
	logger output.LoggerPort
}

func NewInputText(logger output.LoggerPort) *InputText {
	return &InputText{logger: logger}
}

func (a *InputText) Name() string { return "input_text" }
func (a *InputText) Description() string {
	return "Clear an input element by its index and type text into it"
}
func (a *InputText) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"index": integerProp("element index, as listed in the browser state"),
		"text":  stringProp("text to type"),
	}, "index", "text")
}

func (a *InputText) Execute(ctx context.Context, params map[string]any, session output.SessionPort) (entity.ActionResult, error) {
	index, err := intParam(params, "index")
	if err != nil {
		return entity.ActionResult{}, err
	}
	text, err := stringParam(params, "text")
	if err != nil {
		return entity.ActionResult{}, err
	}
	if err := session.InputText(ctx, index, text); err != nil {
		return entity.ActionResult{}, err
	}
	return entity.ActionResult{ExtractedContent: fmt.Sprintf("Input %q into element with index %d", text, index)}, nil
}

type SendKeys struct {
	logger output.LoggerPort
}

func NewSendKeys(logger output.LoggerPort) *SendKeys {
	return &SendKeys{logger: logger}
}

func (a *SendKeys) Name() string { return "send_keys" }
func (a *SendKeys) Description() string {
	return "Send keyboard input to the page, e.g. Enter to submit a form"
}
func (a *SendKeys) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"keys": stringProp(`keys to send: a named key ("Enter", "Tab") or literal text`),
	}, "keys")
}

func (a *SendKeys) Execute(ctx context.Context, params map[string]any, session output.SessionPort) (entity.ActionResult, error) {
	keys, err := stringParam(params, "keys")
	if err != nil {
		return entity.ActionResult{}, err
	}
	if err := session.SendKeys(ctx, keys); err != nil {
		return entity.ActionResult{}, err
	}
	return entity.ActionResult{ExtractedContent: fmt.Sprintf("Sent keys %q", keys)}, nil
}
