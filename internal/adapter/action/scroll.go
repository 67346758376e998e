package action

import (
	"context"
	"fmt"

	"github.com/jaeyunha/mcp-manus/internal/application/port/output"
	"github.com/jaeyunha/mcp-manus/internal/domain/entity"
)

type ScrollDown struct {
	logger output.LoggerPort
}

func NewScrollDown(logger output.LoggerPort) *ScrollDown {
	return &ScrollDown{logger: logger}
}

func (a *ScrollDown) Name() string { return "scroll_down" }
func (a *ScrollDown) Description() string {
	return "Scroll down by a pixel amount, or one page when amount is omitted"
}
func (a *ScrollDown) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"amount": integerProp("pixels to scroll, omit for one page"),
	})
}

func (a *ScrollDown) Execute(ctx context.Context, params map[string]any, session output.SessionPort) (entity.ActionResult, error) {
	amount, err := optIntParam(params, "amount", 0)
	if err != nil {
		return entity.ActionResult{}, err
	}
	if err := session.Scroll(ctx, "down", amount); err != nil {
		return entity.ActionResult{}, err
	}
	return entity.ActionResult{ExtractedContent: scrollMessage("down", amount)}, nil
}

type ScrollUp struct {
	logger output.LoggerPort
}

func NewScrollUp(logger output.LoggerPort) *ScrollUp {
	return &ScrollUp{logger: logger}
}

func (a *ScrollUp) Name() string { return "scroll_up" }
func (a *ScrollUp) Description() string {
	return "Scroll up by a pixel amount, or one page when amount is omitted"
}
func (a *ScrollUp) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"amount": integerProp("pixels to scroll, omit for one page"),
	})
}

func (a *ScrollUp) Execute(ctx context.Context, params map[string]any, session output.SessionPort) (entity.ActionResult, error) {
	amount, err := optIntParam(params, "amount", 0)
	if err != nil {
		return entity.ActionResult{}, err
	}
	if err := session.Scroll(ctx, "up", amount); err != nil {
		return entity.ActionResult{}, err
	}
	return entity.ActionResult{ExtractedContent: scrollMessage("up", amount)}, nil
}

func scrollMessage(direction string, amount int) string {
	if amount > 0 {
		return fmt.Sprintf("Scrolled %s %d pixels", direction, amount)
	}
	return fmt.Sprintf("Scrolled %s one page", direction)
}
