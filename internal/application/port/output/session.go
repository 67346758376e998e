package output

import (
	"context"

	"github.com/jaeyunha/mcp-manus/internal/domain/entity"
)

// SessionPort is the live browser session. Index-based operations
// resolve indices against the selector map of the most recent GetState.
type SessionPort interface {
	GetState(ctx context.Context) (*entity.BrowserState, error)

	Navigate(ctx context.Context, url string) error
	GoBack(ctx context.Context) error
	ClickElement(ctx context.Context, index int) error
	InputText(ctx context.Context, index int, text string) error
	SendKeys(ctx context.Context, keys string) error
	Scroll(ctx context.Context, direction string, amount int) error
	OpenTab(ctx context.Context, url string) error
	SwitchTab(ctx context.Context, pageID int) error

	PageHTML(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)

	CurrentURL() string
	Close()
}
