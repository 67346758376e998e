package action

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/jaeyunha/mcp-manus/internal/application/port/output"
	"github.com/jaeyunha/mcp-manus/internal/domain/entity"
)

const screenshotMaxWidth = 1024

// Screenshot captures the full page, downscales it and writes it under
// the recordings directory.
type Screenshot struct {
	dir    string
	logger output.LoggerPort
}

func NewScreenshot(dir string, logger output.LoggerPort) *Screenshot {
	return &Screenshot{dir: dir, logger: logger}
}

func (a *Screenshot) Name() string { return "screenshot" }
func (a *Screenshot) Description() string {
	return "Capture a full-page screenshot and save it to the recordings directory"
}
func (a *Screenshot) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"filename": stringProp("optional file name, defaults to a timestamp"),
	})
}

func (a *Screenshot) Execute(ctx context.Context, params map[string]any, session output.SessionPort) (entity.ActionResult, error) {
	name, err := optStringParam(params, "filename", "")
	if err != nil {
		return entity.ActionResult{}, err
	}
	if name == "" {
		name = time.Now().Format("2006-01-02_15-04-05") + ".jpg"
	}

	raw, err := session.Screenshot(ctx)
	if err != nil {
		return entity.ActionResult{}, err
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return entity.ActionResult{}, fmt.Errorf("decode screenshot: %w", err)
	}
	if img.Bounds().Dx() > screenshotMaxWidth {
		img = imaging.Resize(img, screenshotMaxWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return entity.ActionResult{}, fmt.Errorf("encode screenshot: %w", err)
	}

	path := filepath.Join(a.dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return entity.ActionResult{}, fmt.Errorf("write screenshot: %w", err)
	}

	a.logger.Info("Screenshot saved", "path", path, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return entity.ActionResult{ExtractedContent: fmt.Sprintf("Screenshot saved to %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())}, nil
}
