package rod

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/jaeyunha/mcp-manus/internal/application/port/output"
	"github.com/jaeyunha/mcp-manus/internal/domain/entity"
)

var _ output.SessionPort = (*Session)(nil)

type Config struct {
	Headless      bool
	SlowMotion    time.Duration
	Timeout       time.Duration
	NoSandbox     bool
	DevTools      bool
	WindowWidth   int
	WindowHeight  int
	RecordingsDir string
}

func DefaultConfig() Config {
	return Config{
		Headless:      false,
		SlowMotion:    0,
		Timeout:       10 * time.Second,
		NoSandbox:     true,
		DevTools:      false,
		WindowWidth:   1280,
		WindowHeight:  1100,
		RecordingsDir: "./tmp/recordings",
	}
}

// Session owns one Chromium process and one current page for the whole
// server run. Index-based operations resolve against the selector map
// cached by the most recent GetState.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	cfg      Config
	logger   output.LoggerPort

	mu        sync.Mutex
	page      *rod.Page
	lastState *entity.BrowserState
}

func NewSession(ctx context.Context, cfg Config, logger output.LoggerPort) (*Session, error) {
	if cfg.RecordingsDir != "" {
		if err := os.MkdirAll(cfg.RecordingsDir, 0755); err != nil {
			return nil, fmt.Errorf("create recordings dir: %w", err)
		}
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-web-security").
		Set("allow-running-insecure-content").
		Set("disable-setuid-sandbox").
		Set("window-size", fmt.Sprintf("%d,%d", cfg.WindowWidth, cfg.WindowHeight))

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		SlowMotion(cfg.SlowMotion).
		MustConnect()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open initial page: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.WindowWidth,
		Height:            cfg.WindowHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		logger.Warn("Failed to set viewport", "error", err)
	}

	return &Session{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

func (s *Session) RecordingsDir() string {
	return s.cfg.RecordingsDir
}

// GetState harvests the current page into a fresh BrowserState and
// caches it so later index-based actions resolve against the same
// elements the caller saw.
func (s *Session) GetState(ctx context.Context) (*entity.BrowserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.page.Info()
	if err != nil {
		return nil, fmt.Errorf("read page info: %w", err)
	}

	selectorMap, err := s.harvest(ctx)
	if err != nil {
		return nil, fmt.Errorf("harvest interactive elements: %w", err)
	}

	state := &entity.BrowserState{
		URL:         info.URL,
		Title:       info.Title,
		Tabs:        s.tabs(),
		SelectorMap: selectorMap,
	}
	s.lastState = state
	return state, nil
}

func (s *Session) tabs() []entity.TabInfo {
	pages, err := s.browser.Pages()
	if err != nil {
		s.logger.Warn("Failed to list tabs", "error", err)
		return nil
	}
	tabs := make([]entity.TabInfo, 0, len(pages))
	for i, p := range pages {
		info, err := p.Info()
		if err != nil {
			continue
		}
		tabs = append(tabs, entity.TabInfo{PageID: i, URL: info.URL, Title: info.Title})
	}
	return tabs
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !strings.Contains(url, "://") {
		url = "https://" + url
	}
	if err := s.page.Context(ctx).Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := s.page.Context(ctx).WaitLoad(); err != nil {
		return fmt.Errorf("page did not finish loading: %w", err)
	}
	s.page.WaitIdle(5 * time.Second)
	s.lastState = nil
	return nil
}

func (s *Session) GoBack(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.page.Context(ctx).NavigateBack(); err != nil {
		return fmt.Errorf("history back failed: %w", err)
	}
	if err := s.page.Context(ctx).WaitLoad(); err != nil {
		return fmt.Errorf("page did not finish loading: %w", err)
	}
	s.lastState = nil
	return nil
}

func (s *Session) ClickElement(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, err := s.resolve(ctx, index)
	if err != nil {
		return err
	}
	if err := el.ScrollIntoView(); err != nil {
		s.logger.Debug("Scroll into view failed", "index", index, "error", err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click on element %d failed: %w", index, err)
	}
	s.page.WaitIdle(2 * time.Second)
	return nil
}

func (s *Session) InputText(ctx context.Context, index int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, err := s.resolve(ctx, index)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input into element %d failed: %w", index, err)
	}
	return nil
}

var namedKeys = map[string]string{
	"Enter":  "\r",
	"Return": "\r",
	"Tab":    "\t",
}

func (s *Session) SendKeys(ctx context.Context, keys string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq, ok := namedKeys[keys]; ok {
		el, err := s.page.Context(ctx).Timeout(s.timeout).Element("body")
		if err != nil {
			return fmt.Errorf("no body element to receive keys: %w", err)
		}
		if err := el.Input(seq); err != nil {
			return fmt.Errorf("send %s failed: %w", keys, err)
		}
		s.page.WaitIdle(2 * time.Second)
		return nil
	}

	if err := s.page.Context(ctx).InsertText(keys); err != nil {
		return fmt.Errorf("insert text failed: %w", err)
	}
	return nil
}

func (s *Session) Scroll(ctx context.Context, direction string, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// amount 0 means one viewport page.
	js := `(px, page) => {
		const delta = px > 0 ? px : Math.round(window.innerHeight * 0.9);
		window.scrollBy(0, page === "up" ? -delta : delta);
		return window.scrollY;
	}`
	if _, err := s.page.Context(ctx).Eval(js, amount, direction); err != nil {
		return fmt.Errorf("scroll %s failed: %w", direction, err)
	}
	return nil
}

func (s *Session) OpenTab(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return fmt.Errorf("open tab failed: %w", err)
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		s.logger.Warn("New tab did not finish loading", "url", url, "error", err)
	}
	s.page = page
	s.lastState = nil
	return nil
}

func (s *Session) SwitchTab(ctx context.Context, pageID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pages, err := s.browser.Pages()
	if err != nil {
		return fmt.Errorf("list tabs failed: %w", err)
	}
	if pageID < 0 || pageID >= len(pages) {
		return fmt.Errorf("no tab with page_id %d, %d tabs open", pageID, len(pages))
	}
	page, err := pages[pageID].Activate()
	if err != nil {
		return fmt.Errorf("activate tab %d failed: %w", pageID, err)
	}
	s.page = page
	s.lastState = nil
	return nil
}

func (s *Session) PageHTML(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}

func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	img, err := s.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return img, nil
}

func (s *Session) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
	}
}

// resolve maps an element index to a live element through the selector
// map of the last harvested state. Callers must hold s.mu.
func (s *Session) resolve(ctx context.Context, index int) (*rod.Element, error) {
	if s.lastState == nil {
		return nil, fmt.Errorf("no browser state available, call get_browser_state first")
	}
	domEl, ok := s.lastState.SelectorMap[index]
	if !ok {
		return nil, fmt.Errorf("element index %d not found in current state (%d elements), fetch the browser state again",
			index, len(s.lastState.SelectorMap))
	}
	el, err := s.page.Context(ctx).Timeout(s.timeout).Element(domEl.Selector)
	if err != nil {
		return nil, fmt.Errorf("element %d (%s) is no longer on the page: %w", index, domEl.Selector, err)
	}
	return el, nil
}
