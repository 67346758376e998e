package di

import (
	"context"
	"fmt"
	"time"

	"github.com/jaeyunha/mcp-manus/internal/adapter/action"
	"github.com/jaeyunha/mcp-manus/internal/adapter/mcpserver"
	"github.com/jaeyunha/mcp-manus/internal/application/port/output"
	"github.com/jaeyunha/mcp-manus/internal/application/service"
	"github.com/jaeyunha/mcp-manus/internal/infrastructure/browser/rod"
	"github.com/jaeyunha/mcp-manus/internal/infrastructure/debughttp"
	"github.com/jaeyunha/mcp-manus/internal/infrastructure/llm/openrouter"
	"github.com/jaeyunha/mcp-manus/internal/infrastructure/logger"
	"github.com/jaeyunha/mcp-manus/internal/usecase/executor"
)

const shutdownTimeout = 5 * time.Second

type Container struct {
	Session output.SessionPort
	Logger  output.LoggerPort
	Server  *mcpserver.Server

	debug *debughttp.Server
}

type Config struct {
	BrowserHeadless  bool
	WindowWidth      int
	WindowHeight     int
	RecordingsDir    string
	OpenRouterAPIKey string
	OpenRouterModel  string
	DebugHTTPAddr    string
	DebugLogging     bool
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewZapAdapter(cfg.DebugLogging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.BrowserHeadless
	if cfg.WindowWidth > 0 {
		browserCfg.WindowWidth = cfg.WindowWidth
	}
	if cfg.WindowHeight > 0 {
		browserCfg.WindowHeight = cfg.WindowHeight
	}
	if cfg.RecordingsDir != "" {
		browserCfg.RecordingsDir = cfg.RecordingsDir
	}
	session, err := rod.NewSession(ctx, browserCfg, log)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser session: %w", err)
	}

	// Extraction degrades to raw page text when no API key is set.
	var llm output.LLMPort
	if cfg.OpenRouterAPIKey != "" {
		llmCfg := openrouter.DefaultConfig(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
		llmCfg.Logger = log
		llm = openrouter.NewOpenRouterAdapter(llmCfg)
	} else {
		log.Warn("OPENROUTER_API_KEY not set, extract_content falls back to page text")
	}

	registry := service.NewActionRegistry(log)
	action.RegisterDefaults(registry, llm, browserCfg.RecordingsDir, log)

	uc := executor.New(registry, session, log)
	srv := mcpserver.NewServer(session, registry, uc, log)

	c := &Container{
		Session: session,
		Logger:  log,
		Server:  srv,
	}

	if cfg.DebugHTTPAddr != "" {
		c.debug = debughttp.NewServer(cfg.DebugHTTPAddr, func(ctx context.Context) (map[string]any, error) {
			state, err := session.GetState(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"url":      state.URL,
				"title":    state.Title,
				"tabs":     state.Tabs,
				"elements": len(state.SelectorMap),
			}, nil
		}, log)
		c.debug.Start()
	}

	return c, nil
}

func (c *Container) Close() {
	if c.debug != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		c.debug.Shutdown(ctx)
		cancel()
	}
	if c.Session != nil {
		c.Session.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
