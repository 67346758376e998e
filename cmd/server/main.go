package main

import (
	"context"
	"log"
	"os"

	"github.com/jaeyunha/mcp-manus/internal/di"
	"github.com/jaeyunha/mcp-manus/internal/infrastructure/env"
)

func main() {
	// log goes to stderr; stdout belongs to the MCP transport.
	log.SetOutput(os.Stderr)

	envService := env.NewEnvService()

	ctx := context.Background()

	container, err := di.NewContainer(ctx, di.Config{
		BrowserHeadless:  envService.GetBool("BROWSER_HEADLESS", true),
		WindowWidth:      envService.GetInt("BROWSER_WINDOW_WIDTH", 0),
		WindowHeight:     envService.GetInt("BROWSER_WINDOW_HEIGHT", 0),
		RecordingsDir:    envService.Get("RECORDINGS_DIR"),
		OpenRouterAPIKey: envService.Get("OPENROUTER_API_KEY"),
		OpenRouterModel:  envService.Get("OPENROUTER_MODEL_NAME"),
		DebugHTTPAddr:    envService.Get("DEBUG_HTTP_ADDR"),
		DebugLogging:     envService.Get("APP_ENV") == "dev",
	})
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}
	defer container.Close()

	container.Logger.Info("serving MCP over stdio")

	// ServeStdio returns when the client closes the transport or the
	// process receives an interrupt.
	if err := container.Server.Serve(); err != nil {
		container.Logger.Error("server stopped", "error", err)
		container.Close()
		os.Exit(1)
	}
}
