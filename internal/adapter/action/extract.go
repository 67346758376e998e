package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/jaeyunha/mcp-manus/internal/application/port/output"
	"github.com/jaeyunha/mcp-manus/internal/domain/entity"
)

const (
	extractChunkSize    = 8000
	extractChunkOverlap = 200
	extractMaxChunks    = 4
	extractFallbackSize = 20000
)

const extractSystemPrompt = `You extract content from web pages. ` +
	`Given a page's text and an extraction goal, return only the information ` +
	`relevant to the goal, preserving facts verbatim. If nothing matches, say so.`

// ExtractContent pulls goal-relevant content out of the current page.
// With an LLM configured the page text is chunked and summarized against
// the goal; without one the cleaned page text itself is returned.
type ExtractContent struct {
	llm    output.LLMPort
	logger output.LoggerPort
}

func NewExtractContent(llm output.LLMPort, logger output.LoggerPort) *ExtractContent {
	return &ExtractContent{llm: llm, logger: logger}
}

func (a *ExtractContent) Name() string { return "extract_content" }
func (a *ExtractContent) Description() string {
	return "Extract content from the current page for a specific goal"
}
func (a *ExtractContent) Parameters() map[string]interface{} {
	return objectSchema(map[string]interface{}{
		"goal": stringProp("what to extract from the page"),
	}, "goal")
}

func (a *ExtractContent) Execute(ctx context.Context, params map[string]any, session output.SessionPort) (entity.ActionResult, error) {
	goal, err := stringParam(params, "goal")
	if err != nil {
		return entity.ActionResult{}, err
	}

	rawHTML, err := session.PageHTML(ctx)
	if err != nil {
		return entity.ActionResult{}, err
	}
	text := htmlToText(rawHTML)
	if strings.TrimSpace(text) == "" {
		return entity.ActionResult{ExtractedContent: "Page contains no extractable text"}, nil
	}

	if a.llm == nil {
		if len(text) > extractFallbackSize {
			text = text[:extractFallbackSize] + "\n... (truncated)"
		}
		return entity.ActionResult{ExtractedContent: text}, nil
	}

	excerpt, err := a.excerpt(text)
	if err != nil {
		return entity.ActionResult{}, fmt.Errorf("split page text: %w", err)
	}

	resp, err := a.llm.Chat(ctx, output.ChatRequest{
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: extractSystemPrompt},
			{Role: entity.RoleUser, Content: fmt.Sprintf("Extraction goal: %s\n\nPage url: %s\n\nPage text:\n%s", goal, session.CurrentURL(), excerpt)},
		},
		Temperature: 0.0,
	})
	if err != nil {
		a.logger.Warn("LLM extraction failed, returning raw page text", "error", err)
		if len(text) > extractFallbackSize {
			text = text[:extractFallbackSize] + "\n... (truncated)"
		}
		return entity.ActionResult{ExtractedContent: text}, nil
	}

	return entity.ActionResult{ExtractedContent: resp.Content}, nil
}

// excerpt keeps at most extractMaxChunks splitter chunks so the request
// stays inside the model's context window.
func (a *ExtractContent) excerpt(text string) (string, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(extractChunkSize),
		textsplitter.WithChunkOverlap(extractChunkOverlap),
	)
	chunks, err := splitter.SplitText(text)
	if err != nil {
		return "", err
	}
	if len(chunks) > extractMaxChunks {
		a.logger.Debug("Page text truncated for extraction",
			"chunks", len(chunks), "kept", extractMaxChunks)
		chunks = chunks[:extractMaxChunks]
	}
	return strings.Join(chunks, "\n"), nil
}
