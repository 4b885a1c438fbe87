package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/justsurfingit/jobly/internal/config"
	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/logging"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// maxPostingBytes caps how much of a posting is sent to the model.
const maxPostingBytes = 20000

const jobExtractionPrompt = `
You are a Job Data Extraction Agent. Analyze the job posting below and extract structured data.

### INSTRUCTIONS:
1. Ignore navigation menus, footers, "similar jobs" lists and advertisements.
2. Output valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "title": "Job title (e.g., Senior Backend Engineer)",
    "salary": 120000,
    "equity": "0.05"
}

### CONSTRAINTS:
- "salary" is a yearly integer amount or null if not stated.
- "equity" is a decimal string between 0 and 1 or null if not stated.
- Do not guess missing values.

### RAW CONTENT:
%s
`

// LLMService turns free-text job postings into job drafts.
type LLMService struct {
	Client llms.Model
}

// NewLLMService builds a Gemini-backed extractor.
func NewLLMService(ctx context.Context, cfg config.LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is empty")
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.APIKey),
		googleai.WithDefaultModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &LLMService{Client: llm}, nil
}

// truncatePosting cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncatePosting(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// ExtractJob asks the model for the title, salary and equity in rawText.
func (s *LLMService) ExtractJob(ctx context.Context, rawText string) (*dtos.JobDraft, error) {
	rawText = truncatePosting(rawText, maxPostingBytes)

	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, fmt.Sprintf(jobExtractionPrompt, rawText))
	if err != nil {
		return nil, fmt.Errorf("llm extraction failed: %w", err)
	}

	var draft dtos.JobDraft
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &draft); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("raw", resp).Msg("unparseable llm response")
		return nil, fmt.Errorf("llm returned invalid JSON: %w", err)
	}
	return &draft, nil
}

// stripCodeFence removes a ```json ... ``` wrapper models add despite
// being told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
