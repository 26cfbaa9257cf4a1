package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"honeynet-lab/internal/domain/models"
	"honeynet-lab/pkg/logger"
)

// LLMClient provides access to large language model APIs
type LLMClient struct {
	httpClient *http.Client
	logger     *logger.Logger
	config     LLMConfig
}

// LLMConfig holds LLM client configuration
type LLMConfig struct {
	Provider     string // claude, openai
	ClaudeAPIKey string
	OpenAIAPIKey string
	Model        string // claude-3-sonnet-20240229, gpt-4-turbo, etc.
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
}

// NewLLMClient creates a new LLM client
func NewLLMClient(cfg LLMConfig, log *logger.Logger) *LLMClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.8
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 400
	}
	if cfg.Model == "" {
		if cfg.Provider == "claude" {
			cfg.Model = "claude-3-sonnet-20240229"
		} else {
			cfg.Model = "gpt-4-turbo"
		}
	}

	return &LLMClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log.WithComponent("llm-client"),
		config: cfg,
	}
}

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionResponse represents a completion response
type CompletionResponse struct {
	Content    string `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Chat sends a chat exchange and returns the response text.
func (c *LLMClient) Chat(ctx context.Context, system string, messages []Message) (string, error) {
	var response *CompletionResponse
	var err error

	switch c.config.Provider {
	case "claude":
		response, err = c.callClaude(ctx, system, messages)
	case "openai":
		response, err = c.callOpenAI(ctx, system, messages)
	default:
		return "", fmt.Errorf("unsupported LLM provider: %s", c.config.Provider)
	}

	if err != nil {
		return "", err
	}
	return stripWrappingQuotes(strings.TrimSpace(response.Content)), nil
}

// ExtractIntelligence asks the model to pull identifying artifacts out of
// scammer messages, returning wire-named lists. Returns an error when the
// backend fails or the response is not parseable; callers treat the result
// as best-effort.
func (c *LLMClient) ExtractIntelligence(ctx context.Context, scammerMessages []string) (*models.WireIntelligence, error) {
	combined := strings.Builder{}
	for _, m := range scammerMessages {
		if strings.TrimSpace(m) == "" {
			continue
		}
		combined.WriteString("- ")
		combined.WriteString(m)
		combined.WriteString("\n")
	}

	userPrompt := fmt.Sprintf(
		"Extract ALL identifying information from these scammer messages:\n\n%s\nReturn ONLY the JSON object. Empty lists for fields with nothing found.",
		combined.String(),
	)

	raw, err := c.Chat(ctx, extractionSystemPrompt, []Message{{Role: "user", Content: userPrompt}})
	if err != nil {
		return nil, err
	}

	intel := models.NewWireIntelligence()
	if err := json.Unmarshal([]byte(extractJSON(raw)), intel); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	return intel, nil
}

// extractionSystemPrompt instructs the model to act as a forensic extractor.
const extractionSystemPrompt = `You are a forensic intelligence extractor analyzing scammer messages.
Extract ALL identifying information from the text.

Extract EVERYTHING - even partial, informal, or unusual formats:
- Phone numbers (written as digits, words, or mixed)
- Bank account numbers (10-18 digits)
- UPI IDs (format: anything@anything)
- Suspicious URLs / phishing links
- Email addresses
- Case/reference/ticket IDs
- Policy numbers
- Order/tracking numbers

RULES:
- Be AGGRESSIVE - extract anything that could be identifying information
- UPI IDs ALWAYS have format: username@provider (e.g. scammer@fakebank, fraud@upi)
- Output ONLY valid JSON, no markdown, no explanation

Output this exact JSON structure:
{
  "phoneNumbers": [],
  "bankAccounts": [],
  "upiIds": [],
  "phishingLinks": [],
  "emailAddresses": [],
  "caseIds": [],
  "policyNumbers": [],
  "orderNumbers": []
}`

// callClaude makes a request to Claude API
func (c *LLMClient) callClaude(ctx context.Context, system string, messages []Message) (*CompletionResponse, error) {
	url := "https://api.anthropic.com/v1/messages"

	claudeMessages := make([]map[string]interface{}, len(messages))
	for i, msg := range messages {
		claudeMessages[i] = map[string]interface{}{
			"role": msg.Role,
			"content": []map[string]string{
				{"type": "text", "text": msg.Content},
			},
		}
	}

	reqBody := map[string]interface{}{
		"model":       c.config.Model,
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
		"system":      system,
		"messages":    claudeMessages,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.config.ClaudeAPIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Claude API error %d: %s", resp.StatusCode, string(body))
	}

	var claudeResp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		StopReason string `json:"stop_reason"`
		Usage      struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return nil, err
	}

	var content string
	for _, part := range claudeResp.Content {
		if part.Type == "text" {
			content += part.Text
		}
	}

	return &CompletionResponse{
		Content:    content,
		StopReason: claudeResp.StopReason,
		Usage: struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		}{
			InputTokens:  claudeResp.Usage.InputTokens,
			OutputTokens: claudeResp.Usage.OutputTokens,
		},
	}, nil
}

// callOpenAI makes a request to OpenAI API
func (c *LLMClient) callOpenAI(ctx context.Context, system string, messages []Message) (*CompletionResponse, error) {
	url := "https://api.openai.com/v1/chat/completions"

	openAIMessages := []map[string]interface{}{
		{"role": "system", "content": system},
	}
	for _, msg := range messages {
		openAIMessages = append(openAIMessages, map[string]interface{}{
			"role":    msg.Role,
			"content": msg.Content,
		})
	}

	reqBody := map[string]interface{}{
		"model":       c.config.Model,
		"max_tokens":  c.config.MaxTokens,
		"temperature": c.config.Temperature,
		"messages":    openAIMessages,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.OpenAIAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAI API error %d: %s", resp.StatusCode, string(body))
	}

	var openAIResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(body, &openAIResp); err != nil {
		return nil, err
	}

	if len(openAIResp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return &CompletionResponse{
		Content:    openAIResp.Choices[0].Message.Content,
		StopReason: openAIResp.Choices[0].FinishReason,
		Usage: struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		}{
			InputTokens:  openAIResp.Usage.PromptTokens,
			OutputTokens: openAIResp.Usage.CompletionTokens,
		},
	}, nil
}

// extractJSON trims markdown fences and isolates the outermost JSON object.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	startIdx := strings.Index(content, "{")
	endIdx := strings.LastIndex(content, "}")
	if startIdx != -1 && endIdx != -1 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}
	return content
}

func stripWrappingQuotes(text string) string {
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[0] == text[len(text)-1] {
		return text[1 : len(text)-1]
	}
	return text
}
