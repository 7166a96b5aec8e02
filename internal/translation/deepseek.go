// internal/translation/deepseek.go
package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/toynews-backend/internal/config"
)

// DeepSeekTranslator translates Japanese to Chinese through the DeepSeek
// OpenAI-compatible chat-completion API. Texts are batched into one prompt
// as a numbered list and the numbered answer is parsed back out.
type DeepSeekTranslator struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const translateSystemPrompt = "You are a helpful assistant that translates Japanese text to Chinese. " +
	"Please translate each text separately and maintain the numbering. " +
	"Return only the translations, one per line, with the same numbering format: '1. translation', '2. translation', etc."

func NewDeepSeekTranslator(cfg config.TranslatorConfig) (*DeepSeekTranslator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("deepseek: API key is required")
	}

	return &DeepSeekTranslator{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}, nil
}

// TranslateBatch sends all texts in one numbered prompt. The returned slice
// may be shorter than the input when the model skips entries; the caller is
// responsible for repairing the mismatch. Overlong answers are truncated.
func (t *DeepSeekTranslator) TranslateBatch(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var prompt strings.Builder
	for i, text := range texts {
		if i > 0 {
			prompt.WriteString("\n---\n")
		}
		prompt.WriteString(fmt.Sprintf("%d. %s", i+1, text))
	}

	reqBody := chatCompletionRequest{
		Model:       t.model,
		Temperature: t.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: translateSystemPrompt},
			{Role: "user", Content: "Translate the following texts from Japanese to Chinese, keeping the same numbering format:\n" + prompt.String()},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("deepseek: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("deepseek: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepseek: call API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("deepseek: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deepseek: API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("deepseek: decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("deepseek: empty response")
	}

	translations := parseNumberedList(completion.Choices[0].Message.Content)
	if len(translations) > len(texts) {
		logrus.WithFields(logrus.Fields{
			"expected": len(texts),
			"got":      len(translations),
		}).Warn("Translator returned extra lines, truncating")
		translations = translations[:len(texts)]
	}
	return translations, nil
}

// parseNumberedList extracts "N. text" lines in order, skipping separators
// and anything that does not look like a numbered entry.
func parseNumberedList(response string) []string {
	var translations []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "---" {
			continue
		}

		dot := strings.Index(line, ". ")
		if dot <= 0 {
			continue
		}
		if _, err := strconv.Atoi(line[:dot]); err != nil {
			continue
		}

		translation := strings.TrimSpace(line[dot+2:])
		if translation != "" {
			translations = append(translations, translation)
		}
	}
	return translations
}
