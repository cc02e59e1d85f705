package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// openAISystemPrompt instructs the model to behave like a plain translation
// service. The humanized __token__ placeholders arrive pre-protected, but
// the prompt still pins down whitespace and output shape.
const openAISystemPrompt = `You are a translation service for software message catalogs.
Translate each input string from %s to %s.

REQUIREMENTS:
- Return ONLY a JSON array of translated strings, one per input, in the same order.
- Keep tokens of the form __word__ exactly as-is.
- Preserve leading/trailing whitespace and newlines.
- Keep brand names and proper nouns unchanged.
- Return ONLY the JSON array, no explanations or markdown code blocks.`

// openAIDefaultChunk bounds how many strings go into one chat request;
// large prompts make models drop or merge array elements.
const openAIDefaultChunk = 50

// openAIBackend calls an OpenAI-compatible chat completions endpoint.
type openAIBackend struct {
	cfg Config
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (o *openAIBackend) endpoint() string {
	base := strings.TrimRight(o.cfg.BaseURL, "/")
	if strings.HasSuffix(base, "/chat/completions") {
		return base
	}
	return base + "/chat/completions"
}

// Translate sends texts in chunks and concatenates the results in order.
func (o *openAIBackend) Translate(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	chunkSize := o.cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = openAIDefaultChunk
	}

	out := make([]string, 0, len(texts))
	for _, chunk := range splitStrings(texts, chunkSize) {
		translated, err := o.translateChunk(ctx, chunk, targetLang, sourceLang)
		if err != nil {
			return nil, err
		}
		out = append(out, translated...)
	}
	return out, nil
}

func (o *openAIBackend) translateChunk(ctx context.Context, chunk []string, targetLang, sourceLang string) ([]string, error) {
	var userMsg strings.Builder
	userMsg.WriteString("Translate these strings:\n\n")
	for i, s := range chunk {
		userMsg.WriteString(fmt.Sprintf("%d. %s\n", i+1, escapeForPrompt(s)))
	}
	userMsg.WriteString(fmt.Sprintf("\nReturn a JSON array with exactly %d translated strings.", len(chunk)))

	body, err := json.Marshal(chatRequest{
		Model: o.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: fmt.Sprintf(openAISystemPrompt, sourceLang, targetLang)},
			{Role: "user", Content: userMsg.String()},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	headers := map[string]string{}
	if o.cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + o.cfg.APIKey
	}

	respBody, err := post(ctx, o.cfg, o.endpoint(), headers, body)
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("API error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from model")
	}

	translations, err := parseTranslationArray(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if len(translations) != len(chunk) {
		return nil, fmt.Errorf("model returned %d translations for %d strings", len(translations), len(chunk))
	}
	return translations, nil
}

var markdownCodeBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// parseTranslationArray extracts a JSON array of strings from model output,
// tolerating markdown code fences and surrounding prose.
func parseTranslationArray(content string) ([]string, error) {
	content = strings.TrimSpace(content)

	if m := markdownCodeBlock.FindStringSubmatch(content); len(m) > 1 {
		content = m[1]
	}

	startIdx := strings.Index(content, "[")
	endIdx := strings.LastIndex(content, "]")
	if startIdx >= 0 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}

	var translations []string
	if err := json.Unmarshal([]byte(content), &translations); err != nil {
		return nil, fmt.Errorf("failed to parse translation response as JSON array: %w\nResponse: %s", err, truncate(content, 300))
	}
	return translations, nil
}

func escapeForPrompt(s string) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return `"` + s + `"`
}
