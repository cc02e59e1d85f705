package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// googleMaxBatch is the Cloud Translation v2 per-request limit on the number
// of q parameters.
const googleMaxBatch = 128

const googleDefaultBaseURL = "https://translation.googleapis.com"

// googleBackend calls the Cloud Translation v2 REST API.
type googleBackend struct {
	cfg Config
}

type googleRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source,omitempty"`
	Target string   `json:"target"`
	Format string   `json:"format"`
}

type googleResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

func (g *googleBackend) endpoint() string {
	base := g.cfg.BaseURL
	if base == "" {
		base = googleDefaultBaseURL
	}
	return strings.TrimRight(base, "/") + "/language/translate/v2"
}

// Translate sends texts in batches of at most googleMaxBatch strings and
// concatenates the results in order.
func (g *googleBackend) Translate(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	chunkSize := g.cfg.ChunkSize
	if chunkSize <= 0 || chunkSize > googleMaxBatch {
		chunkSize = googleMaxBatch
	}

	out := make([]string, 0, len(texts))
	for _, chunk := range splitStrings(texts, chunkSize) {
		translated, err := g.translateChunk(ctx, chunk, targetLang, sourceLang)
		if err != nil {
			return nil, err
		}
		out = append(out, translated...)
	}
	return out, nil
}

func (g *googleBackend) translateChunk(ctx context.Context, chunk []string, targetLang, sourceLang string) ([]string, error) {
	// format=text keeps the response unescaped; the default HTML mode would
	// entity-encode quotes and ampersands in msgids.
	body, err := json.Marshal(googleRequest{
		Q:      chunk,
		Source: sourceLang,
		Target: targetLang,
		Format: "text",
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	headers := map[string]string{"X-Goog-Api-Key": g.cfg.APIKey}
	respBody, err := post(ctx, g.cfg, g.endpoint(), headers, body)
	if err != nil {
		return nil, err
	}

	var resp googleResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	if got := len(resp.Data.Translations); got != len(chunk) {
		return nil, fmt.Errorf("google returned %d translations for %d strings", got, len(chunk))
	}

	out := make([]string, len(chunk))
	for i, t := range resp.Data.Translations {
		out[i] = t.TranslatedText
	}
	return out, nil
}
