// Package backend implements the machine-translation services that fill in
// catalog entries: Google Cloud Translation v2 and OpenAI-compatible chat
// endpoints, plus a skip backend for dry runs.
//
// Every backend guarantees positional correspondence: the returned slice has
// exactly the same length and order as the input, across any internal
// batching. A count mismatch from the service is an error, never padded or
// truncated, because the caller re-applies translations by position.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Provider IDs accepted by New.
const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
	ProviderSkip   = "skip"
)

// Backend translates an ordered list of strings from sourceLang to
// targetLang, returning the translations in the same order.
type Backend interface {
	Translate(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error)
}

// Config holds the settings shared by all backends.
type Config struct {
	// Provider selects the backend: google, openai, skip.
	Provider string
	// APIKey authenticates against the service.
	APIKey string
	// Model is the model identifier (OpenAI-compatible endpoints only).
	Model string
	// BaseURL overrides the service endpoint.
	BaseURL string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout is the per-request timeout.
	Timeout time.Duration
	// MaxRetries bounds retries on rate limits and server errors.
	MaxRetries int
	// ChunkSize is how many strings to send per request (0 = backend default).
	ChunkSize int
	// Verbose enables request-level debug logging.
	Verbose bool
}

func (c Config) effectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 60 * time.Second
}

func (c Config) effectiveMaxRetries() int {
	if c.MaxRetries > 0 {
		return c.MaxRetries
	}
	return 3
}

// New returns the backend selected by cfg.Provider.
func New(cfg Config) (Backend, error) {
	switch cfg.Provider {
	case ProviderGoogle, "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("google backend requires an API key")
		}
		return &googleBackend{cfg: cfg}, nil
	case ProviderOpenAI:
		if cfg.Model == "" {
			return nil, fmt.Errorf("openai backend requires --model")
		}
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("openai backend requires --base-url")
		}
		return &openAIBackend{cfg: cfg}, nil
	case ProviderSkip:
		return skipBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q (expected google, openai or skip)", cfg.Provider)
	}
}

// ---------------------------------------------------------------------------
// HTTP plumbing
// ---------------------------------------------------------------------------

func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	// Support both --proxy and the HTTP_PROXY/HTTPS_PROXY env vars
	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// parseRetryDelay extracts the server-specified retry delay from a 429
// response body (Google-style RetryInfo details), with a padded default.
func parseRetryDelay(body []byte) time.Duration {
	const defaultDelay = 65 * time.Second // 60s + 5s buffer

	var errResp struct {
		Error struct {
			Details []struct {
				Type       string `json:"@type"`
				RetryDelay string `json:"retryDelay"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return defaultDelay
	}

	for _, detail := range errResp.Error.Details {
		if strings.Contains(detail.Type, "RetryInfo") && detail.RetryDelay != "" {
			d := strings.TrimSuffix(detail.RetryDelay, "s")
			if secs, err := strconv.ParseFloat(d, 64); err == nil {
				return time.Duration(secs*1000)*time.Millisecond + 5*time.Second
			}
		}
	}
	return defaultDelay
}

// post sends a JSON request and returns the response body, retrying on
// transport errors, 5xx, and 429 (honoring the server's retry delay).
func post(ctx context.Context, cfg Config, endpoint string, headers map[string]string, body []byte) ([]byte, error) {
	client := makeHTTPClient(cfg.Proxy, cfg.effectiveTimeout())
	maxRetries := cfg.effectiveMaxRetries()

	for attempt := 0; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		if cfg.Verbose {
			log.Printf("[DEBUG] attempt %d: POST %s", attempt+1, endpoint)
		}

		resp, err := client.Do(req)
		if err != nil {
			if attempt < maxRetries {
				wait := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(wait):
				}
				continue
			}
			return nil, fmt.Errorf("API request failed: %w", err)
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			retryDelay := parseRetryDelay(respBody)
			if cfg.Verbose {
				log.Printf("[WARN] 429 rate limited, waiting %v (attempt %d/%d)", retryDelay, attempt+1, maxRetries)
			}
			if attempt < maxRetries {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(retryDelay):
				}
				continue
			}
			return nil, fmt.Errorf("rate limited after %d retries: %s", maxRetries, truncate(string(respBody), 500))
		}

		if resp.StatusCode != http.StatusOK {
			if attempt < maxRetries && resp.StatusCode >= 500 {
				wait := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(wait):
				}
				continue
			}
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(respBody), 500))
		}

		return respBody, nil
	}

	return nil, fmt.Errorf("exhausted all %d retries", maxRetries)
}

// splitStrings divides texts into chunks of the given size.
func splitStrings(texts []string, chunkSize int) [][]string {
	if chunkSize <= 0 || chunkSize >= len(texts) {
		return [][]string{texts}
	}
	var chunks [][]string
	for i := 0; i < len(texts); i += chunkSize {
		end := i + chunkSize
		if end > len(texts) {
			end = len(texts)
		}
		chunks = append(chunks, texts[i:end])
	}
	return chunks
}

// truncate truncates a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// ---------------------------------------------------------------------------
// Skip backend (dry runs)
// ---------------------------------------------------------------------------

type skipBackend struct{}

// Translate returns the inputs unchanged without touching the network.
func (skipBackend) Translate(_ context.Context, texts []string, _, _ string) ([]string, error) {
	out := make([]string, len(texts))
	copy(out, texts)
	return out, nil
}
