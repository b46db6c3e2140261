package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/zw021029/know-more-about-our-futures/internal/model"
	"github.com/zw021029/know-more-about-our-futures/internal/util"
)

// httpClassifier talks to an inference server exposing the fine-tuned
// sentence classifier over a small JSON API.
type httpClassifier struct {
	baseURL    string
	httpClient *http.Client
	limiter    Limiter
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Probs []float64 `json:"probs"`
	Error string    `json:"error,omitempty"`
}

func newHTTPClassifier(cfg model.EnsembleConfig, endpoint string, proxy model.ProxyConfig, limiter Limiter) *httpClassifier {
	baseURL := endpoint
	if baseURL == "" {
		baseURL = cfg.Endpoint
	}
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	return &httpClassifier{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: util.NewHTTPClient(cfg.Timeout, proxy),
		limiter:    limiter,
	}
}

// Classify posts the sentence to the inference server and decodes the
// two-class probability vector.
func (c *httpClassifier) Classify(ctx context.Context, sentence string) (model.ClassProbs, error) {
	var zero model.ClassProbs

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.baseURL); err != nil {
			return zero, &model.ClassifierError{Backend: "http", Err: err}
		}
	}

	body, err := json.Marshal(classifyRequest{Text: sentence})
	if err != nil {
		return zero, &model.ClassifierError{Backend: "http", Err: fmt.Errorf("marshal request: %w", err)}
	}

	url := c.baseURL + "/classify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return zero, &model.ClassifierError{Backend: "http", Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, &model.ClassifierError{Backend: "http", Err: fmt.Errorf("request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, &model.ClassifierError{Backend: "http", Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return zero, &model.ClassifierError{
			Backend: "http",
			Err:     fmt.Errorf("inference server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data))),
		}
	}

	var parsed classifyResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return zero, &model.ClassifierError{Backend: "http", Err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.Error != "" {
		return zero, &model.ClassifierError{Backend: "http", Err: fmt.Errorf("inference error: %s", parsed.Error)}
	}
	if len(parsed.Probs) != 2 {
		return zero, &model.ClassifierError{
			Backend: "http",
			Err:     fmt.Errorf("expected 2-class distribution, got %d entries", len(parsed.Probs)),
		}
	}

	return model.ClassProbs{parsed.Probs[0], parsed.Probs[1]}, nil
}
