package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zw021029/know-more-about-our-futures/internal/model"
	"github.com/zw021029/know-more-about-our-futures/internal/util"
)

const annotateMaxRetries = 3

// annotateSleepFunc is the sleep function used between retries (injectable for tests)
var annotateSleepFunc = time.Sleep

// httpAnnotator talks to a dependency-parser service (LTP/HanLP style) over
// a small JSON API.
type httpAnnotator struct {
	baseURL    string
	httpClient *http.Client
	limiter    Limiter
}

type annotateRequest struct {
	Text string `json:"text"`
}

type annotateResponse struct {
	Words []model.AnnotatedWord `json:"words"`
	Error string                `json:"error,omitempty"`
}

func newHTTPAnnotator(cfg model.AnnotatorConfig, proxy model.ProxyConfig, limiter Limiter) *httpAnnotator {
	baseURL := cfg.Endpoint
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	return &httpAnnotator{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: util.NewHTTPClient(cfg.Timeout, proxy),
		limiter:    limiter,
	}
}

// Annotate sends the sentence to the parser service, retrying transient
// failures with exponential backoff.
func (a *httpAnnotator) Annotate(ctx context.Context, sentence string) ([]model.AnnotatedWord, error) {
	var lastErr error
	for attempt := 0; attempt < annotateMaxRetries; attempt++ {
		words, retryable, err := a.annotateOnce(ctx, sentence)
		if err == nil {
			return words, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		if attempt < annotateMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			annotateSleepFunc(backoff)
		}
	}
	return nil, &model.AnnotationError{Sentence: sentence, Err: lastErr}
}

func (a *httpAnnotator) annotateOnce(ctx context.Context, sentence string) ([]model.AnnotatedWord, bool, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, a.baseURL); err != nil {
			return nil, false, err
		}
	}

	body, err := json.Marshal(annotateRequest{Text: sentence})
	if err != nil {
		return nil, false, fmt.Errorf("marshal request: %w", err)
	}

	url := a.baseURL + "/annotate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retryable, fmt.Errorf("annotator returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed annotateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != "" {
		return nil, false, fmt.Errorf("annotator error: %s", parsed.Error)
	}

	return parsed.Words, false, nil
}
