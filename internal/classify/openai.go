package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/zw021029/know-more-about-our-futures/internal/model"
)

// openaiClassifier uses a chat model as an ensemble member. Useful where no
// fine-tuned inference server is deployed; temperature 0 keeps repeated
// calls on a fixed sentence stable.
type openaiClassifier struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter Limiter
}

const openaiSystemPrompt = `你是一个句子分类器。判断给定的中文句子是陈述事实还是表达观点。
只返回JSON，格式为 {"fact_probability": 0.0到1.0之间的数}，不要任何解释。`

type openaiVerdict struct {
	FactProbability float64 `json:"fact_probability"`
}

var numberRE = regexp.MustCompile(`[01](?:\.\d+)?`)

func newOpenAIClassifier(cfg model.EnsembleConfig, limiter Limiter) (*openaiClassifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &openaiClassifier{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   chatModel,
		timeout: timeout,
		limiter: limiter,
	}, nil
}

// Classify asks the chat model for a fact probability and builds the
// two-class vector from it.
func (c *openaiClassifier) Classify(ctx context.Context, sentence string) (model.ClassProbs, error) {
	var zero model.ClassProbs

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, "https://api.openai.com"); err != nil {
			return zero, &model.ClassifierError{Backend: "openai", Err: err}
		}
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openaiSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sentence},
		},
		MaxTokens:   50,
		Temperature: 0,
	})
	if err != nil {
		return zero, &model.ClassifierError{Backend: "openai", Err: fmt.Errorf("API error: %w", err)}
	}
	if len(resp.Choices) == 0 {
		return zero, &model.ClassifierError{Backend: "openai", Err: fmt.Errorf("no response from model")}
	}

	p, err := parseFactProbability(resp.Choices[0].Message.Content)
	if err != nil {
		return zero, &model.ClassifierError{Backend: "openai", Err: err}
	}

	return model.ClassProbs{1 - p, p}, nil
}

// parseFactProbability extracts the probability from the model's reply.
// Strict JSON is expected; a bare number in [0,1] is accepted as fallback
// since chat models occasionally drop the wrapper.
func parseFactProbability(content string) (float64, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var verdict openaiVerdict
	if err := json.Unmarshal([]byte(content), &verdict); err == nil {
		if verdict.FactProbability >= 0 && verdict.FactProbability <= 1 {
			return verdict.FactProbability, nil
		}
		return 0, fmt.Errorf("probability %v out of range", verdict.FactProbability)
	}

	if m := numberRE.FindString(content); m != "" {
		if p, err := strconv.ParseFloat(m, 64); err == nil && p >= 0 && p <= 1 {
			return p, nil
		}
	}

	return 0, fmt.Errorf("unparseable classifier reply: %q", content)
}
