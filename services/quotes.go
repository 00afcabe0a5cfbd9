package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zen-wellness/Zen-snoopy/config"
)

// Quote — мотивационная цитата дня.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

var builtinQuotes = []Quote{
	{Text: "The mind is everything. What you think you become.", Author: "Buddha"},
	{Text: "Smile, breathe and go slowly.", Author: "Thich Nhat Hanh"},
	{Text: "Simplicity is the ultimate sophistication.", Author: "Leonardo da Vinci"},
	{Text: "He who has a why to live can bear almost any how.", Author: "Friedrich Nietzsche"},
	{Text: "Do less, be more.", Author: "Unknown"},
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// QuoteService отдаёт цитату дня. Если настроен внешний text-completion
// провайдер, цитата генерируется им; любая ошибка откатывает на
// встроенный список. Провайдер — непрозрачный внешний сервис.
type QuoteService struct {
	logger  *zap.Logger
	http    httpDoer
	baseURL string
	apiKey  string
	model   string
	nowFunc func() time.Time
}

func NewQuoteService(cfg config.AppConfig, logger *zap.Logger) *QuoteService {
	return &QuoteService{
		logger:  logger,
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.QuoteAIBaseURL), "/"),
		apiKey:  strings.TrimSpace(cfg.QuoteAIKey),
		model:   strings.TrimSpace(cfg.QuoteAIModel),
		nowFunc: time.Now,
	}
}

// SetHTTPClient подменяет транспорт в тестах.
func (q *QuoteService) SetHTTPClient(client httpDoer) {
	if client == nil {
		q.http = &http.Client{Timeout: 15 * time.Second}
		return
	}
	q.http = client
}

// QuoteOfDay детерминированно ротирует встроенный список по дню месяца.
func (q *QuoteService) QuoteOfDay() Quote {
	return builtinQuotes[q.nowFunc().Day()%len(builtinQuotes)]
}

// DailyQuote пробует внешнего провайдера и падает обратно на ротацию.
func (q *QuoteService) DailyQuote(ctx context.Context) Quote {
	if q.apiKey == "" {
		return q.QuoteOfDay()
	}

	quote, err := q.generate(ctx)
	if err != nil {
		q.logger.Warn("quote_generation_failed", zap.Error(err))
		return q.QuoteOfDay()
	}
	return quote
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (q *QuoteService) generate(ctx context.Context) (Quote, error) {
	payload := chatCompletionRequest{
		Model: q.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You write one short, calm motivational sentence for a daily planner. No quotes, no attribution, under 120 characters."},
			{Role: "user", Content: "Motivational line for today, please."},
		},
		MaxTokens:   60,
		Temperature: 0.9,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Quote{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Quote{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+q.apiKey)

	resp, err := q.http.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Quote{}, err
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Quote{}, err
	}
	if parsed.Error.Message != "" {
		return Quote{}, fmt.Errorf("provider error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK || len(parsed.Choices) == 0 {
		return Quote{}, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return Quote{}, fmt.Errorf("provider returned empty content")
	}
	if len(text) > 400 {
		text = text[:400]
	}

	return Quote{Text: text, Author: "Daily Coach"}, nil
}
