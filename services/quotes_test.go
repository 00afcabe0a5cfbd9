package services

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zen-wellness/Zen-snoopy/config"
)

type stubDoer struct {
	status int
	body   string
	err    error
}

func (s *stubDoer) Do(*http.Request) (*http.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Header:     http.Header{},
	}, nil
}

func newQuoteService(cfg config.AppConfig) *QuoteService {
	return NewQuoteService(cfg, zap.NewNop())
}

func TestQuoteOfDayDeterministicRotation(t *testing.T) {
	q := newQuoteService(config.AppConfig{})
	q.nowFunc = func() time.Time {
		return time.Date(2024, 6, 7, 12, 0, 0, 0, time.UTC)
	}

	first := q.QuoteOfDay()
	second := q.QuoteOfDay()
	require.Equal(t, first, second)
	require.Equal(t, builtinQuotes[7%len(builtinQuotes)], first)
}

func TestDailyQuoteWithoutProviderFallsBack(t *testing.T) {
	q := newQuoteService(config.AppConfig{})

	quote := q.DailyQuote(context.Background())
	require.NotEmpty(t, quote.Text)
	require.Contains(t, builtinQuotes, quote)
}

func TestDailyQuoteUsesProvider(t *testing.T) {
	q := newQuoteService(config.AppConfig{
		QuoteAIBaseURL: "https://ai.example.com/v1",
		QuoteAIKey:     "test-key",
		QuoteAIModel:   "test-model",
	})
	q.SetHTTPClient(&stubDoer{
		status: http.StatusOK,
		body:   `{"choices":[{"message":{"role":"assistant","content":"One small step today."}}]}`,
	})

	quote := q.DailyQuote(context.Background())
	require.Equal(t, "One small step today.", quote.Text)
	require.Equal(t, "Daily Coach", quote.Author)
}

func TestDailyQuoteProviderErrorFallsBack(t *testing.T) {
	q := newQuoteService(config.AppConfig{
		QuoteAIBaseURL: "https://ai.example.com/v1",
		QuoteAIKey:     "test-key",
	})
	q.SetHTTPClient(&stubDoer{
		status: http.StatusInternalServerError,
		body:   `{"error":{"message":"overloaded"}}`,
	})

	quote := q.DailyQuote(context.Background())
	require.Contains(t, builtinQuotes, quote)
}
