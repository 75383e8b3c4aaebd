// Package advisory requests stock quotes and free-text financial analysis
// from the generative service. It is read-only with respect to the ledger:
// a total failure degrades to an empty quote map or a fallback string, never
// to a blocked mutation.
package advisory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fintrack-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

const (
	modelName         = "gemini-2.5-flash"
	defaultAttempts   = 3
	defaultRetryDelay = 1000 * time.Millisecond

	// recentTransactionLimit keeps the advice prompt small.
	recentTransactionLimit = 20
)

// Fallback strings, in the UI's language.
const (
	AdviceUnavailable   = "AI 服務未設定，無法提供建議。"
	adviceEmptyFallback = "無法生成建議。"
	adviceErrorFallback = "發生錯誤，無法獲取建議。"
)

// ErrNotConfigured is returned when a call is made without a credential.
// Callers are expected to check Configured first and short-circuit.
var ErrNotConfigured = errors.New("advisory credential not configured")

// generator is the narrow slice of the genai client we use; tests swap it.
type generator interface {
	generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error)
}

type genaiGenerator struct {
	client *genai.Client
}

func (g *genaiGenerator) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Client talks to the generative service with bounded retry. A Client built
// without a credential reports Configured() == false and refuses calls.
type Client struct {
	gen        generator
	attempts   int
	retryDelay time.Duration
	now        func() time.Time
}

// New builds the advisory client. An empty apiKey is a recognized
// configuration state, not an error: the returned client is unconfigured.
func New(ctx context.Context, apiKey string) (*Client, error) {
	c := &Client{
		attempts:   defaultAttempts,
		retryDelay: defaultRetryDelay,
		now:        time.Now,
	}
	if apiKey == "" {
		return c, nil
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c.gen = &genaiGenerator{client: gc}
	return c, nil
}

// Configured reports whether a credential was provided.
func (c *Client) Configured() bool {
	return c.gen != nil
}

var quoteSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"prices": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"symbol": {Type: genai.TypeString},
					"price":  {Type: genai.TypeNumber},
				},
			},
		},
	},
}

type quotePayload struct {
	Prices []struct {
		Symbol string      `json:"symbol"`
		Price  json.Number `json:"price"`
	} `json:"prices"`
}

// GetQuotes asks for the current approximate market price of each symbol.
// After the bounded retries are exhausted the call degrades to an empty map;
// the caller decides whether that warrants a user-facing warning.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	result := make(map[string]decimal.Decimal)
	if len(symbols) == 0 {
		return result, nil
	}

	prompt := fmt.Sprintf(`I need the current approximate market price (in original currency) for the following stock symbols: %s.
Assume current date is %s.
If it's a weekend or closed market, give the last closing price.
Return a JSON object where keys are symbols and values are numeric prices.`,
		strings.Join(symbols, ", "), c.now().Format(time.RFC3339))

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   quoteSchema,
	}
	text, err := withRetry(ctx, c.attempts, c.retryDelay, func() (string, error) {
		return c.gen.generate(ctx, prompt, cfg)
	})
	if err != nil {
		log.Warn().Err(err).Int("symbols", len(symbols)).Msg("quote fetch failed after retries")
		return result, nil
	}
	if text == "" {
		return result, nil
	}

	var payload quotePayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		log.Warn().Err(err).Msg("quote response was not valid JSON")
		return result, nil
	}
	for _, p := range payload.Prices {
		price, err := decimal.NewFromString(p.Price.String())
		// A quote that is missing a symbol or priced at or below zero is
		// noise from the model, not a market price. Drop it.
		if err != nil || p.Symbol == "" || !price.IsPositive() {
			continue
		}
		result[p.Symbol] = price
	}
	return result, nil
}

// GetAdvice summarizes recent spending habits. Advisory output is never
// required for ledger correctness, so every failure mode maps to a fixed
// fallback string instead of an error.
func (c *Client) GetAdvice(ctx context.Context, transactions []domain.Transaction) string {
	if !c.Configured() {
		return AdviceUnavailable
	}

	recent := transactions
	if len(recent) > recentTransactionLimit {
		recent = recent[:recentTransactionLimit]
	}
	var lines []string
	for _, t := range recent {
		lines = append(lines, fmt.Sprintf("%s: %s $%s (%s) - %s", t.Date, t.Kind, t.Amount.String(), t.Category, t.Note))
	}

	prompt := fmt.Sprintf(`You are a personal financial advisor. Analyze the following recent transactions for a user in Taiwan (TWD currency).
Provide a concise, 3-bullet point summary of their spending habits and 1 actionable suggestion to save money.
Keep the tone encouraging but professional. Use Traditional Chinese (zh-TW).

Transactions:
%s`, strings.Join(lines, "\n"))

	text, err := withRetry(ctx, c.attempts, c.retryDelay, func() (string, error) {
		return c.gen.generate(ctx, prompt, nil)
	})
	if err != nil {
		log.Warn().Err(err).Msg("advice generation failed after retries")
		return adviceErrorFallback
	}
	if text == "" {
		return adviceEmptyFallback
	}
	return text
}
