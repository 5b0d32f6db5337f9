// pkg/simpleswap/client.go
package simpleswap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/rovshanmuradov/teleswap-backend/internal/logging"
	"go.uber.org/zap"
)

// Exchange statuses reported by the provider.
const (
	StatusWaiting    = "waiting"
	StatusConfirming = "confirming"
	StatusExchanging = "exchanging"
	StatusSending    = "sending"
	StatusFinished   = "finished"
	StatusConfirmed  = "confirmed"
)

var ErrExchangeNotFound = errors.New("exchange not found")

type Currency struct {
	Name       string `json:"name"`
	TxExplorer string `json:"tx_explorer"`
}

type Exchange struct {
	ID           string              `json:"id"`
	Status       string              `json:"status"`
	CurrencyFrom string              `json:"currency_from"`
	CurrencyTo   string              `json:"currency_to"`
	TxFrom       string              `json:"tx_from"`
	TxTo         string              `json:"tx_to"`
	Currencies   map[string]Currency `json:"currencies"`
}

// FromLink is the explorer URL of the deposit transaction, or "" if unknown.
func (e *Exchange) FromLink() string {
	return e.explorerLink(e.CurrencyFrom, e.TxFrom)
}

// ToLink is the explorer URL of the payout transaction, or "" if unknown.
func (e *Exchange) ToLink() string {
	return e.explorerLink(e.CurrencyTo, e.TxTo)
}

func (e *Exchange) explorerLink(currency, tx string) string {
	if tx == "" {
		return ""
	}
	c, ok := e.Currencies[currency]
	if !ok || c.TxExplorer == "" {
		return ""
	}
	return strings.ReplaceAll(c.TxExplorer, "{}", tx)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	attempts   uint
	delay      time.Duration
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		attempts:   3,
		delay:      500 * time.Millisecond,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// GetExchange fetches the provider's view of an exchange. Server errors are retried;
// an unknown id returns ErrExchangeNotFound.
func (c *Client) GetExchange(ctx context.Context, id string) (*Exchange, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("id", id)
	endpoint := c.baseURL + "/get_exchange?" + q.Encode()

	var ex Exchange
	err := retry.Do(
		func() error {
			return c.fetch(ctx, endpoint, &ex)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logging.Warn("SimpleSwap request failed, retrying",
				zap.String("exchange_id", id), zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		if errors.Is(err, ErrExchangeNotFound) {
			return nil, ErrExchangeNotFound
		}
		return nil, fmt.Errorf("failed to get exchange %s: %w", id, err)
	}
	return &ex, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string, out *Exchange) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return retry.Unrecoverable(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return retry.Unrecoverable(ErrExchangeNotFound)
	case resp.StatusCode >= 500:
		return fmt.Errorf("simpleswap returned %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return retry.Unrecoverable(fmt.Errorf("simpleswap returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retry.Unrecoverable(fmt.Errorf("failed to decode exchange: %w", err))
	}
	return nil
}
