// Package exchange looks up live currency-pair rates from exchangerate-api.com.
//
// Every failure is returned as an *Error whose message is safe to show to a
// user or hand back to the language model. Rates are never cached: each call
// asks the remote service for the current rate.
package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"finassist/internal/logger"
	"finassist/internal/metrics"
)

// DefaultBaseURL is the v6 API root; the key and pair path are appended to it.
const DefaultBaseURL = "https://v6.exchangerate-api.com/v6/"

// DefaultTimeout bounds a single rate lookup.
const DefaultTimeout = 10 * time.Second

// Kind classifies a gateway failure.
type Kind string

const (
	KindNotConfigured Kind = "not_configured"
	KindTimeout       Kind = "timeout"
	KindUnknownCode   Kind = "unknown_code"
	KindInvalidRate   Kind = "invalid_rate"
	KindTransport     Kind = "transport"
	KindRemote        Kind = "remote"
)

// Error is a gateway failure with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// RateSource is anything that can quote the current rate for a currency pair.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// Client calls the exchangerate-api pair endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	apiKey     string
}

// NewClient creates a Client. An empty apiKey yields a client whose every
// lookup fails with KindNotConfigured.
func NewClient(httpClient *http.Client, baseURL, apiKey string, timeout time.Duration) *Client {
	if httpClient == nil {
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{httpClient: httpClient, baseURL: baseURL, apiKey: strings.TrimSpace(apiKey)}
}

type pairResponse struct {
	Result         string   `json:"result"`
	ErrorType      string   `json:"error-type"`
	ConversionRate *float64 `json:"conversion_rate"`
}

// Rate returns how many units of to one unit of from buys.
func (c *Client) Rate(ctx context.Context, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return 1.0, nil
	}

	rate, err := c.fetchRate(ctx, from, to)
	outcome := "success"
	if err != nil {
		var gwErr *Error
		if errors.As(err, &gwErr) {
			outcome = string(gwErr.Kind)
		}
		logger.Get().Warnw("exchange rate lookup failed", "from", from, "to", to, "error", err)
	}
	metrics.ExchangeRequests.WithLabelValues(outcome).Inc()
	return rate, err
}

func (c *Client) fetchRate(ctx context.Context, from, to string) (float64, error) {
	if c.apiKey == "" {
		return 0, &Error{Kind: KindNotConfigured, Message: "Exchange rate service is not configured: API key missing."}
	}

	url := c.baseURL + c.apiKey + "/pair/" + from + "/" + to
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, &Error{Kind: KindTransport, Message: "Could not build exchange rate request.", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return 0, &Error{Kind: KindTimeout, Message: "Exchange rate service timed out. Please try again.", Err: err}
		}
		return 0, &Error{Kind: KindTransport, Message: "Could not connect to the exchange rate service.", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	var body pairResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	// The API reports bad codes with a JSON body on a 4xx status.
	if decodeErr == nil && body.Result == "error" {
		if body.ErrorType == "unknown-code" {
			return 0, &Error{
				Kind:    KindUnknownCode,
				Message: fmt.Sprintf("One or both currency codes ('%s', '%s') are invalid or not supported.", from, to),
			}
		}
		return 0, &Error{Kind: KindRemote, Message: fmt.Sprintf("Exchange rate service returned an error: %s.", body.ErrorType)}
	}
	if resp.StatusCode != http.StatusOK {
		return 0, &Error{Kind: KindRemote, Message: fmt.Sprintf("Exchange rate service returned status %d.", resp.StatusCode)}
	}
	if decodeErr != nil {
		return 0, &Error{Kind: KindInvalidRate, Message: "Exchange rate service returned an unreadable response.", Err: decodeErr}
	}
	if body.Result != "success" || body.ConversionRate == nil {
		return 0, &Error{Kind: KindInvalidRate, Message: fmt.Sprintf("No conversion rate returned for %s to %s.", from, to)}
	}

	rate := *body.ConversionRate
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return 0, &Error{Kind: KindInvalidRate, Message: fmt.Sprintf("Received an invalid conversion rate for %s to %s.", from, to)}
	}
	return rate, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
