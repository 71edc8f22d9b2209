package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/contentcreate/storefront-backend/pkg/errors"
)

const responseBodyReadLimit int64 = 1024

var (
	errAPIKeyRequired  = errors.New("mail api key is required")
	errBaseURLRequired = errors.New("mail base url is required")
)

// Client delivers transactional email through an HTTP mail provider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the mail client. All deliveries go out from the
// configured sender address.
func NewClient(apiKey, baseURL, from string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errAPIKeyRequired
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimSpace(baseURL),
		from:       strings.TrimSpace(from),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// OrderConfirmation carries the fields rendered into the confirmation email.
type OrderConfirmation struct {
	To          string
	OrderNumber string
	TotalAmount decimal.Decimal
	ItemCount   int
}

// SendOrderConfirmation emails the customer after their payment settles.
// Callers treat failures as non-fatal; the order stands either way.
func (c *Client) SendOrderConfirmation(ctx context.Context, msg OrderConfirmation) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "mail client not configured")
	}
	if strings.TrimSpace(msg.To) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient email is required")
	}
	if strings.TrimSpace(msg.OrderNumber) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}

	body := fmt.Sprintf(
		"Thank you for your order %s.\n\nItems: %d\nTotal: GHS %s\n\nWe will notify you when it ships.",
		msg.OrderNumber, msg.ItemCount, msg.TotalAmount.StringFixed(2),
	)
	payload, err := json.Marshal(map[string]string{
		"from":    c.from,
		"to":      msg.To,
		"subject": fmt.Sprintf("Order Confirmation - %s", msg.OrderNumber),
		"text":    body,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal mail payload")
	}

	endpoint := strings.TrimRight(c.baseURL, "/") + "/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build mail request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute mail request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))), "mail request failed")
	}
	return nil
}
