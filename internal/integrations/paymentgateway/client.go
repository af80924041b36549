package paymentgateway

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
)

// Client клиент платежного шлюза для сверки зависших платежей
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента шлюза
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Enabled адрес шлюза задан
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// GetTransaction запрашивает статус транзакции у шлюза
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/transactions/%s", c.baseURL, url.PathEscape(transactionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrTransactionNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var tx Transaction
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if tx.TransactionID == "" {
		tx.TransactionID = transactionID
	}

	return &tx, nil
}

// GetTransactionWithGracefulDegradation запрашивает статус транзакции.
// Любая ошибка, кроме ErrTransactionNotFound и ErrNotConfigured, превращается в ErrGatewayDegraded.
func (c *Client) GetTransactionWithGracefulDegradation(ctx context.Context, transactionID string) (*Transaction, error) {
	tx, err := c.GetTransaction(ctx, transactionID)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) || errors.Is(err, ErrNotConfigured) {
			return nil, err
		}

		c.log.Error("Payment gateway unavailable, postponing reconciliation for transaction=%s: %v", transactionID, err)
		return nil, fmt.Errorf("%w: transaction=%s, error=%v", ErrGatewayDegraded, transactionID, err)
	}

	c.log.Info("Payment gateway reported transaction=%s status=%s amount=%v", transactionID, tx.Status, tx.Amount)
	return tx, nil
}
