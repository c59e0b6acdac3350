package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client fala com o wallet-service para aplicar os efeitos da liquidação.
// Credit e Refund são idempotentes do lado da wallet (external_ref).
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 3 * time.Second},
	}
}

// Credit aplica o payout de um pick vencedor
func (c *Client) Credit(ctx context.Context, userID string, coins int64, externalRef string) error {
	return c.post(ctx, "/wallet/credit", map[string]any{
		"userId":       userID,
		"amount_coins": coins,
		"external_ref": externalRef,
	})
}

// Refund devolve o stake de um pick anulado por no-contest
func (c *Client) Refund(ctx context.Context, userID string, coins int64, externalRef string) error {
	return c.post(ctx, "/wallet/refund", map[string]any{
		"userId":       userID,
		"amount_coins": coins,
		"external_ref": externalRef,
	})
}

// RecordLoss registra a derrota nas estatísticas (não mexe no saldo)
func (c *Client) RecordLoss(ctx context.Context, userID string, coins int64) error {
	return c.post(ctx, "/wallet/loss", map[string]any{
		"userId":       userID,
		"amount_coins": coins,
	})
}

func (c *Client) post(ctx context.Context, path string, payload map[string]any) error {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("wallet %s http %d", path, res.StatusCode)
	}
	return nil
}
