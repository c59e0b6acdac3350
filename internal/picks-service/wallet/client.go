package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	walletdto "github.com/radieske/fight-picks-platform/internal/picks-service/wallet/dto"
)

// ErrInsufficientFunds mapeia a recusa 422 da wallet (saldo insuficiente sob lock)
var ErrInsufficientFunds = errors.New("wallet: insufficient funds")

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

// GetWallet retorna (criando se preciso) a carteira do usuário
func (c *Client) GetWallet(ctx context.Context, userID string) (walletdto.WalletResponse, error) {
	var out walletdto.WalletResponse
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/wallet?userId="+userID, nil)
	res, err := c.HTTP.Do(req)
	if err != nil {
		return out, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return out, fmt.Errorf("wallet get http %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

// Debit desconta o stake (external_ref = pickID, idempotente do lado da wallet)
func (c *Client) Debit(ctx context.Context, userID string, coins int64, externalRef string) (int64, error) {
	body, _ := json.Marshal(walletdto.DebitRequest{UserID: userID, AmountCoins: coins, ExternalRef: externalRef})
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/wallet/debit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusUnprocessableEntity {
		return 0, ErrInsufficientFunds
	}
	if res.StatusCode >= 300 {
		return 0, fmt.Errorf("wallet debit http %d", res.StatusCode)
	}
	var out walletdto.BalanceResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.BalanceCoins, nil
}
