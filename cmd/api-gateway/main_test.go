package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoBackend responde com o nome do serviço e o caminho recebido,
// pra conferir o encaminhamento exato.
func echoBackend(name string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, name+" "+r.URL.Path)
	}))
}

// Cada rota pública chega no serviço certo com o caminho que ele registra:
// só o prefixo /api sai do caminho.
func TestGatewayRouting(t *testing.T) {
	wallet := echoBackend("wallet")
	defer wallet.Close()
	picks := echoBackend("picks")
	defer picks.Close()
	results := echoBackend("results")
	defer results.Close()
	leaderboard := echoBackend("leaderboard")
	defer leaderboard.Close()

	gw := httptest.NewServer(withCORS(routes(
		rp(wallet.URL), rp(picks.URL), rp(results.URL), rp(leaderboard.URL),
	)))
	defer gw.Close()

	tests := []struct {
		path string
		want string
	}{
		{"/api/wallet?userId=u1", "wallet /wallet"},
		{"/api/wallet/debit", "wallet /wallet/debit"},
		{"/api/wallet/transactions?userId=u1", "wallet /wallet/transactions"},
		{"/api/picks", "picks /picks"},
		{"/api/picks/pick-1", "picks /picks/pick-1"},
		{"/api/v1/cards", "results /v1/cards"},
		{"/api/v1/results", "results /v1/results"},
		{"/api/v1/leaderboard", "leaderboard /v1/leaderboard"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res, err := http.Get(gw.URL + tt.path)
			require.NoError(t, err)
			defer res.Body.Close()

			body, err := io.ReadAll(res.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(body))
		})
	}
}

func TestGatewayCORSPreflight(t *testing.T) {
	gw := httptest.NewServer(withCORS(routes(nil, nil, nil, nil)))
	defer gw.Close()

	req, err := http.NewRequest(http.MethodOptions, gw.URL+"/api/picks", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}
