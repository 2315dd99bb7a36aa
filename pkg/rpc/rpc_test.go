package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRPC answers eth_getBalance and eth_chainId with fixed hex values.
func stubRPC(t *testing.T, balanceHex, chainIDHex string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		var result string
		switch req.Method {
		case "eth_getBalance":
			result = balanceHex
		case "eth_chainId":
			result = chainIDHex
		default:
			t.Fatalf("unexpected RPC method %q", req.Method)
		}
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestRefresh(t *testing.T) {
	// 1.5 ether on Polygon.
	srv := stubRPC(t, "0x14d1120d7b160000", "0x89")
	defer srv.Close()

	c := NewClient([]string{srv.URL})
	result, err := c.Refresh(context.Background(), "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, "1.5000", result.Balance)
	assert.Equal(t, int64(137), result.ChainID)
}

func TestRefreshFallsBackToNextEndpoint(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer broken.Close()
	srv := stubRPC(t, "0xde0b6b3a7640000", "0x1")
	defer srv.Close()

	c := NewClient([]string{broken.URL, srv.URL})
	result, err := c.Refresh(context.Background(), "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, "1.0000", result.Balance)
	assert.Equal(t, int64(1), result.ChainID)
}

func TestRefreshAllEndpointsFail(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	c := NewClient([]string{broken.URL})
	_, err := c.Refresh(context.Background(), "0x1111111111111111111111111111111111111111")
	assert.ErrorContains(t, err, "fetch balance")
}

func TestRefreshNoEndpoints(t *testing.T) {
	c := NewClient(nil)
	_, err := c.Refresh(context.Background(), "0x1111111111111111111111111111111111111111")
	assert.ErrorContains(t, err, "no RPC endpoints configured")
}
