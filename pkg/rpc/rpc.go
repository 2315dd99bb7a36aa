// Package rpc fetches on-chain balances through go-ethereum's RPC client.
package rpc

import (
	"context"
	"fmt"
	"time"

	"cwallet/pkg/models"
	"cwallet/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// FetchTimeout bounds a single endpoint attempt.
var FetchTimeout = 10 * time.Second

// Client fetches balances against an ordered list of RPC endpoints. Endpoints
// are tried in order until one serves the full request.
type Client struct {
	urls []string
}

// NewClient creates a balance fetcher over the given endpoints.
func NewClient(urls []string) *Client {
	return &Client{urls: urls}
}

// Refresh fetches the current balance and chain ID for an account. The raw
// wei amount is formatted to the fixed 4-decimal display string. Idempotent
// and safe to invoke repeatedly; any endpoint or parsing failure surfaces as
// an error the caller treats as "balance unknown".
func (c *Client) Refresh(ctx context.Context, accountID string) (models.BalanceResult, error) {
	account := common.HexToAddress(accountID)
	var lastErr error

	for _, url := range c.urls {
		attemptCtx, cancel := context.WithTimeout(ctx, FetchTimeout)
		client, err := ethclient.DialContext(attemptCtx, url)
		if err != nil {
			cancel()
			lastErr = err
			continue
		}

		balance, err := client.BalanceAt(attemptCtx, account, nil)
		if err != nil {
			client.Close()
			cancel()
			lastErr = err
			continue
		}

		chainID, err := client.ChainID(attemptCtx)
		client.Close()
		cancel()
		if err != nil {
			lastErr = err
			continue
		}

		return models.BalanceResult{
			Balance: utils.WeiToBalance(balance),
			ChainID: chainID.Int64(),
		}, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no RPC endpoints configured")
	}
	return models.BalanceResult{}, fmt.Errorf("fetch balance: %w", lastErr)
}
