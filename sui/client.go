package sui

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
)

// DefaultRPCTimeout bounds every fullnode call when no timeout is configured.
const DefaultRPCTimeout = 30 * time.Second

// Client talks to a Sui fullnode over JSON-RPC 2.0.
type Client struct {
	rpc     *rpc.Client
	timeout time.Duration
}

// Dial connects to the fullnode at url. A zero timeout selects
// DefaultRPCTimeout.
func Dial(ctx context.Context, url string, timeout time.Duration) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty ledger RPC URL", ErrConfiguration)
	}
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial sui rpc: %w", err)
	}
	return NewClient(c, timeout), nil
}

// NewClient wraps an existing RPC client.
func NewClient(c *rpc.Client, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultRPCTimeout
	}
	return &Client{rpc: c, timeout: timeout}
}

func (c *Client) Close() {
	c.rpc.Close()
}

func (c *Client) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.rpc.CallContext(ctx, result, method, args...); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// GetCoins returns one page of SUI coins owned by owner. A nil cursor
// starts from the first page.
func (c *Client) GetCoins(ctx context.Context, owner string, cursor *string) (*CoinPage, error) {
	var page CoinPage
	if err := c.call(ctx, &page, "suix_getCoins", owner, nil, cursor, nil); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetBalance returns the total SUI balance of owner.
func (c *Client) GetBalance(ctx context.Context, owner string) (*Balance, error) {
	var bal Balance
	if err := c.call(ctx, &bal, "suix_getBalance", owner, nil); err != nil {
		return nil, err
	}
	return &bal, nil
}

// GetReferenceGasPrice returns the current epoch's gas price in MIST.
func (c *Client) GetReferenceGasPrice(ctx context.Context) (uint64, error) {
	var raw json.RawMessage
	if err := c.call(ctx, &raw, "suix_getReferenceGasPrice"); err != nil {
		return 0, err
	}
	price, err := strconv.ParseUint(strings.Trim(string(raw), `"`), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("suix_getReferenceGasPrice: unexpected result %s", raw)
	}
	return price, nil
}

// GetObject returns the current reference and owner of an object.
func (c *Client) GetObject(ctx context.Context, id string) (*ObjectData, error) {
	var resp ObjectResponse
	if err := c.call(ctx, &resp, "sui_getObject", id, ObjectDataOptions{ShowOwner: true}); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("sui_getObject %s: %s", id, resp.Error)
	}
	return resp.Data, nil
}

// ExecuteTransactionBlock submits signed transaction bytes and waits for
// local execution so effects and events are available in the response.
func (c *Client) ExecuteTransactionBlock(ctx context.Context, txBytes string, signatures []string) (*TransactionBlockResponse, error) {
	var resp TransactionBlockResponse
	opts := TransactionBlockResponseOptions{ShowEffects: true, ShowEvents: true}
	if err := c.call(ctx, &resp, "sui_executeTransactionBlock", txBytes, signatures, opts, "WaitForLocalExecution"); err != nil {
		return nil, err
	}
	return &resp, nil
}
