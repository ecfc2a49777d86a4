package sui

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// JSON-RPC shapes returned by a Sui fullnode. Only the fields this service
// reads are declared.

type Coin struct {
	CoinType     string `json:"coinType"`
	CoinObjectID string `json:"coinObjectId"`
	Version      string `json:"version"`
	Digest       string `json:"digest"`
	Balance      string `json:"balance"`
}

type CoinPage struct {
	Data        []Coin  `json:"data"`
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

type Balance struct {
	CoinType        string `json:"coinType"`
	CoinObjectCount int    `json:"coinObjectCount"`
	TotalBalance    string `json:"totalBalance"`
}

type ObjectResponse struct {
	Data  *ObjectData     `json:"data"`
	Error json.RawMessage `json:"error,omitempty"`
}

type ObjectData struct {
	ObjectID string          `json:"objectId"`
	Version  string          `json:"version"`
	Digest   string          `json:"digest"`
	Owner    json.RawMessage `json:"owner"`
}

type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type GasCostSummary struct {
	ComputationCost string `json:"computationCost"`
	StorageCost     string `json:"storageCost"`
	StorageRebate   string `json:"storageRebate"`
}

// Total is computation plus storage minus rebate, in MIST. It may be
// negative when the rebate outweighs the cost.
func (g GasCostSummary) Total() (int64, error) {
	var parts [3]int64
	for i, v := range []string{g.ComputationCost, g.StorageCost, g.StorageRebate} {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed gas cost summary %q: %w", v, err)
		}
		parts[i] = n
	}
	return parts[0] + parts[1] - parts[2], nil
}

type TransactionEffects struct {
	Status            ExecutionStatus `json:"status"`
	GasUsed           GasCostSummary  `json:"gasUsed"`
	TransactionDigest string          `json:"transactionDigest"`
}

type Event struct {
	PackageID         string          `json:"packageId"`
	TransactionModule string          `json:"transactionModule"`
	Sender            string          `json:"sender"`
	Type              string          `json:"type"`
	ParsedJSON        json.RawMessage `json:"parsedJson"`
}

type TransactionBlockResponse struct {
	Digest  string              `json:"digest"`
	Effects *TransactionEffects `json:"effects,omitempty"`
	Events  []Event             `json:"events,omitempty"`
}

type TransactionBlockResponseOptions struct {
	ShowEffects bool `json:"showEffects"`
	ShowEvents  bool `json:"showEvents"`
}

type ObjectDataOptions struct {
	ShowOwner bool `json:"showOwner"`
}
