package node

import "encoding/json"

// LedgerInfo is the fullnode's view of the chain head.
type LedgerInfo struct {
	ChainID         uint8  `json:"chain_id"`
	LedgerVersion   string `json:"ledger_version"`
	LedgerTimestamp string `json:"ledger_timestamp"`
	NodeRole        string `json:"node_role"`
	BlockHeight     string `json:"block_height"`
	Epoch           string `json:"epoch"`
}

// AccountData is the on-chain account record.
type AccountData struct {
	SequenceNumber    string `json:"sequence_number"`
	AuthenticationKey string `json:"authentication_key"`
}

// Resource is a typed Move resource held by an account. Data is kept raw:
// resource layouts are contract-defined and callers decode what they need.
type Resource struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// coinStore is the subset of 0x1::coin::CoinStore we read.
type coinStore struct {
	Coin struct {
		Value string `json:"value"`
	} `json:"coin"`
}

// MoveModule is a published module's ABI header.
type MoveModule struct {
	Bytecode string `json:"bytecode"`
	ABI      struct {
		Address string `json:"address"`
		Name    string `json:"name"`
	} `json:"abi"`
}
