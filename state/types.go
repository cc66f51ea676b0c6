package state

// Swap lifecycle. A record is created PENDING only after the source-chain
// HTLC transaction has been submitted and returned a reference.
type SwapState string

const (
	StatusPending   SwapState = "PENDING"
	StatusCompleted SwapState = "COMPLETED"
	StatusFailed    SwapState = "FAILED"
	StatusExpired   SwapState = "EXPIRED"
)

// SwapStatus is the persisted record for one swap. Secret is empty until
// the user reveals it to claim destination funds; before that the secret
// exists only in the initiating client.
type SwapStatus struct {
	SwapID      string    `json:"swapId"`
	Status      SwapState `json:"status"`
	FromChainTx string    `json:"fromChainTx,omitempty"`
	ToChainTx   string    `json:"toChainTx,omitempty"`
	Timestamp   int64     `json:"timestamp"`  // unix ms, record creation
	Secret      string    `json:"secret,omitempty"`
	Hashlock    string    `json:"hashlock"`
	ExpiryTime  int64     `json:"expiryTime"` // unix ms, timelock deadline
}

func (s SwapState) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusExpired
}
