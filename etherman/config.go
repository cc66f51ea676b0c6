package etherman

// Gas budgets for the transactions this service submits itself. The HTLC
// paths are simple enough that fixed limits beat estimating against nodes
// that reject eth_estimateGas for payable calls with unmet preconditions.
const (
	createHTLCGasLimit   = 300_000
	approveGasLimit      = 80_000
	swapFallbackGasLimit = 400_000
)
