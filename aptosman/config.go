package aptosman

// Module and function names of the deployed fusion HTLC Move package.
const (
	htlcModuleName   = "fusion_htlc"
	htlcCreateFn     = "create_htlc"
	aptosCoinTypeTag = "0x1::aptos_coin::AptosCoin"
)
