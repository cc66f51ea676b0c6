package chains

// Decimals for tokens that keep the same precision across chains.
// Unknown tokens default to 18 (the common ERC20 choice).
var commonTokenDecimals = map[string]int{
	"USDC":   6,
	"USDT":   6,
	"DAI":    18,
	"WETH":   18,
	"WBTC":   8,
	"WMATIC": 18,
	"WBNB":   18,
	"WAVAX":  18,
}

// Default chain set. Contract addresses reflect the mainnet deployments;
// chains without a deployed HTLC carry an empty address and fail at
// execution time, not at registration time.
var defaultChains = []Descriptor{
	{
		Key: "ETHEREUM", EVMID: 1, Family: FamilyEVM,
		NativeSymbol: "ETH", NativeDecimals: 18, HashAlgorithm: Keccak256,
		RpcUrl:          "https://eth.llamarpc.com",
		FinalitySeconds: 180,
		CreateFee:       "0.002", ClaimFee: "0.001",
	},
	{
		Key: "BSC", EVMID: 56, Family: FamilyEVM,
		NativeSymbol: "BNB", NativeDecimals: 18, HashAlgorithm: Keccak256,
		RpcUrl:          "https://bsc-dataseed.binance.org",
		FinalitySeconds: 15,
		CreateFee:       "0.0005", ClaimFee: "0.0003",
	},
	{
		Key: "POLYGON", EVMID: 137, Family: FamilyEVM,
		NativeSymbol: "MATIC", NativeDecimals: 18, HashAlgorithm: Keccak256,
		RpcUrl:          "https://polygon-rpc.com",
		HTLCContract:    "0xC8973d8f3cd4Ee6bd5358AcDbE9a4CA517BDd129",
		FinalitySeconds: 30,
		CreateFee:       "0.01", ClaimFee: "0.005",
	},
	{
		Key: "ARBITRUM", EVMID: 42161, Family: FamilyEVM,
		NativeSymbol: "ETH", NativeDecimals: 18, HashAlgorithm: Keccak256,
		RpcUrl:          "https://arb1.arbitrum.io/rpc",
		FinalitySeconds: 5,
		CreateFee:       "0.0003", ClaimFee: "0.0002",
	},
	{
		Key: "OPTIMISM", EVMID: 10, Family: FamilyEVM,
		NativeSymbol: "ETH", NativeDecimals: 18, HashAlgorithm: Keccak256,
		RpcUrl:          "https://mainnet.optimism.io",
		FinalitySeconds: 5,
		CreateFee:       "0.0003", ClaimFee: "0.0002",
	},
	{
		Key: "AVALANCHE", EVMID: 43114, Family: FamilyEVM,
		NativeSymbol: "AVAX", NativeDecimals: 18, HashAlgorithm: Keccak256,
		RpcUrl:          "https://api.avax.network/ext/bc/C/rpc",
		FinalitySeconds: 5,
		CreateFee:       "0.01", ClaimFee: "0.005",
	},
	{
		Key: "SEPOLIA", EVMID: 11155111, Family: FamilyEVM,
		NativeSymbol: "ETH", NativeDecimals: 18, HashAlgorithm: Keccak256,
		RpcUrl:          "https://ethereum-sepolia-rpc.publicnode.com",
		FinalitySeconds: 60,
		CreateFee:       "0.002", ClaimFee: "0.001",
		IsTestnet:       true,
	},
	{
		Key: "APTOS", Family: FamilyAptos,
		NativeSymbol: "APT", NativeDecimals: 8, HashAlgorithm: SHA256,
		RpcUrl:          "https://fullnode.mainnet.aptoslabs.com",
		HTLCContract:    "0x92ecf7c4a7ce7c79630c884bef0b06fa447ec9c1cbcd55d98183e7808478376c",
		FinalitySeconds: 5,
		CreateFee:       "0.001", ClaimFee: "0.001",
	},
	{
		Key: "SUI", Family: FamilySui,
		NativeSymbol: "SUI", NativeDecimals: 9, HashAlgorithm: SHA256,
		RpcUrl:          "https://fullnode.mainnet.sui.io",
		FinalitySeconds: 5,
		CreateFee:       "0.002", ClaimFee: "0.001",
	},
	{
		Key: "NEAR", Family: FamilyNear,
		NativeSymbol: "NEAR", NativeDecimals: 24, HashAlgorithm: Keccak256,
		RpcUrl:          "https://rpc.mainnet.near.org",
		HTLCContract:    "fusion-plus.near",
		FinalitySeconds: 5,
		CreateFee:       "0.001", ClaimFee: "0.001",
	},
	{
		Key: "COSMOS", Family: FamilyCosmos,
		NativeSymbol: "ATOM", NativeDecimals: 6, HashAlgorithm: Keccak256,
		RpcUrl:          "https://cosmos-rpc.publicnode.com",
		FinalitySeconds: 10,
		CreateFee:       "0.005", ClaimFee: "0.003",
	},
	{
		Key: "TRON", Family: FamilyTron,
		NativeSymbol: "TRX", NativeDecimals: 6, HashAlgorithm: Keccak256,
		RpcUrl:          "https://api.trongrid.io",
		FinalitySeconds: 60,
		CreateFee:       "15", ClaimFee: "10",
	},
	{
		Key: "STELLAR", Family: FamilyStellar,
		NativeSymbol: "XLM", NativeDecimals: 7, HashAlgorithm: Keccak256,
		RpcUrl:          "https://horizon.stellar.org",
		FinalitySeconds: 10,
		CreateFee:       "0.01", ClaimFee: "0.01",
	},
	{
		Key: "TON", Family: FamilyTON,
		NativeSymbol: "TON", NativeDecimals: 9, HashAlgorithm: Keccak256,
		RpcUrl:          "https://toncenter.com/api/v2/jsonRPC",
		FinalitySeconds: 10,
		CreateFee:       "0.05", ClaimFee: "0.03",
	},
	{
		Key: "SOLANA", Family: FamilySolana,
		NativeSymbol: "SOL", NativeDecimals: 9, HashAlgorithm: SHA256,
		RpcUrl:          "https://api.mainnet-beta.solana.com",
		FinalitySeconds: 15,
		CreateFee:       "0.00001", ClaimFee: "0.00001",
	},
}
