package etherman

// ABI fragments for the fusion HTLC contract and the ERC20 surface the
// token path needs. Kept as JSON so no binding generation step is required.
const htlcABIJSON = `[
	{"type":"function","name":"createHTLC","stateMutability":"payable","inputs":[
		{"name":"receiver","type":"address"},
		{"name":"hashlock","type":"bytes32"},
		{"name":"timelock","type":"uint256"}
	],"outputs":[{"name":"contractId","type":"bytes32"}]},
	{"type":"function","name":"createTokenHTLC","stateMutability":"nonpayable","inputs":[
		{"name":"token","type":"address"},
		{"name":"receiver","type":"address"},
		{"name":"amount","type":"uint256"},
		{"name":"hashlock","type":"bytes32"},
		{"name":"timelock","type":"uint256"}
	],"outputs":[{"name":"contractId","type":"bytes32"}]}
]`

const erc20ABIJSON = `[
	{"type":"function","name":"allowance","stateMutability":"view","inputs":[
		{"name":"owner","type":"address"},
		{"name":"spender","type":"address"}
	],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[
		{"name":"spender","type":"address"},
		{"name":"amount","type":"uint256"}
	],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[
		{"name":"account","type":"address"}
	],"outputs":[{"name":"","type":"uint256"}]}
]`
