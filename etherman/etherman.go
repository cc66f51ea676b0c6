// EVM chain-family executor. One Etherman serves every registered EVM
// chain; clients are dialed once at startup and shared read-only, while
// signing keys are scoped to the individual call.
package etherman

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	logger "github.com/sirupsen/logrus"

	"github.com/unite-defi/fusion-go/aggregator"
	"github.com/unite-defi/fusion-go/chains"
	"github.com/unite-defi/fusion-go/htlc"
)

type Etherman struct {
	registry *chains.Registry
	clients  map[int64]*ethclient.Client
	htlcABI  abi.ABI
	erc20ABI abi.ABI
}

// NewEtherman dials every EVM chain in the registry. Dialing is lazy for
// HTTP endpoints, so unreachable RPCs fail at first use, not here.
func NewEtherman(registry *chains.Registry) (*Etherman, error) {
	htlcABI, err := abi.JSON(strings.NewReader(htlcABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTLC ABI: %w", err)
	}
	erc20ABI, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}

	clients := make(map[int64]*ethclient.Client)
	for _, key := range registry.Keys() {
		d, err := registry.Describe(chains.NameRef(key))
		if err != nil || d.Family != chains.FamilyEVM {
			continue
		}
		client, err := ethclient.Dial(d.RpcUrl)
		if err != nil {
			return nil, fmt.Errorf("failed to dial %s: %w", d.Key, err)
		}
		clients[d.EVMID] = client
	}

	return &Etherman{
		registry: registry,
		clients:  clients,
		htlcABI:  htlcABI,
		erc20ABI: erc20ABI,
	}, nil
}

func (e *Etherman) Family() chains.Family { return chains.FamilyEVM }

// CreateHTLC locks funds on an EVM chain. The native path pays the amount
// as transaction value to createHTLC; the token path first grants the HTLC
// contract an allowance, then calls createTokenHTLC.
func (e *Etherman) CreateHTLC(ctx context.Context, p *htlc.CreateParams) (string, error) {
	client, ok := e.clients[p.Chain.EVMID]
	if !ok {
		return "", &htlc.ChainExecutionError{
			Family: chains.FamilyEVM, Op: "createHTLC",
			Err: fmt.Errorf("no client for chain id %d", p.Chain.EVMID),
		}
	}
	if p.Chain.HTLCContract == "" {
		return "", &htlc.ChainExecutionError{
			Family: chains.FamilyEVM, Op: "createHTLC",
			Err: fmt.Errorf("no HTLC contract deployed on %s", p.Chain.Key),
		}
	}

	key, auth, err := e.auth(ctx, client, p.Credentials.EVMPrivateKey)
	if err != nil {
		return "", &htlc.ChainExecutionError{Family: chains.FamilyEVM, Op: "auth", Err: err}
	}

	contractAddr := ethcommon.HexToAddress(p.Chain.HTLCContract)
	receiver := ethcommon.HexToAddress(p.Recipient)
	timelock := big.NewInt(p.Timelock)
	hashlock := [32]byte(p.Hashlock)

	contract := bind.NewBoundContract(contractAddr, e.htlcABI, client, client, client)

	log := logger.WithFields(logger.Fields{
		"chain":    p.Chain.Key,
		"contract": contractAddr.Hex(),
		"timelock": p.Timelock,
	})

	if chains.IsNativeToken(p.Chain, p.Token) {
		auth.Value = p.Amount
		auth.GasLimit = createHTLCGasLimit
		tx, err := contract.Transact(auth, "createHTLC", receiver, hashlock, timelock)
		if err != nil {
			return "", &htlc.ChainExecutionError{Family: chains.FamilyEVM, Op: "createHTLC", Err: err}
		}
		log.WithField("txHash", tx.Hash().Hex()).Info("submitted native HTLC")
		return tx.Hash().Hex(), nil
	}

	tokenAddr := ethcommon.HexToAddress(p.Token)
	owner := crypto.PubkeyToAddress(key.PublicKey)
	if err := e.ensureAllowance(ctx, client, auth, owner, tokenAddr, contractAddr, p.Amount); err != nil {
		return "", &htlc.ChainExecutionError{Family: chains.FamilyEVM, Op: "approve", Err: err}
	}

	auth.Value = nil
	auth.GasLimit = createHTLCGasLimit
	tx, err := contract.Transact(auth, "createTokenHTLC", tokenAddr, receiver, p.Amount, hashlock, timelock)
	if err != nil {
		return "", &htlc.ChainExecutionError{Family: chains.FamilyEVM, Op: "createTokenHTLC", Err: err}
	}
	log.WithFields(logger.Fields{"txHash": tx.Hash().Hex(), "token": p.Token}).Info("submitted token HTLC")
	return tx.Hash().Hex(), nil
}

// Allowance reads the current ERC20 allowance owner has granted spender.
func (e *Etherman) Allowance(ctx context.Context, chainID int64, token, owner, spender string) (*big.Int, error) {
	client, ok := e.clients[chainID]
	if !ok {
		return nil, fmt.Errorf("no client for chain id %d", chainID)
	}
	contract := bind.NewBoundContract(ethcommon.HexToAddress(token), e.erc20ABI, client, client, client)

	var out []any
	err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "allowance",
		ethcommon.HexToAddress(owner), ethcommon.HexToAddress(spender))
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// SubmitPrebuiltSwap signs and sends an aggregator-built swap transaction,
// granting the router an allowance first when the source is an ERC20 and
// the current allowance falls short. Used by the same-chain fast path.
func (e *Etherman) SubmitPrebuiltSwap(ctx context.Context, chainID int64, swapTx *aggregator.SwapTx, token, spender string, amount *big.Int, privateKey string) (string, error) {
	client, ok := e.clients[chainID]
	if !ok {
		return "", fmt.Errorf("no client for chain id %d", chainID)
	}
	key, auth, err := e.auth(ctx, client, privateKey)
	if err != nil {
		return "", err
	}

	if token != "" && !strings.EqualFold(token, aggregator.NativeTokenAddress) {
		owner := crypto.PubkeyToAddress(key.PublicKey)
		if err := e.ensureAllowance(ctx, client, auth,
			owner, ethcommon.HexToAddress(token), ethcommon.HexToAddress(spender), amount); err != nil {
			return "", err
		}
	}

	to := ethcommon.HexToAddress(swapTx.To)
	value := big.NewInt(0)
	if swapTx.Value != "" {
		if _, ok := value.SetString(swapTx.Value, 10); !ok {
			return "", fmt.Errorf("bad swap tx value %q", swapTx.Value)
		}
	}
	gasLimit := uint64(swapTx.Gas)
	if gasLimit == 0 {
		gasLimit = swapFallbackGasLimit
	}

	auth.Value = value
	auth.GasLimit = gasLimit
	data := ethcommon.FromHex(swapTx.Data)
	tx, err := rawTransact(ctx, client, auth, key, &to, data)
	if err != nil {
		return "", err
	}
	return tx.Hash().Hex(), nil
}

// EstimateSwapFee returns a native-unit fee estimate from live gas prices
// and a fixed 200k gas budget.
func (e *Etherman) EstimateSwapFee(ctx context.Context, chainID int64) (*big.Int, error) {
	client, ok := e.clients[chainID]
	if !ok {
		return nil, fmt.Errorf("no client for chain id %d", chainID)
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Mul(gasPrice, big.NewInt(200_000)), nil
}

func (e *Etherman) ensureAllowance(ctx context.Context, client *ethclient.Client, auth *bind.TransactOpts, owner, token, spender ethcommon.Address, amount *big.Int) error {
	contract := bind.NewBoundContract(token, e.erc20ABI, client, client, client)

	var out []any
	if err := contract.Call(&bind.CallOpts{Context: ctx}, &out, "allowance", owner, spender); err != nil {
		return fmt.Errorf("allowance check failed: %w", err)
	}
	current := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	if current.Cmp(amount) >= 0 {
		return nil
	}

	auth.Value = nil
	auth.GasLimit = approveGasLimit
	tx, err := contract.Transact(auth, "approve", spender, amount)
	if err != nil {
		return fmt.Errorf("approve failed: %w", err)
	}
	logger.WithFields(logger.Fields{
		"token":   token.Hex(),
		"spender": spender.Hex(),
		"txHash":  tx.Hash().Hex(),
	}).Info("submitted ERC20 approval")

	// The approval must land before the dependent call is accepted.
	if _, err := bind.WaitMined(ctx, client, tx); err != nil {
		return fmt.Errorf("approve not mined: %w", err)
	}
	return nil
}

// auth builds per-call transact opts from a hex private key. Keys never
// live on the shared Etherman.
func (e *Etherman) auth(ctx context.Context, client *ethclient.Client, privateKey string) (*ecdsa.PrivateKey, *bind.TransactOpts, error) {
	if privateKey == "" {
		return nil, nil, fmt.Errorf("missing EVM signer key")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return nil, nil, fmt.Errorf("bad EVM private key: %w", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, nil, err
	}
	auth.Context = ctx
	return key, auth, nil
}
