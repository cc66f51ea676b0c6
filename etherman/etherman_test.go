package etherman

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestHTLCABIPacksCreateHTLC(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(htlcABIJSON))
	assert.NoError(t, err)

	receiver := ethcommon.HexToAddress("0x2222222222222222222222222222222222222222")
	var hashlock [32]byte
	hashlock[0] = 0xab

	data, err := parsed.Pack("createHTLC", receiver, hashlock, big.NewInt(1_700_007_200))
	assert.NoError(t, err)
	// 4-byte selector + 3 words
	assert.Len(t, data, 4+3*32)

	method, err := parsed.MethodById(data[:4])
	assert.NoError(t, err)
	assert.Equal(t, "createHTLC", method.Name)
	assert.True(t, method.IsPayable())
}

func TestHTLCABIPacksCreateTokenHTLC(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(htlcABIJSON))
	assert.NoError(t, err)

	token := ethcommon.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	receiver := ethcommon.HexToAddress("0x2222222222222222222222222222222222222222")
	var hashlock [32]byte

	data, err := parsed.Pack("createTokenHTLC",
		token, receiver, big.NewInt(250_000_000), hashlock, big.NewInt(1_700_007_200))
	assert.NoError(t, err)
	assert.Len(t, data, 4+5*32)

	method, err := parsed.MethodById(data[:4])
	assert.NoError(t, err)
	assert.Equal(t, "createTokenHTLC", method.Name)
	assert.False(t, method.IsPayable())
}

func TestERC20ABI(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	assert.NoError(t, err)

	spender := ethcommon.HexToAddress("0x3333333333333333333333333333333333333333")
	data, err := parsed.Pack("approve", spender, big.NewInt(1))
	assert.NoError(t, err)
	assert.Len(t, data, 4+2*32)

	_, err = parsed.Pack("allowance", spender, spender)
	assert.NoError(t, err)
	_, err = parsed.Pack("balanceOf", spender)
	assert.NoError(t, err)
}
