package token_test

import (
	"encoding/hex"
	"testing"

	"github.com/4chain-ag/go-token-overlay/pkg/token"
	"github.com/bsv-blockchain/go-sdk/chainhash"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/stretchr/testify/require"
)

// fakeTxID returns a fixed valid chainhash.Hash for testing purposes.
func fakeTxID(t *testing.T) chainhash.Hash {
	t.Helper()

	const hexStr = "03895fb984362a4196bc9931629318fcbb2aeba7c6293638119ea653fa31d119"
	b, err := hex.DecodeString(hexStr)
	require.NoError(t, err)

	var h chainhash.Hash
	copy(h[:], b)
	return h
}

// tokenOutput builds a transaction output carrying a tagged token locking script.
func tokenOutput(t *testing.T, owner *ec.PublicKey, assetID string, amount uint64, metadata *string) *transaction.TransactionOutput {
	t.Helper()

	data := &token.Data{AssetID: assetID, Amount: amount, Metadata: metadata}
	lockingScript, err := data.Lock(owner)
	require.NoError(t, err)

	return &transaction.TransactionOutput{Satoshis: 1, LockingScript: lockingScript}
}

// buildTokenBEEF assembles a previous transaction holding the given coin
// outputs and a current transaction spending all of them in order, and returns
// the atomic BEEF of the current transaction together with both transactions.
func buildTokenBEEF(t *testing.T, coins []*transaction.TransactionOutput, outputs []*transaction.TransactionOutput) (beefBytes []byte, prevTx, currentTx *transaction.Transaction) {
	t.Helper()

	prevTx = &transaction.Transaction{
		Inputs:  []*transaction.TransactionInput{},
		Outputs: coins,
	}
	prevTxID := prevTx.TxID()

	inputs := make([]*transaction.TransactionInput, 0, len(coins))
	for vout := range coins {
		inputs = append(inputs, &transaction.TransactionInput{
			SourceTXID:       prevTxID,
			SourceTxOutIndex: uint32(vout), //nolint:gosec // bounded by the coin count
		})
	}
	currentTx = &transaction.Transaction{
		Inputs:  inputs,
		Outputs: outputs,
	}
	currentTxID := currentTx.TxID()

	beef := &transaction.Beef{
		Version: transaction.BEEF_V2,
		Transactions: map[string]*transaction.BeefTx{
			prevTxID.String():    {Transaction: prevTx},
			currentTxID.String(): {Transaction: currentTx},
		},
	}
	beefBytes, err := beef.AtomicBytes(currentTxID)
	require.NoError(t, err)

	return beefBytes, prevTx, currentTx
}

// previousCoinsOf maps every output of the previous transaction to the input
// index spending it, mirroring how the engine hands coins to a topic manager.
func previousCoinsOf(prevTx *transaction.Transaction) map[uint32]*transaction.TransactionOutput {
	coins := make(map[uint32]*transaction.TransactionOutput, len(prevTx.Outputs))
	for vout, output := range prevTx.Outputs {
		coins[uint32(vout)] = output //nolint:gosec // bounded by the output count
	}
	return coins
}
