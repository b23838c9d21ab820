package token

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/bsv-blockchain/go-sdk/overlay"
	"github.com/bsv-blockchain/go-sdk/transaction"
)

// TopicName is the topic under which token outputs are admitted.
const TopicName = "tm_tokens"

// TopicManager admits token outputs into the overlay. It enforces per-asset
// conservation between the token coins a transaction consumes and the token
// outputs it creates, and keeps asset metadata immutable across transfers.
// It never rejects a whole transaction: outputs that fail validation are
// simply left unadmitted.
type TopicManager struct{}

// NewTopicManager returns a token topic manager.
func NewTopicManager() *TopicManager {
	return &TopicManager{}
}

// allowance tracks what a transaction is entitled to mint for one asset:
// the summed amount of its consumed coins and the metadata those coins carry.
type allowance struct {
	amount   uint64
	metadata *string
}

// IdentifyAdmissibleOutputs decides which outputs of the submitted transaction
// are admissible token outputs. previousCoins maps input indices to the
// outputs they spend, restricted to coins previously admitted to this topic.
//
// Issuance outputs are always admitted. Transfer outputs are admitted in
// output order as long as the running total per asset stays within the amount
// consumed by the transaction's inputs and the metadata matches the consumed
// coins byte for byte. Consumed coins whose asset is carried forward by an
// admitted output are retained for history; all others are released.
//
// A malformed transaction bundle admits nothing but is not an error: admission
// is advisory, failures must not abort a submission that other topics may
// still accept.
func (tm *TopicManager) IdentifyAdmissibleOutputs(ctx context.Context, beefBytes []byte, previousCoins map[uint32]*transaction.TransactionOutput) (overlay.AdmittanceInstructions, error) {
	_, tx, txid, err := transaction.ParseBeef(beefBytes)
	if err != nil || tx == nil || txid == nil {
		slog.Warn("token admission skipped, malformed transaction bundle", "error", err)
		return overlay.AdmittanceInstructions{}, nil
	}

	ledger := make(map[string]*allowance, len(previousCoins))
	coinAssets := make(map[uint32]string, len(previousCoins))
	for _, vin := range slices.Sorted(maps.Keys(previousCoins)) {
		coin := previousCoins[vin]
		if coin == nil {
			continue
		}
		data, err := Decode(coin.LockingScript)
		if err != nil {
			// Not a token coin; it neither funds nor retains anything.
			continue
		}
		if int(vin) >= len(tx.Inputs) || tx.Inputs[vin].SourceTXID == nil {
			slog.Warn("token admission skipped, coin without a resolvable source", "txid", txid.String(), "inputIndex", vin)
			return overlay.AdmittanceInstructions{}, nil
		}
		source := &overlay.Outpoint{
			Txid:        *tx.Inputs[vin].SourceTXID,
			OutputIndex: tx.Inputs[vin].SourceTxOutIndex,
		}
		assetID := CanonicalAssetID(data.AssetID, source)
		coinAssets[vin] = assetID
		if entry, ok := ledger[assetID]; ok {
			// Amounts accumulate; the metadata of the first coin stands for
			// the asset. Diverging metadata between same-asset coins cannot
			// happen for admitted coins, which all passed the equality check
			// against their own funding coins.
			entry.amount += data.Amount
		} else {
			ledger[assetID] = &allowance{amount: data.Amount, metadata: data.Metadata}
		}
	}

	admitted := make([]uint32, 0, len(tx.Outputs))
	admittedAssets := make(map[string]struct{}, len(tx.Outputs))
	minted := make(map[string]uint64, len(ledger))
	for vout, output := range tx.Outputs {
		data, err := Decode(output.LockingScript)
		if err != nil {
			continue
		}
		vout32 := uint32(vout) //nolint:gosec // vout is bounded by the output count
		if data.AssetID == IssueMarker {
			admitted = append(admitted, vout32)
			outpoint := &overlay.Outpoint{Txid: *txid, OutputIndex: vout32}
			admittedAssets[outpoint.String()] = struct{}{}
			continue
		}
		entry, ok := ledger[data.AssetID]
		if !ok {
			continue
		}
		if minted[data.AssetID]+data.Amount > entry.amount {
			continue
		}
		if !metadataEqual(entry.metadata, data.Metadata) {
			continue
		}
		minted[data.AssetID] += data.Amount
		admitted = append(admitted, vout32)
		admittedAssets[data.AssetID] = struct{}{}
	}

	instructions := overlay.AdmittanceInstructions{OutputsToAdmit: admitted}
	for _, vin := range slices.Sorted(maps.Keys(coinAssets)) {
		if _, ok := admittedAssets[coinAssets[vin]]; ok {
			instructions.CoinsToRetain = append(instructions.CoinsToRetain, vin)
		} else {
			instructions.CoinsRemoved = append(instructions.CoinsRemoved, vin)
		}
	}
	return instructions, nil
}

// IdentifyNeededInputs reports no extra inputs: every coin the manager cares
// about is already tracked by the engine through prior admissions.
func (tm *TopicManager) IdentifyNeededInputs(ctx context.Context, beefBytes []byte) ([]*overlay.Outpoint, error) {
	return nil, nil
}

func (tm *TopicManager) GetDocumentation() string {
	return `# Token Topic Manager

Admits tagged token outputs. An output is admissible when it either issues a
new asset or transfers an existing one without inflating its supply or
mutating its metadata. Validation is per-output: inadmissible outputs are
skipped, the transaction itself is never rejected.`
}

func (tm *TopicManager) GetMetaData() *overlay.MetaData {
	return &overlay.MetaData{
		Name:        TopicName,
		Description: "Admits token issuance and transfer outputs with per-asset supply conservation.",
	}
}

func metadataEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
