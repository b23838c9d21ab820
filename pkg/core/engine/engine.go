package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/bsv-blockchain/go-sdk/overlay"
	"github.com/bsv-blockchain/go-sdk/overlay/lookup"
	"github.com/bsv-blockchain/go-sdk/spv"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/bsv-blockchain/go-sdk/transaction/chaintracker"
)

// SumbitMode represents the mode for transaction submission
type SumbitMode string

var (
	// SubmitModeHistorical is the mode for submitting historical transactions
	SubmitModeHistorical SumbitMode = "historical-tx"
	// SubmitModeCurrent is the mode for submitting current transactions
	SubmitModeCurrent SumbitMode = "current-tx"
)

// OnSteakReady is a callback function that is called when a steak is ready
type OnSteakReady func(steak *overlay.Steak)

// Engine is the core overlay services engine. It hosts topic managers and
// lookup services, tracks admitted outputs in storage and keeps both sides
// consistent as transactions are submitted, proven and evicted.
type Engine struct {
	Managers       map[string]TopicManager
	LookupServices map[string]LookupService
	Storage        Storage
	ChainTracker   chaintracker.ChainTracker
}

// NewEngine creates and returns a new Engine instance
func NewEngine(cfg Engine) *Engine {
	if cfg.Managers == nil {
		cfg.Managers = make(map[string]TopicManager)
	}
	if cfg.LookupServices == nil {
		cfg.LookupServices = make(map[string]LookupService)
	}
	return &cfg
}

var (
	// ErrUnknownTopic is returned when a topic is not found in the engine
	ErrUnknownTopic = errors.New("unknown-topic")
	// ErrInvalidBeef is returned when BEEF data is invalid
	ErrInvalidBeef = errors.New("invalid-beef")
	// ErrInvalidTransaction is returned when a transaction is invalid
	ErrInvalidTransaction = errors.New("invalid-transaction")
	// ErrMissingInput is returned when an input is missing
	ErrMissingInput = errors.New("missing-input")
	// ErrMissingOutput is returned when an output is missing
	ErrMissingOutput = errors.New("missing-output")
	// ErrMissingDependencyTx is returned when a dependency transaction is missing
	ErrMissingDependencyTx = errors.New("missing dependency transaction")
	// ErrMissingBeef is returned when BEEF data is missing
	ErrMissingBeef = errors.New("missing beef")
	// ErrMissingSourceTransaction is returned when a source transaction is missing
	ErrMissingSourceTransaction = errors.New("missing source transaction")
	// ErrMissingTransaction is returned when a transaction is missing
	ErrMissingTransaction = errors.New("missing transaction")
	// ErrNoDocumentationFound is returned when no documentation is found
	ErrNoDocumentationFound = errors.New("no documentation found")
)

// Submit submits a transaction to the overlay service
func (e *Engine) Submit(ctx context.Context, taggedBEEF overlay.TaggedBEEF, mode SumbitMode, onSteakReady OnSteakReady) (overlay.Steak, error) {
	start := time.Now()
	for _, topic := range taggedBEEF.Topics {
		if _, ok := e.Managers[topic]; !ok {
			slog.Error("unknown topic in Submit", "topic", topic, "error", ErrUnknownTopic)
			return nil, ErrUnknownTopic
		}
	}

	beef, tx, txid, err := transaction.ParseBeef(taggedBEEF.Beef)
	if err != nil {
		slog.Error("failed to parse BEEF in Submit", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidBeef, err)
	} else if tx == nil {
		slog.Error("invalid BEEF in Submit - tx is nil", "error", ErrInvalidBeef)
		return nil, ErrInvalidBeef
	}
	if valid, err := spv.Verify(tx, e.ChainTracker, nil); err != nil {
		slog.Error("SPV verification failed in Submit", "txid", txid, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	} else if !valid {
		slog.Error("invalid transaction in Submit", "txid", txid, "error", ErrInvalidTransaction)
		return nil, ErrInvalidTransaction
	}
	slog.Debug("transaction validated", "duration", time.Since(start))
	start = time.Now()
	steak := make(overlay.Steak, len(taggedBEEF.Topics))
	topicInputs := make(map[string]map[uint32]*Output, len(tx.Inputs))
	inpoints := make([]*overlay.Outpoint, 0, len(tx.Inputs))
	ancillaryBeefs := make(map[string][]byte, len(taggedBEEF.Topics))
	for _, input := range tx.Inputs {
		inpoints = append(inpoints, &overlay.Outpoint{
			Txid:        *input.SourceTXID,
			OutputIndex: input.SourceTxOutIndex,
		})
	}
	dupeTopics := make(map[string]struct{}, len(taggedBEEF.Topics))
	for _, topic := range taggedBEEF.Topics {
		if exists, err := e.Storage.DoesAppliedTransactionExist(ctx, &overlay.AppliedTransaction{
			Txid:  txid,
			Topic: topic,
		}); err != nil {
			slog.Error("failed to check if transaction exists", "txid", txid, "topic", topic, "error", err)
			return nil, err
		} else if exists {
			steak[topic] = &overlay.AdmittanceInstructions{}
			dupeTopics[topic] = struct{}{}
			continue
		}
		topicInputs[topic] = make(map[uint32]*Output, len(tx.Inputs))
		previousCoins := make(map[uint32]*transaction.TransactionOutput, len(tx.Inputs))
		outputs, err := e.Storage.FindOutputs(ctx, inpoints, topic, nil, false)
		if err != nil {
			slog.Error("failed to find outputs", "topic", topic, "error", err)
			return nil, err
		}
		for vin := 0; vin < len(outputs); vin++ {
			output := outputs[vin]
			if output != nil {
				previousCoins[uint32(vin)] = &transaction.TransactionOutput{ //nolint:gosec // index bounded by slice length
					LockingScript: output.Script,
					Satoshis:      output.Satoshis,
				}
				topicInputs[topic][uint32(vin)] = output //nolint:gosec // index bounded by slice length
			}
		}

		admit, err := e.Managers[topic].IdentifyAdmissibleOutputs(ctx, taggedBEEF.Beef, previousCoins)
		if err != nil {
			slog.Error("failed to identify admissible outputs", "topic", topic, "error", err)
			return nil, err
		}
		slog.Debug("admissible outputs identified", "duration", time.Since(start))
		start = time.Now()
		if len(admit.AncillaryTxids) > 0 {
			ancillaryBeef := transaction.Beef{
				Version:      transaction.BEEF_V2,
				Transactions: make(map[string]*transaction.BeefTx, len(admit.AncillaryTxids)),
			}
			for _, txid := range admit.AncillaryTxids {
				if foundTx := beef.FindTransaction(txid.String()); foundTx == nil {
					missingErr := ErrMissingDependencyTx
					slog.Error("missing dependency transaction", "txid", txid, "error", missingErr)
					return nil, missingErr
				} else if beefBytes, err := foundTx.BEEF(); err != nil {
					slog.Error("failed to get BEEF bytes", "txid", txid, "error", err)
					return nil, err
				} else if err := ancillaryBeef.MergeBeefBytes(beefBytes); err != nil {
					slog.Error("failed to merge BEEF bytes", "txid", txid, "error", err)
					return nil, err
				}
			}
			beefBytes, err := ancillaryBeef.Bytes()
			if err != nil {
				slog.Error("failed to get ancillary BEEF bytes", "topic", topic, "error", err)
				return nil, err
			}
			ancillaryBeefs[topic] = beefBytes
		}
		steak[topic] = &admit
	}

	for _, topic := range taggedBEEF.Topics {
		if _, ok := dupeTopics[topic]; ok {
			continue
		}
		if err := e.Storage.MarkUTXOsAsSpent(ctx, inpoints, topic, txid); err != nil {
			slog.Error("failed to mark UTXOs as spent", "topic", topic, "txid", txid, "error", err)
			return nil, err
		}
		for vin := 0; vin < len(inpoints); vin++ {
			outpoint := inpoints[vin]
			for _, l := range e.LookupServices {
				if err := l.OutputSpent(ctx, &OutputSpent{
					Outpoint:           outpoint,
					Topic:              topic,
					SpendingTxid:       txid,
					InputIndex:         uint32(vin), //nolint:gosec // index bounded by slice length
					UnlockingScript:    tx.Inputs[vin].UnlockingScript,
					SequenceNumber:     tx.Inputs[vin].SequenceNumber,
					SpendingAtomicBEEF: taggedBEEF.Beef,
				}); err != nil {
					slog.Error("failed to notify lookup service about spent output", "topic", topic, "txid", txid, "error", err)
					return nil, err
				}
			}
		}
	}
	slog.Debug("UTXOs marked as spent", "duration", time.Since(start))
	start = time.Now()

	if onSteakReady != nil {
		onSteakReady(&steak)
	}

	for _, topic := range taggedBEEF.Topics {
		if _, ok := dupeTopics[topic]; ok {
			continue
		}
		admit := steak[topic]
		outputsConsumed := make([]*Output, 0, len(admit.CoinsToRetain))
		outpointsConsumed := make([]*overlay.Outpoint, 0, len(admit.CoinsToRetain))
		for vin, output := range topicInputs[topic] {
			for _, coin := range admit.CoinsToRetain {
				if vin == coin {
					outputsConsumed = append(outputsConsumed, output)
					outpointsConsumed = append(outpointsConsumed, &output.Outpoint)
					delete(topicInputs[topic], vin)
					break
				}
			}
		}

		for vin, output := range topicInputs[topic] {
			if err := e.deleteUTXODeep(ctx, output); err != nil {
				slog.Error("failed to delete UTXO deep", "topic", topic, "outpoint", output.Outpoint.String(), "error", err)
				return nil, err
			}
			if !slices.Contains(admit.CoinsRemoved, vin) {
				admit.CoinsRemoved = append(admit.CoinsRemoved, vin)
			}
		}

		newOutpoints := make([]*overlay.Outpoint, 0, len(admit.OutputsToAdmit))
		for _, vout := range admit.OutputsToAdmit {
			out := tx.Outputs[vout]
			output := &Output{
				Outpoint: overlay.Outpoint{
					Txid:        *txid,
					OutputIndex: vout,
				},
				Script:          out.LockingScript,
				Satoshis:        out.Satoshis,
				Topic:           topic,
				OutputsConsumed: outpointsConsumed,
				Beef:            taggedBEEF.Beef,
				AncillaryTxids:  admit.AncillaryTxids,
				AncillaryBeef:   ancillaryBeefs[topic],
			}
			if tx.MerklePath != nil {
				output.BlockHeight = tx.MerklePath.BlockHeight
				for _, leaf := range tx.MerklePath.Path[0] {
					if leaf.Hash != nil && leaf.Hash.Equal(output.Outpoint.Txid) {
						output.BlockIdx = leaf.Offset
						break
					}
				}
			}
			if err := e.Storage.InsertOutput(ctx, output); err != nil {
				slog.Error("failed to insert output", "topic", topic, "outpoint", output.Outpoint.String(), "error", err)
				return nil, err
			}
			newOutpoints = append(newOutpoints, &output.Outpoint)
			for _, l := range e.LookupServices {
				if err := l.OutputAdmittedByTopic(ctx, &OutputAdmittedByTopic{
					Topic:         topic,
					Outpoint:      &output.Outpoint,
					Satoshis:      output.Satoshis,
					LockingScript: output.Script,
					AtomicBEEF:    taggedBEEF.Beef,
				}); err != nil {
					slog.Error("failed to notify lookup service about admitted output", "topic", topic, "outpoint", output.Outpoint.String(), "error", err)
					return nil, err
				}
			}
		}
		slog.Debug("outputs added", "duration", time.Since(start))
		start = time.Now()
		for _, output := range outputsConsumed {
			output.ConsumedBy = append(output.ConsumedBy, newOutpoints...)

			if err := e.Storage.UpdateConsumedBy(ctx, &output.Outpoint, output.Topic, output.ConsumedBy); err != nil {
				slog.Error("failed to update consumed by", "topic", output.Topic, "outpoint", output.Outpoint.String(), "error", err)
				return nil, err
			}
		}
		slog.Debug("consumed by references updated", "duration", time.Since(start))
		start = time.Now()
		if err := e.Storage.InsertAppliedTransaction(ctx, &overlay.AppliedTransaction{
			Txid:  txid,
			Topic: topic,
		}); err != nil {
			slog.Error("failed to insert applied transaction", "topic", topic, "txid", txid, "error", err)
			return nil, err
		}
		slog.Debug("transaction applied", "duration", time.Since(start))
	}
	return steak, nil
}

// Lookup performs a lookup query on the overlay service
func (e *Engine) Lookup(ctx context.Context, question *lookup.LookupQuestion) (*lookup.LookupAnswer, error) {
	l, ok := e.LookupServices[question.Service]
	if !ok {
		slog.Error("unknown lookup service", "service", question.Service, "error", ErrUnknownTopic)
		return nil, ErrUnknownTopic
	}
	result, err := l.Lookup(ctx, question)
	if err != nil {
		slog.Error("lookup service failed", "service", question.Service, "error", err)
		return nil, err
	}
	if result.Type == lookup.AnswerTypeFreeform || result.Type == lookup.AnswerTypeOutputList {
		return result, nil
	}
	hydratedOutputs := make([]*lookup.OutputListItem, 0, len(result.Outputs))
	for _, formula := range result.Formulas {
		if output, err := e.Storage.FindOutput(ctx, formula.Outpoint, nil, nil, true); err != nil {
			slog.Error("failed to find output in Lookup", "outpoint", formula.Outpoint.String(), "error", err)
			return nil, err
		} else if output != nil && output.Beef != nil {
			if hydratedOutput, err := e.GetUTXOHistory(ctx, output, formula.Histoy, 0); err != nil {
				slog.Error("failed to get UTXO history in Lookup", "outpoint", formula.Outpoint.String(), "error", err)
				return nil, err
			} else if hydratedOutput != nil {
				hydratedOutputs = append(hydratedOutputs, &lookup.OutputListItem{
					Beef:        hydratedOutput.Beef,
					OutputIndex: hydratedOutput.Outpoint.OutputIndex,
				})
			}
		}
	}
	return &lookup.LookupAnswer{
		Type:    lookup.AnswerTypeOutputList,
		Outputs: hydratedOutputs,
	}, nil
}

// GetUTXOHistory retrieves the history of a UTXO
func (e *Engine) GetUTXOHistory(ctx context.Context, output *Output, historySelector func(beef []byte, outputIndex, currentDepth uint32) bool, currentDepth uint32) (*Output, error) {
	if historySelector == nil {
		return output, nil
	}
	shouldTravelHistory := historySelector(output.Beef, output.Outpoint.OutputIndex, currentDepth)
	if !shouldTravelHistory {
		return nil, nil //nolint:nilnil // returning nil output with no error is valid when selector returns false
	}
	if output != nil && len(output.OutputsConsumed) == 0 {
		return output, nil
	}
	outputsConsumed := output.OutputsConsumed[:]
	childHistories := make(map[string]*Output, len(outputsConsumed))
	for _, outpoint := range outputsConsumed {
		if childOutput, err := e.Storage.FindOutput(ctx, outpoint, nil, nil, true); err != nil {
			slog.Error("failed to find output in GetUTXOHistory", "outpoint", outpoint.String(), "error", err)
			return nil, err
		} else if childOutput != nil {
			if child, err := e.GetUTXOHistory(ctx, childOutput, historySelector, currentDepth+1); err != nil {
				slog.Error("failed to get child UTXO history", "outpoint", outpoint.String(), "depth", currentDepth+1, "error", err)
				return nil, err
			} else if child != nil {
				childHistories[child.Outpoint.String()] = child
			}
		}
	}

	tx, err := transaction.NewTransactionFromBEEF(output.Beef)
	if err != nil {
		slog.Error("failed to create transaction from BEEF in GetUTXOHistory", "outpoint", output.Outpoint.String(), "error", err)
		return nil, err
	}
	for _, txin := range tx.Inputs {
		outpoint := &overlay.Outpoint{
			Txid:        *txin.SourceTXID,
			OutputIndex: txin.SourceTxOutIndex,
		}
		if input := childHistories[outpoint.String()]; input != nil {
			if input.Beef == nil {
				beefErr := ErrMissingBeef
				slog.Error("missing BEEF in GetUTXOHistory", "outpoint", outpoint.String(), "error", beefErr)
				return nil, beefErr
			} else if txin.SourceTransaction, err = transaction.NewTransactionFromBEEF(input.Beef); err != nil {
				slog.Error("failed to create source transaction from BEEF", "outpoint", outpoint.String(), "error", err)
				return nil, err
			}
		}
	}
	beef, err := tx.BEEF()
	if err != nil {
		slog.Error("failed to get BEEF from transaction in GetUTXOHistory", "outpoint", output.Outpoint.String(), "error", err)
		return nil, err
	}
	output.Beef = beef
	return output, nil
}

// Evict permanently removes an admitted output from a topic. The output's
// history chain is released the same way as when a manager stops retaining a
// coin, and every lookup service is told to forget the outpoint.
func (e *Engine) Evict(ctx context.Context, outpoint *overlay.Outpoint, topic string) error {
	if _, ok := e.Managers[topic]; !ok {
		slog.Error("unknown topic in Evict", "topic", topic, "error", ErrUnknownTopic)
		return ErrUnknownTopic
	}
	output, err := e.Storage.FindOutput(ctx, outpoint, &topic, nil, false)
	if err != nil {
		slog.Error("failed to find output in Evict", "outpoint", outpoint.String(), "topic", topic, "error", err)
		return err
	}
	if output == nil {
		slog.Error("output not found in Evict", "outpoint", outpoint.String(), "topic", topic, "error", ErrMissingOutput)
		return ErrMissingOutput
	}
	// Break the consumption link so the deep delete does not stop at a
	// still-consumed output.
	output.ConsumedBy = nil
	if err := e.deleteUTXODeep(ctx, output); err != nil {
		slog.Error("failed to delete UTXO deep in Evict", "outpoint", outpoint.String(), "topic", topic, "error", err)
		return err
	}
	for _, l := range e.LookupServices {
		if err := l.OutputEvicted(ctx, outpoint); err != nil {
			slog.Error("failed to notify lookup service about evicted output", "outpoint", outpoint.String(), "error", err)
			return err
		}
	}
	return nil
}

func (e *Engine) deleteUTXODeep(ctx context.Context, output *Output) error {
	if len(output.ConsumedBy) == 0 {
		if err := e.Storage.DeleteOutput(ctx, &output.Outpoint, output.Topic); err != nil {
			slog.Error("failed to delete output in deleteUTXODeep", "outpoint", output.Outpoint.String(), "topic", output.Topic, "error", err)
			return err
		}
		for _, l := range e.LookupServices {
			if err := l.OutputNoLongerRetainedInHistory(ctx, &output.Outpoint, output.Topic); err != nil {
				slog.Error("failed to notify lookup service about output removal", "outpoint", output.Outpoint.String(), "topic", output.Topic, "error", err)
				return err
			}
		}
	}
	if len(output.OutputsConsumed) == 0 {
		return nil
	}

	for _, outpoint := range output.OutputsConsumed {
		staleOutput, err := e.Storage.FindOutput(ctx, outpoint, &output.Topic, nil, false)
		if err != nil {
			slog.Error("failed to find stale output in deleteUTXODeep", "outpoint", outpoint.String(), "topic", output.Topic, "error", err)
			return err
		} else if staleOutput == nil {
			continue
		}
		if len(staleOutput.ConsumedBy) > 0 {
			consumedBy := staleOutput.ConsumedBy
			staleOutput.ConsumedBy = make([]*overlay.Outpoint, 0, len(consumedBy))
			for _, outpoint := range consumedBy {
				if !outpoint.Txid.Equal(output.Outpoint.Txid) {
					staleOutput.ConsumedBy = append(staleOutput.ConsumedBy, outpoint)
				}
			}
			if err := e.Storage.UpdateConsumedBy(ctx, &staleOutput.Outpoint, staleOutput.Topic, staleOutput.ConsumedBy); err != nil {
				slog.Error("failed to update consumed by in deleteUTXODeep", "outpoint", staleOutput.Outpoint.String(), "topic", staleOutput.Topic, "error", err)
				return err
			}
		}

		if err := e.deleteUTXODeep(ctx, staleOutput); err != nil {
			slog.Error("failed recursive deleteUTXODeep", "outpoint", staleOutput.Outpoint.String(), "topic", staleOutput.Topic, "error", err)
			return err
		}
	}
	return nil
}

//nolint:unparam // ctx is threaded through the recursion
func (e *Engine) updateInputProofs(ctx context.Context, tx *transaction.Transaction, txid chainhash.Hash, proof *transaction.MerklePath) (err error) {
	if tx.MerklePath != nil {
		tx.MerklePath = proof
		return nil
	}

	if tx.TxID().Equal(txid) {
		tx.MerklePath = proof
	} else {
		for _, input := range tx.Inputs {
			if input.SourceTransaction == nil {
				sourceErr := ErrMissingSourceTransaction
				slog.Error("missing source transaction in updateInputProofs", "txid", txid, "error", sourceErr)
				return sourceErr
			} else if err = e.updateInputProofs(ctx, input.SourceTransaction, txid, proof); err != nil {
				slog.Error("failed to update input proofs recursively", "txid", txid, "error", err)
				return err
			}
		}
	}
	return nil
}

func (e *Engine) updateMerkleProof(ctx context.Context, output *Output, txid chainhash.Hash, proof *transaction.MerklePath) error {
	if len(output.Beef) == 0 {
		err := ErrMissingBeef
		slog.Error("missing BEEF in updateMerkleProof", "outpoint", output.Outpoint.String(), "error", err)
		return err
	}
	beef, tx, _, err := transaction.ParseBeef(output.Beef)
	if err != nil {
		slog.Error("failed to parse BEEF in updateMerkleProof", "outpoint", output.Outpoint.String(), "error", err)
		return err
	} else if tx == nil {
		txErr := ErrMissingTransaction
		slog.Error("missing transaction in updateMerkleProof", "outpoint", output.Outpoint.String(), "error", txErr)
		return txErr
	}
	if tx.MerklePath != nil {
		if oldRoot, rootErr := tx.MerklePath.ComputeRoot(&txid); rootErr != nil {
			slog.Error("failed to compute old merkle root", "txid", txid, "error", rootErr)
			return rootErr
		} else if newRoot, proofErr := proof.ComputeRoot(&txid); proofErr != nil {
			slog.Error("failed to compute new merkle root", "txid", txid, "error", proofErr)
			return proofErr
		} else if oldRoot.Equal(*newRoot) {
			return nil
		}
	}
	if err = e.updateInputProofs(ctx, tx, txid, proof); err != nil {
		slog.Error("failed to update input proofs in updateMerkleProof", "txid", txid, "error", err)
		return err
	}
	atomicBytes, atomicErr := tx.AtomicBEEF(false)
	if atomicErr != nil {
		slog.Error("failed to get atomic BEEF", "txid", txid, "error", atomicErr)
		return atomicErr
	}
	if len(output.AncillaryTxids) > 0 {
		ancillaryBeef := transaction.Beef{
			Version:      transaction.BEEF_V2,
			Transactions: make(map[string]*transaction.BeefTx, len(output.AncillaryTxids)),
		}
		for _, dep := range output.AncillaryTxids {
			if depTx := beef.FindTransaction(dep.String()); depTx == nil {
				depErr := ErrMissingDependencyTx
				slog.Error("missing dependency transaction in updateMerkleProof", "dep", dep, "error", depErr)
				return depErr
			} else if depBeefBytes, depBeefErr := depTx.BEEF(); depBeefErr != nil {
				slog.Error("failed to get dependency BEEF bytes", "dep", dep, "error", depBeefErr)
				return depBeefErr
			} else if mergeErr := ancillaryBeef.MergeBeefBytes(depBeefBytes); mergeErr != nil {
				slog.Error("failed to merge dependency BEEF bytes", "dep", dep, "error", mergeErr)
				return mergeErr
			}
		}
		if output.AncillaryBeef, err = ancillaryBeef.Bytes(); err != nil {
			slog.Error("failed to get ancillary BEEF bytes in updateMerkleProof", "outpoint", output.Outpoint.String(), "error", err)
			return err
		}
	} else {
		output.AncillaryBeef = nil
	}
	output.BlockHeight = proof.BlockHeight
	for _, leaf := range proof.Path[0] {
		if leaf.Hash != nil && leaf.Hash.Equal(output.Outpoint.Txid) {
			output.BlockIdx = leaf.Offset
			break
		}
	}
	if err = e.Storage.UpdateTransactionBEEF(ctx, &output.Outpoint.Txid, atomicBytes); err != nil {
		slog.Error("failed to update transaction BEEF", "txid", output.Outpoint.Txid, "error", err)
		return err
	}
	for _, outpoint := range output.ConsumedBy {
		consumingOutputs, err := e.Storage.FindOutputsForTransaction(ctx, &outpoint.Txid, true)
		if err != nil {
			slog.Error("failed to find consuming outputs", "txid", outpoint.Txid, "error", err)
			return err
		}
		for _, consuming := range consumingOutputs {
			if err := e.updateMerkleProof(ctx, consuming, txid, proof); err != nil {
				slog.Error("failed to update merkle proof for consuming output", "consumingTxid", consuming.Outpoint.Txid, "error", err)
				return err
			}
		}
	}
	return nil
}

// HandleNewMerkleProof handles a new Merkle proof
func (e *Engine) HandleNewMerkleProof(ctx context.Context, txid *chainhash.Hash, proof *transaction.MerklePath) error {
	if outputs, err := e.Storage.FindOutputsForTransaction(ctx, txid, true); err != nil {
		slog.Error("failed to find outputs for transaction in HandleNewMerkleProof", "txid", txid, "error", err)
		return err
	} else if len(outputs) > 0 {
		var blockIdx *uint64
		for _, leaf := range proof.Path[0] {
			if leaf.Hash != nil && leaf.Hash.Equal(*txid) {
				blockIdx = &leaf.Offset
				break
			}
		}
		if blockIdx == nil {
			err := fmt.Errorf("not found in proof: %s", txid) //nolint:err113 // dynamic error needed for context
			slog.Error("transaction not found in merkle proof", "txid", txid, "error", err)
			return err
		}
		blockHeight := proof.BlockHeight
		for _, output := range outputs {
			if err := e.updateMerkleProof(ctx, output, *txid, proof); err != nil {
				slog.Error("failed to update merkle proof in HandleNewMerkleProof", "outpoint", output.Outpoint.String(), "error", err)
				return err
			} else if err := e.Storage.UpdateOutputBlockHeight(ctx, &output.Outpoint, output.Topic, output.BlockHeight, output.BlockIdx, output.AncillaryBeef); err != nil {
				slog.Error("failed to update output block height", "outpoint", output.Outpoint.String(), "error", err)
				return err
			}
		}
		for _, l := range e.LookupServices {
			if err := l.OutputBlockHeightUpdated(ctx, txid, blockHeight, *blockIdx); err != nil {
				slog.Error("failed to notify lookup service about block height update", "txid", txid, "blockHeight", blockHeight, "error", err)
				return err
			}
		}
	}
	return nil
}

// ListTopicManagers returns a list of topic managers and their metadata
func (e *Engine) ListTopicManagers() map[string]*overlay.MetaData {
	result := make(map[string]*overlay.MetaData, len(e.Managers))
	for name, manager := range e.Managers {
		result[name] = manager.GetMetaData()
	}
	return result
}

// ListLookupServiceProviders returns a list of lookup service providers and their metadata
func (e *Engine) ListLookupServiceProviders() map[string]*overlay.MetaData {
	result := make(map[string]*overlay.MetaData, len(e.LookupServices))
	for name, provider := range e.LookupServices {
		result[name] = provider.GetMetaData()
	}
	return result
}

// GetDocumentationForTopicManager returns documentation for a topic manager
func (e *Engine) GetDocumentationForTopicManager(manager string) (string, error) {
	tm, ok := e.Managers[manager]
	if !ok {
		err := ErrNoDocumentationFound
		slog.Error("topic manager not found", "manager", manager, "error", err)
		return "", err
	}
	return tm.GetDocumentation(), nil
}

// GetDocumentationForLookupServiceProvider returns documentation for a lookup service provider
func (e *Engine) GetDocumentationForLookupServiceProvider(provider string) (string, error) {
	l, ok := e.LookupServices[provider]
	if !ok {
		err := ErrNoDocumentationFound
		slog.Error("lookup service provider not found", "provider", provider, "error", err)
		return "", err
	}
	return l.GetDocumentation(), nil
}
