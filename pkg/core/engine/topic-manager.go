package engine

import (
	"context"

	"github.com/bsv-blockchain/go-sdk/overlay"
	"github.com/bsv-blockchain/go-sdk/transaction"
)

type TopicManager interface {
	// Decides which outputs of the submitted tagged BEEF are admissible for
	// the topic. previousCoins maps input indices to the outputs they spend,
	// restricted to outputs previously admitted under this topic.
	IdentifyAdmissibleOutputs(ctx context.Context, beef []byte, previousCoins map[uint32]*transaction.TransactionOutput) (overlay.AdmittanceInstructions, error)

	// Reports additional inputs the manager needs resolved before admission
	// can be decided.
	IdentifyNeededInputs(ctx context.Context, beef []byte) ([]*overlay.Outpoint, error)
	GetDocumentation() string
	GetMetaData() *overlay.MetaData
}
