package app

import (
	"context"
	"errors"

	"github.com/4chain-ag/go-token-overlay/pkg/core/engine"
	"github.com/bsv-blockchain/go-sdk/overlay"
)

// EvictOutputProvider defines the interface for permanently removing a tracked
// output from a topic, together with every output depending on it.
type EvictOutputProvider interface {
	Evict(ctx context.Context, outpoint *overlay.Outpoint, topic string) error
}

// EvictOutputService coordinates administrative output eviction. It validates
// and parses the submitted outpoint reference before delegating the removal to
// the configured provider.
type EvictOutputService struct {
	provider EvictOutputProvider
}

// EvictOutput removes the output identified by the "<txid>.<vout>" outpoint
// string from the given topic. Returns an error when the outpoint reference or
// topic is invalid, the output is not tracked, or the provider fails.
func (s *EvictOutputService) EvictOutput(ctx context.Context, outpointStr, topic string) error {
	if topic == "" {
		return NewIncorrectInputWithFieldError("topic")
	}
	if outpointStr == "" {
		return NewIncorrectInputWithFieldError("outpoint")
	}

	outpoint, err := overlay.NewOutpointFromString(outpointStr)
	if err != nil {
		return NewInvalidOutpointFormatError(err)
	}

	err = s.provider.Evict(ctx, outpoint, topic)
	switch {
	case errors.Is(err, engine.ErrUnknownTopic):
		return NewUnknownEvictionTopicError(topic)
	case errors.Is(err, engine.ErrMissingOutput):
		return NewEvictedOutputNotTrackedError(outpointStr)
	case err != nil:
		return NewEvictOutputProviderError(err)
	}
	return nil
}

// NewEvictOutputService creates a new EvictOutputService with the given provider.
// Panics if the provider is nil.
func NewEvictOutputService(provider EvictOutputProvider) *EvictOutputService {
	if provider == nil {
		panic("evict output service provider is nil")
	}

	return &EvictOutputService{provider: provider}
}

// NewInvalidOutpointFormatError returns an error indicating that the submitted
// outpoint reference does not follow the "<txid>.<vout>" format.
func NewInvalidOutpointFormatError(err error) Error {
	return NewIncorrectInputError(
		err.Error(),
		"Unable to process the outpoint reference due to an invalid data format. Expected format: <txid>.<vout>.",
	)
}

// NewUnknownEvictionTopicError returns an error indicating that the requested
// topic has no registered topic manager.
func NewUnknownEvictionTopicError(topic string) Error {
	return NewIncorrectInputError(
		"unknown eviction topic: "+topic,
		"The requested topic is not hosted by this overlay. Please verify the topic name and try again.",
	)
}

// NewEvictedOutputNotTrackedError returns an error indicating that the output
// requested for eviction is not tracked under the given topic.
func NewEvictedOutputNotTrackedError(outpoint string) Error {
	return NewUnsupportedOperationError(
		"output not tracked: "+outpoint,
		"The referenced output is not tracked under the requested topic.",
	)
}

// NewEvictOutputProviderError returns an error indicating that the configured provider
// failed to evict the referenced output.
func NewEvictOutputProviderError(err error) Error {
	return NewProviderFailureError(
		err.Error(),
		"Unable to evict the referenced output due to an internal error. Please try again later or contact the support team.",
	)
}
