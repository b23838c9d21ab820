package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/4chain-ag/go-token-overlay/pkg/server/internal/app"
	"github.com/bsv-blockchain/go-sdk/overlay/lookup"
	"github.com/stretchr/testify/require"
)

type fakeLookupQuestionProvider struct {
	lookupFunc func(ctx context.Context, question *lookup.LookupQuestion) (*lookup.LookupAnswer, error)
}

func (f *fakeLookupQuestionProvider) Lookup(ctx context.Context, question *lookup.LookupQuestion) (*lookup.LookupAnswer, error) {
	if f.lookupFunc != nil {
		return f.lookupFunc(ctx, question)
	}
	panic("fakeLookupQuestionProvider.Lookup called unexpectedly")
}

func TestLookupQuestionService_ValidCase(t *testing.T) {
	// given:
	provider := &fakeLookupQuestionProvider{
		lookupFunc: func(ctx context.Context, question *lookup.LookupQuestion) (*lookup.LookupAnswer, error) {
			require.Equal(t, "ls_tokens", question.Service)

			var query map[string]any
			require.NoError(t, json.Unmarshal(question.Query, &query))
			require.Equal(t, "asset-1", query["assetId"])

			return &lookup.LookupAnswer{
				Type: lookup.AnswerTypeOutputList,
				Outputs: []*lookup.OutputListItem{
					{Beef: []byte{0xBE, 0xEF}, OutputIndex: 2},
				},
			}, nil
		},
	}
	service := app.NewLookupQuestionService(provider)

	// when:
	dto, err := service.LookupQuestion(context.Background(), "ls_tokens", map[string]any{"assetId": "asset-1"})

	// then:
	require.NoError(t, err)
	require.Equal(t, string(lookup.AnswerTypeOutputList), dto.Type)
	require.Len(t, dto.Outputs, 1)
	require.Equal(t, []byte{0xBE, 0xEF}, dto.Outputs[0].BEEF)
	require.Equal(t, uint32(2), dto.Outputs[0].OutputIndex)
}

func TestLookupQuestionService_SerializesFreeformResult(t *testing.T) {
	// given:
	provider := &fakeLookupQuestionProvider{
		lookupFunc: func(ctx context.Context, question *lookup.LookupQuestion) (*lookup.LookupAnswer, error) {
			return &lookup.LookupAnswer{
				Type:   lookup.AnswerTypeFreeform,
				Result: map[string]any{"count": 3},
			}, nil
		},
	}
	service := app.NewLookupQuestionService(provider)

	// when:
	dto, err := service.LookupQuestion(context.Background(), "ls_tokens", map[string]any{"assetId": "asset-1"})

	// then:
	require.NoError(t, err)
	require.JSONEq(t, `{"count":3}`, dto.Result)
	require.Empty(t, dto.Outputs)
}

func TestLookupQuestionService_InvalidInput(t *testing.T) {
	tests := map[string]struct {
		service       string
		query         map[string]any
		expectedError app.Error
	}{
		"empty service name": {
			service:       "",
			query:         map[string]any{"assetId": "asset-1"},
			expectedError: app.NewIncorrectInputWithFieldError("service"),
		},
		"empty query object": {
			service:       "ls_tokens",
			query:         nil,
			expectedError: app.NewIncorrectInputWithFieldError("query"),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			// given:
			service := app.NewLookupQuestionService(&fakeLookupQuestionProvider{})

			// when:
			dto, err := service.LookupQuestion(context.Background(), tc.service, tc.query)

			// then:
			var actualErr app.Error
			require.ErrorAs(t, err, &actualErr)
			require.Equal(t, tc.expectedError, actualErr)
			require.Nil(t, dto)
		})
	}
}

func TestLookupQuestionService_ProviderFailure(t *testing.T) {
	// given:
	providerErr := errors.New("lookup question provider test error")
	provider := &fakeLookupQuestionProvider{
		lookupFunc: func(ctx context.Context, question *lookup.LookupQuestion) (*lookup.LookupAnswer, error) {
			return nil, providerErr
		},
	}
	service := app.NewLookupQuestionService(provider)

	// when:
	dto, err := service.LookupQuestion(context.Background(), "ls_tokens", map[string]any{"assetId": "asset-1"})

	// then:
	var actualErr app.Error
	require.ErrorAs(t, err, &actualErr)
	require.Equal(t, app.NewLookupQuestionProviderError(providerErr), actualErr)
	require.Nil(t, dto)
}

func TestNewLookupQuestionService_NilProviderPanics(t *testing.T) {
	require.Panics(t, func() { app.NewLookupQuestionService(nil) })
}
