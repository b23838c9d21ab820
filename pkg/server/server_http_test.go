package server_test

import (
	"context"
	"testing"

	"github.com/4chain-ag/go-token-overlay/pkg/core/engine"
	"github.com/4chain-ag/go-token-overlay/pkg/server"
	"github.com/4chain-ag/go-token-overlay/pkg/server/internal/ports"
	"github.com/4chain-ag/go-token-overlay/pkg/server/internal/testabilities"
	"github.com/bsv-blockchain/go-sdk/overlay"
	"github.com/bsv-blockchain/go-sdk/overlay/lookup"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestSubmitTransaction_ValidCase(t *testing.T) {
	// given:
	stub := testabilities.NewTestOverlayEngineStub(t)
	stub.SubmitFunc = func(ctx context.Context, taggedBEEF overlay.TaggedBEEF, mode engine.SumbitMode, onSteakReady engine.OnSteakReady) (overlay.Steak, error) {
		require.Equal(t, []string{"tm_tokens"}, taggedBEEF.Topics)
		require.NotEmpty(t, taggedBEEF.Beef)

		onSteakReady(&overlay.Steak{
			"tm_tokens": &overlay.AdmittanceInstructions{OutputsToAdmit: []uint32{0}},
		})
		return overlay.Steak{}, nil
	}
	fixture := server.NewServerTestFixture(t, server.WithEngine(stub))

	// when:
	var actual ports.SubmitTransactionResponse
	res, _ := fixture.Client().
		R().
		SetHeader(fiber.HeaderContentType, fiber.MIMEOctetStream).
		SetHeader("x-topics", "tm_tokens").
		SetBody([]byte{0x01, 0x02, 0x03}).
		SetResult(&actual).
		Post("/api/v1/submit")

	// then:
	require.Equal(t, fiber.StatusOK, res.StatusCode())
	require.Contains(t, actual.STEAK, "tm_tokens")
	require.Equal(t, []uint32{0}, actual.STEAK["tm_tokens"].OutputsToAdmit)
}

func TestSubmitTransaction_MissingTopicsHeader(t *testing.T) {
	// given:
	fixture := server.NewServerTestFixture(t, server.WithEngine(testabilities.NewTestOverlayEngineStub(t)))

	// when:
	var actual ports.ErrorResponse
	res, _ := fixture.Client().
		R().
		SetHeader(fiber.HeaderContentType, fiber.MIMEOctetStream).
		SetBody([]byte{0x01}).
		SetError(&actual).
		Post("/api/v1/submit")

	// then:
	require.Equal(t, fiber.StatusBadRequest, res.StatusCode())
	require.NotEmpty(t, actual.Message)
}

func TestSubmitTransaction_EmptyOctetStreamBody(t *testing.T) {
	// given:
	fixture := server.NewServerTestFixture(t, server.WithEngine(testabilities.NewTestOverlayEngineStub(t)))

	// when:
	res, _ := fixture.Client().
		R().
		SetHeader(fiber.HeaderContentType, fiber.MIMEOctetStream).
		SetHeader("x-topics", "tm_tokens").
		Post("/api/v1/submit")

	// then:
	require.Equal(t, fiber.StatusBadRequest, res.StatusCode())
}

func TestLookupQuestion_ValidCase(t *testing.T) {
	// given:
	stub := testabilities.NewTestOverlayEngineStub(t)
	stub.LookupFunc = func(ctx context.Context, question *lookup.LookupQuestion) (*lookup.LookupAnswer, error) {
		require.Equal(t, "ls_tokens", question.Service)
		return &lookup.LookupAnswer{
			Type: lookup.AnswerTypeOutputList,
			Outputs: []*lookup.OutputListItem{
				{Beef: []byte{0xBE, 0xEF}, OutputIndex: 1},
			},
		}, nil
	}
	fixture := server.NewServerTestFixture(t, server.WithEngine(stub))

	// when:
	var actual ports.LookupAnswerResponse
	res, _ := fixture.Client().
		R().
		SetBody(map[string]any{
			"service": "ls_tokens",
			"query":   map[string]any{"assetId": "asset-1"},
		}).
		SetResult(&actual).
		Post("/api/v1/lookup")

	// then:
	require.Equal(t, fiber.StatusOK, res.StatusCode())
	require.Equal(t, string(lookup.AnswerTypeOutputList), actual.Type)
	require.Len(t, actual.Outputs, 1)
	require.Equal(t, uint32(1), actual.Outputs[0].OutputIndex)
}

func TestLookupQuestion_MissingService(t *testing.T) {
	// given:
	fixture := server.NewServerTestFixture(t, server.WithEngine(testabilities.NewTestOverlayEngineStub(t)))

	// when:
	res, _ := fixture.Client().
		R().
		SetBody(map[string]any{"query": map[string]any{"assetId": "asset-1"}}).
		Post("/api/v1/lookup")

	// then:
	require.Equal(t, fiber.StatusBadRequest, res.StatusCode())
}

func TestListTopicManagers(t *testing.T) {
	// given:
	stub := testabilities.NewTestOverlayEngineStub(t)
	stub.ListTopicManagersFunc = func() map[string]*overlay.MetaData {
		return map[string]*overlay.MetaData{
			"tm_tokens": {Name: "tm_tokens", Description: "Token admission"},
		}
	}
	fixture := server.NewServerTestFixture(t, server.WithEngine(stub))

	// when:
	var actual ports.TopicManagersListResponse
	res, _ := fixture.Client().
		R().
		SetResult(&actual).
		Get("/api/v1/listTopicManagers")

	// then:
	require.Equal(t, fiber.StatusOK, res.StatusCode())
	require.Contains(t, actual, "tm_tokens")
	require.Equal(t, "Token admission", actual["tm_tokens"].ShortDescription)
}

func TestListLookupServiceProviders(t *testing.T) {
	// given:
	stub := testabilities.NewTestOverlayEngineStub(t)
	stub.ListLookupProvidersFunc = func() map[string]*overlay.MetaData {
		return map[string]*overlay.MetaData{
			"ls_tokens": {Name: "ls_tokens"},
		}
	}
	fixture := server.NewServerTestFixture(t, server.WithEngine(stub))

	// when:
	var actual ports.LookupListResponse
	res, _ := fixture.Client().
		R().
		SetResult(&actual).
		Get("/api/v1/listLookupServiceProviders")

	// then:
	require.Equal(t, fiber.StatusOK, res.StatusCode())
	require.Contains(t, actual, "ls_tokens")
	require.Equal(t, "No description available", actual["ls_tokens"].ShortDescription)
}

func TestTopicManagerDocumentation(t *testing.T) {
	// given:
	stub := testabilities.NewTestOverlayEngineStub(t)
	stub.TopicManagerDocsFunc = func(provider string) (string, error) {
		require.Equal(t, "tm_tokens", provider)
		return "# Token Topic Manager", nil
	}
	fixture := server.NewServerTestFixture(t, server.WithEngine(stub))

	// when:
	var actual ports.TopicManagerDocumentationResponse
	res, _ := fixture.Client().
		R().
		SetQueryParam("topicManager", "tm_tokens").
		SetResult(&actual).
		Get("/api/v1/getDocumentationForTopicManager")

	// then:
	require.Equal(t, fiber.StatusOK, res.StatusCode())
	require.Equal(t, "# Token Topic Manager", actual.Documentation)
}

func TestTopicManagerDocumentation_MissingName(t *testing.T) {
	// given:
	fixture := server.NewServerTestFixture(t, server.WithEngine(testabilities.NewTestOverlayEngineStub(t)))

	// when:
	res, _ := fixture.Client().
		R().
		Get("/api/v1/getDocumentationForTopicManager")

	// then:
	require.Equal(t, fiber.StatusBadRequest, res.StatusCode())
}

func TestLookupServiceProviderDocumentation(t *testing.T) {
	// given:
	stub := testabilities.NewTestOverlayEngineStub(t)
	stub.LookupDocumentationFunc = func(provider string) (string, error) {
		require.Equal(t, "ls_tokens", provider)
		return "# Token Lookup Service", nil
	}
	fixture := server.NewServerTestFixture(t, server.WithEngine(stub))

	// when:
	var actual ports.LookupServiceProviderDocumentationResponse
	res, _ := fixture.Client().
		R().
		SetQueryParam("lookupService", "ls_tokens").
		SetResult(&actual).
		Get("/api/v1/getDocumentationForLookupServiceProvider")

	// then:
	require.Equal(t, fiber.StatusOK, res.StatusCode())
	require.Equal(t, "# Token Lookup Service", actual.Documentation)
}

func TestArcIngest_InvalidTxID(t *testing.T) {
	// given:
	fixture := server.NewServerTestFixture(t, server.WithEngine(testabilities.NewTestOverlayEngineStub(t)))

	// when:
	res, _ := fixture.Client().
		R().
		SetBody(map[string]any{
			"txid":        "not-a-txid",
			"merklePath":  "fe",
			"blockHeight": 100,
		}).
		Post("/api/v1/arc-ingest")

	// then:
	require.Equal(t, fiber.StatusBadRequest, res.StatusCode())
}

func TestAdminEvict_AuthorizationCases(t *testing.T) {
	tests := map[string]struct {
		authHeader         string
		expectedStatusCode int
	}{
		"missing authorization header": {
			authHeader:         "",
			expectedStatusCode: fiber.StatusUnauthorized,
		},
		"missing bearer scheme": {
			authHeader:         "Token secret-admin-token",
			expectedStatusCode: fiber.StatusUnauthorized,
		},
		"invalid token value": {
			authHeader:         "Bearer wrong-token",
			expectedStatusCode: fiber.StatusForbidden,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			// given:
			fixture := server.NewServerTestFixture(t,
				server.WithEngine(testabilities.NewTestOverlayEngineStub(t)),
				server.WithAdminBearerToken("secret-admin-token"),
			)

			// when:
			req := fixture.Client().R().SetBody(map[string]any{
				"outpoint": "03895fb984362a4196bc9931629318fcbb2aeba7c6293638119ea653fa31d119.0",
				"topic":    "tm_tokens",
			})
			if tc.authHeader != "" {
				req.SetHeader(fiber.HeaderAuthorization, tc.authHeader)
			}
			res, _ := req.Post("/api/v1/admin/evict")

			// then:
			require.Equal(t, tc.expectedStatusCode, res.StatusCode())
		})
	}
}

func TestAdminEvict_ValidCase(t *testing.T) {
	// given:
	const outpointStr = "03895fb984362a4196bc9931629318fcbb2aeba7c6293638119ea653fa31d119.0"

	stub := testabilities.NewTestOverlayEngineStub(t)
	var evicted *overlay.Outpoint
	stub.EvictFunc = func(ctx context.Context, outpoint *overlay.Outpoint, topic string) error {
		require.Equal(t, "tm_tokens", topic)
		evicted = outpoint
		return nil
	}
	fixture := server.NewServerTestFixture(t,
		server.WithEngine(stub),
		server.WithAdminBearerToken("secret-admin-token"),
	)

	// when:
	var actual ports.EvictOutputResponse
	res, _ := fixture.Client().
		R().
		SetHeader(fiber.HeaderAuthorization, "Bearer secret-admin-token").
		SetBody(map[string]any{"outpoint": outpointStr, "topic": "tm_tokens"}).
		SetResult(&actual).
		Post("/api/v1/admin/evict")

	// then:
	require.Equal(t, fiber.StatusOK, res.StatusCode())
	require.Equal(t, "success", actual.Status)
	require.NotNil(t, evicted)
	require.Equal(t, outpointStr, evicted.String())
}

func TestAdminEvict_UnknownTopic(t *testing.T) {
	// given:
	stub := testabilities.NewTestOverlayEngineStub(t)
	stub.EvictFunc = func(ctx context.Context, outpoint *overlay.Outpoint, topic string) error {
		return engine.ErrUnknownTopic
	}
	fixture := server.NewServerTestFixture(t,
		server.WithEngine(stub),
		server.WithAdminBearerToken("secret-admin-token"),
	)

	// when:
	res, _ := fixture.Client().
		R().
		SetHeader(fiber.HeaderAuthorization, "Bearer secret-admin-token").
		SetBody(map[string]any{
			"outpoint": "03895fb984362a4196bc9931629318fcbb2aeba7c6293638119ea653fa31d119.0",
			"topic":    "tm_untracked",
		}).
		Post("/api/v1/admin/evict")

	// then:
	require.Equal(t, fiber.StatusBadRequest, res.StatusCode())
}

func TestHealthCheck(t *testing.T) {
	// given:
	fixture := server.NewServerTestFixture(t, server.WithEngine(testabilities.NewTestOverlayEngineStub(t)))

	// when:
	res, _ := fixture.Client().R().Get("/livez")

	// then:
	require.Equal(t, fiber.StatusOK, res.StatusCode())
}
