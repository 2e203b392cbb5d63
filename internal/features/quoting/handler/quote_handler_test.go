package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"shipdesk/internal/features/quoting/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockQuoteService is a mock implementation of ports.QuoteService.
type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) Quote(ctx context.Context, groups []domain.AddressGroup) domain.QuoteSummary {
	args := m.Called(ctx, groups)
	return args.Get(0).(domain.QuoteSummary)
}

func setupApp(service *MockQuoteService) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Post("/quote", NewQuoteHandler(service).Quote)
	return app
}

func postQuote(t *testing.T, app *fiber.App, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest("POST", "/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	return resp.StatusCode, raw
}

func summaryWithGround(total string) domain.QuoteSummary {
	return domain.QuoteSummary{
		Addresses: []domain.AddressQuote{},
		GrandTotal: map[string]domain.ServiceTotal{
			"UPS Ground": {ServiceCode: "03", ServiceName: "UPS Ground", Total: decimal.RequireFromString(total), Currency: "USD"},
		},
	}
}

func TestQuoteHandler_Quote(t *testing.T) {
	t.Run("ItemString", func(t *testing.T) {
		svc := new(MockQuoteService)
		svc.On("Quote", mock.Anything, mock.MatchedBy(func(groups []domain.AddressGroup) bool {
			return len(groups) == 1 && len(groups[0].Items) == 2 && groups[0].Address.PostalCode == "78701"
		})).Return(summaryWithGround("20.00"))

		status, body := postQuote(t, setupApp(svc), `{"items":"1 Main St, Austin, TX 78701 | 16x20x1; 1 Main St, Austin, TX 78701 | 16x20x3"}`)

		assert.Equal(t, fiber.StatusOK, status)
		var got domain.QuoteSummary
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "20", got.GrandTotal["UPS Ground"].Total.String())
		svc.AssertExpectations(t)
	})

	t.Run("ParallelArrays", func(t *testing.T) {
		svc := new(MockQuoteService)
		svc.On("Quote", mock.Anything, mock.MatchedBy(func(groups []domain.AddressGroup) bool {
			return len(groups) == 2
		})).Return(summaryWithGround("1.00"))

		status, _ := postQuote(t, setupApp(svc), `{
			"addresses": ["1 Main St, Austin, TX 78701", "9 Oak Ave, Denver, CO 80202"],
			"sizes": "16x20x1;10x10x2"
		}`)

		assert.Equal(t, fiber.StatusOK, status)
		svc.AssertExpectations(t)
	})

	t.Run("Structured", func(t *testing.T) {
		svc := new(MockQuoteService)
		svc.On("Quote", mock.Anything, mock.MatchedBy(func(groups []domain.AddressGroup) bool {
			return len(groups) == 1 && groups[0].Items[0] == domain.Item{Length: 16, Width: 20, Depth: 1}
		})).Return(summaryWithGround("1.00"))

		status, _ := postQuote(t, setupApp(svc), `{
			"destinations": [{"address": "1 Main St, Austin, TX 78701", "items": [{"length":16,"width":20,"depth":1}]}]
		}`)

		assert.Equal(t, fiber.StatusOK, status)
		svc.AssertExpectations(t)
	})

	t.Run("ShipModeToleratesTrailingText", func(t *testing.T) {
		svc := new(MockQuoteService)
		svc.On("Quote", mock.Anything, mock.Anything).Return(summaryWithGround("1.00"))

		status, _ := postQuote(t, setupApp(svc), `{"mode":"ship","items":"1 Main St, Austin, TX 78701 USA | 1x1x1"}`)

		assert.Equal(t, fiber.StatusOK, status)
	})
}

func TestQuoteHandler_Quote_BadRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "malformed json", body: `{`, message: "invalid request body"},
		{name: "no items", body: `{}`, message: "is required"},
		{name: "bad address", body: `{"items":"Austin | 1x1x1"}`, message: "invalid address"},
		{name: "bad size", body: `{"items":"1 Main St, Austin, TX 78701 | 1x1"}`, message: "invalid size"},
		{name: "length mismatch", body: `{"addresses":["1 Main St, Austin, TX 78701"],"sizes":[]}`, message: "invalid input"},
		{name: "mixed encodings", body: `{"items":"1 Main St, Austin, TX 78701 | 1x1x1","destinations":[{"address":"2 Elm St, Reno, NV 89501","items":[{"size":"2x2x2"}]}]}`, message: "only one of"},
		{name: "items with parallel lists", body: `{"items":"1 Main St, Austin, TX 78701 | 1x1x1","addresses":["2 Elm St, Reno, NV 89501"],"sizes":["2x2x2"]}`, message: "only one of"},
		{name: "bad mode", body: `{"mode":"label","items":"1 Main St, Austin, TX 78701 | 1x1x1"}`, message: "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockQuoteService)

			status, body := postQuote(t, setupApp(svc), tt.body)

			assert.Equal(t, fiber.StatusBadRequest, status)
			var got ErrorResponse
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Contains(t, got.Message, tt.message)
			assert.Equal(t, "test-ray-id", got.RayID)
			svc.AssertNotCalled(t, "Quote", mock.Anything, mock.Anything)
		})
	}
}
