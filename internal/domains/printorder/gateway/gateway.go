package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Submission is what the print provider needs to produce a run.
type Submission struct {
	OrderID       uuid.UUID
	CardRequestID uuid.UUID
	Quantity      int
	Total         decimal.Decimal
}

// Client talks to the external print provider. The provider's pricing and
// fulfilment rules live on their side; this client only submits.
type Client interface {
	SubmitOrder(ctx context.Context, sub Submission) (ref string, err error)
}

// =====================================================
// MOCK CLIENT
// =====================================================

// mockClient acknowledges every submission with a synthetic reference.
// Used until a real provider integration lands, and in tests.
type mockClient struct{}

func NewMockClient() Client {
	return &mockClient{}
}

func (m *mockClient) SubmitOrder(ctx context.Context, sub Submission) (string, error) {
	return fmt.Sprintf("MOCK-%s", sub.OrderID), nil
}
