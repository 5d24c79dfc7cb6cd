package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cardModel "cardfolio-backend/internal/domains/cardrequest/model"
	"cardfolio-backend/internal/domains/printorder/gateway"
	"cardfolio-backend/internal/domains/printorder/model"
	"cardfolio-backend/internal/domains/printorder/repository"
	"cardfolio-backend/internal/shared/authz"
	"cardfolio-backend/pkg/logger"
)

// unitPrice is the flat per-card price until the provider integration
// starts quoting.
var unitPrice = decimal.NewFromFloat(4.50)

type PrintOrderService interface {
	Create(ctx context.Context, actor authz.AuthContext, req model.CreatePrintOrderRequest) (*model.PrintOrder, error)
	ListOwn(ctx context.Context, actor authz.AuthContext) ([]model.PrintOrder, error)
}

// CardReader is the slice of the card request repository this service needs.
type CardReader interface {
	GetByIDAndOwner(ctx context.Context, id uuid.UUID, ownerEmail string) (*cardModel.CardRequest, error)
}

type printOrderService struct {
	printRepo repository.PrintOrderRepository
	cardRepo  CardReader
	gateway   gateway.Client
}

func NewPrintOrderService(
	printRepo repository.PrintOrderRepository,
	cardRepo CardReader,
	gatewayClient gateway.Client,
) PrintOrderService {
	return &printOrderService{
		printRepo: printRepo,
		cardRepo:  cardRepo,
		gateway:   gatewayClient,
	}
}

func (s *printOrderService) Create(ctx context.Context, actor authz.AuthContext, req model.CreatePrintOrderRequest) (*model.PrintOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cardID, err := uuid.Parse(req.CardRequestID)
	if err != nil {
		return nil, model.ErrCardNotFound
	}

	// Only the owner orders prints, and only once the card is delivered.
	card, err := s.cardRepo.GetByIDAndOwner(ctx, cardID, actor.ActorEmail)
	if err != nil {
		if errors.Is(err, cardModel.ErrNotFound) {
			return nil, model.ErrCardNotFound
		}
		return nil, err
	}
	if card.Status != cardModel.StatusDelivered {
		return nil, model.ErrNotDeliverable
	}

	order := &model.PrintOrder{
		ID:            uuid.New(),
		CardRequestID: card.ID,
		OwnerEmail:    actor.ActorEmail,
		Quantity:      req.Quantity,
		UnitPrice:     unitPrice,
		Total:         unitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Status:        model.StatusCreated,
	}

	if err := s.printRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	// Submission is best effort: the order stays in created on failure and
	// can be resubmitted by support tooling.
	ref, err := s.gateway.SubmitOrder(ctx, gateway.Submission{
		OrderID:       order.ID,
		CardRequestID: order.CardRequestID,
		Quantity:      order.Quantity,
		Total:         order.Total,
	})
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to submit print order %s to gateway", order.ID), err)
		return order, nil
	}

	order.GatewayRef = &ref
	order.Status = model.StatusSubmitted
	if err := s.printRepo.SetGatewayRef(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (s *printOrderService) ListOwn(ctx context.Context, actor authz.AuthContext) ([]model.PrintOrder, error) {
	return s.printRepo.ListByOwner(ctx, actor.ActorEmail)
}
