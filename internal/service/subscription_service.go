package service

import (
	"context"

	"github.com/Dhoini/checkout-service/internal/domain"
	"github.com/Dhoini/checkout-service/internal/integration/stripe"
	"github.com/Dhoini/checkout-service/pkg/logger"
)

// SubscriptionService интерфейс проверки конфликтов подписок
type SubscriptionService interface {
	// CheckConflict возвращает ConflictError, если у клиента уже есть
	// активная или незавершенная подписка, иначе nil.
	CheckConflict(ctx context.Context, customerID string) error
}

type subscriptionService struct {
	stripe stripe.Client
	log    *logger.Logger
}

// NewSubscriptionService создает новый сервис проверки подписок
func NewSubscriptionService(stripeClient stripe.Client, log *logger.Logger) SubscriptionService {
	return &subscriptionService{
		stripe: stripeClient,
		log:    log,
	}
}

// CheckConflict выполняется на каждый запрос создания подписки,
// в том числе для только что созданных клиентов. Статус берется из Stripe
// заново, проверка оптимистичная - см. DESIGN.md про гонку read-then-write.
func (s *subscriptionService) CheckConflict(ctx context.Context, customerID string) error {
	active, err := s.stripe.ListSubscriptions(ctx, customerID, domain.SubscriptionStateActive, 1)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		s.log.Infow("Blocking checkout: customer has active subscription",
			"customerID", customerID, "subscriptionID", active[0].ID)
		return domain.NewConflictError(active[0].ID, domain.SubscriptionStateActive)
	}

	incomplete, err := s.stripe.ListSubscriptions(ctx, customerID, domain.SubscriptionStateIncomplete, 1)
	if err != nil {
		return err
	}
	if len(incomplete) > 0 {
		s.log.Infow("Blocking checkout: customer has pending subscription",
			"customerID", customerID, "subscriptionID", incomplete[0].ID)
		return domain.NewConflictError(incomplete[0].ID, domain.SubscriptionStateIncomplete)
	}

	return nil
}
