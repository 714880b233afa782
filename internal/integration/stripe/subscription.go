package stripe

import (
	"context"

	"github.com/Dhoini/checkout-service/internal/domain"

	"github.com/stripe/stripe-go/v78"
)

// ListSubscriptions возвращает подписки клиента в заданном статусе.
// Статус запрашивается у Stripe на каждый вызов, локального состояния нет.
func (sc *stripeClient) ListSubscriptions(ctx context.Context, customerID string, status domain.SubscriptionState, limit int64) ([]domain.SubscriptionSummary, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(status)),
	}
	params.Limit = stripe.Int64(limit)
	params.Context = ctx

	var subs []domain.SubscriptionSummary
	iter := sc.client.Subscriptions.List(params)
	for iter.Next() {
		sub := iter.Subscription()
		subs = append(subs, domain.SubscriptionSummary{
			ID:     sub.ID,
			Status: mapSubscriptionState(sub.Status),
		})
	}

	if err := iter.Err(); err != nil {
		logStripeError(sc.log, "ListSubscriptions", err)
		return nil, classifyStripeError("ListSubscriptions", err)
	}

	return subs, nil
}

// mapSubscriptionState сводит статусы Stripe к статусам checkout
func mapSubscriptionState(status stripe.SubscriptionStatus) domain.SubscriptionState {
	switch status {
	case stripe.SubscriptionStatusActive:
		return domain.SubscriptionStateActive
	case stripe.SubscriptionStatusIncomplete:
		return domain.SubscriptionStateIncomplete
	default:
		// past_due и прочие нетерминальные статусы не блокируют создание,
		// см. DESIGN.md - требует продуктового решения
		return domain.SubscriptionStateNone
	}
}
