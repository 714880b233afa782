package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Dhoini/checkout-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConflictActiveSubscriptionBlocks(t *testing.T) {
	stripeStub := &stubStripeClient{
		subsByStatus: map[domain.SubscriptionState][]domain.SubscriptionSummary{
			domain.SubscriptionStateActive: {{ID: "sub_active", Status: domain.SubscriptionStateActive}},
		},
	}
	svc := NewSubscriptionService(stripeStub, testLogger())

	err := svc.CheckConflict(context.Background(), "cus_123")

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "sub_active", conflict.SubscriptionID)
	assert.Equal(t, domain.SubscriptionStateActive, conflict.State)
	assert.ErrorIs(t, err, domain.ErrConflict)
	// Активная подписка найдена, до запроса incomplete дело не доходит
	assert.Equal(t, []domain.SubscriptionState{domain.SubscriptionStateActive}, stripeStub.listCalls)
}

func TestCheckConflictPendingSubscriptionBlocks(t *testing.T) {
	stripeStub := &stubStripeClient{
		subsByStatus: map[domain.SubscriptionState][]domain.SubscriptionSummary{
			domain.SubscriptionStateIncomplete: {{ID: "sub_pending", Status: domain.SubscriptionStateIncomplete}},
		},
	}
	svc := NewSubscriptionService(stripeStub, testLogger())

	err := svc.CheckConflict(context.Background(), "cus_123")

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "sub_pending", conflict.SubscriptionID)
	assert.Equal(t, domain.SubscriptionStateIncomplete, conflict.State)
	assert.Contains(t, conflict.Error(), "complete it before starting a new one")
}

func TestCheckConflictClearWhenNoSubscriptions(t *testing.T) {
	stripeStub := &stubStripeClient{}
	svc := NewSubscriptionService(stripeStub, testLogger())

	err := svc.CheckConflict(context.Background(), "cus_123")

	require.NoError(t, err)
	assert.Equal(t, []domain.SubscriptionState{
		domain.SubscriptionStateActive,
		domain.SubscriptionStateIncomplete,
	}, stripeStub.listCalls)
}

func TestCheckConflictPropagatesProviderError(t *testing.T) {
	stripeStub := &stubStripeClient{listErr: errors.New("stripe down")}
	svc := NewSubscriptionService(stripeStub, testLogger())

	err := svc.CheckConflict(context.Background(), "cus_123")

	require.Error(t, err)
	var conflict *domain.ConflictError
	assert.False(t, errors.As(err, &conflict))
}
