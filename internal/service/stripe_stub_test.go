package service

import (
	"context"

	"github.com/Dhoini/checkout-service/internal/domain"
)

// stubStripeClient реализует stripe.Client для тестов сервисного слоя
type stubStripeClient struct {
	foundCustomer *domain.Customer
	findErr       error
	findCalls     int

	createdCustomer *domain.Customer
	createErr       error
	createCalls     int

	updatedCustomer *domain.Customer
	updateErr       error
	updateCalls     int
	lastUpdateID    string

	subsByStatus map[domain.SubscriptionState][]domain.SubscriptionSummary
	listErr      error
	listCalls    []domain.SubscriptionState

	setupIntentSecret string
	setupIntentErr    error
	setupIntentCalls  int
	lastSetupMetadata map[string]string

	paymentIntentSecret string
	paymentIntentErr    error
	paymentIntentCalls  int
	lastIntentSpec      domain.PaymentIntentSpec
}

func (s *stubStripeClient) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.foundCustomer, nil
}

func (s *stubStripeClient) CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	created := customer
	if s.createdCustomer != nil {
		created.ID = s.createdCustomer.ID
	} else {
		created.ID = "cus_new"
	}
	s.createdCustomer = &created
	return &created, nil
}

func (s *stubStripeClient) UpdateCustomer(ctx context.Context, customerID string, customer domain.Customer) (*domain.Customer, error) {
	s.updateCalls++
	s.lastUpdateID = customerID
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	updated := customer
	updated.ID = customerID
	if s.foundCustomer != nil {
		updated.Email = s.foundCustomer.Email
	}
	s.updatedCustomer = &updated
	return &updated, nil
}

func (s *stubStripeClient) ListSubscriptions(ctx context.Context, customerID string, status domain.SubscriptionState, limit int64) ([]domain.SubscriptionSummary, error) {
	s.listCalls = append(s.listCalls, status)
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.subsByStatus[status], nil
}

func (s *stubStripeClient) CreateSetupIntent(ctx context.Context, customerID string, metadata map[string]string) (string, error) {
	s.setupIntentCalls++
	s.lastSetupMetadata = metadata
	if s.setupIntentErr != nil {
		return "", s.setupIntentErr
	}
	if s.setupIntentSecret == "" {
		return "seti_secret", nil
	}
	return s.setupIntentSecret, nil
}

func (s *stubStripeClient) CreatePaymentIntent(ctx context.Context, spec domain.PaymentIntentSpec) (string, error) {
	s.paymentIntentCalls++
	s.lastIntentSpec = spec
	if s.paymentIntentErr != nil {
		return "", s.paymentIntentErr
	}
	if s.paymentIntentSecret == "" {
		return "pi_secret", nil
	}
	return s.paymentIntentSecret, nil
}
