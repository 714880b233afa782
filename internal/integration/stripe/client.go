package stripe

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dhoini/checkout-service/internal/domain"
	"github.com/Dhoini/checkout-service/pkg/logger"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// Client определяет методы для взаимодействия со Stripe API.
// Ядро checkout зависит только от этих операций, не от транспорта SDK.
type Client interface {
	// FindCustomerByEmail ищет ровно одного клиента по точному email.
	// Возвращает (nil, nil), если клиента нет - это не ошибка.
	FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)

	// CreateCustomer создает нового клиента в Stripe.
	CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)

	// UpdateCustomer обновляет существующего клиента в Stripe.
	UpdateCustomer(ctx context.Context, customerID string, customer domain.Customer) (*domain.Customer, error)

	// ListSubscriptions возвращает подписки клиента в заданном статусе, не больше limit.
	ListSubscriptions(ctx context.Context, customerID string, status domain.SubscriptionState, limit int64) ([]domain.SubscriptionSummary, error)

	// CreateSetupIntent создает нулевой setup intent и возвращает его client secret.
	CreateSetupIntent(ctx context.Context, customerID string, metadata map[string]string) (string, error)

	// CreatePaymentIntent создает платежный интент по спецификации и возвращает client secret.
	CreatePaymentIntent(ctx context.Context, spec domain.PaymentIntentSpec) (string, error)
}

// stripeClient реализует интерфейс Client поверх официального SDK.
type stripeClient struct {
	client *client.API
	log    *logger.Logger
}

// NewClient создает новый экземпляр клиента Stripe.
func NewClient(apiKey string, log *logger.Logger) Client {
	sc := &client.API{}
	sc.Init(apiKey, nil)
	return &stripeClient{
		client: sc,
		log:    log,
	}
}

// FindCustomerByEmail ищет клиента по точному совпадению email, limit 1.
func (sc *stripeClient) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	params := &stripe.CustomerListParams{
		Email: stripe.String(email),
	}
	params.Limit = stripe.Int64(1)
	params.Context = ctx

	iter := sc.client.Customers.List(params)
	if iter.Next() {
		cus := iter.Customer()
		sc.log.Debugw("Found existing Stripe customer", "stripeCustomerID", cus.ID)
		return mapCustomer(cus), nil
	}

	if err := iter.Err(); err != nil {
		logStripeError(sc.log, "FindCustomerByEmail", err)
		return nil, classifyStripeError("FindCustomerByEmail", err)
	}

	return nil, nil
}

// CreateCustomer создает нового клиента в Stripe.
func (sc *stripeClient) CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	params := &stripe.CustomerParams{
		Email:    stripe.String(customer.Email),
		Metadata: customer.Metadata,
	}
	params.Context = ctx
	if customer.Name != "" {
		params.Name = stripe.String(customer.Name)
	}
	if customer.Phone != "" {
		params.Phone = stripe.String(customer.Phone)
	}
	if customer.PostalCode != "" {
		params.Address = &stripe.AddressParams{
			PostalCode: stripe.String(customer.PostalCode),
			Country:    stripe.String("US"),
		}
	}

	cus, err := sc.client.Customers.New(params)
	if err != nil {
		logStripeError(sc.log, "CreateCustomer", err)
		return nil, classifyStripeError("CreateCustomer", err)
	}

	sc.log.Infow("Stripe customer created", "stripeCustomerID", cus.ID, "email", customer.Email)
	return mapCustomer(cus), nil
}

// UpdateCustomer обновляет существующего клиента в Stripe.
func (sc *stripeClient) UpdateCustomer(ctx context.Context, customerID string, customer domain.Customer) (*domain.Customer, error) {
	params := &stripe.CustomerParams{
		Metadata: customer.Metadata,
	}
	params.Context = ctx
	if customer.Name != "" {
		params.Name = stripe.String(customer.Name)
	}
	if customer.Phone != "" {
		params.Phone = stripe.String(customer.Phone)
	}
	if customer.PostalCode != "" {
		params.Address = &stripe.AddressParams{
			PostalCode: stripe.String(customer.PostalCode),
			Country:    stripe.String("US"),
		}
	}

	cus, err := sc.client.Customers.Update(customerID, params)
	if err != nil {
		logStripeError(sc.log, "UpdateCustomer", err)
		return nil, classifyStripeError("UpdateCustomer", err)
	}

	sc.log.Infow("Stripe customer updated", "stripeCustomerID", cus.ID)
	return mapCustomer(cus), nil
}

// mapCustomer преобразует объект SDK в доменную модель
func mapCustomer(cus *stripe.Customer) *domain.Customer {
	c := &domain.Customer{
		ID:       cus.ID,
		Email:    cus.Email,
		Name:     cus.Name,
		Phone:    cus.Phone,
		Metadata: cus.Metadata,
	}
	if cus.Address != nil {
		c.PostalCode = cus.Address.PostalCode
	}
	return c
}

// classifyStripeError переводит ошибку SDK в ошибку таксономии сервиса.
// invalid_request и card_error - проблема входных данных, сообщение Stripe
// можно отдавать клиенту; все остальное - ошибка обработки.
func classifyStripeError(operation string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Type == stripe.ErrorTypeInvalidRequest || stripeErr.Type == stripe.ErrorTypeCard {
			return domain.NewProviderError(domain.ProviderErrorInvalidInput, string(stripeErr.Code), stripeErr.Msg, err)
		}
		return domain.NewProviderError(domain.ProviderErrorProcessing, string(stripeErr.Code), stripeErr.Msg, err)
	}
	return domain.NewProviderError(domain.ProviderErrorProcessing, "", fmt.Sprintf("stripe: %s failed", operation), err)
}

// logStripeError - вспомогательная функция для логирования деталей ошибки Stripe.
func logStripeError(log *logger.Logger, operation string, err error) {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		log.Errorw("Stripe API error",
			"operation", operation,
			"type", string(stripeErr.Type),
			"code", string(stripeErr.Code),
			"param", stripeErr.Param,
			"message", stripeErr.Msg,
			"request_id", stripeErr.RequestID,
			"status_code", stripeErr.HTTPStatusCode,
		)
	} else {
		log.Errorw("Non-Stripe error during Stripe operation",
			"operation", operation,
			"error", err,
		)
	}
}
