package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Dhoini/checkout-service/internal/domain"
	"github.com/Dhoini/checkout-service/internal/integration/stripe"
	"github.com/Dhoini/checkout-service/internal/kafka"
	"github.com/Dhoini/checkout-service/internal/metrics"
	"github.com/Dhoini/checkout-service/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Имена платежных стратегий для метрик и событий
const (
	strategySetupIntent = "setup_intent"
	strategyPreauth     = "preauth"
	strategyFullCharge  = "full_charge"
)

// CheckoutService интерфейс оркестрации checkout-потока
type CheckoutService interface {
	// CreateIntent проводит полный checkout: оценка риска, резолв клиента,
	// проверка конфликтов подписки и создание подходящего интента.
	CreateIntent(ctx context.Context, req domain.CreateIntentRequest) (*domain.CreateIntentResponse, error)
}

type checkoutService struct {
	stripe        stripe.Client
	customers     CustomerService
	subscriptions SubscriptionService
	risk          RiskService
	producer      kafka.Producer          // может быть nil
	metrics       metrics.CheckoutMetrics // может быть nil
	validate      *validator.Validate
	log           *logger.Logger
}

// NewCheckoutService конструктор сервиса оркестрации
func NewCheckoutService(
	stripeClient stripe.Client,
	customers CustomerService,
	subscriptions SubscriptionService,
	risk RiskService,
	producer kafka.Producer,
	checkoutMetrics metrics.CheckoutMetrics,
	log *logger.Logger,
) CheckoutService {
	if producer == nil {
		log.Warnw("Kafka producer is nil, event publishing will be skipped.")
	}
	return &checkoutService{
		stripe:        stripeClient,
		customers:     customers,
		subscriptions: subscriptions,
		risk:          risk,
		producer:      producer,
		metrics:       checkoutMetrics,
		validate:      validator.New(),
		log:           log,
	}
}

// CreateIntent основной метод checkout-потока. Каждый запрос обрабатывается
// независимо и до конца, общего состояния между запросами нет.
func (s *checkoutService) CreateIntent(ctx context.Context, req domain.CreateIntentRequest) (*domain.CreateIntentResponse, error) {
	startTime := time.Now()

	if err := s.validate.Struct(req); err != nil {
		var verrs domain.ValidationErrors
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				verrs.Add(fe.Field(), "failed on '"+fe.Tag()+"' rule")
			}
		} else {
			verrs.Add("", err.Error())
		}
		return nil, verrs
	}
	if req.CustomerID == "" && req.Email == "" {
		var verrs domain.ValidationErrors
		verrs.Add("customer_id", "either customer_id or email is required")
		return nil, verrs
	}

	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	// 1. Оценка риска. Может прервать поток требованием верификации;
	// недоступность сервисов проверки поток не прерывает никогда.
	if req.Phone != "" {
		assessment := s.risk.Assess(ctx, domain.RiskCheckRequest{
			Phone:     req.Phone,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if assessment.Blocks() {
			s.log.Infow("Checkout blocked by risk assessment",
				"tier", string(assessment.RiskTier),
				"method", string(assessment.ValidationMethod),
				"reason", assessment.Reason,
			)
			return nil, &domain.VerificationRequiredError{Assessment: assessment}
		}
	}

	// 2. Резолв клиента
	customerID := req.CustomerID
	if customerID == "" {
		customer, err := s.customers.Upsert(ctx, domain.UpsertCustomerRequest{
			Email:       req.Email,
			Name:        req.Name,
			Phone:       req.Phone,
			ZipCode:     req.ZipCode,
			Metadata:    req.Metadata,
			AffiliateID: req.AffiliateID,
		})
		if err != nil {
			return nil, err
		}
		customerID = customer.ID
	}

	// 3. Проверка конфликтов. Выполняется всегда, даже если клиент
	// был создан строчкой выше.
	if err := s.subscriptions.CheckConflict(ctx, customerID); err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			if s.metrics != nil {
				s.metrics.IncConflict(string(conflict.State))
			}
			s.publishEvent(ctx, kafka.EventConflictDetected, customerID, map[string]string{
				"subscription_id": conflict.SubscriptionID,
				"state":           string(conflict.State),
			})
		}
		return nil, err
	}

	// 4. Выбор платежной стратегии
	resp, strategy, err := s.createIntentForPlan(ctx, req, customerID, currency)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncIntentCreated(strategy)
		s.metrics.ObserveCheckoutDuration(time.Since(startTime).Seconds())
	}
	s.publishEvent(ctx, kafka.EventIntentCreated, customerID, map[string]string{
		"strategy":  strategy,
		"plan_type": string(req.SubscriptionType),
		"price_id":  req.PriceID,
	})

	s.log.Infow("Checkout completed",
		"customerID", customerID,
		"strategy", strategy,
		"planType", string(req.SubscriptionType),
		"durationMs", time.Since(startTime).Milliseconds(),
	)
	return resp, nil
}

// createIntentForPlan выбирает стратегию по плану и сумме и создает интент.
// Инварианты: нулевая сумма - setup intent; триальный месячный план - ручной
// capture на фиксированную сумму пре-авторизации независимо от запрошенной;
// годовой план - автоматический capture на полную сумму.
func (s *checkoutService) createIntentForPlan(ctx context.Context, req domain.CreateIntentRequest, customerID, currency string) (*domain.CreateIntentResponse, string, error) {
	metadata := intentMetadata(req)

	if req.Amount == 0 {
		clientSecret, err := s.stripe.CreateSetupIntent(ctx, customerID, metadata)
		if err != nil {
			return nil, "", err
		}
		return &domain.CreateIntentResponse{
			Success:        true,
			ClientSecret:   clientSecret,
			CustomerID:     customerID,
			SubscriptionID: nullableID(req.SubscriptionID),
		}, strategySetupIntent, nil
	}

	if req.SubscriptionType == domain.PlanTypeMonthly {
		metadata["isPreauth"] = "true"
		metadata["trialSubscription"] = "true"

		clientSecret, err := s.stripe.CreatePaymentIntent(ctx, domain.PaymentIntentSpec{
			CustomerID:  customerID,
			Amount:      domain.PreauthAmount,
			Currency:    currency,
			CaptureMode: domain.CaptureModeManual,
			ConfirmNow:  false,
			Metadata:    metadata,
		})
		if err != nil {
			return nil, "", err
		}
		return &domain.CreateIntentResponse{
			Success:        true,
			ClientSecret:   clientSecret,
			CustomerID:     customerID,
			SubscriptionID: nullableID(req.SubscriptionID),
			IsPreauth:      true,
			PreauthAmount:  domain.PreauthAmount,
		}, strategyPreauth, nil
	}

	clientSecret, err := s.stripe.CreatePaymentIntent(ctx, domain.PaymentIntentSpec{
		CustomerID:  customerID,
		Amount:      req.Amount,
		Currency:    currency,
		CaptureMode: domain.CaptureModeAutomatic,
		ConfirmNow:  false,
		Metadata:    metadata,
	})
	if err != nil {
		return nil, "", err
	}
	return &domain.CreateIntentResponse{
		Success:        true,
		ClientSecret:   clientSecret,
		CustomerID:     customerID,
		SubscriptionID: nullableID(req.SubscriptionID),
	}, strategyFullCharge, nil
}

// intentMetadata собирает метаданные интента. Ключ subscriptionId
// присутствует всегда, даже пустой - потребители полагаются на его наличие.
func intentMetadata(req domain.CreateIntentRequest) map[string]string {
	return map[string]string{
		"planType":       string(req.SubscriptionType),
		"priceId":        req.PriceID,
		"subscriptionId": req.SubscriptionID,
	}
}

// nullableID возвращает nil для пустого id, чтобы в JSON попал null
func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// publishEvent асинхронно публикует событие checkout, не блокируя ответ
func (s *checkoutService) publishEvent(ctx context.Context, eventType, customerID string, payload map[string]string) {
	if s.producer == nil {
		return
	}
	event := &kafka.CheckoutEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		At:         time.Now().UTC(),
		CustomerID: customerID,
		Payload:    payload,
	}
	go func(ctx context.Context) {
		if err := s.producer.PublishCheckoutEvent(ctx, event); err != nil {
			s.log.Warnw("Failed to publish checkout event", "error", err, "type", eventType, "customerID", customerID)
		}
	}(context.WithoutCancel(ctx))
}
