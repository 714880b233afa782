package service

import (
	"context"
	"time"

	"github.com/Dhoini/checkout-service/internal/domain"
	"github.com/Dhoini/checkout-service/internal/integration/stripe"
	"github.com/Dhoini/checkout-service/internal/kafka"
	"github.com/Dhoini/checkout-service/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CustomerService интерфейс сервиса для работы с клиентами биллинга
type CustomerService interface {
	// Upsert находит клиента по email и обновляет его, либо создает нового.
	Upsert(ctx context.Context, req domain.UpsertCustomerRequest) (*domain.Customer, error)
}

type customerService struct {
	stripe   stripe.Client
	producer kafka.Producer // может быть nil, события тогда не публикуются
	validate *validator.Validate
	log      *logger.Logger
}

// NewCustomerService создает новый сервис для работы с клиентами
func NewCustomerService(stripeClient stripe.Client, producer kafka.Producer, log *logger.Logger) CustomerService {
	return &customerService{
		stripe:   stripeClient,
		producer: producer,
		validate: validator.New(),
		log:      log,
	}
}

// Upsert реализует find-or-create по email с детерминированным слиянием
// метаданных. Между поиском и записью нет блокировки: два одновременных
// запроса на один email могут создать дубликат - это унаследованное
// ограничение API провайдера, см. DESIGN.md.
func (s *customerService) Upsert(ctx context.Context, req domain.UpsertCustomerRequest) (*domain.Customer, error) {
	// Валидация до любого внешнего вызова: ошибка здесь - ошибка клиента
	if err := s.validate.Struct(req); err != nil {
		var verrs domain.ValidationErrors
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				verrs.Add(fe.Field(), "failed on '"+fe.Tag()+"' rule")
			}
		} else {
			verrs.Add("", err.Error())
		}
		s.log.Warnw("Customer upsert validation failed", "email", req.Email, "errors", verrs.Error())
		return nil, verrs
	}

	affiliateID := req.FinalAffiliateID()
	now := time.Now().UTC().Format(time.RFC3339)

	existing, err := s.stripe.FindCustomerByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	var customer *domain.Customer
	if existing != nil {
		s.log.Debugw("Updating existing customer", "stripeCustomerID", existing.ID, "email", req.Email)

		// existing ∪ supplied ∪ {affiliateId, updatedAt}: поздние ключи
		// побеждают, партнерский код и таймстемп побеждают всегда
		merged := mergeMetadata(existing.Metadata, req.Metadata)
		merged[domain.MetadataAffiliateKey] = affiliateID
		merged[domain.MetadataUpdatedAtKey] = now

		customer, err = s.stripe.UpdateCustomer(ctx, existing.ID, domain.Customer{
			Name:       req.Name,
			Phone:      req.Phone,
			PostalCode: req.ZipCode,
			Metadata:   merged,
		})
	} else {
		s.log.Debugw("Creating new customer", "email", req.Email)

		metadata := mergeMetadata(nil, req.Metadata)
		metadata[domain.MetadataAffiliateKey] = affiliateID
		metadata[domain.MetadataCreatedAtKey] = now

		customer, err = s.stripe.CreateCustomer(ctx, domain.Customer{
			Email:      req.Email,
			Name:       req.Name,
			Phone:      req.Phone,
			PostalCode: req.ZipCode,
			Metadata:   metadata,
		})
	}
	if err != nil {
		return nil, err
	}

	s.publishUpserted(ctx, customer)
	return customer, nil
}

// publishUpserted асинхронно публикует событие, не блокируя ответ
func (s *customerService) publishUpserted(ctx context.Context, customer *domain.Customer) {
	if s.producer == nil {
		return
	}
	event := &kafka.CheckoutEvent{
		ID:         uuid.NewString(),
		Type:       kafka.EventCustomerUpserted,
		At:         time.Now().UTC(),
		CustomerID: customer.ID,
		Payload: map[string]string{
			"email": customer.Email,
		},
	}
	go func(ctx context.Context) {
		if err := s.producer.PublishCheckoutEvent(ctx, event); err != nil {
			s.log.Warnw("Failed to publish customer upserted event", "error", err, "customerID", customer.ID)
		}
	}(context.WithoutCancel(ctx))
}

// mergeMetadata копирует обе карты, ключи supplied побеждают при конфликте
func mergeMetadata(existing, supplied map[string]string) map[string]string {
	merged := make(map[string]string, len(existing)+len(supplied)+2)
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range supplied {
		merged[k] = v
	}
	return merged
}
