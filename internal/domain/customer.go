package domain

// Ключи метаданных клиента, которые сервис поддерживает сам
const (
	MetadataAffiliateKey = "affiliateId"
	MetadataCreatedAtKey = "createdAt"
	MetadataUpdatedAtKey = "updatedAt"

	// DefaultAffiliateID подставляется, когда партнерский код не передан.
	// Значение обязано быть непустой строкой - ниже по потоку на него полагаются.
	DefaultAffiliateID = "none"
)

// Customer представляет собой клиента биллинга.
// Запись принадлежит Stripe, сервис ее только читает и дополняет.
type Customer struct {
	ID         string            `json:"id"`
	Email      string            `json:"email"`
	Name       string            `json:"name,omitempty"`
	Phone      string            `json:"phone,omitempty"`
	PostalCode string            `json:"postal_code,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// UpsertCustomerRequest представляет запрос на создание/обновление клиента
type UpsertCustomerRequest struct {
	Email       string            `json:"email" binding:"required,email" validate:"required,email"`
	Name        string            `json:"name" binding:"required" validate:"required"`
	Phone       string            `json:"phone,omitempty"`
	ZipCode     string            `json:"zipCode,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	AffiliateID string            `json:"affiliateId,omitempty"`
}

// FinalAffiliateID возвращает партнерский код с учетом дефолта
func (r UpsertCustomerRequest) FinalAffiliateID() string {
	if r.AffiliateID == "" {
		return DefaultAffiliateID
	}
	return r.AffiliateID
}

// UpsertCustomerResponse представляет ответ на создание/обновление клиента
type UpsertCustomerResponse struct {
	CustomerID string `json:"customerId"`
	Email      string `json:"email"`
}
