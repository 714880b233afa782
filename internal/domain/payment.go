package domain

// PlanType тип подписочного плана
type PlanType string

const (
	// PlanTypeMonthly - месячный план с триалом, карта только холдируется
	PlanTypeMonthly PlanType = "monthly"
	// PlanTypeAnnual - годовой план, списание сразу и целиком
	PlanTypeAnnual PlanType = "annual"
)

// PreauthAmount - фиксированная сумма пре-авторизации для триальных планов
// в минорных единицах валюты. Бизнес-константа: не зависит от витринной цены плана.
const PreauthAmount int64 = 14700

// DefaultCurrency валюта по умолчанию
const DefaultCurrency = "usd"

// CaptureMode режим списания средств платежного интента
type CaptureMode string

const (
	CaptureModeAutomatic CaptureMode = "automatic"
	CaptureModeManual    CaptureMode = "manual"
)

// PaymentIntentSpec представляет параметры создаваемого платежного интента.
// Сервис его только конструирует, жизненным циклом владеет Stripe.
type PaymentIntentSpec struct {
	CustomerID  string
	Amount      int64
	Currency    string
	CaptureMode CaptureMode
	ConfirmNow  bool
	Metadata    map[string]string
}

// CreateIntentRequest представляет запрос на создание платежного интента
// для новой подписки. Если customer_id не передан, клиент резолвится по email.
type CreateIntentRequest struct {
	Amount           int64             `json:"amount" validate:"gte=0"`
	Currency         string            `json:"currency"`
	SubscriptionType PlanType          `json:"subscription_type" binding:"required" validate:"required"`
	PriceID          string            `json:"price_id" binding:"required" validate:"required"`
	CustomerID       string            `json:"customer_id,omitempty"`
	SubscriptionID   string            `json:"subscription_id,omitempty"`
	Email            string            `json:"email,omitempty"`
	Name             string            `json:"name,omitempty"`
	Phone            string            `json:"phone,omitempty"`
	FirstName        string            `json:"first_name,omitempty"`
	LastName         string            `json:"last_name,omitempty"`
	ZipCode          string            `json:"zip_code,omitempty"`
	AffiliateID      string            `json:"affiliate_id,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// CreateIntentResponse представляет ответ на создание платежного интента.
// SubscriptionID всегда присутствует в JSON (null, если его нет), чтобы
// потребители могли полагаться на наличие ключа.
type CreateIntentResponse struct {
	Success        bool    `json:"success"`
	ClientSecret   string  `json:"client_secret"`
	CustomerID     string  `json:"customer_id"`
	SubscriptionID *string `json:"subscription_id"`
	IsPreauth      bool    `json:"is_preauth,omitempty"`
	PreauthAmount  int64   `json:"preauth_amount,omitempty"`
}
