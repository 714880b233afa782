package domain

import "time"

// RiskTier уровень риска по результатам проверки личности
type RiskTier string

const (
	RiskTierLow     RiskTier = "low"
	RiskTierMedium  RiskTier = "medium"
	RiskTierHigh    RiskTier = "high"
	RiskTierUnknown RiskTier = "unknown"
)

// ValidationMethod называет стратегию, которая вынесла вердикт
type ValidationMethod string

const (
	// ValidationMethodIdentityMatch - внешний сервис сверки имени и телефона
	ValidationMethodIdentityMatch ValidationMethod = "twilio_identity_match_lambda"
	// ValidationMethodLookup - проверка линии через Twilio Lookup API
	ValidationMethodLookup ValidationMethod = "twilio_lookup_api"
	// ValidationMethodBasicFallback - настроенная стратегия была, но отвалилась
	ValidationMethodBasicFallback ValidationMethod = "basic_fallback"
	// ValidationMethodBasic - ни имен, ни креденшелов lookup не было изначально
	ValidationMethodBasic ValidationMethod = "basic"
)

// Граница сверки имени: score <= 20 требует дополнительной верификации,
// ровно 20 включительно.
const VerificationScoreThreshold = 20

// IdentityMatchResult представляет ответ сервиса сверки имени и телефона.
// Живет один запрос, никогда не сохраняется.
type IdentityMatchResult struct {
	FirstNameMatch string `json:"first_name_match"`
	LastNameMatch  string `json:"last_name_match"`
	SummaryScore   int    `json:"summary_score"`
}

// RiskAssessment представляет итоговую оценку риска для checkout-запроса
type RiskAssessment struct {
	IsValid              bool             `json:"isValid"`
	RiskTier             RiskTier         `json:"riskTier"`
	Reason               string           `json:"reason,omitempty"`
	RequiresVerification bool             `json:"requiresVerification"`
	ValidationMethod     ValidationMethod `json:"validationMethod"`
	// CacheTTL - подсказка вызывающему, сколько результат можно переиспользовать.
	// Ненулевой только для успешных lookup-вердиктов.
	CacheTTL time.Duration `json:"-"`
}

// Blocks возвращает true, если оценка не позволяет продолжить checkout
func (a RiskAssessment) Blocks() bool {
	return a.RequiresVerification
}

// RiskCheckRequest представляет запрос на проверку телефона/личности
type RiskCheckRequest struct {
	Phone     string `json:"phone" binding:"required" validate:"required"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}
