package service

import (
	"context"
	"strings"
	"time"

	"github.com/Dhoini/checkout-service/internal/domain"
	"github.com/Dhoini/checkout-service/internal/integration/twilio"
	"github.com/Dhoini/checkout-service/internal/metrics"
	"github.com/Dhoini/checkout-service/pkg/logger"
)

// TTL, который успешный lookup-вердикт сообщает вызывающему
const lookupCacheTTL = 5 * time.Minute

// PhoneVerifier определяет операции внешних сервисов проверки телефона.
// Реализуется twilio.Client.
type PhoneVerifier interface {
	IdentityMatchConfigured() bool
	MatchIdentity(ctx context.Context, normalizedPhone, firstName, lastName string) (*domain.IdentityMatchResult, error)
	LookupConfigured() bool
	LookupPhone(ctx context.Context, normalizedPhone string) (*twilio.LineLookupResult, error)
}

// RiskCache кэширует lookup-вердикты между запросами. Может быть nil.
type RiskCache interface {
	CacheAssessment(ctx context.Context, normalizedPhone string, assessment *domain.RiskAssessment) error
	GetCachedAssessment(ctx context.Context, normalizedPhone string) (*domain.RiskAssessment, error)
}

// RiskService интерфейс сервиса оценки риска
type RiskService interface {
	// Assess оценивает риск по телефону и опциональным именам.
	// Никогда не возвращает ошибку: недоступность внешних сервисов
	// деградирует до fail-open вердикта, checkout важнее строгости проверки.
	Assess(ctx context.Context, req domain.RiskCheckRequest) domain.RiskAssessment
}

type riskService struct {
	phones  PhoneVerifier
	cache   RiskCache
	metrics metrics.CheckoutMetrics
	log     *logger.Logger
}

// NewRiskService создает новый сервис оценки риска.
// cache и checkoutMetrics могут быть nil.
func NewRiskService(phones PhoneVerifier, cache RiskCache, checkoutMetrics metrics.CheckoutMetrics, log *logger.Logger) RiskService {
	return &riskService{
		phones:  phones,
		cache:   cache,
		metrics: checkoutMetrics,
		log:     log,
	}
}

// NormalizePhone приводит номер к E.164.
// Возвращает ok=false, если после удаления нецифровых символов
// осталось меньше 10 цифр - такой номер не уходит ни в один внешний сервис.
func NormalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) < 10 {
		return "", false
	}

	switch {
	case len(digits) == 10:
		return "+1" + digits, true
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits, true
	default:
		return "+" + digits, true
	}
}

// Assess прогоняет телефон через цепочку стратегий: сверка имени ->
// line lookup -> базовый pass-through. Каждая стратегия либо выносит вердикт,
// либо передает ход следующей.
func (s *riskService) Assess(ctx context.Context, req domain.RiskCheckRequest) domain.RiskAssessment {
	normalized, ok := NormalizePhone(req.Phone)
	if !ok {
		return s.record(domain.RiskAssessment{
			IsValid:          false,
			RiskTier:         domain.RiskTierHigh,
			Reason:           "phone number too short",
			ValidationMethod: domain.ValidationMethodBasic,
		})
	}

	// attempted = настроенная стратегия была испробована и отвалилась;
	// от этого зависит validationMethod базового вердикта
	attempted := false

	if req.FirstName != "" && req.LastName != "" && s.phones.IdentityMatchConfigured() {
		match, err := s.phones.MatchIdentity(ctx, normalized, req.FirstName, req.LastName)
		if err != nil {
			// Fail-open: ошибка сервиса сверки глотается, идем дальше по цепочке
			s.log.Warnw("Identity match unavailable, falling through", "error", err, "phone", normalized)
			attempted = true
		} else {
			return s.record(classifyMatchScore(match.SummaryScore))
		}
	}

	if s.phones.LookupConfigured() {
		if cached := s.fromCache(ctx, normalized); cached != nil {
			return s.record(*cached)
		}

		lookup, err := s.phones.LookupPhone(ctx, normalized)
		if err != nil {
			s.log.Warnw("Phone lookup unavailable, falling through", "error", err, "phone", normalized)
			attempted = true
		} else {
			assessment := classifyLineLookup(lookup)
			s.toCache(ctx, normalized, assessment)
			return s.record(assessment)
		}
	}

	method := domain.ValidationMethodBasic
	if attempted {
		method = domain.ValidationMethodBasicFallback
	}

	// Максимально мягкий вердикт: tier unknown никогда не блокирует checkout
	return s.record(domain.RiskAssessment{
		IsValid:          true,
		RiskTier:         domain.RiskTierUnknown,
		Reason:           "basic validation only",
		ValidationMethod: method,
	})
}

// classifyMatchScore отображает summary score сервиса сверки на уровень риска.
// Граница верификации - score <= 20 включительно.
func classifyMatchScore(score int) domain.RiskAssessment {
	assessment := domain.RiskAssessment{
		ValidationMethod: domain.ValidationMethodIdentityMatch,
	}

	switch {
	case score >= 80:
		assessment.IsValid = true
		assessment.RiskTier = domain.RiskTierLow
		assessment.Reason = "strong match"
	case score >= 40:
		assessment.IsValid = true
		assessment.RiskTier = domain.RiskTierMedium
		assessment.Reason = "partial match"
	case score > domain.VerificationScoreThreshold:
		assessment.IsValid = true
		assessment.RiskTier = domain.RiskTierHigh
		assessment.Reason = "weak match"
	default:
		assessment.IsValid = false
		assessment.RiskTier = domain.RiskTierHigh
		assessment.Reason = "name does not match phone number"
		assessment.RequiresVerification = true
	}

	return assessment
}

// classifyLineLookup отображает вердикт Lookup API на уровень риска
func classifyLineLookup(lookup *twilio.LineLookupResult) domain.RiskAssessment {
	assessment := domain.RiskAssessment{
		ValidationMethod: domain.ValidationMethodLookup,
		CacheTTL:         lookupCacheTTL,
	}

	switch {
	case !lookup.Valid:
		assessment.IsValid = false
		assessment.RiskTier = domain.RiskTierHigh
		assessment.Reason = "invalid number"
	case lookup.LineType == twilio.LineTypeVOIP:
		assessment.IsValid = true
		assessment.RiskTier = domain.RiskTierMedium
		assessment.Reason = "VOIP detected"
	case lookup.LineType == twilio.LineTypePremium:
		assessment.IsValid = true
		assessment.RiskTier = domain.RiskTierHigh
		assessment.Reason = "premium rate number"
	default:
		assessment.IsValid = true
		assessment.RiskTier = domain.RiskTierLow
	}

	return assessment
}

// fromCache возвращает закэшированный вердикт или nil
func (s *riskService) fromCache(ctx context.Context, normalized string) *domain.RiskAssessment {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.GetCachedAssessment(ctx, normalized)
	if err != nil {
		// Кэш - оптимизация, его недоступность не влияет на поток
		return nil
	}
	return cached
}

// toCache кэширует успешный lookup-вердикт, ошибки кэша не всплывают
func (s *riskService) toCache(ctx context.Context, normalized string, assessment domain.RiskAssessment) {
	if s.cache == nil {
		return
	}
	if err := s.cache.CacheAssessment(ctx, normalized, &assessment); err != nil {
		s.log.Debugw("Failed to cache risk assessment", "error", err, "phone", normalized)
	}
}

// record пишет метрику и возвращает вердикт
func (s *riskService) record(assessment domain.RiskAssessment) domain.RiskAssessment {
	if s.metrics != nil {
		s.metrics.IncRiskAssessment(string(assessment.RiskTier), string(assessment.ValidationMethod))
	}
	return assessment
}
