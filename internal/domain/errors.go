package domain

import (
	"errors"
	"fmt"
)

// Application errors
var (
	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput неверные входные данные
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("internal error")

	// ErrConflict подписка уже существует
	ErrConflict = errors.New("subscription conflict")

	// ErrExternalServiceUnavailable внешний сервис недоступен
	ErrExternalServiceUnavailable = errors.New("external service unavailable")

	// ErrVerificationRequired оценка риска требует дополнительной верификации
	ErrVerificationRequired = errors.New("additional verification required")
)

// VerificationRequiredError прерывает checkout по результатам оценки риска
type VerificationRequiredError struct {
	Assessment RiskAssessment
}

// Error реализует интерфейс error
func (e *VerificationRequiredError) Error() string {
	if e.Assessment.Reason != "" {
		return fmt.Sprintf("verification required: %s", e.Assessment.Reason)
	}
	return "verification required"
}

// Is проверяет принадлежность к ErrVerificationRequired
func (e *VerificationRequiredError) Is(target error) bool {
	return target == ErrVerificationRequired
}

// ConflictError представляет конфликт с уже существующей подпиской клиента
type ConflictError struct {
	SubscriptionID string
	State          SubscriptionState
}

// Error реализует интерфейс error
func (e *ConflictError) Error() string {
	if e.State == SubscriptionStateIncomplete {
		return fmt.Sprintf("customer has a pending subscription %s, complete it before starting a new one", e.SubscriptionID)
	}
	return fmt.Sprintf("customer already has an active subscription %s", e.SubscriptionID)
}

// Is проверяет, является ли ошибка ошибкой конфликта
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewConflictError создает новую ошибку конфликта подписки
func NewConflictError(subscriptionID string, state SubscriptionState) *ConflictError {
	return &ConflictError{
		SubscriptionID: subscriptionID,
		State:          state,
	}
}

// ProviderErrorKind классификация ошибки платежного провайдера
type ProviderErrorKind string

const (
	// ProviderErrorInvalidInput - провайдер отклонил данные запроса,
	// сообщение можно показать клиенту как есть
	ProviderErrorInvalidInput ProviderErrorKind = "invalid_input"
	// ProviderErrorProcessing - ошибка обработки на стороне провайдера,
	// наружу уходит обезличенное сообщение
	ProviderErrorProcessing ProviderErrorKind = "processing"
)

// ProviderError представляет ошибку платежного/клиентского API провайдера
type ProviderError struct {
	Kind        ProviderErrorKind
	Code        string
	Message     string
	OriginalErr error
}

// Error реализует интерфейс error
func (e *ProviderError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("provider error [%s/%s]: %s: %v", e.Kind, e.Code, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("provider error [%s/%s]: %s", e.Kind, e.Code, e.Message)
}

// Unwrap возвращает оригинальную ошибку
func (e *ProviderError) Unwrap() error {
	return e.OriginalErr
}

// NewProviderError создает новую ошибку провайдера
func NewProviderError(kind ProviderErrorKind, code, message string, err error) *ProviderError {
	return &ProviderError{
		Kind:        kind,
		Code:        code,
		Message:     message,
		OriginalErr: err,
	}
}

// ValidationError представляет ошибку валидации
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors представляет набор ошибок валидации
type ValidationErrors []ValidationError

// Error реализует интерфейс error
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	if len(e) == 1 {
		return fmt.Sprintf("validation failed: %s - %s", e[0].Field, e[0].Message)
	}

	return fmt.Sprintf("validation failed: %d errors", len(e))
}

// Is проверяет принадлежность к ErrInvalidInput
func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalidInput
}

// Add добавляет ошибку валидации
func (e *ValidationErrors) Add(field, message string) {
	*e = append(*e, ValidationError{Field: field, Message: message})
}

// HasErrors проверяет наличие ошибок
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// ExternalServiceError представляет ошибку внешнего сервиса
type ExternalServiceError struct {
	Service     string
	Code        string
	Message     string
	StatusCode  int
	OriginalErr error
}

// Error реализует интерфейс error
func (e *ExternalServiceError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("%s service error [%s]: %s: %v", e.Service, e.Code, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("%s service error [%s]: %s", e.Service, e.Code, e.Message)
}

// Unwrap возвращает оригинальную ошибку
func (e *ExternalServiceError) Unwrap() error {
	return e.OriginalErr
}

// Is проверяет принадлежность к ErrExternalServiceUnavailable
func (e *ExternalServiceError) Is(target error) bool {
	return target == ErrExternalServiceUnavailable
}

// NewExternalServiceError создает новую ошибку внешнего сервиса
func NewExternalServiceError(service, code, message string, statusCode int, err error) *ExternalServiceError {
	return &ExternalServiceError{
		Service:     service,
		Code:        code,
		Message:     message,
		StatusCode:  statusCode,
		OriginalErr: err,
	}
}
