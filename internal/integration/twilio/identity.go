package twilio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Dhoini/checkout-service/internal/domain"
)

// identityMatchRequest представляет тело запроса к сервису сверки имени
type identityMatchRequest struct {
	Phone     string `json:"phone"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// identityMatchResponse представляет ответ сервиса сверки имени
type identityMatchResponse struct {
	Success        bool   `json:"success"`
	FirstNameMatch string `json:"firstNameMatch"`
	LastNameMatch  string `json:"lastNameMatch"`
	SummaryScore   *int   `json:"summaryScore"`
	Error          string `json:"error,omitempty"`
}

// MatchIdentity вызывает внешний сервис сверки имени и телефона.
// Любая ошибка здесь означает для вызывающего "попробуй следующую стратегию",
// наружу она не поднимается.
func (c *Client) MatchIdentity(ctx context.Context, normalizedPhone, firstName, lastName string) (*domain.IdentityMatchResult, error) {
	c.log.Debugw("Calling identity match service", "phone", normalizedPhone)

	// Формируем данные для запроса
	body, err := json.Marshal(identityMatchRequest{
		Phone:     normalizedPhone,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Создаем запрос
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.identityMatchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Add("Content-Type", "application/json")

	// Выполняем запрос
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewExternalServiceError("identity-match", "request_failed", "failed to execute request", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewExternalServiceError("identity-match", "bad_status", fmt.Sprintf("unexpected status %d", resp.StatusCode), resp.StatusCode, nil)
	}

	// Парсим ответ
	var matchResp identityMatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&matchResp); err != nil {
		return nil, domain.NewExternalServiceError("identity-match", "malformed_response", "failed to decode response", resp.StatusCode, err)
	}

	// Проверяем на ошибки: неуспешный или неполный ответ равносилен недоступности
	if !matchResp.Success || matchResp.SummaryScore == nil {
		return nil, domain.NewExternalServiceError("identity-match", "unsuccessful", matchResp.Error, resp.StatusCode, nil)
	}

	c.log.Debugw("Identity match completed", "phone", normalizedPhone, "summaryScore", *matchResp.SummaryScore)
	return &domain.IdentityMatchResult{
		FirstNameMatch: matchResp.FirstNameMatch,
		LastNameMatch:  matchResp.LastNameMatch,
		SummaryScore:   *matchResp.SummaryScore,
	}, nil
}
