package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const lookupBaseURL = "https://lookups.twilio.com/v2/PhoneNumbers"

// Типы линий, которые различает оценка риска
const (
	LineTypeVOIP    = "voip"
	LineTypePremium = "premium"
)

// LineLookupResult представляет вердикт Lookup API по номеру
type LineLookupResult struct {
	Valid    bool
	LineType string
}

// lookupResponse представляет ответ Twilio Lookup v2
type lookupResponse struct {
	Valid                bool   `json:"valid"`
	PhoneNumber          string `json:"phone_number"`
	LineTypeIntelligence *struct {
		Type string `json:"type"`
	} `json:"line_type_intelligence"`
}

// LookupPhone запрашивает тип и валидность линии через Twilio Lookup API.
// Одна попытка, без ретраев: при ошибке вызывающий уходит в basic fallback.
func (c *Client) LookupPhone(ctx context.Context, normalizedPhone string) (*LineLookupResult, error) {
	c.log.Debugw("Calling Twilio Lookup API", "phone", normalizedPhone)

	// Создаем запрос
	endpoint := fmt.Sprintf("%s/%s?Fields=line_type_intelligence", lookupBaseURL, url.PathEscape(normalizedPhone))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	// Выполняем запрос
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// 404 от Lookup означает несуществующий номер, это валидный вердикт
	if resp.StatusCode == http.StatusNotFound {
		return &LineLookupResult{Valid: false}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twilio lookup: unexpected status %d", resp.StatusCode)
	}

	// Парсим ответ
	var lookupResp lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookupResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	result := &LineLookupResult{Valid: lookupResp.Valid}
	if lookupResp.LineTypeIntelligence != nil {
		result.LineType = lookupResp.LineTypeIntelligence.Type
	}

	c.log.Debugw("Twilio lookup completed", "phone", normalizedPhone, "valid", result.Valid, "lineType", result.LineType)
	return result, nil
}
