package twilio

import (
	"net/http"
	"time"

	"github.com/Dhoini/checkout-service/pkg/logger"
)

// Client представляет клиент для работы с сервисами проверки телефона:
// identity-match endpoint (сверка имени и телефона) и Twilio Lookup API.
type Client struct {
	identityMatchURL string
	accountSID       string
	authToken        string
	httpClient       *http.Client
	log              *logger.Logger
}

// Config конфигурация для клиента Twilio
type Config struct {
	AccountSID       string
	AuthToken        string
	IdentityMatchURL string
}

// NewClient создает новый клиент Twilio
func NewClient(cfg Config, log *logger.Logger) *Client {
	return &Client{
		identityMatchURL: cfg.IdentityMatchURL,
		accountSID:       cfg.AccountSID,
		authToken:        cfg.AuthToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// IdentityMatchConfigured возвращает true, если настроен endpoint сверки имени
func (c *Client) IdentityMatchConfigured() bool {
	return c.identityMatchURL != ""
}

// LookupConfigured возвращает true, если заданы креденшелы Lookup API
func (c *Client) LookupConfigured() bool {
	return c.accountSID != "" && c.authToken != ""
}
