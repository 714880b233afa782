package domain

// SubscriptionState статус подписки с точки зрения checkout
type SubscriptionState string

const (
	SubscriptionStateNone       SubscriptionState = "none"
	SubscriptionStateIncomplete SubscriptionState = "incomplete"
	SubscriptionStateActive     SubscriptionState = "active"
)

// SubscriptionSummary представляет подписку клиента в объеме,
// который нужен проверке конфликтов. Статус выводится заново на каждый
// запрос из Stripe и нигде не кэшируется.
type SubscriptionSummary struct {
	ID     string            `json:"id"`
	Status SubscriptionState `json:"status"`
}
