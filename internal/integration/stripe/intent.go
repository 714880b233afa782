package stripe

import (
	"context"

	"github.com/Dhoini/checkout-service/internal/domain"

	"github.com/stripe/stripe-go/v78"
)

// CreateSetupIntent создает нулевой setup intent для сохранения платежного
// метода без списания (триал без upfront-платежа).
func (sc *stripeClient) CreateSetupIntent(ctx context.Context, customerID string, metadata map[string]string) (string, error) {
	params := &stripe.SetupIntentParams{
		Customer: stripe.String(customerID),
		AutomaticPaymentMethods: &stripe.SetupIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: metadata,
	}
	params.Context = ctx

	si, err := sc.client.SetupIntents.New(params)
	if err != nil {
		logStripeError(sc.log, "CreateSetupIntent", err)
		return "", classifyStripeError("CreateSetupIntent", err)
	}

	sc.log.Infow("Stripe setup intent created", "setupIntentID", si.ID, "stripeCustomerID", customerID)
	return si.ClientSecret, nil
}

// CreatePaymentIntent создает платежный интент по спецификации.
// 3-D Secure всегда запрашивается в режиме automatic.
func (sc *stripeClient) CreatePaymentIntent(ctx context.Context, spec domain.PaymentIntentSpec) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(spec.Amount),
		Currency: stripe.String(spec.Currency),
		Customer: stripe.String(spec.CustomerID),
		Metadata: spec.Metadata,
		PaymentMethodOptions: &stripe.PaymentIntentPaymentMethodOptionsParams{
			Card: &stripe.PaymentIntentPaymentMethodOptionsCardParams{
				RequestThreeDSecure: stripe.String("automatic"),
			},
		},
	}
	params.Context = ctx

	if spec.CaptureMode == domain.CaptureModeManual {
		params.CaptureMethod = stripe.String(string(stripe.PaymentIntentCaptureMethodManual))
	} else {
		params.CaptureMethod = stripe.String(string(stripe.PaymentIntentCaptureMethodAutomatic))
	}
	if spec.ConfirmNow {
		params.Confirm = stripe.Bool(true)
	}

	pi, err := sc.client.PaymentIntents.New(params)
	if err != nil {
		logStripeError(sc.log, "CreatePaymentIntent", err)
		return "", classifyStripeError("CreatePaymentIntent", err)
	}

	sc.log.Infow("Stripe payment intent created",
		"paymentIntentID", pi.ID,
		"stripeCustomerID", spec.CustomerID,
		"amount", spec.Amount,
		"captureMethod", string(spec.CaptureMode),
	)
	return pi.ClientSecret, nil
}
