package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Dhoini/checkout-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertValidationFailsBeforeAnyCall(t *testing.T) {
	tests := []struct {
		name string
		req  domain.UpsertCustomerRequest
	}{
		{"missing email", domain.UpsertCustomerRequest{Name: "A B"}},
		{"missing name", domain.UpsertCustomerRequest{Email: "a@x.com"}},
		{"malformed email", domain.UpsertCustomerRequest{Email: "not-an-email", Name: "A B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stripeStub := &stubStripeClient{}
			svc := NewCustomerService(stripeStub, nil, testLogger())

			_, err := svc.Upsert(context.Background(), tt.req)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Zero(t, stripeStub.findCalls)
			assert.Zero(t, stripeStub.createCalls)
			assert.Zero(t, stripeStub.updateCalls)
		})
	}
}

func TestUpsertCreatesCustomerWithDefaultAffiliate(t *testing.T) {
	stripeStub := &stubStripeClient{}
	svc := NewCustomerService(stripeStub, nil, testLogger())

	customer, err := svc.Upsert(context.Background(), domain.UpsertCustomerRequest{
		Email: "new@x.com",
		Name:  "A B",
		Phone: "8016237654",
	})

	require.NoError(t, err)
	require.NotNil(t, customer)
	assert.Equal(t, 1, stripeStub.findCalls)
	assert.Equal(t, 1, stripeStub.createCalls)
	assert.Zero(t, stripeStub.updateCalls)

	md := stripeStub.createdCustomer.Metadata
	assert.Equal(t, domain.DefaultAffiliateID, md[domain.MetadataAffiliateKey])
	assert.NotEmpty(t, md[domain.MetadataCreatedAtKey])
	assert.Empty(t, md[domain.MetadataUpdatedAtKey])
}

func TestUpsertUpdatesExistingAndMergesMetadata(t *testing.T) {
	stripeStub := &stubStripeClient{
		foundCustomer: &domain.Customer{
			ID:    "cus_123",
			Email: "a@x.com",
			Metadata: map[string]string{
				"plan":                     "legacy",
				"keep":                     "yes",
				domain.MetadataAffiliateKey: "old-partner",
			},
		},
	}
	svc := NewCustomerService(stripeStub, nil, testLogger())

	customer, err := svc.Upsert(context.Background(), domain.UpsertCustomerRequest{
		Email: "a@x.com",
		Name:  "A B",
		Metadata: map[string]string{
			"plan":                      "pro",
			domain.MetadataAffiliateKey: "spoofed",
			domain.MetadataUpdatedAtKey: "spoofed",
		},
		AffiliateID: "partner-7",
	})

	require.NoError(t, err)
	assert.Equal(t, "cus_123", customer.ID)
	assert.Equal(t, "cus_123", stripeStub.lastUpdateID)
	assert.Zero(t, stripeStub.createCalls)

	md := stripeStub.updatedCustomer.Metadata
	assert.Equal(t, "pro", md["plan"], "supplied keys win over existing")
	assert.Equal(t, "yes", md["keep"], "existing keys survive the merge")
	assert.Equal(t, "partner-7", md[domain.MetadataAffiliateKey], "affiliate always wins over caller-supplied value")
	assert.NotEqual(t, "spoofed", md[domain.MetadataUpdatedAtKey])
	assert.NotEmpty(t, md[domain.MetadataUpdatedAtKey])
}

func TestUpsertMissingAffiliateDefaultsOnUpdatePath(t *testing.T) {
	stripeStub := &stubStripeClient{
		foundCustomer: &domain.Customer{ID: "cus_123", Email: "a@x.com"},
	}
	svc := NewCustomerService(stripeStub, nil, testLogger())

	_, err := svc.Upsert(context.Background(), domain.UpsertCustomerRequest{
		Email: "a@x.com",
		Name:  "A B",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAffiliateID, stripeStub.updatedCustomer.Metadata[domain.MetadataAffiliateKey])
}

func TestUpsertMetadataMergeIsIdempotent(t *testing.T) {
	stripeStub := &stubStripeClient{}
	svc := NewCustomerService(stripeStub, nil, testLogger())

	req := domain.UpsertCustomerRequest{
		Email:    "a@x.com",
		Name:     "A B",
		Metadata: map[string]string{"plan": "pro"},
	}

	_, err := svc.Upsert(context.Background(), req)
	require.NoError(t, err)
	first := stripeStub.createdCustomer.Metadata

	// Второй прогон идет по пути обновления того же клиента
	stripeStub.foundCustomer = stripeStub.createdCustomer
	_, err = svc.Upsert(context.Background(), req)
	require.NoError(t, err)
	second := stripeStub.updatedCustomer.Metadata

	for k, v := range first {
		if k == domain.MetadataCreatedAtKey || k == domain.MetadataUpdatedAtKey {
			continue
		}
		assert.Equal(t, v, second[k], "key %s must be stable across identical upserts", k)
	}
}

func TestUpsertAttachesPostalCodeOnlyWhenSupplied(t *testing.T) {
	stripeStub := &stubStripeClient{}
	svc := NewCustomerService(stripeStub, nil, testLogger())

	_, err := svc.Upsert(context.Background(), domain.UpsertCustomerRequest{
		Email: "a@x.com",
		Name:  "A B",
	})
	require.NoError(t, err)
	assert.Empty(t, stripeStub.createdCustomer.PostalCode)

	stripeStub2 := &stubStripeClient{}
	svc2 := NewCustomerService(stripeStub2, nil, testLogger())
	_, err = svc2.Upsert(context.Background(), domain.UpsertCustomerRequest{
		Email:   "a@x.com",
		Name:    "A B",
		ZipCode: "84101",
	})
	require.NoError(t, err)
	assert.Equal(t, "84101", stripeStub2.createdCustomer.PostalCode)
}

func TestUpsertPropagatesProviderErrors(t *testing.T) {
	stripeStub := &stubStripeClient{
		findErr: domain.NewProviderError(domain.ProviderErrorProcessing, "api_error", "stripe is down", errors.New("boom")),
	}
	svc := NewCustomerService(stripeStub, nil, testLogger())

	_, err := svc.Upsert(context.Background(), domain.UpsertCustomerRequest{
		Email: "a@x.com",
		Name:  "A B",
	})

	var provider *domain.ProviderError
	require.ErrorAs(t, err, &provider)
	assert.Equal(t, domain.ProviderErrorProcessing, provider.Kind)
}
