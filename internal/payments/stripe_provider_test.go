package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78"
)

type stubIntents struct {
	got *stripe.PaymentIntentParams
	err error
}

func (s *stubIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	s.got = params
	if s.err != nil {
		return nil, s.err
	}
	return &stripe.PaymentIntent{
		ID:           "pi_123",
		ClientSecret: "pi_123_secret_abc",
		Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
		Amount:       *params.Amount,
		Currency:     stripe.Currency(*params.Currency),
	}, nil
}

func TestNewStripeProvider_RequiresKey(t *testing.T) {
	_, err := NewStripeProvider(StripeProviderConfig{})
	require.Error(t, err)
}

func TestCreatePaymentIntent(t *testing.T) {
	stub := &stubIntents{}
	p, err := NewStripeProvider(StripeProviderConfig{Intents: stub})
	require.NoError(t, err)

	ctx := context.Background()
	intent, err := p.CreatePaymentIntent(ctx, IntentRequest{Amount: 12550, Currency: " AED ", Metadata: map[string]string{"source": "checkout"}})
	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
	assert.Equal(t, int64(12550), intent.Amount)
	assert.Equal(t, "aed", intent.Currency)

	require.NotNil(t, stub.got)
	assert.Equal(t, "aed", *stub.got.Currency)
	assert.True(t, *stub.got.AutomaticPaymentMethods.Enabled)
	assert.Equal(t, ctx, stub.got.Context)
	assert.Equal(t, "checkout", stub.got.Metadata["source"])
}

func TestCreatePaymentIntent_Rejects(t *testing.T) {
	stub := &stubIntents{}
	p, err := NewStripeProvider(StripeProviderConfig{Intents: stub})
	require.NoError(t, err)

	_, err = p.CreatePaymentIntent(context.Background(), IntentRequest{Amount: 0, Currency: "aed"})
	require.Error(t, err)
	_, err = p.CreatePaymentIntent(context.Background(), IntentRequest{Amount: 100})
	require.Error(t, err)
	assert.Nil(t, stub.got)

	stub.err = errors.New("card_declined")
	_, err = p.CreatePaymentIntent(context.Background(), IntentRequest{Amount: 100, Currency: "aed"})
	require.ErrorIs(t, err, stub.err)
}
