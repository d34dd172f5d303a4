package paymentprovider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/magabrotheeeer/nutriplan/internal/config"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

const (
	testWebhookSecret = "whsec_test_secret"
	testUserID        = "6f1c3b9e-5a2d-4c8e-9f10-1a2b3c4d5e6f"
)

type SessionCreatorMock struct{ mock.Mock }

func (m *SessionCreatorMock) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}

func testConfig() config.Stripe {
	return config.Stripe{
		StripeSecretKey:     "sk_test_123",
		StripeWebhookSecret: testWebhookSecret,
		FrontendURL:         "https://nutriplan.app/",
		PriceIDs:            map[string]string{"pro": "price_pro", "premium": "price_premium"},
	}
}

func TestStripe_InitiateCheckout(t *testing.T) {
	identity := models.Identity{UserID: testUserID, Email: "user@example.com"}

	t.Run("creates one-time payment session", func(t *testing.T) {
		sessions := &SessionCreatorMock{}
		sessions.On("New", mock.MatchedBy(func(p *stripe.CheckoutSessionParams) bool {
			return *p.Mode == string(stripe.CheckoutSessionModePayment) &&
				p.SubscriptionData == nil &&
				*p.ClientReferenceID == testUserID &&
				*p.LineItems[0].Price == "price_premium" &&
				p.Metadata["plan"] == "premium" &&
				p.PaymentIntentData.Metadata["user_id"] == testUserID &&
				*p.CancelURL == "https://nutriplan.app/payment/cancel" &&
				*p.CustomerEmail == "user@example.com"
		})).Return(&stripe.CheckoutSession{ID: "cs_1", URL: "https://checkout.stripe.com/c/pay/cs_1"}, nil).Once()

		url, err := NewWithSessions(testConfig(), sessions).InitiateCheckout(context.Background(), models.TierPremium, identity)
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_1", url)
		sessions.AssertExpectations(t)
	})

	t.Run("missing price", func(t *testing.T) {
		cfg := testConfig()
		delete(cfg.PriceIDs, "pro")
		_, err := NewWithSessions(cfg, &SessionCreatorMock{}).InitiateCheckout(context.Background(), models.TierPro, identity)
		require.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("stripe error", func(t *testing.T) {
		sessions := &SessionCreatorMock{}
		sessions.On("New", mock.Anything).Return(nil, errors.New("card_declined")).Once()
		_, err := NewWithSessions(testConfig(), sessions).InitiateCheckout(context.Background(), models.TierPro, identity)
		require.Error(t, err)
	})
}

func signed(t *testing.T, payload string) (string, []byte) {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return sp.Header, sp.Payload
}

func TestStripe_ParseEvent(t *testing.T) {
	s := NewWithSessions(testConfig(), &SessionCreatorMock{})

	tests := []struct {
		name    string
		payload string
		want    Event
		wantErr error
	}{
		{
			name: "checkout completed",
			payload: `{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":` +
				`{"id":"cs_1","object":"checkout.session","payment_status":"paid","client_reference_id":"` + testUserID +
				`","metadata":{"user_id":"` + testUserID + `","plan":"pro"}}}}`,
			want: Event{ID: "evt_1", Kind: EventCheckoutCompleted, UserID: testUserID, Tier: models.TierPro},
		},
		{
			name: "checkout awaiting payment is ignored",
			payload: `{"id":"evt_2","object":"event","type":"checkout.session.completed","data":{"object":` +
				`{"id":"cs_2","object":"checkout.session","payment_status":"unpaid","metadata":{"plan":"pro"}}}}`,
			want: Event{ID: "evt_2", Kind: EventIgnored},
		},
		{
			name: "delayed payment settles",
			payload: `{"id":"evt_3","object":"event","type":"checkout.session.async_payment_succeeded","data":{"object":` +
				`{"id":"cs_2","object":"checkout.session","payment_status":"paid","client_reference_id":"` + testUserID +
				`","metadata":{"user_id":"` + testUserID + `","plan":"premium"}}}}`,
			want: Event{ID: "evt_3", Kind: EventCheckoutCompleted, UserID: testUserID, Tier: models.TierPremium},
		},
		{
			name: "recurring invoice is not a purchase",
			payload: `{"id":"evt_4","object":"event","type":"invoice.paid","data":{"object":{"id":"in_1","object":"invoice",` +
				`"billing_reason":"subscription_cycle","subscription_details":{"metadata":{"user_id":"` + testUserID +
				`","plan":"pro"}}}}}`,
			want: Event{ID: "evt_4", Kind: EventIgnored},
		},
		{
			name: "subscription deletion is ignored",
			payload: `{"id":"evt_6","object":"event","type":"customer.subscription.deleted","data":{"object":` +
				`{"id":"sub_1","object":"subscription","metadata":{"user_id":"` + testUserID + `","plan":"premium"}}}}`,
			want: Event{ID: "evt_6", Kind: EventIgnored},
		},
		{
			name: "missing user id",
			payload: `{"id":"evt_5","object":"event","type":"checkout.session.completed","data":{"object":` +
				`{"id":"cs_5","object":"checkout.session","payment_status":"paid","metadata":{"plan":"pro"}}}}`,
			wantErr: ErrInvalidEvent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, payload := signed(t, tt.payload)
			got, err := s.ParseEvent(payload, header)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("bad signature", func(t *testing.T) {
		_, err := s.ParseEvent([]byte(`{"id":"evt_1"}`), "t=1,v1=deadbeef")
		require.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("no webhook secret", func(t *testing.T) {
		cfg := testConfig()
		cfg.StripeWebhookSecret = ""
		_, err := NewWithSessions(cfg, &SessionCreatorMock{}).ParseEvent([]byte(`{}`), "")
		require.ErrorIs(t, err, ErrNotConfigured)
	})
}
