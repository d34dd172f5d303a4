package notifier

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nutriplan/internal/models"
)

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func TestNotifier_PublishRenewalReminder(t *testing.T) {
	reminder := models.RenewalReminder{
		UserID:  "6f1c3b9e-5a2d-4c8e-9f10-1a2b3c4d5e6f",
		Email:   "user@example.com",
		Tier:    models.TierPro,
		EndDate: time.Date(2025, 3, 31, 9, 30, 0, 0, time.UTC),
	}

	t.Run("routes to renewal queue", func(t *testing.T) {
		p := &PublisherMock{}
		p.On("Publish", "notifications", "renewal", false, false, mock.MatchedBy(func(msg amqp.Publishing) bool {
			var got models.RenewalReminder
			return json.Unmarshal(msg.Body, &got) == nil &&
				got.UserID == reminder.UserID && got.Tier == reminder.Tier && got.EndDate.Equal(reminder.EndDate)
		})).Return(nil).Once()

		require.NoError(t, New(p).PublishRenewalReminder(context.Background(), reminder))
		p.AssertExpectations(t)
	})

	t.Run("broker error", func(t *testing.T) {
		p := &PublisherMock{}
		p.On("Publish", mock.Anything, mock.Anything, false, false, mock.Anything).Return(amqp.ErrClosed).Once()

		err := New(p).PublishRenewalReminder(context.Background(), reminder)
		require.ErrorIs(t, err, amqp.ErrClosed)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := &PublisherMock{}

		err := New(p).PublishRenewalReminder(ctx, reminder)
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, p.Calls)
	})
}
