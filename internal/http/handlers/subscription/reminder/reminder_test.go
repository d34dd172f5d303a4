package reminder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/nutriplan/internal/entitlement"
	"github.com/magabrotheeeer/nutriplan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CheckRenewalReminder(ctx context.Context, sess *entitlement.Session, now time.Time) (bool, error) {
	args := m.Called(ctx, sess, now)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestReminderHandler_ServeHTTP(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sess := &entitlement.Session{Identity: models.Identity{UserID: "6f1c3b9e-5a2d-4c8e-9f10-1a2b3c4d5e6f"}}

	tests := []struct {
		name           string
		sent           bool
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{name: "reminder sent", sent: true, expectedStatus: http.StatusOK, expectedBody: `{"status":"OK","data":{"due":true}}`},
		{name: "nothing to send", expectedStatus: http.StatusOK, expectedBody: `{"status":"OK","data":{"due":false}}`},
		{
			name:           "marker storage failure",
			err:            errors.New("db down"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"reminder check failed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			service.On("CheckRenewalReminder", mock.Anything, sess, now).Return(tt.sent, tt.err).Once()
			handler := New(newNoopLogger(), service).WithClock(func() time.Time { return now })

			req := httptest.NewRequest(http.MethodGet, "/api/v1/subscription/reminder", nil)
			req = req.WithContext(middlewarectx.WithSession(req.Context(), sess))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			service.AssertExpectations(t)
		})
	}
}
