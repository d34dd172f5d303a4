package check

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/nutriplan/internal/entitlement"
	"github.com/magabrotheeeer/nutriplan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriplan/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) HasFeature(sess *entitlement.Session, capability string) bool {
	return m.Called(sess, capability).Bool(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func withCapability(ctx context.Context, capability string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("capability", capability)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func TestCheckHandler_ServeHTTP(t *testing.T) {
	sess := &entitlement.Session{Subscription: models.FreeSubscription("u1")}

	tests := []struct {
		name           string
		capability     string
		allowed        bool
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "locked on free",
			capability:     "ai_coach",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"capability":"ai_coach","allowed":false}}`,
		},
		{
			name:           "ungated capability",
			capability:     "food_diary",
			allowed:        true,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"capability":"food_diary","allowed":true}}`,
		},
		{
			name:           "empty capability",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"capability is required"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			if tt.capability != "" {
				service.On("HasFeature", sess, tt.capability).Return(tt.allowed).Once()
			}
			handler := New(newNoopLogger(), service)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/features/"+tt.capability, nil)
			ctx := middlewarectx.WithSession(req.Context(), sess)
			req = req.WithContext(withCapability(ctx, tt.capability))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			service.AssertExpectations(t)
		})
	}
}
