package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/middlewarectx"
	"github.com/ballenosman966/admoneyhosting-sub001/internal/models"
	subscription "github.com/ballenosman966/admoneyhosting-sub001/internal/services/subscription"
)

// MockService реализует интерфейс create.SubscriptionService
type MockService struct {
	mock.Mock
}

func (m *MockService) AddSubscription(ctx context.Context, userUID string, sub models.DummySubscription) (int, error) {
	args := m.Called(ctx, userUID, sub)
	return args.Int(0), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    interface{}
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная покупка vip",
			requestBody: models.DummySubscription{
				Type:          models.SubscriptionTypeVIP,
				Tier:          2,
				PaymentMethod: models.PaymentMethodWallet,
			},
			userUID: "user123",
			setupMock: func(m *MockService) {
				m.On("AddSubscription", mock.Anything, "user123", mock.AnythingOfType("models.DummySubscription")).
					Return(123, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"subscription_id":123}}`,
		},
		{
			name: "невалидные данные",
			requestBody: models.DummySubscription{
				Type:          "",
				PaymentMethod: "",
			},
			userUID:        "user123",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Type is a required field, field PaymentMethod is a required field"}`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			userUID:        "user123",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name: "отсутствует авторизация",
			requestBody: models.DummySubscription{
				Type:          models.SubscriptionTypeVIP,
				Tier:          2,
				PaymentMethod: models.PaymentMethodWallet,
			},
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"user identification missing"}`,
		},
		{
			name: "подписка уже активна",
			requestBody: models.DummySubscription{
				Type:          models.SubscriptionTypeVIP,
				Tier:          2,
				PaymentMethod: models.PaymentMethodWallet,
			},
			userUID: "user123",
			setupMock: func(m *MockService) {
				m.On("AddSubscription", mock.Anything, "user123", mock.AnythingOfType("models.DummySubscription")).
					Return(0, subscription.ErrAlreadySubscribed)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"active subscription already exists"}`,
		},
		{
			name: "недостаточно средств",
			requestBody: models.DummySubscription{
				Type:          models.SubscriptionTypeVIP,
				Tier:          7,
				PaymentMethod: models.PaymentMethodWallet,
			},
			userUID: "user123",
			setupMock: func(m *MockService) {
				m.On("AddSubscription", mock.Anything, "user123", mock.AnythingOfType("models.DummySubscription")).
					Return(0, subscription.ErrInsufficientFunds)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"insufficient funds"}`,
		},
		{
			name: "ошибка сервиса",
			requestBody: models.DummySubscription{
				Type:          models.SubscriptionTypePremium,
				PaymentMethod: models.PaymentMethodWallet,
			},
			userUID: "user123",
			setupMock: func(m *MockService) {
				m.On("AddSubscription", mock.Anything, "user123", mock.AnythingOfType("models.DummySubscription")).
					Return(0, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to purchase subscription"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
