package delete

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ballenosman966/admoneyhosting-sub001/internal/http/middlewarectx"
	rewards "github.com/ballenosman966/admoneyhosting-sub001/internal/services/rewards"
)

// MockService реализует интерфейс delete.RewardsService
type MockService struct {
	mock.Mock
}

func (m *MockService) RequestDeletion(ctx context.Context, userUID, currentPassword string) error {
	args := m.Called(ctx, userUID, currentPassword)
	return args.Error(0)
}

func TestDeleteHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешный запрос удаления",
			requestBody: `{"password":"correct-horse"}`,
			userUID:     "user123",
			setupMock: func(m *MockService) {
				m.On("RequestDeletion", mock.Anything, "user123", "correct-horse").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"message":"account deletion scheduled"}}`,
		},
		{
			name:           "пароль не передан",
			requestBody:    `{}`,
			userUID:        "user123",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"field Password is a required field"}`,
		},
		{
			name:        "пароль не совпадает",
			requestBody: `{"password":"wrong-password"}`,
			userUID:     "user123",
			setupMock: func(m *MockService) {
				m.On("RequestDeletion", mock.Anything, "user123", "wrong-password").
					Return(rewards.ErrInvalidPassword)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"invalid password"}`,
		},
		{
			name:           "отсутствует авторизация",
			requestBody:    `{"password":"correct-horse"}`,
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"user identification missing"}`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: `{"password":"correct-horse"}`,
			userUID:     "user123",
			setupMock: func(m *MockService) {
				m.On("RequestDeletion", mock.Anything, "user123", "correct-horse").
					Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to request account deletion"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/profile", bytes.NewReader([]byte(tt.requestBody)))
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
