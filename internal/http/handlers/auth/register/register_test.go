package register

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, email, username, password, role string) (string, error) {
	args := m.Called(ctx, email, username, password, role)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная регистрация читателя",
			body: `{"email":"ivan@example.com","username":"ivan123","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "ivan@example.com", "ivan123", "secret123", "").
					Return("user-uid", nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"user_uid":"user-uid"`,
		},
		{
			name: "регистрация с ролью writer",
			body: `{"email":"pen@example.com","username":"author1","password":"secret123","role":"writer"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "pen@example.com", "author1", "secret123", "writer").
					Return("writer-uid", nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"user_uid":"writer-uid"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name:           "отсутствует email",
			body:           `{"username":"ivan123","password":"secret123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email is a required field`,
		},
		{
			name:           "недопустимая роль",
			body:           `{"email":"a@b.com","username":"ivan123","password":"secret123","role":"admin"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Role must be reader or writer`,
		},
		{
			name: "ошибка сервиса регистрации",
			body: `{"email":"ivan@example.com","username":"ivan123","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "ivan@example.com", "ivan123", "secret123", "").
					Return("", errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not register user"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
