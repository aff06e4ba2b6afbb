package create

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

	"github.com/magabrotheeeer/news-publisher/internal/http/middlewarectx"
	"github.com/magabrotheeeer/news-publisher/internal/models"
	articleservice "github.com/magabrotheeeer/news-publisher/internal/services/article"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, username string, req models.DummyArticle) (string, error) {
	args := m.Called(ctx, username, req)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler(t *testing.T) {
	logger := newNoopLogger()

	validBody := `{"title":"Новый налоговый пакет","subtitle":"Что изменится","content":"Текст","is_exclusive":true,"verticals":["tax"]}`

	tests := []struct {
		name           string
		body           string
		username       string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешное создание статьи",
			body:     validBody,
			username: "writer",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "writer", mock.MatchedBy(func(r models.DummyArticle) bool {
					return r.Title == "Новый налоговый пакет" && r.IsExclusive
				})).Return("article-uid", nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"article_uid":"article-uid"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{not json`,
			username:       "writer",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name:           "неизвестная вертикаль",
			body:           `{"title":"t","subtitle":"s","content":"c","verticals":["sports"]}`,
			username:       "writer",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `contains an unknown vertical`,
		},
		{
			name:           "отсутствует пользователь в контексте",
			body:           validBody,
			username:       "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"unauthorized"`,
		},
		{
			name:     "читателю запрещено создавать",
			body:     validBody,
			username: "reader",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "reader", mock.Anything).
					Return("", articleservice.ErrPermissionDenied).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"you are not allowed to create articles"`,
		},
		{
			name:     "ошибка сервиса",
			body:     validBody,
			username: "writer",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "writer", mock.Anything).
					Return("", errors.New("db error")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not create article"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(tt.body))
			if tt.username != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.User, tt.username)
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
