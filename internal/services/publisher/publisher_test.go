package publisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/news-publisher/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) FindDueArticles(ctx context.Context, now time.Time) ([]*models.Article, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Article), args.Error(1)
}

func (m *RepoMock) PublishArticle(ctx context.Context, uid string) (bool, error) {
	args := m.Called(ctx, uid)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) FindEligibleReaders(ctx context.Context, article *models.Article) ([]*models.User, error) {
	args := m.Called(ctx, article)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type BrokerMock struct{ mock.Mock }

func (m *BrokerMock) Publish(exchange, routingKey string, message any) error {
	return m.Called(exchange, routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func dueArticle() *models.Article {
	return &models.Article{
		UID:         "a1",
		Title:       "Новый закон об энергетике",
		IsExclusive: true,
		Status:      models.StatusDraft,
		Verticals:   []string{models.VerticalEnergy},
	}
}

func TestService_PublishDueArticles(t *testing.T) {
	readers := []*models.User{
		{UID: "r1", Username: "ivan", Email: "ivan@example.com"},
		{UID: "r2", Username: "olga", Email: "olga@example.com"},
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, b *BrokerMock)
	}{
		{
			name: "публикация и уведомление каждого подходящего читателя",
			setupMocks: func(r *RepoMock, b *BrokerMock) {
				a := dueArticle()
				r.On("FindDueArticles", mock.Anything, mock.Anything).
					Return([]*models.Article{a}, nil).Once()
				r.On("PublishArticle", mock.Anything, "a1").Return(true, nil).Once()
				r.On("FindEligibleReaders", mock.Anything, a).Return(readers, nil).Once()
				b.On("Publish", "notifications", "published", mock.MatchedBy(func(msg any) bool {
					info, ok := msg.(models.ArticleInfo)
					return ok && info.ArticleUID == "a1" && info.Email == "ivan@example.com"
				})).Return(nil).Once()
				b.On("Publish", "notifications", "published", mock.MatchedBy(func(msg any) bool {
					info, ok := msg.(models.ArticleInfo)
					return ok && info.Email == "olga@example.com"
				})).Return(nil).Once()
			},
		},
		{
			name: "уже опубликованная статья не рассылается повторно",
			setupMocks: func(r *RepoMock, _ *BrokerMock) {
				a := dueArticle()
				r.On("FindDueArticles", mock.Anything, mock.Anything).
					Return([]*models.Article{a}, nil).Once()
				r.On("PublishArticle", mock.Anything, "a1").Return(false, nil).Once()
			},
		},
		{
			name: "нет созревших статей",
			setupMocks: func(r *RepoMock, _ *BrokerMock) {
				r.On("FindDueArticles", mock.Anything, mock.Anything).
					Return([]*models.Article{}, nil).Once()
			},
		},
		{
			name: "ошибка выборки логируется и не паникует",
			setupMocks: func(r *RepoMock, _ *BrokerMock) {
				r.On("FindDueArticles", mock.Anything, mock.Anything).
					Return(nil, errors.New("db error")).Once()
			},
		},
		{
			name: "ошибка брокера не прерывает рассылку остальным",
			setupMocks: func(r *RepoMock, b *BrokerMock) {
				a := dueArticle()
				r.On("FindDueArticles", mock.Anything, mock.Anything).
					Return([]*models.Article{a}, nil).Once()
				r.On("PublishArticle", mock.Anything, "a1").Return(true, nil).Once()
				r.On("FindEligibleReaders", mock.Anything, a).Return(readers, nil).Once()
				b.On("Publish", "notifications", "published", mock.Anything).
					Return(errors.New("broker down")).Twice()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			broker := new(BrokerMock)
			svc := New(repo, broker, newNoopLogger())

			tt.setupMocks(repo, broker)

			svc.PublishDueArticles(context.Background())

			repo.AssertExpectations(t)
			broker.AssertExpectations(t)
		})
	}
}
