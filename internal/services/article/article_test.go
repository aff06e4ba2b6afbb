package article

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/news-publisher/internal/models"
	"github.com/magabrotheeeer/news-publisher/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateArticle(ctx context.Context, a models.Article) (string, error) {
	args := m.Called(ctx, a)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) ReadArticle(ctx context.Context, uid string) (*models.Article, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *RepoMock) ReadArticleAny(ctx context.Context, uid string) (*models.Article, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *RepoMock) UpdateArticle(ctx context.Context, a models.Article) (int, error) {
	args := m.Called(ctx, a)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) RemoveArticle(ctx context.Context, uid string) (int, error) {
	args := m.Called(ctx, uid)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListArticles(ctx context.Context, viewer *models.User, f models.ArticleFilter) ([]*models.Article, error) {
	args := m.Called(ctx, viewer, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Article), args.Error(1)
}

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func writerUser() *models.User {
	return &models.User{UID: "writer-uid", Username: "writer", Role: models.RoleWriter}
}

func readerUser(plan *models.SubscriptionPlan) *models.User {
	return &models.User{UID: "reader-uid", Username: "reader", Role: models.RoleReader, Plan: plan}
}

func TestService_Create(t *testing.T) {
	req := models.DummyArticle{
		Title:     "Новый налоговый пакет",
		Subtitle:  "Что изменится с осени",
		Content:   "Текст статьи",
		Verticals: []string{models.VerticalTax},
	}

	tests := []struct {
		name       string
		username   string
		req        models.DummyArticle
		setupMocks func(r *RepoMock, u *UsersMock, c *CacheMock)
		wantErr    error
		checkUID   bool
	}{
		{
			name:     "успешное создание автором",
			username: "writer",
			req:      req,
			setupMocks: func(r *RepoMock, u *UsersMock, _ *CacheMock) {
				u.On("GetUserByUsername", mock.Anything, "writer").Return(writerUser(), nil).Once()
				r.On("CreateArticle", mock.Anything, mock.MatchedBy(func(a models.Article) bool {
					return a.Title == req.Title &&
						a.AuthorUID == "writer-uid" &&
						a.Status == models.StatusDraft &&
						a.UID != ""
				})).Return("new-uid", nil).Once()
			},
			checkUID: true,
		},
		{
			name:     "читателю запрещено создавать статьи",
			username: "reader",
			req:      req,
			setupMocks: func(_ *RepoMock, u *UsersMock, _ *CacheMock) {
				u.On("GetUserByUsername", mock.Anything, "reader").Return(readerUser(nil), nil).Once()
			},
			wantErr: ErrPermissionDenied,
		},
		{
			name:     "некорректная дата публикации",
			username: "writer",
			req: models.DummyArticle{
				Title:       "t",
				Subtitle:    "s",
				Content:     "c",
				PublishedAt: "not-a-date",
			},
			setupMocks: func(_ *RepoMock, u *UsersMock, _ *CacheMock) {
				u.On("GetUserByUsername", mock.Anything, "writer").Return(writerUser(), nil).Once()
			},
			wantErr: errors.New("invalid published_at"),
		},
		{
			name:     "ошибка кеша не ломает создание опубликованной",
			username: "writer",
			req: models.DummyArticle{
				Title:     "Срочная новость",
				Subtitle:  "s",
				Content:   "c",
				Status:    models.StatusPublished,
				Verticals: []string{models.VerticalPower},
			},
			setupMocks: func(r *RepoMock, u *UsersMock, c *CacheMock) {
				u.On("GetUserByUsername", mock.Anything, "writer").Return(writerUser(), nil).Once()
				r.On("CreateArticle", mock.Anything, mock.MatchedBy(func(a models.Article) bool {
					return a.Status == models.StatusPublished
				})).Return("uid-2", nil).Once()
				c.On("Set", "article:uid-2", mock.Anything, time.Hour).Return(errors.New("redis down")).Once()
			},
			checkUID: true,
		},
		{
			name:     "черновик не попадает в кеш",
			username: "writer",
			req:      req,
			setupMocks: func(r *RepoMock, u *UsersMock, _ *CacheMock) {
				u.On("GetUserByUsername", mock.Anything, "writer").Return(writerUser(), nil).Once()
				r.On("CreateArticle", mock.Anything, mock.Anything).Return("uid-3", nil).Once()
			},
			checkUID: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			cache := new(CacheMock)
			svc := New(repo, users, cache, newNoopLogger())

			tt.setupMocks(repo, users, cache)

			uid, err := svc.Create(context.Background(), tt.username, tt.req)

			if tt.wantErr != nil {
				assert.Error(t, err)
				if errors.Is(tt.wantErr, ErrPermissionDenied) {
					assert.ErrorIs(t, err, ErrPermissionDenied)
				}
			} else {
				assert.NoError(t, err)
				if tt.checkUID {
					assert.NotEmpty(t, uid)
				}
			}
			repo.AssertExpectations(t)
			users.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_Read_Visibility(t *testing.T) {
	now := time.Now().UTC()

	published := func(exclusive bool, verticals ...string) *models.Article {
		return &models.Article{
			UID:         "a1",
			Title:       "title",
			IsExclusive: exclusive,
			Status:      models.StatusPublished,
			PublishedAt: &now,
			AuthorUID:   "writer-uid",
			Verticals:   verticals,
		}
	}
	draft := &models.Article{
		UID:       "a1",
		Title:     "draft",
		Status:    models.StatusDraft,
		AuthorUID: "writer-uid",
	}
	taxPlan := &models.SubscriptionPlan{
		UID:         "p1",
		Name:        "Tax Pro",
		IsExclusive: true,
		Verticals:   []string{models.VerticalTax},
	}

	tests := []struct {
		name    string
		viewer  *models.User
		article *models.Article
		wantErr error
	}{
		{
			name:    "автор видит черновик",
			viewer:  writerUser(),
			article: draft,
		},
		{
			name:    "читатель без плана видит неэксклюзивную",
			viewer:  readerUser(nil),
			article: published(false, models.VerticalPower),
		},
		{
			name:    "читатель без плана не видит эксклюзивную",
			viewer:  readerUser(nil),
			article: published(true, models.VerticalTax),
			wantErr: ErrNotFound,
		},
		{
			name:    "читатель с планом видит эксклюзивную с пересечением вертикалей",
			viewer:  readerUser(taxPlan),
			article: published(true, models.VerticalTax, models.VerticalPower),
		},
		{
			name:    "читатель с планом не видит эксклюзивную без пересечения",
			viewer:  readerUser(taxPlan),
			article: published(true, models.VerticalHealth),
			wantErr: ErrNotFound,
		},
		{
			name:    "читатель с планом не видит неэксклюзивную",
			viewer:  readerUser(taxPlan),
			article: published(false, models.VerticalTax),
			wantErr: ErrNotFound,
		},
		{
			name:    "читатель не видит черновик",
			viewer:  readerUser(nil),
			article: draft,
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			cache := new(CacheMock)
			svc := New(repo, users, cache, newNoopLogger())

			users.On("GetUserByUsername", mock.Anything, tt.viewer.Username).Return(tt.viewer, nil).Once()
			cache.On("Get", "article:a1", mock.Anything).Return(false, nil).Once()
			if tt.viewer.Role == models.RoleWriter {
				repo.On("ReadArticleAny", mock.Anything, "a1").Return(tt.article, nil).Once()
			} else {
				repo.On("ReadArticle", mock.Anything, "a1").Return(tt.article, nil).Once()
			}
			if tt.article.Status == models.StatusPublished {
				cache.On("Set", "article:a1", mock.Anything, time.Hour).Return(nil).Once()
			}

			got, err := svc.Read(context.Background(), tt.viewer.Username, "a1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.article.UID, got.UID)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_Read_AfterScheduledPublication(t *testing.T) {
	now := time.Now().UTC()

	draft := &models.Article{
		UID:         "a1",
		Title:       "scheduled",
		Status:      models.StatusDraft,
		PublishedAt: &now,
		AuthorUID:   "writer-uid",
		Verticals:   []string{models.VerticalPower},
	}
	published := &models.Article{
		UID:         "a1",
		Title:       "scheduled",
		Status:      models.StatusPublished,
		PublishedAt: &now,
		AuthorUID:   "writer-uid",
		Verticals:   []string{models.VerticalPower},
	}

	repo := new(RepoMock)
	users := new(UsersMock)
	cache := new(CacheMock)
	svc := New(repo, users, cache, newNoopLogger())

	// Автор смотрит черновик до срока публикации: в кеш он попасть не должен.
	users.On("GetUserByUsername", mock.Anything, "writer").Return(writerUser(), nil).Once()
	cache.On("Get", "article:a1", mock.Anything).Return(false, nil).Once()
	repo.On("ReadArticleAny", mock.Anything, "a1").Return(draft, nil).Once()

	got, err := svc.Read(context.Background(), "writer", "a1")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusDraft, got.Status)

	// Планировщик перевёл статью в published напрямую в базе. Читатель,
	// пришедший по уведомлению, должен получить свежий статус из хранилища.
	users.On("GetUserByUsername", mock.Anything, "reader").Return(readerUser(nil), nil).Once()
	cache.On("Get", "article:a1", mock.Anything).Return(false, nil).Once()
	repo.On("ReadArticle", mock.Anything, "a1").Return(published, nil).Once()
	cache.On("Set", "article:a1", mock.Anything, time.Hour).Return(nil).Once()

	got, err = svc.Read(context.Background(), "reader", "a1")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPublished, got.Status)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestService_Read_NotFoundInStorage(t *testing.T) {
	repo := new(RepoMock)
	users := new(UsersMock)
	cache := new(CacheMock)
	svc := New(repo, users, cache, newNoopLogger())

	users.On("GetUserByUsername", mock.Anything, "reader").Return(readerUser(nil), nil).Once()
	cache.On("Get", "article:missing", mock.Anything).Return(false, nil).Once()
	repo.On("ReadArticle", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()

	_, err := svc.Read(context.Background(), "reader", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Update(t *testing.T) {
	now := time.Now().UTC()
	newTitle := "Обновлённый заголовок"
	statusPublished := models.StatusPublished
	statusDraft := models.StatusDraft

	existing := func() *models.Article {
		return &models.Article{
			UID:       "a1",
			Title:     "old",
			Status:    models.StatusDraft,
			AuthorUID: "writer-uid",
		}
	}

	tests := []struct {
		name       string
		username   string
		req        models.DummyArticleUpdate
		setupMocks func(r *RepoMock, u *UsersMock, c *CacheMock)
		wantErr    error
		wantCount  int
	}{
		{
			name:     "успешное обновление заголовка",
			username: "writer",
			req:      models.DummyArticleUpdate{Title: &newTitle},
			setupMocks: func(r *RepoMock, u *UsersMock, c *CacheMock) {
				u.On("GetUserByUsername", mock.Anything, "writer").Return(writerUser(), nil).Once()
				r.On("ReadArticle", mock.Anything, "a1").Return(existing(), nil).Once()
				r.On("UpdateArticle", mock.Anything, mock.MatchedBy(func(a models.Article) bool {
					return a.Title == newTitle
				})).Return(1, nil).Once()
				c.On("Invalidate", "article:a1").Return(nil).Once()
			},
			wantCount: 1,
		},
		{
			name:     "читателю запрещено обновлять",
			username: "reader",
			req:      models.DummyArticleUpdate{Title: &newTitle},
			setupMocks: func(_ *RepoMock, u *UsersMock, _ *CacheMock) {
				u.On("GetUserByUsername", mock.Anything, "reader").Return(readerUser(nil), nil).Once()
			},
			wantErr: ErrPermissionDenied,
		},
		{
			name:     "чужой автор не может обновлять",
			username: "writer",
			req:      models.DummyArticleUpdate{Title: &newTitle},
			setupMocks: func(r *RepoMock, u *UsersMock, _ *CacheMock) {
				other := &models.User{UID: "other-uid", Username: "writer", Role: models.RoleWriter}
				u.On("GetUserByUsername", mock.Anything, "writer").Return(other, nil).Once()
				r.On("ReadArticle", mock.Anything, "a1").Return(existing(), nil).Once()
			},
			wantErr: ErrPermissionDenied,
		},
		{
			name:     "публикация без даты проставляет время",
			username: "writer",
			req:      models.DummyArticleUpdate{Status: &statusPublished},
			setupMocks: func(r *RepoMock, u *UsersMock, c *CacheMock) {
				u.On("GetUserByUsername", mock.Anything, "writer").Return(writerUser(), nil).Once()
				r.On("ReadArticle", mock.Anything, "a1").Return(existing(), nil).Once()
				r.On("UpdateArticle", mock.Anything, mock.MatchedBy(func(a models.Article) bool {
					return a.Status == models.StatusPublished && a.PublishedAt != nil
				})).Return(1, nil).Once()
				c.On("Set", "article:a1", mock.Anything, time.Hour).Return(nil).Once()
			},
			wantCount: 1,
		},
		{
			name:     "возврат published в draft запрещён",
			username: "writer",
			req:      models.DummyArticleUpdate{Status: &statusDraft},
			setupMocks: func(r *RepoMock, u *UsersMock, _ *CacheMock) {
				pub := &models.Article{
					UID:         "a1",
					Status:      models.StatusPublished,
					PublishedAt: &now,
					AuthorUID:   "writer-uid",
				}
				u.On("GetUserByUsername", mock.Anything, "writer").Return(writerUser(), nil).Once()
				r.On("ReadArticle", mock.Anything, "a1").Return(pub, nil).Once()
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name:     "статья не найдена",
			username: "writer",
			req:      models.DummyArticleUpdate{Title: &newTitle},
			setupMocks: func(r *RepoMock, u *UsersMock, _ *CacheMock) {
				u.On("GetUserByUsername", mock.Anything, "writer").Return(writerUser(), nil).Once()
				r.On("ReadArticle", mock.Anything, "a1").Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			cache := new(CacheMock)
			svc := New(repo, users, cache, newNoopLogger())

			tt.setupMocks(repo, users, cache)

			count, err := svc.Update(context.Background(), tt.username, "a1", tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantCount, count)
			}
			repo.AssertExpectations(t)
			users.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_Remove(t *testing.T) {
	existing := &models.Article{
		UID:       "a1",
		Status:    models.StatusDraft,
		AuthorUID: "writer-uid",
	}

	tests := []struct {
		name       string
		username   string
		setupMocks func(r *RepoMock, u *UsersMock, c *CacheMock)
		wantErr    error
	}{
		{
			name:     "успешное удаление автором",
			username: "writer",
			setupMocks: func(r *RepoMock, u *UsersMock, c *CacheMock) {
				u.On("GetUserByUsername", mock.Anything, "writer").Return(writerUser(), nil).Once()
				r.On("ReadArticle", mock.Anything, "a1").Return(existing, nil).Once()
				c.On("Invalidate", "article:a1").Return(nil).Once()
				r.On("RemoveArticle", mock.Anything, "a1").Return(1, nil).Once()
			},
		},
		{
			name:     "читателю запрещено удалять",
			username: "reader",
			setupMocks: func(_ *RepoMock, u *UsersMock, _ *CacheMock) {
				u.On("GetUserByUsername", mock.Anything, "reader").Return(readerUser(nil), nil).Once()
			},
			wantErr: ErrPermissionDenied,
		},
		{
			name:     "чужую статью удалить нельзя",
			username: "writer",
			setupMocks: func(r *RepoMock, u *UsersMock, _ *CacheMock) {
				other := &models.User{UID: "other-uid", Username: "writer", Role: models.RoleWriter}
				u.On("GetUserByUsername", mock.Anything, "writer").Return(other, nil).Once()
				r.On("ReadArticle", mock.Anything, "a1").Return(existing, nil).Once()
			},
			wantErr: ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			cache := new(CacheMock)
			svc := New(repo, users, cache, newNoopLogger())

			tt.setupMocks(repo, users, cache)

			_, err := svc.Remove(context.Background(), tt.username, "a1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_List_ReaderCannotSeeDeleted(t *testing.T) {
	repo := new(RepoMock)
	users := new(UsersMock)
	cache := new(CacheMock)
	svc := New(repo, users, cache, newNoopLogger())

	viewer := readerUser(nil)
	users.On("GetUserByUsername", mock.Anything, "reader").Return(viewer, nil).Once()
	repo.On("ListArticles", mock.Anything, viewer, mock.MatchedBy(func(f models.ArticleFilter) bool {
		return !f.IncludeDeleted
	})).Return([]*models.Article{}, nil).Once()

	_, err := svc.List(context.Background(), "reader", models.ArticleFilter{IncludeDeleted: true, Limit: 10})
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
