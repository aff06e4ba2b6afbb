// Package article содержит бизнес-логику работы со статьями: правило
// видимости и авторизации, CRUD и кеширование.
//
// Правило записи: читатель никогда не создаёт и не изменяет статьи;
// автор изменяет только собственные. Правило чтения: автор видит всё,
// читатель без плана — опубликованные неэксклюзивные, читатель с планом —
// опубликованные эксклюзивные с пересечением вертикалей.
package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/news-publisher/internal/models"
	"github.com/magabrotheeeer/news-publisher/internal/storage/repository"
)

// Ошибки бизнес-уровня, которые обработчики переводят в HTTP-статусы.
var (
	// ErrPermissionDenied — нарушение ролевого правила или правила владения.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound — статья отсутствует или скрыта от пользователя.
	ErrNotFound = errors.New("article not found")
	// ErrInvalidTransition — попытка вернуть опубликованную статью в черновик.
	ErrInvalidTransition = errors.New("published article cannot become draft")
)

// ArticleRepository определяет методы для работы со статьями в хранилище.
type ArticleRepository interface {
	CreateArticle(ctx context.Context, a models.Article) (string, error)
	ReadArticle(ctx context.Context, uid string) (*models.Article, error)
	ReadArticleAny(ctx context.Context, uid string) (*models.Article, error)
	UpdateArticle(ctx context.Context, a models.Article) (int, error)
	RemoveArticle(ctx context.Context, uid string) (int, error)
	ListArticles(ctx context.Context, viewer *models.User, f models.ArticleFilter) ([]*models.Article, error)
}

// UserRepository определяет доступ к пользователям и их планам.
type UserRepository interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует бизнес-логику работы со статьями.
type Service struct {
	repo  ArticleRepository
	users UserRepository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo ArticleRepository, users UserRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		users: users,
		cache: cache,
		log:   log,
	}
}

func cacheKey(uid string) string {
	return fmt.Sprintf("article:%s", uid)
}

// visibleToReader — предикат видимости одной статьи для читателя.
// Черновики читателям не видны; без плана доступны только неэксклюзивные,
// с планом — только эксклюзивные с пересечением вертикалей плана.
func visibleToReader(a *models.Article, viewer *models.User) bool {
	if a.Status != models.StatusPublished {
		return false
	}
	if viewer.Plan == nil {
		return !a.IsExclusive
	}
	return a.IsExclusive && models.VerticalsOverlap(a.Verticals, viewer.Plan.Verticals)
}

// Create создает новую статью. Читателю операция запрещена; автором
// статьи всегда становится действующий пользователь, значение из
// запроса игнорируется.
func (s *Service) Create(ctx context.Context, username string, req models.DummyArticle) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user.Role != models.RoleWriter {
		return "", ErrPermissionDenied
	}

	var publishedAt *time.Time
	if req.PublishedAt != "" {
		t, err := time.Parse(time.RFC3339, req.PublishedAt)
		if err != nil {
			return "", fmt.Errorf("invalid published_at: %w", err)
		}
		publishedAt = &t
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}

	a := models.Article{
		UID:         uuid.New().String(),
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Content:     req.Content,
		PictureURL:  req.PictureURL,
		IsExclusive: req.IsExclusive,
		Status:      status,
		PublishedAt: publishedAt,
		AuthorUID:   user.UID,
		Verticals:   req.Verticals,
	}

	uid, err := s.repo.CreateArticle(ctx, a)
	if err != nil {
		return "", err
	}
	s.log.Info("created new article", slog.String("uid", uid))

	// Кешируются только опубликованные статьи: отложенная публикация меняет
	// статус напрямую в базе, минуя кеш.
	if a.Status == models.StatusPublished {
		if err := s.cache.Set(cacheKey(uid), a, time.Hour); err != nil {
			s.log.Warn("failed to cache article", slog.String("key", cacheKey(uid)), slog.Any("err", err))
		}
	}

	return uid, nil
}

// Read возвращает статью по UID с учётом правила видимости. Статья вне
// видимого набора пользователя возвращается как ErrNotFound, чтобы не
// раскрывать факт её существования.
func (s *Service) Read(ctx context.Context, username, uid string) (*models.Article, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	var a *models.Article
	found, err := s.cache.Get(cacheKey(uid), &a)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", cacheKey(uid)), slog.Any("err", err))
	}
	if !found {
		if user.Role == models.RoleWriter {
			a, err = s.repo.ReadArticleAny(ctx, uid)
		} else {
			a, err = s.repo.ReadArticle(ctx, uid)
		}
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if a.Status == models.StatusPublished {
			if err := s.cache.Set(cacheKey(uid), a, time.Hour); err != nil {
				s.log.Warn("failed to cache article", slog.String("key", cacheKey(uid)), slog.Any("err", err))
			}
		}
	}

	if user.Role != models.RoleWriter && !visibleToReader(a, user) {
		return nil, ErrNotFound
	}
	return a, nil
}

// Update частично обновляет статью: применяются только переданные поля.
// Читателю операция запрещена; автор может менять только свои статьи.
// Переход published -> draft не допускается.
func (s *Service) Update(ctx context.Context, username, uid string, req models.DummyArticleUpdate) (int, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if user.Role != models.RoleWriter {
		return 0, ErrPermissionDenied
	}

	a, err := s.repo.ReadArticle(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if a.AuthorUID != user.UID {
		return 0, ErrPermissionDenied
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Subtitle != nil {
		a.Subtitle = *req.Subtitle
	}
	if req.Content != nil {
		a.Content = *req.Content
	}
	if req.PictureURL != nil {
		a.PictureURL = *req.PictureURL
	}
	if req.IsExclusive != nil {
		a.IsExclusive = *req.IsExclusive
	}
	if req.Verticals != nil {
		a.Verticals = req.Verticals
	}
	if req.PublishedAt != nil {
		t, err := time.Parse(time.RFC3339, *req.PublishedAt)
		if err != nil {
			return 0, fmt.Errorf("invalid published_at: %w", err)
		}
		a.PublishedAt = &t
	}
	if req.Status != nil {
		if a.Status == models.StatusPublished && *req.Status == models.StatusDraft {
			return 0, ErrInvalidTransition
		}
		if *req.Status == models.StatusPublished && a.PublishedAt == nil {
			now := time.Now().UTC()
			a.PublishedAt = &now
		}
		a.Status = *req.Status
	}

	count, err := s.repo.UpdateArticle(ctx, *a)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrNotFound
	}
	s.log.Info("updated article", slog.String("uid", uid))

	if a.Status == models.StatusPublished {
		if err := s.cache.Set(cacheKey(uid), a, time.Hour); err != nil {
			s.log.Warn("failed to cache article", slog.String("key", cacheKey(uid)), slog.Any("err", err))
		}
	} else {
		if err := s.cache.Invalidate(cacheKey(uid)); err != nil {
			s.log.Warn("failed to remove from cache", slog.String("key", cacheKey(uid)), slog.Any("err", err))
		}
	}
	return count, nil
}

// Remove мягко удаляет статью. Правила доступа те же, что и при обновлении.
func (s *Service) Remove(ctx context.Context, username, uid string) (int, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if user.Role != models.RoleWriter {
		return 0, ErrPermissionDenied
	}

	a, err := s.repo.ReadArticle(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	if a.AuthorUID != user.UID {
		return 0, ErrPermissionDenied
	}

	if err := s.cache.Invalidate(cacheKey(uid)); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey(uid)), slog.Any("err", err))
	}

	count, err := s.repo.RemoveArticle(ctx, uid)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrNotFound
	}
	return count, nil
}

// List возвращает статьи, видимые пользователю, с фильтрами и пагинацией.
// Просмотр удалённых доступен только авторам.
func (s *Service) List(ctx context.Context, username string, f models.ArticleFilter) ([]*models.Article, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleWriter {
		f.IncludeDeleted = false
	}
	return s.repo.ListArticles(ctx, user, f)
}
