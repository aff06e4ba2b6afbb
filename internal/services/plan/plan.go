// Package plan содержит бизнес-логику управления тарифными планами
// и подпиской пользователей на них.
package plan

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/news-publisher/internal/models"
	"github.com/magabrotheeeer/news-publisher/internal/storage/repository"
)

// Ошибки бизнес-уровня.
var (
	// ErrPermissionDenied — операция доступна только авторам.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound — план отсутствует или удалён.
	ErrNotFound = errors.New("plan not found")
)

// PlanRepository определяет методы для работы с планами в хранилище.
type PlanRepository interface {
	CreatePlan(ctx context.Context, plan models.SubscriptionPlan) (string, error)
	GetPlan(ctx context.Context, uid string) (*models.SubscriptionPlan, error)
	ListPlans(ctx context.Context, limit, offset int) ([]*models.SubscriptionPlan, error)
	RemovePlan(ctx context.Context, uid string) (int, error)
	SetSubscriptionPlan(ctx context.Context, username, planUID string) error
}

// Service реализует бизнес-логику работы с тарифными планами.
type Service struct {
	repo PlanRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo PlanRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Create создает новый тарифный план. Доступно только авторам.
func (s *Service) Create(ctx context.Context, role string, req models.DummyPlan) (string, error) {
	if role != models.RoleWriter {
		return "", ErrPermissionDenied
	}
	plan := models.SubscriptionPlan{
		UID:         uuid.New().String(),
		Name:        req.Name,
		Price:       req.Price,
		IsExclusive: req.IsExclusive,
		Verticals:   req.Verticals,
	}
	uid, err := s.repo.CreatePlan(ctx, plan)
	if err != nil {
		return "", err
	}
	s.log.Info("created new subscription plan", slog.String("uid", uid))
	return uid, nil
}

// List возвращает действующие планы с пагинацией.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.SubscriptionPlan, error) {
	return s.repo.ListPlans(ctx, limit, offset)
}

// Remove мягко удаляет план: строка остаётся в базе, ссылки пользователей
// сохраняются, но действующим план больше не считается.
func (s *Service) Remove(ctx context.Context, role, uid string) (int, error) {
	if role != models.RoleWriter {
		return 0, ErrPermissionDenied
	}
	count, err := s.repo.RemovePlan(ctx, uid)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrNotFound
	}
	s.log.Info("removed subscription plan", slog.String("uid", uid))
	return count, nil
}

// Subscribe привязывает действующего пользователя к плану.
func (s *Service) Subscribe(ctx context.Context, username, planUID string) error {
	if _, err := s.repo.GetPlan(ctx, planUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.repo.SetSubscriptionPlan(ctx, username, planUID); err != nil {
		return err
	}
	s.log.Info("user subscribed to plan",
		slog.String("username", username), slog.String("plan_uid", planUID))
	return nil
}
