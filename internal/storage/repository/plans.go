package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/magabrotheeeer/news-publisher/internal/models"
)

// CreatePlan вставляет новый тарифный план и возвращает его UID.
func (s *Storage) CreatePlan(ctx context.Context, plan models.SubscriptionPlan) (string, error) {
	const op = "storage.CreatePlan"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscription_plans (uid, name, price, is_exclusive, verticals)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid`
	var newUID string
	err := s.DB.QueryRow(ctx, query,
		plan.UID, plan.Name, plan.Price, plan.IsExclusive, plan.Verticals).Scan(&newUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetPlan возвращает действующий тарифный план по UID.
func (s *Storage) GetPlan(ctx context.Context, uid string) (*models.SubscriptionPlan, error) {
	const op = "storage.GetPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, price, is_exclusive, verticals, created_at, updated_at, deleted_at
			  FROM subscription_plans
			  WHERE uid = $1 AND deleted_at IS NULL`
	p := &models.SubscriptionPlan{}
	err := s.DB.QueryRow(ctx, query, uid).Scan(&p.UID, &p.Name, &p.Price, &p.IsExclusive,
		&p.Verticals, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPlans возвращает действующие тарифные планы, упорядоченные по названию.
func (s *Storage) ListPlans(ctx context.Context, limit, offset int) ([]*models.SubscriptionPlan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, price, is_exclusive, verticals, created_at, updated_at, deleted_at
			  FROM subscription_plans
			  WHERE deleted_at IS NULL
			  ORDER BY name
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.SubscriptionPlan
	for rows.Next() {
		var p models.SubscriptionPlan
		if err = rows.Scan(&p.UID, &p.Name, &p.Price, &p.IsExclusive,
			&p.Verticals, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemovePlan помечает план удалённым. Физическое удаление не выполняется,
// ссылки пользователей на план при этом сохраняются в базе.
func (s *Storage) RemovePlan(ctx context.Context, uid string) (int, error) {
	const op = "storage.RemovePlan"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscription_plans
			  SET deleted_at = now(), updated_at = now()
			  WHERE uid = $1 AND deleted_at IS NULL`
	tag, err := s.DB.Exec(ctx, query, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(tag.RowsAffected()), nil
}
