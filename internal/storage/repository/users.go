package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/magabrotheeeer/news-publisher/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, username, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRow(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username вместе
// с действующим тарифным планом (мягко удалённый план не учитывается).
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.uid, u.email, u.username, u.password_hash, u.role, u.created_at,
			      p.uid, p.name, p.price, p.is_exclusive, p.verticals,
			      p.created_at, p.updated_at, p.deleted_at
			  FROM users u
			  LEFT JOIN subscription_plans p
			      ON p.uid = u.subscription_plan_uid AND p.deleted_at IS NULL
			  WHERE u.username = $1`
	u := &models.User{}
	row := s.DB.QueryRow(ctx, query, username)

	var plan models.SubscriptionPlan
	var planUID, planName *string
	var planPrice *float64
	var planExclusive *bool
	var planCreated, planUpdated *time.Time
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt,
		&planUID, &planName, &planPrice, &planExclusive, &plan.Verticals,
		&planCreated, &planUpdated, &plan.DeletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if planUID != nil {
		plan.UID = *planUID
		plan.Name = *planName
		plan.Price = *planPrice
		plan.IsExclusive = *planExclusive
		plan.CreatedAt = *planCreated
		plan.UpdatedAt = *planUpdated
		u.Plan = &plan
	}
	return u, nil
}

// SetSubscriptionPlan привязывает пользователя к тарифному плану.
func (s *Storage) SetSubscriptionPlan(ctx context.Context, username, planUID string) error {
	const op = "storage.SetSubscriptionPlan"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET subscription_plan_uid = $2 WHERE username = $1`
	tag, err := s.DB.Exec(ctx, query, username, planUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// FindEligibleReaders возвращает читателей, которым положено уведомление
// о публикации статьи: всех с ролью reader, а для эксклюзивной статьи —
// только тех, чей действующий эксклюзивный план пересекается со статьёй
// по вертикалям.
func (s *Storage) FindEligibleReaders(ctx context.Context, article *models.Article) ([]*models.User, error) {
	const op = "storage.FindEligibleReaders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.uid, u.email, u.username
			  FROM users u
			  WHERE u.role = 'reader'`
	args := []any{}
	if article.IsExclusive {
		query = `SELECT u.uid, u.email, u.username
				 FROM users u
				 JOIN subscription_plans p
				     ON p.uid = u.subscription_plan_uid AND p.deleted_at IS NULL
				 WHERE u.role = 'reader'
				   AND p.is_exclusive
				   AND p.verticals && $1`
		args = append(args, article.Verticals)
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		var u models.User
		if err = rows.Scan(&u.UID, &u.Email, &u.Username); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
