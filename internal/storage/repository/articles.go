package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/magabrotheeeer/news-publisher/internal/models"
)

const articleColumns = `n.uid, n.title, n.subtitle, n.content, n.picture_url,
			      n.is_exclusive, n.status, n.published_at, n.author_uid, n.verticals,
			      n.created_at, n.updated_at, n.deleted_at`

func scanArticle(row pgx.Row) (*models.Article, error) {
	a := &models.Article{}
	err := row.Scan(&a.UID, &a.Title, &a.Subtitle, &a.Content, &a.PictureURL,
		&a.IsExclusive, &a.Status, &a.PublishedAt, &a.AuthorUID, &a.Verticals,
		&a.CreatedAt, &a.UpdatedAt, &a.DeletedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateArticle вставляет новую статью и возвращает её UID.
func (s *Storage) CreateArticle(ctx context.Context, a models.Article) (string, error) {
	const op = "storage.CreateArticle"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO articles (uid, title, subtitle, content, picture_url,
			      is_exclusive, status, published_at, author_uid, verticals)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING uid`
	var newUID string
	err := s.DB.QueryRow(ctx, query,
		a.UID, a.Title, a.Subtitle, a.Content, a.PictureURL,
		a.IsExclusive, a.Status, a.PublishedAt, a.AuthorUID, a.Verticals).Scan(&newUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// ReadArticle возвращает статью по UID, мягко удалённые не учитываются.
func (s *Storage) ReadArticle(ctx context.Context, uid string) (*models.Article, error) {
	const op = "storage.ReadArticle"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + articleColumns + `
			  FROM articles n
			  WHERE n.uid = $1 AND n.deleted_at IS NULL`
	a, err := scanArticle(s.DB.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// ReadArticleAny возвращает статью по UID, включая мягко удалённые.
func (s *Storage) ReadArticleAny(ctx context.Context, uid string) (*models.Article, error) {
	const op = "storage.ReadArticleAny"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + articleColumns + `
			  FROM articles n
			  WHERE n.uid = $1`
	a, err := scanArticle(s.DB.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// UpdateArticle перезаписывает изменяемые поля статьи и возвращает число
// обновлённых строк. Автор и даты создания не меняются.
func (s *Storage) UpdateArticle(ctx context.Context, a models.Article) (int, error) {
	const op = "storage.UpdateArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE articles
			  SET title = $2, subtitle = $3, content = $4, picture_url = $5,
			      is_exclusive = $6, status = $7, published_at = $8, verticals = $9,
			      updated_at = now()
			  WHERE uid = $1 AND deleted_at IS NULL`
	tag, err := s.DB.Exec(ctx, query,
		a.UID, a.Title, a.Subtitle, a.Content, a.PictureURL,
		a.IsExclusive, a.Status, a.PublishedAt, a.Verticals)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(tag.RowsAffected()), nil
}

// RemoveArticle помечает статью удалённой и возвращает число затронутых строк.
// Строка остаётся в базе и доступна через ReadArticleAny.
func (s *Storage) RemoveArticle(ctx context.Context, uid string) (int, error) {
	const op = "storage.RemoveArticle"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE articles
			  SET deleted_at = now(), updated_at = now()
			  WHERE uid = $1 AND deleted_at IS NULL`
	tag, err := s.DB.Exec(ctx, query, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(tag.RowsAffected()), nil
}

// ListArticles возвращает статьи, видимые данному пользователю, с учётом
// фильтров, сортировки и пагинации.
//
// Правило видимости: автор видит всё; читатель без плана — только
// опубликованные неэксклюзивные; читатель с планом — только опубликованные
// эксклюзивные с пересечением вертикалей плана. Фильтры только сужают
// этот набор.
func (s *Storage) ListArticles(ctx context.Context, viewer *models.User, f models.ArticleFilter) ([]*models.Article, error) {
	const op = "storage.ListArticles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if viewer.Role != models.RoleWriter || !f.IncludeDeleted {
		conds = append(conds, "n.deleted_at IS NULL")
	}

	if viewer.Role != models.RoleWriter {
		conds = append(conds, "n.status = "+arg(models.StatusPublished))
		if viewer.Plan == nil {
			conds = append(conds, "NOT n.is_exclusive")
		} else {
			conds = append(conds, "n.is_exclusive")
			conds = append(conds, "n.verticals && "+arg(viewer.Plan.Verticals))
		}
	}

	if f.Author != nil {
		conds = append(conds, "a.username ILIKE '%' || "+arg(*f.Author)+" || '%'")
	}
	if f.PublishedFrom != nil {
		conds = append(conds, "n.published_at >= "+arg(*f.PublishedFrom))
	}
	if f.PublishedTo != nil {
		conds = append(conds, "n.published_at <= "+arg(*f.PublishedTo))
	}
	if len(f.Verticals) > 0 {
		conds = append(conds, "n.verticals && "+arg(f.Verticals))
	}
	if f.Title != nil {
		conds = append(conds, "n.title ILIKE '%' || "+arg(*f.Title)+" || '%'")
	}
	if f.Subtitle != nil {
		conds = append(conds, "n.subtitle ILIKE '%' || "+arg(*f.Subtitle)+" || '%'")
	}
	if f.Content != nil {
		conds = append(conds, "n.content ILIKE '%' || "+arg(*f.Content)+" || '%'")
	}

	sortCol := "n.published_at"
	if f.SortBy == "title" {
		sortCol = "n.title"
	}
	dir := "DESC"
	if f.SortAsc {
		dir = "ASC"
	}
	orderBy := sortCol + " " + dir
	if sortCol == "n.published_at" {
		orderBy += " NULLS LAST"
	}

	query := `SELECT ` + articleColumns + `
			  FROM articles n
			  JOIN users a ON a.uid = n.author_uid`
	if len(conds) > 0 {
		query += "\n\t\t\t  WHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\t\t\t  ORDER BY " + orderBy
	query += "\n\t\t\t  LIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindDueArticles возвращает черновики, чьё время публикации уже наступило.
func (s *Storage) FindDueArticles(ctx context.Context, now time.Time) ([]*models.Article, error) {
	const op = "storage.FindDueArticles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + articleColumns + `
			  FROM articles n
			  WHERE n.status = 'draft'
			    AND n.deleted_at IS NULL
			    AND n.published_at IS NOT NULL
			    AND n.published_at <= $1`
	rows, err := s.DB.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// PublishArticle переводит статью из draft в published. Возвращает false,
// если статья уже опубликована или отсутствует: повторная публикация —
// no-op, уведомления при этом не рассылаются.
func (s *Storage) PublishArticle(ctx context.Context, uid string) (bool, error) {
	const op = "storage.PublishArticle"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE articles
			  SET status = 'published', updated_at = now()
			  WHERE uid = $1 AND status = 'draft' AND deleted_at IS NULL`
	tag, err := s.DB.Exec(ctx, query, uid)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected() > 0, nil
}
