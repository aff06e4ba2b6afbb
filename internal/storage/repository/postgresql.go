// Package repository реализует хранилище данных на основе PostgreSQL
// для тарифных планов, пользователей и статей. Предоставляет методы
// создания, чтения, обновления, мягкого удаления и выборок с учётом
// правила видимости.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound возвращается, когда запрошенная запись отсутствует
// или скрыта мягким удалением.
var ErrNotFound = errors.New("not found")

// Storage инкапсулирует пул соединений с PostgreSQL.
type Storage struct {
	DB *pgxpool.Pool
}

// New создаёт пул соединений к PostgreSQL и проверяет доступность базы.
func New(ctx context.Context, storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	pool, err := pgxpool.New(ctx, storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: pool,
	}, nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() {
	s.DB.Close()
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(context.Background(), `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'articles'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table articles missing or query error: %w", err)
	}
	return nil
}
