package models

import "time"

// Роли пользователей. Читатель имеет доступ только на чтение,
// автор — полный доступ к собственным статьям.
const (
	RoleReader = "reader"
	RoleWriter = "writer"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string            // Уникальный идентификатор пользователя
	Username     string            // Имя пользователя (уникальное)
	Email        string            // Электронная почта (уникальная)
	PasswordHash string            // Хэш пароля пользователя
	Role         string            // Роль пользователя: reader или writer
	Plan         *SubscriptionPlan // Тарифный план читателя, nil — подписки нет
	CreatedAt    time.Time         // Дата регистрации
}
