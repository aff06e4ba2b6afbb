// Package validate собирает валидатор с доменными правилами сервиса.
// Помимо встроенных тегов регистрируются проверки закрытых перечислений:
// vertical (тематическая вертикаль), status (статус статьи) и role (роль пользователя).
package validate

import (
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/news-publisher/internal/models"
)

// New возвращает валидатор с зарегистрированными доменными правилами.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("vertical", func(fl validator.FieldLevel) bool {
		return models.ValidVertical(fl.Field().String())
	})
	_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == models.StatusDraft || s == models.StatusPublished
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		r := fl.Field().String()
		return r == models.RoleReader || r == models.RoleWriter
	})
	return v
}
