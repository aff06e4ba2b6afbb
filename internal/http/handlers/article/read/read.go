// Package read реализует HTTP-обработчик получения одной статьи.
//
// Статья вне видимого набора пользователя отдаётся как 404, чтобы не
// раскрывать факт её существования.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/news-publisher/internal/http/middlewarectx"
	"github.com/magabrotheeeer/news-publisher/internal/http/response"
	"github.com/magabrotheeeer/news-publisher/internal/lib/sl"
	"github.com/magabrotheeeer/news-publisher/internal/models"
	articleservice "github.com/magabrotheeeer/news-publisher/internal/services/article"
)

// Handler управляет HTTP-запросами на чтение статьи.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики статей
}

// Service описывает интерфейс бизнес-логики чтения статьи.
type Service interface {
	Read(ctx context.Context, username, uid string) (*models.Article, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить статью
// @Description Возвращает статью по UID с учётом правила видимости.
// @Tags Articles
// @Produce  json
// @Param uid path string true "UID статьи"
// @Success 200 {object} map[string]any "Статья"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Router /articles/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")
	if uid == "" {
		log.Error("missing uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode uid from url"))
		return
	}

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	a, err := h.service.Read(r.Context(), username, uid)
	if err != nil {
		if errors.Is(err, articleservice.ErrNotFound) {
			log.Info("article not visible", slog.String("uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("article not found"))
			return
		}
		log.Error("failed to read article", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read article"))
		return
	}

	log.Info("article read", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"article": models.NewArticleResponse(a),
	}))
}
