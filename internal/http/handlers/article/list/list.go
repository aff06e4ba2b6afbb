// Package list реализует HTTP-обработчик списка статей с фильтрами,
// сортировкой и пагинацией. Набор всегда ограничен правилом видимости,
// параметры запроса могут его только сужать.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/news-publisher/internal/http/middlewarectx"
	"github.com/magabrotheeeer/news-publisher/internal/http/response"
	"github.com/magabrotheeeer/news-publisher/internal/lib/sl"
	"github.com/magabrotheeeer/news-publisher/internal/models"
)

// Handler управляет HTTP-запросами на список статей.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики статей
}

// Service описывает интерфейс бизнес-логики списка статей.
type Service interface {
	List(ctx context.Context, username string, f models.ArticleFilter) ([]*models.Article, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func optString(r *http.Request, name string) *string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}

func optTime(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ServeHTTP godoc
// @Summary Список статей
// @Description Возвращает статьи, видимые пользователю. Поддерживает фильтры author, published_from, published_to, verticals, title, subtitle, content, сортировку sort/order и пагинацию limit/offset.
// @Tags Articles
// @Produce  json
// @Success 200 {object} map[string]any "Список статей"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /articles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	publishedFrom, err := optTime(r, "published_from")
	if err != nil {
		log.Error("invalid published_from", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid published_from, expected RFC3339"))
		return
	}
	publishedTo, err := optTime(r, "published_to")
	if err != nil {
		log.Error("invalid published_to", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid published_to, expected RFC3339"))
		return
	}

	var verticals []string
	if raw := r.URL.Query().Get("verticals"); raw != "" {
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if !models.ValidVertical(v) {
				log.Error("unknown vertical", slog.String("vertical", v))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error("unknown vertical: "+v))
				return
			}
			verticals = append(verticals, v)
		}
	}

	sortBy := r.URL.Query().Get("sort")
	if sortBy != "title" {
		sortBy = "published_at"
	}

	f := models.ArticleFilter{
		Author:         optString(r, "author"),
		PublishedFrom:  publishedFrom,
		PublishedTo:    publishedTo,
		Verticals:      verticals,
		Title:          optString(r, "title"),
		Subtitle:       optString(r, "subtitle"),
		Content:        optString(r, "content"),
		SortBy:         sortBy,
		SortAsc:        r.URL.Query().Get("order") == "asc",
		IncludeDeleted: r.URL.Query().Get("include_deleted") == "true",
		Limit:          limit,
		Offset:         offset,
	}

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.List(r.Context(), username, f)
	if err != nil {
		log.Error("failed to list articles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list"))
		return
	}

	log.Info("list articles", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count": len(res),
		"articles":   models.NewArticleResponses(res),
	}))
}
