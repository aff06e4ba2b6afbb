// Package newspublisher предоставляет маршруты для основного приложения.
package newspublisher

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	articlecreate "github.com/magabrotheeeer/news-publisher/internal/http/handlers/article/create"
	articlelist "github.com/magabrotheeeer/news-publisher/internal/http/handlers/article/list"
	articleread "github.com/magabrotheeeer/news-publisher/internal/http/handlers/article/read"
	articleremove "github.com/magabrotheeeer/news-publisher/internal/http/handlers/article/remove"
	articleupdate "github.com/magabrotheeeer/news-publisher/internal/http/handlers/article/update"
	"github.com/magabrotheeeer/news-publisher/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/news-publisher/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/news-publisher/internal/http/handlers/health"
	plancreate "github.com/magabrotheeeer/news-publisher/internal/http/handlers/plan/create"
	planlist "github.com/magabrotheeeer/news-publisher/internal/http/handlers/plan/list"
	planremove "github.com/magabrotheeeer/news-publisher/internal/http/handlers/plan/remove"
	plansubscribe "github.com/magabrotheeeer/news-publisher/internal/http/handlers/plan/subscribe"
	"github.com/magabrotheeeer/news-publisher/internal/http/middlewarectx"
	"github.com/magabrotheeeer/news-publisher/internal/lib/jwt"
	articleservice "github.com/magabrotheeeer/news-publisher/internal/services/article"
	authservice "github.com/magabrotheeeer/news-publisher/internal/services/auth"
	planservice "github.com/magabrotheeeer/news-publisher/internal/services/plan"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker, authService *authservice.Service, articleService *articleservice.Service, planService *planservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/articles", articlecreate.New(logger, articleService).ServeHTTP)
			r.Get("/articles", articlelist.New(logger, articleService).ServeHTTP)
			r.Get("/articles/{uid}", articleread.New(logger, articleService).ServeHTTP)
			r.Put("/articles/{uid}", articleupdate.New(logger, articleService).ServeHTTP)
			r.Delete("/articles/{uid}", articleremove.New(logger, articleService).ServeHTTP)
			r.Post("/plans", plancreate.New(logger, planService).ServeHTTP)
			r.Get("/plans", planlist.New(logger, planService).ServeHTTP)
			r.Delete("/plans/{uid}", planremove.New(logger, planService).ServeHTTP)
			r.Post("/plans/{uid}/subscribe", plansubscribe.New(logger, planService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
