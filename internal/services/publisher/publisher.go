// Package publisher содержит логику отложенной публикации статей.
//
// Сервис периодически ищет черновики, чьё время публикации наступило,
// переводит их в published и кладёт в очередь по одному уведомлению
// на каждого подходящего читателя. Перевод статуса выполняется условным
// UPDATE: если статья уже опубликована, цикл пропускает её и уведомления
// не рассылаются повторно.
package publisher

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/news-publisher/internal/lib/sl"
	"github.com/magabrotheeeer/news-publisher/internal/models"
	"github.com/magabrotheeeer/news-publisher/internal/rabbitmq"
)

// ArticleRepository определяет выборки планировщика.
type ArticleRepository interface {
	// FindDueArticles возвращает черновики с наступившим временем публикации.
	FindDueArticles(ctx context.Context, now time.Time) ([]*models.Article, error)
	// PublishArticle переводит статью draft -> published, false — уже опубликована.
	PublishArticle(ctx context.Context, uid string) (bool, error)
	// FindEligibleReaders возвращает читателей, которым положено уведомление.
	FindEligibleReaders(ctx context.Context, article *models.Article) ([]*models.User, error)
}

// Broker публикует сообщения в обменник уведомлений.
type Broker interface {
	Publish(exchange, routingKey string, message any) error
}

// Service реализует планировщик публикаций.
type Service struct {
	repo   ArticleRepository
	broker Broker
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo ArticleRepository, broker Broker, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		broker: broker,
		log:    log,
	}
}

// Run запускает цикл планировщика с заданным интервалом опроса.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	s.PublishDueArticles(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.PublishDueArticles(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// PublishDueArticles выполняет один проход: публикует созревшие черновики
// и рассылает уведомления. Ошибки логируются и не прерывают проход.
func (s *Service) PublishDueArticles(ctx context.Context) {
	s.log.Info("starting publication cycle")
	articles, err := s.repo.FindDueArticles(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error("failed to find due articles", sl.Err(err))
		return
	}
	if len(articles) == 0 {
		s.log.Info("no due articles found")
		return
	}
	s.log.Info("found due articles", "count", len(articles))

	for _, a := range articles {
		s.publishOne(ctx, a)
	}
}

func (s *Service) publishOne(ctx context.Context, a *models.Article) {
	published, err := s.repo.PublishArticle(ctx, a.UID)
	if err != nil {
		s.log.Error("failed to publish article", slog.String("uid", a.UID), sl.Err(err))
		return
	}
	if !published {
		// Статья уже переведена в published другим проходом, без повторной рассылки.
		s.log.Info("article already published, skipping notifications", slog.String("uid", a.UID))
		return
	}
	s.log.Info("article published", slog.String("uid", a.UID), slog.String("title", a.Title))

	readers, err := s.repo.FindEligibleReaders(ctx, a)
	if err != nil {
		s.log.Error("failed to find eligible readers", slog.String("uid", a.UID), sl.Err(err))
		return
	}

	for _, reader := range readers {
		info := models.ArticleInfo{
			Email:      reader.Email,
			Username:   reader.Username,
			ArticleUID: a.UID,
			Title:      a.Title,
		}
		if err := s.broker.Publish("notifications", rabbitmq.PublishedRoutingKey, info); err != nil {
			s.log.Error("failed to publish message",
				slog.String("email", reader.Email), sl.Err(err))
		}
	}
	s.log.Info("notifications enqueued",
		slog.String("uid", a.UID), "count", len(readers))
}
