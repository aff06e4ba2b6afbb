package models

import "time"

// Статусы статьи. Переход возможен только draft -> published:
// либо автор публикует явно, либо срабатывает отложенная публикация.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Article представляет новостную статью.
// Статья создаётся автором в статусе draft; автор неизменяем.
// Удаление мягкое: DeletedAt проставляется, строка остаётся в базе.
type Article struct {
	UID         string     // Уникальный идентификатор статьи
	Title       string     // Заголовок, до 255 символов
	Subtitle    string     // Подзаголовок, до 500 символов
	Content     string     // Текст статьи
	PictureURL  string     // Ссылка на иллюстрацию
	IsExclusive bool       // Доступна ли статья только по подписке
	Status      string     // Статус: draft или published
	PublishedAt *time.Time // Время публикации, nil — не назначено
	AuthorUID   string     // Идентификатор автора
	Verticals   []string   // Набор вертикалей статьи
	CreatedAt   time.Time  // Дата создания
	UpdatedAt   time.Time  // Дата последнего изменения
	DeletedAt   *time.Time // Дата мягкого удаления, nil — статья видима
}

// DummyArticle используется для приёма данных новой статьи из JSON-запроса.
// Поле author из запроса игнорируется: автором всегда становится
// аутентифицированный пользователь. Время публикации приходит строкой RFC3339.
type DummyArticle struct {
	Title       string   `json:"title" validate:"required,max=255"`            // Заголовок
	Subtitle    string   `json:"subtitle" validate:"required,max=500"`         // Подзаголовок
	Content     string   `json:"content" validate:"required"`                  // Текст
	PictureURL  string   `json:"picture_url,omitempty" validate:"omitempty"`   // Ссылка на иллюстрацию
	IsExclusive bool     `json:"is_exclusive"`                                 // Эксклюзивный доступ
	Status      string   `json:"status,omitempty" validate:"omitempty,status"` // Статус (по умолчанию draft)
	PublishedAt string   `json:"published_at,omitempty" validate:"omitempty"`  // Время публикации, RFC3339
	Verticals   []string `json:"verticals" validate:"dive,vertical"`           // Вертикали статьи
}

// DummyArticleUpdate используется для частичного обновления статьи:
// меняются только переданные поля, остальные остаются как есть.
type DummyArticleUpdate struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,max=255"`    // Заголовок
	Subtitle    *string  `json:"subtitle,omitempty" validate:"omitempty,max=500"` // Подзаголовок
	Content     *string  `json:"content,omitempty" validate:"omitempty"`          // Текст
	PictureURL  *string  `json:"picture_url,omitempty" validate:"omitempty"`      // Ссылка на иллюстрацию
	IsExclusive *bool    `json:"is_exclusive,omitempty"`                          // Эксклюзивный доступ
	Status      *string  `json:"status,omitempty" validate:"omitempty,status"`    // Статус
	PublishedAt *string  `json:"published_at,omitempty" validate:"omitempty"`     // Время публикации, RFC3339
	Verticals   []string `json:"verticals,omitempty" validate:"omitempty,dive,vertical"`
}

// ArticleResponse — представление статьи в API. Автор отдаётся строкой
// с его идентификатором и доступен только для чтения.
type ArticleResponse struct {
	UID         string   `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Content     string   `json:"content"`
	PictureURL  string   `json:"picture_url"`
	IsExclusive bool     `json:"is_exclusive"`
	Status      string   `json:"status"`
	PublishedAt *string  `json:"published_at"`
	Author      string   `json:"author"`
	Verticals   []string `json:"verticals"`
}

// NewArticleResponse конвертирует доменную статью в представление API.
func NewArticleResponse(a *Article) ArticleResponse {
	resp := ArticleResponse{
		UID:         a.UID,
		Title:       a.Title,
		Subtitle:    a.Subtitle,
		Content:     a.Content,
		PictureURL:  a.PictureURL,
		IsExclusive: a.IsExclusive,
		Status:      a.Status,
		Author:      a.AuthorUID,
		Verticals:   a.Verticals,
	}
	if a.PublishedAt != nil {
		s := a.PublishedAt.Format(time.RFC3339)
		resp.PublishedAt = &s
	}
	return resp
}

// NewArticleResponses конвертирует список статей.
func NewArticleResponses(articles []*Article) []ArticleResponse {
	result := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		result = append(result, NewArticleResponse(a))
	}
	return result
}

// ArticleInfo — сообщение о публикации статьи, которое планировщик кладёт
// в очередь, а отправитель превращает в письмо читателю.
type ArticleInfo struct {
	Email      string `json:"email"`       // Адрес читателя
	Username   string `json:"username"`    // Имя читателя
	ArticleUID string `json:"article_uid"` // Идентификатор статьи
	Title      string `json:"title"`       // Заголовок статьи
}
