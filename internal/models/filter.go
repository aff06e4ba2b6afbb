package models

import "time"

// ArticleFilter представляет параметры фильтрации списка статей,
// которые передаются в слой доступа к данным. Фильтры только сужают
// набор, разрешённый правилом видимости, и никогда не расширяют его.
type ArticleFilter struct {
	Author         *string    // Подстрока имени автора (nil, если фильтра нет)
	PublishedFrom  *time.Time // Нижняя граница времени публикации
	PublishedTo    *time.Time // Верхняя граница времени публикации
	Verticals      []string   // Вертикали, пересечение с которыми требуется
	Title          *string    // Подстрока заголовка
	Subtitle       *string    // Подстрока подзаголовка
	Content        *string    // Подстрока текста
	SortBy         string     // Поле сортировки: published_at или title
	SortAsc        bool       // Направление сортировки, по умолчанию убывание
	IncludeDeleted bool       // Показывать мягко удалённые (только для авторов)
	Limit          int        // Размер страницы
	Offset         int        // Смещение
}
