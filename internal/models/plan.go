package models

import "time"

// SubscriptionPlan представляет тарифный план, открывающий читателю доступ
// к эксклюзивным статьям выбранных вертикалей. Планы никогда не удаляются
// физически: удаление лишь проставляет DeletedAt.
type SubscriptionPlan struct {
	UID         string     // Уникальный идентификатор плана
	Name        string     // Название плана
	Price       float64    // Цена плана, неотрицательная
	IsExclusive bool       // Открывает ли план доступ к эксклюзивным статьям
	Verticals   []string   // Набор вертикалей, которые даёт план
	CreatedAt   time.Time  // Дата создания
	UpdatedAt   time.Time  // Дата последнего изменения
	DeletedAt   *time.Time // Дата мягкого удаления, nil — план действует
}

// DummyPlan используется для приёма данных нового плана из JSON-запроса
// до их валидации и преобразования в SubscriptionPlan.
type DummyPlan struct {
	Name        string   `json:"name" validate:"required,max=255"`   // Название плана
	Price       float64  `json:"price" validate:"gte=0"`             // Цена (>= 0)
	IsExclusive bool     `json:"is_exclusive"`                       // Эксклюзивный доступ
	Verticals   []string `json:"verticals" validate:"dive,vertical"` // Вертикали плана
}
