// Package models содержит доменные структуры новостного сервиса:
// тарифные планы, пользователей и статьи, а также вспомогательные типы
// для приёма данных из внешних источников (JSON-запросы).
package models

// Вертикаль — тематическая метка, которой помечаются и тарифные планы,
// и статьи. Доступ к эксклюзивной статье требует пересечения вертикалей
// статьи с вертикалями плана читателя.
const (
	VerticalPower  = "power"
	VerticalTax    = "tax"
	VerticalHealth = "health"
	VerticalEnergy = "energy"
	VerticalLabor  = "labor"
)

// Verticals перечисляет все допустимые вертикали.
var Verticals = []string{
	VerticalPower,
	VerticalTax,
	VerticalHealth,
	VerticalEnergy,
	VerticalLabor,
}

// ValidVertical сообщает, входит ли значение в закрытый список вертикалей.
func ValidVertical(v string) bool {
	for _, known := range Verticals {
		if v == known {
			return true
		}
	}
	return false
}

// ValidVerticals проверяет весь список. Дубликаты допустимы, порядок не важен.
func ValidVerticals(vs []string) bool {
	for _, v := range vs {
		if !ValidVertical(v) {
			return false
		}
	}
	return true
}

// VerticalsOverlap сообщает, есть ли непустое пересечение двух наборов вертикалей.
func VerticalsOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
