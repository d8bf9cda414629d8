// Package models содержит доменные структуры покупок — товары, цены, заказы,
// позиции заказов и платежи, а также вспомогательные типы для приёма данных
// из JSON-запросов до их конвертации в доменные структуры.
package models

// Возможные виды товара.
const (
	KindPlain        = "plain"        // обычный товар
	KindPackage      = "package"      // пакет из других товаров
	KindSubscription = "subscription" // подписка с длительностью
)

// Product представляет товар каталога. Вид товара задаётся полем Kind,
// а не отдельными сущностями: пакет дополнительно несёт состав (ProductIDs),
// подписка — длительность (Duration). Поле OrderLimit задаёт максимальное
// суммарное количество позиций этого товара во всех заказах одного
// пользователя; nil означает отсутствие лимита.
type Product struct {
	ID         int      // Уникальный идентификатор товара
	Name       string   // Название товара
	Kind       string   // Вид товара: plain, package или subscription
	OrderLimit *int     // Лимит заказов на пользователя, nil — без лимита
	Duration   *int     // Длительность подписки, только для kind=subscription
	ProductIDs []int    // Идентификаторы товаров в составе пакета
	Prices     []*Price // Цены товара по ролям
}

// DummyProduct используется для приёма данных товара из JSON-запроса,
// прежде чем конвертировать их в Product.
type DummyProduct struct {
	Name       string `json:"name" validate:"required,max=128"`                        // Название (до 128 символов)
	Kind       string `json:"kind" validate:"required,oneof=plain package subscription"` // Вид товара
	OrderLimit *int   `json:"order_limit" validate:"omitempty,min=1,max=999"`          // Лимит заказов (1..999)
	Duration   *int   `json:"duration" validate:"omitempty,min=0,max=999999999"`       // Длительность подписки
	ProductIDs []int  `json:"products_ids" validate:"omitempty,dive,gt=0"`             // Состав пакета
}
