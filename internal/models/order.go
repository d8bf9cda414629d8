package models

import "time"

// Order представляет заказ пользователя. Заказ создаётся только через
// рабочий процесс оформления (см. services/order): прямой вставки в обход
// проверки лимитов не существует.
type Order struct {
	ID        int       // Уникальный идентификатор заказа
	UserUID   string    // UID пользователя-владельца
	Username  string    // Имя пользователя-владельца
	CreatedAt time.Time // Дата и время создания
	Items     []*Item   // Позиции заказа
}

// Item представляет позицию заказа — один заказанный товар со снимком цены.
// Снимок проставляется один раз сразу после создания позиции и далее
// не меняется, даже если цена товара изменится.
type Item struct {
	ID        int    // Уникальный идентификатор позиции
	OrderID   int    // Заказ, к которому относится позиция
	ProductID int    // Заказанный товар
	Price     *int64 // Снимок цены; nil до простановки внутри транзакции создания
}

// DummyOrder используется для приёма данных заказа из JSON-запроса.
// Владелец заказа берётся из контекста аутентификации, а не из тела запроса.
type DummyOrder struct {
	ProductIDs []int `json:"products_ids" validate:"required,min=1,dive,gt=0"` // Заказываемые товары
}
