package models

// MaxPriceAmount — верхняя граница цены в минорных единицах валюты.
const MaxPriceAmount int64 = 999999999999999999

// Price представляет цену товара для конкретной роли пользователя.
// Роль может отсутствовать (RoleID == nil) — такая цена действует
// по умолчанию для любых ролей, у которых нет собственной цены.
// На уровне хранилища на пару (товар, роль) допускается не более одной цены.
type Price struct {
	ID        int     // Уникальный идентификатор цены
	ProductID int     // Товар, к которому относится цена
	RoleID    *int    // Роль, для которой действует цена; nil — цена по умолчанию
	RoleName  *string // Название роли, заполняется при чтении
	Amount    int64   // Сумма в минорных единицах валюты (0..MaxPriceAmount)
}

// DummyPrice используется для приёма данных цены из JSON-запроса.
// Роль задаётся по имени; пустая строка означает цену по умолчанию.
type DummyPrice struct {
	ProductID int    `json:"product_id" validate:"required,gt=0"`                 // Товар
	Role      string `json:"role" validate:"omitempty,max=128"`                   // Название роли
	Amount    *int64 `json:"amount" validate:"required,gte=0,lte=999999999999999999"` // Сумма (0..999999999999999999)
}
