package models

import "time"

// Возможные типы платежа.
const (
	PaymentTypeCard    = "card"    // оплата картой
	PaymentTypeManual  = "manual"  // ручное проведение
	PaymentTypeGateway = "gateway" // внешний платёжный шлюз
)

// Payment представляет платёж по существующему заказу.
type Payment struct {
	ID            int       // Уникальный идентификатор платежа
	OrderID       int       // Заказ, по которому проведён платёж
	Type          string    // Тип платежа: card, manual или gateway
	IdentityToken string    // Идентификационный токен платёжной системы
	RefID         string    // Внешний референс платежа
	CreatedAt     time.Time // Дата и время создания
}

// DummyPayment используется для приёма данных платежа из JSON-запроса.
type DummyPayment struct {
	OrderID       int    `json:"order_id" validate:"required,gt=0"`                  // Заказ
	Type          string `json:"type" validate:"required,oneof=card manual gateway"` // Тип платежа
	IdentityToken string `json:"identity_token" validate:"omitempty,min=5,max=150"`  // Токен (5..150 символов)
	RefID         string `json:"ref_id" validate:"omitempty,min=5,max=150"`          // Референс (5..150 символов)
}
