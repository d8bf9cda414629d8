package models

import (
	"errors"
	"fmt"
)

// Ошибки домена покупок. Все операции завершаются синхронно:
// повторных попыток нет, частичные записи не наблюдаемы.
var (
	// ErrProductNotFound — запрошенный товар не существует.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound — запрошенный заказ не существует.
	ErrOrderNotFound = errors.New("order not found")
	// ErrPaymentNotFound — запрошенный платёж не существует.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPriceNotFound — у товара нет цены для роли пользователя
	// и нет цены по умолчанию.
	ErrPriceNotFound = errors.New("price not found")
	// ErrPriceAmbiguous — для роли пользователя нашлось больше одной цены.
	ErrPriceAmbiguous = errors.New("ambiguous price")
	// ErrDuplicatePrice — у товара уже есть цена для этой роли.
	ErrDuplicatePrice = errors.New("price for this product and role already exists")
	// ErrReferenced — сущность нельзя удалить, пока на неё ссылаются
	// другие записи (цены или позиции заказов).
	ErrReferenced = errors.New("entity is still referenced")
	// ErrNotSubscription — в заказ подписок попал товар другого вида.
	ErrNotSubscription = errors.New("product is not a subscription")
	// ErrRoleNotFound — роль с таким названием не зарегистрирована.
	ErrRoleNotFound = errors.New("role not found")
)

// LimitExceededError возвращается процессом оформления заказа, когда
// пользователь исчерпал лимит заказов одного из запрошенных товаров.
// Первое нарушение прерывает оформление целиком.
type LimitExceededError struct {
	ProductID   int    // Товар, по которому исчерпан лимит
	ProductName string // Название товара
	Limit       int    // Настроенный лимит
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("order limit %d exceeded for product %q (id=%d)",
		e.Limit, e.ProductName, e.ProductID)
}
