package models

// User представляет аутентифицированного пользователя. Учётные записи
// ведёт внешний сервис аутентификации; здесь хранятся только данные,
// извлечённые из JWT и нужные для оформления заказов и выбора цены.
type User struct {
	UID      string // Уникальный идентификатор пользователя
	Username string // Имя пользователя
	Role     string // Название роли пользователя
}

// Role представляет роль пользователя. Роли принадлежат внешней подсистеме
// аутентификации; локальная таблица нужна только для ссылочной целостности
// цен и сопоставления названия роли из JWT с её идентификатором.
type Role struct {
	ID   int    // Уникальный идентификатор роли
	Name string // Название роли
}
