// Package repository реализует хранилище данных на основе PostgreSQL
// для домена покупок: товары, цены, заказы с позициями и платежи.
// Предоставляет методы создания, чтения, обновления и удаления записей,
// а также транзакционные операции оформления заказа.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jackc/pgx/v5/pgconn"
)

// Коды ошибок PostgreSQL, которые хранилище переводит в доменные ошибки.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с товарами, ценами, заказами и платежами.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'products'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table products missing or query error: %w", err)
	}
	return nil
}

// BeginTx открывает транзакцию. Фиксация и откат выполняются на границе
// рабочего процесса, который получил транзакцию.
func (s *Storage) BeginTx(ctx context.Context) (*sql.Tx, error) {
	const op = "storage.BeginTx"
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tx, nil
}

// isPgError сообщает, является ли err ошибкой PostgreSQL с заданным кодом.
func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
