package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/purchase-service/internal/models"
)

// GetRoleIDByName возвращает идентификатор роли по её названию.
func (s *Storage) GetRoleIDByName(ctx context.Context, name string) (int, error) {
	const op = "storage.GetRoleIDByName"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id FROM roles WHERE name = $1`
	var id int
	if err := s.DB.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrRoleNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// CreatePrice вставляет новую цену и возвращает её ID.
// На пару (товар, роль) допускается не более одной цены.
func (s *Storage) CreatePrice(ctx context.Context, price models.Price) (int, error) {
	const op = "storage.CreatePrice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO prices (product_id, role_id, amount)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		price.ProductID, price.RoleID, price.Amount).Scan(&newID)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrDuplicatePrice)
		}
		if isPgError(err, pgForeignKeyViolation) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadPrice возвращает цену по её ID вместе с названием роли.
func (s *Storage) ReadPrice(ctx context.Context, id int) (*models.Price, error) {
	const op = "storage.ReadPrice"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.product_id, p.role_id, r.name, p.amount
			  FROM prices p
			  LEFT JOIN roles r ON p.role_id = r.id
			  WHERE p.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Price
	if err := row.Scan(&result.ID, &result.ProductID, &result.RoleID,
		&result.RoleName, &result.Amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrPriceNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdatePrice обновляет цену по её ID и возвращает количество изменённых строк.
func (s *Storage) UpdatePrice(ctx context.Context, price models.Price, id int) (int, error) {
	const op = "storage.UpdatePrice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE prices
			  SET product_id = $1, role_id = $2, amount = $3
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query,
		price.ProductID, price.RoleID, price.Amount, id)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrDuplicatePrice)
		}
		if isPgError(err, pgForeignKeyViolation) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemovePrice удаляет цену по ID и возвращает количество удалённых строк.
func (s *Storage) RemovePrice(ctx context.Context, id int) (int, error) {
	const op = "storage.RemovePrice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM prices WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListPricesByProduct возвращает все цены товара вместе с названиями ролей.
func (s *Storage) ListPricesByProduct(ctx context.Context, productID int) ([]*models.Price, error) {
	const op = "storage.ListPricesByProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.product_id, p.role_id, r.name, p.amount
			  FROM prices p
			  LEFT JOIN roles r ON p.role_id = r.id
			  WHERE p.product_id = $1
			  ORDER BY p.id`
	rows, err := s.DB.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Price
	for rows.Next() {
		var item models.Price
		if err := rows.Scan(&item.ID, &item.ProductID, &item.RoleID,
			&item.RoleName, &item.Amount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListProductPricesTx возвращает цены товара внутри открытой транзакции
// оформления заказа.
func (s *Storage) ListProductPricesTx(ctx context.Context, tx *sql.Tx, productID int) ([]*models.Price, error) {
	const op = "storage.ListProductPricesTx"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.product_id, p.role_id, r.name, p.amount
			  FROM prices p
			  LEFT JOIN roles r ON p.role_id = r.id
			  WHERE p.product_id = $1
			  ORDER BY p.id`
	rows, err := tx.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Price
	for rows.Next() {
		var item models.Price
		if err := rows.Scan(&item.ID, &item.ProductID, &item.RoleID,
			&item.RoleName, &item.Amount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
