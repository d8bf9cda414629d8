package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/purchase-service/internal/models"
)

// CreatePayment вставляет новый платёж и возвращает его ID.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (order_id, type, identity_token, ref_id)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		payment.OrderID, payment.Type, payment.IdentityToken, payment.RefID).Scan(&newID)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrOrderNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadPayment возвращает платёж по его ID.
func (s *Storage) ReadPayment(ctx context.Context, id int) (*models.Payment, error) {
	const op = "storage.ReadPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, order_id, type, identity_token, ref_id, created_at
			  FROM payments WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Payment
	if err := row.Scan(&result.ID, &result.OrderID, &result.Type,
		&result.IdentityToken, &result.RefID, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrPaymentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdatePayment обновляет платёж по его ID и возвращает количество
// изменённых строк.
func (s *Storage) UpdatePayment(ctx context.Context, payment models.Payment, id int) (int, error) {
	const op = "storage.UpdatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET order_id = $1, type = $2, identity_token = $3, ref_id = $4
			  WHERE id = $5`
	result, err := s.DB.ExecContext(ctx, query,
		payment.OrderID, payment.Type, payment.IdentityToken, payment.RefID, id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrOrderNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListPayments возвращает список платежей по заказу с пагинацией.
// Нулевой orderID означает все платежи.
func (s *Storage) ListPayments(ctx context.Context, orderID, limit, offset int) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, order_id, type, identity_token, ref_id, created_at
			  FROM payments
			  WHERE ($1 = 0 OR order_id = $1)
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, orderID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var item models.Payment
		if err := rows.Scan(&item.ID, &item.OrderID, &item.Type,
			&item.IdentityToken, &item.RefID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
