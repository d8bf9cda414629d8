package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/purchase-service/internal/models"
)

// LockProductsTx блокирует строки запрошенных товаров до конца транзакции
// и возвращает их в порядке входного списка. Блокировка сериализует
// конкурентные оформления заказов на одни и те же товары.
func (s *Storage) LockProductsTx(ctx context.Context, tx *sql.Tx, ids []int) ([]*models.Product, error) {
	const op = "storage.LockProductsTx"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, kind, order_limit, duration
			  FROM products
			  WHERE id = ANY($1)
			  ORDER BY id
			  FOR UPDATE`
	rows, err := tx.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	byID := make(map[int]*models.Product, len(ids))
	for rows.Next() {
		var item models.Product
		if err := rows.Scan(&item.ID, &item.Name, &item.Kind,
			&item.OrderLimit, &item.Duration); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		byID[item.ID] = &item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*models.Product, 0, len(ids))
	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%s: product %d: %w", op, id, models.ErrProductNotFound)
		}
		result = append(result, product)
	}
	return result, nil
}

// CountUserItemsTx подсчитывает, сколько позиций данного товара пользователь
// уже накопил во всех своих заказах. Создаваемый заказ в подсчёт не входит.
func (s *Storage) CountUserItemsTx(ctx context.Context, tx *sql.Tx, productID int, userUID string) (int, error) {
	const op = "storage.CountUserItemsTx"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*)
			  FROM items i
			  JOIN orders o ON i.order_id = o.id
			  WHERE i.product_id = $1 AND o.user_uid = $2`
	var count int
	if err := tx.QueryRowContext(ctx, query, productID, userUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CreateOrderTx вставляет новый заказ внутри транзакции и возвращает его ID.
func (s *Storage) CreateOrderTx(ctx context.Context, tx *sql.Tx, userUID, username string) (int, error) {
	const op = "storage.CreateOrderTx"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO orders (user_uid, username)
			  VALUES ($1, $2)
			  RETURNING id`
	var newID int
	if err := tx.QueryRowContext(ctx, query, userUID, username).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CreateItemTx вставляет позицию заказа без цены и возвращает её ID.
// Снимок цены проставляется отдельным обновлением внутри той же транзакции.
func (s *Storage) CreateItemTx(ctx context.Context, tx *sql.Tx, orderID, productID int) (int, error) {
	const op = "storage.CreateItemTx"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO items (order_id, product_id)
			  VALUES ($1, $2)
			  RETURNING id`
	var newID int
	if err := tx.QueryRowContext(ctx, query, orderID, productID).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateItemPriceTx проставляет снимок цены на позицию заказа.
func (s *Storage) UpdateItemPriceTx(ctx context.Context, tx *sql.Tx, itemID int, amount int64) error {
	const op = "storage.UpdateItemPriceTx"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE items SET price = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, amount, itemID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadOrder возвращает заказ по его ID вместе с позициями.
func (s *Storage) ReadOrder(ctx context.Context, id int) (*models.Order, error) {
	const op = "storage.ReadOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, username, created_at
			  FROM orders WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Order
	if err := row.Scan(&result.ID, &result.UserUID, &result.Username,
		&result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrOrderNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.listOrderItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result.Items = items

	return &result, nil
}

// listOrderItems возвращает позиции заказа.
func (s *Storage) listOrderItems(ctx context.Context, orderID int) ([]*models.Item, error) {
	query := `SELECT id, order_id, product_id, price
			  FROM items
			  WHERE order_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Price); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListOrders возвращает список заказов пользователя с пагинацией.
func (s *Storage) ListOrders(ctx context.Context, userUID string, limit, offset int) ([]*models.Order, error) {
	const op = "storage.ListOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, username, created_at
			  FROM orders
			  WHERE user_uid = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return s.scanOrdersWithItems(ctx, rows, op)
}

// ListAllOrders возвращает список всех заказов с пагинацией.
func (s *Storage) ListAllOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	const op = "storage.ListAllOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, username, created_at
			  FROM orders
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return s.scanOrdersWithItems(ctx, rows, op)
}

// scanOrdersWithItems читает заказы из rows и дополняет их позициями.
func (s *Storage) scanOrdersWithItems(ctx context.Context, rows *sql.Rows, op string) ([]*models.Order, error) {
	var result []*models.Order
	for rows.Next() {
		var item models.Order
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Username,
			&item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, order := range result {
		items, err := s.listOrderItems(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		order.Items = items
	}
	return result, nil
}
