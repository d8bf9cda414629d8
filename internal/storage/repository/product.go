package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/purchase-service/internal/models"
)

// CreateProduct вставляет новый товар и возвращает его ID.
// Для пакетов дополнительно сохраняется состав в package_products.
func (s *Storage) CreateProduct(ctx context.Context, product models.Product) (int, error) {
	const op = "storage.CreateProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO products (name, kind, order_limit, duration)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err = tx.QueryRowContext(ctx, query,
		product.Name, product.Kind, product.OrderLimit, product.Duration).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := insertPackageProducts(ctx, tx, newID, product.ProductIDs); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// insertPackageProducts сохраняет состав пакета.
func insertPackageProducts(ctx context.Context, tx *sql.Tx, packageID int, productIDs []int) error {
	query := `INSERT INTO package_products (package_id, product_id) VALUES ($1, $2)`
	for _, productID := range productIDs {
		if _, err := tx.ExecContext(ctx, query, packageID, productID); err != nil {
			if isPgError(err, pgForeignKeyViolation) {
				return models.ErrProductNotFound
			}
			return err
		}
	}
	return nil
}

// ReadProduct возвращает товар по его ID вместе с ценами и составом пакета.
func (s *Storage) ReadProduct(ctx context.Context, id int) (*models.Product, error) {
	const op = "storage.ReadProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, kind, order_limit, duration
			  FROM products WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Product
	if err := row.Scan(&result.ID, &result.Name, &result.Kind,
		&result.OrderLimit, &result.Duration); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if result.Kind == models.KindPackage {
		ids, err := s.readPackageProducts(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.ProductIDs = ids
	}

	prices, err := s.ListPricesByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result.Prices = prices

	return &result, nil
}

// readPackageProducts возвращает идентификаторы товаров в составе пакета.
func (s *Storage) readPackageProducts(ctx context.Context, packageID int) ([]int, error) {
	query := `SELECT product_id FROM package_products
			  WHERE package_id = $1
			  ORDER BY product_id`
	rows, err := s.DB.QueryContext(ctx, query, packageID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateProduct обновляет данные товара по его ID и возвращает количество
// изменённых строк. Состав пакета заменяется целиком.
func (s *Storage) UpdateProduct(ctx context.Context, product models.Product, id int) (int, error) {
	const op = "storage.UpdateProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE products
			  SET name = $1, kind = $2, order_limit = $3, duration = $4
			  WHERE id = $5`
	result, err := tx.ExecContext(ctx, query,
		product.Name, product.Kind, product.OrderLimit, product.Duration, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM package_products WHERE package_id = $1`, id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if product.Kind == models.KindPackage {
		if err := insertPackageProducts(ctx, tx, id, product.ProductIDs); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveProduct удаляет товар по ID и возвращает количество удалённых строк.
// Товар, на который ссылаются цены, позиции заказов или пакеты, не удаляется.
func (s *Storage) RemoveProduct(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM products WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrReferenced)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListProducts возвращает список товаров с пагинацией.
func (s *Storage) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, kind, order_limit, duration
			  FROM products
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		var item models.Product
		if err := rows.Scan(&item.ID, &item.Name, &item.Kind,
			&item.OrderLimit, &item.Duration); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetProductsByIDs возвращает товары по списку идентификаторов,
// сохраняя порядок входного списка.
func (s *Storage) GetProductsByIDs(ctx context.Context, ids []int) ([]*models.Product, error) {
	const op = "storage.GetProductsByIDs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, kind, order_limit, duration
			  FROM products
			  WHERE id = ANY($1)`
	rows, err := s.DB.QueryContext(ctx, query, ids)
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
