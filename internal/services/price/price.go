// Package price содержит бизнес-логику управления ценами товаров
// и выбор действующей цены по роли пользователя.
package price

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/purchase-service/internal/models"
)

// Repository определяет методы для работы с ценами в хранилище.
type Repository interface {
	// GetRoleIDByName возвращает идентификатор роли по её названию.
	GetRoleIDByName(ctx context.Context, name string) (int, error)
	// CreatePrice добавляет новую цену и возвращает её ID.
	CreatePrice(ctx context.Context, price models.Price) (int, error)
	// ReadPrice возвращает цену по ID.
	ReadPrice(ctx context.Context, id int) (*models.Price, error)
	// UpdatePrice обновляет цену по ID.
	UpdatePrice(ctx context.Context, price models.Price, id int) (int, error)
	// RemovePrice удаляет цену по ID и возвращает количество удалённых записей.
	RemovePrice(ctx context.Context, id int) (int, error)
	// ListProductPricesTx возвращает цены товара внутри открытой транзакции.
	ListProductPricesTx(ctx context.Context, tx *sql.Tx, productID int) ([]*models.Price, error)
}

// Service реализует бизнес-логику работы с ценами.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// toPrice конвертирует запрос в доменную цену, разрешая роль по названию.
// Пустое название роли означает цену по умолчанию.
func (s *Service) toPrice(ctx context.Context, req models.DummyPrice) (models.Price, error) {
	price := models.Price{
		ProductID: req.ProductID,
		Amount:    *req.Amount,
	}
	if req.Role != "" {
		roleID, err := s.repo.GetRoleIDByName(ctx, req.Role)
		if err != nil {
			return models.Price{}, err
		}
		price.RoleID = &roleID
	}
	return price, nil
}

// Create создает новую цену и возвращает её ID.
func (s *Service) Create(ctx context.Context, req models.DummyPrice) (int, error) {
	price, err := s.toPrice(ctx, req)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreatePrice(ctx, price)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new price", slog.Int("id", id),
		slog.Int("product_id", price.ProductID))
	return id, nil
}

// Read возвращает цену по ID.
func (s *Service) Read(ctx context.Context, id int) (*models.Price, error) {
	return s.repo.ReadPrice(ctx, id)
}

// Update обновляет цену по ID и возвращает количество изменённых записей.
func (s *Service) Update(ctx context.Context, req models.DummyPrice, id int) (int, error) {
	price, err := s.toPrice(ctx, req)
	if err != nil {
		return 0, err
	}

	res, err := s.repo.UpdatePrice(ctx, price, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated price", slog.Int("id", id))
	return res, nil
}

// Remove удаляет цену по ID и возвращает количество удалённых записей.
func (s *Service) Remove(ctx context.Context, id int) (int, error) {
	return s.repo.RemovePrice(ctx, id)
}

// ResolveTx выбирает действующую цену товара для роли пользователя внутри
// транзакции оформления заказа. Предпочитается цена, чья роль совпадает
// с ролью пользователя; при её отсутствии берётся цена по умолчанию
// (без роли). Ноль подходящих цен — ошибка ErrPriceNotFound, больше одной
// цены на ту же роль — ErrPriceAmbiguous.
func (s *Service) ResolveTx(ctx context.Context, tx *sql.Tx, productID int, role string) (int64, error) {
	const op = "services.price.ResolveTx"

	prices, err := s.repo.ListProductPricesTx(ctx, tx, productID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var roleMatches, defaults []*models.Price
	for _, price := range prices {
		switch {
		case price.RoleName != nil && *price.RoleName == role:
			roleMatches = append(roleMatches, price)
		case price.RoleID == nil:
			defaults = append(defaults, price)
		}
	}

	candidates := roleMatches
	if len(candidates) == 0 {
		candidates = defaults
	}

	switch len(candidates) {
	case 0:
		return 0, fmt.Errorf("%s: product %d, role %q: %w",
			op, productID, role, models.ErrPriceNotFound)
	case 1:
		return candidates[0].Amount, nil
	default:
		// Уникальные индексы не пропускают такое состояние, но выбор
		// произвольной цены здесь недопустим.
		return 0, fmt.Errorf("%s: product %d, role %q: %w",
			op, productID, role, models.ErrPriceAmbiguous)
	}
}
