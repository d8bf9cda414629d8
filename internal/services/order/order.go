// Package order реализует оформление заказов: блокировку товаров,
// проверку лимитов и фиксацию цен в позициях заказа.
package order

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/purchase-service/internal/models"
)

// Repository определяет методы для работы с заказами в хранилище.
type Repository interface {
	// BeginTx открывает транзакцию оформления заказа.
	BeginTx(ctx context.Context) (*sql.Tx, error)
	// LockProductsTx блокирует строки товаров до конца транзакции
	// и возвращает их в порядке запрошенных ID.
	LockProductsTx(ctx context.Context, tx *sql.Tx, productIDs []int) ([]*models.Product, error)
	// CountUserItemsTx считает позиции пользователя по товару.
	CountUserItemsTx(ctx context.Context, tx *sql.Tx, productID int, userUID string) (int, error)
	// CreateOrderTx создает заказ и возвращает его ID.
	CreateOrderTx(ctx context.Context, tx *sql.Tx, userUID, username string) (int, error)
	// CreateItemTx создает позицию заказа без цены и возвращает её ID.
	CreateItemTx(ctx context.Context, tx *sql.Tx, orderID, productID int) (int, error)
	// UpdateItemPriceTx записывает зафиксированную цену в позицию.
	UpdateItemPriceTx(ctx context.Context, tx *sql.Tx, itemID int, price int64) error
	// GetProductsByIDs возвращает товары в порядке запрошенных ID.
	GetProductsByIDs(ctx context.Context, productIDs []int) ([]*models.Product, error)
	// ReadOrder возвращает заказ с позициями по ID.
	ReadOrder(ctx context.Context, id int) (*models.Order, error)
	// ListOrders возвращает заказы пользователя.
	ListOrders(ctx context.Context, userUID string, limit, offset int) ([]*models.Order, error)
	// ListAllOrders возвращает заказы всех пользователей.
	ListAllOrders(ctx context.Context, limit, offset int) ([]*models.Order, error)
}

// PriceResolver выбирает действующую цену товара для роли пользователя.
type PriceResolver interface {
	ResolveTx(ctx context.Context, tx *sql.Tx, productID int, role string) (int64, error)
}

// Service реализует бизнес-логику оформления заказов.
type Service struct {
	repo     Repository
	resolver PriceResolver
	log      *slog.Logger
}

// AdminRole — роль, которой доступны чужие заказы.
const AdminRole = "admin"

// New создает новый экземпляр Service.
func New(repo Repository, resolver PriceResolver, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		log:      log,
	}
}

// Create оформляет заказ пользователя на перечисленные товары. Вся работа
// идёт в одной транзакции: строки товаров блокируются, лимиты проверяются
// по заблокированному состоянию, затем создаются заказ и позиции, и в
// каждую позицию записывается цена, действующая для роли пользователя.
// Любая ошибка откатывает транзакцию целиком.
func (s *Service) Create(ctx context.Context, user models.User, req models.DummyOrder) (*models.Order, error) {
	const op = "services.order.Create"

	productIDs := dedupe(req.ProductIDs)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	products, err := s.repo.LockProductsTx(ctx, tx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.checkOrderLimits(ctx, tx, products, user.UID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orderID, err := s.repo.CreateOrderTx(ctx, tx, user.UID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]*models.Item, 0, len(products))
	for _, product := range products {
		itemID, err := s.repo.CreateItemTx(ctx, tx, orderID, product.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, &models.Item{
			ID:        itemID,
			OrderID:   orderID,
			ProductID: product.ID,
		})
	}

	for _, item := range items {
		amount, err := s.resolver.ResolveTx(ctx, tx, item.ProductID, user.Role)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := s.repo.UpdateItemPriceTx(ctx, tx, item.ID, amount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		price := amount
		item.Price = &price
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created new order", slog.Int("id", orderID),
		slog.String("user_uid", user.UID), slog.Int("items", len(items)))

	return &models.Order{
		ID:       orderID,
		UserUID:  user.UID,
		Username: user.Username,
		Items:    items,
	}, nil
}

// CreateSubscription оформляет заказ только на подписки. Товары других
// видов отклоняются до открытия транзакции.
func (s *Service) CreateSubscription(ctx context.Context, user models.User, req models.DummyOrder) (*models.Order, error) {
	const op = "services.order.CreateSubscription"

	products, err := s.repo.GetProductsByIDs(ctx, dedupe(req.ProductIDs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, product := range products {
		if product.Kind != models.KindSubscription {
			return nil, fmt.Errorf("%s: product %d: %w",
				op, product.ID, models.ErrNotSubscription)
		}
	}

	return s.Create(ctx, user, req)
}

// Read возвращает заказ по ID. Пользователи без роли admin видят только
// собственные заказы, чужой заказ для них неотличим от несуществующего.
func (s *Service) Read(ctx context.Context, id int, user models.User) (*models.Order, error) {
	const op = "services.order.Read"

	result, err := s.repo.ReadOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.Role != AdminRole && result.UserUID != user.UID {
		return nil, fmt.Errorf("%s: %w", op, models.ErrOrderNotFound)
	}
	return result, nil
}

// List возвращает заказы: для admin — всех пользователей, для остальных —
// только собственные.
func (s *Service) List(ctx context.Context, user models.User, limit, offset int) ([]*models.Order, error) {
	if user.Role == AdminRole {
		return s.repo.ListAllOrders(ctx, limit, offset)
	}
	return s.repo.ListOrders(ctx, user.UID, limit, offset)
}

// checkOrderLimits проверяет лимиты всех товаров заказа в порядке
// следования. Нарушение первого же лимита прерывает оформление.
func (s *Service) checkOrderLimits(ctx context.Context, tx *sql.Tx, products []*models.Product, userUID string) error {
	for _, product := range products {
		if product.OrderLimit == nil {
			continue
		}
		count, err := s.repo.CountUserItemsTx(ctx, tx, product.ID, userUID)
		if err != nil {
			return err
		}
		if count >= *product.OrderLimit {
			return &models.LimitExceededError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Limit:       *product.OrderLimit,
			}
		}
	}
	return nil
}

// dedupe убирает повторы ID, сохраняя порядок первого вхождения.
func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	result := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
