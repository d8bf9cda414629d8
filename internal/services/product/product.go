// Package product содержит бизнес-логику управления каталогом товаров,
// включая кеширование.
package product

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/purchase-service/internal/models"
)

// Repository определяет методы для работы с товарами в хранилище.
type Repository interface {
	// CreateProduct добавляет новый товар и возвращает его ID.
	CreateProduct(ctx context.Context, product models.Product) (int, error)
	// ReadProduct возвращает товар по ID вместе с ценами.
	ReadProduct(ctx context.Context, id int) (*models.Product, error)
	// UpdateProduct обновляет товар по ID.
	UpdateProduct(ctx context.Context, product models.Product, id int) (int, error)
	// RemoveProduct удаляет товар по ID и возвращает количество удалённых записей.
	RemoveProduct(ctx context.Context, id int) (int, error)
	// ListProducts возвращает список товаров с пагинацией.
	ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует бизнес-логику работы с товарами, включая кеширование.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// toProduct конвертирует запрос в доменный товар. Поля, не относящиеся
// к виду товара, игнорируются.
func toProduct(req models.DummyProduct) models.Product {
	product := models.Product{
		Name:       req.Name,
		Kind:       req.Kind,
		OrderLimit: req.OrderLimit,
	}
	switch req.Kind {
	case models.KindPackage:
		product.ProductIDs = req.ProductIDs
	case models.KindSubscription:
		product.Duration = req.Duration
	}
	return product
}

// Create создает новый товар и возвращает его ID.
func (s *Service) Create(ctx context.Context, req models.DummyProduct) (int, error) {
	id, err := s.repo.CreateProduct(ctx, toProduct(req))
	if err != nil {
		return 0, err
	}
	s.log.Info("created new product", slog.Int("id", id), slog.String("kind", req.Kind))
	return id, nil
}

// Read возвращает товар по ID, используя кеш или репозиторий.
func (s *Service) Read(ctx context.Context, id int) (*models.Product, error) {
	var result *models.Product
	cacheKey := fmt.Sprintf("product:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey),
			slog.Any("err", err))
	}
	return result, nil
}

// Update обновляет товар и инвалидирует кеш.
func (s *Service) Update(ctx context.Context, req models.DummyProduct, id int) (int, error) {
	res, err := s.repo.UpdateProduct(ctx, toProduct(req), id)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated product in storage", slog.Int("id", id))

	cacheKey := fmt.Sprintf("product:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey),
			slog.Any("err", err))
	}
	return res, nil
}

// Remove удаляет товар по ID и инвалидирует кеш.
func (s *Service) Remove(ctx context.Context, id int) (int, error) {
	cacheKey := fmt.Sprintf("product:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey),
			slog.Any("err", err))
	}

	count, err := s.repo.RemoveProduct(ctx, id)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// List возвращает список товаров с пагинацией.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	return s.repo.ListProducts(ctx, limit, offset)
}
