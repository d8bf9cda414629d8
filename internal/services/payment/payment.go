// Package payment содержит бизнес-логику регистрации платежей по заказам
// и публикацию событий о них.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/purchase-service/internal/lib/sl"
	"github.com/magabrotheeeer/purchase-service/internal/models"
)

// Repository определяет методы для работы с платежами в хранилище.
type Repository interface {
	// CreatePayment добавляет новый платёж и возвращает его ID.
	CreatePayment(ctx context.Context, payment models.Payment) (int, error)
	// ReadPayment возвращает платёж по ID.
	ReadPayment(ctx context.Context, id int) (*models.Payment, error)
	// UpdatePayment обновляет платёж по ID.
	UpdatePayment(ctx context.Context, payment models.Payment, id int) (int, error)
	// ListPayments возвращает платежи, опционально по одному заказу.
	ListPayments(ctx context.Context, orderID, limit, offset int) ([]*models.Payment, error)
}

// Publisher публикует сообщения в брокер.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// CreatedEvent — сообщение о зарегистрированном платеже.
type CreatedEvent struct {
	PaymentID int       `json:"payment_id"`
	OrderID   int       `json:"order_id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Service реализует бизнес-логику работы с платежами.
type Service struct {
	repo      Repository
	publisher Publisher
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// toPayment конвертирует запрос в доменный платёж.
func toPayment(req models.DummyPayment) models.Payment {
	return models.Payment{
		OrderID:       req.OrderID,
		Type:          req.Type,
		IdentityToken: req.IdentityToken,
		RefID:         req.RefID,
	}
}

// Create регистрирует платёж по заказу и публикует событие о нём.
// Ошибка публикации платёж не отменяет.
func (s *Service) Create(ctx context.Context, req models.DummyPayment) (int, error) {
	const op = "services.payment.Create"

	payment := toPayment(req)
	id, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new payment", slog.Int("id", id),
		slog.Int("order_id", payment.OrderID))

	event := CreatedEvent{
		PaymentID: id,
		OrderID:   payment.OrderID,
		Type:      payment.Type,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish("created", event); err != nil {
		s.log.Error("failed to publish payment event", sl.Err(err))
	}

	return id, nil
}

// Read возвращает платёж по ID.
func (s *Service) Read(ctx context.Context, id int) (*models.Payment, error) {
	return s.repo.ReadPayment(ctx, id)
}

// Update обновляет платёж по ID и возвращает количество изменённых записей.
func (s *Service) Update(ctx context.Context, req models.DummyPayment, id int) (int, error) {
	res, err := s.repo.UpdatePayment(ctx, toPayment(req), id)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated payment", slog.Int("id", id))
	return res, nil
}

// List возвращает платежи с пагинацией; orderID = 0 — без фильтра по заказу.
func (s *Service) List(ctx context.Context, orderID, limit, offset int) ([]*models.Payment, error) {
	return s.repo.ListPayments(ctx, orderID, limit, offset)
}
