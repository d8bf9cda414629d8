package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/magabrotheeeer/purchase-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	args := m.Called(ctx, payment)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadPayment(ctx context.Context, id int) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}
func (m *RepoMock) UpdatePayment(ctx context.Context, payment models.Payment, id int) (int, error) {
	args := m.Called(ctx, payment, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListPayments(ctx context.Context, orderID, limit, offset int) ([]*models.Payment, error) {
	args := m.Called(ctx, orderID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_Create(t *testing.T) {
	req := models.DummyPayment{
		OrderID:       10,
		Type:          models.PaymentTypeCard,
		IdentityToken: "token-12345",
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, p *PublisherMock)
		wantID     int
		wantErr    error
	}{
		{
			name: "success create publishes event",
			setupMocks: func(r *RepoMock, p *PublisherMock) {
				r.On("CreatePayment", mock.Anything, mock.MatchedBy(func(pm models.Payment) bool {
					return pm.OrderID == 10 && pm.Type == models.PaymentTypeCard &&
						pm.IdentityToken == "token-12345"
				})).Return(42, nil).Once()
				p.On("Publish", "created", mock.MatchedBy(func(e CreatedEvent) bool {
					return e.PaymentID == 42 && e.OrderID == 10 &&
						e.Type == models.PaymentTypeCard
				})).Return(nil).Once()
			},
			wantID: 42,
		},
		{
			name: "publish failure does not fail payment",
			setupMocks: func(r *RepoMock, p *PublisherMock) {
				r.On("CreatePayment", mock.Anything, mock.Anything).Return(7, nil).Once()
				p.On("Publish", "created", mock.Anything).
					Return(errors.New("broker down")).Once()
			},
			wantID: 7,
		},
		{
			name: "unknown order fails without publishing",
			setupMocks: func(r *RepoMock, p *PublisherMock) {
				r.On("CreatePayment", mock.Anything, mock.Anything).
					Return(0, models.ErrOrderNotFound).Once()
			},
			wantErr: models.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			publisher := new(PublisherMock)
			svc := New(repo, publisher, newNoopLogger())
			tt.setupMocks(repo, publisher)

			got, err := svc.Create(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, got)
			}
			repo.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestService_Read(t *testing.T) {
	stored := &models.Payment{ID: 5, OrderID: 10, Type: models.PaymentTypeManual}

	repo := new(RepoMock)
	svc := New(repo, new(PublisherMock), newNoopLogger())
	repo.On("ReadPayment", mock.Anything, 5).Return(stored, nil).Once()

	got, err := svc.Read(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, stored, got)
	repo.AssertExpectations(t)
}

func TestService_List(t *testing.T) {
	payments := []*models.Payment{
		{ID: 1, OrderID: 10, Type: models.PaymentTypeCard},
		{ID: 2, OrderID: 10, Type: models.PaymentTypeGateway},
	}

	t.Run("filtered by order", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(PublisherMock), newNoopLogger())
		repo.On("ListPayments", mock.Anything, 10, 20, 0).Return(payments, nil).Once()

		got, err := svc.List(context.Background(), 10, 20, 0)
		assert.NoError(t, err)
		assert.Len(t, got, 2)
		repo.AssertExpectations(t)
	})

	t.Run("without order filter", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(PublisherMock), newNoopLogger())
		repo.On("ListPayments", mock.Anything, 0, 20, 0).Return(payments, nil).Once()

		_, err := svc.List(context.Background(), 0, 20, 0)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
