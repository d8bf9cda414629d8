package order

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/magabrotheeeer/purchase-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) BeginTx(ctx context.Context) (*sql.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sql.Tx), args.Error(1)
}
func (m *RepoMock) LockProductsTx(ctx context.Context, tx *sql.Tx, productIDs []int) ([]*models.Product, error) {
	args := m.Called(ctx, tx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}
func (m *RepoMock) CountUserItemsTx(ctx context.Context, tx *sql.Tx, productID int, userUID string) (int, error) {
	args := m.Called(ctx, tx, productID, userUID)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CreateOrderTx(ctx context.Context, tx *sql.Tx, userUID, username string) (int, error) {
	args := m.Called(ctx, tx, userUID, username)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CreateItemTx(ctx context.Context, tx *sql.Tx, orderID, productID int) (int, error) {
	args := m.Called(ctx, tx, orderID, productID)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) UpdateItemPriceTx(ctx context.Context, tx *sql.Tx, itemID int, price int64) error {
	args := m.Called(ctx, tx, itemID, price)
	return args.Error(0)
}
func (m *RepoMock) GetProductsByIDs(ctx context.Context, productIDs []int) ([]*models.Product, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}
func (m *RepoMock) ReadOrder(ctx context.Context, id int) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *RepoMock) ListOrders(ctx context.Context, userUID string, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}
func (m *RepoMock) ListAllOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

type ResolverMock struct{ mock.Mock }

func (m *ResolverMock) ResolveTx(ctx context.Context, tx *sql.Tx, productID int, role string) (int64, error) {
	args := m.Called(ctx, tx, productID, role)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_CreateSubscription_RejectsOtherKinds(t *testing.T) {
	user := models.User{UID: "uid-1", Username: "alice", Role: "user"}

	tests := []struct {
		name     string
		products []*models.Product
		wantErr  error
	}{
		{
			name: "plain product rejected",
			products: []*models.Product{
				{ID: 1, Name: "Coffee", Kind: models.KindPlain},
			},
			wantErr: models.ErrNotSubscription,
		},
		{
			name: "package rejected",
			products: []*models.Product{
				{ID: 2, Name: "Bundle", Kind: models.KindPackage},
			},
			wantErr: models.ErrNotSubscription,
		},
		{
			name: "mix of subscription and plain rejected",
			products: []*models.Product{
				{ID: 3, Name: "Premium", Kind: models.KindSubscription},
				{ID: 1, Name: "Coffee", Kind: models.KindPlain},
			},
			wantErr: models.ErrNotSubscription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			resolver := new(ResolverMock)
			svc := New(repo, resolver, newNoopLogger())

			ids := make([]int, 0, len(tt.products))
			for _, p := range tt.products {
				ids = append(ids, p.ID)
			}
			repo.On("GetProductsByIDs", mock.Anything, ids).
				Return(tt.products, nil).Once()

			_, err := svc.CreateSubscription(context.Background(), user,
				models.DummyOrder{ProductIDs: ids})
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "BeginTx", mock.Anything)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_CreateSubscription_UnknownProduct(t *testing.T) {
	repo := new(RepoMock)
	resolver := new(ResolverMock)
	svc := New(repo, resolver, newNoopLogger())

	repo.On("GetProductsByIDs", mock.Anything, []int{99}).
		Return(nil, models.ErrProductNotFound).Once()

	_, err := svc.CreateSubscription(context.Background(),
		models.User{UID: "uid-1", Role: "user"},
		models.DummyOrder{ProductIDs: []int{99}})
	assert.ErrorIs(t, err, models.ErrProductNotFound)
	repo.AssertExpectations(t)
}

func TestService_Read_Ownership(t *testing.T) {
	stored := &models.Order{ID: 5, UserUID: "uid-owner", Username: "alice"}

	tests := []struct {
		name    string
		user    models.User
		wantErr error
	}{
		{
			name: "owner reads own order",
			user: models.User{UID: "uid-owner", Role: "user"},
		},
		{
			name: "admin reads foreign order",
			user: models.User{UID: "uid-admin", Role: "admin"},
		},
		{
			name:    "foreign order hidden from regular user",
			user:    models.User{UID: "uid-other", Role: "user"},
			wantErr: models.ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			resolver := new(ResolverMock)
			svc := New(repo, resolver, newNoopLogger())

			repo.On("ReadOrder", mock.Anything, 5).Return(stored, nil).Once()

			got, err := svc.Read(context.Background(), 5, tt.user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, stored, got)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_List_ByRole(t *testing.T) {
	own := []*models.Order{{ID: 1, UserUID: "uid-1"}}
	all := []*models.Order{{ID: 1, UserUID: "uid-1"}, {ID: 2, UserUID: "uid-2"}}

	t.Run("regular user sees own orders", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(ResolverMock), newNoopLogger())
		repo.On("ListOrders", mock.Anything, "uid-1", 10, 0).Return(own, nil).Once()

		got, err := svc.List(context.Background(),
			models.User{UID: "uid-1", Role: "user"}, 10, 0)
		assert.NoError(t, err)
		assert.Equal(t, own, got)
		repo.AssertExpectations(t)
	})

	t.Run("admin sees all orders", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, new(ResolverMock), newNoopLogger())
		repo.On("ListAllOrders", mock.Anything, 10, 0).Return(all, nil).Once()

		got, err := svc.List(context.Background(),
			models.User{UID: "uid-admin", Role: "admin"}, 10, 0)
		assert.NoError(t, err)
		assert.Equal(t, all, got)
		repo.AssertExpectations(t)
	})
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []int{3, 1, 2}, dedupe([]int{3, 1, 3, 2, 1}))
	assert.Equal(t, []int{7}, dedupe([]int{7, 7, 7}))
}
