package price

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/magabrotheeeer/purchase-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetRoleIDByName(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CreatePrice(ctx context.Context, price models.Price) (int, error) {
	args := m.Called(ctx, price)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadPrice(ctx context.Context, id int) (*models.Price, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Price), args.Error(1)
}
func (m *RepoMock) UpdatePrice(ctx context.Context, price models.Price, id int) (int, error) {
	args := m.Called(ctx, price, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemovePrice(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListProductPricesTx(ctx context.Context, tx *sql.Tx, productID int) ([]*models.Price, error) {
	args := m.Called(ctx, tx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Price), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestService_Create(t *testing.T) {
	amount := int64(500)

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		req        models.DummyPrice
		wantID     int
		wantErr    error
	}{
		{
			name: "success create with role",
			setupMocks: func(r *RepoMock) {
				r.On("GetRoleIDByName", mock.Anything, "premium").Return(3, nil).Once()
				r.On("CreatePrice", mock.Anything, mock.MatchedBy(func(p models.Price) bool {
					return p.ProductID == 10 && p.RoleID != nil && *p.RoleID == 3 && p.Amount == 500
				})).Return(42, nil).Once()
			},
			req:    models.DummyPrice{ProductID: 10, Role: "premium", Amount: &amount},
			wantID: 42,
		},
		{
			name: "success create default price without role",
			setupMocks: func(r *RepoMock) {
				r.On("CreatePrice", mock.Anything, mock.MatchedBy(func(p models.Price) bool {
					return p.ProductID == 10 && p.RoleID == nil
				})).Return(43, nil).Once()
			},
			req:    models.DummyPrice{ProductID: 10, Amount: &amount},
			wantID: 43,
		},
		{
			name: "unknown role",
			setupMocks: func(r *RepoMock) {
				r.On("GetRoleIDByName", mock.Anything, "ghost").
					Return(0, models.ErrRoleNotFound).Once()
			},
			req:     models.DummyPrice{ProductID: 10, Role: "ghost", Amount: &amount},
			wantErr: models.ErrRoleNotFound,
		},
		{
			name: "duplicate price for same role",
			setupMocks: func(r *RepoMock) {
				r.On("GetRoleIDByName", mock.Anything, "premium").Return(3, nil).Once()
				r.On("CreatePrice", mock.Anything, mock.Anything).
					Return(0, models.ErrDuplicatePrice).Once()
			},
			req:     models.DummyPrice{ProductID: 10, Role: "premium", Amount: &amount},
			wantErr: models.ErrDuplicatePrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, newNoopLogger())
			tt.setupMocks(repo)

			got, err := svc.Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, got)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_ResolveTx(t *testing.T) {
	rolePrice := &models.Price{ID: 1, ProductID: 10, RoleID: intPtr(3),
		RoleName: strPtr("premium"), Amount: 300}
	defaultPrice := &models.Price{ID: 2, ProductID: 10, Amount: 500}
	otherRolePrice := &models.Price{ID: 3, ProductID: 10, RoleID: intPtr(4),
		RoleName: strPtr("partner"), Amount: 100}

	tests := []struct {
		name       string
		prices     []*models.Price
		listErr    error
		role       string
		wantAmount int64
		wantErr    error
	}{
		{
			name:       "role price preferred over default",
			prices:     []*models.Price{defaultPrice, rolePrice, otherRolePrice},
			role:       "premium",
			wantAmount: 300,
		},
		{
			name:       "falls back to default price",
			prices:     []*models.Price{defaultPrice, otherRolePrice},
			role:       "premium",
			wantAmount: 500,
		},
		{
			name:       "empty role uses default price",
			prices:     []*models.Price{defaultPrice, rolePrice},
			role:       "",
			wantAmount: 500,
		},
		{
			name:    "no applicable price",
			prices:  []*models.Price{otherRolePrice},
			role:    "premium",
			wantErr: models.ErrPriceNotFound,
		},
		{
			name:    "no prices at all",
			prices:  []*models.Price{},
			role:    "premium",
			wantErr: models.ErrPriceNotFound,
		},
		{
			name: "two prices for same role",
			prices: []*models.Price{
				rolePrice,
				{ID: 5, ProductID: 10, RoleID: intPtr(3), RoleName: strPtr("premium"), Amount: 200},
			},
			role:    "premium",
			wantErr: models.ErrPriceAmbiguous,
		},
		{
			name: "two default prices",
			prices: []*models.Price{
				defaultPrice,
				{ID: 6, ProductID: 10, Amount: 700},
			},
			role:    "premium",
			wantErr: models.ErrPriceAmbiguous,
		},
		{
			name:    "storage error",
			listErr: errors.New("connection lost"),
			role:    "premium",
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, newNoopLogger())
			if tt.listErr != nil {
				repo.On("ListProductPricesTx", mock.Anything, mock.Anything, 10).
					Return(nil, tt.listErr).Once()
			} else {
				repo.On("ListProductPricesTx", mock.Anything, mock.Anything, 10).
					Return(tt.prices, nil).Once()
			}

			got, err := svc.ResolveTx(context.Background(), nil, 10, tt.role)
			switch {
			case tt.listErr != nil:
				assert.ErrorContains(t, err, "connection lost")
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.wantAmount, got)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Update(t *testing.T) {
	amount := int64(900)

	repo := new(RepoMock)
	svc := New(repo, newNoopLogger())
	repo.On("GetRoleIDByName", mock.Anything, "premium").Return(3, nil).Once()
	repo.On("UpdatePrice", mock.Anything, mock.MatchedBy(func(p models.Price) bool {
		return p.Amount == 900 && p.RoleID != nil && *p.RoleID == 3
	}), 7).Return(1, nil).Once()

	res, err := svc.Update(context.Background(),
		models.DummyPrice{ProductID: 10, Role: "premium", Amount: &amount}, 7)
	assert.NoError(t, err)
	assert.Equal(t, 1, res)
	repo.AssertExpectations(t)
}
