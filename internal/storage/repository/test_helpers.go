package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/purchase-service/internal/migrations"
	"github.com/magabrotheeeer/purchase-service/internal/models"
)

// SetupTestDatabase поднимает контейнер PostgreSQL, применяет миграции
// и возвращает готовое хранилище.
func SetupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			if err = storage.DB.Ping(); err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	cleanup := func() {
		_ = storage.DB.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateRole создает тестовую роль и возвращает её ID
func (f *TestDataFactory) CreateRole(t *testing.T, name string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO roles (name) VALUES ($1) RETURNING id`,
		name).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateProduct создает тестовый товар и возвращает его ID
func (f *TestDataFactory) CreateProduct(t *testing.T, name, kind string, orderLimit, duration *int) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO products (name, kind, order_limit, duration)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		name, kind, orderLimit, duration).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreatePrice создает тестовую цену и возвращает её ID
func (f *TestDataFactory) CreatePrice(t *testing.T, productID int, roleID *int, amount int64) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO prices (product_id, role_id, amount)
		VALUES ($1, $2, $3) RETURNING id`,
		productID, roleID, amount).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateOrder создает тестовый заказ и возвращает его ID
func (f *TestDataFactory) CreateOrder(t *testing.T, userUID, username string) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO orders (user_uid, username)
		VALUES ($1, $2) RETURNING id`,
		userUID, username).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateItem создает тестовую позицию заказа и возвращает её ID
func (f *TestDataFactory) CreateItem(t *testing.T, orderID, productID int, price *int64) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO items (order_id, product_id, price)
		VALUES ($1, $2, $3) RETURNING id`,
		orderID, productID, price).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreatePayment создает тестовый платёж и возвращает его ID
func (f *TestDataFactory) CreatePayment(t *testing.T, payment models.Payment) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO payments (order_id, type, identity_token, ref_id)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		payment.OrderID, payment.Type, payment.IdentityToken, payment.RefID).Scan(&id)
	require.NoError(t, err)
	return id
}

// IntPtr возвращает указатель на int, удобно для опциональных полей
func IntPtr(v int) *int { return &v }

// Int64Ptr возвращает указатель на int64
func Int64Ptr(v int64) *int64 { return &v }
