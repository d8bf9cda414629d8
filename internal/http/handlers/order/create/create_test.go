package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/purchase-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/purchase-service/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, user models.User, req models.DummyOrder) (*models.Order, error) {
	args := m.Called(ctx, user, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func withUser(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), middlewarectx.User, "testuser")
	ctx = context.WithValue(ctx, middlewarectx.UserUID, "uid-123")
	ctx = context.WithValue(ctx, middlewarectx.Role, "user")
	return req.WithContext(ctx)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	price := int64(300)
	createdOrder := &models.Order{
		ID:      5,
		UserUID: "uid-123",
		Items: []*models.Item{
			{ID: 1, OrderID: 5, ProductID: 10, Price: &price},
		},
	}

	tests := []struct {
		name           string
		body           string
		withAuth       bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешное оформление заказа",
			body:     `{"products_ids":[10]}`,
			withAuth: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything,
					models.User{UID: "uid-123", Username: "testuser", Role: "user"},
					models.DummyOrder{ProductIDs: []int{10}}).
					Return(createdOrder, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"Price":300`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"products_ids":`,
			withAuth:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name:           "пустой список товаров",
			body:           `{"products_ids":[]}`,
			withAuth:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `ProductIDs`,
		},
		{
			name:           "нет пользователя в контексте",
			body:           `{"products_ids":[10]}`,
			withAuth:       false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `unauthorized`,
		},
		{
			name:     "превышен лимит покупок",
			body:     `{"products_ids":[10]}`,
			withAuth: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, &models.LimitExceededError{
						ProductID:   10,
						ProductName: "Rare item",
						Limit:       2,
					})
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `order limit 2 exceeded`,
		},
		{
			name:     "товар не найден",
			body:     `{"products_ids":[99]}`,
			withAuth: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, models.ErrProductNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `product not found`,
		},
		{
			name:     "ошибка сервиса",
			body:     `{"products_ids":[10]}`,
			withAuth: true,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not create order`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body))
			if tt.withAuth {
				req = withUser(req)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
