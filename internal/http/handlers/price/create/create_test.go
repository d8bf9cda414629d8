package create

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/purchase-service/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.DummyPrice) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное создание цены для роли",
			body: `{"product_id":10,"role":"premium","amount":300}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(p models.DummyPrice) bool {
					return p.ProductID == 10 && p.Role == "premium" &&
						p.Amount != nil && *p.Amount == 300
				})).Return(42, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"last_added_id":42`,
		},
		{
			name: "успешное создание цены по умолчанию с нулевой суммой",
			body: `{"product_id":10,"amount":0}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(p models.DummyPrice) bool {
					return p.Role == "" && p.Amount != nil && *p.Amount == 0
				})).Return(43, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"last_added_id":43`,
		},
		{
			name:           "отрицательная сумма",
			body:           `{"product_id":10,"amount":-5}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `Amount`,
		},
		{
			name:           "сумма не указана",
			body:           `{"product_id":10}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `Amount`,
		},
		{
			name: "дубликат цены для роли",
			body: `{"product_id":10,"role":"premium","amount":300}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(0, models.ErrDuplicatePrice)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `already exists`,
		},
		{
			name: "роль не найдена",
			body: `{"product_id":10,"role":"ghost","amount":300}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(0, models.ErrRoleNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `role not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/prices", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
