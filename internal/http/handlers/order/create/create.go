// Package create реализует HTTP-обработчик для оформления заказов.
//
// Handler принимает JSON-запрос со списком товаров, валидирует его,
// извлекает пользователя из контекста, вызывает бизнес-логику оформления
// заказа и возвращает созданный заказ с зафиксированными ценами.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/purchase-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/purchase-service/internal/http/response"
	"github.com/magabrotheeeer/purchase-service/internal/lib/sl"
	"github.com/magabrotheeeer/purchase-service/internal/models"
)

// Handler управляет HTTP-запросами на оформление заказов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики оформления заказа.
type Service interface {
	Create(ctx context.Context, user models.User, req models.DummyOrder) (*models.Order, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оформить заказ
// @Description Создает заказ текущего пользователя на перечисленные товары. Цены фиксируются в позициях заказа.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param request body models.DummyOrder true "Список ID товаров"
// @Success 200 {object} map[string]any "Созданный заказ"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 409 {object} response.ErrorResponse "Превышен лимит покупок"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при оформлении заказа"
// @Security BearerAuth
// @Router /orders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyOrder
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	order, err := h.service.Create(r.Context(), user, req)
	if err != nil {
		var limitErr *models.LimitExceededError
		switch {
		case errors.As(err, &limitErr):
			log.Error("order limit exceeded", slog.Int("product_id", limitErr.ProductID),
				slog.Int("limit", limitErr.Limit))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(limitErr.Error()))
		case errors.Is(err, models.ErrProductNotFound):
			log.Error("product not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("product not found"))
		default:
			log.Error("failed to create order", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create order"))
		}
		return
	}

	log.Info("success to create order", slog.Int("id", order.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order": order,
	}))
}
