// Package create реализует HTTP-обработчик для назначения цены товару.
//
// Handler принимает JSON-запрос с данными цены, валидирует их,
// вызывает бизнес-логику создания цены через сервис и возвращает
// ID созданной записи в JSON-формате.
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

	"github.com/magabrotheeeer/purchase-service/internal/http/response"
	"github.com/magabrotheeeer/purchase-service/internal/lib/sl"
	"github.com/magabrotheeeer/purchase-service/internal/models"
)

// Handler управляет HTTP-запросами на создание цен.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания цены.
type Service interface {
	Create(ctx context.Context, req models.DummyPrice) (int, error)
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
// @Summary Назначить цену товару
// @Description Создает цену товара для роли или цену по умолчанию. Возвращает ID созданной записи.
// @Tags Prices
// @Accept  json
// @Produce  json
// @Param request body models.DummyPrice true "Данные новой цены"
// @Success 200 {object} map[string]any "Успешное создание цены"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Товар или роль не найдены"
// @Failure 409 {object} response.ErrorResponse "Цена для этой роли уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании цены"
// @Security BearerAuth
// @Router /prices [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.price.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPrice
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

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrProductNotFound):
			log.Error("product not found", slog.Int("product_id", req.ProductID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("product not found"))
		case errors.Is(err, models.ErrRoleNotFound):
			log.Error("role not found", slog.String("role", req.Role))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("role not found"))
		case errors.Is(err, models.ErrDuplicatePrice):
			log.Error("price already exists", slog.Int("product_id", req.ProductID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("price for this product and role already exists"))
		default:
			log.Error("failed to create price", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create price"))
		}
		return
	}

	log.Info("success to create price", slog.Any("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"last_added_id": id,
	}))
}
