// Package read реализует HTTP-обработчик для получения заказа по ID.
//
// Обычный пользователь видит только собственные заказы, admin — любые.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/purchase-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/purchase-service/internal/http/response"
	"github.com/magabrotheeeer/purchase-service/internal/lib/sl"
	"github.com/magabrotheeeer/purchase-service/internal/models"
)

// Handler обрабатывает запросы на получение заказа по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения заказа.
type Service interface {
	Read(ctx context.Context, id int, user models.User) (*models.Order, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.Read(r.Context(), id, user)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			log.Error("order not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("order not found"))
			return
		}
		log.Error("failed to read order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read order"))
		return
	}

	log.Info("success to read order", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order": res,
	}))
}
