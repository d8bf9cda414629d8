// Package purchaseservice предоставляет маршруты для основного приложения.
package purchaseservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/purchase-service/internal/http/handlers/health"
	ordercreate "github.com/magabrotheeeer/purchase-service/internal/http/handlers/order/create"
	orderlist "github.com/magabrotheeeer/purchase-service/internal/http/handlers/order/list"
	orderread "github.com/magabrotheeeer/purchase-service/internal/http/handlers/order/read"
	"github.com/magabrotheeeer/purchase-service/internal/http/handlers/order/subscribecreate"
	"github.com/magabrotheeeer/purchase-service/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/purchase-service/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/purchase-service/internal/http/handlers/payment/paymentread"
	"github.com/magabrotheeeer/purchase-service/internal/http/handlers/payment/paymentupdate"
	pricecreate "github.com/magabrotheeeer/purchase-service/internal/http/handlers/price/create"
	priceread "github.com/magabrotheeeer/purchase-service/internal/http/handlers/price/read"
	priceremove "github.com/magabrotheeeer/purchase-service/internal/http/handlers/price/remove"
	priceupdate "github.com/magabrotheeeer/purchase-service/internal/http/handlers/price/update"
	productcreate "github.com/magabrotheeeer/purchase-service/internal/http/handlers/product/create"
	productlist "github.com/magabrotheeeer/purchase-service/internal/http/handlers/product/list"
	productread "github.com/magabrotheeeer/purchase-service/internal/http/handlers/product/read"
	productremove "github.com/magabrotheeeer/purchase-service/internal/http/handlers/product/remove"
	productupdate "github.com/magabrotheeeer/purchase-service/internal/http/handlers/product/update"
	"github.com/magabrotheeeer/purchase-service/internal/http/middlewarectx"
	orderservice "github.com/magabrotheeeer/purchase-service/internal/services/order"
	paymentservice "github.com/magabrotheeeer/purchase-service/internal/services/payment"
	priceservice "github.com/magabrotheeeer/purchase-service/internal/services/price"
	productservice "github.com/magabrotheeeer/purchase-service/internal/services/product"
	"github.com/magabrotheeeer/purchase-service/internal/storage/repository"
)

// Services перечисляет бизнес-сервисы, которые обслуживают маршруты.
type Services struct {
	Product *productservice.Service
	Price   *priceservice.Service
	Order   *orderservice.Service
	Payment *paymentservice.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, tokenParser middlewarectx.TokenParser,
	db *repository.Storage, services Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger, db).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokenParser, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/products", productcreate.New(logger, services.Product).ServeHTTP)
			r.Get("/products/list", productlist.New(logger, services.Product).ServeHTTP)
			r.Get("/products/{id}", productread.New(logger, services.Product).ServeHTTP)
			r.Put("/products/{id}", productupdate.New(logger, services.Product).ServeHTTP)
			r.Delete("/products/{id}", productremove.New(logger, services.Product).ServeHTTP)

			r.Post("/prices", pricecreate.New(logger, services.Price).ServeHTTP)
			r.Get("/prices/{id}", priceread.New(logger, services.Price).ServeHTTP)
			r.Put("/prices/{id}", priceupdate.New(logger, services.Price).ServeHTTP)
			r.Delete("/prices/{id}", priceremove.New(logger, services.Price).ServeHTTP)

			r.Post("/orders", ordercreate.New(logger, services.Order).ServeHTTP)
			r.Post("/orders/subscriptions", subscribecreate.New(logger, services.Order).ServeHTTP)
			r.Get("/orders/list", orderlist.New(logger, services.Order).ServeHTTP)
			r.Get("/orders/{id}", orderread.New(logger, services.Order).ServeHTTP)

			r.Post("/payments", paymentcreate.New(logger, services.Payment).ServeHTTP)
			r.Get("/payments/list", paymentlist.New(logger, services.Payment).ServeHTTP)
			r.Get("/payments/{id}", paymentread.New(logger, services.Payment).ServeHTTP)
			r.Put("/payments/{id}", paymentupdate.New(logger, services.Payment).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
