// Package purchaseservice собирает сервис покупок: хранилище, кеш,
// брокер сообщений, бизнес-логику и HTTP-сервер.
package purchaseservice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/purchase-service/internal/cache"
	"github.com/magabrotheeeer/purchase-service/internal/config"
	"github.com/magabrotheeeer/purchase-service/internal/lib/jwt"
	"github.com/magabrotheeeer/purchase-service/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/purchase-service/internal/migrations"
	orderservice "github.com/magabrotheeeer/purchase-service/internal/services/order"
	paymentservice "github.com/magabrotheeeer/purchase-service/internal/services/payment"
	priceservice "github.com/magabrotheeeer/purchase-service/internal/services/price"
	productservice "github.com/magabrotheeeer/purchase-service/internal/services/product"
	"github.com/magabrotheeeer/purchase-service/internal/storage/repository"

	"github.com/streadway/amqp"
)

// App инкапсулирует HTTP-сервер и внешние соединения сервиса покупок.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	rabbitMQ *amqp.Connection
}

// New создает приложение: подключается к PostgreSQL, применяет миграции,
// поднимает Redis и RabbitMQ, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.AddressRabbitMQ,
		cfg.RetriesRabbitMQ, cfg.DelayRabbitMQ)
	if err != nil {
		return nil, err
	}
	channel, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetPaymentQueues())
	if err != nil {
		return nil, err
	}

	tokenMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	productService := productservice.New(db, cacheRedis, logger)
	priceService := priceservice.New(db, logger)
	orderService := orderservice.New(db, priceService, logger)
	paymentService := paymentservice.New(db,
		paymentservice.NewAMQPPublisher(channel), logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, tokenMaker, db, Services{
		Product: productService,
		Price:   priceService,
		Order:   orderService,
		Payment: paymentService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		rabbitMQ: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.rabbitMQ.Close()
		_ = a.db.DB.Close()
		return err
	}
}
