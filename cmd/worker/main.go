package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/GoSim-25-26J-441/go-shop-backend/config"
	authrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/auth/repository"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/bootstrap"
	cartrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/cart/repository"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/jobs"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/logging"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/messaging/rabbitmq"
	notifconsumer "github.com/GoSim-25-26J-441/go-shop-backend/internal/notifications/consumer"
	notifrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/notifications/repository"
	notifsvc "github.com/GoSim-25-26J-441/go-shop-backend/internal/notifications/service"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/events"
	ordersrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/repository"
	orderssvc "github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const consumerTag = "shop-notifications"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.App.LogLevel, cfg.App.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("worker exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN()})
	if err != nil {
		return err
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	var (
		mq  *rabbitmq.Client
		pub events.Publisher = events.NopPublisher{}
	)
	if cfg.RabbitMQ.Enabled() {
		mq, err = rabbitmq.Dial(rabbitmq.Config{
			Host:     cfg.RabbitMQ.Host,
			Port:     cfg.RabbitMQ.Port,
			User:     cfg.RabbitMQ.User,
			Password: cfg.RabbitMQ.Password,
			VHost:    cfg.RabbitMQ.VHost,
			UseTLS:   cfg.RabbitMQ.UseTLS,
		})
		if err != nil {
			return err
		}
		defer mq.Close()
		if err := mq.DeclareTopology(); err != nil {
			return err
		}
		pub = events.NewRabbitPublisher(mq)
	} else {
		logger.Warn("RABBITMQ_HOST not set, notifications consumer disabled")
	}

	orders := orderssvc.NewOrderService(
		ordersrepo.NewOrderRepository(db),
		cartrepo.NewCartRepository(rdb),
		pub,
		logger.Named("orders"),
	)

	scheduler, err := jobs.NewScheduler(logger.Named("jobs"),
		jobs.CancelStaleOrders(orders, cfg.Jobs.OrderPendingTTL, logger.Named("jobs")),
		jobs.PruneRefreshTokens(authrepo.NewRefreshTokenStore(rdb), logger.Named("jobs")),
	)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return scheduler.Run(gctx) })

	if mq != nil {
		deliveries, err := mq.Consume(rabbitmq.QueueNotifications, consumerTag, 10)
		if err != nil {
			return err
		}
		consumer := notifconsumer.New(
			notifsvc.NewNotificationService(notifrepo.NewInboxRepository(rdb)),
			logger.Named("notifications"),
		)
		g.Go(func() error { return consumer.Run(gctx, deliveries) })
	}

	logger.Info("worker started")
	return g.Wait()
}
