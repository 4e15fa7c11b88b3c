package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/messaging/rabbitmq"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/orders/events"
	tasksrepo "github.com/GoSim-25-26J-441/go-shop-backend/internal/tasks/repository"
	"github.com/GoSim-25-26J-441/go-shop-backend/internal/tracing"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootstrap.SetGinMode(cfg.App.Environment)

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

	tasks, err := tasksrepo.NewFileStore(cfg.Tasks.File, logger.Named("tasks"))
	if err != nil {
		return err
	}
	if cfg.Tasks.Watch {
		go func() {
			if err := tasks.Watch(ctx); err != nil {
				logger.Warn("task file watcher stopped", zap.Error(err))
			}
		}()
	}

	uploads, uploadDir, err := bootstrap.OpenUploadStore(ctx, cfg.Uploads)
	if err != nil {
		return err
	}

	tp, err := tracing.Setup(ctx, tracing.Options{
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(sctx)
	}()

	var pub events.Publisher = events.NopPublisher{}
	if cfg.RabbitMQ.Enabled() {
		mq, err := rabbitmq.Dial(rabbitmqConfig())
		if err != nil {
			return err
		}
		defer mq.Close()
		if err := mq.DeclareTopology(); err != nil {
			return err
		}
		pub = events.NewRabbitPublisher(mq)
	} else {
		logger.Info("RABBITMQ_HOST not set, order events are dropped")
	}

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Config:    cfg,
		Log:       logger,
		DB:        db,
		Redis:     rdb,
		Tasks:     tasks,
		Uploads:   uploads,
		UploadDir: uploadDir,
		Publisher: pub,
		Tracer:    tp.Tracer(),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

func rabbitmqConfig() rabbitmq.Config {
	return rabbitmq.Config{
		Host:     cfg.RabbitMQ.Host,
		Port:     cfg.RabbitMQ.Port,
		User:     cfg.RabbitMQ.User,
		Password: cfg.RabbitMQ.Password,
		VHost:    cfg.RabbitMQ.VHost,
		UseTLS:   cfg.RabbitMQ.UseTLS,
	}
}
