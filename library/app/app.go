package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/adelbaev/lending-service/library/config"
	"github.com/adelbaev/lending-service/library/internal/handler"
	"github.com/adelbaev/lending-service/library/internal/repository"
	"github.com/adelbaev/lending-service/library/internal/server"
	"github.com/adelbaev/lending-service/library/internal/service"
	"github.com/adelbaev/lending-service/library/internal/service/identity"
	"github.com/adelbaev/lending-service/library/migrations"
	"github.com/adelbaev/lending-service/pkg/kafka"
	"github.com/adelbaev/lending-service/pkg/logger"
	"github.com/adelbaev/lending-service/pkg/postgres"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %w", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo %w", err)
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return fmt.Errorf("kafka.NewProducer %w", err)
	}
	identityGw := identity.NewService(log, *cfg)
	svc := service.NewService(repo, identityGw, kafka.NewEnqueuer(producer), log)

	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.LibraryConsumerGroup)
	if err != nil {
		return fmt.Errorf("kafka.NewConsumer %w", err)
	}

	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Run(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		kafka.Consume(gCtx, consumer, handler.NewConsumer(svc.SaveLoanEvent, log), kafka.LoanEventsTopic, log)
		return nil
	})

	<-gCtx.Done()
	log.Debug("Graceful shutdown")

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	if err := consumer.Close(); err != nil {
		log.Error("consumer.Close", zap.Error(err))
	}
	if err := producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	db.Close()

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}
