package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/adelbaev/lending-service/identity/config"
	"github.com/adelbaev/lending-service/identity/internal/handler"
	"github.com/adelbaev/lending-service/identity/internal/repository"
	"github.com/adelbaev/lending-service/identity/internal/server"
	"github.com/adelbaev/lending-service/identity/internal/service"
	"github.com/adelbaev/lending-service/identity/migrations"
	"github.com/adelbaev/lending-service/pkg/logger"
	"github.com/adelbaev/lending-service/pkg/postgres"
	"github.com/adelbaev/lending-service/pkg/redis"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "identity")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %w", err)
	}
	rdb, err := redis.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis init %w", err)
	}

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo %w", err)
	}
	svc := service.NewService(repo, repository.NewTokenStore(rdb), log)

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

	<-gCtx.Done()
	log.Debug("Graceful shutdown")

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		log.Error("rdb.Close", zap.Error(err))
	}
	db.Close()

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}
