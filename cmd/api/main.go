package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/uptrace/bun"

	"github.com/hauskeep/hauskeep/pkg/auth"
	"github.com/hauskeep/hauskeep/pkg/cloud"
	"github.com/hauskeep/hauskeep/pkg/config"
	"github.com/hauskeep/hauskeep/pkg/database"
	"github.com/hauskeep/hauskeep/pkg/migrations"
	"github.com/hauskeep/hauskeep/pkg/server"
	"github.com/hauskeep/hauskeep/pkg/transfer"
	"github.com/hauskeep/hauskeep/pkg/version"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting hauskeep", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		log.Err(err).Fatal("migrations error")
	}
	if group.ID == 0 {
		log.Info("no new migrations to run")
	} else {
		log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}

	if err := ensureAdminUser(ctx, cfg, db); err != nil {
		log.Err(err).Fatal("admin user error")
	}

	client := cloud.New(cfg.CloudBaseURL)
	orchestrator := transfer.NewOrchestrator(db, client)

	srv, err := server.New(cfg, db, orchestrator)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}

		log.Info("server started", logger.Data{"port": listener.Addr().(*net.TCPAddr).Port})

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	// A running transfer is stopped cooperatively and drained before the
	// database closes; the interrupted session stays in progress in the
	// ledger and is offered for resume on the next start.
	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, 15*time.Second)
	orchestrator.Shutdown(shutdownCtx)
	cancelShutdown()

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}

// ensureAdminUser creates the initial admin account on first boot.
func ensureAdminUser(ctx context.Context, cfg *config.Config, db *bun.DB) error {
	authService := auth.NewService(db, cfg.JWTSecret)

	count, err := authService.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = authService.CreateUser(ctx, "admin", cfg.AdminPassword)
	return err
}
