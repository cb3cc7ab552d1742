package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/api"
	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/common"
	"github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage"
)

func main() {
	logger := logging.SetupLogging()
	logger.Info("ledger-server starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}
	if err := logging.SetLevel(logger, envConfig.LogLevel); err != nil {
		logger.WithError(err).Fatal("logging.SetLevel")
		return
	}

	migration, err := storage.RunMigrations(envConfig.PostgresDSN())
	if err != nil {
		logger.WithError(err).Fatal("storage.RunMigrations")
		return
	}
	logger.WithFields(logrus.Fields{
		"preMigrationVersion":  migration.PreMigrationVersion,
		"postMigrationVersion": migration.PostMigrationVersion,
	}).Info("Migration status")

	dbStorage, err := storage.NewStorage(envConfig)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer dbStorage.Close()

	delegator := operator.NewOperatorDelegator(dbStorage, envConfig.OperatorWorkers, logger)
	delegator.Start()
	defer delegator.Stop()

	svc := service.NewService(dbStorage, delegator)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ensureAdmin(ctx, logger, svc.User, envConfig)

	httpRest := api.Rest{
		Logger:  logger,
		Port:    envConfig.HTTPPort,
		Storage: dbStorage,
		Service: svc,
		Tokens:  auth.NewTokenIssuer(envConfig.TokenSecret, envConfig.TokenTTL),
	}
	if err := httpRest.Serve(ctx); err != nil {
		logger.WithError(err).Error("api.Serve")
	}
	logger.Info("ledger-server stopped")
}

// ensureAdmin bootstraps the administrator account. Without ADMIN_PASSWORD
// an existing administrator is only verified.
func ensureAdmin(ctx context.Context, logger *logrus.Logger, users *service.UserService, env *config.Config) {
	admin, created, err := users.EnsureAdmin(ctx, env.AdminUsername, env.AdminPassword)
	switch {
	case errors.Is(err, common.ErrorInvalidInput) && env.AdminPassword == "":
		logger.WithField("username", env.AdminUsername).
			Warn("EnsureAdmin.no administrator and ADMIN_PASSWORD unset, use cmd/adduser -admin")
	case err != nil:
		logger.WithError(err).Fatal("EnsureAdmin")
	case created:
		logger.WithField("userID", admin.ID).Info("EnsureAdmin.created")
	default:
		logger.WithField("userID", admin.ID).Debug("EnsureAdmin.exists")
	}
}
