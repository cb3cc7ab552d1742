package main

import (
	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/storage"
)

func main() {
	logger := logging.SetupLogging()

	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	logger.WithFields(logrus.Fields{
		"address":  env.PostgresAddress,
		"port":     env.PostgresPort,
		"database": env.PostgresDB,
	}).Info("Migrating")

	result, err := storage.RunMigrations(env.PostgresDSN())
	if err != nil {
		logger.WithError(err).Fatal("storage.RunMigrations")
		return
	}

	logger.WithFields(logrus.Fields{
		"preMigrationVersion":  result.PreMigrationVersion,
		"postMigrationVersion": result.PostMigrationVersion,
	}).Info("Migration status")
}
