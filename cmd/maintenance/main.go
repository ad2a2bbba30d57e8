// Command maintenance runs one-off repair jobs against the accounts database.
package main

import (
	"fmt"
	"os"

	"press_admin/internal/config"
	"press_admin/internal/database"
	"press_admin/internal/logger"
	"press_admin/internal/metrics"
	"press_admin/internal/repository"
	"press_admin/internal/services"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := newRootCmd(openServices).Execute(); err != nil {
		os.Exit(1)
	}
}

func openServices() (services.MaintenanceService, func(), error) {
	cfg := config.Load()

	zlog, err := logger.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.Initialize(cfg.DatabaseURL, false, zlog)
	if err != nil {
		return nil, nil, err
	}

	store := repository.NewStore(db)
	m := metrics.NewMetrics(prometheus.NewRegistry())
	accounts := services.NewAccountService(store, services.NewCredentialGenerator(cfg.PasswordLength), cfg.LoginURL(), m, zlog.Named("accounts"))

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = zlog.Sync()
	}
	return services.NewMaintenanceService(store, accounts, zlog.Named("maintenance")), cleanup, nil
}
