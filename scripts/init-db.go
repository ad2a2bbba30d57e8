package main

import (
	"context"
	"fmt"
	"log"

	"press_admin/internal/config"
	"press_admin/internal/database"
	"press_admin/internal/logger"
	"press_admin/internal/metrics"
	"press_admin/internal/migrations"
	"press_admin/internal/models"
	"press_admin/internal/repository"
	"press_admin/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
)

func main() {
	fmt.Println("Initializing database...")

	cfg := config.Load()
	zlog, err := logger.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zlog.Sync()

	db, err := database.Initialize(cfg.DatabaseURL, cfg.LogDev, zlog)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	fmt.Println("Running migrations...")
	if err := migrations.RunMigrations(db, zlog); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	ctx := context.Background()
	store := repository.NewStore(db)

	count, err := store.Accounts().Count(ctx)
	if err != nil {
		log.Fatal("Failed to count accounts:", err)
	}
	if count > 0 {
		fmt.Printf("Found %d existing account(s), skipping admin bootstrap\n", count)
		return
	}

	v := viper.New()
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("ADMIN_FIRST_NAME", "Admin")
	v.SetDefault("ADMIN_LAST_NAME", "")
	v.SetDefault("ADMIN_CONTACT_NUMBER", "")
	v.AutomaticEnv()

	fmt.Println("Creating first admin account...")
	accounts := services.NewAccountService(
		store,
		services.NewCredentialGenerator(cfg.PasswordLength),
		cfg.LoginURL(),
		metrics.NewMetrics(prometheus.NewRegistry()),
		zlog.Named("accounts"),
	)
	res, err := accounts.Create(ctx, services.CreateAccountInput{
		Role:          models.RoleAdmin,
		FirstName:     v.GetString("ADMIN_FIRST_NAME"),
		LastName:      v.GetString("ADMIN_LAST_NAME"),
		Email:         v.GetString("ADMIN_EMAIL"),
		ContactNumber: v.GetString("ADMIN_CONTACT_NUMBER"),
	})
	if err != nil {
		log.Fatal("Failed to create admin account:", err)
	}

	fmt.Println("Admin account created successfully")
	fmt.Println("Username:", res.Account.Username)
	fmt.Println("Password:", res.Credential)
	fmt.Println("Login:", res.LoginURL)
	fmt.Println("Database initialization completed successfully!")
}
