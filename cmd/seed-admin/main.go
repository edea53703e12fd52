// Command seed-admin creates the administrator account when none exists and exits.
package main

import (
	"context"
	"os"

	"github.com/portfolio-cms/portfolio-api/internal/admins"
	"github.com/portfolio-cms/portfolio-api/internal/config"
	"github.com/portfolio-cms/portfolio-api/internal/database"
	"github.com/portfolio-cms/portfolio-api/internal/tokens"
	"github.com/portfolio-cms/portfolio-api/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		logger.Fatalf("cannot connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	db := client.Database(cfg.MongoDB.Database)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Warnf("ensure indexes: %v", err)
	}

	svc := admins.NewService(
		admins.NewMongoRepository(db.Collection(database.AdminsCollection)),
		tokens.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL),
	)
	created, err := svc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		logger.Fatalf("seed admin: %v", err)
	}
	if created {
		logger.Infof("admin %s created", cfg.Admin.Email)
		return
	}
	logger.Infof("an admin already exists, nothing to do")
}
