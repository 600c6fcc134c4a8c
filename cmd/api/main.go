package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/modelify-app/modelify-backend/config"
	"github.com/modelify-app/modelify-backend/internal/auth"
	"github.com/modelify-app/modelify-backend/internal/bootstrap"
	"github.com/modelify-app/modelify-backend/internal/payments"
	cronjob "github.com/modelify-app/modelify-backend/internal/projects/cron"
	"github.com/modelify-app/modelify-backend/internal/storage/blob"
	"github.com/modelify-app/modelify-backend/internal/storage/postgres"
	usersrepo "github.com/modelify-app/modelify-backend/internal/users/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	blobStore, err := blob.New(context.Background(), &cfg.Storage)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	var dedupe *payments.EventDedupe
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		dedupe = payments.NewEventDedupe(rdb)
	} else {
		log.Println("REDIS_ADDR not set, webhook dedupe disabled")
	}

	resolver := auth.NewResolver(&cfg.Auth)
	orchestrator := payments.NewOrchestrator(&cfg.Stripe, cfg.App.FrontendURL, usersrepo.NewUserRepository(db))

	router, lifecycle := bootstrap.BuildRouter(bootstrap.RouterDeps{
		Config:       cfg,
		DB:           db,
		Blob:         blobStore,
		Resolver:     resolver,
		Orchestrator: orchestrator,
		Dedupe:       dedupe,
	})

	cronjob.NewScheduler(lifecycle).Start()

	log.Printf("modelify-api %s listening on :%s", cfg.App.Version, cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
