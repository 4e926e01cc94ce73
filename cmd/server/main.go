package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/portapro/portapro-api/internal/config"
	"github.com/portapro/portapro-api/internal/database"
	"github.com/portapro/portapro-api/internal/handler"
	"github.com/portapro/portapro-api/internal/mailer"
	"github.com/portapro/portapro-api/internal/media"
	"github.com/portapro/portapro-api/internal/queue"
	"github.com/portapro/portapro-api/internal/repository"
	"github.com/portapro/portapro-api/internal/router"
	"github.com/portapro/portapro-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	// Mail pipeline: handlers publish jobs, the background worker delivers.
	mailCfg := config.LoadMailConfig()
	mail, err := mailer.New(mailCfg)
	if err != nil {
		log.Fatalf("mailer: %v", err)
	}
	notifier := mailer.NewQueueNotifier(mailCfg.AMQPURL, mail)
	go func() {
		if err := queue.StartMailConsumer(mailCfg.AMQPURL, mail.Send); err != nil {
			log.Printf("mail consumer stopped: %v", err)
		}
	}()

	// Media store is optional; uploads return 503 until configured.
	var uploads handler.MediaUploader
	mediaCfg := config.LoadMediaConfig()
	if mediaCfg.Enabled() {
		store, err := media.NewStore(context.Background(), mediaCfg)
		if err != nil {
			log.Fatalf("media store: %v", err)
		}
		uploads = store
	} else {
		log.Printf("media store not configured; project media uploads disabled")
	}

	users := repository.NewUserRepo(db)
	projects := repository.NewProjectRepo(db)
	auth := service.NewAuthService(users, notifier, cfg.JWTSecret, cfg.SessionTTLMin, cfg.BcryptCost)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:     handler.NewAuthHandler(auth),
		Users:    handler.NewUserHandler(users),
		Projects: handler.NewProjectHandler(projects, uploads),
	}, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
