package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"civicpulse/backend/internal/api/handler"
	"civicpulse/backend/internal/config"
	"civicpulse/backend/internal/evidence"
	"civicpulse/backend/internal/extraction"
	"civicpulse/backend/internal/geo"
	"civicpulse/backend/internal/identity"
	"civicpulse/backend/internal/intake"
	"civicpulse/backend/internal/localization"
	"civicpulse/backend/internal/notify"
	"civicpulse/backend/internal/realtime"
	"civicpulse/backend/internal/status"
	"civicpulse/backend/internal/storage"
	"civicpulse/backend/internal/telegram"
	"civicpulse/backend/internal/votes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Settings) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	log.Println("Database and Redis connections established.")
	return db, rdb
}

func main() {
	log.Println("Starting CivicPulse Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)
	if err := s.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var evidenceStore evidence.Store
	if store, err := evidence.NewCloudinaryStore(cfg.CloudinaryURL); err != nil {
		log.Printf("Warning: evidence uploads disabled: %v", err)
		evidenceStore = evidence.Disabled{}
	} else {
		evidenceStore = store
	}

	localizer, err := localization.NewLocalizer(cfg.LocalizationDir)
	if err != nil {
		log.Fatalf("Failed to load localization: %v", err)
	}

	aiClient := extraction.NewClient(cfg.ExtractionURL, cfg.ExtractionKey)
	assistant := extraction.NewAssistant(aiClient, localizer)

	// No server-side locator exists: browser clients send coordinates
	// with the draft, everyone else gets the sentinel.
	intakeSvc := intake.NewService(s, evidenceStore, aiClient, geo.NewResolver(nil))
	statusMgr := status.NewManager(s, notify.NewWebhookDispatcher(cfg.NotifyWebhook))
	registry := votes.NewRegistry(s)
	resolver := identity.NewResolver(cfg.JWTSecret, s)

	hub := realtime.NewHub(s)
	go hub.Run()

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBotService(cfg.TelegramToken, assistant, intakeSvc, localizer)
		if err != nil {
			log.Fatalf("Failed to start Telegram bot: %v", err)
		}
		go bot.Run()
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, Telegram intake disabled.")
	}

	r := gin.Default()
	h := handler.NewHandler(intakeSvc, statusMgr, registry, assistant, hub, resolver, s)
	r.Use(h.IdentityMiddleware())

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/chat", h.Chat)
	r.POST("/complaints", h.SubmitComplaint)
	r.GET("/complaints", h.ListComplaints)
	r.GET("/complaints/:id", h.GetComplaint)
	r.POST("/complaints/:id/upvote", h.Upvote)
	r.PATCH("/complaints/:id/status", h.SetStatus)
	r.GET("/ws", h.Subscribe)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
