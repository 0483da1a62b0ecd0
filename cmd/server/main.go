package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/config"
	"github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/db"
	internalhttp "github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/http"
	"github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/model"
	"github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/objstore"
	"github.com/durkkasinfotech/MathematicsDay2025-sub000/internal/repository"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *repository.Store
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db connection failed: %v", err)
		}
		defer pool.Close()
		if err := db.EnsureSchema(ctx, pool); err != nil {
			log.Fatalf("schema init failed: %v", err)
		}
		store = repository.NewStore(pool)
		bootstrapAdmin(ctx, store, cfg)
	} else {
		log.Printf("DATABASE_URL not set; data routes will answer backend_not_configured")
	}

	var objects *objstore.Client
	if cfg.StorageEndpoint != "" {
		var err error
		objects, err = objstore.New(cfg.StorageEndpoint, cfg.StorageAccessKey, cfg.StorageSecretKey, cfg.StorageBucket, cfg.StoragePublicURL, cfg.StorageUseSSL)
		if err != nil {
			log.Fatalf("object storage init failed: %v", err)
		}
	} else {
		log.Printf("STORAGE_ENDPOINT not set; project uploads will answer storage_not_configured")
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}()
	}

	server := internalhttp.NewServer(cfg, store, objects, redisClient)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("registration api listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// bootstrapAdmin seeds the configured bootstrap credentials into admin_users
// so the environment fallback is only needed until the first successful boot.
func bootstrapAdmin(ctx context.Context, store *repository.Store, cfg config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPasswordHash == "" {
		return
	}
	err := store.CreateAdmin(ctx, model.AdminUser{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(cfg.AdminEmail),
		PasswordHash: cfg.AdminPasswordHash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		log.Printf("admin bootstrap failed: %v", err)
	}
}
